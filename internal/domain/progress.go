package domain

// ModuleStatus drives the dashboard's start/continue/completed button.
type ModuleStatus string

const (
	StatusStart     ModuleStatus = "start"
	StatusContinue  ModuleStatus = "continue"
	StatusCompleted ModuleStatus = "completed"
)

// DeriveStatus maps completed/total subject counts to a module status.
// A module with no subjects is always StatusStart.
func DeriveStatus(total, completed int) ModuleStatus {
	switch {
	case total > 0 && completed >= total:
		return StatusCompleted
	case completed > 0:
		return StatusContinue
	default:
		return StatusStart
	}
}

// NewModuleProgress builds the aggregate view from per-subject states.
func NewModuleProgress(moduleID ID, subjects []SubjectProgress) ModuleProgress {
	if subjects == nil {
		subjects = []SubjectProgress{}
	}
	completed := 0
	for _, s := range subjects {
		if s.Completed {
			completed++
		}
	}
	return ModuleProgress{
		ModuleID:  moduleID,
		Total:     len(subjects),
		Completed: completed,
		Status:    DeriveStatus(len(subjects), completed),
		Subjects:  subjects,
	}
}

// Performance returns the display band for a score.
func Performance(score, total int) string {
	if total <= 0 {
		return "Keep Practicing!"
	}
	pct := score * 100 / total
	switch {
	case pct == 100:
		return "Perfect Score!"
	case pct >= 80:
		return "Excellent!"
	case pct >= 60:
		return "Good Job!"
	default:
		return "Keep Practicing!"
	}
}
