package domain

import "time"

// DefaultStudentID is the only student the app knows about.
const DefaultStudentID int64 = 1

// Option labels of a multiple-choice question.
const (
	OptionA = "a"
	OptionB = "b"
	OptionC = "c"
	OptionD = "d"
)

// Module is a dated bundle of subjects (one day's learning content).
type Module struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	ClassName string `json:"class_name"`
}

// Subject is a named topic within a module.
type Subject struct {
	ID         ID     `json:"id"`
	ModuleID   ID     `json:"module_id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
}

// TheoryPage is one page of instructional content within a subject.
type TheoryPage struct {
	ID         ID     `json:"id"`
	SubjectID  ID     `json:"subject_id"`
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// Options holds the four labelled answer slots of a question.
type Options struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
	D string `json:"d"`
}

// Question is one multiple-choice quiz item.
type Question struct {
	ID            ID      `json:"id"`
	SubjectID     ID      `json:"subject_id"`
	QuestionText  string  `json:"question_text"`
	Options       Options `json:"options"`
	CorrectAnswer string  `json:"correct_answer"`
}

// AnswerRecord is the stored outcome of a single question within an attempt.
type AnswerRecord struct {
	QuestionID     ID     `json:"questionId"`
	SelectedOption string `json:"selectedOption"`
	CorrectOption  string `json:"correctOption"`
	IsCorrect      bool   `json:"isCorrect"`
}

// ResultInput carries everything needed to record one completed quiz.
type ResultInput struct {
	StudentID      int64
	ModuleID       ID
	SubjectID      ID
	Answers        []AnswerRecord
	Score          int
	TotalQuestions int
}

// Result is one immutable record of a completed quiz attempt.
type Result struct {
	ID             int64          `json:"id"`
	StudentID      int64          `json:"student_id"`
	ModuleID       ID             `json:"module_id"`
	SubjectID      ID             `json:"subject_id"`
	Answers        []AnswerRecord `json:"answers"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	Completed      bool           `json:"completed"`
	Synced         bool           `json:"synced"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ResultView is a Result joined with the names needed for display.
type ResultView struct {
	Result
	SubjectName string `json:"subject_name"`
	ModuleTitle string `json:"module_title"`
}

// SubjectProgress is the derived completion state of one subject.
type SubjectProgress struct {
	SubjectID  ID     `json:"subject_id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
	Completed  bool   `json:"completed"`
}

// ModuleProgress is the derived completion state of a module.
type ModuleProgress struct {
	ModuleID  ID                `json:"module_id"`
	Total     int               `json:"total"`
	Completed int               `json:"completed"`
	Status    ModuleStatus      `json:"status"`
	Subjects  []SubjectProgress `json:"subjects"`
}
