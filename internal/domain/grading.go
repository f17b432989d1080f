package domain

// GradeAnswers turns a student's selections (question id -> option label) into ordered
// answer records and a score. Questions without a selection count as incorrect.
func GradeAnswers(questions []Question, selections map[ID]string) ([]AnswerRecord, int) {
	answers := make([]AnswerRecord, 0, len(questions))
	score := 0
	for _, q := range questions {
		selected := NormalizeOption(selections[q.ID])
		correct := NormalizeOption(q.CorrectAnswer)
		ok := selected != "" && selected == correct
		if ok {
			score++
		}
		answers = append(answers, AnswerRecord{
			QuestionID:     q.ID,
			SelectedOption: selected,
			CorrectOption:  correct,
			IsCorrect:      ok,
		})
	}
	return answers, score
}
