package app

import (
	"fmt"

	"color-quiz-service/internal/domain"
)

// ValidateAnswers checks the shape of a full submission. Checks run in a fixed order and the
// first failure wins: answer count, then per answer its selection count and option keys.
func ValidateAnswers(answers []domain.Answer) error {
	if len(answers) != domain.AnswerCount {
		return &domain.ValidationError{
			Code:     domain.InvalidAnswerCount,
			Position: -1,
			Message:  fmt.Sprintf("please provide answers for all %d questions, got %d", domain.AnswerCount, len(answers)),
		}
	}

	for i, answer := range answers {
		if n := len(answer.SelectedOptions); n < 1 || n > 2 {
			return &domain.ValidationError{
				Code:           domain.InvalidSelectionCount,
				QuestionNumber: answer.QuestionNumber,
				Position:       i,
				Message:        fmt.Sprintf("question %d must have 1 or 2 selected options, got %d", answer.QuestionNumber, n),
			}
		}
		for _, selected := range answer.SelectedOptions {
			if _, ok := domain.OptionColors[selected.Key]; !ok {
				return &domain.ValidationError{
					Code:           domain.InvalidOptionKey,
					QuestionNumber: answer.QuestionNumber,
					Position:       i,
					Key:            selected.Key,
					Message:        fmt.Sprintf("invalid option key %q for question %d", selected.Key, answer.QuestionNumber),
				}
			}
		}
	}
	return nil
}

// Score sums the client-supplied points per color. Unknown keys are ignored; call
// ValidateAnswers first.
//
// Points are taken as sent, without checking the 2-then-1 convention.
func Score(answers []domain.Answer) domain.ColorTotals {
	var totals domain.ColorTotals
	for _, answer := range answers {
		for _, selected := range answer.SelectedOptions {
			totals.Add(domain.OptionColors[selected.Key], selected.Points)
		}
	}
	return totals
}

// Evaluate validates and scores a submission.
func Evaluate(answers []domain.Answer) (domain.ColorTotals, error) {
	if err := ValidateAnswers(answers); err != nil {
		return domain.ColorTotals{}, err
	}
	return Score(answers), nil
}
