// Package grader scores submitted responses against the authoritative
// question data. It is pure: given the same responses and questions it
// always produces the same result.
package grader

import "github.com/Dacosmicgiant/fitness-mock/internal/models"

// Response is one submitted answer: which option the client picked for a
// question.
type Response struct {
	QuestionID     string
	SelectedOption int
}

// GradedResponse carries the verdict for one graded response.
type GradedResponse struct {
	QuestionID     string
	SelectedOption int
	IsCorrect      bool
}

// Result is the outcome of grading one submission. MaxScore counts only the
// responses whose question could be found; a response referencing a deleted
// question is excluded from both numerator and denominator.
type Result struct {
	Responses []GradedResponse
	Score     int
	MaxScore  int
}

// Grade scores each response whose question exists in the given map. An
// out-of-range option index is a wrong answer, never an error.
func Grade(responses []Response, questions map[string]models.Question) Result {
	var result Result
	for _, resp := range responses {
		q, ok := questions[resp.QuestionID]
		if !ok {
			continue
		}
		correct := isCorrect(q, resp.SelectedOption)
		result.Responses = append(result.Responses, GradedResponse{
			QuestionID:     resp.QuestionID,
			SelectedOption: resp.SelectedOption,
			IsCorrect:      correct,
		})
		result.MaxScore++
		if correct {
			result.Score++
		}
	}
	return result
}

func isCorrect(q models.Question, selected int) bool {
	if selected < 0 || selected >= len(q.Options) {
		return false
	}
	return q.Options[selected].IsCorrect
}
