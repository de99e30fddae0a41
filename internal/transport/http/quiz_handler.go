package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// QuizHandler serves the question bank and quiz submissions.
type QuizHandler struct {
	quiz *app.QuizService
}

func NewQuizHandler(quiz *app.QuizService) *QuizHandler {
	return &QuizHandler{quiz: quiz}
}

// submitRequest keeps answers raw so a non-list is reported as a wrong answer count.
type submitRequest struct {
	Answers json.RawMessage `json:"answers"`
}

type answerRequest struct {
	QuestionNumber  int             `json:"questionNumber"`
	SelectedOptions json.RawMessage `json:"selectedOptions"`
}

type selectedOptionRequest struct {
	Key    any `json:"key"`
	Points int `json:"points" binding:"oneof=1 2"`
}

type pointsRequest struct {
	Options []selectedOptionRequest `binding:"dive"`
}

func (h *QuizHandler) Questions(c *gin.Context) {
	questions, err := h.quiz.Questions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"count": len(questions), "data": questions})
}

func (h *QuizHandler) Question(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("questionNumber"))
	if err != nil {
		// a non-numeric number matches no question
		respondError(c, domain.ErrQuestionNotFound)
		return
	}
	question, err := h.quiz.Question(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": question})
}

func (h *QuizHandler) Init(c *gin.Context) {
	questions, err := h.quiz.InitQuestions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"count": len(questions), "data": questions})
}

func (h *QuizHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError(domain.InvalidRequest, "request body must be JSON with an answers array"))
		return
	}
	answers, options, err := decodeAnswers(req.Answers)
	if err != nil {
		respondError(c, domain.NewValidationError(domain.InvalidRequest, "answers must be objects with questionNumber and selectedOptions"))
		return
	}
	if err := app.ValidateAnswers(answers); err != nil {
		respondError(c, err)
		return
	}
	if err := binding.Validator.ValidateStruct(pointsRequest{Options: options}); err != nil {
		respondError(c, domain.NewValidationError(domain.InvalidRequest, "selected option points must be 1 or 2"))
		return
	}

	result, err := h.quiz.Submit(c.Request.Context(), answers)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"data": result.Summary()})
}

func (h *QuizHandler) Result(c *gin.Context) {
	result, err := h.quiz.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": result.Summary()})
}

func (h *QuizHandler) Results(c *gin.Context) {
	results, err := h.quiz.Results(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	summaries := make([]domain.ResultSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, r.Summary())
	}
	respondOK(c, http.StatusOK, gin.H{"count": len(summaries), "data": summaries})
}

func decodeAnswers(raw json.RawMessage) ([]domain.Answer, []selectedOptionRequest, error) {
	items, ok := jsonList(raw)
	if !ok {
		return nil, nil, nil
	}
	answers := make([]domain.Answer, 0, len(items))
	var options []selectedOptionRequest
	for _, item := range items {
		var req answerRequest
		if err := json.Unmarshal(item, &req); err != nil {
			return nil, nil, err
		}
		answer := domain.Answer{QuestionNumber: req.QuestionNumber}
		selected, _ := jsonList(req.SelectedOptions)
		for _, raw := range selected {
			var opt selectedOptionRequest
			if err := json.Unmarshal(raw, &opt); err != nil {
				return nil, nil, err
			}
			options = append(options, opt)
			answer.SelectedOptions = append(answer.SelectedOptions, domain.SelectedOption{Key: optionKey(opt.Key), Points: opt.Points})
		}
		answers = append(answers, answer)
	}
	return answers, options, nil
}

// jsonList reports false when raw is missing or not a JSON array.
func jsonList(raw json.RawMessage) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func optionKey(v any) string {
	switch key := v.(type) {
	case string:
		return key
	case nil:
		return ""
	default:
		return fmt.Sprint(key)
	}
}
