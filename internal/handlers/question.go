package handlers

import (
	"net/http"

	"github.com/Dacosmicgiant/fitness-mock/internal/models"
	"github.com/Dacosmicgiant/fitness-mock/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuestionHandler struct {
	questions *repository.QuestionRepo
	content   *repository.ContentRepo
	log       *zap.Logger
}

func NewQuestionHandler(questions *repository.QuestionRepo, content *repository.ContentRepo, log *zap.Logger) *QuestionHandler {
	return &QuestionHandler{questions: questions, content: content, log: log}
}

func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "questions.list")
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	if !requireUUID(c, c.Param("id")) {
		return
	}
	q, err := h.questions.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "questions.get")
		return
	}
	c.JSON(http.StatusOK, q)
}

// ByModule lists a module's questions with the answer key stripped; this
// endpoint is for study browsing by regular users.
func (h *QuestionHandler) ByModule(c *gin.Context) {
	moduleID := c.Param("moduleId")
	if !requireUUID(c, moduleID) {
		return
	}
	if _, err := h.content.ModuleByID(c.Request.Context(), moduleID); err != nil {
		respondError(c, h.log, err, "questions.byModule")
		return
	}

	questions, err := h.questions.ByModule(c.Request.Context(), moduleID)
	if err != nil {
		respondError(c, h.log, err, "questions.byModule")
		return
	}

	type option struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	type question struct {
		ID          string   `json:"id"`
		Text        string   `json:"text"`
		Difficulty  string   `json:"difficulty"`
		Explanation string   `json:"explanation"`
		Options     []option `json:"options"`
	}

	out := make([]question, len(questions))
	for i, q := range questions {
		opts := make([]option, len(q.Options))
		for j, o := range q.Options {
			opts[j] = option{ID: o.ID, Text: o.Text}
		}
		out[i] = question{
			ID:          q.ID,
			Text:        q.Text,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
			Options:     opts,
		}
	}
	c.JSON(http.StatusOK, out)
}

type questionRequest struct {
	Text        string          `json:"text" binding:"required"`
	Difficulty  string          `json:"difficulty" binding:"required"`
	Explanation string          `json:"explanation" binding:"required"`
	ModuleID    string          `json:"moduleId" binding:"required"`
	Options     []optionPayload `json:"options" binding:"required"`
}

type optionPayload struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "text, difficulty, explanation, moduleId and options are required"})
		return
	}
	if msg, ok := validateQuestion(&req); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}
	if !requireUUID(c, req.ModuleID) {
		return
	}
	if _, err := h.content.ModuleByID(c.Request.Context(), req.ModuleID); err != nil {
		respondError(c, h.log, err, "questions.create")
		return
	}

	q := toQuestion(&req, "")
	if err := h.questions.Create(c.Request.Context(), q); err != nil {
		respondError(c, h.log, err, "questions.create")
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "text, difficulty, explanation, moduleId and options are required"})
		return
	}
	if msg, ok := validateQuestion(&req); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}
	if !requireUUID(c, c.Param("id"), req.ModuleID) {
		return
	}
	if _, err := h.content.ModuleByID(c.Request.Context(), req.ModuleID); err != nil {
		respondError(c, h.log, err, "questions.update")
		return
	}

	q := toQuestion(&req, c.Param("id"))
	if err := h.questions.Update(c.Request.Context(), q); err != nil {
		respondError(c, h.log, err, "questions.update")
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	if !requireUUID(c, c.Param("id")) {
		return
	}
	if err := h.questions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "questions.delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "question removed"})
}

// validateQuestion enforces the content invariants: a known difficulty, at
// least two options, at least one of them correct.
func validateQuestion(req *questionRequest) (string, bool) {
	if !models.ValidDifficulty(req.Difficulty) {
		return "difficulty must be one of easy, medium, hard", false
	}
	if len(req.Options) < 2 {
		return "at least 2 options are required", false
	}
	hasCorrect := false
	for _, opt := range req.Options {
		if opt.IsCorrect {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return "at least one option must be correct", false
	}
	return "", true
}

func toQuestion(req *questionRequest, id string) *models.Question {
	q := &models.Question{
		ID:          id,
		Text:        req.Text,
		Difficulty:  req.Difficulty,
		Explanation: req.Explanation,
		ModuleID:    req.ModuleID,
	}
	for i, opt := range req.Options {
		q.Options = append(q.Options, models.AnswerOption{
			Position:  i,
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
		})
	}
	return q
}
