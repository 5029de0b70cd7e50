package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dacosmicgiant/fitness-mock/internal/grader"
	"github.com/Dacosmicgiant/fitness-mock/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultQuestionCount is used when the client does not ask for a specific
// test length.
const defaultQuestionCount = 25

type TestHandler struct {
	tests *service.TestService
	log   *zap.Logger
}

func NewTestHandler(tests *service.TestService, log *zap.Logger) *TestHandler {
	return &TestHandler{tests: tests, log: log}
}

// QuestionsForTest serves a sanitized, stratified question set. moduleId
// scopes the test to one module; without it the whole certification is in
// scope.
func (h *TestHandler) QuestionsForTest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	certificationID := c.Query("certificationId")
	moduleID := c.Query("moduleId")
	if certificationID == "" && moduleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "certificationId or moduleId is required"})
		return
	}
	var ids []string
	if certificationID != "" {
		ids = append(ids, certificationID)
	}
	if moduleID != "" {
		ids = append(ids, moduleID)
	}
	if !requireUUID(c, ids...) {
		return
	}

	count := defaultQuestionCount
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "count must be a positive integer"})
			return
		}
		count = parsed
	}

	paper, err := h.tests.QuestionsForTest(c.Request.Context(), user.ID, certificationID, moduleID, c.Query("difficulty"), count)
	if err != nil {
		respondError(c, h.log, err, "tests.questionsForTest")
		return
	}
	c.JSON(http.StatusOK, paper)
}

type submitAttemptRequest struct {
	CertificationID string            `json:"certificationId" binding:"required"`
	ModuleID        string            `json:"moduleId"`
	IsFullTest      bool              `json:"isFullTest"`
	Responses       []responsePayload `json:"responses" binding:"required"`
	Duration        int               `json:"duration"`
}

type responsePayload struct {
	QuestionID     string `json:"questionId"`
	SelectedOption int    `json:"selectedOption"`
}

// SubmitAttempt grades a finished test and persists the attempt record.
func (h *TestHandler) SubmitAttempt(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed submission"})
		return
	}
	ids := []string{req.CertificationID}
	if req.ModuleID != "" {
		ids = append(ids, req.ModuleID)
	}
	for _, r := range req.Responses {
		ids = append(ids, r.QuestionID)
	}
	if !requireUUID(c, ids...) {
		return
	}

	responses := make([]grader.Response, len(req.Responses))
	for i, r := range req.Responses {
		responses[i] = grader.Response{
			QuestionID:     r.QuestionID,
			SelectedOption: r.SelectedOption,
		}
	}

	summary, err := h.tests.SubmitAttempt(c.Request.Context(), user.ID, service.SubmitRequest{
		CertificationID: req.CertificationID,
		ModuleID:        req.ModuleID,
		IsFullTest:      req.IsFullTest,
		Responses:       responses,
		DurationSeconds: req.Duration,
	})
	if err != nil {
		respondError(c, h.log, err, "tests.submitAttempt")
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// ListAttempts returns the caller's attempt history, newest first.
func (h *TestHandler) ListAttempts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	attempts, err := h.tests.AttemptsForUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.log, err, "tests.listAttempts")
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// AttemptByID returns one attempt; only its owner may read it.
func (h *TestHandler) AttemptByID(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	id := c.Param("id")
	if !requireUUID(c, id) {
		return
	}

	attempt, err := h.tests.AttemptByID(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, h.log, err, "tests.attemptByID")
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// Stats returns the caller's aggregate performance metrics, optionally
// scoped to one certification.
func (h *TestHandler) Stats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	certificationID := c.Query("certificationId")
	if certificationID != "" && !requireUUID(c, certificationID) {
		return
	}

	statsOut, err := h.tests.ComputeStats(c.Request.Context(), user.ID, certificationID)
	if err != nil {
		respondError(c, h.log, err, "tests.stats")
		return
	}
	c.JSON(http.StatusOK, statsOut)
}
