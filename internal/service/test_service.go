// Package service orchestrates the test-session lifecycle: entitlement
// gating, question selection, grading, attempt persistence and statistics.
package service

import (
	"context"
	"time"

	"github.com/Dacosmicgiant/fitness-mock/internal/apperr"
	"github.com/Dacosmicgiant/fitness-mock/internal/entitlement"
	"github.com/Dacosmicgiant/fitness-mock/internal/grader"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"
	"github.com/Dacosmicgiant/fitness-mock/internal/selector"
	"github.com/Dacosmicgiant/fitness-mock/internal/stats"

	"go.uber.org/zap"
)

// PassThreshold is the fraction of maxScore needed to pass a test.
const PassThreshold = 0.7

type UserStore interface {
	ByID(ctx context.Context, id string) (*models.User, error)
}

type ContentStore interface {
	CertificationByID(ctx context.Context, id string) (*models.Certification, error)
	ModuleByID(ctx context.Context, id string) (*models.Module, error)
	CertificationTitles(ctx context.Context, ids []string) (map[string]string, error)
	ModuleTitles(ctx context.Context, ids []string) (map[string]string, error)
}

type QuestionStore interface {
	ByIDs(ctx context.Context, ids []string) ([]models.Question, error)
}

type AttemptStore interface {
	// CreateWithCredit must persist the attempt and consume one test credit
	// atomically, failing with a forbidden error when the user has no
	// entitlement left at commit time.
	CreateWithCredit(ctx context.Context, attempt *models.TestAttempt, now time.Time) error
	ByID(ctx context.Context, id string) (*models.TestAttempt, error)
	ListByUser(ctx context.Context, userID, certificationID string) ([]models.TestAttempt, error)
}

type TestService struct {
	selector  *selector.Selector
	users     UserStore
	content   ContentStore
	questions QuestionStore
	attempts  AttemptStore
	log       *zap.Logger
	now       func() time.Time
}

func NewTestService(sel *selector.Selector, users UserStore, content ContentStore, questions QuestionStore, attempts AttemptStore, log *zap.Logger) *TestService {
	return &TestService{
		selector:  sel,
		users:     users,
		content:   content,
		questions: questions,
		attempts:  attempts,
		log:       log,
		now:       time.Now,
	}
}

// TestPaper is what a client gets when it starts a test: sanitized
// questions, the ids that were served, and the quota snapshot. The server
// keeps no session state between this call and the submission.
type TestPaper struct {
	Questions         []selector.Question `json:"questions"`
	ServedQuestionIDs []string            `json:"servedQuestionIds"`
	TestsRemaining    interface{}         `json:"testsRemaining"`
}

// QuestionsForTest checks the caller's entitlement and draws a stratified
// question set. moduleID empty means a full-certification test; difficulty
// empty means the default mix, otherwise the whole test draws from that one
// bucket.
func (s *TestService) QuestionsForTest(ctx context.Context, userID, certificationID, moduleID, difficulty string, count int) (*TestPaper, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := entitlement.Check(user, now); err != nil {
		return nil, err
	}

	weights := selector.DefaultWeights
	if difficulty != "" {
		if !models.ValidDifficulty(difficulty) {
			return nil, apperr.Validation("difficulty must be one of easy, medium, hard")
		}
		weights = selector.Only(difficulty)
	}

	var scope selector.Scope
	if moduleID != "" {
		scope = selector.ModuleScope{ModuleID: moduleID}
	} else {
		scope = selector.CertificationScope{CertificationID: certificationID}
	}

	questions, err := s.selector.Select(ctx, scope, count, weights)
	if err != nil {
		return nil, err
	}

	served := make([]string, len(questions))
	for i, q := range questions {
		served[i] = q.ID
	}

	return &TestPaper{
		Questions:         questions,
		ServedQuestionIDs: served,
		TestsRemaining:    entitlement.Remaining(user, now),
	}, nil
}

// SubmitRequest is one completed test handed in for grading.
type SubmitRequest struct {
	CertificationID string
	ModuleID        string
	IsFullTest      bool
	Responses       []grader.Response
	DurationSeconds int
}

// AttemptSummary is the lightweight result returned to the client after
// grading; the full attempt stays retrievable by id.
type AttemptSummary struct {
	ID         string  `json:"id"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"maxScore"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

// SubmitAttempt grades a submission and persists the attempt. The whole
// submission either grades, spends one credit and persists, or fails with
// nothing written.
func (s *TestService) SubmitAttempt(ctx context.Context, userID string, req SubmitRequest) (*AttemptSummary, error) {
	if len(req.Responses) == 0 {
		return nil, apperr.Validation("responses must not be empty")
	}
	if req.CertificationID == "" {
		return nil, apperr.Validation("certificationId is required")
	}

	if _, err := s.content.CertificationByID(ctx, req.CertificationID); err != nil {
		return nil, err
	}
	var moduleID *string
	if req.ModuleID != "" {
		if _, err := s.content.ModuleByID(ctx, req.ModuleID); err != nil {
			return nil, err
		}
		moduleID = &req.ModuleID
	}

	ids := make([]string, len(req.Responses))
	for i, r := range req.Responses {
		ids[i] = r.QuestionID
	}
	questions, err := s.questions.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	result := grader.Grade(req.Responses, byID)
	if result.MaxScore == 0 {
		// Every submitted question id was unknown; nothing gradable.
		return nil, apperr.NotFound("questions for submitted responses")
	}

	now := s.now()
	attempt := &models.TestAttempt{
		UserID:          userID,
		CertificationID: req.CertificationID,
		ModuleID:        moduleID,
		IsFullTest:      req.IsFullTest,
		QuestionCount:   result.MaxScore,
		Score:           result.Score,
		MaxScore:        result.MaxScore,
		DurationSeconds: req.DurationSeconds,
		CompletedAt:     now,
	}
	for i, gr := range result.Responses {
		attempt.Responses = append(attempt.Responses, models.TestResponse{
			Position:       i,
			QuestionID:     gr.QuestionID,
			SelectedOption: gr.SelectedOption,
			IsCorrect:      gr.IsCorrect,
		})
	}

	if err := s.attempts.CreateWithCredit(ctx, attempt, now); err != nil {
		return nil, err
	}

	s.log.Info("Test attempt graded",
		zap.String("userID", userID),
		zap.String("attemptID", attempt.ID),
		zap.Int("score", result.Score),
		zap.Int("maxScore", result.MaxScore),
	)

	pct := attempt.Percentage()
	return &AttemptSummary{
		ID:         attempt.ID,
		Score:      result.Score,
		MaxScore:   result.MaxScore,
		Percentage: pct,
		Passed:     pct >= PassThreshold*100,
	}, nil
}

// AttemptByID fetches one attempt, enforcing ownership: a valid id held by
// the wrong user is forbidden, not merely hidden.
func (s *TestService) AttemptByID(ctx context.Context, userID, attemptID string) (*models.TestAttempt, error) {
	attempt, err := s.attempts.ByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, apperr.Forbidden("not authorized to access this test")
	}
	return attempt, nil
}

// AttemptsForUser lists the caller's attempts, newest first.
func (s *TestService) AttemptsForUser(ctx context.Context, userID string) ([]models.TestAttempt, error) {
	return s.attempts.ListByUser(ctx, userID, "")
}

// Stats bundles aggregate metrics with a per-group breakdown and the
// caller's entitlement snapshot.
type Stats struct {
	stats.Summary
	CertificationStats []stats.GroupStat `json:"certificationStats,omitempty"`
	ModuleStats        []stats.GroupStat `json:"moduleStats,omitempty"`
	TestsRemaining     interface{}       `json:"testsRemaining"`
	SubscriptionStatus string            `json:"subscriptionStatus"`
}

// ComputeStats aggregates the user's history. Without a certification
// filter the breakdown is per certification; with one it is per module
// (modules the user never attempted are omitted).
func (s *TestService) ComputeStats(ctx context.Context, userID, certificationID string) (*Stats, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListByUser(ctx, userID, certificationID)
	if err != nil {
		return nil, err
	}

	out := &Stats{
		Summary:            stats.Compute(attempts),
		TestsRemaining:     entitlement.Remaining(user, s.now()),
		SubscriptionStatus: user.SubscriptionStatus,
	}

	if certificationID == "" {
		ids := uniqueCertificationIDs(attempts)
		titles, err := s.content.CertificationTitles(ctx, ids)
		if err != nil {
			return nil, err
		}
		out.CertificationStats = stats.GroupByCertification(attempts, titles)
	} else {
		ids := uniqueModuleIDs(attempts)
		titles, err := s.content.ModuleTitles(ctx, ids)
		if err != nil {
			return nil, err
		}
		out.ModuleStats = stats.GroupByModule(attempts, titles)
	}
	return out, nil
}

func uniqueCertificationIDs(attempts []models.TestAttempt) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range attempts {
		if !seen[a.CertificationID] {
			seen[a.CertificationID] = true
			ids = append(ids, a.CertificationID)
		}
	}
	return ids
}

func uniqueModuleIDs(attempts []models.TestAttempt) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range attempts {
		if a.ModuleID == nil || seen[*a.ModuleID] {
			continue
		}
		seen[*a.ModuleID] = true
		ids = append(ids, *a.ModuleID)
	}
	return ids
}
