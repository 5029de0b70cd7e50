package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Dacosmicgiant/fitness-mock/internal/apperr"
	"github.com/Dacosmicgiant/fitness-mock/internal/grader"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"
	"github.com/Dacosmicgiant/fitness-mock/internal/selector"
	"github.com/Dacosmicgiant/fitness-mock/internal/service"

	"go.uber.org/zap"
)

// ---- in-memory fakes -------------------------------------------------------

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) ByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return u, nil
}

type fakeContentStore struct {
	certifications map[string]*models.Certification
	modules        map[string]*models.Module
}

func (f *fakeContentStore) CertificationByID(ctx context.Context, id string) (*models.Certification, error) {
	c, ok := f.certifications[id]
	if !ok {
		return nil, apperr.NotFound("certification")
	}
	return c, nil
}

func (f *fakeContentStore) ModuleByID(ctx context.Context, id string) (*models.Module, error) {
	m, ok := f.modules[id]
	if !ok {
		return nil, apperr.NotFound("module")
	}
	return m, nil
}

func (f *fakeContentStore) ModuleIDsForCertification(ctx context.Context, certID string) ([]string, error) {
	if _, ok := f.certifications[certID]; !ok {
		return nil, apperr.NotFound("certification")
	}
	var ids []string
	for id, m := range f.modules {
		if m.CertificationID == certID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, apperr.NotFound("modules for certification")
	}
	return ids, nil
}

func (f *fakeContentStore) CertificationTitles(ctx context.Context, ids []string) (map[string]string, error) {
	titles := make(map[string]string)
	for _, id := range ids {
		if c, ok := f.certifications[id]; ok {
			titles[id] = c.Title
		}
	}
	return titles, nil
}

func (f *fakeContentStore) ModuleTitles(ctx context.Context, ids []string) (map[string]string, error) {
	titles := make(map[string]string)
	for _, id := range ids {
		if m, ok := f.modules[id]; ok {
			titles[id] = m.Title
		}
	}
	return titles, nil
}

type fakeQuestionStore struct {
	questions map[string]models.Question
}

func (f *fakeQuestionStore) ByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	var out []models.Question
	for _, id := range ids {
		if q, ok := f.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) PoolByDifficulty(ctx context.Context, moduleIDs []string, difficulty string) ([]models.Question, error) {
	allowed := make(map[string]bool)
	for _, id := range moduleIDs {
		allowed[id] = true
	}
	var out []models.Question
	for _, q := range f.questions {
		if allowed[q.ModuleID] && q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out, nil
}

// fakeAttemptStore mirrors the real store's contract: persisting an attempt
// and consuming the credit succeed or fail together.
type fakeAttemptStore struct {
	users    *fakeUserStore
	attempts []*models.TestAttempt
	nextID   int
}

func (f *fakeAttemptStore) CreateWithCredit(ctx context.Context, attempt *models.TestAttempt, now time.Time) error {
	u, ok := f.users.users[attempt.UserID]
	if !ok {
		return apperr.Forbidden("no tests remaining")
	}
	if !u.HasActiveSubscription(now) && u.TestsRemaining <= 0 {
		return apperr.Forbidden("no tests remaining")
	}
	if u.SubscriptionStatus == models.SubscriptionFree {
		u.TestsRemaining--
	}
	f.nextID++
	attempt.ID = fmt.Sprintf("attempt-%d", f.nextID)
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeAttemptStore) ByID(ctx context.Context, id string) (*models.TestAttempt, error) {
	for _, a := range f.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperr.NotFound("test attempt")
}

func (f *fakeAttemptStore) ListByUser(ctx context.Context, userID, certificationID string) ([]models.TestAttempt, error) {
	var out []models.TestAttempt
	for _, a := range f.attempts {
		if a.UserID != userID {
			continue
		}
		if certificationID != "" && a.CertificationID != certificationID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

// ---- fixture ---------------------------------------------------------------

type fixture struct {
	svc      *service.TestService
	users    *fakeUserStore
	attempts *fakeAttemptStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := &fakeUserStore{users: map[string]*models.User{
		"alice": {ID: "alice", SubscriptionStatus: models.SubscriptionFree, TestsRemaining: 3},
		"bob":   {ID: "bob", SubscriptionStatus: models.SubscriptionFree, TestsRemaining: 0},
	}}
	content := &fakeContentStore{
		certifications: map[string]*models.Certification{
			"c1": {ID: "c1", Title: "AWS"},
		},
		modules: map[string]*models.Module{
			"m1": {ID: "m1", Title: "Networking", CertificationID: "c1"},
		},
	}
	questions := &fakeQuestionStore{questions: map[string]models.Question{}}
	for i := 0; i < 12; i++ {
		difficulty := models.DifficultyEasy
		if i >= 6 {
			difficulty = models.DifficultyMedium
		}
		if i >= 10 {
			difficulty = models.DifficultyHard
		}
		id := fmt.Sprintf("q%d", i)
		questions.questions[id] = models.Question{
			ID:         id,
			Difficulty: difficulty,
			ModuleID:   "m1",
			Options: []models.AnswerOption{
				{Position: 0, Text: "right", IsCorrect: true},
				{Position: 1, Text: "wrong", IsCorrect: false},
			},
		}
	}
	attempts := &fakeAttemptStore{users: users}

	sel := selector.New(content, questions)
	svc := service.NewTestService(sel, users, content, questions, attempts, zap.NewNop())
	return &fixture{svc: svc, users: users, attempts: attempts}
}

// ---- tests -----------------------------------------------------------------

func TestQuestionsForTest_ServesSanitizedPaper(t *testing.T) {
	f := newFixture(t)

	paper, err := f.svc.QuestionsForTest(context.Background(), "alice", "c1", "", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paper.Questions) == 0 {
		t.Fatal("expected questions")
	}
	if len(paper.ServedQuestionIDs) != len(paper.Questions) {
		t.Errorf("served ids (%d) must match questions (%d)", len(paper.ServedQuestionIDs), len(paper.Questions))
	}
	for i, q := range paper.Questions {
		if paper.ServedQuestionIDs[i] != q.ID {
			t.Errorf("served id %d does not match question order", i)
		}
	}
	if paper.TestsRemaining != 3 {
		t.Errorf("expected quota snapshot 3, got %v", paper.TestsRemaining)
	}
}

func TestQuestionsForTest_DeniedWithoutQuota(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.QuestionsForTest(context.Background(), "bob", "c1", "", "", 10)
	if !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestQuestionsForTest_DifficultyFilter(t *testing.T) {
	f := newFixture(t)

	paper, err := f.svc.QuestionsForTest(context.Background(), "alice", "c1", "", models.DifficultyMedium, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paper.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(paper.Questions))
	}
	for _, q := range paper.Questions {
		if q.Difficulty != models.DifficultyMedium {
			t.Fatalf("expected only medium questions, got %q", q.Difficulty)
		}
	}
}

func TestQuestionsForTest_UnknownDifficulty(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.QuestionsForTest(context.Background(), "alice", "c1", "", "brutal", 10)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitAttempt_GradesPersistsAndDecrements(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.SubmitAttempt(context.Background(), "alice", service.SubmitRequest{
		CertificationID: "c1",
		ModuleID:        "m1",
		Responses: []grader.Response{
			{QuestionID: "q0", SelectedOption: 0},
			{QuestionID: "q1", SelectedOption: 0},
			{QuestionID: "q2", SelectedOption: 0},
			{QuestionID: "q3", SelectedOption: 1},
		},
		DurationSeconds: 300,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Score != 3 || summary.MaxScore != 4 {
		t.Errorf("expected 3/4, got %d/%d", summary.Score, summary.MaxScore)
	}
	if !summary.Passed {
		t.Error("75%% must pass the 70%% threshold")
	}
	if f.users.users["alice"].TestsRemaining != 2 {
		t.Errorf("expected quota 3 -> 2, got %d", f.users.users["alice"].TestsRemaining)
	}
	if len(f.attempts.attempts) != 1 {
		t.Fatalf("expected 1 persisted attempt, got %d", len(f.attempts.attempts))
	}

	attempt := f.attempts.attempts[0]
	if attempt.QuestionCount != 4 || attempt.MaxScore != 4 || len(attempt.Responses) != 4 {
		t.Errorf("attempt invariant broken: count=%d max=%d responses=%d",
			attempt.QuestionCount, attempt.MaxScore, len(attempt.Responses))
	}
	if attempt.ModuleID == nil || *attempt.ModuleID != "m1" {
		t.Error("module reference not recorded")
	}
}

func TestSubmitAttempt_FailsBelowThreshold(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.SubmitAttempt(context.Background(), "alice", service.SubmitRequest{
		CertificationID: "c1",
		Responses: []grader.Response{
			{QuestionID: "q0", SelectedOption: 0},
			{QuestionID: "q1", SelectedOption: 1},
			{QuestionID: "q2", SelectedOption: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Passed {
		t.Error("33%% must not pass the 70%% threshold")
	}
}

func TestSubmitAttempt_RejectedWithoutQuota(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitAttempt(context.Background(), "bob", service.SubmitRequest{
		CertificationID: "c1",
		Responses:       []grader.Response{{QuestionID: "q0", SelectedOption: 0}},
	})
	if !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(f.attempts.attempts) != 0 {
		t.Error("no attempt may be persisted on a rejected submission")
	}
	if f.users.users["bob"].TestsRemaining != 0 {
		t.Error("quota must never go negative")
	}
}

func TestSubmitAttempt_EmptyResponses(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitAttempt(context.Background(), "alice", service.SubmitRequest{
		CertificationID: "c1",
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitAttempt_UnknownCertification(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitAttempt(context.Background(), "alice", service.SubmitRequest{
		CertificationID: "nope",
		Responses:       []grader.Response{{QuestionID: "q0", SelectedOption: 0}},
	})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitAttempt_DeletedQuestionsExcluded(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.SubmitAttempt(context.Background(), "alice", service.SubmitRequest{
		CertificationID: "c1",
		Responses: []grader.Response{
			{QuestionID: "q0", SelectedOption: 0},
			{QuestionID: "vanished", SelectedOption: 0},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.MaxScore != 1 || summary.Score != 1 {
		t.Errorf("deleted question must be excluded from both sides, got %d/%d", summary.Score, summary.MaxScore)
	}
}

func TestSubmitAttempt_AllQuestionsUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitAttempt(context.Background(), "alice", service.SubmitRequest{
		CertificationID: "c1",
		Responses:       []grader.Response{{QuestionID: "vanished", SelectedOption: 0}},
	})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found when nothing is gradable, got %v", err)
	}
	if len(f.attempts.attempts) != 0 {
		t.Error("no attempt may be persisted")
	}
	if f.users.users["alice"].TestsRemaining != 3 {
		t.Error("quota must not be spent on an ungradable submission")
	}
}

func TestAttemptByID_OwnershipEnforced(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.SubmitAttempt(context.Background(), "alice", service.SubmitRequest{
		CertificationID: "c1",
		Responses:       []grader.Response{{QuestionID: "q0", SelectedOption: 0}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.AttemptByID(context.Background(), "alice", summary.ID); err != nil {
		t.Errorf("owner must be able to read own attempt: %v", err)
	}
	if _, err := f.svc.AttemptByID(context.Background(), "bob", summary.ID); !apperr.IsForbidden(err) {
		t.Errorf("non-owner with a valid id must get forbidden, got %v", err)
	}
	if _, err := f.svc.AttemptByID(context.Background(), "alice", "missing"); !apperr.IsNotFound(err) {
		t.Errorf("missing attempt must be not found, got %v", err)
	}
}

func TestComputeStats_EmptyHistory(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.ComputeStats(context.Background(), "alice", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TotalTests != 0 || out.AverageScore != 0 || out.Accuracy != 0 {
		t.Errorf("empty history must yield zeros, got %+v", out.Summary)
	}
	if out.TestsRemaining != 3 {
		t.Errorf("expected quota snapshot 3, got %v", out.TestsRemaining)
	}
	if out.SubscriptionStatus != models.SubscriptionFree {
		t.Errorf("expected free status, got %q", out.SubscriptionStatus)
	}
}

func TestComputeStats_Breakdowns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submit := func(moduleID string, responses []grader.Response) {
		t.Helper()
		_, err := f.svc.SubmitAttempt(ctx, "alice", service.SubmitRequest{
			CertificationID: "c1",
			ModuleID:        moduleID,
			Responses:       responses,
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	submit("m1", []grader.Response{
		{QuestionID: "q0", SelectedOption: 0},
		{QuestionID: "q1", SelectedOption: 1},
	})
	submit("", []grader.Response{
		{QuestionID: "q0", SelectedOption: 0},
		{QuestionID: "q1", SelectedOption: 0},
	})

	// No filter: per-certification breakdown.
	out, err := f.svc.ComputeStats(ctx, "alice", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.CertificationStats) != 1 || out.CertificationStats[0].Name != "AWS" || out.CertificationStats[0].Attempts != 2 {
		t.Errorf("certification breakdown wrong: %+v", out.CertificationStats)
	}
	if out.ModuleStats != nil {
		t.Error("module breakdown must be absent without a certification filter")
	}

	// Filtered: per-module breakdown, full-test attempts carry no module.
	out, err = f.svc.ComputeStats(ctx, "alice", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.ModuleStats) != 1 || out.ModuleStats[0].Name != "Networking" || out.ModuleStats[0].Attempts != 1 {
		t.Errorf("module breakdown wrong: %+v", out.ModuleStats)
	}
}

func TestComputeStats_PremiumUnlimitedSentinel(t *testing.T) {
	f := newFixture(t)
	expiry := time.Now().Add(30 * 24 * time.Hour)
	f.users.users["alice"].SubscriptionStatus = models.SubscriptionPremium
	f.users.users["alice"].SubscriptionExpiry = &expiry

	out, err := f.svc.ComputeStats(context.Background(), "alice", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TestsRemaining != "unlimited" {
		t.Errorf("premium user must see \"unlimited\", got %v", out.TestsRemaining)
	}
}
