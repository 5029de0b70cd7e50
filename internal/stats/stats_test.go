package stats_test

import (
	"math"
	"testing"

	"github.com/Dacosmicgiant/fitness-mock/internal/models"
	"github.com/Dacosmicgiant/fitness-mock/internal/stats"
)

func attempt(certID string, moduleID *string, score, maxScore int) models.TestAttempt {
	a := models.TestAttempt{
		CertificationID: certID,
		ModuleID:        moduleID,
		Score:           score,
		MaxScore:        maxScore,
	}
	for i := 0; i < maxScore; i++ {
		a.Responses = append(a.Responses, models.TestResponse{
			Position:  i,
			IsCorrect: i < score,
		})
	}
	return a
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestCompute_EmptyHistory(t *testing.T) {
	s := stats.Compute(nil)

	if s.TotalTests != 0 || s.AverageScore != 0 || s.Accuracy != 0 || s.BestScore != 0 {
		t.Errorf("empty history must yield zeros, got %+v", s)
	}
}

func TestCompute_AttemptWeightedVsResponseWeighted(t *testing.T) {
	// 7/10 and 18/20: averageScore weights attempts equally, accuracy
	// weights responses equally, and the two must not be conflated.
	attempts := []models.TestAttempt{
		attempt("c1", nil, 7, 10),
		attempt("c1", nil, 18, 20),
	}

	s := stats.Compute(attempts)

	if s.TotalTests != 2 {
		t.Errorf("expected 2 tests, got %d", s.TotalTests)
	}
	if !almostEqual(s.AverageScore, 80) {
		t.Errorf("expected averageScore 80, got %.4f", s.AverageScore)
	}
	if !almostEqual(s.Accuracy, 83.33) {
		t.Errorf("expected accuracy 83.33, got %.4f", s.Accuracy)
	}
}

func TestCompute_BestScore(t *testing.T) {
	attempts := []models.TestAttempt{
		attempt("c1", nil, 5, 10),
		attempt("c1", nil, 9, 10),
		attempt("c1", nil, 6, 10),
	}

	s := stats.Compute(attempts)
	if !almostEqual(s.BestScore, 90) {
		t.Errorf("expected bestScore 90, got %.4f", s.BestScore)
	}
}

func TestGroupByCertification(t *testing.T) {
	attempts := []models.TestAttempt{
		attempt("c1", nil, 7, 10),
		attempt("c1", nil, 9, 10),
		attempt("c2", nil, 5, 10),
	}
	titles := map[string]string{"c1": "AWS", "c2": "Azure"}

	groups := stats.GroupByCertification(attempts, titles)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	byID := make(map[string]stats.GroupStat)
	for _, g := range groups {
		byID[g.ID] = g
	}
	if g := byID["c1"]; g.Attempts != 2 || !almostEqual(g.AverageScore, 80) || g.Name != "AWS" {
		t.Errorf("c1 group wrong: %+v", g)
	}
	if g := byID["c2"]; g.Attempts != 1 || !almostEqual(g.AverageScore, 50) {
		t.Errorf("c2 group wrong: %+v", g)
	}
}

func TestGroupByModule_SkipsFullTestsAndOmitsUnattempted(t *testing.T) {
	m1 := "m1"
	attempts := []models.TestAttempt{
		attempt("c1", &m1, 8, 10),
		attempt("c1", nil, 5, 10), // full-certification attempt, no module
	}
	// m2 exists in the certification but was never attempted; it must not
	// appear zero-filled.
	titles := map[string]string{"m1": "Networking", "m2": "Storage"}

	groups := stats.GroupByModule(attempts, titles)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].ID != "m1" || groups[0].Attempts != 1 || !almostEqual(groups[0].AverageScore, 80) {
		t.Errorf("m1 group wrong: %+v", groups[0])
	}
}
