// Package selector builds the randomized, difficulty-stratified question set
// for a test session. Selected questions are sanitized before they leave the
// package: no correct-answer flags, no explanations.
package selector

import (
	"context"
	"math/rand"
	"time"

	"github.com/Dacosmicgiant/fitness-mock/internal/apperr"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"
)

// Scope is the set of modules a test draws from: a single module, or every
// module of a certification.
type Scope interface {
	isScope()
}

type ModuleScope struct {
	ModuleID string
}

type CertificationScope struct {
	CertificationID string
}

func (ModuleScope) isScope()        {}
func (CertificationScope) isScope() {}

// Question is a question stripped of its answer key, safe to send to a client.
type Question struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Difficulty string   `json:"difficulty"`
	ModuleID   string   `json:"moduleId"`
	Options    []Option `json:"options"`
}

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ContentSource resolves scope ids against the content hierarchy.
type ContentSource interface {
	ModuleByID(ctx context.Context, id string) (*models.Module, error)
	ModuleIDsForCertification(ctx context.Context, certificationID string) ([]string, error)
}

// QuestionSource provides the per-difficulty question pools.
type QuestionSource interface {
	PoolByDifficulty(ctx context.Context, moduleIDs []string, difficulty string) ([]models.Question, error)
}

type Selector struct {
	content   ContentSource
	questions QuestionSource
	// newRand is swappable so tests can pin the sequence.
	newRand func() *rand.Rand
}

func New(content ContentSource, questions QuestionSource) *Selector {
	return &Selector{
		content:   content,
		questions: questions,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Weights is the relative share each difficulty contributes to a test.
// Values are proportions, not counts; they are normalized over their sum.
type Weights struct {
	Easy, Medium, Hard int
}

// DefaultWeights is the standard mix: half easy, 30% medium, 20% hard.
var DefaultWeights = Weights{Easy: 5, Medium: 3, Hard: 2}

// Only returns weights drawing the entire test from one difficulty.
func Only(difficulty string) Weights {
	switch difficulty {
	case models.DifficultyEasy:
		return Weights{Easy: 1}
	case models.DifficultyMedium:
		return Weights{Medium: 1}
	case models.DifficultyHard:
		return Weights{Hard: 1}
	}
	return DefaultWeights
}

func (w Weights) total() int { return w.Easy + w.Medium + w.Hard }

func (w Weights) valid() bool {
	return w.Easy >= 0 && w.Medium >= 0 && w.Hard >= 0 && w.total() > 0
}

// SplitByWeights computes the per-bucket target sizes for a test of the
// given length. The hard bucket absorbs whatever integer rounding leaves
// over, so the three always sum to count.
func SplitByWeights(count int, w Weights) (easy, medium, hard int) {
	total := w.total()
	easy = count * w.Easy / total
	medium = count * w.Medium / total
	hard = count - easy - medium
	return
}

// SplitByDifficulty is SplitByWeights under the default mix.
func SplitByDifficulty(count int) (easy, medium, hard int) {
	return SplitByWeights(count, DefaultWeights)
}

// Select draws a stratified random sample from the scope's question pool,
// mixed per the given weights. Buckets smaller than their target are taken
// whole rather than failing the request, so the result may be shorter than
// count. The concatenated sample is shuffled once more so ordering does not
// leak difficulty grouping.
func (s *Selector) Select(ctx context.Context, scope Scope, count int, w Weights) ([]Question, error) {
	if count <= 0 {
		return nil, apperr.Validation("question count must be positive")
	}
	if !w.valid() {
		return nil, apperr.Validation("difficulty weights must be positive")
	}

	moduleIDs, err := s.resolveScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	easyN, mediumN, hardN := SplitByWeights(count, w)
	targets := map[string]int{
		models.DifficultyEasy:   easyN,
		models.DifficultyMedium: mediumN,
		models.DifficultyHard:   hardN,
	}

	r := s.newRand()
	var picked []models.Question
	for _, difficulty := range models.Difficulties {
		pool, err := s.questions.PoolByDifficulty(ctx, moduleIDs, difficulty)
		if err != nil {
			return nil, err
		}
		picked = append(picked, sample(r, pool, targets[difficulty])...)
	}

	if len(picked) == 0 {
		return nil, apperr.NotFound("questions for test")
	}

	r.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	return sanitize(picked), nil
}

func (s *Selector) resolveScope(ctx context.Context, scope Scope) ([]string, error) {
	switch sc := scope.(type) {
	case ModuleScope:
		if _, err := s.content.ModuleByID(ctx, sc.ModuleID); err != nil {
			return nil, err
		}
		return []string{sc.ModuleID}, nil
	case CertificationScope:
		return s.content.ModuleIDsForCertification(ctx, sc.CertificationID)
	default:
		return nil, apperr.Validation("unknown test scope")
	}
}

// sample draws n questions uniformly without replacement. A pool smaller
// than n is returned whole.
func sample(r *rand.Rand, pool []models.Question, n int) []models.Question {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	shuffled := make([]models.Question, len(pool))
	copy(shuffled, pool)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n >= len(shuffled) {
		return shuffled
	}
	return shuffled[:n]
}

func sanitize(questions []models.Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		opts := make([]Option, len(q.Options))
		for j, opt := range q.Options {
			opts[j] = Option{ID: opt.ID, Text: opt.Text}
		}
		out[i] = Question{
			ID:         q.ID,
			Text:       q.Text,
			Difficulty: q.Difficulty,
			ModuleID:   q.ModuleID,
			Options:    opts,
		}
	}
	return out
}
