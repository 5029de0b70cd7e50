// Package stats folds a user's attempt history into summary metrics.
package stats

import "github.com/Dacosmicgiant/fitness-mock/internal/models"

// Summary holds the aggregate metrics over a set of attempts.
//
// AverageScore and Accuracy are deliberately different averages:
// AverageScore weights every attempt equally, Accuracy weights every
// response equally. They diverge whenever attempts differ in length.
type Summary struct {
	TotalTests   int     `json:"totalTests"`
	AverageScore float64 `json:"averageScore"`
	Accuracy     float64 `json:"accuracy"`
	BestScore    float64 `json:"bestScore"`
}

// GroupStat is the per-certification or per-module breakdown entry.
type GroupStat struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"averageScore"`
}

// Compute derives the summary metrics. An empty history yields all zeros,
// not an error.
func Compute(attempts []models.TestAttempt) Summary {
	var s Summary
	s.TotalTests = len(attempts)
	if s.TotalTests == 0 {
		return s
	}

	var totalPct float64
	var totalResponses, totalCorrect int
	for _, a := range attempts {
		pct := a.Percentage()
		totalPct += pct
		if pct > s.BestScore {
			s.BestScore = pct
		}
		totalResponses += len(a.Responses)
		for _, r := range a.Responses {
			if r.IsCorrect {
				totalCorrect++
			}
		}
	}

	s.AverageScore = totalPct / float64(s.TotalTests)
	if totalResponses > 0 {
		s.Accuracy = float64(totalCorrect) / float64(totalResponses) * 100
	}
	return s
}

// GroupByCertification buckets attempts per certification. Every attempt
// carries a certification, so no attempt is dropped.
func GroupByCertification(attempts []models.TestAttempt, titles map[string]string) []GroupStat {
	return group(attempts, titles, func(a models.TestAttempt) (string, bool) {
		return a.CertificationID, true
	})
}

// GroupByModule buckets attempts per module. Full-certification attempts
// have no module and are skipped; modules with zero attempts are omitted,
// not zero-filled.
func GroupByModule(attempts []models.TestAttempt, titles map[string]string) []GroupStat {
	return group(attempts, titles, func(a models.TestAttempt) (string, bool) {
		if a.ModuleID == nil {
			return "", false
		}
		return *a.ModuleID, true
	})
}

func group(attempts []models.TestAttempt, titles map[string]string, key func(models.TestAttempt) (string, bool)) []GroupStat {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	var order []string

	for _, a := range attempts {
		id, ok := key(a)
		if !ok {
			continue
		}
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
		totals[id] += a.Percentage()
	}

	out := make([]GroupStat, 0, len(order))
	for _, id := range order {
		out = append(out, GroupStat{
			ID:           id,
			Name:         titles[id],
			Attempts:     counts[id],
			AverageScore: totals[id] / float64(counts[id]),
		})
	}
	return out
}
