package engine

import (
	"time"

	"bolao/internal/models"
)

// ScoreResult is the outcome of scoring one participation against its valid
// draws.
type ScoreResult struct {
	// Score is the best single-draw hit count. Hits are never summed across
	// draws: each drawing is an independent event, and the prize tiers are
	// defined by what a participation matched in one of them.
	Score int
	// AllHitNumbers is the union of every number matched in any valid draw,
	// kept for display only ("you hit these numbers so far").
	AllHitNumbers models.NumberSet
}

// Score computes the score for one participation's numbers over the draws
// that count for it. With no valid draws the score is zero and the hit set
// is empty.
func Score(participantNumbers models.NumberSet, validDraws []models.Draw) ScoreResult {
	best := 0
	union := make(map[int]bool)
	for _, d := range validDraws {
		hits := HitNumbers(d.Numbers, participantNumbers)
		if len(hits) > best {
			best = len(hits)
		}
		for _, n := range hits {
			union[n] = true
		}
	}
	all := make(models.NumberSet, 0, len(union))
	for n := range union {
		all = append(all, n)
	}
	return ScoreResult{Score: best, AllHitNumbers: all.Normalize()}
}

// ValidDraws filters draws to those that count for a participation at a
// point-in-time cutoff: the draw must not predate the participation (a ticket
// bought after a drawing cannot claim a match against it) and must not be
// after the cutoff.
func ValidDraws(p models.Participation, draws []models.Draw, cutoff time.Time) []models.Draw {
	var valid []models.Draw
	for _, d := range draws {
		if d.DrawDate.Before(p.CreatedAt) {
			continue
		}
		if d.DrawDate.After(cutoff) {
			continue
		}
		valid = append(valid, d)
	}
	return valid
}
