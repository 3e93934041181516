// Package engine implements the pure scoring and payout computation for a
// bolão: matching numbers against draws, deriving per-participation scores,
// classifying winners into prize tiers, and splitting the revenue pool.
// Nothing in this package performs I/O or holds state; every function is safe
// to call concurrently on independent inputs.
package engine

import (
	"sort"

	"bolao/internal/models"
)

// CountHits returns how many of the participant's numbers appear in the
// draw's winning numbers. Symmetric in its arguments.
func CountHits(drawNumbers, participantNumbers models.NumberSet) int {
	return len(HitNumbers(drawNumbers, participantNumbers))
}

// HitNumbers returns the intersection of the two sets, sorted ascending.
func HitNumbers(drawNumbers, participantNumbers models.NumberSet) models.NumberSet {
	inDraw := make(map[int]bool, len(drawNumbers))
	for _, n := range drawNumbers {
		inDraw[n] = true
	}
	var hits models.NumberSet
	for _, n := range participantNumbers {
		if inDraw[n] {
			hits = append(hits, n)
			delete(inDraw, n) // guard against duplicates in the input
		}
	}
	sort.Ints(hits)
	return hits
}
