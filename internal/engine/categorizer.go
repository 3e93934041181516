package engine

import "bolao/internal/models"

// Categorize partitions score entries into the prize tiers. Tiers are
// assigned in strict priority order and each tier draws only from the pool
// left over by the tiers above it:
//
//  1. TOP: score equals exactMatchSize (matched every number in one draw).
//  2. SECOND: among the rest, score equals exactMatchSize-1.
//  3. LOWEST: among the rest, the minimum score that is still positive.
//  4. NONE: everyone else. A score of zero is never LOWEST.
//
// An empty tier stays empty; its prize share is not redistributed.
func Categorize(entries []models.ScoreEntry, exactMatchSize int) map[string]models.Category {
	out := make(map[string]models.Category, len(entries))
	for _, e := range entries {
		out[e.ParticipationID] = models.CategoryNone
	}

	remaining := make([]models.ScoreEntry, 0, len(entries))
	for _, e := range entries {
		if exactMatchSize > 0 && e.Score == exactMatchSize {
			out[e.ParticipationID] = models.CategoryTop
		} else {
			remaining = append(remaining, e)
		}
	}

	rest := remaining[:0]
	for _, e := range remaining {
		if exactMatchSize > 1 && e.Score == exactMatchSize-1 {
			out[e.ParticipationID] = models.CategorySecond
		} else {
			rest = append(rest, e)
		}
	}

	lowest := 0
	for _, e := range rest {
		if e.Score > 0 && (lowest == 0 || e.Score < lowest) {
			lowest = e.Score
		}
	}
	if lowest > 0 {
		for _, e := range rest {
			if e.Score == lowest {
				out[e.ParticipationID] = models.CategoryLowest
			}
		}
	}

	return out
}

// WinnersByCategory inverts a categorization into per-tier winner lists,
// preserving the order of entries. NONE is omitted.
func WinnersByCategory(entries []models.ScoreEntry, categories map[string]models.Category) map[models.Category][]string {
	winners := make(map[models.Category][]string)
	for _, e := range entries {
		cat := categories[e.ParticipationID]
		if cat == models.CategoryNone {
			continue
		}
		winners[cat] = append(winners[cat], e.ParticipationID)
	}
	return winners
}
