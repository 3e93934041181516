package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"bolao/internal/models"
)

var (
	// ErrEmptyDraw marks a draw recorded with no winning numbers.
	ErrEmptyDraw = errors.New("draw has no numbers")
	// ErrNumbersCount marks a participation whose number count does not
	// match the contest configuration.
	ErrNumbersCount = errors.New("participation number count mismatch")
)

// ContestSnapshot is everything the replay needs, read once up front. The
// replay itself performs no I/O: identical snapshots always produce
// structurally identical results, which is what makes reprocessing
// idempotent.
type ContestSnapshot struct {
	Contest        models.Contest
	Participations []models.Participation
	Draws          []models.Draw
	TotalRevenue   decimal.Decimal
}

// Skip records one malformed input rejected during replay. Malformed records
// are isolated, not fatal: the rest of the batch still processes.
type Skip struct {
	ID     string
	Reason error
}

// DrawResult is the full point-in-time state at one draw: scores computed
// from every draw up to and including it, the tier assignment, the money
// split, and one payout record per evaluated participation.
type DrawResult struct {
	Draw         models.Draw
	Entries      []models.ScoreEntry
	Categories   map[string]models.Category
	Distribution Distribution
	Payouts      []models.PayoutRecord
	// Excluded counts participations created after this draw's date; they
	// are left out of scoring entirely and tracked for auditing.
	Excluded int
}

// ReplayResult is the desired state for a whole contest history.
type ReplayResult struct {
	DrawResults  []DrawResult
	SkippedDraws []Skip
	Skipped      []Skip
}

// ReplayContest recomputes the complete payout history of a contest: draws
// are walked in ascending date order and each is evaluated against only the
// draws up to that point, so editing or deleting an old draw just replays to
// a different, equally deterministic state.
func ReplayContest(snap ContestSnapshot) (ReplayResult, error) {
	if err := snap.Contest.Percentages.Validate(); err != nil {
		return ReplayResult{}, fmt.Errorf("contest %s: %w", snap.Contest.ID, err)
	}

	var res ReplayResult

	draws := make([]models.Draw, 0, len(snap.Draws))
	for _, d := range snap.Draws {
		if len(d.Numbers) == 0 {
			res.SkippedDraws = append(res.SkippedDraws, Skip{ID: d.ID, Reason: ErrEmptyDraw})
			continue
		}
		draws = append(draws, d)
	}
	sort.Slice(draws, func(i, j int) bool {
		if !draws[i].DrawDate.Equal(draws[j].DrawDate) {
			return draws[i].DrawDate.Before(draws[j].DrawDate)
		}
		return draws[i].ID < draws[j].ID
	})

	parts, skipped := validParticipations(snap)
	res.Skipped = skipped

	for i, d := range draws {
		history := draws[:i+1]
		dr := evaluateDraw(snap.Contest, parts, history, d, snap.TotalRevenue)
		res.DrawResults = append(res.DrawResults, dr)
	}
	return res, nil
}

func validParticipations(snap ContestSnapshot) ([]models.Participation, []Skip) {
	want := snap.Contest.NumbersPerParticipation
	var parts []models.Participation
	var skipped []Skip
	for _, p := range snap.Participations {
		if p.Status != models.ParticipationActive {
			continue
		}
		if want > 0 && len(p.Numbers.Normalize()) != want {
			skipped = append(skipped, Skip{ID: p.ID, Reason: fmt.Errorf("%w: got %d, want %d", ErrNumbersCount, len(p.Numbers), want)})
			continue
		}
		parts = append(parts, p)
	}
	// deterministic evaluation and payout order
	sort.Slice(parts, func(i, j int) bool { return parts[i].ID < parts[j].ID })
	return parts, skipped
}

// evaluateDraw computes scores, tiers, and payouts at one draw's cutoff.
func evaluateDraw(contest models.Contest, parts []models.Participation, history []models.Draw, draw models.Draw, revenue decimal.Decimal) DrawResult {
	cutoff := draw.DrawDate

	var entries []models.ScoreEntry
	excluded := 0
	for _, p := range parts {
		if p.CreatedAt.After(cutoff) {
			excluded++
			continue
		}
		sr := Score(p.Numbers, ValidDraws(p, history, cutoff))
		entries = append(entries, models.ScoreEntry{
			ParticipationID: p.ID,
			UserID:          p.UserID,
			Score:           sr.Score,
			AllHitNumbers:   sr.AllHitNumbers,
		})
	}

	exact := contest.NumbersPerParticipation
	if draw.NumbersCount > 0 {
		exact = draw.NumbersCount
	}

	categories := Categorize(entries, exact)
	winners := WinnersByCategory(entries, categories)

	// The percent config was validated before replay started, so Distribute
	// cannot fail here.
	dist, _ := Distribute(winners, revenue, contest.Percentages)

	payouts := make([]models.PayoutRecord, 0, len(entries))
	for _, e := range entries {
		amount, ok := dist.AmountFor[e.ParticipationID]
		if !ok {
			amount = decimal.Zero
		}
		payouts = append(payouts, models.PayoutRecord{
			DrawID:          draw.ID,
			ParticipationID: e.ParticipationID,
			UserID:          e.UserID,
			Category:        categories[e.ParticipationID],
			Score:           e.Score,
			AmountWon:       amount,
		})
	}

	return DrawResult{
		Draw:         draw,
		Entries:      entries,
		Categories:   categories,
		Distribution: dist,
		Payouts:      payouts,
		Excluded:     excluded,
	}
}

// Final returns the last draw's result, or nil when no draws survived
// validation.
func (r ReplayResult) Final() *DrawResult {
	if len(r.DrawResults) == 0 {
		return nil
	}
	return &r.DrawResults[len(r.DrawResults)-1]
}

// Snapshot builds the audit record for a replay from its final state.
func (r ReplayResult) Snapshot(contest models.Contest) models.RateioSnapshot {
	final := r.Final()
	if final == nil {
		return models.RateioSnapshot{ContestID: contest.ID, Percentages: contest.Percentages}
	}
	d := final.Distribution
	breakdown := make([]models.CategoryBreakdown, 0, len(winningCategories))
	for _, cat := range winningCategories {
		breakdown = append(breakdown, d.PerCategory[cat])
	}
	return models.RateioSnapshot{
		ContestID:      contest.ID,
		Percentages:    contest.Percentages,
		TotalRevenue:   d.TotalRevenue,
		AdminFeeAmount: d.AdminFeeAmount,
		PrizePool:      d.PrizePool,
		Unallocated:    d.Unallocated,
		Breakdown:      breakdown,
	}
}
