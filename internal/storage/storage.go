// Package storage declares the narrow persistence interfaces the service and
// handler layers depend on. The engine never touches these; it works on
// snapshots read through them.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"bolao/internal/models"
)

// ContestStore reads and writes contests.
type ContestStore interface {
	CreateContest(ctx context.Context, c models.Contest) (models.Contest, error)
	GetContest(ctx context.Context, id string) (models.Contest, error)
	ListContests(ctx context.Context, status models.ContestStatus) ([]models.Contest, error)
	SetContestStatus(ctx context.Context, id string, status models.ContestStatus) error
}

// ParticipationStore reads and writes participations.
type ParticipationStore interface {
	CreateParticipation(ctx context.Context, p models.Participation) (models.Participation, error)
	ListActiveParticipations(ctx context.Context, contestID string) ([]models.Participation, error)
	ResetScores(ctx context.Context, contestID string) error
	UpdateScore(ctx context.Context, participationID string, score int, allHits models.NumberSet) error
}

// DrawStore reads and writes draws, ordered by draw date ascending.
type DrawStore interface {
	CreateDraw(ctx context.Context, d models.Draw) (models.Draw, error)
	UpdateDraw(ctx context.Context, d models.Draw) (models.Draw, error)
	DeleteDraw(ctx context.Context, id string) error
	ListDraws(ctx context.Context, contestID string) ([]models.Draw, error)
}

// RevenueStore reports the total paid revenue collected for a contest.
type RevenueStore interface {
	TotalRevenue(ctx context.Context, contestID string) (decimal.Decimal, error)
}

// PayoutStore persists payout records. ReplacePayoutsForDraw must atomically
// delete any existing rows for the draw and insert the fresh set, so repeated
// reprocessing can never duplicate or accumulate rows.
type PayoutStore interface {
	ReplacePayoutsForDraw(ctx context.Context, drawID string, payouts []models.PayoutRecord) error
	DeletePayoutsForContest(ctx context.Context, contestID string) error
	ListPayoutsForDraw(ctx context.Context, drawID string) ([]models.PayoutRecord, error)
}

// SnapshotStore appends rateio audit snapshots. Write-once; never read by the
// core.
type SnapshotStore interface {
	AppendSnapshot(ctx context.Context, s models.RateioSnapshot) (models.RateioSnapshot, error)
}

// Store bundles everything the application needs from persistence.
type Store interface {
	ContestStore
	ParticipationStore
	DrawStore
	RevenueStore
	PayoutStore
	SnapshotStore
}
