package services

import (
	"context"
	"fmt"

	"github.com/google/logger"

	"bolao/internal/engine"
	"bolao/internal/models"
	"bolao/internal/storage"
)

// ReprocessService recomputes the full scoring and payout state of a contest
// whenever its draws change. The computation itself lives in the engine
// package; this service only reads the snapshot, runs the replay, and writes
// the desired state back.
type ReprocessService struct {
	store storage.Store
}

// NewReprocessService creates a ReprocessService on the given store.
func NewReprocessService(store storage.Store) *ReprocessService {
	return &ReprocessService{store: store}
}

// ReprocessReport summarizes one reprocessing pass.
type ReprocessReport struct {
	ContestID             string                `json:"contestId"`
	DrawsProcessed        int                   `json:"drawsProcessed"`
	DrawsFailed           int                   `json:"drawsFailed"`
	SkippedDraws          int                   `json:"skippedDraws"`
	SkippedParticipations int                   `json:"skippedParticipations"`
	Excluded              int                   `json:"excludedParticipations"`
	Errors                []string              `json:"errors,omitempty"`
	Final                 []models.PayoutRecord `json:"finalPayouts,omitempty"`
}

// Reprocess replays the whole contest history and replaces the stored
// results. Failures reading the snapshot are fatal; a failure writing one
// draw's payouts is logged, counted, and does not stop the remaining draws.
// Running it twice on the same inputs leaves storage in the same state.
func (s *ReprocessService) Reprocess(ctx context.Context, contestID string) (ReprocessReport, error) {
	report := ReprocessReport{ContestID: contestID}

	contest, err := s.store.GetContest(ctx, contestID)
	if err != nil {
		return report, fmt.Errorf("fetch contest %s: %w", contestID, err)
	}
	parts, err := s.store.ListActiveParticipations(ctx, contestID)
	if err != nil {
		return report, fmt.Errorf("fetch participations for %s: %w", contestID, err)
	}
	draws, err := s.store.ListDraws(ctx, contestID)
	if err != nil {
		return report, fmt.Errorf("fetch draws for %s: %w", contestID, err)
	}
	revenue, err := s.store.TotalRevenue(ctx, contestID)
	if err != nil {
		return report, fmt.Errorf("fetch revenue for %s: %w", contestID, err)
	}

	if len(draws) == 0 {
		if err := s.store.ResetScores(ctx, contestID); err != nil {
			return report, fmt.Errorf("reset scores for %s: %w", contestID, err)
		}
		if err := s.store.DeletePayoutsForContest(ctx, contestID); err != nil {
			return report, fmt.Errorf("clear payouts for %s: %w", contestID, err)
		}
		logger.Infof("contest %s has no draws; scores reset", contestID)
		return report, nil
	}

	result, err := engine.ReplayContest(engine.ContestSnapshot{
		Contest:        contest,
		Participations: parts,
		Draws:          draws,
		TotalRevenue:   revenue,
	})
	if err != nil {
		return report, fmt.Errorf("replay contest %s: %w", contestID, err)
	}

	report.SkippedDraws = len(result.SkippedDraws)
	report.SkippedParticipations = len(result.Skipped)
	for _, sk := range result.SkippedDraws {
		logger.Warningf("contest %s: skipping draw %s: %v", contestID, sk.ID, sk.Reason)
	}
	for _, sk := range result.Skipped {
		logger.Warningf("contest %s: skipping participation %s: %v", contestID, sk.ID, sk.Reason)
	}

	for _, dr := range result.DrawResults {
		if err := s.store.ReplacePayoutsForDraw(ctx, dr.Draw.ID, dr.Payouts); err != nil {
			report.DrawsFailed++
			report.Errors = append(report.Errors, fmt.Sprintf("draw %s: %v", dr.Draw.ID, err))
			logger.Errorf("contest %s: write payouts for draw %s: %v", contestID, dr.Draw.ID, err)
			continue
		}
		report.DrawsProcessed++
	}

	if final := result.Final(); final != nil {
		report.Excluded = final.Excluded
		report.Final = final.Payouts
		for _, e := range final.Entries {
			if err := s.store.UpdateScore(ctx, e.ParticipationID, e.Score, e.AllHitNumbers); err != nil {
				logger.Errorf("contest %s: update score for %s: %v", contestID, e.ParticipationID, err)
			}
		}
	}

	if _, err := s.store.AppendSnapshot(ctx, result.Snapshot(contest)); err != nil {
		// Audit only; the computed state is already persisted.
		logger.Errorf("contest %s: append rateio snapshot: %v", contestID, err)
	}

	logger.Infof("reprocessed contest %s: %d draws ok, %d failed, %d excluded",
		contestID, report.DrawsProcessed, report.DrawsFailed, report.Excluded)
	return report, nil
}

// ReprocessAll sweeps every finished contest. Used by the cron schedule;
// per-contest failures are logged and do not stop the sweep.
func (s *ReprocessService) ReprocessAll(ctx context.Context) {
	contests, err := s.store.ListContests(ctx, models.ContestFinished)
	if err != nil {
		logger.Errorf("reprocess sweep: list contests: %v", err)
		return
	}
	for _, c := range contests {
		if _, err := s.Reprocess(ctx, c.ID); err != nil {
			logger.Errorf("reprocess sweep: contest %s: %v", c.ID, err)
		}
	}
}
