package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/logger"

	"bolao/internal/models"
	"bolao/internal/storage"
)

var (
	// ErrNumberRange marks a number set outside the contest's range or with
	// the wrong cardinality.
	ErrNumberRange = errors.New("numbers outside contest range")
	// ErrContestClosed marks a participation bought into a finished contest.
	ErrContestClosed = errors.New("contest is no longer open")
)

// BolaoService runs the contest lifecycle: contests, participations, and
// draws. Any draw change hands off to the ReprocessService, since stored
// scores and payouts derive entirely from the draw history.
type BolaoService struct {
	store       storage.Store
	reprocessor *ReprocessService
}

// NewBolaoService creates a BolaoService.
func NewBolaoService(store storage.Store, reprocessor *ReprocessService) *BolaoService {
	return &BolaoService{store: store, reprocessor: reprocessor}
}

// CreateContest validates and stores a new contest. An empty percent config
// gets the default {65, 10, 7, 18} split.
func (s *BolaoService) CreateContest(ctx context.Context, c models.Contest) (models.Contest, error) {
	if c.Percentages.Sum().IsZero() {
		c.Percentages = models.DefaultPercentConfig()
	}
	if err := c.Percentages.Validate(); err != nil {
		return models.Contest{}, err
	}
	if c.MinNumber < 1 || c.MaxNumber <= c.MinNumber {
		return models.Contest{}, fmt.Errorf("%w: range [%d, %d]", ErrNumberRange, c.MinNumber, c.MaxNumber)
	}
	if c.NumbersPerParticipation < 1 || c.NumbersPerParticipation > c.MaxNumber-c.MinNumber+1 {
		return models.Contest{}, fmt.Errorf("%w: %d numbers per participation", ErrNumberRange, c.NumbersPerParticipation)
	}
	return s.store.CreateContest(ctx, c)
}

// GetContest returns one contest.
func (s *BolaoService) GetContest(ctx context.Context, id string) (models.Contest, error) {
	return s.store.GetContest(ctx, id)
}

// RegisterParticipation stores a paid entry after checking its numbers
// against the contest configuration.
func (s *BolaoService) RegisterParticipation(ctx context.Context, p models.Participation) (models.Participation, error) {
	contest, err := s.store.GetContest(ctx, p.ContestID)
	if err != nil {
		return models.Participation{}, err
	}
	if contest.Status != models.ContestOngoing {
		return models.Participation{}, ErrContestClosed
	}
	p.Numbers = p.Numbers.Normalize()
	if err := checkNumbers(contest, p.Numbers, contest.NumbersPerParticipation); err != nil {
		return models.Participation{}, err
	}
	if p.AmountPaid.IsNegative() {
		return models.Participation{}, fmt.Errorf("negative amount paid: %s", p.AmountPaid)
	}
	return s.store.CreateParticipation(ctx, p)
}

// RecordDraw stores a new draw and reprocesses the contest. The first draw
// also flips the contest to finished: sales close once results exist.
func (s *BolaoService) RecordDraw(ctx context.Context, d models.Draw) (models.Draw, ReprocessReport, error) {
	contest, err := s.store.GetContest(ctx, d.ContestID)
	if err != nil {
		return models.Draw{}, ReprocessReport{}, err
	}
	want := contest.NumbersPerParticipation
	if d.NumbersCount > 0 {
		want = d.NumbersCount
	}
	d.Numbers = d.Numbers.Normalize()
	if err := checkNumbers(contest, d.Numbers, want); err != nil {
		return models.Draw{}, ReprocessReport{}, err
	}

	d, err = s.store.CreateDraw(ctx, d)
	if err != nil {
		return models.Draw{}, ReprocessReport{}, err
	}
	if contest.Status == models.ContestOngoing {
		if err := s.store.SetContestStatus(ctx, contest.ID, models.ContestFinished); err != nil {
			logger.Errorf("contest %s: mark finished: %v", contest.ID, err)
		}
	}

	report, err := s.reprocessor.Reprocess(ctx, d.ContestID)
	return d, report, err
}

// UpdateDraw corrects a recorded draw and reprocesses the contest.
func (s *BolaoService) UpdateDraw(ctx context.Context, d models.Draw) (models.Draw, ReprocessReport, error) {
	contest, err := s.store.GetContest(ctx, d.ContestID)
	if err != nil {
		return models.Draw{}, ReprocessReport{}, err
	}
	want := contest.NumbersPerParticipation
	if d.NumbersCount > 0 {
		want = d.NumbersCount
	}
	d.Numbers = d.Numbers.Normalize()
	if err := checkNumbers(contest, d.Numbers, want); err != nil {
		return models.Draw{}, ReprocessReport{}, err
	}
	d, err = s.store.UpdateDraw(ctx, d)
	if err != nil {
		return models.Draw{}, ReprocessReport{}, err
	}
	report, err := s.reprocessor.Reprocess(ctx, d.ContestID)
	return d, report, err
}

// DeleteDraw removes a draw and reprocesses what remains.
func (s *BolaoService) DeleteDraw(ctx context.Context, contestID, drawID string) (ReprocessReport, error) {
	if err := s.store.DeleteDraw(ctx, drawID); err != nil {
		return ReprocessReport{}, err
	}
	return s.reprocessor.Reprocess(ctx, contestID)
}

// Standings lists active participations with their cached scores, best first.
func (s *BolaoService) Standings(ctx context.Context, contestID string) ([]models.Participation, error) {
	parts, err := s.store.ListActiveParticipations(ctx, contestID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].Score > parts[j].Score })
	return parts, nil
}

// PayoutsForDraw lists the stored payout records for one draw.
func (s *BolaoService) PayoutsForDraw(ctx context.Context, drawID string) ([]models.PayoutRecord, error) {
	return s.store.ListPayoutsForDraw(ctx, drawID)
}

func checkNumbers(contest models.Contest, ns models.NumberSet, want int) error {
	if len(ns) != want {
		return fmt.Errorf("%w: got %d numbers, want %d", ErrNumberRange, len(ns), want)
	}
	for _, n := range ns {
		if n < contest.MinNumber || n > contest.MaxNumber {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrNumberRange, n, contest.MinNumber, contest.MaxNumber)
		}
	}
	return nil
}
