// Package testutil provides an in-memory storage.Store for tests.
package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bolao/internal/models"
	"bolao/internal/storage"
)

// MemStore implements storage.Store on maps. FailDraws lists draw ids whose
// payout writes should fail, for exercising failure isolation.
type MemStore struct {
	Contests       map[string]models.Contest
	Participations map[string]models.Participation
	Draws          map[string]models.Draw
	Payouts        map[string][]models.PayoutRecord // keyed by draw id
	Snapshots      []models.RateioSnapshot
	FailDraws      map[string]bool
	nextID         int
}

var _ storage.Store = (*MemStore)(nil)

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		Contests:       map[string]models.Contest{},
		Participations: map[string]models.Participation{},
		Draws:          map[string]models.Draw{},
		Payouts:        map[string][]models.PayoutRecord{},
		FailDraws:      map[string]bool{},
	}
}

func (m *MemStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *MemStore) CreateContest(_ context.Context, c models.Contest) (models.Contest, error) {
	if c.ID == "" {
		c.ID = m.id("contest")
	}
	if c.Status == "" {
		c.Status = models.ContestOngoing
	}
	m.Contests[c.ID] = c
	return c, nil
}

func (m *MemStore) GetContest(_ context.Context, id string) (models.Contest, error) {
	c, ok := m.Contests[id]
	if !ok {
		return models.Contest{}, sql.ErrNoRows
	}
	return c, nil
}

func (m *MemStore) ListContests(_ context.Context, status models.ContestStatus) ([]models.Contest, error) {
	var out []models.Contest
	for _, c := range m.Contests {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemStore) SetContestStatus(_ context.Context, id string, status models.ContestStatus) error {
	c, ok := m.Contests[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Status = status
	m.Contests[id] = c
	return nil
}

func (m *MemStore) CreateParticipation(_ context.Context, p models.Participation) (models.Participation, error) {
	if p.ID == "" {
		p.ID = m.id("part")
	}
	if p.Status == "" {
		p.Status = models.ParticipationActive
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.Participations[p.ID] = p
	return p, nil
}

func (m *MemStore) ListActiveParticipations(_ context.Context, contestID string) ([]models.Participation, error) {
	var out []models.Participation
	for _, p := range m.Participations {
		if p.ContestID == contestID && p.Status == models.ParticipationActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) ResetScores(_ context.Context, contestID string) error {
	for id, p := range m.Participations {
		if p.ContestID == contestID {
			p.Score = 0
			p.AllHitNumbers = nil
			m.Participations[id] = p
		}
	}
	return nil
}

func (m *MemStore) UpdateScore(_ context.Context, participationID string, score int, allHits models.NumberSet) error {
	p, ok := m.Participations[participationID]
	if !ok {
		return sql.ErrNoRows
	}
	p.Score = score
	p.AllHitNumbers = allHits
	m.Participations[participationID] = p
	return nil
}

func (m *MemStore) TotalRevenue(_ context.Context, contestID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.Participations {
		if p.ContestID == contestID && p.Status == models.ParticipationActive {
			total = total.Add(p.AmountPaid)
		}
	}
	return total, nil
}

func (m *MemStore) CreateDraw(_ context.Context, d models.Draw) (models.Draw, error) {
	if d.ID == "" {
		d.ID = m.id("draw")
	}
	m.Draws[d.ID] = d
	return d, nil
}

func (m *MemStore) UpdateDraw(_ context.Context, d models.Draw) (models.Draw, error) {
	if _, ok := m.Draws[d.ID]; !ok {
		return models.Draw{}, sql.ErrNoRows
	}
	m.Draws[d.ID] = d
	return d, nil
}

func (m *MemStore) DeleteDraw(_ context.Context, id string) error {
	if _, ok := m.Draws[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.Draws, id)
	delete(m.Payouts, id)
	return nil
}

func (m *MemStore) ListDraws(_ context.Context, contestID string) ([]models.Draw, error) {
	var out []models.Draw
	for _, d := range m.Draws {
		if d.ContestID == contestID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DrawDate.Before(out[j].DrawDate) })
	return out, nil
}

func (m *MemStore) ReplacePayoutsForDraw(_ context.Context, drawID string, payouts []models.PayoutRecord) error {
	if m.FailDraws[drawID] {
		return errors.New("simulated write failure")
	}
	m.Payouts[drawID] = append([]models.PayoutRecord(nil), payouts...)
	return nil
}

func (m *MemStore) DeletePayoutsForContest(_ context.Context, contestID string) error {
	for drawID := range m.Payouts {
		if d, ok := m.Draws[drawID]; !ok || d.ContestID == contestID {
			delete(m.Payouts, drawID)
		}
	}
	return nil
}

func (m *MemStore) ListPayoutsForDraw(_ context.Context, drawID string) ([]models.PayoutRecord, error) {
	return m.Payouts[drawID], nil
}

func (m *MemStore) AppendSnapshot(_ context.Context, s models.RateioSnapshot) (models.RateioSnapshot, error) {
	s.ID = m.id("snap")
	s.CreatedAt = time.Now().UTC()
	m.Snapshots = append(m.Snapshots, s)
	return s, nil
}
