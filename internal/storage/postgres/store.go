// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"bolao/internal/models"
	"bolao/internal/storage"
)

// Store implements storage.Store on a database/sql handle.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS contests (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	min_number INT NOT NULL,
	max_number INT NOT NULL,
	numbers_per_participation INT NOT NULL,
	top_pct NUMERIC(5,2) NOT NULL,
	second_pct NUMERIC(5,2) NOT NULL,
	lowest_pct NUMERIC(5,2) NOT NULL,
	admin_fee_pct NUMERIC(5,2) NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS participations (
	id TEXT PRIMARY KEY,
	contest_id TEXT NOT NULL REFERENCES contests(id),
	user_id TEXT NOT NULL,
	numbers INT[] NOT NULL,
	ticket_code TEXT NOT NULL DEFAULT '',
	amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	score INT NOT NULL DEFAULT 0,
	all_hit_numbers INT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_participations_contest ON participations(contest_id);
CREATE TABLE IF NOT EXISTS draws (
	id TEXT PRIMARY KEY,
	contest_id TEXT NOT NULL REFERENCES contests(id),
	numbers INT[] NOT NULL,
	numbers_count INT NOT NULL DEFAULT 0,
	draw_date TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_draws_contest_date ON draws(contest_id, draw_date);
CREATE TABLE IF NOT EXISTS payouts (
	id TEXT PRIMARY KEY,
	draw_id TEXT NOT NULL REFERENCES draws(id) ON DELETE CASCADE,
	participation_id TEXT NOT NULL REFERENCES participations(id),
	user_id TEXT NOT NULL,
	category TEXT NOT NULL,
	score INT NOT NULL,
	amount_won NUMERIC(12,2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_payouts_draw ON payouts(draw_id);
CREATE TABLE IF NOT EXISTS rateio_snapshots (
	id TEXT PRIMARY KEY,
	contest_id TEXT NOT NULL REFERENCES contests(id),
	total_revenue NUMERIC(12,2) NOT NULL,
	admin_fee_amount NUMERIC(12,2) NOT NULL,
	prize_pool NUMERIC(12,2) NOT NULL,
	unallocated NUMERIC(12,2) NOT NULL,
	top_pct NUMERIC(5,2) NOT NULL,
	second_pct NUMERIC(5,2) NOT NULL,
	lowest_pct NUMERIC(5,2) NOT NULL,
	admin_fee_pct NUMERIC(5,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// --- ContestStore -----------------------------------------------------------

func (s *Store) CreateContest(ctx context.Context, c models.Contest) (models.Contest, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ContestOngoing
	}
	c.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contests (id, name, min_number, max_number, numbers_per_participation,
			top_pct, second_pct, lowest_pct, admin_fee_pct, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, c.ID, c.Name, c.MinNumber, c.MaxNumber, c.NumbersPerParticipation,
		c.Percentages.TopPct, c.Percentages.SecondPct, c.Percentages.LowestPct,
		c.Percentages.AdminFeePct, c.Status, c.CreatedAt)
	if err != nil {
		return models.Contest{}, err
	}
	return c, nil
}

func (s *Store) GetContest(ctx context.Context, id string) (models.Contest, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, min_number, max_number, numbers_per_participation,
			top_pct, second_pct, lowest_pct, admin_fee_pct, status, created_at
		FROM contests WHERE id = $1
	`, id)
	return scanContest(row)
}

func (s *Store) ListContests(ctx context.Context, status models.ContestStatus) ([]models.Contest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, min_number, max_number, numbers_per_participation,
			top_pct, second_pct, lowest_pct, admin_fee_pct, status, created_at
		FROM contests WHERE status = $1 ORDER BY created_at
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Contest
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) SetContestStatus(ctx context.Context, id string, status models.ContestStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE contests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContest(r rowScanner) (models.Contest, error) {
	var c models.Contest
	err := r.Scan(&c.ID, &c.Name, &c.MinNumber, &c.MaxNumber, &c.NumbersPerParticipation,
		&c.Percentages.TopPct, &c.Percentages.SecondPct, &c.Percentages.LowestPct,
		&c.Percentages.AdminFeePct, &c.Status, &c.CreatedAt)
	return c, err
}

// --- ParticipationStore -----------------------------------------------------

func (s *Store) CreateParticipation(ctx context.Context, p models.Participation) (models.Participation, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.ParticipationActive
	}
	p.Numbers = p.Numbers.Normalize()
	p.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participations (id, contest_id, user_id, numbers, ticket_code,
			amount_paid, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.ContestID, p.UserID, pq.Array(toInt64(p.Numbers)), p.TicketCode,
		p.AmountPaid, p.Status, p.CreatedAt)
	if err != nil {
		return models.Participation{}, err
	}
	return p, nil
}

func (s *Store) ListActiveParticipations(ctx context.Context, contestID string) ([]models.Participation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contest_id, user_id, numbers, ticket_code, amount_paid,
			status, score, all_hit_numbers, created_at
		FROM participations WHERE contest_id = $1 AND status = $2 ORDER BY created_at, id
	`, contestID, models.ParticipationActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Participation
	for rows.Next() {
		var p models.Participation
		var numbers, hits pq.Int64Array
		if err := rows.Scan(&p.ID, &p.ContestID, &p.UserID, &numbers, &p.TicketCode,
			&p.AmountPaid, &p.Status, &p.Score, &hits, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Numbers = fromInt64(numbers)
		p.AllHitNumbers = fromInt64(hits)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ResetScores(ctx context.Context, contestID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE participations SET score = 0, all_hit_numbers = '{}' WHERE contest_id = $1
	`, contestID)
	return err
}

func (s *Store) UpdateScore(ctx context.Context, participationID string, score int, allHits models.NumberSet) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE participations SET score = $2, all_hit_numbers = $3 WHERE id = $1
	`, participationID, score, pq.Array(toInt64(allHits)))
	return err
}

// TotalRevenue sums what active participations paid into the contest.
func (s *Store) TotalRevenue(ctx context.Context, contestID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_paid), 0) FROM participations
		WHERE contest_id = $1 AND status = $2
	`, contestID, models.ParticipationActive).Scan(&total)
	return total, err
}

// --- DrawStore --------------------------------------------------------------

func (s *Store) CreateDraw(ctx context.Context, d models.Draw) (models.Draw, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.Numbers = d.Numbers.Normalize()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO draws (id, contest_id, numbers, numbers_count, draw_date)
		VALUES ($1, $2, $3, $4, $5)
	`, d.ID, d.ContestID, pq.Array(toInt64(d.Numbers)), d.NumbersCount, d.DrawDate)
	if err != nil {
		return models.Draw{}, err
	}
	return d, nil
}

func (s *Store) UpdateDraw(ctx context.Context, d models.Draw) (models.Draw, error) {
	d.Numbers = d.Numbers.Normalize()
	res, err := s.db.ExecContext(ctx, `
		UPDATE draws SET numbers = $2, numbers_count = $3, draw_date = $4 WHERE id = $1
	`, d.ID, pq.Array(toInt64(d.Numbers)), d.NumbersCount, d.DrawDate)
	if err != nil {
		return models.Draw{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Draw{}, sql.ErrNoRows
	}
	return d, nil
}

func (s *Store) DeleteDraw(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM draws WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) ListDraws(ctx context.Context, contestID string) ([]models.Draw, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contest_id, numbers, numbers_count, draw_date
		FROM draws WHERE contest_id = $1 ORDER BY draw_date, id
	`, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Draw
	for rows.Next() {
		var d models.Draw
		var numbers pq.Int64Array
		if err := rows.Scan(&d.ID, &d.ContestID, &numbers, &d.NumbersCount, &d.DrawDate); err != nil {
			return nil, err
		}
		d.Numbers = fromInt64(numbers)
		out = append(out, d)
	}
	return out, rows.Err()
}

// --- PayoutStore ------------------------------------------------------------

// ReplacePayoutsForDraw deletes any existing rows for the draw and inserts
// the fresh set inside one transaction, so there is never an observable
// half-replaced state and repeated reprocessing cannot accumulate rows.
func (s *Store) ReplacePayoutsForDraw(ctx context.Context, drawID string, payouts []models.PayoutRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payouts WHERE draw_id = $1`, drawID); err != nil {
		return fmt.Errorf("delete payouts for draw %s: %w", drawID, err)
	}
	for _, p := range payouts {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payouts (id, draw_id, participation_id, user_id, category, score, amount_won)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, drawID, p.ParticipationID, p.UserID, p.Category, p.Score, p.AmountWon); err != nil {
			return fmt.Errorf("insert payout for participation %s: %w", p.ParticipationID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) DeletePayoutsForContest(ctx context.Context, contestID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM payouts WHERE draw_id IN (SELECT id FROM draws WHERE contest_id = $1)
	`, contestID)
	return err
}

func (s *Store) ListPayoutsForDraw(ctx context.Context, drawID string) ([]models.PayoutRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, draw_id, participation_id, user_id, category, score, amount_won
		FROM payouts WHERE draw_id = $1 ORDER BY participation_id
	`, drawID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.PayoutRecord
	for rows.Next() {
		var p models.PayoutRecord
		if err := rows.Scan(&p.ID, &p.DrawID, &p.ParticipationID, &p.UserID, &p.Category,
			&p.Score, &p.AmountWon); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- SnapshotStore ----------------------------------------------------------

func (s *Store) AppendSnapshot(ctx context.Context, snap models.RateioSnapshot) (models.RateioSnapshot, error) {
	snap.ID = uuid.NewString()
	snap.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rateio_snapshots (id, contest_id, total_revenue, admin_fee_amount,
			prize_pool, unallocated, top_pct, second_pct, lowest_pct, admin_fee_pct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, snap.ID, snap.ContestID, snap.TotalRevenue, snap.AdminFeeAmount, snap.PrizePool,
		snap.Unallocated, snap.Percentages.TopPct, snap.Percentages.SecondPct,
		snap.Percentages.LowestPct, snap.Percentages.AdminFeePct, snap.CreatedAt)
	if err != nil {
		return models.RateioSnapshot{}, err
	}
	return snap, nil
}

func toInt64(ns models.NumberSet) []int64 {
	out := make([]int64, len(ns))
	for i, n := range ns {
		out[i] = int64(n)
	}
	return out
}

func fromInt64(arr pq.Int64Array) models.NumberSet {
	out := make(models.NumberSet, len(arr))
	for i, n := range arr {
		out[i] = int(n)
	}
	return out
}
