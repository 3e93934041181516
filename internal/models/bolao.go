package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// NumberSet is a set of distinct positive integers chosen within a contest's
// range. Order is irrelevant; Normalize sorts and deduplicates.
type NumberSet []int

// Normalize returns a sorted copy of the set with duplicates removed.
func (ns NumberSet) Normalize() NumberSet {
	seen := make(map[int]bool, len(ns))
	out := make(NumberSet, 0, len(ns))
	for _, n := range ns {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// Contains reports whether n is in the set.
func (ns NumberSet) Contains(n int) bool {
	for _, v := range ns {
		if v == n {
			return true
		}
	}
	return false
}

// ContestStatus is the lifecycle state of a contest.
type ContestStatus string

const (
	ContestOngoing  ContestStatus = "ongoing"
	ContestFinished ContestStatus = "finished"
)

// Contest represents one bolão: a numeric range, how many numbers each
// participation picks, and the percentage split applied to collected revenue.
type Contest struct {
	ID                      string        `json:"id"`
	Name                    string        `json:"name"`
	MinNumber               int           `json:"minNumber"`
	MaxNumber               int           `json:"maxNumber"`
	NumbersPerParticipation int           `json:"numbersPerParticipation"`
	Percentages             PercentConfig `json:"percentages"`
	Status                  ContestStatus `json:"status"`
	CreatedAt               time.Time     `json:"createdAt"`
}

// PercentConfig is the revenue split for a contest. The four fields must sum
// to 100 (within 0.01); Validate is checked once at the boundary, before any
// currency is computed.
type PercentConfig struct {
	TopPct      decimal.Decimal `json:"topPct"`
	SecondPct   decimal.Decimal `json:"secondPct"`
	LowestPct   decimal.Decimal `json:"lowestPct"`
	AdminFeePct decimal.Decimal `json:"adminFeePct"`
}

// Draw is one official drawing event for a contest. NumbersCount, when
// non-zero, overrides the contest's numbers-per-participation for this draw.
type Draw struct {
	ID           string    `json:"id"`
	ContestID    string    `json:"contestId"`
	Numbers      NumberSet `json:"numbers"`
	NumbersCount int       `json:"numbersCount,omitempty"`
	DrawDate     time.Time `json:"drawDate"`
}

// ParticipationStatus is the lifecycle state of a participation. Only active
// participations are scored.
type ParticipationStatus string

const (
	ParticipationActive    ParticipationStatus = "active"
	ParticipationCancelled ParticipationStatus = "cancelled"
)

// Participation is one purchased entry: a user's chosen numbers for a
// contest. Numbers are immutable after creation.
type Participation struct {
	ID         string              `json:"id"`
	ContestID  string              `json:"contestId"`
	UserID     string              `json:"userId"`
	Numbers    NumberSet           `json:"numbers"`
	TicketCode string              `json:"ticketCode,omitempty"`
	AmountPaid decimal.Decimal     `json:"amountPaid"`
	Status     ParticipationStatus `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	// Score and AllHitNumbers are the cached results of the last
	// reprocessing pass, stored for listing without recomputation.
	Score         int       `json:"score"`
	AllHitNumbers NumberSet `json:"allHitNumbers,omitempty"`
}

// Category is a mutually exclusive prize tier.
type Category string

const (
	CategoryTop    Category = "TOP"
	CategorySecond Category = "SECOND"
	CategoryLowest Category = "LOWEST"
	CategoryNone   Category = "NONE"
)

// ScoreEntry is a participation's derived score: the best single-draw hit
// count, plus every number it ever matched (display only).
type ScoreEntry struct {
	ParticipationID string    `json:"participationId"`
	UserID          string    `json:"userId"`
	Score           int       `json:"score"`
	AllHitNumbers   NumberSet `json:"allHitNumbers"`
}

// PayoutRecord is the outcome for one participation at one draw evaluation.
// Amount may be zero; NONE records are written explicitly so consumers can
// tell "evaluated, not a winner" from "not evaluated".
type PayoutRecord struct {
	ID              string          `json:"id,omitempty"`
	DrawID          string          `json:"drawId"`
	ParticipationID string          `json:"participationId"`
	UserID          string          `json:"userId"`
	Category        Category        `json:"category"`
	Score           int             `json:"score"`
	AmountWon       decimal.Decimal `json:"amountWon"`
}

// CategoryBreakdown is the distribution detail for one prize tier.
type CategoryBreakdown struct {
	Category    Category        `json:"category"`
	Percent     decimal.Decimal `json:"percent"`
	Total       decimal.Decimal `json:"total"`
	WinnerCount int             `json:"winnerCount"`
	PerWinner   decimal.Decimal `json:"perWinner"`
	Winners     []string        `json:"winners"`
}

// RateioSnapshot is a write-once audit record of one distribution pass.
type RateioSnapshot struct {
	ID             string              `json:"id"`
	ContestID      string              `json:"contestId"`
	TotalRevenue   decimal.Decimal     `json:"totalRevenue"`
	AdminFeeAmount decimal.Decimal     `json:"adminFeeAmount"`
	PrizePool      decimal.Decimal     `json:"prizePool"`
	Unallocated    decimal.Decimal     `json:"unallocated"`
	Percentages    PercentConfig       `json:"percentages"`
	Breakdown      []CategoryBreakdown `json:"breakdown"`
	CreatedAt      time.Time           `json:"createdAt"`
}
