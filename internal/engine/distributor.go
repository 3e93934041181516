package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bolao/internal/models"
)

// Distribution is the result of splitting a revenue pool across the winning
// tiers of one evaluation.
type Distribution struct {
	TotalRevenue   decimal.Decimal
	AdminFeeAmount decimal.Decimal
	PrizePool      decimal.Decimal
	// Unallocated is the part of the tiers' prize share not paid out: empty
	// tiers keep their percentage, and per-winner truncation leaves cent
	// fractions.
	Unallocated decimal.Decimal
	PerCategory map[models.Category]models.CategoryBreakdown
	// AmountFor maps every winning participation to its prize.
	AmountFor map[string]decimal.Decimal
}

// winningCategories in payout order.
var winningCategories = []models.Category{
	models.CategoryTop,
	models.CategorySecond,
	models.CategoryLowest,
}

// Distribute splits totalRevenue across the winners of each tier. The admin
// fee comes off the top; each populated tier receives its configured share of
// the remaining pool, split equally among its winners.
//
// Rounding rule: the per-winner amount is truncated toward zero at 2 decimal
// places, applied once at the final division and nowhere else. The total
// distributed may therefore fall fractionally short of the pool; it never
// exceeds it. Tiers with no winners keep their share unallocated — money is
// never shifted between tiers.
func Distribute(winners map[models.Category][]string, totalRevenue decimal.Decimal, cfg models.PercentConfig) (Distribution, error) {
	if err := cfg.Validate(); err != nil {
		return Distribution{}, fmt.Errorf("distribute: %w", err)
	}

	adminFee := totalRevenue.Mul(cfg.AdminFeePct).Div(hundred)
	pool := totalRevenue.Sub(adminFee)

	dist := Distribution{
		TotalRevenue:   totalRevenue,
		AdminFeeAmount: adminFee,
		PrizePool:      pool,
		PerCategory:    make(map[models.Category]models.CategoryBreakdown, len(winningCategories)),
		AmountFor:      make(map[string]decimal.Decimal),
	}

	distributed := decimal.Zero
	for _, cat := range winningCategories {
		ids := winners[cat]
		pct := cfg.PercentFor(cat)
		bd := models.CategoryBreakdown{
			Category:    cat,
			Percent:     pct,
			WinnerCount: len(ids),
			PerWinner:   decimal.Zero,
			Total:       decimal.Zero,
			Winners:     ids,
		}
		if len(ids) > 0 {
			bd.Total = pool.Mul(pct).Div(hundred)
			bd.PerWinner = bd.Total.Div(decimal.NewFromInt(int64(len(ids)))).Truncate(2)
			for _, id := range ids {
				dist.AmountFor[id] = bd.PerWinner
				distributed = distributed.Add(bd.PerWinner)
			}
		}
		dist.PerCategory[cat] = bd
	}

	prizeShare := pool.Mul(cfg.TopPct.Add(cfg.SecondPct).Add(cfg.LowestPct)).Div(hundred)
	dist.Unallocated = prizeShare.Sub(distributed)
	return dist, nil
}

var hundred = decimal.NewFromInt(100)
