package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrPercentConfig indicates a revenue split that does not sum to 100.
var ErrPercentConfig = errors.New("percent config must sum to 100")

var (
	hundred      = decimal.NewFromInt(100)
	sumTolerance = decimal.RequireFromString("0.01")
)

// DefaultPercentConfig is the split applied when a contest does not override
// it: 65% first place, 10% second, 7% lowest, 18% administration fee.
func DefaultPercentConfig() PercentConfig {
	return PercentConfig{
		TopPct:      decimal.NewFromInt(65),
		SecondPct:   decimal.NewFromInt(10),
		LowestPct:   decimal.NewFromInt(7),
		AdminFeePct: decimal.NewFromInt(18),
	}
}

// Sum returns the total of the four percentage fields.
func (c PercentConfig) Sum() decimal.Decimal {
	return c.TopPct.Add(c.SecondPct).Add(c.LowestPct).Add(c.AdminFeePct)
}

// Validate checks that no field is negative and that the four fields sum to
// 100 within a 0.01 tolerance. The split is never normalized or guessed; a
// bad config stops computation before any currency is distributed.
func (c PercentConfig) Validate() error {
	for _, p := range []decimal.Decimal{c.TopPct, c.SecondPct, c.LowestPct, c.AdminFeePct} {
		if p.IsNegative() {
			return fmt.Errorf("%w: negative percentage %s", ErrPercentConfig, p)
		}
	}
	if diff := c.Sum().Sub(hundred).Abs(); diff.GreaterThan(sumTolerance) {
		return fmt.Errorf("%w: got %s", ErrPercentConfig, c.Sum())
	}
	return nil
}

// PercentFor returns the prize percentage configured for a winning category.
// NONE has no percentage.
func (c PercentConfig) PercentFor(cat Category) decimal.Decimal {
	switch cat {
	case CategoryTop:
		return c.TopPct
	case CategorySecond:
		return c.SecondPct
	case CategoryLowest:
		return c.LowestPct
	}
	return decimal.Zero
}
