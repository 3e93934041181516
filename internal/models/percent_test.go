package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDefaultPercentConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultPercentConfig().Validate())
}

func TestPercentConfigValidate(t *testing.T) {
	cfg := PercentConfig{
		TopPct:      decimal.NewFromInt(50),
		SecondPct:   decimal.NewFromInt(20),
		LowestPct:   decimal.NewFromInt(10),
		AdminFeePct: decimal.NewFromInt(20),
	}
	assert.NoError(t, cfg.Validate())

	cfg.AdminFeePct = decimal.NewFromInt(25)
	assert.ErrorIs(t, cfg.Validate(), ErrPercentConfig)
}

func TestPercentConfigTolerance(t *testing.T) {
	cfg := PercentConfig{
		TopPct:      decimal.RequireFromString("65.005"),
		SecondPct:   decimal.NewFromInt(10),
		LowestPct:   decimal.NewFromInt(7),
		AdminFeePct: decimal.NewFromInt(18),
	}
	// 100.005 is inside the 0.01 tolerance.
	assert.NoError(t, cfg.Validate())

	cfg.TopPct = decimal.RequireFromString("65.02")
	assert.ErrorIs(t, cfg.Validate(), ErrPercentConfig)
}

func TestPercentConfigRejectsNegative(t *testing.T) {
	cfg := PercentConfig{
		TopPct:      decimal.NewFromInt(110),
		SecondPct:   decimal.NewFromInt(-10),
		LowestPct:   decimal.Zero,
		AdminFeePct: decimal.Zero,
	}
	assert.ErrorIs(t, cfg.Validate(), ErrPercentConfig)
}

func TestNumberSetNormalize(t *testing.T) {
	ns := NumberSet{9, 3, 3, 1, 9}
	assert.Equal(t, NumberSet{1, 3, 9}, ns.Normalize())
	// the original is untouched
	assert.Equal(t, NumberSet{9, 3, 3, 1, 9}, ns)
}
