package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bolao/internal/models"
)

func TestCountHits(t *testing.T) {
	draw := models.NumberSet{1, 2, 3, 4, 5, 6}

	assert.Equal(t, 6, CountHits(draw, models.NumberSet{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, 5, CountHits(draw, models.NumberSet{1, 2, 3, 4, 5, 7}))
	assert.Equal(t, 0, CountHits(draw, models.NumberSet{10, 20, 30, 40, 50, 60}))
	assert.Equal(t, 0, CountHits(draw, nil))
	assert.Equal(t, 0, CountHits(nil, models.NumberSet{1, 2, 3}))
}

func TestCountHitsSymmetry(t *testing.T) {
	a := models.NumberSet{3, 9, 14, 22, 41}
	b := models.NumberSet{9, 22, 50, 51}
	assert.Equal(t, CountHits(a, b), CountHits(b, a))
}

func TestHitNumbersSorted(t *testing.T) {
	hits := HitNumbers(models.NumberSet{42, 7, 13}, models.NumberSet{13, 42, 1})
	assert.Equal(t, models.NumberSet{13, 42}, hits)
}

func TestHitNumbersMatchesCount(t *testing.T) {
	draw := models.NumberSet{2, 4, 6, 8, 10, 12}
	for _, p := range []models.NumberSet{
		{1, 3, 5},
		{2, 4, 6},
		{2, 2, 4}, // duplicate input numbers count once
		nil,
	} {
		assert.Len(t, HitNumbers(draw, p), CountHits(draw, p))
	}
}

func TestHitNumbersIgnoresDuplicates(t *testing.T) {
	hits := HitNumbers(models.NumberSet{5, 5, 7}, models.NumberSet{5, 5, 9})
	assert.Equal(t, models.NumberSet{5}, hits)
}
