package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bolao/internal/models"
)

func day(n int) time.Time {
	return time.Date(2025, time.March, n, 20, 0, 0, 0, time.UTC)
}

func TestScoreBestSingleDraw(t *testing.T) {
	numbers := models.NumberSet{1, 2, 3, 4, 5, 6}
	draws := []models.Draw{
		{ID: "d1", Numbers: models.NumberSet{1, 2, 3, 10, 11, 12}, DrawDate: day(1)},
		{ID: "d2", Numbers: models.NumberSet{4, 5, 20, 21, 22, 23}, DrawDate: day(2)},
	}

	res := Score(numbers, draws)

	// Three hits in d1, two in d2: the score is the best single draw, never
	// the sum across draws.
	assert.Equal(t, 3, res.Score)
	// The hit set accumulates across draws for display.
	assert.Equal(t, models.NumberSet{1, 2, 3, 4, 5}, res.AllHitNumbers)
}

func TestScoreNoDraws(t *testing.T) {
	res := Score(models.NumberSet{1, 2, 3}, nil)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.AllHitNumbers)
}

func TestScoreBoundedByNumbersPicked(t *testing.T) {
	numbers := models.NumberSet{7, 8, 9}
	draws := []models.Draw{
		{ID: "d1", Numbers: models.NumberSet{7, 8, 9}, DrawDate: day(1)},
		{ID: "d2", Numbers: models.NumberSet{7, 8, 9}, DrawDate: day(2)},
		{ID: "d3", Numbers: models.NumberSet{7, 8, 9}, DrawDate: day(3)},
	}
	res := Score(numbers, draws)
	assert.LessOrEqual(t, res.Score, len(numbers))
	assert.Equal(t, 3, res.Score)
}

func TestValidDrawsAntiBackdating(t *testing.T) {
	p := models.Participation{ID: "p1", CreatedAt: day(5)}
	draws := []models.Draw{
		{ID: "before", DrawDate: day(3)},
		{ID: "same", DrawDate: day(5)},
		{ID: "after", DrawDate: day(7)},
	}

	valid := ValidDraws(p, draws, day(10))

	// A draw that happened before the participation existed never counts,
	// even if the numbers would match.
	ids := make([]string, 0, len(valid))
	for _, d := range valid {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"same", "after"}, ids)
}

func TestValidDrawsCutoff(t *testing.T) {
	p := models.Participation{ID: "p1", CreatedAt: day(1)}
	draws := []models.Draw{
		{ID: "d1", DrawDate: day(2)},
		{ID: "d2", DrawDate: day(4)},
		{ID: "d3", DrawDate: day(6)},
	}

	valid := ValidDraws(p, draws, day(4))

	assert.Len(t, valid, 2)
	assert.Equal(t, "d2", valid[1].ID)
}
