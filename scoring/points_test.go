package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/artsfest/models"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		tier models.GradeTier
		pos  *models.Position
		want int
	}{
		{models.TierA, pos(models.PositionFirst), 15},
		{models.TierA, pos(models.PositionSecond), 10},
		{models.TierA, pos(models.PositionThird), 5},
		{models.TierB, pos(models.PositionFirst), 10},
		{models.TierB, pos(models.PositionThird), 3},
		{models.TierC, pos(models.PositionFirst), 20},
		{models.TierC, pos(models.PositionThird), 10},
		{models.TierA, nil, 0},
		{models.GradeTier("Z"), pos(models.PositionFirst), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.PointsFor(tt.tier, tt.pos), "tier %s", tt.tier)
	}
}

func TestTableWithOverrides(t *testing.T) {
	base := DefaultTable()
	table := base.With([]models.GradeSetting{
		{GradeTier: models.TierA, FirstPoints: 25, SecondPoints: 15, ThirdPoints: 8},
		{GradeTier: models.GradeTier("bogus"), FirstPoints: 99},
	})

	assert.Equal(t, 25, table.PointsFor(models.TierA, pos(models.PositionFirst)))
	assert.Equal(t, 8, table.PointsFor(models.TierA, pos(models.PositionThird)))
	assert.Equal(t, 10, table.PointsFor(models.TierB, pos(models.PositionFirst)), "untouched tiers keep defaults")
	assert.Equal(t, 15, base.PointsFor(models.TierA, pos(models.PositionFirst)), "base table is not mutated")
	assert.Len(t, table, 3)
}
