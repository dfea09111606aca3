// Package scoring turns bulk-fetched participation rows into totals, tier
// breakdowns, leaderboards and section champions. Everything here is a pure
// function of its input.
package scoring

import "github.com/Dosada05/artsfest/models"

// Points is one row of the points table.
type Points struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Third  int `json:"third"`
}

func (p Points) For(pos models.Position) int {
	switch pos {
	case models.PositionFirst:
		return p.First
	case models.PositionSecond:
		return p.Second
	case models.PositionThird:
		return p.Third
	}
	return 0
}

// Table maps a grade tier to its points row.
type Table map[models.GradeTier]Points

func DefaultTable() Table {
	return Table{
		models.TierA: {First: 15, Second: 10, Third: 5},
		models.TierB: {First: 10, Second: 5, Third: 3},
		models.TierC: {First: 20, Second: 15, Third: 10},
	}
}

// With returns a copy of t where stored settings replace the matching rows.
func (t Table) With(settings []models.GradeSetting) Table {
	out := make(Table, len(t))
	for tier, row := range t {
		out[tier] = row
	}
	for _, s := range settings {
		if !s.GradeTier.Valid() {
			continue
		}
		out[s.GradeTier] = Points{First: s.FirstPoints, Second: s.SecondPoints, Third: s.ThirdPoints}
	}
	return out
}

// PointsFor returns 0 when there is no position or the tier is unknown.
func (t Table) PointsFor(tier models.GradeTier, pos *models.Position) int {
	if pos == nil {
		return 0
	}
	row, ok := t[tier]
	if !ok {
		return 0
	}
	return row.For(*pos)
}
