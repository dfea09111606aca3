package scoring

import "github.com/Dosada05/artsfest/models"

// TierTotals holds one point total per presentation tier.
type TierTotals struct {
	Senior     int `json:"senior"`
	Junior     int `json:"junior"`
	SubJunior  int `json:"sub_junior"`
	General    int `json:"general"`
	Foundation int `json:"foundation"`
}

func (t *TierTotals) Add(s models.Section, pts int) {
	switch s {
	case models.SectionSenior:
		t.Senior += pts
	case models.SectionJunior:
		t.Junior += pts
	case models.SectionSubJunior:
		t.SubJunior += pts
	case models.SectionGeneral:
		t.General += pts
	case models.SectionFoundation:
		t.Foundation += pts
	}
}

func (t TierTotals) Get(s models.Section) int {
	switch s {
	case models.SectionSenior:
		return t.Senior
	case models.SectionJunior:
		return t.Junior
	case models.SectionSubJunior:
		return t.SubJunior
	case models.SectionGeneral:
		return t.General
	case models.SectionFoundation:
		return t.Foundation
	}
	return 0
}

// FilterTier keeps the rows whose event lists the tier.
func FilterTier(rows []models.ParticipationDetail, tier models.Section) []models.ParticipationDetail {
	out := make([]models.ParticipationDetail, 0, len(rows))
	for _, d := range rows {
		if d.Event.HasSection(tier) {
			out = append(out, d)
		}
	}
	return out
}

// TeamTierTotals sums each team's points into the five tiers. A row counts in
// every tier its event lists. With excludeGeneralFromBase, General-tagged rows
// are left out of the Senior/Junior/Sub-Junior columns and only reported
// under General.
func TeamTierTotals(rows []models.ParticipationDetail, excludeGeneralFromBase bool) map[int]TierTotals {
	out := make(map[int]TierTotals)
	for _, tier := range models.AllSections {
		for _, d := range FilterTier(rows, tier) {
			if excludeGeneralFromBase && tier.IsBase() && d.Event.IsGeneral() {
				continue
			}
			t := out[d.TeamID]
			t.Add(tier, d.PointsEarned)
			out[d.TeamID] = t
		}
	}
	return out
}

// SplitByCategory separates on-stage and off-stage rows.
func SplitByCategory(rows []models.ParticipationDetail) (onStage, offStage []models.ParticipationDetail) {
	for _, d := range rows {
		switch d.Event.Category {
		case models.CategoryOnStage:
			onStage = append(onStage, d)
		case models.CategoryOffStage:
			offStage = append(offStage, d)
		}
	}
	return onStage, offStage
}

// IsEligible reports whether a student of the given section may enter the
// event. Overlay tiers are open to every section.
func IsEligible(e models.Event, s models.Section) bool {
	return e.HasSection(s) || e.HasSection(models.SectionGeneral) || e.HasSection(models.SectionFoundation)
}

func EligibleEvents(events []models.Event, s models.Section) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if IsEligible(e, s) {
			out = append(out, e)
		}
	}
	return out
}
