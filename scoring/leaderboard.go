package scoring

import (
	"sort"

	"github.com/Dosada05/artsfest/models"
)

type TeamStanding struct {
	Rank     int    `json:"rank"`
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	Color    string `json:"color"`

	Raw      int `json:"raw_total"`
	Penalty  int `json:"penalty"`
	Adjusted int `json:"adjusted_total"`

	Firsts  int `json:"firsts"`
	Seconds int `json:"seconds"`
	Thirds  int `json:"thirds"`

	OnStage  int        `json:"on_stage"`
	OffStage int        `json:"off_stage"`
	Tiers    TierTotals `json:"tiers"`
}

type StudentStanding struct {
	Rank        int            `json:"rank"`
	StudentID   int            `json:"student_id"`
	Name        string         `json:"name"`
	ChestNumber string         `json:"chest_number"`
	Section     models.Section `json:"section"`
	TeamID      int            `json:"team_id"`
	TeamName    string         `json:"team_name"`
	Tally
}

// TeamLeaderboard ranks every team by adjusted total. Teams without rows are
// listed with zero totals. Ties fall back to name, then id.
func TeamLeaderboard(teams []models.Team, rows []models.ParticipationDetail) []TeamStanding {
	tallies := ByTeam(rows)
	tiers := TeamTierTotals(rows, true)
	onRows, offRows := SplitByCategory(rows)
	on, off := ByTeam(onRows), ByTeam(offRows)

	out := make([]TeamStanding, 0, len(teams))
	for _, t := range teams {
		tally := tallies[t.ID]
		out = append(out, TeamStanding{
			TeamID:   t.ID,
			TeamName: t.Name,
			Color:    t.Color,
			Raw:      tally.Total,
			Penalty:  t.Penalty,
			Adjusted: Adjust(tally.Total, t.Penalty),
			Firsts:   tally.Firsts,
			Seconds:  tally.Seconds,
			Thirds:   tally.Thirds,
			OnStage:  on[t.ID].Total,
			OffStage: off[t.ID].Total,
			Tiers:    tiers[t.ID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Adjusted != out[j].Adjusted {
			return out[i].Adjusted > out[j].Adjusted
		}
		if out[i].TeamName != out[j].TeamName {
			return out[i].TeamName < out[j].TeamName
		}
		return out[i].TeamID < out[j].TeamID
	})
	assignRanks(len(out), func(i int) int { return out[i].Adjusted }, func(i, r int) { out[i].Rank = r })
	return out
}

// RankByTier re-ranks a team board by one tier column. Ties keep the order
// of the input board.
func RankByTier(board []TeamStanding, tier models.Section) []TeamStanding {
	out := append([]TeamStanding(nil), board...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tiers.Get(tier) > out[j].Tiers.Get(tier)
	})
	assignRanks(len(out), func(i int) int { return out[i].Tiers.Get(tier) }, func(i, r int) { out[i].Rank = r })
	return out
}

// StudentLeaderboard ranks students by individual total. A non-nil section
// keeps only students of that section.
func StudentLeaderboard(rows []models.ParticipationDetail, section *models.Section) []StudentStanding {
	tallies := ByStudent(rows)
	seen := make(map[int]bool, len(tallies))
	out := make([]StudentStanding, 0, len(tallies))

	for _, d := range rows {
		if !CountsTowardStudent(d) || d.Student == nil {
			continue
		}
		if section != nil && d.Student.Section != *section {
			continue
		}
		if seen[*d.StudentID] {
			continue
		}
		seen[*d.StudentID] = true
		out = append(out, StudentStanding{
			StudentID:   *d.StudentID,
			Name:        d.Student.Name,
			ChestNumber: d.Student.ChestNumber,
			Section:     d.Student.Section,
			TeamID:      d.TeamID,
			TeamName:    d.TeamName,
			Tally:       tallies[*d.StudentID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].StudentID < out[j].StudentID
	})
	assignRanks(len(out), func(i int) int { return out[i].Total }, func(i, r int) { out[i].Rank = r })
	return out
}

// assignRanks gives competition ranks (1, 1, 3) over an already sorted slice.
func assignRanks(n int, total func(int) int, set func(int, int)) {
	rank := 0
	for i := 0; i < n; i++ {
		if i == 0 || total(i) != total(i-1) {
			rank = i + 1
		}
		set(i, rank)
	}
}
