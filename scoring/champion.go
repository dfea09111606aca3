package scoring

import (
	"sort"

	"github.com/Dosada05/artsfest/models"
)

// Award names one section champion.
type Award struct {
	StudentID      int    `json:"student_id"`
	Name           string `json:"name"`
	ChestNumber    string `json:"chest_number"`
	TeamID         int    `json:"team_id"`
	TeamName       string `json:"team_name"`
	Total          int    `json:"total"`
	QualifyingWins int    `json:"qualifying_wins"`
}

// SectionChampions holds the primary (Kala) and secondary (Sargga) awardees.
// Either may be nil.
type SectionChampions struct {
	Section   models.Section `json:"section"`
	Primary   *Award         `json:"primary,omitempty"`
	Secondary *Award         `json:"secondary,omitempty"`
}

// IsQualifyingWin: first place, performance grade A, tier A event, and the
// event is not General-tagged.
func IsQualifyingWin(d models.ParticipationDetail) bool {
	return d.HasPosition(models.PositionFirst) &&
		d.PerformanceGrade != nil && *d.PerformanceGrade == models.PerformanceA &&
		d.Event.GradeTier == models.TierA &&
		!d.Event.IsGeneral()
}

type candidate struct {
	award    Award
	onStage  bool
	offStage bool
}

func rankCandidates(cs []*candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i].award, cs[j].award
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.QualifyingWins != b.QualifyingWins {
			return a.QualifyingWins > b.QualifyingWins
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.StudentID < b.StudentID
	})
}

// SelectChampions picks the awardees of one section. Rows of other sections
// and rows that do not count toward individual totals are ignored.
func SelectChampions(rows []models.ParticipationDetail, section models.Section) SectionChampions {
	pool := make(map[int]*candidate)
	for _, d := range rows {
		if !CountsTowardStudent(d) || d.Student == nil || d.Student.Section != section {
			continue
		}
		c, ok := pool[*d.StudentID]
		if !ok {
			c = &candidate{award: Award{
				StudentID:   *d.StudentID,
				Name:        d.Student.Name,
				ChestNumber: d.Student.ChestNumber,
				TeamID:      d.TeamID,
				TeamName:    d.TeamName,
			}}
			pool[*d.StudentID] = c
		}
		c.award.Total += d.PointsEarned
		if IsQualifyingWin(d) {
			c.award.QualifyingWins++
			switch d.Event.Category {
			case models.CategoryOnStage:
				c.onStage = true
			case models.CategoryOffStage:
				c.offStage = true
			}
		}
	}

	ranked := make([]*candidate, 0, len(pool))
	for _, c := range pool {
		ranked = append(ranked, c)
	}
	rankCandidates(ranked)

	res := SectionChampions{Section: section}
	for _, c := range ranked {
		if c.onStage && c.offStage {
			a := c.award
			res.Primary = &a
			break
		}
	}
	for _, c := range ranked {
		if res.Primary != nil && c.award.StudentID == res.Primary.StudentID {
			continue
		}
		a := c.award
		res.Secondary = &a
		break
	}
	return res
}

// SelectAllChampions runs SelectChampions for each base section.
func SelectAllChampions(rows []models.ParticipationDetail) []SectionChampions {
	out := make([]SectionChampions, 0, len(models.BaseSections))
	for _, s := range models.BaseSections {
		out = append(out, SelectChampions(rows, s))
	}
	return out
}
