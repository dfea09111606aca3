package scoring

import "github.com/Dosada05/artsfest/models"

// Tally is the summed result of a group of participations.
type Tally struct {
	Total   int `json:"total"`
	Firsts  int `json:"firsts"`
	Seconds int `json:"seconds"`
	Thirds  int `json:"thirds"`
}

func (t *Tally) add(d models.ParticipationDetail) {
	t.Total += d.PointsEarned
	if d.ResultPosition == nil {
		return
	}
	switch *d.ResultPosition {
	case models.PositionFirst:
		t.Firsts++
	case models.PositionSecond:
		t.Seconds++
	case models.PositionThird:
		t.Thirds++
	}
}

// CountsTowardStudent reports whether a row takes part in individual
// aggregation. Group events never do, even when a student is attached.
func CountsTowardStudent(d models.ParticipationDetail) bool {
	return d.StudentID != nil && !d.Event.IsGroup()
}

// ByStudent groups rows by student id. Group-event rows are skipped.
func ByStudent(rows []models.ParticipationDetail) map[int]Tally {
	out := make(map[int]Tally)
	for _, d := range rows {
		if !CountsTowardStudent(d) {
			continue
		}
		t := out[*d.StudentID]
		t.add(d)
		out[*d.StudentID] = t
	}
	return out
}

// ByTeam groups every row by its owning team.
func ByTeam(rows []models.ParticipationDetail) map[int]Tally {
	out := make(map[int]Tally)
	for _, d := range rows {
		t := out[d.TeamID]
		t.add(d)
		out[d.TeamID] = t
	}
	return out
}
