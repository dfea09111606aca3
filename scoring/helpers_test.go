package scoring

import "github.com/Dosada05/artsfest/models"

func pos(p models.Position) *models.Position { return &p }

func grade(g models.PerformanceGrade) *models.PerformanceGrade { return &g }

func ev(id int, cat models.EventCategory, tier models.GradeTier, sections ...models.Section) models.Event {
	return models.Event{ID: id, Name: "event", Code: "E", Category: cat, GradeTier: tier, ApplicableSections: sections}
}

func student(id int, name string, sec models.Section, teamID int) *models.Student {
	return &models.Student{ID: id, Name: name, ChestNumber: name, Section: sec, TeamID: teamID}
}

// row builds an individual participation with points from the default table.
func row(s *models.Student, e models.Event, p *models.Position, g *models.PerformanceGrade) models.ParticipationDetail {
	id := s.ID
	return models.ParticipationDetail{
		Participation: models.Participation{
			StudentID:        &id,
			TeamID:           s.TeamID,
			EventID:          e.ID,
			ResultPosition:   p,
			PerformanceGrade: g,
			PointsEarned:     DefaultTable().PointsFor(e.GradeTier, p),
		},
		Event:    e,
		Student:  s,
		TeamName: "team",
	}
}

func teamRow(teamID int, e models.Event, points int) models.ParticipationDetail {
	return models.ParticipationDetail{
		Participation: models.Participation{TeamID: teamID, EventID: e.ID, PointsEarned: points},
		Event:         e,
	}
}
