package models

import "time"

type EventCategory string

const (
	CategoryOnStage  EventCategory = "on_stage"
	CategoryOffStage EventCategory = "off_stage"
)

func (c EventCategory) Valid() bool {
	return c == CategoryOnStage || c == CategoryOffStage
}

// GradeTier classifies an event and selects its points row.
// Tier C events are group (team-level) events.
type GradeTier string

const (
	TierA GradeTier = "A"
	TierB GradeTier = "B"
	TierC GradeTier = "C"
)

var GradeTiers = []GradeTier{TierA, TierB, TierC}

func (g GradeTier) Valid() bool {
	return g == TierA || g == TierB || g == TierC
}

type Event struct {
	ID                 int           `json:"id" db:"id"`
	Name               string        `json:"name" db:"name"`
	Code               string        `json:"code" db:"code"`
	Category           EventCategory `json:"category" db:"category"`
	GradeTier          GradeTier     `json:"grade_tier" db:"grade_tier"`
	ApplicableSections []Section     `json:"applicable_sections" db:"applicable_sections"`
	MaxParticipants    int           `json:"max_participants" db:"max_participants"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
}

// IsGroup reports whether the event is a team-level event.
func (e Event) IsGroup() bool {
	return e.GradeTier == TierC
}

func (e Event) HasSection(s Section) bool {
	for _, sec := range e.ApplicableSections {
		if sec == s {
			return true
		}
	}
	return false
}

func (e Event) IsGeneral() bool {
	return e.HasSection(SectionGeneral)
}
