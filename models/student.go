package models

import "time"

// Section is a student cohort. Students carry one of the base sections;
// General and Foundation only appear on events as overlay tiers.
type Section string

const (
	SectionSenior     Section = "senior"
	SectionJunior     Section = "junior"
	SectionSubJunior  Section = "sub_junior"
	SectionGeneral    Section = "general"
	SectionFoundation Section = "foundation"
)

// BaseSections are the sections a student can belong to.
var BaseSections = []Section{SectionSenior, SectionJunior, SectionSubJunior}

// AllSections are the five presentation tiers in display order.
var AllSections = []Section{SectionSenior, SectionJunior, SectionSubJunior, SectionGeneral, SectionFoundation}

func (s Section) Valid() bool {
	switch s {
	case SectionSenior, SectionJunior, SectionSubJunior, SectionGeneral, SectionFoundation:
		return true
	}
	return false
}

func (s Section) IsBase() bool {
	return s == SectionSenior || s == SectionJunior || s == SectionSubJunior
}

type Student struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ChestNumber string    `json:"chest_number" db:"chest_number"`
	Section     Section   `json:"section" db:"section"`
	ClassGrade  string    `json:"class_grade" db:"class_grade"`
	TeamID      int       `json:"team_id" db:"team_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
