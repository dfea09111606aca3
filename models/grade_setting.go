package models

import "time"

// GradeSetting overrides the default points row for a grade tier.
type GradeSetting struct {
	GradeTier    GradeTier `json:"grade_tier" db:"grade_tier"`
	FirstPoints  int       `json:"first_points" db:"first_points"`
	SecondPoints int       `json:"second_points" db:"second_points"`
	ThirdPoints  int       `json:"third_points" db:"third_points"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
