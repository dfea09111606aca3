package models

import "time"

const (
	ConfigFestivalName     = "festival_name"
	ConfigResultsPublished = "results_published"
	ConfigRegistrationOpen = "registration_open"
)

// ConfigDefaults are used when a key has no stored row.
var ConfigDefaults = map[string]string{
	ConfigFestivalName:     "Arts Festival",
	ConfigResultsPublished: "false",
	ConfigRegistrationOpen: "true",
}

type AppConfigEntry struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
