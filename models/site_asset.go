package models

import "time"

// SiteAsset is an uploaded file bound to a named slot (logo, banner, ...).
type SiteAsset struct {
	ID          int       `json:"id" db:"id"`
	Slot        string    `json:"slot" db:"slot"`
	ObjectKey   string    `json:"-" db:"object_key"`
	ContentType string    `json:"content_type" db:"content_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	URL string `json:"url,omitempty" db:"-"`
}
