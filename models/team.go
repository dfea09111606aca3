package models

import "time"

// Team: команда (дом) фестиваля. Penalty выставляет администратор вручную.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	Penalty   int       `json:"penalty" db:"penalty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Students []Student `json:"students,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
