package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTeamLeader UserRole = "team_leader"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleTeamLeader
}

// User: профиль с доступом к порталу. Лидер команды всегда привязан к TeamID.
type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	TeamID       *int      `json:"team_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
