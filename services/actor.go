package services

import "github.com/Dosada05/artsfest/models"

// Actor is the authenticated caller as seen by the business layer.
// The zero value is an anonymous visitor.
type Actor struct {
	UserID int
	Role   models.UserRole
	TeamID *int
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanManageTeam: админ управляет любой командой, лидер только своей.
func (a Actor) CanManageTeam(teamID int) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == models.RoleTeamLeader && a.TeamID != nil && *a.TeamID == teamID
}
