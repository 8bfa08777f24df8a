// Package access decides which complaints an identity may see.
package access

import "smartgriev/backend/internal/models"

// Actor is the authenticated caller as resolved from a token and profile.
type Actor struct {
	ID         string
	Email      string
	Name       string
	Role       string
	Department *string
}

func (a Actor) IsAdmin() bool   { return a.Role == models.RoleAdmin }
func (a Actor) IsOfficer() bool { return a.Role == models.RoleOfficer }
func (a Actor) IsCitizen() bool { return a.Role == models.RoleCitizen }

// ScopeFor returns the listing filter for actor. Citizens see their own
// complaints, officers see their department (nothing without one), every
// other role sees everything.
func ScopeFor(actor Actor) models.ComplaintFilter {
	switch actor.Role {
	case models.RoleCitizen:
		return models.ComplaintFilter{UserID: actor.ID}
	case models.RoleOfficer:
		if actor.Department == nil || *actor.Department == "" {
			return models.ComplaintFilter{MatchNone: true}
		}
		dept := *actor.Department
		return models.ComplaintFilter{Department: &dept}
	default:
		return models.ComplaintFilter{}
	}
}

// CanView reports whether actor may read c.
func CanView(actor Actor, c *models.Complaint) bool {
	return ScopeFor(actor).Matches(c)
}

// Filter keeps the complaints actor may see, preserving order.
func Filter(actor Actor, complaints []models.Complaint) []models.Complaint {
	scope := ScopeFor(actor)
	visible := make([]models.Complaint, 0, len(complaints))
	for i := range complaints {
		if scope.Matches(&complaints[i]) {
			visible = append(visible, complaints[i])
		}
	}
	return visible
}
