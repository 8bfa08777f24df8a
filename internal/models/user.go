package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCitizen = "CITIZEN"
	RoleOfficer = "OFFICER"
	RoleAdmin   = "ADMIN"
)

// Roles lists the roles accepted at registration.
var Roles = []string{RoleCitizen, RoleOfficer, RoleAdmin}

// IsKnownRole reports whether role is one of Roles.
func IsKnownRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Account holds sign-in credentials for the local identity provider.
type Account struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID when the account has none.
func (a *Account) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// Profile is the display and authorization data for an identity. Its ID is
// the identity's ID.
type Profile struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	Role       string    `gorm:"type:text;not null;default:'CITIZEN'" json:"role"`
	Phone      string    `gorm:"type:text" json:"phone"`
	Department *string   `gorm:"type:text" json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultProfile is used for identities that never created a profile.
func DefaultProfile(id, email string) *Profile {
	name := email
	if at := strings.Index(email, "@"); at >= 0 {
		name = email[:at]
	}
	return &Profile{ID: id, Name: name, Role: RoleCitizen}
}
