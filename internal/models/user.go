package models

import "time"

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleSuperuser UserRole = "superuser"
)

// User is the full identity record as stored in the users collection.
// PasswordHash, TOTPSecret and RecoveryCodes must never leave the
// service layer; every outward-facing path goes through Public().
type User struct {
	ID            string    `bson:"_id" json:"id"`
	Email         string    `bson:"email" json:"email"`
	Username      string    `bson:"username" json:"username"`
	PasswordHash  []byte    `bson:"passwordHash" json:"-"`
	Role          UserRole  `bson:"role" json:"role"`
	TOTPSecret    string    `bson:"totpSecret,omitempty" json:"-"`
	TOTPEnabled   bool      `bson:"totpEnabled" json:"totpEnabled"`
	RecoveryCodes []string  `bson:"recoveryCodes,omitempty" json:"-"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the sanitized projection returned to callers. It has
// no fields for credentials or second-factor material, so a sensitive
// value cannot be forwarded by accident.
type PublicUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Role        UserRole  `json:"role"`
	TOTPEnabled bool      `json:"totpEnabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Public projects the full record onto its caller-visible view.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Role:        u.Role,
		TOTPEnabled: u.TOTPEnabled,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
