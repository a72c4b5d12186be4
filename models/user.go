package models

import "time"

const (
	RoleStudent  = "student"
	RoleGraduate = "graduate"
	RoleAdmin    = "admin"
)

// PlatformUser is a local snapshot of user data owned by the auth service.
// Populated via sync worker; read-only for every other component here.
type PlatformUser struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	ExternalUserID string    `json:"external_user_id" gorm:"uniqueIndex;not null"` // the auth service's UUID
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role" gorm:"index;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`
}
