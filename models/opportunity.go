package models

import "time"

const (
	OpportunityActive = "active"
	OpportunityClosed = "closed"
)

// Opportunity mirrors the opportunity table owned by the application service
// (read-only here). Needed for counts, activity annotation and the live
// opportunity count sent with encouragement emails.
type Opportunity struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ExternalID string    `json:"external_id" gorm:"uniqueIndex;not null"`
	Title      string    `json:"title" gorm:"not null"`
	Company    string    `json:"company"`
	Status     string    `json:"status" gorm:"index;default:'active'"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
