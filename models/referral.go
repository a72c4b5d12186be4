package models

import "time"

// ReferralCode is a short shareable token attached to marketing links so that
// visits and signups can be attributed to a source. Codes are never deleted;
// the click counter only ever goes up.
type ReferralCode struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by" gorm:"index;not null"` // ExternalUserID of the admin who created it
	Clicks      int64     `json:"clicks" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
