package models

import "time"

// PromoLink is the promo-campaign twin of ReferralCode. Same shape, separate
// collection: codes only need to be unique within their own table.
type PromoLink struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by" gorm:"index;not null"`
	Clicks      int64     `json:"clicks" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
