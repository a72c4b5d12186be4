package models

import "time"

// Attribution tag namespaces. A visit carries at most one tag; the kind says
// which registry the code belongs to.
const (
	AttributionReferral = "referral"
	AttributionPromo    = "promo"
)

// VisitorEvent is one recorded page view, authenticated or anonymous.
// Append-only: there is no update or delete path. Attribution is by string
// value, not a foreign key, so an event survives its code.
type VisitorEvent struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	UserID           *string   `json:"user_id,omitempty" gorm:"index"` // nil means anonymous
	Page             string    `json:"page" gorm:"index;not null"`
	SessionID        *string   `json:"session_id,omitempty"`
	UserAgent        string    `json:"user_agent"`
	IPAddress        string    `json:"ip_address"`
	Referrer         string    `json:"referrer"`
	AttributionCode  *string   `json:"attribution_code,omitempty" gorm:"index"`
	AttributionKind  string    `json:"attribution_kind,omitempty"`
	IsAuthenticated  bool      `json:"is_authenticated" gorm:"default:false"` // always equals UserID != nil
	TimeSpentSeconds int       `json:"time_spent_seconds" gorm:"default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}
