package services

import (
	"log"

	"dashboard-analytics-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// HitQueue decouples visit recording from the attribution counter increment.
// Implemented by workers.AttributionHitWorker; Enqueue must never block.
type HitQueue interface {
	Enqueue(kind, code string)
}

type VisitorService struct {
	DB   *gorm.DB
	Hits HitQueue
}

func NewVisitorService(db *gorm.DB, hits HitQueue) *VisitorService {
	return &VisitorService{DB: db, Hits: hits}
}

// VisitInput is the tracked-visit request body. A visit carries at most one
// attribution code; if both are sent, referral wins.
type VisitInput struct {
	Page         string  `json:"page"`
	SessionID    *string `json:"session_id,omitempty"`
	TimeSpent    int     `json:"time_spent"`
	ReferralCode string  `json:"referral,omitempty"`
	PromoCode    string  `json:"promo,omitempty"`
}

// RequestMeta is what the transport layer knows about the caller.
type RequestMeta struct {
	UserID    string // "" for anonymous visitors
	UserAgent string
	IPAddress string
	Referrer  string
}

// RecordVisit persists one visitor event and reports soft success or
// failure. It never returns an error: tracking is a side channel, and a
// store failure must not disrupt the page that triggered it. On success,
// any attribution code is handed to the hit worker and not waited on.
func (s *VisitorService) RecordVisit(in VisitInput, meta RequestMeta) bool {
	page := slug.Make(in.Page)
	if page == "" {
		page = "unknown"
	}

	event := models.VisitorEvent{
		ID:               uuid.NewString(),
		Page:             page,
		SessionID:        in.SessionID,
		UserAgent:        meta.UserAgent,
		IPAddress:        meta.IPAddress,
		Referrer:         meta.Referrer,
		TimeSpentSeconds: in.TimeSpent,
	}

	if meta.UserID != "" {
		userID := meta.UserID
		event.UserID = &userID
		event.IsAuthenticated = true
	}

	var kind, code string
	if in.ReferralCode != "" {
		kind, code = models.AttributionReferral, in.ReferralCode
	} else if in.PromoCode != "" {
		kind, code = models.AttributionPromo, in.PromoCode
	}
	if code != "" {
		event.AttributionCode = &code
		event.AttributionKind = kind
	}

	if err := s.DB.Create(&event).Error; err != nil {
		log.Printf("⚠️ failed to record visitor event for page %s: %v", page, err)
		return false
	}

	if code != "" && s.Hits != nil {
		s.Hits.Enqueue(kind, code)
	}
	return true
}
