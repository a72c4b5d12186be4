package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"dashboard-analytics-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// codeAttempts bounds the collision retry loop. With a 2^24 code space a
// collision is already unlikely; five retries in a row colliding is treated
// as effectively impossible.
const codeAttempts = 5

type ReferralService struct {
	DB *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{DB: db}
}

// generateCode returns a short human-shareable code: 3 crypto-random bytes
// as 6 uppercase hex characters.
func generateCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// CreateReferralCode generates a unique code and persists it with a zero
// click counter. Uniqueness is enforced at creation time with a bounded
// retry rather than a deterministic sequence.
func (s *ReferralService) CreateReferralCode(description, creatorID string) (*models.ReferralCode, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}

		var count int64
		if err := s.DB.Model(&models.ReferralCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("referral code lookup failed: %w", err)
		}
		if count > 0 {
			log.Printf("⚠️ referral code collision on %s (attempt %d), regenerating", code, attempt+1)
			continue
		}

		rc := &models.ReferralCode{
			ID:          uuid.NewString(),
			Code:        code,
			Description: description,
			CreatedBy:   creatorID,
		}
		if err := s.DB.Create(rc).Error; err != nil {
			return nil, fmt.Errorf("failed to create referral code: %w", err)
		}
		return rc, nil
	}
	return nil, fmt.Errorf("could not generate a unique referral code after %d attempts", codeAttempts)
}

// CreatePromoLink is the promo-campaign twin of CreateReferralCode, working
// against its own collection and namespace.
func (s *ReferralService) CreatePromoLink(description, creatorID string) (*models.PromoLink, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}

		var count int64
		if err := s.DB.Model(&models.PromoLink{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("promo link lookup failed: %w", err)
		}
		if count > 0 {
			log.Printf("⚠️ promo code collision on %s (attempt %d), regenerating", code, attempt+1)
			continue
		}

		pl := &models.PromoLink{
			ID:          uuid.NewString(),
			Code:        code,
			Description: description,
			CreatedBy:   creatorID,
		}
		if err := s.DB.Create(pl).Error; err != nil {
			return nil, fmt.Errorf("failed to create promo link: %w", err)
		}
		return pl, nil
	}
	return nil, fmt.Errorf("could not generate a unique promo code after %d attempts", codeAttempts)
}

// ListReferralCodes returns all codes, newest first, for the admin view.
// No pagination: acceptable at expected scale.
func (s *ReferralService) ListReferralCodes() ([]models.ReferralCode, error) {
	var codes []models.ReferralCode
	if err := s.DB.Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list referral codes: %w", err)
	}
	return codes, nil
}

func (s *ReferralService) ListPromoLinks() ([]models.PromoLink, error) {
	var links []models.PromoLink
	if err := s.DB.Order("created_at DESC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to list promo links: %w", err)
	}
	return links, nil
}

// RecordHit increments the click counter for the given code. Best-effort:
// a lookup miss or store error is swallowed, because click tracking must
// never block or fail the request it rode in on.
func (s *ReferralService) RecordHit(kind, code string) {
	var err error
	switch kind {
	case models.AttributionReferral:
		err = s.DB.Model(&models.ReferralCode{}).
			Where("code = ?", code).
			UpdateColumn("clicks", gorm.Expr("clicks + 1")).Error
	case models.AttributionPromo:
		err = s.DB.Model(&models.PromoLink{}).
			Where("code = ?", code).
			UpdateColumn("clicks", gorm.Expr("clicks + 1")).Error
	default:
		log.Printf("⚠️ unknown attribution kind %q for code %s, hit dropped", kind, code)
		return
	}
	if err != nil {
		log.Printf("⚠️ failed to record %s hit for %s: %v", kind, code, err)
	}
}
