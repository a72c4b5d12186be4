package services

import (
	"errors"
	"fmt"
	"log"

	"dashboard-analytics-system/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrAlreadyApplied = errors.New("user has already applied")
)

type EncouragementService struct {
	DB   *gorm.DB
	Mail *MailServiceClient
}

func NewEncouragementService(db *gorm.DB, mail *MailServiceClient) *EncouragementService {
	return &EncouragementService{DB: db, Mail: mail}
}

// SendEncouragement nudges a signed-up user who never applied. Fails with
// ErrUserNotFound for an unknown user and ErrAlreadyApplied when any
// application record exists; a mail collaborator failure is propagated with
// its underlying reason. No record is kept that an encouragement was sent,
// so repeated calls re-send.
func (s *EncouragementService) SendEncouragement(userID string) error {
	var user models.PlatformUser
	if err := s.DB.Where("external_user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user %s: %w", userID, err)
	}

	var applications int64
	if err := s.DB.Model(&models.Application{}).
		Where("user_id = ?", userID).
		Count(&applications).Error; err != nil {
		return fmt.Errorf("failed to check applications for user %s: %w", userID, err)
	}
	if applications > 0 {
		return ErrAlreadyApplied
	}

	var openOpportunities int64
	if err := s.DB.Model(&models.Opportunity{}).
		Where("status = ?", models.OpportunityActive).
		Count(&openOpportunities).Error; err != nil {
		return fmt.Errorf("failed to count open opportunities: %w", err)
	}

	if err := s.Mail.SendEncouragement(user.Email, user.Name, openOpportunities); err != nil {
		return fmt.Errorf("encouragement email delivery failed: %w", err)
	}

	log.Printf("✅ Encouragement sent to %s (%d open opportunities)", user.Email, openOpportunities)
	return nil
}
