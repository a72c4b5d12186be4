// services/scheduler.go
package services

import (
	"log"
	"time"

	"dashboard-analytics-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartClickReconciliation runs an hourly job that recounts each code's
// clicks from the event log and raises the stored counter if best-effort
// increments were lost. Counters are never lowered, so they stay
// monotonically non-decreasing.
func (s *ReferralService) StartClickReconciliation() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			s.reconcileReferralClicks()
			s.reconcilePromoClicks()
		}),
	)
}

func (s *ReferralService) reconcileReferralClicks() {
	var codes []models.ReferralCode
	if err := s.DB.Find(&codes).Error; err != nil {
		log.Printf("[Reconcile] DB error loading referral codes: %v", err)
		return
	}

	for _, rc := range codes {
		var observed int64
		err := s.DB.Model(&models.VisitorEvent{}).
			Where("attribution_kind = ? AND attribution_code = ?", models.AttributionReferral, rc.Code).
			Count(&observed).Error
		if err != nil {
			log.Printf("[Reconcile] count failed for referral %s: %v", rc.Code, err)
			continue
		}
		if observed > rc.Clicks {
			if err := s.DB.Model(&models.ReferralCode{}).
				Where("id = ?", rc.ID).
				UpdateColumn("clicks", observed).Error; err != nil {
				log.Printf("[Reconcile] update failed for referral %s: %v", rc.Code, err)
			} else {
				log.Printf("✅ Reconciled referral %s clicks %d → %d", rc.Code, rc.Clicks, observed)
			}
		}
	}
}

func (s *ReferralService) reconcilePromoClicks() {
	var links []models.PromoLink
	if err := s.DB.Find(&links).Error; err != nil {
		log.Printf("[Reconcile] DB error loading promo links: %v", err)
		return
	}

	for _, pl := range links {
		var observed int64
		err := s.DB.Model(&models.VisitorEvent{}).
			Where("attribution_kind = ? AND attribution_code = ?", models.AttributionPromo, pl.Code).
			Count(&observed).Error
		if err != nil {
			log.Printf("[Reconcile] count failed for promo %s: %v", pl.Code, err)
			continue
		}
		if observed > pl.Clicks {
			if err := s.DB.Model(&models.PromoLink{}).
				Where("id = ?", pl.ID).
				UpdateColumn("clicks", observed).Error; err != nil {
				log.Printf("[Reconcile] update failed for promo %s: %v", pl.Code, err)
			} else {
				log.Printf("✅ Reconciled promo %s clicks %d → %d", pl.Code, pl.Clicks, observed)
			}
		}
	}
}
