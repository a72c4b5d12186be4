package models

import "time"

// Application statuses form a fixed closed set owned by the application
// service. The dashboard only buckets them.
const (
	StatusPaymentPending = "payment_pending"
	StatusSubmitted      = "submitted"
	StatusUnderReview    = "under_review"
	StatusShortlisted    = "shortlisted"
	StatusRejected       = "rejected"
	StatusAccepted       = "accepted"
)

// PendingStatuses and CompletedStatuses are the two mutually exclusive
// buckets the applications-status report filters on.
var (
	PendingStatuses   = []string{StatusPaymentPending, StatusSubmitted, StatusUnderReview}
	CompletedStatuses = []string{StatusShortlisted, StatusRejected, StatusAccepted}
)

// Application mirrors the application service's table (read-only here).
// Populated via sync worker.
type Application struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	ExternalID     string    `json:"external_id" gorm:"uniqueIndex;not null"`
	UserID         string    `json:"user_id" gorm:"index;not null"` // ExternalUserID of the applicant
	OpportunityID  string    `json:"opportunity_id" gorm:"index;not null"`
	Status         string    `json:"status" gorm:"index;not null"`
	PaymentDone    bool      `json:"payment_done" gorm:"default:false"`
	ResumeAttached bool      `json:"resume_attached" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InPendingBucket reports whether the application's status falls in the
// pending bucket. Anything outside both buckets counts as neither.
func (a *Application) InPendingBucket() bool {
	for _, s := range PendingStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

func (a *Application) InCompletedBucket() bool {
	for _, s := range CompletedStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}
