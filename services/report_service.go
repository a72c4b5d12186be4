package services

import (
	"fmt"
	"time"

	"dashboard-analytics-system/models"
	"dashboard-analytics-system/utils"

	"gorm.io/gorm"
)

// ReportService answers the dashboard's read-and-aggregate questions over
// the visitor event log and the user/application mirrors. All reads are
// snapshots at call time; the queries composing one report are not
// transactionally isolated, which is acceptable for an analytics dashboard.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type DashboardStats struct {
	TotalOpportunities int64  `json:"total_opportunities"`
	TotalApplications  *int64 `json:"total_applications,omitempty"` // admin only
	MyApplications     int64  `json:"my_applications"`
}

// GetStats returns role-scoped counts: the same query shape, with a
// different filter. Admins see the global application total, everyone else
// only their own.
func (s *ReportService) GetStats(userID string, isAdmin bool) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.DB.Model(&models.Opportunity{}).Count(&stats.TotalOpportunities).Error; err != nil {
		return nil, fmt.Errorf("failed to count opportunities: %w", err)
	}

	if err := s.DB.Model(&models.Application{}).
		Where("user_id = ?", userID).
		Count(&stats.MyApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to count own applications: %w", err)
	}

	if isAdmin {
		var total int64
		if err := s.DB.Model(&models.Application{}).Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count applications: %w", err)
		}
		stats.TotalApplications = &total
	}

	return stats, nil
}

type ActivityItem struct {
	ApplicationID string    `json:"application_id"`
	OpportunityID string    `json:"opportunity_id"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// GetRecentActivity returns the caller's own last applications, newest
// first, each annotated with the related opportunity's title and company.
// The join happens in memory by opportunity id.
func (s *ReportService) GetRecentActivity(userID string, limit int) ([]ActivityItem, error) {
	var apps []models.Application
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent applications: %w", err)
	}

	oppIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		oppIDs = append(oppIDs, a.OpportunityID)
	}

	oppByID := map[string]models.Opportunity{}
	if len(oppIDs) > 0 {
		var opps []models.Opportunity
		if err := s.DB.Where("external_id IN ?", oppIDs).Find(&opps).Error; err != nil {
			return nil, fmt.Errorf("failed to load opportunities: %w", err)
		}
		for _, o := range opps {
			oppByID[o.ExternalID] = o
		}
	}

	items := make([]ActivityItem, 0, len(apps))
	for _, a := range apps {
		item := ActivityItem{
			ApplicationID: a.ExternalID,
			OpportunityID: a.OpportunityID,
			Status:        a.Status,
			CreatedAt:     a.CreatedAt,
		}
		if o, ok := oppByID[a.OpportunityID]; ok {
			item.Title = o.Title
			item.Company = o.Company
		}
		items = append(items, item)
	}
	return items, nil
}

type BucketStats struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

type ApplicationsPage struct {
	Applications []models.Application `json:"applications"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	Total        int64                `json:"total"`
	Pages        int                  `json:"pages"`
	Stats        BucketStats          `json:"stats"` // bucket membership of this page's rows only
}

// GetApplicationsByStatus returns one page of applications, optionally
// filtered to the pending or completed bucket. An unrecognized status value
// means no filter. The per-page stats are computed over the returned rows,
// not the whole dataset; that is intentional.
func (s *ReportService) GetApplicationsByStatus(page, limit int, status string) (*ApplicationsPage, error) {
	query := s.DB.Model(&models.Application{})
	switch status {
	case "pending":
		query = query.Where("status IN ?", models.PendingStatuses)
	case "completed":
		query = query.Where("status IN ?", models.CompletedStatuses)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	var apps []models.Application
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to load applications page: %w", err)
	}

	result := &ApplicationsPage{
		Applications: apps,
		Page:         page,
		Limit:        limit,
		Total:        total,
		Pages:        utils.Pages(total, limit),
	}
	for i := range apps {
		if apps[i].InPendingBucket() {
			result.Stats.Pending++
		} else if apps[i].InCompletedBucket() {
			result.Stats.Completed++
		}
	}
	return result, nil
}

type PageCount struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

type CohortMember struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Visits    int64     `json:"visits"`
}

type VisitorAnalytics struct {
	WindowDays            int                   `json:"window_days"`
	TotalVisitors         int64                 `json:"total_visitors"`
	AnonVisitors          int64                 `json:"anon_visitors"`
	AuthenticatedVisitors int64                 `json:"authenticated_visitors"`
	AvgTimeSpentSeconds   float64               `json:"avg_time_spent_seconds"`
	VisitsByPage          []PageCount           `json:"visits_by_page"`
	NotApplied            []CohortMember        `json:"not_applied"`
	RecentSignups         []models.PlatformUser `json:"recent_signups"`
}

// GetVisitorAnalytics aggregates the event log over a trailing window.
// Authenticated visits are total minus anonymous, computed by subtraction so
// nothing is double-counted.
func (s *ReportService) GetVisitorAnalytics(days int) (*VisitorAnalytics, error) {
	since := time.Now().AddDate(0, 0, -days)
	analytics := &VisitorAnalytics{WindowDays: days}

	if err := s.DB.Model(&models.VisitorEvent{}).
		Where("created_at > ?", since).
		Count(&analytics.TotalVisitors).Error; err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	if err := s.DB.Model(&models.VisitorEvent{}).
		Where("created_at > ? AND user_id IS NULL", since).
		Count(&analytics.AnonVisitors).Error; err != nil {
		return nil, fmt.Errorf("failed to count anonymous visits: %w", err)
	}
	analytics.AuthenticatedVisitors = analytics.TotalVisitors - analytics.AnonVisitors

	if err := s.DB.Model(&models.VisitorEvent{}).
		Select("COALESCE(AVG(time_spent_seconds), 0)").
		Where("created_at > ?", since).
		Scan(&analytics.AvgTimeSpentSeconds).Error; err != nil {
		return nil, fmt.Errorf("failed to average time spent: %w", err)
	}

	if err := s.DB.Model(&models.VisitorEvent{}).
		Select("page, COUNT(*) as count").
		Where("created_at > ?", since).
		Group("page").
		Order("count DESC").
		Scan(&analytics.VisitsByPage).Error; err != nil {
		return nil, fmt.Errorf("failed to group visits by page: %w", err)
	}

	cohort, err := s.notAppliedUsers(since)
	if err != nil {
		return nil, err
	}
	for _, u := range cohort {
		member := CohortMember{
			UserID:    u.ExternalUserID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		}
		// Second query per member; fine at current scale, see DESIGN.md.
		if err := s.DB.Model(&models.VisitorEvent{}).
			Where("user_id = ?", u.ExternalUserID).
			Count(&member.Visits).Error; err != nil {
			return nil, fmt.Errorf("failed to count visits for user %s: %w", u.ExternalUserID, err)
		}
		analytics.NotApplied = append(analytics.NotApplied, member)
	}

	if err := s.DB.Order("created_at DESC").
		Limit(20).
		Find(&analytics.RecentSignups).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent signups: %w", err)
	}

	return analytics, nil
}

// notAppliedUsers is the "signed up but never applied" cohort: users with
// role student or graduate, created after since, whose id appears nowhere in
// the applications table. Computed as a full distinct scan plus an in-memory
// set difference. A zero since means no time bound.
func (s *ReportService) notAppliedUsers(since time.Time) ([]models.PlatformUser, error) {
	var candidates []models.PlatformUser
	query := s.DB.Where("role IN ?", []string{models.RoleStudent, models.RoleGraduate})
	if !since.IsZero() {
		query = query.Where("created_at > ?", since)
	}
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to load cohort candidates: %w", err)
	}

	var appliedIDs []string
	if err := s.DB.Model(&models.Application{}).
		Distinct("user_id").
		Pluck("user_id", &appliedIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to scan applied user ids: %w", err)
	}
	applied := make(map[string]struct{}, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = struct{}{}
	}

	var cohort []models.PlatformUser
	for _, u := range candidates {
		if _, ok := applied[u.ExternalUserID]; !ok {
			cohort = append(cohort, u)
		}
	}
	return cohort, nil
}

type VisitorRow struct {
	ID               string    `json:"id"`
	Page             string    `json:"page"`
	VisitorName      string    `json:"visitor_name"`
	VisitorEmail     string    `json:"visitor_email,omitempty"`
	Anonymous        bool      `json:"anonymous"`
	AttributionKind  string    `json:"attribution_kind,omitempty"`
	AttributionCode  string    `json:"attribution_code,omitempty"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
	CreatedAt        time.Time `json:"created_at"`
}

type VisitorsPage struct {
	Visitors []VisitorRow `json:"visitors"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
	Total    int64        `json:"total"`
	Pages    int          `json:"pages"`
}

// ListVisitors returns one page of visitor events, newest first, filterable
// by anonymous / logged-in / not-applied. Any other type value means no
// filter. Rows resolve the visitor's name and email from the user mirror
// when a user reference exists.
func (s *ReportService) ListVisitors(page, limit int, visitorType string) (*VisitorsPage, error) {
	query := s.DB.Model(&models.VisitorEvent{})
	switch visitorType {
	case "anonymous":
		query = query.Where("user_id IS NULL")
	case "logged-in":
		query = query.Where("user_id IS NOT NULL")
	case "not-applied":
		cohort, err := s.notAppliedUsers(time.Time{})
		if err != nil {
			return nil, err
		}
		if len(cohort) == 0 {
			return &VisitorsPage{Visitors: []VisitorRow{}, Page: page, Limit: limit}, nil
		}
		ids := make([]string, 0, len(cohort))
		for _, u := range cohort {
			ids = append(ids, u.ExternalUserID)
		}
		query = query.Where("user_id IN ?", ids)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count visitors: %w", err)
	}

	var events []models.VisitorEvent
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load visitors page: %w", err)
	}

	userIDs := make([]string, 0, len(events))
	for _, e := range events {
		if e.UserID != nil {
			userIDs = append(userIDs, *e.UserID)
		}
	}
	userByID := map[string]models.PlatformUser{}
	if len(userIDs) > 0 {
		var users []models.PlatformUser
		if err := s.DB.Where("external_user_id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve visitor identities: %w", err)
		}
		for _, u := range users {
			userByID[u.ExternalUserID] = u
		}
	}

	rows := make([]VisitorRow, 0, len(events))
	for _, e := range events {
		row := VisitorRow{
			ID:               e.ID,
			Page:             e.Page,
			VisitorName:      "Anonymous",
			Anonymous:        e.UserID == nil,
			AttributionKind:  e.AttributionKind,
			TimeSpentSeconds: e.TimeSpentSeconds,
			IPAddress:        e.IPAddress,
			UserAgent:        e.UserAgent,
			CreatedAt:        e.CreatedAt,
		}
		if e.AttributionCode != nil {
			row.AttributionCode = *e.AttributionCode
		}
		if e.UserID != nil {
			if u, ok := userByID[*e.UserID]; ok {
				row.VisitorName = u.Name
				row.VisitorEmail = u.Email
			}
		}
		rows = append(rows, row)
	}

	return &VisitorsPage{
		Visitors: rows,
		Page:     page,
		Limit:    limit,
		Total:    total,
		Pages:    utils.Pages(total, limit),
	}, nil
}

// ExportAnalyticsCSV builds a CSV snapshot of the window's visitor events
// and uploads it to R2. Returns the public object URL.
func (s *ReportService) ExportAnalyticsCSV(days int) (string, error) {
	since := time.Now().AddDate(0, 0, -days)

	var events []models.VisitorEvent
	if err := s.DB.Where("created_at > ?", since).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return "", fmt.Errorf("failed to load events for export: %w", err)
	}

	data, err := utils.BuildVisitorCSV(events)
	if err != nil {
		return "", fmt.Errorf("failed to build export CSV: %w", err)
	}

	key := fmt.Sprintf("analytics/visitor-events-%s-%dd.csv", time.Now().UTC().Format("2006-01-02"), days)
	url, err := utils.UploadBytesToR2(key, "text/csv", data)
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}
	return url, nil
}
