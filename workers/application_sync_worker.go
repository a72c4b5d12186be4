package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"dashboard-analytics-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationSyncClient polls the application service for application and
// opportunity changes and mirrors them locally for the reporting queries.
type ApplicationSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewApplicationSyncClient(db *gorm.DB) *ApplicationSyncClient {
	baseURL := os.Getenv("SYNC_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("DASHBOARD_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("DASHBOARD_SERVICE_TOKEN environment variable is required for application sync")
	}

	return &ApplicationSyncClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type remoteApplication struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	OpportunityID  string    `json:"opportunity_id"`
	Status         string    `json:"status"`
	PaymentDone    bool      `json:"payment_done"`
	ResumeAttached bool      `json:"resume_attached"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type remoteOpportunity struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *ApplicationSyncClient) fetch(ctx context.Context, path string, since time.Time, out interface{}) error {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	endpointURL := base.JoinPath(path)
	q := endpointURL.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpointURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpointURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sync service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sync service returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode sync service response: %w", err)
	}
	return nil
}

func (c *ApplicationSyncClient) syncApplications(ctx context.Context, since time.Time) (int, error) {
	var response struct {
		Applications []remoteApplication `json:"applications"`
	}
	if err := c.fetch(ctx, "/api/v1/public/applications", since, &response); err != nil {
		return 0, err
	}

	for _, remote := range response.Applications {
		local := models.Application{
			ID:             uuid.NewString(),
			ExternalID:     remote.ID,
			UserID:         remote.UserID,
			OpportunityID:  remote.OpportunityID,
			Status:         remote.Status,
			PaymentDone:    remote.PaymentDone,
			ResumeAttached: remote.ResumeAttached,
			CreatedAt:      remote.CreatedAt,
			UpdatedAt:      remote.UpdatedAt,
		}
		if err := c.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "opportunity_id", "status", "payment_done",
				"resume_attached", "created_at", "updated_at",
			}),
		}).Create(&local).Error; err != nil {
			return 0, fmt.Errorf("failed to upsert application %s: %w", remote.ID, err)
		}
	}
	return len(response.Applications), nil
}

func (c *ApplicationSyncClient) syncOpportunities(ctx context.Context, since time.Time) (int, error) {
	var response struct {
		Opportunities []remoteOpportunity `json:"opportunities"`
	}
	if err := c.fetch(ctx, "/api/v1/public/opportunities", since, &response); err != nil {
		return 0, err
	}

	for _, remote := range response.Opportunities {
		local := models.Opportunity{
			ID:         uuid.NewString(),
			ExternalID: remote.ID,
			Title:      remote.Title,
			Company:    remote.Company,
			Status:     remote.Status,
			CreatedAt:  remote.CreatedAt,
			UpdatedAt:  remote.UpdatedAt,
		}
		if err := c.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "company", "status", "created_at", "updated_at",
			}),
		}).Create(&local).Error; err != nil {
			return 0, fmt.Errorf("failed to upsert opportunity %s: %w", remote.ID, err)
		}
	}
	return len(response.Opportunities), nil
}

// PollApplications mirrors applications and opportunities on a fixed tick.
func PollApplications(ctx context.Context, client *ApplicationSyncClient, pollInterval time.Duration) {
	log.Println("🔁 Starting application/opportunity polling…")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Application polling stopped")
			return
		case <-ticker.C:
			tickTime := time.Now().UTC()

			apps, err := client.syncApplications(ctx, lastSyncTime)
			if err != nil {
				log.Printf("❌ Error syncing applications: %v", err)
				// Do NOT advance lastSyncTime on failure — retry same window next tick
				continue
			}

			opps, err := client.syncOpportunities(ctx, lastSyncTime)
			if err != nil {
				log.Printf("❌ Error syncing opportunities: %v", err)
				continue
			}

			if apps > 0 || opps > 0 {
				log.Printf("✅ Synced %d application(s), %d opportunit(ies)", apps, opps)
			}
			lastSyncTime = tickTime
		}
	}
}
