// utils/csv.go
package utils

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"dashboard-analytics-system/models"
)

// BuildVisitorCSV renders visitor events as a CSV snapshot, one row per
// event, for the analytics export.
func BuildVisitorCSV(events []models.VisitorEvent) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	header := []string{
		"id", "created_at", "page", "user_id", "authenticated",
		"attribution_kind", "attribution_code", "session_id",
		"time_spent_seconds", "ip_address", "user_agent", "referrer",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range events {
		userID := ""
		if e.UserID != nil {
			userID = *e.UserID
		}
		code := ""
		if e.AttributionCode != nil {
			code = *e.AttributionCode
		}
		sessionID := ""
		if e.SessionID != nil {
			sessionID = *e.SessionID
		}
		row := []string{
			e.ID,
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.Page,
			userID,
			strconv.FormatBool(e.IsAuthenticated),
			e.AttributionKind,
			code,
			sessionID,
			strconv.Itoa(e.TimeSpentSeconds),
			e.IPAddress,
			e.UserAgent,
			e.Referrer,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
