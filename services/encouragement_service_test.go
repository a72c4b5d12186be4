package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashboard-analytics-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailCapture struct {
	calls  int
	lastIn map[string]interface{}
}

func newMailTestServer(t *testing.T, capture *mailCapture, respond func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capture.calls++
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		capture.lastIn = body
		respond(w)
	}))
}

func TestSendEncouragementUnknownUser(t *testing.T) {
	db := newTestDB(t)
	capture := &mailCapture{}
	srv := newMailTestServer(t, capture, func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})
	defer srv.Close()

	svc := NewEncouragementService(db, NewMailServiceClient(srv.URL, "token"))
	err := svc.SendEncouragement("no-such-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, capture.calls)
}

func TestSendEncouragementAlreadyAppliedNeverCallsMailer(t *testing.T) {
	db := newTestDB(t)
	capture := &mailCapture{}
	srv := newMailTestServer(t, capture, func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})
	defer srv.Close()

	seedUser(t, db, "user-1", "Sam", models.RoleStudent, time.Now().Add(-time.Hour))
	seedApplication(t, db, "app-1", "user-1", "opp-1", models.StatusSubmitted, time.Now())

	svc := NewEncouragementService(db, NewMailServiceClient(srv.URL, "token"))
	err := svc.SendEncouragement("user-1")
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Zero(t, capture.calls)
}

func TestSendEncouragementDeliversWithLiveOpportunityCount(t *testing.T) {
	db := newTestDB(t)
	capture := &mailCapture{}
	srv := newMailTestServer(t, capture, func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})
	defer srv.Close()

	seedUser(t, db, "user-1", "Sam", models.RoleStudent, time.Now().Add(-time.Hour))
	require.NoError(t, db.Create(&models.Opportunity{ID: "o1", ExternalID: "opp-1", Title: "A", Status: models.OpportunityActive}).Error)
	require.NoError(t, db.Create(&models.Opportunity{ID: "o2", ExternalID: "opp-2", Title: "B", Status: models.OpportunityActive}).Error)
	require.NoError(t, db.Create(&models.Opportunity{ID: "o3", ExternalID: "opp-3", Title: "C", Status: models.OpportunityClosed}).Error)

	svc := NewEncouragementService(db, NewMailServiceClient(srv.URL, "token"))
	require.NoError(t, svc.SendEncouragement("user-1"))

	assert.Equal(t, 1, capture.calls)
	assert.Equal(t, "user-1@example.com", capture.lastIn["email"])
	assert.Equal(t, "Sam", capture.lastIn["name"])
	assert.Equal(t, float64(2), capture.lastIn["open_opportunities"])
}

func TestSendEncouragementPropagatesDeliveryFailure(t *testing.T) {
	db := newTestDB(t)
	capture := &mailCapture{}
	srv := newMailTestServer(t, capture, func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "smtp down"})
	})
	defer srv.Close()

	seedUser(t, db, "user-1", "Sam", models.RoleStudent, time.Now().Add(-time.Hour))

	svc := NewEncouragementService(db, NewMailServiceClient(srv.URL, "token"))
	err := svc.SendEncouragement("user-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "smtp down")
}
