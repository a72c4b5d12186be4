package services

import (
	"regexp"
	"testing"
	"time"

	"dashboard-analytics-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

func TestCreateReferralCodeGeneratesUniqueShortCodes(t *testing.T) {
	svc := NewReferralService(newTestDB(t))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		rc, err := svc.CreateReferralCode("spring campaign", "admin-1")
		require.NoError(t, err)
		assert.Regexp(t, codePattern, rc.Code)
		assert.False(t, seen[rc.Code], "code %s issued twice", rc.Code)
		assert.Equal(t, int64(0), rc.Clicks)
		assert.Equal(t, "admin-1", rc.CreatedBy)
		seen[rc.Code] = true
	}
}

func TestReferralAndPromoNamespacesAreDisjoint(t *testing.T) {
	svc := NewReferralService(newTestDB(t))

	rc, err := svc.CreateReferralCode("referral side", "admin-1")
	require.NoError(t, err)
	pl, err := svc.CreatePromoLink("promo side", "admin-1")
	require.NoError(t, err)

	var referralCount, promoCount int64
	require.NoError(t, svc.DB.Model(&models.ReferralCode{}).Count(&referralCount).Error)
	require.NoError(t, svc.DB.Model(&models.PromoLink{}).Count(&promoCount).Error)
	assert.Equal(t, int64(1), referralCount)
	assert.Equal(t, int64(1), promoCount)
	assert.Regexp(t, codePattern, pl.Code)
	assert.NotEqual(t, rc.ID, pl.ID)
}

func TestRecordHitIncrementsMatchingCodeByOne(t *testing.T) {
	svc := NewReferralService(newTestDB(t))

	rc, err := svc.CreateReferralCode("homepage banner", "admin-1")
	require.NoError(t, err)
	other, err := svc.CreateReferralCode("untouched", "admin-1")
	require.NoError(t, err)

	svc.RecordHit(models.AttributionReferral, rc.Code)

	var got models.ReferralCode
	require.NoError(t, svc.DB.First(&got, "code = ?", rc.Code).Error)
	assert.Equal(t, int64(1), got.Clicks)

	var untouched models.ReferralCode
	require.NoError(t, svc.DB.First(&untouched, "code = ?", other.Code).Error)
	assert.Equal(t, int64(0), untouched.Clicks)
}

func TestRecordHitUnknownCodeLeavesCountersUnchanged(t *testing.T) {
	svc := NewReferralService(newTestDB(t))

	rc, err := svc.CreateReferralCode("only code", "admin-1")
	require.NoError(t, err)

	// Must not panic or error out, and must not touch existing counters.
	svc.RecordHit(models.AttributionReferral, "ZZZZZZ")
	svc.RecordHit("bogus-kind", rc.Code)

	var got models.ReferralCode
	require.NoError(t, svc.DB.First(&got, "code = ?", rc.Code).Error)
	assert.Equal(t, int64(0), got.Clicks)
}

func TestListReferralCodesNewestFirst(t *testing.T) {
	svc := NewReferralService(newTestDB(t))

	old := models.ReferralCode{ID: "id-old", Code: "AAAAAA", CreatedBy: "admin-1",
		CreatedAt: time.Now().Add(-2 * time.Hour)}
	recent := models.ReferralCode{ID: "id-new", Code: "BBBBBB", CreatedBy: "admin-2",
		CreatedAt: time.Now().Add(-1 * time.Minute)}
	require.NoError(t, svc.DB.Create(&old).Error)
	require.NoError(t, svc.DB.Create(&recent).Error)

	codes, err := svc.ListReferralCodes()
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, "BBBBBB", codes[0].Code)
	assert.Equal(t, "AAAAAA", codes[1].Code)
}

func TestClickReconciliationNeverLowersCounters(t *testing.T) {
	svc := NewReferralService(newTestDB(t))

	rc, err := svc.CreateReferralCode("drifted", "admin-1")
	require.NoError(t, err)

	// Two events exist but only one increment landed.
	code := rc.Code
	for i := 0; i < 2; i++ {
		event := models.VisitorEvent{
			ID: code + string(rune('a'+i)), Page: "home",
			AttributionCode: &code, AttributionKind: models.AttributionReferral,
		}
		require.NoError(t, svc.DB.Create(&event).Error)
	}
	svc.RecordHit(models.AttributionReferral, code)

	svc.reconcileReferralClicks()

	var got models.ReferralCode
	require.NoError(t, svc.DB.First(&got, "code = ?", code).Error)
	assert.Equal(t, int64(2), got.Clicks)

	// A counter already ahead of the event log stays put.
	require.NoError(t, svc.DB.Model(&models.ReferralCode{}).
		Where("code = ?", code).UpdateColumn("clicks", 10).Error)
	svc.reconcileReferralClicks()
	require.NoError(t, svc.DB.First(&got, "code = ?", code).Error)
	assert.Equal(t, int64(10), got.Clicks)
}
