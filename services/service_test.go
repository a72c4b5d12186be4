package services

import (
	"fmt"
	"testing"

	"dashboard-analytics-system/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns an isolated in-memory database migrated with the full
// schema. The shared-cache name keeps GORM's pooled connections on the same
// database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.ReferralCode{},
		&models.PromoLink{},
		&models.VisitorEvent{},
		&models.PlatformUser{},
		&models.Application{},
		&models.Opportunity{},
	))
	return db
}
