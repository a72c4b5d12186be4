package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dashboard-analytics-system/handlers"
	"dashboard-analytics-system/middleware"
	"dashboard-analytics-system/models"
	"dashboard-analytics-system/services"
	"dashboard-analytics-system/utils"
	"dashboard-analytics-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, X-User-ID, X-User-Roles",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.ReferralCode{},
		&models.PromoLink{},
		&models.VisitorEvent{},
		&models.PlatformUser{},
		&models.Application{},
		&models.Opportunity{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	referralService := services.NewReferralService(db)
	reportService := services.NewReportService(db)
	encouragementService := services.NewEncouragementService(db, newMailClient())

	// --- CONFIGURE Sync Service Details for the user/application mirrors ---
	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("DASHBOARD_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("DASHBOARD_SERVICE_TOKEN environment variable not set")
	}
	// --- END CONFIG ---

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hitWorker := workers.NewAttributionHitWorker(referralService, 256)
	hitWorker.Start(ctx)

	visitorService := services.NewVisitorService(db, hitWorker)

	userSyncWorker := workers.NewUserSyncWorker(db, syncServiceURL, "/api/v1/public/users", serviceToken)
	userSyncWorker.Start(ctx)

	applicationSyncClient := workers.NewApplicationSyncClient(db)
	go workers.PollApplications(ctx, applicationSyncClient, 1*time.Minute)

	referralService.StartClickReconciliation()

	handlers.SetupDashboardRoutes(app, visitorService, reportService, referralService, encouragementService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Attribution hit worker running")
	log.Println("✅ User/application mirrors polling (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}

func newMailClient() *services.MailServiceClient {
	mailServiceURL := os.Getenv("MAIL_SERVICE_URL")
	if mailServiceURL == "" {
		log.Fatal("MAIL_SERVICE_URL environment variable not set")
	}
	mailServiceToken := os.Getenv("MAIL_SERVICE_TOKEN")
	if mailServiceToken == "" {
		log.Fatal("MAIL_SERVICE_TOKEN environment variable not set")
	}
	return services.NewMailServiceClient(mailServiceURL, mailServiceToken)
}
