// handlers/dashboard_routes.go
package handlers

import (
	"errors"

	"dashboard-analytics-system/middleware"
	"dashboard-analytics-system/services"
	"dashboard-analytics-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(
	app *fiber.App,
	visitorService *services.VisitorService,
	reportService *services.ReportService,
	referralService *services.ReferralService,
	encouragementService *services.EncouragementService,
) {
	// All dashboard routes carry user context from the Gateway headers.
	// /track-visit stays public: an empty context just means anonymous.
	dashboard := app.Group("/dashboard", middleware.UserContextMiddleware())

	// 🔓 Public tracking endpoint. Always answers with a soft {ok} shape so
	// a tracking failure can never break the page that triggered it.
	dashboard.Post("/track-visit", func(c *fiber.Ctx) error {
		var in services.VisitInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false})
		}

		meta := services.RequestMeta{
			UserID:    middleware.UserID(c),
			UserAgent: c.Get("User-Agent"),
			IPAddress: c.IP(),
			Referrer:  c.Get("Referer"),
		}

		if !visitorService.RecordVisit(in, meta) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	// 🔐 Authenticated routes
	authed := dashboard.Group("/", middleware.RequireUser())

	authed.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := reportService.GetStats(middleware.UserID(c), middleware.HasRole(c, "admin"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(stats)
	})

	authed.Get("/activity", func(c *fiber.Ctx) error {
		limit := utils.ParseLimit(c.Query("limit"), 10, 50)
		items, err := reportService.GetRecentActivity(middleware.UserID(c), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(fiber.Map{"activity": items})
	})

	// 🔒 Admin-only routes
	admin := authed.Group("/", middleware.AdminOnly())

	admin.Get("/applications-status", func(c *fiber.Ctx) error {
		page := utils.ParsePage(c.Query("page"))
		limit := utils.ParseLimit(c.Query("limit"), 50, 100)
		result, err := reportService.GetApplicationsByStatus(page, limit, c.Query("status"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(result)
	})

	admin.Get("/analytics", func(c *fiber.Ctx) error {
		days := utils.ParseDays(c.Query("days"))
		analytics, err := reportService.GetVisitorAnalytics(days)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(analytics)
	})

	admin.Post("/analytics/export", func(c *fiber.Ctx) error {
		days := utils.ParseDays(c.Query("days"))
		url, err := reportService.ExportAnalyticsCSV(days)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(fiber.Map{"url": url})
	})

	admin.Get("/visitors", func(c *fiber.Ctx) error {
		page := utils.ParsePage(c.Query("page"))
		limit := utils.ParseLimit(c.Query("limit"), 50, 100)
		result, err := reportService.ListVisitors(page, limit, c.Query("type"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(result)
	})

	admin.Get("/referrals", func(c *fiber.Ctx) error {
		codes, err := referralService.ListReferralCodes()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(fiber.Map{"referrals": codes})
	})

	admin.Post("/referrals", func(c *fiber.Ctx) error {
		type Req struct {
			Description string `json:"description"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON"})
		}
		code, err := referralService.CreateReferralCode(req.Description, middleware.UserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(code)
	})

	admin.Get("/promo-links", func(c *fiber.Ctx) error {
		links, err := referralService.ListPromoLinks()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(fiber.Map{"promo_links": links})
	})

	admin.Post("/promo-links", func(c *fiber.Ctx) error {
		type Req struct {
			Description string `json:"description"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON"})
		}
		link, err := referralService.CreatePromoLink(req.Description, middleware.UserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(link)
	})

	admin.Post("/send-encouragement/:userId", func(c *fiber.Ctx) error {
		err := encouragementService.SendEncouragement(c.Params("userId"))
		switch {
		case err == nil:
			return c.JSON(fiber.Map{"message": "encouragement sent"})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, services.ErrAlreadyApplied):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	})
}
