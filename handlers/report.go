package handlers

import (
	"tournament-entry-system/middleware"
	"tournament-entry-system/models"
	"tournament-entry-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App, reportService *services.ReportService) {
	// 🔒 Admin-only reporting
	admin := app.Group("/admin",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))

	admin.Get("/reports/entries", reportService.GetEntriesReport)
	admin.Get("/reports/payments", reportService.GetPaymentsReport)
}
