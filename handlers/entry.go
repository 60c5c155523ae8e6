package handlers

import (
	"tournament-entry-system/middleware"
	"tournament-entry-system/models"
	"tournament-entry-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupEntryRoutes(app *fiber.App, entryService *services.EntryService, academyService *services.AcademyService) {
	// 🔓 Public: bracket table for selection forms
	app.Get("/categories", entryService.GetCategories)

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.AuthMiddleware())

	// Player entry flow
	secured.Post("/entries", middleware.RequireRoles(models.RoleUser), entryService.SubmitEntry)
	secured.Get("/entries/me", middleware.RequireRoles(models.RoleUser), entryService.GetMyEntry)
	secured.Delete("/entries/me", middleware.RequireRoles(models.RoleUser), entryService.WithdrawEntry)
	secured.Get("/entries/:id", entryService.GetEntryByID)

	// Academy bulk flow
	secured.Post("/entries/bulk", middleware.RequireRoles(models.RoleAcademy), entryService.BulkSubmit)
	secured.Get("/academies/me", middleware.RequireRoles(models.RoleAcademy), academyService.GetMyAcademy)
	secured.Post("/academies/me/qr", middleware.RequireRoles(models.RoleAcademy), academyService.UploadQRCode)

	// 🔒 Approver actions
	secured.Patch("/events/:id/status",
		middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin),
		entryService.UpdateEventStatus)
}
