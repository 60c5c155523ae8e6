package handlers

import (
	"tournament-entry-system/middleware"
	"tournament-entry-system/models"
	"tournament-entry-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	// 🔓 Public routes
	app.Post("/auth/register", authService.RegisterPlayer)
	app.Post("/auth/register/academy", authService.RegisterAcademy)
	app.Post("/auth/login", authService.Login)

	// 🔒 Superadmin only
	admin := app.Group("/admin", middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleSuperAdmin))
	admin.Patch("/users/:id/role", authService.PromoteUser)
}
