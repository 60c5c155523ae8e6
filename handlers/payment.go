package handlers

import (
	"tournament-entry-system/middleware"
	"tournament-entry-system/models"
	"tournament-entry-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App, paymentService *services.PaymentService) {
	secured := app.Group("/", middleware.AuthMiddleware())

	// Screenshot dry run — the UX gate before submission
	secured.Post("/payments/verify", paymentService.VerifyProof)

	// Payment submission
	secured.Post("/payments", middleware.RequireRoles(models.RoleUser), paymentService.SubmitPayment)
	secured.Post("/payments/legacy",
		middleware.RequireRoles(models.RoleUser, models.RoleAcademy),
		paymentService.SubmitLegacyPayment)
	secured.Get("/payments/me", paymentService.GetMyPayments)

	// 🔒 Admin review
	secured.Patch("/payments/:id/status",
		middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin),
		paymentService.UpdatePaymentStatus)
}
