// services/academy_service.go
package services

import (
	"errors"
	"log"
	"path/filepath"

	"tournament-entry-system/middleware"
	"tournament-entry-system/models"
	"tournament-entry-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcademyService struct {
	DB *gorm.DB
}

func NewAcademyService(db *gorm.DB) *AcademyService {
	return &AcademyService{DB: db}
}

// GetMyAcademy returns the caller's academy with its roster.
func (s *AcademyService) GetMyAcademy(c *fiber.Ctx) error {
	var academy models.Academy
	err := s.DB.Preload("Players").First(&academy, "user_id = ?", middleware.UserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "academy profile not found"})
	}
	if err != nil {
		log.Printf("❌ [ACADEMY] DB error loading academy: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load academy"})
	}
	return c.JSON(fiber.Map{"success": true, "data": academy})
}

// UploadQRCode stores the academy's payment QR code image and saves its URL.
// Shown to parents paying an academy batch directly.
func (s *AcademyService) UploadQRCode(c *fiber.Ctx) error {
	var academy models.Academy
	err := s.DB.First(&academy, "user_id = ?", middleware.UserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "academy profile not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load academy"})
	}

	qr, err := c.FormFile("qr_code")
	if err != nil || qr.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "qr_code file is required"})
	}

	ext := filepath.Ext(qr.Filename)
	if ext == "" {
		ext = ".png"
	}
	key := "qrcodes/" + academy.Slug + "-" + uuid.NewString() + ext
	url, err := utils.UploadFileToR2(qr, key)
	if err != nil {
		log.Printf("❌ [ACADEMY] QR upload failed for %s: %v", academy.Name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to upload QR code"})
	}

	if err := s.DB.Model(&academy).Update("qr_code_url", url).Error; err != nil {
		log.Printf("❌ [ACADEMY] DB error saving QR URL: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to save QR code"})
	}

	log.Printf("✅ [ACADEMY] QR code updated for %s", academy.Name)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"qr_code_url": url}})
}
