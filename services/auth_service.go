// services/auth_service.go
package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"tournament-entry-system/models"
	"tournament-entry-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

// RegisterPlayer creates a user account plus its player profile.
func (s *AuthService) RegisterPlayer(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		DOB      string `json:"dob"` // YYYY-MM-DD
		Gender   string `json:"gender"`
		Academy  string `json:"academy"`
		Place    string `json:"place"`
		District string `json:"district"`
		Phone    string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.Name == "" || req.DOB == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "email, password, name and dob are required"})
	}
	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid dob (use YYYY-MM-DD)"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ [AUTH] bcrypt failure: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to register"})
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	player := models.Player{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        req.Name,
		DOB:         dob,
		Gender:      req.Gender,
		AcademyName: req.Academy,
		Place:       req.Place,
		District:    req.District,
		Phone:       req.Phone,
	}
	user.PlayerID = &player.ID

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&player).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": "an account with this email already exists"})
		}
		log.Printf("❌ [AUTH] DB error registering player: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to register"})
	}

	token, err := utils.CreateToken(user.ID, string(user.Role))
	if err != nil {
		log.Printf("❌ [AUTH] token issue failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to issue token"})
	}

	log.Printf("✅ [AUTH] Registered player %s (%s)", player.Name, user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": fiber.Map{
		"token": token, "user": user, "player": player,
	}})
}

// RegisterAcademy creates an academy account for bulk entry.
func (s *AuthService) RegisterAcademy(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Contact  string `json:"contact"`
		District string `json:"district"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "email, password and name are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ [AUTH] bcrypt failure: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to register"})
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleAcademy,
	}
	academy := models.Academy{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Name:     req.Name,
		Slug:     slug.Make(req.Name),
		Contact:  req.Contact,
		District: req.District,
	}
	user.AcademyID = &academy.ID

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&academy).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": "an account or academy with this name already exists"})
		}
		log.Printf("❌ [AUTH] DB error registering academy: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to register"})
	}

	token, err := utils.CreateToken(user.ID, string(user.Role))
	if err != nil {
		log.Printf("❌ [AUTH] token issue failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to issue token"})
	}

	log.Printf("✅ [AUTH] Registered academy %s (%s)", academy.Name, user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": fiber.Map{
		"token": token, "user": user, "academy": academy,
	}})
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}

	var user models.User
	err := s.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "msg": "invalid email or password"})
	}
	if err != nil {
		log.Printf("❌ [AUTH] DB error on login: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "login failed"})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "msg": "invalid email or password"})
	}

	token, err := utils.CreateToken(user.ID, string(user.Role))
	if err != nil {
		log.Printf("❌ [AUTH] token issue failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to issue token"})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"token": token, "user": user}})
}

// PromoteUser lets a superadmin change another account's role.
func (s *AuthService) PromoteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil || !req.Role.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid role"})
	}

	res := s.DB.Model(&models.User{}).Where("id = ?", id).Update("role", req.Role)
	if res.Error != nil {
		log.Printf("❌ [AUTH] DB error promoting user %s: %v", id, res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to update role"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "user not found"})
	}

	log.Printf("✅ [AUTH] User %s promoted to %s", id, req.Role)
	return c.JSON(fiber.Map{"success": true, "msg": "role updated"})
}
