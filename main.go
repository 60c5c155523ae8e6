package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tournament-entry-system/handlers"
	"tournament-entry-system/models"
	"tournament-entry-system/ocr"
	"tournament-entry-system/services"
	"tournament-entry-system/utils"
	"tournament-entry-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // screenshots arrive base64-encoded
	})

	// CORS for the registration and admin frontends
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Academy{},
		&models.Player{},
		&models.Category{},
		&models.Entry{},
		&models.PaymentProof{},
		&models.Payment{},
		&models.Event{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	seedCategories(db)
	seedSuperAdmin(db)

	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 not configured (%v) — proof images stored locally", err)
		if err := utils.EnsureUploadDir(); err != nil {
			log.Fatal("failed to ensure upload dir:", err)
		}
	}

	authService := services.NewAuthService(db)
	entryService := services.NewEntryService(db)
	academyService := services.NewAcademyService(db)
	reportService := services.NewReportService(db)

	var recognizer ocr.Recognizer
	if remote := services.NewRemoteRecognizer(); remote != nil {
		recognizer = remote
	} else {
		log.Println("⚠️  OCR_SERVICE_URL not set — clients must submit extracted text")
	}
	notifier := services.NewNotifier()
	paymentService := services.NewPaymentService(db, recognizer, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	expiryTTL := 48 * time.Hour
	if v := os.Getenv("PAYMENT_PENDING_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			expiryTTL = d
		} else {
			log.Printf("⚠️  Invalid PAYMENT_PENDING_TTL %q: %v", v, err)
		}
	}
	expiryWorker := workers.NewPaymentExpiryWorker(db, expiryTTL)
	go expiryWorker.PollExpiredPayments(ctx, 10*time.Minute)

	entryService.StartDeadlineScheduler()

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupEntryRoutes(app, entryService, academyService)
	handlers.SetupPaymentRoutes(app, paymentService)
	handlers.SetupReportRoutes(app, reportService)

	// Local proof fallback storage
	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Payment expiry worker running (every 10m)")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// seedCategories loads the fixed bracket table. Conflicts are skipped so
// redeploys never clobber manual threshold tweaks.
func seedCategories(db *gorm.DB) {
	for _, cat := range models.SeedCategories {
		var existing models.Category
		if err := db.First(&existing, "code = ?", cat.Code).Error; err == nil {
			continue
		}
		if err := db.Create(&cat).Error; err != nil {
			log.Printf("⚠️  Failed to seed category %s: %v", cat.Code, err)
		}
	}
}

// seedSuperAdmin creates the initial superadmin account from env when no
// superadmin exists yet.
func seedSuperAdmin(db *gorm.DB) {
	email := os.Getenv("SUPERADMIN_EMAIL")
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("⚠️  Failed to hash superadmin password: %v", err)
		return
	}
	user := models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("⚠️  Failed to seed superadmin: %v", err)
		return
	}
	log.Printf("✅ Seeded superadmin account %s", user.Email)
}
