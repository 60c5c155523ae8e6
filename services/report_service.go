// services/report_service.go
package services

import (
	"log"
	"strconv"
	"time"

	"tournament-entry-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page normalizes pagination input: page is 1-based, limit is clamped.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// NormalizePage clamps raw query values into a usable page.
func NormalizePage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return Page{Number: page, Limit: limit}
}

// ReportFilters are the admin console's filter parameters. Zero values mean
// "no filter".
type ReportFilters struct {
	Search   string
	Status   string
	Category string
	Type     string
	From     *time.Time
	To       *time.Time
}

func parseFilters(c *fiber.Ctx) (ReportFilters, Page, error) {
	f := ReportFilters{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Type:     c.Query("type"),
	}
	for _, q := range []struct {
		key  string
		dest **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		if v := c.Query(q.key); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return f, Page{}, err
			}
			*q.dest = &t
		}
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageSize)))
	return f, NormalizePage(page, limit), nil
}

// EntryRow is one denormalized line of the entries report.
type EntryRow struct {
	EntryID       string            `json:"entry_id"`
	EventID       string            `json:"event_id"`
	PlayerName    string            `json:"player_name"`
	PlayerDOB     time.Time         `json:"player_dob"`
	AcademyName   string            `json:"academy_name"`
	District      string            `json:"district"`
	Category      string            `json:"category"`
	Type          models.EventType  `json:"type"`
	EventStatus   string            `json:"event_status"`
	PartnerName   string            `json:"partner_name,omitempty"`
	PaymentID     *string           `json:"payment_id,omitempty"`
	PaymentStatus *string           `json:"payment_status,omitempty"`
	ProofURL      *string           `json:"proof_url,omitempty"`
	RegisteredAt  time.Time         `json:"registered_at"`
}

// applyEntryFilters builds the shared predicate set. The count query and the
// data query both go through here so the reported total always matches the
// filtered rows being paged.
func (s *ReportService) applyEntryFilters(f ReportFilters) *gorm.DB {
	q := s.DB.Table("events").
		Joins("JOIN entries ON entries.id = events.entry_id").
		Joins("JOIN players ON players.id = entries.player_id").
		Joins("LEFT JOIN payments ON payments.id = events.payment_id").
		Joins("LEFT JOIN payment_proofs ON payment_proofs.id = payments.proof_id")

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("players.name ILIKE ? OR players.academy_name ILIKE ? OR players.phone ILIKE ?", like, like, like)
	}
	if f.Status != "" {
		q = q.Where("events.status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("events.category = ?", f.Category)
	}
	if f.Type != "" {
		q = q.Where("events.type = ?", f.Type)
	}
	if f.From != nil {
		q = q.Where("entries.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("entries.created_at < ?", f.To.AddDate(0, 0, 1))
	}
	return q
}

// GetEntriesReport produces one page of the admin entries view plus the
// total count for pagination.
func (s *ReportService) GetEntriesReport(c *fiber.Ctx) error {
	f, page, err := parseFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid date filter (use YYYY-MM-DD)"})
	}

	var total int64
	if err := s.applyEntryFilters(f).Count(&total).Error; err != nil {
		log.Printf("❌ [REPORT] DB error counting entries: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to build report"})
	}

	var rows []EntryRow
	err = s.applyEntryFilters(f).
		Select(`events.entry_id, events.id as event_id,
			players.name as player_name, players.dob as player_dob,
			players.academy_name, players.district,
			events.category, events.type, events.status as event_status,
			events.partner_name,
			events.payment_id, payments.status as payment_status,
			payment_proofs.image_url as proof_url,
			entries.created_at as registered_at`).
		Order("entries.created_at desc").
		Limit(page.Limit).Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		log.Printf("❌ [REPORT] DB error loading entry rows: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to build report"})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"rows":  rows,
		"total": total,
		"page":  page.Number,
		"limit": page.Limit,
	}})
}

// PaymentRow is one denormalized line of the payments report.
type PaymentRow struct {
	PaymentID       string    `json:"payment_id"`
	UserEmail       string    `json:"user_email"`
	DeclaredAmount  int       `json:"declared_amount"`
	ExpectedAmount  int       `json:"expected_amount"`
	Status          string    `json:"status"`
	ExtractedApp    string    `json:"extracted_app,omitempty"`
	ExtractedSender string    `json:"extracted_sender,omitempty"`
	ProofURL        string    `json:"proof_url,omitempty"`
	EventCount      int64     `json:"event_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *ReportService) applyPaymentFilters(f ReportFilters) *gorm.DB {
	q := s.DB.Table("payments").
		Joins("JOIN users ON users.id = payments.user_id").
		Joins("LEFT JOIN payment_proofs ON payment_proofs.id = payments.proof_id")

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("users.email ILIKE ? OR payment_proofs.extracted_sender ILIKE ? OR payment_proofs.extracted_receiver ILIKE ?", like, like, like)
	}
	if f.Status != "" {
		q = q.Where("payments.status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("payments.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("payments.created_at < ?", f.To.AddDate(0, 0, 1))
	}
	return q
}

// GetPaymentsReport produces one page of the admin payments view.
func (s *ReportService) GetPaymentsReport(c *fiber.Ctx) error {
	f, page, err := parseFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid date filter (use YYYY-MM-DD)"})
	}

	var total int64
	if err := s.applyPaymentFilters(f).Count(&total).Error; err != nil {
		log.Printf("❌ [REPORT] DB error counting payments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to build report"})
	}

	var rows []PaymentRow
	err = s.applyPaymentFilters(f).
		Select(`payments.id as payment_id, users.email as user_email,
			payments.declared_amount, payments.expected_amount, payments.status,
			payment_proofs.extracted_app, payment_proofs.extracted_sender,
			payment_proofs.image_url as proof_url,
			(SELECT COUNT(*) FROM events WHERE events.payment_id = payments.id) as event_count,
			payments.created_at`).
		Order("payments.created_at desc").
		Limit(page.Limit).Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		log.Printf("❌ [REPORT] DB error loading payment rows: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to build report"})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"rows":  rows,
		"total": total,
		"page":  page.Number,
		"limit": page.Limit,
	}})
}
