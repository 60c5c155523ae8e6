package services

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"tournament-entry-system/middleware"
	"tournament-entry-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntryService struct {
	DB *gorm.DB

	// Flipped by the deadline scheduler. Submissions reject when closed.
	registrationClosed atomic.Bool
}

func NewEntryService(db *gorm.DB) *EntryService {
	return &EntryService{DB: db}
}

// RegistrationOpen reports whether new selections are still accepted.
func (s *EntryService) RegistrationOpen() bool {
	return !s.registrationClosed.Load()
}

// CloseRegistration is called by the deadline scheduler.
func (s *EntryService) CloseRegistration() {
	s.registrationClosed.Store(true)
}

// partnerReq mirrors the partner snapshot fields in the request body.
type partnerReq struct {
	Name     string `json:"name"`
	DOB      string `json:"dob"` // YYYY-MM-DD
	Academy  string `json:"academy"`
	Place    string `json:"place"`
	District string `json:"district"`
}

type selectionReq struct {
	Category string           `json:"category"`
	Type     models.EventType `json:"type"`
	Partner  *partnerReq      `json:"partner,omitempty"`
}

// toSelections converts request rows to validator input.
func toSelections(rows []selectionReq) ([]Selection, error) {
	sels := make([]Selection, 0, len(rows))
	for _, r := range rows {
		if !r.Type.Valid() {
			return nil, errors.New("invalid event type: " + string(r.Type))
		}
		sel := Selection{Category: r.Category, Type: r.Type}
		if r.Partner != nil {
			sel.PartnerName = r.Partner.Name
			sel.PartnerAcademy = r.Partner.Academy
			sel.PartnerPlace = r.Partner.Place
			sel.PartnerDistrict = r.Partner.District
			if r.Partner.DOB != "" {
				dob, err := time.Parse("2006-01-02", r.Partner.DOB)
				if err != nil {
					return nil, errors.New("invalid partner dob (use YYYY-MM-DD)")
				}
				sel.PartnerDOB = &dob
			}
		}
		sels = append(sels, sel)
	}
	return sels, nil
}

// categoryTable loads the bracket table keyed by code.
func (s *EntryService) categoryTable() (map[string]models.Category, error) {
	var cats []models.Category
	if err := s.DB.Find(&cats).Error; err != nil {
		return nil, err
	}
	table := make(map[string]models.Category, len(cats))
	for _, c := range cats {
		table[c.Code] = c
	}
	return table, nil
}

// GetCategories lists the bracket table for selection forms.
func (s *EntryService) GetCategories(c *fiber.Ctx) error {
	var cats []models.Category
	if err := s.DB.Order("sort_order asc").Find(&cats).Error; err != nil {
		log.Printf("❌ [ENTRY] DB error listing categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load categories"})
	}
	return c.JSON(fiber.Map{"success": true, "data": cats})
}

// SubmitEntry creates or replaces the caller's event selection. Paid events
// must survive the new selection; unpaid rows are rewritten wholesale.
func (s *EntryService) SubmitEntry(c *fiber.Ctx) error {
	if !s.RegistrationOpen() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": "registration is closed"})
	}

	var req struct {
		Events []selectionReq `json:"events"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}
	if len(req.Events) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "select at least one event"})
	}

	var player models.Player
	err := s.DB.First(&player, "user_id = ?", middleware.UserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "player profile not found"})
	}
	if err != nil {
		log.Printf("❌ [ENTRY] DB error loading player: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load player"})
	}

	return s.applySelection(c, &player, req.Events)
}

// applySelection runs the full validation pipeline and rewrites the entry's
// unpaid events.
func (s *EntryService) applySelection(c *fiber.Ctx, player *models.Player, rows []selectionReq) error {
	sels, err := toSelections(rows)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}

	if err := ValidateQuota(sels); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}

	cats, err := s.categoryTable()
	if err != nil {
		log.Printf("❌ [ENTRY] DB error loading categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load categories"})
	}
	if err := ValidateEligibility(player.DOB, sels, cats); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}

	var entry models.Entry
	err = s.DB.Preload("Events").First(&entry, "player_id = ?", player.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.Entry{ID: uuid.NewString(), PlayerID: player.ID, Status: models.EntryActive}
		if err := s.DB.Create(&entry).Error; err != nil {
			log.Printf("❌ [ENTRY] DB error creating entry: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to create entry"})
		}
	case err != nil:
		log.Printf("❌ [ENTRY] DB error loading entry: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load entry"})
	}

	if err := ValidateRetainsPaid(entry.Events, sels); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}

	// Rewrite: drop unpaid rows, insert the selections that are not already
	// present as paid events. Paid rows are never touched.
	paid := map[string]bool{}
	for _, ev := range entry.Events {
		if ev.Paid() {
			paid[ev.Category+"|"+string(ev.Type)] = true
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ? AND payment_id IS NULL", entry.ID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		for _, sel := range sels {
			if paid[sel.Category+"|"+string(sel.Type)] {
				continue
			}
			ev := models.Event{
				ID:              uuid.NewString(),
				EntryID:         entry.ID,
				Category:        sel.Category,
				Type:            sel.Type,
				Status:          models.EventPending,
				PartnerName:     sel.PartnerName,
				PartnerDOB:      sel.PartnerDOB,
				PartnerAcademy:  sel.PartnerAcademy,
				PartnerPlace:    sel.PartnerPlace,
				PartnerDistrict: sel.PartnerDistrict,
			}
			if err := tx.Create(&ev).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ [ENTRY] DB error saving selection for entry %s: %v", entry.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to save selection"})
	}

	if err := s.DB.Preload("Events").First(&entry, "id = ?", entry.ID).Error; err != nil {
		log.Printf("⚠️ [ENTRY] Reload after save failed for entry %s: %v", entry.ID, err)
	}

	log.Printf("✅ [ENTRY] Player %s selection saved (%d events)", player.Name, len(sels))
	return c.JSON(fiber.Map{"success": true, "data": entry})
}

// GetMyEntry returns the caller's entry with events and payment summaries.
func (s *EntryService) GetMyEntry(c *fiber.Ctx) error {
	var player models.Player
	err := s.DB.First(&player, "user_id = ?", middleware.UserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "player profile not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load player"})
	}

	var entry models.Entry
	err = s.DB.Preload("Events").Preload("Events.Payment").First(&entry, "player_id = ?", player.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "no entry yet"})
	}
	if err != nil {
		log.Printf("❌ [ENTRY] DB error loading entry: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load entry"})
	}
	return c.JSON(fiber.Map{"success": true, "data": entry})
}

// GetEntryByID returns an entry to its owner or to an admin.
func (s *EntryService) GetEntryByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var entry models.Entry
	err := s.DB.Preload("Events").Preload("Player").First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "entry not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load entry"})
	}

	if !middleware.IsAdmin(c) && (entry.Player == nil || entry.Player.UserID != middleware.UserID(c)) {
		// Not-owned reads as absent; entry ids are not meant to be probed.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "entry not found"})
	}
	return c.JSON(fiber.Map{"success": true, "data": entry})
}

// BulkSubmit is the academy variant: register several players with their
// selections in one call. Each player row validates independently; the whole
// batch is rejected on the first failure so an academy never ends up with a
// half-applied roster.
func (s *EntryService) BulkSubmit(c *fiber.Ctx) error {
	if !s.RegistrationOpen() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": "registration is closed"})
	}

	var req struct {
		Players []struct {
			Name     string         `json:"name"`
			DOB      string         `json:"dob"`
			Gender   string         `json:"gender"`
			Place    string         `json:"place"`
			District string         `json:"district"`
			Phone    string         `json:"phone"`
			Events   []selectionReq `json:"events"`
		} `json:"players"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}
	if len(req.Players) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "no players in batch"})
	}

	var academy models.Academy
	err := s.DB.First(&academy, "user_id = ?", middleware.UserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "academy profile not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load academy"})
	}

	cats, err := s.categoryTable()
	if err != nil {
		log.Printf("❌ [ENTRY] DB error loading categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load categories"})
	}

	type validated struct {
		player models.Player
		sels   []Selection
	}
	batch := make([]validated, 0, len(req.Players))
	for i, row := range req.Players {
		if row.Name == "" || row.DOB == "" || len(row.Events) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": rowMsg(i, "name, dob and events are required")})
		}
		dob, err := time.Parse("2006-01-02", row.DOB)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": rowMsg(i, "invalid dob (use YYYY-MM-DD)")})
		}
		sels, err := toSelections(row.Events)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": rowMsg(i, err.Error())})
		}
		if err := ValidateQuota(sels); err != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": rowMsg(i, err.Error())})
		}
		if err := ValidateEligibility(dob, sels, cats); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": rowMsg(i, err.Error())})
		}
		batch = append(batch, validated{
			player: models.Player{
				ID:          uuid.NewString(),
				UserID:      middleware.UserID(c),
				AcademyID:   &academy.ID,
				Name:        row.Name,
				DOB:         dob,
				Gender:      row.Gender,
				AcademyName: academy.Name,
				Place:       row.Place,
				District:    row.District,
				Phone:       row.Phone,
			},
			sels: sels,
		})
	}

	var entryIDs []string
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, v := range batch {
			if err := tx.Create(&v.player).Error; err != nil {
				return err
			}
			entry := models.Entry{ID: uuid.NewString(), PlayerID: v.player.ID, Status: models.EntryActive}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			for _, sel := range v.sels {
				ev := models.Event{
					ID:              uuid.NewString(),
					EntryID:         entry.ID,
					Category:        sel.Category,
					Type:            sel.Type,
					Status:          models.EventPending,
					PartnerName:     sel.PartnerName,
					PartnerDOB:      sel.PartnerDOB,
					PartnerAcademy:  sel.PartnerAcademy,
					PartnerPlace:    sel.PartnerPlace,
					PartnerDistrict: sel.PartnerDistrict,
				}
				if err := tx.Create(&ev).Error; err != nil {
					return err
				}
			}
			entryIDs = append(entryIDs, entry.ID)
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ [ENTRY] DB error on bulk submit for academy %s: %v", academy.Name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to save batch"})
	}

	log.Printf("✅ [ENTRY] Academy %s registered %d players", academy.Name, len(batch))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": fiber.Map{"entry_ids": entryIDs}})
}

func rowMsg(i int, msg string) string {
	return fmt.Sprintf("player %d: %s", i+1, msg)
}

// UpdateEventStatus lets an approver accept or reject a pending event. Paid
// events cannot be rejected; refund first, then reject.
func (s *EntryService) UpdateEventStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var req struct {
		Status models.EventStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}
	if req.Status != models.EventApproved && req.Status != models.EventRejected {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "status must be approved or rejected"})
	}

	var ev models.Event
	err := s.DB.First(&ev, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "event not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load event"})
	}

	if ev.Paid() && req.Status == models.EventRejected {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": "a paid event cannot be rejected"})
	}

	if err := s.DB.Model(&ev).Update("status", req.Status).Error; err != nil {
		log.Printf("❌ [ENTRY] DB error updating event %s status: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to update status"})
	}

	log.Printf("✅ [ENTRY] Event %s -> %s", id, req.Status)
	return c.JSON(fiber.Map{"success": true, "msg": "status updated"})
}

// WithdrawEntry soft-withdraws. Entries are never hard-deleted.
func (s *EntryService) WithdrawEntry(c *fiber.Ctx) error {
	var player models.Player
	err := s.DB.First(&player, "user_id = ?", middleware.UserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "player profile not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load player"})
	}

	res := s.DB.Model(&models.Entry{}).Where("player_id = ?", player.ID).Update("status", models.EntryWithdrawn)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to withdraw"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "no entry yet"})
	}
	return c.JSON(fiber.Map{"success": true, "msg": "entry withdrawn"})
}
