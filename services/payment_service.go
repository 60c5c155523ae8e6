// services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"tournament-entry-system/middleware"
	"tournament-entry-system/models"
	"tournament-entry-system/ocr"
	"tournament-entry-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService struct {
	DB         *gorm.DB
	Recognizer ocr.Recognizer
	Notifier   *Notifier
}

func NewPaymentService(db *gorm.DB, rec ocr.Recognizer, notifier *Notifier) *PaymentService {
	return &PaymentService{DB: db, Recognizer: rec, Notifier: notifier}
}

// proofReq is the uploaded evidence. Exactly one of RawText, Image or
// ImageURL must be set: RawText when the client ran recognition in the
// browser, Image (base64) or ImageURL (already-hosted screenshot) when the
// server should run it.
type proofReq struct {
	RawText     string `json:"raw_text,omitempty"`
	Image       string `json:"image,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ExpectedUPI string `json:"expected_upi"`
}

// fetchProofImage downloads an already-hosted screenshot.
func fetchProofImage(url string) ([]byte, string, error) {
	resp, err := utils.HTTPClient.Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch proof image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("proof image fetch returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 25*1024*1024))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read proof image: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return data, contentType, nil
}

// resolveProofText produces the text to verify, running server-side
// recognition when only an image was sent. Also returns the decoded image
// bytes and content type for storage (nil when the client sent text only).
func (s *PaymentService) resolveProofText(c *fiber.Ctx, proof proofReq) (string, []byte, string, error) {
	if proof.RawText != "" {
		return proof.RawText, nil, "", nil
	}
	if proof.Image == "" && proof.ImageURL == "" {
		return "", nil, "", fmt.Errorf("proof requires raw_text, image or image_url")
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	if proof.Image != "" {
		data, contentType, err = utils.DecodeBase64Image(proof.Image)
	} else {
		data, contentType, err = fetchProofImage(proof.ImageURL)
	}
	if err != nil {
		return "", nil, "", err
	}
	if s.Recognizer == nil {
		return "", nil, "", fmt.Errorf("server-side recognition is not configured; submit extracted text")
	}
	img, err := utils.PreprocessScreenshot(data)
	if err != nil {
		return "", nil, "", err
	}
	text, err := s.Recognizer.Recognize(c.Context(), img)
	if err != nil {
		return "", nil, "", err
	}
	return text, data, contentType, nil
}

// storeProofImage uploads the screenshot and returns its URL. Falls back to
// the local uploads directory when R2 is not configured.
func storeProofImage(data []byte, contentType string) string {
	if len(data) == 0 {
		return ""
	}
	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	key := "proofs/" + uuid.NewString() + ext
	if utils.R2Configured() {
		url, err := utils.UploadBytesToR2(data, key, contentType)
		if err != nil {
			log.Printf("⚠️ [PAYMENT] R2 upload failed, keeping proof locally: %v", err)
		} else {
			return url
		}
	}
	path := utils.GetUploadPath(key)
	if err := utils.SaveBytes(data, path); err != nil {
		log.Printf("⚠️ [PAYMENT] Local proof save failed: %v", err)
		return ""
	}
	return "/" + path
}

// VerifyProof is the dry run the client calls before submitting: runs the
// screenshot checks and reports the extracted data without persisting
// anything.
func (s *PaymentService) VerifyProof(c *fiber.Ctx) error {
	var req struct {
		Proof          proofReq `json:"proof"`
		ExpectedAmount int      `json:"expected_amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}

	text, _, _, err := s.resolveProofText(c, req.Proof)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}

	v := &ocr.Verifier{}
	res := v.Verify(text, ocr.Expected{Amount: req.ExpectedAmount, UPI: req.Proof.ExpectedUPI})
	if res.State != ocr.StateSuccess {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": res.Reason, "data": res})
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}

// SubmitPayment links one payment to a subset of the caller's events, named
// by (category, type) pairs. Pair resolution, double-payment and amount
// checks run first; then the screenshot is verified; then everything is
// persisted in one transaction whose event update is conditional on the
// payment reference still being absent.
func (s *PaymentService) SubmitPayment(c *fiber.Ctx) error {
	var req struct {
		Pairs          []PairRef `json:"events"`
		DeclaredAmount int       `json:"actual_amount"`
		Proof          proofReq  `json:"proof"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}

	var player models.Player
	err := s.DB.First(&player, "user_id = ?", middleware.UserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "player profile not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load player"})
	}

	var entry models.Entry
	err = s.DB.Preload("Events").First(&entry, "player_id = ?", player.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "no entry to pay for"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load entry"})
	}

	matched, expected, err := MatchPairs(entry.Events, req.Pairs, req.DeclaredAmount)
	if err != nil {
		return linkErrorResponse(c, err)
	}

	return s.finishSubmission(c, map[string][]models.Event{entry.ID: matched}, expected, req.DeclaredAmount, req.Proof)
}

// SubmitLegacyPayment is the event-id variant: one payment spanning events
// that may belong to several entries (an academy settling a whole roster).
// Each parent entry gets the same guarded per-event update, all inside one
// transaction.
func (s *PaymentService) SubmitLegacyPayment(c *fiber.Ctx) error {
	var req struct {
		EventIDs       []string `json:"event_ids"`
		DeclaredAmount int      `json:"actual_amount"`
		Proof          proofReq `json:"proof"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}
	if len(req.EventIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "event_ids is required"})
	}

	// Only events whose entries the caller owns are visible here; an id the
	// caller doesn't own resolves the same as one that doesn't exist.
	var events []models.Event
	err := s.DB.
		Joins("JOIN entries ON entries.id = events.entry_id").
		Joins("JOIN players ON players.id = entries.player_id").
		Where("events.id IN ? AND players.user_id = ?", req.EventIDs, middleware.UserID(c)).
		Find(&events).Error
	if err != nil {
		log.Printf("❌ [PAYMENT] DB error loading events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load events"})
	}

	byEntry, expected, err := MatchEventIDs(events, req.EventIDs, req.DeclaredAmount)
	if err != nil {
		return linkErrorResponse(c, err)
	}

	return s.finishSubmission(c, byEntry, expected, req.DeclaredAmount, req.Proof)
}

// finishSubmission verifies the proof and persists payment, proof and event
// links atomically.
func (s *PaymentService) finishSubmission(c *fiber.Ctx, byEntry map[string][]models.Event, expected, declared int, proof proofReq) error {
	text, imgData, contentType, err := s.resolveProofText(c, proof)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}

	v := &ocr.Verifier{}
	res := v.Verify(text, ocr.Expected{Amount: expected, UPI: proof.ExpectedUPI})
	if res.State != ocr.StateSuccess {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": res.Reason})
	}

	imageURL := storeProofImage(imgData, contentType)

	// Low-confidence amount reads settle as Pending for admin review rather
	// than Paid outright.
	status := models.PaymentPaid
	if res.Amount.Confidence < ocr.ConfidenceMedium {
		status = models.PaymentPending
	}

	proofRec := models.PaymentProof{
		ID:                uuid.NewString(),
		ImageURL:          imageURL,
		RawText:           res.RawText,
		ExtractedAmount:   res.Amount.Amount,
		ExtractedApp:      res.App,
		ExtractedSender:   res.Sender,
		ExtractedReceiver: res.Receiver,
		ExpectedAmount:    expected,
		ExpectedUPI:       proof.ExpectedUPI,
		Verdict:           string(res.State),
	}
	payment := models.Payment{
		ID:             uuid.NewString(),
		UserID:         middleware.UserID(c),
		DeclaredAmount: declared,
		ExpectedAmount: expected,
		Status:         status,
		ProofID:        &proofRec.ID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&proofRec).Error; err != nil {
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		for entryID, evs := range byEntry {
			ids := make([]string, len(evs))
			for i, ev := range evs {
				ids[i] = ev.ID
			}
			// Conditional on the reference still being absent: a concurrent
			// submission that got here first makes RowsAffected fall short
			// and the whole transaction rolls back.
			resUpd := tx.Model(&models.Event{}).
				Where("id IN ? AND entry_id = ? AND payment_id IS NULL", ids, entryID).
				Update("payment_id", payment.ID)
			if resUpd.Error != nil {
				return resUpd.Error
			}
			if resUpd.RowsAffected != int64(len(ids)) {
				return &LinkConflictError{Pair: PairRef{Category: evs[0].Category, Type: evs[0].Type}}
			}
		}
		return nil
	})
	if err != nil {
		var conflict *LinkConflictError
		if errors.As(err, &conflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": "one of the events was paid by a concurrent submission"})
		}
		log.Printf("❌ [PAYMENT] DB error persisting payment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to record payment"})
	}

	eventCount := 0
	for _, evs := range byEntry {
		eventCount += len(evs)
	}
	log.Printf("✅ [PAYMENT] Payment %s recorded (%s, %d events, amount %d)", payment.ID, status, eventCount, declared)

	s.Notifier.Send("payment.recorded", map[string]any{
		"payment_id": payment.ID,
		"user_id":    payment.UserID,
		"amount":     declared,
		"status":     string(status),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": fiber.Map{
		"payment": payment,
		"proof":   proofRec,
	}})
}

// linkErrorResponse maps linker errors onto the HTTP taxonomy.
func linkErrorResponse(c *fiber.Ctx, err error) error {
	var notFound *LinkNotFoundError
	var conflict *LinkConflictError
	var amount *LinkAmountError
	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": err.Error()})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": err.Error()})
	case errors.As(err, &amount):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "msg": err.Error()})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}
}

// GetMyPayments lists the caller's payments with proofs and linked events.
func (s *PaymentService) GetMyPayments(c *fiber.Ctx) error {
	var payments []models.Payment
	err := s.DB.Preload("Proof").Preload("Events").
		Where("user_id = ?", middleware.UserID(c)).
		Order("created_at desc").
		Find(&payments).Error
	if err != nil {
		log.Printf("❌ [PAYMENT] DB error listing payments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load payments"})
	}
	return c.JSON(fiber.Map{"success": true, "data": payments})
}

// UpdatePaymentStatus is the admin review action. Failing a payment releases
// its events so the player can pay again; settling a Pending payment keeps
// the links as they are.
func (s *PaymentService) UpdatePaymentStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var req struct {
		Status models.PaymentStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "invalid request body"})
	}
	switch req.Status {
	case models.PaymentPaid, models.PaymentPending, models.PaymentFailed:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "msg": "status must be Paid, Pending or Failed"})
	}

	var payment models.Payment
	err := s.DB.First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "msg": "payment not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to load payment"})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&payment).Update("status", req.Status).Error; err != nil {
			return err
		}
		if req.Status == models.PaymentFailed {
			return tx.Model(&models.Event{}).
				Where("payment_id = ?", payment.ID).
				Update("payment_id", nil).Error
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ [PAYMENT] DB error updating payment %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "msg": "failed to update payment"})
	}

	log.Printf("✅ [PAYMENT] Payment %s -> %s", id, req.Status)
	return c.JSON(fiber.Map{"success": true, "msg": "payment updated"})
}
