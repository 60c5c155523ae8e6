package workers

import (
	"context"
	"log"
	"time"

	"tournament-entry-system/models"

	"gorm.io/gorm"
)

// PaymentExpiryWorker fails Pending payments nobody reviewed within the TTL
// and releases their events so the registrant can pay again.
type PaymentExpiryWorker struct {
	DB  *gorm.DB
	TTL time.Duration
}

func NewPaymentExpiryWorker(db *gorm.DB, ttl time.Duration) *PaymentExpiryWorker {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &PaymentExpiryWorker{DB: db, TTL: ttl}
}

// PollExpiredPayments sweeps on the given interval until ctx is cancelled.
func (w *PaymentExpiryWorker) PollExpiredPayments(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("✅ Payment expiry worker running (TTL %s, every %s)", w.TTL, interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Payment expiry worker stopping...")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *PaymentExpiryWorker) sweep() {
	cutoff := time.Now().Add(-w.TTL)

	var stale []models.Payment
	err := w.DB.Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).Find(&stale).Error
	if err != nil {
		log.Printf("❌ [EXPIRY] DB error loading stale payments: %v", err)
		return
	}

	for _, p := range stale {
		err := w.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&p).Update("status", models.PaymentFailed).Error; err != nil {
				return err
			}
			return tx.Model(&models.Event{}).
				Where("payment_id = ?", p.ID).
				Update("payment_id", nil).Error
		})
		if err != nil {
			log.Printf("❌ [EXPIRY] Failed to expire payment %s: %v", p.ID, err)
			continue
		}
		log.Printf("⚠️ [EXPIRY] Payment %s pending since %s — marked Failed, events released", p.ID, p.CreatedAt.Format(time.RFC3339))
	}
}
