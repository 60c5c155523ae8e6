package models

import "time"

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
	PaymentFailed  PaymentStatus = "Failed"
)

// Payment is one settlement transaction covering a subset of a player's
// events (or, for academy bulk payments, events across several entries).
// Events reference the payment; the payment does not own them.
type Payment struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	UserID         string        `json:"user_id" gorm:"not null;index"`
	DeclaredAmount int           `json:"declared_amount" gorm:"not null"`
	ExpectedAmount int           `json:"expected_amount" gorm:"not null"`
	Status         PaymentStatus `json:"status" gorm:"default:'Pending';index"`
	ProofID        *string       `json:"proof_id,omitempty" gorm:"index"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Proof  *PaymentProof `json:"proof,omitempty" gorm:"foreignKey:ProofID"`
	Events []Event       `json:"events,omitempty" gorm:"foreignKey:PaymentID"`
}

// PaymentProof stores the uploaded screenshot plus what the verifier pulled
// out of it and what the client claimed. Immutable once created: proofs are
// evidence, corrections happen on the Payment status instead.
type PaymentProof struct {
	ID       string `json:"id" gorm:"primaryKey"`
	ImageURL string `json:"image_url"`
	RawText  string `json:"raw_text" gorm:"type:text"`

	ExtractedAmount   int    `json:"extracted_amount"`
	ExtractedApp      string `json:"extracted_app"`
	ExtractedSender   string `json:"extracted_sender"`
	ExtractedReceiver string `json:"extracted_receiver"`

	ExpectedAmount int    `json:"expected_amount"`
	ExpectedUPI    string `json:"expected_upi"`

	Verdict   string    `json:"verdict"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
