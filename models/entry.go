package models

import "time"

type EntryStatus string

const (
	EntryActive    EntryStatus = "active"
	EntryWithdrawn EntryStatus = "withdrawn"
)

// Entry is a player's registration container for one cycle. Entries are never
// hard-deleted; withdrawal is a status flip so payment history stays intact.
type Entry struct {
	ID        string      `json:"id" gorm:"primaryKey"`
	PlayerID  string      `json:"player_id" gorm:"not null;uniqueIndex"`
	Status    EntryStatus `json:"status" gorm:"default:'active'"`
	CreatedAt time.Time   `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"autoUpdateTime"`

	Player *Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	Events []Event `json:"events,omitempty" gorm:"foreignKey:EntryID"`
}

type EventStatus string

const (
	EventPending  EventStatus = "pending"
	EventApproved EventStatus = "approved"
	EventRejected EventStatus = "rejected"
)

// Event is one category+type registration within an Entry. Events live in
// their own table keyed by (entry_id, category, type) so a payment can be
// attached to exactly one row with a single conditional update.
//
// Partner fields are a snapshot copied at submission time, not a live
// reference to another player record.
type Event struct {
	ID       string      `json:"id" gorm:"primaryKey"`
	EntryID  string      `json:"entry_id" gorm:"not null;index;uniqueIndex:idx_entry_cat_type,priority:1"`
	Category string      `json:"category" gorm:"not null;uniqueIndex:idx_entry_cat_type,priority:2"`
	Type     EventType   `json:"type" gorm:"not null;uniqueIndex:idx_entry_cat_type,priority:3"`
	Status   EventStatus `json:"status" gorm:"default:'pending';index"`

	PartnerName     string     `json:"partner_name,omitempty"`
	PartnerDOB      *time.Time `json:"partner_dob,omitempty"`
	PartnerAcademy  string     `json:"partner_academy,omitempty"`
	PartnerPlace    string     `json:"partner_place,omitempty"`
	PartnerDistrict string     `json:"partner_district,omitempty"`

	// Set at most once. A non-null PaymentID freezes the event.
	PaymentID *string `json:"payment_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Payment *Payment `json:"payment,omitempty" gorm:"foreignKey:PaymentID"`
}

// Paid reports whether the event already carries a settlement reference.
func (e *Event) Paid() bool {
	return e.PaymentID != nil && *e.PaymentID != ""
}
