package models

import "time"

// Player is a registrant. Academy-created players hang off the academy's
// account; self-registered players hang off their own user.
type Player struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;index"`
	AcademyID   *string   `json:"academy_id,omitempty" gorm:"index"`
	Name        string    `json:"name" gorm:"not null"`
	DOB         time.Time `json:"dob" gorm:"not null"`
	Gender      string    `json:"gender"`
	AcademyName string    `json:"academy_name"`
	Place       string    `json:"place"`
	District    string    `json:"district"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Academy *Academy `json:"academy,omitempty" gorm:"foreignKey:AcademyID"`
	Entries []Entry  `json:"entries,omitempty" gorm:"foreignKey:PlayerID"`
}

// Academy bulk-registers players and settles their fees in one payment.
type Academy struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex"`
	Contact   string    `json:"contact"`
	District  string    `json:"district"`
	QRCodeURL string    `json:"qr_code_url"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Players []Player `json:"players,omitempty" gorm:"foreignKey:AcademyID"`
}
