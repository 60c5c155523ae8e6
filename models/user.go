package models

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAcademy    Role = "academy"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// User is an authenticated account. Players register as "user", academies as
// "academy"; admin and superadmin accounts are seeded or promoted.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"default:'user';index"`
	PlayerID     *string   `json:"player_id,omitempty" gorm:"index"`
	AcademyID    *string   `json:"academy_id,omitempty" gorm:"index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAcademy, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
