package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleOfficer Role = "OFFICER"
	RoleAdmin   Role = "ADMIN"
)

// User is a staff or citizen account. Nothing authenticates against it yet.
type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Name      string `json:"name"`
	Role      Role   `gorm:"type:text" json:"role"`
	Email     string `gorm:"uniqueIndex" json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// BeforeCreate assigns a UUID when the ID is still empty.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
