package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null;size:100"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`

	// Profile info (target role, preferred topics, etc.)
	Profile datatypes.JSON `json:"profile" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// PublicUser is the representation returned by auth endpoints. The password
// hash never leaves the model layer.
type PublicUser struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Profile datatypes.JSON `json:"profile,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Profile: u.Profile,
	}
}
