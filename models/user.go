// user.go - Defines the User model for the database

package models // Declares the package name

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct { // User struct represents a registered author
	ID        string    `gorm:"primaryKey;size:36" json:"id"`      // Unique user ID (UUID)
	Name      string    `gorm:"not null" json:"name"`              // Display name
	Email     string    `gorm:"uniqueIndex;not null" json:"email"` // Lower-cased email, must be unique
	Password  string    `gorm:"not null" json:"-"`                 // bcrypt hash, never serialized
	Avatar    *string   `json:"avatar"`                            // Uploaded avatar file name, nil if none
	Posts     int       `gorm:"not null;default:0" json:"posts"`   // Denormalized number of posts owned
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the opaque ID when the caller has not set one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
