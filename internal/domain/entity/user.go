package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/pedidos-api/internal/domain/enum"
)

// User is an account allowed to sign in to the dashboard
type User struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	Username  string        `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Password  string        `gorm:"size:255;not null" json:"-"`
	Role      enum.UserRole `gorm:"not null;default:0" json:"role"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
