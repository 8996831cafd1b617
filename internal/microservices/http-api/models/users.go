package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;size:254" json:"email"`
	Username  string    `gorm:"uniqueIndex;not null;size:150" json:"username"`
	FirstName string    `gorm:"not null;size:150" json:"first_name"`
	LastName  string    `gorm:"not null;size:150" json:"last_name"`
	Password  string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role      string    `gorm:"default:'user';not null" json:"role"`    // "user" or "admin"
	CreatedAt time.Time `json:"created_at"`

	// filled only by annotated queries
	IsSubscribed bool  `gorm:"->;-:migration" json:"-"`
	RecipesCount int64 `gorm:"->;-:migration" json:"-"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
