package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered participant identified by a Telegram account.
type User struct {
	ID         string `gorm:"primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex"`
	FullName   string
	LastUpdate string // ISO date the name was last set
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Requests   []Request `gorm:"foreignKey:UserID"`
}

// BeforeCreate assigns a uuid id. Unlike sqlite rowids, uuids are never
// reused after a user deletes their data.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
