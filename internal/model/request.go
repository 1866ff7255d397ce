package model

import "time"

// Textual layouts for the date/time columns. Storage keeps ISO strings
// so they round-trip exactly; DisplayDate is what users see.
const (
	DateLayout    = "2006-01-02"
	TimeLayout    = "15:04:05"
	DisplayDate   = "02.01.2006"
	FileTimestamp = "2006-01-02_15-04-05"
)

// Request is one meal preference for a single calendar date. The
// composite unique index keeps at most one row per (owner, meal date);
// a repeated commit overwrites the existing row.
type Request struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         string `gorm:"index:idx_owner_meal_date,unique"`
	MealDate       string `gorm:"index:idx_owner_meal_date,unique"`
	SubmissionDate string
	SubmissionTime string
	Canteen        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
