package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"canteen-bot/internal/model"
)

// Outcome tells whether an upsert created a fresh request or overwrote
// an existing one.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
)

// MissingUser is a registered user without a request for a given date.
type MissingUser struct {
	TelegramID int64
	FullName   string
}

// ReportRow is one flat line of the export: request joined with its owner.
type ReportRow struct {
	FullName       string
	MealDate       string
	SubmissionDate string
	SubmissionTime string
	Canteen        string
}

type CanteenCount struct {
	Canteen string
	Count   int64
}

type DateCount struct {
	MealDate string
	Count    int64
}

// RequestRepository handles meal requests keyed by (owner, meal date).
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Upsert commits a request, overwriting any existing row for the same
// (owner, meal date) pair. The whole read-then-write runs inside one
// transaction; the unique index on the pair is the backstop, so two
// near-simultaneous commits resolve to a single surviving row.
// Rejects a meal date before the calendar date of submittedAt.
func (r *RequestRepository) Upsert(ctx context.Context, ownerID string, mealDate time.Time, canteen string, submittedAt time.Time) (Outcome, error) {
	day := mealDate.Format(model.DateLayout)
	if day < submittedAt.Format(model.DateLayout) {
		return OutcomeCreated, model.ErrPastMealDate
	}

	outcome := OutcomeCreated
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Request
		err := tx.Where("user_id = ? AND meal_date = ?", ownerID, day).First(&existing).Error
		switch {
		case err == nil:
			outcome = OutcomeUpdated
			updates := map[string]interface{}{
				"canteen":         canteen,
				"submission_date": submittedAt.Format(model.DateLayout),
				"submission_time": submittedAt.Format(model.TimeLayout),
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("update request: %w", err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			req := model.Request{
				UserID:         ownerID,
				MealDate:       day,
				SubmissionDate: submittedAt.Format(model.DateLayout),
				SubmissionTime: submittedAt.Format(model.TimeLayout),
				Canteen:        canteen,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "meal_date"}},
				DoUpdates: clause.AssignmentColumns([]string{"canteen", "submission_date", "submission_time", "updated_at"}),
			}).Create(&req).Error; err != nil {
				return fmt.Errorf("create request: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("find request: %w", err)
		}
	})
	return outcome, err
}

// ListMissingFor returns every registered user without a request for the
// date, computed as one set-difference query rather than a per-user probe.
func (r *RequestRepository) ListMissingFor(ctx context.Context, date time.Time) ([]MissingUser, error) {
	day := date.Format(model.DateLayout)
	sub := r.db.Model(&model.Request{}).Select("user_id").Where("meal_date = ?", day)

	var users []MissingUser
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("telegram_id, full_name").
		Where("id NOT IN (?)", sub).
		Order("full_name ASC").
		Scan(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// JoinedWithOwners snapshots every request with its owner's name, ordered
// by meal date descending then name ascending. Read only.
func (r *RequestRepository) JoinedWithOwners(ctx context.Context) ([]ReportRow, error) {
	var rows []ReportRow
	if err := r.db.WithContext(ctx).Model(&model.Request{}).
		Select("users.full_name, requests.meal_date, requests.submission_date, requests.submission_time, requests.canteen").
		Joins("JOIN users ON users.id = requests.user_id").
		Order("requests.meal_date DESC, users.full_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ClearAll wipes requests and users in one transaction. Not reversible;
// authorization is the caller's responsibility.
func (r *RequestRepository) ClearAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Request{}).Error; err != nil {
			return fmt.Errorf("clear requests: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&model.User{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		return nil
	})
}

func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Request{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// LastMealDate returns the most recent meal date, or "" when there are
// no requests.
func (r *RequestRepository) LastMealDate(ctx context.Context) (string, error) {
	var last sql.NullString
	if err := r.db.WithContext(ctx).Model(&model.Request{}).
		Select("MAX(meal_date)").Scan(&last).Error; err != nil {
		return "", err
	}
	return last.String, nil
}

func (r *RequestRepository) CountByCanteen(ctx context.Context) ([]CanteenCount, error) {
	var stats []CanteenCount
	if err := r.db.WithContext(ctx).Model(&model.Request{}).
		Select("canteen, COUNT(*) AS count").
		Group("canteen").
		Order("canteen ASC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// CountByRecentDates returns request counts for the most recent distinct
// meal dates, newest first.
func (r *RequestRepository) CountByRecentDates(ctx context.Context, limit int) ([]DateCount, error) {
	var stats []DateCount
	if err := r.db.WithContext(ctx).Model(&model.Request{}).
		Select("meal_date, COUNT(*) AS count").
		Group("meal_date").
		Order("meal_date DESC").
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
