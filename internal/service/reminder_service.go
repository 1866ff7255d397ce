package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"canteen-bot/internal/model"
	"canteen-bot/internal/repository"
)

// Notifier delivers a text to a Telegram handle, best effort.
type Notifier interface {
	Notify(telegramID int64, text string) error
}

// ReminderService nags every user who has no request for the target
// date. It is pure logic over a supplied "now"; scheduling lives in the
// cron wrapper.
type ReminderService struct {
	requestRepo *repository.RequestRepository
	notifier    Notifier
	offsetDays  int
}

// NewReminderService builds a sweep with a configurable target-date
// offset: 1 reminds about tomorrow, 0 about today.
func NewReminderService(requestRepo *repository.RequestRepository, notifier Notifier, offsetDays int) *ReminderService {
	return &ReminderService{requestRepo: requestRepo, notifier: notifier, offsetDays: offsetDays}
}

// SweepResult aggregates one sweep run.
type SweepResult struct {
	TargetDate time.Time
	Skipped    bool // now fell on a non-operating day
	Attempted  int
	Sent       int
	Failed     int
}

// Sweep dispatches reminders to every user missing a request for
// now + offset. Runs on weekdays only. A delivery failure for one
// recipient is logged and never aborts the rest; only the repository
// read can fail the sweep.
func (s *ReminderService) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return SweepResult{Skipped: true}, nil
	}

	target := now.AddDate(0, 0, s.offsetDays)
	missing, err := s.requestRepo.ListMissingFor(ctx, target)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list users missing request: %w", err)
	}

	res := SweepResult{TargetDate: target, Attempted: len(missing)}
	for _, u := range missing {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}
		text := fmt.Sprintf(
			"⏰ %s, не забудьте подать заявку на питание на %s!\nИспользуйте кнопку «🍽 Подать заявку»",
			u.FullName, target.Format(model.DisplayDate),
		)
		if err := s.notifier.Notify(u.TelegramID, text); err != nil {
			log.Printf("[warn] reminder to %d: %v", u.TelegramID, err)
			res.Failed++
			continue
		}
		res.Sent++
	}
	return res, nil
}
