package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	failFor map[int64]bool
	sent    []int64
}

func (f *fakeNotifier) Notify(telegramID int64, text string) error {
	if f.failFor[telegramID] {
		return fmt.Errorf("handle %d unreachable", telegramID)
	}
	f.sent = append(f.sent, telegramID)
	return nil
}

// Monday.
var monday = time.Date(2025, time.December, 22, 16, 0, 0, 0, time.UTC)

func TestSweepNotifiesOnlyMissingUsers(t *testing.T) {
	users, requests := newTestRepos(t)
	ctx := context.Background()

	seedUser(t, users, 1, "Иванов И.И.")
	seedUser(t, users, 2, "Петров П.П.")
	submitted := seedUser(t, users, 3, "Сидоров С.С.")

	target := monday.AddDate(0, 0, 1)
	_, err := requests.Upsert(ctx, submitted.ID, target, "Центр", monday)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	sweep := NewReminderService(requests, notifier, 1)

	res, err := sweep.Sweep(ctx, monday)
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.Equal(t, target.Format("2006-01-02"), res.TargetDate.Format("2006-01-02"))
	require.Equal(t, 2, res.Attempted)
	require.Equal(t, 2, res.Sent)
	require.Zero(t, res.Failed)
	require.ElementsMatch(t, []int64{1, 2}, notifier.sent)
}

func TestSweepPartialFailureIsNotFatal(t *testing.T) {
	users, requests := newTestRepos(t)

	seedUser(t, users, 1, "Иванов И.И.")
	seedUser(t, users, 2, "Петров П.П.")
	seedUser(t, users, 3, "Сидоров С.С.")

	notifier := &fakeNotifier{failFor: map[int64]bool{2: true}}
	sweep := NewReminderService(requests, notifier, 1)

	res, err := sweep.Sweep(context.Background(), monday)
	require.NoError(t, err)
	require.Equal(t, 3, res.Attempted)
	require.Equal(t, 2, res.Sent)
	require.Equal(t, 1, res.Failed)
	require.ElementsMatch(t, []int64{1, 3}, notifier.sent)
}

func TestSweepSkipsWeekends(t *testing.T) {
	users, requests := newTestRepos(t)
	seedUser(t, users, 1, "Иванов И.И.")

	notifier := &fakeNotifier{}
	sweep := NewReminderService(requests, notifier, 1)

	saturday := time.Date(2025, time.December, 20, 16, 0, 0, 0, time.UTC)
	res, err := sweep.Sweep(context.Background(), saturday)
	require.NoError(t, err)
	require.True(t, res.Skipped)
	require.Empty(t, notifier.sent)

	sunday := saturday.AddDate(0, 0, 1)
	res, err = sweep.Sweep(context.Background(), sunday)
	require.NoError(t, err)
	require.True(t, res.Skipped)
	require.Empty(t, notifier.sent)
}

func TestSweepSameDayOffset(t *testing.T) {
	users, requests := newTestRepos(t)
	ctx := context.Background()

	submitted := seedUser(t, users, 1, "Иванов И.И.")
	seedUser(t, users, 2, "Петров П.П.")

	_, err := requests.Upsert(ctx, submitted.ID, monday, "Центр", monday)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	sweep := NewReminderService(requests, notifier, 0)

	res, err := sweep.Sweep(ctx, monday)
	require.NoError(t, err)
	require.Equal(t, 1, res.Attempted)
	require.ElementsMatch(t, []int64{2}, notifier.sent)
}
