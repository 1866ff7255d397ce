package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"canteen-bot/internal/config"
	"canteen-bot/internal/model"
	"canteen-bot/internal/repository"
	"canteen-bot/internal/service"
)

const adminID int64 = 99

// fakeAPI records everything the bot sends.
type fakeAPI struct {
	sent []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	msg, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok, "last send is not a text message: %T", f.sent[len(f.sent)-1])
	return msg.Text
}

type testBot struct {
	*Bot
	api      *fakeAPI
	users    *repository.UserRepository
	requests *repository.RequestRepository
	clock    time.Time
}

func (tb *testBot) advance(d time.Duration) {
	tb.clock = tb.clock.Add(d)
}

// newTestBot wires the bot against an in-memory database and a fixed
// clock (Saturday 2025-12-20 10:00 UTC).
func newTestBot(t *testing.T) *testBot {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Request{}))

	users := repository.NewUserRepository(db)
	requests := repository.NewRequestRepository(db)

	cfg := &config.Config{
		AdminID:    adminID,
		Canteens:   []string{"Центр", "Ястреб"},
		SessionTTL: 30 * time.Minute,
		ReportDir:  t.TempDir(),
	}

	reportSvc := service.NewReportService(requests, cfg.ReportDir, cfg.ReportSplitSubmission)
	statsSvc := service.NewStatsService(users, requests)

	api := &fakeAPI{}
	b := newBot(api, users, requests, reportSvc, statsSvc, cfg)

	tb := &testBot{Bot: b, api: api, users: users, requests: requests,
		clock: time.Date(2025, time.December, 20, 10, 0, 0, 0, time.UTC)}
	b.now = func() time.Time { return tb.clock }
	return tb
}

func textMsg(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID, Type: "private"},
		Text: text,
	}
}

func commandMsg(userID int64, cmd string) *tgbotapi.Message {
	m := textMsg(userID, "/"+cmd)
	m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd) + 1}}
	return m
}

func (tb *testBot) say(t *testing.T, userID int64, text string) string {
	t.Helper()
	require.NoError(t, tb.handleMessage(context.Background(), textMsg(userID, text)))
	return tb.api.lastText(t)
}

func (tb *testBot) command(t *testing.T, userID int64, cmd string) string {
	t.Helper()
	require.NoError(t, tb.handleMessage(context.Background(), commandMsg(userID, cmd)))
	return tb.api.lastText(t)
}

// register walks a user through the name step.
func (tb *testBot) register(t *testing.T, userID int64, fullName string) {
	t.Helper()
	tb.command(t, userID, "start")
	reply := tb.say(t, userID, fullName)
	require.Contains(t, reply, "ФИО сохранено")
}
