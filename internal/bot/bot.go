package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"canteen-bot/internal/config"
	"canteen-bot/internal/repository"
	"canteen-bot/internal/service"
)

const (
	btnOrder      = "🍽 Подать заявку"
	btnChangeName = "✏️ Изменить ФИО"
	btnDeleteMe   = "❌ Удалить мои данные"
	btnStats      = "📊 Статистика"
	btnExport     = "📥 Экспорт в Excel"
	btnClear      = "🧹 Очистить базу"
	btnBack       = "↩️ Назад"
)

// telegramAPI is the slice of *tgbotapi.BotAPI the bot uses. Tests
// substitute a recording fake.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot aggregates the Telegram API with stores and services, and owns the
// per-user conversation sessions.
type Bot struct {
	api         telegramAPI
	userRepo    *repository.UserRepository
	requestRepo *repository.RequestRepository
	reportSvc   *service.ReportService
	statsSvc    *service.StatsService
	cfg         *config.Config
	sessions    map[int64]*session
	mu          sync.Mutex
	now         func() time.Time
}

func New(token string, userRepo *repository.UserRepository, requestRepo *repository.RequestRepository, reportSvc *service.ReportService, statsSvc *service.StatsService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return newBot(api, userRepo, requestRepo, reportSvc, statsSvc, cfg), nil
}

func newBot(api telegramAPI, userRepo *repository.UserRepository, requestRepo *repository.RequestRepository, reportSvc *service.ReportService, statsSvc *service.StatsService, cfg *config.Config) *Bot {
	return &Bot{
		api:         api,
		userRepo:    userRepo,
		requestRepo: requestRepo,
		reportSvc:   reportSvc,
		statsSvc:    statsSvc,
		cfg:         cfg,
		sessions:    make(map[int64]*session),
		now:         time.Now,
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}

	return nil
}

// handleMessage routes one inbound event. Menu buttons win over the
// current conversation step: an explicit change-name or order-start
// abandons whatever was in progress. Everything else is dispatched by
// the user's session state.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s", msg.From.ID, msg.Command())
		switch msg.Command() {
		case "start":
			return b.handleStart(ctx, msg)
		default:
			return b.sendMenu(msg.Chat.ID, msg.From.ID, "Команда не поддерживается. Используйте кнопки меню.")
		}
	}

	switch strings.TrimSpace(msg.Text) {
	case btnChangeName:
		return b.startNameChange(msg)
	case btnOrder:
		return b.startOrder(ctx, msg)
	case btnDeleteMe:
		return b.handleDeleteMe(ctx, msg)
	case btnStats:
		return b.handleStats(ctx, msg)
	case btnExport:
		return b.handleExport(ctx, msg)
	case btnClear:
		return b.handleClear(ctx, msg)
	}

	s := b.getSession(msg.From.ID)
	if s == nil {
		return b.sendMenu(msg.Chat.ID, msg.From.ID, "Я вас не понял. Используйте кнопки меню для работы с ботом.")
	}

	switch s.state {
	case stateAwaitingName:
		return b.processName(ctx, msg)
	case stateAwaitingMealDate:
		return b.processMealDate(msg, s)
	case stateAwaitingCanteen:
		return b.processCanteen(ctx, msg, s)
	default:
		return b.sendMenu(msg.Chat.ID, msg.From.ID, "Я вас не понял. Используйте кнопки меню для работы с ботом.")
	}
}

func (b *Bot) isAdmin(telegramID int64) bool {
	return b.cfg.AdminID != 0 && telegramID == b.cfg.AdminID
}

// Notify sends a plain text to a handle; used by the reminder sweep and
// the startup notice.
func (b *Bot) Notify(telegramID int64, text string) error {
	return b.sendPlain(telegramID, text)
}

func (b *Bot) sendPlain(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMenu(chatID, userID int64, text string) error {
	return b.sendWithMarkup(chatID, text, mainMenuKeyboard(b.isAdmin(userID)))
}

func (b *Bot) sendWithMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func escape(s string) string {
	return html.EscapeString(s)
}
