package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"canteen-bot/internal/model"
	"canteen-bot/internal/repository"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.userRepo.FindByTelegramID(ctx, msg.From.ID)
	switch {
	case err == nil:
		b.clearSession(msg.From.ID)
		return b.sendMenu(msg.Chat.ID, msg.From.ID, fmt.Sprintf(
			"С возвращением, %s!\nИспользуйте кнопки меню для работы с ботом.", escape(user.FullName)))
	case errors.Is(err, gorm.ErrRecordNotFound):
		b.setSession(msg.From.ID, &session{state: stateAwaitingName})
		return b.sendWithMarkup(msg.Chat.ID,
			"Привет! Я бот для подачи заявок на питание.\n"+
				"Пожалуйста, введите ваше ФИО в формате <b>Фамилия И.О.</b>\n"+
				"Например: <b>Иванов И.И.</b>",
			tgbotapi.NewRemoveKeyboard(true))
	default:
		log.Printf("[warn] find user %d: %v", msg.From.ID, err)
		return b.sendPlain(msg.Chat.ID, "❌ Произошла ошибка. Попробуйте еще раз.")
	}
}

// startNameChange moves to the name step from any state, abandoning
// whatever was in progress.
func (b *Bot) startNameChange(msg *tgbotapi.Message) error {
	b.setSession(msg.From.ID, &session{state: stateAwaitingName})
	log.Printf("[info] user %d requested name change", msg.From.ID)
	return b.sendWithMarkup(msg.Chat.ID,
		"Введите ваше новое ФИО в формате <b>Фамилия И.О.</b>:",
		tgbotapi.NewRemoveKeyboard(true))
}

func (b *Bot) processName(ctx context.Context, msg *tgbotapi.Message) error {
	fullName := strings.TrimSpace(msg.Text)

	if !validFullName(fullName) {
		// State does not advance; the user may retry indefinitely.
		return b.sendPlain(msg.Chat.ID,
			"❌ Неверный формат ФИО. Пожалуйста, введите в формате: <b>Фамилия И.О.</b>\n"+
				"Например: <b>Иванов И.И.</b>\n"+
				"Фамилия с заглавной буквы, затем инициалы с точками (И.О.).")
	}

	if _, err := b.userRepo.Upsert(ctx, msg.From.ID, fullName, b.now()); err != nil {
		log.Printf("[warn] save name for %d: %v", msg.From.ID, err)
		return b.sendPlain(msg.Chat.ID, "❌ Произошла ошибка при сохранении данных. Попробуйте еще раз.")
	}

	b.clearSession(msg.From.ID)
	log.Printf("[info] user %d saved name: %s", msg.From.ID, fullName)
	return b.sendMenu(msg.Chat.ID, msg.From.ID, fmt.Sprintf(
		"✅ Спасибо, %s! Ваше ФИО сохранено.\n"+
			"Теперь вы можете подать заявку на питание с помощью кнопки меню.", escape(fullName)))
}

// startOrder opens the meal-date step for a registered user and records
// their id and name into the conversation scratch state.
func (b *Bot) startOrder(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.userRepo.FindByTelegramID(ctx, msg.From.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		b.clearSession(msg.From.ID)
		return b.sendPlain(msg.Chat.ID, "Пожалуйста, сначала зарегистрируйтесь с помощью команды /start.")
	case err != nil:
		log.Printf("[warn] find user %d: %v", msg.From.ID, err)
		return b.sendPlain(msg.Chat.ID, "❌ Произошла ошибка. Попробуйте еще раз.")
	}

	b.setSession(msg.From.ID, &session{
		state:    stateAwaitingMealDate,
		userID:   user.ID,
		fullName: user.FullName,
	})
	log.Printf("[info] user %d started an order", msg.From.ID)
	return b.sendWithMarkup(msg.Chat.ID,
		fmt.Sprintf("%s, выберите дату питания:", escape(user.FullName)),
		dateKeyboard(b.now()))
}

func (b *Bot) processMealDate(msg *tgbotapi.Message, s *session) error {
	text := strings.TrimSpace(msg.Text)

	if text == btnBack {
		b.clearSession(msg.From.ID)
		return b.sendMenu(msg.Chat.ID, msg.From.ID, "Главное меню:")
	}

	mealDate, err := parseMealDate(text)
	if err != nil {
		return b.sendPlain(msg.Chat.ID, "❌ Неверный формат даты. Пожалуйста, введите дату в формате ДД.ММ.ГГГГ")
	}
	if mealDate.Before(dateOnly(b.now())) {
		return b.sendPlain(msg.Chat.ID, "❌ Нельзя выбрать прошедшую дату. Пожалуйста, выберите другую дату.")
	}

	s.mealDate = mealDate
	s.state = stateAwaitingCanteen
	return b.sendWithMarkup(msg.Chat.ID,
		fmt.Sprintf("✅ Вы выбрали дату: %s\nТеперь выберите столовую:", mealDate.Format(model.DisplayDate)),
		canteenKeyboard(b.cfg.Canteens))
}

func (b *Bot) processCanteen(ctx context.Context, msg *tgbotapi.Message, s *session) error {
	text := strings.TrimSpace(msg.Text)

	if text == btnBack {
		// Back to the date step; the scratch full name survives.
		s.state = stateAwaitingMealDate
		return b.sendWithMarkup(msg.Chat.ID,
			fmt.Sprintf("%s, выберите дату питания:", escape(s.fullName)),
			dateKeyboard(b.now()))
	}

	if !b.isCanteen(text) {
		return b.sendPlain(msg.Chat.ID, "❌ Пожалуйста, выберите столовую из предложенных вариантов.")
	}

	if s.userID == "" || s.mealDate.IsZero() {
		// Lost scratch state must never partially write a request.
		b.clearSession(msg.From.ID)
		return b.sendMenu(msg.Chat.ID, msg.From.ID, "❌ Ошибка: данные сессии утеряны. Начните заново.")
	}

	submittedAt := b.now()
	outcome, err := b.requestRepo.Upsert(ctx, s.userID, s.mealDate, text, submittedAt)
	switch {
	case errors.Is(err, model.ErrPastMealDate):
		s.state = stateAwaitingMealDate
		return b.sendWithMarkup(msg.Chat.ID,
			"❌ Нельзя выбрать прошедшую дату. Пожалуйста, выберите другую дату.",
			dateKeyboard(b.now()))
	case err != nil:
		log.Printf("[warn] save request for %d: %v", msg.From.ID, err)
		return b.sendPlain(msg.Chat.ID, "❌ Произошла ошибка при сохранении заявки. Попробуйте еще раз.")
	}

	action := "подана"
	if outcome == repository.OutcomeUpdated {
		action = "обновлена"
	}

	b.clearSession(msg.From.ID)
	log.Printf("[info] request %s: user=%d canteen=%s date=%s", action, msg.From.ID, text, s.mealDate.Format(model.DateLayout))
	return b.sendMenu(msg.Chat.ID, msg.From.ID, fmt.Sprintf(
		"✅ Заявка на питание в столовой '%s' %s на %s!\n"+
			"📅 Дата подачи: %s\n"+
			"⏰ Время подачи: %s",
		escape(text), action,
		s.mealDate.Format(model.DisplayDate),
		submittedAt.Format(model.DisplayDate),
		submittedAt.Format(model.TimeLayout)))
}

// handleDeleteMe is the self-service wipe: the user row and all owned
// requests go in one transaction.
func (b *Bot) handleDeleteMe(ctx context.Context, msg *tgbotapi.Message) error {
	b.clearSession(msg.From.ID)

	deleted, err := b.userRepo.Delete(ctx, msg.From.ID)
	if err != nil {
		log.Printf("[warn] delete user %d: %v", msg.From.ID, err)
		return b.sendPlain(msg.Chat.ID, "❌ Произошла ошибка при удалении данных. Попробуйте еще раз.")
	}
	if !deleted {
		return b.sendPlain(msg.Chat.ID, "ℹ️ Ваши данные не найдены в системе.")
	}

	log.Printf("[info] user %d deleted their data", msg.From.ID)
	return b.sendWithMarkup(msg.Chat.ID,
		"✅ Ваши данные полностью удалены из системы!",
		tgbotapi.NewRemoveKeyboard(true))
}
