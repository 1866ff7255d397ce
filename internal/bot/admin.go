package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"canteen-bot/internal/model"
)

// requireAdmin is the authorization boundary for administrative
// actions: plain handle equality against the configured admin id.
func (b *Bot) requireAdmin(msg *tgbotapi.Message) bool {
	if b.isAdmin(msg.From.ID) {
		return true
	}
	log.Printf("[warn] user %d attempted an admin action", msg.From.ID)
	_ = b.sendPlain(msg.Chat.ID, "❌ Эта команда доступна только администратору.")
	return false
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.requireAdmin(msg) {
		return nil
	}

	report, err := b.reportSvc.Generate(ctx, b.now())
	switch {
	case errors.Is(err, model.ErrNoData):
		return b.sendPlain(msg.Chat.ID, "Нет данных для экспорта.")
	case err != nil:
		log.Printf("[warn] export: %v", err)
		return b.sendPlain(msg.Chat.ID, "❌ Ошибка при создании отчета.")
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FilePath(report.Path))
	doc.Caption = fmt.Sprintf("Экспорт заявок на питание (%d записей)", report.Rows)
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	return b.sendPlain(msg.Chat.ID, "✅ Файл успешно экспортирован и отправлен!")
}

func (b *Bot) handleClear(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.requireAdmin(msg) {
		return nil
	}

	if err := b.requestRepo.ClearAll(ctx); err != nil {
		log.Printf("[warn] clear db: %v", err)
		return b.sendPlain(msg.Chat.ID, "❌ Ошибка при очистке базы данных.")
	}

	log.Println("[info] database cleared by administrator")
	return b.sendPlain(msg.Chat.ID, "✅ База данных полностью очищена!")
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.requireAdmin(msg) {
		return nil
	}

	sum, err := b.statsSvc.Summary(ctx)
	if err != nil {
		log.Printf("[warn] stats: %v", err)
		return b.sendPlain(msg.Chat.ID, "❌ Ошибка при получении статистики.")
	}

	lastDate := sum.LastMealDate
	if lastDate == "" {
		lastDate = "нет данных"
	}

	var builder strings.Builder
	builder.WriteString("📊 Статистика бота:\n")
	builder.WriteString(fmt.Sprintf("👤 Пользователей: %d\n", sum.Users))
	builder.WriteString(fmt.Sprintf("📝 Заявок: %d\n", sum.Requests))
	builder.WriteString(fmt.Sprintf("📅 Последняя дата питания: %s\n\n", lastDate))

	builder.WriteString("🍽️ Статистика по столовым:\n")
	for _, c := range sum.Canteens {
		builder.WriteString(fmt.Sprintf("- %s: %d заявок\n", c.Canteen, c.Count))
	}

	builder.WriteString("\n📅 Заявки за последние 7 дней:\n")
	for _, d := range sum.RecentDates {
		builder.WriteString(fmt.Sprintf("- %s: %d заявок\n", d.MealDate, d.Count))
	}

	return b.sendPlain(msg.Chat.ID, strings.TrimSpace(builder.String()))
}
