package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canteen-bot/internal/bot"
	"canteen-bot/internal/config"
	"canteen-bot/internal/repository"
	"canteen-bot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	reportSvc := service.NewReportService(requestRepo, cfg.ReportDir, cfg.ReportSplitSubmission)
	statsSvc := service.NewStatsService(userRepo, requestRepo)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, requestRepo, reportSvc, statsSvc, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	reminderSvc := service.NewReminderService(requestRepo, telegramBot, cfg.ReminderOffsetDays)

	scheduler := service.NewSchedulerService(loc)
	if _, err := scheduler.ScheduleWeekdaysAt(cfg.ReminderTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		res, err := reminderSvc.Sweep(jobCtx, time.Now().In(loc))
		if err != nil {
			log.Printf("reminder sweep: %v", err)
			return
		}
		log.Printf("[info] reminder sweep: target=%s attempted=%d sent=%d failed=%d skipped=%t",
			res.TargetDate.Format("2006-01-02"), res.Attempted, res.Sent, res.Failed, res.Skipped)
	}); err != nil {
		log.Fatalf("schedule reminders: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.AdminID != 0 {
		if err := telegramBot.Notify(cfg.AdminID, fmt.Sprintf(
			"✅ Бот успешно запущен!\nПапка с отчетами: %s\nИспользуйте меню для управления ботом.", cfg.ReportDir)); err != nil {
			log.Printf("notify admin: %v", err)
		}
	}

	log.Println("Canteen bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
