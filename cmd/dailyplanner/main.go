package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"now-and-here/internal/bot"
	"now-and-here/internal/config"
	"now-and-here/internal/repository"
	"now-and-here/internal/service"
	"now-and-here/pkg/logx"
)

const reportTimeout = 2 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "now-and-here: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logx.New(logx.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	loc := cfg.Location()

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db, log)

	telegramBot, err := bot.New(cfg, bot.Deps{
		Users:      userRepo,
		Categories: service.NewCategoryService(categoryRepo),
		Tasks:      service.NewTaskService(taskRepo, categoryRepo, loc, log),
		Reminders:  service.NewReminderService(taskRepo, categoryRepo, loc),
	}, log)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	scheduler := service.NewSchedulerService(loc, log)
	sendReports := func() {
		jobCtx, cancel := context.WithTimeout(ctx, reportTimeout)
		defer cancel()
		if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("send reports", logx.Err(err))
		}
	}

	switch {
	case cfg.ReportAt != "":
		if _, err := scheduler.ScheduleDaily(cfg.ReportAt, sendReports); err != nil {
			return fmt.Errorf("schedule reports: %w", err)
		}
		scheduler.Start()
		log.Info("daily reports scheduled", logx.String("at", cfg.ReportAt))
	case cfg.ReportInterval > 0:
		if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, sendReports); err != nil {
			return fmt.Errorf("schedule reports: %w", err)
		}
		scheduler.Start()
		log.Info("reports scheduled", logx.Duration("every", cfg.ReportInterval))
	default:
		log.Info("scheduled reports disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telegramBot.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})

	log.Info("now-and-here started", logx.String("timezone", loc.String()))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot stopped: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}
