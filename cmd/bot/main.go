package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shift_rotation_bot/internal/app"
	"shift_rotation_bot/internal/domain/shift"
	"shift_rotation_bot/internal/infra/config"
	idb "shift_rotation_bot/internal/infra/database"
	"shift_rotation_bot/internal/infra/logger"
	"shift_rotation_bot/internal/infra/scheduler"
	"shift_rotation_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Shift Rotation Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"admin_id":    cfg.AdminTelegramID,
		"anchor_date": cfg.Rotation.AnchorDate,
		"anchor_team": cfg.Rotation.AnchorTeam,
		"team_count":  cfg.Rotation.TeamCount,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	schemaCtx, cancelSchema := context.WithTimeout(ctx, 30*time.Second)
	err = idb.EnsureSchema(schemaCtx, db)
	cancelSchema()
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not apply database schema")
	}
	mainLogger.Info("Database connection established and schema applied")

	// Initialize Repositories
	subscriberRepo := idb.NewPostgresSubscriberRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)

	// Rotation core
	clock, err := shift.NewClock(cfg.Anchor())
	if err != nil {
		mainLogger.WithError(err).Fatal("Invalid rotation anchor")
	}
	detector := shift.NewTransferDetector(clock, cfg.Rotation.TransferMaxResults)

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"message":   c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.Error("Handler failed")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	// Services
	shiftService := app.NewShiftService(clock, detector, time.Local, logger.Component("shift_service"))
	subscriptionService := app.NewSubscriptionService(subscriberRepo, clock, cfg.AdminTelegramID)
	notificationService := app.NewNotificationServiceImpl(
		subscriberRepo,
		notificationRepo,
		telegramClient,
		shiftService,
		logger.Component("notification_service"),
	)

	// Scheduler
	shiftScheduler := scheduler.NewShiftScheduler(
		notificationService,
		logger.Component("scheduler"),
		scheduler.Specs{
			ShiftChange:    cfg.CronSpecShiftChange,
			ReminderCheck:  cfg.CronSpecReminderCheck,
			TransferDigest: cfg.CronSpecTransferDigest,
		},
		time.Duration(cfg.ReminderLeadMinutes)*time.Minute,
		cfg.TransferLookaheadDays,
	)
	if err := shiftScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	// Register Handlers
	liveCountdowns := telegram.NewLiveCountdowns(telegram.LiveCountdownInterval, telegram.LiveCountdownWindow)
	shiftHandlers := telegram.NewShiftHandlers(shiftService, subscriptionService, liveCountdowns, logger.Component("telegram"))
	telegram.RegisterBotCommands(ctx, bot, shiftHandlers, cfg.AdminTelegramID)
	telegram.RegisterSubscriptionHandlers(ctx, bot, subscriptionService, clock, cfg.AdminTelegramID, logger.Component("telegram").WithField("handler_group", "subscription"))
	mainLogger.Info("Command handlers registered")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()
	mainLogger.Info("Application setup complete. Bot and scheduler are running")

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	liveCountdowns.StopAll()
	shiftScheduler.Stop()
	mainLogger.Info("Application shut down gracefully")
}
