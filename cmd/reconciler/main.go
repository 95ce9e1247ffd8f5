package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facility_reports/internal/app"
	"facility_reports/internal/infra/config"
	"facility_reports/internal/infra/httpserver"
	"facility_reports/internal/infra/logger"
	"facility_reports/internal/infra/scheduler"
	"facility_reports/internal/infra/telegram"
	"facility_reports/internal/wire"

	"github.com/gin-gonic/gin"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Facility report reconciler starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Entry().WithField("component", "main")
	mainLogger.WithField("api_base_url", cfg.APIBaseURL).WithField("environment", cfg.Environment).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Telegram Bot (optional)
	var bot *telebot.Bot
	var alerter app.Alerter
	if cfg.TelegramToken != "" {
		pref := telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) { // Global error handler
				entry := logger.Entry().WithField("component", "telebot").WithError(err)
				if c != nil && c.Sender() != nil && c.Chat() != nil {
					entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
				}
				entry.Error("Telegram handler error")
			},
		}
		bot, err = telebot.NewBot(pref)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
		alerter = telegram.NewAlerter(telegram.NewTelebotAdapter(bot), cfg.AdminTelegramID, logger.Entry())
		mainLogger.Info("Telegram alerter initialized.")
	} else {
		mainLogger.Warn("TELEGRAM_TOKEN not set; alerts will only be logged")
	}

	rt, err := wire.Build(ctx, cfg, alerter, logger.Entry())
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not initialize services")
	}
	defer func() {
		if err := rt.Close(); err != nil {
			mainLogger.WithError(err).Error("Error while closing resources")
		}
	}()

	if err := rt.Controller.Refresh(ctx); err != nil {
		mainLogger.WithError(err).Warn("Initial refresh failed; the scheduler will retry")
	}

	if bot != nil {
		adminService := app.NewAdminService(rt.Controller, cfg.AdminTelegramID)
		telegram.RegisterBotCommands(bot, cfg, logger.Entry())
		telegram.RegisterAdminHandlers(ctx, bot, adminService, cfg.AdminTelegramID, logger.Entry())
		telegram.RegisterCallbackHandlers(ctx, bot, adminService, logger.Entry())
		mainLogger.Info("Telegram command handlers registered.")
		// Start bot in a goroutine so it doesn't block graceful shutdown handling
		go bot.Start()
	}

	reconcileScheduler := scheduler.NewReconcileScheduler(rt.Controller, logger.Entry(), cfg.CronSpecRefresh, cfg.CronSpecReconcile)
	if err := reconcileScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           httpserver.NewRouter(rt.Controller),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		mainLogger.WithField("addr", cfg.MetricsAddr).Info("Status server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLogger.WithError(err).Error("Status server stopped")
			stop()
		}
	}()

	mainLogger.Info("Application setup complete.")
	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	reconcileScheduler.Stop()
	if bot != nil {
		bot.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Error("Status server shutdown failed")
	}
	mainLogger.Info("Application shut down gracefully.")
}
