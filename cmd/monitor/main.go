package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitos/crypto_alert_monitor/internal/config"
	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"github.com/vitos/crypto_alert_monitor/internal/infrastructure/logger"
	"github.com/vitos/crypto_alert_monitor/internal/infrastructure/metrics"
	"github.com/vitos/crypto_alert_monitor/internal/infrastructure/notify"
	"github.com/vitos/crypto_alert_monitor/internal/infrastructure/storage"
	"github.com/vitos/crypto_alert_monitor/internal/usecase"
	"github.com/vitos/crypto_alert_monitor/internal/web"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config")
	envFile := flag.String("env", ".env", "optional .env file with TWILIO_* overrides")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyEnv(cfg, *envFile)

	// 2. Init Loggers
	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	opsLog := zap.NewNop()
	if path := cfg.Logging.OperationsLog; path != "" {
		if opsLog, err = logger.NewFileLogger(path, "info"); err != nil {
			log.Error("Failed to init operations log", zap.Error(err))
			opsLog = zap.NewNop()
		}
	}
	defer opsLog.Sync()

	// 3. Init Storage
	store, err := storage.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	// 4. Init Notification Side
	collector := metrics.NewCollector()
	notifier := newNotifier(cfg, log)
	dispatcher := usecase.NewCallDispatcher(notifier, cfg.RefractoryPeriod(), cfg.DispatchTimeout(), log)
	dispatcher.SetObserver(collector)
	dispatcher.SetOperationsLogger(opsLog)

	// 5. Init Engine
	thresholds := config.NewFileThresholdLoader(*configPath, log)
	engine := usecase.NewAlertEngine(store, thresholds, dispatcher, usecase.NewAlertStateStore(), log)
	engine.SetRecorder(store)
	engine.SetObserver(collector)
	engine.SetOperationsLogger(opsLog)

	hub := web.NewHub(log)
	engine.OnCycle(hub.BroadcastCycle)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Polling Loop
	worker := usecase.NewMonitorWorker(engine, cfg.PollInterval(), log)
	worker.Start(ctx)

	// 7. Init Web Server
	server := web.NewServer(cfg.Port(), engine, store, collector.Handler(), hub, log)
	server.SetNotifier(notifier, opsLog)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 8. Wait for Shutdown
	<-worker.Done()
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}

func newNotifier(cfg *config.Config, log *zap.Logger) domain.Notifier {
	switch cfg.Notifier.Kind {
	case "discord":
		return notify.NewDiscordSender(cfg.Notifier.DiscordWebhookURL)
	case "log":
		return notify.NewLogSender(log)
	default:
		return notify.NewTwilioFlowSender(notify.TwilioCredentials{
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
			FlowSID:    cfg.Twilio.FlowSID,
			ToPhone:    cfg.Twilio.ToPhone,
			FromPhone:  cfg.Twilio.FromPhone,
		})
	}
}
