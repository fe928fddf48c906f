package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agenda/internal/api"
	"agenda/internal/config"
	"agenda/internal/database"
	"agenda/internal/events"
	"agenda/internal/export"
	"agenda/internal/google"
	"agenda/internal/locks"
	"agenda/internal/logging"
	"agenda/internal/metrics"
	"agenda/internal/notify"
	"agenda/internal/schedule"
	"agenda/internal/service"
	"agenda/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lockMachine := initLocks(ctx, cfg, &logger)

	bus := events.NewEventBus()

	window := schedule.Window{
		StartMinutes: cfg.Business.WorkStartMinutes,
		EndMinutes:   cfg.Business.WorkEndMinutes,
		SlotMinutes:  cfg.Business.SlotMinutes,
	}

	// Agenda service is built first without the sync worker, which needs the
	// service's row snapshot to exist.
	agendaService := service.NewAgendaService(db, lockMachine, bus, nil, window, &logger)

	syncWorker := initSheetsSync(ctx, cfg, agendaService, &logger)
	if syncWorker != nil {
		agendaService = service.NewAgendaService(db, lockMachine, bus, syncWorker, window, &logger)
	}

	initTelegram(cfg, bus, &logger)

	clientService := service.NewClientService(db, &logger)
	catalogService := service.NewCatalogService(db, &logger)
	billingService := service.NewBillingService(db, &logger)
	exporter := export.NewExcelWriter(cfg.Exports.Path)

	httpServer := api.NewHTTPServer(cfg.API, agendaService, clientService, catalogService, billingService, exporter, &logger)

	startMetrics(ctx, cfg, &logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("agenda server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("agenda server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "server-main").Logger()

	return cfg, logger, closer, nil
}

// initLocks builds the lock machine on redis when available and falls back to
// the in-process repository. Stale lock state from a previous session is
// always dropped at boot.
func initLocks(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *locks.Machine {
	var repo locks.Repository = locks.NewMemoryRepository()

	if cfg.Redis.Enabled && cfg.Redis.Address != "" {
		client := locks.NewRedisClient(cfg.Redis)
		if err := locks.Ping(ctx, client); err != nil {
			logger.Warn().Err(err).Msg("redis connection failed, using in-memory locks")
		} else {
			logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
			repo = locks.NewRedisRepository(client, time.Duration(cfg.Redis.LockTTL)*time.Second)
		}
	}

	machine := locks.NewMachine(repo, logger)
	if err := machine.Reset(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to reset lock state at boot")
	}
	return machine
}

func initSheetsSync(ctx context.Context, cfg *config.Config, agendaService *service.AgendaService, logger *zerolog.Logger) *worker.SheetsSyncWorker {
	if !cfg.Google.Enabled {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.SpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}
	logger.Info().Msg("google sheets connected")

	rows := func(ctx context.Context) ([][]interface{}, error) {
		return agendaService.WeekRows(ctx, schedule.DayKeyOf(time.Now()))
	}
	syncWorker := worker.NewSheetsSyncWorker(sheetsService, rows, worker.RetryPolicy{}, logger)
	go syncWorker.Run(ctx)
	return syncWorker
}

func initTelegram(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Telegram.Enabled {
		return
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return
	}

	notifier := notify.NewTelegramNotifier(botAPI, cfg.Telegram.ChatID, logger)
	notifier.SubscribeTo(bus)
	logger.Info().Str("bot", botAPI.Self.UserName).Msg("telegram notifier connected")
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
