package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sensordash/sensordash/internal/api"
	"github.com/sensordash/sensordash/internal/backend"
	"github.com/sensordash/sensordash/internal/config"
	"github.com/sensordash/sensordash/internal/dashboard"
	"github.com/sensordash/sensordash/internal/version"
	"github.com/sensordash/sensordash/internal/webui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Log level override (debug, info, warn, error)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Create log buffer for web UI (captures last 1000 log entries)
	logBuffer := webui.NewLogBuffer(1000)

	// Write to both stdout and the log buffer
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	logger := zerolog.New(multiWriter).With().
		Timestamp().
		Str("version", version.GetVersion()).
		Logger()

	logger.Info().Msg("Starting sensordash")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("config_path", *configPath).
			Msg("Failed to load configuration")
	}

	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	logger.Info().
		Str("api_base_url", cfg.API.BaseURL).
		Dur("refresh_interval", cfg.Dashboard.RefreshDuration()).
		Msg("Configuration loaded")

	client := backend.NewClient(
		cfg.API.BaseURL,
		cfg.API.TimeoutDuration(),
		logger.With().Str("component", "backend").Logger(),
	)

	controller := dashboard.New(
		client,
		cfg.Dashboard.RefreshDuration(),
		cfg.Dashboard.DefaultLimit,
		logger.With().Str("component", "dashboard").Logger(),
	)

	// Initial device-list load; failures surface in the UI, not as a crash
	loadCtx, loadCancel := context.WithTimeout(context.Background(), cfg.API.TimeoutDuration())
	controller.LoadDevices(loadCtx)
	loadCancel()

	server := api.NewServer(controller, cfg.Server, logger.With().Str("component", "api").Logger())
	server.SetLogBuffer(logBuffer)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("Dashboard server error")
		}
	}()

	logger.Info().
		Int("port", cfg.Server.Port).
		Msg("Web UI available")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info().Msg("Shutting down...")

	controller.Close()
	logger.Info().Msg("sensordash stopped")
}
