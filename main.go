package main

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pollenhq/pollen/internal/api"
	"github.com/pollenhq/pollen/internal/auth"
	"github.com/pollenhq/pollen/internal/board"
	"github.com/pollenhq/pollen/internal/config"
	"github.com/pollenhq/pollen/internal/notify"
	"github.com/pollenhq/pollen/internal/report"
	"github.com/pollenhq/pollen/internal/store"
	"github.com/pollenhq/pollen/internal/worklog"
)

func main() {
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	logCfg := zap.NewProductionConfig()
	if cfg.Debug {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rows, err := store.OpenSQLite(cfg.DataDir)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer rows.Close()

	var boardRows store.BoardStore = rows
	if cfg.BoardsBackend == "local" {
		boardRows, err = store.NewLocalBoardStore(cfg.DataDir)
		if err != nil {
			logger.Fatal("open board store", zap.Error(err))
		}
	}

	authSvc := auth.NewService(rows, logger)
	boardSvc := board.NewService(boardRows, rows, logger)
	logSvc := worklog.NewService(rows, logger)

	var generator *report.Generator
	if cfg.Gemini.APIKey != "" {
		summarizer, err := report.NewGeminiSummarizer(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Fatal("configure summarizer", zap.Error(err))
		}
		generator = report.NewGenerator(summarizer, logger)
	} else {
		logger.Warn("no Gemini API key configured, report generation disabled")
	}

	if cfg.Email.FromEmail != "" {
		scheduler := notify.NewScheduler(rows, notify.NewMailer(cfg.Email), logger)
		go scheduler.Run(context.Background())
	}

	mux := http.NewServeMux()
	api.NewServer(rows, authSvc, boardSvc, logSvc, generator, logger).RegisterRoutes(mux)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
