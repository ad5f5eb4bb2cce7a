package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"gridboard-server/internal/engine"
	"gridboard-server/internal/server"
	"gridboard-server/internal/version"
	"gridboard-server/pkg/logger"
	"gridboard-server/pkg/maze"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	cfg := engine.NewConfig()

	var seed uint64
	var replayPath string
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Uint64Var(&seed, "seed", 0, "Master seed (0 for random)")
	flag.StringVar(&replayPath, "replay", "", "Path to .gblr level record to rebuild and run")
	flag.IntVar(&cfg.Columns, "columns", cfg.Columns, "Interior columns")
	flag.IntVar(&cfg.Rows, "rows", cfg.Rows, "Interior rows")
	flag.StringVar(&cfg.Layout, "layout", cfg.Layout, "Wall layout: none, prim, backtracker")
	flag.Float64Var(&cfg.LoopChance, "loops", cfg.LoopChance, "Maze loop chance in [0,1]")
	flag.StringVar(&cfg.ReplayDir, "records", cfg.ReplayDir, "Directory for level records")
	flag.DurationVar(&cfg.TurnDelay, "turn-delay", cfg.TurnDelay, "Pause between streamed robot turns")
	flag.Parse()

	logger.Log.Info("Starting GridBoard server...")
	logger.Log.Info(version.String())

	if _, err := maze.Parse(cfg.Layout, cfg.LoopChance); err != nil {
		logger.Log.Fatal("Invalid layout: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		logger.Log.Info("Mode: Replay")

		gameService := engine.NewService(cfg)
		lvl, status, err := gameService.Replay(ctx, replayPath)
		if err != nil {
			logger.Log.Fatal("Replay failed: ", err)
		}

		logger.Log.WithFields(logrus.Fields{
			"level":  lvl.Number,
			"seed":   lvl.Config.Seed,
			"layout": lvl.LayoutName,
			"status": status,
		}).Info("Replay verified")
		return // Выходим после симуляции
	}

	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("Using explicit Master Seed: %d", seed)
	} else {
		logger.Log.Infof("Using random Master Seed: %d", cfg.Seed)
	}

	port := os.Getenv("GRID_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра с конфигом
	gameService := engine.NewService(cfg)

	// 3. Запуск сервера до сигнала
	srv := server.New(gameService, port)
	if err := srv.Run(ctx); err != nil {
		logger.Log.Fatal("Server error: ", err)
	}

	// Сохраняем все сгенерированные уровни
	paths, err := gameService.SaveRecords()
	if err != nil {
		logger.Log.WithError(err).Error("Some level records were not saved")
	}
	for _, p := range paths {
		logger.Log.WithField("path", p).Debug("Record saved")
	}

	logger.Log.Info("Done.")
}
