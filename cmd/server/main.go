package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"tilesight-server/internal/engine"
	"tilesight-server/internal/server"
	"tilesight-server/internal/version"
	"tilesight-server/pkg/dungeon"
	"tilesight-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed int64
	var radius int
	flag.Int64Var(&seed, "seed", 0, "Spawn RNG seed (0 for random)")
	flag.IntVar(&radius, "radius", engine.DefaultVisionRadius, "Vision radius in tiles")
	flag.Parse()

	logger.Log.Info("Starting Tilesight server...")
	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("Using explicit seed: %d", seed)
	} else {
		logger.Log.Infof("Using random seed: %d", cfg.Seed)
	}
	cfg.VisionRadius = radius

	port := os.Getenv("TS_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Уровень и драйвер симуляции
	level, err := dungeon.Demo()
	if err != nil {
		logger.Log.Fatal("Failed to build level: ", err)
	}

	svc := engine.NewService(cfg, level)
	svc.Start()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(svc, port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")
	svc.Stop()
	logger.Log.Info("Done.")
}
