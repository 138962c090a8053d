package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/nulln0ne/dex-engine/internal/config"
	"github.com/nulln0ne/dex-engine/internal/eth"
	"github.com/nulln0ne/dex-engine/internal/handler"
	"github.com/nulln0ne/dex-engine/internal/logging"
	"github.com/nulln0ne/dex-engine/internal/metrics"
	"github.com/nulln0ne/dex-engine/internal/service"
	"github.com/nulln0ne/dex-engine/pkg/pair"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	app.Use(recoverer.New())
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	farms := map[string]service.FarmParams{}
	if cfg.FarmsFile != "" {
		registry, err := config.LoadFarms(cfg.FarmsFile)
		if err != nil {
			return err
		}
		if farms, err = service.FarmsFromConfig(registry); err != nil {
			return err
		}
		logger.Info("farm registry loaded", "path", cfg.FarmsFile, "farms", len(farms))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ethereumClient, chainID, err := eth.Dial(ctx, cfg.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to Ethereum node: %w", err)
	}
	logger.Info("connected to node", "chain_id", chainID)

	m := metrics.New()
	fee := pair.Fee{BasisPoints: cfg.FeeBasisPoints, Denominator: cfg.FeeDenominator}

	pairService := service.NewPairService(logger, ethereumClient, fee)
	pairHandler := handler.NewPairHandler(logger, m, pairService)
	app.Get("/estimate", pairHandler.Estimate())
	app.Get("/estimate/in", pairHandler.EstimateIn())
	app.Get("/quote", pairHandler.Quote())
	app.Get("/position", pairHandler.Position())

	farmService := service.NewFarmService(logger, farms, cfg.BatchConcurrency)
	farmHandler := handler.NewFarmHandler(logger, m, farmService)
	app.Post("/farms/:farm/rewards", farmHandler.Rewards())
	app.Post("/farms/:farm/rewards/batch", farmHandler.RewardsBatch())
	app.Post("/farms/:farm/exit", farmHandler.Exit())

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			ethereumClient.Close()
			return fmt.Errorf("server error: %w", err)
		}
		ethereumClient.Close()
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "err", err)
	}

	ethereumClient.Close()
	return nil
}
