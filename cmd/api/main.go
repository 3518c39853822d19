package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/di"
	"storefront/internal/handler"
	"storefront/internal/observability"
	"storefront/internal/server"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	//設定
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics(nil)

	//usecase生成
	c, err := di.NewContainer(cfg, logger, metrics)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//起動時にカタログを1回取得する（失敗したら起動しない）
	if _, err := c.Catalog.Load(ctx); err != nil {
		return err
	}

	//Handler生成
	h := server.Handlers{
		Product:   handler.NewProductHandler(c.Products),
		JWTSecret: cfg.JWTSecret,
	}
	if cfg.JWTSecret != "" {
		h.AdminCatalog = handler.NewAdminCatalogHandler(c.Catalog)
	} else {
		logger.Warn("JWT_SECRET is empty; admin routes are disabled")
	}

	//Server起動
	e := server.New(logger, metrics, h)
	return server.Start(ctx, e, cfg.Addr(), logger)
}
