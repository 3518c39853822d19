package di

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/api"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/observability"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// Container は起動時に組み立てる依存関係。
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	Catalog  *usecase.CatalogUsecase
	Products *usecase.ProductUsecase
}

// NewContainer は設定に応じて取得元を選び、usecaseを組み立てる。
func NewContainer(cfg config.Config, logger *zap.Logger, metrics *observability.Metrics) (*Container, error) {
	source, err := NewProductRepository(cfg)
	if err != nil {
		return nil, err
	}

	catalogUC := usecase.NewCatalogUsecase(source, cfg.CatalogSource, &uuidGenerator{}, &realClock{}, logger, metrics)
	productUC := usecase.NewProductUsecase(catalogUC, validator.NewFilterValidator(), cfg.PageSize)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Catalog:  catalogUC,
		Products: productUC,
	}, nil
}

// NewProductRepository は CATALOG_SOURCE に応じた取得元を返す。
func NewProductRepository(cfg config.Config) (repo.ProductRepository, error) {
	switch cfg.CatalogSource {
	case model.CatalogSourcePostgres:
		return NewMirrorRepository(cfg)
	default:
		return api.NewProductClient(cfg.CatalogAPIURL, cfg.CatalogTimeout), nil
	}
}

// postgresのミラー（テーブルが無ければ作る）
func NewMirrorRepository(cfg config.Config) (repo.ProductMirrorRepository, error) {
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return infraRepo.NewProductGormRepository(gormDB), nil
}
