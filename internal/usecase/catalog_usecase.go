package usecase

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// IDを発行する約束
type IDGenerator interface {
	NewID() string
}

// 現在時刻の約束
type Clock interface {
	Now() time.Time
}

// 取得結果を数える約束（nilなら何もしない）
type CatalogObserver interface {
	ObserveCatalogLoad(err error, products int)
}

// CatalogUsecase は商品カタログのスナップショットを持つ。
// スナップショットは取得ごとに丸ごと差し替え、中身は書き換えない。
type CatalogUsecase struct {
	productRepo repo.ProductRepository
	source      model.CatalogSource
	idGen       IDGenerator
	clock       Clock
	logger      *zap.Logger
	observer    CatalogObserver

	current atomic.Pointer[model.Catalog]
	group   singleflight.Group
}

// DI
func NewCatalogUsecase(
	productRepo repo.ProductRepository,
	source model.CatalogSource,
	idGen IDGenerator,
	clock Clock,
	logger *zap.Logger,
	observer CatalogObserver,
) *CatalogUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogUsecase{
		productRepo: productRepo,
		source:      source,
		idGen:       idGen,
		clock:       clock,
		logger:      logger,
		observer:    observer,
	}
}

// Load は取得元から全件を取り直す。
// 同時に呼ばれても取得は1回にまとめる。失敗時は前のスナップショットを残す。
// 取得は呼び出し元のキャンセルに影響されず、待っている他の呼び出しにも結果が届く。
func (u *CatalogUsecase) Load(ctx context.Context) (*model.Catalog, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := u.group.DoChan("catalog", func() (interface{}, error) {
		products, err := u.productRepo.ListAll(fetchCtx)
		if u.observer != nil {
			u.observer.ObserveCatalogLoad(err, len(products))
		}
		if err != nil {
			u.logger.Error("catalog load failed", zap.String("source", string(u.source)), zap.Error(err))
			return nil, err
		}

		c := &model.Catalog{
			Version:   u.idGen.NewID(),
			Source:    u.source,
			FetchedAt: u.clock.Now(),
			Products:  products,
		}
		u.current.Store(c)

		u.logger.Info("catalog loaded",
			zap.String("version", c.Version),
			zap.String("source", string(c.Source)),
			zap.Int("products", len(products)),
		)
		return c, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Catalog), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot は現在のスナップショットを返す（まだ無ければ取得する）。
func (u *CatalogUsecase) Snapshot(ctx context.Context) (*model.Catalog, error) {
	if c := u.current.Load(); c != nil {
		return c, nil
	}
	c, err := u.Load(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusServiceUnavailable, "catalog unavailable")
	}
	return c, nil
}

// 管理APIからの再取得
type ReloadOutput struct {
	Version      string    `json:"version"`
	Source       string    `json:"source"`
	ProductCount int       `json:"product_count"`
	FetchedAt    time.Time `json:"fetched_at"`
}

func (u *CatalogUsecase) Reload(ctx context.Context, adminUserID int64) (ReloadOutput, error) {
	if adminUserID <= 0 {
		return ReloadOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := u.Load(ctx)
	if err != nil {
		return ReloadOutput{}, NewHTTPError(http.StatusBadGateway, "catalog fetch failed")
	}

	u.logger.Info("catalog reloaded by admin", zap.Int64("admin_user_id", adminUserID), zap.String("version", c.Version))

	return ReloadOutput{
		Version:      c.Version,
		Source:       string(c.Source),
		ProductCount: len(c.Products),
		FetchedAt:    c.FetchedAt,
	}, nil
}
