package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

var loadedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleProducts() []model.Product {
	return []model.Product{
		{ID: 1, Title: "Sneaker", Price: decimal.NewFromInt(80), Category: model.Category{Slug: "shoes", Name: "Shoes"}},
		{ID: 2, Title: "Cap", Price: decimal.NewFromInt(15), Category: model.Category{Slug: "hats", Name: "Hats"}},
	}
}

func newCatalogUC(r *ProductRepoMock, ids *IDGenMock, obs usecase.CatalogObserver) *usecase.CatalogUsecase {
	return usecase.NewCatalogUsecase(r, model.CatalogSourceAPI, ids, fixedClock{now: loadedAt}, nil, obs)
}

func TestCatalogUsecase_Load_Success(t *testing.T) {
	r := new(ProductRepoMock)
	ids := new(IDGenMock)
	obs := new(CatalogObserverMock)

	r.On("ListAll", mock.Anything).Return(sampleProducts(), nil).Once()
	ids.On("NewID").Return("v1").Once()
	obs.On("ObserveCatalogLoad", nil, 2).Once()

	uc := newCatalogUC(r, ids, obs)

	c, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", c.Version)
	assert.Equal(t, model.CatalogSourceAPI, c.Source)
	assert.Equal(t, loadedAt, c.FetchedAt)
	assert.Len(t, c.Products, 2)

	snap, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, c, snap)

	r.AssertExpectations(t)
	ids.AssertExpectations(t)
	obs.AssertExpectations(t)
}

func TestCatalogUsecase_Load_FailureKeepsPreviousSnapshot(t *testing.T) {
	r := new(ProductRepoMock)
	ids := new(IDGenMock)

	r.On("ListAll", mock.Anything).Return(sampleProducts(), nil).Once()
	r.On("ListAll", mock.Anything).Return(nil, errors.New("boom")).Once()
	ids.On("NewID").Return("v1").Once()

	uc := newCatalogUC(r, ids, nil)

	first, err := uc.Load(context.Background())
	require.NoError(t, err)

	_, err = uc.Load(context.Background())
	assertErrContains(t, err, "boom")

	snap, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, snap)
	r.AssertExpectations(t)
}

func TestCatalogUsecase_Snapshot_LoadsOnFirstUse(t *testing.T) {
	r := new(ProductRepoMock)
	ids := new(IDGenMock)

	r.On("ListAll", mock.Anything).Return(sampleProducts(), nil).Once()
	ids.On("NewID").Return("v1").Once()

	uc := newCatalogUC(r, ids, nil)

	c, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", c.Version)

	// 2回目は取得しない
	_, err = uc.Snapshot(context.Background())
	require.NoError(t, err)
	r.AssertNumberOfCalls(t, "ListAll", 1)
}

func TestCatalogUsecase_Snapshot_Unavailable(t *testing.T) {
	r := new(ProductRepoMock)
	obs := new(CatalogObserverMock)
	fetchErr := errors.New("dial tcp: refused")

	r.On("ListAll", mock.Anything).Return(nil, fetchErr).Once()
	obs.On("ObserveCatalogLoad", fetchErr, 0).Once()

	uc := newCatalogUC(r, new(IDGenMock), obs)

	_, err := uc.Snapshot(context.Background())
	assertHTTPStatus(t, err, http.StatusServiceUnavailable)
	assertErrContains(t, err, "catalog unavailable")
	obs.AssertExpectations(t)
}

func TestCatalogUsecase_Reload_Unauthorized(t *testing.T) {
	r := new(ProductRepoMock)
	uc := newCatalogUC(r, new(IDGenMock), nil)

	_, err := uc.Reload(context.Background(), 0)
	assertHTTPStatus(t, err, http.StatusUnauthorized)
	r.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestCatalogUsecase_Reload_FetchFailed(t *testing.T) {
	r := new(ProductRepoMock)
	r.On("ListAll", mock.Anything).Return(nil, errors.New("timeout")).Once()

	uc := newCatalogUC(r, new(IDGenMock), nil)

	_, err := uc.Reload(context.Background(), 7)
	assertHTTPStatus(t, err, http.StatusBadGateway)
	assertErrContains(t, err, "catalog fetch failed")
}

func TestCatalogUsecase_Reload_Success(t *testing.T) {
	r := new(ProductRepoMock)
	ids := new(IDGenMock)

	r.On("ListAll", mock.Anything).Return(sampleProducts(), nil).Once()
	ids.On("NewID").Return("v2").Once()

	uc := newCatalogUC(r, ids, nil)

	out, err := uc.Reload(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, usecase.ReloadOutput{
		Version:      "v2",
		Source:       "api",
		ProductCount: 2,
		FetchedAt:    loadedAt,
	}, out)
}

// 取得中に来たLoadは同じ取得を待つ
type gatedRepo struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (g *gatedRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	if g.calls.Add(1) == 1 {
		close(g.started)
	}
	<-g.release
	return sampleProducts(), nil
}

func TestCatalogUsecase_Load_ConcurrentCallsShareOneFetch(t *testing.T) {
	g := &gatedRepo{started: make(chan struct{}), release: make(chan struct{})}
	ids := new(IDGenMock)
	ids.On("NewID").Return("v1")

	uc := usecase.NewCatalogUsecase(g, model.CatalogSourceAPI, ids, fixedClock{now: loadedAt}, nil, nil)

	const callers = 8
	versions := make([]string, callers)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		c, err := uc.Load(context.Background())
		if assert.NoError(t, err) {
			versions[0] = c.Version
		}
	}()
	<-g.started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := uc.Load(context.Background())
			if assert.NoError(t, err) {
				versions[i] = c.Version
			}
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(g.release)
	wg.Wait()

	assert.Equal(t, int32(1), g.calls.Load())
	for _, v := range versions {
		assert.Equal(t, "v1", v)
	}
}

// 取得中に最初の呼び出し元が切断しても、取得自体は続く
type ctxCheckingRepo struct {
	started chan struct{}
	release chan struct{}
	ctxErr  atomic.Value
}

func (r *ctxCheckingRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	close(r.started)
	<-r.release
	if err := ctx.Err(); err != nil {
		r.ctxErr.Store(err)
		return nil, err
	}
	return sampleProducts(), nil
}

func TestCatalogUsecase_Load_FirstCallerCanceled_OthersStillGetCatalog(t *testing.T) {
	r := &ctxCheckingRepo{started: make(chan struct{}), release: make(chan struct{})}
	ids := new(IDGenMock)
	ids.On("NewID").Return("v1").Once()

	uc := usecase.NewCatalogUsecase(r, model.CatalogSourceAPI, ids, fixedClock{now: loadedAt}, nil, nil)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := uc.Load(firstCtx)
		firstErr <- err
	}()
	<-r.started

	type result struct {
		c   *model.Catalog
		err error
	}
	second := make(chan result, 1)
	go func() {
		c, err := uc.Snapshot(context.Background())
		second <- result{c, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(r.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "v1", res.c.Version)
	assert.Nil(t, r.ctxErr.Load())

	snap, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, res.c, snap)
}
