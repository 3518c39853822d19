package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

type stubCatalog struct {
	catalog *model.Catalog
	err     error
}

func (s stubCatalog) Snapshot(ctx context.Context) (*model.Catalog, error) {
	return s.catalog, s.err
}

type errorBody struct {
	Error string `json:"error"`
}

type listBody struct {
	Items []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageCount  int    `json:"page_count"`
	Sort       string `json:"sort"`
	Pagination struct {
		NextURL string `json:"next_url"`
	} `json:"pagination"`
	Summary struct {
		Text string `json:"text"`
	} `json:"summary"`
}

func testCatalog() *model.Catalog {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []model.Product{
		{ID: 1, Title: "Boots", Price: decimal.NewFromInt(120), Category: model.Category{Slug: "shoes", Name: "Shoes"}, UpdatedAt: base},
		{ID: 2, Title: "Beanie", Price: decimal.NewFromInt(20), Category: model.Category{Slug: "hats", Name: "Hats"}, UpdatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "Tee", Price: decimal.NewFromInt(25), Category: model.Category{Slug: "shirts", Name: "Shirts"}, UpdatedAt: base.Add(2 * time.Hour)},
	}
	for i := 4; i <= 12; i++ {
		items = append(items, model.Product{
			ID:       int64(i),
			Title:    "Sock " + string(rune('A'+i)),
			Price:    decimal.NewFromInt(5),
			Category: model.Category{Slug: "socks", Name: "Socks"},
		})
	}
	return &model.Catalog{Version: "v1", Source: model.CatalogSourceAPI, Products: items}
}

func newEcho(reader usecase.CatalogReader) *echo.Echo {
	e := echo.New()
	uc := usecase.NewProductUsecase(reader, validator.NewFilterValidator(), 8)
	handler.NewProductHandler(uc).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProductHandler_List(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/products?ref=mail", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 12, body.Total)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 2, body.PageCount)
	assert.Equal(t, "alphabetical", body.Sort)
	assert.Len(t, body.Items, 8)
	assert.Equal(t, "Beanie", body.Items[0].Title)
	assert.Equal(t, "/products?page=2&ref=mail", body.Pagination.NextURL)
}

func TestProductHandler_List_MalformedQueryIsNotAnError(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/products?min_price=x&page=abc&sort=zzz&category=shoes,hats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "Beanie", body.Items[0].Title)
	assert.Equal(t, "Boots", body.Items[1].Title)
}

func TestProductHandler_List_NoResults(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/products?min_price=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 0, body.Total)
	assert.Empty(t, body.Items)
	assert.Equal(t, 1, body.PageCount)
	assert.Equal(t, "No products found", body.Summary.Text)
}

func TestProductHandler_List_CatalogUnavailable(t *testing.T) {
	e := newEcho(stubCatalog{err: usecase.NewHTTPError(http.StatusServiceUnavailable, "catalog unavailable")})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "catalog unavailable", body.Error)
}

func TestProductHandler_ApplyFilters_RedirectsOnce(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	form := url.Values{
		"category":  {"shoes", "hats"},
		"min_price": {"10"},
		"max_price": {"10000"},
	}
	req := httptest.NewRequest(http.MethodPost, "/products/filters?sort=newest&ref=mail", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := do(e, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products?category=shoes%2Chats&min_price=10&ref=mail&sort=newest", rec.Header().Get(echo.HeaderLocation))
}

func TestProductHandler_ApplyFilters_Clear(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	req := httptest.NewRequest(http.MethodPost, "/products/filters?category=shoes&max_price=50&page=2", strings.NewReader("clear=true"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := do(e, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products?page=2", rec.Header().Get(echo.HeaderLocation))
}

func TestProductHandler_ApplyFilters_Invalid(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	req := httptest.NewRequest(http.MethodPost, "/products/filters", strings.NewReader("min_price=100&max_price=10"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := do(e, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Error, "min_price must be <= max_price")
}

func TestProductHandler_Detail(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/products/3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var p struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Price string `json:"price"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "Tee", p.Title)
	assert.Equal(t, "25", p.Price)
}

func TestProductHandler_Detail_Errors(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	assert.Equal(t, http.StatusBadRequest, do(e, httptest.NewRequest(http.MethodGet, "/products/abc", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, httptest.NewRequest(http.MethodGet, "/products/0", nil)).Code)
	assert.Equal(t, http.StatusNotFound, do(e, httptest.NewRequest(http.MethodGet, "/products/404", nil)).Code)
}

func TestProductHandler_Categories(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var facets []struct {
		Slug  string `json:"slug"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&facets))
	require.Len(t, facets, 4)
	assert.Equal(t, "shoes", facets[0].Slug)
	assert.Equal(t, 9, facets[3].Count)
}

func TestProductHandler_ApplyFilters_IgnoresCommittedQueryInForm(t *testing.T) {
	e := newEcho(stubCatalog{catalog: testCatalog()})

	// 下書きでshoesを外した
	req := httptest.NewRequest(http.MethodPost, "/products/filters?category=shoes,hats", strings.NewReader("category=hats"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := do(e, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products?category=hats", rec.Header().Get(echo.HeaderLocation))
}
