package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/listing"
	"storefront/internal/domain/model"
)

// 現在のカタログを返す約束（CatalogUsecaseが実装）
type CatalogReader interface {
	Snapshot(ctx context.Context) (*model.Catalog, error)
}

// フィルタパネルの入力を検証する約束
type FilterValidator interface {
	ValidateFilterForm(ctx context.Context, in FilterFormInput) (FilterForm, error)
}

// 検証エラー（400にする）
var ErrInvalidFilter = errors.New("invalid filter")

type ProductUsecase struct {
	catalog   CatalogReader
	validator FilterValidator
	pageSize  int
}

// DI
func NewProductUsecase(catalog CatalogReader, validator FilterValidator, pageSize int) *ProductUsecase {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &ProductUsecase{
		catalog:   catalog,
		validator: validator,
		pageSize:  pageSize,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Path   string
	Params url.Values
}

type FiltersOutput struct {
	Categories []string `json:"categories"`
	MinPrice   *string  `json:"min_price,omitempty"`
	MaxPrice   *string  `json:"max_price,omitempty"`
}

type ProductListOutput struct {
	Items          []model.Product `json:"items"`
	Total          int             `json:"total"`
	Page           int             `json:"page"`
	PageCount      int             `json:"page_count"`
	PageSize       int             `json:"page_size"`
	Sort           listing.SortKey `json:"sort"`
	Filters        FiltersOutput   `json:"filters"`
	CatalogVersion string          `json:"catalog_version"`
	listing.View
}

// ListProducts はURLの状態から一覧を作る。
// 不正なパラメータはエラーにせず既定値で表示する。
func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	c, err := u.catalog.Snapshot(ctx)
	if err != nil {
		return ProductListOutput{}, err
	}

	q := listing.ReadQuery(in.Params)
	r := listing.Run(c.Products, q.Filters, q.SortOrDefault(), q.PageIndex(), u.pageSize)

	return ProductListOutput{
		Items:          r.Current(),
		Total:          r.TotalCount,
		Page:           r.Page + 1,
		PageCount:      r.PageCount(),
		PageSize:       r.PageSize,
		Sort:           q.SortOrDefault(),
		Filters:        toFiltersOutput(q.Filters),
		CatalogVersion: c.Version,
		View:           listing.BuildView(in.Path, in.Params, q, r, c.Products),
	}, nil
}

// POST /products/filters の入力（フォームの値そのまま）
type FilterFormInput struct {
	Categories []string
	MinPrice   string
	MaxPrice   string
	Clear      bool
}

// 検証済みのフォーム
type FilterForm struct {
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Clear      bool
}

type ApplyFiltersInput struct {
	Path   string
	Params url.Values
	Form   FilterFormInput
}

// ApplyFilters は下書きを1回の遷移にまとめ、遷移先URLを返す。
func (u *ProductUsecase) ApplyFilters(ctx context.Context, in ApplyFiltersInput) (string, error) {
	form, err := u.validator.ValidateFilterForm(ctx, in.Form)
	if err != nil {
		if errors.Is(err, ErrInvalidFilter) {
			return "", NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return "", NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	draft := listing.NewDraft(listing.ReadQuery(in.Params))
	if form.Clear {
		draft.ClearAll()
	} else {
		lo := decimal.Zero
		if form.MinPrice != nil {
			lo = *form.MinPrice
		}
		hi := decimal.NewFromInt(listing.DefaultMaxPrice)
		if form.MaxPrice != nil {
			hi = *form.MaxPrice
		}
		draft.SetCategories(form.Categories)
		draft.SetPriceRange(lo, hi)
	}

	next := listing.Apply(in.Params, draft.Changes()...)
	return listing.Location(in.Path, next), nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	c, err := u.catalog.Snapshot(ctx)
	if err != nil {
		return model.Product{}, err
	}

	p, ok := c.FindByID(productID)
	if !ok {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

// カテゴリ一覧（選択状態なし）
func (u *ProductUsecase) ListCategories(ctx context.Context) ([]listing.CategoryFacet, error) {
	c, err := u.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return listing.GroupCategories(c.Products, listing.Filters{}), nil
}

func toFiltersOutput(f listing.Filters) FiltersOutput {
	out := FiltersOutput{Categories: append([]string{}, f.Categories...)}
	if f.MinPrice != nil {
		s := listing.FormatPrice(*f.MinPrice)
		out.MinPrice = &s
	}
	if f.MaxPrice != nil {
		s := listing.FormatPrice(*f.MaxPrice)
		out.MaxPrice = &s
	}
	return out
}
