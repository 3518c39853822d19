package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/listing"
	"storefront/internal/usecase"
)

// カテゴリの最大選択数
const maxCategories = 50

type filterValidator struct{}

// Usecaseは interface を依存注入
func NewFilterValidator() usecase.FilterValidator {
	return &filterValidator{}
}

// フィルタパネルの入力を検証
func (v *filterValidator) ValidateFilterForm(ctx context.Context, in usecase.FilterFormInput) (usecase.FilterForm, error) {
	out := usecase.FilterForm{Clear: in.Clear}
	if in.Clear {
		return out, nil
	}

	// category は複数指定とカンマ区切りの両方を受ける
	for _, raw := range in.Categories {
		for _, part := range strings.Split(raw, ",") {
			slug := strings.TrimSpace(part)
			if slug == "" {
				continue
			}
			out.Categories = append(out.Categories, slug)
		}
	}
	if len(out.Categories) > maxCategories {
		return usecase.FilterForm{}, fmt.Errorf("%w: too many categories", usecase.ErrInvalidFilter)
	}

	lo, err := parseBound(in.MinPrice, "min_price")
	if err != nil {
		return usecase.FilterForm{}, err
	}
	hi, err := parseBound(in.MaxPrice, "max_price")
	if err != nil {
		return usecase.FilterForm{}, err
	}
	if lo != nil && hi != nil && lo.GreaterThan(*hi) {
		return usecase.FilterForm{}, fmt.Errorf("%w: min_price must be <= max_price", usecase.ErrInvalidFilter)
	}

	out.MinPrice = lo
	out.MaxPrice = hi
	return out, nil
}

// 空は未指定、数値でない（指数表記を含む）・負はエラー
func parseBound(raw string, name string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := listing.ParsePrice(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", usecase.ErrInvalidFilter, name)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %s must be >= 0", usecase.ErrInvalidFilter, name)
	}
	return &d, nil
}
