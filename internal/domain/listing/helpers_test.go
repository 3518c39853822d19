package listing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// テスト用の商品（updatedはbaseTimeからの日数）
func product(id int64, title string, price string, category string, updated int) model.Product {
	return model.Product{
		ID:    id,
		Title: title,
		Price: decimal.RequireFromString(price),
		Category: model.Category{
			Slug: category,
			Name: category,
		},
		UpdatedAt: baseTime.AddDate(0, 0, updated),
	}
}

// n件の商品（タイトルは "P01".."Pnn" で名前順と同じ並び）
func products(n int) []model.Product {
	out := make([]model.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, product(int64(i), titleFor(i), "10", "misc", i))
	}
	return out
}

func titleFor(i int) string {
	return "P" + string(rune('0'+i/10)) + string(rune('0'+i%10))
}

func titles(items []model.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.Title)
	}
	return out
}

func dec(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return &d
}
