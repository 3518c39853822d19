package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/domain/model"
)

type SortKey string

const (
	SortAlphabetical    SortKey = "alphabetical"
	SortNewest          SortKey = "newest"
	SortOldest          SortKey = "oldest"
	SortPriceAscending  SortKey = "price_ascending"
	SortPriceDescending SortKey = "price_descending"

	DefaultSort = SortAlphabetical
)

// 画面に出す順番
var SortKeys = []SortKey{
	SortAlphabetical,
	SortNewest,
	SortOldest,
	SortPriceAscending,
	SortPriceDescending,
}

// 旧ストアフロントのURLで使われていた値
var legacySortKeys = map[string]SortKey{
	"alphabet":         SortAlphabetical,
	"latest":           SortNewest,
	"price_increasing": SortPriceAscending,
	"price_decending":  SortPriceDescending,
}

var sortLabels = map[SortKey]string{
	SortAlphabetical:    "Name: A to Z",
	SortNewest:          "Most recent",
	SortOldest:          "The oldest",
	SortPriceAscending:  "Price: Low to high",
	SortPriceDescending: "Price: High to low",
}

// ParseSortKey は既知のキー（旧形式を含む）だけを受け付ける。
func ParseSortKey(raw string) (SortKey, bool) {
	raw = strings.TrimSpace(raw)
	k := SortKey(raw)
	if _, ok := sortLabels[k]; ok {
		return k, true
	}
	if k, ok := legacySortKeys[raw]; ok {
		return k, true
	}
	return "", false
}

// 未指定・不明なら既定値
func (k SortKey) OrDefault() SortKey {
	if _, ok := sortLabels[k]; ok {
		return k
	}
	return DefaultSort
}

func (k SortKey) Label() string {
	return sortLabels[k.OrDefault()]
}

// sortProducts は安定ソートで並べ替える（同値は元の順を保つ）。
// productsは呼び出し側で複製済みのものを渡すこと。
func sortProducts(products []model.Product, key SortKey) {
	switch key.OrDefault() {
	case SortNewest:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	case SortOldest:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return a.UpdatedAt.Compare(b.UpdatedAt)
		})
	case SortPriceAscending:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDescending:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return b.Price.Cmp(a.Price)
		})
	default:
		// Collatorは並行利用できないので呼び出しごとに作る
		col := collate.New(language.English)
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return col.CompareString(a.Title, b.Title)
		})
	}
}
