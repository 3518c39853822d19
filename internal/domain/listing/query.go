package listing

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

// URLで扱うクエリパラメータ
const (
	ParamCategory = "category"
	ParamMinPrice = "min_price"
	ParamMaxPrice = "max_price"
	ParamSort     = "sort"
	ParamPage     = "page"
)

// 絞り込み条件。価格の上下限はnilなら制限なし。
type Filters struct {
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// カテゴリが選択済みか
func (f Filters) HasCategory(slug string) bool {
	for _, c := range f.Categories {
		if c == slug {
			return true
		}
	}
	return false
}

// 商品が条件に合うか（上下限は境界を含む）
func (f Filters) Match(p model.Product) bool {
	if len(f.Categories) > 0 && !f.HasCategory(p.Category.Slug) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// URLから読み取った一覧の状態
type Query struct {
	Filters Filters
	// 認識できたソートキー。未指定・不明なら空。
	Sort SortKey
	// URL上の1始まりのページ番号。0は未指定。
	Page int
}

// ReadQuery はクエリパラメータを一覧の状態に変換する。
// 不正な値はエラーにせず未指定として扱う。
func ReadQuery(v url.Values) Query {
	q := Query{
		Filters: Filters{
			Categories: parseCategories(v.Get(ParamCategory)),
			MinPrice:   parsePrice(v.Get(ParamMinPrice)),
			MaxPrice:   parsePrice(v.Get(ParamMaxPrice)),
		},
	}

	if k, ok := ParseSortKey(v.Get(ParamSort)); ok {
		q.Sort = k
	}

	if raw := strings.TrimSpace(v.Get(ParamPage)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.Page = n
		}
	}

	return q
}

// 0始まりのページ位置（未指定は0）
func (q Query) PageIndex() int {
	if q.Page <= 0 {
		return 0
	}
	return q.Page - 1
}

// 実際に使うソートキー
func (q Query) SortOrDefault() SortKey {
	return q.Sort.OrDefault()
}

// Values は状態を正規形のクエリパラメータに戻す。
// 未指定の項目はキーごと出さない。
func (q Query) Values() url.Values {
	v := url.Values{}
	if len(q.Filters.Categories) > 0 {
		v.Set(ParamCategory, strings.Join(q.Filters.Categories, ","))
	}
	if q.Filters.MinPrice != nil {
		v.Set(ParamMinPrice, FormatPrice(*q.Filters.MinPrice))
	}
	if q.Filters.MaxPrice != nil {
		v.Set(ParamMaxPrice, FormatPrice(*q.Filters.MaxPrice))
	}
	if q.Sort != "" {
		v.Set(ParamSort, string(q.Sort))
	}
	if q.Page > 0 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	return v
}

// カンマ区切りのslugを重複なし・出現順で返す
func parseCategories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		slug := strings.TrimSpace(part)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// 数値でない・負の値は制限なし
func parsePrice(raw string) *decimal.Decimal {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d, err := ParsePrice(raw)
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}

// 価格として受け付ける文字列の最大長
const maxPriceLen = 16

var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice は "120" や "99.5" のような表記だけを受け付ける。
// 指数表記・長すぎる値・小数3桁以上はErrInvalidPrice。符号はそのまま返す。
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxPriceLen || strings.ContainsAny(raw, "eE") {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.Exponent() < -2 {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return d, nil
}

// FormatPrice は価格をURL用の文字列にする（末尾の0は付けない）。
func FormatPrice(d decimal.Decimal) string {
	return d.String()
}
