package listing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 価格スライダーの上限。これ以上は「上限なし」と同じ。
const DefaultMaxPrice = 10000

// Draft はフィルタパネルで編集中の条件。
// Changesをまとめて適用するまでURLには反映しない。
type Draft struct {
	categories []string
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
}

// 確定済みの条件から下書きを作る
func NewDraft(q Query) Draft {
	d := Draft{
		categories: append([]string(nil), q.Filters.Categories...),
		MinPrice:   decimal.Zero,
		MaxPrice:   decimal.NewFromInt(DefaultMaxPrice),
	}
	if q.Filters.MinPrice != nil {
		d.MinPrice = *q.Filters.MinPrice
	}
	if q.Filters.MaxPrice != nil {
		d.MaxPrice = *q.Filters.MaxPrice
	}
	return d
}

func (d *Draft) Categories() []string {
	return append([]string(nil), d.categories...)
}

// 選択済みなら外し、未選択なら追加する
func (d *Draft) ToggleCategory(slug string) {
	for i, c := range d.categories {
		if c == slug {
			d.categories = append(d.categories[:i:i], d.categories[i+1:]...)
			return
		}
	}
	d.categories = append(d.categories, slug)
}

// カテゴリ選択をまとめて置き換える
func (d *Draft) SetCategories(slugs []string) {
	d.categories = parseCategories(strings.Join(slugs, ","))
}

func (d *Draft) SetPriceRange(lo, hi decimal.Decimal) {
	d.MinPrice = lo
	d.MaxPrice = hi
}

// すべて解除（適用すると価格のキーも消える）
func (d *Draft) ClearAll() {
	d.categories = nil
	d.MinPrice = decimal.Zero
	d.MaxPrice = decimal.Zero
}

// Changes は下書きを1回分の変更にまとめる。
// 下限は0より大きいときだけ、上限は0より大きくDefaultMaxPrice未満のときだけ書く。
func (d Draft) Changes() []Change {
	var lo, hi *decimal.Decimal
	if d.MinPrice.IsPositive() {
		lo = &d.MinPrice
	}
	if d.MaxPrice.IsPositive() && d.MaxPrice.LessThan(decimal.NewFromInt(DefaultMaxPrice)) {
		hi = &d.MaxPrice
	}

	return []Change{
		SetCategories(d.categories),
		SetMinPrice(lo),
		SetMaxPrice(hi),
	}
}
