package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Change は1つのパラメータの設定または削除。
type Change struct {
	Param  string
	Value  string
	Delete bool
}

// 空文字の設定は削除として扱う
func Set(param, value string) Change {
	if strings.TrimSpace(value) == "" {
		return Delete(param)
	}
	return Change{Param: param, Value: value}
}

func Delete(param string) Change {
	return Change{Param: param, Delete: true}
}

// カテゴリ一覧の設定（空ならキーを消す）
func SetCategories(slugs []string) Change {
	if len(slugs) == 0 {
		return Delete(ParamCategory)
	}
	return Set(ParamCategory, strings.Join(slugs, ","))
}

func SetMinPrice(d *decimal.Decimal) Change {
	if d == nil {
		return Delete(ParamMinPrice)
	}
	return Set(ParamMinPrice, FormatPrice(*d))
}

func SetMaxPrice(d *decimal.Decimal) Change {
	if d == nil {
		return Delete(ParamMaxPrice)
	}
	return Set(ParamMaxPrice, FormatPrice(*d))
}

func SetSort(k SortKey) Change {
	return Set(ParamSort, string(k))
}

// 0始まりのページ位置をURLの1始まりに変換して設定
func SetPage(index int) Change {
	if index < 0 {
		index = 0
	}
	return Set(ParamPage, strconv.Itoa(index+1))
}

// Apply は現在のパラメータに変更をまとめて適用した新しいパラメータを返す。
// currentは書き換えない。認識しないパラメータはそのまま残す。
func Apply(current url.Values, changes ...Change) url.Values {
	next := make(url.Values, len(current))
	for k, vs := range current {
		next[k] = append([]string(nil), vs...)
	}

	for _, c := range changes {
		if c.Param == "" {
			continue
		}
		if c.Delete {
			next.Del(c.Param)
			continue
		}
		next.Set(c.Param, c.Value)
	}
	return next
}

// Location は遷移先のURL（path?query）を組み立てる。
func Location(path string, v url.Values) string {
	if path == "" {
		path = "/"
	}
	encoded := v.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}
