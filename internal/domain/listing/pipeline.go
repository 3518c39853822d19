package listing

import "storefront/internal/domain/model"

// 1ページの件数
const (
	PageSizeGrid = 8
	PageSizeWide = 16

	DefaultPageSize = PageSizeGrid
)

// 絞り込み→並べ替え→ページ分割の結果
type Result struct {
	// 空の結果でも1ページ（空）を持つ
	Pages      [][]model.Product
	TotalCount int
	PageSize   int
	// 範囲内に丸めた0始まりのページ位置
	Page int
}

// Run は一覧のパイプライン。productsは変更しない。
func Run(products []model.Product, filters Filters, sort SortKey, page int, pageSize int) Result {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	//絞り込み（新しいスライスに詰めるので元の並びは壊れない）
	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if filters.Match(p) {
			filtered = append(filtered, p)
		}
	}

	//並べ替え
	sortProducts(filtered, sort)

	r := Result{
		Pages:      paginate(filtered, pageSize),
		TotalCount: len(filtered),
		PageSize:   pageSize,
	}
	r.Page = r.ClampPage(page)
	return r
}

// ページ数（常に1以上）
func (r Result) PageCount() int {
	if len(r.Pages) == 0 {
		return 1
	}
	return len(r.Pages)
}

// ページ位置を[0, PageCount-1]に丸める
func (r Result) ClampPage(page int) int {
	if page < 0 {
		return 0
	}
	if last := r.PageCount() - 1; page > last {
		return last
	}
	return page
}

// 表示中のページ
func (r Result) Current() []model.Product {
	if len(r.Pages) == 0 {
		return []model.Product{}
	}
	return r.Pages[r.ClampPage(r.Page)]
}

// 固定サイズで分割する。0件なら空のページを1つ返す。
func paginate(items []model.Product, size int) [][]model.Product {
	if len(items) == 0 {
		return [][]model.Product{{}}
	}

	pages := make([][]model.Product, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[i:end:end])
	}
	return pages
}
