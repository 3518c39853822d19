package listing

import (
	"fmt"
	"net/url"

	"storefront/internal/domain/model"
)

// 現在ページの前後に出すページリンクの数
const pageRangeDisplayed = 2

const (
	TagCategory = "category"
	TagMinPrice = "min_price"
	TagMaxPrice = "max_price"
)

// 適用中の条件。RemoveURLでその条件だけ外せる。
type Tag struct {
	Kind      string `json:"kind"`
	Value     string `json:"value"`
	Label     string `json:"label"`
	RemoveURL string `json:"remove_url"`
}

type SortOption struct {
	Key      SortKey `json:"key"`
	Label    string  `json:"label"`
	Selected bool    `json:"selected"`
	URL      string  `json:"url"`
}

// Breakはページ番号の省略（…）
type PageLink struct {
	Number  int    `json:"number,omitempty"`
	URL     string `json:"url,omitempty"`
	Current bool   `json:"current,omitempty"`
	Break   bool   `json:"break,omitempty"`
}

type Pagination struct {
	// 1始まり
	Page      int        `json:"page"`
	PageCount int        `json:"page_count"`
	PageSize  int        `json:"page_size"`
	PrevURL   string     `json:"prev_url,omitempty"`
	NextURL   string     `json:"next_url,omitempty"`
	Links     []PageLink `json:"links"`
}

type Summary struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Total int    `json:"total"`
	Text  string `json:"text"`
}

type CategoryFacet struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Selected  bool   `json:"selected"`
	// 選択を切り替えた一覧のURL（BuildViewのときだけ）
	ToggleURL string `json:"toggle_url,omitempty"`
}

// 一覧画面の部品（タグ・並び替え・ページャ・件数表示・カテゴリ）
type View struct {
	Tags        []Tag           `json:"tags"`
	SortOptions []SortOption    `json:"sort_options"`
	Pagination  Pagination      `json:"pagination"`
	Summary     Summary         `json:"summary"`
	Categories  []CategoryFacet `json:"categories"`
}

// BuildView はパイプラインの結果とURLの状態から画面用のデータを組み立てる。
// リンクはすべてApplyで作るので、認識しないパラメータも引き継がれる。
func BuildView(path string, current url.Values, q Query, r Result, catalog []model.Product) View {
	return View{
		Tags:        buildTags(path, current, q),
		SortOptions: buildSortOptions(path, current, q),
		Pagination:  buildPagination(path, current, r),
		Summary:     buildSummary(r),
		Categories:  buildFacets(path, current, q, catalog),
	}
}

func buildFacets(path string, current url.Values, q Query, catalog []model.Product) []CategoryFacet {
	facets := GroupCategories(catalog, q.Filters)
	for i := range facets {
		facets[i].ToggleURL = toggleCategoryURL(path, current, q, facets[i].Slug)
	}
	return facets
}

// slugの選択を切り替えたURL（選択済みなら外す）
func toggleCategoryURL(path string, current url.Values, q Query, slug string) string {
	d := NewDraft(q)
	d.ToggleCategory(slug)
	return Location(path, Apply(current, SetCategories(d.Categories())))
}

func buildTags(path string, current url.Values, q Query) []Tag {
	tags := make([]Tag, 0, len(q.Filters.Categories)+2)

	for _, slug := range q.Filters.Categories {
		tags = append(tags, Tag{
			Kind:      TagCategory,
			Value:     slug,
			Label:     slug,
			RemoveURL: toggleCategoryURL(path, current, q, slug),
		})
	}

	if q.Filters.MinPrice != nil {
		v := FormatPrice(*q.Filters.MinPrice)
		tags = append(tags, Tag{
			Kind:      TagMinPrice,
			Value:     v,
			Label:     fmt.Sprintf("Min: %s$", v),
			RemoveURL: Location(path, Apply(current, SetMinPrice(nil))),
		})
	}
	if q.Filters.MaxPrice != nil {
		v := FormatPrice(*q.Filters.MaxPrice)
		tags = append(tags, Tag{
			Kind:      TagMaxPrice,
			Value:     v,
			Label:     fmt.Sprintf("Max: %s$", v),
			RemoveURL: Location(path, Apply(current, SetMaxPrice(nil))),
		})
	}

	return tags
}

func buildSortOptions(path string, current url.Values, q Query) []SortOption {
	selected := q.SortOrDefault()
	opts := make([]SortOption, 0, len(SortKeys))
	for _, k := range SortKeys {
		opts = append(opts, SortOption{
			Key:      k,
			Label:    k.Label(),
			Selected: k == selected,
			URL:      Location(path, Apply(current, SetSort(k))),
		})
	}
	return opts
}

func buildPagination(path string, current url.Values, r Result) Pagination {
	count := r.PageCount()
	page := r.ClampPage(r.Page)

	p := Pagination{
		Page:      page + 1,
		PageCount: count,
		PageSize:  r.PageSize,
		Links:     make([]PageLink, 0, count),
	}
	if page > 0 {
		p.PrevURL = Location(path, Apply(current, SetPage(page-1)))
	}
	if page < count-1 {
		p.NextURL = Location(path, Apply(current, SetPage(page+1)))
	}

	gap := false
	for i := 0; i < count; i++ {
		near := i-page <= pageRangeDisplayed && page-i <= pageRangeDisplayed
		if i != 0 && i != count-1 && !near {
			if !gap {
				p.Links = append(p.Links, PageLink{Break: true})
				gap = true
			}
			continue
		}
		gap = false
		p.Links = append(p.Links, PageLink{
			Number:  i + 1,
			URL:     Location(path, Apply(current, SetPage(i))),
			Current: i == page,
		})
	}

	return p
}

func buildSummary(r Result) Summary {
	if r.TotalCount == 0 {
		return Summary{Text: "No products found"}
	}

	page := r.ClampPage(r.Page)
	from := page*r.PageSize + 1
	to := from + len(r.Current()) - 1
	return Summary{
		From:  from,
		To:    to,
		Total: r.TotalCount,
		Text:  fmt.Sprintf("Showing products %d to %d, of %d total", from, to, r.TotalCount),
	}
}

// GroupCategories はカタログ全体のカテゴリをslugごとに出現順でまとめる。
func GroupCategories(products []model.Product, filters Filters) []CategoryFacet {
	index := make(map[string]int)
	facets := make([]CategoryFacet, 0)
	for _, p := range products {
		slug := p.Category.Slug
		if slug == "" {
			continue
		}
		if i, ok := index[slug]; ok {
			facets[i].Count++
			continue
		}
		index[slug] = len(facets)
		facets = append(facets, CategoryFacet{
			Slug:     slug,
			Name:     p.Category.Name,
			Count:    1,
			Selected: filters.HasCategory(slug),
		})
	}
	return facets
}
