package model

import "time"

// 取得元
type CatalogSource string

const (
	CatalogSourceAPI      CatalogSource = "api"
	CatalogSourcePostgres CatalogSource = "postgres"
)

// 1回の取得結果（スナップショット）。
// 再取得時は丸ごと差し替え、Productsを書き換えない。
type Catalog struct {
	Version   string        `json:"version"`
	Source    CatalogSource `json:"source"`
	FetchedAt time.Time     `json:"fetched_at"`
	Products  []Product     `json:"-"`
}

// IDで商品を探す
func (c *Catalog) FindByID(id int64) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
