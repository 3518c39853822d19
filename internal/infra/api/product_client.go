package api

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

const DefaultEndpoint = "https://api.escuelajs.co/api/v1/products"

// ProductClient は外部の商品APIから全件を取得する。
// APIは絞り込みやページングをしないので、1回のGETで配列をそのまま受け取る。
type ProductClient struct {
	endpoint string
	http     *http.Client
	policy   *bluemonday.Policy
}

// DI
func NewProductClient(endpoint string, timeout time.Duration) *ProductClient {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProductClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		policy:   bluemonday.StrictPolicy(),
	}
}

// テストでhttptestのクライアントを差し込む
func (c *ProductClient) WithHTTPClient(hc *http.Client) *ProductClient {
	if hc != nil {
		c.http = hc
	}
	return c
}

func (c *ProductClient) ListAll(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog api: request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog api: unexpected status %d", resp.StatusCode)
	}

	var raws []rawProduct
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("catalog api: decode: %w", err)
	}

	products := make([]model.Product, 0, len(raws))
	for _, raw := range raws {
		products = append(products, c.mapRawProduct(raw))
	}
	return products, nil
}

type rawProduct struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    rawCategory     `json:"category"`
	Images      []string        `json:"images"`
	CreationAt  time.Time       `json:"creationAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type rawCategory struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

func (c *ProductClient) mapRawProduct(raw rawProduct) model.Product {
	images := make([]string, 0, len(raw.Images))
	for _, img := range raw.Images {
		// APIが `["https://..."]` のような文字列を返すことがある
		img = strings.Trim(strings.TrimSpace(img), `[]" `)
		if img != "" {
			images = append(images, img)
		}
	}

	return model.Product{
		ID:          raw.ID,
		Title:       c.text(raw.Title),
		Slug:        strings.TrimSpace(raw.Slug),
		Description: c.text(raw.Description),
		Price:       raw.Price,
		CategoryID:  raw.Category.ID,
		Category: model.Category{
			ID:    raw.Category.ID,
			Slug:  strings.TrimSpace(raw.Category.Slug),
			Name:  c.text(raw.Category.Name),
			Image: strings.TrimSpace(raw.Category.Image),
		},
		Images:    images,
		CreatedAt: raw.CreationAt,
		UpdatedAt: raw.UpdatedAt,
	}
}

// 外部APIの文字列はだれでも書き換えられるのでタグを落とす
func (c *ProductClient) text(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(s)))
}
