package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品カテゴリ。slugはURLで使う識別子、nameは表示名。
// 外部APIではidが違っても同じslugがありうるので、slugは一意にしない。
type Category struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	Slug  string `gorm:"type:varchar(255);not null;index:idx_categories_slug_lookup" json:"slug"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Image string `gorm:"type:text" json:"image,omitempty"`
}

// カタログの商品。取得後は読み取り専用として扱う。
type Product struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string          `gorm:"type:varchar(255)" json:"slug,omitempty"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CategoryID  int64           `gorm:"not null;index" json:"-"`
	Category    Category        `gorm:"foreignKey:CategoryID" json:"category"`
	Images      []string        `gorm:"serializer:json;type:jsonb" json:"images"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}
