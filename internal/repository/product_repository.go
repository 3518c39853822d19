package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 商品カタログの取得元（外部APIまたはDBのミラー）の約束。
// 絞り込み・並べ替えは取得後にメモリ上で行うので、全件を返すだけ。
type ProductRepository interface {
	ListAll(ctx context.Context) ([]model.Product, error)
}

// ミラーへの書き込みの約束（catalogctl sync で使う）
type ProductMirrorRepository interface {
	ProductRepository
	ReplaceAll(ctx context.Context, products []model.Product) error
}
