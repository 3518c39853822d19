package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 外部APIのカタログをpostgresに写したミラー
type ProductGormRepository struct {
	db *gorm.DB
}

var _ repo.ProductMirrorRepository = (*ProductGormRepository)(nil)

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 全商品をカテゴリ付きで返す（並びはAPIと同じid順）
func (r *ProductGormRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// ミラーを丸ごと入れ替える
func (r *ProductGormRepository) ReplaceAll(ctx context.Context, products []model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//カテゴリはupsert
		categories := uniqueCategories(products)
		if len(categories) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"slug", "name", "image"}),
			}).Create(&categories).Error; err != nil {
				return err
			}
		}

		//商品は全削除してから入れ直す
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}

		rows := make([]model.Product, len(products))
		copy(rows, products)
		for i := range rows {
			rows[i].CategoryID = rows[i].Category.ID
		}
		return tx.Omit("Category").CreateInBatches(&rows, 100).Error
	})
}

func uniqueCategories(products []model.Product) []model.Category {
	seen := make(map[int64]struct{})
	out := make([]model.Category, 0)
	for _, p := range products {
		if _, ok := seen[p.Category.ID]; ok {
			continue
		}
		seen[p.Category.ID] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
