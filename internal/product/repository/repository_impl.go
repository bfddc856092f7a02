package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/internal/product/domain"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	result := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND org_id = ?", product.ID, product.OrgID).
		Select("name", "description", "type", "code", "um", "tax_code",
			"cost_price", "selling_price", "category_id", "updated_at").
		Updates(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		Delete(&domain.Product{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND org_id = ?", id, orgID).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListProductsFilter, page pagination.Pagination) ([]*domain.Product, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Product{}).
		Preload("Category").
		Where("org_id = ?", orgID)
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != 0 {
		stmt = stmt.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR code LIKE ?", like, like)
	}

	if page.PageToken != "" {
		if cursor, err := pagination.DecodeCursor(page.PageToken); err == nil && cursor != nil {
			if createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt); err == nil {
				if id, err := snowflake.ParseString(cursor.ID); err == nil {
					stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
				}
			}
		}
	}

	var products []*domain.Product
	err := stmt.
		Order("created_at desc, id desc").
		Limit(page.PageSize + 1).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) InsertCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) UpdateCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	result := db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("id = ? AND org_id = ?", category.ID, category.OrgID).
		Select("name", "description", "updated_at").
		Updates(category)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *repo) DeleteCategory(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Detach products first so the category row can go away cleanly.
		if err := tx.Model(&domain.Product{}).
			Where("org_id = ? AND category_id = ?", orgID, id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND org_id = ?", id, orgID).Delete(&domain.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		if err == domain.ErrCategoryNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Category, error) {
	var category domain.Category
	err := db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *repo) ListCategories(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("name asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
