package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, expense *Expense) error
	Update(ctx context.Context, db *gorm.DB, expense *Expense) error
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Expense, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListExpensesFilter, page pagination.Pagination) ([]*Expense, error)

	InsertCategory(ctx context.Context, db *gorm.DB, category *Category) error
	UpdateCategory(ctx context.Context, db *gorm.DB, category *Category) error
	DeleteCategory(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)
	FindCategoryByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Category, error)
	ListCategories(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*Category, error)
}
