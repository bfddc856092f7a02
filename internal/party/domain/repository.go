package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, party *Party) error
	Update(ctx context.Context, db *gorm.DB, party *Party) error
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Party, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListPartiesFilter, page pagination.Pagination) ([]*Party, error)
}
