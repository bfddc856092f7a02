package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, org *Organization) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Organization, error)
	InsertSetting(ctx context.Context, db *gorm.DB, setting *Setting) error
	FindSetting(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*Setting, error)
	UpdateSetting(ctx context.Context, db *gorm.DB, setting *Setting) error
}
