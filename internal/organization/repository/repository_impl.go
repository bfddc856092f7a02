package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/internal/organization/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Create(org).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *repo) InsertSetting(ctx context.Context, db *gorm.DB, setting *domain.Setting) error {
	return db.WithContext(ctx).Create(setting).Error
}

func (r *repo) FindSetting(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*domain.Setting, error) {
	var setting domain.Setting
	err := db.WithContext(ctx).Where("org_id = ?", orgID).First(&setting).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (r *repo) UpdateSetting(ctx context.Context, db *gorm.DB, setting *domain.Setting) error {
	result := db.WithContext(ctx).
		Model(&domain.Setting{}).
		Where("org_id = ?", setting.OrgID).
		Select("currency", "financial_year_start", "financial_year_end", "prefixes", "updated_at").
		Updates(setting)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
