package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/internal/party/domain"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, party *domain.Party) error {
	return db.WithContext(ctx).Create(party).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, party *domain.Party) error {
	result := db.WithContext(ctx).
		Model(&domain.Party{}).
		Where("id = ? AND org_id = ?", party.ID, party.OrgID).
		Select("name", "email", "phone", "gst_no", "pan_no", "billing_address", "updated_at").
		Updates(party)
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
		Delete(&domain.Party{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Party, error) {
	var party domain.Party
	err := db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		First(&party).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &party, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListPartiesFilter, page pagination.Pagination) ([]*domain.Party, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Party{}).
		Where("org_id = ?", orgID)
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR email LIKE ?", like, like)
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

	var parties []*domain.Party
	err := stmt.
		Order("created_at desc, id desc").
		Limit(page.PageSize + 1).
		Find(&parties).Error
	if err != nil {
		return nil, err
	}
	return parties, nil
}
