package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidYear     = errors.New("invalid_financial_year")
	ErrInvalidPrefix   = errors.New("invalid_prefix")
	ErrNotFound        = errors.New("not_found")
	ErrSlugTaken       = errors.New("slug_taken")
)

type CreateOrganizationRequest struct {
	Name    string
	Address string
	Email   string
	Phone   string
	GSTNo   string
	PANNo   string
}

type UpdateSettingsRequest struct {
	Currency *string
	FYStart  *time.Time
	FYEnd    *time.Time
	Prefixes map[string]string
}

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (Organization, error)
	GetByID(ctx context.Context, id string) (Organization, error)
	GetSettings(ctx context.Context) (Setting, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (Setting, error)
}
