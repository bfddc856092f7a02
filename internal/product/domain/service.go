package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"github.com/haren2312/OptimumERP/pkg/db/pagination"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidType         = errors.New("invalid_type")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidUnit         = errors.New("invalid_unit_of_measure")
	ErrInvalidTaxCode      = errors.New("invalid_tax_code")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrCategoryNotFound    = errors.New("category_not_found")
)

type CreateProductRequest struct {
	Name         string
	Description  string
	Type         ProductType
	Code         string
	UM           string
	TaxCode      string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	CategoryID   string
}

type UpdateProductRequest struct {
	ID           string
	Name         *string
	Description  *string
	Type         *ProductType
	Code         *string
	UM           *string
	TaxCode      *string
	CostPrice    *decimal.Decimal
	SellingPrice *decimal.Decimal
	CategoryID   *string
}

type ListProductsRequest struct {
	PageToken  string
	PageSize   int32
	Search     string
	CategoryID string
	Type       ProductType
}

type ListProductsFilter struct {
	Search     string
	CategoryID snowflake.ID
	Type       ProductType
}

type ListProductsResponse struct {
	pagination.PageInfo
	Products []Product `json:"products"`
}

type CreateCategoryRequest struct {
	Name        string
	Description string
}

type UpdateCategoryRequest struct {
	ID          string
	Name        *string
	Description *string
}

type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (Product, error)
	Update(ctx context.Context, req UpdateProductRequest) (Product, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, req ListProductsRequest) (ListProductsResponse, error)

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (Category, error)
	UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
}
