package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"github.com/haren2312/OptimumERP/pkg/db/pagination"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidDescription  = errors.New("invalid_description")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrCategoryNotFound    = errors.New("category_not_found")
)

type CreateExpenseRequest struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	CategoryID  string
}

type UpdateExpenseRequest struct {
	ID          string
	Description *string
	Amount      *decimal.Decimal
	Date        *time.Time
	CategoryID  *string
}

type ListExpensesRequest struct {
	PageToken  string
	PageSize   int32
	CategoryID string
	DateFrom   *time.Time
	DateTo     *time.Time
}

type ListExpensesFilter struct {
	CategoryID snowflake.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}

type ListExpensesResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
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
	Create(ctx context.Context, req CreateExpenseRequest) (Expense, error)
	Update(ctx context.Context, req UpdateExpenseRequest) (Expense, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Expense, error)
	List(ctx context.Context, req ListExpensesRequest) (ListExpensesResponse, error)

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (Category, error)
	UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
}
