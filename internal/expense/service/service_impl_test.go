package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/haren2312/OptimumERP/internal/expense/domain"
	"github.com/haren2312/OptimumERP/internal/expense/repository"
	"github.com/haren2312/OptimumERP/internal/orgcontext"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, context.Context) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Category{}, &domain.Expense{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	ctx := orgcontext.WithOrgID(context.Background(), node.Generate())
	return svc, ctx
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreate_DefaultsDateToNow(t *testing.T) {
	svc, ctx := newService(t)

	expense, err := svc.Create(ctx, domain.CreateExpenseRequest{
		Description: "Office rent",
		Amount:      amount("25000"),
	})
	require.NoError(t, err)
	assert.False(t, expense.Date.IsZero())
	assert.True(t, expense.Amount.Equal(amount("25000")))
}

func TestCreate_Invalid(t *testing.T) {
	svc, ctx := newService(t)

	_, err := svc.Create(ctx, domain.CreateExpenseRequest{Description: " ", Amount: amount("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)

	_, err = svc.Create(ctx, domain.CreateExpenseRequest{Description: "Rent", Amount: amount("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreateExpenseRequest{Description: "Rent", Amount: amount("-5")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreateExpenseRequest{
		Description: "Rent",
		Amount:      amount("10"),
		CategoryID:  snowflake.ID(777).String(),
	})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestList_FiltersByCategoryAndDate(t *testing.T) {
	svc, ctx := newService(t)

	travel, err := svc.CreateCategory(ctx, domain.CreateCategoryRequest{Name: "Travel"})
	require.NoError(t, err)

	jan := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	_, err = svc.Create(ctx, domain.CreateExpenseRequest{
		Description: "Train tickets",
		Amount:      amount("1200"),
		Date:        jan,
		CategoryID:  travel.ID.String(),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateExpenseRequest{
		Description: "Office rent",
		Amount:      amount("25000"),
		Date:        jun,
	})
	require.NoError(t, err)

	byCategory, err := svc.List(ctx, domain.ListExpensesRequest{CategoryID: travel.ID.String()})
	require.NoError(t, err)
	require.Len(t, byCategory.Expenses, 1)
	assert.Equal(t, "Train tickets", byCategory.Expenses[0].Description)

	from := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	byDate, err := svc.List(ctx, domain.ListExpensesRequest{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, byDate.Expenses, 1)
	assert.Equal(t, "Office rent", byDate.Expenses[0].Description)
}

func TestDeleteCategory_DetachesExpenses(t *testing.T) {
	svc, ctx := newService(t)

	travel, err := svc.CreateCategory(ctx, domain.CreateCategoryRequest{Name: "Travel"})
	require.NoError(t, err)

	expense, err := svc.Create(ctx, domain.CreateExpenseRequest{
		Description: "Train tickets",
		Amount:      amount("1200"),
		CategoryID:  travel.ID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, travel.ID.String()))

	got, err := svc.GetByID(ctx, expense.ID.String())
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestUpdate_ClearsCategoryWithEmptyID(t *testing.T) {
	svc, ctx := newService(t)

	travel, err := svc.CreateCategory(ctx, domain.CreateCategoryRequest{Name: "Travel"})
	require.NoError(t, err)

	expense, err := svc.Create(ctx, domain.CreateExpenseRequest{
		Description: "Train tickets",
		Amount:      amount("1200"),
		CategoryID:  travel.ID.String(),
	})
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(ctx, domain.UpdateExpenseRequest{
		ID:         expense.ID.String(),
		CategoryID: &empty,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}
