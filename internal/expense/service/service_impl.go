package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/internal/expense/domain"
	"github.com/haren2312/OptimumERP/internal/orgcontext"
	"github.com/haren2312/OptimumERP/internal/usercontext"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("expense.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Expense{}, domain.ErrInvalidOrganization
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Expense{}, domain.ErrInvalidDescription
	}
	if !req.Amount.IsPositive() {
		return domain.Expense{}, domain.ErrInvalidAmount
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	categoryID, err := s.resolveCategory(ctx, orgID, req.CategoryID)
	if err != nil {
		return domain.Expense{}, err
	}

	userID, _ := usercontext.UserIDFromContext(ctx)

	now := time.Now().UTC()
	expense := domain.Expense{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		CategoryID:  categoryID,
		Description: description,
		Amount:      req.Amount,
		Date:        date.UTC(),
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &expense); err != nil {
		return domain.Expense{}, err
	}

	s.log.Info("expense created",
		zap.String("org_id", orgID.String()),
		zap.String("expense_id", expense.ID.String()),
		zap.String("amount", expense.Amount.String()),
	)
	return expense, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateExpenseRequest) (domain.Expense, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Expense{}, domain.ErrInvalidOrganization
	}

	expenseID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || expenseID == 0 {
		return domain.Expense{}, domain.ErrInvalidID
	}

	expense, err := s.repo.FindByID(ctx, s.db, orgID, expenseID)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return domain.Expense{}, domain.ErrInvalidDescription
		}
		expense.Description = description
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return domain.Expense{}, domain.ErrInvalidAmount
		}
		expense.Amount = *req.Amount
	}
	if req.Date != nil {
		if req.Date.IsZero() {
			return domain.Expense{}, domain.ErrInvalidDate
		}
		expense.Date = req.Date.UTC()
	}
	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, orgID, *req.CategoryID)
		if err != nil {
			return domain.Expense{}, err
		}
		expense.CategoryID = categoryID
	}
	expense.UpdatedAt = time.Now().UTC()
	expense.Category = nil

	if err := s.repo.Update(ctx, s.db, expense); err != nil {
		return domain.Expense{}, err
	}
	return *expense, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	expenseID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || expenseID == 0 {
		return domain.ErrInvalidID
	}

	deleted, err := s.repo.Delete(ctx, s.db, orgID, expenseID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Expense, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Expense{}, domain.ErrInvalidOrganization
	}

	expenseID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || expenseID == 0 {
		return domain.Expense{}, domain.ErrInvalidID
	}

	expense, err := s.repo.FindByID(ctx, s.db, orgID, expenseID)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}
	return *expense, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpensesRequest) (domain.ListExpensesResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListExpensesResponse{}, domain.ErrInvalidOrganization
	}

	filter := domain.ListExpensesFilter{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	if categoryID := strings.TrimSpace(req.CategoryID); categoryID != "" {
		parsed, err := snowflake.ParseString(categoryID)
		if err != nil {
			return domain.ListExpensesResponse{}, domain.ErrInvalidID
		}
		filter.CategoryID = parsed
	}

	page := pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(req.PageSize),
	}
	if page.PageSize <= 0 {
		page.PageSize = 20
	}

	expenses, err := s.repo.List(ctx, s.db, orgID, filter, page)
	if err != nil {
		return domain.ListExpensesResponse{}, err
	}

	pageInfo, expenses := pagination.BuildCursorPageInfo(expenses, page.PageSize, func(e *domain.Expense) pagination.Cursor {
		return pagination.Cursor{
			ID:        e.ID.String(),
			CreatedAt: e.CreatedAt.Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListExpensesResponse{PageInfo: pageInfo}
	resp.Expenses = make([]domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, *e)
	}
	return resp, nil
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (domain.Category, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Category{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Category{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.InsertCategory(ctx, s.db, &category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, req domain.UpdateCategoryRequest) (domain.Category, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Category{}, domain.ErrInvalidOrganization
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || categoryID == 0 {
		return domain.Category{}, domain.ErrInvalidID
	}

	category, err := s.repo.FindCategoryByID(ctx, s.db, orgID, categoryID)
	if err != nil {
		return domain.Category{}, err
	}
	if category == nil {
		return domain.Category{}, domain.ErrCategoryNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Category{}, domain.ErrInvalidName
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}
	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateCategory(ctx, s.db, category); err != nil {
		return domain.Category{}, err
	}
	return *category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || categoryID == 0 {
		return domain.ErrInvalidID
	}

	deleted, err := s.repo.DeleteCategory(ctx, s.db, orgID, categoryID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	categories, err := s.repo.ListCategories(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *Service) resolveCategory(ctx context.Context, orgID snowflake.ID, raw string) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	categoryID, err := snowflake.ParseString(raw)
	if err != nil || categoryID == 0 {
		return nil, domain.ErrInvalidID
	}
	category, err := s.repo.FindCategoryByID(ctx, s.db, orgID, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return &categoryID, nil
}
