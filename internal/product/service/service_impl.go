package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/internal/billing/gst"
	"github.com/haren2312/OptimumERP/internal/orgcontext"
	"github.com/haren2312/OptimumERP/internal/product/domain"
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
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Product{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}

	productType := req.Type
	if productType == "" {
		productType = domain.ProductTypeGoods
	}
	if !productType.Valid() {
		return domain.Product{}, domain.ErrInvalidType
	}

	um := req.UM
	if um == "" {
		um = gst.UnitNone
	}
	if _, ok := gst.LookupUnit(um); !ok {
		return domain.Product{}, domain.ErrInvalidUnit
	}

	taxCode := req.TaxCode
	if taxCode == "" {
		taxCode = gst.TaxCodeNone
	}
	if _, ok := gst.LookupRate(taxCode); !ok {
		return domain.Product{}, domain.ErrInvalidTaxCode
	}

	if req.CostPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return domain.Product{}, domain.ErrInvalidPrice
	}

	categoryID, err := s.resolveCategory(ctx, orgID, req.CategoryID)
	if err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:           s.genID.Generate(),
		OrgID:        orgID,
		CategoryID:   categoryID,
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		Type:         productType,
		Code:         strings.TrimSpace(req.Code),
		UM:           um,
		TaxCode:      taxCode,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		return domain.Product{}, err
	}

	s.log.Info("product created",
		zap.String("org_id", orgID.String()),
		zap.String("product_id", product.ID.String()),
	)
	return product, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProductRequest) (domain.Product, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Product{}, domain.ErrInvalidOrganization
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || productID == 0 {
		return domain.Product{}, domain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, orgID, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return domain.Product{}, domain.ErrInvalidType
		}
		product.Type = *req.Type
	}
	if req.Code != nil {
		product.Code = strings.TrimSpace(*req.Code)
	}
	if req.UM != nil {
		if _, ok := gst.LookupUnit(*req.UM); !ok {
			return domain.Product{}, domain.ErrInvalidUnit
		}
		product.UM = *req.UM
	}
	if req.TaxCode != nil {
		if _, ok := gst.LookupRate(*req.TaxCode); !ok {
			return domain.Product{}, domain.ErrInvalidTaxCode
		}
		product.TaxCode = *req.TaxCode
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return domain.Product{}, domain.ErrInvalidPrice
		}
		product.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return domain.Product{}, domain.ErrInvalidPrice
		}
		product.SellingPrice = *req.SellingPrice
	}
	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, orgID, *req.CategoryID)
		if err != nil {
			return domain.Product{}, err
		}
		product.CategoryID = categoryID
	}
	product.UpdatedAt = time.Now().UTC()
	product.Category = nil

	if err := s.repo.Update(ctx, s.db, product); err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || productID == 0 {
		return domain.ErrInvalidID
	}

	deleted, err := s.repo.Delete(ctx, s.db, orgID, productID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Product{}, domain.ErrInvalidOrganization
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || productID == 0 {
		return domain.Product{}, domain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, orgID, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return *product, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProductsRequest) (domain.ListProductsResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListProductsResponse{}, domain.ErrInvalidOrganization
	}

	if req.Type != "" && !req.Type.Valid() {
		return domain.ListProductsResponse{}, domain.ErrInvalidType
	}

	filter := domain.ListProductsFilter{
		Search: strings.TrimSpace(req.Search),
		Type:   req.Type,
	}
	if categoryID := strings.TrimSpace(req.CategoryID); categoryID != "" {
		parsed, err := snowflake.ParseString(categoryID)
		if err != nil {
			return domain.ListProductsResponse{}, domain.ErrInvalidID
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

	products, err := s.repo.List(ctx, s.db, orgID, filter, page)
	if err != nil {
		return domain.ListProductsResponse{}, err
	}

	pageInfo, products := pagination.BuildCursorPageInfo(products, page.PageSize, func(p *domain.Product) pagination.Cursor {
		return pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListProductsResponse{PageInfo: pageInfo}
	resp.Products = make([]domain.Product, 0, len(products))
	for _, p := range products {
		resp.Products = append(resp.Products, *p)
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
