package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	billingdomain "github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/haren2312/OptimumERP/internal/orgcontext"
	"github.com/haren2312/OptimumERP/internal/organization/domain"
	"github.com/haren2312/OptimumERP/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("organization.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Organization{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		Address:   strings.TrimSpace(req.Address),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		GSTNo:     strings.TrimSpace(req.GSTNo),
		PANNo:     strings.TrimSpace(req.PANNo),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	fyStart, fyEnd := currentFinancialYear(now)
	setting := domain.Setting{
		ID:       s.genID.Generate(),
		OrgID:    org.ID,
		Currency: "INR",
		FYStart:  fyStart,
		FYEnd:    fyEnd,
		Prefixes: datatypes.JSONMap{
			string(billingdomain.KindInvoice):       "INV-",
			string(billingdomain.KindPurchaseOrder): "PO-",
			string(billingdomain.KindQuote):         "QT-",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &org); err != nil {
			return err
		}
		return s.repo.InsertSetting(ctx, tx, &setting)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Organization{}, domain.ErrSlugTaken
		}
		return domain.Organization{}, err
	}

	s.log.Info("organization created", zap.String("org_id", org.ID.String()), zap.String("slug", org.Slug))
	return org, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Organization, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || orgID == 0 {
		return domain.Organization{}, domain.ErrInvalidID
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return domain.Organization{}, err
	}
	if org == nil {
		return domain.Organization{}, domain.ErrNotFound
	}
	return *org, nil
}

func (s *Service) GetSettings(ctx context.Context) (domain.Setting, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Setting{}, domain.ErrInvalidID
	}

	setting, err := s.repo.FindSetting(ctx, s.db, orgID)
	if err != nil {
		return domain.Setting{}, err
	}
	if setting == nil {
		return domain.Setting{}, domain.ErrNotFound
	}
	return *setting, nil
}

func (s *Service) UpdateSettings(ctx context.Context, req domain.UpdateSettingsRequest) (domain.Setting, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Setting{}, domain.ErrInvalidID
	}

	setting, err := s.repo.FindSetting(ctx, s.db, orgID)
	if err != nil {
		return domain.Setting{}, err
	}
	if setting == nil {
		return domain.Setting{}, domain.ErrNotFound
	}

	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if len(currency) != 3 {
			return domain.Setting{}, domain.ErrInvalidCurrency
		}
		setting.Currency = currency
	}
	if req.FYStart != nil {
		setting.FYStart = req.FYStart.UTC()
	}
	if req.FYEnd != nil {
		setting.FYEnd = req.FYEnd.UTC()
	}
	if !setting.FYEnd.After(setting.FYStart) {
		return domain.Setting{}, domain.ErrInvalidYear
	}
	if req.Prefixes != nil {
		prefixes := datatypes.JSONMap{}
		for kind, prefix := range req.Prefixes {
			if !billingdomain.Kind(kind).Valid() {
				return domain.Setting{}, domain.ErrInvalidPrefix
			}
			prefixes[kind] = strings.TrimSpace(prefix)
		}
		setting.Prefixes = prefixes
	}
	setting.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateSetting(ctx, s.db, setting); err != nil {
		return domain.Setting{}, err
	}
	return *setting, nil
}

// currentFinancialYear returns the Indian financial year window containing
// now: April 1 through March 31.
func currentFinancialYear(now time.Time) (time.Time, time.Time) {
	year := now.Year()
	if now.Month() < time.April {
		year--
	}
	start := time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.March, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}
