package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/internal/orgcontext"
	"github.com/haren2312/OptimumERP/internal/party/domain"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
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
		log:   p.Log.Named("party.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePartyRequest) (domain.Party, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Party{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Party{}, domain.ErrInvalidName
	}
	partyType := req.Type
	if partyType == "" {
		partyType = domain.PartyTypeCustomer
	}
	if !partyType.Valid() {
		return domain.Party{}, domain.ErrInvalidType
	}

	now := time.Now().UTC()
	party := domain.Party{
		ID:             s.genID.Generate(),
		OrgID:          orgID,
		Name:           name,
		Type:           partyType,
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		GSTNo:          strings.TrimSpace(req.GSTNo),
		PANNo:          strings.TrimSpace(req.PANNo),
		BillingAddress: strings.TrimSpace(req.BillingAddress),
		Metadata:       datatypes.JSONMap{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &party); err != nil {
		return domain.Party{}, err
	}

	s.log.Info("party created",
		zap.String("org_id", orgID.String()),
		zap.String("party_id", party.ID.String()),
		zap.String("type", string(party.Type)),
	)
	return party, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePartyRequest) (domain.Party, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Party{}, domain.ErrInvalidOrganization
	}

	partyID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || partyID == 0 {
		return domain.Party{}, domain.ErrInvalidID
	}

	party, err := s.repo.FindByID(ctx, s.db, orgID, partyID)
	if err != nil {
		return domain.Party{}, err
	}
	if party == nil {
		return domain.Party{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Party{}, domain.ErrInvalidName
		}
		party.Name = name
	}
	if req.Email != nil {
		party.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		party.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.GSTNo != nil {
		party.GSTNo = strings.TrimSpace(*req.GSTNo)
	}
	if req.PANNo != nil {
		party.PANNo = strings.TrimSpace(*req.PANNo)
	}
	if req.BillingAddress != nil {
		party.BillingAddress = strings.TrimSpace(*req.BillingAddress)
	}
	party.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, party); err != nil {
		return domain.Party{}, err
	}
	return *party, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	partyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || partyID == 0 {
		return domain.ErrInvalidID
	}

	deleted, err := s.repo.Delete(ctx, s.db, orgID, partyID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Party, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Party{}, domain.ErrInvalidOrganization
	}

	partyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || partyID == 0 {
		return domain.Party{}, domain.ErrInvalidID
	}

	party, err := s.repo.FindByID(ctx, s.db, orgID, partyID)
	if err != nil {
		return domain.Party{}, err
	}
	if party == nil {
		return domain.Party{}, domain.ErrNotFound
	}
	return *party, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPartiesRequest) (domain.ListPartiesResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListPartiesResponse{}, domain.ErrInvalidOrganization
	}

	if req.Type != "" && !req.Type.Valid() {
		return domain.ListPartiesResponse{}, domain.ErrInvalidType
	}

	page := pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(req.PageSize),
	}
	if page.PageSize <= 0 {
		page.PageSize = 20
	}

	filter := domain.ListPartiesFilter{
		Type:   req.Type,
		Search: strings.TrimSpace(req.Search),
	}

	parties, err := s.repo.List(ctx, s.db, orgID, filter, page)
	if err != nil {
		return domain.ListPartiesResponse{}, err
	}

	pageInfo, parties := pagination.BuildCursorPageInfo(parties, page.PageSize, func(p *domain.Party) pagination.Cursor {
		return pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListPartiesResponse{PageInfo: pageInfo}
	resp.Parties = make([]domain.Party, 0, len(parties))
	for _, p := range parties {
		resp.Parties = append(resp.Parties, *p)
	}
	return resp, nil
}
