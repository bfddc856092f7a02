package domain

import (
	"context"
	"errors"

	"github.com/haren2312/OptimumERP/pkg/db/pagination"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidType         = errors.New("invalid_type")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)

type CreatePartyRequest struct {
	Name           string
	Type           PartyType
	Email          string
	Phone          string
	GSTNo          string
	PANNo          string
	BillingAddress string
}

type UpdatePartyRequest struct {
	ID             string
	Name           *string
	Email          *string
	Phone          *string
	GSTNo          *string
	PANNo          *string
	BillingAddress *string
}

type ListPartiesRequest struct {
	PageToken string
	PageSize  int32
	Type      PartyType
	Search    string
}

type ListPartiesFilter struct {
	Type   PartyType
	Search string
}

type ListPartiesResponse struct {
	pagination.PageInfo
	Parties []Party `json:"parties"`
}

type Service interface {
	Create(ctx context.Context, req CreatePartyRequest) (Party, error)
	Update(ctx context.Context, req UpdatePartyRequest) (Party, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Party, error)
	List(ctx context.Context, req ListPartiesRequest) (ListPartiesResponse, error)
}
