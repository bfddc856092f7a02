package domain

import (
	"context"
	"time"

	"github.com/haren2312/OptimumERP/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

// LineItemInput is a submitted document row before validation.
type LineItemInput struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	TaxCode  string          `json:"taxCode"`
	UM       string          `json:"um"`
	Code     string          `json:"code"`
}

type CreateDocumentRequest struct {
	Kind           Kind
	PartyID        string
	Sequence       int64 // 0 means assign the next free number
	Items          []LineItemInput
	Status         string
	Interstate     bool
	Date           *time.Time
	BillingAddress string
	Description    string
}

type UpdateDocumentRequest struct {
	Kind           Kind
	ID             string
	PartyID        string
	Sequence       int64
	Items          []LineItemInput
	Status         string
	Interstate     bool
	Date           *time.Time
	BillingAddress string
	Description    string
}

type ListDocumentsRequest struct {
	Kind      Kind
	PageToken string
	PageSize  int32
	Status    string
	PartyID   string
	Search    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type ListDocumentsResponse struct {
	pagination.PageInfo
	Documents []BillingDocument `json:"documents"`
}

type RecordPaymentRequest struct {
	Kind        Kind
	ID          string
	Amount      decimal.Decimal
	Mode        string
	Description string
	Date        *time.Time
}

type ListTransactionsRequest struct {
	PageToken string
	PageSize  int32
	DocKind   Kind
	PartyID   string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type ListTransactionsResponse struct {
	pagination.PageInfo
	Transactions []Transaction `json:"transactions"`
}

// KindStatusAggregate is one grouped row of the dashboard query.
type KindStatusAggregate struct {
	Kind     Kind            `json:"kind"`
	Status   string          `json:"status"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
	TotalTax decimal.Decimal `json:"totalTax"`
}

// KindSummary aggregates a document kind for the dashboard.
type KindSummary struct {
	Count    int64            `json:"count"`
	Total    decimal.Decimal  `json:"total"`
	TotalTax decimal.Decimal  `json:"totalTax"`
	ByStatus map[string]int64 `json:"byStatus"`
}

// DashboardSummary covers the org's active financial year.
type DashboardSummary struct {
	FinancialYear FinancialYear        `json:"financialYear"`
	Kinds         map[Kind]KindSummary `json:"kinds"`
}

type Service interface {
	Create(ctx context.Context, req CreateDocumentRequest) (BillingDocument, error)
	Update(ctx context.Context, req UpdateDocumentRequest) (BillingDocument, error)
	Delete(ctx context.Context, kind Kind, id string) error
	GetByID(ctx context.Context, kind Kind, id string) (BillingDocument, error)
	List(ctx context.Context, req ListDocumentsRequest) (ListDocumentsResponse, error)
	NextNumber(ctx context.Context, kind Kind) (int64, error)
	RecordPayment(ctx context.Context, req RecordPaymentRequest) error
	ConvertQuote(ctx context.Context, quoteID string) (BillingDocument, error)
	ListTransactions(ctx context.Context, req ListTransactionsRequest) (ListTransactionsResponse, error)
	Summary(ctx context.Context) (DashboardSummary, error)
}
