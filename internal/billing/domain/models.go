// Package domain contains the shared billing-document shape for invoices,
// purchase orders and quotes, plus their ledger projection.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Kind discriminates the three billing-document variants sharing one shape.
type Kind string

const (
	KindInvoice       Kind = "invoice"
	KindPurchaseOrder Kind = "purchase_order"
	KindQuote         Kind = "quote"
)

func (k Kind) Valid() bool {
	switch k {
	case KindInvoice, KindPurchaseOrder, KindQuote:
		return true
	default:
		return false
	}
}

// Status values per document kind.
const (
	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusPaid     = "paid"
	StatusUnpaid   = "unpaid"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// StatusesFor returns the closed status enumeration for a kind.
func StatusesFor(kind Kind) []string {
	switch kind {
	case KindInvoice:
		return []string{StatusDraft, StatusSent, StatusPaid, StatusUnpaid}
	case KindPurchaseOrder:
		return []string{StatusUnpaid, StatusPaid}
	case KindQuote:
		return []string{StatusDraft, StatusSent, StatusAccepted, StatusDeclined}
	default:
		return nil
	}
}

// DefaultStatus is the status assigned when the caller omits one.
func DefaultStatus(kind Kind) string {
	if kind == KindPurchaseOrder {
		return StatusUnpaid
	}
	return StatusDraft
}

// FinancialYear is the org-configured numbering window. Sequence numbers
// reset per financial year.
type FinancialYear struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (fy FinancialYear) IsZero() bool {
	return fy.Start.IsZero() || fy.End.IsZero()
}

// LineItem is one priced row of a billing document.
type LineItem struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	DocumentID snowflake.ID    `gorm:"not null;index" json:"-"`
	Position   int             `gorm:"not null" json:"-"`
	Name       string          `gorm:"type:text;not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Quantity   decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantity"`
	TaxCode    string          `gorm:"type:text;not null;default:'none'" json:"taxCode"`
	UM         string          `gorm:"type:text;not null;default:'none'" json:"um"`
	Code       string          `gorm:"type:text" json:"code,omitempty"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "billing_document_items" }

// TaxBreakdown is the computed money summary of a document. It is derived
// from line items, never entered by the caller.
type TaxBreakdown struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalTax   decimal.Decimal `json:"totalTax"`
	CGST       decimal.Decimal `json:"cgst"`
	SGST       decimal.Decimal `json:"sgst"`
	IGST       decimal.Decimal `json:"igst"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// Payment is the optional settlement record attached to invoices and
// purchase orders.
type Payment struct {
	Amount      decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	Mode        string          `gorm:"type:text" json:"paymentMode,omitempty"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// BillingDocument is the shared persisted shape. Within one
// (org, kind, financial year) the sequence is unique; the composite index
// below is the storage-level guard behind the duplicate pre-check.
type BillingDocument struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_billing_docs_org_kind_fy_seq,priority:1" json:"organizationId"`
	Kind     Kind         `gorm:"type:text;not null;uniqueIndex:ux_billing_docs_org_kind_fy_seq,priority:2" json:"kind"`
	Sequence int64        `gorm:"not null;uniqueIndex:ux_billing_docs_org_kind_fy_seq,priority:4" json:"sequence"`
	FYStart  time.Time    `gorm:"column:financial_year_start;not null;uniqueIndex:ux_billing_docs_org_kind_fy_seq,priority:3" json:"-"`
	FYEnd    time.Time    `gorm:"column:financial_year_end;not null" json:"-"`
	Prefix   string       `gorm:"type:text;not null;default:''" json:"prefix"`
	Num      string       `gorm:"type:text;not null;index" json:"num"`

	PartyID        snowflake.ID `gorm:"not null;index" json:"partyId"`
	BillingAddress string       `gorm:"type:text" json:"billingAddress,omitempty"`
	Description    string       `gorm:"type:text" json:"description,omitempty"`
	Status         string       `gorm:"type:text;not null" json:"status"`
	Interstate     bool         `gorm:"not null;default:false" json:"interstate"`
	Date           time.Time    `gorm:"not null" json:"date"`

	Items []LineItem `gorm:"foreignKey:DocumentID;references:ID" json:"items"`

	Total    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	TotalTax decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalTax"`
	CGST     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"cgst"`
	SGST     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"sgst"`
	IGST     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"igst"`

	Payment *Payment `gorm:"embedded;embeddedPrefix:payment_" json:"payment,omitempty"`

	// Quote only: the invoice this quote was converted into.
	ConvertedTo *snowflake.ID `gorm:"index" json:"convertedTo,omitempty"`

	CreatedBy snowflake.ID `gorm:"not null" json:"createdBy"`
	UpdatedBy snowflake.ID `json:"updatedBy,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (BillingDocument) TableName() string { return "billing_documents" }

// FinancialYear returns the numbering window stamped on the document.
func (d BillingDocument) FinancialYear() FinancialYear {
	return FinancialYear{Start: d.FYStart, End: d.FYEnd}
}

// Transaction is the ledger projection of a billing document. Its lifecycle
// is entirely derivative: created, updated and deleted in lockstep with the
// source document, inside the same database transaction.
type Transaction struct {
	ID       snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID    snowflake.ID    `gorm:"not null;index" json:"organizationId"`
	DocKind  Kind            `gorm:"type:text;not null;index;uniqueIndex:ux_transactions_doc,priority:2" json:"docKind"`
	DocID    snowflake.ID    `gorm:"not null;uniqueIndex:ux_transactions_doc,priority:1" json:"docId"`
	Num      string          `gorm:"type:text;not null" json:"num"`
	PartyID  snowflake.ID    `gorm:"not null;index" json:"partyId"`
	Total    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	TotalTax decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalTax"`
	FYStart  time.Time       `gorm:"column:financial_year_start;not null" json:"-"`
	FYEnd    time.Time       `gorm:"column:financial_year_end;not null" json:"-"`
	Date     time.Time       `gorm:"not null;index" json:"date"`

	CreatedBy snowflake.ID `gorm:"not null" json:"createdBy"`
	UpdatedBy snowflake.ID `json:"updatedBy,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }
