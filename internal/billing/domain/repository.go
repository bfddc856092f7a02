package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, doc *BillingDocument) error
	Update(ctx context.Context, db *gorm.DB, doc *BillingDocument) error
	Delete(ctx context.Context, db *gorm.DB, orgID snowflake.ID, kind Kind, id snowflake.ID) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, orgID snowflake.ID, kind Kind, id snowflake.ID) (*BillingDocument, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, req ListDocumentsRequest, page pagination.Pagination) ([]*BillingDocument, error)

	InsertTransaction(ctx context.Context, db *gorm.DB, txn *Transaction) error
	UpdateTransactionForDoc(ctx context.Context, db *gorm.DB, txn *Transaction) error
	DeleteTransactionForDoc(ctx context.Context, db *gorm.DB, orgID snowflake.ID, kind Kind, docID snowflake.ID) (bool, error)
	ListTransactions(ctx context.Context, db *gorm.DB, orgID snowflake.ID, req ListTransactionsRequest, page pagination.Pagination) ([]*Transaction, error)

	// ClearConvertedRefs nulls quote conversion pointers referencing a
	// deleted invoice.
	ClearConvertedRefs(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) error

	// UpdatePayment writes only the payment sub-record and status of a
	// document, leaving items and totals untouched.
	UpdatePayment(ctx context.Context, db *gorm.DB, doc *BillingDocument) error

	// MarkConverted points a quote at the invoice created from it and
	// flips its status to accepted. It only matches quotes that have not
	// been converted yet and returns ErrNotConvertible otherwise.
	MarkConverted(ctx context.Context, db *gorm.DB, orgID, quoteID, invoiceID snowflake.ID) error

	// Summarize groups documents of one financial year by kind and status.
	Summarize(ctx context.Context, db *gorm.DB, orgID snowflake.ID, fy FinancialYear) ([]KindStatusAggregate, error)
}
