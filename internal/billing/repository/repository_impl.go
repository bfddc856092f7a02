package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, doc *domain.BillingDocument) error {
	return db.WithContext(ctx).Create(doc).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, doc *domain.BillingDocument) error {
	tx := db.WithContext(ctx)

	// Items are replaced wholesale; the submitted order is the stored order.
	if err := tx.Where("document_id = ?", doc.ID).Delete(&domain.LineItem{}).Error; err != nil {
		return err
	}

	result := tx.Model(&domain.BillingDocument{}).
		Where("id = ? AND org_id = ?", doc.ID, doc.OrgID).
		Select("party_id", "sequence", "num", "prefix", "status", "interstate", "date",
			"billing_address", "description", "total", "total_tax", "cgst", "sgst", "igst",
			"updated_by", "updated_at").
		Updates(doc)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDocumentNotFound
	}

	if len(doc.Items) > 0 {
		if err := tx.Create(&doc.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID snowflake.ID, kind domain.Kind, id snowflake.ID) (bool, error) {
	tx := db.WithContext(ctx)
	if err := tx.Where("document_id = ?", id).Delete(&domain.LineItem{}).Error; err != nil {
		return false, err
	}
	result := tx.Where("id = ? AND org_id = ? AND kind = ?", id, orgID, kind).
		Delete(&domain.BillingDocument{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID snowflake.ID, kind domain.Kind, id snowflake.ID) (*domain.BillingDocument, error) {
	var doc domain.BillingDocument
	err := db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Where("id = ? AND org_id = ? AND kind = ?", id, orgID, kind).
		First(&doc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, req domain.ListDocumentsRequest, page pagination.Pagination) ([]*domain.BillingDocument, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.BillingDocument{}).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Where("org_id = ? AND kind = ?", orgID, req.Kind)

	if req.Status != "" {
		stmt = stmt.Where("status = ?", req.Status)
	}
	if req.PartyID != "" {
		stmt = stmt.Where("party_id = ?", req.PartyID)
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		stmt = stmt.Where("num LIKE ? OR description LIKE ?", like, like)
	}
	if req.DateFrom != nil {
		stmt = stmt.Where("date >= ?", *req.DateFrom)
	}
	if req.DateTo != nil {
		stmt = stmt.Where("date <= ?", *req.DateTo)
	}

	stmt = applyCursor(stmt, page)

	var docs []*domain.BillingDocument
	err := stmt.
		Order("created_at desc, id desc").
		Limit(page.PageSize + 1).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *repo) InsertTransaction(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Create(txn).Error
}

func (r *repo) UpdateTransactionForDoc(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	result := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("org_id = ? AND doc_kind = ? AND doc_id = ?", txn.OrgID, txn.DocKind, txn.DocID).
		Select("num", "party_id", "total", "total_tax", "date", "updated_by", "updated_at").
		Updates(txn)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *repo) DeleteTransactionForDoc(ctx context.Context, db *gorm.DB, orgID snowflake.ID, kind domain.Kind, docID snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).
		Where("org_id = ? AND doc_kind = ? AND doc_id = ?", orgID, kind, docID).
		Delete(&domain.Transaction{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) ListTransactions(ctx context.Context, db *gorm.DB, orgID snowflake.ID, req domain.ListTransactionsRequest, page pagination.Pagination) ([]*domain.Transaction, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("org_id = ?", orgID)

	if req.DocKind != "" {
		stmt = stmt.Where("doc_kind = ?", req.DocKind)
	}
	if req.PartyID != "" {
		stmt = stmt.Where("party_id = ?", req.PartyID)
	}
	if req.DateFrom != nil {
		stmt = stmt.Where("date >= ?", *req.DateFrom)
	}
	if req.DateTo != nil {
		stmt = stmt.Where("date <= ?", *req.DateTo)
	}

	stmt = applyCursor(stmt, page)

	var txns []*domain.Transaction
	err := stmt.
		Order("created_at desc, id desc").
		Limit(page.PageSize + 1).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repo) ClearConvertedRefs(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.BillingDocument{}).
		Where("org_id = ? AND kind = ? AND converted_to = ?", orgID, domain.KindQuote, invoiceID).
		Update("converted_to", nil).Error
}

func (r *repo) UpdatePayment(ctx context.Context, db *gorm.DB, doc *domain.BillingDocument) error {
	result := db.WithContext(ctx).
		Model(&domain.BillingDocument{}).
		Where("id = ? AND org_id = ? AND kind = ?", doc.ID, doc.OrgID, doc.Kind).
		Select("payment_amount", "payment_mode", "payment_description", "payment_date",
			"status", "updated_by", "updated_at").
		Updates(doc)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *repo) MarkConverted(ctx context.Context, db *gorm.DB, orgID, quoteID, invoiceID snowflake.ID) error {
	// The IS NULL predicate is the real one-shot guard: a second writer that
	// raced past the service pre-check matches zero rows here.
	result := db.WithContext(ctx).
		Model(&domain.BillingDocument{}).
		Where("id = ? AND org_id = ? AND kind = ? AND converted_to IS NULL", quoteID, orgID, domain.KindQuote).
		Updates(map[string]any{
			"converted_to": invoiceID,
			"status":       domain.StatusAccepted,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotConvertible
	}
	return nil
}

func (r *repo) Summarize(ctx context.Context, db *gorm.DB, orgID snowflake.ID, fy domain.FinancialYear) ([]domain.KindStatusAggregate, error) {
	var rows []domain.KindStatusAggregate
	err := db.WithContext(ctx).
		Model(&domain.BillingDocument{}).
		Select("kind, status, COUNT(*) AS count, SUM(total) AS total, SUM(total_tax) AS total_tax").
		Where("org_id = ? AND financial_year_start = ?", orgID, fy.Start).
		Group("kind, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func applyCursor(stmt *gorm.DB, page pagination.Pagination) *gorm.DB {
	if page.PageToken == "" {
		return stmt
	}
	cursor, err := pagination.DecodeCursor(page.PageToken)
	if err != nil || cursor == nil {
		return stmt
	}
	createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
	if err != nil {
		return stmt
	}
	id, err := snowflake.ParseString(cursor.ID)
	if err != nil {
		return stmt
	}
	return stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
}
