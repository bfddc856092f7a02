// Package sequence assigns and guards the per-kind, per-org, per-financial-
// year running numbers of billing documents.
package sequence

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/internal/billing/domain"
	"gorm.io/gorm"
)

// NextSequence returns the highest existing sequence plus one for the
// given org/kind/financial-year, or 1 when none exist. It is max-based,
// not counter-based: deleting the trailing document frees its number for
// reuse.
func NextSequence(ctx context.Context, db *gorm.DB, orgID snowflake.ID, kind domain.Kind, fy domain.FinancialYear) (int64, error) {
	var next int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(sequence), 0) + 1
		 FROM billing_documents
		 WHERE org_id = ? AND kind = ? AND financial_year_start = ?`,
		orgID,
		kind,
		fy.Start,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

// AssertNoDuplicate fails with ErrSequenceConflict when another document
// of the same org/kind/financial-year already holds the sequence. Updates
// pass the document's own ID via excludeID so a document keeps its number
// across edits.
//
// This pre-check yields the friendly error path; the storage-level unique
// index on (org, kind, financial_year_start, sequence) is what actually
// closes the race between two concurrent writers.
func AssertNoDuplicate(ctx context.Context, db *gorm.DB, orgID snowflake.ID, kind domain.Kind, fy domain.FinancialYear, seq int64, excludeID snowflake.ID) error {
	stmt := db.WithContext(ctx).
		Model(&domain.BillingDocument{}).
		Where("org_id = ? AND kind = ? AND financial_year_start = ? AND sequence = ?",
			orgID, kind, fy.Start, seq)
	if excludeID != 0 {
		stmt = stmt.Where("id <> ?", excludeID)
	}

	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrSequenceConflict
	}
	return nil
}
