package sequence

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.BillingDocument{}, &domain.LineItem{}))
	return db
}

func fy2024() domain.FinancialYear {
	return domain.FinancialYear{
		Start: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func seedDoc(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID snowflake.ID, kind domain.Kind, fy domain.FinancialYear, seq int64) domain.BillingDocument {
	t.Helper()
	doc := domain.BillingDocument{
		ID:        node.Generate(),
		OrgID:     orgID,
		Kind:      kind,
		Sequence:  seq,
		FYStart:   fy.Start,
		FYEnd:     fy.End,
		Num:       "INV-",
		PartyID:   node.Generate(),
		Status:    domain.StatusDraft,
		Date:      fy.Start,
		CreatedBy: node.Generate(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&doc).Error)
	return doc
}

func TestNextSequence_Empty(t *testing.T) {
	db := testDB(t)
	node, _ := snowflake.NewNode(1)
	next, err := NextSequence(context.Background(), db, node.Generate(), domain.KindInvoice, fy2024())
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestNextSequence_MaxBased(t *testing.T) {
	db := testDB(t)
	node, _ := snowflake.NewNode(1)
	orgID := node.Generate()
	fy := fy2024()

	seedDoc(t, db, node, orgID, domain.KindInvoice, fy, 1)
	seedDoc(t, db, node, orgID, domain.KindInvoice, fy, 2)
	third := seedDoc(t, db, node, orgID, domain.KindInvoice, fy, 3)

	next, err := NextSequence(context.Background(), db, orgID, domain.KindInvoice, fy)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)

	// Deleting the trailing document frees its number.
	require.NoError(t, db.Delete(&domain.BillingDocument{}, "id = ?", third.ID).Error)
	next, err = NextSequence(context.Background(), db, orgID, domain.KindInvoice, fy)
	require.NoError(t, err)
	assert.Equal(t, int64(3), next)
}

func TestNextSequence_ScopedByKindOrgAndYear(t *testing.T) {
	db := testDB(t)
	node, _ := snowflake.NewNode(1)
	orgID := node.Generate()
	fy := fy2024()

	seedDoc(t, db, node, orgID, domain.KindInvoice, fy, 5)
	seedDoc(t, db, node, orgID, domain.KindQuote, fy, 9)
	seedDoc(t, db, node, node.Generate(), domain.KindInvoice, fy, 40)

	otherFY := domain.FinancialYear{
		Start: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	next, err := NextSequence(context.Background(), db, orgID, domain.KindInvoice, fy)
	require.NoError(t, err)
	assert.Equal(t, int64(6), next)

	next, err = NextSequence(context.Background(), db, orgID, domain.KindInvoice, otherFY)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestAssertNoDuplicate(t *testing.T) {
	db := testDB(t)
	node, _ := snowflake.NewNode(1)
	orgID := node.Generate()
	fy := fy2024()

	existing := seedDoc(t, db, node, orgID, domain.KindInvoice, fy, 2)

	err := AssertNoDuplicate(context.Background(), db, orgID, domain.KindInvoice, fy, 2, 0)
	assert.ErrorIs(t, err, domain.ErrSequenceConflict)

	// A document keeps its own number across edits.
	err = AssertNoDuplicate(context.Background(), db, orgID, domain.KindInvoice, fy, 2, existing.ID)
	assert.NoError(t, err)

	err = AssertNoDuplicate(context.Background(), db, orgID, domain.KindInvoice, fy, 3, 0)
	assert.NoError(t, err)

	// Other kinds and years do not collide.
	err = AssertNoDuplicate(context.Background(), db, orgID, domain.KindQuote, fy, 2, 0)
	assert.NoError(t, err)
}

func TestUniqueIndexClosesTheRace(t *testing.T) {
	db := testDB(t)
	node, _ := snowflake.NewNode(1)
	orgID := node.Generate()
	fy := fy2024()

	seedDoc(t, db, node, orgID, domain.KindInvoice, fy, 7)

	dup := domain.BillingDocument{
		ID:        node.Generate(),
		OrgID:     orgID,
		Kind:      domain.KindInvoice,
		Sequence:  7,
		FYStart:   fy.Start,
		FYEnd:     fy.End,
		Num:       "INV-7",
		PartyID:   node.Generate(),
		Status:    domain.StatusDraft,
		Date:      fy.Start,
		CreatedBy: node.Generate(),
	}
	err := db.Create(&dup).Error
	assert.Error(t, err)
}
