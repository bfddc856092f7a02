package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/haren2312/OptimumERP/internal/billing/domain"
	billingrepo "github.com/haren2312/OptimumERP/internal/billing/repository"
	"github.com/haren2312/OptimumERP/internal/observability/metrics"
	"github.com/haren2312/OptimumERP/internal/orgcontext"
	orgdomain "github.com/haren2312/OptimumERP/internal/organization/domain"
	orgrepo "github.com/haren2312/OptimumERP/internal/organization/repository"
	orgservice "github.com/haren2312/OptimumERP/internal/organization/service"
	partydomain "github.com/haren2312/OptimumERP/internal/party/domain"
	partyrepo "github.com/haren2312/OptimumERP/internal/party/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	orgID   snowflake.ID
	partyID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&orgdomain.Organization{},
		&orgdomain.Setting{},
		&partydomain.Party{},
		&domain.BillingDocument{},
		&domain.LineItem{},
		&domain.Transaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	orgs := orgservice.New(orgservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  orgrepo.Provide(),
	})

	org, err := orgs.Create(context.Background(), orgdomain.CreateOrganizationRequest{Name: "Acme Traders"})
	require.NoError(t, err)

	parties := partyrepo.Provide()
	partyID := node.Generate()
	require.NoError(t, db.Create(&partydomain.Party{
		ID:        partyID,
		OrgID:     org.ID,
		Name:      "Sharma Supplies",
		Type:      partydomain.PartyTypeCustomer,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}).Error)

	svc := New(Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Repo:    billingrepo.Provide(),
		Orgs:    orgs,
		Parties: parties,
		Metrics: metrics.NewDocumentMetrics(prometheus.NewRegistry()),
	})

	return &fixture{db: db, node: node, svc: svc, orgID: org.ID, partyID: partyID}
}

func (f *fixture) ctx() context.Context {
	return orgcontext.WithOrgID(context.Background(), f.orgID)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func items() []domain.LineItemInput {
	return []domain.LineItemInput{
		{Name: "Steel rods", Price: dec("100"), Quantity: dec("2"), TaxCode: "gst:18", UM: "kg"},
	}
}

func TestCreate_AssignsNextSequenceAndNum(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind:    domain.KindInvoice,
		PartyID: f.partyID.String(),
		Items:   items(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Sequence)
	assert.Equal(t, "INV-1", doc.Num)
	assert.Equal(t, domain.StatusDraft, doc.Status)

	second, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind:    domain.KindInvoice,
		PartyID: f.partyID.String(),
		Items:   items(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Sequence)
	assert.Equal(t, "INV-2", second.Num)
}

func TestCreate_ComputesLocalSplit(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind:    domain.KindInvoice,
		PartyID: f.partyID.String(),
		Items:   items(),
	})
	require.NoError(t, err)
	assert.True(t, doc.TotalTax.Equal(dec("36")), "total tax %s", doc.TotalTax)
	assert.True(t, doc.CGST.Equal(dec("18")))
	assert.True(t, doc.SGST.Equal(dec("18")))
	assert.True(t, doc.IGST.IsZero())
	assert.True(t, doc.Total.Equal(dec("236")))
}

func TestCreate_Interstate(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind:       domain.KindInvoice,
		PartyID:    f.partyID.String(),
		Items:      items(),
		Interstate: true,
	})
	require.NoError(t, err)
	assert.True(t, doc.IGST.Equal(dec("36")))
	assert.True(t, doc.CGST.IsZero())
	assert.True(t, doc.SGST.IsZero())
}

func TestCreate_DuplicateSequenceRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind:     domain.KindInvoice,
		PartyID:  f.partyID.String(),
		Sequence: 5,
		Items:    items(),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind:     domain.KindInvoice,
		PartyID:  f.partyID.String(),
		Sequence: 5,
		Items:    items(),
	})
	assert.ErrorIs(t, err, domain.ErrSequenceConflict)

	// Same number under another kind is fine.
	_, err = f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind:     domain.KindQuote,
		PartyID:  f.partyID.String(),
		Sequence: 5,
		Items:    items(),
	})
	assert.NoError(t, err)
}

func TestCreate_WritesTransactionProjection(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind:    domain.KindInvoice,
		PartyID: f.partyID.String(),
		Items:   items(),
	})
	require.NoError(t, err)

	var txn domain.Transaction
	require.NoError(t, f.db.Where("doc_id = ?", doc.ID).First(&txn).Error)
	assert.Equal(t, doc.Num, txn.Num)
	assert.Equal(t, doc.PartyID, txn.PartyID)
	assert.True(t, txn.Total.Equal(doc.Total))
	assert.True(t, txn.TotalTax.Equal(doc.TotalTax))
}

func TestCreate_InvalidInputs(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()

	_, err := f.svc.Create(ctx, domain.CreateDocumentRequest{
		Kind: "memo", PartyID: f.partyID.String(), Items: items(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentKind)

	_, err = f.svc.Create(ctx, domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrNoItems)

	_, err = f.svc.Create(ctx, domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(),
		Items: []domain.LineItemInput{{Name: "x", Price: dec("1"), Quantity: dec("1"), TaxCode: "vat:20"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTaxCode)

	_, err = f.svc.Create(ctx, domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.node.Generate().String(), Items: items(),
	})
	assert.ErrorIs(t, err, domain.ErrPartyNotFound)

	_, err = f.svc.Create(ctx, domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(), Items: items(), Status: "archived",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdate_KeepsOwnSequence(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind:    domain.KindInvoice,
		PartyID: f.partyID.String(),
		Items:   items(),
	})
	require.NoError(t, err)

	// Re-submitting the document with its own sequence must not conflict.
	updated, err := f.svc.Update(f.ctx(), domain.UpdateDocumentRequest{
		Kind:     domain.KindInvoice,
		ID:       doc.ID.String(),
		PartyID:  f.partyID.String(),
		Sequence: doc.Sequence,
		Items: []domain.LineItemInput{
			{Name: "Steel rods", Price: dec("50"), Quantity: dec("4"), TaxCode: "gst:5", UM: "kg"},
		},
		Status: domain.StatusSent,
	})
	require.NoError(t, err)
	assert.Equal(t, doc.Sequence, updated.Sequence)
	assert.Equal(t, domain.StatusSent, updated.Status)
	assert.True(t, updated.TotalTax.Equal(dec("10")), "total tax %s", updated.TotalTax)

	var txn domain.Transaction
	require.NoError(t, f.db.Where("doc_id = ?", doc.ID).First(&txn).Error)
	assert.True(t, txn.Total.Equal(updated.Total))
}

func TestUpdate_SequenceConflict(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)
	second, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)

	_, err = f.svc.Update(f.ctx(), domain.UpdateDocumentRequest{
		Kind:     domain.KindInvoice,
		ID:       second.ID.String(),
		PartyID:  f.partyID.String(),
		Sequence: first.Sequence,
		Items:    items(),
	})
	assert.ErrorIs(t, err, domain.ErrSequenceConflict)
}

func TestDelete_RemovesProjectionAndClearsQuoteRef(t *testing.T) {
	f := newFixture(t)

	quote, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindQuote, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)

	invoice, err := f.svc.ConvertQuote(f.ctx(), quote.ID.String())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx(), domain.KindInvoice, invoice.ID.String()))

	var count int64
	require.NoError(t, f.db.Model(&domain.Transaction{}).Where("doc_id = ?", invoice.ID).Count(&count).Error)
	assert.Zero(t, count)

	reloaded, err := f.svc.GetByID(f.ctx(), domain.KindQuote, quote.ID.String())
	require.NoError(t, err)
	assert.Nil(t, reloaded.ConvertedTo)
}

func TestConvertQuote(t *testing.T) {
	f := newFixture(t)

	quote, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindQuote, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)

	invoice, err := f.svc.ConvertQuote(f.ctx(), quote.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.KindInvoice, invoice.Kind)
	assert.Equal(t, "INV-1", invoice.Num)
	assert.True(t, invoice.Total.Equal(quote.Total))
	assert.Len(t, invoice.Items, len(quote.Items))

	reloaded, err := f.svc.GetByID(f.ctx(), domain.KindQuote, quote.ID.String())
	require.NoError(t, err)
	require.NotNil(t, reloaded.ConvertedTo)
	assert.Equal(t, invoice.ID, *reloaded.ConvertedTo)
	assert.Equal(t, domain.StatusAccepted, reloaded.Status)

	// A quote converts once.
	_, err = f.svc.ConvertQuote(f.ctx(), quote.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotConvertible)
}

func TestConvertQuote_SecondWriterLosesAtTheStore(t *testing.T) {
	f := newFixture(t)

	quote, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindQuote, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)

	invoice, err := f.svc.ConvertQuote(f.ctx(), quote.ID.String())
	require.NoError(t, err)

	// A writer that read the quote before the first conversion committed
	// lands on the guarded update and must match zero rows.
	err = billingrepo.Provide().MarkConverted(f.ctx(), f.db, f.orgID, quote.ID, f.node.Generate())
	assert.ErrorIs(t, err, domain.ErrNotConvertible)

	reloaded, err := f.svc.GetByID(f.ctx(), domain.KindQuote, quote.ID.String())
	require.NoError(t, err)
	require.NotNil(t, reloaded.ConvertedTo)
	assert.Equal(t, invoice.ID, *reloaded.ConvertedTo)
}

func TestCreate_ConcurrentSameSequence(t *testing.T) {
	f := newFixture(t)

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
				Kind:     domain.KindInvoice,
				PartyID:  f.partyID.String(),
				Sequence: 7,
				Items:    items(),
			})
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrSequenceConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, writers-1, conflicts)
}

func TestRecordPayment_SettlesDocument(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)

	err = f.svc.RecordPayment(f.ctx(), domain.RecordPaymentRequest{
		Kind:   domain.KindInvoice,
		ID:     doc.ID.String(),
		Amount: doc.Total,
		Mode:   "upi",
	})
	require.NoError(t, err)

	reloaded, err := f.svc.GetByID(f.ctx(), domain.KindInvoice, doc.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, reloaded.Status)
	require.NotNil(t, reloaded.Payment)
	assert.True(t, reloaded.Payment.Amount.Equal(doc.Total))

	err = f.svc.RecordPayment(f.ctx(), domain.RecordPaymentRequest{
		Kind: domain.KindQuote, ID: doc.ID.String(), Amount: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentKind)
}

func TestNextNumber(t *testing.T) {
	f := newFixture(t)

	next, err := f.svc.NextNumber(f.ctx(), domain.KindInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	_, err = f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)

	next, err = f.svc.NextNumber(f.ctx(), domain.KindInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)
}

func TestListTransactions(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindQuote, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)

	all, err := f.svc.ListTransactions(f.ctx(), domain.ListTransactionsRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Transactions, 2)

	invoicesOnly, err := f.svc.ListTransactions(f.ctx(), domain.ListTransactionsRequest{DocKind: domain.KindInvoice})
	require.NoError(t, err)
	assert.Len(t, invoicesOnly.Transactions, 1)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(), Items: items(),
	})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx(), domain.CreateDocumentRequest{
		Kind: domain.KindInvoice, PartyID: f.partyID.String(), Items: items(), Status: domain.StatusSent,
	})
	require.NoError(t, err)

	summary, err := f.svc.Summary(f.ctx())
	require.NoError(t, err)

	invoices := summary.Kinds[domain.KindInvoice]
	assert.Equal(t, int64(2), invoices.Count)
	assert.True(t, invoices.Total.Equal(dec("472")), "total %s", invoices.Total)
	assert.Equal(t, int64(1), invoices.ByStatus[domain.StatusDraft])
	assert.Equal(t, int64(1), invoices.ByStatus[domain.StatusSent])
}
