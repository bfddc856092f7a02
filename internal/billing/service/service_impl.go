package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/haren2312/OptimumERP/internal/billing/gst"
	"github.com/haren2312/OptimumERP/internal/billing/sequence"
	"github.com/haren2312/OptimumERP/internal/observability/metrics"
	"github.com/haren2312/OptimumERP/internal/orgcontext"
	orgdomain "github.com/haren2312/OptimumERP/internal/organization/domain"
	partydomain "github.com/haren2312/OptimumERP/internal/party/domain"
	"github.com/haren2312/OptimumERP/internal/usercontext"
	"github.com/haren2312/OptimumERP/pkg/db"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Orgs    orgdomain.Service
	Parties partydomain.Repository
	Metrics *metrics.DocumentMetrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	orgs    orgdomain.Service
	parties partydomain.Repository
	metrics *metrics.DocumentMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("billing.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		orgs:    p.Orgs,
		parties: p.Parties,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDocumentRequest) (domain.BillingDocument, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.BillingDocument{}, domain.ErrInvalidOrganization
	}
	if !req.Kind.Valid() {
		return domain.BillingDocument{}, domain.ErrInvalidDocumentKind
	}
	if req.Sequence < 0 {
		return domain.BillingDocument{}, domain.ErrInvalidSequence
	}

	partyID, err := s.resolveParty(ctx, orgID, req.PartyID)
	if err != nil {
		return domain.BillingDocument{}, err
	}

	items, err := s.buildItems(req.Items)
	if err != nil {
		return domain.BillingDocument{}, err
	}
	breakdown, err := gst.ComputeTotals(items, req.Interstate)
	if err != nil {
		return domain.BillingDocument{}, err
	}

	status := req.Status
	if status == "" {
		status = domain.DefaultStatus(req.Kind)
	}
	if !validStatus(req.Kind, status) {
		return domain.BillingDocument{}, domain.ErrInvalidStatus
	}

	settings, fy, err := s.orgSettings(ctx)
	if err != nil {
		return domain.BillingDocument{}, err
	}
	prefix := settings.PrefixFor(string(req.Kind))

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	userID, _ := usercontext.UserIDFromContext(ctx)

	now := time.Now().UTC()
	doc := domain.BillingDocument{
		ID:             s.genID.Generate(),
		OrgID:          orgID,
		Kind:           req.Kind,
		FYStart:        fy.Start,
		FYEnd:          fy.End,
		Prefix:         prefix,
		PartyID:        partyID,
		BillingAddress: strings.TrimSpace(req.BillingAddress),
		Description:    strings.TrimSpace(req.Description),
		Status:         status,
		Interstate:     req.Interstate,
		Date:           date,
		Total:          breakdown.GrandTotal,
		TotalTax:       breakdown.TotalTax,
		CGST:           breakdown.CGST,
		SGST:           breakdown.SGST,
		IGST:           breakdown.IGST,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq := req.Sequence
		if seq == 0 {
			next, err := sequence.NextSequence(ctx, tx, orgID, req.Kind, fy)
			if err != nil {
				return err
			}
			seq = next
		}
		if err := sequence.AssertNoDuplicate(ctx, tx, orgID, req.Kind, fy, seq, 0); err != nil {
			return err
		}

		doc.Sequence = seq
		doc.Num = prefix + strconv.FormatInt(seq, 10)
		doc.Items = s.attachItems(doc.ID, items)

		if err := s.repo.Insert(ctx, tx, &doc); err != nil {
			return err
		}
		return s.repo.InsertTransaction(ctx, tx, s.projection(&doc))
	})
	if err != nil {
		if err == domain.ErrSequenceConflict || db.IsDuplicateKeyErr(err) {
			s.metrics.RecordSequenceConflict(string(req.Kind))
			return domain.BillingDocument{}, domain.ErrSequenceConflict
		}
		return domain.BillingDocument{}, err
	}

	s.metrics.RecordCreated(string(req.Kind))
	s.log.Info("document created",
		zap.String("org_id", orgID.String()),
		zap.String("doc_id", doc.ID.String()),
		zap.String("kind", string(doc.Kind)),
		zap.String("num", doc.Num),
	)
	return doc, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateDocumentRequest) (domain.BillingDocument, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.BillingDocument{}, domain.ErrInvalidOrganization
	}
	if !req.Kind.Valid() {
		return domain.BillingDocument{}, domain.ErrInvalidDocumentKind
	}
	docID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || docID == 0 {
		return domain.BillingDocument{}, domain.ErrInvalidID
	}
	if req.Sequence < 0 {
		return domain.BillingDocument{}, domain.ErrInvalidSequence
	}

	doc, err := s.repo.FindByID(ctx, s.db, orgID, req.Kind, docID)
	if err != nil {
		return domain.BillingDocument{}, err
	}
	if doc == nil {
		return domain.BillingDocument{}, domain.ErrDocumentNotFound
	}

	partyID, err := s.resolveParty(ctx, orgID, req.PartyID)
	if err != nil {
		return domain.BillingDocument{}, err
	}

	items, err := s.buildItems(req.Items)
	if err != nil {
		return domain.BillingDocument{}, err
	}
	breakdown, err := gst.ComputeTotals(items, req.Interstate)
	if err != nil {
		return domain.BillingDocument{}, err
	}

	status := req.Status
	if status == "" {
		status = doc.Status
	}
	if !validStatus(req.Kind, status) {
		return domain.BillingDocument{}, domain.ErrInvalidStatus
	}

	// The numbering window stamped at create time stays; edits never move a
	// document between financial years.
	fy := doc.FinancialYear()

	seq := req.Sequence
	if seq == 0 {
		seq = doc.Sequence
	}

	if req.Date != nil {
		doc.Date = req.Date.UTC()
	}
	userID, _ := usercontext.UserIDFromContext(ctx)

	doc.PartyID = partyID
	doc.BillingAddress = strings.TrimSpace(req.BillingAddress)
	doc.Description = strings.TrimSpace(req.Description)
	doc.Status = status
	doc.Interstate = req.Interstate
	doc.Total = breakdown.GrandTotal
	doc.TotalTax = breakdown.TotalTax
	doc.CGST = breakdown.CGST
	doc.SGST = breakdown.SGST
	doc.IGST = breakdown.IGST
	doc.UpdatedBy = userID
	doc.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := sequence.AssertNoDuplicate(ctx, tx, orgID, req.Kind, fy, seq, doc.ID); err != nil {
			return err
		}
		doc.Sequence = seq
		doc.Num = doc.Prefix + strconv.FormatInt(seq, 10)
		doc.Items = s.attachItems(doc.ID, items)

		if err := s.repo.Update(ctx, tx, doc); err != nil {
			return err
		}
		return s.repo.UpdateTransactionForDoc(ctx, tx, s.projection(doc))
	})
	if err != nil {
		if err == domain.ErrSequenceConflict || db.IsDuplicateKeyErr(err) {
			s.metrics.RecordSequenceConflict(string(req.Kind))
			return domain.BillingDocument{}, domain.ErrSequenceConflict
		}
		return domain.BillingDocument{}, err
	}
	return *doc, nil
}

func (s *Service) Delete(ctx context.Context, kind domain.Kind, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}
	if !kind.Valid() {
		return domain.ErrInvalidDocumentKind
	}
	docID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || docID == 0 {
		return domain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if kind == domain.KindInvoice {
			if err := s.repo.ClearConvertedRefs(ctx, tx, orgID, docID); err != nil {
				return err
			}
		}
		if _, err := s.repo.DeleteTransactionForDoc(ctx, tx, orgID, kind, docID); err != nil {
			return err
		}
		deleted, err := s.repo.Delete(ctx, tx, orgID, kind, docID)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrDocumentNotFound
		}
		return nil
	})
}

func (s *Service) GetByID(ctx context.Context, kind domain.Kind, id string) (domain.BillingDocument, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.BillingDocument{}, domain.ErrInvalidOrganization
	}
	if !kind.Valid() {
		return domain.BillingDocument{}, domain.ErrInvalidDocumentKind
	}
	docID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || docID == 0 {
		return domain.BillingDocument{}, domain.ErrInvalidID
	}

	doc, err := s.repo.FindByID(ctx, s.db, orgID, kind, docID)
	if err != nil {
		return domain.BillingDocument{}, err
	}
	if doc == nil {
		return domain.BillingDocument{}, domain.ErrDocumentNotFound
	}
	return *doc, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDocumentsRequest) (domain.ListDocumentsResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListDocumentsResponse{}, domain.ErrInvalidOrganization
	}
	if !req.Kind.Valid() {
		return domain.ListDocumentsResponse{}, domain.ErrInvalidDocumentKind
	}
	if req.Status != "" && !validStatus(req.Kind, req.Status) {
		return domain.ListDocumentsResponse{}, domain.ErrInvalidStatus
	}

	page := pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(req.PageSize),
	}
	if page.PageSize <= 0 {
		page.PageSize = 20
	}

	docs, err := s.repo.List(ctx, s.db, orgID, req, page)
	if err != nil {
		return domain.ListDocumentsResponse{}, err
	}

	pageInfo, docs := pagination.BuildCursorPageInfo(docs, page.PageSize, func(d *domain.BillingDocument) pagination.Cursor {
		return pagination.Cursor{
			ID:        d.ID.String(),
			CreatedAt: d.CreatedAt.Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListDocumentsResponse{PageInfo: pageInfo}
	resp.Documents = make([]domain.BillingDocument, 0, len(docs))
	for _, d := range docs {
		resp.Documents = append(resp.Documents, *d)
	}
	return resp, nil
}

func (s *Service) NextNumber(ctx context.Context, kind domain.Kind) (int64, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return 0, domain.ErrInvalidOrganization
	}
	if !kind.Valid() {
		return 0, domain.ErrInvalidDocumentKind
	}

	_, fy, err := s.orgSettings(ctx)
	if err != nil {
		return 0, err
	}
	return sequence.NextSequence(ctx, s.db, orgID, kind, fy)
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}
	if req.Kind != domain.KindInvoice && req.Kind != domain.KindPurchaseOrder {
		return domain.ErrInvalidDocumentKind
	}
	docID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || docID == 0 {
		return domain.ErrInvalidID
	}
	if !req.Amount.IsPositive() {
		return domain.ErrInvalidPayment
	}

	doc, err := s.repo.FindByID(ctx, s.db, orgID, req.Kind, docID)
	if err != nil {
		return err
	}
	if doc == nil {
		return domain.ErrDocumentNotFound
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	userID, _ := usercontext.UserIDFromContext(ctx)

	doc.Payment = &domain.Payment{
		Amount:      req.Amount,
		Mode:        strings.TrimSpace(req.Mode),
		Description: strings.TrimSpace(req.Description),
		Date:        &date,
	}
	// A payment covering the full amount settles the document.
	if req.Amount.GreaterThanOrEqual(doc.Total) {
		doc.Status = domain.StatusPaid
	}
	doc.UpdatedBy = userID
	doc.UpdatedAt = time.Now().UTC()

	return s.repo.UpdatePayment(ctx, s.db, doc)
}

func (s *Service) ConvertQuote(ctx context.Context, quoteID string) (domain.BillingDocument, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.BillingDocument{}, domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(strings.TrimSpace(quoteID))
	if err != nil || id == 0 {
		return domain.BillingDocument{}, domain.ErrInvalidID
	}

	quote, err := s.repo.FindByID(ctx, s.db, orgID, domain.KindQuote, id)
	if err != nil {
		return domain.BillingDocument{}, err
	}
	if quote == nil {
		return domain.BillingDocument{}, domain.ErrDocumentNotFound
	}
	if quote.ConvertedTo != nil {
		return domain.BillingDocument{}, domain.ErrNotConvertible
	}

	settings, fy, err := s.orgSettings(ctx)
	if err != nil {
		return domain.BillingDocument{}, err
	}
	prefix := settings.PrefixFor(string(domain.KindInvoice))
	userID, _ := usercontext.UserIDFromContext(ctx)

	now := time.Now().UTC()
	invoice := domain.BillingDocument{
		ID:             s.genID.Generate(),
		OrgID:          orgID,
		Kind:           domain.KindInvoice,
		FYStart:        fy.Start,
		FYEnd:          fy.End,
		Prefix:         prefix,
		PartyID:        quote.PartyID,
		BillingAddress: quote.BillingAddress,
		Description:    quote.Description,
		Status:         domain.DefaultStatus(domain.KindInvoice),
		Interstate:     quote.Interstate,
		Date:           now,
		Total:          quote.Total,
		TotalTax:       quote.TotalTax,
		CGST:           quote.CGST,
		SGST:           quote.SGST,
		IGST:           quote.IGST,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	items := make([]domain.LineItem, 0, len(quote.Items))
	for _, item := range quote.Items {
		item.ID = 0
		items = append(items, item)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := sequence.NextSequence(ctx, tx, orgID, domain.KindInvoice, fy)
		if err != nil {
			return err
		}
		invoice.Sequence = seq
		invoice.Num = prefix + strconv.FormatInt(seq, 10)
		invoice.Items = s.attachItems(invoice.ID, items)

		if err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			return err
		}
		if err := s.repo.InsertTransaction(ctx, tx, s.projection(&invoice)); err != nil {
			return err
		}
		return s.repo.MarkConverted(ctx, tx, orgID, quote.ID, invoice.ID)
	})
	if err != nil {
		if err == domain.ErrSequenceConflict || db.IsDuplicateKeyErr(err) {
			s.metrics.RecordSequenceConflict(string(domain.KindInvoice))
			return domain.BillingDocument{}, domain.ErrSequenceConflict
		}
		return domain.BillingDocument{}, err
	}

	s.metrics.RecordCreated(string(domain.KindInvoice))
	s.log.Info("quote converted",
		zap.String("org_id", orgID.String()),
		zap.String("quote_id", quote.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
	)
	return invoice, nil
}

func (s *Service) ListTransactions(ctx context.Context, req domain.ListTransactionsRequest) (domain.ListTransactionsResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListTransactionsResponse{}, domain.ErrInvalidOrganization
	}
	if req.DocKind != "" && !req.DocKind.Valid() {
		return domain.ListTransactionsResponse{}, domain.ErrInvalidDocumentKind
	}

	page := pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(req.PageSize),
	}
	if page.PageSize <= 0 {
		page.PageSize = 20
	}

	txns, err := s.repo.ListTransactions(ctx, s.db, orgID, req, page)
	if err != nil {
		return domain.ListTransactionsResponse{}, err
	}

	pageInfo, txns := pagination.BuildCursorPageInfo(txns, page.PageSize, func(t *domain.Transaction) pagination.Cursor {
		return pagination.Cursor{
			ID:        t.ID.String(),
			CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
		}
	})

	resp := domain.ListTransactionsResponse{PageInfo: pageInfo}
	resp.Transactions = make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		resp.Transactions = append(resp.Transactions, *t)
	}
	return resp, nil
}

func (s *Service) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.DashboardSummary{}, domain.ErrInvalidOrganization
	}

	_, fy, err := s.orgSettings(ctx)
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	rows, err := s.repo.Summarize(ctx, s.db, orgID, fy)
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	summary := domain.DashboardSummary{
		FinancialYear: fy,
		Kinds:         make(map[domain.Kind]domain.KindSummary),
	}
	for _, row := range rows {
		ks, ok := summary.Kinds[row.Kind]
		if !ok {
			ks = domain.KindSummary{ByStatus: make(map[string]int64)}
		}
		ks.Count += row.Count
		ks.Total = ks.Total.Add(row.Total)
		ks.TotalTax = ks.TotalTax.Add(row.TotalTax)
		ks.ByStatus[row.Status] += row.Count
		summary.Kinds[row.Kind] = ks
	}
	return summary, nil
}

func (s *Service) orgSettings(ctx context.Context) (orgdomain.Setting, domain.FinancialYear, error) {
	settings, err := s.orgs.GetSettings(ctx)
	if err != nil {
		if err == orgdomain.ErrNotFound || err == orgdomain.ErrInvalidID {
			return orgdomain.Setting{}, domain.FinancialYear{}, domain.ErrOrgNotFound
		}
		return orgdomain.Setting{}, domain.FinancialYear{}, err
	}
	fy := domain.FinancialYear{Start: settings.FYStart, End: settings.FYEnd}
	if fy.IsZero() {
		return orgdomain.Setting{}, domain.FinancialYear{}, domain.ErrOrgNotFound
	}
	return settings, fy, nil
}

func (s *Service) resolveParty(ctx context.Context, orgID snowflake.ID, raw string) (snowflake.ID, error) {
	partyID, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || partyID == 0 {
		return 0, domain.ErrInvalidParty
	}
	party, err := s.parties.FindByID(ctx, s.db, orgID, partyID)
	if err != nil {
		return 0, err
	}
	if party == nil {
		return 0, domain.ErrPartyNotFound
	}
	return partyID, nil
}

func (s *Service) buildItems(inputs []domain.LineItemInput) ([]domain.LineItem, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoItems
	}

	items := make([]domain.LineItem, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, domain.ErrInvalidLineItem
		}
		if in.Price.IsNegative() || in.Quantity.IsNegative() {
			return nil, domain.ErrInvalidLineItem
		}

		taxCode := in.TaxCode
		if taxCode == "" {
			taxCode = gst.TaxCodeNone
		}
		if _, ok := gst.LookupRate(taxCode); !ok {
			return nil, domain.ErrInvalidTaxCode
		}

		um := in.UM
		if um == "" {
			um = gst.UnitNone
		}
		if _, ok := gst.LookupUnit(um); !ok {
			return nil, domain.ErrInvalidUnitOfMeasure
		}

		items = append(items, domain.LineItem{
			Name:     name,
			Price:    in.Price,
			Quantity: in.Quantity,
			TaxCode:  taxCode,
			UM:       um,
			Code:     strings.TrimSpace(in.Code),
		})
	}
	return items, nil
}

// attachItems stamps fresh IDs and positions right before persisting.
func (s *Service) attachItems(docID snowflake.ID, items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for i, item := range items {
		item.ID = s.genID.Generate()
		item.DocumentID = docID
		item.Position = i
		out = append(out, item)
	}
	return out
}

func (s *Service) projection(doc *domain.BillingDocument) *domain.Transaction {
	return &domain.Transaction{
		ID:        s.genID.Generate(),
		OrgID:     doc.OrgID,
		DocKind:   doc.Kind,
		DocID:     doc.ID,
		Num:       doc.Num,
		PartyID:   doc.PartyID,
		Total:     doc.Total,
		TotalTax:  doc.TotalTax,
		FYStart:   doc.FYStart,
		FYEnd:     doc.FYEnd,
		Date:      doc.Date,
		CreatedBy: doc.CreatedBy,
		UpdatedBy: doc.UpdatedBy,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func validStatus(kind domain.Kind, status string) bool {
	for _, s := range domain.StatusesFor(kind) {
		if s == status {
			return true
		}
	}
	return false
}
