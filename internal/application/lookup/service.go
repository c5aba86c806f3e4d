package lookup

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/opticrm/backend/internal/domain/lookup"
	"github.com/opticrm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Result-assembler caps: the consuming UI shows a short candidate list and a
// scrollable history, not unbounded result sets.
const (
	maxSearchResults = 50
	maxHistoryLines  = 200
)

// LookupService exposes the read-side engine: free-text customer search,
// mobile-number purchase history and billing-draft assembly across the three
// record stores.
type LookupService struct {
	store  lookup.Store
	logger *zap.Logger
}

// NewLookupService creates a new LookupService
func NewLookupService(store lookup.Store, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{
		store:  store,
		logger: logger.Named("lookup"),
	}
}

// Search resolves a free-text term into merged customer identities.
//
// The three source fetchers run concurrently and are joined before the merge
// pass. A failing fetcher contributes an empty list; the call as a whole
// fails only when all three fetchers fail. An empty term short-circuits to an
// empty result without touching any store.
func (s *LookupService) Search(ctx context.Context, term string) ([]*lookup.CustomerIdentity, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*lookup.CustomerIdentity{}, nil
	}

	var (
		wg            sync.WaitGroup
		prescriptions fetchResult
		lenses        fetchResult
		orders        fetchResult
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		prescriptions = s.fetchPrescriptions(ctx, term, s.store.FindPrescriptionsByText)
	}()
	go func() {
		defer wg.Done()
		lenses = s.fetchContactLens(ctx, term, s.store.FindContactLensByText)
	}()
	go func() {
		defer wg.Done()
		orders = s.fetchOrders(ctx, term, s.store.FindOrdersByText)
	}()
	wg.Wait()

	if prescriptions.failed && lenses.failed && orders.failed {
		return nil, shared.ErrSearchFailed
	}

	records := joinRecords(prescriptions.records, lenses.records, orders.records)
	identities := lookup.MergeIdentities(records)
	if len(identities) > maxSearchResults {
		identities = identities[:maxSearchResults]
	}
	return identities, nil
}

// GetPurchaseHistory returns the flattened, billable line items for one
// customer, newest first. Fetch failures degrade to an empty contribution
// from that store; only an empty or digit-free mobile argument is an error.
func (s *LookupService) GetPurchaseHistory(ctx context.Context, mobile string) ([]lookup.PurchaseLineItem, error) {
	records, err := s.fetchHistoryRecords(ctx, mobile)
	if err != nil {
		return nil, err
	}

	var lines []lookup.PurchaseLineItem
	for _, rec := range records {
		lines = append(lines, lookup.ExpandRecord(rec)...)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Date.After(lines[j].Date)
	})
	if len(lines) > maxHistoryLines {
		lines = lines[:maxHistoryLines]
	}
	return lines, nil
}

// RecordPayment pairs one source record with its reconciled payment snapshot
type RecordPayment struct {
	Type        lookup.SourceType
	ReferenceNo string
	Snapshot    lookup.PaymentSnapshot
}

// BillingDraft is the auto-populated starting point for a new bill: every
// billable line from the customer's history plus a reconciled payment
// snapshot per contributing record.
type BillingDraft struct {
	Lines    []lookup.PurchaseLineItem
	Payments []RecordPayment
}

// GetBillingDraft assembles a billing draft for one customer. Each record's
// payment figures are reconciled against its own expanded lines, so loaded
// values arrive tagged DATABASE_VALUES and stay protected from incidental
// recomputation downstream.
func (s *LookupService) GetBillingDraft(ctx context.Context, mobile string) (*BillingDraft, error) {
	records, err := s.fetchHistoryRecords(ctx, mobile)
	if err != nil {
		return nil, err
	}

	draft := &BillingDraft{}
	for _, rec := range records {
		lines := lookup.ExpandRecord(rec)
		if len(lines) == 0 {
			continue
		}
		draft.Lines = append(draft.Lines, lines...)
		draft.Payments = append(draft.Payments, RecordPayment{
			Type:        rec.Type,
			ReferenceNo: rec.ReferenceNo,
			Snapshot:    lookup.ReconcilePayment(rec.Payment, lines),
		})
	}

	sort.SliceStable(draft.Lines, func(i, j int) bool {
		return draft.Lines[i].Date.After(draft.Lines[j].Date)
	})
	return draft, nil
}

// DisplayCard is the formatted identity shape the search UI renders
type DisplayCard struct {
	Label      string `json:"label"`
	SubLabel   string `json:"sub_label"`
	SourceType string `json:"source_type"`
}

// FormatForDisplay formats one identity for the search result list.
// Pure formatting, no I/O.
func (s *LookupService) FormatForDisplay(identity *lookup.CustomerIdentity) DisplayCard {
	subLabel := identity.PrimaryMobile
	if identity.MergedReferenceNo != "" {
		subLabel += " | " + identity.MergedReferenceNo
	}
	return DisplayCard{
		Label:      identity.Name,
		SubLabel:   subLabel,
		SourceType: identity.JobTypeLabel,
	}
}

// fetchHistoryRecords validates the mobile argument, fans out over the three
// by-mobile fetchers and joins the results in stable ingestion order,
// deduplicated so the same record never expands twice.
func (s *LookupService) fetchHistoryRecords(ctx context.Context, mobile string) ([]lookup.SourceRecord, error) {
	normalized := lookup.NormalizeMobile(mobile)
	if normalized == "" || !strings.ContainsAny(normalized, "0123456789") {
		return nil, shared.ErrInvalidMobile
	}

	var (
		wg            sync.WaitGroup
		prescriptions fetchResult
		lenses        fetchResult
		orders        fetchResult
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		prescriptions = s.fetchPrescriptions(ctx, normalized, s.store.FindPrescriptionsByMobile)
	}()
	go func() {
		defer wg.Done()
		lenses = s.fetchContactLens(ctx, normalized, s.store.FindContactLensByMobile)
	}()
	go func() {
		defer wg.Done()
		orders = s.fetchOrders(ctx, normalized, s.store.FindOrdersByMobile)
	}()
	wg.Wait()

	return dedupeRecords(joinRecords(prescriptions.records, lenses.records, orders.records)), nil
}

type fetchResult struct {
	records []lookup.SourceRecord
	failed  bool
}

func (s *LookupService) fetchOrders(ctx context.Context, arg string, find func(context.Context, string) ([]lookup.RawOrder, error)) fetchResult {
	raws, err := find(ctx, arg)
	if err != nil {
		s.logger.Warn("order fetch failed", zap.String("arg", arg), zap.Error(err))
		return fetchResult{failed: true}
	}
	records := make([]lookup.SourceRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, lookup.NormalizeOrder(raw))
	}
	return fetchResult{records: records}
}

func (s *LookupService) fetchContactLens(ctx context.Context, arg string, find func(context.Context, string) ([]lookup.RawContactLens, error)) fetchResult {
	raws, err := find(ctx, arg)
	if err != nil {
		s.logger.Warn("contact lens fetch failed", zap.String("arg", arg), zap.Error(err))
		return fetchResult{failed: true}
	}
	records := make([]lookup.SourceRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, lookup.NormalizeContactLens(raw))
	}
	return fetchResult{records: records}
}

func (s *LookupService) fetchPrescriptions(ctx context.Context, arg string, find func(context.Context, string) ([]lookup.RawPrescription, error)) fetchResult {
	raws, err := find(ctx, arg)
	if err != nil {
		s.logger.Warn("prescription fetch failed", zap.String("arg", arg), zap.Error(err))
		return fetchResult{failed: true}
	}
	records := make([]lookup.SourceRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, lookup.NormalizePrescription(raw))
	}
	return fetchResult{records: records}
}

// joinRecords concatenates fetch results in the engine's stable ingestion
// order: prescriptions, then contact lenses, then orders.
func joinRecords(prescriptions, lenses, orders []lookup.SourceRecord) []lookup.SourceRecord {
	records := make([]lookup.SourceRecord, 0, len(prescriptions)+len(lenses)+len(orders))
	records = append(records, prescriptions...)
	records = append(records, lenses...)
	records = append(records, orders...)
	return records
}

// dedupeRecords keeps the first occurrence per (sourceType, referenceNo) so a
// record surfaced by both of a fetcher's sub-queries, or by two fetch passes,
// contributes at most once. Records without a reference number fall back to
// their store ID as the key.
func dedupeRecords(records []lookup.SourceRecord) []lookup.SourceRecord {
	type key struct {
		sourceType lookup.SourceType
		ref        string
	}
	seen := make(map[key]struct{}, len(records))
	deduped := records[:0]
	for _, rec := range records {
		k := key{sourceType: rec.Type, ref: rec.ReferenceNo}
		if k.ref == "" {
			k.ref = "id:" + rec.ID
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		deduped = append(deduped, rec)
	}
	return deduped
}
