package lookup

import (
	"time"

	"github.com/opticrm/backend/internal/domain/lookup"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Identity DTOs
// =============================================================================

// SourceRefResponse identifies one contributing record inside an identity
type SourceRefResponse struct {
	SourceType  string `json:"source_type"`
	ReferenceNo string `json:"reference_no"`
}

// IdentityResponse represents a merged customer identity in API responses
type IdentityResponse struct {
	PrimaryMobile     string              `json:"primary_mobile"`
	Name              string              `json:"name"`
	JobTypeLabel      string              `json:"job_type_label"`
	MergedReferenceNo string              `json:"merged_reference_no"`
	LatestDate        *time.Time          `json:"latest_date,omitempty"`
	Sources           []SourceRefResponse `json:"sources"`
	Display           DisplayCard         `json:"display"`
}

// ToIdentityResponse converts a domain identity to its API representation
func (s *LookupService) ToIdentityResponse(identity *lookup.CustomerIdentity) IdentityResponse {
	sources := make([]SourceRefResponse, 0, len(identity.Sources))
	for _, ref := range identity.Sources {
		sources = append(sources, SourceRefResponse{
			SourceType:  string(ref.Type),
			ReferenceNo: ref.ReferenceNo,
		})
	}

	resp := IdentityResponse{
		PrimaryMobile:     identity.PrimaryMobile,
		Name:              identity.Name,
		JobTypeLabel:      identity.JobTypeLabel,
		MergedReferenceNo: identity.MergedReferenceNo,
		Sources:           sources,
		Display:           s.FormatForDisplay(identity),
	}
	if !identity.LatestDate.IsZero() {
		latest := identity.LatestDate
		resp.LatestDate = &latest
	}
	return resp
}

// ToIdentityResponses converts a list of domain identities
func (s *LookupService) ToIdentityResponses(identities []*lookup.CustomerIdentity) []IdentityResponse {
	responses := make([]IdentityResponse, 0, len(identities))
	for _, identity := range identities {
		responses = append(responses, s.ToIdentityResponse(identity))
	}
	return responses
}

// =============================================================================
// Line item and billing DTOs
// =============================================================================

// LineItemResponse represents one billable line in API responses
type LineItemResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	ReferenceNo     string          `json:"reference_no"`
	ItemName        string          `json:"item_name"`
	ItemCode        string          `json:"item_code"`
	Quantity        decimal.Decimal `json:"quantity"`
	Rate            decimal.Decimal `json:"rate"`
	Amount          decimal.Decimal `json:"amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	Date            *time.Time      `json:"date,omitempty"`
	Details         lookup.Payload  `json:"details,omitempty"`
}

// ToLineItemResponse converts a domain line item
func ToLineItemResponse(line lookup.PurchaseLineItem) LineItemResponse {
	resp := LineItemResponse{
		ID:              line.ID,
		Type:            string(line.Type),
		ReferenceNo:     line.ReferenceNo,
		ItemName:        line.ItemName,
		ItemCode:        line.ItemCode,
		Quantity:        line.Quantity,
		Rate:            line.Rate,
		Amount:          line.Amount,
		DiscountPercent: line.DiscountPercent,
		DiscountAmount:  line.DiscountAmount,
		TaxPercent:      line.TaxPercent,
		Details:         line.Details,
	}
	if !line.Date.IsZero() {
		date := line.Date
		resp.Date = &date
	}
	return resp
}

// ToLineItemResponses converts a list of domain line items
func ToLineItemResponses(lines []lookup.PurchaseLineItem) []LineItemResponse {
	responses := make([]LineItemResponse, 0, len(lines))
	for _, line := range lines {
		responses = append(responses, ToLineItemResponse(line))
	}
	return responses
}

// PaymentSnapshotResponse represents reconciled payment figures
type PaymentSnapshotResponse struct {
	Estimate       decimal.Decimal `json:"estimate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AdvanceCash    decimal.Decimal `json:"advance_cash"`
	AdvanceCardUPI decimal.Decimal `json:"advance_card_upi"`
	AdvanceOther   decimal.Decimal `json:"advance_other"`
	AdvanceTotal   decimal.Decimal `json:"advance_total"`
	PaymentTotal   decimal.Decimal `json:"payment_total"`
	Balance        decimal.Decimal `json:"balance"`
	Provenance     string          `json:"provenance"`
	StoredBalance  bool            `json:"stored_balance"`
}

// RecordPaymentResponse pairs one record reference with its snapshot
type RecordPaymentResponse struct {
	SourceType  string                  `json:"source_type"`
	ReferenceNo string                  `json:"reference_no"`
	Payment     PaymentSnapshotResponse `json:"payment"`
}

// BillingDraftResponse represents an assembled billing draft
type BillingDraftResponse struct {
	Lines    []LineItemResponse      `json:"lines"`
	Payments []RecordPaymentResponse `json:"payments"`
}

// ToBillingDraftResponse converts a billing draft
func ToBillingDraftResponse(draft *BillingDraft) BillingDraftResponse {
	payments := make([]RecordPaymentResponse, 0, len(draft.Payments))
	for _, rp := range draft.Payments {
		payments = append(payments, RecordPaymentResponse{
			SourceType:  string(rp.Type),
			ReferenceNo: rp.ReferenceNo,
			Payment: PaymentSnapshotResponse{
				Estimate:       rp.Snapshot.Estimate,
				DiscountAmount: rp.Snapshot.DiscountAmount,
				AdvanceCash:    rp.Snapshot.AdvanceCash,
				AdvanceCardUPI: rp.Snapshot.AdvanceCardUPI,
				AdvanceOther:   rp.Snapshot.AdvanceOther,
				AdvanceTotal:   rp.Snapshot.AdvanceTotal,
				PaymentTotal:   rp.Snapshot.PaymentTotal,
				Balance:        rp.Snapshot.Balance,
				Provenance:     string(rp.Snapshot.Provenance),
				StoredBalance:  rp.Snapshot.HasStoredBalance(),
			},
		})
	}
	return BillingDraftResponse{
		Lines:    ToLineItemResponses(draft.Lines),
		Payments: payments,
	}
}
