package lookup

import "github.com/shopspring/decimal"

// Provenance tags where a snapshot's figures came from. It governs whether
// automatic recomputation is allowed: values loaded from a store are
// authoritative and must not be overwritten by incidental recomputes.
type Provenance string

const (
	ProvenanceInitial   Provenance = "INITIAL"
	ProvenanceUserInput Provenance = "USER_INPUT"
	ProvenanceDatabase  Provenance = "DATABASE_VALUES"
)

// RecomputeTrigger distinguishes explicit user edits (add/remove item, rate
// or discount change, apply discount) from incidental triggers such as
// re-renders or unrelated field changes.
type RecomputeTrigger int

const (
	TriggerIncidental RecomputeTrigger = iota
	TriggerUserEdit
)

// Payment field alias precedence lists. The stores accumulated several
// generations of advance fields; the chains below are the documented
// resolution order.
var (
	combinedAdvanceKeys = []string{"advance"}

	// legacy itemized triad
	advanceCashKeys    = []string{"advance_cash"}
	advanceCardUPIKeys = []string{"advance_card_upi"}
	advanceOtherKeys   = []string{"advance_other"}

	// newer itemized fields
	cashAdvanceKeys    = []string{"cash_advance"}
	cardUPIAdvanceKeys = []string{"card_upi_advance"}
	chequeAdvanceKeys  = []string{"cheque_advance"}

	estimateKeys      = []string{"estimate"}
	paymentBalanceKey = []string{"balance"}
)

// paidAliasChains lists every advance-bearing field that feeds the additive
// "total paid" display aggregate. Some payloads populate only the legacy
// triad and others only the newer fields, so the sum runs across all of them.
// If a record ever populated both representations for the same underlying
// payment this would double count; the stores have not been observed to do
// that, and the behavior is kept as-is rather than guessed at.
var paidAliasChains = [][]string{
	combinedAdvanceKeys,
	cashAdvanceKeys,
	cardUPIAdvanceKeys,
	chequeAdvanceKeys,
	advanceCashKeys,
	advanceCardUPIKeys,
	advanceOtherKeys,
}

// PaymentSnapshot is the reconciled, consistent view of one record's payment
// figures. Balance is never negative unless the store supplied it verbatim.
type PaymentSnapshot struct {
	Estimate       decimal.Decimal
	DiscountAmount decimal.Decimal
	AdvanceCash    decimal.Decimal
	AdvanceCardUPI decimal.Decimal
	AdvanceOther   decimal.Decimal
	AdvanceTotal   decimal.Decimal
	PaymentTotal   decimal.Decimal
	Balance        decimal.Decimal
	Provenance     Provenance

	storedBalance bool
}

// NewPaymentSnapshot returns an empty snapshot in the INITIAL state, used
// before any store load or user edit has happened.
func NewPaymentSnapshot() PaymentSnapshot {
	return PaymentSnapshot{Provenance: ProvenanceInitial}
}

// HasStoredBalance reports whether the balance came from the store verbatim
func (s *PaymentSnapshot) HasStoredBalance() bool {
	return s.storedBalance
}

// NetPayable is the estimate after discount, floored at zero
func (s *PaymentSnapshot) NetPayable() decimal.Decimal {
	return clampNonNegative(s.Estimate.Sub(s.DiscountAmount))
}

// ReconcilePayment resolves one record's payment object (possibly nil) and
// its expanded line items into a single consistent snapshot. The resolution
// chains are strict precedence: a later branch is tried only when every field
// of the earlier branch is entirely absent, so a stored zero is respected.
func ReconcilePayment(payment Payload, items []PurchaseLineItem) PaymentSnapshot {
	if payment == nil {
		payment = Payload{}
	}

	snapshot := PaymentSnapshot{Provenance: ProvenanceDatabase}

	snapshot.AdvanceCash = payment.NumberOr(decimal.Zero, advanceCashKeys...)
	snapshot.AdvanceCardUPI = payment.NumberOr(decimal.Zero, advanceCardUPIKeys...)
	snapshot.AdvanceOther = payment.NumberOr(decimal.Zero, advanceOtherKeys...)
	snapshot.AdvanceTotal = resolveAdvance(payment, items)

	snapshot.Estimate = resolveEstimate(payment, items)
	snapshot.DiscountAmount = resolveRecordDiscount(payment, snapshot.Estimate)
	snapshot.PaymentTotal = totalPaid(payment)

	if stored, ok := payment.Number(paymentBalanceKey...); ok {
		// The store's balance (e.g. a generated column) is authoritative,
		// even when it disagrees with the local computation.
		snapshot.Balance = stored
		snapshot.storedBalance = true
	} else {
		snapshot.Balance = clampNonNegative(snapshot.NetPayable().Sub(snapshot.AdvanceTotal))
	}

	return snapshot
}

// resolveAdvance applies the advance precedence chain: a combined positive
// advance wins, then the itemized triad when any of its fields is present,
// then a line-level advance.
func resolveAdvance(payment Payload, items []PurchaseLineItem) decimal.Decimal {
	if combined, ok := payment.Number(combinedAdvanceKeys...); ok && combined.IsPositive() {
		return combined
	}

	_, hasCash := payment.Number(advanceCashKeys...)
	_, hasCard := payment.Number(advanceCardUPIKeys...)
	_, hasOther := payment.Number(advanceOtherKeys...)
	if hasCash || hasCard || hasOther {
		return payment.NumberOr(decimal.Zero, advanceCashKeys...).
			Add(payment.NumberOr(decimal.Zero, advanceCardUPIKeys...)).
			Add(payment.NumberOr(decimal.Zero, advanceOtherKeys...))
	}

	sum := decimal.Zero
	found := false
	for _, item := range items {
		if lineAdvance, ok := item.Details.Number(combinedAdvanceKeys...); ok {
			sum = sum.Add(lineAdvance)
			found = true
		}
	}
	if found {
		return sum
	}
	return decimal.Zero
}

// resolveEstimate prefers the explicit estimate, else derives the
// pre-discount sum of quantity*rate across the record's lines.
func resolveEstimate(payment Payload, items []PurchaseLineItem) decimal.Decimal {
	if explicit, ok := payment.Number(estimateKeys...); ok {
		return explicit
	}
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Quantity.Mul(item.Rate))
	}
	return sum
}

// resolveRecordDiscount prefers the explicit amount, else derives from the
// percent against the pre-discount estimate.
func resolveRecordDiscount(payment Payload, estimate decimal.Decimal) decimal.Decimal {
	if explicit, ok := payment.Number(discountAmtKeys...); ok {
		return clampNonNegative(explicit)
	}
	percent := payment.NumberOr(decimal.Zero, discountPctKeys...)
	if percent.IsZero() {
		return decimal.Zero
	}
	return clampNonNegative(estimate.Mul(percent).Div(decimal.NewFromInt(100)))
}

// totalPaid is the additive display aggregate across every known
// advance-bearing field.
func totalPaid(payment Payload) decimal.Decimal {
	sum := decimal.Zero
	for _, chain := range paidAliasChains {
		sum = sum.Add(payment.NumberOr(decimal.Zero, chain...))
	}
	return sum
}

// Recompute re-derives the snapshot's totals from the current line items.
//
// The provenance state machine guards store-loaded values: while provenance
// is DATABASE_VALUES, incidental triggers leave the snapshot untouched. An
// explicit user edit always flips provenance to USER_INPUT and recomputes;
// once there, every subsequent recompute runs. Nothing returns the snapshot
// to DATABASE_VALUES except a fresh ReconcilePayment.
func (s *PaymentSnapshot) Recompute(items []PurchaseLineItem, trigger RecomputeTrigger) {
	if s.Provenance == ProvenanceDatabase && trigger != TriggerUserEdit {
		return
	}
	if trigger == TriggerUserEdit {
		s.Provenance = ProvenanceUserInput
	}

	estimate := decimal.Zero
	discount := decimal.Zero
	for _, item := range items {
		estimate = estimate.Add(item.Quantity.Mul(item.Rate))
		discount = discount.Add(item.DiscountAmount)
	}

	s.Estimate = estimate
	s.DiscountAmount = discount
	s.storedBalance = false
	s.Balance = clampNonNegative(s.NetPayable().Sub(s.AdvanceTotal))
}
