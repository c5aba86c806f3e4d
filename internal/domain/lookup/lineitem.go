package lookup

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item-level alias precedence lists, same contract as the record-level ones.
var (
	itemNameKeys    = []string{"item_name", "product_name", "name"}
	itemCodeKeys    = []string{"item_code", "product_code", "code"}
	quantityKeys    = []string{"quantity", "qty"}
	rateKeys        = []string{"rate", "unit_price", "price"}
	amountKeys      = []string{"amount", "total"}
	discountAmtKeys = []string{"discount_amount"}
	discountPctKeys = []string{"discount_percent", "discount_pct"}
	taxKeys         = []string{"tax_percent", "gst_percent"}

	brandKeys    = []string{"brand", "brand_name"}
	materialKeys = []string{"material", "lens_material"}
	powerKeys    = []string{"power", "lens_power", "sph"}
	sideKeys     = []string{"side", "eye", "eye_side"}

	examFeeKeys  = []string{"exam_fee", "fee", "amount"}
	billableKeys = []string{"is_billable", "billable"}
)

var quantityDefault = decimal.NewFromInt(1)

// PurchaseLineItem is one billable row derived from a source record's nested
// items, flattened into the uniform shape the billing UI consumes.
// Amount is never negative.
type PurchaseLineItem struct {
	ID              string
	Type            SourceType
	ReferenceNo     string
	ItemName        string
	ItemCode        string
	Quantity        decimal.Decimal
	Rate            decimal.Decimal
	Amount          decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxPercent      decimal.Decimal
	Date            time.Time
	Details         Payload
}

// ExpandRecord flattens a source record's nested child rows into line items.
// Purely diagnostic prescriptions (no items, not billable) expand to nothing:
// they stay visible in search and history but never enter the billing feed.
func ExpandRecord(rec SourceRecord) []PurchaseLineItem {
	switch rec.Type {
	case SourceOrder:
		return expandOrder(rec)
	case SourceContactLens:
		return expandContactLens(rec)
	case SourcePrescription:
		return expandPrescription(rec)
	}
	return nil
}

func expandOrder(rec SourceRecord) []PurchaseLineItem {
	lines := make([]PurchaseLineItem, 0, len(rec.Items))
	for idx, item := range rec.Items {
		line := baseLine(rec, item, idx)
		line.ItemName = item.StringOr("", itemNameKeys...)
		line.ItemCode = item.StringOr("", itemCodeKeys...)

		gross := line.Quantity.Mul(line.Rate)
		line.DiscountAmount, line.DiscountPercent = resolveDiscount(item, gross)

		// The order store writes net amounts; fall back to rate*qty only
		// when the stored amount is absent or zero.
		if stored, ok := item.Number(amountKeys...); ok && !stored.IsZero() {
			line.Amount = stored
		} else {
			line.Amount = gross
		}
		line.Amount = clampNonNegative(line.Amount)
		lines = append(lines, line)
	}
	return lines
}

func expandContactLens(rec SourceRecord) []PurchaseLineItem {
	lines := make([]PurchaseLineItem, 0, len(rec.Items))
	for idx, item := range rec.Items {
		line := baseLine(rec, item, idx)
		brand := item.StringOr("", brandKeys...)
		line.ItemName = contactLensItemName(
			brand,
			item.StringOr("", materialKeys...),
			item.StringOr("", powerKeys...),
			item.StringOr("", sideKeys...),
		)
		line.ItemCode = item.StringOr(contactLensItemCode(brand), itemCodeKeys...)

		gross := line.Quantity.Mul(line.Rate)
		line.DiscountAmount, line.DiscountPercent = resolveDiscount(item, gross)

		if stored, ok := item.Number(amountKeys...); ok && !stored.IsZero() {
			line.Amount = stored
		} else {
			line.Amount = gross.Sub(line.DiscountAmount)
		}
		line.Amount = clampNonNegative(line.Amount)
		lines = append(lines, line)
	}
	return lines
}

func expandPrescription(rec SourceRecord) []PurchaseLineItem {
	if len(rec.Items) > 0 {
		lines := make([]PurchaseLineItem, 0, len(rec.Items))
		for idx, item := range rec.Items {
			line := baseLine(rec, item, idx)
			line.ItemName = item.StringOr("Eye Examination", itemNameKeys...)
			line.ItemCode = item.StringOr("", itemCodeKeys...)
			gross := line.Quantity.Mul(line.Rate)
			line.DiscountAmount, line.DiscountPercent = resolveDiscount(item, gross)
			if stored, ok := item.Number(amountKeys...); ok && !stored.IsZero() {
				line.Amount = stored
			} else {
				line.Amount = gross
			}
			line.Amount = clampNonNegative(line.Amount)
			lines = append(lines, line)
		}
		return lines
	}

	if !rec.Fields.Bool(billableKeys...) {
		// Diagnostic-only prescription: excluded from the billing feed.
		return nil
	}

	fee := clampNonNegative(rec.Fields.NumberOr(decimal.Zero, examFeeKeys...))
	return []PurchaseLineItem{{
		ID:          rec.ID,
		Type:        rec.Type,
		ReferenceNo: rec.ReferenceNo,
		ItemName:    "Eye Examination",
		Quantity:    quantityDefault,
		Rate:        fee,
		Amount:      fee,
		Date:        rec.Date,
		Details:     rec.Fields,
	}}
}

func baseLine(rec SourceRecord, item Payload, idx int) PurchaseLineItem {
	id := item.StringOr(fmt.Sprintf("%s:%d", rec.ID, idx), "id")
	return PurchaseLineItem{
		ID:          id,
		Type:        rec.Type,
		ReferenceNo: rec.ReferenceNo,
		Quantity:    item.NumberOr(quantityDefault, quantityKeys...),
		Rate:        item.NumberOr(decimal.Zero, rateKeys...),
		TaxPercent:  item.NumberOr(decimal.Zero, taxKeys...),
		Date:        rec.Date,
		Details:     item,
	}
}

// resolveDiscount returns the effective discount amount and percent for a
// line. An explicit discount amount wins over a percent-derived one, and the
// percent is never back-derived from the amount when the two disagree.
func resolveDiscount(item Payload, gross decimal.Decimal) (amount, percent decimal.Decimal) {
	percent = item.NumberOr(decimal.Zero, discountPctKeys...)
	if explicit, ok := item.Number(discountAmtKeys...); ok {
		return clampNonNegative(explicit), percent
	}
	if percent.IsZero() {
		return decimal.Zero, percent
	}
	return clampNonNegative(gross.Mul(percent).Div(decimal.NewFromInt(100))), percent
}

// eyeSideMarkers maps the store's free-form eye side values to the two
// canonical markers used in item names.
var eyeSideMarkers = map[string]string{
	"right": "RE", "r": "RE", "re": "RE", "od": "RE",
	"left": "LE", "l": "LE", "le": "LE", "os": "LE",
}

// EyeSideMarker maps a free-form eye side value to "RE", "LE" or ""
func EyeSideMarker(side string) string {
	return eyeSideMarkers[strings.ToLower(strings.TrimSpace(side))]
}

func contactLensItemName(brand, material, power, side string) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{brand, material, power, EyeSideMarker(side)} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// contactLensItemCode synthesizes a code from the brand when the store has
// none: "CL-" plus the first three letters of the brand, uppercased.
func contactLensItemCode(brand string) string {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return "CL-GEN"
	}
	prefix := brand
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return "CL-" + strings.ToUpper(prefix)
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
