package lookup

import (
	"strings"
	"time"
	"unicode"
)

// SourceType tags which record store a SourceRecord came from
type SourceType string

const (
	SourceOrder        SourceType = "order"
	SourceContactLens  SourceType = "contact_lens"
	SourcePrescription SourceType = "prescription"
)

// Label returns the human-readable tag used in merged job-type labels
func (t SourceType) Label() string {
	switch t {
	case SourceOrder:
		return "Order"
	case SourceContactLens:
		return "Contact Lens"
	case SourcePrescription:
		return "Prescription"
	}
	return string(t)
}

// UnknownCustomerName is used when no usable name field exists on a record
const UnknownCustomerName = "Unknown Customer"

// Field alias precedence lists. The order is a documented contract, not a
// guess: older UI versions wrote the later aliases.
var (
	mobileKeys = []string{"mobile_no", "mobile", "phone_landline", "phone"}
	nameKeys   = []string{"name", "customer_name"}

	orderRefKeys        = []string{"order_no", "reference_no", "ref_no", "ref"}
	contactLensRefKeys  = []string{"reference_no", "cl_ref_no", "ref_no", "ref"}
	prescriptionRefKeys = []string{"prescription_no", "reference_no", "ref_no", "ref"}

	orderDateKeys        = []string{"order_date", "date", "created_at"}
	contactLensDateKeys  = []string{"date", "prescribed_date", "created_at"}
	prescriptionDateKeys = []string{"date", "exam_date", "created_at"}
)

// RawOrder is one eyewear order row as returned by the order store,
// including its child line items and payment sub-record.
type RawOrder struct {
	ID      string
	Fields  Payload
	Items   []Payload
	Payment Payload
}

// RawContactLens is one contact-lens prescription row with child lens items
// and payment sub-record.
type RawContactLens struct {
	ID      string
	Fields  Payload
	Items   []Payload
	Payment Payload
}

// RawPrescription is one eye-exam prescription row. Prescriptions may carry
// billable items, but most are purely diagnostic.
type RawPrescription struct {
	ID     string
	Fields Payload
	Items  []Payload
}

// SourceRecord is the canonical form of a raw record from any of the three
// stores. Mobile is always normalized before it is used as a merge key;
// records without a usable mobile are kept but marked non-mergeable.
type SourceRecord struct {
	ID          string
	Type        SourceType
	Name        string
	Mobile      string
	ReferenceNo string
	Date        time.Time
	Mergeable   bool
	Fields      Payload
	Items       []Payload
	Payment     Payload
}

// NormalizeMobile produces the canonical merge key for a mobile number:
// surrounding whitespace is dropped and, when the input contains any digits,
// everything except digits is stripped. Inputs without digits normalize to
// their trimmed form so the function stays total and deterministic.
func NormalizeMobile(raw string) string {
	trimmed := strings.TrimSpace(raw)
	var digits strings.Builder
	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() > 0 {
		return digits.String()
	}
	return trimmed
}

// NormalizeOrder converts a raw order row into a SourceRecord
func NormalizeOrder(raw RawOrder) SourceRecord {
	return normalize(raw.ID, SourceOrder, raw.Fields, raw.Items, raw.Payment, orderRefKeys, orderDateKeys)
}

// NormalizeContactLens converts a raw contact-lens row into a SourceRecord
func NormalizeContactLens(raw RawContactLens) SourceRecord {
	return normalize(raw.ID, SourceContactLens, raw.Fields, raw.Items, raw.Payment, contactLensRefKeys, contactLensDateKeys)
}

// NormalizePrescription converts a raw prescription row into a SourceRecord
func NormalizePrescription(raw RawPrescription) SourceRecord {
	return normalize(raw.ID, SourcePrescription, raw.Fields, raw.Items, nil, prescriptionRefKeys, prescriptionDateKeys)
}

func normalize(id string, sourceType SourceType, fields Payload, items []Payload, payment Payload, refKeys, dateKeys []string) SourceRecord {
	if fields == nil {
		fields = Payload{}
	}

	mobile := NormalizeMobile(fields.StringOr("", mobileKeys...))
	date, _ := fields.Time(dateKeys...)

	return SourceRecord{
		ID:          id,
		Type:        sourceType,
		Name:        fields.StringOr(UnknownCustomerName, nameKeys...),
		Mobile:      mobile,
		ReferenceNo: fields.StringOr("", refKeys...),
		Date:        date,
		Mergeable:   mobile != "",
		Fields:      fields,
		Items:       items,
		Payment:     payment,
	}
}
