package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMobile_Deterministic(t *testing.T) {
	inputs := []string{"9876543210", " 9876543210 ", "\t9876543210\n"}

	for _, input := range inputs {
		assert.Equal(t, "9876543210", NormalizeMobile(input))
	}
}

func TestNormalizeMobile_StripsFormatting(t *testing.T) {
	assert.Equal(t, "919876543210", NormalizeMobile("+91 98765 43210"))
	assert.Equal(t, "04412345678", NormalizeMobile("044-1234-5678"))
}

func TestNormalizeMobile_NoDigits(t *testing.T) {
	assert.Equal(t, "", NormalizeMobile("   "))
	assert.Equal(t, "n/a", NormalizeMobile(" n/a "))
}

func TestNormalizeOrder_FieldPrecedence(t *testing.T) {
	rec := NormalizeOrder(RawOrder{
		ID: "o-1",
		Fields: Payload{
			"phone":    "1111111111",
			"mobile":   "9000000001",
			"name":     "Ravi Kumar",
			"order_no": "B1",
			"date":     "2024-05-10",
		},
	})

	assert.Equal(t, SourceOrder, rec.Type)
	assert.Equal(t, "9000000001", rec.Mobile)
	assert.Equal(t, "Ravi Kumar", rec.Name)
	assert.Equal(t, "B1", rec.ReferenceNo)
	assert.True(t, rec.Mergeable)
	assert.Equal(t, 2024, rec.Date.Year())
}

func TestNormalizeOrder_LandlineFallback(t *testing.T) {
	rec := NormalizeOrder(RawOrder{
		ID:     "o-2",
		Fields: Payload{"phone_landline": "044 2345 6789"},
	})

	assert.Equal(t, "04423456789", rec.Mobile)
}

func TestNormalize_MissingMobileNotMergeable(t *testing.T) {
	rec := NormalizePrescription(RawPrescription{
		ID:     "rx-1",
		Fields: Payload{"name": "Walk In", "prescription_no": "RX9"},
	})

	assert.False(t, rec.Mergeable)
	assert.Equal(t, "", rec.Mobile)
	assert.Equal(t, "RX9", rec.ReferenceNo)
}

func TestNormalize_UnknownCustomerName(t *testing.T) {
	rec := NormalizeContactLens(RawContactLens{
		ID:     "cl-1",
		Fields: Payload{"mobile_no": "9000000009", "ref": "CL9"},
	})

	assert.Equal(t, UnknownCustomerName, rec.Name)
	assert.Equal(t, "CL9", rec.ReferenceNo)
}

func TestNormalize_NilFields(t *testing.T) {
	rec := NormalizeOrder(RawOrder{ID: "o-3"})

	assert.False(t, rec.Mergeable)
	assert.Equal(t, UnknownCustomerName, rec.Name)
	assert.NotNil(t, rec.Fields)
}

func TestSourceType_Label(t *testing.T) {
	assert.Equal(t, "Order", SourceOrder.Label())
	assert.Equal(t, "Contact Lens", SourceContactLens.Label())
	assert.Equal(t, "Prescription", SourcePrescription.Label())
}
