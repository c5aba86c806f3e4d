package lookup

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_String_AliasPrecedence(t *testing.T) {
	p := Payload{
		"mobile":   "9876500000",
		"phone":    "044-1234",
		"customer": "ignored",
	}

	got, ok := p.String("mobile_no", "mobile", "phone_landline", "phone")
	assert.True(t, ok)
	assert.Equal(t, "9876500000", got)
}

func TestPayload_String_SkipsEmptyValues(t *testing.T) {
	p := Payload{
		"name":          "   ",
		"customer_name": "Asha Rao",
	}

	got, ok := p.String("name", "customer_name")
	assert.True(t, ok)
	assert.Equal(t, "Asha Rao", got)
}

func TestPayload_Number_ZeroIsPresent(t *testing.T) {
	p := Payload{"advance": float64(0)}

	got, ok := p.Number("advance")
	assert.True(t, ok)
	assert.True(t, got.IsZero())
}

func TestPayload_Number_AbsentKey(t *testing.T) {
	p := Payload{}

	_, ok := p.Number("advance")
	assert.False(t, ok)
}

func TestPayload_Number_CoercesStringsAndInts(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"float", 12.5, "12.5"},
		{"int", 7, "7"},
		{"string", "99.90", "99.9"},
		{"decimal", decimal.NewFromInt(3), "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Payload{"rate": tt.value}
			got, ok := p.Number("rate")
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPayload_NumberOr_UnparseableFallsBack(t *testing.T) {
	p := Payload{"quantity": "two"}

	got := p.NumberOr(decimal.NewFromInt(1), "quantity")
	assert.Equal(t, "1", got.String())
}

func TestPayload_Bool(t *testing.T) {
	assert.True(t, Payload{"is_billable": true}.Bool("is_billable"))
	assert.True(t, Payload{"is_billable": "yes"}.Bool("is_billable"))
	assert.True(t, Payload{"is_billable": 1}.Bool("is_billable"))
	assert.False(t, Payload{"is_billable": 0}.Bool("is_billable"))
	assert.False(t, Payload{}.Bool("is_billable"))
}

func TestPayload_Time_ParsesCommonLayouts(t *testing.T) {
	native := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
	}{
		{"time value", native},
		{"date string", "2024-03-01"},
		{"rfc3339", "2024-03-01T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Payload{"date": tt.value}
			got, ok := p.Time("date")
			require.True(t, ok)
			assert.Equal(t, 2024, got.Year())
			assert.Equal(t, time.March, got.Month())
		})
	}
}

func TestPayload_Time_Unparseable(t *testing.T) {
	_, ok := Payload{"date": "soon"}.Time("date")
	assert.False(t, ok)
}
