// Package models defines the gorm models for the three source stores and
// the shared customer table. Each source table keeps the column names its
// legacy schema used; ToRaw converts rows into the loosely typed payloads
// the lookup domain resolves through its alias chains.
package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opticrm/backend/internal/domain/lookup"
)

// CustomerModel is the shared customer registry the source tables link to.
type CustomerModel struct {
	ID            uint      `gorm:"primaryKey"`
	Name          string    `gorm:"size:255;index"`
	MobileNo      string    `gorm:"size:32;index"`
	PhoneLandline string    `gorm:"size:32"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (CustomerModel) TableName() string { return "customers" }

// OrderModel is an eyewear order. The legacy schema stores the customer
// fields denormalized next to the order and itemizes advances as a
// cash/card-UPI/other triad.
type OrderModel struct {
	ID             uint   `gorm:"primaryKey"`
	CustomerID     *uint  `gorm:"index"`
	OrderNo        string `gorm:"size:64;uniqueIndex"`
	Name           string `gorm:"size:255;index"`
	MobileNo       string `gorm:"size:32;index"`
	OrderDate      time.Time
	Estimate       decimal.Decimal  `gorm:"type:numeric(12,2)"`
	DiscountAmount decimal.Decimal  `gorm:"type:numeric(12,2)"`
	AdvanceCash    decimal.Decimal  `gorm:"type:numeric(12,2)"`
	AdvanceCardUPI decimal.Decimal  `gorm:"type:numeric(12,2);column:advance_card_upi"`
	AdvanceOther   decimal.Decimal  `gorm:"type:numeric(12,2)"`
	Balance        *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
}

func (OrderModel) TableName() string { return "orders" }

type OrderItemModel struct {
	ID              uint   `gorm:"primaryKey"`
	OrderID         uint   `gorm:"index"`
	ItemName        string `gorm:"size:255"`
	ItemCode        string `gorm:"size:64"`
	Quantity        int
	Rate            decimal.Decimal  `gorm:"type:numeric(12,2)"`
	Amount          *decimal.Decimal `gorm:"type:numeric(12,2)"`
	DiscountAmount  decimal.Decimal  `gorm:"type:numeric(12,2)"`
	DiscountPercent decimal.Decimal  `gorm:"type:numeric(5,2)"`
}

func (OrderItemModel) TableName() string { return "order_items" }

// ToRaw converts the order row into the payload shape the lookup domain
// expects from this store.
func (m *OrderModel) ToRaw() lookup.RawOrder {
	items := make([]lookup.Payload, 0, len(m.Items))
	for _, it := range m.Items {
		item := lookup.Payload{
			"item_name":        it.ItemName,
			"item_code":        it.ItemCode,
			"quantity":         it.Quantity,
			"rate":             it.Rate,
			"discount_amount":  it.DiscountAmount,
			"discount_percent": it.DiscountPercent,
		}
		if it.Amount != nil {
			item["amount"] = *it.Amount
		}
		items = append(items, item)
	}

	payment := lookup.Payload{
		"estimate":         m.Estimate,
		"discount_amount":  m.DiscountAmount,
		"advance_cash":     m.AdvanceCash,
		"advance_card_upi": m.AdvanceCardUPI,
		"advance_other":    m.AdvanceOther,
	}
	if m.Balance != nil {
		payment["balance"] = *m.Balance
	}

	return lookup.RawOrder{
		ID: strconv.FormatUint(uint64(m.ID), 10),
		Fields: lookup.Payload{
			"order_no":   m.OrderNo,
			"name":       m.Name,
			"mobile_no":  m.MobileNo,
			"order_date": m.OrderDate,
		},
		Items:   items,
		Payment: payment,
	}
}

// ContactLensModel is a contact-lens prescription sale. This newer schema
// names the customer columns differently and itemizes advances as
// cash/card-UPI/cheque.
type ContactLensModel struct {
	ID             uint   `gorm:"primaryKey"`
	CustomerID     *uint  `gorm:"index"`
	ReferenceNo    string `gorm:"size:64;uniqueIndex"`
	CustomerName   string `gorm:"size:255;index"`
	Mobile         string `gorm:"size:32;index"`
	Date           time.Time
	Estimate       decimal.Decimal        `gorm:"type:numeric(12,2)"`
	CashAdvance    decimal.Decimal        `gorm:"type:numeric(12,2)"`
	CardUPIAdvance decimal.Decimal        `gorm:"type:numeric(12,2);column:card_upi_advance"`
	ChequeAdvance  decimal.Decimal        `gorm:"type:numeric(12,2)"`
	Balance        *decimal.Decimal       `gorm:"type:numeric(12,2)"`
	Items          []ContactLensItemModel `gorm:"foreignKey:ContactLensID"`
	CreatedAt      time.Time              `gorm:"autoCreateTime"`
}

func (ContactLensModel) TableName() string { return "contact_lens_rx" }

type ContactLensItemModel struct {
	ID              uint   `gorm:"primaryKey"`
	ContactLensID   uint   `gorm:"index"`
	Brand           string `gorm:"size:128"`
	Material        string `gorm:"size:128"`
	Power           string `gorm:"size:32"`
	Side            string `gorm:"size:16"`
	Quantity        int    `gorm:"column:qty"`
	Rate            decimal.Decimal  `gorm:"type:numeric(12,2)"`
	Amount          *decimal.Decimal `gorm:"type:numeric(12,2)"`
	DiscountPercent decimal.Decimal  `gorm:"type:numeric(5,2)"`
}

func (ContactLensItemModel) TableName() string { return "contact_lens_items" }

// ToRaw converts the contact-lens row into the payload shape the lookup
// domain expects from this store.
func (m *ContactLensModel) ToRaw() lookup.RawContactLens {
	items := make([]lookup.Payload, 0, len(m.Items))
	for _, it := range m.Items {
		item := lookup.Payload{
			"brand":            it.Brand,
			"material":         it.Material,
			"power":            it.Power,
			"side":             it.Side,
			"qty":              it.Quantity,
			"rate":             it.Rate,
			"discount_percent": it.DiscountPercent,
		}
		if it.Amount != nil {
			item["amount"] = *it.Amount
		}
		items = append(items, item)
	}

	payment := lookup.Payload{
		"estimate":         m.Estimate,
		"cash_advance":     m.CashAdvance,
		"card_upi_advance": m.CardUPIAdvance,
		"cheque_advance":   m.ChequeAdvance,
	}
	if m.Balance != nil {
		payment["balance"] = *m.Balance
	}

	return lookup.RawContactLens{
		ID: strconv.FormatUint(uint64(m.ID), 10),
		Fields: lookup.Payload{
			"reference_no":  m.ReferenceNo,
			"customer_name": m.CustomerName,
			"mobile":        m.Mobile,
			"date":          m.Date,
		},
		Items:   items,
		Payment: payment,
	}
}

// PrescriptionModel is an eye-examination record. Most rows are purely
// diagnostic; billable ones carry an exam fee and occasionally their own
// dispensed items.
type PrescriptionModel struct {
	ID             uint   `gorm:"primaryKey"`
	CustomerID     *uint  `gorm:"index"`
	PrescriptionNo string `gorm:"size:64;uniqueIndex"`
	Name           string `gorm:"size:255;index"`
	Phone          string `gorm:"size:32;index"`
	Date           time.Time
	IsBillable     bool
	ExamFee        decimal.Decimal         `gorm:"type:numeric(12,2)"`
	Items          []PrescriptionItemModel `gorm:"foreignKey:PrescriptionID"`
	CreatedAt      time.Time               `gorm:"autoCreateTime"`
}

func (PrescriptionModel) TableName() string { return "prescriptions" }

type PrescriptionItemModel struct {
	ID             uint   `gorm:"primaryKey"`
	PrescriptionID uint   `gorm:"index"`
	ItemName       string `gorm:"size:255"`
	ItemCode       string `gorm:"size:64"`
	Quantity       int
	Rate           decimal.Decimal  `gorm:"type:numeric(12,2)"`
	Amount         *decimal.Decimal `gorm:"type:numeric(12,2)"`
}

func (PrescriptionItemModel) TableName() string { return "prescription_items" }

// ToRaw converts the prescription row into the payload shape the lookup
// domain expects from this store.
func (m *PrescriptionModel) ToRaw() lookup.RawPrescription {
	items := make([]lookup.Payload, 0, len(m.Items))
	for _, it := range m.Items {
		item := lookup.Payload{
			"item_name": it.ItemName,
			"item_code": it.ItemCode,
			"quantity":  it.Quantity,
			"rate":      it.Rate,
		}
		if it.Amount != nil {
			item["amount"] = *it.Amount
		}
		items = append(items, item)
	}

	return lookup.RawPrescription{
		ID: strconv.FormatUint(uint64(m.ID), 10),
		Fields: lookup.Payload{
			"prescription_no": m.PrescriptionNo,
			"name":            m.Name,
			"phone":           m.Phone,
			"date":            m.Date,
			"is_billable":     m.IsBillable,
			"exam_fee":        m.ExamFee,
		},
		Items: items,
	}
}
