package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/opticrm/backend/internal/domain/lookup"
	"github.com/opticrm/backend/internal/infrastructure/persistence/models"
)

// GormLookupStore implements lookup.Store against the three source tables.
// Every fetcher runs two queries at most: a direct match on the table's own
// columns and a second match through the linked customer row, with the two
// result sets deduplicated by primary key.
type GormLookupStore struct {
	db *gorm.DB
}

// NewGormLookupStore creates a lookup store backed by gorm
func NewGormLookupStore(db *gorm.DB) *GormLookupStore {
	return &GormLookupStore{db: db}
}

var _ lookup.Store = (*GormLookupStore)(nil)

func (s *GormLookupStore) FindOrdersByText(ctx context.Context, term string) ([]lookup.RawOrder, error) {
	pattern := "%" + term + "%"

	var direct []models.OrderModel
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("order_no = ? OR name LIKE ? OR mobile_no LIKE ?", term, pattern, pattern).
		Find(&direct).Error
	if err != nil {
		return nil, fmt.Errorf("find orders by text: %w", err)
	}

	var linked []models.OrderModel
	err = s.db.WithContext(ctx).
		Preload("Items").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("customers.name LIKE ? OR customers.mobile_no LIKE ?", pattern, pattern).
		Find(&linked).Error
	if err != nil {
		return nil, fmt.Errorf("find orders via customer: %w", err)
	}

	return toRawOrders(mergeOrderRows(direct, linked)), nil
}

func (s *GormLookupStore) FindOrdersByMobile(ctx context.Context, mobile string) ([]lookup.RawOrder, error) {
	var direct []models.OrderModel
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("mobile_no = ?", mobile).
		Find(&direct).Error
	if err != nil {
		return nil, fmt.Errorf("find orders by mobile: %w", err)
	}

	var linked []models.OrderModel
	err = s.db.WithContext(ctx).
		Preload("Items").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("customers.mobile_no = ?", mobile).
		Find(&linked).Error
	if err != nil {
		return nil, fmt.Errorf("find orders via customer mobile: %w", err)
	}

	return toRawOrders(mergeOrderRows(direct, linked)), nil
}

func (s *GormLookupStore) FindContactLensByText(ctx context.Context, term string) ([]lookup.RawContactLens, error) {
	pattern := "%" + term + "%"

	var direct []models.ContactLensModel
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("reference_no = ? OR customer_name LIKE ? OR mobile LIKE ?", term, pattern, pattern).
		Find(&direct).Error
	if err != nil {
		return nil, fmt.Errorf("find contact lens by text: %w", err)
	}

	var linked []models.ContactLensModel
	err = s.db.WithContext(ctx).
		Preload("Items").
		Joins("JOIN customers ON customers.id = contact_lens_rx.customer_id").
		Where("customers.name LIKE ? OR customers.mobile_no LIKE ?", pattern, pattern).
		Find(&linked).Error
	if err != nil {
		return nil, fmt.Errorf("find contact lens via customer: %w", err)
	}

	return toRawContactLens(mergeContactLensRows(direct, linked)), nil
}

func (s *GormLookupStore) FindContactLensByMobile(ctx context.Context, mobile string) ([]lookup.RawContactLens, error) {
	var direct []models.ContactLensModel
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("mobile = ?", mobile).
		Find(&direct).Error
	if err != nil {
		return nil, fmt.Errorf("find contact lens by mobile: %w", err)
	}

	var linked []models.ContactLensModel
	err = s.db.WithContext(ctx).
		Preload("Items").
		Joins("JOIN customers ON customers.id = contact_lens_rx.customer_id").
		Where("customers.mobile_no = ?", mobile).
		Find(&linked).Error
	if err != nil {
		return nil, fmt.Errorf("find contact lens via customer mobile: %w", err)
	}

	return toRawContactLens(mergeContactLensRows(direct, linked)), nil
}

func (s *GormLookupStore) FindPrescriptionsByText(ctx context.Context, term string) ([]lookup.RawPrescription, error) {
	pattern := "%" + term + "%"

	var direct []models.PrescriptionModel
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("prescription_no = ? OR name LIKE ? OR phone LIKE ?", term, pattern, pattern).
		Find(&direct).Error
	if err != nil {
		return nil, fmt.Errorf("find prescriptions by text: %w", err)
	}

	var linked []models.PrescriptionModel
	err = s.db.WithContext(ctx).
		Preload("Items").
		Joins("JOIN customers ON customers.id = prescriptions.customer_id").
		Where("customers.name LIKE ? OR customers.mobile_no LIKE ?", pattern, pattern).
		Find(&linked).Error
	if err != nil {
		return nil, fmt.Errorf("find prescriptions via customer: %w", err)
	}

	return toRawPrescriptions(mergePrescriptionRows(direct, linked)), nil
}

func (s *GormLookupStore) FindPrescriptionsByMobile(ctx context.Context, mobile string) ([]lookup.RawPrescription, error) {
	var direct []models.PrescriptionModel
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("phone = ?", mobile).
		Find(&direct).Error
	if err != nil {
		return nil, fmt.Errorf("find prescriptions by mobile: %w", err)
	}

	var linked []models.PrescriptionModel
	err = s.db.WithContext(ctx).
		Preload("Items").
		Joins("JOIN customers ON customers.id = prescriptions.customer_id").
		Where("customers.mobile_no = ?", mobile).
		Find(&linked).Error
	if err != nil {
		return nil, fmt.Errorf("find prescriptions via customer mobile: %w", err)
	}

	return toRawPrescriptions(mergePrescriptionRows(direct, linked)), nil
}

func mergeOrderRows(direct, linked []models.OrderModel) []models.OrderModel {
	seen := make(map[uint]bool, len(direct)+len(linked))
	merged := make([]models.OrderModel, 0, len(direct)+len(linked))
	for _, row := range direct {
		if !seen[row.ID] {
			seen[row.ID] = true
			merged = append(merged, row)
		}
	}
	for _, row := range linked {
		if !seen[row.ID] {
			seen[row.ID] = true
			merged = append(merged, row)
		}
	}
	return merged
}

func mergeContactLensRows(direct, linked []models.ContactLensModel) []models.ContactLensModel {
	seen := make(map[uint]bool, len(direct)+len(linked))
	merged := make([]models.ContactLensModel, 0, len(direct)+len(linked))
	for _, row := range direct {
		if !seen[row.ID] {
			seen[row.ID] = true
			merged = append(merged, row)
		}
	}
	for _, row := range linked {
		if !seen[row.ID] {
			seen[row.ID] = true
			merged = append(merged, row)
		}
	}
	return merged
}

func mergePrescriptionRows(direct, linked []models.PrescriptionModel) []models.PrescriptionModel {
	seen := make(map[uint]bool, len(direct)+len(linked))
	merged := make([]models.PrescriptionModel, 0, len(direct)+len(linked))
	for _, row := range direct {
		if !seen[row.ID] {
			seen[row.ID] = true
			merged = append(merged, row)
		}
	}
	for _, row := range linked {
		if !seen[row.ID] {
			seen[row.ID] = true
			merged = append(merged, row)
		}
	}
	return merged
}

func toRawOrders(rows []models.OrderModel) []lookup.RawOrder {
	out := make([]lookup.RawOrder, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToRaw())
	}
	return out
}

func toRawContactLens(rows []models.ContactLensModel) []lookup.RawContactLens {
	out := make([]lookup.RawContactLens, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToRaw())
	}
	return out
}

func toRawPrescriptions(rows []models.PrescriptionModel) []lookup.RawPrescription {
	out := make([]lookup.RawPrescription, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToRaw())
	}
	return out
}
