package persistence

import (
	"context"
	"time"

	"github.com/opticrm/backend/internal/domain/lookup"
)

// TimeoutStore wraps a lookup.Store and bounds every data access with a
// per-call deadline so one slow source table cannot stall a whole fan-out.
type TimeoutStore struct {
	inner   lookup.Store
	timeout time.Duration
}

// NewTimeoutStore wraps store with the given per-call timeout. A
// non-positive timeout returns the store unchanged.
func NewTimeoutStore(store lookup.Store, timeout time.Duration) lookup.Store {
	if timeout <= 0 {
		return store
	}
	return &TimeoutStore{inner: store, timeout: timeout}
}

func (s *TimeoutStore) FindOrdersByText(ctx context.Context, term string) ([]lookup.RawOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.FindOrdersByText(ctx, term)
}

func (s *TimeoutStore) FindOrdersByMobile(ctx context.Context, mobile string) ([]lookup.RawOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.FindOrdersByMobile(ctx, mobile)
}

func (s *TimeoutStore) FindContactLensByText(ctx context.Context, term string) ([]lookup.RawContactLens, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.FindContactLensByText(ctx, term)
}

func (s *TimeoutStore) FindContactLensByMobile(ctx context.Context, mobile string) ([]lookup.RawContactLens, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.FindContactLensByMobile(ctx, mobile)
}

func (s *TimeoutStore) FindPrescriptionsByText(ctx context.Context, term string) ([]lookup.RawPrescription, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.FindPrescriptionsByText(ctx, term)
}

func (s *TimeoutStore) FindPrescriptionsByMobile(ctx context.Context, mobile string) ([]lookup.RawPrescription, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.FindPrescriptionsByMobile(ctx, mobile)
}
