package lookup

import "context"

// Store is the abstract data-access contract the engine reads through.
// Implementations query the three independent record stores; the engine never
// writes. Each method returns raw source-native rows including child items
// and payment sub-records where the store has them.
type Store interface {
	FindOrdersByText(ctx context.Context, term string) ([]RawOrder, error)
	FindContactLensByText(ctx context.Context, term string) ([]RawContactLens, error)
	FindPrescriptionsByText(ctx context.Context, term string) ([]RawPrescription, error)

	FindOrdersByMobile(ctx context.Context, mobile string) ([]RawOrder, error)
	FindContactLensByMobile(ctx context.Context, mobile string) ([]RawContactLens, error)
	FindPrescriptionsByMobile(ctx context.Context, mobile string) ([]RawPrescription, error)
}
