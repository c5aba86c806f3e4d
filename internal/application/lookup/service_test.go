package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opticrm/backend/internal/domain/lookup"
	"github.com/opticrm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Store
// =============================================================================

// MockStore is a mock implementation of lookup.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindOrdersByText(ctx context.Context, term string) ([]lookup.RawOrder, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.RawOrder), args.Error(1)
}

func (m *MockStore) FindContactLensByText(ctx context.Context, term string) ([]lookup.RawContactLens, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.RawContactLens), args.Error(1)
}

func (m *MockStore) FindPrescriptionsByText(ctx context.Context, term string) ([]lookup.RawPrescription, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.RawPrescription), args.Error(1)
}

func (m *MockStore) FindOrdersByMobile(ctx context.Context, mobile string) ([]lookup.RawOrder, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.RawOrder), args.Error(1)
}

func (m *MockStore) FindContactLensByMobile(ctx context.Context, mobile string) ([]lookup.RawContactLens, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.RawContactLens), args.Error(1)
}

func (m *MockStore) FindPrescriptionsByMobile(ctx context.Context, mobile string) ([]lookup.RawPrescription, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.RawPrescription), args.Error(1)
}

// =============================================================================
// Search
// =============================================================================

func TestSearch_EmptyTermSkipsStores(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	identities, err := service.Search(context.Background(), "   ")

	require.NoError(t, err)
	assert.Empty(t, identities)
	store.AssertNotCalled(t, "FindOrdersByText")
	store.AssertNotCalled(t, "FindContactLensByText")
	store.AssertNotCalled(t, "FindPrescriptionsByText")
}

func TestSearch_MergesAcrossSources(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	store.On("FindOrdersByText", mock.Anything, "asha").Return([]lookup.RawOrder{{
		ID:     "o-1",
		Fields: lookup.Payload{"mobile": "9000000001", "name": "Asha Rao", "order_no": "B1", "date": "2024-06-03"},
	}}, nil)
	store.On("FindContactLensByText", mock.Anything, "asha").Return([]lookup.RawContactLens{{
		ID:     "cl-1",
		Fields: lookup.Payload{"mobile": "9000000001", "name": "Asha Rao", "ref": "CL1", "date": "2024-06-02"},
	}}, nil)
	store.On("FindPrescriptionsByText", mock.Anything, "asha").Return([]lookup.RawPrescription{{
		ID:     "rx-1",
		Fields: lookup.Payload{"mobile": "9000000002", "name": "Ravi Kumar", "ref": "RX1", "date": "2024-06-01"},
	}}, nil)

	identities, err := service.Search(context.Background(), "asha")

	require.NoError(t, err)
	require.Len(t, identities, 2)
	assert.Equal(t, "9000000001", identities[0].PrimaryMobile)
	assert.Len(t, identities[0].Sources, 2)
	assert.Contains(t, identities[0].JobTypeLabel, "Contact Lens")
	assert.Contains(t, identities[0].JobTypeLabel, "Order")
	assert.Equal(t, "9000000002", identities[1].PrimaryMobile)
}

func TestSearch_SingleFetcherFailureIsBestEffort(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	store.On("FindOrdersByText", mock.Anything, "asha").Return(nil, errors.New("connection refused"))
	store.On("FindContactLensByText", mock.Anything, "asha").Return([]lookup.RawContactLens{{
		ID:     "cl-1",
		Fields: lookup.Payload{"mobile": "9000000001", "name": "Asha Rao", "ref": "CL1"},
	}}, nil)
	store.On("FindPrescriptionsByText", mock.Anything, "asha").Return([]lookup.RawPrescription{}, nil)

	identities, err := service.Search(context.Background(), "asha")

	require.NoError(t, err)
	require.Len(t, identities, 1)
	assert.Equal(t, "Contact Lens", identities[0].JobTypeLabel)
}

func TestSearch_AllFetchersFail(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	boom := errors.New("store down")
	store.On("FindOrdersByText", mock.Anything, "asha").Return(nil, boom)
	store.On("FindContactLensByText", mock.Anything, "asha").Return(nil, boom)
	store.On("FindPrescriptionsByText", mock.Anything, "asha").Return(nil, boom)

	_, err := service.Search(context.Background(), "asha")

	assert.ErrorIs(t, err, error(shared.ErrSearchFailed))
}

func TestSearch_TrimsTerm(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	store.On("FindOrdersByText", mock.Anything, "asha").Return([]lookup.RawOrder{}, nil)
	store.On("FindContactLensByText", mock.Anything, "asha").Return([]lookup.RawContactLens{}, nil)
	store.On("FindPrescriptionsByText", mock.Anything, "asha").Return([]lookup.RawPrescription{}, nil)

	_, err := service.Search(context.Background(), "  asha  ")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

// =============================================================================
// Purchase history
// =============================================================================

func TestGetPurchaseHistory_InvalidMobile(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	for _, mobile := range []string{"", "   ", "n/a"} {
		_, err := service.GetPurchaseHistory(context.Background(), mobile)
		assert.ErrorIs(t, err, error(shared.ErrInvalidMobile), "mobile %q", mobile)
	}
	store.AssertNotCalled(t, "FindOrdersByMobile")
}

func TestGetPurchaseHistory_NormalizesMobileBeforeQuery(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	store.On("FindOrdersByMobile", mock.Anything, "9000000001").Return([]lookup.RawOrder{}, nil)
	store.On("FindContactLensByMobile", mock.Anything, "9000000001").Return([]lookup.RawContactLens{}, nil)
	store.On("FindPrescriptionsByMobile", mock.Anything, "9000000001").Return([]lookup.RawPrescription{}, nil)

	_, err := service.GetPurchaseHistory(context.Background(), " 90000 00001 ")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestGetPurchaseHistory_SortedNewestFirst(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	store.On("FindOrdersByMobile", mock.Anything, "9000000001").Return([]lookup.RawOrder{{
		ID:     "o-1",
		Fields: lookup.Payload{"mobile": "9000000001", "order_no": "B1", "date": "2024-06-10"},
		Items:  []lookup.Payload{{"item_name": "Frame", "rate": 1000}},
	}}, nil)
	store.On("FindContactLensByMobile", mock.Anything, "9000000001").Return([]lookup.RawContactLens{{
		ID:     "cl-1",
		Fields: lookup.Payload{"mobile": "9000000001", "ref": "CL1", "date": "2024-06-20"},
		Items:  []lookup.Payload{{"brand": "Acuvue", "rate": 500}},
	}}, nil)
	store.On("FindPrescriptionsByMobile", mock.Anything, "9000000001").Return([]lookup.RawPrescription{}, nil)

	lines, err := service.GetPurchaseHistory(context.Background(), "9000000001")

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, lookup.SourceContactLens, lines[0].Type)
	assert.Equal(t, lookup.SourceOrder, lines[1].Type)
	assert.True(t, lines[0].Date.After(lines[1].Date))
}

func TestGetPurchaseHistory_DiagnosticPrescriptionExcluded(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	store.On("FindOrdersByMobile", mock.Anything, "9000000001").Return([]lookup.RawOrder{}, nil)
	store.On("FindContactLensByMobile", mock.Anything, "9000000001").Return([]lookup.RawContactLens{}, nil)
	store.On("FindPrescriptionsByMobile", mock.Anything, "9000000001").Return([]lookup.RawPrescription{{
		ID:     "rx-1",
		Fields: lookup.Payload{"mobile": "9000000001", "ref": "RX1"},
	}}, nil)

	lines, err := service.GetPurchaseHistory(context.Background(), "9000000001")

	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGetPurchaseHistory_DuplicateRecordExpandsOnce(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	order := lookup.RawOrder{
		ID:     "o-1",
		Fields: lookup.Payload{"mobile": "9000000001", "order_no": "B1"},
		Items:  []lookup.Payload{{"item_name": "Frame", "rate": 1000}},
	}
	store.On("FindOrdersByMobile", mock.Anything, "9000000001").Return([]lookup.RawOrder{order, order}, nil)
	store.On("FindContactLensByMobile", mock.Anything, "9000000001").Return([]lookup.RawContactLens{}, nil)
	store.On("FindPrescriptionsByMobile", mock.Anything, "9000000001").Return([]lookup.RawPrescription{}, nil)

	lines, err := service.GetPurchaseHistory(context.Background(), "9000000001")

	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestGetPurchaseHistory_FetchFailuresAreBestEffort(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	boom := errors.New("timeout")
	store.On("FindOrdersByMobile", mock.Anything, "9000000001").Return(nil, boom)
	store.On("FindContactLensByMobile", mock.Anything, "9000000001").Return(nil, boom)
	store.On("FindPrescriptionsByMobile", mock.Anything, "9000000001").Return(nil, boom)

	lines, err := service.GetPurchaseHistory(context.Background(), "9000000001")

	require.NoError(t, err)
	assert.Empty(t, lines)
}

// =============================================================================
// Billing draft
// =============================================================================

func TestGetBillingDraft_ReconcilesPerRecord(t *testing.T) {
	store := new(MockStore)
	service := NewLookupService(store, nil)

	store.On("FindOrdersByMobile", mock.Anything, "9000000001").Return([]lookup.RawOrder{{
		ID:     "o-1",
		Fields: lookup.Payload{"mobile": "9000000001", "order_no": "B1"},
		Items:  []lookup.Payload{{"item_name": "Frame", "quantity": 1, "rate": 1000}},
		Payment: lookup.Payload{
			"advance_cash":     100,
			"advance_card_upi": 50,
			"advance_other":    0,
		},
	}}, nil)
	store.On("FindContactLensByMobile", mock.Anything, "9000000001").Return([]lookup.RawContactLens{}, nil)
	store.On("FindPrescriptionsByMobile", mock.Anything, "9000000001").Return([]lookup.RawPrescription{{
		ID:     "rx-1",
		Fields: lookup.Payload{"mobile": "9000000001", "ref": "RX1"},
	}}, nil)

	draft, err := service.GetBillingDraft(context.Background(), "9000000001")

	require.NoError(t, err)
	require.Len(t, draft.Lines, 1)
	require.Len(t, draft.Payments, 1)

	payment := draft.Payments[0]
	assert.Equal(t, "B1", payment.ReferenceNo)
	assert.Equal(t, "150", payment.Snapshot.AdvanceTotal.String())
	assert.Equal(t, "1000", payment.Snapshot.Estimate.String())
	assert.Equal(t, lookup.ProvenanceDatabase, payment.Snapshot.Provenance)
}

// =============================================================================
// Display formatting
// =============================================================================

func TestFormatForDisplay(t *testing.T) {
	service := NewLookupService(new(MockStore), nil)
	identities := lookup.MergeIdentities([]lookup.SourceRecord{
		{
			Type: lookup.SourceOrder, Name: "Asha Rao", Mobile: "9000000001",
			ReferenceNo: "B1", Mergeable: true,
			Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	require.Len(t, identities, 1)

	card := service.FormatForDisplay(identities[0])

	assert.Equal(t, "Asha Rao", card.Label)
	assert.Equal(t, "9000000001 | B1", card.SubLabel)
	assert.Equal(t, "Order", card.SourceType)
}
