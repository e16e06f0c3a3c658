package voucher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/tax"
)

type memoryRepo struct {
	vouchers map[int64]*Voucher
	nextID   int64
	numbers  map[string]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{vouchers: map[int64]*Voucher{}, numbers: map[string]bool{}}
}

func (m *memoryRepo) CreateVoucher(_ context.Context, vch *Voucher) (int64, error) {
	key := vch.Series + "/" + vch.Number
	if m.numbers[key] {
		return 0, ErrDuplicateNumber
	}
	m.numbers[key] = true
	m.nextID++
	clone := *vch
	clone.ID = m.nextID
	m.vouchers[m.nextID] = &clone
	return m.nextID, nil
}

func (m *memoryRepo) UpdateVoucher(_ context.Context, id int64, vch *Voucher) error {
	if _, ok := m.vouchers[id]; !ok {
		return ErrNotFound
	}
	clone := *vch
	clone.ID = id
	m.vouchers[id] = &clone
	return nil
}

func (m *memoryRepo) GetVoucher(_ context.Context, id int64) (*Voucher, error) {
	vch, ok := m.vouchers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return vch, nil
}

func (m *memoryRepo) ListVouchers(_ context.Context, req ListVouchersRequest) ([]Voucher, int, error) {
	var out []Voucher
	for _, vch := range m.vouchers {
		if req.Mode != nil && vch.Mode != *req.Mode {
			continue
		}
		out = append(out, *vch)
	}
	return out, len(out), nil
}

func (m *memoryRepo) NextNumber(_ context.Context, series string, _ Mode) (string, error) {
	prefix := series
	if prefix == "" {
		prefix = "V"
	}
	return fmt.Sprintf("%s-%05d", prefix, len(m.vouchers)+1), nil
}

type stateLookup struct {
	*fakeLookup
	states map[int64]string
}

func (s *stateLookup) LedgerState(_ context.Context, id int64) (string, error) {
	return s.states[id], nil
}

func testService(repo *memoryRepo, states map[int64]string) *Service {
	lookup := &stateLookup{fakeLookup: newFakeLookup(), states: states}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, lookup, logger, nil, ServiceConfig{
		HomeState:     "29",
		FallbackScope: tax.ScopeIntrastate,
		StockTracking: true,
	})
}

func invoiceRequest() CreateVoucherRequest {
	itemID := int64(7)
	partyID := int64(1)
	return CreateVoucherRequest{
		Mode:          ModeItemInvoice,
		Date:          time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		PartyLedgerID: &partyID,
		Lines: []LineRequest{{
			Kind:           LineKindItem,
			ItemID:         &itemID,
			Quantity:       dec("10"),
			Rate:           dec("1000"),
			Discount:       dec("500"),
			TaxRatePercent: dec("18"),
		}},
	}
}

func TestServiceCreate(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(repo, map[int64]string{1: "29"})

	vch, err := svc.Create(context.Background(), invoiceRequest())
	require.NoError(t, err)
	require.Equal(t, int64(1), vch.ID)
	require.NotEmpty(t, vch.GUID)
	require.Equal(t, "V-00001", vch.Number)
	require.True(t, vch.Subtotal.Equal(dec("10000")))
	require.True(t, vch.CGSTTotal.Equal(dec("900")))
	require.True(t, vch.SGSTTotal.Equal(dec("900")))
	require.True(t, vch.IGSTTotal.IsZero())
	require.True(t, vch.GrandTotal.Equal(dec("11300")), vch.GrandTotal.String())
	require.NotNil(t, vch.PlaceOfSupply)
	require.Equal(t, "29", *vch.PlaceOfSupply)
}

func TestServiceCreateInterstate(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(repo, map[int64]string{1: "27"})

	vch, err := svc.Create(context.Background(), invoiceRequest())
	require.NoError(t, err)
	require.True(t, vch.CGSTTotal.IsZero())
	require.True(t, vch.SGSTTotal.IsZero())
	require.True(t, vch.IGSTTotal.Equal(dec("1800")))
	require.True(t, vch.GrandTotal.Equal(dec("11300")))
}

func TestServiceCreateFallbackScope(t *testing.T) {
	repo := newMemoryRepo()
	// party state unknown: fall back to the configured intrastate scope
	svc := testService(repo, map[int64]string{})

	vch, err := svc.Create(context.Background(), invoiceRequest())
	require.NoError(t, err)
	require.True(t, vch.CGSTTotal.Equal(dec("900")))
	require.True(t, vch.IGSTTotal.IsZero())
}

func TestServiceCreateDuplicateNumber(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(repo, map[int64]string{1: "29"})

	req := invoiceRequest()
	req.Number = "INV-00042"
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestServiceCreateInvalid(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(repo, map[int64]string{1: "29"})

	req := invoiceRequest()
	req.Lines[0].Quantity = dec("0")
	_, err := svc.Create(context.Background(), req)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "lines[0].quantity")
	require.Empty(t, repo.vouchers)
}

func TestServicePreviewSkipsValidation(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(repo, map[int64]string{1: "29"})

	req := invoiceRequest()
	req.Lines[0].Quantity = dec("500") // beyond stock, preview still computes
	vch, err := svc.Preview(context.Background(), req)
	require.NoError(t, err)
	require.True(t, vch.Subtotal.Equal(dec("500000")))
	require.Empty(t, repo.vouchers)
}

func TestServiceUpdate(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(repo, map[int64]string{1: "29"})

	created, err := svc.Create(context.Background(), invoiceRequest())
	require.NoError(t, err)

	req := invoiceRequest()
	req.Lines[0].Quantity = dec("5")
	updated, err := svc.Update(context.Background(), created.ID, req)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, created.GUID, updated.GUID)
	require.Equal(t, created.Number, updated.Number)
	require.True(t, updated.Subtotal.Equal(dec("5000")))

	stored, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, stored.Subtotal.Equal(dec("5000")))
}

func TestServiceUpdateNotFound(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(repo, map[int64]string{1: "29"})

	_, err := svc.Update(context.Background(), 404, invoiceRequest())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceValidateDraft(t *testing.T) {
	repo := newMemoryRepo()
	svc := testService(repo, map[int64]string{1: "29"})

	req := invoiceRequest()
	req.Number = "INV-1"
	result, err := svc.Validate(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.OK())

	req.Lines[0].Quantity = dec("0")
	result, err = svc.Validate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, StateInvalid, result.State)
}
