package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrlogistics/models"
	"rrlogistics/repository"
)

func ptr[T any](v T) *T { return &v }

func TestUpdatePropagatesToShipmentAndInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)
	c := res.Consignment

	sh, err := env.shipments.GetByID(ctx, c.ShipmentID)
	require.NoError(t, err)
	dest := sh.Destination
	dest.Phone = "9000000001"
	require.NoError(t, env.shipments.ApplySync(ctx, sh.ID, models.ShipmentSync{
		Destination: dest, WeightKG: sh.WeightKG, Description: sh.Description, DocketNo: sh.DocketNo,
	}))

	_, err = env.invoiceSvc.AddPayment(ctx, c.InvoiceID, PaymentRequest{Amount: 100, Method: models.MethodUPI}, admin.UserID)
	require.NoError(t, err)

	upd, err := env.consignmentSvc.Update(ctx, c.ID, models.ConsignmentPatch{
		Destination:     ptr("Plot 4, Sector 17, Chandigarh"),
		DestinationCity: ptr(""),
		Weight:          ptr(3.0),
		BaseRate:        ptr(300.0),
		DocketCharges:   ptr(50.0),
		Box1Dimensions:  ptr("10*10*10"),
		DocketNo:        ptr("DKT-77"),
	}, admin.UserID)
	require.NoError(t, err)
	assert.InDelta(t, 350.0, upd.Consignment.Total, 0.01)
	require.NotNil(t, upd.Sync)
	assert.True(t, upd.Sync.ShipmentSynced)
	assert.True(t, upd.Sync.InvoiceSynced)
	assert.Empty(t, upd.Sync.Warnings)

	sh, err = env.shipments.GetByID(ctx, c.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, "Chandigarh", sh.Destination.City)
	assert.Equal(t, "Plot 4, Sector 17, Chandigarh", sh.Destination.AddressLine1)
	assert.Equal(t, "9000000001", sh.Destination.Phone)
	assert.Equal(t, 3.0, sh.WeightKG)
	assert.Equal(t, &models.Dimensions{Length: 10, Width: 10, Height: 10}, sh.Dimensions)
	assert.Equal(t, "DKT-77", sh.DocketNo)
	assert.Len(t, sh.TrackingHistory, 1)

	inv, err := env.invoices.GetByID(ctx, c.InvoiceID)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, sh.TrackingNumber, inv.Items[0].TrackingNumber)
	assert.Equal(t, "DKT-77", inv.Items[0].DocketNo)
	assert.InDelta(t, 350.0, inv.Subtotal, 0.01)
	assert.InDelta(t, 63.0, inv.GSTAmount, 0.01)
	assert.InDelta(t, 413.0, inv.TotalAmount, 0.01)
	assert.InDelta(t, 100.0, inv.AmountPaid, 0.01)
	assert.InDelta(t, 313.0, inv.BalanceDue, 0.01)
	assert.Equal(t, models.PaymentPartial, inv.PaymentStatus)
	assert.Len(t, inv.Payments, 1)

	stored, err := env.consignments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ShipmentID, stored.ShipmentID)
	assert.Equal(t, c.InvoiceID, stored.InvoiceID)
	assert.InDelta(t, stored.BaseRate+stored.DocketCharges+stored.OdaCharge+stored.FOV, stored.Total, 0.01)
}

func TestUpdateBelowPaidMarksInvoicePaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)
	c := res.Consignment

	_, err = env.invoiceSvc.AddPayment(ctx, c.InvoiceID, PaymentRequest{Amount: 200, Method: models.MethodCash}, admin.UserID)
	require.NoError(t, err)

	_, err = env.consignmentSvc.Update(ctx, c.ID, models.ConsignmentPatch{BaseRate: ptr(100.0)}, admin.UserID)
	require.NoError(t, err)

	inv, err := env.invoices.GetByID(ctx, c.InvoiceID)
	require.NoError(t, err)
	assert.InDelta(t, 118.0, inv.TotalAmount, 0.01)
	assert.InDelta(t, 200.0, inv.AmountPaid, 0.01)
	assert.Zero(t, inv.BalanceDue)
	assert.Equal(t, models.PaymentPaid, inv.PaymentStatus)
}

func TestUpdateToleratesInvoiceSyncFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)

	env.invoices.failRecalculate = true
	upd, err := env.consignmentSvc.Update(ctx, res.Consignment.ID, models.ConsignmentPatch{Weight: ptr(9.5)}, admin.UserID)
	require.NoError(t, err)
	assert.True(t, upd.Sync.ShipmentSynced)
	assert.False(t, upd.Sync.InvoiceSynced)
	require.Len(t, upd.Sync.Warnings, 1)
	assert.Contains(t, upd.Sync.Warnings[0], "invoice")

	sh, err := env.shipments.GetByID(ctx, res.Consignment.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, 9.5, sh.WeightKG)
}

func TestUpdateWithoutLinksOnlyWritesConsignment(t *testing.T) {
	env := newTestEnv(t)
	env.shipments.setFail(true)
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)

	upd, err := env.consignmentSvc.Update(ctx, res.Consignment.ID, models.ConsignmentPatch{OdaCharge: ptr(40.0)}, admin.UserID)
	require.NoError(t, err)
	assert.InDelta(t, 240.0, upd.Consignment.Total, 0.01)
	assert.False(t, upd.Sync.ShipmentSynced)
	assert.False(t, upd.Sync.InvoiceSynced)
	assert.Empty(t, upd.Sync.Warnings)
}

func TestUpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)

	_, err = env.consignmentSvc.Update(ctx, res.Consignment.ID, models.ConsignmentPatch{BaseRate: ptr(-1.0)}, admin.UserID)
	assert.True(t, models.IsValidation(err))

	_, err = env.consignmentSvc.Update(ctx, "missing", models.ConsignmentPatch{}, admin.UserID)
	assert.True(t, models.IsNotFound(err))
}

// interleavedInvoices runs during once, right after the first invoice read.
type interleavedInvoices struct {
	repository.InvoiceRepository
	once   sync.Once
	during func()
}

func (r *interleavedInvoices) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := r.InvoiceRepository.GetByID(ctx, id)
	r.once.Do(r.during)
	return inv, err
}

func TestInvoiceSyncKeepsPaymentMadeDuringSync(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)
	c := res.Consignment

	invoices := &interleavedInvoices{InvoiceRepository: env.invoices}
	invoices.during = func() {
		_, err := env.ledger.AddPayment(ctx, c.InvoiceID, PaymentRequest{Amount: 100, Method: models.MethodUPI}, admin.UserID)
		require.NoError(t, err)
	}

	edited := *c
	edited.BaseRate = 300
	out := NewSyncPropagator(env.shipments, invoices).Propagate(ctx, &edited)
	assert.True(t, out.InvoiceSynced)
	assert.Empty(t, out.Warnings)

	inv, err := env.invoices.GetByID(ctx, c.InvoiceID)
	require.NoError(t, err)
	assert.InDelta(t, 354.0, inv.TotalAmount, 0.001)
	assert.InDelta(t, 100.0, inv.AmountPaid, 0.001)
	assert.InDelta(t, 254.0, inv.BalanceDue, 0.001)
	assert.Equal(t, models.PaymentPartial, inv.PaymentStatus)
	assert.Len(t, inv.Payments, 1)
}

func TestPaymentAgainstStaleTotalIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)
	c := res.Consignment

	edited := *c
	edited.BaseRate = 100
	invoices := &interleavedInvoices{InvoiceRepository: env.invoices}
	invoices.during = func() {
		out := env.sync.Propagate(ctx, &edited)
		require.True(t, out.InvoiceSynced)
	}

	_, err = NewPaymentLedger(invoices).AddPayment(ctx, c.InvoiceID, PaymentRequest{Amount: 236, Method: models.MethodCash}, admin.UserID)
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))

	inv, err := env.invoices.GetByID(ctx, c.InvoiceID)
	require.NoError(t, err)
	assert.InDelta(t, 118.0, inv.TotalAmount, 0.001)
	assert.Zero(t, inv.AmountPaid)
	assert.InDelta(t, 118.0, inv.BalanceDue, 0.001)
	assert.Equal(t, models.PaymentPending, inv.PaymentStatus)
	assert.Empty(t, inv.Payments)
}
