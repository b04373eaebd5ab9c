package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrlogistics/models"
)

func TestReconcileConsignmentIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := &models.Consignment{ID: "c-1", SrNo: 7, ConsignmentNo: "DXOO0903261405007", LegacyDocketNo: "OLD-42"}
	require.NoError(t, env.consignments.Create(ctx, c))

	loaded, err := env.consignments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	changed, err := env.dockets.Consignment(ctx, loaded)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "OLD-42", loaded.DocketNo)

	reloaded, err := env.consignments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	changed, err = env.dockets.Consignment(ctx, reloaded)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "OLD-42", reloaded.DocketNo)
	assert.Equal(t, 1, env.consignments.docketWrites)
}

func TestReconcileConsignmentFallsBackToNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := &models.Consignment{ID: "c-2", ConsignmentNo: "DXOO0903261405008"}
	require.NoError(t, env.consignments.Create(ctx, c))

	got, err := env.consignmentSvc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "DXOO0903261405008", got.DocketNo)

	got, err = env.consignmentSvc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "DXOO0903261405008", got.DocketNo)
	assert.Equal(t, 1, env.consignments.docketWrites)
}

func TestReconcileShipmentAndInvoiceItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := &models.Consignment{ID: "c-3", ConsignmentNo: "DXOO0903261405009", ShipmentID: "s-3",
		ConsignmentDetails: models.ConsignmentDetails{DocketNo: "DKT-9"}}
	require.NoError(t, env.consignments.Create(ctx, c))
	require.NoError(t, env.shipments.Create(ctx, &models.Shipment{ID: "s-3", TrackingNumber: "RR1", ConsignmentID: "c-3"}))
	require.NoError(t, env.shipments.Create(ctx, &models.Shipment{ID: "s-4", TrackingNumber: "RR2", DocketNo: "DKT-10"}))
	require.NoError(t, env.invoices.Create(ctx, &models.Invoice{
		ID:            "i-1",
		InvoiceNumber: "INV-1",
		Items: []models.InvoiceItem{
			{ShipmentID: "s-3", TrackingNumber: "RR1"},
			{TrackingNumber: "RR2"},
			{TrackingNumber: "unknown"},
		},
	}))

	sh, err := env.shipmentSvc.Get(ctx, "s-3", admin)
	require.NoError(t, err)
	assert.Equal(t, "DKT-9", sh.DocketNo)

	inv, err := env.invoiceSvc.Get(ctx, "i-1", admin)
	require.NoError(t, err)
	assert.Equal(t, "DKT-9", inv.Items[0].DocketNo)
	assert.Equal(t, "DKT-10", inv.Items[1].DocketNo)
	assert.Empty(t, inv.Items[2].DocketNo)

	changed, err := env.dockets.Invoice(ctx, inv)
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := env.invoices.GetByID(ctx, "i-1")
	require.NoError(t, err)
	assert.Equal(t, "DKT-9", stored.Items[0].DocketNo)
	assert.Equal(t, "DKT-10", stored.Items[1].DocketNo)
}

func TestBackfillAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.consignments.Create(ctx, &models.Consignment{ID: "c-1", SrNo: 1, ConsignmentNo: "DXOO1", ShipmentID: "s-1"}))
	require.NoError(t, env.consignments.Create(ctx, &models.Consignment{ID: "c-2", SrNo: 2, ConsignmentNo: "DXOO2",
		ConsignmentDetails: models.ConsignmentDetails{DocketNo: "D-2"}}))
	require.NoError(t, env.shipments.Create(ctx, &models.Shipment{ID: "s-1", TrackingNumber: "RR1"}))
	require.NoError(t, env.invoices.Create(ctx, &models.Invoice{ID: "i-1", InvoiceNumber: "INV-1",
		Items: []models.InvoiceItem{{ShipmentID: "s-1", TrackingNumber: "RR1"}}}))

	stats, err := env.dockets.BackfillAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, BackfillStats{Consignments: 1, Shipments: 1, Invoices: 1}, stats)

	stats, err = env.dockets.BackfillAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, BackfillStats{}, stats)

	sh, err := env.shipments.GetByID(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "DXOO1", sh.DocketNo)
}
