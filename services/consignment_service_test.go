package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrlogistics/models"
	"rrlogistics/repository"
)

func TestCreateValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(d *models.ConsignmentDetails)
		field  string
	}{
		{"missing destination", func(d *models.ConsignmentDetails) { d.Destination = " " }, "destination"},
		{"missing product", func(d *models.ConsignmentDetails) { d.ProductName = "" }, "product_name"},
		{"bad date", func(d *models.ConsignmentDetails) { d.Date = "09/03/2026" }, "date"},
		{"unknown zone", func(d *models.ConsignmentDetails) { d.Zone = "MARS" }, "zone"},
		{"negative weight", func(d *models.ConsignmentDetails) { d.Weight = -1 }, "weight"},
		{"negative gst", func(d *models.ConsignmentDetails) { d.GST = -18 }, "gst"},
		{"negative pieces", func(d *models.ConsignmentDetails) { d.Pieces = -2 }, "pieces"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			d := baseDetails()
			tc.mutate(&d)

			_, err := env.consignmentSvc.Create(context.Background(), d, admin.UserID)
			require.Error(t, err)
			var verr models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)

			list, err := env.consignments.List(context.Background(), models.ConsignmentFilter{})
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	d := baseDetails()
	d.Date = ""
	d.Zone = "west"
	d.DocketNo = " DKT-1 "

	res, err := env.consignmentSvc.Create(context.Background(), d, admin.UserID)
	require.NoError(t, err)
	assert.Len(t, res.Consignment.Date, len("2006-01-02"))
	assert.Equal(t, models.ZoneWest, res.Consignment.Zone)
	assert.Equal(t, "DKT-1", res.Consignment.DocketNo)
	assert.Equal(t, admin.UserID, res.Consignment.CreatedBy)
}

func TestCreateAssignsIncreasingSerials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.sequence.SeedAtLeast(ctx, repository.ConsignmentSerial, 41))

	var last int64
	for i := 0; i < 3; i++ {
		res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
		require.NoError(t, err)
		assert.Greater(t, res.Consignment.SrNo, last)
		last = res.Consignment.SrNo
	}
	assert.Equal(t, int64(44), last)

	list, err := env.consignmentSvc.List(ctx, models.ConsignmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(44), list[0].SrNo)
}

func TestListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := baseDetails()
	_, err := env.consignmentSvc.Create(ctx, d, admin.UserID)
	require.NoError(t, err)
	d.Zone = models.ZoneNorth
	d.Date = "2026-04-01"
	_, err = env.consignmentSvc.Create(ctx, d, admin.UserID)
	require.NoError(t, err)

	list, err := env.consignmentSvc.List(ctx, models.ConsignmentFilter{Zone: "north"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ZoneNorth, list[0].Zone)

	list, err = env.consignmentSvc.List(ctx, models.ConsignmentFilter{StartDate: "2026-03-01", EndDate: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2026-03-09", list[0].Date)

	_, err = env.consignmentSvc.List(ctx, models.ConsignmentFilter{StartDate: "yesterday"})
	assert.True(t, models.IsValidation(err))
}

func TestDeleteKeepsLinkedRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)
	require.NoError(t, env.consignmentSvc.Delete(ctx, res.Consignment.ID))

	_, err = env.consignmentSvc.Get(ctx, res.Consignment.ID)
	assert.True(t, models.IsNotFound(err))

	_, err = env.shipments.GetByID(ctx, res.Consignment.ShipmentID)
	assert.NoError(t, err)
	_, err = env.invoices.GetByID(ctx, res.Consignment.InvoiceID)
	assert.NoError(t, err)

	assert.True(t, models.IsNotFound(env.consignmentSvc.Delete(ctx, res.Consignment.ID)))
}
