package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrlogistics/models"
	"rrlogistics/repository"
)

func TestShipmentTypeFor(t *testing.T) {
	testCases := []struct {
		weight float64
		want   models.ShipmentType
	}{
		{0.4, models.ShipmentDocument},
		{0.5, models.ShipmentDocument},
		{3, models.ShipmentParcel},
		{5, models.ShipmentParcel},
		{7, models.ShipmentFreight},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ShipmentTypeFor(tc.weight), "weight %v", tc.weight)
	}
}

func TestParseDimensions(t *testing.T) {
	assert.Equal(t, &models.Dimensions{Length: 10, Width: 20.5, Height: 30}, ParseDimensions("10*20.5*30"))
	assert.Equal(t, &models.Dimensions{Length: 1, Width: 2, Height: 3}, ParseDimensions(" 1 * 2 * 3 "))
	assert.Nil(t, ParseDimensions(""))
	assert.Nil(t, ParseDimensions("10x20x30"))
	assert.Nil(t, ParseDimensions("10*abc*30"))
}

func TestCreateCascadesShipmentAndInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.addUser(t, models.AppUser{
		Email: "ops@acme.test", FullName: "Acme Ops", Phone: "9876543210",
		Address: "1 Ring Road", City: "Delhi", State: "Delhi", Pincode: "110001",
		Role: models.RoleCustomer,
	})

	d := baseDetails()
	d.UserID = user.ID
	d.Box1Dimensions = "40*30*20"
	d.Remarks = "fragile"

	res, err := env.consignmentSvc.Create(ctx, d, admin.UserID)
	require.NoError(t, err)
	c := res.Consignment

	assert.InDelta(t, 200.0, c.Total, 0.01)
	assert.Equal(t, int64(1), c.SrNo)
	assert.Regexp(t, `^DXOO\d{10}001$`, c.ConsignmentNo)
	assert.Equal(t, c.ConsignmentNo, c.DocketNo)
	assert.Equal(t, models.CascadeLinked, c.CascadeStatus)
	assert.Equal(t, 1, c.CascadeAttempts)
	require.True(t, res.Cascade.Complete())
	assert.Empty(t, res.Cascade.Warnings)

	sh, err := env.shipments.GetByID(ctx, c.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, models.ShipmentFreight, sh.ShipmentType)
	assert.Equal(t, c.ID, sh.ConsignmentID)
	assert.Equal(t, c.InvoiceID, sh.InvoiceID)
	assert.Equal(t, c.DocketNo, sh.DocketNo)
	assert.Equal(t, "Acme Ops", sh.Origin.Name)
	assert.Equal(t, "Delhi", sh.Origin.City)
	assert.Equal(t, "Bengaluru", sh.Destination.City)
	assert.Equal(t, "India", sh.Destination.Country)
	assert.Equal(t, &models.Dimensions{Length: 40, Width: 30, Height: 20}, sh.Dimensions)
	assert.Equal(t, "fragile", sh.SpecialInstructions)
	require.Len(t, sh.TrackingHistory, 1)
	assert.Equal(t, models.ShipmentPending, sh.TrackingHistory[0].Status)
	assert.Equal(t, "Delhi", sh.TrackingHistory[0].Location)
	require.NotNil(t, sh.Pricing)
	assert.InDelta(t, 200.0, sh.Pricing.Total, 0.01)

	inv, err := env.invoices.GetByID(ctx, c.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, c.InvoiceNo, inv.InvoiceNumber)
	assert.InDelta(t, 200.0, inv.Subtotal, 0.01)
	assert.InDelta(t, 0.18*200, inv.GSTAmount, 0.01)
	assert.InDelta(t, 200*1.18, inv.TotalAmount, 0.01)
	assert.InDelta(t, inv.TotalAmount, inv.BalanceDue, 0.01)
	assert.Equal(t, models.PaymentPending, inv.PaymentStatus)
	assert.Equal(t, "Acme Ops", inv.CustomerName)
	assert.Equal(t, "1 Ring Road, Delhi, Delhi - 110001", inv.BillingAddress)
	assert.Equal(t, []string{sh.ID}, inv.ShipmentIDs)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, sh.TrackingNumber, inv.Items[0].TrackingNumber)
	assert.Contains(t, inv.Items[0].Description, "Machine parts to 12 MG Road, Bengaluru")
	assert.Equal(t, time.Now().UTC().AddDate(0, 0, 30).Format(time.DateOnly), inv.DueDate)

	stored, err := env.consignments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, sh.ID, stored.ShipmentID)
	assert.Equal(t, inv.ID, stored.InvoiceID)
	assert.Equal(t, models.CascadeLinked, stored.CascadeStatus)

	assert.Contains(t, env.publisher.types(), "consignment.created")
	assert.Contains(t, env.publisher.types(), "consignment.linked")
	assert.Empty(t, env.retrier.scheduled)
}

func TestCreateAppliesFuelBeforeGST(t *testing.T) {
	env := newTestEnv(t)
	d := baseDetails()
	d.DocketCharges = 50
	d.OdaCharge = 25
	d.FOV = 25
	d.FuelCharge = 10

	res, err := env.consignmentSvc.Create(context.Background(), d, admin.UserID)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, res.Consignment.Total, 0.01)

	inv, err := env.invoices.GetByID(context.Background(), res.Consignment.InvoiceID)
	require.NoError(t, err)
	assert.InDelta(t, 330.0, inv.Subtotal, 0.01)
	assert.InDelta(t, 59.4, inv.GSTAmount, 0.01)
	assert.InDelta(t, 389.4, inv.TotalAmount, 0.01)
	assert.InDelta(t, 330.0, inv.Items[0].Amount, 0.01)
}

func TestCreateSurvivesShipmentFailure(t *testing.T) {
	env := newTestEnv(t)
	env.shipments.setFail(true)
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)

	c := res.Consignment
	assert.Empty(t, c.ShipmentID)
	assert.Empty(t, c.InvoiceID)
	assert.Equal(t, models.CascadeDegraded, c.CascadeStatus)
	assert.False(t, res.Cascade.Complete())
	require.Len(t, res.Cascade.Warnings, 1)
	assert.Contains(t, res.Cascade.Warnings[0], "shipment")

	invoices, err := env.invoices.List(ctx, models.InvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, invoices)

	assert.Equal(t, map[string]int{c.ID: 1}, env.retrier.scheduled)
	assert.Contains(t, env.publisher.types(), "consignment.cascade_degraded")
}

func TestResumeCompletesWithoutDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.invoices.failCreate = true
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)
	c := res.Consignment
	assert.NotEmpty(t, c.ShipmentID)
	assert.Empty(t, c.InvoiceID)
	assert.Equal(t, models.CascadeDegraded, c.CascadeStatus)

	env.invoices.failCreate = false
	out, err := env.cascade.Resume(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, out.Complete())
	assert.Equal(t, c.ShipmentID, out.ShipmentID)
	assert.Equal(t, 2, out.Attempts)

	again, err := env.cascade.Resume(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, out.InvoiceID, again.InvoiceID)
	assert.Equal(t, 2, again.Attempts)

	shipments, err := env.shipments.List(ctx, models.ShipmentFilter{})
	require.NoError(t, err)
	assert.Len(t, shipments, 1)
	invoices, err := env.invoices.List(ctx, models.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, invoices, 1)

	stored, err := env.consignments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CascadeLinked, stored.CascadeStatus)
	assert.Equal(t, out.InvoiceNo, stored.InvoiceNo)
}

func TestResumeUnknownConsignment(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.cascade.Resume(context.Background(), "missing")
	assert.True(t, models.IsNotFound(err))
}

func TestCascadeWithoutCustomerUsesFallbacks(t *testing.T) {
	env := newTestEnv(t)
	d := baseDetails()
	d.Name = ""
	d.Weight = 0.4

	res, err := env.consignmentSvc.Create(context.Background(), d, admin.UserID)
	require.NoError(t, err)

	sh, err := env.shipments.GetByID(context.Background(), res.Consignment.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, models.ShipmentDocument, sh.ShipmentType)
	assert.Equal(t, "Sender", sh.Origin.Name)
	assert.Equal(t, "000000", sh.Origin.Pincode)
	assert.Equal(t, "Consignee", sh.Destination.Name)

	inv, err := env.invoices.GetByID(context.Background(), res.Consignment.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, "Customer", inv.CustomerName)
	assert.Equal(t, "Address not provided", inv.BillingAddress)
}

// lookupBarrier holds the first two invoice lookups until both have missed.
type lookupBarrier struct {
	repository.InvoiceRepository
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func (b *lookupBarrier) FindByShipmentID(ctx context.Context, shipmentID string) (*models.Invoice, error) {
	inv, err := b.InvoiceRepository.FindByShipmentID(ctx, shipmentID)
	b.mu.Lock()
	b.arrived++
	n := b.arrived
	b.mu.Unlock()
	if n == 2 {
		close(b.release)
	}
	if n <= 2 {
		<-b.release
	}
	return inv, err
}

func TestConcurrentResumeCreatesOneInvoice(t *testing.T) {
	env := newTestEnv(t)
	env.invoices.failCreate = true
	ctx := context.Background()

	res, err := env.consignmentSvc.Create(ctx, baseDetails(), admin.UserID)
	require.NoError(t, err)
	c := res.Consignment
	require.Equal(t, models.CascadeDegraded, c.CascadeStatus)
	env.invoices.failCreate = false

	barrier := &lookupBarrier{InvoiceRepository: env.invoices, release: make(chan struct{})}
	cascade := NewCascadeCreator(env.consignments, env.shipments, barrier, env.users)

	var wg sync.WaitGroup
	outcomes := make([]CascadeOutcome, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i], errs[i] = cascade.Resume(ctx, c.ID)
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.True(t, outcomes[0].Complete())
	assert.True(t, outcomes[1].Complete())
	assert.Equal(t, outcomes[0].InvoiceID, outcomes[1].InvoiceID)

	invoices, err := env.invoices.List(ctx, models.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, c.ID, invoices[0].ConsignmentID)

	stored, err := env.consignments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, invoices[0].ID, stored.InvoiceID)
}

func TestZeroChargeInvoiceIsPaidFromCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	d := baseDetails()
	d.BaseRate = 0

	res, err := env.consignmentSvc.Create(ctx, d, admin.UserID)
	require.NoError(t, err)

	inv, err := env.invoices.GetByID(ctx, res.Consignment.InvoiceID)
	require.NoError(t, err)
	assert.Zero(t, inv.TotalAmount)
	assert.Zero(t, inv.BalanceDue)
	assert.Equal(t, models.PaymentPaid, inv.PaymentStatus)

	_, err = env.consignmentSvc.Update(ctx, res.Consignment.ID, models.ConsignmentPatch{Weight: ptr(4.0)}, admin.UserID)
	require.NoError(t, err)

	inv, err = env.invoices.GetByID(ctx, res.Consignment.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, inv.PaymentStatus)
}
