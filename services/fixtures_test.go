package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"rrlogistics/events"
	"rrlogistics/models"
	"rrlogistics/repository"
)

var errStoreDown = errors.New("store unavailable")

// failingShipments rejects inserts while fail is set.
type failingShipments struct {
	*repository.MemoryShipmentRepo
	mu   sync.Mutex
	fail bool
}

func (f *failingShipments) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *failingShipments) Create(ctx context.Context, s *models.Shipment) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return f.MemoryShipmentRepo.Create(ctx, s)
}

type failingInvoices struct {
	*repository.MemoryInvoiceRepo
	failCreate      bool
	failRecalculate bool
	conflict        bool
}

func (f *failingInvoices) Create(ctx context.Context, inv *models.Invoice) error {
	if f.failCreate {
		return errStoreDown
	}
	return f.MemoryInvoiceRepo.Create(ctx, inv)
}

func (f *failingInvoices) Recalculate(ctx context.Context, id string, rc models.InvoiceRecalc) error {
	if f.failRecalculate {
		return errStoreDown
	}
	return f.MemoryInvoiceRepo.Recalculate(ctx, id, rc)
}

func (f *failingInvoices) ApplyPayment(ctx context.Context, id string, app models.PaymentApplication) error {
	if f.conflict {
		return repository.ErrConflict
	}
	return f.MemoryInvoiceRepo.ApplyPayment(ctx, id, app)
}

// countingConsignments counts docket writes.
type countingConsignments struct {
	*repository.MemoryConsignmentRepo
	docketWrites int
}

func (c *countingConsignments) SetDocketNo(ctx context.Context, id, docketNo string) error {
	c.docketWrites++
	return c.MemoryConsignmentRepo.SetDocketNo(ctx, id, docketNo)
}

type recordingRetrier struct {
	mu        sync.Mutex
	scheduled map[string]int
}

func (r *recordingRetrier) Schedule(consignmentID string, attempts int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduled == nil {
		r.scheduled = make(map[string]int)
	}
	r.scheduled[consignmentID] = attempts
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if evt, ok := value.(events.Event); ok {
		p.events = append(p.events, evt)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	consignments *countingConsignments
	shipments    *failingShipments
	invoices     *failingInvoices
	users        *repository.MemoryUserRepo
	rules        *repository.MemoryPricingRuleRepo
	sequence     *repository.MemorySequence

	resolver  *RateResolver
	cascade   *CascadeCreator
	sync      *SyncPropagator
	dockets   *DocketReconciler
	ledger    *PaymentLedger
	retrier   *recordingRetrier
	publisher *recordingPublisher

	consignmentSvc *ConsignmentService
	shipmentSvc    *ShipmentService
	invoiceSvc     *InvoiceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		consignments: &countingConsignments{MemoryConsignmentRepo: repository.NewMemoryConsignmentRepo()},
		shipments:    &failingShipments{MemoryShipmentRepo: repository.NewMemoryShipmentRepo()},
		invoices:     &failingInvoices{MemoryInvoiceRepo: repository.NewMemoryInvoiceRepo()},
		users:        repository.NewMemoryUserRepo(),
		rules:        repository.NewMemoryPricingRuleRepo(),
		sequence:     repository.NewMemorySequence(),
		retrier:      &recordingRetrier{},
		publisher:    &recordingPublisher{},
	}
	env.resolver = NewRateResolver(env.users, env.rules)
	env.cascade = NewCascadeCreator(env.consignments, env.shipments, env.invoices, env.users)
	env.sync = NewSyncPropagator(env.shipments, env.invoices)
	env.dockets = NewDocketReconciler(env.consignments, env.shipments, env.invoices)
	env.ledger = NewPaymentLedger(env.invoices)

	env.consignmentSvc = NewConsignmentService(ConsignmentServiceDeps{
		Repo:      env.consignments,
		Sequence:  env.sequence,
		Resolver:  env.resolver,
		Cascade:   env.cascade,
		Retrier:   env.retrier,
		Sync:      env.sync,
		Dockets:   env.dockets,
		Publisher: env.publisher,
	})
	env.shipmentSvc = NewShipmentService(env.shipments, env.consignments, env.dockets)
	env.invoiceSvc = NewInvoiceService(env.invoices, env.ledger, env.dockets, env.publisher)
	return env
}

func (env *testEnv) addUser(t *testing.T, u models.AppUser) *models.AppUser {
	t.Helper()
	require.NoError(t, env.users.CreateUser(context.Background(), &u))
	return &u
}

func baseDetails() models.ConsignmentDetails {
	return models.ConsignmentDetails{
		Date:        "2026-03-09",
		Name:        "Anita Rao",
		Destination: "12 MG Road, Bengaluru",
		Pieces:      1,
		Weight:      20,
		ProductName: "Machine parts",
		Zone:        models.ZoneMetro,
		BaseRate:    200,
		GST:         18,
	}
}

var admin = models.Principal{UserID: "admin-1", Role: models.RoleMasterAdmin}
