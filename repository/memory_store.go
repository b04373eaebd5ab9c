package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"rrlogistics/models"
)

// The memory repositories back DB_TYPE=memory and the service tests. They
// hand out copies so callers never share state with the store.

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func page[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}

type MemoryConsignmentRepo struct {
	mu    sync.RWMutex
	items map[string]models.Consignment
}

func NewMemoryConsignmentRepo() *MemoryConsignmentRepo {
	return &MemoryConsignmentRepo{items: make(map[string]models.Consignment)}
}

func (r *MemoryConsignmentRepo) Create(ctx context.Context, c *models.Consignment) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = NewID()
	}
	if _, ok := r.items[c.ID]; ok {
		return ErrDuplicate
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.items[c.ID] = *c
	return nil
}

func (r *MemoryConsignmentRepo) GetByID(ctx context.Context, id string) (*models.Consignment, error) {
	return r.find(ctx, func(c *models.Consignment) bool { return c.ID == id })
}

func (r *MemoryConsignmentRepo) FindByShipmentID(ctx context.Context, shipmentID string) (*models.Consignment, error) {
	return r.find(ctx, func(c *models.Consignment) bool { return c.ShipmentID == shipmentID })
}

func (r *MemoryConsignmentRepo) FindByNumber(ctx context.Context, number string) (*models.Consignment, error) {
	return r.find(ctx, func(c *models.Consignment) bool {
		return c.ConsignmentNo == number || c.DocketNo == number
	})
}

func (r *MemoryConsignmentRepo) find(ctx context.Context, match func(*models.Consignment) bool) (*models.Consignment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if match(&c) {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryConsignmentRepo) List(ctx context.Context, f models.ConsignmentFilter) ([]*models.Consignment, error) {
	out, err := r.filter(ctx, func(c *models.Consignment) bool {
		return (f.StartDate == "" || c.Date >= f.StartDate) &&
			(f.EndDate == "" || c.Date <= f.EndDate) &&
			(f.Zone == "" || c.Zone == f.Zone) &&
			(f.UserID == "" || c.UserID == f.UserID) &&
			(f.InvoiceID == "" || c.InvoiceID == f.InvoiceID)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SrNo > out[j].SrNo })
	return page(out, f.Skip, f.Limit), nil
}

func (r *MemoryConsignmentRepo) ListUnlinked(ctx context.Context, before time.Time, limit int64) ([]*models.Consignment, error) {
	out, err := r.filter(ctx, func(c *models.Consignment) bool {
		return (c.CascadeStatus == models.CascadePending || c.CascadeStatus == models.CascadeDegraded) &&
			c.CreatedAt.Before(before)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, 0, limit), nil
}

func (r *MemoryConsignmentRepo) filter(ctx context.Context, match func(*models.Consignment) bool) ([]*models.Consignment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Consignment{}
	for _, c := range r.items {
		if match(&c) {
			item := c
			out = append(out, &item)
		}
	}
	return out, nil
}

func (r *MemoryConsignmentRepo) MaxSrNo(ctx context.Context) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var maxSr int64
	for _, c := range r.items {
		maxSr = max(maxSr, c.SrNo)
	}
	return maxSr, nil
}

func (r *MemoryConsignmentRepo) UpdateDetails(ctx context.Context, id string, details models.ConsignmentDetails, total float64) error {
	return r.mutate(ctx, id, func(c *models.Consignment) {
		c.ConsignmentDetails = details
		c.Total = total
	})
}

func (r *MemoryConsignmentRepo) SetLinks(ctx context.Context, id string, l models.ConsignmentLinks) error {
	return r.mutate(ctx, id, func(c *models.Consignment) {
		if l.ShipmentID != "" {
			c.ShipmentID = l.ShipmentID
		}
		if l.InvoiceID != "" {
			c.InvoiceID = l.InvoiceID
		}
		if l.InvoiceNo != "" {
			c.InvoiceNo = l.InvoiceNo
		}
		if l.CascadeStatus != "" {
			c.CascadeStatus = l.CascadeStatus
		}
		if l.CascadeAttempts != nil {
			c.CascadeAttempts = *l.CascadeAttempts
		}
	})
}

func (r *MemoryConsignmentRepo) SetDocketNo(ctx context.Context, id, docketNo string) error {
	return r.mutate(ctx, id, func(c *models.Consignment) { c.DocketNo = docketNo })
}

func (r *MemoryConsignmentRepo) mutate(ctx context.Context, id string, fn func(*models.Consignment)) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	fn(&c)
	now := time.Now().UTC()
	c.UpdatedAt = &now
	r.items[id] = c
	return nil
}

func (r *MemoryConsignmentRepo) Delete(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type MemoryShipmentRepo struct {
	mu    sync.RWMutex
	items map[string]models.Shipment
}

func NewMemoryShipmentRepo() *MemoryShipmentRepo {
	return &MemoryShipmentRepo{items: make(map[string]models.Shipment)}
}

func cloneShipment(s models.Shipment) *models.Shipment {
	s.TrackingHistory = slices.Clone(s.TrackingHistory)
	if s.Dimensions != nil {
		d := *s.Dimensions
		s.Dimensions = &d
	}
	if s.Pricing != nil {
		p := *s.Pricing
		s.Pricing = &p
	}
	return &s
}

func (r *MemoryShipmentRepo) Create(ctx context.Context, s *models.Shipment) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = NewID()
	}
	for _, existing := range r.items {
		if existing.TrackingNumber == s.TrackingNumber {
			return ErrDuplicate
		}
		if s.ConsignmentID != "" && existing.ConsignmentID == s.ConsignmentID {
			return ErrDuplicate
		}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	r.items[s.ID] = *cloneShipment(*s)
	return nil
}

func (r *MemoryShipmentRepo) GetByID(ctx context.Context, id string) (*models.Shipment, error) {
	return r.find(ctx, func(s *models.Shipment) bool { return s.ID == id })
}

func (r *MemoryShipmentRepo) FindByConsignmentID(ctx context.Context, consignmentID string) (*models.Shipment, error) {
	return r.find(ctx, func(s *models.Shipment) bool { return s.ConsignmentID == consignmentID })
}

func (r *MemoryShipmentRepo) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	return r.find(ctx, func(s *models.Shipment) bool { return s.TrackingNumber == trackingNumber })
}

func (r *MemoryShipmentRepo) FindByDocketNo(ctx context.Context, docketNo string) (*models.Shipment, error) {
	return r.find(ctx, func(s *models.Shipment) bool { return s.DocketNo == docketNo })
}

func (r *MemoryShipmentRepo) find(ctx context.Context, match func(*models.Shipment) bool) (*models.Shipment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.items {
		if match(&s) {
			return cloneShipment(s), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryShipmentRepo) List(ctx context.Context, f models.ShipmentFilter) ([]*models.Shipment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Shipment{}
	for _, s := range r.items {
		if (f.Status == "" || s.Status == f.Status) && (f.CustomerID == "" || s.CustomerID == f.CustomerID) {
			out = append(out, cloneShipment(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Skip, f.Limit), nil
}

func (r *MemoryShipmentRepo) SetConsignmentID(ctx context.Context, id, consignmentID string) error {
	return r.mutate(ctx, id, func(s *models.Shipment) { s.ConsignmentID = consignmentID })
}

func (r *MemoryShipmentRepo) SetInvoiceID(ctx context.Context, id, invoiceID string) error {
	return r.mutate(ctx, id, func(s *models.Shipment) { s.InvoiceID = invoiceID })
}

func (r *MemoryShipmentRepo) ApplySync(ctx context.Context, id string, sync models.ShipmentSync) error {
	return r.mutate(ctx, id, func(s *models.Shipment) {
		s.Destination = sync.Destination
		s.WeightKG = sync.WeightKG
		s.Description = sync.Description
		s.DocketNo = sync.DocketNo
		if sync.Dimensions != nil {
			d := *sync.Dimensions
			s.Dimensions = &d
		}
	})
}

func (r *MemoryShipmentRepo) AppendEvent(ctx context.Context, id string, event models.TrackingEvent) error {
	return r.mutate(ctx, id, func(s *models.Shipment) {
		s.Status = event.Status
		s.TrackingHistory = append(s.TrackingHistory, event)
	})
}

func (r *MemoryShipmentRepo) SetDocketNo(ctx context.Context, id, docketNo string) error {
	return r.mutate(ctx, id, func(s *models.Shipment) { s.DocketNo = docketNo })
}

func (r *MemoryShipmentRepo) Delete(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryShipmentRepo) mutate(ctx context.Context, id string, fn func(*models.Shipment)) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	updated := cloneShipment(s)
	fn(updated)
	now := time.Now().UTC()
	updated.UpdatedAt = &now
	r.items[id] = *updated
	return nil
}

type MemoryInvoiceRepo struct {
	mu    sync.RWMutex
	items map[string]models.Invoice
}

func NewMemoryInvoiceRepo() *MemoryInvoiceRepo {
	return &MemoryInvoiceRepo{items: make(map[string]models.Invoice)}
}

func cloneInvoice(inv models.Invoice) *models.Invoice {
	inv.Items = slices.Clone(inv.Items)
	inv.Payments = slices.Clone(inv.Payments)
	inv.ShipmentIDs = slices.Clone(inv.ShipmentIDs)
	return &inv
}

func (r *MemoryInvoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == "" {
		inv.ID = NewID()
	}
	for _, existing := range r.items {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return ErrDuplicate
		}
		if inv.ConsignmentID != "" && existing.ConsignmentID == inv.ConsignmentID {
			return ErrDuplicate
		}
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	r.items[inv.ID] = *cloneInvoice(*inv)
	return nil
}

func (r *MemoryInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	return r.find(ctx, func(inv *models.Invoice) bool { return inv.ID == id })
}

func (r *MemoryInvoiceRepo) FindByShipmentID(ctx context.Context, shipmentID string) (*models.Invoice, error) {
	return r.find(ctx, func(inv *models.Invoice) bool { return slices.Contains(inv.ShipmentIDs, shipmentID) })
}

func (r *MemoryInvoiceRepo) find(ctx context.Context, match func(*models.Invoice) bool) (*models.Invoice, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.items {
		if match(&inv) {
			return cloneInvoice(inv), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryInvoiceRepo) List(ctx context.Context, f models.InvoiceFilter) ([]*models.Invoice, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Invoice{}
	for _, inv := range r.items {
		if (f.CustomerID == "" || inv.CustomerID == f.CustomerID) &&
			(f.PaymentStatus == "" || inv.PaymentStatus == f.PaymentStatus) {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Skip, f.Limit), nil
}

func (r *MemoryInvoiceRepo) Recalculate(ctx context.Context, id string, rc models.InvoiceRecalc) error {
	return r.mutate(ctx, id, func(inv *models.Invoice) error {
		if inv.AmountPaid != rc.PreviousPaid {
			return ErrConflict
		}
		inv.CustomerName = rc.CustomerName
		inv.Items = slices.Clone(rc.Items)
		inv.Subtotal = rc.Subtotal
		inv.GSTAmount = rc.GSTAmount
		inv.TotalAmount = rc.TotalAmount
		inv.BalanceDue = rc.BalanceDue
		inv.PaymentStatus = rc.PaymentStatus
		return nil
	})
}

func (r *MemoryInvoiceRepo) ApplyPayment(ctx context.Context, id string, app models.PaymentApplication) error {
	return r.mutate(ctx, id, func(inv *models.Invoice) error {
		if inv.AmountPaid != app.PreviousPaid || inv.TotalAmount != app.PreviousTotal {
			return ErrConflict
		}
		inv.Payments = append(inv.Payments, app.Record)
		inv.AmountPaid = app.AmountPaid
		inv.BalanceDue = app.BalanceDue
		inv.PaymentStatus = app.PaymentStatus
		return nil
	})
}

func (r *MemoryInvoiceRepo) SetItems(ctx context.Context, id string, items []models.InvoiceItem) error {
	return r.mutate(ctx, id, func(inv *models.Invoice) error {
		inv.Items = slices.Clone(items)
		return nil
	})
}

func (r *MemoryInvoiceRepo) mutate(ctx context.Context, id string, fn func(*models.Invoice) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	updated := cloneInvoice(inv)
	if err := fn(updated); err != nil {
		return err
	}
	now := time.Now().UTC()
	updated.UpdatedAt = &now
	r.items[id] = *updated
	return nil
}

type MemoryRateCardRepo struct {
	mu    sync.RWMutex
	items map[string]models.RateCard
}

func NewMemoryRateCardRepo() *MemoryRateCardRepo {
	return &MemoryRateCardRepo{items: make(map[string]models.RateCard)}
}

func (r *MemoryRateCardRepo) Create(ctx context.Context, card *models.RateCard) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Key() == card.Key() {
			return ErrDuplicate
		}
	}
	if card.ID == "" {
		card.ID = NewID()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	r.items[card.ID] = *card
	return nil
}

func (r *MemoryRateCardRepo) GetByID(ctx context.Context, id string) (*models.RateCard, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	card, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &card, nil
}

func (r *MemoryRateCardRepo) FindByKey(ctx context.Context, key models.RateCardKey, activeOnly bool) (*models.RateCard, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, card := range r.items {
		if card.UserID != key.UserID || card.DeliveryPartner != key.DeliveryPartner ||
			card.ServiceType != key.ServiceType || card.Mode != key.Mode {
			continue
		}
		if (key.Region != "" && card.Region != key.Region) || (key.Zone != "" && card.Zone != key.Zone) {
			continue
		}
		if activeOnly && !card.IsActive {
			continue
		}
		out := card
		return &out, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRateCardRepo) List(ctx context.Context, f models.RateCardFilter) ([]*models.RateCard, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.RateCard{}
	for _, card := range r.items {
		if (f.UserID == "" || card.UserID == f.UserID) &&
			(f.DeliveryPartner == "" || card.DeliveryPartner == f.DeliveryPartner) &&
			(f.ServiceType == "" || card.ServiceType == f.ServiceType) &&
			(!f.ActiveOnly || card.IsActive) {
			item := card
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRateCardRepo) Update(ctx context.Context, card *models.RateCard) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[card.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range r.items {
		if id != card.ID && existing.Key() == card.Key() {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	card.UpdatedAt = &now
	r.items[card.ID] = *card
	return nil
}

func (r *MemoryRateCardRepo) SetActive(ctx context.Context, id string, active bool) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	card.IsActive = active
	r.items[id] = card
	return nil
}

func (r *MemoryRateCardRepo) Delete(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type MemoryPricingRuleRepo struct {
	mu    sync.RWMutex
	items map[string]models.PricingRule
}

func NewMemoryPricingRuleRepo() *MemoryPricingRuleRepo {
	return &MemoryPricingRuleRepo{items: make(map[string]models.PricingRule)}
}

func (r *MemoryPricingRuleRepo) Create(ctx context.Context, rule *models.PricingRule) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if rule.ID == "" {
		rule.ID = NewID()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	r.items[rule.ID] = *rule
	return nil
}

func (r *MemoryPricingRuleRepo) GetByID(ctx context.Context, id string) (*models.PricingRule, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rule, nil
}

func (r *MemoryPricingRuleRepo) FindActive(ctx context.Context, q models.PricingRuleQuery) (*models.PricingRule, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.items {
		if rule.IsActive &&
			(q.Zone == "" || rule.Zone == q.Zone) &&
			(q.ShipmentType == "" || rule.ShipmentType == q.ShipmentType) &&
			(q.ServiceType == "" || rule.ServiceType == q.ServiceType) {
			out := rule
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryPricingRuleRepo) List(ctx context.Context) ([]*models.PricingRule, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.PricingRule{}
	for _, rule := range r.items {
		item := rule
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zone < out[j].Zone })
	return out, nil
}

func (r *MemoryPricingRuleRepo) Update(ctx context.Context, rule *models.PricingRule) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[rule.ID]; !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	rule.UpdatedAt = &now
	r.items[rule.ID] = *rule
	return nil
}

func (r *MemoryPricingRuleRepo) Delete(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type MemoryUserRepo struct {
	mu    sync.RWMutex
	items map[string]models.AppUser
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{items: make(map[string]models.AppUser)}
}

func (r *MemoryUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, existing := range r.items {
		if existing.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.items[user.ID] = *user
	return nil
}

func (r *MemoryUserRepo) GetUserByID(ctx context.Context, id string) (*models.AppUser, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.items {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepo) ListUsers(ctx context.Context, skip, limit int64) ([]*models.AppUser, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.AppUser, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, skip, limit), nil
}

func (r *MemoryUserRepo) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	upd.Apply(&u)
	now := time.Now().UTC()
	u.UpdatedAt = &now
	r.items[id] = u
	return nil
}

type MemorySequence struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemorySequence() *MemorySequence {
	return &MemorySequence{counters: make(map[string]int64)}
}

func (s *MemorySequence) Next(ctx context.Context, name string) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
	return s.counters[name], nil
}

func (s *MemorySequence) SeedAtLeast(ctx context.Context, name string, floor int64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] = max(s.counters[name], floor)
	return nil
}
