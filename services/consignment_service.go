package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"rrlogistics/events"
	"rrlogistics/logger"
	"rrlogistics/models"
	"rrlogistics/pricing"
	"rrlogistics/repository"
	"rrlogistics/utils"
)

// RetryScheduler queues a further cascade attempt for a consignment.
type RetryScheduler interface {
	Schedule(consignmentID string, attempts int)
}

type ConsignmentResult struct {
	Consignment *models.Consignment `json:"consignment"`
	Cascade     *CascadeOutcome     `json:"cascade,omitempty"`
	Sync        *SyncOutcome        `json:"sync,omitempty"`
}

type ConsignmentService struct {
	repo      repository.ConsignmentRepository
	sequence  repository.Sequence
	resolver  *RateResolver
	cascade   *CascadeCreator
	retrier   RetryScheduler
	sync      *SyncPropagator
	dockets   *DocketReconciler
	publisher events.Publisher
	now       func() time.Time
}

type ConsignmentServiceDeps struct {
	Repo      repository.ConsignmentRepository
	Sequence  repository.Sequence
	Resolver  *RateResolver
	Cascade   *CascadeCreator
	Retrier   RetryScheduler
	Sync      *SyncPropagator
	Dockets   *DocketReconciler
	Publisher events.Publisher
}

func NewConsignmentService(deps ConsignmentServiceDeps) *ConsignmentService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ConsignmentService{
		repo:      deps.Repo,
		sequence:  deps.Sequence,
		resolver:  deps.Resolver,
		cascade:   deps.Cascade,
		retrier:   deps.Retrier,
		sync:      deps.Sync,
		dockets:   deps.Dockets,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a consignment and runs the first cascade attempt inline. The
// consignment is returned even when the cascade is incomplete; the outcome says
// what is missing and the retrier takes over from there.
func (s *ConsignmentService) Create(ctx context.Context, d models.ConsignmentDetails, actor string) (*ConsignmentResult, error) {
	now := s.now()
	if err := normalizeDetails(&d, now); err != nil {
		return nil, err
	}

	user := s.resolver.Apply(ctx, &d)

	srNo, err := s.sequence.Next(ctx, repository.ConsignmentSerial)
	if err != nil {
		return nil, fmt.Errorf("allocate serial number: %w", err)
	}

	c := &models.Consignment{
		ID:                 repository.NewID(),
		SrNo:               srNo,
		ConsignmentNo:      utils.ConsignmentNumber(now, srNo),
		ConsignmentDetails: d,
		CascadeStatus:      models.CascadePending,
		CreatedBy:          actor,
		CreatedAt:          now,
	}
	if c.DocketNo == "" {
		c.DocketNo = c.ConsignmentNo
	}
	c.Total = pricing.Round2(pricing.ConsignmentTotal(chargesOf(c.ConsignmentDetails)))

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create consignment: %w", err)
	}
	s.publish(ctx, events.ConsignmentCreated, c.ID, c)

	out := s.cascade.Run(ctx, c, user, actor)
	if out.Complete() {
		s.publish(ctx, events.ConsignmentLinked, c.ID, out)
	} else {
		s.publish(ctx, events.ConsignmentCascadeDegraded, c.ID, out)
		if s.retrier != nil {
			s.retrier.Schedule(c.ID, out.Attempts)
		}
	}
	return &ConsignmentResult{Consignment: c, Cascade: &out}, nil
}

func (s *ConsignmentService) Get(ctx context.Context, id string) (*models.Consignment, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("consignment", err)
	}
	reconcileOnRead("consignment", c.ID, func() (bool, error) { return s.dockets.Consignment(ctx, c) })
	return c, nil
}

func (s *ConsignmentService) List(ctx context.Context, filter models.ConsignmentFilter) ([]*models.Consignment, error) {
	for field, v := range map[string]string{"start_date": filter.StartDate, "end_date": filter.EndDate} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return nil, models.ValidationError{Field: field, Msg: "expected YYYY-MM-DD"}
		}
	}
	filter.Zone = models.ConsignmentZone(strings.ToUpper(string(filter.Zone)))

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list consignments: %w", err)
	}
	for _, c := range list {
		reconcileOnRead("consignment", c.ID, func() (bool, error) { return s.dockets.Consignment(ctx, c) })
	}
	return list, nil
}

// Update applies a full or partial edit, recomputes the total and pushes the change
// to the linked shipment and invoice. Only the editable fields are written, so
// links set concurrently by the cascade survive.
func (s *ConsignmentService) Update(ctx context.Context, id string, patch models.ConsignmentPatch, actor string) (*ConsignmentResult, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("consignment", err)
	}

	d := c.ConsignmentDetails
	patch.Apply(&d)
	if err := normalizeDetails(&d, s.now()); err != nil {
		return nil, err
	}
	if d.DocketNo == "" {
		d.DocketNo = consignmentDocket(c)
	}
	total := pricing.Round2(pricing.ConsignmentTotal(chargesOf(d)))

	if err := s.repo.UpdateDetails(ctx, id, d, total); err != nil {
		return nil, notFound("consignment", err)
	}
	c.ConsignmentDetails = d
	c.Total = total
	now := s.now()
	c.UpdatedAt = &now

	out := s.sync.Propagate(ctx, c)
	s.publish(ctx, events.ConsignmentUpdated, c.ID, map[string]interface{}{
		"consignment": c,
		"sync":        out,
		"updated_by":  actor,
	})
	return &ConsignmentResult{Consignment: c, Sync: &out}, nil
}

// Delete removes only the consignment. Its shipment and invoice are kept.
func (s *ConsignmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound("consignment", err)
	}
	return nil
}

func (s *ConsignmentService) publish(ctx context.Context, eventType, id string, payload interface{}) {
	if err := s.publisher.Publish(ctx, id, events.NewEvent(eventType, id, payload)); err != nil {
		logger.Log.Warn("publish event failed", zap.String("type", eventType), zap.String("consignment_id", id), zap.Error(err))
	}
}

func normalizeDetails(d *models.ConsignmentDetails, now time.Time) error {
	d.Destination = strings.TrimSpace(d.Destination)
	d.ProductName = strings.TrimSpace(d.ProductName)
	d.DocketNo = strings.TrimSpace(d.DocketNo)

	if d.Destination == "" {
		return models.ValidationError{Field: "destination", Msg: "is required"}
	}
	if d.ProductName == "" {
		return models.ValidationError{Field: "product_name", Msg: "is required"}
	}

	if d.Date == "" {
		d.Date = now.Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, d.Date); err != nil {
		return models.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}

	d.Zone = models.ConsignmentZone(strings.ToUpper(strings.TrimSpace(string(d.Zone))))
	if d.Zone == "" {
		d.Zone = models.ZoneLocal
	}
	if !d.Zone.Valid() {
		return models.ValidationError{Field: "zone", Msg: fmt.Sprintf("unknown zone %q", d.Zone)}
	}

	if d.Pieces < 0 {
		return models.ValidationError{Field: "pieces", Msg: "must not be negative"}
	}
	amounts := []struct {
		field string
		value float64
	}{
		{"weight", d.Weight},
		{"value", d.Value},
		{"base_rate", d.BaseRate},
		{"docket_charges", d.DocketCharges},
		{"oda_charge", d.OdaCharge},
		{"fov", d.FOV},
		{"fuel_charge", d.FuelCharge},
		{"gst", d.GST},
	}
	for _, a := range amounts {
		if a.value < 0 {
			return models.ValidationError{Field: a.field, Msg: "must not be negative"}
		}
	}
	return nil
}
