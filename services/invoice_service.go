package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rrlogistics/events"
	"rrlogistics/logger"
	"rrlogistics/models"
	"rrlogistics/repository"
	"rrlogistics/utils"
)

type InvoiceService struct {
	repo      repository.InvoiceRepository
	ledger    *PaymentLedger
	dockets   *DocketReconciler
	publisher events.Publisher
}

func NewInvoiceService(repo repository.InvoiceRepository, ledger *PaymentLedger, dockets *DocketReconciler, publisher events.Publisher) *InvoiceService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &InvoiceService{repo: repo, ledger: ledger, dockets: dockets, publisher: publisher}
}

func (s *InvoiceService) List(ctx context.Context, filter models.InvoiceFilter, caller models.Principal) ([]*models.Invoice, error) {
	if !caller.Role.IsAdmin() {
		filter.CustomerID = caller.UserID
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	for _, inv := range list {
		s.prepare(ctx, inv)
	}
	return list, nil
}

func (s *InvoiceService) Get(ctx context.Context, id string, caller models.Principal) (*models.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("invoice", err)
	}
	if !caller.Role.IsAdmin() && inv.CustomerID != caller.UserID {
		return nil, models.NotFoundError{Resource: "invoice"}
	}
	s.prepare(ctx, inv)
	return inv, nil
}

func (s *InvoiceService) AddPayment(ctx context.Context, id string, req PaymentRequest, actor string) (*PaymentResult, error) {
	res, err := s.ledger.AddPayment(ctx, id, req, actor)
	if err != nil {
		return nil, err
	}
	evt := events.NewEvent(events.InvoicePaymentRecorded, id, res)
	if err := s.publisher.Publish(ctx, id, evt); err != nil {
		logger.Log.Warn("publish event failed", zap.String("type", evt.Type), zap.String("invoice_id", id), zap.Error(err))
	}
	return res, nil
}

func (s *InvoiceService) prepare(ctx context.Context, inv *models.Invoice) {
	reconcileOnRead("invoice", inv.ID, func() (bool, error) { return s.dockets.Invoice(ctx, inv) })
	inv.AmountInWords = utils.AmountInWords(inv.TotalAmount)
}
