package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rrlogistics/models"
	"rrlogistics/pricing"
	"rrlogistics/repository"
)

type PaymentRequest struct {
	Amount         float64              `json:"amount"`
	Method         models.PaymentMethod `json:"method"`
	TransactionRef string               `json:"transaction_ref"`
	Notes          string               `json:"notes"`
}

type PaymentResult struct {
	InvoiceID     string               `json:"invoice_id"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	AmountPaid    float64              `json:"amount_paid"`
	BalanceDue    float64              `json:"balance_due"`
}

// PaymentLedger applies payments to invoices. amount_paid only ever grows.
type PaymentLedger struct {
	invoices repository.InvoiceRepository
	now      func() time.Time
}

func NewPaymentLedger(invoices repository.InvoiceRepository) *PaymentLedger {
	return &PaymentLedger{invoices: invoices, now: func() time.Time { return time.Now().UTC() }}
}

// AddPayment validates and records one payment. The write is conditional on the
// amount_paid that was read, so two concurrent payments cannot both pass the
// balance check; the loser gets a ConflictError and may retry.
func (l *PaymentLedger) AddPayment(ctx context.Context, invoiceID string, req PaymentRequest, actor string) (*PaymentResult, error) {
	if req.Amount <= 0 {
		return nil, models.ValidationError{Field: "amount", Msg: "payment amount must be positive"}
	}
	req.Method = models.PaymentMethod(strings.ToLower(string(req.Method)))
	if !req.Method.Valid() {
		return nil, models.ValidationError{Field: "method", Msg: fmt.Sprintf("unsupported payment method %q", req.Method)}
	}

	inv, err := l.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, notFound("invoice", err)
	}
	if req.Amount > inv.BalanceDue+models.BalanceEpsilon {
		return nil, models.ValidationError{
			Field: "amount",
			Msg:   fmt.Sprintf("payment amount %.2f exceeds balance due %.2f", req.Amount, inv.BalanceDue),
		}
	}

	paid := pricing.Round2(inv.AmountPaid + req.Amount)
	balance := pricing.Round2(models.BalanceFor(inv.TotalAmount, paid))
	status := models.PaymentPartial
	if balance <= models.BalanceEpsilon {
		status = models.PaymentPaid
	}

	app := models.PaymentApplication{
		Record: models.PaymentRecord{
			Amount:         req.Amount,
			Method:         req.Method,
			TransactionRef: req.TransactionRef,
			PaymentDate:    l.now(),
			ReceivedBy:     actor,
			Notes:          req.Notes,
		},
		PreviousPaid:  inv.AmountPaid,
		PreviousTotal: inv.TotalAmount,
		AmountPaid:    paid,
		BalanceDue:    balance,
		PaymentStatus: status,
	}
	if err := l.invoices.ApplyPayment(ctx, inv.ID, app); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, models.ConflictError{Resource: "invoice", Msg: "invoice changed concurrently, retry", Err: err}
		}
		return nil, notFound("invoice", err)
	}

	return &PaymentResult{InvoiceID: inv.ID, PaymentStatus: status, AmountPaid: paid, BalanceDue: balance}, nil
}
