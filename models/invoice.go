package models

import (
	"math"
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodUPI          PaymentMethod = "upi"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCredit       PaymentMethod = "credit"
	MethodCheque       PaymentMethod = "cheque"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodUPI, MethodBankTransfer, MethodCredit, MethodCheque:
		return true
	}
	return false
}

// BalanceEpsilon absorbs rounding noise when comparing money amounts.
const BalanceEpsilon = 0.01

type InvoiceItem struct {
	ShipmentID     string  `json:"shipment_id" bson:"shipment_id"`
	TrackingNumber string  `json:"tracking_number" bson:"tracking_number"`
	DocketNo       string  `json:"docket_no" bson:"docket_no"`
	Description    string  `json:"description" bson:"description"`
	WeightKG       float64 `json:"weight_kg" bson:"weight_kg"`
	Amount         float64 `json:"amount" bson:"amount"`
}

// PaymentRecord is immutable once appended.
type PaymentRecord struct {
	Amount         float64       `json:"amount" bson:"amount"`
	Method         PaymentMethod `json:"method" bson:"method"`
	TransactionRef string        `json:"transaction_ref,omitempty" bson:"transaction_ref,omitempty"`
	PaymentDate    time.Time     `json:"payment_date" bson:"payment_date"`
	ReceivedBy     string        `json:"received_by" bson:"received_by"`
	Notes          string        `json:"notes,omitempty" bson:"notes,omitempty"`
}

type Invoice struct {
	ID             string          `json:"id" bson:"_id"`
	InvoiceNumber  string          `json:"invoice_number" bson:"invoice_number"`
	CustomerID     string          `json:"customer_id" bson:"customer_id"`
	CustomerName   string          `json:"customer_name" bson:"customer_name"`
	CustomerEmail  string          `json:"customer_email" bson:"customer_email"`
	CustomerPhone  string          `json:"customer_phone,omitempty" bson:"customer_phone,omitempty"`
	BillingAddress string          `json:"billing_address" bson:"billing_address"`
	ShipmentIDs    []string        `json:"shipment_ids" bson:"shipment_ids"`
	ConsignmentID  string          `json:"consignment_id,omitempty" bson:"consignment_id,omitempty"`
	Items          []InvoiceItem   `json:"items" bson:"items"`
	Subtotal       float64         `json:"subtotal" bson:"subtotal"`
	GSTAmount      float64         `json:"gst_amount" bson:"gst_amount"`
	TotalAmount    float64         `json:"total_amount" bson:"total_amount"`
	AmountPaid     float64         `json:"amount_paid" bson:"amount_paid"`
	BalanceDue     float64         `json:"balance_due" bson:"balance_due"`
	PaymentStatus  PaymentStatus   `json:"payment_status" bson:"payment_status"`
	Payments       []PaymentRecord `json:"payments" bson:"payments"`
	DueDate        string          `json:"due_date" bson:"due_date"`
	Notes          string          `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy      string          `json:"created_by" bson:"created_by"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty" bson:"updated_at,omitempty"`

	AmountInWords string `json:"amount_in_words,omitempty" bson:"-"`
}

// BalanceFor returns max(total - paid, 0).
func BalanceFor(total, paid float64) float64 {
	return math.Max(total-paid, 0)
}

// DerivePaymentStatus applies the ledger rule to a total/paid pair.
func DerivePaymentStatus(total, paid float64) PaymentStatus {
	switch {
	case BalanceFor(total, paid) <= BalanceEpsilon:
		return PaymentPaid
	case paid > 0:
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// InvoiceRecalc replaces the synthesized line item and the totals of an invoice.
// It only applies while amount_paid still equals PreviousPaid.
type InvoiceRecalc struct {
	PreviousPaid  float64
	CustomerName  string
	Items         []InvoiceItem
	Subtotal      float64
	GSTAmount     float64
	TotalAmount   float64
	BalanceDue    float64
	PaymentStatus PaymentStatus
}

// PaymentApplication is the write produced by accepting one payment. It only
// applies while amount_paid and total_amount still hold the values it was computed from.
type PaymentApplication struct {
	Record        PaymentRecord
	PreviousPaid  float64
	PreviousTotal float64
	AmountPaid    float64
	BalanceDue    float64
	PaymentStatus PaymentStatus
}

type InvoiceFilter struct {
	CustomerID    string
	PaymentStatus PaymentStatus
	Skip          int64
	Limit         int64
}
