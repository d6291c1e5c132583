package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPix    PaymentMethod = "pix"
	PaymentMethodOnline PaymentMethod = "online"
)

type TransactionStatus string

const (
	TransactionStatusPaid     TransactionStatus = "paid"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

// Transaction is a point-of-sale record. Gateway settlement is outside this
// system; only the resulting ledger entry is stored.
type Transaction struct {
	Base
	BarbershopID  uuid.UUID         `db:"barbershop_id" json:"barbershop_id"`
	BarberID      uuid.UUID         `db:"barber_id" json:"barber_id"`
	AppointmentID *uuid.UUID        `db:"appointment_id" json:"appointment_id,omitempty"`
	ServiceID     *uuid.UUID        `db:"service_id" json:"service_id,omitempty"`
	AmountCents   int64             `db:"amount_cents" json:"amount_cents"`
	Method        PaymentMethod     `db:"method" json:"method"`
	Status        TransactionStatus `db:"status" json:"status"`
	PaidAt        time.Time         `db:"paid_at" json:"paid_at"`
}

type RecordTransactionRequest struct {
	BarbershopID  string  `json:"barbershop_id" binding:"required,uuid"`
	BarberID      string  `json:"barber_id" binding:"required,uuid"`
	AppointmentID *string `json:"appointment_id" binding:"omitempty,uuid"`
	ServiceID     *string `json:"service_id" binding:"omitempty,uuid"`
	AmountCents   int64   `json:"amount_cents" binding:"required,gt=0"`
	Method        string  `json:"method" binding:"required,oneof=cash card pix online"`
}

// RevenueSummary aggregates the ledger over a period.
type RevenueSummary struct {
	BarbershopID uuid.UUID `db:"barbershop_id" json:"barbershop_id"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	TotalCents   int64     `db:"total_cents" json:"total_cents"`
	Count        int       `db:"count" json:"count"`
}

// BarberRevenue is one row of the per-barber commission report.
type BarberRevenue struct {
	BarberID   uuid.UUID `db:"barber_id" json:"barber_id"`
	BarberName string    `db:"barber_name" json:"barber_name"`
	TotalCents int64     `db:"total_cents" json:"total_cents"`
	Count      int       `db:"count" json:"count"`
}
