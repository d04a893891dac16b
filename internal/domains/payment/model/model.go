package model

import (
	"database/sql"
	"rentwheels/shared/model"

	gDto "rentwheels/shared/dto"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID                = "id"
	FieldBookingID         = "booking_id"
	FieldUserID            = "user_id"
	FieldAmount            = "amount"
	FieldCurrency          = "currency"
	FieldMethod            = "method"
	FieldStatus            = "status"
	FieldCheckoutRequestID = "checkout_request_id"
	FieldReceiptNumber     = "receipt_number"
	FieldFailureReason     = "failure_reason"
	FieldPaidAt            = "paid_at"
)

const (
	MethodMpesa = "mpesa"
	MethodCash  = "cash"
	MethodCard  = "card"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// transitions holds the legal next states per status. Failed and refunded
// are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusCompleted: {StatusRefunded},
	StatusFailed:    {},
	StatusRefunded:  {},
}

// Normalize maps a raw stored value onto a known status. An empty value is
// treated as pending.
func (s Status) Normalize() Status {
	if s == "" {
		return StatusPending
	}

	return s
}

func (s Status) Valid() bool {
	_, ok := transitions[s.Normalize()]

	return ok
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s.Normalize()]

	return ok && len(next) == 0
}

func (s Status) NextStates() []Status {
	next, ok := transitions[s.Normalize()]
	if !ok {
		return []Status{}
	}

	return append([]Status{}, next...)
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range s.NextStates() {
		if next == target {
			return true
		}
	}

	return false
}

// Badge maps the status onto its display descriptor.
func (s Status) Badge() gDto.Badge {
	switch s.Normalize() {
	case StatusPending:
		return gDto.Badge{Color: "yellow", Icon: "clock", Label: "Pending"}
	case StatusCompleted:
		return gDto.Badge{Color: "green", Icon: "check", Label: "Completed"}
	case StatusFailed:
		return gDto.Badge{Color: "red", Icon: "x", Label: "Failed"}
	case StatusRefunded:
		return gDto.Badge{Color: "purple", Icon: "refresh", Label: "Refunded"}
	default:
		return gDto.Badge{Color: "gray", Icon: "alert", Label: string(s)}
	}
}

type Payment struct {
	ID        string `db:"id"`
	BookingID string `db:"booking_id"`
	UserID    string `db:"user_id"`
	// Amount is in minor currency units.
	Amount            int64          `db:"amount"`
	Currency          string         `db:"currency"`
	Method            string         `db:"method"`
	Status            Status         `db:"status"`
	CheckoutRequestID sql.NullString `db:"checkout_request_id"`
	ReceiptNumber     sql.NullString `db:"receipt_number"`
	FailureReason     sql.NullString `db:"failure_reason"`
	PaidAt            sql.NullTime   `db:"paid_at"`
	model.Metadata
}
