package model

import (
	"rentwheels/shared/model"
	"time"

	gDto "rentwheels/shared/dto"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldVehicleID   = "vehicle_id"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldTotalAmount = "total_amount"
	FieldCurrency    = "currency"
	FieldStatus      = "status"
	FieldNotes       = "notes"
	FieldCreatedBy   = "created_by"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions holds the legal next states per status. Completed and
// cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Normalize maps a raw stored value onto a known status. An empty value is
// treated as pending so legacy rows without a status still classify.
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

// NextStates returns the statuses this one may legally move to. Unknown
// statuses have no legal moves.
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

// Badge maps the status onto its display descriptor. Unknown values get a
// gray alert badge carrying the raw value so they surface instead of
// breaking rendering.
func (s Status) Badge() gDto.Badge {
	switch s.Normalize() {
	case StatusPending:
		return gDto.Badge{Color: "amber", Icon: "clock", Label: "Pending"}
	case StatusConfirmed:
		return gDto.Badge{Color: "blue", Icon: "check", Label: "Confirmed"}
	case StatusActive:
		return gDto.Badge{Color: "green", Icon: "trending-up", Label: "Active"}
	case StatusCompleted:
		return gDto.Badge{Color: "emerald", Icon: "check", Label: "Completed"}
	case StatusCancelled:
		return gDto.Badge{Color: "red", Icon: "x", Label: "Cancelled"}
	default:
		return gDto.Badge{Color: "gray", Icon: "alert", Label: string(s)}
	}
}

type Booking struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	VehicleID   string    `db:"vehicle_id"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	TotalAmount int64     `db:"total_amount"`
	Currency    string    `db:"currency"`
	Status      Status    `db:"status"`
	Notes       string    `db:"notes"`
	model.Metadata
}

// Days is the billable rental length. Same-day rentals bill one day.
func (b *Booking) Days() int64 {
	days := int64(b.EndDate.Sub(b.StartDate).Hours() / 24)
	if days < 1 {
		days = 1
	}

	return days
}
