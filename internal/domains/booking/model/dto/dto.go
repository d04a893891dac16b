package dto

import (
	"rentwheels/internal/domains/booking/model"
	"rentwheels/shared"
	"rentwheels/shared/constant"
	gDto "rentwheels/shared/dto"
	gModel "rentwheels/shared/model"
	"rentwheels/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"   validate:"required"`
	Notes     string `json:"notes"      validate:"omitempty,max=500"`
}

func (c *CreateBookingRequest) ToModel(user string, dailyRateMinor int64) (model.Booking, error) {
	startDate, err := time.Parse(constant.DateOnlyFormat, c.StartDate)
	if err != nil {
		return model.Booking{}, err
	}

	endDate, err := time.Parse(constant.DateOnlyFormat, c.EndDate)
	if err != nil {
		return model.Booking{}, err
	}

	booking := model.Booking{
		ID:        uuid.NewString(),
		UserID:    user,
		VehicleID: c.VehicleID,
		StartDate: startDate,
		EndDate:   endDate,
		Currency:  constant.CurrencyKES,
		Status:    model.StatusPending,
		Notes:     c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	booking.TotalAmount = booking.Days() * dailyRateMinor

	return booking, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed active completed cancelled"`
}

type BookingResponse struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	VehicleID   string       `json:"vehicle_id"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	TotalAmount int64        `json:"total_amount"`
	Currency    string       `json:"currency"`
	Status      model.Status `json:"status"`
	Badge       gDto.Badge   `json:"badge"`
	Notes       string       `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.UserID = mod.UserID
	r.VehicleID = mod.VehicleID
	r.StartDate = mod.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = mod.EndDate.Format(constant.DateOnlyFormat)
	r.TotalAmount = mod.TotalAmount
	r.Currency = mod.Currency
	r.Status = mod.Status.Normalize()
	r.Badge = mod.Status.Badge()
	r.Notes = mod.Notes
	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// TransitionsResponse lists the legal next statuses for a booking so clients
// can render only the actions the server will accept.
type TransitionsResponse struct {
	ID       string         `json:"id"`
	Status   model.Status   `json:"status"`
	Terminal bool           `json:"terminal"`
	Next     []model.Status `json:"next"`
}

func (r *TransitionsResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.Status = mod.Status.Normalize()
	r.Terminal = mod.Status.IsTerminal()
	r.Next = mod.Status.NextStates()
}

// BookingEvent is the payload published to the booking events topic on
// lifecycle changes.
type BookingEvent struct {
	BookingID  string       `json:"booking_id"`
	UserID     string       `json:"user_id"`
	VehicleID  string       `json:"vehicle_id"`
	FromStatus model.Status `json:"from_status,omitempty"`
	ToStatus   model.Status `json:"to_status"`
	OccurredAt time.Time    `json:"occurred_at"`
}
