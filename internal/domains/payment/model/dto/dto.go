package dto

import (
	"rentwheels/internal/domains/payment/model"
	"rentwheels/shared"
	"rentwheels/shared/constant"
	gDto "rentwheels/shared/dto"
	gModel "rentwheels/shared/model"
	"rentwheels/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreatePaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Method    string `json:"method"     validate:"required,oneof=mpesa cash card"`
}

func (c *CreatePaymentRequest) ToModel(user string, amountMinor int64) model.Payment {
	return model.Payment{
		ID:        uuid.NewString(),
		BookingID: c.BookingID,
		UserID:    user,
		Amount:    amountMinor,
		Currency:  constant.CurrencyKES,
		Method:    c.Method,
		Status:    model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed failed refunded"`
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type InitiateMpesaRequest struct {
	BookingID   string `json:"booking_id"   validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

type InitiateMpesaResponse struct {
	PaymentID         string `json:"payment_id"`
	CheckoutRequestID string `json:"checkout_request_id"`
	CustomerMessage   string `json:"customer_message"`
}

type PaymentResponse struct {
	ID            string       `json:"id"`
	BookingID     string       `json:"booking_id"`
	UserID        string       `json:"user_id"`
	Amount        int64        `json:"amount"`
	Currency      string       `json:"currency"`
	Method        string       `json:"method"`
	Status        model.Status `json:"status"`
	Badge         gDto.Badge   `json:"badge"`
	ReceiptNumber string       `json:"receipt_number,omitempty"`
	FailureReason string       `json:"failure_reason,omitempty"`
	PaidAt        string       `json:"paid_at,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(mod model.Payment) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.UserID = mod.UserID
	r.Amount = mod.Amount
	r.Currency = mod.Currency
	r.Method = mod.Method
	r.Status = mod.Status.Normalize()
	r.Badge = mod.Status.Badge()
	r.ReceiptNumber = mod.ReceiptNumber.String
	r.FailureReason = mod.FailureReason.String

	if mod.PaidAt.Valid {
		r.PaidAt = timezone.Format(mod.PaidAt.Time, constant.DateFormat)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}

type ReconcileRequest struct {
	Since string `json:"since" validate:"required"`
}

// ReconcileResponse summarizes a reconciliation run against the payment
// gateway.
type ReconcileResponse struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
}

// PaymentEvent is the payload published to the payment events topic on
// lifecycle changes.
type PaymentEvent struct {
	PaymentID  string       `json:"payment_id"`
	BookingID  string       `json:"booking_id"`
	UserID     string       `json:"user_id"`
	Amount     int64        `json:"amount"`
	FromStatus model.Status `json:"from_status,omitempty"`
	ToStatus   model.Status `json:"to_status"`
	OccurredAt time.Time    `json:"occurred_at"`
}
