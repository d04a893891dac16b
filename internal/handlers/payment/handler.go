package payment

import (
	"encoding/json"
	"net/http"
	"rentwheels/infras/mpesa"
	"rentwheels/infras/otel"
	"rentwheels/internal/domains/payment/model"
	"rentwheels/internal/domains/payment/model/dto"
	"rentwheels/internal/domains/payment/service"
	"rentwheels/shared/constant"
	gDto "rentwheels/shared/dto"
	"rentwheels/shared/validator"
	"rentwheels/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePayment)
		routerGroup.Get("/", handler.GetPayments)
		routerGroup.Get("/{id}", handler.GetPaymentByID)
		routerGroup.Patch("/{id}/status", handler.UpdatePaymentStatus)
		routerGroup.Get("/{id}/receipt", handler.GetPaymentReceipt)
		routerGroup.Get("/booking/{bookingID}", handler.GetPaymentsByBooking)
		routerGroup.Get("/user/{userID}", handler.GetPaymentsByUser)
		routerGroup.Post("/mpesa/initiate", handler.InitiateMpesaPayment)
		routerGroup.Post("/mpesa/callback", handler.MpesaCallback)
		routerGroup.Post("/reconcile", handler.ReconcilePayments)
	})
}

// CreatePayment records a manual payment against a booking.
// @Summary Create a payment
// @Description Record a payment for a booking. The amount is taken from the booking total and the payment starts in pending status.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentRequest true "Create Payment Request"
// @Success 201 {object} response.Data[dto.PaymentResponse] "Created payment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments [post]
// @Security BearerAuth
func (handler *Handler) CreatePayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePayment")
	defer scope.End()

	req := dto.CreatePaymentRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	payment, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create payment")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payment created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, payment)
}

// GetPayments retrieves all payments based on query parameters.
// @Summary Get all payments
// @Description Retrieve payments with optional filtering and pagination.
// @Tags Payment
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, completed, failed, refunded)"
// @Param method query string false "Filter by method (mpesa, cash, card)"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse] "List of payments"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments [get]
// @Security BearerAuth
func (handler *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(model.FieldStatus)
	method := r.URL.Query().Get(model.FieldMethod)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if method != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldMethod,
			Operator: gDto.FilterOperatorEq,
			Value:    method,
			Table:    model.TableName,
		})
	}

	payments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, payments)
}

// GetPaymentByID retrieves a payment by its ID.
// @Summary Get a payment by ID
// @Description Retrieve a payment by its unique identifier, including its status badge.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Data[dto.PaymentResponse] "Payment details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPaymentByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	payment, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payment by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment retrieved successfully")

	response.WithJSON(w, http.StatusOK, payment)
}

// UpdatePaymentStatus moves a payment along its lifecycle.
// @Summary Update payment status
// @Description Transition a payment to a new status. Illegal transitions are rejected with a conflict.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} response.Message "Payment status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePaymentStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update payment status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payment status updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Payment status updated successfully")
}

// GetPaymentReceipt downloads the PDF receipt of a completed payment.
// @Summary Download a payment receipt
// @Description Render and download the PDF receipt for a completed payment.
// @Tags Payment
// @Accept json
// @Produce application/pdf
// @Param id path string true "Payment ID"
// @Success 200 {file} binary "Receipt PDF"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/{id}/receipt [get]
// @Security BearerAuth
func (handler *Handler) GetPaymentReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentReceipt")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	doc, fileName, err := handler.service.Receipt(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to render payment receipt")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment receipt rendered successfully")

	response.WithFile(w, constant.ContentTypePDF, fileName, doc)
}

// GetPaymentsByBooking retrieves all payments recorded against a booking.
// @Summary Get payments by booking
// @Description Retrieve all payments recorded against a booking.
// @Tags Payment
// @Accept json
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse] "List of payments"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/booking/{bookingID} [get]
// @Security BearerAuth
func (handler *Handler) GetPaymentsByBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentsByBooking")
	defer scope.End()

	bookingID := chi.URLParam(r, "bookingID")

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.TableName,
			},
		},
	}

	payments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments by booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, payments)
}

// GetPaymentsByUser retrieves all payments made by a user.
// @Summary Get payments by user
// @Description Retrieve all payments made by a user.
// @Tags Payment
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse] "List of payments"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/user/{userID} [get]
// @Security BearerAuth
func (handler *Handler) GetPaymentsByUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentsByUser")
	defer scope.End()

	userID := chi.URLParam(r, "userID")

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}

	payments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments by user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, payments)
}

// InitiateMpesaPayment starts an M-Pesa STK push for a booking.
// @Summary Initiate an M-Pesa payment
// @Description Prompt the customer's phone for payment of the booking total. The payment stays pending until the gateway callback arrives.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.InitiateMpesaRequest true "Initiate M-Pesa Request"
// @Success 202 {object} response.Data[dto.InitiateMpesaResponse] "Pending M-Pesa payment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/mpesa/initiate [post]
// @Security BearerAuth
func (handler *Handler) InitiateMpesaPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InitiateMpesaPayment")
	defer scope.End()

	req := dto.InitiateMpesaRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.InitiateMpesa(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to initiate mpesa payment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("M-Pesa payment initiated successfully by user " + user)

	response.WithJSON(w, http.StatusAccepted, res)
}

// MpesaCallback receives the gateway's asynchronous STK push result.
// @Summary M-Pesa result callback
// @Description Receive the gateway's asynchronous STK push result and settle the pending payment. Always acknowledges with 200 so the gateway stops retrying.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body mpesa.STKCallbackEnvelope true "Gateway callback"
// @Success 200 {object} response.Message "Callback accepted"
// @Router /v1/payments/mpesa/callback [post]
func (handler *Handler) MpesaCallback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MpesaCallback")
	defer scope.End()

	var envelope mpesa.STKCallbackEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode mpesa callback")

		// The gateway only understands 200; a failure here is ours to log.
		response.WithMessage(w, http.StatusOK, "Accepted")

		return
	}

	if err := handler.service.HandleCallback(ctx, envelope.Body.StkCallback); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to handle mpesa callback")

		response.WithMessage(w, http.StatusOK, "Accepted")

		return
	}

	scope.AddEvent("M-Pesa callback handled successfully")

	response.WithMessage(w, http.StatusOK, "Accepted")
}

// ReconcilePayments replays settled gateway transactions against pending payments.
// @Summary Reconcile payments with the gateway
// @Description Pull settled transactions from the payment gateway since a given date and apply any outcome the callback path missed.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.ReconcileRequest true "Reconcile Request"
// @Success 200 {object} response.Data[dto.ReconcileResponse] "Reconciliation summary"
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/reconcile [post]
// @Security BearerAuth
func (handler *Handler) ReconcilePayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReconcilePayments")
	defer scope.End()

	req := dto.ReconcileRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Reconcile(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reconcile payments")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payments reconciled successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}
