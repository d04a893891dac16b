package service

import (
	"context"
	"database/sql"
	"fmt"
	"rentwheels/config"
	"rentwheels/infras/kafka"
	"rentwheels/infras/mpesa"
	"rentwheels/infras/otel"
	bookingModel "rentwheels/internal/domains/booking/model"
	bookingRepo "rentwheels/internal/domains/booking/repository"
	"rentwheels/internal/domains/payment/model"
	"rentwheels/internal/domains/payment/model/dto"
	"rentwheels/internal/domains/payment/repository"
	"rentwheels/shared"
	"rentwheels/shared/cache"
	"rentwheels/shared/constant"
	gDto "rentwheels/shared/dto"
	"rentwheels/shared/failure"
	"rentwheels/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetPayment    = "payment:get"
	cacheGetAllPayment = "payment:gets"
	cacheCountPayment  = "payment:count"

	// Payment changes skew the dashboard aggregates, so stats caches go too.
	cacheStats = "stats"
)

type Payment interface {
	Create(ctx context.Context, req dto.CreatePaymentRequest) (dto.PaymentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPaymentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PaymentResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
	InitiateMpesa(ctx context.Context, req dto.InitiateMpesaRequest) (dto.InitiateMpesaResponse, error)
	HandleCallback(ctx context.Context, callback mpesa.STKCallback) error
	Reconcile(ctx context.Context, req dto.ReconcileRequest) (dto.ReconcileResponse, error)
	Receipt(ctx context.Context, id string) ([]byte, string, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	events      kafka.Client
	gateway     mpesa.Mpesa
	otel        otel.Otel
}

func New(repo repository.Payment, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, events kafka.Client, gateway mpesa.Mpesa, otel otel.Otel) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		events:      events,
		gateway:     gateway,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.getBooking(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	payment := req.ToModel(user, booking.TotalAmount)

	if err = s.repo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to create payment")

		return res, fmt.Errorf("failed to create payment: %w", err)
	}

	s.publishEvent(ctx, dto.PaymentEvent{
		PaymentID:  payment.ID,
		BookingID:  payment.BookingID,
		UserID:     payment.UserID,
		Amount:     payment.Amount,
		ToStatus:   payment.Status,
		OccurredAt: timezone.Now(),
	})

	s.invalidate(ctx, payment.ID)

	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPayment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPayment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payment count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetPayment, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payment")

		return res, nil
	}

	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	res.FromModel(payment)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return failure.NotFound("payment not found") // nolint:wrapcheck
	}

	return s.transition(ctx, payment, model.Status(req.Status), "", req.Reason)
}

func (s *serviceImpl) InitiateMpesa(ctx context.Context, req dto.InitiateMpesaRequest) (res dto.InitiateMpesaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".InitiateMpesa")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.getBooking(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	pushRes, err := s.gateway.InitiateSTKPush(ctx, mpesa.STKPushRequest{
		PhoneNumber: req.PhoneNumber,
		Amount:      booking.TotalAmount,
		Reference:   booking.ID,
		Description: "Vehicle rental payment",
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to initiate STK push")

		return res, failure.BadGateway(fmt.Sprintf("payment gateway rejected the request: %v", err)) // nolint:wrapcheck
	}

	createReq := dto.CreatePaymentRequest{BookingID: booking.ID, Method: model.MethodMpesa}
	payment := createReq.ToModel(user, booking.TotalAmount)
	payment.CheckoutRequestID = sql.NullString{String: pushRes.CheckoutRequestID, Valid: true}

	if err = s.repo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to create mpesa payment")

		return res, fmt.Errorf("failed to create mpesa payment: %w", err)
	}

	s.publishEvent(ctx, dto.PaymentEvent{
		PaymentID:  payment.ID,
		BookingID:  payment.BookingID,
		UserID:     payment.UserID,
		Amount:     payment.Amount,
		ToStatus:   payment.Status,
		OccurredAt: timezone.Now(),
	})

	s.invalidate(ctx, payment.ID)

	return dto.InitiateMpesaResponse{
		PaymentID:         payment.ID,
		CheckoutRequestID: pushRes.CheckoutRequestID,
		CustomerMessage:   pushRes.CustomerMessage,
	}, nil
}

// HandleCallback settles a pending M-Pesa payment from the gateway's
// asynchronous result. Callbacks for already settled payments are ignored so
// gateway retries stay idempotent.
func (s *serviceImpl) HandleCallback(ctx context.Context, callback mpesa.STKCallback) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleCallback")
	defer scope.End()
	defer scope.TraceIfError(err)

	payment, err := s.getByCheckoutRequestID(ctx, callback.CheckoutRequestID)
	if err != nil {
		return err
	}

	if payment.Status.Normalize() != model.StatusPending {
		log.Info().Str("payment_id", payment.ID).Msg("callback for settled payment, ignoring")

		return nil
	}

	if callback.Succeeded() {
		return s.transition(ctx, payment, model.StatusCompleted, callback.ReceiptNumber(), "")
	}

	return s.transition(ctx, payment, model.StatusFailed, "", callback.ResultDesc)
}

// Reconcile pulls settled transactions from the gateway and applies any
// outcome the callback path missed.
func (s *serviceImpl) Reconcile(ctx context.Context, req dto.ReconcileRequest) (res dto.ReconcileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reconcile")
	defer scope.End()
	defer scope.TraceIfError(err)

	since, err := time.Parse(constant.DateOnlyFormat, req.Since)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	transactions, err := s.gateway.ListTransactions(ctx, since)
	if err != nil {
		log.Error().Err(err).Msg("failed to list gateway transactions")

		return res, failure.BadGateway(fmt.Sprintf("failed to list gateway transactions: %v", err)) // nolint:wrapcheck
	}

	res.Checked = len(transactions)

	for _, tx := range transactions {
		if tx.Status == mpesa.TransactionStatusPending {
			continue
		}

		payment, err := s.getByCheckoutRequestID(ctx, tx.CheckoutRequestID)
		if err != nil {
			log.Warn().Str("checkout_request_id", tx.CheckoutRequestID).Msg("gateway transaction without matching payment")

			continue
		}

		if payment.Status.Normalize() != model.StatusPending {
			continue
		}

		if tx.Status == mpesa.TransactionStatusSuccess {
			err = s.transition(ctx, payment, model.StatusCompleted, tx.ReceiptNumber, "")
		} else {
			err = s.transition(ctx, payment, model.StatusFailed, "", "reconciled as failed")
		}

		if err != nil {
			log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to reconcile payment")

			continue
		}

		res.Updated++
	}

	return res, nil
}

func (s *serviceImpl) getBooking(ctx context.Context, bookingID string) (bookingModel.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.Status.Normalize() == bookingModel.StatusCancelled {
		return booking, failure.Conflict("cannot pay for a cancelled booking") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) getByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (model.Payment, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCheckoutRequestID,
				Operator: gDto.FilterOperatorEq,
				Value:    checkoutRequestID,
				Table:    model.TableName,
			},
		},
	}

	payment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment by checkout request ID")

		return payment, fmt.Errorf("failed to get payment by checkout request ID: %w", err)
	}

	if payment.ID == constant.Empty {
		return payment, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	return payment, nil
}

// transition moves a payment to the target status, enforcing the lifecycle
// table. Completing a payment stamps the receipt and paid time and confirms
// the booking it settles.
func (s *serviceImpl) transition(ctx context.Context, payment model.Payment, target model.Status, receiptNumber, reason string) error {
	from := payment.Status.Normalize()

	if !target.Valid() {
		return failure.BadRequestFromString(fmt.Sprintf("unknown status %q", target)) // nolint:wrapcheck
	}

	if !from.CanTransitionTo(target) {
		return failure.Conflict(fmt.Sprintf("cannot transition payment from %q to %q, legal transitions: %v", from, target, from.NextStates())) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updatedFields := map[string]any{
		model.FieldStatus:        target,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if target == model.StatusCompleted {
		updatedFields[model.FieldPaidAt] = timezone.Now()

		if receiptNumber != "" {
			updatedFields[model.FieldReceiptNumber] = receiptNumber
		}
	}

	if target == model.StatusFailed && reason != "" {
		updatedFields[model.FieldFailureReason] = reason
	}

	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(payment.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update payment status")

		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if target == model.StatusCompleted {
		s.confirmBooking(ctx, payment.BookingID, user)
	}

	s.publishEvent(ctx, dto.PaymentEvent{
		PaymentID:  payment.ID,
		BookingID:  payment.BookingID,
		UserID:     payment.UserID,
		Amount:     payment.Amount,
		FromStatus: from,
		ToStatus:   target,
		OccurredAt: timezone.Now(),
	})

	s.invalidate(ctx, payment.ID)

	return nil
}

// confirmBooking moves a still-pending booking to confirmed once its payment
// settles. Bookings further along their lifecycle are left alone.
func (s *serviceImpl) confirmBooking(ctx context.Context, bookingID, user string) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingModel.StatusPending,
				Table:    bookingModel.TableName,
			},
		},
	}

	updatedFields := map[string]any{
		bookingModel.FieldStatus: bookingModel.StatusConfirmed,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.bookingRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to confirm booking after payment")
	}
}

func (s *serviceImpl) publishEvent(ctx context.Context, event dto.PaymentEvent) {
	topic := s.cfg.Kafka.Topic.PaymentEvents
	if topic == constant.Empty {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.events.SendMessages(c, topic, kafka.Message{Key: event.PaymentID, Value: event}); err != nil {
			log.Error().Err(err).Str("payment_id", event.PaymentID).Msg("failed to publish payment event")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPayment, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete payment from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllPayment)
		shared.InvalidateCaches(c, s.cache, cacheCountPayment)
		shared.InvalidateCaches(c, s.cache, cacheStats)
	}()
}
