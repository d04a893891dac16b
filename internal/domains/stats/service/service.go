package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"rentwheels/config"
	"rentwheels/infras/otel"
	bookingModel "rentwheels/internal/domains/booking/model"
	bookingRepo "rentwheels/internal/domains/booking/repository"
	paymentModel "rentwheels/internal/domains/payment/model"
	paymentRepo "rentwheels/internal/domains/payment/repository"
	"rentwheels/internal/domains/stats/model"
	"rentwheels/internal/domains/stats/model/dto"
	vehicleRepo "rentwheels/internal/domains/vehicle/repository"
	"rentwheels/shared"
	"rentwheels/shared/cache"
	"rentwheels/shared/constant"
	gDto "rentwheels/shared/dto"
	"rentwheels/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheStatsSummary   = "stats:summary"
	cacheStatsMySummary = "stats:mysummary"

	// maxAggregateRows bounds how many rows a single aggregation run pulls.
	// Dashboards degrade gracefully past this point rather than scanning an
	// unbounded table.
	maxAggregateRows = 10000
)

type Stats interface {
	Summary(ctx context.Context) (dto.SummaryResponse, error)
	MySummary(ctx context.Context, userID string) (dto.MySummaryResponse, error)
	ExportCSV(ctx context.Context) ([]byte, string, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	paymentRepo paymentRepo.Payment
	vehicleRepo vehicleRepo.Vehicle
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(bookingRepo bookingRepo.Booking, paymentRepo paymentRepo.Payment, vehicleRepo vehicleRepo.Vehicle, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Stats {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		vehicleRepo: vehicleRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Summary(ctx context.Context) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheStatsSummary, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheStatsSummary).Msg("cache hit for stats summary")

		return res, nil
	}

	res, err = s.aggregate(ctx)
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheStatsSummary, res, s.cfg.Stats.SummaryTTL); err != nil {
			log.Error().Err(err).Msg("failed to save stats summary to cache")
		}
	}()

	return res, nil
}

// MySummary aggregates only the given user's bookings and payments for the
// user-facing dashboard.
func (s *serviceImpl) MySummary(ctx context.Context, userID string) (res dto.MySummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MySummary")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheStatsMySummary, userID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for user stats summary")

		return res, nil
	}

	params := gDto.QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   maxAggregateRows,
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	bookings, err := s.bookingRepo.GetAll(ctx, params, filterByUser(userID, bookingModel.FieldUserID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user bookings for aggregation")

		return res, fmt.Errorf("failed to get user bookings for aggregation: %w", err)
	}

	payments, err := s.paymentRepo.GetAll(ctx, params, filterByUser(userID, paymentModel.FieldUserID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user payments for aggregation")

		return res, fmt.Errorf("failed to get user payments for aggregation: %w", err)
	}

	res.Bookings = model.AggregateBookings(bookings)
	res.Payments = model.AggregatePayments(payments)
	res.GeneratedAt = timezone.Format(timezone.Now(), constant.DateFormat)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Stats.SummaryTTL); err != nil {
			log.Error().Err(err).Msg("failed to save user stats summary to cache")
		}
	}()

	return res, nil
}

// ExportCSV renders the current summary as a CSV download for offline
// reporting.
func (s *serviceImpl) ExportCSV(ctx context.Context) (doc []byte, fileName string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExportCSV")
	defer scope.End()
	defer scope.TraceIfError(err)

	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	records := [][]string{
		{"section", "metric", "value"},
		{"bookings", "total", strconv.Itoa(summary.Bookings.Total)},
		{"bookings", "committed_revenue", strconv.FormatInt(summary.Bookings.CommittedRevenue, 10)},
		{"bookings", "completion_rate", strconv.FormatFloat(summary.Bookings.CompletionRate, 'f', 2, 64)},
		{"bookings", "cancellation_rate", strconv.FormatFloat(summary.Bookings.CancellationRate, 'f', 2, 64)},
	}

	for status, count := range summary.Bookings.ByStatus {
		records = append(records, []string{"bookings", "status_" + string(status), strconv.Itoa(count)})
	}

	records = append(records,
		[]string{"payments", "total", strconv.Itoa(summary.Payments.Total)},
		[]string{"payments", "realized_revenue", strconv.FormatInt(summary.Payments.RealizedRevenue, 10)},
		[]string{"payments", "refunded_amount", strconv.FormatInt(summary.Payments.RefundedAmount, 10)},
	)

	for status, count := range summary.Payments.ByStatus {
		records = append(records, []string{"payments", "status_" + string(status), strconv.Itoa(count)})
	}

	records = append(records,
		[]string{"vehicles", "total", strconv.Itoa(summary.Vehicles.Total)},
		[]string{"vehicles", "available", strconv.Itoa(summary.Vehicles.Available)},
		[]string{"vehicles", "utilization_percent", strconv.Itoa(summary.Vehicles.UtilizationPercent)},
	)

	if err = writer.WriteAll(records); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV records: %w", err)
	}

	fileName = fmt.Sprintf("STATS_%s.csv", timezone.Format(timezone.Now(), constant.DateOnlyFormat))

	return buf.Bytes(), fileName, nil
}

func (s *serviceImpl) aggregate(ctx context.Context) (res dto.SummaryResponse, err error) {
	params := gDto.QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   maxAggregateRows,
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	bookings, err := s.bookingRepo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for aggregation")

		return res, fmt.Errorf("failed to get bookings for aggregation: %w", err)
	}

	payments, err := s.paymentRepo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments for aggregation")

		return res, fmt.Errorf("failed to get payments for aggregation: %w", err)
	}

	vehicles, err := s.vehicleRepo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicles for aggregation")

		return res, fmt.Errorf("failed to get vehicles for aggregation: %w", err)
	}

	res.Bookings = model.AggregateBookings(bookings)
	res.Payments = model.AggregatePayments(payments)
	res.Vehicles = model.AggregateVehicles(vehicles)
	res.GeneratedAt = timezone.Format(timezone.Now(), constant.DateFormat)

	return res, nil
}

func filterByUser(userID, field, table string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    table,
			},
		},
	}
}
