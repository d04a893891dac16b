package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rentwheels/config"
	"rentwheels/infras/otel/mocks"
	bookingMocks "rentwheels/internal/domains/booking/mocks"
	bookingModel "rentwheels/internal/domains/booking/model"
	paymentMocks "rentwheels/internal/domains/payment/mocks"
	paymentModel "rentwheels/internal/domains/payment/model"
	"rentwheels/internal/domains/stats/service"
	vehicleMocks "rentwheels/internal/domains/vehicle/mocks"
	vehicleModel "rentwheels/internal/domains/vehicle/model"
	cacheMocks "rentwheels/shared/cache/mocks"
	gDto "rentwheels/shared/dto"
)

type statsServiceMocks struct {
	bookingRepo *bookingMocks.MockBooking
	paymentRepo *paymentMocks.MockPayment
	vehicleRepo *vehicleMocks.MockVehicle
	cache       *cacheMocks.MockRedisCache
}

func newStatsService(t *testing.T) (service.Stats, statsServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := statsServiceMocks{
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		paymentRepo: paymentMocks.NewMockPayment(ctrl),
		vehicleRepo: vehicleMocks.NewMockVehicle(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Stats.SummaryTTL = 60

	svc := service.New(m.bookingRepo, m.paymentRepo, m.vehicleRepo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func expectAggregationData(m statsServiceMocks) {
	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	m.bookingRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]bookingModel.Booking{
			{Status: bookingModel.StatusCompleted, TotalAmount: 400000},
			{Status: bookingModel.StatusConfirmed, TotalAmount: 200000},
			{Status: bookingModel.StatusCancelled, TotalAmount: 500000},
		}, nil)

	m.paymentRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]paymentModel.Payment{
			{Status: paymentModel.StatusCompleted, Amount: 400000},
			{Status: paymentModel.StatusPending, Amount: 200000},
		}, nil)

	m.vehicleRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vehicleModel.Vehicle{
			{Available: false},
			{Available: true},
		}, nil)

	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
}

func TestStatsService_Summary(t *testing.T) {
	t.Run("aggregates across domains", func(t *testing.T) {
		svc, m := newStatsService(t)
		expectAggregationData(m)

		res, err := svc.Summary(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, res.Bookings.Total)
		assert.Equal(t, int64(600000), res.Bookings.CommittedRevenue)
		assert.Equal(t, int64(400000), res.Payments.RealizedRevenue)
		assert.Equal(t, 50, res.Vehicles.UtilizationPercent)
		assert.NotEmpty(t, res.GeneratedAt)
	})

	t.Run("repository error surfaces", func(t *testing.T) {
		svc, m := newStatsService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := svc.Summary(context.Background())

		assert.Error(t, err)
	})
}

func TestStatsService_MySummary(t *testing.T) {
	t.Run("aggregates only the user's rows", func(t *testing.T) {
		svc, m := newStatsService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "user_id")
				assert.Equal(t, "user-id", args["user_id"])

				return []bookingModel.Booking{
					{Status: bookingModel.StatusActive, TotalAmount: 300000},
				}, nil
			})

		m.paymentRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]paymentModel.Payment{
				{Status: paymentModel.StatusCompleted, Amount: 300000},
			}, nil)

		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.MySummary(context.Background(), "user-id")

		require.NoError(t, err)
		assert.Equal(t, 1, res.Bookings.Total)
		assert.Equal(t, int64(300000), res.Bookings.CommittedRevenue)
		assert.Equal(t, int64(300000), res.Payments.RealizedRevenue)
	})

	t.Run("cache hit skips the repositories", func(t *testing.T) {
		svc, m := newStatsService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.MySummary(context.Background(), "user-id")

		assert.NoError(t, err)
	})
}

func TestStatsService_ExportCSV(t *testing.T) {
	svc, m := newStatsService(t)
	expectAggregationData(m)

	doc, fileName, err := svc.ExportCSV(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fileName, "STATS_"))
	assert.True(t, strings.HasSuffix(fileName, ".csv"))

	content := string(doc)
	assert.Contains(t, content, "section,metric,value")
	assert.Contains(t, content, "bookings,committed_revenue,600000")
	assert.Contains(t, content, "payments,realized_revenue,400000")
	assert.Contains(t, content, "vehicles,utilization_percent,50")
}
