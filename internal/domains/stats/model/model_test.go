package model_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	bookingModel "rentwheels/internal/domains/booking/model"
	paymentModel "rentwheels/internal/domains/payment/model"
	"rentwheels/internal/domains/stats/model"
	vehicleModel "rentwheels/internal/domains/vehicle/model"
)

func booking(status bookingModel.Status, amount int64) bookingModel.Booking {
	return bookingModel.Booking{Status: status, TotalAmount: amount}
}

func payment(status paymentModel.Status, amount int64) paymentModel.Payment {
	return paymentModel.Payment{Status: status, Amount: amount}
}

func TestAggregateBookings(t *testing.T) {
	t.Run("committed revenue excludes pending and cancelled", func(t *testing.T) {
		stats := model.AggregateBookings([]bookingModel.Booking{
			booking(bookingModel.StatusPending, 100000),
			booking(bookingModel.StatusConfirmed, 200000),
			booking(bookingModel.StatusActive, 300000),
			booking(bookingModel.StatusCompleted, 400000),
			booking(bookingModel.StatusCancelled, 500000),
		})

		assert.Equal(t, 5, stats.Total)
		assert.Equal(t, int64(900000), stats.CommittedRevenue)
		assert.Equal(t, 1, stats.ByStatus[bookingModel.StatusPending])
		assert.Equal(t, 1, stats.ByStatus[bookingModel.StatusCancelled])
	})

	t.Run("rates are percentages of the total", func(t *testing.T) {
		stats := model.AggregateBookings([]bookingModel.Booking{
			booking(bookingModel.StatusCompleted, 0),
			booking(bookingModel.StatusCompleted, 0),
			booking(bookingModel.StatusCancelled, 0),
			booking(bookingModel.StatusPending, 0),
		})

		assert.InDelta(t, 50.0, stats.CompletionRate, 0.001)
		assert.InDelta(t, 25.0, stats.CancellationRate, 0.001)
	})

	t.Run("empty status counts as pending", func(t *testing.T) {
		stats := model.AggregateBookings([]bookingModel.Booking{
			booking("", 100000),
		})

		assert.Equal(t, 1, stats.ByStatus[bookingModel.StatusPending])
		assert.Zero(t, stats.CommittedRevenue)
	})

	t.Run("aggregation is independent of row order", func(t *testing.T) {
		bookings := []bookingModel.Booking{
			booking(bookingModel.StatusPending, 100000),
			booking(bookingModel.StatusConfirmed, 200000),
			booking(bookingModel.StatusActive, 300000),
			booking(bookingModel.StatusCompleted, 400000),
			booking(bookingModel.StatusCancelled, 500000),
			booking("", 600000),
		}

		want := model.AggregateBookings(bookings)

		shuffled := make([]bookingModel.Booking, len(bookings))
		copy(shuffled, bookings)
		rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := model.AggregateBookings(shuffled)

		assert.Equal(t, want.CommittedRevenue, got.CommittedRevenue)
		assert.Equal(t, want.ByStatus, got.ByStatus)
		assert.Equal(t, want, got)
	})

	t.Run("empty collection yields zero stats", func(t *testing.T) {
		stats := model.AggregateBookings(nil)

		assert.Zero(t, stats.Total)
		assert.Zero(t, stats.CompletionRate)
		assert.Zero(t, stats.CancellationRate)
	})
}

func TestAggregatePayments(t *testing.T) {
	t.Run("realized revenue only counts completed payments", func(t *testing.T) {
		stats := model.AggregatePayments([]paymentModel.Payment{
			payment(paymentModel.StatusPending, 100000),
			payment(paymentModel.StatusCompleted, 200000),
			payment(paymentModel.StatusCompleted, 300000),
			payment(paymentModel.StatusFailed, 400000),
			payment(paymentModel.StatusRefunded, 500000),
		})

		assert.Equal(t, int64(500000), stats.RealizedRevenue)
		assert.Equal(t, int64(500000), stats.RefundedAmount)
		assert.Equal(t, 2, stats.ByStatus[paymentModel.StatusCompleted])
	})

	t.Run("refunds do not subtract from realized revenue", func(t *testing.T) {
		stats := model.AggregatePayments([]paymentModel.Payment{
			payment(paymentModel.StatusCompleted, 200000),
			payment(paymentModel.StatusRefunded, 200000),
		})

		assert.Equal(t, int64(200000), stats.RealizedRevenue)
		assert.Equal(t, int64(200000), stats.RefundedAmount)
	})

	t.Run("aggregation is independent of row order", func(t *testing.T) {
		payments := []paymentModel.Payment{
			payment(paymentModel.StatusPending, 100000),
			payment(paymentModel.StatusCompleted, 200000),
			payment(paymentModel.StatusCompleted, 300000),
			payment(paymentModel.StatusFailed, 400000),
			payment(paymentModel.StatusRefunded, 500000),
		}

		want := model.AggregatePayments(payments)

		shuffled := make([]paymentModel.Payment, len(payments))
		copy(shuffled, payments)
		rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := model.AggregatePayments(shuffled)

		assert.Equal(t, want.RealizedRevenue, got.RealizedRevenue)
		assert.Equal(t, want.ByStatus, got.ByStatus)
		assert.Equal(t, want, got)
	})
}

func TestAggregateVehicles(t *testing.T) {
	tests := []struct {
		name            string
		vehicles        []vehicleModel.Vehicle
		wantAvailable   int
		wantUtilization int
	}{
		{
			name: "two of three rented out",
			vehicles: []vehicleModel.Vehicle{
				{Available: true},
				{Available: false},
				{Available: false},
			},
			wantAvailable:   1,
			wantUtilization: 67,
		},
		{
			name: "idle fleet",
			vehicles: []vehicleModel.Vehicle{
				{Available: true},
				{Available: true},
			},
			wantAvailable:   2,
			wantUtilization: 0,
		},
		{
			name:            "empty fleet",
			vehicles:        nil,
			wantAvailable:   0,
			wantUtilization: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := model.AggregateVehicles(tt.vehicles)

			assert.Equal(t, len(tt.vehicles), stats.Total)
			assert.Equal(t, tt.wantAvailable, stats.Available)
			assert.Equal(t, tt.wantUtilization, stats.UtilizationPercent)
		})
	}
}
