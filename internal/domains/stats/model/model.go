package model

import (
	"math"

	bookingModel "rentwheels/internal/domains/booking/model"
	paymentModel "rentwheels/internal/domains/payment/model"
	vehicleModel "rentwheels/internal/domains/vehicle/model"
)

const EntityName = "stats"

// committedStatuses are the booking statuses whose totals count as committed
// revenue. Pending bookings are excluded until a payment confirms them, and
// cancelled bookings never count.
var committedStatuses = map[bookingModel.Status]bool{
	bookingModel.StatusConfirmed: true,
	bookingModel.StatusActive:    true,
	bookingModel.StatusCompleted: true,
}

// BookingStats is the reduction of a booking collection. CommittedRevenue is
// in minor currency units.
type BookingStats struct {
	Total            int                         `json:"total"`
	ByStatus         map[bookingModel.Status]int `json:"by_status"`
	CommittedRevenue int64                       `json:"committed_revenue"`
	CompletionRate   float64                     `json:"completion_rate"`
	CancellationRate float64                     `json:"cancellation_rate"`
}

// PaymentStats is the reduction of a payment collection. RealizedRevenue only
// counts completed payments; refunds are tracked separately and never
// subtracted.
type PaymentStats struct {
	Total           int                         `json:"total"`
	ByStatus        map[paymentModel.Status]int `json:"by_status"`
	RealizedRevenue int64                       `json:"realized_revenue"`
	RefundedAmount  int64                       `json:"refunded_amount"`
}

type VehicleStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	// UtilizationPercent is the share of the fleet currently rented out,
	// rounded to the nearest whole percent.
	UtilizationPercent int `json:"utilization_percent"`
}

func AggregateBookings(bookings []bookingModel.Booking) BookingStats {
	stats := BookingStats{
		Total:    len(bookings),
		ByStatus: make(map[bookingModel.Status]int),
	}

	for _, booking := range bookings {
		status := booking.Status.Normalize()
		stats.ByStatus[status]++

		if committedStatuses[status] {
			stats.CommittedRevenue += booking.TotalAmount
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = rate(stats.ByStatus[bookingModel.StatusCompleted], stats.Total)
		stats.CancellationRate = rate(stats.ByStatus[bookingModel.StatusCancelled], stats.Total)
	}

	return stats
}

func AggregatePayments(payments []paymentModel.Payment) PaymentStats {
	stats := PaymentStats{
		Total:    len(payments),
		ByStatus: make(map[paymentModel.Status]int),
	}

	for _, payment := range payments {
		status := payment.Status.Normalize()
		stats.ByStatus[status]++

		switch status {
		case paymentModel.StatusCompleted:
			stats.RealizedRevenue += payment.Amount
		case paymentModel.StatusRefunded:
			stats.RefundedAmount += payment.Amount
		}
	}

	return stats
}

func AggregateVehicles(vehicles []vehicleModel.Vehicle) VehicleStats {
	stats := VehicleStats{Total: len(vehicles)}

	for _, vehicle := range vehicles {
		if vehicle.Available {
			stats.Available++
		}
	}

	if stats.Total > 0 {
		rented := stats.Total - stats.Available
		stats.UtilizationPercent = int(math.Round(float64(rented) / float64(stats.Total) * 100))
	}

	return stats
}

// rate returns count/total as a percentage rounded to two decimal places.
func rate(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*10000) / 100
}
