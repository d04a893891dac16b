package dto

import (
	"rentwheels/internal/domains/stats/model"
)

// SummaryResponse is the dashboard aggregate across bookings, payments and
// the fleet. All amounts are in minor currency units.
type SummaryResponse struct {
	Bookings    model.BookingStats `json:"bookings"`
	Payments    model.PaymentStats `json:"payments"`
	Vehicles    model.VehicleStats `json:"vehicles"`
	GeneratedAt string             `json:"generated_at"`
}

// MySummaryResponse is the per-user dashboard aggregate. Fleet-wide vehicle
// stats are omitted since they are not scoped to a user.
type MySummaryResponse struct {
	Bookings    model.BookingStats `json:"bookings"`
	Payments    model.PaymentStats `json:"payments"`
	GeneratedAt string             `json:"generated_at"`
}
