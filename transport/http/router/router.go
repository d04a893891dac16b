package router

import (
	"rentwheels/internal/handlers/auth"
	"rentwheels/internal/handlers/booking"
	"rentwheels/internal/handlers/payment"
	"rentwheels/internal/handlers/stats"
	"rentwheels/internal/handlers/system"
	"rentwheels/internal/handlers/user"
	"rentwheels/internal/handlers/vehicle"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	System  system.Handler
	Auth    auth.Handler
	User    user.Handler
	Vehicle vehicle.Handler
	Booking booking.Handler
	Payment payment.Handler
	Stats   stats.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.System.Router(routerGroup)
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Vehicle.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Stats.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
