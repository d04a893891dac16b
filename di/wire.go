//go:build wireinject
// +build wireinject

package di

import (
	"rentwheels/config"
	"rentwheels/infras/jwt"
	"rentwheels/infras/kafka"
	"rentwheels/infras/mpesa"
	"rentwheels/infras/otel"
	"rentwheels/infras/postgres"
	"rentwheels/infras/redis"
	"rentwheels/infras/s3"
	"rentwheels/permissions"
	"rentwheels/shared/cache"
	"rentwheels/transport/http"
	"rentwheels/transport/http/middleware"
	"rentwheels/transport/http/router"

	authService "rentwheels/internal/domains/auth/service"
	bookingRepository "rentwheels/internal/domains/booking/repository"
	bookingService "rentwheels/internal/domains/booking/service"
	paymentRepository "rentwheels/internal/domains/payment/repository"
	paymentService "rentwheels/internal/domains/payment/service"
	statsService "rentwheels/internal/domains/stats/service"
	userRepository "rentwheels/internal/domains/user/repository"
	userService "rentwheels/internal/domains/user/service"
	vehicleRepository "rentwheels/internal/domains/vehicle/repository"
	vehicleService "rentwheels/internal/domains/vehicle/service"

	authHandler "rentwheels/internal/handlers/auth"
	bookingHandler "rentwheels/internal/handlers/booking"
	paymentHandler "rentwheels/internal/handlers/payment"
	statsHandler "rentwheels/internal/handlers/stats"
	systemHandler "rentwheels/internal/handlers/system"
	userHandler "rentwheels/internal/handlers/user"
	vehicleHandler "rentwheels/internal/handlers/vehicle"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	mpesa.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
	userService.New,
)

var vehicleDomain = wire.NewSet(
	vehicleRepository.New,
	vehicleService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var statsDomain = wire.NewSet(
	statsService.New,
)

var domains = wire.NewSet(
	authDomain,
	vehicleDomain,
	bookingDomain,
	paymentDomain,
	statsDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	systemHandler.New,
	authHandler.New,
	userHandler.New,
	vehicleHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	statsHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
