package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rentwheels/config"
	"rentwheels/infras/otel/mocks"
	bookingMocks "rentwheels/internal/domains/booking/mocks"
	"rentwheels/internal/domains/booking/model"
	"rentwheels/internal/domains/booking/model/dto"
	"rentwheels/internal/domains/booking/service"
	vehicleMocks "rentwheels/internal/domains/vehicle/mocks"
	vehicleModel "rentwheels/internal/domains/vehicle/model"
	kafkaMocks "rentwheels/infras/kafka/mocks"
	cacheMocks "rentwheels/shared/cache/mocks"
	"rentwheels/shared/constant"
	gModel "rentwheels/shared/model"
	"rentwheels/shared/failure"
	"rentwheels/shared/timezone"
)

func newBookingService(t *testing.T) (service.Booking, *bookingMocks.MockBooking, *vehicleMocks.MockVehicle, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockVehicleRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockEvents := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	// Leaving the topic empty keeps event publishing out of these tests.
	cfg.Kafka.Topic.BookingEvents = ""

	svc := service.New(mockRepo, mockVehicleRepo, cfg, mockCache, mockEvents, mockOtel)

	return svc, mockRepo, mockVehicleRepo, mockCache
}

func availableVehicle() vehicleModel.Vehicle {
	return vehicleModel.Vehicle{
		ID:        "vehicle-id",
		Name:      "Corolla",
		DailyRate: 500000,
		Available: true,
	}
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation bills per day",
			req: dto.CreateBookingRequest{
				VehicleID: "vehicle-id",
				StartDate: "2025-06-01",
				EndDate:   "2025-06-04",
			},
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableVehicle(), nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						assert.Equal(t, model.StatusPending, booking.Status)
						assert.Equal(t, int64(1500000), booking.TotalAmount)
						assert.Equal(t, constant.CurrencyKES, booking.Currency)

						return nil
					})

				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "vehicle does not exist",
			req: dto.CreateBookingRequest{
				VehicleID: "missing",
				StartDate: "2025-06-01",
				EndDate:   "2025-06-04",
			},
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{}, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "vehicle not available",
			req: dto.CreateBookingRequest{
				VehicleID: "vehicle-id",
				StartDate: "2025-06-01",
				EndDate:   "2025-06-04",
			},
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				vehicle := availableVehicle()
				vehicle.Available = false

				vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicle, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "invalid date format",
			req: dto.CreateBookingRequest{
				VehicleID: "vehicle-id",
				StartDate: "01/06/2025",
				EndDate:   "2025-06-04",
			},
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableVehicle(), nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "end date before start date",
			req: dto.CreateBookingRequest{
				VehicleID: "vehicle-id",
				StartDate: "2025-06-04",
				EndDate:   "2025-06-01",
			},
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableVehicle(), nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "end date equal to start date",
			req: dto.CreateBookingRequest{
				VehicleID: "vehicle-id",
				StartDate: "2025-06-04",
				EndDate:   "2025-06-04",
			},
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableVehicle(), nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "repository error",
			req: dto.CreateBookingRequest{
				VehicleID: "vehicle-id",
				StartDate: "2025-06-01",
				EndDate:   "2025-06-04",
			},
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableVehicle(), nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockVehicleRepo, mockCache := newBookingService(t)
			tt.setupMock(mockRepo, mockVehicleRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			_, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	storedBooking := func(status model.Status) model.Booking {
		return model.Booking{
			ID:        "booking-id",
			UserID:    "test-user-id",
			VehicleID: "vehicle-id",
			Status:    status,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  "test-user-id",
				ModifiedBy: "test-user-id",
			},
		}
	}

	tests := []struct {
		name      string
		target    string
		setupMock func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name:   "pending to confirmed",
			target: "confirmed",
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(model.StatusPending), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantErr: false,
		},
		{
			name:   "confirmed to active takes vehicle off fleet",
			target: "active",
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(model.StatusConfirmed), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				vehicleRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, false, fields[vehicleModel.FieldAvailable])

						return nil
					})

				cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantErr: false,
		},
		{
			name:   "pending to completed is illegal",
			target: "completed",
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(model.StatusPending), nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name:   "completed is terminal",
			target: "cancelled",
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(model.StatusCompleted), nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name:   "unknown target status",
			target: "archived",
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(model.StatusPending), nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name:   "booking not found",
			target: "confirmed",
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name:   "update error",
			target: "confirmed",
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(model.StatusPending), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockVehicleRepo, mockCache := newBookingService(t)
			tt.setupMock(mockRepo, mockVehicleRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.UpdateStatus(ctx, dto.UpdateStatusRequest{Status: tt.target}, "booking-id")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	booking := model.Booking{
		ID:        "booking-id",
		UserID:    "owner-id",
		VehicleID: "vehicle-id",
		Status:    model.StatusConfirmed,
	}

	tests := []struct {
		name      string
		userID    string
		role      string
		setupMock func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name:   "owner can cancel",
			userID: "owner-id",
			role:   constant.RoleUser,
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				vehicleRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantErr: false,
		},
		{
			name:   "admin can cancel any booking",
			userID: "admin-id",
			role:   constant.RoleAdmin,
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				vehicleRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantErr: false,
		},
		{
			name:   "other user cannot cancel",
			userID: "someone-else",
			role:   constant.RoleUser,
			setupMock: func(repo *bookingMocks.MockBooking, vehicleRepo *vehicleMocks.MockVehicle, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockVehicleRepo, mockCache := newBookingService(t)
			tt.setupMock(mockRepo, mockVehicleRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.userID)
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, tt.role)

			err := svc.Cancel(ctx, "booking-id")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_GetTransitions(t *testing.T) {
	svc, mockRepo, _, _ := newBookingService(t)

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.Booking{ID: "booking-id", Status: model.StatusConfirmed}, nil)

	res, err := svc.GetTransitions(context.Background(), "booking-id")

	assert.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.False(t, res.Terminal)
	assert.ElementsMatch(t, []model.Status{model.StatusActive, model.StatusCancelled}, res.Next)
}
