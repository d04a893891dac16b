package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rentwheels/config"
	"rentwheels/infras/otel/mocks"
	userMocks "rentwheels/internal/domains/user/mocks"
	"rentwheels/internal/domains/user/model"
	"rentwheels/internal/domains/user/model/dto"
	"rentwheels/internal/domains/user/service"
	cacheMocks "rentwheels/shared/cache/mocks"
	"rentwheels/shared/failure"
)

type userServiceMocks struct {
	repo  *userMocks.MockUser
	cache *cacheMocks.MockRedisCache
}

func newUserService(t *testing.T) (service.User, userServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := userServiceMocks{
		repo:  userMocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func allowCacheInvalidation(m userServiceMocks) {
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestUserService_Profile(t *testing.T) {
	fullName := "Jane Wanjiku"

	tests := []struct {
		name      string
		setupMock func(m userServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "cache miss then repository hit",
			setupMock: func(m userServiceMocks) {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.User{ID: "user-id", Email: "jane@example.com", FullName: &fullName}, nil)

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "user not found",
			setupMock: func(m userServiceMocks) {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.User{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newUserService(t)
			tt.setupMock(m)

			res, err := svc.Profile(context.Background(), "user-id")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "jane@example.com", res.Email)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	fullName := "Jane Wanjiku"
	req := dto.UpdateProfileRequest{FullName: &fullName}

	tests := []struct {
		name      string
		setupMock func(m userServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update",
			setupMock: func(m userServiceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				allowCacheInvalidation(m)
			},
			wantErr: false,
		},
		{
			name: "user not found",
			setupMock: func(m userServiceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newUserService(t)
			tt.setupMock(m)

			err := svc.UpdateProfile(context.Background(), req, "user-id")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m userServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "role persisted",
			setupMock: func(m userServiceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, "admin", fields[model.FieldRole])

						return nil
					})

				allowCacheInvalidation(m)
			},
			wantErr: false,
		},
		{
			name: "user not found",
			setupMock: func(m userServiceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newUserService(t)
			tt.setupMock(m)

			err := svc.UpdateRole(context.Background(), dto.UpdateRoleRequest{Role: "admin"}, "user-id")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestUserService_Deactivate(t *testing.T) {
	svc, m := newUserService(t)

	m.repo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil)

	m.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, false, fields[model.FieldActive])

			return nil
		})

	allowCacheInvalidation(m)

	err := svc.Deactivate(context.Background(), "user-id")

	assert.NoError(t, err)
}
