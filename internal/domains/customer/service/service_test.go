package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pms/config"
	"pms/infras/otel/mocks"
	customerMocks "pms/internal/domains/customer/mocks"
	"pms/internal/domains/customer/model"
	"pms/internal/domains/customer/model/dto"
	"pms/internal/domains/customer/service"
	cacheMocks "pms/shared/cache/mocks"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
)

var errCacheMiss = errors.New("redis: nil")

func newService(t *testing.T) (service.Customer, *customerMocks.MockCustomer, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := customerMocks.NewMockCustomer(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func expectCacheWrites(mockCache *cacheMocks.MockRedisCache) {
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestCustomerService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateCustomerRequest
		setupMock func(repo *customerMocks.MockCustomer)
		wantErr   bool
	}{
		{
			name: "successful creation normalizes contact data",
			req: dto.CreateCustomerRequest{
				Name:  " John ",
				Email: "John@Example.com",
				Phone: "600 123 456",
			},
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, customer model.Customer) error {
						assert.Equal(t, "John", customer.Name)
						assert.Equal(t, "john@example.com", customer.Email)
						assert.Equal(t, "+34600123456", customer.Phone)
						assert.Equal(t, "test-user-id", customer.CreatedBy)
						assert.NotEmpty(t, customer.ID)

						return nil
					})
			},
		},
		{
			name: "repository error",
			req: dto.CreateCustomerRequest{
				Name:  "John",
				Email: "john@example.com",
			},
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			expectCacheWrites(mockCache)
			tt.setupMock(mockRepo)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			res, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, res.ID)
			}
		})
	}
}

func TestCustomerService_GetAll(t *testing.T) {
	tests := []struct {
		name      string
		params    gDto.QueryParams
		setupMock func(repo *customerMocks.MockCustomer, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantTotal int
		wantPages int
	}{
		{
			name:   "cache miss reads the repository",
			params: gDto.QueryParams{Page: 1, Limit: 1},
			setupMock: func(repo *customerMocks.MockCustomer, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
				repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Customer, error) {
						assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)

						return []model.Customer{{ID: "c-1", Name: "John"}}, nil
					})
			},
			wantTotal: 2,
			wantPages: 2,
		},
		{
			name:   "cache hit skips the repository",
			params: gDto.QueryParams{Page: 1, Limit: 10},
			setupMock: func(_ *customerMocks.MockCustomer, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res, _ := value.(*dto.GetCustomersResponse)
						res.TotalData = 5
						res.TotalPage = 1

						return nil
					})
			},
			wantTotal: 5,
			wantPages: 1,
		},
		{
			name:   "repository error",
			params: gDto.QueryParams{Page: 1, Limit: 10},
			setupMock: func(repo *customerMocks.MockCustomer, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("get all error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			tt.setupMock(mockRepo, mockCache)
			expectCacheWrites(mockCache)

			res, err := svc.GetAll(context.Background(), tt.params, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalData)
			assert.Equal(t, tt.wantPages, res.TotalPage)
		})
	}
}

func TestCustomerService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *customerMocks.MockCustomer)
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Customer{ID: "c-1", Name: "John"}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Customer{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Customer{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
			expectCacheWrites(mockCache)
			tt.setupMock(mockRepo)

			res, err := svc.Get(context.Background(), "c-1")

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "John", res.Name)
		})
	}
}

func TestCustomerService_Update(t *testing.T) {
	phone := "+34 600 123 456"

	tests := []struct {
		name      string
		setupMock func(repo *customerMocks.MockCustomer)
		wantCode  int
	}{
		{
			name: "successful update",
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "+34600123456", fields[model.FieldPhone])
						assert.Equal(t, "jane@example.com", fields[model.FieldEmail])
						assert.NotContains(t, fields, model.FieldName)

						return nil
					})
			},
		},
		{
			name: "not found",
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "update error",
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			expectCacheWrites(mockCache)
			tt.setupMock(mockRepo)

			req := dto.UpdateCustomerRequest{Email: " Jane@Example.com", Phone: &phone}
			err := svc.Update(context.Background(), req, "c-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCustomerService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *customerMocks.MockCustomer)
		wantCode  int
	}{
		{
			name: "successful delete",
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "not found",
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "exist error",
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			expectCacheWrites(mockCache)
			tt.setupMock(mockRepo)

			err := svc.Delete(context.Background(), "c-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCustomerService_Delete_ClearsBookingCaches(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	cleared := make(chan struct{})

	mockCache.EXPECT().Clear(gomock.Any(), "booking:*").DoAndReturn(func(context.Context, string) error {
		close(cleared)

		return nil
	})
	expectCacheWrites(mockCache)

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "c-1"))

	select {
	case <-cleared:
	case <-time.After(time.Second):
		t.Fatal("booking caches were not cleared")
	}
}
