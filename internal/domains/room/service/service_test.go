package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pms/config"
	"pms/infras/otel/mocks"
	roomMocks "pms/internal/domains/room/mocks"
	"pms/internal/domains/room/model"
	"pms/internal/domains/room/model/dto"
	"pms/internal/domains/room/service"
	cacheMocks "pms/shared/cache/mocks"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
)

func newService(t *testing.T) (service.Room, *roomMocks.MockRoom, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := roomMocks.NewMockRoom(ctrl)
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

func TestRoomService_Create(t *testing.T) {
	typeID := "9d1c7a52-8f9e-4bb8-9a5e-6d3c0f1f2a11"

	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func(repo *roomMocks.MockRoom)
		wantCode  int
	}{
		{
			name: "successful creation returns the joined room",
			req:  dto.CreateRoomRequest{Name: "Room 101", RoomTypeID: &typeID},
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r-1", Name: "Room 101", RoomTypeID: &typeID}, nil)
			},
		},
		{
			name: "unknown room type",
			req:  dto.CreateRoomRequest{Name: "Room 101", RoomTypeID: &typeID},
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "repository error",
			req:  dto.CreateRoomRequest{Name: "Room 101"},
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			expectCacheWrites(mockCache)
			tt.setupMock(mockRepo)

			res, err := svc.Create(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "r-1", res.ID)
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil")).Times(2)
	expectCacheWrites(mockCache)

	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Room, error) {
			assert.Equal(t, model.FieldName, params.SortBy)
			assert.Len(t, filter.Filters, 1)

			return []model.Room{{ID: "r-1", Name: "Room 101"}, {ID: "r-2", Name: "Room 102"}}, nil
		})

	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: model.FieldName, SortDir: gDto.SortDirAsc}

	res, err := svc.GetAll(context.Background(), params, dto.SearchFilter("room"))

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Len(t, res.Rooms, 2)
}

func TestRoomService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache)
		wantCode  int
	}{
		{
			name: "cache hit",
			setupMock: func(_ *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), "room:get:r-1", gomock.Any()).Return(nil)
			},
		},
		{
			name: "not found",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), "room:get:r-1", gomock.Any()).Return(errors.New("redis: nil"))
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			tt.setupMock(mockRepo, mockCache)
			expectCacheWrites(mockCache)

			_, err := svc.Get(context.Background(), "r-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	description := "Sea view"

	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom)
		wantCode  int
	}{
		{
			name: "successful update",
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, description, fields[model.FieldDescription])
						assert.NotContains(t, fields, model.FieldRoomTypeID)

						return nil
					})
			},
		},
		{
			name: "not found",
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			expectCacheWrites(mockCache)
			tt.setupMock(mockRepo)

			err := svc.Update(context.Background(), dto.UpdateRoomRequest{Description: &description}, "r-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)
	expectCacheWrites(mockCache)

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "r-1"))
}

func TestRoomService_Delete_ClearsBookingCaches(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	cleared := make(chan struct{})

	mockCache.EXPECT().Clear(gomock.Any(), "booking:*").DoAndReturn(func(context.Context, string) error {
		close(cleared)

		return nil
	})
	expectCacheWrites(mockCache)

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "r-1"))

	select {
	case <-cleared:
	case <-time.After(time.Second):
		t.Fatal("booking caches were not cleared")
	}
}
