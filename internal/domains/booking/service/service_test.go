package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pms/config"
	"pms/infras/kafka"
	kafkaMocks "pms/infras/kafka/mocks"
	otelMocks "pms/infras/otel/mocks"
	pgMocks "pms/infras/postgres/mocks"
	"pms/internal/domains/booking/availability"
	bookingMocks "pms/internal/domains/booking/mocks"
	"pms/internal/domains/booking/model"
	"pms/internal/domains/booking/model/dto"
	"pms/internal/domains/booking/service"
	customerMocks "pms/internal/domains/customer/mocks"
	customerModel "pms/internal/domains/customer/model"
	customerDto "pms/internal/domains/customer/model/dto"
	roomMocks "pms/internal/domains/room/mocks"
	roomModel "pms/internal/domains/room/model"
	cacheMocks "pms/shared/cache/mocks"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
	gRepo "pms/shared/repository"
)

const (
	roomID     = "8f14e45f-ceea-467f-a0e6-2f1b3c1d9a10"
	customerID = "c9f0f895-fb98-4b91-9f1e-8a1b2c3d4e5f"
	bookingID  = "b-1"
)

var errCacheMiss = errors.New("redis: nil")

type fixture struct {
	svc       service.Booking
	repo      *bookingMocks.MockBooking
	rooms     *roomMocks.MockRoom
	customers *customerMocks.MockCustomer
	publisher *kafkaMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		customers: customerMocks.NewMockCustomer(ctrl),
		publisher: kafkaMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.CodeLength = 8

	f.svc = service.New(f.repo, f.rooms, f.customers, pgMocks.NewTransactor(), f.publisher, cfg, f.cache, otelMocks.NewOtel())

	return f
}

func expectCacheWrites(mockCache *cacheMocks.MockRedisCache) {
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func day(n int) time.Time {
	return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func stay(from, to int) dto.StayRequest {
	return dto.StayRequest{
		CheckIn:  day(from).Format(constant.DayFormat),
		CheckOut: day(to).Format(constant.DayFormat),
	}
}

func pricedRoom(price int64, maxGuests int) roomModel.Room {
	typeName := "Double"

	return roomModel.Room{
		ID:           roomID,
		Name:         "Room 101",
		RoomTypeID:   &typeName,
		RoomTypeName: &typeName,
		Price:        decimal.NewNullDecimal(decimal.NewFromInt(price)),
		MaxGuests:    &maxGuests,
	}
}

func activeBooking(from, to int) model.Booking {
	room := roomID
	customer := customerID

	return model.Booking{
		ID:         bookingID,
		Code:       "AB12CD34",
		State:      model.StateNew,
		CheckIn:    day(from),
		CheckOut:   day(to),
		RoomID:     &room,
		Guests:     2,
		CustomerID: &customer,
		Total:      decimal.NewFromInt(100),
	}
}

func TestBookingService_SearchAvailability(t *testing.T) {
	f := newFixture(t)

	noType := roomModel.Room{ID: "r-2", Name: "Room 102"}

	f.rooms.EXPECT().GetAvailable(gomock.Any(), day(0), day(2), 2).Return([]roomModel.Room{pricedRoom(50, 2), noType}, nil)

	res, err := f.svc.SearchAvailability(context.Background(), dto.SearchAvailabilityRequest{StayRequest: stay(0, 2), Guests: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Nights)
	require.Len(t, res.Rooms, 1)
	assert.Equal(t, roomID, res.Rooms[0].RoomID)
	assert.Equal(t, "100", res.Rooms[0].Total.String())
}

func TestBookingService_SearchAvailability_InvalidRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SearchAvailability(context.Background(), dto.SearchAvailabilityRequest{StayRequest: stay(2, 2), Guests: 1})

	assert.ErrorIs(t, err, availability.ErrInvalidDateRange)
}

func TestBookingService_Create(t *testing.T) {
	existingCustomer := customerID

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(f fixture)
		wantErr   error
		wantCode  int
	}{
		{
			name: "existing customer, price 50 for two nights",
			req:  dto.CreateBookingRequest{StayRequest: stay(0, 2), RoomID: roomID, Guests: 2, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return([]model.Booking{activeBooking(2, 4)}, nil)
				f.customers.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.Equal(t, model.StateNew, booking.State)
						assert.Equal(t, "100", booking.Total.String())
						assert.Len(t, booking.Code, 8)
						assert.Equal(t, customerID, *booking.CustomerID)
						assert.Equal(t, day(0), booking.CheckIn)

						return nil
					})
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(activeBooking(0, 2), nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, messages ...kafka.Message) error {
						assert.Equal(t, dto.EventCreated, messages[0].EventType)
						assert.Equal(t, bookingID, messages[0].Key)

						return nil
					})
			},
		},
		{
			name: "inline customer is created in the same transaction",
			req: dto.CreateBookingRequest{
				StayRequest: stay(0, 1),
				RoomID:      roomID,
				Guests:      1,
				Customer:    &customerDto.CreateCustomerRequest{Name: "John", Email: "J@J.com", Phone: "+34 600 12 34 56"},
			},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return(nil, nil)
				f.customers.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, customer customerModel.Customer) error {
						assert.Equal(t, "j@j.com", customer.Email)
						assert.Equal(t, "+34600123456", customer.Phone)

						return nil
					})
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(activeBooking(0, 1), nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "overlapping booking",
			req:  dto.CreateBookingRequest{StayRequest: stay(1, 3), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return([]model.Booking{activeBooking(0, 2)}, nil)
			},
			wantErr: availability.ErrNoAvailability,
		},
		{
			name:    "same checkin and checkout",
			req:     dto.CreateBookingRequest{StayRequest: stay(1, 1), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer},
			wantErr: availability.ErrInvalidDateRange,
		},
		{
			name: "room without a type",
			req:  dto.CreateBookingRequest{StayRequest: stay(0, 2), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(roomModel.Room{ID: roomID}, nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return(nil, nil)
			},
			wantErr: availability.ErrMissingRoomType,
		},
		{
			name: "too many guests",
			req:  dto.CreateBookingRequest{StayRequest: stay(0, 2), RoomID: roomID, Guests: 3, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return(nil, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown room",
			req:  dto.CreateBookingRequest{StayRequest: stay(0, 2), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(roomModel.Room{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "unknown customer",
			req:  dto.CreateBookingRequest{StayRequest: stay(0, 2), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return(nil, nil)
				f.customers.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(customerModel.Customer{}, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "concurrent booking of the same nights",
			req:  dto.CreateBookingRequest{StayRequest: stay(0, 2), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return(nil, nil)
				f.customers.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeExclusionViolation})
			},
			wantErr: availability.ErrNoAvailability,
		},
		{
			name: "taken code is retried with a fresh one",
			req:  dto.CreateBookingRequest{StayRequest: stay(0, 2), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				var codes []string

				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil).Times(2)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return(nil, nil).Times(2)
				f.customers.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil).Times(2)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						codes = append(codes, booking.Code)
						if len(codes) == 1 {
							return &pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: "idx_bookings_code"}
						}

						assert.NotEqual(t, codes[0], codes[1])

						return nil
					}).Times(2)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(activeBooking(0, 2), nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "code still taken after retrying",
			req:  dto.CreateBookingRequest{StayRequest: stay(0, 2), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil).Times(2)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return(nil, nil).Times(2)
				f.customers.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil).Times(2)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation}).Times(2)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "publish failure does not fail the booking",
			req:  dto.CreateBookingRequest{StayRequest: stay(0, 2), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, "").Return(nil, nil)
				f.customers.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(activeBooking(0, 2), nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			expectCacheWrites(f.cache)

			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Create(context.Background(), tt.req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, bookingID, res.ID)
				assert.Equal(t, "Nueva", res.StateLabel)
			}
		})
	}
}

func TestBookingService_Create_RollsBackOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	transactor := pgMocks.NewMockTransactor(ctrl)
	rooms := roomMocks.NewMockRoom(ctrl)
	repo := bookingMocks.NewMockBooking(ctrl)

	cfg := &config.Config{}

	svc := service.New(repo, rooms, customerMocks.NewMockCustomer(ctrl), transactor, kafkaMocks.NewMockPublisher(ctrl), cfg,
		cacheMocks.NewMockRedisCache(ctrl), otelMocks.NewOtel())

	transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
			assert.Equal(t, sql.LevelSerializable, opts.Isolation)

			return &pq.Error{Code: constant.PqErrorCodeSerializationFailure}
		})

	existingCustomer := customerID

	_, err := svc.Create(context.Background(), dto.CreateBookingRequest{
		StayRequest: stay(0, 2), RoomID: roomID, Guests: 1, CustomerID: &existingCustomer,
	})

	assert.ErrorIs(t, err, availability.ErrNoAvailability)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestBookingService_UpdateDates(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateDatesRequest
		setupMock func(f fixture)
		wantErr   error
		wantCode  int
	}{
		{
			name: "moving within its own nights succeeds when the booking is excluded",
			req:  dto.UpdateDatesRequest{StayRequest: stay(1, 3)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(activeBooking(0, 2), nil)
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, bookingID).Return(nil, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, day(1), fields[model.FieldCheckIn])
						assert.Equal(t, day(3), fields[model.FieldCheckOut])
						assert.Equal(t, "100", fields[model.FieldTotal].(decimal.Decimal).String())

						return nil
					})
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(activeBooking(1, 3), nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "overlap with another booking",
			req:  dto.UpdateDatesRequest{StayRequest: stay(9, 11)},
			setupMock: func(f fixture) {
				other := activeBooking(10, 12)
				other.ID = "b-2"

				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(activeBooking(0, 2), nil)
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
				f.repo.EXPECT().ActiveForRoom(gomock.Any(), gomock.Nil(), roomID, bookingID).Return([]model.Booking{other}, nil)
			},
			wantErr: availability.ErrNoAvailability,
		},
		{
			name: "checkout before checkin",
			req:  dto.UpdateDatesRequest{StayRequest: stay(5, 4)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(activeBooking(0, 2), nil)
				f.rooms.EXPECT().LockTx(gomock.Any(), gomock.Nil(), roomID).Return(pricedRoom(50, 2), nil)
			},
			wantErr: availability.ErrInvalidDateRange,
		},
		{
			name: "room was deleted",
			req:  dto.UpdateDatesRequest{StayRequest: stay(1, 3)},
			setupMock: func(f fixture) {
				booking := activeBooking(0, 2)
				booking.RoomID = nil

				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(booking, nil)
			},
			wantErr: availability.ErrRoomUnset,
		},
		{
			name: "cancelled booking",
			req:  dto.UpdateDatesRequest{StayRequest: stay(1, 3)},
			setupMock: func(f fixture) {
				booking := activeBooking(0, 2)
				booking.State = model.StateCancelled

				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "not found",
			req:  dto.UpdateDatesRequest{StayRequest: stay(1, 3)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			expectCacheWrites(f.cache)
			tt.setupMock(f)

			res, err := f.svc.UpdateDates(context.Background(), tt.req, bookingID)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, day(1).Format(constant.DayFormat), res.CheckIn)
				assert.Equal(t, 2, res.Nights)
			}
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "cancels a new booking",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeBooking(0, 2), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
						assert.Equal(t, model.StateCancelled, fields[model.FieldState])
						assert.Equal(t, dto.ActiveByID(bookingID), filter)

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, messages ...kafka.Message) error {
						assert.Equal(t, dto.EventCancelled, messages[0].EventType)

						return nil
					})
			},
		},
		{
			name: "cancelled concurrently, nothing updated",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeBooking(0, 2), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("update booking: %w", gRepo.ErrNoRowsAffected))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "already cancelled",
			setupMock: func(f fixture) {
				booking := activeBooking(0, 2)
				booking.State = model.StateCancelled

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			expectCacheWrites(f.cache)
			tt.setupMock(f)

			res, err := f.svc.Cancel(context.Background(), bookingID)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StateCancelled, res.State)
			assert.Equal(t, "Cancelada", res.StateLabel)
		})
	}
}

func TestBookingService_UpdateContact(t *testing.T) {
	name := "Jane"
	phone := "600 12 34 56"

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "updates the customer of the booking",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeBooking(0, 2), nil)
				f.customers.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
						assert.Equal(t, name, fields[customerModel.FieldName])
						assert.Equal(t, "+34600123456", fields[customerModel.FieldPhone])

						where, args := filter.GetWhereClause()
						assert.Contains(t, where, "customers.id")
						assert.Equal(t, customerID, args[customerModel.FieldID])

						return nil
					})

				updated := activeBooking(0, 2)
				updated.CustomerName = &name

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil)
			},
		},
		{
			name: "booking without customer",
			setupMock: func(f fixture) {
				booking := activeBooking(0, 2)
				booking.CustomerID = nil

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			expectCacheWrites(f.cache)
			tt.setupMock(f)

			res, err := f.svc.UpdateContact(context.Background(), dto.UpdateContactRequest{Name: name, Phone: &phone}, bookingID)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, name, *res.CustomerName)
		})
	}
}

func TestBookingService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
	expectCacheWrites(f.cache)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)
			assert.Len(t, filter.Filters, 2)

			return []model.Booking{activeBooking(0, 2)}, nil
		})

	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password"}

	res, err := f.svc.GetAll(context.Background(), params, dto.ListFilter{State: model.StateNew, RoomID: roomID})

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, "2024-03-01", res.Bookings[0].CheckIn)
}

func TestBookingService_Get(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "booking:get:b-1", gomock.Any()).Return(nil)

		_, err := f.svc.Get(context.Background(), bookingID)

		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "booking:get:b-1", gomock.Any()).Return(errCacheMiss)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(context.Background(), bookingID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
