package service_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"pms/config"
	otelMocks "pms/infras/otel/mocks"
	s3Mocks "pms/infras/s3/mocks"
	"pms/internal/domains/booking/availability"
	bookingMocks "pms/internal/domains/booking/mocks"
	bookingModel "pms/internal/domains/booking/model"
	"pms/internal/domains/dashboard/model/dto"
	"pms/internal/domains/dashboard/report"
	"pms/internal/domains/dashboard/service"
	roomMocks "pms/internal/domains/room/mocks"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
	"pms/shared/timezone"
)

type fixture struct {
	svc      service.Dashboard
	bookings *bookingMocks.MockBooking
	rooms    *roomMocks.MockRoom
	storage  *s3Mocks.MockStorage
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		bookings: bookingMocks.NewMockBooking(ctrl),
		rooms:    roomMocks.NewMockRoom(ctrl),
		storage:  s3Mocks.NewMockStorage(ctrl),
	}

	cfg := &config.Config{}
	cfg.Booking.ReportFolder = "reports"

	f.svc = service.New(f.bookings, f.rooms, f.storage, cfg, otelMocks.NewOtel())

	return f
}

func date(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func TestDashboard_Get(t *testing.T) {
	today := date(time.March, 10)
	createdFrom := time.Date(2024, time.March, 10, 0, 0, 0, 0, timezone.GetLocation())
	createdTo := createdFrom.AddDate(0, 0, 1)
	errDB := errors.New("db down")

	tests := []struct {
		name      string
		setupMock func(f fixture)
		want      dto.DashboardResponse
		wantErr   bool
	}{
		{
			name: "one current booking over two rooms is half occupancy",
			setupMock: func(f fixture) {
				f.bookings.EXPECT().DaySummary(gomock.Any(), today, createdFrom, createdTo).Return(bookingModel.DaySummary{
					NewBookings:     2,
					IncomingGuests:  2,
					OutcomingGuests: 0,
					Invoiced:        decimal.NewFromInt(250),
				}, nil)
				f.rooms.EXPECT().Count(gomock.Any(), gDto.FilterGroup{}).Return(2, nil)
				f.bookings.EXPECT().CountOccupiedRooms(gomock.Any(), today).Return(1, nil)
			},
			want: dto.DashboardResponse{
				Date:                "2024-03-10",
				NewBookings:         2,
				IncomingGuests:      2,
				Invoiced:            decimal.NewFromInt(250),
				TotalRooms:          2,
				OccupiedRooms:       1,
				OccupancyPercentage: 50,
			},
		},
		{
			name: "no rooms yields zero occupancy",
			setupMock: func(f fixture) {
				f.bookings.EXPECT().DaySummary(gomock.Any(), today, createdFrom, createdTo).Return(bookingModel.DaySummary{Invoiced: decimal.Zero}, nil)
				f.rooms.EXPECT().Count(gomock.Any(), gDto.FilterGroup{}).Return(0, nil)
				f.bookings.EXPECT().CountOccupiedRooms(gomock.Any(), today).Return(0, nil)
			},
			want: dto.DashboardResponse{Date: "2024-03-10", Invoiced: decimal.Zero},
		},
		{
			name: "summary failure",
			setupMock: func(f fixture) {
				f.bookings.EXPECT().DaySummary(gomock.Any(), today, createdFrom, createdTo).Return(bookingModel.DaySummary{}, errDB)
			},
			wantErr: true,
		},
		{
			name: "room count failure",
			setupMock: func(f fixture) {
				f.bookings.EXPECT().DaySummary(gomock.Any(), today, createdFrom, createdTo).Return(bookingModel.DaySummary{}, nil)
				f.rooms.EXPECT().Count(gomock.Any(), gDto.FilterGroup{}).Return(0, errDB)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), today.Add(15*time.Hour))

			if tt.wantErr {
				assert.ErrorIs(t, err, errDB)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.Date, res.Date)
			assert.Equal(t, tt.want.NewBookings, res.NewBookings)
			assert.Equal(t, tt.want.IncomingGuests, res.IncomingGuests)
			assert.True(t, tt.want.Invoiced.Equal(res.Invoiced))
			assert.Equal(t, tt.want.TotalRooms, res.TotalRooms)
			assert.Equal(t, tt.want.OccupiedRooms, res.OccupiedRooms)
			assert.InDelta(t, tt.want.OccupancyPercentage, res.OccupancyPercentage, 0.001)
		})
	}
}

func TestDashboard_ExportReport(t *testing.T) {
	roomName := "Room 101"
	bookings := []bookingModel.Booking{
		{
			Code:     "AB12CD34",
			State:    bookingModel.StateNew,
			CheckIn:  date(time.March, 1),
			CheckOut: date(time.March, 3),
			RoomName: &roomName,
			Guests:   2,
			Total:    decimal.NewFromInt(100),
		},
	}

	t.Run("uploads the workbook", func(t *testing.T) {
		f := newFixture(t)

		var uploaded []byte

		f.bookings.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{SortBy: bookingModel.FieldCheckIn, SortDir: gDto.SortDirAsc}, gomock.Any()).
			Return(bookings, nil)
		f.storage.EXPECT().Upload(gomock.Any(), "reports", gomock.Any(), constant.ContentTypeXLSX, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, fileName, _ string, data []byte) (string, error) {
				uploaded = data

				return "https://files.example.com/reports/" + fileName, nil
			})

		res, err := f.svc.ExportReport(context.Background(), dto.ReportRequest{From: "2024-03-01", To: "2024-04-01"})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Bookings)
		assert.Contains(t, res.FileName, "reservas_2024-03-01_2024-04-01_")
		assert.Equal(t, "https://files.example.com/reports/"+res.FileName, res.URL)

		book, err := excelize.OpenReader(bytes.NewReader(uploaded))
		require.NoError(t, err)

		defer book.Close()

		assert.Equal(t, []string{report.SheetBookings, report.SheetSummary}, book.GetSheetList())
	})

	t.Run("reversed range", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ExportReport(context.Background(), dto.ReportRequest{From: "2024-04-01", To: "2024-03-01"})

		assert.ErrorIs(t, err, availability.ErrInvalidDateRange)
	})

	t.Run("range too long", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ExportReport(context.Background(), dto.ReportRequest{From: "2023-01-01", To: "2024-03-01"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newFixture(t)
		errUpload := errors.New("bucket unavailable")

		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errUpload)

		_, err := f.svc.ExportReport(context.Background(), dto.ReportRequest{From: "2024-03-01", To: "2024-03-02"})

		assert.ErrorIs(t, err, errUpload)
	})
}
