package booking_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pms/internal/domains/booking/availability"
	"pms/internal/domains/booking/model/dto"
	serviceMocks "pms/internal/domains/booking/service/mocks"
	"pms/internal/handlers/booking"
	otelMocks "pms/infras/otel/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T, setupMock func(svc *serviceMocks.MockBooking)) http.Handler {
	t.Helper()

	svc := serviceMocks.NewMockBooking(gomock.NewController(t))
	setupMock(svc)

	handler := booking.New(svc, otelMocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return router
}

func TestHandler(t *testing.T) {
	const bookingID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		setupMock  func(svc *serviceMocks.MockBooking)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "availability",
			method: http.MethodGet,
			target: "/bookings/availability?checkin=2024-03-01&checkout=2024-03-03&guests=2",
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().SearchAvailability(gomock.Any(), dto.SearchAvailabilityRequest{
					StayRequest: dto.StayRequest{CheckIn: "2024-03-01", CheckOut: "2024-03-03"},
					Guests:      2,
				}).Return(dto.SearchAvailabilityResponse{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "availability with non numeric guests",
			method:     http.MethodGet,
			target:     "/bookings/availability?checkin=2024-03-01&checkout=2024-03-03&guests=two",
			setupMock:  func(_ *serviceMocks.MockBooking) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "availability without dates",
			method:     http.MethodGet,
			target:     "/bookings/availability?guests=2",
			setupMock:  func(_ *serviceMocks.MockBooking) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "create conflict renders the domain message",
			method: http.MethodPost,
			target: "/bookings",
			body: `{"checkin":"2024-03-01","checkout":"2024-03-03","room_id":"8f14e45f-ceea-467f-a0e6-2f1b3c1d9a10",` +
				`"guests":2,"customer_id":"c9f0f895-fb98-4b91-9f1e-8a1b2c3d4e5f"}`,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, availability.ErrNoAvailability)
			},
			wantStatus: http.StatusConflict,
			wantBody:   availability.ErrNoAvailability.Message,
		},
		{
			name:       "create with invalid body",
			method:     http.MethodPost,
			target:     "/bookings",
			body:       `{"checkin":"2024-03-01"}`,
			setupMock:  func(_ *serviceMocks.MockBooking) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "list with state filter",
			method: http.MethodGet,
			target: "/bookings?state=DEL",
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), dto.ListFilter{State: "DEL"}).Return(dto.GetBookingsResponse{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "list with unknown state",
			method:     http.MethodGet,
			target:     "/bookings?state=OLD",
			setupMock:  func(_ *serviceMocks.MockBooking) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "update dates",
			method: http.MethodPatch,
			target: "/bookings/" + bookingID + "/dates",
			body:   `{"checkin":"2024-03-02","checkout":"2024-03-05"}`,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().UpdateDates(gomock.Any(), dto.UpdateDatesRequest{
					StayRequest: dto.StayRequest{CheckIn: "2024-03-02", CheckOut: "2024-03-05"},
				}, bookingID).Return(dto.BookingResponse{ID: bookingID}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   bookingID,
		},
		{
			name:   "cancel",
			method: http.MethodPost,
			target: "/bookings/" + bookingID + "/cancel",
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Cancel(gomock.Any(), bookingID).Return(dto.BookingResponse{ID: bookingID, State: "DEL"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"state":"DEL"`,
		},
		{
			name:       "malformed id is not found",
			method:     http.MethodGet,
			target:     "/bookings/abc",
			setupMock:  func(_ *serviceMocks.MockBooking) {},
			wantStatus: http.StatusNotFound,
			wantBody:   "resource not found",
		},
		{
			name:       "malformed id on cancel is not found",
			method:     http.MethodPost,
			target:     "/bookings/abc/cancel",
			setupMock:  func(_ *serviceMocks.MockBooking) {},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, tt.setupMock)

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
