package booking

import (
	"net/http"
	"pms/infras/otel"
	"pms/internal/domains/booking/model"
	"pms/internal/domains/booking/model/dto"
	"pms/internal/domains/booking/service"
	"pms/shared"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
	"pms/shared/validator"
	"pms/transport/http/middleware"
	"pms/transport/http/response"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	paramGuests = "guests"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/availability", handler.SearchAvailability)
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		withID := routerGroup.With(middleware.UUIDParam(constant.RequestParamID))
		withID.Get("/{id}", handler.GetBookingByID)
		withID.Patch("/{id}/dates", handler.UpdateBookingDates)
		withID.Patch("/{id}/customer", handler.UpdateBookingContact)
		withID.Post("/{id}/cancel", handler.CancelBooking)
	})
}

// SearchAvailability lists the rooms that can be booked for a stay.
// @Summary Search available rooms
// @Description Rooms whose type accepts the guests and with no active booking overlapping [checkin, checkout), with the stay total.
// @Tags Booking
// @Produce json
// @Param checkin query string true "Check-in day (YYYY-MM-DD)"
// @Param checkout query string true "Check-out day (YYYY-MM-DD)"
// @Param guests query integer true "Number of guests"
// @Success 200 {object} response.Data[dto.SearchAvailabilityResponse] "Available rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/availability [get]
func (handler *Handler) SearchAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchAvailability")
	defer scope.End()

	query := r.URL.Query()

	req := dto.SearchAvailabilityRequest{
		StayRequest: dto.StayRequest{
			CheckIn:  query.Get(model.FieldCheckIn),
			CheckOut: query.Get(model.FieldCheckOut),
		},
	}

	if guests := query.Get(paramGuests); guests != "" {
		parsed, err := strconv.Atoi(guests)
		if err != nil {
			scope.TraceError(err)
			response.WithError(w, failure.BadRequestFromString("guests must be a number"))

			return
		}

		req.Guests = parsed
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate availability query")

		response.WithError(w, err)

		return
	}

	rooms, err := handler.service.SearchAvailability(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Book a room for an existing customer (customer_id) or a new one (customer).
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + booking.Code + " created by user " + shared.UserFromContext(ctx))

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings retrieves bookings based on query parameters.
// @Summary Get all bookings
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param state query string false "Filter by state (NEW, DEL)"
// @Param room_id query string false "Filter by room"
// @Param customer_id query string false "Filter by customer"
// @Param search query string false "Booking code prefix"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filter := dto.ListFilter{
		State:      query.Get(model.FieldState),
		RoomID:     query.Get(model.FieldRoomID),
		CustomerID: query.Get(model.FieldCustomerID),
		Search:     query.Get(constant.RequestParamSearch),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBookingDates moves an active booking to new dates.
// @Summary Change booking dates
// @Description The new range is checked against the other active bookings of the room and the total is recomputed.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateDatesRequest true "New dates"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/dates [patch]
func (handler *Handler) UpdateBookingDates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingDates")
	defer scope.End()

	req := dto.UpdateDatesRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.UpdateDates(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking dates")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking " + booking.Code + " dates changed by user " + shared.UserFromContext(ctx))

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBookingContact edits the contact data of the booking's customer.
// @Summary Change booking contact data
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateContactRequest true "Contact data"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/customer [patch]
func (handler *Handler) UpdateBookingContact(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingContact")
	defer scope.End()

	req := dto.UpdateContactRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.UpdateContact(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking contact")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// CancelBooking cancels an active booking.
// @Summary Cancel a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Cancelled booking"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	booking, err := handler.service.Cancel(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking " + booking.Code + " cancelled by user " + shared.UserFromContext(ctx))

	response.WithJSON(w, http.StatusOK, booking)
}
