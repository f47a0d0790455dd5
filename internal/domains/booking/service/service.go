package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"pms/config"
	"pms/infras/kafka"
	"pms/infras/otel"
	"pms/infras/postgres"
	"pms/internal/domains/booking/availability"
	"pms/internal/domains/booking/model"
	"pms/internal/domains/booking/model/dto"
	"pms/internal/domains/booking/repository"
	customerModel "pms/internal/domains/customer/model"
	customerRepo "pms/internal/domains/customer/repository"
	roomRepo "pms/internal/domains/room/repository"
	"pms/shared"
	"pms/shared/cache"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
	gRepo "pms/shared/repository"
	"pms/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	codeAttempts = 2
)

var (
	errBookingNotFound    = failure.NotFound("booking not found")
	errRoomNotFound       = failure.NotFound("room not found")
	errCustomerNotFound   = failure.UnprocessableEntity("customer not found")
	errCustomerUnset      = failure.UnprocessableEntity("La reserva no tiene un cliente asignado")
	errBookingNotEditable = failure.Conflict("Solo se pueden modificar reservas nuevas")
	errAlreadyCancelled   = failure.Conflict("La reserva ya está cancelada")
	errCodeTaken          = failure.Conflict("No se pudo generar un código de reserva único, inténtelo de nuevo")

	sortableColumns = []string{
		model.FieldCheckIn, model.FieldCheckOut, model.FieldCode, model.FieldState, model.FieldTotal, constant.FieldCreatedAt,
	}
)

type Booking interface {
	SearchAvailability(ctx context.Context, req dto.SearchAvailabilityRequest) (dto.SearchAvailabilityResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ListFilter) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter dto.ListFilter) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateDates(ctx context.Context, req dto.UpdateDatesRequest, id string) (dto.BookingResponse, error)
	UpdateContact(ctx context.Context, req dto.UpdateContactRequest, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	roomRepo     roomRepo.Room
	customerRepo customerRepo.Customer
	transactor   postgres.Transactor
	validator    *availability.Validator
	publisher    kafka.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	customerRepo customerRepo.Customer,
	transactor postgres.Transactor,
	publisher kafka.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		customerRepo: customerRepo,
		transactor:   transactor,
		validator:    availability.NewValidator(repo, otel),
		publisher:    publisher,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// SearchAvailability lists the rooms free for the whole stay that fit the guests, each priced for the stay.
func (s *serviceImpl) SearchAvailability(ctx context.Context, req dto.SearchAvailabilityRequest) (res dto.SearchAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SearchAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	stay, err := req.Stay()
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !stay.Valid() {
		return res, availability.ErrInvalidDateRange
	}

	rooms, err := s.roomRepo.GetAvailable(ctx, stay.CheckIn, stay.CheckOut, req.Guests)
	if err != nil {
		log.Error().Err(err).Msg("failed to get available rooms")

		return res, fmt.Errorf("failed to get available rooms: %w", err)
	}

	res.CheckIn = req.CheckIn
	res.CheckOut = req.CheckOut
	res.Guests = req.Guests
	res.Nights = stay.Nights()
	res.Rooms = make([]dto.AvailableRoomResponse, 0, len(rooms))

	for _, room := range rooms {
		total, err := availability.CalculatePrice(room.Price, stay)
		if err != nil {
			log.Warn().Err(err).Str("room_id", room.ID).Msg("skipping room without price")

			continue
		}

		var available dto.AvailableRoomResponse
		available.FromModel(room, stay, total)

		res.Rooms = append(res.Rooms, available)
	}

	return res, nil
}

// Create books a room for a stay. The room row is locked and the overlap check, the insert of an
// inline customer and the booking insert share one serializable transaction.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	stay, err := req.Stay()
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !stay.Valid() {
		return res, availability.ErrInvalidDateRange
	}

	user := shared.UserFromContext(ctx)

	var booking model.Booking

	create := func(tx *sqlx.Tx) error {
		room, err := s.roomRepo.LockTx(ctx, tx, req.RoomID)
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID == constant.Empty {
			return errRoomNotFound
		}

		if err = s.validator.ValidateRange(ctx, tx, &room.ID, stay, constant.Empty); err != nil {
			return err //nolint:wrapcheck
		}

		if room.MaxGuests != nil && req.Guests > *room.MaxGuests {
			return failure.UnprocessableEntity(fmt.Sprintf("La habitación admite como máximo %d huéspedes", *room.MaxGuests)) //nolint:wrapcheck
		}

		total, err := availability.CalculatePrice(room.Price, stay)
		if err != nil {
			return err //nolint:wrapcheck
		}

		customerID, err := s.resolveCustomer(ctx, tx, req, user)
		if err != nil {
			return err
		}

		created := req.ToModel(user, customerID, dto.GenerateCode(s.cfg.Booking.CodeLength), stay, total)

		if err = s.repo.InsertTx(ctx, tx, created); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		booking, err = s.repo.GetTx(ctx, tx, shared.FilterByID(created.ID, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to read created booking: %w", err)
		}

		return nil
	}

	// bookings.code is the only unique column a new booking can collide on; each attempt draws a fresh code
	for attempt := 1; ; attempt++ {
		err = s.transactor.WithinTransaction(ctx, postgres.Serializable, create)
		if attempt >= codeAttempts || !postgres.HasErrorCode(err, constant.PqErrorCodeUniqueViolation) {
			break
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("booking code already taken, retrying")
	}

	if err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to create booking")

		return res, transactionError("create booking", err)
	}

	res.FromModel(booking)

	s.publish(ctx, dto.EventCreated, booking)

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateLists(c)

		if req.Customer != nil {
			shared.InvalidateCaches(c, s.cache, customerModel.EntityName)
		}
	}()

	return res, nil
}

// resolveCustomer returns the id of the existing customer, or inserts the inline one.
func (s *serviceImpl) resolveCustomer(ctx context.Context, tx *sqlx.Tx, req dto.CreateBookingRequest, user string) (string, error) {
	if req.Customer == nil {
		if req.CustomerID == nil {
			return constant.Empty, errCustomerNotFound
		}

		customer, err := s.customerRepo.GetTx(ctx, tx, shared.FilterByID(*req.CustomerID, customerModel.FieldID, customerModel.TableName))
		if err != nil {
			return constant.Empty, fmt.Errorf("failed to get customer: %w", err)
		}

		if customer.ID == constant.Empty {
			return constant.Empty, errCustomerNotFound
		}

		return customer.ID, nil
	}

	customer := req.Customer.ToModel(user)

	if err := s.customerRepo.InsertTx(ctx, tx, customer); err != nil {
		return constant.Empty, fmt.Errorf("failed to insert customer: %w", err)
	}

	return customer.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ListFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(sortableColumns...)

	filterGroup := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filterGroup)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter dto.ListFilter) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filterGroup := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filterGroup)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, errBookingNotFound
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// UpdateDates moves an active booking to a new stay on the same room and reprices it. The booking
// itself is left out of the overlap check.
func (s *serviceImpl) UpdateDates(ctx context.Context, req dto.UpdateDatesRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateDates")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	stay, err := req.Stay()
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	user := shared.UserFromContext(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var booking model.Booking

	err = s.transactor.WithinTransaction(ctx, postgres.Serializable, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if current.ID == constant.Empty {
			return errBookingNotFound
		}

		if !current.IsActive() {
			return errBookingNotEditable
		}

		if current.RoomID == nil {
			return availability.ErrRoomUnset
		}

		room, err := s.roomRepo.LockTx(ctx, tx, *current.RoomID)
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if err = s.validator.ValidateRange(ctx, tx, current.RoomID, stay, current.ID); err != nil {
			return err //nolint:wrapcheck
		}

		total, err := availability.CalculatePrice(room.Price, stay)
		if err != nil {
			return err //nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldCheckIn:       stay.CheckIn,
			model.FieldCheckOut:      stay.CheckOut,
			model.FieldTotal:         total,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err = s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to update booking dates: %w", err)
		}

		booking, err = s.repo.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to read updated booking: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking dates")

		return res, transactionError("update booking dates", err)
	}

	res.FromModel(booking)

	s.publish(ctx, dto.EventDatesChanged, booking)

	go s.invalidate(context.WithoutCancel(ctx), id)

	return res, nil
}

// UpdateContact edits the customer of the booking. The customer record is shared, so its other
// bookings see the change too.
func (s *serviceImpl) UpdateContact(ctx context.Context, req dto.UpdateContactRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateContact")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, errBookingNotFound
	}

	if booking.CustomerID == nil {
		return res, errCustomerUnset
	}

	req.Normalize()

	customerFilter := shared.FilterByID(*booking.CustomerID, customerModel.FieldID, customerModel.TableName)

	if err = s.customerRepo.Update(ctx, shared.TransformFields(req, shared.UserFromContext(ctx)), customerFilter); err != nil {
		log.Error().Err(err).Msg("failed to update booking customer")

		return res, fmt.Errorf("failed to update booking customer: %w", err)
	}

	booking, err = s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		// every booking of the customer embeds the contact data
		shared.InvalidateCaches(c, s.cache, model.EntityName)
		shared.InvalidateCaches(c, s.cache, customerModel.EntityName)
	}()

	return res, nil
}

// Cancel moves a NEW booking to DEL, which releases its nights.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, errBookingNotFound
	}

	if !booking.IsActive() {
		return res, errAlreadyCancelled
	}

	err = s.repo.Update(ctx, dto.CancelFields(shared.UserFromContext(ctx), timezone.Now()), dto.ActiveByID(id))
	if errors.Is(err, gRepo.ErrNoRowsAffected) {
		return res, errAlreadyCancelled
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.State = model.StateCancelled
	res.FromModel(booking)

	s.publish(ctx, dto.EventCancelled, booking)

	go s.invalidate(context.WithoutCancel(ctx), id)

	return res, nil
}

// publish runs after commit; a failed publish is logged and does not undo the change.
func (s *serviceImpl) publish(ctx context.Context, eventType string, booking model.Booking) {
	err := s.publisher.Publish(ctx, kafka.Message{
		Key:       booking.ID,
		EventType: eventType,
		Value:     dto.NewEvent(booking),
	})
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Str("booking_id", booking.ID).Msg("failed to publish booking event")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking cache")
	}

	s.invalidateLists(ctx)
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
}

// transactionError keeps domain failures as they are and reports write conflicts between
// concurrent bookings of the same nights as no availability.
func transactionError(action string, err error) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return fail
	}

	if postgres.HasErrorCode(err, constant.PqErrorCodeSerializationFailure, constant.PqErrorCodeExclusionViolation) {
		return availability.ErrNoAvailability
	}

	if postgres.HasErrorCode(err, constant.PqErrorCodeUniqueViolation) {
		return errCodeTaken
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}
