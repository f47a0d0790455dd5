package availability

//go:generate go run go.uber.org/mock/mockgen -source=./validator.go -destination=./mocks/finder_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pms/infras/otel"
	"pms/internal/domains/booking/model"
	"pms/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const percent = 100

// Finder lists the active bookings of a room. A nil tx reads outside any transaction.
type Finder interface {
	ActiveForRoom(ctx context.Context, sqltx *sqlx.Tx, roomID, excludeID string) ([]model.Booking, error)
}

type Validator struct {
	finder Finder
	otel   otel.Otel
}

func NewValidator(finder Finder, otel otel.Otel) *Validator {
	return &Validator{
		finder: finder,
		otel:   otel,
	}
}

// ValidateRange checks that stay is a valid range and that no other active booking of the room
// overlaps it. excludeID skips the booking being edited; pass an empty string on create.
func (v *Validator) ValidateRange(ctx context.Context, sqltx *sqlx.Tx, roomID *string, stay DateRange, excludeID string) (err error) {
	ctx, scope := v.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.ValidateRange")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if roomID == nil || *roomID == constant.Empty {
		return ErrRoomUnset
	}

	if !stay.Valid() {
		return ErrInvalidDateRange
	}

	scope.SetAttribute("room_id", *roomID)
	scope.SetAttribute("checkin", stay.CheckIn)
	scope.SetAttribute("checkout", stay.CheckOut)

	bookings, err := v.finder.ActiveForRoom(ctx, sqltx, *roomID, excludeID)
	if err != nil {
		log.Error().Err(err).Str("room_id", *roomID).Msg("failed to list active bookings")

		return fmt.Errorf("failed to list active bookings: %w", err)
	}

	for _, booking := range bookings {
		if stay.Overlaps(NewDateRange(booking.CheckIn, booking.CheckOut)) {
			log.Debug().Str("room_id", *roomID).Str("booking_id", booking.ID).Msg("stay overlaps an active booking")

			return ErrNoAvailability
		}
	}

	return nil
}

// OccupancyPercentage is the share of rooms occupied, 0 when there are no rooms.
func OccupancyPercentage(occupied, total int) float64 {
	if total <= 0 {
		return 0
	}

	return percent * float64(occupied) / float64(total)
}

// CalculatePrice is the nightly price times the nights of the stay. A NULL price means the room has no type.
func CalculatePrice(price decimal.NullDecimal, stay DateRange) (decimal.Decimal, error) {
	if !price.Valid {
		return decimal.Zero, ErrMissingRoomType
	}

	if !stay.Valid() {
		return decimal.Zero, ErrInvalidDateRange
	}

	return price.Decimal.Mul(decimal.NewFromInt(int64(stay.Nights()))), nil
}
