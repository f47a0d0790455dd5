package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pms/infras/otel"
	"pms/infras/postgres"
	"pms/internal/domains/room/model"
	"pms/shared"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/logger"
	gRepo "pms/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	queryLockRoom = "SELECT id FROM rooms WHERE id = $1 FOR UPDATE"

	// bookingStateNew mirrors the booking state stored for active stays.
	bookingStateNew = "NEW"

	queryNoOverlappingBooking = `NOT EXISTS (
		SELECT 1 FROM bookings
		WHERE bookings.room_id = rooms.id
		AND bookings.state = :available_state
		AND bookings.checkin < :available_checkout
		AND :available_checkin < bookings.checkout)`
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	LockTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Room, error)
	GetAvailable(ctx context.Context, checkin, checkout time.Time, guests int) ([]model.Room, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// LockTx takes a row lock on the room for the rest of the transaction and returns it with its
// room type. A missing room returns the zero value.
func (repo *repositoryImpl) LockTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Room, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.LockTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryLockRoom)

	var lockedID string

	err := sqltx.GetContext(ctx, &lockedID, queryLockRoom, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model.Room{}, fmt.Errorf("failed to lock room: %w", err)
	}

	return repo.GetTx(ctx, sqltx, shared.FilterByID(lockedID, model.FieldID, model.TableName)) //nolint:wrapcheck
}

// GetAvailable lists rooms whose type accepts guests and that have no active booking overlapping
// the half-open stay [checkin, checkout).
func (repo *repositoryImpl) GetAvailable(ctx context.Context, checkin, checkout time.Time, guests int) ([]model.Room, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetAvailable")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "available_guests",
				Field:    model.FieldMaxGuests,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    guests,
				Table:    model.JoinTableRoomType,
			},
			gDto.Filter{
				Operator: gDto.FilterPlainQuery,
				Value:    queryNoOverlappingBooking,
				Args: map[string]any{
					"available_state":    bookingStateNew,
					"available_checkin":  checkin,
					"available_checkout": checkout,
				},
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}

	return repo.GetAll(ctx, params, filter) //nolint:wrapcheck
}
