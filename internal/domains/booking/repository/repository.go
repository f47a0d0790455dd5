package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pms/infras/otel"
	"pms/infras/postgres"
	"pms/internal/domains/booking/model"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/logger"
	gRepo "pms/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	queryCountOccupiedRooms = `SELECT COUNT(DISTINCT room_id) FROM bookings
		WHERE state = $1 AND room_id IS NOT NULL AND checkin <= $2 AND $2 < checkout`

	queryDaySummary = `SELECT
		COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2) AS new_bookings,
		COUNT(*) FILTER (WHERE state = $3 AND checkin = $4) AS incoming_guests,
		COUNT(*) FILTER (WHERE state = $3 AND checkout = $4) AS outcoming_guests,
		COALESCE(SUM(total) FILTER (WHERE state = $3 AND created_at >= $1 AND created_at < $2), 0) AS invoiced
		FROM bookings`

	argExcludeID = "exclude_id"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	ActiveForRoom(ctx context.Context, sqltx *sqlx.Tx, roomID, excludeID string) ([]model.Booking, error)
	CountOccupiedRooms(ctx context.Context, day time.Time) (int, error)
	DaySummary(ctx context.Context, day, createdFrom, createdTo time.Time) (model.DaySummary, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveForRoom returns the NEW bookings of the room ordered by checkin, skipping excludeID when set.
// With a transaction the rows come from its snapshot.
func (repo *repositoryImpl) ActiveForRoom(ctx context.Context, sqltx *sqlx.Tx, roomID, excludeID string) ([]model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ActiveForRoom")
	defer scope.End()

	filters := []any{
		gDto.Filter{
			Field:    model.FieldRoomID,
			Value:    roomID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldState,
			Value:    model.StateNew,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
	}

	if excludeID != constant.Empty {
		filters = append(filters, gDto.Filter{
			ArgName:  argExcludeID,
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
	params := gDto.QueryParams{SortBy: model.FieldCheckIn, SortDir: gDto.SortDirAsc}

	if sqltx == nil {
		return repo.GetAll(ctx, params, filter) //nolint:wrapcheck
	}

	return repo.GetAllTx(ctx, sqltx, params, filter) //nolint:wrapcheck
}

// CountOccupiedRooms counts distinct rooms with an active booking covering day.
func (repo *repositoryImpl) CountOccupiedRooms(ctx context.Context, day time.Time) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountOccupiedRooms")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryCountOccupiedRooms)

	var count int

	err := repo.db.Read.GetContext(ctx, &count, queryCountOccupiedRooms, model.StateNew, day)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count occupied rooms: %w", err)
	}

	return count, nil
}

// DaySummary aggregates the dashboard counters of day. createdFrom and createdTo bound the
// instants that belong to day in the application timezone.
func (repo *repositoryImpl) DaySummary(ctx context.Context, day, createdFrom, createdTo time.Time) (model.DaySummary, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.DaySummary")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryDaySummary)

	var summary model.DaySummary

	err := repo.db.Read.GetContext(ctx, &summary, queryDaySummary, createdFrom, createdTo, model.StateNew, day)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return summary, fmt.Errorf("failed to summarize bookings: %w", err)
	}

	return summary, nil
}
