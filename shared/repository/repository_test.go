package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms/infras/otel/mocks"
	"pms/infras/postgres"
	"pms/shared"
	"pms/shared/dto"
	"pms/shared/repository"
)

type guest struct {
	ID    string  `db:"id"`
	Name  string  `db:"name"`
	Email *string `db:"email"`
}

func setupRepository(t *testing.T) (repository.Repository[guest], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	return repository.NewRepository[guest]("guest", "guests", "id", conn, mocks.NewOtel()), mock
}

func TestRepository_Insert(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO guests (id, name, email) VALUES ($1, $2, $3)")).
		WithArgs("g-1", "Ana", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), guest{ID: "g-1", Name: "Ana"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	tests := []struct {
		name     string
		rows     *sqlmock.Rows
		expected guest
	}{
		{
			name:     "found",
			rows:     sqlmock.NewRows([]string{"id", "name", "email"}).AddRow("g-1", "Ana", "ana@mail.com"),
			expected: guest{ID: "g-1", Name: "Ana", Email: func() *string { s := "ana@mail.com"; return &s }()},
		},
		{
			name:     "no rows returns zero value",
			rows:     sqlmock.NewRows([]string{"id", "name", "email"}),
			expected: guest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupRepository(t)

			mock.ExpectPrepare(`SELECT guests\.id, guests\.name, guests\.email FROM guests\s+WHERE \(guests\.id = \$1\)`).
				ExpectQuery().
				WithArgs("g-1").
				WillReturnRows(tt.rows)

			result, err := repo.Get(context.Background(), shared.FilterByID("g-1", "id", "guests"))

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetAll_Pagination(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectPrepare(`SELECT guests\.name FROM guests\s+ORDER BY name DESC LIMIT \$1 OFFSET \$2`).
		ExpectQuery().
		WithArgs(5, 5).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Bia"))

	params := dto.QueryParams{Page: 2, Limit: 5, SortBy: "name", SortDir: dto.SortDirDesc}

	result, err := repo.GetAll(context.Background(), params, dto.FilterGroup{}, "name")

	require.NoError(t, err)
	assert.Equal(t, []guest{{Name: "Bia"}}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Count(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT COUNT(guests.id) FROM guests")).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background(), dto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	byNameAndID := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterByID("g-1", "id", "guests"),
			dto.Filter{Field: "name", Value: "Ana", Operator: dto.FilterOperatorEq, Table: "guests"},
		},
	}

	tests := []struct {
		name      string
		fields    map[string]any
		filter    dto.FilterGroup
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name:   "single column",
			fields: map[string]any{"name": "Bia"},
			filter: shared.FilterByID("g-1", "id", "guests"),
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE guests SET name = \$1\s+WHERE \(guests\.id = \$2\)`).
					WithArgs("Bia", "g-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "column written and filtered keeps both values",
			fields: map[string]any{"name": "Bia", "email": "bia@mail.com"},
			filter: byNameAndID,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(
					"UPDATE guests SET email = $1, name = $2  WHERE ((guests.id = $3) AND guests.name = $4)",
				)).
					WithArgs("bia@mail.com", "Bia", "g-1", "Ana").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "nothing matched",
			fields: map[string]any{"name": "Bia"},
			filter: byNameAndID,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE guests`).
					WithArgs("Bia", "g-1", "Ana").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: repository.ErrNoRowsAffected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupRepository(t)
			tt.setupMock(mock)

			err := repo.Update(context.Background(), tt.fields, tt.filter)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_RequiresFilter(t *testing.T) {
	repo, mock := setupRepository(t)
	ctx := context.Background()

	_, err := repo.Exist(ctx, dto.FilterGroup{})
	assert.Error(t, err)

	assert.Error(t, repo.Delete(ctx, dto.FilterGroup{}))
	assert.Error(t, repo.Update(ctx, map[string]any{"name": "Bia"}, dto.FilterGroup{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
