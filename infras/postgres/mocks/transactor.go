package mocks

import (
	"context"
	"database/sql"
	"pms/infras/postgres"

	"github.com/jmoiron/sqlx"
)

type transactorImpl struct{}

// WithinTransaction implements postgres.Transactor. The callback receives a nil transaction, so
// it is only meant for services whose repositories are mocked as well.
func (t *transactorImpl) WithinTransaction(_ context.Context, _ *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func NewTransactor() postgres.Transactor {
	return &transactorImpl{}
}
