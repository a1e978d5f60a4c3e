package pg_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/cardvault/pkg/logger"
	"github.com/dmitrymomot/cardvault/pkg/pg"
)

func TestErrorHelpers(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
		assert.True(t, pg.IsNotFoundError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)))
		assert.False(t, pg.IsNotFoundError(errors.New("other")))
		assert.False(t, pg.IsNotFoundError(nil))
	})

	t.Run("constraint codes", func(t *testing.T) {
		dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
		fk := &pgconn.PgError{Code: "23503"}

		assert.True(t, pg.IsDuplicateKeyError(dup))
		assert.False(t, pg.IsDuplicateKeyError(fk))
		assert.True(t, pg.IsForeignKeyViolationError(fk))
		assert.False(t, pg.IsForeignKeyViolationError(nil))
	})
}

func TestConnect_Validation(t *testing.T) {
	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
}

func TestMigrate_Validation(t *testing.T) {
	log := logger.Noop()

	err := pg.Migrate(context.Background(), nil, nil, "", pg.Config{}, log)
	assert.ErrorIs(t, err, pg.ErrMigrationPathNotProvided)

	err = pg.Migrate(context.Background(), nil, fstest.MapFS{}, "migrations", pg.Config{}, log)
	assert.ErrorIs(t, err, pg.ErrMigrationsDirNotFound)
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthcheck(t *testing.T) {
	assert.NoError(t, pg.Healthcheck(stubPinger{})(context.Background()))

	err := pg.Healthcheck(stubPinger{err: errors.New("down")})(context.Background())
	assert.ErrorIs(t, err, pg.ErrHealthcheckFailed)
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, pg.Config{}.Enabled())
	assert.True(t, pg.Config{ConnectionString: "postgres://localhost/db"}.Enabled())
}
