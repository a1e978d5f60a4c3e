//go:build integration

package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmitrymomot/cardvault/modules/account"
	"github.com/dmitrymomot/cardvault/pkg/logger"
	"github.com/dmitrymomot/cardvault/pkg/pg"
)

func TestPostgresRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("cardvault"),
		postgres.WithUsername("cardvault"),
		postgres.WithPassword("cardvault"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	defer func() { _ = container.Terminate(ctx) }()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := pg.Config{
		ConnectionString: connStr,
		MaxOpenConns:     4,
		MinConns:         1,
		RetryAttempts:    5,
		RetryInterval:    time.Second,
		MigrationsTable:  "schema_migrations",
	}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	db := pg.OpenDB(pool)
	defer func() { _ = db.Close() }()

	require.NoError(t, pg.Migrate(ctx, db, account.Migrations, account.MigrationsDir, cfg, logger.Noop()))
	require.NoError(t, pg.Migrate(ctx, db, account.Migrations, account.MigrationsDir, cfg, logger.Noop()), "migrations are idempotent")

	repo := account.NewPostgresRepository(db)

	user, err := repo.CreateUser(ctx, account.User{Name: "Ann", Email: "ann@example.com", PasswordHash: []byte("h")})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = repo.CreateUser(ctx, account.User{Name: "Other", Email: "ann@example.com", PasswordHash: []byte("h")})
	assert.ErrorIs(t, err, account.ErrEmailTaken)

	byEmail, err := repo.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, []byte("h"), byEmail.PasswordHash)

	card, err := repo.CreateCard(ctx, account.Card{
		OwnerID: user.ID, Title: "Main", Provider: "Visa", Name: "ANN", CardNumber: "0041", Balance: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, account.CardNumber("0041"), card.CardNumber)

	_, err = repo.CreateCard(ctx, account.Card{OwnerID: user.ID + 1000, Title: "x", Provider: "Visa", Name: "x", CardNumber: "1"})
	assert.ErrorIs(t, err, account.ErrUserNotFound)

	cards, err := repo.ListCards(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	require.NoError(t, repo.DeleteUser(ctx, user.ID))
	_, err = repo.GetCard(ctx, card.ID)
	assert.ErrorIs(t, err, account.ErrCardNotFound, "cards cascade with their owner")
	assert.ErrorIs(t, repo.DeleteUser(ctx, user.ID), account.ErrUserNotFound)
}
