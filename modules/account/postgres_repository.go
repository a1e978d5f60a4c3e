package account

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrymomot/cardvault/pkg/pg"
)

// psq builds PostgreSQL statements with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	userColumns = []string{"id", "name", "email", "password_hash", "created_at"}
	cardColumns = []string{"id", "owner_id", "title", "provider", "name", "card_number", "balance", "created_at"}
)

// PostgresRepository stores users and cards in PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository wraps db. The schema comes from Migrations.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (p *PostgresRepository) CreateUser(ctx context.Context, user User) (User, error) {
	query, args, err := psq.Insert("users").
		Columns("name", "email", "password_hash").
		Values(user.Name, user.Email, user.PasswordHash).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return User{}, fmt.Errorf("building insert user query: %w", err)
	}

	created, err := scanUser(p.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("inserting user: %w", err)
	}
	return created, nil
}

func (p *PostgresRepository) GetUser(ctx context.Context, id int64) (User, error) {
	return p.getUser(ctx, sq.Eq{"id": id})
}

func (p *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return p.getUser(ctx, sq.Eq{"email": email})
}

func (p *PostgresRepository) getUser(ctx context.Context, where sq.Eq) (User, error) {
	query, args, err := psq.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return User{}, fmt.Errorf("building select user query: %w", err)
	}

	user, err := scanUser(p.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("selecting user: %w", err)
	}
	return user, nil
}

func (p *PostgresRepository) DeleteUser(ctx context.Context, id int64) error {
	query, args, err := psq.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete user query: %w", err)
	}

	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading deleted rows: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (p *PostgresRepository) CreateCard(ctx context.Context, card Card) (Card, error) {
	query, args, err := psq.Insert("cards").
		Columns("owner_id", "title", "provider", "name", "card_number", "balance").
		Values(card.OwnerID, card.Title, card.Provider, card.Name, string(card.CardNumber), card.Balance).
		Suffix("RETURNING " + joinColumns(cardColumns)).
		ToSql()
	if err != nil {
		return Card{}, fmt.Errorf("building insert card query: %w", err)
	}

	created, err := scanCard(p.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return Card{}, ErrUserNotFound
		}
		return Card{}, fmt.Errorf("inserting card: %w", err)
	}
	return created, nil
}

func (p *PostgresRepository) GetCard(ctx context.Context, id int64) (Card, error) {
	query, args, err := psq.Select(cardColumns...).From("cards").Where(sq.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return Card{}, fmt.Errorf("building select card query: %w", err)
	}

	card, err := scanCard(p.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Card{}, ErrCardNotFound
		}
		return Card{}, fmt.Errorf("selecting card: %w", err)
	}
	return card, nil
}

func (p *PostgresRepository) ListCards(ctx context.Context, ownerID int64) ([]Card, error) {
	query, args, err := psq.Select(cardColumns...).From("cards").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list cards query: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card row: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating card rows: %w", err)
	}
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func scanCard(row rowScanner) (Card, error) {
	var c Card
	var number string
	err := row.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Provider, &c.Name, &number, &c.Balance, &c.CreatedAt)
	c.CardNumber = CardNumber(number)
	return c, err
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
