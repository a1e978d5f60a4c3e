package account

import "context"

// Repository persists users and cards. Implementations return ErrUserNotFound,
// ErrCardNotFound and ErrEmailTaken for the corresponding conditions. Email
// lookups expect an already normalised address.
type Repository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// DeleteUser removes the user together with their cards.
	DeleteUser(ctx context.Context, id int64) error

	CreateCard(ctx context.Context, card Card) (Card, error)
	GetCard(ctx context.Context, id int64) (Card, error)
	// ListCards returns the owner's cards ordered by id.
	ListCards(ctx context.Context, ownerID int64) ([]Card, error)
}
