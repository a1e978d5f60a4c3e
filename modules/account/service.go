package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/cardvault/pkg/logger"
	"github.com/dmitrymomot/cardvault/pkg/sanitizer"
	"github.com/dmitrymomot/cardvault/pkg/secrets"
	"github.com/dmitrymomot/cardvault/pkg/validator"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

var cleanText = sanitizer.Compose(sanitizer.Trim, sanitizer.CollapseWhitespace)

// PublicProfile is what any signed-in user may see about another account.
type PublicProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Service implements account and card rules on top of a Repository.
type Service struct {
	repo       Repository
	providers  *Providers
	bcryptCost int
	cipher     *secrets.Cipher
	log        *slog.Logger
}

type ServiceOption func(*Service)

// WithBcryptCost sets the bcrypt work factor. Out of range values are ignored.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// WithProviders replaces the default card provider catalog.
func WithProviders(p *Providers) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.providers = p
		}
	}
}

// WithCardCipher encrypts card numbers before they reach the repository.
// Without it numbers are stored as entered.
func WithCardCipher(c *secrets.Cipher) ServiceOption {
	return func(s *Service) {
		s.cipher = c
	}
}

func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a Service backed by repo.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:       repo,
		providers:  DefaultProviders(),
		bcryptCost: bcrypt.DefaultCost,
		log:        logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account. The returned user has an empty card list.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	name := cleanText(in.Name)
	email := sanitizer.NormalizeEmail(in.Email)

	if err := validator.Apply(
		validator.Required("password", in.Password).WithMessage("password is required"),
		validator.Required("email", email).WithMessage("email is required"),
		validator.Required("name", name).WithMessage("name is required"),
		validator.ValidEmail("email", email).WithMessage("email is invalid"),
		validator.Check("password", len(in.Password) <= maxPasswordBytes, "password is too long"),
	); err != nil {
		return User{}, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, err
		}
		return User{}, fmt.Errorf("creating user: %w", err)
	}
	user.Cards = []Card{}

	s.log.InfoContext(ctx, "user registered", logger.UserID(user.ID), logger.Component("account"))
	return user, nil
}

// Login resolves the account for in.Email with its cards. The password is
// checked unless current already identifies that same account.
func (s *Service) Login(ctx context.Context, in LoginInput, current *int64) (User, error) {
	email := sanitizer.NormalizeEmail(in.Email)

	if err := validator.Apply(
		validator.Required("email", email).WithMessage("email is required"),
		validator.Required("password", in.Password).WithMessage("password is required"),
	); err != nil {
		return User{}, err
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}

	if current == nil || *current != user.ID {
		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(in.Password)); err != nil {
			s.log.DebugContext(ctx, "login rejected", logger.UserID(user.ID), logger.Component("account"))
			return User{}, ErrInvalidCredentials
		}
	}

	return s.withCards(ctx, user)
}

// Profile returns the user with their cards.
func (s *Service) Profile(ctx context.Context, id int64) (User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	return s.withCards(ctx, user)
}

// PublicProfile returns the name and a masked email of any account.
func (s *Service) PublicProfile(ctx context.Context, id int64) (PublicProfile, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return PublicProfile{}, err
	}
	return PublicProfile{Name: user.Name, Email: sanitizer.MaskEmail(user.Email, 2, 2)}, nil
}

// DeleteUser removes the caller's own account and cards.
func (s *Service) DeleteUser(ctx context.Context, actor, id int64) error {
	if actor != id {
		return ErrForbidden
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user deleted", logger.UserID(id), logger.Component("account"))
	return nil
}

// ListCards returns summaries of the owner's cards.
func (s *Service) ListCards(ctx context.Context, actor, owner int64) ([]CardSummary, error) {
	if actor != owner {
		return nil, ErrForbidden
	}
	if _, err := s.repo.GetUser(ctx, owner); err != nil {
		return nil, err
	}

	cards, err := s.repo.ListCards(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	out := make([]CardSummary, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Summary())
	}
	return out, nil
}

// GetCard returns one of the owner's cards. Cards of other owners are reported as missing.
func (s *Service) GetCard(ctx context.Context, actor, owner, cardID int64) (Card, error) {
	if actor != owner {
		return Card{}, ErrForbidden
	}
	card, err := s.repo.GetCard(ctx, cardID)
	if err != nil {
		return Card{}, err
	}
	if card.OwnerID != owner {
		return Card{}, ErrCardNotFound
	}
	return s.openCard(card)
}

// AddCard validates in and stores a card for owner.
func (s *Service) AddCard(ctx context.Context, actor, owner int64, in CardInput) (Card, error) {
	if actor != owner {
		return Card{}, ErrForbidden
	}

	name := cleanText(in.Name)
	title := cleanText(in.Title)
	number := sanitizer.NormalizeCardNumber(string(in.CardNumber))
	provider, known := s.providers.Canonical(in.Provider)

	if err := validator.Apply(
		validator.Required("name", name).WithMessage("name cannot be empty"),
		validator.Required("title", title).WithMessage("label cannot be empty"),
		validator.Check("provider", known, "please select a provider"),
		validator.Required("card_number", number).WithMessage("card number cannot be empty"),
		validator.Check("card_number", number == "" || validator.Digits("card_number", number).Check(), "card number must contain digits only"),
		validator.MinNum("balance", in.Balance, 0).WithMessage("balance cannot be negative"),
	); err != nil {
		return Card{}, err
	}

	stored, err := s.sealNumber(owner, number)
	if err != nil {
		return Card{}, err
	}

	card, err := s.repo.CreateCard(ctx, Card{
		OwnerID:    owner,
		Title:      title,
		Provider:   provider,
		Name:       name,
		CardNumber: CardNumber(stored),
		Balance:    in.Balance,
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Card{}, err
		}
		return Card{}, fmt.Errorf("creating card: %w", err)
	}
	card.CardNumber = CardNumber(number)

	s.log.InfoContext(ctx, "card added",
		logger.UserID(owner),
		slog.Int64("card_id", card.ID),
		slog.String("card", sanitizer.MaskCardNumber(number)),
		logger.Component("account"),
	)
	return card, nil
}

func (s *Service) withCards(ctx context.Context, user User) (User, error) {
	cards, err := s.repo.ListCards(ctx, user.ID)
	if err != nil {
		return User{}, fmt.Errorf("listing cards: %w", err)
	}
	for i := range cards {
		if cards[i], err = s.openCard(cards[i]); err != nil {
			return User{}, err
		}
	}
	user.Cards = cards
	return user, nil
}

func ownerScope(owner int64) string {
	return "card-owner:" + strconv.FormatInt(owner, 10)
}

func (s *Service) sealNumber(owner int64, number string) (string, error) {
	if s.cipher == nil {
		return number, nil
	}
	enc, err := s.cipher.Encrypt(ownerScope(owner), number)
	if err != nil {
		return "", fmt.Errorf("encrypting card number: %w", err)
	}
	return enc, nil
}

func (s *Service) openCard(card Card) (Card, error) {
	if s.cipher == nil {
		return card, nil
	}
	plain, err := s.cipher.Decrypt(ownerScope(card.OwnerID), string(card.CardNumber))
	if err != nil {
		return Card{}, fmt.Errorf("decrypting card %d: %w", card.ID, err)
	}
	card.CardNumber = CardNumber(plain)
	return card, nil
}
