package account

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepository keeps users and cards in process memory.
type MemoryRepository struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      map[int64]User
	emails     map[string]int64
	cards      map[int64]Card
	nextUserID int64
	nextCardID int64
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:    time.Now,
		users:  make(map[int64]User),
		emails: make(map[string]int64),
		cards:  make(map[int64]Card),
	}
}

func (m *MemoryRepository) CreateUser(_ context.Context, user User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.emails[user.Email]; taken {
		return User{}, ErrEmailTaken
	}

	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = m.now().UTC()
	user.Cards = nil
	user.PasswordHash = slices.Clone(user.PasswordHash)

	m.users[user.ID] = user
	m.emails[user.Email] = user.ID
	return user, nil
}

func (m *MemoryRepository) GetUser(_ context.Context, id int64) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (m *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	m.mu.RLock()
	id, ok := m.emails[email]
	m.mu.RUnlock()
	if !ok {
		return User{}, ErrUserNotFound
	}
	return m.GetUser(ctx, id)
}

func (m *MemoryRepository) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	delete(m.emails, user.Email)
	for cid, card := range m.cards {
		if card.OwnerID == id {
			delete(m.cards, cid)
		}
	}
	return nil
}

func (m *MemoryRepository) CreateCard(_ context.Context, card Card) (Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[card.OwnerID]; !ok {
		return Card{}, ErrUserNotFound
	}

	m.nextCardID++
	card.ID = m.nextCardID
	card.CreatedAt = m.now().UTC()
	m.cards[card.ID] = card
	return card, nil
}

func (m *MemoryRepository) GetCard(_ context.Context, id int64) (Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	card, ok := m.cards[id]
	if !ok {
		return Card{}, ErrCardNotFound
	}
	return card, nil
}

func (m *MemoryRepository) ListCards(_ context.Context, ownerID int64) ([]Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cards := []Card{}
	for _, card := range m.cards {
		if card.OwnerID == ownerID {
			cards = append(cards, card)
		}
	}
	slices.SortFunc(cards, func(a, b Card) int { return cmp.Compare(a.ID, b.ID) })
	return cards, nil
}
