package account

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/cardvault/pkg/logger"
)

// DefaultProfileTTL bounds how long cached profiles live.
const DefaultProfileTTL = 5 * time.Minute

// Cache is the key/value store behind CachedRepository. *redis.Storage implements it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedRepository serves GetUser from a read-through cache. Deleting a user
// evicts the entry. Cache failures are logged and fall back to the wrapped
// repository.
type CachedRepository struct {
	Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedRepository wraps repo. A non-positive ttl selects DefaultProfileTTL.
func NewCachedRepository(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	if log == nil {
		log = logger.Noop()
	}
	return &CachedRepository{Repository: repo, cache: cache, ttl: ttl, log: log}
}

// cachedUser is the cached form of User. The password hash is never cached.
type cachedUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *CachedRepository) GetUser(ctx context.Context, id int64) (User, error) {
	key := userKey(id)

	if raw, err := c.cache.Get(ctx, key); err != nil {
		c.log.WarnContext(ctx, "profile cache read failed", logger.Error(err), logger.UserID(id))
	} else if raw != nil {
		var cu cachedUser
		if err := json.Unmarshal(raw, &cu); err == nil {
			return userFromCache(cu), nil
		}
		c.log.WarnContext(ctx, "profile cache entry corrupt", logger.UserID(id))
	}

	user, err := c.Repository.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}

	raw, err := json.Marshal(cachedUser{
		ID: user.ID, Name: user.Name, Email: user.Email, CreatedAt: user.CreatedAt,
	})
	if err == nil {
		err = c.cache.Set(ctx, key, raw, c.ttl)
	}
	if err != nil {
		c.log.WarnContext(ctx, "profile cache write failed", logger.Error(err), logger.UserID(id))
	}
	return user, nil
}

func (c *CachedRepository) DeleteUser(ctx context.Context, id int64) error {
	if err := c.Repository.DeleteUser(ctx, id); err != nil {
		return err
	}
	if err := c.cache.Delete(ctx, userKey(id)); err != nil {
		c.log.WarnContext(ctx, "profile cache eviction failed", logger.Error(err), logger.UserID(id))
	}
	return nil
}

func userFromCache(cu cachedUser) User {
	return User{ID: cu.ID, Name: cu.Name, Email: cu.Email, CreatedAt: cu.CreatedAt}
}

func userKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}
