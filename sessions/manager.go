package sessions

import (
	"context"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/blake2b"

	"github.com/secondbloom/admin-dashboard/sessions/storage"
)

// StorageKeyPrefix namespaces session entries in the durable store
const StorageKeyPrefix = "auth-storage:"

// Manager opens the Store belonging to the browser behind a request
type Manager struct {
	repo   storage.Repo
	policy CookiePolicy
	newKey func() string
}

func NewManager(repo storage.Repo, policy CookiePolicy) *Manager {
	return &Manager{
		repo:   repo,
		policy: policy,
		newKey: uuid.NewString,
	}
}

// Open builds the request's store and rehydrates it. A browser without a store-key
// cookie gets a fresh key, which is only written out once the store is saved.
func (m *Manager) Open(w http.ResponseWriter, r *http.Request) *Store {
	key := strings.TrimSpace(cookieValue(r, StoreKeyCookie))
	if key == "" {
		key = m.newKey()
	}
	store := m.build(w, r, key)
	store.Initialize(r.Context())
	return store
}

// OpenFresh returns an empty store under a newly issued key and deletes the entry
// behind any key the browser presented. Sign-in uses it so a store key set before
// login never carries over.
func (m *Manager) OpenFresh(w http.ResponseWriter, r *http.Request) *Store {
	if old := strings.TrimSpace(cookieValue(r, StoreKeyCookie)); old != "" {
		if err := m.repo.Delete(r.Context(), StorageKey(old)); err != nil {
			log.Err(err).Msg("unable to delete previous session entry")
		}
	}
	return m.build(w, r, m.newKey())
}

func (m *Manager) build(w http.ResponseWriter, r *http.Request, key string) *Store {
	secure := IsSecureRequest(r)

	return NewStore(Sinks{
		Source: StorageSink{
			Repo: m.repo,
			Key:  StorageKey(key),
			TTL:  m.policy.RefreshTokenMaxAge,
		},
		Mirrors: []Sink{
			CookieSink{W: w, Secure: secure, Policy: m.policy},
			StoreKeyCookieSink{W: w, Key: key, Secure: secure, MaxAge: m.policy.StoreKeyMaxAge},
		},
	})
}

// StorageKey maps a store key to its durable entry key. The raw cookie value is never stored.
func StorageKey(storeKey string) string {
	if storeKey == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(storeKey))
	return StorageKeyPrefix + hex.EncodeToString(sum[:])
}

type storeContextKey struct{}

// WithStore returns a context carrying the store
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, s)
}

// FromContext returns the store put there by the render-time gate
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(storeContextKey{}).(*Store)
	return s, ok && s != nil
}
