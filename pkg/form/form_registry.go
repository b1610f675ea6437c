package form

import (
	"context"
	"sync"
	"time"

	"zipli-backend/domain"
	"zipli-backend/pkg/gateway"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jellydator/ttlcache/v3"
)

const (
	DefaultIdleTimeout = 30 * time.Minute
	MaxFormsPerUser    = 10
)

// Registry keeps the open forms of every user in memory. Nothing here is
// persisted: a form nobody has looked up for the idle timeout is dropped.
type Registry struct {
	// mu makes the per-user count and the insert in Open one step.
	mu         sync.Mutex
	cache      *ttlcache.Cache[string, *Form]
	gateway    gateway.Gateway
	maxPerUser int
}

func NewRegistry(gw gateway.Gateway, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	cache := ttlcache.New[string, *Form](
		ttlcache.WithTTL[string, *Form](idle),
	)
	cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *Form]) {
		if reason == ttlcache.EvictionReasonExpired {
			log.Infof("dropped idle %s form %s", item.Value().Kind(), item.Key())
		}
	})

	return &Registry{
		cache:      cache,
		gateway:    gw,
		maxPerUser: MaxFormsPerUser,
	}
}

func (r *Registry) Open(userID string, kind domain.FormKind) (*Form, error) {
	f, err := New(kind, userID, r.gateway)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.openBy(userID) >= r.maxPerUser {
		return nil, domain.ErrTooManyForms
	}
	r.cache.Set(f.ID(), f, ttlcache.DefaultTTL)
	return f, nil
}

// openBy counts the live forms of userID. Callers hold mu.
func (r *Registry) openBy(userID string) int {
	n := 0
	for _, item := range r.cache.Items() {
		if !item.IsExpired() && item.Value().UserID() == userID {
			n++
		}
	}
	return n
}

// Get returns the form only to the user who opened it. A hit restarts
// the form's idle timer.
func (r *Registry) Get(userID, id string) (*Form, error) {
	item := r.cache.Get(id)
	if item == nil || item.Value().UserID() != userID {
		return nil, domain.ErrFormNotFound
	}
	return item.Value(), nil
}

func (r *Registry) Discard(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.cache.Get(id, ttlcache.WithDisableTouchOnHit[string, *Form]())
	if item == nil || item.Value().UserID() != userID {
		return domain.ErrFormNotFound
	}
	r.cache.Delete(id)
	return nil
}

func (r *Registry) Len() int {
	return r.cache.Len()
}

// Run evicts idle forms as they expire until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	go r.cache.Start()
	<-ctx.Done()
	r.cache.Stop()
}
