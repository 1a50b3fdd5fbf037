package terminal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/checkout"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/pkg/debounce"
	"github.com/sangkips/pos-terminal/pkg/metrics"
	log "github.com/sirupsen/logrus"
)

// Terminal is one logged-in operator: the backend session, the checkout in
// progress and the per-terminal search debouncer. Do serializes every
// mutation of the checkout. The caches have their own lock and may be used
// from inside Do.
type Terminal struct {
	ID    uuid.UUID
	Email string

	mu       sync.Mutex
	remote   entity.SessionContext
	checkout *checkout.Session
	search   *debounce.Debouncer

	cacheMu   sync.Mutex
	catalog   []entity.Product
	catalogAt time.Time
	customers map[string]entity.Customer

	seenMu   sync.Mutex
	lastSeen time.Time
}

// Do runs fn with exclusive access to the checkout session
func (t *Terminal) Do(fn func(s *checkout.Session) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.checkout)
}

// Backend returns a copy of the backend session context
func (t *Terminal) Backend() *entity.SessionContext {
	sess := t.remote
	return &sess
}

// Search is the debouncer customer lookups wait on
func (t *Terminal) Search() *debounce.Debouncer {
	return t.search
}

// CachedCatalog returns the last loaded catalog if it is younger than ttl.
// A ttl of zero or less never expires.
func (t *Terminal) CachedCatalog(ttl time.Duration) ([]entity.Product, bool) {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	if t.catalog == nil {
		return nil, false
	}
	if ttl > 0 && time.Since(t.catalogAt) > ttl {
		return nil, false
	}
	return t.catalog, true
}

// StoreCatalog replaces the cached catalog
func (t *Terminal) StoreCatalog(products []entity.Product) {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	t.catalog = products
	t.catalogAt = time.Now()
}

// InvalidateCatalog forces the next read to reload
func (t *Terminal) InvalidateCatalog() {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	t.catalog = nil
}

// RememberCustomers keeps backend search results so a later selection by id
// uses the backend's points balance rather than client-supplied figures.
func (t *Terminal) RememberCustomers(customers ...entity.Customer) {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	if t.customers == nil {
		t.customers = make(map[string]entity.Customer)
	}
	for _, c := range customers {
		if c.ID != "" {
			t.customers[c.ID] = c
		}
		if c.Phone != "" {
			t.customers[c.Phone] = c
		}
	}
}

// RecentCustomer looks up a remembered customer by id or phone
func (t *Terminal) RecentCustomer(ref string) (entity.Customer, bool) {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	c, ok := t.customers[ref]
	return c, ok
}

func (t *Terminal) touch(now time.Time) {
	t.seenMu.Lock()
	t.lastSeen = now
	t.seenMu.Unlock()
}

func (t *Terminal) seen() time.Time {
	t.seenMu.Lock()
	defer t.seenMu.Unlock()
	return t.lastSeen
}

// Config holds configuration for the registry
type Config struct {
	Checkout        checkout.SessionConfig
	SearchDebounce  time.Duration
	IdleTimeout     time.Duration
	CleanupInterval time.Duration

	// OnEvict runs for each terminal the idle sweep removes, outside the
	// registry lock. Used to end the remote session.
	OnEvict func(t *Terminal)
}

// Registry keeps the live terminals by id
type Registry struct {
	terminals map[uuid.UUID]*Terminal
	mu        sync.RWMutex
	cfg       Config
}

// NewRegistry creates an empty registry
func NewRegistry(cfg Config) *Registry {
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = 700 * time.Millisecond
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	return &Registry{
		terminals: make(map[uuid.UUID]*Terminal),
		cfg:       cfg,
	}
}

// Open registers a terminal for a freshly authenticated backend session
func (r *Registry) Open(sess *entity.SessionContext) *Terminal {
	t := &Terminal{
		ID:       uuid.New(),
		Email:    sess.Email,
		remote:   *sess,
		checkout: checkout.NewSession(r.cfg.Checkout),
		search:   debounce.New(r.cfg.SearchDebounce),
	}
	t.touch(time.Now())

	r.mu.Lock()
	r.terminals[t.ID] = t
	n := len(r.terminals)
	r.mu.Unlock()

	metrics.ActiveTerminals.Set(float64(n))
	return t
}

// Get returns the terminal and marks it as seen
func (r *Registry) Get(id uuid.UUID) (*Terminal, bool) {
	r.mu.RLock()
	t, ok := r.terminals[id]
	r.mu.RUnlock()
	if ok {
		t.touch(time.Now())
	}
	return t, ok
}

// Close removes the terminal and stops its debouncer
func (r *Registry) Close(id uuid.UUID) (*Terminal, bool) {
	r.mu.Lock()
	t, ok := r.terminals[id]
	delete(r.terminals, id)
	n := len(r.terminals)
	r.mu.Unlock()

	if ok {
		t.search.Stop()
	}
	metrics.ActiveTerminals.Set(float64(n))
	return t, ok
}

// Len returns the number of live terminals
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.terminals)
}

// Run evicts idle terminals until ctx is done
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.sweep(now)
		}
	}
}

// sweep removes terminals idle for longer than IdleTimeout
func (r *Registry) sweep(now time.Time) int {
	if r.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-r.cfg.IdleTimeout)

	r.mu.Lock()
	var evicted []*Terminal
	for id, t := range r.terminals {
		if t.seen().Before(cutoff) {
			evicted = append(evicted, t)
			delete(r.terminals, id)
		}
	}
	n := len(r.terminals)
	r.mu.Unlock()

	for _, t := range evicted {
		t.search.Stop()
		log.WithFields(log.Fields{"terminal_id": t.ID.String(), "email": t.Email}).Info("terminal session expired")
		if r.cfg.OnEvict != nil {
			r.cfg.OnEvict(t)
		}
	}
	metrics.ActiveTerminals.Set(float64(n))
	return len(evicted)
}
