package sale

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDraftTTL is how long an untouched draft survives.
const DefaultDraftTTL = 30 * time.Minute

// Draft is a composer kept between HTTP requests.
type Draft struct {
	ID        string
	Composer  *Composer
	CreatedAt time.Time
	touchedAt time.Time
}

// Registry holds open checkout drafts.
type Registry struct {
	mu        sync.Mutex
	drafts    map[string]*Draft
	ttl       time.Duration
	completer Completer
	now       func() time.Time
}

func NewRegistry(completer Completer, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &Registry{
		drafts:    make(map[string]*Draft),
		ttl:       ttl,
		completer: completer,
		now:       time.Now,
	}
}

// Create opens a new draft in SelectingProduct.
func (r *Registry) Create() *Draft {
	now := r.now()
	d := &Draft{
		ID:        uuid.NewString(),
		Composer:  NewComposer(r.completer),
		CreatedAt: now,
		touchedAt: now,
	}
	r.mu.Lock()
	r.drafts[d.ID] = d
	r.mu.Unlock()
	return d
}

// Get returns the draft and marks it used.
func (r *Registry) Get(id string) (*Draft, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if ok {
		d.touchedAt = r.now()
	}
	return d, ok
}

// Remove drops the draft.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.drafts, id)
	r.mu.Unlock()
}

// Len is the number of open drafts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

// Sweep removes drafts idle longer than the TTL. Drafts with a confirmation
// in flight are kept.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, d := range r.drafts {
		if d.touchedAt.Before(cutoff) && !d.Composer.InFlight() {
			delete(r.drafts, id)
			removed++
		}
	}
	return removed
}
