package study

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Registry keeps one [Controller] per browser session.
type Registry struct {
	newController func() *Controller
	logger        *slog.Logger

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewRegistry(newController func() *Controller, logger *slog.Logger) *Registry {
	return &Registry{
		newController: newController,
		logger:        logger.With("source", "study.Registry"),
		mu:            sync.Mutex{},
		controllers:   map[string]*Controller{},
	}
}

// Get returns the controller of session id, creating it on first use.
func (r *Registry) Get(id string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[id]
	if !ok {
		c = r.newController()
		r.controllers[id] = c
	}
	// Touched under r.mu so that evictIdle cannot remove a controller that is being handed out.
	c.touch()
	return c
}

// Remove abandons any in-flight request of session id and forgets the controller. The next [Registry.Get] starts
// the session over from Idle.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	c, ok := r.controllers[id]
	delete(r.controllers, id)
	r.mu.Unlock()
	if ok {
		c.Reset()
	}
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// evictIdle removes the controllers that have not been used since before cutoff and returns how many were removed.
func (r *Registry) evictIdle(cutoff time.Time) int {
	var evicted []*Controller
	r.mu.Lock()
	for id, c := range r.controllers {
		if c.idleSince().Before(cutoff) {
			evicted = append(evicted, c)
			delete(r.controllers, id)
		}
	}
	r.mu.Unlock()
	for _, c := range evicted {
		c.Reset()
	}
	return len(evicted)
}

// StartEvictor removes controllers idle for longer than idleTTL every interval until ctx is done.
func (r *Registry) StartEvictor(ctx context.Context, idleTTL, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.evictIdle(now.Add(-idleTTL)); n > 0 {
				r.logger.LogAttrs(ctx, slog.LevelInfo, "evicted idle study sessions",
					slog.Int("evicted", n), slog.Int("remaining", r.Len()))
			}
		}
	}
}
