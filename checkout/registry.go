package checkout

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("checkout not found")

const (
	idleTTL       = 30 * time.Minute
	sweepInterval = time.Minute
)

// Registry holds the live checkout workflows, keyed by id. A checkout lives
// until it is explicitly closed or it sits untouched past the idle TTL;
// the sweeper reclaims abandoned workflows so their subscription and ticker
// are not leaked.
type Registry struct {
	mu        sync.Mutex
	workflows map[uuid.UUID]*Workflow

	done      chan struct{}
	closeOnce sync.Once
}

func NewRegistry() *Registry {
	r := &Registry{
		workflows: make(map[uuid.UUID]*Workflow),
		done:      make(chan struct{}),
	}
	go r.sweep()
	return r
}

// Open starts the workflow and tracks it.
func (r *Registry) Open(w *Workflow) {
	w.Start()
	r.mu.Lock()
	r.workflows[w.ID()] = w
	r.mu.Unlock()
}

func (r *Registry) Get(id uuid.UUID) (*Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workflows[id]
	if !ok {
		return nil, ErrNotFound
	}
	w.touch()
	return w, nil
}

// Close releases the workflow's subscription and ticker and forgets it.
func (r *Registry) Close(id uuid.UUID) {
	r.mu.Lock()
	w, ok := r.workflows[id]
	delete(r.workflows, id)
	r.mu.Unlock()
	if ok {
		w.Close()
	}
}

// Shutdown stops the sweeper and closes every remaining workflow.
func (r *Registry) Shutdown() {
	r.closeOnce.Do(func() { close(r.done) })

	r.mu.Lock()
	remaining := make([]*Workflow, 0, len(r.workflows))
	for id, w := range r.workflows {
		delete(r.workflows, id)
		remaining = append(remaining, w)
	}
	r.mu.Unlock()

	for _, w := range remaining {
		w.Close()
	}
}

func (r *Registry) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.expire(time.Now().Add(-idleTTL))
		}
	}
}

// expire closes every workflow last touched before the cutoff.
func (r *Registry) expire(cutoff time.Time) {
	r.mu.Lock()
	var expired []*Workflow
	for id, w := range r.workflows {
		if w.lastTouched().Before(cutoff) {
			delete(r.workflows, id)
			expired = append(expired, w)
		}
	}
	r.mu.Unlock()

	for _, w := range expired {
		logrus.Debugf("reclaiming idle checkout %s", w.ID())
		w.Close()
	}
}
