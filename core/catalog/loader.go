package catalog

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
)

// States
const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

type (
	State string

	// CampService is the part of camp.Service the Loader relies on.
	CampService interface {
		QueryAll(ctx context.Context) ([]camp.Camp, error)
		Create(ctx context.Context, nc camp.NewCamp) (camp.Camp, error)
		Subscribe(onChange func()) (camp.Subscription, error)
	}

	// Snapshot is a copy of the loader state.
	Snapshot struct {
		State State       `json:"state"`
		Error string      `json:"error,omitempty"`
		Camps []camp.Camp `json:"-"`
	}

	// Loader owns the loaded catalog.
	// Every reload is a full fetch and a full replace; overlapping reload requests are coalesced
	// into the running fetch plus exactly one follow-up.
	Loader struct {
		svc    CampService
		logger core.Logger

		mu        sync.Mutex
		state     State
		lastErr   error
		camps     []camp.Camp
		inFlight  bool
		pending   bool
		observers map[int]func()
		nextObs   int
	}
)

func NewLoader(svc CampService, logger core.Logger) *Loader {
	return &Loader{
		svc:       svc,
		logger:    logger,
		state:     StateLoading,
		observers: make(map[int]func()),
	}
}

// Reload fetches the whole catalog and replaces the snapshot.
// When a reload is already running, Reload schedules one follow-up and returns nil at once.
// The fetches run detached from ctx: a caller that stops waiting gets ctx.Err() while the
// running fetch and its follow-up still complete.
// Failures are not retried; the loader switches to StateError and keeps the last loaded camps.
func (l *Loader) Reload(ctx context.Context) error {
	l.mu.Lock()
	if l.inFlight {
		l.pending = true
		l.mu.Unlock()
		return nil
	}
	l.inFlight = true
	if l.lastErr != nil {
		l.state = StateLoading
	}
	l.mu.Unlock()

	result := make(chan error, 1)
	go func() {
		result <- l.fetch(context.WithoutCancel(ctx))
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fetch runs until no follow-up is pending and returns the outcome of the last fetch.
func (l *Loader) fetch(ctx context.Context) error {
	for {
		camps, err := l.svc.QueryAll(ctx)

		l.mu.Lock()
		if err != nil {
			l.state = StateError
			l.lastErr = err
		} else {
			l.state = StateReady
			l.lastErr = nil
			l.camps = camps
		}
		again := l.pending
		l.pending = false
		if !again {
			l.inFlight = false
		}
		observers := l.observerList()
		l.mu.Unlock()

		if err != nil {
			l.logger.Error("failed to load camps", err)
		}
		for _, fn := range observers {
			fn()
		}
		if !again {
			return err
		}
	}
}

// Watch loads the catalog and reloads it on every store change notification until the
// returned subscription is stopped or ctx is done.
// The initial load error, if any, is returned alongside a live subscription.
func (l *Loader) Watch(ctx context.Context) (camp.Subscription, error) {
	sub, err := l.svc.Subscribe(func() {
		if ctx.Err() != nil {
			return
		}
		l.logger.Debug("camps data changed, reloading...")
		_ = l.Reload(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "subscribing to camp changes")
	}
	return sub, l.Reload(ctx)
}

// Add validates and stores a custom camp. The snapshot only grows once the store confirms.
// The stored camp is appended last, so category order is only restored by the next reload.
func (l *Loader) Add(ctx context.Context, validate *validator.Validate, nc camp.NewCamp) (camp.Camp, error) {
	if err := nc.Validate(validate); err != nil {
		return camp.Camp{}, err
	}
	c, err := l.svc.Create(ctx, nc)
	if err != nil {
		l.logger.Error("failed to add camp", err)
		return camp.Camp{}, err
	}

	l.mu.Lock()
	if _, found := l.find(c.ID); !found {
		l.camps = append(l.camps, c)
	}
	l.mu.Unlock()
	return c, nil
}

// Remove drops a camp from the snapshot, eg. after it was deleted from the store.
func (l *Loader) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := make([]camp.Camp, 0, len(l.camps))
	for _, c := range l.camps {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	l.camps = kept
}

func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := Snapshot{
		State: l.state,
		Camps: append([]camp.Camp(nil), l.camps...),
	}
	if l.lastErr != nil {
		snap.Error = l.lastErr.Error()
	}
	return snap
}

// Camps returns the loaded camps of the given category.
func (l *Loader) Camps(category camp.Category) []camp.Camp {
	return camp.FilterByCategory(l.Snapshot().Camps, category)
}

func (l *Loader) Find(id string) (camp.Camp, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.find(id)
}

// OnReload registers fn to be called after every completed reload; the returned func unregisters it.
func (l *Loader) OnReload(fn func()) func() {
	l.mu.Lock()
	id := l.nextObs
	l.nextObs++
	l.observers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.observers, id)
		l.mu.Unlock()
	}
}

// caller must hold l.mu
func (l *Loader) find(id string) (camp.Camp, bool) {
	for _, c := range l.camps {
		if c.ID == id {
			return c, true
		}
	}
	return camp.Camp{}, false
}

// caller must hold l.mu
func (l *Loader) observerList() []func() {
	fns := make([]func(), 0, len(l.observers))
	for _, fn := range l.observers {
		fns = append(fns, fn)
	}
	return fns
}
