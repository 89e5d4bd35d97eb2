package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/posters/internal/logging"
	"github.com/five82/posters/internal/posters"
)

// ErrEmptyID is returned by FetchByID when no identifier was given.
var ErrEmptyID = errors.New("wallpaper id is empty")

// Source is the paged and single-item fetch capability the pager drives.
type Source interface {
	FetchPage(ctx context.Context, page int) ([]posters.Wallpaper, error)
	FetchWallpaper(ctx context.Context, id string) (posters.Wallpaper, error)
}

// Status is the paged-load condition.
type Status int

const (
	StatusIdle Status = iota
	StatusLoadingInitial
	StatusLoadingMore
	StatusEndReached
)

func (s Status) String() string {
	switch s {
	case StatusLoadingInitial:
		return "loading"
	case StatusLoadingMore:
		return "loading more"
	case StatusEndReached:
		return "end reached"
	default:
		return "idle"
	}
}

// Snapshot represents the pager state handed to observers.
type Snapshot struct {
	Items               []posters.Wallpaper
	Status              Status
	Err                 error // last paged-load failure, cleared by the next success
	Cursor              int   // next page to request
	DeepLink            *posters.Wallpaper
	DeepLinkErr         error
	DeepLinkSeq         uint64 // bumped every time the slot is filled
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// Loading reports whether a page fetch is in flight.
func (s Snapshot) Loading() bool {
	return s.Status == StatusLoadingInitial || s.Status == StatusLoadingMore
}

// EndReached reports whether the source has no more pages.
func (s Snapshot) EndReached() bool {
	return s.Status == StatusEndReached
}

// IsOffline returns true when the backend has failed several loads in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// ErrorMessage returns the user-facing text for the last paged-load failure.
func (s Snapshot) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return "Error: " + s.Err.Error()
}

// Pager owns the fetched page sequence, its load state, and the deep-link slot.
type Pager struct {
	src Source
	log zerolog.Logger

	mu       sync.RWMutex
	snapshot Snapshot

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// Option customizes a Pager.
type Option func(*Pager)

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pager) { p.log = l }
}

// NewPager creates an idle pager at cursor 0 backed by src.
func NewPager(src Source, opts ...Option) *Pager {
	p := &Pager{
		src:  src,
		log:  logging.NewLogger("pager"),
		subs: make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadNextPage fetches the page at the cursor and folds the result into state.
// It is a no-op returning false while a fetch is in flight or once the end is
// reached. Otherwise it blocks until the fetch completes and returns true.
//
// A cancelled ctx returns the pager to idle without recording an error.
func (p *Pager) LoadNextPage(ctx context.Context) bool {
	p.mu.Lock()
	if p.snapshot.Loading() || p.snapshot.EndReached() {
		p.mu.Unlock()
		return false
	}
	cursor := p.snapshot.Cursor
	if cursor == 0 {
		p.snapshot.Status = StatusLoadingInitial
	} else {
		p.snapshot.Status = StatusLoadingMore
	}
	p.mu.Unlock()
	p.notify()

	start := time.Now()
	items, err := p.src.FetchPage(ctx, cursor)
	loadDuration.Observe(time.Since(start).Seconds())

	p.mu.Lock()
	p.snapshot.Status = StatusIdle
	p.snapshot.LastUpdated = time.Now()
	switch {
	case err != nil && ctx.Err() != nil:
		pageLoads.WithLabelValues("cancelled").Inc()
		p.log.Debug().Int("page", cursor).Msg("page load cancelled")
	case err != nil:
		p.snapshot.Err = err
		p.snapshot.ConsecutiveFailures++
		pageLoads.WithLabelValues("error").Inc()
		p.log.Error().Err(err).Int("page", cursor).Str("error_class", string(posters.ClassOf(err))).Msg("failed to load page")
	case len(items) == 0:
		p.snapshot.Status = StatusEndReached
		p.snapshot.Err = nil
		p.snapshot.ConsecutiveFailures = 0
		pageLoads.WithLabelValues("end").Inc()
		p.log.Info().Int("page", cursor).Int("total", len(p.snapshot.Items)).Msg("end of collection reached")
	default:
		p.snapshot.Items = append(p.snapshot.Items, items...)
		p.snapshot.Cursor = cursor + 1
		p.snapshot.Err = nil
		p.snapshot.ConsecutiveFailures = 0
		pageLoads.WithLabelValues("ok").Inc()
		loadedItems.Set(float64(len(p.snapshot.Items)))
		p.log.Debug().Int("page", cursor).Int("count", len(items)).Msg("page loaded")
	}
	p.mu.Unlock()
	p.notify()
	return true
}

// FetchByID resolves a single wallpaper out of band and stores it in the
// deep-link slot, overwriting any unconsumed value. Failures never touch the
// paged load state; they are logged, returned, and exposed as DeepLinkErr.
func (p *Pager) FetchByID(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyID
	}

	p.log.Debug().Str("id", id).Msg("resolving deep link")
	wp, err := p.src.FetchWallpaper(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		deepLinks.WithLabelValues("error").Inc()
		p.log.Error().Err(err).Str("id", id).Msg("failed to fetch deep-linked wallpaper")
		p.mu.Lock()
		p.snapshot.DeepLinkErr = fmt.Errorf("open wallpaper %s: %w", id, err)
		p.snapshot.DeepLinkSeq++
		p.mu.Unlock()
		p.notify()
		return err
	}

	deepLinks.WithLabelValues("ok").Inc()
	p.log.Info().Str("id", id).Str("name", wp.Name).Msg("deep link resolved")
	p.mu.Lock()
	p.snapshot.DeepLink = &wp
	p.snapshot.DeepLinkErr = nil
	p.snapshot.DeepLinkSeq++
	p.mu.Unlock()
	p.notify()
	return nil
}

// ClearDeepLink empties the deep-link slot and its error. It is idempotent.
func (p *Pager) ClearDeepLink() {
	p.clearDeepLink(func(Snapshot) bool { return true })
}

// ConsumeDeepLink empties the slot only if it still holds the value observed
// in a snapshot carrying seq, so a link that lands after that snapshot is
// kept for the next one. It reports whether the slot was cleared.
func (p *Pager) ConsumeDeepLink(seq uint64) bool {
	return p.clearDeepLink(func(s Snapshot) bool { return s.DeepLinkSeq == seq })
}

func (p *Pager) clearDeepLink(match func(Snapshot) bool) bool {
	p.mu.Lock()
	if (p.snapshot.DeepLink == nil && p.snapshot.DeepLinkErr == nil) || !match(p.snapshot) {
		p.mu.Unlock()
		return false
	}
	p.snapshot.DeepLink = nil
	p.snapshot.DeepLinkErr = nil
	p.mu.Unlock()
	p.notify()
	return true
}

// Snapshot returns a copy of the current state.
func (p *Pager) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := p.snapshot
	snap.Items = cloneItems(p.snapshot.Items)
	if p.snapshot.DeepLink != nil {
		dl := *p.snapshot.DeepLink
		snap.DeepLink = &dl
	}
	return snap
}

// Subscribe returns a channel that receives a value after every state change,
// and a func that unsubscribes it. Notifications coalesce: a slow reader sees
// at most one pending signal and should read Snapshot when woken.
func (p *Pager) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	p.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.subMu.Lock()
			delete(p.subs, id)
			p.subMu.Unlock()
		})
	}
}

func (p *Pager) notify() {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func cloneItems(items []posters.Wallpaper) []posters.Wallpaper {
	if len(items) == 0 {
		return nil
	}
	dup := make([]posters.Wallpaper, len(items))
	copy(dup, items)
	return dup
}
