package panel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fragboard/internal/logging"
)

// StopReason distinguishes why a watcher was told to stop without firing,
// so a superseded watcher does not also force a home reset.
type StopReason string

const (
	StopSuperseded StopReason = "superseded"
	StopShutdown   StopReason = "shutdown"
)

// resetTimeout bounds the forced re-render when a watcher fires.
const resetTimeout = 30 * time.Second

// Watcher is one armed inactivity timer. It either fires, after the idle
// duration passes with no reset, or is stopped with a reason.
type Watcher struct {
	id   uuid.UUID
	idle time.Duration

	resets chan struct{}
	stops  chan StopReason
	done   chan struct{}

	// reason is set before done is closed and read only afterwards.
	reason StopReason
}

func newWatcher(idle time.Duration) *Watcher {
	return &Watcher{
		id:     uuid.New(),
		idle:   idle,
		resets: make(chan struct{}, 1),
		stops:  make(chan StopReason, 1),
		done:   make(chan struct{}),
	}
}

func (w *Watcher) ID() string { return w.id.String() }

// Reset restarts the idle timer. Multiple resets between timer ticks
// coalesce.
func (w *Watcher) Reset() {
	select {
	case w.resets <- struct{}{}:
	default:
	}
}

// Stop tells the watcher to end without firing. Only the first reason wins;
// stopping an already-finished watcher is a no-op.
func (w *Watcher) Stop(reason StopReason) {
	select {
	case w.stops <- reason:
	default:
	}
}

// Done is closed once the watcher has fully wound down.
func (w *Watcher) Done() <-chan struct{} { return w.done }

// run blocks until the watcher fires (returns true) or is stopped (returns
// false).
func (w *Watcher) run() bool {
	defer close(w.done)

	timer := time.NewTimer(w.idle)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			return true
		case <-w.resets:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.idle)
		case reason := <-w.stops:
			w.reason = reason
			return false
		}
	}
}

// Supervisor owns the panel's inactivity watcher: a two-state machine that
// is Armed whenever a watcher is running and only briefly Stopped while a
// replacement is installed. When a watcher fires, the supervisor forces the
// panel back to the home view and immediately re-arms; it never permanently
// stops on its own.
type Supervisor struct {
	mu      sync.Mutex
	current *Watcher
	down    bool

	idle   time.Duration
	onIdle func(ctx context.Context) error
	logger logging.Interface
}

type SupervisorOptions struct {
	// Idle is the duration without qualifying interactions after which the
	// panel resets.
	Idle time.Duration
	// OnIdle forces the panel back to its default view.
	OnIdle func(ctx context.Context) error
	Logger logging.Interface
}

func NewSupervisor(opts SupervisorOptions) *Supervisor {
	return &Supervisor{
		idle:   opts.Idle,
		onIdle: opts.OnIdle,
		logger: opts.Logger,
	}
}

// Install arms a fresh watcher, first stopping and awaiting any existing one
// so that at most one armed watcher exists at any time.
func (s *Supervisor) Install() *Watcher {
	s.mu.Lock()
	old := s.current
	s.current = nil
	s.mu.Unlock()

	if old != nil {
		old.Stop(StopSuperseded)
		<-old.Done()
	}

	w := newWatcher(s.idle)
	s.mu.Lock()
	if s.down {
		s.mu.Unlock()
		close(w.done)
		return w
	}
	s.current = w
	s.mu.Unlock()

	s.logger.Debug("armed inactivity watcher", "watcher", w.ID(), "idle", s.idle)
	go s.watch(w)
	return w
}

// Reset restarts the current watcher's idle timer, if one is armed.
func (s *Supervisor) Reset() {
	s.mu.Lock()
	w := s.current
	s.mu.Unlock()
	if w != nil {
		w.Reset()
	}
}

// Armed returns the currently armed watcher, or nil.
func (s *Supervisor) Armed() *Watcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Stop winds the supervisor down for process shutdown. No watcher survives
// and none is re-armed.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	s.down = true
	old := s.current
	s.current = nil
	s.mu.Unlock()

	if old != nil {
		old.Stop(StopShutdown)
		<-old.Done()
	}
}

func (s *Supervisor) watch(w *Watcher) {
	if !w.run() {
		s.logger.Debug("inactivity watcher stopped", "watcher", w.ID(), "reason", w.reason)
		return
	}

	s.logger.Info("panel idle, resetting to home view", "watcher", w.ID())

	// The forced re-render is best effort: a failure (e.g. a surface that no
	// longer exists) must not prevent re-arming.
	ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
	defer cancel()
	if err := s.onIdle(ctx); err != nil {
		s.logger.Error("resetting idle panel", "error", err, "watcher", w.ID())
	}

	s.mu.Lock()
	down := s.down
	s.mu.Unlock()
	if !down {
		s.Install()
	}
}
