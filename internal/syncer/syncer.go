// Package syncer runs the periodic sync task and fans out connectivity
// transitions. Connectivity is an explicit signal pushed by the caller, not
// something guessed from request failures.
package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SyncFunc performs one sync pass. It must honor the context.
type SyncFunc func(ctx context.Context) error

// Syncer triggers the sync function on a fixed interval while online and
// immediately on reconnect. Listeners registered with OnConnectivityChange
// see every transition, in registration order.
type Syncer struct {
	mu        sync.RWMutex
	syncFn    SyncFunc
	interval  time.Duration
	logger    *slog.Logger
	listeners []func(online bool)
	online    bool

	connectivity chan bool
	cancel       context.CancelFunc
	done         chan struct{}
}

func New(syncFn SyncFunc, interval time.Duration, logger *slog.Logger) *Syncer {
	return &Syncer{
		syncFn:       syncFn,
		interval:     interval,
		logger:       logger.With("component", "syncer"),
		online:       true,
		connectivity: make(chan bool, 8),
	}
}

// OnConnectivityChange registers a listener for online/offline transitions.
// Must be called before Start.
func (s *Syncer) OnConnectivityChange(fn func(online bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// ConnectivityChanged reports a transition. Safe from any goroutine; the
// signal is coalesced through a buffered channel so callers never block.
func (s *Syncer) ConnectivityChanged(online bool) {
	select {
	case s.connectivity <- online:
	default:
		// A full buffer means transitions are already queued; the latest
		// state will be observed when the loop drains them.
	}
}

// Online reports the last observed connectivity state.
func (s *Syncer) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// Start begins the sync loop.
func (s *Syncer) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case online := <-s.connectivity:
				s.transition(ctx, online)
			case <-ticker.C:
				if s.Online() {
					s.run(ctx)
				}
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. A scheduled sync that is
// mid-flight sees its context cancelled.
func (s *Syncer) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Syncer) transition(ctx context.Context, online bool) {
	s.mu.Lock()
	changed := s.online != online
	s.online = online
	listeners := s.listeners
	s.mu.Unlock()

	if !changed {
		return
	}
	s.logger.Info("connectivity changed", "online", online)
	for _, fn := range listeners {
		fn(online)
	}
	if online {
		s.run(ctx)
	}
}

func (s *Syncer) run(ctx context.Context) {
	if s.syncFn == nil {
		return
	}
	if err := s.syncFn(ctx); err != nil {
		s.logger.Error("sync failed", "error", err)
	}
}
