// CLAUDE:SUMMARY Session-scoped mutable state: Idle/Running tracking state machine and the single last-report slot.
// Package session holds the mutable state of one analysis session: whether
// byte-usage tracking is live, which resource types it covers, and the most
// recent coverage report. At most one tracking session exists at a time; the
// Idle/Running transitions enforce it.
package session

import (
	"errors"
	"sync"

	"github.com/bundlescope/bundlescope/coverage"
)

var (
	// ErrAlreadyRunning is returned by BeginTracking while a session is live.
	ErrAlreadyRunning = errors.New("session: coverage tracking already running")
	// ErrNotRunning is returned by EndTracking when no session is live.
	ErrNotRunning = errors.New("session: no coverage tracking in progress")
)

// Options selects which resource types a tracking session collects.
type Options struct {
	IncludeJS  bool `json:"include_js"`
	IncludeCSS bool `json:"include_css"`
}

// State is safe for concurrent use.
type State struct {
	mu      sync.Mutex
	running bool
	opts    Options
	report  *coverage.Report
}

func New() *State {
	return &State{}
}

// BeginTracking transitions Idle→Running. A second call without an
// intervening EndTracking is rejected and changes nothing.
func (s *State) BeginTracking(opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.running = true
	s.opts = opts
	return nil
}

// EndTracking transitions Running→Idle and returns the options tracking was
// started with. Calling it while idle is rejected and changes nothing.
func (s *State) EndTracking() (Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return Options{}, ErrNotRunning
	}
	s.running = false
	return s.opts, nil
}

// ForceIdle resets to Idle regardless of current state. Cleanup path for
// acquisition failures so the session never gets stuck Running.
func (s *State) ForceIdle() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Running reports whether a tracking session is live.
func (s *State) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TrackingOptions returns the options of the current or most recent session.
func (s *State) TrackingOptions() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// SetReport stores a fully built report, replacing the previous one.
func (s *State) SetReport(r *coverage.Report) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}

// Report returns the last stored report, or nil if none was built yet.
func (s *State) Report() *coverage.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}
