// Package search implements the incremental, debounced city search session.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/geocoding"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"go.uber.org/zap"
)

// Status is the phase of the search session
type Status string

const (
	StatusIdle       Status = "idle"
	StatusDebouncing Status = "debouncing"
	StatusFetching   Status = "fetching"
	StatusSuccess    Status = "success"
	StatusFailure    Status = "failure"
)

// State is a snapshot of the session
type State struct {
	Query      string                `json:"query"`
	Candidates []model.CityCandidate `json:"candidates"`
	Loading    bool                  `json:"loading"`
	Error      string                `json:"error,omitempty"`
	Status     Status                `json:"status"`
}

// NoResults reports a finished search that matched nothing
func (s State) NoResults() bool {
	return s.Status == StatusSuccess && len(s.Candidates) == 0
}

func (s State) clone() State {
	c := s
	c.Candidates = append([]model.CityCandidate{}, s.Candidates...)
	return c
}

// Options configures a Session
type Options struct {
	Debounce       time.Duration
	MinQueryLength int
	Scheduler      Scheduler
	Logger         *zap.Logger
}

// OptionsFromConfig returns session options with the wall clock scheduler
func OptionsFromConfig(cfg config.SearchConfig, logger *zap.Logger) Options {
	return Options{
		Debounce:       cfg.Debounce,
		MinQueryLength: cfg.MinQueryLength,
		Scheduler:      RealScheduler{},
		Logger:         logger,
	}
}

type event struct {
	state    *State
	selected *model.CityCandidate
}

// Session turns keystrokes into geocoding requests.
//
// A query is sent only after the debounce period passes without another
// keystroke. Every request gets a sequence number and only the completion of
// the latest live request is applied. Callbacks run outside the session lock
// in the order the events happened.
type Session struct {
	geocoder geocoding.Geocoder
	opts     Options
	logger   *zap.Logger

	mu       sync.Mutex
	state    State
	timer    Timer
	timerGen uint64
	seq      uint64
	// active is the sequence number of the live request, zero if none
	active     uint64
	cancel     context.CancelFunc
	closed     bool
	onChange   func(State)
	onSelect   func(model.CityCandidate)
	pending    []event
	delivering bool

	wg sync.WaitGroup
}

// NewSession creates an idle session
func NewSession(geocoder geocoding.Geocoder, opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = 2
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		geocoder: geocoder,
		opts:     opts,
		logger:   logger,
		state:    State{Candidates: []model.CityCandidate{}, Status: StatusIdle},
	}
}

// OnChange registers the state change callback
func (s *Session) OnChange(f func(State)) {
	s.mu.Lock()
	s.onChange = f
	s.mu.Unlock()
}

// OnSelect registers the callback receiving the selected candidate
func (s *Session) OnSelect(f func(model.CityCandidate)) {
	s.mu.Lock()
	s.onSelect = f
	s.mu.Unlock()
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SetQuery handles one keystroke
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.state.Query = q
	s.stopTimerLocked()
	s.cancelActiveLocked()
	s.state.Loading = false

	if !s.passesGate(q) {
		s.state.Candidates = []model.CityCandidate{}
		s.state.Error = ""
		s.state.Status = StatusIdle
	} else {
		s.state.Status = StatusDebouncing
		s.timerGen++
		gen := s.timerGen
		s.timer = s.opts.Scheduler.AfterFunc(s.opts.Debounce, func() { s.fire(gen) })
	}
	s.emitLocked()
	s.mu.Unlock()

	s.flush()
}

// Refetch sends the current query again without waiting for the debounce.
// It reports false when the query is too short or the session is closed.
func (s *Session) Refetch() bool {
	s.mu.Lock()
	if s.closed || !s.passesGate(s.state.Query) {
		s.mu.Unlock()
		return false
	}
	s.stopTimerLocked()
	run := s.dispatchLocked()
	s.mu.Unlock()

	s.flush()
	run()
	return true
}

// Select resets the session and hands c to the OnSelect callback
func (s *Session) Select(c model.CityCandidate) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.resetLocked()
	s.pending = append(s.pending, event{selected: &c})
	s.mu.Unlock()

	s.flush()
}

// Clear resets query, candidates and error
func (s *Session) Clear() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.resetLocked()
	s.mu.Unlock()

	s.flush()
}

// Close cancels pending work; later calls on the session do nothing
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.cancelActiveLocked()
	s.pending = nil
}

func (s *Session) passesGate(q string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(q)) >= s.opts.MinQueryLength
}

func (s *Session) resetLocked() {
	s.stopTimerLocked()
	s.cancelActiveLocked()
	s.state = State{Candidates: []model.CityCandidate{}, Status: StatusIdle}
	s.emitLocked()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// a timer that already started firing sees a newer generation and backs off
	s.timerGen++
}

func (s *Session) cancelActiveLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.active = 0
}

func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	run := s.dispatchLocked()
	s.mu.Unlock()

	s.flush()
	run()
}

// dispatchLocked marks a new request as live and returns the func starting it
func (s *Session) dispatchLocked() func() {
	s.cancelActiveLocked()

	s.seq++
	seq := s.seq
	s.active = seq
	query := strings.TrimSpace(s.state.Query)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.state.Status = StatusFetching
	s.state.Loading = true
	s.emitLocked()

	s.logger.Debug("city search dispatched", zap.Uint64("seq", seq), zap.String("query", query))
	s.wg.Add(1)
	return func() { go s.fetch(ctx, seq, query) }
}

func (s *Session) fetch(ctx context.Context, seq uint64, query string) {
	defer s.wg.Done()

	results, err := s.geocoder.Search(ctx, query)

	s.mu.Lock()
	if s.closed || seq != s.active {
		s.mu.Unlock()
		s.logger.Debug("discarding stale search result", zap.Uint64("seq", seq), zap.String("query", query))
		return
	}
	s.cancel()
	s.cancel = nil
	s.active = 0
	s.state.Loading = false

	if err != nil {
		s.logger.Warn("city search failed", zap.String("query", query), zap.Error(err))
		s.state.Candidates = []model.CityCandidate{}
		s.state.Error = err.Error()
		s.state.Status = StatusFailure
	} else {
		if results == nil {
			results = []model.CityCandidate{}
		}
		s.state.Candidates = results
		s.state.Error = ""
		s.state.Status = StatusSuccess
	}
	s.emitLocked()
	s.mu.Unlock()

	s.flush()
}

func (s *Session) emitLocked() {
	st := s.state.clone()
	s.pending = append(s.pending, event{state: &st})
}

// flush delivers queued events; a call made while another is delivering
// leaves its events to that one
func (s *Session) flush() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for len(s.pending) > 0 {
		events := s.pending
		s.pending = nil
		onChange, onSelect := s.onChange, s.onSelect
		s.mu.Unlock()

		for _, ev := range events {
			switch {
			case ev.state != nil && onChange != nil:
				onChange(*ev.state)
			case ev.selected != nil && onSelect != nil:
				onSelect(*ev.selected)
			}
		}

		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}
