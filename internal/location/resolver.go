package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"go.uber.org/zap"
)

const subscriberBuffer = 4

// Resolver drives the location state machine.
//
// Start resolves once per Resolver: a valid persisted record wins without
// asking for permission; otherwise the platform permission is requested and a
// single position fix is attempted. SaveCity may be called at any time and
// supersedes a resolution still in progress.
type Resolver struct {
	store  Store
	gate   PermissionGate
	geo    Geolocator
	opts   Options
	logger *zap.Logger

	startOnce sync.Once

	// writeMu orders persisting a record with the state change it belongs to
	writeMu sync.Mutex

	mu    sync.Mutex
	state model.LocationState
	// gen is bumped by SaveCity and Refresh; results of older attempts are dropped
	gen  uint64
	subs map[chan model.LocationState]struct{}
}

// NewResolver creates a resolver in the Loading state
func NewResolver(store Store, gate PermissionGate, geo Geolocator, opts Options, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Fix.Timeout <= 0 {
		opts.Fix.Timeout = DefaultFixOptions().Timeout
	}
	return &Resolver{
		store:  store,
		gate:   gate,
		geo:    geo,
		opts:   opts,
		logger: logger,
		state:  model.Loading{},
		subs:   make(map[chan model.LocationState]struct{}),
	}
}

// State returns the current location state
func (r *Resolver) State() model.LocationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe returns a channel receiving every state transition and a func to
// stop receiving. A slow reader loses intermediate states, never the latest.
func (r *Resolver) Subscribe() (<-chan model.LocationState, func()) {
	ch := make(chan model.LocationState, subscriberBuffer)

	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, ch)
			r.mu.Unlock()
			close(ch)
		})
	}
}

// Start runs the initial resolution and returns the resulting state.
// Calls after the first return the current state without doing anything.
func (r *Resolver) Start(ctx context.Context) model.LocationState {
	r.startOnce.Do(func() {
		r.mu.Lock()
		gen := r.gen
		r.mu.Unlock()

		if st, ok := r.fromRecord(ctx); ok {
			r.apply(gen, st)
			return
		}
		r.resolveDevice(ctx, gen)
	})
	return r.State()
}

// Refresh discards the current state and asks the device again.
// The persisted record is not consulted.
func (r *Resolver) Refresh(ctx context.Context) model.LocationState {
	r.writeMu.Lock()
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.setLocked(model.Loading{})
	r.mu.Unlock()
	r.writeMu.Unlock()

	r.resolveDevice(ctx, gen)
	return r.State()
}

// SaveCity persists a manually selected city and makes it the current state
func (r *Resolver) SaveCity(ctx context.Context, name string, lat, lon float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ErrInvalidCityName
	}
	if err := model.ValidateCoordinates(lat, lon); err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.store.Save(ctx, model.NewCityRecord(name, lat, lon, r.opts.Now())); err != nil {
		return fmt.Errorf("failed to save city: %w", err)
	}

	r.mu.Lock()
	r.gen++
	r.setLocked(model.City{Name: name, Lat: lat, Lon: lon})
	r.mu.Unlock()

	r.logger.Info("city saved", zap.String("name", name), zap.Float64("lat", lat), zap.Float64("lon", lon))
	return nil
}

func (r *Resolver) fromRecord(ctx context.Context) (model.LocationState, bool) {
	rec, ok, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Debug("ignoring unreadable location record", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if !rec.Valid() {
		r.logger.Debug("ignoring location record without coordinates")
		return nil, false
	}
	if r.opts.MaxAge > 0 && rec.SavedAt != nil && r.opts.Now().Sub(*rec.SavedAt) > r.opts.MaxAge {
		r.logger.Debug("ignoring expired location record", zap.Time("saved_at", *rec.SavedAt))
		return nil, false
	}
	return rec.State(), true
}

func (r *Resolver) resolveDevice(ctx context.Context, gen uint64) {
	kind := PermissionFor(r.opts.Platform)
	result, err := r.gate.Request(ctx, kind)
	if err != nil {
		r.logger.Warn("permission request failed", zap.String("permission", kind), zap.Error(err))
		r.apply(gen, model.Error{Message: err.Error()})
		return
	}
	r.logger.Debug("permission result", zap.String("permission", kind), zap.Stringer("result", result))

	if result != PermissionGranted {
		r.apply(gen, model.Denied{})
		return
	}

	fix, err := r.currentPosition(ctx)
	if err != nil {
		r.logger.Warn("position fix failed", zap.Error(err))
		r.apply(gen, model.Error{Message: errorMessage(err)})
		return
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if !r.isCurrent(gen) {
		r.logger.Debug("dropping superseded position fix")
		return
	}
	if err := r.store.Save(ctx, model.NewCoordsRecord(fix.Lat, fix.Lon, r.opts.Now())); err != nil {
		r.logger.Warn("failed to persist position", zap.Error(err))
	}
	r.apply(gen, model.Coords{Lat: fix.Lat, Lon: fix.Lon})
}

// currentPosition enforces the fix timeout even if the geolocator ignores ctx
func (r *Resolver) currentPosition(ctx context.Context) (Fix, error) {
	fixCtx, cancel := context.WithTimeout(ctx, r.opts.Fix.Timeout)
	defer cancel()

	type result struct {
		fix Fix
		err error
	}
	done := make(chan result, 1)
	go func() {
		fix, err := r.geo.CurrentPosition(fixCtx, r.opts.Fix)
		done <- result{fix: fix, err: err}
	}()

	select {
	case res := <-done:
		return res.fix, res.err
	case <-fixCtx.Done():
		if errors.Is(fixCtx.Err(), context.DeadlineExceeded) {
			return Fix{}, ErrTimeout
		}
		return Fix{}, fixCtx.Err()
	}
}

func (r *Resolver) isCurrent(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen == gen
}

// apply moves to st unless a newer attempt has started since gen
func (r *Resolver) apply(gen uint64, st model.LocationState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		r.logger.Debug("dropping superseded location result", zap.String("status", st.Status()))
		return
	}
	r.setLocked(st)
}

func (r *Resolver) setLocked(st model.LocationState) {
	r.state = st
	for ch := range r.subs {
		select {
		case ch <- st:
		default:
			// drop the oldest queued state so the latest always fits
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}
