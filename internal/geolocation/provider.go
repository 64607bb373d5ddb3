// Package geolocation wraps a device positioning source in a small state
// machine: Idle -> Requesting -> Ready | Failed, with retry from Failed.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State of the provider.
type State int

const (
	Idle State = iota
	Requesting
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Reason classifies a positioning failure.
type Reason int

const (
	PermissionDenied Reason = iota + 1
	PositionUnavailable
	Timeout
	Unsupported
)

func (r Reason) String() string {
	switch r {
	case PermissionDenied:
		return "permission_denied"
	case PositionUnavailable:
		return "position_unavailable"
	case Timeout:
		return "timeout"
	case Unsupported:
		return "unsupported"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Message is the user-facing text for the failure.
func (r Reason) Message() string {
	switch r {
	case PermissionDenied:
		return "Permiso de ubicación denegado"
	case PositionUnavailable:
		return "Ubicación no disponible"
	case Timeout:
		return "Tiempo de espera agotado"
	case Unsupported:
		return "Geolocalización no soportada en este dispositivo"
	}
	return "Error al obtener ubicación"
}

// Error is returned by positioners and recorded by the provider on failure.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation %s: %v", e.Reason, e.Err)
	}
	return "geolocation " + e.Reason.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Position is a single fix.
type Position struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	ObtainedAt time.Time `json:"obtained_at"`
}

// Options mirror the platform's single-shot request knobs.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxAge       time.Duration
}

// DefaultOptions asks for a fresh, high-accuracy fix within 10 seconds.
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaxAge:       0,
	}
}

// Positioner is the platform capability: one fix per call.
type Positioner interface {
	CurrentPosition(ctx context.Context, opts Options) (Position, error)
}

// Snapshot is a consistent read of the provider.
type Snapshot struct {
	State    State
	Position Position
	Reason   Reason
}

// HasLocation reports whether a fix is available.
func (s Snapshot) HasLocation() bool { return s.State == Ready }

// Provider owns at most one in-flight platform request.
type Provider struct {
	positioner Positioner
	opts       Options
	logger     *slog.Logger

	mu       sync.Mutex
	state    State
	position Position
	reason   Reason
	done     chan struct{}
}

// NewProvider creates a provider. A nil positioner means the device has no
// positioning capability; every request then fails with Unsupported.
func NewProvider(positioner Positioner, opts Options) *Provider {
	return &Provider{
		positioner: positioner,
		opts:       opts,
		logger:     slog.Default(),
		state:      Idle,
	}
}

// Snapshot returns the current state.
func (p *Provider) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{State: p.state, Position: p.position, Reason: p.reason}
}

// Request starts a fresh positioning attempt in the background and returns a
// channel closed when that attempt settles. Calling it while a request is in
// flight returns the in-flight channel without issuing a second platform call.
func (p *Provider) Request(ctx context.Context) <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Requesting {
		return p.done
	}

	done := make(chan struct{})
	p.done = done

	if p.positioner == nil {
		p.state = Failed
		p.reason = Unsupported
		close(done)
		return done
	}

	p.state = Requesting
	p.reason = 0
	go p.run(ctx, done)
	return done
}

// Await requests a position (or joins the in-flight one) and blocks until it
// settles or ctx is done.
func (p *Provider) Await(ctx context.Context) (Snapshot, error) {
	done := p.Request(ctx)
	select {
	case <-done:
		return p.Snapshot(), nil
	case <-ctx.Done():
		return p.Snapshot(), ctx.Err()
	}
}

// Retry is an explicit re-request after a failure.
func (p *Provider) Retry(ctx context.Context) <-chan struct{} {
	return p.Request(ctx)
}

func (p *Provider) run(ctx context.Context, done chan struct{}) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if p.opts.Timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	pos, err := p.positioner.CurrentPosition(reqCtx, p.opts)
	if err == nil && p.opts.MaxAge > 0 && !pos.ObtainedAt.IsZero() &&
		time.Since(pos.ObtainedAt) > p.opts.MaxAge {
		err = &Error{Reason: PositionUnavailable, Err: errors.New("stale position")}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	defer close(done)

	if err != nil {
		p.state = Failed
		p.reason = classify(err)
		p.logger.Warn("geolocation_failed", "reason", p.reason.String(), "error", err)
		return
	}

	p.state = Ready
	p.position = pos
	p.logger.Debug("geolocation_ready",
		"lat", pos.Latitude,
		"lng", pos.Longitude,
		"accuracy", pos.Accuracy,
	)
}

func classify(err error) Reason {
	var geoErr *Error
	if errors.As(err, &geoErr) {
		return geoErr.Reason
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	return PositionUnavailable
}
