// Package geo abstracts the platform geolocation capability. The messaging
// core only consumes the resolved, denied, or timed-out outcome of a single
// position request.
package geo

import (
	"context"
	"errors"
	"time"
)

// ErrDenied indicates the user or platform refused the location request.
var ErrDenied = errors.New("location permission denied")

// Position is a resolved device location.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Provider acquires the device position. Implementations must honor
// context cancellation; a blocked provider would freeze the assistant UI.
type Provider interface {
	Locate(ctx context.Context) (Position, error)
}

// Simulated is a Provider with configurable outcome and latency, standing in
// for a real browser or device geolocation API.
type Simulated struct {
	Grant    bool
	Latency  time.Duration
	Position Position
}

// Locate waits for the configured latency, then grants or denies.
func (s Simulated) Locate(ctx context.Context) (Position, error) {
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Position{}, ctx.Err()
		}
	}
	if !s.Grant {
		return Position{}, ErrDenied
	}
	return s.Position, nil
}
