// Package location resolves where the user is: from the persisted last
// location, from a device position fix, or from a manually chosen city.
package location

import (
	"context"
	"errors"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
)

// Permission kinds requested from the platform
const (
	PermissionIOSWhenInUse        = "ios.LOCATION_WHEN_IN_USE"
	PermissionAndroidFineLocation = "android.ACCESS_FINE_LOCATION"
)

// PermissionFor returns the permission kind requested on platform
func PermissionFor(platform string) string {
	if platform == "ios" {
		return PermissionIOSWhenInUse
	}
	return PermissionAndroidFineLocation
}

// PermissionResult is the outcome of a permission request
type PermissionResult int

const (
	PermissionDenied PermissionResult = iota
	PermissionGranted
)

func (p PermissionResult) String() string {
	if p == PermissionGranted {
		return "granted"
	}
	return "denied"
}

// PermissionGate asks the platform for location access
type PermissionGate interface {
	Request(ctx context.Context, kind string) (PermissionResult, error)
}

// FixOptions are passed to the geolocator for one position request
type FixOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaximumAge is the oldest cached fix the geolocator may return
	MaximumAge time.Duration
}

// DefaultFixOptions returns high accuracy, a 15s timeout and a 10s maximum age
func DefaultFixOptions() FixOptions {
	return FixOptions{
		HighAccuracy: true,
		Timeout:      15 * time.Second,
		MaximumAge:   10 * time.Second,
	}
}

// Fix is a single device position
type Fix struct {
	Lat       float64
	Lon       float64
	Timestamp time.Time
}

// Geolocator obtains the current device position
type Geolocator interface {
	CurrentPosition(ctx context.Context, opts FixOptions) (Fix, error)
}

// ErrTimeout is reported when a position fix does not arrive in time
var ErrTimeout = errors.New("timeout")

// Options configures a Resolver
type Options struct {
	Platform string
	Fix      FixOptions

	// MaxAge expires persisted records; zero trusts them forever
	MaxAge time.Duration
	Now    func() time.Time
}

// OptionsFromConfig builds resolver options from the location config
func OptionsFromConfig(cfg config.LocationConfig) Options {
	return Options{
		Platform: cfg.Platform,
		Fix: FixOptions{
			HighAccuracy: true,
			Timeout:      cfg.FixTimeout,
			MaximumAge:   cfg.FixMaxAge,
		},
		MaxAge: cfg.RecordMaxAge,
	}
}

// errorMessage is the text stored in an Error state for a failed fix
func errorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return ErrTimeout.Error()
	}
	return err.Error()
}
