// Package geolocation maps client addresses to a location profile.
//
// Callers hold a Resolver built once at startup by NewResolver and go through
// ResolveOrDefault, which never fails: lookups that error or time out yield
// DefaultLocation.
package geolocation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"fraudgen/internal/models"
)

var (
	ErrInvalidAddress = errors.New("geolocation: invalid address")
	ErrNoRecord       = errors.New("geolocation: no record for address")
)

// Resolver looks up the location of an IP address.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (models.Location, error)
}

// DefaultLocation is the profile substituted when no lookup is possible.
func DefaultLocation() models.Location {
	return models.Location{
		Country:   "US",
		Region:    "New Jersey",
		City:      "Jersey City",
		Latitude:  40.7282,
		Longitude: -74.0776,
	}
}

// StaticResolver always answers with DefaultLocation. It is used when no
// geolocation database is available.
type StaticResolver struct{}

func (StaticResolver) Resolve(context.Context, string) (models.Location, error) {
	return DefaultLocation(), nil
}

// ResolveOrDefault resolves ip with r, bounded by timeout when positive.
// Failures are logged at warn and replaced by DefaultLocation.
func ResolveOrDefault(ctx context.Context, r Resolver, ip string, timeout time.Duration) models.Location {
	if r == nil {
		return DefaultLocation()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		loc models.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := r.Resolve(ctx, ip)
		done <- result{loc: loc, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			zap.L().Warn("geolocation lookup failed, using default location",
				zap.String("ip", ip), zap.Error(res.err))
			return DefaultLocation()
		}
		return res.loc
	case <-ctx.Done():
		zap.L().Warn("geolocation lookup timed out, using default location",
			zap.String("ip", ip), zap.Error(ctx.Err()))
		return DefaultLocation()
	}
}
