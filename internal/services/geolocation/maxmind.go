package geolocation

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"fraudgen/internal/config"
	"fraudgen/internal/models"
)

type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
}

type anonymousIPReader interface {
	AnonymousIP(ip net.IP) (*geoip2.AnonymousIP, error)
}

// MaxMindResolver answers from local GeoIP2/GeoLite2 databases. The
// anonymous IP database is optional; without it VPN and proxy flags come
// from the city record traits only.
type MaxMindResolver struct {
	city      cityReader
	anonymous anonymousIPReader
}

// Resolve looks ip up in the city database and, when configured, the
// anonymous IP database.
func (m *MaxMindResolver) Resolve(ctx context.Context, ip string) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, err
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return models.Location{}, fmt.Errorf("%w: %q", ErrInvalidAddress, ip)
	}

	rec, err := m.city.City(addr)
	if err != nil {
		return models.Location{}, eris.Wrapf(err, "geolocation: city lookup %s", ip)
	}
	if rec.Country.IsoCode == "" {
		return models.Location{}, ErrNoRecord
	}

	loc := models.Location{
		Country:   rec.Country.IsoCode,
		City:      rec.City.Names["en"],
		Latitude:  rec.Location.Latitude,
		Longitude: rec.Location.Longitude,
		IsProxy:   rec.Traits.IsAnonymousProxy,
	}
	if len(rec.Subdivisions) > 0 {
		loc.Region = rec.Subdivisions[0].Names["en"]
	}

	if m.anonymous != nil {
		anon, err := m.anonymous.AnonymousIP(addr)
		if err != nil {
			return models.Location{}, eris.Wrapf(err, "geolocation: anonymous ip lookup %s", ip)
		}
		loc.IsVPN = anon.IsAnonymousVPN
		loc.IsProxy = loc.IsProxy || anon.IsPublicProxy || anon.IsResidentialProxy || anon.IsTorExitNode
	}
	return loc, nil
}

// NewResolver opens the configured MaxMind databases. When the city database
// is not configured or cannot be opened it returns a StaticResolver, so the
// unavailable case is settled here rather than on every lookup. The returned
// close func releases whatever was opened.
func NewResolver(cfg config.GeoIPConfig, log *zap.Logger) (Resolver, func() error) {
	noop := func() error { return nil }

	if cfg.CityDBPath == "" {
		log.Warn("GEOIP_CITY_DB not set, every address resolves to the default location")
		return StaticResolver{}, noop
	}

	cityDB, err := geoip2.Open(cfg.CityDBPath)
	if err != nil {
		log.Warn("failed to open city database, every address resolves to the default location",
			zap.String("path", cfg.CityDBPath), zap.Error(err))
		return StaticResolver{}, noop
	}
	resolver := &MaxMindResolver{city: cityDB}
	closers := []func() error{cityDB.Close}

	if cfg.AnonymousDBPath != "" {
		anonDB, err := geoip2.Open(cfg.AnonymousDBPath)
		if err != nil {
			log.Warn("failed to open anonymous ip database, VPN detection disabled",
				zap.String("path", cfg.AnonymousDBPath), zap.Error(err))
		} else {
			resolver.anonymous = anonDB
			closers = append(closers, anonDB.Close)
		}
	}

	log.Info("maxmind geolocation enabled",
		zap.String("city_db", cfg.CityDBPath),
		zap.Bool("anonymous_ip", resolver.anonymous != nil),
	)
	return resolver, func() error {
		var firstErr error
		for _, c := range closers {
			if err := c(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
}
