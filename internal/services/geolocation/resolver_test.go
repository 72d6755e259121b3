package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oschwald/geoip2-golang"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fraudgen/internal/config"
	"fraudgen/internal/metrics"
	"fraudgen/internal/models"
	"fraudgen/internal/repositories/cache"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, ip string) (models.Location, error) {
	args := m.Called(ctx, ip)
	return args.Get(0).(models.Location), args.Error(1)
}

type MockLocationCache struct {
	mock.Mock
}

func (m *MockLocationCache) GetLocation(ctx context.Context, ip string) (*models.Location, error) {
	args := m.Called(ctx, ip)
	loc, _ := args.Get(0).(*models.Location)
	return loc, args.Error(1)
}

func (m *MockLocationCache) CacheLocation(ctx context.Context, ip string, loc models.Location) error {
	args := m.Called(ctx, ip, loc)
	return args.Error(0)
}

func (m *MockLocationCache) InvalidateLocation(ctx context.Context, ip string) error {
	return m.Called(ctx, ip).Error(0)
}

type slowResolver struct{ delay time.Duration }

func (s slowResolver) Resolve(ctx context.Context, _ string) (models.Location, error) {
	select {
	case <-time.After(s.delay):
		return models.Location{Country: "DE"}, nil
	case <-ctx.Done():
		return models.Location{}, ctx.Err()
	}
}

var london = models.Location{Country: "GB", Region: "England", City: "London", Latitude: 51.5142, Longitude: -0.0931}

func TestResolveOrDefault(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		r := new(MockResolver)
		r.On("Resolve", mock.Anything, "203.0.113.9").Return(london, nil)

		assert.Equal(t, london, ResolveOrDefault(ctx, r, "203.0.113.9", time.Second))
		r.AssertExpectations(t)
	})

	t.Run("error falls back", func(t *testing.T) {
		r := new(MockResolver)
		r.On("Resolve", mock.Anything, "10.0.0.1").Return(models.Location{}, ErrNoRecord)

		assert.Equal(t, DefaultLocation(), ResolveOrDefault(ctx, r, "10.0.0.1", time.Second))
	})

	t.Run("timeout falls back", func(t *testing.T) {
		start := time.Now()
		got := ResolveOrDefault(ctx, slowResolver{delay: time.Second}, "203.0.113.9", 20*time.Millisecond)
		assert.Equal(t, DefaultLocation(), got)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("nil resolver", func(t *testing.T) {
		assert.Equal(t, DefaultLocation(), ResolveOrDefault(ctx, nil, "203.0.113.9", 0))
	})
}

func TestDefaultLocation(t *testing.T) {
	loc := DefaultLocation()
	assert.Equal(t, "US", loc.Country)
	assert.Equal(t, "New Jersey", loc.Region)
	assert.Equal(t, "Jersey City", loc.City)
	assert.Equal(t, 40.7282, loc.Latitude)
	assert.Equal(t, -74.0776, loc.Longitude)
	assert.False(t, loc.Anonymized())

	got, err := StaticResolver{}.Resolve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, loc, got)
}

type fakeCityReader struct {
	record *geoip2.City
	err    error
}

func (f fakeCityReader) City(net.IP) (*geoip2.City, error) { return f.record, f.err }

type fakeAnonymousReader struct {
	record *geoip2.AnonymousIP
	err    error
}

func (f fakeAnonymousReader) AnonymousIP(net.IP) (*geoip2.AnonymousIP, error) { return f.record, f.err }

func cityRecord(t *testing.T, raw string) *geoip2.City {
	t.Helper()
	var rec geoip2.City
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return &rec
}

func TestMaxMindResolver(t *testing.T) {
	ctx := context.Background()
	londonRecord := `{
		"City": {"Names": {"en": "London"}},
		"Country": {"IsoCode": "GB"},
		"Location": {"Latitude": 51.5142, "Longitude": -0.0931},
		"Subdivisions": [{"IsoCode": "ENG", "Names": {"en": "England"}}]
	}`

	t.Run("city only", func(t *testing.T) {
		r := &MaxMindResolver{city: fakeCityReader{record: cityRecord(t, londonRecord)}}
		loc, err := r.Resolve(ctx, "81.2.69.142")
		require.NoError(t, err)
		assert.Equal(t, london, loc)
	})

	t.Run("anonymous vpn", func(t *testing.T) {
		r := &MaxMindResolver{
			city:      fakeCityReader{record: cityRecord(t, londonRecord)},
			anonymous: fakeAnonymousReader{record: &geoip2.AnonymousIP{IsAnonymous: true, IsAnonymousVPN: true}},
		}
		loc, err := r.Resolve(ctx, "81.2.69.142")
		require.NoError(t, err)
		assert.True(t, loc.IsVPN)
		assert.False(t, loc.IsProxy)
	})

	t.Run("tor exit counts as proxy", func(t *testing.T) {
		r := &MaxMindResolver{
			city:      fakeCityReader{record: cityRecord(t, londonRecord)},
			anonymous: fakeAnonymousReader{record: &geoip2.AnonymousIP{IsTorExitNode: true}},
		}
		loc, err := r.Resolve(ctx, "81.2.69.142")
		require.NoError(t, err)
		assert.True(t, loc.IsProxy)
	})

	t.Run("anonymous proxy trait", func(t *testing.T) {
		rec := cityRecord(t, `{"Country": {"IsoCode": "NL"}, "Traits": {"IsAnonymousProxy": true}}`)
		r := &MaxMindResolver{city: fakeCityReader{record: rec}}
		loc, err := r.Resolve(ctx, "2001:db8::5")
		require.NoError(t, err)
		assert.Equal(t, "NL", loc.Country)
		assert.Empty(t, loc.Region)
		assert.True(t, loc.IsProxy)
	})

	t.Run("private address has no record", func(t *testing.T) {
		r := &MaxMindResolver{city: fakeCityReader{record: &geoip2.City{}}}
		_, err := r.Resolve(ctx, "192.168.0.10")
		assert.ErrorIs(t, err, ErrNoRecord)
	})

	t.Run("invalid address", func(t *testing.T) {
		r := &MaxMindResolver{city: fakeCityReader{}}
		_, err := r.Resolve(ctx, "not-an-ip")
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("reader error", func(t *testing.T) {
		r := &MaxMindResolver{city: fakeCityReader{err: errors.New("corrupt database")}}
		_, err := r.Resolve(ctx, "81.2.69.142")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		r := &MaxMindResolver{city: fakeCityReader{record: cityRecord(t, londonRecord)}}
		_, err := r.Resolve(cctx, "81.2.69.142")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewResolver_FallsBackWithoutDatabase(t *testing.T) {
	r, closeFn := NewResolver(config.GeoIPConfig{}, zap.NewNop())
	assert.IsType(t, StaticResolver{}, r)
	assert.NoError(t, closeFn())

	r, closeFn = NewResolver(config.GeoIPConfig{CityDBPath: "/nonexistent/GeoLite2-City.mmdb"}, zap.NewNop())
	assert.IsType(t, StaticResolver{}, r)
	assert.NoError(t, closeFn())
}

func TestCachedResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("hit skips lookup", func(t *testing.T) {
		cache := new(MockLocationCache)
		next := new(MockResolver)
		cached := london
		cache.On("GetLocation", mock.Anything, "81.2.69.142").Return(&cached, nil)

		loc, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "81.2.69.142")
		require.NoError(t, err)
		assert.Equal(t, london, loc)
		next.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("miss resolves and stores", func(t *testing.T) {
		cache := new(MockLocationCache)
		next := new(MockResolver)
		cache.On("GetLocation", mock.Anything, "81.2.69.142").Return(nil, nil)
		next.On("Resolve", mock.Anything, "81.2.69.142").Return(london, nil)
		cache.On("CacheLocation", mock.Anything, "81.2.69.142", london).Return(nil)

		loc, err := NewCachedResolver(next, cache, &metrics.NoopMetricsCollector{}).Resolve(ctx, "81.2.69.142")
		require.NoError(t, err)
		assert.Equal(t, london, loc)
		cache.AssertExpectations(t)
		next.AssertExpectations(t)
	})

	t.Run("cache failure is bypassed", func(t *testing.T) {
		cache := new(MockLocationCache)
		next := new(MockResolver)
		cache.On("GetLocation", mock.Anything, "81.2.69.142").Return(nil, errors.New("connection refused"))
		cache.On("InvalidateLocation", mock.Anything, "81.2.69.142").Return(errors.New("connection refused"))
		next.On("Resolve", mock.Anything, "81.2.69.142").Return(london, nil)
		cache.On("CacheLocation", mock.Anything, "81.2.69.142", london).Return(errors.New("connection refused"))

		loc, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "81.2.69.142")
		require.NoError(t, err)
		assert.Equal(t, london, loc)
		cache.AssertExpectations(t)
	})

	t.Run("lookup errors are not cached", func(t *testing.T) {
		cache := new(MockLocationCache)
		next := new(MockResolver)
		cache.On("GetLocation", mock.Anything, "10.0.0.1").Return(nil, nil)
		next.On("Resolve", mock.Anything, "10.0.0.1").Return(models.Location{}, ErrNoRecord)

		_, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "10.0.0.1")
		assert.ErrorIs(t, err, ErrNoRecord)
		cache.AssertNotCalled(t, "CacheLocation", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCachedResolver_ReplacesUnreadableEntry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := cache.NewCacheService(client, time.Hour)

	require.NoError(t, mr.Set("geo:81.2.69.142", "{not json"))

	next := new(MockResolver)
	next.On("Resolve", mock.Anything, "81.2.69.142").Return(london, nil).Once()
	resolver := NewCachedResolver(next, store, nil)

	loc, err := resolver.Resolve(ctx, "81.2.69.142")
	require.NoError(t, err)
	assert.Equal(t, london, loc)

	// The rewritten entry now serves the address without another lookup.
	loc, err = resolver.Resolve(ctx, "81.2.69.142")
	require.NoError(t, err)
	assert.Equal(t, london, loc)
	next.AssertExpectations(t)
}
