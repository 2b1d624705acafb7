package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{},
		EndpointConfigs: []EndpointConfig{
			{Path: "/analyze", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
			{Path: "/results/", Method: "GET", Limit: 100, Window: time.Minute, Burst: 5},
		},
	}
}

func TestAllow_BurstThenLimited(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/analyze", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/analyze", "POST")
	assert.True(t, allowed)

	allowed, info := l.Allow("1.2.3.4", "/analyze", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/analyze", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("5.6.7.8", "/analyze", "POST")
	assert.True(t, allowed)
}

func TestAllow_WhitelistBypasses(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist["9.9.9.9"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("9.9.9.9", "/analyze", "POST")
		require.True(t, allowed)
	}
}

func TestAllow_DisabledConfig(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/analyze", "POST")
		require.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := testConfig().EndpointConfigs

	tests := []struct {
		name   string
		path   string
		method string
		want   string
	}{
		{name: "exact match", path: "/analyze", method: "POST", want: "/analyze"},
		{name: "prefix match", path: "/results/abc-123", method: "GET", want: "/results/"},
		{name: "method mismatch", path: "/analyze", method: "GET", want: ""},
		{name: "no match", path: "/unknown", method: "POST", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Path)
		})
	}
}

func TestMatchEndpoint_HealthUnlimited(t *testing.T) {
	got := MatchEndpoint("/health", "GET", testConfig().EndpointConfigs)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Limit)
}

func TestDropStale(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	l.Allow("1.2.3.4", "/analyze", "POST")
	require.Len(t, l.buckets, 1)

	l.dropStale(time.Now().Add(time.Second))
	assert.Empty(t, l.buckets)
}
