package token_test

import (
	"context"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/workline/docspace-crm-plugin/hostsdk/hostsdkfake"
	"github.com/workline/docspace-crm-plugin/token"
)

const signingSecret = "test-secret"

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()

	claims := jwtlib.MapClaims{
		"sub": "user-1",
		"exp": expiry.Unix(),
	}
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(signingSecret))
	require.NoError(t, err)
	return raw
}

func TestValueCachesUntilSkewWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	host := hostsdkfake.NewFakeHost()
	host.TokenFunc = func() (string, error) {
		return signedToken(t, now.Add(10*time.Minute)), nil
	}

	provider := token.NewProvider(host, token.WithNowFunc(func() time.Time { return now }))

	first, err := provider.Value(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, host.TokenMints)

	// Just before the 60s skew window: cache hit, no new mint.
	now = now.Add(10*time.Minute - 61*time.Second)
	second, err := provider.Value(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, host.TokenMints)
}

func TestValueRefreshesAtSkewBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(10 * time.Minute)
	host := hostsdkfake.NewFakeHost()
	host.TokenFunc = func() (string, error) {
		return signedToken(t, expiry), nil
	}

	provider := token.NewProvider(host, token.WithNowFunc(func() time.Time { return now }))

	_, err := provider.Value(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, host.TokenMints)

	// Exactly at expiry - 60s the cached token is stale.
	now = expiry.Add(-60 * time.Second)
	expiry = now.Add(10 * time.Minute)
	_, err = provider.Value(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, host.TokenMints)
}

func TestValueWithoutExpClaimRefreshesEveryCall(t *testing.T) {
	host := hostsdkfake.NewFakeHost()
	host.TokenFunc = func() (string, error) { return "not-a-jwt", nil }

	provider := token.NewProvider(host)

	for i := 0; i < 3; i++ {
		value, err := provider.Value(context.Background())
		require.NoError(t, err)
		require.Equal(t, "not-a-jwt", value)
	}
	require.Equal(t, 3, host.TokenMints)
}

func TestValuePropagatesHostFailure(t *testing.T) {
	host := hostsdkfake.NewFakeHost()
	host.TokenFunc = func() (string, error) { return "", context.DeadlineExceeded }

	provider := token.NewProvider(host)

	_, err := provider.Value(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConcurrentStaleCallsCoalesceIntoOneMint(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	host := hostsdkfake.NewFakeHost()

	release := make(chan struct{})
	host.TokenFunc = func() (string, error) {
		<-release
		return signedToken(t, now.Add(time.Hour)), nil
	}

	provider := token.NewProvider(host, token.WithNowFunc(func() time.Time { return now }))

	var wg sync.WaitGroup
	results := make([]string, 8)
	errs := make([]error, 8)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = provider.Value(context.Background())
		}(i)
	}

	// Give the goroutines time to pile onto the same flight.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, 1, host.TokenMints)
	for i, value := range results {
		require.NoError(t, errs[i])
		require.Equal(t, results[0], value)
	}
}

func TestTokenSourceExposesExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(30 * time.Minute)
	host := hostsdkfake.NewFakeHost()
	host.TokenFunc = func() (string, error) { return signedToken(t, expiry), nil }

	provider := token.NewProvider(host, token.WithNowFunc(func() time.Time { return now }))

	tok, err := provider.Token()
	require.NoError(t, err)
	require.Equal(t, "Bearer", tok.TokenType)
	require.WithinDuration(t, expiry, tok.Expiry, time.Second)
}
