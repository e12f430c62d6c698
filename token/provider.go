// Package token acquires and caches the signed token minted by the CRM
// host. The token is an opaque JWT whose exp claim is the only part the
// plugin inspects; it is never verified locally and never leaves memory.
package token

import (
	"context"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/workline/docspace-crm-plugin/hostsdk"
)

// refreshSkew is how long before expiry a cached token is considered stale.
// No caller ever receives a token within this window of its expiry.
const refreshSkew = 60 * time.Second

type cachedToken struct {
	value  string
	expiry time.Time
}

// Provider caches the host-signed token and refreshes it proactively.
// Concurrent refreshes are coalesced into a single host command.
type Provider struct {
	host    hostsdk.Host
	nowFunc func() time.Time

	group singleflight.Group

	lock   sync.Mutex
	cached *cachedToken
}

var _ oauth2.TokenSource = (*Provider)(nil)

type ProviderOption func(*Provider)

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) ProviderOption {
	return func(p *Provider) {
		p.nowFunc = now
	}
}

func NewProvider(host hostsdk.Host, options ...ProviderOption) *Provider {
	p := &Provider{
		host:    host,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Value returns the cached token, refreshing it first if it is missing or
// inside the skew window. It fails only if the host token command fails.
func (p *Provider) Value(ctx context.Context) (string, error) {
	if value, ok := p.fresh(); ok {
		return value, nil
	}

	v, err, _ := p.group.Do("signed-token", func() (any, error) {
		// A concurrent caller may have refreshed while this flight queued.
		if value, ok := p.fresh(); ok {
			return value, nil
		}
		return p.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Token implements oauth2.TokenSource so the backend client can consume the
// provider as a standard credential source.
func (p *Provider) Token() (*oauth2.Token, error) {
	value, err := p.Value(context.Background())
	if err != nil {
		return nil, err
	}

	p.lock.Lock()
	expiry := p.cached.expiry
	p.lock.Unlock()

	return &oauth2.Token{AccessToken: value, TokenType: "Bearer", Expiry: expiry}, nil
}

func (p *Provider) fresh() (string, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.cached == nil {
		return "", false
	}
	if !p.nowFunc().Before(p.cached.expiry.Add(-refreshSkew)) {
		return "", false
	}
	return p.cached.value, true
}

func (p *Provider) refresh(ctx context.Context) (string, error) {
	raw, err := p.host.GetSignedToken(ctx)
	if err != nil {
		return "", errors.Wrap(err, "[Provider Value] host signed-token command failed")
	}

	expiry := decodeExpiry(raw)

	p.lock.Lock()
	p.cached = &cachedToken{value: raw, expiry: expiry}
	p.lock.Unlock()

	return raw, nil
}

// decodeExpiry extracts the exp claim without verifying the signature; the
// token is validated by the backend, not here. A token with no readable exp
// claim gets a zero expiry, which makes every subsequent call refresh.
func decodeExpiry(raw string) time.Time {
	unverified, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}
	}

	exp, err := unverified.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
