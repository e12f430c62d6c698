package main

import (
	"context"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/workline/docspace-crm-plugin/hostsdk"
)

var _ hostsdk.Host = (*devHost)(nil)

// devHost stands in for the CRM extension SDK: it mints real HS256 tokens
// the stub backend can verify, and logs the presentation commands instead
// of driving an iframe.
type devHost struct {
	secret string
}

func newDevHost(secret string) *devHost {
	return &devHost{secret: secret}
}

func (h *devHost) GetSignedToken(ctx context.Context) (string, error) {
	claims := jwtlib.RegisteredClaims{
		Subject:   "dev-user",
		Issuer:    "dev-host",
		IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(h.secret))
}

func (h *devHost) Resize(ctx context.Context, height int) error {
	log.Info().Int("height", height).Msg("host: resize")
	return nil
}

func (h *devHost) ShowSnackbar(ctx context.Context, message string, link *hostsdk.SnackbarLink) error {
	event := log.Info().Str("message", message)
	if link != nil {
		event = event.Str("link", link.URL)
	}
	event.Msg("host: snackbar")
	return nil
}

func (h *devHost) ShowConfirmation(ctx context.Context, title, description string) (bool, error) {
	log.Info().Str("title", title).Msg("host: confirmation auto-accepted")
	return true, nil
}

func (h *devHost) RedirectTo(ctx context.Context, view hostsdk.View) error {
	log.Info().Str("view", string(view)).Msg("host: redirect")
	return nil
}
