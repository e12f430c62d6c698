package backend

import (
	"context"
	"net/http"
	"time"
)

const (
	settingsGetTimeout    = 5 * time.Second
	settingsPutTimeout    = 10 * time.Second
	settingsDeleteTimeout = 15 * time.Second
	validateKeyTimeout    = 15 * time.Second
)

// GetSettings fetches the installation's connection configuration.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := c.do(ctx, http.MethodGet, "/settings", nil, settingsGetTimeout, retryRead, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// PutSettings saves the workspace URL and API key. A 400 response carries a
// structured validation code.
func (c *Client) PutSettings(ctx context.Context, url, apiKey string) (*Settings, error) {
	body := map[string]string{
		"url":    url,
		"apiKey": apiKey,
	}

	var settings Settings
	if err := c.do(ctx, http.MethodPut, "/settings", body, settingsPutTimeout, retryMutate, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// DeleteSettings disconnects the installation, resetting the stored
// configuration to empty.
func (c *Client) DeleteSettings(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/settings", nil, settingsDeleteTimeout, retryMutate, nil)
}

// ValidateAPIKey asks the backend to re-check the stored key against the
// workspace. Rejection comes back as a 400 with CodeInvalidAPIKey.
func (c *Client) ValidateAPIKey(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := c.do(ctx, http.MethodPost, "/settings/validate-api-key", nil, validateKeyTimeout, retryNone, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
