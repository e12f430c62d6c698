package backend

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

const (
	userGetTimeout       = 15 * time.Second
	accountPutTimeout    = 10 * time.Second
	accountDeleteTimeout = 4 * time.Second
)

// GetUser fetches the current CRM user and their embedded-account link.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", nil, userGetTimeout, retryRead, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PutDocspaceAccount saves the embedded credential link for the current
// user. With system=true the credential is stored as the installation's
// system account. A 503 carries a structured cause when the workspace
// connection is unusable.
func (c *Client) PutDocspaceAccount(ctx context.Context, userName, passwordHash string, system bool) error {
	body := map[string]string{
		"userName":     userName,
		"passwordHash": passwordHash,
	}
	path := "/user/docspace-account?system=" + strconv.FormatBool(system)
	return c.do(ctx, http.MethodPut, path, body, accountPutTimeout, retryMutate, nil)
}

// DeleteDocspaceAccount unlinks the embedded credential.
func (c *Client) DeleteDocspaceAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/user/docspace-account", nil, accountDeleteTimeout, retryMutate, nil)
}
