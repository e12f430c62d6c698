package hostsdkfake

import (
	"context"
	"sync"

	"github.com/workline/docspace-crm-plugin/hostsdk"
)

var _ hostsdk.Host = (*FakeHost)(nil)

// Snackbar records one ShowSnackbar call.
type Snackbar struct {
	Message string
	Link    *hostsdk.SnackbarLink
}

// FakeHost is a scripted host SDK for tests. TokenFunc controls what
// GetSignedToken returns; every other command is recorded.
type FakeHost struct {
	lock sync.Mutex

	TokenFunc   func() (string, error)
	ConfirmWith bool

	TokenMints int
	Resizes    []int
	Snackbars  []Snackbar
	Redirects  []hostsdk.View
}

func NewFakeHost() *FakeHost {
	return &FakeHost{
		TokenFunc:   func() (string, error) { return "fake-token", nil },
		ConfirmWith: true,
	}
}

func (h *FakeHost) GetSignedToken(ctx context.Context) (string, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.TokenMints++
	return h.TokenFunc()
}

func (h *FakeHost) Resize(ctx context.Context, height int) error {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.Resizes = append(h.Resizes, height)
	return nil
}

func (h *FakeHost) ShowSnackbar(ctx context.Context, message string, link *hostsdk.SnackbarLink) error {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.Snackbars = append(h.Snackbars, Snackbar{Message: message, Link: link})
	return nil
}

func (h *FakeHost) ShowConfirmation(ctx context.Context, title, description string) (bool, error) {
	return h.ConfirmWith, nil
}

func (h *FakeHost) RedirectTo(ctx context.Context, view hostsdk.View) error {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.Redirects = append(h.Redirects, view)
	return nil
}

// LastResize returns the most recent resize height, or 0 if none happened.
func (h *FakeHost) LastResize() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	if len(h.Resizes) == 0 {
		return 0
	}
	return h.Resizes[len(h.Resizes)-1]
}
