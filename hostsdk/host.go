// Package hostsdk wraps the CRM host application's extension SDK. The host
// executes commands on behalf of the embedded plugin: minting signed tokens,
// resizing the plugin iframe, showing notifications and confirmations, and
// redirecting the user to other host views. Everything behind Host is an
// opaque external surface; this package only pins down the types the rest
// of the plugin relies on.
package hostsdk

import "context"

// View identifies a host-side page a redirect can target.
type View string

const (
	ViewSettings View = "settings"
	ViewDeal     View = "deal"
)

// SnackbarLink is an optional action link attached to a snackbar message.
type SnackbarLink struct {
	Label string
	URL   string
}

// Host is the command surface of the CRM extension SDK.
type Host interface {
	// GetSignedToken mints a short-lived bearer credential proving the
	// plugin acts on behalf of the authenticated host user.
	GetSignedToken(ctx context.Context) (string, error)

	// Resize sets the plugin container height in pixels.
	Resize(ctx context.Context, height int) error

	// ShowSnackbar displays a transient notification, optionally with a link.
	ShowSnackbar(ctx context.Context, message string, link *SnackbarLink) error

	// ShowConfirmation displays a modal and reports whether the user confirmed.
	ShowConfirmation(ctx context.Context, title, description string) (bool, error)

	// RedirectTo navigates the host application to the given view.
	RedirectTo(ctx context.Context, view View) error
}
