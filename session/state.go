// Package session owns the process-wide application state: the current CRM
// user, the installation's connection settings, and the single active error
// kind. All mutation goes through State's setters behind one lock, so views
// observe sequential, non-interleaved updates.
package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/workline/docspace-crm-plugin/backend"
	"github.com/workline/docspace-crm-plugin/docspace"
	"github.com/workline/docspace-crm-plugin/hostsdk"
	"github.com/workline/docspace-crm-plugin/internal/errkind"
	internalerrors "github.com/workline/docspace-crm-plugin/internal/errors"
)

type State struct {
	host   hostsdk.Host
	api    *backend.Client
	logger zerolog.Logger

	lock         sync.Mutex
	user         *backend.User
	settings     *backend.Settings
	kind         errkind.Kind
	bootstrapped bool
}

type StateOption func(*State)

func WithLogger(logger zerolog.Logger) StateOption {
	return func(s *State) {
		s.logger = logger
	}
}

func New(host hostsdk.Host, api *backend.Client, options ...StateOption) *State {
	s := &State{
		host:   host,
		api:    api,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Bootstrap runs the startup sequence: fetch user, fetch settings, re-check
// a stored-but-unvalidated API key once, then derive the availability error.
// Failures never panic the app; they land in the error kind.
func (s *State) Bootstrap(ctx context.Context) {
	s.reset()

	user, err := s.api.GetUser(ctx)
	if err != nil {
		s.failBootstrap(err, "fetching user")
		return
	}

	settings, err := s.api.GetSettings(ctx)
	if err != nil {
		s.failBootstrap(err, "fetching settings")
		return
	}

	if settings.APIKey != "" && !settings.APIKeyValid {
		revalidated, err := s.api.ValidateAPIKey(ctx)
		switch {
		case err == nil:
			settings = revalidated
		case backend.IsStatus(err, http.StatusUnauthorized):
			s.failBootstrap(err, "validating api key")
			return
		case backend.IsStatus(err, http.StatusBadRequest):
			// Key is still rejected; keep the stored settings as-is.
		default:
			s.logger.Warn().Err(err).Msg("api key validation failed, continuing bootstrap")
		}
	}

	s.lock.Lock()
	s.user = user
	s.settings = settings
	s.kind = deriveAvailability(user, settings)
	s.bootstrapped = true
	s.lock.Unlock()
}

// Reload tears the session down and re-runs the whole bootstrap. Any
// previously-set error kind is cleared before the new classification runs.
func (s *State) Reload(ctx context.Context) {
	s.Bootstrap(ctx)
}

func (s *State) reset() {
	s.lock.Lock()
	s.user = nil
	s.settings = nil
	s.kind = errkind.None
	s.bootstrapped = false
	s.lock.Unlock()
}

func (s *State) failBootstrap(err error, step string) {
	kind := backend.Classify(err)
	s.logger.Error().Err(err).Str("step", step).Stringer("kind", kind).Msg("bootstrap failed")

	s.lock.Lock()
	s.kind = kind
	s.bootstrapped = true
	s.lock.Unlock()
}

// deriveAvailability reports whether the installation is usable for this
// user. Non-admins with no workspace connection and no personal account get
// the hard "not available" screen; configuration defects surface their own
// kinds so admins see what to fix.
func deriveAvailability(user *backend.User, settings *backend.Settings) errkind.Kind {
	if !user.IsAdmin && (settings.URL == "" || !settings.ExistSystemUser) && user.DocspaceAccount == nil {
		return errkind.PluginNotAvailable
	}
	if settings.APIKey != "" && !settings.APIKeyValid {
		return errkind.InvalidAPIKey
	}
	if settings.URL != "" && !settings.WebhooksInstalled {
		return errkind.WebhooksNotInstalled
	}
	return errkind.None
}

func (s *State) User() *backend.User {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.user
}

func (s *State) Settings() *backend.Settings {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.settings
}

func (s *State) Error() errkind.Kind {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.kind
}

func (s *State) SetError(kind errkind.Kind) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.kind = kind
}

func (s *State) ClearError() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.kind = errkind.None
}

func (s *State) SetSettings(settings *backend.Settings) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.settings = settings
}

// ClearDocspaceAccount drops the cached embedded credential, forcing the
// user back through authorization. Used when the frame rejects a login.
func (s *State) ClearDocspaceAccount() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.user != nil {
		s.user.DocspaceAccount = nil
	}
}

// AuthorizeAccount logs the user into the embedded workspace and persists
// the credential link: hash the password with the workspace's parameters,
// prove it against the frame, then store the link backend-side. With
// system=true the credential becomes the installation's system account.
func (s *State) AuthorizeAccount(ctx context.Context, frame docspace.Frame, email, password string, system bool) error {
	if s.User() == nil {
		return internalerrors.ErrNotBootstrapped
	}

	hashSettings, err := frame.GetHashSettings(ctx)
	if err != nil {
		return errors.Wrap(err, "[State AuthorizeAccount] fetching hash settings")
	}
	passwordHash := docspace.HashPassword(password, *hashSettings)

	if err := frame.Login(ctx, email, passwordHash); err != nil {
		return fmt.Errorf("%w: %w", internalerrors.ErrLoginRejected, err)
	}

	if err := s.api.PutDocspaceAccount(ctx, email, passwordHash, system); err != nil {
		if kind := backend.Classify(err); kind != errkind.Common {
			s.SetError(kind)
		}
		return errors.Wrap(err, "[State AuthorizeAccount] saving account link")
	}

	// Refetch so canCreateRoom and the system flag reflect the stored link.
	user, err := s.api.GetUser(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("refetching user after authorization failed")
		return nil
	}

	s.lock.Lock()
	s.user = user
	s.lock.Unlock()
	return nil
}

// UnlinkAccount removes the embedded credential link after the user
// confirms through the host dialog. Declining leaves the link untouched.
func (s *State) UnlinkAccount(ctx context.Context) error {
	confirmed, err := s.host.ShowConfirmation(ctx, "Log out", "Disconnect your workspace account from this CRM user?")
	if err != nil {
		return errors.Wrap(err, "[State UnlinkAccount] host confirmation failed")
	}
	if !confirmed {
		return nil
	}

	if err := s.api.DeleteDocspaceAccount(ctx); err != nil {
		return errors.Wrap(err, "[State UnlinkAccount] deleting account link")
	}
	s.ClearDocspaceAccount()
	return nil
}
