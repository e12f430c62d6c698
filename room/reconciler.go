// Package room decides what the deal view shows: a loading state, the
// create-room prompt, the embedded workspace, or an error screen. The
// Reconciler is the single owner of that decision; backend lookups and
// frame lifecycle events feed it, and every transition happens under its
// lock so views never observe interleaved updates.
package room

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/workline/docspace-crm-plugin/backend"
	"github.com/workline/docspace-crm-plugin/docspace"
	"github.com/workline/docspace-crm-plugin/hostsdk"
	"github.com/workline/docspace-crm-plugin/internal/errkind"
	internalerrors "github.com/workline/docspace-crm-plugin/internal/errors"
	"github.com/workline/docspace-crm-plugin/session"
)

// Phase is the single active state of the deal view.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseNeedsAuthentication
	PhaseNeedsCreation
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseNeedsAuthentication:
		return "needs-authentication"
	case PhaseNeedsCreation:
		return "needs-creation"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Container heights are presentation contracts with the host, fixed per UI
// state rather than computed from content.
const (
	promptHeight    = 150
	workspaceHeight = 680
)

// upgradePaymentsPath is appended to the workspace URL in quota messages.
const upgradePaymentsPath = "/portal-settings/payments/portal-payments"

// roomTag marks rooms created by this plugin for traceability.
const roomTag = "crm-deal"

// Reconciler drives one deal's room state. One reconciler per mounted deal
// view; its methods must not be called concurrently with Run.
type Reconciler struct {
	sess   *session.State
	api    *backend.Client
	host   hostsdk.Host
	frame  docspace.Frame
	logger zerolog.Logger

	dealID    int64
	dealTitle string

	lock          sync.Mutex
	phase         Phase
	roomID        string
	kind          errkind.Kind
	frameRevealed bool
	frameConfig   docspace.FrameConfig
}

type ReconcilerOption func(*Reconciler)

func WithLogger(logger zerolog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithFrameConfig sets the mount settings (locale, theme, frame id) the
// view uses when it renders the embedded frame.
func WithFrameConfig(frameConfig docspace.FrameConfig) ReconcilerOption {
	return func(r *Reconciler) {
		r.frameConfig = frameConfig
	}
}

func NewReconciler(sess *session.State, api *backend.Client, host hostsdk.Host, frame docspace.Frame, dealID int64, dealTitle string, options ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		sess:      sess,
		api:       api,
		host:      host,
		frame:     frame,
		logger:    zerolog.Nop(),
		dealID:    dealID,
		dealTitle: dealTitle,
		phase:     PhaseLoading,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *Reconciler) Phase() Phase {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.phase
}

func (r *Reconciler) RoomID() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.roomID
}

func (r *Reconciler) ErrorKind() errkind.Kind {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.kind
}

// FrameRevealed reports whether the embedded frame has confirmed its
// content and been shown.
func (r *Reconciler) FrameRevealed() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.frameRevealed
}

// FrameConfig returns the mount settings for the embedded frame with the
// bound room id filled in. Meaningful once the phase is Ready.
func (r *Reconciler) FrameConfig() docspace.FrameConfig {
	r.lock.Lock()
	defer r.lock.Unlock()
	frameConfig := r.frameConfig
	frameConfig.RoomID = r.roomID
	return frameConfig
}

// Lookup is the entry transition: check the embedded account, then ask the
// backend which room (if any) is bound to the deal. Rendering the frame is
// gated on this lookup; frame events are never raced against it.
func (r *Reconciler) Lookup(ctx context.Context) {
	user := r.sess.User()
	if user == nil || user.DocspaceAccount == nil {
		r.setPhase(PhaseNeedsAuthentication)
		r.resize(ctx, promptHeight)
		return
	}

	room, err := r.api.GetRoom(ctx, r.dealID)
	switch {
	case err == nil && room.RoomID != "":
		r.lock.Lock()
		r.roomID = room.RoomID
		r.phase = PhaseReady
		r.lock.Unlock()
	case err == nil || backend.IsNotFound(err):
		r.enterCreation(ctx, user)
	case backend.IsStatus(err, http.StatusUnauthorized):
		r.fail(errkind.TokenExpired)
	default:
		r.logger.Error().Err(err).Int64("deal_id", r.dealID).Msg("room lookup failed")
		r.fail(errkind.Common)
	}
}

// enterCreation moves to the creation prompt. An account that is not
// allowed to create rooms sees the room-not-found screen instead of the
// prompt, but the phase stays NeedsCreation so a later permission or
// settings change can proceed without a full re-entry.
func (r *Reconciler) enterCreation(ctx context.Context, user *backend.User) {
	kind := errkind.None
	if user.DocspaceAccount != nil && !user.DocspaceAccount.CanCreateRoom {
		kind = errkind.RoomNotFound
	}

	r.lock.Lock()
	r.phase = PhaseNeedsCreation
	r.roomID = ""
	r.kind = kind
	r.lock.Unlock()

	r.resize(ctx, promptHeight)
}

// CreateRoom creates a workspace room for the deal through the embedded
// frame and persists the resulting id. Only valid from the creation prompt.
func (r *Reconciler) CreateRoom(ctx context.Context, roomType docspace.RoomType) error {
	if r.Phase() != PhaseNeedsCreation {
		return internalerrors.ErrWrongPhase
	}

	result, err := r.frame.CreateRoom(ctx, r.dealTitle, roomType, []string{roomTag})
	if err != nil {
		r.snackbar(ctx, "Failed to create room", nil)
		return errors.Wrap(err, "[Reconciler CreateRoom] frame creation failed")
	}

	switch result.Status {
	case http.StatusOK:
		// fall through to persistence below
	case http.StatusPaymentRequired:
		r.snackbar(ctx, "Room quota reached. Upgrade your plan to create more rooms.", r.upgradeLink())
		return internalerrors.ErrQuotaExceeded
	default:
		r.logger.Warn().Int("status", result.Status).Msg("frame reported room creation failure")
		r.snackbar(ctx, "Failed to create room", nil)
		return errors.Wrapf(internalerrors.ErrInternal, "[Reconciler CreateRoom] frame status %d", result.Status)
	}

	if _, err := r.api.SaveRoom(ctx, r.dealID, result.RoomID, int(roomType)); err != nil {
		if backend.IsStatus(err, http.StatusUnauthorized) {
			r.fail(errkind.TokenExpired)
		} else {
			r.snackbar(ctx, "Failed to create room", nil)
		}
		return errors.Wrap(err, "[Reconciler CreateRoom] persisting room id")
	}

	r.lock.Lock()
	r.roomID = result.RoomID
	r.phase = PhaseReady
	r.kind = errkind.None
	r.lock.Unlock()

	r.snackbar(ctx, "Room was successfully created", nil)
	return nil
}

// HandleEvent applies one embedded-frame lifecycle event.
func (r *Reconciler) HandleEvent(ctx context.Context, event docspace.Event) {
	switch event.Type {
	case docspace.EventAppReady:
		r.logger.Debug().Msg("embedded frame ready")

	case docspace.EventContentReady:
		r.lock.Lock()
		r.frameRevealed = true
		r.phase = PhaseReady
		r.lock.Unlock()
		r.resize(ctx, workspaceHeight)

	case docspace.EventAppError:
		r.logger.Error().Str("message", event.Message).Msg("embedded frame reported an error")
		r.fail(errkind.EmbeddedUnreachable)

	case docspace.EventNoAccess:
		r.fail(errkind.RoomNoAccess)

	case docspace.EventNotFound:
		r.dropStaleAssociation(ctx)

	case docspace.EventUnsuccessfulLogin:
		r.sess.ClearDocspaceAccount()
		r.setPhase(PhaseNeedsAuthentication)
		r.resize(ctx, promptHeight)

	default:
		r.logger.Debug().Str("event", string(event.Type)).Msg("ignoring frame event")
	}
}

// dropStaleAssociation handles the frame reporting a room the backend still
// knows about as gone: delete the association and return to the creation
// prompt. Deleting is skipped when the id is already cleared, so a repeated
// not-found does not re-delete.
func (r *Reconciler) dropStaleAssociation(ctx context.Context) {
	r.lock.Lock()
	staleID := r.roomID
	r.roomID = ""
	r.frameRevealed = false
	r.lock.Unlock()

	if staleID != "" {
		if err := r.api.DeleteRoom(ctx, r.dealID); err != nil {
			if backend.IsStatus(err, http.StatusUnauthorized) {
				r.fail(errkind.TokenExpired)
				return
			}
			r.logger.Warn().Err(err).Int64("deal_id", r.dealID).Msg("dropping stale room association failed")
		}
	}

	if user := r.sess.User(); user != nil {
		r.enterCreation(ctx, user)
	} else {
		r.setPhase(PhaseNeedsCreation)
	}
}

// RequestAccess asks the backend to request access to the existing room.
// On success the error is cleared and the entry lookup re-runs, rather than
// waiting for the next render to notice.
func (r *Reconciler) RequestAccess(ctx context.Context) error {
	if r.ErrorKind() != errkind.RoomNoAccess {
		return internalerrors.ErrWrongPhase
	}

	if err := r.api.RequestRoomAccess(ctx, r.dealID); err != nil {
		if backend.IsStatus(err, http.StatusUnauthorized) {
			r.fail(errkind.TokenExpired)
		}
		return errors.Wrap(err, "[Reconciler RequestAccess] requesting room access")
	}

	r.lock.Lock()
	r.kind = errkind.None
	r.phase = PhaseLoading
	r.lock.Unlock()
	r.sess.ClearError()

	r.Lookup(ctx)
	return nil
}

// Run performs the entry lookup and then serves frame events until ctx is
// cancelled or the frame closes its event channel. All transitions happen
// on this goroutine.
func (r *Reconciler) Run(ctx context.Context) {
	r.Lookup(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-r.frame.Events():
			if !ok {
				return
			}
			r.HandleEvent(ctx, event)
		}
	}
}

func (r *Reconciler) setPhase(phase Phase) {
	r.lock.Lock()
	r.phase = phase
	r.lock.Unlock()
}

func (r *Reconciler) fail(kind errkind.Kind) {
	r.lock.Lock()
	r.phase = PhaseError
	r.kind = kind
	r.lock.Unlock()
	r.sess.SetError(kind)
}

func (r *Reconciler) upgradeLink() *hostsdk.SnackbarLink {
	settings := r.sess.Settings()
	if settings == nil || settings.URL == "" {
		return nil
	}
	return &hostsdk.SnackbarLink{
		Label: "Upgrade plan",
		URL:   settings.URL + upgradePaymentsPath,
	}
}

func (r *Reconciler) resize(ctx context.Context, height int) {
	if err := r.host.Resize(ctx, height); err != nil {
		r.logger.Warn().Err(err).Int("height", height).Msg("host resize failed")
	}
}

func (r *Reconciler) snackbar(ctx context.Context, message string, link *hostsdk.SnackbarLink) {
	if err := r.host.ShowSnackbar(ctx, message, link); err != nil {
		r.logger.Warn().Err(err).Msg("host snackbar failed")
	}
}
