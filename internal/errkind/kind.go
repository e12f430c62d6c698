// Package errkind defines the closed set of user-facing failure states of
// the plugin. Exactly one kind is active at a time; None means the normal
// flow is running.
package errkind

// Kind identifies which error screen the plugin presents and which recovery
// action it offers.
type Kind int

const (
	None Kind = iota
	Common
	TokenExpired
	PluginNotAvailable
	RoomNotFound
	RoomNoAccess
	EmbeddedUnreachable
	InvalidAPIKey
	WebhooksNotInstalled
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Common:
		return "common"
	case TokenExpired:
		return "token-expired"
	case PluginNotAvailable:
		return "plugin-not-available"
	case RoomNotFound:
		return "room-not-found"
	case RoomNoAccess:
		return "room-no-access"
	case EmbeddedUnreachable:
		return "embedded-unreachable"
	case InvalidAPIKey:
		return "invalid-api-key"
	case WebhooksNotInstalled:
		return "webhooks-not-installed"
	default:
		return "unknown"
	}
}

// Action is the single primary recovery action offered on an error screen.
type Action int

const (
	ActionReload Action = iota
	ActionReauthorize
	ActionGoToSettings
	ActionRequestAccess
)

// RecoveryAction returns the primary action for a kind. Configuration
// problems are only actionable by admins; everyone else just gets a reload.
func (k Kind) RecoveryAction(isAdmin bool) Action {
	switch k {
	case TokenExpired:
		return ActionReauthorize
	case RoomNoAccess:
		return ActionRequestAccess
	case PluginNotAvailable, InvalidAPIKey, WebhooksNotInstalled:
		if isAdmin {
			return ActionGoToSettings
		}
		return ActionReload
	default:
		return ActionReload
	}
}
