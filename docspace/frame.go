// Package docspace wraps the embedded document-workspace SDK. The real SDK
// is an iframe bridge with loosely-typed payloads; this package is the one
// place those payloads are translated into plugin types, so the rest of the
// code never touches the raw surface.
package docspace

import "context"

// EventType is a lifecycle event reported by the embedded frame.
type EventType string

const (
	EventAppReady          EventType = "app-ready"
	EventContentReady      EventType = "content-ready"
	EventAppError          EventType = "app-error"
	EventNoAccess          EventType = "no-access"
	EventNotFound          EventType = "not-found"
	EventUnsuccessfulLogin EventType = "unsuccessful-login"
)

// Event is a typed lifecycle message from the embedded frame. Message
// carries whatever diagnostic text the frame attached, if any.
type Event struct {
	Type    EventType
	Message string
}

// UserInfo is the workspace-side identity of the logged-in user.
type UserInfo struct {
	ID    string
	Email string
}

// HashSettings are the workspace's password hashing parameters, fetched
// before computing a login hash.
type HashSettings struct {
	Size       int
	Iterations int
	Salt       string
}

// CreateRoomResult is the frame's answer to a room creation request. Status
// follows HTTP semantics: 200 means created, 402 means the plan's room
// quota is exhausted.
type CreateRoomResult struct {
	Status int
	RoomID string
}

// Frame is the control API of the embedded workspace iframe.
type Frame interface {
	Login(ctx context.Context, email, passwordHash string) error
	GetUserInfo(ctx context.Context) (*UserInfo, error)
	GetHashSettings(ctx context.Context) (*HashSettings, error)
	CreateRoom(ctx context.Context, title string, roomType RoomType, tags []string) (*CreateRoomResult, error)
	DestroyFrame(ctx context.Context) error

	// Events delivers lifecycle events in the order the frame fires them.
	Events() <-chan Event
}
