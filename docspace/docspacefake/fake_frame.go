package docspacefake

import (
	"context"
	"sync"

	"github.com/workline/docspace-crm-plugin/docspace"
)

var _ docspace.Frame = (*FakeFrame)(nil)

// CreateRoomCall records one CreateRoom invocation.
type CreateRoomCall struct {
	Title    string
	RoomType docspace.RoomType
	Tags     []string
}

// FakeFrame is a scripted embedded frame for tests. CreateResults are
// consumed in order; events are pushed through Fire.
type FakeFrame struct {
	lock sync.Mutex

	LoginErr      error
	UserInfo      *docspace.UserInfo
	HashSettings  *docspace.HashSettings
	CreateResults []*docspace.CreateRoomResult

	Logins      []string
	CreateCalls []CreateRoomCall
	Destroyed   bool

	events chan docspace.Event
}

func NewFakeFrame() *FakeFrame {
	return &FakeFrame{
		UserInfo:     &docspace.UserInfo{ID: "ws-user-1", Email: "jane@example.com"},
		HashSettings: &docspace.HashSettings{Size: 256, Iterations: 100000, Salt: "salt"},
		events:       make(chan docspace.Event, 16),
	}
}

func (f *FakeFrame) Login(ctx context.Context, email, passwordHash string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.Logins = append(f.Logins, email)
	return f.LoginErr
}

func (f *FakeFrame) GetUserInfo(ctx context.Context) (*docspace.UserInfo, error) {
	return f.UserInfo, nil
}

func (f *FakeFrame) GetHashSettings(ctx context.Context) (*docspace.HashSettings, error) {
	return f.HashSettings, nil
}

func (f *FakeFrame) CreateRoom(ctx context.Context, title string, roomType docspace.RoomType, tags []string) (*docspace.CreateRoomResult, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.CreateCalls = append(f.CreateCalls, CreateRoomCall{Title: title, RoomType: roomType, Tags: tags})
	if len(f.CreateResults) == 0 {
		return &docspace.CreateRoomResult{Status: 200, RoomID: "fake-room"}, nil
	}
	result := f.CreateResults[0]
	f.CreateResults = f.CreateResults[1:]
	return result, nil
}

func (f *FakeFrame) DestroyFrame(ctx context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.Destroyed = true
	return nil
}

func (f *FakeFrame) Events() <-chan docspace.Event {
	return f.events
}

// Fire emits a lifecycle event as the real frame would.
func (f *FakeFrame) Fire(eventType docspace.EventType) {
	f.events <- docspace.Event{Type: eventType}
}
