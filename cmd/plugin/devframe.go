package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/workline/docspace-crm-plugin/docspace"
)

var _ docspace.Frame = (*devFrame)(nil)

// devFrame is a scripted embedded workspace: logins always succeed, room
// creation mints a fresh id, and playStartupEvents walks the happy-path
// lifecycle.
type devFrame struct {
	events chan docspace.Event
}

func newDevFrame() *devFrame {
	return &devFrame{events: make(chan docspace.Event, 8)}
}

func (f *devFrame) Login(ctx context.Context, email, passwordHash string) error {
	log.Info().Str("email", email).Msg("frame: login")
	return nil
}

func (f *devFrame) GetUserInfo(ctx context.Context) (*docspace.UserInfo, error) {
	return &docspace.UserInfo{ID: "dev-ws-user", Email: "dev@example.com"}, nil
}

func (f *devFrame) GetHashSettings(ctx context.Context) (*docspace.HashSettings, error) {
	return &docspace.HashSettings{Size: 256, Iterations: 100000, Salt: "dev-salt"}, nil
}

func (f *devFrame) CreateRoom(ctx context.Context, title string, roomType docspace.RoomType, tags []string) (*docspace.CreateRoomResult, error) {
	roomID := uuid.New().String()
	log.Info().Str("title", title).Str("room_id", roomID).Str("type", roomType.Label()).Msg("frame: room created")
	return &docspace.CreateRoomResult{Status: 200, RoomID: roomID}, nil
}

func (f *devFrame) DestroyFrame(ctx context.Context) error {
	close(f.events)
	return nil
}

func (f *devFrame) Events() <-chan docspace.Event {
	return f.events
}

func (f *devFrame) playStartupEvents() {
	f.events <- docspace.Event{Type: docspace.EventAppReady}
	f.events <- docspace.Event{Type: docspace.EventContentReady}
}
