package backend

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

const (
	roomGetTimeout    = 10 * time.Second
	roomSaveTimeout   = 30 * time.Second
	roomAccessTimeout = 15 * time.Second
	roomDeleteTimeout = 10 * time.Second
)

func roomPath(dealID int64) string {
	return "/room/" + strconv.FormatInt(dealID, 10)
}

// GetRoom looks up the room bound to a deal. A 404 means no room is
// associated yet; callers should treat it via IsNotFound, not as a failure.
func (c *Client) GetRoom(ctx context.Context, dealID int64) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodGet, roomPath(dealID), nil, roomGetTimeout, retryRead, &room); err != nil {
		return nil, err
	}
	room.DealID = dealID
	return &room, nil
}

// SaveRoom persists a workspace room id against the deal. The room itself
// is created by the embedded workspace; this only records the association.
func (c *Client) SaveRoom(ctx context.Context, dealID int64, roomID string, roomType int) (*Room, error) {
	body := map[string]any{
		"roomId":   roomID,
		"roomType": roomType,
	}

	var room Room
	if err := c.do(ctx, http.MethodPost, roomPath(dealID), body, roomSaveTimeout, retryMutate, &room); err != nil {
		return nil, err
	}
	room.DealID = dealID
	return &room, nil
}

// RequestRoomAccess asks the room owner to grant the current user access.
func (c *Client) RequestRoomAccess(ctx context.Context, dealID int64) error {
	return c.do(ctx, http.MethodPost, roomPath(dealID)+"/request-access", nil, roomAccessTimeout, retryMutate, nil)
}

// DeleteRoom drops a stale deal-to-room association. It does not destroy
// the remote room.
func (c *Client) DeleteRoom(ctx context.Context, dealID int64) error {
	return c.do(ctx, http.MethodDelete, roomPath(dealID), nil, roomDeleteTimeout, retryMutate, nil)
}
