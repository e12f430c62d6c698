package docspace

// RoomType is the workspace's room-kind identifier, a small positive integer.
type RoomType int

const (
	RoomTypeFormFilling   RoomType = 1
	RoomTypeCollaboration RoomType = 2
	RoomTypeCustom        RoomType = 5
	RoomTypePublic        RoomType = 6
	RoomTypeVirtualData   RoomType = 8
)

var roomTypeLabels = map[RoomType]string{
	RoomTypeFormFilling:   "Form filling room",
	RoomTypeCollaboration: "Collaboration room",
	RoomTypeCustom:        "Custom room",
	RoomTypePublic:        "Public room",
	RoomTypeVirtualData:   "Virtual data room",
}

// Label returns the display name of a room type. Unknown identifiers yield
// an empty label, not an error.
func (t RoomType) Label() string {
	return roomTypeLabels[t]
}
