package backend

// Settings is the per-installation connection configuration stored by the
// plugin backend. APIKeyValid is only meaningful while APIKey is non-empty.
type Settings struct {
	URL               string `json:"url"`
	APIKey            string `json:"apiKey"`
	APIKeyValid       bool   `json:"isApiKeyValid"`
	WebhooksInstalled bool   `json:"isWebhooksInstalled"`
	ExistSystemUser   bool   `json:"existSystemUser"`
}

// DocspaceAccount links a CRM user to an embedded-workspace credential.
type DocspaceAccount struct {
	UserName      string `json:"userName"`
	PasswordHash  string `json:"passwordHash"`
	CanCreateRoom bool   `json:"canCreateRoom"`
}

// User is the current CRM user as the backend sees it. A nil
// DocspaceAccount means the user has not authenticated against the
// embedded workspace yet.
type User struct {
	IsAdmin         bool             `json:"isAdmin"`
	IsSystemUser    bool             `json:"isSystem"`
	DocspaceAccount *DocspaceAccount `json:"docspaceAccount"`
}

// Room is the association between a CRM deal and a workspace room. An empty
// RoomID means no room has been bound to the deal yet.
type Room struct {
	RoomID string `json:"roomId"`
	Title  string `json:"title"`
	DealID int64  `json:"dealId"`
}
