package docspace

import "github.com/workline/docspace-crm-plugin/internal/config"

// DefaultFrameID is the DOM id the embedded frame mounts under.
const DefaultFrameID = "docspace-frame"

// FrameConfig is how the embedded frame gets mounted: which room it opens
// and the locale and theme it renders with. RoomID is filled in by the
// reconciler once a room is bound.
type FrameConfig struct {
	FrameID string
	RoomID  string
	Locale  string
	Theme   string
}

// NewFrameConfig resolves mount settings for a CRM user locale, falling
// back to the configured default when the tag is empty or has no
// workspace equivalent.
func NewFrameConfig(cfg config.FrameConfig, crmLocale string) FrameConfig {
	if crmLocale == "" {
		crmLocale = cfg.GetDefaultLocale()
	}
	return FrameConfig{
		FrameID: DefaultFrameID,
		Locale:  LocaleFor(crmLocale),
		Theme:   cfg.GetTheme(),
	}
}
