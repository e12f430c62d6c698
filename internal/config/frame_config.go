package config

type Frame struct{}

var _ FrameConfig = Frame{}

// GetDefaultLocale is the locale handed to the embedded frame when the CRM
// user's locale has no workspace equivalent.
func (Frame) GetDefaultLocale() string {
	return GetEnv("FRAME_LOCALE", "en-US")
}

func (Frame) GetTheme() string {
	return GetEnv("FRAME_THEME", "Base")
}
