package config

type Config interface {
	EnvConfig
	FrameConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBackendURL() string
	GetLogLevel() string
	GetEnv() string
}

type FrameConfig interface {
	GetDefaultLocale() string
	GetTheme() string
}

type mainConfig struct {
	EnvVars
	Frame
}

func New() Config {
	return mainConfig{}
}
