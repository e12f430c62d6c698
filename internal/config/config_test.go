package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workline/docspace-crm-plugin/internal/config"
)

func TestGetPortNormalizesColonPrefix(t *testing.T) {
	c := config.New()

	require.Equal(t, ":8080", c.GetPort())

	t.Setenv("PORT", "9090")
	require.Equal(t, ":9090", c.GetPort())

	// An already-prefixed value must not be prefixed again.
	t.Setenv("PORT", ":9090")
	require.Equal(t, ":9090", c.GetPort())
}

func TestBackendURLDefault(t *testing.T) {
	c := config.New()
	require.Equal(t, "http://localhost:8080", c.GetBackendURL())

	t.Setenv("BACKEND_URL", "https://plugin-api.example.com")
	require.Equal(t, "https://plugin-api.example.com", c.GetBackendURL())
}

func TestFrameDefaults(t *testing.T) {
	c := config.New()
	require.Equal(t, "en-US", c.GetDefaultLocale())
	require.Equal(t, "Base", c.GetTheme())
}
