package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty directory so no stray config.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CUSTNAV_CONFIG", "")
	t.Setenv("PORT", "")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9595", c.Server.Port)
	require.Equal(t, 19, c.Map.MaxZoom)
	require.Equal(t, 15, c.Map.FollowZoom)
	require.Equal(t, 8, c.Map.InitialZoom)
	require.InDelta(t, 6.9271, c.Map.CenterLat, 1e-9)
	require.True(t, c.Routing.RouteWhileDragging)
	require.Zero(t, c.Directory.Timeout)
	require.Empty(t, c.Directory.SourceURL)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
map:
  follow_zoom: 12
directory:
  source_url: http://backend.local:5000
  timeout: 3s
`), 0o644))

	t.Setenv("CUSTNAV_CONFIG", path)
	t.Setenv("CUSTNAV_ROUTING_ROUTE_WHILE_DRAGGING", "false")
	t.Setenv("PORT", "8081")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 12, c.Map.FollowZoom)
	require.Equal(t, "http://backend.local:5000", c.Directory.SourceURL)
	require.Equal(t, 3*time.Second, c.Directory.Timeout)
	require.False(t, c.Routing.RouteWhileDragging)
	require.Equal(t, "8081", c.Server.Port)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CUSTNAV_CONFIG", "/nonexistent/custnav.yaml")

	_, err := Load()
	require.Error(t, err)
}

func TestValidateRejectsBadZoom(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CUSTNAV_CONFIG", "")
	t.Setenv("PORT", "")
	c, err := Load()
	require.NoError(t, err)

	c.Map.FollowZoom = c.Map.MaxZoom + 1
	require.Error(t, Validate(c))

	c.Map.FollowZoom = 15
	c.Directory.SourceURL = "not a url"
	require.Error(t, Validate(c))
}
