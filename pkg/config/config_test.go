package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printkit/printkit-go/pkg/discovery"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, discovery.DefaultScheme, cfg.Scheme)
	assert.Equal(t, discovery.DefaultPort, cfg.Port)
	assert.Equal(t, discovery.ProbePaths(), cfg.ProbePaths)
	assert.NotEmpty(t, cfg.StatePath)
	assert.Empty(t, cfg.EventLog)
	assert.False(t, cfg.MDNS.Enabled)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printdisc.yaml")
	data := `
state_path: /var/lib/printdisc/printers.json
event_log: /var/log/printdisc.plog
scheme: ipps
port: 443
probe_paths:
  - ipp/print
  - ""
mdns:
  enabled: true
  interface: eth0
  secure: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/printdisc/printers.json", cfg.StatePath)
	assert.Equal(t, "/var/log/printdisc.plog", cfg.EventLog)
	assert.Equal(t, "ipps", cfg.Scheme)
	assert.Equal(t, 443, cfg.Port)
	assert.Equal(t, []string{"ipp/print", ""}, cfg.ProbePaths)
	assert.True(t, cfg.MDNS.Enabled)
	assert.Equal(t, "eth0", cfg.MDNS.Interface)
	assert.True(t, cfg.MDNS.Secure)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printdisc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8631\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8631, cfg.Port)
	assert.Equal(t, discovery.DefaultScheme, cfg.Scheme)
	assert.Equal(t, discovery.ProbePaths(), cfg.ProbePaths)
	assert.NotEmpty(t, cfg.StatePath)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printdisc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
