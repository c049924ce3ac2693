package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDataHome(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	t.Setenv("XDG_DATA_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	return dir
}

func TestInstall(t *testing.T) {
	home := useDataHome(t)

	assert.Empty(t, IconPath("serene_test"))

	require.NoError(t, Install("serene_test"))

	want := filepath.Join(home, "serene_test", IconFile)

	assert.Equal(t, want, IconPath("serene_test"))

	b, err := os.ReadFile(want)
	require.NoError(t, err)

	embedded, err := embeddedFiles.ReadFile("files/" + IconFile)
	require.NoError(t, err)

	assert.Equal(t, embedded, b)
}

func TestInstallKeepsExistingFiles(t *testing.T) {
	home := useDataHome(t)

	dest := filepath.Join(home, "serene_test", IconFile)

	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("custom"), 0o644))

	require.NoError(t, Install("serene_test"))

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(b))
}
