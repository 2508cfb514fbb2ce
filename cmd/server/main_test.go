package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Keep the commands away from any .env in the working directory.
	args = append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	t.Setenv("CATALOG_PATH", "")
	out, err := runCLI(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Mars Colony (mars-colony)")
	assert.Contains(t, out, "  - Vip zero-gravity - $30000")
	assert.Contains(t, out, "    * Galactic Suite")
}

func TestCatalogCommandUsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
destinations:
  - name: Titan Dome
    seat_classes:
      - {name: methane cruiser, price_per_day: 800}
`), 0o644))
	t.Setenv("CATALOG_PATH", path)

	out, err := runCLI(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Titan Dome (titan-dome)")
	assert.NotContains(t, out, "Mars Colony")
}

func TestQuoteCommand(t *testing.T) {
	t.Setenv("CATALOG_PATH", "")
	for _, k := range []string{"TRIP_MIN_DAYS", "TRIP_MAX_DAYS", "TRIP_DEFAULT_DAYS"} {
		t.Setenv(k, "")
	}

	out, err := runCLI(t, "quote", "--destination", "lunar-hotel", "--seat-class", "vip zero-gravity", "--days", "3")
	require.NoError(t, err)
	assert.Equal(t, "Lunar Hotel, Vip zero-gravity - $20000: Total Price for 3 days: $60000\n", out)

	out, err = runCLI(t, "quote", "--destination", "mars-colony", "--seat-class", "economy-shuttles")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Price for 7 days: $35000")

	_, err = runCLI(t, "quote", "--destination", "mars-colony", "--seat-class", "economy-shuttles", "--days", "99")
	assert.Error(t, err)

	_, err = runCLI(t, "quote", "--destination", "mars-colony")
	assert.Error(t, err)
}

func TestServeFailsWithoutSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	_, err := runCLI(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}
