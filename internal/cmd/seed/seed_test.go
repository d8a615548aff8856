package seed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
)

const fixturesYAML = `
users:
  - name: Ana Lima
    email: ana@example.com
    password: secret123
events:
  - title: Frevo Night
    owner: ana@example.com
    description: Live frevo orchestra.
    starts_in: 2d
    price: "15.50"
    address:
      street: Praça do Arsenal
      city: Recife
      state: Pernambuco
      country: Brasil
      lat: -8.0613
      lng: -34.8716
`

func runCommand(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand(&cfg, &out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		DBPath:        filepath.Join(t.TempDir(), "data", "api.db"),
		GeocodeRate:   1,
		SeedUserName:  "XploreHub",
		SeedUserEmail: "seed@xplorehub.local",
	}
}

func TestFixturesCommandIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(file, []byte(fixturesYAML), 0o600))

	out, err := runCommand(t, cfg, "fixtures", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "users: 1 created, 0 skipped; events: 1 created, 0 skipped")

	out, err = runCommand(t, cfg, "fixtures", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "users: 0 created, 1 skipped; events: 0 created, 1 skipped")
}

func TestFixturesCommandRequiresFile(t *testing.T) {
	_, err := runCommand(t, testConfig(t), "fixtures")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestDBFlagOverridesConfig(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(file, []byte(fixturesYAML), 0o600))
	other := filepath.Join(t.TempDir(), "other.db")

	_, err := runCommand(t, cfg, "--db", other, "fixtures", "--file", file)
	require.NoError(t, err)
	assert.FileExists(t, other)
	assert.NoFileExists(t, cfg.DBPath)
}

func TestModelsCommandWithoutAPIKey(t *testing.T) {
	_, err := runCommand(t, testConfig(t), "models")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSeedUnavailable, apperrors.CodeOf(err))
}

func TestRegionCommandRequiresRegion(t *testing.T) {
	_, err := runCommand(t, testConfig(t), "region", "--city", "Recife")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "country")
}

func TestRegionCommandWithoutAPIKey(t *testing.T) {
	_, err := runCommand(t, testConfig(t), "region", "--city", "Recife", "--state", "Pernambuco", "--country", "Brasil")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSeedUnavailable, apperrors.CodeOf(err))
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig()
	require.NoError(t, err)
	assert.Equal(t, "data/api.db", cfg.DBPath)
	assert.Equal(t, "seed@xplorehub.local", cfg.SeedUserEmail)
}
