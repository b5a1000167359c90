package tierbin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(`
limits:
  max_capacity: 100
utf8_simd_threshold: 16
zero_copy_strings: true
`))
	require.NoError(t, err)
	assert.Equal(t, 100, opts.Limits.MaxCapacity)
	assert.Equal(t, DefaultOptions.Limits.MaxSize, opts.Limits.MaxSize)
	assert.Equal(t, 16, opts.UTF8SIMDThreshold)
	assert.True(t, opts.ZeroCopyStrings)
	assert.True(t, opts.DeterministicMaps)

	opts, err = LoadOptions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions, opts)

	_, err = LoadOptions(strings.NewReader("max_depth: 3\n"))
	require.Error(t, err)

	_, err = LoadOptions(strings.NewReader("limits:\n  max_size: -1\n"))
	require.Error(t, err)
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tierbin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("deterministic_maps: false\n"), 0o600))
	opts, err := LoadOptionsFile(path)
	require.NoError(t, err)
	assert.False(t, opts.DeterministicMaps)

	_, err = LoadOptionsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegistryLogsCompilation(t *testing.T) {
	var out strings.Builder
	r := NewRegistry(WithLogger(zerolog.New(&out).Level(zerolog.DebugLevel)))
	type rec struct{ A uint16 }
	MustFor[rec](r)
	assert.Contains(t, out.String(), `"message":"compiled codec"`)
	assert.Contains(t, out.String(), `"static":"Some(2)"`)

	opts := SecureOptions
	assert.Equal(t, opts, NewRegistry(WithOptions(opts)).Options())
}
