package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exportedYAML mirrors real `conda env export` output, including the
// machine-specific prefix line and a nested pip sublist.
const exportedYAML = `name: gconda
channels:
  - conda-forge
  - defaults
dependencies:
  - python=3.10.14
  - ipython=8.24.0
  - pip=24.0
  - pip:
      - gdown==5.2.0
      - requests==2.32.3
prefix: /opt/conda/envs/gconda
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(exportedYAML))
	require.NoError(t, err)

	assert.Equal(t, "gconda", f.Name)
	assert.Equal(t, []string{"conda-forge", "defaults"}, f.Channels)
	assert.Equal(t, "/opt/conda/envs/gconda", f.Prefix)
	require.Len(t, f.Dependencies, 4)
	assert.Equal(t, "python=3.10.14", f.Dependencies[0])

	// The pip sublist decodes as a map entry in the dependency sequence.
	pipEntry, ok := f.Dependencies[3].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, pipEntry, "pip")
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	f, err := Parse([]byte(exportedYAML))
	require.NoError(t, err)

	f.Normalize("shared-env")
	assert.Empty(t, f.Prefix)
	assert.Equal(t, "shared-env", f.Name)

	// An empty name keeps the document's own name.
	g, err := Parse([]byte(exportedYAML))
	require.NoError(t, err)
	g.Normalize("")
	assert.Equal(t, "gconda", g.Name)
	assert.Empty(t, g.Prefix)
}

func TestWriteAndLoad(t *testing.T) {
	f, err := Parse([]byte(exportedYAML))
	require.NoError(t, err)
	f.Normalize("")

	path := filepath.Join(t.TempDir(), "environment.yml")
	require.NoError(t, f.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f.Name, loaded.Name)
	assert.Equal(t, f.Channels, loaded.Channels)
	assert.Len(t, loaded.Dependencies, 4)
	assert.Empty(t, loaded.Prefix)

	// The prefix key must not appear in the written document at all.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "prefix:")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "environment.yml"))
	assert.Error(t, err)
}
