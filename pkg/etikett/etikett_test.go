package etikett

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etikett.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
in_dir: /photos
out_dir: /photos/temp
model: llava:13b
min_edge: 1000
clean_tags: true
`), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	c.ApplyDefaults()

	assert.Equal(t, "/photos", c.InDir)
	assert.Equal(t, "/photos/temp", c.OutDir)
	assert.Equal(t, "llava:13b", c.Model)
	assert.Equal(t, 1000, c.MinEdge)
	assert.True(t, c.CleanTags)

	// defaults fill the rest
	assert.Equal(t, "ollama", c.Backend)
	assert.Equal(t, DefaultEndpoint, c.Endpoint)
	assert.Equal(t, DefaultPrompt, c.Prompt)
	assert.Equal(t, DefaultQuality, c.Quality)
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	c := &Config{}
	c.ApplyDefaults()

	assert.Equal(t, "ollama", c.Backend)
	assert.Equal(t, DefaultEndpoint, c.Endpoint)
	assert.Equal(t, DefaultModel, c.Model)
	assert.Equal(t, DefaultPrompt, c.Prompt)
	assert.Equal(t, DefaultMinEdge, c.MinEdge)
	assert.Equal(t, DefaultQuality, c.Quality)
	assert.False(t, c.CleanTags)
}

func TestApplyDefaultsGemini(t *testing.T) {
	c := &Config{Backend: "gemini"}
	c.ApplyDefaults()
	assert.Equal(t, DefaultGeminiModel, c.Model)
}
