package testbed

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	core.SetLogOutput(io.Discard)
}

func TestTestViewer(t *testing.T) {
	config := engine.DefaultConfig()
	config.Watcher.Enabled = false

	tv, err := NewTestViewer(config, filepath.Join("..", "assets", "primitives"))
	require.NoError(t, err)

	v, err := engine.New(tv.Application)
	require.NoError(t, err)
	require.NoError(t, v.Initialize())

	s := v.Scene()
	assert.Equal(t, 2, s.LayerCount())
	selected, ok := s.GetSelectedLayer()
	require.True(t, ok)
	assert.Equal(t, "A", selected.Name())

	a, _ := s.GetLayerByName("A")
	before, _ := a.Normalization()
	require.NoError(t, tv.Update(displaceEvery))
	after, _ := a.Normalization()
	assert.Equal(t, before, after)

	require.NoError(t, v.Shutdown())
	assert.Equal(t, 0, s.LayerCount())
}

func TestNewTestViewer_RequiresConfig(t *testing.T) {
	_, err := NewTestViewer(nil, "")
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}
