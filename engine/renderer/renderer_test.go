package renderer

import (
	"io"
	"testing"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/components"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	core.SetLogOutput(io.Discard)
}

func cube(name string) *metadata.Mesh {
	return metadata.NewMesh(name, metadata.GenerateCube(1, 1, 1, math.NewVec3Zero(), name))
}

func TestGraph_AddRemove(t *testing.T) {
	g := NewGraph()
	a, b := cube("a"), cube("b")

	g.Add(a)
	g.Add(b)
	g.Add(a)
	assert.Equal(t, []*metadata.Mesh{a, b}, g.Meshes())

	g.Remove(a)
	g.Remove(a)
	assert.Equal(t, []*metadata.Mesh{b}, g.Meshes())
}

func TestHeadlessRenderer_SkipsHiddenMeshes(t *testing.T) {
	g := NewGraph()
	a, b := cube("a"), cube("b")
	g.Add(a)
	g.Add(b)
	b.Visible = false

	r := NewHeadlessRenderer(640, 480)
	assert.Nil(t, r.LastPacket())

	cam := components.NewCamera(45, 640.0/480.0, 0.1, 1800)
	r.Render(g, cam)
	packet := r.LastPacket()
	require.NotNil(t, packet)
	assert.Equal(t, uint64(1), packet.FrameNumber)
	assert.Equal(t, []*metadata.Mesh{a}, packet.Meshes)

	r.SetSize(800, 600)
	r.Render(g, cam)
	assert.Equal(t, uint64(2), r.FrameCount())
	assert.Equal(t, uint32(800), r.LastPacket().Width)
}

func TestFixedViewport(t *testing.T) {
	v := NewFixedViewport(10, 20)
	w, h := v.Size()
	assert.Equal(t, uint32(10), w)
	assert.Equal(t, uint32(20), h)
	v.Resize(30, 40)
	w, h = v.Size()
	assert.Equal(t, uint32(30), w)
	assert.Equal(t, uint32(40), h)
}
