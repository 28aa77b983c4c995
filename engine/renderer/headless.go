package renderer

import (
	"sync"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// RenderPacket describes one drawn frame.
type RenderPacket struct {
	FrameNumber uint64
	Width       uint32
	Height      uint32
	Meshes      []*metadata.Mesh
}

// HeadlessRenderer is a Renderer without a GPU. Every call to Render builds
// a packet of the visible meshes and keeps the last one around, which is
// enough to drive the viewer from tests and tools.
type HeadlessRenderer struct {
	mu          sync.Mutex
	width       uint32
	height      uint32
	frameNumber uint64
	last        *RenderPacket
}

func NewHeadlessRenderer(width, height uint32) *HeadlessRenderer {
	return &HeadlessRenderer{
		width:  width,
		height: height,
	}
}

func (r *HeadlessRenderer) Render(graph SceneGraph, camera Camera) {
	r.mu.Lock()
	defer r.mu.Unlock()

	packet := &RenderPacket{
		Width:  r.width,
		Height: r.height,
	}
	for _, m := range graph.Meshes() {
		if m.Visible && !m.IsDisposed() {
			packet.Meshes = append(packet.Meshes, m)
		}
	}
	r.frameNumber++
	packet.FrameNumber = r.frameNumber
	r.last = packet

	core.LogDebug("frame %d: %d visible meshes at %dx%d", packet.FrameNumber, len(packet.Meshes), r.width, r.height)
}

func (r *HeadlessRenderer) SetSize(width, height uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
}

// LastPacket returns the most recently rendered frame, or nil.
func (r *HeadlessRenderer) LastPacket() *RenderPacket {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *HeadlessRenderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameNumber
}

// FixedViewport is a Viewport whose size only changes through Resize.
type FixedViewport struct {
	mu     sync.RWMutex
	width  uint32
	height uint32
}

func NewFixedViewport(width, height uint32) *FixedViewport {
	return &FixedViewport{width: width, height: height}
}

func (v *FixedViewport) Size() (uint32, uint32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

func (v *FixedViewport) Resize(width, height uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.height = height
}
