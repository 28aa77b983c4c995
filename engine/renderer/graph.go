package renderer

import (
	"sync"

	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// Graph is a flat, in-memory SceneGraph. Meshes are kept in attach order and
// attaching the same mesh twice is a no-op.
type Graph struct {
	mu     sync.RWMutex
	meshes []*metadata.Mesh
}

func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) Add(mesh *metadata.Mesh) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range g.meshes {
		if m == mesh {
			return
		}
	}
	g.meshes = append(g.meshes, mesh)
}

func (g *Graph) Remove(mesh *metadata.Mesh) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, m := range g.meshes {
		if m == mesh {
			g.meshes = append(g.meshes[:i], g.meshes[i+1:]...)
			return
		}
	}
}

// Meshes returns a snapshot of the attached meshes.
func (g *Graph) Meshes() []*metadata.Mesh {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*metadata.Mesh, len(g.meshes))
	copy(out, g.meshes)
	return out
}
