package scene

import (
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// MeshLayer is what a loader hands to the scene: a named object able to
// produce a renderable mesh, refresh it and release it.
type MeshLayer interface {
	Name() string
	ThreeMesh() *metadata.Mesh
	UpdateThreeMesh() error
	Dispose()
}

// NativeBacked is implemented by layers whose renderable has to be rebuilt
// from their source data before it is first shown.
type NativeBacked interface {
	NativeBacked() bool
}

func isNativeBacked(layer MeshLayer) bool {
	n, ok := layer.(NativeBacked)
	return ok && n.NativeBacked()
}

/**
 * @brief The transform the normalization engine applied to a layer on its
 * last run. Scale first, then offset.
 */
type Normalization struct {
	/** @brief Uniform scale applied about the world origin. */
	ScaleFactor float32
	/** @brief Translation applied after scaling. */
	Offset math.Vec3
}

// Layer is one registered mesh.
type Layer struct {
	source MeshLayer
	name   string
	mesh   *metadata.Mesh
	// nil until the layer took part in a normalization run
	normalization *Normalization
}

func newLayer(source MeshLayer) *Layer {
	return &Layer{
		source: source,
		name:   source.Name(),
		mesh:   source.ThreeMesh(),
	}
}

func (l *Layer) Name() string {
	return l.name
}

// Source returns the object the layer was created from.
func (l *Layer) Source() MeshLayer {
	return l.source
}

// Mesh returns the renderable mesh attached to the scene graph.
func (l *Layer) Mesh() *metadata.Mesh {
	return l.mesh
}

func (l *Layer) Visible() bool {
	return l.mesh != nil && l.mesh.Visible
}

// Normalization returns a copy of the recorded normalization and whether
// there is one.
func (l *Layer) Normalization() (Normalization, bool) {
	if l.normalization == nil {
		return Normalization{}, false
	}
	return *l.normalization, true
}

// undoNormalization puts the mesh back where it was before the last
// normalization run and forgets it.
func (l *Layer) undoNormalization() {
	if l.normalization == nil {
		return
	}
	if l.mesh != nil && l.mesh.Transform != nil {
		l.mesh.Transform.Translate(l.normalization.Offset.Negate())
		l.mesh.Transform.ScaleAboutOrigin(1 / l.normalization.ScaleFactor)
	}
	l.normalization = nil
}

// LayerAddedEvent is the payload of EVENT_CODE_LAYER_ADDED.
type LayerAddedEvent struct {
	Layer *Layer
	// number of registered layers after the add
	Count int
}
