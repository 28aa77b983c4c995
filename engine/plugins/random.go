package plugins

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/scene"
	"golang.org/x/exp/rand"
)

const (
	MinDisplacementAmount float32 = 0
	MaxDisplacementAmount float32 = 0.1
	// DefaultDisplacementAmount is a fraction of the mesh diagonal.
	DefaultDisplacementAmount float32 = 0.01
)

// GeometryLayer is a mesh layer whose source geometry can be edited.
type GeometryLayer interface {
	scene.MeshLayer
	Data() *metadata.Geometry
}

// LayerUpdater pushes an edited layer back to the screen.
type LayerUpdater interface {
	UpdateLayer(layer scene.MeshLayer) error
}

/**
 * @brief Moves every vertex of a layer by a random vector. Each component
 * lies in [-amount, amount] times the diagonal of the layer's bounding box.
 */
type RandomDisplacement struct {
	amount float32
	rng    *rand.Rand
	clock  *core.Clock
}

func NewRandomDisplacement(amount float32, seed uint64) *RandomDisplacement {
	p := &RandomDisplacement{
		rng:   rand.New(rand.NewSource(seed)),
		clock: core.NewClock(),
	}
	p.SetAmount(amount)
	return p
}

// SetAmount clamps the amount to [MinDisplacementAmount, MaxDisplacementAmount].
func (p *RandomDisplacement) SetAmount(amount float32) {
	p.amount = math.Clamp(amount, MinDisplacementAmount, MaxDisplacementAmount)
}

func (p *RandomDisplacement) Amount() float32 {
	return p.amount
}

// Apply displaces the layer's source geometry and asks target to refresh
// the layer.
func (p *RandomDisplacement) Apply(target LayerUpdater, layer GeometryLayer) error {
	data := layer.Data()
	if data == nil {
		return fmt.Errorf("random displacement on '%s': %w", layer.Name(), core.ErrInvalidMeshLayer)
	}

	p.clock.Start()
	distance := p.amount * data.Extents.Diagonal()
	for i, v := range data.Vertices {
		data.Vertices[i] = v.Add(math.NewVec3(
			p.signedUnit()*distance,
			p.signedUnit()*distance,
			p.signedUnit()*distance,
		))
	}
	data.UpdateExtents()
	p.clock.Update()
	p.clock.Stop()
	core.LogDebug("random displacement of '%s' took %.3f ms", layer.Name(), p.clock.ElapsedMS())

	return target.UpdateLayer(layer)
}

func (p *RandomDisplacement) signedUnit() float32 {
	return p.rng.Float32()*2 - 1
}
