package metadata

import (
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
)

/**
 * @brief Represents the vertex data of a mesh in local coordinates.
 */
type Geometry struct {
	/** @brief The geometry name. */
	Name string
	/** @brief Vertex positions in local coordinates. */
	Vertices []math.Vec3
	/** @brief Triangle indices into Vertices, three per face. */
	Indices []uint32
	/** @brief The geometry generation. Incremented every time the geometry changes. */
	Generation uint16
	/** @brief The center of the geometry in local coordinates. */
	Center math.Vec3
	/** @brief The extents of the geometry in local coordinates. */
	Extents math.Extents3D
}

func NewGeometry(name string, vertices []math.Vec3, indices []uint32) *Geometry {
	g := &Geometry{
		Name:    name,
		Indices: indices,
	}
	g.SetVertices(vertices)
	g.Generation = 0
	return g
}

// SetVertices replaces the vertex positions and recomputes the extents.
func (g *Geometry) SetVertices(vertices []math.Vec3) {
	g.Vertices = vertices
	g.UpdateExtents()
}

// UpdateExtents must be called after vertices are edited in place.
func (g *Geometry) UpdateExtents() {
	g.Extents = math.ExtentsFromPoints(g.Vertices)
	g.Center = g.Extents.Center()
	g.Generation++
}

// Translate shifts every vertex by offset.
func (g *Geometry) Translate(offset math.Vec3) {
	for i := range g.Vertices {
		g.Vertices[i] = g.Vertices[i].Add(offset)
	}
	g.UpdateExtents()
}

// Clone returns a deep copy.
func (g *Geometry) Clone() *Geometry {
	vertices := make([]math.Vec3, len(g.Vertices))
	copy(vertices, g.Vertices)
	indices := make([]uint32, len(g.Indices))
	copy(indices, g.Indices)
	return NewGeometry(g.Name, vertices, indices)
}

// GenerateCube builds an axis aligned box of the given size centered at
// center. Zero sizes default to one.
func GenerateCube(width, height, depth float32, center math.Vec3, name string) *Geometry {
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if depth == 0 {
		core.LogWarn("Depth must be nonzero. Defaulting to one.")
		depth = 1.0
	}

	half_width := width * 0.5
	half_height := height * 0.5
	half_depth := depth * 0.5
	min_x := center.X - half_width
	min_y := center.Y - half_height
	min_z := center.Z - half_depth
	max_x := center.X + half_width
	max_y := center.Y + half_height
	max_z := center.Z + half_depth

	verts := []math.Vec3{
		// Front face
		{X: min_x, Y: min_y, Z: max_z},
		{X: max_x, Y: max_y, Z: max_z},
		{X: min_x, Y: max_y, Z: max_z},
		{X: max_x, Y: min_y, Z: max_z},
		// Back face
		{X: max_x, Y: min_y, Z: min_z},
		{X: min_x, Y: max_y, Z: min_z},
		{X: max_x, Y: max_y, Z: min_z},
		{X: min_x, Y: min_y, Z: min_z},
		// Left
		{X: min_x, Y: min_y, Z: min_z},
		{X: min_x, Y: max_y, Z: max_z},
		{X: min_x, Y: max_y, Z: min_z},
		{X: min_x, Y: min_y, Z: max_z},
		// Right face
		{X: max_x, Y: min_y, Z: max_z},
		{X: max_x, Y: max_y, Z: min_z},
		{X: max_x, Y: max_y, Z: max_z},
		{X: max_x, Y: min_y, Z: min_z},
		// Bottom face
		{X: max_x, Y: min_y, Z: max_z},
		{X: min_x, Y: min_y, Z: min_z},
		{X: max_x, Y: min_y, Z: min_z},
		{X: min_x, Y: min_y, Z: max_z},
		// Top face
		{X: min_x, Y: max_y, Z: max_z},
		{X: max_x, Y: max_y, Z: min_z},
		{X: min_x, Y: max_y, Z: min_z},
		{X: max_x, Y: max_y, Z: max_z},
	}

	indices := make([]uint32, 6*6)
	for i := uint32(0); i < 6; i++ {
		v_offset := i * 4
		i_offset := i * 6
		indices[i_offset+0] = v_offset + 0
		indices[i_offset+1] = v_offset + 1
		indices[i_offset+2] = v_offset + 2
		indices[i_offset+3] = v_offset + 0
		indices[i_offset+4] = v_offset + 3
		indices[i_offset+5] = v_offset + 1
	}

	return NewGeometry(name, verts, indices)
}
