package resources

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

/**
 * @brief A mesh loaded from a file. It keeps the source model (the data
 * filters operate on) apart from the renderable mesh handed to the scene,
 * and copies one into the other on UpdateThreeMesh.
 */
type MeshFile struct {
	/** @brief Unique identifier of this loaded instance. */
	ID uuid.UUID
	/** @brief The path the mesh was loaded from. May be empty for generated meshes. */
	FullPath string

	name   string
	data   *metadata.Geometry
	mesh   *metadata.Mesh
	native bool
}

// NewMeshFile wraps source geometry. The renderable mesh starts out as a copy
// of it.
func NewMeshFile(name, fullPath string, data *metadata.Geometry) *MeshFile {
	var mesh *metadata.Mesh
	if data != nil {
		mesh = metadata.NewMesh(name, data.Clone())
	}
	return &MeshFile{
		ID:       uuid.New(),
		FullPath: fullPath,
		name:     name,
		data:     data,
		mesh:     mesh,
	}
}

// NewNativeMeshFile is like NewMeshFile but reports itself as native backed,
// so the renderable is rebuilt from the source model before it is shown.
func NewNativeMeshFile(name, fullPath string, data *metadata.Geometry) *MeshFile {
	f := NewMeshFile(name, fullPath, data)
	f.native = true
	return f
}

func (f *MeshFile) Name() string {
	return f.name
}

func (f *MeshFile) ThreeMesh() *metadata.Mesh {
	return f.mesh
}

// Data returns the source model. Callers that edit it in place must call
// UpdateThreeMesh (usually through the scene) to see the result.
func (f *MeshFile) Data() *metadata.Geometry {
	return f.data
}

func (f *MeshFile) NativeBacked() bool {
	return f.native
}

// UpdateThreeMesh rebuilds the renderable geometry from the source model.
// The mesh transform, visibility and identity are kept.
func (f *MeshFile) UpdateThreeMesh() error {
	if f.mesh == nil || f.mesh.IsDisposed() {
		return fmt.Errorf("mesh file '%s' was disposed", f.name)
	}
	if f.data == nil {
		return fmt.Errorf("mesh file '%s' has no source data", f.name)
	}
	f.data.UpdateExtents()
	f.mesh.ReplaceGeometry(f.data.Clone())
	core.LogDebug("rebuilt renderable for '%s' (%d vertices)", f.name, len(f.data.Vertices))
	return nil
}

func (f *MeshFile) Dispose() {
	if f.mesh != nil {
		f.mesh.Dispose()
	}
	f.data = nil
}
