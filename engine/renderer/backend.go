package renderer

import "github.com/spaghettifunk/meshview/engine/renderer/metadata"

// Renderer draws a scene graph from the point of view of a camera.
type Renderer interface {
	Render(graph SceneGraph, camera Camera)
	SetSize(width, height uint32)
}

// Camera is the part of a camera the scene controller drives.
type Camera interface {
	SetAspect(aspect float32)
	UpdateProjection()
}

// SceneGraph holds the renderables currently attached for drawing.
type SceneGraph interface {
	Add(mesh *metadata.Mesh)
	Remove(mesh *metadata.Mesh)
	Meshes() []*metadata.Mesh
}

// Viewport reports the size of the drawing surface.
type Viewport interface {
	Size() (width uint32, height uint32)
}
