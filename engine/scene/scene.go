package scene

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/meshview/engine/containers"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer"
)

// Collaborators are the external pieces the scene drives. All of them are
// required.
type Collaborators struct {
	Graph    renderer.SceneGraph
	Camera   renderer.Camera
	Renderer renderer.Renderer
	Viewport renderer.Viewport
}

/**
 * @brief Owns the registered layers and keeps them normalized into a shared
 * frame. The scene lock guards the registry and outbound events are fired
 * once it has been released. The layers and meshes it hands out are not
 * locked: they belong to the goroutine that drives the scene, and other
 * goroutines reach the scene through EventBus.Post.
 */
type Scene struct {
	mu sync.Mutex

	bus            *core.EventBus
	collaborators  Collaborators
	targetDiagonal float32

	layers *containers.OrderedMap[string, *Layer]
	// selection is a key into layers, resolved on demand
	selected     string
	hasSelection bool

	lastNormalization Result
	ready             bool
	listeners         []listener
}

// NewScene creates an empty scene. A non positive target diagonal falls back
// to DefaultTargetDiagonal.
func NewScene(bus *core.EventBus, collaborators Collaborators, targetDiagonal float32) (*Scene, error) {
	if bus == nil {
		return nil, fmt.Errorf("%w: scene needs an event bus", core.ErrInvalidConfig)
	}
	if collaborators.Graph == nil || collaborators.Camera == nil || collaborators.Renderer == nil || collaborators.Viewport == nil {
		return nil, fmt.Errorf("%w: scene collaborators are incomplete", core.ErrInvalidConfig)
	}
	if !(targetDiagonal > 0) {
		targetDiagonal = DefaultTargetDiagonal
	}
	s := &Scene{
		bus:            bus,
		collaborators:  collaborators,
		targetDiagonal: targetDiagonal,
		layers:         containers.NewOrderedMap[string, *Layer](),
	}
	s.resizeLocked()
	return s, nil
}

// Ready announces that the scene has been set up. Only the first call fires
// EVENT_CODE_SCENE_READY.
func (s *Scene) Ready() {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return
	}
	s.ready = true
	s.mu.Unlock()

	core.LogInfo("scene ready")
	s.fire(core.EVENT_CODE_SCENE_READY, nil)
}

// AddLayer registers a new layer, normalizes the whole scene, selects the
// layer and renders.
func (s *Scene) AddLayer(layer MeshLayer) error {
	return s.addLayer(layer, false)
}

// ReloadLayer replaces the layer with the same name, if any, with layer.
func (s *Scene) ReloadLayer(layer MeshLayer) error {
	return s.addLayer(layer, true)
}

func (s *Scene) addLayer(layer MeshLayer, reload bool) error {
	if err := validateMeshLayer(layer); err != nil {
		core.LogError(err.Error())
		return err
	}

	s.mu.Lock()
	if isNativeBacked(layer) {
		if err := layer.UpdateThreeMesh(); err != nil {
			s.mu.Unlock()
			err = fmt.Errorf("failed to build native layer '%s': %w", layer.Name(), err)
			core.LogError(err.Error())
			return err
		}
	}

	name := layer.Name()
	if existing, ok := s.layers.Get(name); ok {
		if !reload {
			core.LogWarn("layer '%s' already exists, replacing it", name)
		}
		s.detachLocked(existing, existing.source != layer)
	}

	l := newLayer(layer)
	s.layers.Set(name, l)
	l.mesh.CenterOrigin()
	s.collaborators.Graph.Add(l.mesh)

	s.lastNormalization = Normalize(s.layers, s.targetDiagonal)

	s.selected = name
	s.hasSelection = true
	s.renderLocked()
	count := s.layers.Len()
	s.mu.Unlock()

	if reload {
		core.LogDebug("reloaded layer '%s'", name)
		return nil
	}
	core.LogInfo("added layer '%s' (%d layers)", name, count)
	s.fire(core.EVENT_CODE_LAYER_ADDED, &LayerAddedEvent{Layer: l, Count: count})
	return nil
}

// UpdateLayer refreshes the renderable of an already registered layer and
// renders. Normalization is left untouched.
func (s *Scene) UpdateLayer(layer MeshLayer) error {
	if err := validateMeshLayer(layer); err != nil {
		core.LogError(err.Error())
		return err
	}

	s.mu.Lock()
	l, ok := s.layers.Get(layer.Name())
	if !ok {
		s.mu.Unlock()
		core.LogWarn("trying to update layer '%s' which is not in the scene", layer.Name())
		return fmt.Errorf("update '%s': %w", layer.Name(), core.ErrLayerNotFound)
	}
	if err := layer.UpdateThreeMesh(); err != nil {
		s.mu.Unlock()
		err = fmt.Errorf("failed to update layer '%s': %w", layer.Name(), err)
		core.LogError(err.Error())
		return err
	}
	s.renderLocked()
	s.mu.Unlock()

	s.fire(core.EVENT_CODE_LAYER_UPDATED, l)
	return nil
}

// RemoveLayerByName drops the layer, detaches its mesh and disposes it.
// Unknown names are ignored.
func (s *Scene) RemoveLayerByName(name string) bool {
	s.mu.Lock()
	l, ok := s.layers.Get(name)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.detachLocked(l, true)
	s.renderLocked()
	s.mu.Unlock()

	core.LogInfo("removed layer '%s'", name)
	s.fire(core.EVENT_CODE_LAYER_REMOVED, name)
	return true
}

// detachLocked takes a layer out of the registry and the scene graph. When
// the layer is not disposed its normalization is undone, so the object can
// be registered again.
func (s *Scene) detachLocked(l *Layer, dispose bool) {
	s.layers.Remove(l.name)
	if l.mesh != nil {
		s.collaborators.Graph.Remove(l.mesh)
	}
	if s.hasSelection && s.selected == l.name {
		s.selected = ""
		s.hasSelection = false
	}
	if dispose {
		l.source.Dispose()
		return
	}
	l.undoNormalization()
}

// SelectLayer selects the named layer, or clears the selection when there is
// no such layer, and fires EVENT_CODE_LAYER_SELECTED with the result.
func (s *Scene) SelectLayer(name string) *Layer {
	s.mu.Lock()
	l, ok := s.layers.Get(name)
	if ok {
		s.selected = name
		s.hasSelection = true
	} else {
		s.selected = ""
		s.hasSelection = false
	}
	s.mu.Unlock()

	s.fire(core.EVENT_CODE_LAYER_SELECTED, l)
	return l
}

func (s *Scene) HideLayer(name string) error {
	return s.setVisible(name, false)
}

func (s *Scene) ShowLayer(name string) error {
	return s.setVisible(name, true)
}

func (s *Scene) setVisible(name string, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.layers.Get(name)
	if !ok || l.mesh == nil {
		core.LogWarn("cannot change visibility of unknown layer '%s'", name)
		return fmt.Errorf("visibility of '%s': %w", name, core.ErrLayerNotFound)
	}
	l.mesh.Visible = visible
	s.renderLocked()
	return nil
}

func (s *Scene) GetLayerByName(name string) (*Layer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers.Get(name)
}

// GetSelectedLayer resolves the current selection.
func (s *Scene) GetSelectedLayer() (*Layer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasSelection {
		return nil, false
	}
	return s.layers.Get(s.selected)
}

// GetLayers returns the registered layers in insertion order.
func (s *Scene) GetLayers() []*Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers.Values()
}

func (s *Scene) LayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers.Len()
}

// LastNormalization returns the outcome of the most recent normalization run.
func (s *Scene) LastNormalization() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastNormalization
}

func (s *Scene) TargetDiagonal() float32 {
	return s.targetDiagonal
}

// Render draws the scene graph with the camera.
func (s *Scene) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderLocked()
}

func (s *Scene) renderLocked() {
	s.collaborators.Renderer.Render(s.collaborators.Graph, s.collaborators.Camera)
}

// Resize matches the camera and renderer to the current viewport size and
// renders.
func (s *Scene) Resize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizeLocked()
	s.renderLocked()
}

func (s *Scene) resizeLocked() {
	width, height := s.collaborators.Viewport.Size()
	if width == 0 || height == 0 {
		core.LogWarn("ignoring viewport size %dx%d", width, height)
		return
	}
	s.collaborators.Camera.SetAspect(float32(width) / float32(height))
	s.collaborators.Camera.UpdateProjection()
	s.collaborators.Renderer.SetSize(width, height)
}

func (s *Scene) fire(code core.SystemEventCode, data interface{}) {
	s.bus.Fire(core.EventContext{
		Type: code,
		Data: data,
	})
}

func validateMeshLayer(layer MeshLayer) (err error) {
	// a typed nil behind the interface panics on the first call
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", core.ErrInvalidMeshLayer, r)
		}
	}()
	if layer == nil {
		return fmt.Errorf("%w: nil layer", core.ErrInvalidMeshLayer)
	}
	if layer.Name() == "" {
		return fmt.Errorf("%w: layer has no name", core.ErrInvalidMeshLayer)
	}
	mesh := layer.ThreeMesh()
	if mesh == nil || mesh.Transform == nil {
		return fmt.Errorf("%w: layer '%s' has no renderable mesh", core.ErrInvalidMeshLayer, layer.Name())
	}
	if mesh.IsDisposed() {
		return fmt.Errorf("%w: layer '%s' was disposed", core.ErrInvalidMeshLayer, layer.Name())
	}
	return nil
}
