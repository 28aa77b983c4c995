package scene

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
)

type listener struct {
	code core.SystemEventCode
	id   core.ListenerID
}

// RegisterHandlers subscribes the scene to the inbound events on its bus.
// Calling it twice has no further effect.
func (s *Scene) RegisterHandlers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listeners) > 0 {
		return
	}

	handlers := map[core.SystemEventCode]core.FnOnEvent{
		core.EVENT_CODE_MESH_FILE_OPENED:   s.onMeshFileOpened,
		core.EVENT_CODE_MESH_FILE_RELOADED: s.onMeshFileReloaded,
		core.EVENT_CODE_SELECT_LAYER:       s.onSelectLayer,
		core.EVENT_CODE_HIDE_LAYER:         s.onHideLayer,
		core.EVENT_CODE_SHOW_LAYER:         s.onShowLayer,
		core.EVENT_CODE_RESIZED:            s.onResized,
	}
	for _, code := range []core.SystemEventCode{
		core.EVENT_CODE_MESH_FILE_OPENED,
		core.EVENT_CODE_MESH_FILE_RELOADED,
		core.EVENT_CODE_SELECT_LAYER,
		core.EVENT_CODE_HIDE_LAYER,
		core.EVENT_CODE_SHOW_LAYER,
		core.EVENT_CODE_RESIZED,
	} {
		id := s.bus.Register(code, handlers[code])
		s.listeners = append(s.listeners, listener{code: code, id: id})
	}
}

// UnregisterHandlers undoes RegisterHandlers.
func (s *Scene) UnregisterHandlers() {
	s.mu.Lock()
	listeners := s.listeners
	s.listeners = nil
	s.mu.Unlock()

	for _, l := range listeners {
		s.bus.Unregister(l.code, l.id)
	}
}

func (s *Scene) onMeshFileOpened(context core.EventContext) {
	layer, err := meshLayerFrom(context)
	if err != nil {
		core.LogError(err.Error())
		return
	}
	_ = s.AddLayer(layer)
}

func (s *Scene) onMeshFileReloaded(context core.EventContext) {
	layer, err := meshLayerFrom(context)
	if err != nil {
		core.LogError(err.Error())
		return
	}
	if err := s.ReloadLayer(layer); err != nil {
		return
	}
	if l, ok := s.GetLayerByName(layer.Name()); ok {
		s.fire(core.EVENT_CODE_LAYER_UPDATED, l)
	}
}

func (s *Scene) onSelectLayer(context core.EventContext) {
	name, ok := context.Data.(string)
	if !ok {
		core.LogError("`%s` expects a layer name, got %T", context.Type, context.Data)
		return
	}
	s.SelectLayer(name)
}

func (s *Scene) onHideLayer(context core.EventContext) {
	name, ok := context.Data.(string)
	if !ok {
		core.LogError("`%s` expects a layer name, got %T", context.Type, context.Data)
		return
	}
	_ = s.HideLayer(name)
}

func (s *Scene) onShowLayer(context core.EventContext) {
	name, ok := context.Data.(string)
	if !ok {
		core.LogError("`%s` expects a layer name, got %T", context.Type, context.Data)
		return
	}
	_ = s.ShowLayer(name)
}

// resizable is implemented by viewports that can take a new size from the
// resize event itself.
type resizable interface {
	Resize(width, height uint32)
}

func (s *Scene) onResized(context core.EventContext) {
	if ev, ok := context.Data.(*core.ResizeEvent); ok && ev != nil {
		if v, ok := s.collaborators.Viewport.(resizable); ok {
			v.Resize(ev.Width, ev.Height)
		}
	}
	s.Resize()
}

func meshLayerFrom(context core.EventContext) (MeshLayer, error) {
	layer, ok := context.Data.(MeshLayer)
	if !ok {
		return nil, fmt.Errorf("%w: `%s` carried %T", core.ErrInvalidMeshLayer, context.Type, context.Data)
	}
	return layer, nil
}
