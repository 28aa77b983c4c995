package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/components"
	"github.com/spaghettifunk/meshview/engine/resources"
	"github.com/spaghettifunk/meshview/engine/scene"
)

type Stage uint8

const (
	// Viewer is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Viewer is currently initializing
	EngineStageInitializing
	// Viewer initialization is complete
	EngineStageInitialized
	// Viewer is currently running
	EngineStageRunning
	// Viewer is in the process of shutting down
	EngineStageShuttingDown
	// Viewer has been shut down and cannot be restarted
	EngineStageStopped
)

const targetFrameTime = time.Second / 60

// Viewer wires the scene to its collaborators, the event bus and the file
// watcher, and drives the application hooks.
type Viewer struct {
	mu           sync.Mutex
	currentStage Stage

	app      *Application
	config   *ApplicationConfig
	bus      *core.EventBus
	scene    *scene.Scene
	graph    *renderer.Graph
	renderer renderer.Renderer
	camera   *components.Camera
	viewport *renderer.FixedViewport
	loader   assets.Loader
	watcher  *assets.Watcher
	clock    *core.Clock

	resizeListener core.ListenerID
	quit           chan struct{}
	quitOnce       sync.Once
}

func New(app *Application) (*Viewer, error) {
	if app == nil || app.Config == nil {
		return nil, fmt.Errorf("%w: application has no config", core.ErrInvalidConfig)
	}
	if err := app.Config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	config := app.Config
	core.SetLogLevel(config.Level())

	r := app.Renderer
	if r == nil {
		r = renderer.NewHeadlessRenderer(config.Width, config.Height)
	}
	loader := app.Loader
	if loader == nil {
		loader = primitiveLoader()
	}

	camera := components.NewCamera(config.Camera.Fov, float32(config.Width)/float32(config.Height), config.Camera.Near, config.Camera.Far)
	camera.SetPosition(math.NewVec3(0, 0, config.Camera.Distance))

	v := &Viewer{
		currentStage: EngineStageUninitialized,
		app:          app,
		config:       config,
		bus:          core.NewEventBus(),
		graph:        renderer.NewGraph(),
		renderer:     r,
		camera:       camera,
		viewport:     renderer.NewFixedViewport(config.Width, config.Height),
		loader:       loader,
		clock:        core.NewClock(),
		quit:         make(chan struct{}),
	}

	s, err := scene.NewScene(v.bus, scene.Collaborators{
		Graph:    v.graph,
		Camera:   v.camera,
		Renderer: v.renderer,
		Viewport: v.viewport,
	}, config.Scene.TargetDiagonal)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	v.scene = s
	return v, nil
}

func primitiveLoader() assets.Loader {
	loader := &resources.PrimitiveLoader{}
	return assets.LoaderFunc(func(path, name string) (scene.MeshLayer, error) {
		f, err := loader.Load(path, name)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}

func (v *Viewer) Initialize() error {
	v.mu.Lock()
	if v.currentStage != EngineStageUninitialized {
		v.mu.Unlock()
		return fmt.Errorf("viewer cannot be initialized in stage %d", v.currentStage)
	}
	v.currentStage = EngineStageInitializing
	v.mu.Unlock()

	core.LogInfo("initializing %s (%dx%d)", v.config.Name, v.config.Width, v.config.Height)

	v.scene.RegisterHandlers()
	v.resizeListener = v.bus.Register(core.EVENT_CODE_RESIZED, v.onResized)

	if v.config.Watcher.Enabled {
		w, err := assets.NewWatcher(v.bus, v.loader)
		if err != nil {
			core.LogError("failed to start the file watcher: %s", err)
			return err
		}
		v.watcher = w
	}

	if v.app.FnInitialize != nil {
		if err := v.app.FnInitialize(v); err != nil {
			core.LogError("application failed to initialize: %s", err)
			return err
		}
	}

	v.mu.Lock()
	v.currentStage = EngineStageInitialized
	v.mu.Unlock()

	v.scene.Ready()
	return nil
}

// Open loads a mesh file and adds it to the scene through the event bus. The
// file is watched for changes when the watcher is enabled.
func (v *Viewer) Open(path, name string) (scene.MeshLayer, error) {
	if v.watcher != nil {
		return v.watcher.Open(path, name)
	}
	layer, err := v.loader.Load(path, name)
	if err != nil {
		return nil, err
	}
	v.bus.Fire(core.EventContext{
		Type: core.EVENT_CODE_MESH_FILE_OPENED,
		Data: layer,
	})
	return layer, nil
}

// Resize publishes a new viewport size.
func (v *Viewer) Resize(width, height uint32) {
	v.bus.Fire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.ResizeEvent{Width: width, Height: height},
	})
}

func (v *Viewer) onResized(context core.EventContext) {
	ev, ok := context.Data.(*core.ResizeEvent)
	if !ok || ev == nil || v.app.FnOnResize == nil {
		return
	}
	if err := v.app.FnOnResize(ev.Width, ev.Height); err != nil {
		core.LogError("application failed to resize: %s", err)
	}
}

// Run delivers events posted by the file watcher and calls the update hook at
// a fixed rate until Shutdown. The goroutine calling Run owns the scene.
func (v *Viewer) Run() error {
	v.mu.Lock()
	if v.currentStage != EngineStageInitialized {
		v.mu.Unlock()
		return fmt.Errorf("viewer cannot run in stage %d", v.currentStage)
	}
	v.currentStage = EngineStageRunning
	v.mu.Unlock()

	v.clock.Start()
	v.clock.Update()
	lastTime := v.clock.Elapsed()

	ticker := time.NewTicker(targetFrameTime)
	defer ticker.Stop()

	for {
		select {
		case <-v.quit:
			return nil
		case <-ticker.C:
			v.clock.Update()
			currentTime := v.clock.Elapsed()
			delta := (currentTime - lastTime).Seconds()
			lastTime = currentTime

			v.bus.Pump()
			if v.app.FnUpdate != nil {
				if err := v.app.FnUpdate(delta); err != nil {
					core.LogError("application update failed, shutting down: %s", err)
					return err
				}
			}
		}
	}
}

// Stop makes Run return. It is safe to call from any goroutine; Shutdown
// should follow on the goroutine that ran the loop.
func (v *Viewer) Stop() {
	v.quitOnce.Do(func() { close(v.quit) })
}

func (v *Viewer) Shutdown() error {
	v.mu.Lock()
	if v.currentStage == EngineStageShuttingDown || v.currentStage == EngineStageStopped {
		v.mu.Unlock()
		return nil
	}
	v.currentStage = EngineStageShuttingDown
	v.mu.Unlock()

	v.Stop()
	v.clock.Stop()

	var shutdownErr error
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			shutdownErr = err
		}
	}
	v.scene.UnregisterHandlers()
	v.bus.Unregister(core.EVENT_CODE_RESIZED, v.resizeListener)

	for _, l := range v.scene.GetLayers() {
		v.scene.RemoveLayerByName(l.Name())
	}

	if v.app.FnShutdown != nil {
		if err := v.app.FnShutdown(); err != nil {
			core.LogError("application failed to shut down: %s", err)
			shutdownErr = err
		}
	}
	v.bus.Shutdown()

	v.mu.Lock()
	v.currentStage = EngineStageStopped
	v.mu.Unlock()
	core.LogInfo("%s stopped", v.config.Name)
	return shutdownErr
}

func (v *Viewer) Stage() Stage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.currentStage
}

func (v *Viewer) Scene() *scene.Scene {
	return v.scene
}

func (v *Viewer) Bus() *core.EventBus {
	return v.bus
}

func (v *Viewer) Camera() *components.Camera {
	return v.camera
}

func (v *Viewer) Renderer() renderer.Renderer {
	return v.renderer
}

// Watcher returns the file watcher, or nil when it is disabled.
func (v *Viewer) Watcher() *assets.Watcher {
	return v.watcher
}

func (v *Viewer) Config() *ApplicationConfig {
	return v.config
}
