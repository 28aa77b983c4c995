package testbed

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/plugins"
)

// seconds between two random displacements
const displaceEvery = 2.0

type TestViewer struct {
	*engine.Application
}

type viewerState struct {
	viewer        *engine.Viewer
	primitives    string
	displacement  *plugins.RandomDisplacement
	target        plugins.GeometryLayer
	sinceDisplace float64
	frames        uint64
}

// NewTestViewer builds an application that opens the two cubes found in
// primitivesDir and keeps perturbing the first one.
func NewTestViewer(config *engine.ApplicationConfig, primitivesDir string) (*TestViewer, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: testbed needs a config", core.ErrInvalidConfig)
	}
	tv := &TestViewer{
		Application: &engine.Application{
			Config: config,
			State: &viewerState{
				primitives:   primitivesDir,
				displacement: plugins.NewRandomDisplacement(plugins.DefaultDisplacementAmount, 1),
			},
		},
	}

	tv.FnInitialize = tv.Initialize
	tv.FnUpdate = tv.Update
	tv.FnOnResize = tv.OnResize
	tv.FnShutdown = tv.Shutdown

	return tv, nil
}

func (tv *TestViewer) Initialize(v *engine.Viewer) error {
	core.LogDebug("TestViewer Initialize fn....")

	state := tv.State.(*viewerState)
	state.viewer = v

	v.Bus().Register(core.EVENT_CODE_LAYER_ADDED, func(context core.EventContext) {
		core.LogInfo("layer added: %+v", context.Data)
	})
	v.Bus().Register(core.EVENT_CODE_LAYER_UPDATED, func(context core.EventContext) {
		core.LogDebug("layer updated")
	})

	a, err := v.Open(filepath.Join(state.primitives, "cube_a.prim"), "")
	if err != nil {
		core.LogError("failed to open the first cube")
		return err
	}
	if _, err := v.Open(filepath.Join(state.primitives, "cube_b.prim"), ""); err != nil {
		core.LogError("failed to open the second cube")
		return err
	}

	target, ok := a.(plugins.GeometryLayer)
	if !ok {
		return fmt.Errorf("%w: '%s' has no editable geometry", core.ErrInvalidMeshLayer, a.Name())
	}
	state.target = target

	v.Bus().Fire(core.EventContext{Type: core.EVENT_CODE_SELECT_LAYER, Data: a.Name()})
	return nil
}

func (tv *TestViewer) Update(deltaTime float64) error {
	state := tv.State.(*viewerState)
	state.frames++
	state.sinceDisplace += deltaTime
	if state.sinceDisplace < displaceEvery || state.target == nil {
		return nil
	}
	state.sinceDisplace = 0

	// the layer may have been reloaded from disk in the meantime
	current, ok := state.viewer.Scene().GetLayerByName(state.target.Name())
	if !ok {
		return nil
	}
	if target, ok := current.Source().(plugins.GeometryLayer); ok {
		state.target = target
	}
	if err := state.displacement.Apply(state.viewer.Scene(), state.target); err != nil {
		core.LogWarn("random displacement failed: %s", err)
	}
	return nil
}

func (tv *TestViewer) OnResize(width uint32, height uint32) error {
	core.LogDebug("resized to %dx%d", width, height)
	return nil
}

func (tv *TestViewer) Shutdown() error {
	state := tv.State.(*viewerState)
	core.LogInfo("testbed ran for %d frames", state.frames)
	return nil
}
