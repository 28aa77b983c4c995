package scene

import (
	"errors"
	"io"
	"testing"

	"github.com/chewxy/math32"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/components"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	core.SetLogOutput(io.Discard)
}

const tolerance = 1e-3

type fakeLayer struct {
	name      string
	mesh      *metadata.Mesh
	native    bool
	updates   int
	disposed  int
	updateErr error
}

func (f *fakeLayer) Name() string              { return f.name }
func (f *fakeLayer) ThreeMesh() *metadata.Mesh { return f.mesh }
func (f *fakeLayer) NativeBacked() bool        { return f.native }

func (f *fakeLayer) UpdateThreeMesh() error {
	f.updates++
	return f.updateErr
}

func (f *fakeLayer) Dispose() {
	f.disposed++
	f.mesh.Dispose()
}

func unitCube(name string, center math.Vec3) *fakeLayer {
	return &fakeLayer{
		name: name,
		mesh: metadata.NewMesh(name, metadata.GenerateCube(1, 1, 1, center, name)),
	}
}

type fixture struct {
	scene    *Scene
	bus      *core.EventBus
	graph    *renderer.Graph
	renderer *renderer.HeadlessRenderer
	camera   *components.Camera
	viewport *renderer.FixedViewport
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bus:      core.NewEventBus(),
		graph:    renderer.NewGraph(),
		renderer: renderer.NewHeadlessRenderer(0, 0),
		camera:   components.NewCamera(45, 1, 0.1, 1800),
		viewport: renderer.NewFixedViewport(800, 600),
	}
	s, err := NewScene(f.bus, Collaborators{
		Graph:    f.graph,
		Camera:   f.camera,
		Renderer: f.renderer,
		Viewport: f.viewport,
	}, DefaultTargetDiagonal)
	require.NoError(t, err)
	f.scene = s
	return f
}

// record collects the payloads fired for code.
func record(bus *core.EventBus, code core.SystemEventCode) *[]interface{} {
	got := &[]interface{}{}
	bus.Register(code, func(context core.EventContext) {
		*got = append(*got, context.Data)
	})
	return got
}

func union(layers []*Layer) math.Extents3D {
	bounds := math.NewExtents3DEmpty()
	for _, l := range layers {
		bounds = bounds.Union(l.Mesh().Extents())
	}
	return bounds
}

func assertNormalized(t *testing.T, s *Scene) {
	t.Helper()
	bounds := union(s.GetLayers())
	assert.True(t, bounds.Center().Compare(math.NewVec3Zero(), tolerance), "center %v", bounds.Center())
	assert.InDelta(t, s.TargetDiagonal(), bounds.Diagonal(), tolerance)
}

func normalizationOf(t *testing.T, s *Scene, name string) Normalization {
	t.Helper()
	l, ok := s.GetLayerByName(name)
	require.True(t, ok)
	n, ok := l.Normalization()
	require.True(t, ok)
	return n
}

func TestNewScene_RequiresCollaborators(t *testing.T) {
	_, err := NewScene(nil, Collaborators{}, 15)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = NewScene(core.NewEventBus(), Collaborators{Graph: renderer.NewGraph()}, 15)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	f := newFixture(t)
	assert.InDelta(t, float32(800)/600, f.camera.Aspect, 1e-6)
}

func TestScene_AddTwoCubes(t *testing.T) {
	f := newFixture(t)
	added := record(f.bus, core.EVENT_CODE_LAYER_ADDED)

	a := unitCube("A", math.NewVec3Zero())
	require.NoError(t, f.scene.AddLayer(a))

	na := normalizationOf(t, f.scene, "A")
	assert.InDelta(t, 15/math32.Sqrt(3), na.ScaleFactor, tolerance)
	assert.True(t, na.Offset.Compare(math.NewVec3Zero(), tolerance))
	assertNormalized(t, f.scene)

	b := unitCube("B", math.NewVec3(10, 0, 0))
	require.NoError(t, f.scene.AddLayer(b))

	// the pair spans [-0.5, 10.5] x [-0.5, 0.5] x [-0.5, 0.5]
	scale := 15 / math32.Sqrt(11*11+1+1)
	na = normalizationOf(t, f.scene, "A")
	nb := normalizationOf(t, f.scene, "B")
	assert.InDelta(t, scale, na.ScaleFactor, tolerance)
	assert.Equal(t, na, nb)
	assert.True(t, na.Offset.Compare(math.NewVec3(-5*scale, 0, 0), tolerance), "offset %v", na.Offset)
	assertNormalized(t, f.scene)

	assert.True(t, a.mesh.Transform.Position.Compare(math.NewVec3(-5*scale, 0, 0), tolerance))
	assert.True(t, b.mesh.Transform.Position.Compare(math.NewVec3(5*scale, 0, 0), tolerance))

	selected, ok := f.scene.GetSelectedLayer()
	require.True(t, ok)
	assert.Equal(t, "B", selected.Name())

	assert.Equal(t, []*metadata.Mesh{a.mesh, b.mesh}, f.graph.Meshes())
	assert.Equal(t, uint64(2), f.renderer.FrameCount())

	require.Len(t, *added, 2)
	last := (*added)[1].(*LayerAddedEvent)
	assert.Equal(t, "B", last.Layer.Name())
	assert.Equal(t, 2, last.Count)
}

func TestScene_HideThenRemove(t *testing.T) {
	f := newFixture(t)
	removed := record(f.bus, core.EVENT_CODE_LAYER_REMOVED)

	a := unitCube("A", math.NewVec3Zero())
	require.NoError(t, f.scene.AddLayer(a))
	require.NoError(t, f.scene.AddLayer(unitCube("B", math.NewVec3(3, 0, 0))))

	require.NoError(t, f.scene.HideLayer("A"))
	l, ok := f.scene.GetLayerByName("A")
	require.True(t, ok)
	assert.False(t, l.Mesh().Visible)
	assert.False(t, l.Visible())
	assert.Len(t, f.renderer.LastPacket().Meshes, 1)

	require.NoError(t, f.scene.ShowLayer("A"))
	assert.True(t, l.Visible())
	require.NoError(t, f.scene.HideLayer("A"))

	assert.True(t, f.scene.RemoveLayerByName("A"))
	_, ok = f.scene.GetLayerByName("A")
	assert.False(t, ok)
	assert.Equal(t, 1, a.disposed)
	assert.True(t, a.mesh.IsDisposed())
	assert.Equal(t, 1, f.scene.LayerCount())
	assert.NotContains(t, f.graph.Meshes(), a.mesh)
	assert.Equal(t, []interface{}{"A"}, *removed)

	assert.False(t, f.scene.RemoveLayerByName("A"))
	assert.Equal(t, 1, f.scene.LayerCount())
	assert.Len(t, *removed, 1)

	assert.ErrorIs(t, f.scene.HideLayer("A"), core.ErrLayerNotFound)
	assert.ErrorIs(t, f.scene.ShowLayer("A"), core.ErrLayerNotFound)
}

func TestScene_ReloadEquivalentToRemoveThenAdd(t *testing.T) {
	reloaded := newFixture(t)
	require.NoError(t, reloaded.scene.AddLayer(unitCube("A", math.NewVec3Zero())))
	require.NoError(t, reloaded.scene.AddLayer(unitCube("B", math.NewVec3(4, 0, 0))))
	require.NoError(t, reloaded.scene.AddLayer(unitCube("C", math.NewVec3(0, -2, 1))))
	oldB, _ := reloaded.scene.GetLayerByName("B")
	require.NoError(t, reloaded.scene.ReloadLayer(unitCube("B", math.NewVec3(4, 6, 0))))

	manual := newFixture(t)
	require.NoError(t, manual.scene.AddLayer(unitCube("A", math.NewVec3Zero())))
	require.NoError(t, manual.scene.AddLayer(unitCube("B", math.NewVec3(4, 0, 0))))
	require.NoError(t, manual.scene.AddLayer(unitCube("C", math.NewVec3(0, -2, 1))))
	require.True(t, manual.scene.RemoveLayerByName("B"))
	require.NoError(t, manual.scene.AddLayer(unitCube("B", math.NewVec3(4, 6, 0))))

	got := reloaded.scene.GetLayers()
	want := manual.scene.GetLayers()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name(), got[i].Name())
		gn, _ := got[i].Normalization()
		wn, _ := want[i].Normalization()
		assert.InDelta(t, wn.ScaleFactor, gn.ScaleFactor, 1e-5)
		assert.True(t, wn.Offset.Compare(gn.Offset, 1e-4))
		assert.True(t, want[i].Mesh().Transform.Position.Compare(got[i].Mesh().Transform.Position, 1e-4))
	}
	assert.Equal(t, 1, oldB.Source().(*fakeLayer).disposed)
	assert.Len(t, reloaded.graph.Meshes(), 3)
	assertNormalized(t, reloaded.scene)

	selected, ok := reloaded.scene.GetSelectedLayer()
	require.True(t, ok)
	assert.Equal(t, "B", selected.Name())
}

func TestScene_ReloadSameObjectKeepsIt(t *testing.T) {
	f := newFixture(t)
	a := unitCube("A", math.NewVec3(2, 0, 0))
	require.NoError(t, f.scene.AddLayer(a))
	require.NoError(t, f.scene.AddLayer(unitCube("B", math.NewVec3(-2, 0, 0))))
	before := normalizationOf(t, f.scene, "A")

	require.NoError(t, f.scene.ReloadLayer(a))
	assert.Equal(t, 0, a.disposed)
	assert.False(t, a.mesh.IsDisposed())
	assert.Equal(t, 2, f.scene.LayerCount())

	after := normalizationOf(t, f.scene, "A")
	assert.InDelta(t, before.ScaleFactor, after.ScaleFactor, 1e-5)
	assert.True(t, before.Offset.Compare(after.Offset, 1e-4))
	assertNormalized(t, f.scene)
}

func TestScene_UpdateDoesNotRescale(t *testing.T) {
	f := newFixture(t)
	updated := record(f.bus, core.EVENT_CODE_LAYER_UPDATED)

	a := unitCube("A", math.NewVec3Zero())
	require.NoError(t, f.scene.AddLayer(a))
	require.NoError(t, f.scene.AddLayer(unitCube("B", math.NewVec3(0, 7, 0))))
	na := normalizationOf(t, f.scene, "A")
	nb := normalizationOf(t, f.scene, "B")
	frames := f.renderer.FrameCount()

	// grow A well beyond the normalized frame
	for i := range a.mesh.Geometry.Vertices {
		a.mesh.Geometry.Vertices[i] = a.mesh.Geometry.Vertices[i].MulScalar(10)
	}
	a.mesh.Geometry.UpdateExtents()
	require.NoError(t, f.scene.UpdateLayer(a))

	assert.Equal(t, 1, a.updates)
	assert.Equal(t, na, normalizationOf(t, f.scene, "A"))
	assert.Equal(t, nb, normalizationOf(t, f.scene, "B"))
	assert.Equal(t, frames+1, f.renderer.FrameCount())
	require.Len(t, *updated, 1)
	assert.Equal(t, "A", (*updated)[0].(*Layer).Name())
}

func TestScene_UpdateErrors(t *testing.T) {
	f := newFixture(t)
	updated := record(f.bus, core.EVENT_CODE_LAYER_UPDATED)

	err := f.scene.UpdateLayer(unitCube("ghost", math.NewVec3Zero()))
	assert.ErrorIs(t, err, core.ErrLayerNotFound)

	broken := unitCube("A", math.NewVec3Zero())
	require.NoError(t, f.scene.AddLayer(broken))
	broken.updateErr = errors.New("boom")
	assert.Error(t, f.scene.UpdateLayer(broken))
	assert.Empty(t, *updated)
}

func TestScene_Convergence(t *testing.T) {
	arrangements := map[string][]math.Vec3{
		"single":    {math.NewVec3(3, 4, 5)},
		"line":      {math.NewVec3(-20, 0, 0), math.NewVec3(0, 0, 0), math.NewVec3(35, 0, 0)},
		"scattered": {math.NewVec3(1, 2, 3), math.NewVec3(-4, 9, 0.5), math.NewVec3(0, -6, 12), math.NewVec3(7, 7, -7)},
		"far":       {math.NewVec3(100, 100, 100), math.NewVec3(101, 100, 100)},
	}
	for name, centers := range arrangements {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			for i, c := range centers {
				require.NoError(t, f.scene.AddLayer(unitCube(string(rune('A'+i)), c)))
				assertNormalized(t, f.scene)
			}

			// running again on a settled scene changes nothing
			before := normalizationOf(t, f.scene, "A")
			result := Normalize(f.scene.layers, f.scene.TargetDiagonal())
			require.NoError(t, result.Err)
			assert.InDelta(t, before.ScaleFactor, result.ScaleFactor, 1e-3*float64(before.ScaleFactor))
			assertNormalized(t, f.scene)
		})
	}
}

func TestScene_HiddenLayersStayInTheUnion(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.AddLayer(unitCube("A", math.NewVec3Zero())))
	require.NoError(t, f.scene.HideLayer("A"))
	require.NoError(t, f.scene.AddLayer(unitCube("B", math.NewVec3(10, 0, 0))))

	scale := 15 / math32.Sqrt(11*11+1+1)
	assert.InDelta(t, scale, normalizationOf(t, f.scene, "B").ScaleFactor, tolerance)
	assertNormalized(t, f.scene)
}

func TestScene_DegenerateMesh(t *testing.T) {
	f := newFixture(t)
	point := &fakeLayer{
		name: "point",
		mesh: metadata.NewMesh("point", metadata.NewGeometry("point", []math.Vec3{math.NewVec3(3, 3, 3)}, nil)),
	}
	require.NotPanics(t, func() {
		require.NoError(t, f.scene.AddLayer(point))
	})

	assert.ErrorIs(t, f.scene.LastNormalization().Err, core.ErrDegenerateBounds)
	n := normalizationOf(t, f.scene, "point")
	assert.Equal(t, float32(1), n.ScaleFactor)
	assert.True(t, point.mesh.Extents().Center().Compare(math.NewVec3Zero(), tolerance))

	// a real mesh next to it brings the rescale back
	require.NoError(t, f.scene.AddLayer(unitCube("A", math.NewVec3Zero())))
	assert.NoError(t, f.scene.LastNormalization().Err)
	assertNormalized(t, f.scene)
}

func TestScene_ContractViolations(t *testing.T) {
	f := newFixture(t)
	added := record(f.bus, core.EVENT_CODE_LAYER_ADDED)

	var typedNil *fakeLayer
	disposed := unitCube("gone", math.NewVec3Zero())
	disposed.mesh.Dispose()

	cases := map[string]MeshLayer{
		"nil":       nil,
		"typed nil": typedNil,
		"no name":   unitCube("", math.NewVec3Zero()),
		"no mesh":   &fakeLayer{name: "empty"},
		"disposed":  disposed,
	}
	for name, layer := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, f.scene.AddLayer(layer), core.ErrInvalidMeshLayer)
			assert.ErrorIs(t, f.scene.ReloadLayer(layer), core.ErrInvalidMeshLayer)
			assert.ErrorIs(t, f.scene.UpdateLayer(layer), core.ErrInvalidMeshLayer)
		})
	}
	assert.Equal(t, 0, f.scene.LayerCount())
	assert.Empty(t, f.graph.Meshes())
	assert.Empty(t, *added)
	assert.Equal(t, uint64(0), f.renderer.FrameCount())
}

func TestScene_NativeBackedLayerIsRefreshedFirst(t *testing.T) {
	f := newFixture(t)
	native := unitCube("native", math.NewVec3Zero())
	native.native = true
	require.NoError(t, f.scene.AddLayer(native))
	assert.Equal(t, 1, native.updates)

	failing := unitCube("failing", math.NewVec3Zero())
	failing.native = true
	failing.updateErr = errors.New("native build failed")
	assert.Error(t, f.scene.AddLayer(failing))
	assert.Equal(t, 1, f.scene.LayerCount())
}

func TestScene_Selection(t *testing.T) {
	f := newFixture(t)
	selected := record(f.bus, core.EVENT_CODE_LAYER_SELECTED)

	require.NoError(t, f.scene.AddLayer(unitCube("A", math.NewVec3Zero())))
	require.NoError(t, f.scene.AddLayer(unitCube("B", math.NewVec3(1, 0, 0))))

	l := f.scene.SelectLayer("A")
	require.NotNil(t, l)
	got, ok := f.scene.GetSelectedLayer()
	require.True(t, ok)
	assert.Same(t, l, got)

	assert.Nil(t, f.scene.SelectLayer("nope"))
	_, ok = f.scene.GetSelectedLayer()
	assert.False(t, ok)

	f.scene.SelectLayer("B")
	f.scene.RemoveLayerByName("B")
	_, ok = f.scene.GetSelectedLayer()
	assert.False(t, ok)

	require.Len(t, *selected, 3)
	assert.Nil(t, (*selected)[1].(*Layer))
}

func TestScene_DuplicateAddReplaces(t *testing.T) {
	f := newFixture(t)
	first := unitCube("A", math.NewVec3Zero())
	second := unitCube("A", math.NewVec3(2, 0, 0))
	require.NoError(t, f.scene.AddLayer(first))
	require.NoError(t, f.scene.AddLayer(second))

	assert.Equal(t, 1, f.scene.LayerCount())
	assert.Equal(t, 1, first.disposed)
	assert.Equal(t, []*metadata.Mesh{second.mesh}, f.graph.Meshes())
}

func TestScene_ReadyFiresOnce(t *testing.T) {
	f := newFixture(t)
	ready := record(f.bus, core.EVENT_CODE_SCENE_READY)
	f.scene.Ready()
	f.scene.Ready()
	assert.Len(t, *ready, 1)
}

func TestScene_ListenersMayCallBack(t *testing.T) {
	f := newFixture(t)
	f.bus.Register(core.EVENT_CODE_LAYER_ADDED, func(context core.EventContext) {
		ev := context.Data.(*LayerAddedEvent)
		_ = f.scene.HideLayer(ev.Layer.Name())
	})

	require.NoError(t, f.scene.AddLayer(unitCube("A", math.NewVec3Zero())))
	l, ok := f.scene.GetLayerByName("A")
	require.True(t, ok)
	assert.False(t, l.Visible())
}
