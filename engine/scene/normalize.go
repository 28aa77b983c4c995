package scene

import (
	"github.com/spaghettifunk/meshview/engine/containers"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
)

// DefaultTargetDiagonal is the diagonal the union of all layers is scaled to.
const DefaultTargetDiagonal float32 = 15

// Result describes a normalization run.
type Result struct {
	ScaleFactor float32
	Offset      math.Vec3
	// union of all layers once normalized
	Bounds math.Extents3D
	// core.ErrDegenerateBounds when the rescale had to be skipped
	Err error
}

// Normalize brings every registered layer, hidden ones included, into a
// shared frame: the union of their world extents is centered on the origin
// and its diagonal equals target. Transforms left by a previous run are
// undone first so repeated runs do not accumulate.
func Normalize(layers *containers.OrderedMap[string, *Layer], target float32) Result {
	result := Result{
		ScaleFactor: 1,
		Bounds:      math.NewExtents3DEmpty(),
	}
	if layers == nil || layers.Len() == 0 {
		return result
	}

	for it := layers.Iterator(); it.HasNext(); {
		if l, ok := it.Next(); ok {
			l.undoNormalization()
		}
	}

	bounds := unionExtents(layers)
	if bounds.IsEmpty() {
		core.LogWarn("no layer has geometry, skipping normalization")
		result.Err = core.ErrDegenerateBounds
		return result
	}

	diagonal := bounds.Diagonal()
	scale := target / diagonal
	if diagonal > 0 && math.IsFinite(diagonal) && scale > 0 && math.IsFinite(scale) {
		for it := layers.Iterator(); it.HasNext(); {
			if l, ok := it.Next(); ok && l.mesh != nil {
				l.mesh.Transform.ScaleAboutOrigin(scale)
			}
		}
		bounds = unionExtents(layers)
	} else {
		core.LogWarn("bounding box diagonal is %f, skipping rescale", diagonal)
		scale = 1
		result.Err = core.ErrDegenerateBounds
	}

	offset := bounds.Center().Negate()
	for it := layers.Iterator(); it.HasNext(); {
		l, ok := it.Next()
		if !ok {
			continue
		}
		if l.mesh != nil {
			l.mesh.Transform.Translate(offset)
		}
		l.normalization = &Normalization{
			ScaleFactor: scale,
			Offset:      offset,
		}
	}

	result.ScaleFactor = scale
	result.Offset = offset
	result.Bounds = unionExtents(layers)
	return result
}

func unionExtents(layers *containers.OrderedMap[string, *Layer]) math.Extents3D {
	bounds := math.NewExtents3DEmpty()
	for it := layers.Iterator(); it.HasNext(); {
		l, ok := it.Next()
		if !ok || l.mesh == nil {
			continue
		}
		bounds = bounds.Union(l.mesh.Extents())
	}
	return bounds
}
