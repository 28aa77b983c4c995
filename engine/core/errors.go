package core

import (
	"errors"
)

var (
	ErrInvalidMeshLayer = errors.New("object does not satisfy the mesh layer contract")
	ErrLayerNotFound    = errors.New("layer not found in the scene")
	ErrDegenerateBounds = errors.New("global bounding box has no usable diagonal")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrWatcherClosed    = errors.New("watcher instance already closed")
)
