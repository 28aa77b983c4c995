package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

/**
 * @brief Describes a procedurally generated mesh. Stored on disk as TOML
 * with the ".prim" extension.
 */
type PrimitiveConfig struct {
	/** @brief Name of the layer. Defaults to the file name without extension. */
	Name string `toml:"name"`
	/** @brief The primitive shape. Only "cube" is supported. */
	Shape string `toml:"shape"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
	Depth  float32 `toml:"depth"`
	/** @brief The center of the primitive in model space. */
	Center [3]float32 `toml:"center"`
	/** @brief Build the layer as native backed. */
	Native bool `toml:"native"`
}

// PrimitiveLoader builds mesh files from primitive descriptors.
type PrimitiveLoader struct{}

// Load reads the descriptor at path. A non-empty name overrides the name
// found in the file.
func (l *PrimitiveLoader) Load(path, name string) (*MeshFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read primitive '%s': %w", path, err)
	}
	cfg, err := ParsePrimitive(data)
	if err != nil {
		return nil, fmt.Errorf("parse primitive '%s': %w", path, err)
	}
	if name == "" {
		name = cfg.Name
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg.Build(name, path)
}

func ParsePrimitive(data []byte) (*PrimitiveConfig, error) {
	cfg := &PrimitiveConfig{Shape: "cube"}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Build generates the geometry described by the config.
func (c *PrimitiveConfig) Build(name, fullPath string) (*MeshFile, error) {
	switch strings.ToLower(c.Shape) {
	case "cube", "":
		center := math.NewVec3(c.Center[0], c.Center[1], c.Center[2])
		geometry := metadata.GenerateCube(c.Width, c.Height, c.Depth, center, name)
		if c.Native {
			return NewNativeMeshFile(name, fullPath, geometry), nil
		}
		return NewMeshFile(name, fullPath, geometry), nil
	default:
		return nil, fmt.Errorf("unsupported primitive shape '%s'", c.Shape)
	}
}
