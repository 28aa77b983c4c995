package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/scene"
)

type ApplicationConfig struct {
	// The application name, used in logs.
	Name string `toml:"name"`
	// Starting viewport width.
	Width uint32 `toml:"width"`
	// Starting viewport height.
	Height uint32 `toml:"height"`
	// One of debug, info, warn, error.
	LogLevel string        `toml:"log_level"`
	Scene    SceneConfig   `toml:"scene"`
	Camera   CameraConfig  `toml:"camera"`
	Watcher  WatcherConfig `toml:"watcher"`
}

type SceneConfig struct {
	// Diagonal the union of all layers is scaled to.
	TargetDiagonal float32 `toml:"target_diagonal"`
}

type CameraConfig struct {
	// Vertical field of view in degrees.
	Fov  float32 `toml:"fov"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
	// Distance of the camera from the origin along +Z.
	Distance float32 `toml:"distance"`
}

type WatcherConfig struct {
	// Reload opened files when they change on disk.
	Enabled bool `toml:"enabled"`
}

const (
	minFov float32 = 1
	maxFov float32 = 179
)

func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:     "Mesh Viewer",
		Width:    1280,
		Height:   720,
		LogLevel: "info",
		Scene: SceneConfig{
			TargetDiagonal: scene.DefaultTargetDiagonal,
		},
		Camera: CameraConfig{
			Fov:      45,
			Near:     0.1,
			Far:      1800,
			Distance: 15,
		},
		Watcher: WatcherConfig{
			Enabled: true,
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (*ApplicationConfig, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: parse '%s': %s", core.ErrInvalidConfig, path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects unusable values. The field of view is clamped rather than
// rejected.
func (c *ApplicationConfig) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("%w: viewport size %dx%d", core.ErrInvalidConfig, c.Width, c.Height)
	}
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level '%s'", core.ErrInvalidConfig, c.LogLevel)
	}
	if !(c.Scene.TargetDiagonal > 0) || !math.IsFinite(c.Scene.TargetDiagonal) {
		return fmt.Errorf("%w: target diagonal %f", core.ErrInvalidConfig, c.Scene.TargetDiagonal)
	}
	if !(c.Camera.Near > 0) || !(c.Camera.Far > c.Camera.Near) {
		return fmt.Errorf("%w: camera clip range [%f, %f]", core.ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	}
	c.Camera.Fov = math.Clamp(c.Camera.Fov, minFov, maxFov)
	return nil
}

// Level returns the parsed log level. Validate must have passed.
func (c *ApplicationConfig) Level() core.LogLevel {
	level, err := core.ParseLogLevel(c.LogLevel)
	if err != nil {
		return core.InfoLevel
	}
	return level
}

/**
 * @brief An application running inside the viewer. Only Config is required;
 * every hook is optional.
 */
type Application struct {
	Config *ApplicationConfig
	// Renderer draws the scene. Defaults to a headless renderer.
	Renderer renderer.Renderer
	// Loader builds layers from files. Defaults to the primitive loader.
	Loader assets.Loader
	// Application specific state.
	State interface{}

	FnInitialize Initialize
	FnUpdate     Update
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func(viewer *Viewer) error
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
