package components

import (
	"github.com/spaghettifunk/meshview/engine/math"
)

/**
 * @brief A perspective camera looking at a target point. The
 * projection matrix is rebuilt by UpdateProjection and the view
 * matrix lazily whenever position or target change.
 */
type Camera struct {
	/** @brief Vertical field of view in degrees. */
	Fov float32
	/** @brief Width over height of the viewport. */
	Aspect float32
	/** @brief Near clipping plane distance. */
	Near float32
	/** @brief Far clipping plane distance. */
	Far float32
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix math.Mat4
	/** @brief The projection matrix, rebuilt by UpdateProjection. */
	ProjectionMatrix math.Mat4
}

func NewCamera(fov, aspect, near, far float32) *Camera {
	camera := &Camera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = math.NewVec3Zero()
	c.Target = math.NewVec3Zero()
	c.IsDirty = true
	c.ViewMatrix = math.NewMat4Identity()
	c.UpdateProjection()
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetTarget(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
}

// UpdateProjection must be called after Fov, Aspect, Near or Far change.
func (c *Camera) UpdateProjection() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.ProjectionMatrix = math.NewMat4Perspective(math.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = math.NewMat4LookAt(c.Position, c.Target, math.NewVec3Up())
		c.IsDirty = false
	}
	return c.ViewMatrix
}

func (c *Camera) GetProjection() math.Mat4 {
	return c.ProjectionMatrix
}
