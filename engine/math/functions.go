package math

import (
	"github.com/chewxy/math32"
)

const (
	K_PI float32 = 3.14159265358979323846
	// diagonal of the unit cube
	K_SQRT_THREE         float32 = 1.73205080756887729352
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
)

// IsFinite reports whether x is neither infinite nor NaN.
func IsFinite(x float32) bool {
	return !math32.IsInf(x, 0) && !math32.IsNaN(x)
}

func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}

// ------------------------------------------
// Vector 3
// ------------------------------------------

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return NewVec3Scalar(1)
}

// NewVec3Up points along +Y.
func NewVec3Up() Vec3 {
	return Vec3{Y: 1}
}

// NewVec3Scalar returns a vector with every component set to s.
func NewVec3Scalar(s float32) Vec3 {
	return Vec3{X: s, Y: s, Z: s}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return v.Add(other.Negate())
}

func (v Vec3) MulScalar(scalar float32) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// Negate returns the vector pointing the opposite way.
func (v Vec3) Negate() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{
		X: math32.Min(v.X, other.X),
		Y: math32.Min(v.Y, other.Y),
		Z: math32.Min(v.Z, other.Z),
	}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{
		X: math32.Max(v.X, other.X),
		Y: math32.Max(v.Y, other.Y),
		Z: math32.Max(v.Z, other.Z),
	}
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return v.MulScalar(1 / length)
}

func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Compare reports whether every component of v is within tolerance of other.
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	d := v.Sub(other)
	return math32.Abs(d.X) <= tolerance &&
		math32.Abs(d.Y) <= tolerance &&
		math32.Abs(d.Z) <= tolerance
}

// Transform maps the point v (w = 1) by m.
func (v Vec3) Transform(m Mat4) Vec3 {
	return Vec3{
		X: v.X*m.Data[0] + v.Y*m.Data[4] + v.Z*m.Data[8] + m.Data[12],
		Y: v.X*m.Data[1] + v.Y*m.Data[5] + v.Z*m.Data[9] + m.Data[13],
		Z: v.X*m.Data[2] + v.Y*m.Data[6] + v.Z*m.Data[10] + m.Data[14],
	}
}

// ------------------------------------------
// Matrix 4
// ------------------------------------------

func NewMat4Identity() Mat4 {
	m := Mat4{}
	for i := 0; i < 4; i++ {
		m.Data[i*5] = 1
	}
	return m
}

// Mul returns mt followed by other, in row-vector order.
func (mt Mat4) Mul(other Mat4) Mat4 {
	out := Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out.Data[row*4+col] = sum
		}
	}
	return out
}

// NewMat4Perspective builds a right-handed perspective projection.
func NewMat4Perspective(fovRadians, aspect, near, far float32) Mat4 {
	halfTan := math32.Tan(fovRadians * 0.5)
	depth := far - near

	m := Mat4{}
	m.Data[0] = 1 / (aspect * halfTan)
	m.Data[5] = 1 / halfTan
	m.Data[10] = -(far + near) / depth
	m.Data[11] = -1
	m.Data[14] = -(2 * far * near) / depth
	return m
}

// NewMat4LookAt builds the view matrix of an eye at position looking at
// target.
func NewMat4LookAt(position, target, up Vec3) Mat4 {
	forward := target.Sub(position).Normalized()
	right := up.Cross(forward).Normalized()
	camUp := forward.Cross(right)

	m := Mat4{}
	for i, axis := range [3]Vec3{right, camUp, forward.Negate()} {
		m.Data[i] = axis.X
		m.Data[4+i] = axis.Y
		m.Data[8+i] = axis.Z
		m.Data[12+i] = -axis.Dot(position)
	}
	m.Data[15] = 1
	return m
}

func NewMat4Translation(position Vec3) Mat4 {
	m := NewMat4Identity()
	m.Data[12] = position.X
	m.Data[13] = position.Y
	m.Data[14] = position.Z
	return m
}

func NewMat4Scale(scale Vec3) Mat4 {
	m := NewMat4Identity()
	m.Data[0] = scale.X
	m.Data[5] = scale.Y
	m.Data[10] = scale.Z
	return m
}
