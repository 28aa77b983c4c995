package math

func TransformCreate() *Transform {
	t := &Transform{}
	t.SetPositionScale(NewVec3Zero(), NewVec3One())
	t.Local = NewMat4Identity()
	return t
}

func TransformFromPosition(position Vec3) *Transform {
	t := &Transform{}
	t.SetPositionScale(position, NewVec3One())
	t.Local = NewMat4Identity()
	return t
}

func TransformFromPositionScale(position Vec3, scale Vec3) *Transform {
	t := &Transform{}
	t.SetPositionScale(position, scale)
	t.Local = NewMat4Identity()
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
	t.IsDirty = true
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

// ScaleAboutOrigin uniformly scales the transform around the world origin:
// both the scale and the position are multiplied by factor.
func (t *Transform) ScaleAboutOrigin(factor float32) {
	t.Scale = t.Scale.MulScalar(factor)
	t.Position = t.Position.MulScalar(factor)
	t.IsDirty = true
}

func (t *Transform) SetPositionScale(position Vec3, scale Vec3) {
	t.Position = position
	t.Scale = scale
	t.IsDirty = true
}

// GetLocal returns scale followed by translation.
func (t *Transform) GetLocal() Mat4 {
	if t != nil {
		if t.IsDirty {
			s := NewMat4Scale(t.Scale)
			t.Local = s.Mul(NewMat4Translation(t.Position))
			t.IsDirty = false
		}
		return t.Local
	}
	return NewMat4Identity()
}

// Apply maps a point from local space to world space.
func (t *Transform) Apply(point Vec3) Vec3 {
	return point.Transform(t.GetLocal())
}
