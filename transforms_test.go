package layers

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapYoyo(t *testing.T) {
	tests := []struct {
		v, p, want float64
	}{
		{0, 50, 0},
		{25, 50, 25},
		{50, 50, 50},
		{51, 50, 49},
		{99, 50, 1},
		{100, 50, 0},
		{150, 50, 50},
		{-1, 50, 1},
		{3, 0, 0},
		{3, -2, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, WrapYoyo(tt.v, tt.p), 1e-9, "WrapYoyo(%v, %v)", tt.v, tt.p)
	}
}

func TestTransformsAtTimeZeroDepth(t *testing.T) {
	transforms := GenerateTransforms(0, 100, 1.3, 1.2)
	require.Len(t, transforms, 100)

	for i, tr := range transforms {
		assert.InDelta(t, float64(100-2*i)*1.2, tr.Position.Z(), 1e-3, "instance %d", i)
		assert.Zero(t, tr.Position.X())
		assert.Zero(t, tr.Position.Y())
	}
}

func TestTransformsDepthStrictlyDecreasing(t *testing.T) {
	for _, distance := range []float32{0.5, 1, 1.5} {
		transforms := GenerateTransforms(3.7, 64, 2, distance)
		for i := 1; i < len(transforms); i++ {
			assert.Less(t, transforms[i].Position.Z(), transforms[i-1].Position.Z())
		}
	}
}

func TestTransformsScalePeriodic(t *testing.T) {
	const count = 40
	period := float64(count) * 0.5

	for i := 0; i < count; i++ {
		a := InstanceTransformAt(0, i, count, 1, 1)
		b := InstanceTransformAt(0, i+int(2*period), count, 1, 1)
		assert.Equal(t, a.Scale, b.Scale, "instance %d", i)
		assert.GreaterOrEqual(t, float64(a.Scale.X()), 0.0)
		assert.LessOrEqual(t, float64(a.Scale.X()), 2*period)
		assert.Equal(t, a.Scale.X(), a.Scale.Y())
		assert.Equal(t, float32(1), a.Scale.Z())
	}
}

func TestInstanceAnglesLinearInTime(t *testing.T) {
	const rs = float32(1.3)
	rx0, ry0 := InstanceAngles(0, 7, rs)
	rx1, ry1 := InstanceAngles(2, 7, rs)
	assert.InDelta(t, 2*float64(rs), rx1-rx0, 1e-9)
	assert.InDelta(t, 2*float64(rs), ry1-ry0, 1e-9)
	assert.InDelta(t, 7*0.13, rx0, 1e-9)
	assert.InDelta(t, 7*0.1, ry0, 1e-9)
}

func TestZeroRotationSpeedFreezesOrientation(t *testing.T) {
	at0 := GenerateTransforms(0, 20, 0, 1)
	at9 := GenerateTransforms(9, 20, 0, 1)
	for i := range at0 {
		assert.Equal(t, at0[i].Rotation, at9[i].Rotation)
	}
}

func TestTransformsDeterministic(t *testing.T) {
	a := GenerateTransforms(1.234, 100, 1.3, 1.2)
	b := GenerateTransforms(1.234, 100, 1.3, 1.2)
	assert.Equal(t, a, b)

	dst := make([]InstanceTransform, 100)
	FillTransforms(dst, 1.234, 1.3, 1.2)
	assert.Equal(t, a, dst)
}

func TestTransformsConcreteValues(t *testing.T) {
	transforms := GenerateTransforms(10, 100, 1.3, 1.2)

	assert.InDelta(t, 120, transforms[0].Position.Z(), 1e-3)
	assert.InDelta(t, -117.6, transforms[99].Position.Z(), 1e-3)
	assert.InDelta(t, 100, transforms[50].Scale.X(), 1e-6)
	assert.InDelta(t, 0, transforms[0].Scale.X(), 1e-6)

	rx, ry := InstanceAngles(10, 0, 1.3)
	want := mgl32.AnglesToQuat(float32(rx), float32(ry), 0, mgl32.XYZ)
	assert.True(t, transforms[0].Rotation.ApproxEqual(want))
}

func TestOrientationMatchesXYZEuler(t *testing.T) {
	tr := InstanceTransformAt(0.5, 3, 10, 1, 1)
	rx, ry := InstanceAngles(0.5, 3, 1)

	// Intrinsic XYZ: Rx applied first in the object frame.
	want := mgl32.HomogRotate3DX(float32(rx)).Mul4(mgl32.HomogRotate3DY(float32(ry)))
	got := tr.Rotation.Mat4()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5)
	}
	assert.InDelta(t, 1, tr.Rotation.Len(), 1e-5)
}

func TestInstanceTransformMatrix(t *testing.T) {
	tr := InstanceTransform{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{2, 4, 1},
	}
	m := tr.Matrix()
	p := m.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.Equal(t, mgl32.Vec4{3, 6, 4, 1}, p)
}

func TestGenerateTransformsEmpty(t *testing.T) {
	assert.Nil(t, GenerateTransforms(1, 0, 1, 1))
	assert.False(t, math.IsNaN(float64(InstanceTransformAt(1, 0, 1, 1, 1).Scale.X())))
}
