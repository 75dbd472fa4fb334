package layers

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// TimeDamping scales clock seconds into the time fed to the generator.
const TimeDamping = 0.1

// Per-instance phase offsets of the X and Y rotation angles.
const (
	phaseX = 0.13
	phaseY = 0.1
)

type InstanceTransform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Matrix composes translation, rotation and scale as T·R·S.
func (t InstanceTransform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// WrapYoyo folds v into a triangle wave of period 2p: it rises from 0 to p and
// falls back to 0. A non-positive p yields 0.
func WrapYoyo(v, p float64) float64 {
	if p <= 0 {
		return 0
	}
	span := 2 * p
	v = math.Mod(v, span)
	if v < 0 {
		v += span
	}
	if v <= p {
		return v
	}
	return span - v
}

// InstanceAngles returns the X and Y Euler angles of instance i. Z is always 0.
func InstanceAngles(time float64, i int, rotationSpeed float32) (rx, ry float64) {
	base := time * float64(rotationSpeed)
	return base + float64(i)*phaseX, base + float64(i)*phaseY
}

// InstanceTransformAt computes the transform of instance i out of count.
func InstanceTransformAt(time float64, i, count int, rotationSpeed, layersDistance float32) InstanceTransform {
	depth := float32(count-2*i) * layersDistance

	rx, ry := InstanceAngles(time, i, rotationSpeed)
	rotation := mgl32.AnglesToQuat(float32(rx), float32(ry), 0, mgl32.XYZ)

	s := float32(2 * WrapYoyo(float64(i), float64(count)*0.5))

	return InstanceTransform{
		Position: mgl32.Vec3{0, 0, depth},
		Rotation: rotation,
		Scale:    mgl32.Vec3{s, s, 1},
	}
}

// GenerateTransforms returns count freshly computed transforms.
func GenerateTransforms(time float64, count int, rotationSpeed, layersDistance float32) []InstanceTransform {
	if count <= 0 {
		return nil
	}
	dst := make([]InstanceTransform, count)
	FillTransforms(dst, time, rotationSpeed, layersDistance)
	return dst
}

// FillTransforms overwrites every element of dst, using len(dst) as the
// instance count.
func FillTransforms(dst []InstanceTransform, time float64, rotationSpeed, layersDistance float32) {
	count := len(dst)
	for i := range dst {
		dst[i] = InstanceTransformAt(time, i, count, rotationSpeed, layersDistance)
	}
}
