package layers

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	minPitch    = -1.5
	maxPitch    = 1.5
	minDistance = 0.1
)

// Viewport is the current framebuffer size in pixels.
type Viewport struct {
	Width, Height int
	// Resized is set for the frame in which the size changed.
	Resized bool
}

func (vp Viewport) Aspect() float32 {
	if vp.Height <= 0 {
		return 1
	}
	return float32(vp.Width) / float32(vp.Height)
}

type CameraComponent struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	Fov      float32 // degrees
	Aspect   float32
	Near     float32
	Far      float32
}

func (c CameraComponent) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c CameraComponent) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c CameraComponent) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// orbitOffset places a point on a sphere of radius distance around the origin.
func orbitOffset(yaw, pitch, distance float32) mgl32.Vec3 {
	cosPitch := float32(math.Cos(float64(pitch)))
	sinPitch := float32(math.Sin(float64(pitch)))
	cosYaw := float32(math.Cos(float64(yaw)))
	sinYaw := float32(math.Sin(float64(yaw)))
	return mgl32.Vec3{
		distance * cosPitch * sinYaw,
		distance * sinPitch,
		distance * cosPitch * cosYaw,
	}
}

// OrbitControls turns mouse drags and scrolling into an orbit around Target.
// With Damping in (0,1] pending motion is applied a fraction per frame and
// decays, otherwise it is applied at once.
type OrbitControls struct {
	Yaw      float32
	Pitch    float32
	Distance float32
	Damping  float32

	RotateSpeed float32 // radians per pixel
	ZoomSpeed   float32 // fraction of distance per scroll step

	yawDelta   float32
	pitchDelta float32
	zoomDelta  float32
}

// NewOrbitControlsFrom starts the orbit at position, relative to the target.
func NewOrbitControlsFrom(position mgl32.Vec3, damping float32) OrbitControls {
	o := NewOrbitControls(position.Len(), damping)
	if o.Distance < minDistance {
		o.Distance = minDistance
		return o
	}
	o.Yaw = float32(math.Atan2(float64(position.X()), float64(position.Z())))
	o.Pitch = mgl32.Clamp(float32(math.Asin(float64(position.Y()/o.Distance))), minPitch, maxPitch)
	return o
}

func NewOrbitControls(distance, damping float32) OrbitControls {
	return OrbitControls{
		Distance:    distance,
		Damping:     damping,
		RotateSpeed: 0.005,
		ZoomSpeed:   0.1,
	}
}

// Rotate queues a drag of dx, dy pixels.
func (o *OrbitControls) Rotate(dx, dy float32) {
	o.yawDelta -= dx * o.RotateSpeed
	o.pitchDelta += dy * o.RotateSpeed
}

// Zoom queues scroll steps; positive moves closer.
func (o *OrbitControls) Zoom(steps float32) {
	o.zoomDelta -= steps * o.ZoomSpeed * o.Distance
}

// Update applies pending motion and clamps the result.
func (o *OrbitControls) Update() {
	factor := o.Damping
	if factor <= 0 || factor > 1 {
		factor = 1
	}

	o.Yaw += o.yawDelta * factor
	o.Pitch += o.pitchDelta * factor
	o.Distance += o.zoomDelta * factor

	keep := 1 - factor
	o.yawDelta *= keep
	o.pitchDelta *= keep
	o.zoomDelta *= keep

	o.Pitch = mgl32.Clamp(o.Pitch, minPitch, maxPitch)
	if o.Distance < minDistance {
		o.Distance = minDistance
	}
}

func (o OrbitControls) Offset() mgl32.Vec3 {
	return orbitOffset(o.Yaw, o.Pitch, o.Distance)
}

// AutoOrbit moves the camera along a closed path around the origin. The
// position depends only on elapsed seconds, so it does not drift with frame
// rate.
type AutoOrbit struct {
	Radius float32
}

func (a AutoOrbit) PositionAt(t float64) mgl32.Vec3 {
	r := float64(a.Radius)
	return mgl32.Vec3{
		float32(math.Cos(t*0.2) * r),
		float32(math.Sin(t*0.05) * r),
		float32(math.Sin(t*0.15) * r),
	}
}

// CameraModule spawns the camera. Config.Auto selects AutoOrbit over
// OrbitControls.
type CameraModule struct {
	Config CameraConfig
	Width  int
	Height int
}

func (mod CameraModule) Install(app *App, cmd *Commands) {
	vp, ok := Resource[Viewport](app)
	if !ok {
		vp = &Viewport{Width: mod.Width, Height: mod.Height}
		cmd.AddResources(vp)
	}

	cam := CameraComponent{
		Up:     mgl32.Vec3{0, 1, 0},
		Fov:    mod.Config.Fov,
		Aspect: vp.Aspect(),
		Near:   mod.Config.Near,
		Far:    mod.Config.Far,
	}

	if mod.Config.Auto {
		orbit := AutoOrbit{Radius: mod.Config.AutoRadius}
		cam.Position = cam.Target.Add(orbit.PositionAt(0))
		cmd.AddEntity(cam, orbit)
		app.UseSystem(
			System(autoOrbitSystem).
				InStage(Update),
		)
	} else {
		controls := NewOrbitControlsFrom(mgl32.Vec3(mod.Config.Start), mod.Config.Damping)
		cam.Position = cam.Target.Add(controls.Offset())
		cmd.AddEntity(cam, controls)
		app.UseSystem(
			System(orbitControlsSystem).
				InStage(Update),
		)
	}

	app.UseSystem(
		System(cameraViewportSystem).
			InStage(Update),
	)
}

func orbitControlsSystem(cmd *Commands, input *Input) {
	MakeQuery2[CameraComponent, OrbitControls](cmd).Map(func(_ EntityId, cam *CameraComponent, controls *OrbitControls) bool {
		if input.Pressed[MouseButtonLeft] {
			controls.Rotate(float32(input.MouseDeltaX), float32(input.MouseDeltaY))
		}
		if input.ScrollY != 0 {
			controls.Zoom(float32(input.ScrollY))
		}
		controls.Update()
		cam.Position = cam.Target.Add(controls.Offset())
		return true
	})
}

func autoOrbitSystem(cmd *Commands, t *Time) {
	elapsed := t.Elapsed()
	MakeQuery2[CameraComponent, AutoOrbit](cmd).Map(func(_ EntityId, cam *CameraComponent, orbit *AutoOrbit) bool {
		cam.Position = cam.Target.Add(orbit.PositionAt(elapsed))
		return true
	})
}

func cameraViewportSystem(cmd *Commands, vp *Viewport) {
	aspect := vp.Aspect()
	MakeQuery1[CameraComponent](cmd).Map(func(_ EntityId, cam *CameraComponent) bool {
		cam.Aspect = aspect
		return true
	})
}
