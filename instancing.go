package layers

// InstancedMesh is the plane field: Count copies of one mesh, each with its
// own transform. Dirty is raised whenever Transforms is rewritten and lowered
// by the renderer after upload.
type InstancedMesh struct {
	Mesh       AssetId
	Count      int
	Transforms []InstanceTransform
	Dirty      bool
}

// NewInstancedMesh allocates count instances posed at time 0.
func NewInstancedMesh(mesh AssetId, count int, params *Parameters) InstancedMesh {
	im := InstancedMesh{
		Mesh:       mesh,
		Count:      count,
		Transforms: make([]InstanceTransform, max(count, 0)),
	}
	im.Recompute(0, params.RotationSpeed(), params.LayersDistance())
	return im
}

// Recompute rewrites every transform in place and marks the mesh dirty.
func (im *InstancedMesh) Recompute(time float64, rotationSpeed, layersDistance float32) {
	FillTransforms(im.Transforms, time, rotationSpeed, layersDistance)
	im.Dirty = true
}

type InstancingModule struct {
	Count int
}

func (mod InstancingModule) Install(app *App, cmd *Commands) {
	params := MustResource[Parameters](app)

	var mesh AssetId
	if assets, ok := Resource[AssetServer](app); ok {
		mesh = assets.PlaneMesh
	}
	cmd.AddEntity(NewInstancedMesh(mesh, mod.Count, params))
	app.Logger().Infof("instancing: %d planes", mod.Count)

	app.UseSystem(
		System(instanceTransformSystem).
			InStage(PostUpdate),
	)
}

func instanceTransformSystem(cmd *Commands, t *Time, params *Parameters) {
	time := t.Elapsed() * TimeDamping
	rotationSpeed := params.RotationSpeed()
	layersDistance := params.LayersDistance()

	MakeQuery1[InstancedMesh](cmd).Map(func(_ EntityId, im *InstancedMesh) bool {
		im.Recompute(time, rotationSpeed, layersDistance)
		return true
	})
}
