package layers

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gekko3d/layers/render"
)

var ErrNoPositions = errors.New("mesh primitive has no POSITION attribute")

type AssetId string

type MeshAsset struct {
	Name      string
	Positions [][3]float32
	UVs       [][2]float32
	Indices   []uint32
}

// Vertices interleaves positions with UVs. Missing UVs are zero.
func (m MeshAsset) Vertices() []render.Vertex {
	out := make([]render.Vertex, len(m.Positions))
	for i, p := range m.Positions {
		out[i].Position = p
		if i < len(m.UVs) {
			out[i].UV = m.UVs[i]
		}
	}
	return out
}

type AssetServer struct {
	meshes map[AssetId]MeshAsset

	// PlaneMesh is the geometry every instance of the field is drawn with.
	PlaneMesh AssetId
}

func NewAssetServer() *AssetServer {
	return &AssetServer{meshes: make(map[AssetId]MeshAsset)}
}

func (server *AssetServer) AddMesh(mesh MeshAsset) AssetId {
	id := makeAssetId()
	server.meshes[id] = mesh
	return id
}

func (server *AssetServer) Mesh(id AssetId) (MeshAsset, bool) {
	mesh, ok := server.meshes[id]
	return mesh, ok
}

// LoadGLTFMesh reads the first primitive of the first mesh in a .gltf/.glb file.
func (server *AssetServer) LoadGLTFMesh(path string) (AssetId, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return "", fmt.Errorf("gltf open %q: %w", path, err)
	}
	mesh, err := meshFromDocument(doc)
	if err != nil {
		return "", fmt.Errorf("gltf %q: %w", path, err)
	}
	return server.AddMesh(mesh), nil
}

func meshFromDocument(doc *gltf.Document) (MeshAsset, error) {
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return MeshAsset{}, fmt.Errorf("no mesh primitives")
	}
	gm := doc.Meshes[0]
	prim := gm.Primitives[0]

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return MeshAsset{}, ErrNoPositions
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return MeshAsset{}, fmt.Errorf("positions: %w", err)
	}

	mesh := MeshAsset{Name: gm.Name, Positions: positions}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		mesh.UVs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return MeshAsset{}, fmt.Errorf("uvs: %w", err)
		}
	}

	if prim.Indices != nil {
		mesh.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return MeshAsset{}, fmt.Errorf("indices: %w", err)
		}
	} else {
		mesh.Indices = make([]uint32, len(positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}
	return mesh, nil
}

// UnitPlane is a 1x1 quad in the XY plane facing +Z.
func UnitPlane() MeshAsset {
	return MeshAsset{
		Name: "plane",
		Positions: [][3]float32{
			{-0.5, -0.5, 0},
			{0.5, -0.5, 0},
			{0.5, 0.5, 0},
			{-0.5, 0.5, 0},
		},
		UVs: [][2]float32{
			{0, 1},
			{1, 1},
			{1, 0},
			{0, 0},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// AssetServerModule registers the plane geometry, from MeshPath when set.
// A mesh that fails to load falls back to the unit plane.
type AssetServerModule struct {
	MeshPath string
}

func (mod AssetServerModule) Install(app *App, cmd *Commands) {
	server := NewAssetServer()
	if mod.MeshPath != "" {
		id, err := server.LoadGLTFMesh(mod.MeshPath)
		if err != nil {
			app.Logger().Warnf("mesh: %v; using unit plane", err)
		} else {
			server.PlaneMesh = id
			app.Logger().Infof("mesh: loaded %s", mod.MeshPath)
		}
	}
	if server.PlaneMesh == "" {
		server.PlaneMesh = server.AddMesh(UnitPlane())
	}
	cmd.AddResources(server)
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
