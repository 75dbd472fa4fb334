package layers

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleDocument(withIndices bool) *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})

	prim := &gltf.Primitive{
		Attributes: map[string]int{"POSITION": pos, "TEXCOORD_0": uv},
	}
	if withIndices {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, []uint16{2, 1, 0}))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "tri", Primitives: []*gltf.Primitive{prim}}}
	return doc
}

func TestMeshFromDocument(t *testing.T) {
	mesh, err := meshFromDocument(triangleDocument(true))
	require.NoError(t, err)

	assert.Equal(t, "tri", mesh.Name)
	assert.Equal(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, mesh.Positions)
	assert.Equal(t, [][2]float32{{0, 0}, {1, 0}, {0, 1}}, mesh.UVs)
	assert.Equal(t, []uint32{2, 1, 0}, mesh.Indices)
}

func TestMeshFromDocument_SequentialIndices(t *testing.T) {
	mesh, err := meshFromDocument(triangleDocument(false))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
}

func TestMeshFromDocument_Errors(t *testing.T) {
	_, err := meshFromDocument(gltf.NewDocument())
	assert.ErrorContains(t, err, "no mesh primitives")

	doc := triangleDocument(false)
	delete(doc.Meshes[0].Primitives[0].Attributes, "POSITION")
	_, err = meshFromDocument(doc)
	assert.ErrorIs(t, err, ErrNoPositions)
}

func TestAssetServer_LoadGLTFMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, gltf.SaveBinary(triangleDocument(true), path))

	server := NewAssetServer()
	id, err := server.LoadGLTFMesh(path)
	require.NoError(t, err)

	mesh, ok := server.Mesh(id)
	require.True(t, ok)
	assert.Len(t, mesh.Positions, 3)

	_, err = server.LoadGLTFMesh(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)
}

func TestUnitPlane(t *testing.T) {
	plane := UnitPlane()
	require.Len(t, plane.Positions, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, plane.Indices)
	for _, p := range plane.Positions {
		assert.Zero(t, p[2])
	}

	vertices := plane.Vertices()
	require.Len(t, vertices, 4)
	assert.Equal(t, plane.Positions[2], vertices[2].Position)
	assert.Equal(t, plane.UVs[2], vertices[2].UV)
}

func TestMeshAsset_VerticesWithoutUVs(t *testing.T) {
	mesh := MeshAsset{Positions: [][3]float32{{1, 2, 3}, {4, 5, 6}}}
	vertices := mesh.Vertices()
	require.Len(t, vertices, 2)
	assert.Zero(t, vertices[1].UV)
}

func TestAssetServerModule_FallsBackToUnitPlane(t *testing.T) {
	app := NewAppBuilder().UseModule(AssetServerModule{MeshPath: filepath.Join(t.TempDir(), "nope.glb")}).Build()

	server := MustResource[AssetServer](app)
	mesh, ok := server.Mesh(server.PlaneMesh)
	require.True(t, ok)
	assert.Equal(t, UnitPlane(), mesh)
}

func TestAssetServer_IdsAreUnique(t *testing.T) {
	server := NewAssetServer()
	a := server.AddMesh(UnitPlane())
	b := server.AddMesh(UnitPlane())
	assert.NotEqual(t, a, b)
}
