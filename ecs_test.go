package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDepth struct{ Z float32 }
type testTag struct{ Name string }

func TestEcsAddEntityWritesColumns(t *testing.T) {
	ecs := MakeEcs()

	a := ecs.addEntity(testDepth{Z: 1})
	b := ecs.addEntity(testDepth{Z: 2}, &testTag{Name: "b"})

	assert.NotEqual(t, a, b)
	assert.True(t, ecs.hasEntity(a))
	assert.Equal(t, []any{testDepth{Z: 1}}, ecs.componentsOf(a))
	assert.Equal(t, []any{testDepth{Z: 2}, testTag{Name: "b"}}, ecs.componentsOf(b))
}

func TestEcsAddComponentsReplacesSameType(t *testing.T) {
	ecs := MakeEcs()
	id := ecs.addEntity(testDepth{Z: 1})

	ecs.addComponents(id, testDepth{Z: 5}, testTag{Name: "x"})

	assert.Equal(t, []any{testDepth{Z: 5}, testTag{Name: "x"}}, ecs.componentsOf(id))
}

func TestEcsAddComponentsIgnoresDeadEntity(t *testing.T) {
	ecs := MakeEcs()
	id := ecs.addEntity(testDepth{Z: 1})
	ecs.removeEntity(id)

	ecs.addComponents(id, testTag{Name: "ghost"})

	assert.False(t, ecs.hasEntity(id))
	assert.Empty(t, ecs.componentsOf(id))
}

func TestEcsRemoveEntityKeepsOthersIntact(t *testing.T) {
	ecs := MakeEcs()
	ids := []EntityId{
		ecs.addEntity(testDepth{Z: 0}),
		ecs.addEntity(testDepth{Z: 1}),
		ecs.addEntity(testDepth{Z: 2}),
	}

	ecs.removeEntity(ids[0])

	col := ecs.columns[typeOf[testDepth]()]
	require.NotNil(t, col)
	assert.Len(t, col.ids, 2)
	assert.Equal(t, []any{testDepth{Z: 1}}, ecs.componentsOf(ids[1]))
	assert.Equal(t, []any{testDepth{Z: 2}}, ecs.componentsOf(ids[2]))
	for row, id := range col.ids {
		assert.Equal(t, row, col.rows[id])
	}
}

func TestEcsInvalidComponentPanics(t *testing.T) {
	ecs := MakeEcs()
	assert.Panics(t, func() { ecs.addEntity(123) })
}

func TestEcsEntityIdsIncrease(t *testing.T) {
	ecs := MakeEcs()
	first := ecs.nextEntityId()
	second := ecs.nextEntityId()
	assert.Equal(t, first+1, second)
}
