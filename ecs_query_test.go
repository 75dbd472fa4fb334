package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery2MapMatchesOnlyEntitiesWithBoth(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b float32 }
	type Comp3 struct{}

	ecs := MakeEcs()
	ecs.addEntity(Comp1{a: 1})
	id2 := ecs.addEntity(Comp1{a: 2}, Comp2{b: 1.37})
	id3 := ecs.addEntity(Comp1{a: 3}, Comp2{b: 4.20}, Comp3{})
	ecs.addEntity(Comp1{a: 4}, Comp3{})
	ecs.addEntity(Comp2{b: 3.14})

	var ids []EntityId
	var as []int
	Query2[Comp1, Comp2]{ecs: &ecs}.Map(func(id EntityId, c1 *Comp1, c2 *Comp2) bool {
		ids = append(ids, id)
		as = append(as, c1.a)
		return true
	})

	assert.Equal(t, []EntityId{id2, id3}, ids)
	assert.Equal(t, []int{2, 3}, as)
}

func TestQueryMapWritesThrough(t *testing.T) {
	type Counter struct{ n int }

	ecs := MakeEcs()
	id := ecs.addEntity(Counter{})
	q := Query1[Counter]{ecs: &ecs}

	for i := 0; i < 3; i++ {
		q.Map(func(_ EntityId, c *Counter) bool {
			c.n++
			return true
		})
	}

	assert.Equal(t, []any{Counter{n: 3}}, ecs.componentsOf(id))
	assert.Equal(t, 1, q.Count())
}

func TestQueryMapStopsEarly(t *testing.T) {
	type Comp struct{ i int }

	ecs := MakeEcs()
	for i := 0; i < 5; i++ {
		ecs.addEntity(Comp{i: i})
	}

	visited := 0
	Query1[Comp]{ecs: &ecs}.Map(func(_ EntityId, _ *Comp) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}

func TestQuery3MissingColumnYieldsNothing(t *testing.T) {
	type A struct{}
	type B struct{}
	type C struct{}

	ecs := MakeEcs()
	ecs.addEntity(A{}, B{})

	called := false
	Query3[A, B, C]{ecs: &ecs}.Map(func(EntityId, *A, *B, *C) bool {
		called = true
		return true
	})
	assert.False(t, called)
	assert.Zero(t, Query1[C]{ecs: &ecs}.Count())
}
