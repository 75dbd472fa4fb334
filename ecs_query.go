package layers

import (
	"reflect"
)

// Queries iterate entities in insertion order of the first component's column.
// To add a QueryN, copy Query3 and add one more lookup.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func columnOf[T any](ecs *Ecs) (*column, []T) {
	col, ok := ecs.columns[typeOf[T]()]
	if !ok {
		return nil, nil
	}
	return col, col.data.([]T)
}

func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	colA, compsA := columnOf[A](q.ecs)
	if colA == nil {
		return
	}

	for row, entityId := range colA.ids {
		if !m(entityId, &compsA[row]) {
			return
		}
	}
}

// Count returns how many entities carry A.
func (q Query1[A]) Count() int {
	colA, _ := columnOf[A](q.ecs)
	if colA == nil {
		return 0
	}
	return reflectSliceLen(colA.data)
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	colA, compsA := columnOf[A](q.ecs)
	colB, compsB := columnOf[B](q.ecs)
	if colA == nil || colB == nil {
		return
	}

	for rowA, entityId := range colA.ids {
		rowB, ok := colB.rows[entityId]
		if !ok {
			continue
		}
		if !m(entityId, &compsA[rowA], &compsB[rowB]) {
			return
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	colA, compsA := columnOf[A](q.ecs)
	colB, compsB := columnOf[B](q.ecs)
	colC, compsC := columnOf[C](q.ecs)
	if colA == nil || colB == nil || colC == nil {
		return
	}

	for rowA, entityId := range colA.ids {
		rowB, ok := colB.rows[entityId]
		if !ok {
			continue
		}
		rowC, ok := colC.rows[entityId]
		if !ok {
			continue
		}
		if !m(entityId, &compsA[rowA], &compsB[rowB], &compsC[rowC]) {
			return
		}
	}
}
