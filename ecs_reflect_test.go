package layers

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReflectSliceMakeHasElemType(t *testing.T) {
	type layer struct{ Depth float32 }
	slice := reflectSliceMake(reflect.TypeOf(layer{}))
	assert.Equal(t, reflect.Slice, reflect.TypeOf(slice).Kind())
	assert.Equal(t, reflect.TypeOf(layer{}), reflect.TypeOf(slice).Elem())
	assert.Equal(t, 0, reflectSliceLen(slice))
}

func TestReflectSliceGetSet(t *testing.T) {
	slice := []int{10, 20, 30}
	assert.Equal(t, int64(20), reflectSliceGet(slice, 1).Int())

	reflectSliceSet(slice, 0, reflect.ValueOf(99))
	assert.Equal(t, 99, slice[0])

	assert.Panics(t, func() { reflectSliceGet(slice, 10) })
	assert.Panics(t, func() { reflectSliceSet(slice, 0, reflect.ValueOf("wrong")) })
}

func TestReflectSliceAppend(t *testing.T) {
	var slice any = []int{}
	for i := 0; i < 5; i++ {
		slice = reflectSliceAppend(slice, reflect.ValueOf(i))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, slice)
	assert.Panics(t, func() { reflectSliceAppend(slice, reflect.ValueOf("wrong")) })
}

func TestReflectSliceTruncateZeroesTail(t *testing.T) {
	backing := []*int{new(int), new(int), new(int)}
	truncated := reflectSliceTruncate(backing, 1).([]*int)

	assert.Len(t, truncated, 1)
	assert.NotNil(t, backing[0])
	assert.Nil(t, backing[1])
	assert.Nil(t, backing[2])
}

func TestReflectSliceLenPanicsOnNonSlice(t *testing.T) {
	assert.Equal(t, 3, reflectSliceLen([]string{"a", "b", "c"}))
	assert.Panics(t, func() { reflectSliceLen(123) })
}
