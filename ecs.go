package layers

import (
	"fmt"
	"reflect"
	"sync"
)

type EntityId uint64

// column stores every component of one type, densely packed. ids[row] owns data[row].
type column struct {
	componentType reflect.Type
	ids           []EntityId
	rows          map[EntityId]int
	data          any // []T via reflection
}

type Ecs struct {
	columns  map[reflect.Type]*column
	order    []reflect.Type
	entities map[EntityId]struct{}

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId
}

func MakeEcs() Ecs {
	return Ecs{
		columns:  make(map[reflect.Type]*column),
		entities: make(map[EntityId]struct{}),
	}
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	entityId := ecs.nextEntityId()
	return ecs.insertEntity(entityId, components...)
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	ecs.entities[entityId] = struct{}{}
	for _, component := range components {
		ecs.writeComponent(entityId, component)
	}
	return entityId
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	if _, alive := ecs.entities[entityId]; !alive {
		return
	}
	for _, component := range components {
		ecs.writeComponent(entityId, component)
	}
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	if _, alive := ecs.entities[entityId]; !alive {
		return
	}
	for _, col := range ecs.columns {
		col.remove(entityId)
	}
	delete(ecs.entities, entityId)
}

func (ecs *Ecs) hasEntity(entityId EntityId) bool {
	_, alive := ecs.entities[entityId]
	return alive
}

func (ecs *Ecs) writeComponent(entityId EntityId, component any) {
	componentType := reflect.TypeOf(component)
	reflectValue := reflect.ValueOf(component)
	if componentType.Kind() == reflect.Pointer {
		componentType = componentType.Elem()
		reflectValue = reflectValue.Elem()
	}
	if componentType.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected Component to be a struct or a pointer to a struct, got %s", componentType.Kind()))
	}

	col := ecs.getOrMakeColumn(componentType)
	if row, ok := col.rows[entityId]; ok {
		reflectSliceSet(col.data, row, reflectValue)
		return
	}

	col.rows[entityId] = len(col.ids)
	col.ids = append(col.ids, entityId)
	col.data = reflectSliceAppend(col.data, reflectValue)
}

func (ecs *Ecs) getOrMakeColumn(componentType reflect.Type) *column {
	if col, ok := ecs.columns[componentType]; ok {
		return col
	}
	col := &column{
		componentType: componentType,
		rows:          make(map[EntityId]int),
		data:          reflectSliceMake(componentType),
	}
	ecs.columns[componentType] = col
	ecs.order = append(ecs.order, componentType)
	return col
}

func (ecs *Ecs) componentsOf(entityId EntityId) []any {
	var res []any
	for _, t := range ecs.order {
		col := ecs.columns[t]
		if row, ok := col.rows[entityId]; ok {
			res = append(res, reflectSliceGet(col.data, row).Interface())
		}
	}
	return res
}

// remove swaps the last row into the removed slot to keep the column dense.
func (col *column) remove(entityId EntityId) {
	row, ok := col.rows[entityId]
	if !ok {
		return
	}
	last := len(col.ids) - 1
	if row != last {
		moved := col.ids[last]
		reflectSliceSet(col.data, row, reflectSliceGet(col.data, last))
		col.ids[row] = moved
		col.rows[moved] = row
	}
	col.ids = col.ids[:last]
	col.data = reflectSliceTruncate(col.data, last)
	delete(col.rows, entityId)
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter += 1

	return id
}
