package fixedpool

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// typeInfo is the per-type record attached to typed entries. There is exactly
// one typeInfo per Go type, so identity can be compared by reflect.Type.
type typeInfo struct {
	typ     reflect.Type
	name    string
	size    uintptr
	align   uintptr
	destroy func(unsafe.Pointer) // nil when *T does not implement Destroyer
	err     error                // set when T cannot be placed in an arena
}

var (
	typeInfos     sync.Map // reflect.Type -> *typeInfo
	destroyerType = reflect.TypeFor[Destroyer]()
)

// typeInfoOf returns the cached typeInfo for T.
func typeInfoOf[T any]() *typeInfo {
	t := reflect.TypeFor[T]()
	if ti, ok := typeInfos.Load(t); ok {
		return ti.(*typeInfo)
	}

	var zero T
	ti := &typeInfo{
		typ:   t,
		name:  t.String(),
		size:  unsafe.Sizeof(zero),
		align: unsafe.Alignof(zero),
	}
	if hasPointers(t) {
		ti.err = errors.Wrapf(ErrUnsupportedType, "%s", t)
	}
	if reflect.PointerTo(t).Implements(destroyerType) {
		ti.destroy = func(p unsafe.Pointer) {
			any((*T)(p)).(Destroyer).Destroy()
		}
	}
	actual, _ := typeInfos.LoadOrStore(t, ti)
	return actual.(*typeInfo)
}

// extent is the number of arena bytes an allocation of this type occupies.
func (ti *typeInfo) extent() uintptr {
	return max(ti.size, 1)
}

// hasPointers reports whether values of t hold anything the garbage collector
// must trace. Arena memory is not scanned, so such values would dangle.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
