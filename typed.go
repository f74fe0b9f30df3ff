package fixedpool

import (
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Destroyer is implemented by values that need cleanup when they leave a pool,
// either through Free/FreeAt or through Release.
type Destroyer interface {
	Destroy()
}

// Alloc places a copy of v in the pool and returns a pointer to it. T must be
// free of Go pointers. The pointer stays valid until the object is freed or
// the pool is released.
func Alloc[T any](p *Pool, v T) (*T, error) {
	ti := typeInfoOf[T]()
	if ti.err != nil {
		return nil, ti.err
	}
	if p.arena.done {
		return nil, errors.Wrapf(ErrReleased, "alloc %s", ti.name)
	}

	addr, ok := p.allocate(ti.size, ti.align, ti)
	if !ok {
		err := errors.Wrapf(ErrOutOfMemory, "cannot allocate %d bytes for %s", ti.size, ti.name)
		p.reportFailure(ti, err)
		return nil, err
	}

	ptr := (*T)(p.Pointer(addr))
	*ptr = v
	return ptr, nil
}

// Get returns the object at addr viewed as T. The view must not be larger than
// the allocation.
func Get[T any](p *Pool, addr Addr) (*T, error) {
	return get[T](p, addr, false)
}

// GetStrict is like Get but also rejects a T smaller than the allocation.
func GetStrict[T any](p *Pool, addr Addr) (*T, error) {
	return get[T](p, addr, true)
}

// AddrOf returns the address of an object allocated from p.
func AddrOf[T any](p *Pool, ptr *T) (Addr, bool) {
	return p.AddrOf(unsafe.Pointer(ptr))
}

// Free destroys the object ptr points to and returns its memory to the pool.
func Free[T any](p *Pool, ptr *T) error {
	addr, ok := AddrOf(p, ptr)
	if !ok {
		if p.arena.done {
			return errors.Wrapf(ErrReleased, "free %s", typeInfoOf[T]().name)
		}
		return errors.Wrapf(ErrNotFound, "free %s at %p", typeInfoOf[T]().name, ptr)
	}
	return FreeAt[T](p, addr)
}

// FreeAt destroys the object at addr and returns its memory to the pool. A
// type mismatch leaves the object untouched.
func FreeAt[T any](p *Pool, addr Addr) error {
	ti := typeInfoOf[T]()
	if p.arena.done {
		return errors.Wrapf(ErrReleased, "free %s", ti.name)
	}
	i, ok := p.table.find(addr)
	if !ok {
		return errors.Wrapf(ErrNotFound, "free %s at %#x", ti.name, uintptr(addr))
	}
	e := &p.table.entries[i]
	if p.cfg.TypeCheck == TypeCheckIdentity {
		if err := checkIdentity(ti, e, "free"); err != nil {
			return err
		}
	}
	p.destroy(e)
	p.deallocateAt(i)
	return nil
}

func get[T any](p *Pool, addr Addr, strict bool) (*T, error) {
	ti := typeInfoOf[T]()
	if ti.err != nil {
		return nil, ti.err
	}
	if p.arena.done {
		return nil, errors.Wrapf(ErrReleased, "get %s", ti.name)
	}
	i, ok := p.table.find(addr)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "get %s at %#x", ti.name, uintptr(addr))
	}
	e := &p.table.entries[i]

	switch p.cfg.TypeCheck {
	case TypeCheckIdentity:
		if err := checkIdentity(ti, e, "get"); err != nil {
			return nil, err
		}
	case TypeCheckSize:
		if (p.base+uintptr(addr))%ti.align != 0 {
			return nil, errors.Wrapf(ErrTypeMismatch, "get %s at %#x: address not aligned to %d",
				ti.name, uintptr(addr), ti.align)
		}
	}

	if ti.extent() > e.extent {
		return nil, errors.Wrapf(ErrSizeMismatch, "get %s: requested type larger than allocated size (%d)",
			ti.name, e.extent)
	}
	if strict && ti.extent() < e.extent {
		return nil, errors.Wrapf(ErrSizeMismatch, "get %s: requested type smaller than allocated size (%d)",
			ti.name, e.extent)
	}
	return (*T)(p.Pointer(addr)), nil
}

func checkIdentity(ti *typeInfo, e *entry, op string) error {
	if e.typ != nil && e.typ.typ == ti.typ {
		return nil
	}
	return errors.Wrapf(ErrTypeMismatch, "%s %s at %#x: stored %s", op, ti.name, uintptr(e.addr), e.typeName())
}

// typeName returns the stored type name, or "-" for raw allocations.
func (e *entry) typeName() string {
	if e.typ == nil {
		return "-"
	}
	return e.typ.name
}

// reportFailure logs a failed typed allocation together with a heap dump.
func (p *Pool) reportFailure(ti *typeInfo, err error) {
	if !p.cfg.DumpOnFailure {
		return
	}
	var b strings.Builder
	_ = p.HeapDump(&b)
	p.log.WithFields(logrus.Fields{
		"type":      ti.name,
		"size":      ti.size,
		"alignment": ti.align,
	}).Warnf("%v\n%s", err, b.String())
}
