package shell

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/fixedpool"
)

// Point is the two-field record stored by "put point X Y".
type Point struct {
	X, Y int64
}

// valueType binds a shell type name to typed pool operations.
type valueType struct {
	args int
	put  func(s *fixedpool.SafePool, args []string) (fixedpool.Addr, error)
	get  func(s *fixedpool.SafePool, addr fixedpool.Addr) (string, error)
	del  func(s *fixedpool.SafePool, addr fixedpool.Addr) error
}

var valueTypes = map[string]valueType{
	"i64": typed(1, func(args []string) (int64, error) {
		return strconv.ParseInt(args[0], 0, 64)
	}, func(v *int64) string {
		return strconv.FormatInt(*v, 10)
	}),
	"f64": typed(1, func(args []string) (float64, error) {
		return strconv.ParseFloat(args[0], 64)
	}, func(v *float64) string {
		return strconv.FormatFloat(*v, 'g', -1, 64)
	}),
	"point": typed(2, func(args []string) (Point, error) {
		x, err := strconv.ParseInt(args[0], 0, 64)
		if err != nil {
			return Point{}, err
		}
		y, err := strconv.ParseInt(args[1], 0, 64)
		return Point{X: x, Y: y}, err
	}, func(v *Point) string {
		return fmt.Sprintf("(%d, %d)", v.X, v.Y)
	}),
}

func typed[T any](args int, parse func([]string) (T, error), format func(*T) string) valueType {
	return valueType{
		args: args,
		put: func(s *fixedpool.SafePool, in []string) (fixedpool.Addr, error) {
			v, err := parse(in)
			if err != nil {
				return 0, errors.Wrap(err, "parse value")
			}
			var addr fixedpool.Addr
			err = s.Do(func(p *fixedpool.Pool) error {
				ptr, err := fixedpool.Alloc(p, v)
				if err != nil {
					return err
				}
				addr, _ = fixedpool.AddrOf(p, ptr)
				return nil
			})
			return addr, err
		},
		get: func(s *fixedpool.SafePool, addr fixedpool.Addr) (string, error) {
			var out string
			err := s.Do(func(p *fixedpool.Pool) error {
				ptr, err := fixedpool.Get[T](p, addr)
				if err != nil {
					return err
				}
				out = format(ptr)
				return nil
			})
			return out, err
		},
		del: func(s *fixedpool.SafePool, addr fixedpool.Addr) error {
			return fixedpool.SafeFreeAt[T](s, addr)
		},
	}
}

func lookupType(name string) (valueType, error) {
	vt, ok := valueTypes[name]
	if !ok {
		return valueType{}, errors.Errorf("unknown type %q (want one of %v)", name, typeNames())
	}
	return vt, nil
}

func typeNames() []string {
	names := make([]string, 0, len(valueTypes))
	for name := range valueTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
