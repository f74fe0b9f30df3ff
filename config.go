package fixedpool

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Backing selects where the arena bytes come from.
type Backing int

const (
	// BackingHeap allocates the arena on the Go heap.
	BackingHeap Backing = iota
	// BackingMmap maps anonymous private memory outside the Go heap.
	BackingMmap
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "heap"
	case BackingMmap:
		return "mmap"
	default:
		return "unknown"
	}
}

// TypeCheck selects how typed retrieval validates the stored object.
type TypeCheck int

const (
	// TypeCheckIdentity compares the exact type recorded at allocation time.
	TypeCheckIdentity TypeCheck = iota
	// TypeCheckSize only compares sizes. Any pointer-free type whose size fits
	// the allocation may be used to view it.
	TypeCheckSize
)

func (c TypeCheck) String() string {
	switch c {
	case TypeCheckIdentity:
		return "identity"
	case TypeCheckSize:
		return "size"
	default:
		return "unknown"
	}
}

// Config configures a Pool.
type Config struct {
	ZeroMemoryAfterFree  bool // Clear a region when it is deallocated
	ZeroMemoryOnDestruct bool // Clear the whole arena on Release
	Backing              Backing
	TypeCheck            TypeCheck

	// DumpOnFailure logs a heap dump through Logger when a typed allocation fails.
	DumpOnFailure bool
	// Logger receives pool diagnostics. Nil discards them.
	Logger logrus.FieldLogger
}

// DefaultConfig returns the default pool configuration.
func DefaultConfig() *Config {
	return &Config{
		ZeroMemoryAfterFree:  false,
		ZeroMemoryOnDestruct: true,
		Backing:              BackingHeap,
		TypeCheck:            TypeCheckIdentity,
	}
}

func (c *Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return discardLogger
}

var discardLogger = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
