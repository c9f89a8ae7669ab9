package typegraph

import (
	"fmt"
	"sync/atomic"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// GraphSerial identifies a graph (or the builder constructing it) for
// the lifetime of the process. Refs carry the serial of the graph they
// belong to; mixing refs across graphs is a fatal error.
type GraphSerial uint64

var serialCounter uint64

func nextGraphSerial() GraphSerial {
	return GraphSerial(atomic.AddUint64(&serialCounter, 1))
}

// TypeRef is an opaque stable handle to a type: the serial of its graph
// plus its index. Refs are comparable and usable as map keys; they are
// the only way types reference each other.
type TypeRef struct {
	serial GraphSerial
	index  int
}

// Index returns the ref's index within its graph.
func (r TypeRef) Index() int {
	return r.index
}

// IsZero reports whether the ref is the zero value (belonging to no
// graph).
func (r TypeRef) IsZero() bool {
	return r.serial == 0
}

// String renders the ref for debug output.
func (r TypeRef) String() string {
	return fmt.Sprintf("t%d@g%d", r.index, r.serial)
}

// assertGraph checks the ref against the serial of the graph it is
// being used with.
func (r TypeRef) assertGraph(serial GraphSerial) {
	errors.MessageAssertf(r.serial == serial,
		"type ref %s used with graph %d", r, serial)
}
