package etikett

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// IDGen produces opaque per-invocation suffixes for output artifacts.
type IDGen interface {
	Next() string
}

// ULIDGen generates ULID suffixes. Unlike a second-resolution timestamp,
// these stay collision-free at any invocation rate while remaining
// time-sortable.
type ULIDGen struct{}

func (ULIDGen) Next() string {
	return strings.ToLower(ulid.Make().String())
}
