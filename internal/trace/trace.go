// Package trace expands bounded call-graph and type-hierarchy trees from a
// root source position. Symbol resolution is delegated to collaborator
// interfaces; this package only orchestrates traversal, depth bounding, and
// external-boundary filtering.
package trace

import (
	"errors"
	"fmt"
)

// Default traversal bounds, in edges from the root.
const (
	DefaultCallDepth = 5
	DefaultTypeDepth = 10
)

// ErrNoSymbolAtPosition indicates the root position does not resolve to a
// callable or type declaration.
var ErrNoSymbolAtPosition = errors.New("no symbol at position")

// Position identifies a location in a source file.
type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}
