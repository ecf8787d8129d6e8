package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's world position.
type Position r2.Vec

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec { return r2.Vec(p) }

// Set overwrites the position from a vector.
func (p *Position) Set(v r2.Vec) { *p = Position(v) }
