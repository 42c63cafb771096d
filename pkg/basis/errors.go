package basis

import "fmt"

// ShapeError reports an input slice whose length does not match what the
// basis grid requires. It is returned before any computation, so the caller
// never sees partial output.
type ShapeError struct {
	// Op names the operation that rejected the input
	Op string

	// Got and Want are the actual and required element counts
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: input has %d elements, want %d", e.Op, e.Got, e.Want)
}

// ConstructionError reports invalid basis parameters: a non-positive grid
// size or bin count, or a grid whose maximum radius is zero while more than
// one bin was requested.
type ConstructionError struct {
	Reason string
}

func (e *ConstructionError) Error() string {
	return "basis construction: " + e.Reason
}
