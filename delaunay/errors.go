// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package delaunay

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// DuplicatePointError is returned by Insert when the point lies within the
// configured tolerance of an existing vertex. The triangulation is unchanged.
type DuplicatePointError struct {
	Point    r2.Point
	Existing int
	Distance float64
}

func (e *DuplicatePointError) Error() string {
	return fmt.Sprintf("delaunay: point %v duplicates vertex %d (distance %g)",
		e.Point, e.Existing, e.Distance)
}

// DegenerateInputError is returned by Insert when the point has a non-finite
// coordinate. The triangulation is unchanged.
type DegenerateInputError struct {
	Point r2.Point
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("delaunay: point %v has a non-finite coordinate", e.Point)
}
