// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stereovoronoi

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Cell represents a Voronoi cell. It is a view structure for accessing a cell in a Diagram.
// The cell's index corresponds to the index of its site in the Diagram's Sites.
type Cell struct {
	idx int
	d   *Diagram
}

// SiteIndex returns the index of the site in the Diagram's Sites.
func (c Cell) SiteIndex() int {
	return c.idx
}

// Site returns the site point of the cell.
func (c Cell) Site() r2.Point {
	return c.d.Sites[c.idx]
}

// IsBounded reports whether the cell is a closed polygon, which holds for
// sites strictly inside the convex hull.
func (c Cell) IsBounded() bool {
	return !c.d.hull[c.idx]
}

// NumEdges returns the number of Voronoi edges on the cell boundary.
// This equals the number of neighbors.
func (c Cell) NumEdges() int {
	return c.d.CellOffsets[c.idx+1] - c.d.CellOffsets[c.idx]
}

// EdgeIndices returns the indices of the boundary edges in the Diagram's Edges.
func (c Cell) EdgeIndices() []int {
	return c.d.CellEdges[c.d.CellOffsets[c.idx]:c.d.CellOffsets[c.idx+1]]
}

// Edge returns the boundary edge at the specified index.
// It returns an error if the index is out of range.
func (c Cell) Edge(i int) (Edge, error) {
	start := c.d.CellOffsets[c.idx]
	end := c.d.CellOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return Edge{}, fmt.Errorf("Edge: index %d out of range [0 %d)", i, end-start)
	}
	return c.d.Edges[c.d.CellEdges[start+i]], nil
}

// NumNeighbors returns the number of neighboring cells.
// This equals the number of edges.
func (c Cell) NumNeighbors() int {
	return c.d.CellOffsets[c.idx+1] - c.d.CellOffsets[c.idx]
}

// NeighborIndices returns the indices of the neighboring cells in the Diagram,
// parallel to EdgeIndices.
func (c Cell) NeighborIndices() []int {
	return c.d.CellNeighbors[c.d.CellOffsets[c.idx]:c.d.CellOffsets[c.idx+1]]
}

// Neighbor returns the neighboring cell at the specified index.
// It returns an error if the index is out of range.
func (c Cell) Neighbor(i int) (Cell, error) {
	start := c.d.CellOffsets[c.idx]
	end := c.d.CellOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return Cell{}, fmt.Errorf("Neighbor: index %d out of range [0 %d)", i, end-start)
	}
	nc, err := c.d.Cell(c.d.CellNeighbors[start+i])
	if err != nil {
		return Cell{}, err
	}
	return nc, nil
}
