package io

import (
	"fmt"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/wingworks/geom"
)

// ReadVertices reads a polygon outline from a whitespace separated text
// file with x in the first column and y in the second.
func ReadVertices(file string) ([]geom.Vec, error) {
	cols, err := table.ReadTable(file, []int{0, 1}, nil)
	if err != nil {
		return nil, fmt.Errorf("Could not read vertices from %s: %w", file, err)
	}

	xs, ys := cols[0], cols[1]
	if len(xs) < 3 {
		return nil, fmt.Errorf(
			"%s contains %d vertices, but a polygon needs at least 3.",
			file, len(xs),
		)
	}

	vs := make([]geom.Vec, len(xs))
	for i := range vs {
		vs[i] = geom.Vec{X: xs[i], Y: ys[i]}
	}
	return vs, nil
}
