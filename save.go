/*
Copyright © 2018 the BETR-Go authors.
This file is part of BETR-Go.

BETR-Go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

BETR-Go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with BETR-Go.  If not, see <http://www.gnu.org/licenses/>.
*/

package betr

import (
	"encoding/gob"
	"fmt"
	"io"
)

// SaveGraph writes the coefficient graph to w in gob format, so that
// a solver run can be decoupled from coefficient computation.
func SaveGraph(w io.Writer, g *Graph) error {
	e := gob.NewEncoder(w)
	if err := e.Encode(g.d); err != nil {
		return fmt.Errorf("betr: saving coefficient graph: %v", err)
	}
	return nil
}

// LoadGraph reads a coefficient graph previously written by
// SaveGraph.
func LoadGraph(r io.Reader) (*Graph, error) {
	dec := gob.NewDecoder(r)
	d := make(DMap)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("betr: loading coefficient graph: %v", err)
	}
	// Gob only transmits the exported fields of the arrays; the
	// derived index bookkeeping must be rebuilt.
	for _, a := range d {
		a.Fix()
	}
	return &Graph{d: d}, nil
}
