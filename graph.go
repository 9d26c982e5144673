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
	"fmt"
	"sort"

	"github.com/ctessum/sparse"
)

// ProcKey identifies one directed edge of the coefficient graph: the
// D-value computed by the named process for transfer from one
// compartment to another. Distinct processes between the same pair
// of compartments are tracked independently.
type ProcKey struct {
	From, To Compartment
	Process  string
}

func (k ProcKey) String() string {
	return fmt.Sprintf("(%d,%d,%s)", k.From, k.To, k.Process)
}

// DMap is the set of D-value fields computed by one process.
type DMap map[ProcKey]*sparse.DenseArray

// Graph is the accumulating coefficient graph for one evaluation
// pass. A key is present exactly when the owning process determined
// the edge to be active for the current configuration; processes
// that are suppressed by a control flag write all-zero arrays rather
// than omitting their keys, so downstream solver logic stays
// uniform.
type Graph struct {
	d DMap
}

// NewGraph returns an empty coefficient graph.
func NewGraph() *Graph {
	return &Graph{d: make(DMap)}
}

// Merge adds the given D-values to the graph. A key that is already
// present is overwritten; the intermittent-rain correction stage
// relies on this to revise coefficients written by earlier
// processes.
func (g *Graph) Merge(d DMap) {
	for k, v := range d {
		g.d[k] = v
	}
}

// Get returns the D-value field for the given edge.
func (g *Graph) Get(k ProcKey) (*sparse.DenseArray, bool) {
	v, ok := g.d[k]
	return v, ok
}

// Len returns the number of edges in the graph.
func (g *Graph) Len() int {
	return len(g.d)
}

// Keys returns the edge keys in a deterministic order.
func (g *Graph) Keys() []ProcKey {
	keys := make([]ProcKey, 0, len(g.d))
	for k := range g.d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Process < b.Process
	})
	return keys
}

// Map returns the underlying edge map. The graph is read-only to
// consumers once an evaluation pass has finished; callers must not
// modify the returned map or its arrays.
func (g *Graph) Map() DMap {
	return g.d
}
