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

	"github.com/ctessum/sparse"
)

// Element-wise helpers over dense arrays. Shape mismatches panic,
// matching the behavior of the sparse package itself; the engine
// recovers the panic and tags it with the name of the process that
// was running. Nil operands propagate as a nil result so that a
// formula assembled through the inputs getter stays safe to build
// before its accumulated error is checked.

func anyNil(arrs ...*sparse.DenseArray) bool {
	for _, a := range arrs {
		if a == nil {
			return true
		}
	}
	return false
}

func checkShape(a, b *sparse.DenseArray) {
	if len(a.Elements) != len(b.Elements) {
		panic(fmt.Errorf("array shape mismatch: %v vs %v", a.Shape, b.Shape))
	}
}

// mulDense returns the element-wise product of the given arrays.
func mulDense(first *sparse.DenseArray, rest ...*sparse.DenseArray) *sparse.DenseArray {
	if first == nil || anyNil(rest...) {
		return nil
	}
	out := first.Copy()
	for _, b := range rest {
		checkShape(out, b)
		for i, v := range b.Elements {
			out.Elements[i] *= v
		}
	}
	return out
}

// minDense returns the element-wise minimum of a and b.
func minDense(a, b *sparse.DenseArray) *sparse.DenseArray {
	if anyNil(a, b) {
		return nil
	}
	checkShape(a, b)
	out := a.Copy()
	for i, v := range b.Elements {
		if v < out.Elements[i] {
			out.Elements[i] = v
		}
	}
	return out
}

// maxDense returns the element-wise maximum of a and b.
func maxDense(a, b *sparse.DenseArray) *sparse.DenseArray {
	if anyNil(a, b) {
		return nil
	}
	checkShape(a, b)
	out := a.Copy()
	for i, v := range b.Elements {
		if v > out.Elements[i] {
			out.Elements[i] = v
		}
	}
	return out
}

// oneMinus returns 1−a element-wise.
func oneMinus(a *sparse.DenseArray) *sparse.DenseArray {
	if a == nil {
		return nil
	}
	out := sparse.ZerosDense(a.Shape...)
	for i, v := range a.Elements {
		out.Elements[i] = 1 - v
	}
	return out
}

// presence returns a 0/1 mask marking cells where the compartment is
// physically present (v > 0).
func presence(v *sparse.DenseArray) *sparse.DenseArray {
	if v == nil {
		return nil
	}
	out := sparse.ZerosDense(v.Shape...)
	for i, x := range v.Elements {
		if x > 0 {
			out.Elements[i] = 1
		}
	}
	return out
}

// series combines two or more conductance terms as resistances in
// series: 1/(Σ 1/term). A zero term yields a zero result for that
// cell (an infinite resistance blocks the whole path).
func series(terms ...*sparse.DenseArray) *sparse.DenseArray {
	if anyNil(terms...) {
		return nil
	}
	out := sparse.ZerosDense(terms[0].Shape...)
	for _, t := range terms[1:] {
		checkShape(terms[0], t)
	}
	for i := range out.Elements {
		r := 0.
		for _, t := range terms {
			r += 1 / t.Elements[i]
		}
		out.Elements[i] = 1 / r
	}
	return out
}

// seriesWhere is series restricted to cells where pos > 0; all other
// cells are exactly zero rather than the NaN that dividing the zero
// conductances would produce.
func seriesWhere(pos *sparse.DenseArray, terms ...*sparse.DenseArray) *sparse.DenseArray {
	if pos == nil || anyNil(terms...) {
		return nil
	}
	out := sparse.ZerosDense(pos.Shape...)
	for _, t := range terms {
		checkShape(pos, t)
	}
	for i, p := range pos.Elements {
		if p <= 0 {
			continue
		}
		r := 0.
		for _, t := range terms {
			r += 1 / t.Elements[i]
		}
		out.Elements[i] = 1 / r
	}
	return out
}
