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
	"math"

	"github.com/ctessum/sparse"
)

const testTolerance = 1.e-8

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

// testArr builds a (cells × 1 step) array from per-cell values.
func testArr(vals ...float64) *sparse.DenseArray {
	a := sparse.ZerosDense(len(vals), 1)
	copy(a.Elements, vals)
	return a
}

// testModel builds a two-cell, one-step model covering all seven
// compartments. Cell 0 is fully populated; cell 1 has no fresh water
// (zero volume) and a zero wet-period duration, exercising the
// presence masks and the zero-wet-time handling.
func testModel() *Model {
	c2 := func(v float64) *sparse.DenseArray { return testArr(v, v) }

	params := map[string]*sparse.DenseArray{
		"A":              testArr(100, 200),
		"perc3":          c2(0.5),
		"perc4":          testArr(0.1, 0.2),
		"perc5":          testArr(0.2, 0.3),
		"perc6":          testArr(0.6, 0.5),
		"perc8":          testArr(0.25, 0.5),
		"LAI":            testArr(2, 3),
		"fp2":            testArr(0.3, 0.4),
		"mtcaerosol":     c2(10),
		"mtcairvegair":   c2(5),
		"mtc4air":        c2(3),
		"mtc4water":      c2(0.03),
		"mtc25air":       c2(7),
		"mtc25water":     c2(0.07),
		"mtc6air":        c2(1),
		"diff6air":       c2(0.04),
		"diff6water":     c2(4e-6),
		"convec6solids":  c2(1e-8),
		"diff7water":     c2(1e-4),
		"precip":         testArr(1e-4, 2e-4),
		"runoff6water":   testArr(4e-5, 6e-5),
		"runoff6solids":  testArr(1e-9, 2e-9),
		"stdry":          testArr(100, 50),
		"stwet":          testArr(10, 0),
		"scavrat":        c2(2e5),
		"intercept":      c2(0.4),
		"mixing12":       testArr(0.01, 0.02),
		"tauveg":         c2(1000),
		"vegwateruptake": c2(1e-5),
		"resusp6":        c2(1e-9),
		"sedburial":      c2(1e-6),
		"seddep":         c2(1e-7),
		"sedresup":       c2(1e-8),
		"partsink5":      c2(1e-6),
		"prodaerosol5":   c2(1e-9),
		"diffstrato":     c2(0.01),
		"tspe":           c2(100),
		"h6":             c2(0.1),
	}

	z := map[Compartment]map[string]*sparse.DenseArray{
		UpperAir:   {PhaseAir: c2(4e-4), PhaseBulk: c2(4.1e-4)},
		LowerAir:   {PhaseAir: c2(4e-4), PhaseBulk: c2(5e-4), PhaseAerosol: c2(1e3), PhaseRain: c2(0.1)},
		Vegetation: {PhaseBulk: c2(200)},
		FreshWater: {PhaseAir: c2(4e-4), PhaseWater: c2(1), PhaseSussed: c2(100), PhaseBulk: c2(30)},
		Ocean:      {PhaseAir: c2(8e-4), PhaseWater: c2(1), PhaseSussed: c2(100), PhaseBulk: c2(2)},
		Soil:       {PhaseAir: c2(4e-4), PhaseWater: c2(1), PhaseSolids: c2(100), PhaseBulk: c2(50)},
		Sediment:   {PhaseWater: c2(1), PhaseSolids: c2(100), PhaseBulk: c2(80)},
	}

	v := map[Compartment]*sparse.DenseArray{
		UpperAir:   c2(1e13),
		LowerAir:   c2(1e12),
		Vegetation: c2(1e8),
		FreshWater: testArr(1e9, 0),
		Ocean:      c2(1e11),
		Soil:       c2(1e10),
		Sediment:   c2(1e7),
	}

	chem := make(map[Compartment]ChemParams)
	for c := UpperAir; c <= Sediment; c++ {
		chem[c] = ChemParams{
			Kow:   c2(1e6),
			Kaw:   c2(0.01),
			KReac: c2(1e-4),
		}
	}

	flows := map[FlowKey][]FlowRow{
		{FreshWater, Ocean}: {
			{From: 1, To: 1, Flow: []float64{5e4}},
			{From: 1, To: 2, Flow: []float64{7e4}}, // inter-regional, ignored here
			{From: 2, To: 2, Flow: []float64{0}},
		},
		{Ocean, Ocean}: {
			{From: 1, To: 1, Flow: []float64{2e6}},
			{From: 2, To: 2, Flow: []float64{3e6}},
		},
	}

	return &Model{
		Procs:     Processes(),
		Z:         z,
		V:         v,
		Chem:      chem,
		MolarMass: 300,
		Params:    params,
		Flows:     flows,
	}
}
