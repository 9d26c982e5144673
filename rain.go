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

// ProcIntermittentRain names the intermittent-rain correction. It is
// listed in the model configuration like any other process, but the
// engine runs it as a separate stage after all other processes have
// committed their results, because it revises coefficients already
// in the graph instead of computing new ones.
const ProcIntermittentRain = "betr_intermittent_rain"

// eventRate calculates the rain rate during precipitation events
// [m/h] by concentrating the long-run average precipitation into the
// wet fraction of time. Some legacy parameterizations record a zero
// wet-period duration alongside nonzero precipitation; those cells
// get a placeholder divisor first and are then forced to zero, so no
// division failure occurs and the rate is exactly zero there.
func eventRate(m *Model) (*sparse.DenseArray, error) {
	g := &inputs{m: m}
	precip := g.par("precip")
	stdry := g.par("stdry")
	stwet := g.par("stwet")
	if g.err != nil {
		return nil, g.err
	}
	divisor := stwet.Copy()
	for i, w := range divisor.Elements {
		if w == 0 {
			divisor.Elements[i] = 1
		}
	}
	rate := sparse.ZerosDense(stwet.Shape...)
	for i := range rate.Elements {
		rate.Elements[i] = precip.Elements[i] *
			(stdry.Elements[i] + stwet.Elements[i]) / divisor.Elements[i]
	}
	for i, w := range stwet.Elements {
		if w == 0 {
			rate.Elements[i] = 0
		}
	}
	return rate, nil
}

// rainExchange describes one air-to-surface exchange revised by the
// intermittent-rain correction: the wet-particle and dissolution
// processes feeding it, and the area-fraction parameters entering
// its washout capacity.
type rainExchange struct {
	to        Compartment
	wet, diss string
	fracs     []string
}

var rainExchanges = []rainExchange{
	{Vegetation, "betr_air2_veg_wetparticle", "betr_air2_veg_dissolution",
		[]string{"perc6", "perc3", "intercept"}},
	{FreshWater, "betr_air2_freshwater_wetparticle", "betr_air2_freshwater_dissolution",
		[]string{"perc4"}},
	{Ocean, "betr_air2_ocean_wetparticle", "betr_air2_ocean_dissolution",
		[]string{"perc5"}},
	{Soil, "betr_air2_soil_wetparticle", "betr_air2_soil_dissolution",
		[]string{"perc6"}},
}

// intermittentRain revises the wet-particle and dissolution
// D-values for the four air-to-surface exchanges to account for
// rainfall occurring in discrete events rather than continuously,
// following the two-regime partitioning of Jolliet and Hauschild
// (2005) as simplified in BETR-Global.
//
// For each cell where the dry and wet period durations and both
// source coefficients are nonzero, the washout capacity during the
// dry interval (dj1, twice the steady-state rate) is compared with
// the event-average deposition rate (dj2). If washout capacity wins,
// both coefficients are rescaled from event intensity to the
// long-run average, wet/(dry+wet); otherwise they are additionally
// reduced by dj1/dj2, preserving their ratio. Cells failing the
// precondition keep their original values. The revised air-to-soil
// pair is further reduced by the canopy interception factor
// (1 − perc3·intercept).
//
// The revised arrays overwrite the originals in the graph under the
// producing processes' keys.
func intermittentRain(m *Model, graph *Graph) error {
	g := &inputs{m: m}
	stdry := g.par("stdry")
	stwet := g.par("stwet")
	vz := mulDense(g.v(LowerAir), g.z(LowerAir, PhaseBulk))
	if g.err != nil {
		return fmt.Errorf("betr: process %s: %v", ProcIntermittentRain, g.err)
	}

	for _, ex := range rainExchanges {
		wetKey := ProcKey{LowerAir, ex.to, ex.wet}
		dissKey := ProcKey{LowerAir, ex.to, ex.diss}
		dwet, ok := graph.Get(wetKey)
		if !ok {
			return fmt.Errorf("betr: process %s requires %s to have run first",
				ProcIntermittentRain, ex.wet)
		}
		ddiss, ok := graph.Get(dissKey)
		if !ok {
			return fmt.Errorf("betr: process %s requires %s to have run first",
				ProcIntermittentRain, ex.diss)
		}

		fracs := make([]*sparse.DenseArray, len(ex.fracs))
		for i, name := range ex.fracs {
			fracs[i] = g.par(name)
		}
		if g.err != nil {
			return fmt.Errorf("betr: process %s: %v", ProcIntermittentRain, g.err)
		}

		wetNew := dwet.Copy()
		dissNew := ddiss.Copy()
		for i := range wetNew.Elements {
			tdry, twet := stdry.Elements[i], stwet.Elements[i]
			dw, dd := wetNew.Elements[i], dissNew.Elements[i]
			if tdry == 0 || twet == 0 || dw == 0 || dd == 0 {
				continue
			}
			tsum := tdry + twet
			wa := vz.Elements[i] * 2 / tdry
			for _, f := range fracs {
				wa *= f.Elements[i]
			}
			dj1 := wa * tsum / tdry
			dj2 := (dw + dd) * twet / tsum
			if dj1 > dj2 {
				// Washout-limited: the dry-interval capacity
				// exceeds what an event can deposit.
				wetNew.Elements[i] = dw * twet / tsum
				dissNew.Elements[i] = dd * twet / tsum
			} else {
				// Mass-limited: both terms shrink by the same
				// factor so their ratio is preserved.
				wetNew.Elements[i] = dj1 * dw / dj2 * twet / tsum
				dissNew.Elements[i] = dj1 * dd / dj2 * twet / tsum
			}
		}

		if ex.to == Soil {
			canopy := oneMinus(mulDense(g.par("perc3"), g.par("intercept")))
			if g.err != nil {
				return fmt.Errorf("betr: process %s: %v", ProcIntermittentRain, g.err)
			}
			wetNew = mulDense(wetNew, canopy)
			dissNew = mulDense(dissNew, canopy)
		}

		graph.Merge(DMap{wetKey: wetNew, dissKey: dissNew})
	}
	return nil
}
