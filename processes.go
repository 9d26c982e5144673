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
	"math"
	"sort"

	"github.com/ctessum/sparse"
)

// processFunc computes the D-value fields for one named process.
// The name is bound at registration time and is used to tag the
// returned edge keys.
type processFunc func(m *Model, name string) (DMap, error)

// processLibrary maps process names to their implementations. It is
// populated at package initialization and never modified afterward.
var processLibrary = make(map[string]processFunc)

func registerProcess(name string, fn processFunc) {
	if _, ok := processLibrary[name]; ok {
		panic(fmt.Errorf("betr: duplicate process registration: %s", name))
	}
	processLibrary[name] = fn
}

// Processes returns the names of all implemented intra-cell
// processes, sorted.
func Processes() []string {
	names := make([]string, 0, len(processLibrary)+1)
	for n := range processLibrary {
		names = append(names, n)
	}
	names = append(names, ProcIntermittentRain)
	sort.Strings(names)
	return names
}

func init() {
	registerProcess("betr_degradation", degradation)
	registerProcess("betr_advectiveloss", advectiveLoss)
	registerProcess("betr_air1_air2_mix", airAirMixing)
	registerProcess("betr_air2_veg_diff", airVegDiffusion)
	registerProcess("betr_air2_veg_drydep", airVegDryDep)
	registerProcess("betr_air2_veg_dissolution", airVegDissolution)
	registerProcess("betr_air2_veg_wetparticle", airVegWetParticle)
	registerProcess("betr_air2_freshwater_diff", airFreshwaterDiffusion)
	registerProcess("betr_air2_freshwater_drydep", airFreshwaterDryDep)
	registerProcess("betr_air2_freshwater_dissolution", airFreshwaterDissolution)
	registerProcess("betr_air2_freshwater_wetparticle", airFreshwaterWetParticle)
	registerProcess("betr_air2_ocean_diff", airOceanDiffusion)
	registerProcess("betr_air2_ocean_drydep", airOceanDryDep)
	registerProcess("betr_air2_ocean_dissolution", airOceanDissolution)
	registerProcess("betr_air2_ocean_wetparticle", airOceanWetParticle)
	registerProcess("betr_air2_soil_diff", airSoilDiffusion)
	registerProcess("betr_air2_soil_drydep", airSoilDryDep)
	registerProcess("betr_air2_soil_dissolution", airSoilDissolution)
	registerProcess("betr_air2_soil_wetparticle", airSoilWetParticle)
	registerProcess("betr_vegetation_soil_litter", vegSoilLitterfall)
	registerProcess("betr_freshwater_ocean_runoff", freshwaterOceanRunoff)
	registerProcess("betr_ocean_sinkflux", oceanSinkflux)
	registerProcess("betr_freshwater_sediment_diff", freshwaterSedimentDiffusion)
	registerProcess("betr_freshwater_sediment_deposit", freshwaterSedimentDeposit)
	registerProcess("betr_ocean_air_resusp", oceanAirResuspension)
	registerProcess("betr_soil_air_resusp", soilAirResuspension)
	registerProcess("betr_soil_veg_rootuptake", soilVegRootUptake)
	registerProcess("betr_soil_freshwater_runoff", soilFreshwaterRunoff)
	registerProcess("betr_soil_freshwater_erosion", soilFreshwaterErosion)
	registerProcess("betr_sediment_freshwater_resusp", sedimentFreshwaterResuspension)
}

// degradation calculates first-order degradation loss in every
// compartment: reaction rate constant × bulk volume × bulk fugacity
// capacity. Unless aerosol degradation is enabled, degradation in
// the air compartments acts on the gas phase only.
func degradation(m *Model, name string) (DMap, error) {
	comps := make([]Compartment, 0, len(m.V))
	for c := range m.V {
		comps = append(comps, c)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i] < comps[j] })

	d := make(DMap)
	g := &inputs{m: m}
	for _, c := range comps {
		d[ProcKey{c, c, name}] = mulDense(g.chem(c).KReac, g.v(c), g.z(c, PhaseBulk))
		if g.err != nil {
			return nil, g.err
		}
	}
	if !m.AerosolDeg {
		for _, c := range []Compartment{UpperAir, LowerAir} {
			if _, ok := m.V[c]; !ok {
				continue
			}
			d[ProcKey{c, c, name}] = mulDense(g.chem(c).KReac, g.v(c), g.z(c, PhaseAir))
			if g.err != nil {
				return nil, g.err
			}
		}
	}
	return d, nil
}

// advectiveLoss calculates the advective losses from the system:
// soil solids convection (burial), net leaching from soil, sediment
// burial, diffusion to the stratosphere and ocean sedimentation.
func advectiveLoss(m *Model, _ string) (DMap, error) {
	g := &inputs{m: m}
	a := g.par("A")
	perc4 := g.par("perc4")
	perc5 := g.par("perc5")
	perc6 := g.par("perc6")

	d := make(DMap)
	// The 0.05 factor corrects for the vertical concentration
	// profile in soil.
	burial6 := mulDense(g.par("convec6solids"), a, perc6, g.z(Soil, PhaseSolids))
	if g.err != nil {
		return nil, g.err
	}
	burial6.Scale(0.05)
	d[ProcKey{Soil, Soil, "burial"}] = burial6

	// Net infiltration: precipitation minus surface runoff. Not
	// clamped here; a parameterization where runoff exceeds
	// precipitation is an upstream problem.
	precip := g.par("precip")
	runoff := g.par("runoff6water")
	if g.err != nil {
		return nil, g.err
	}
	leach := sparse.ZerosDense(precip.Shape...)
	for i, p := range precip.Elements {
		leach.Elements[i] = p - runoff.Elements[i]
	}
	d[ProcKey{Soil, Soil, "leach"}] = mulDense(leach, a, perc6, g.z(Soil, PhaseWater))

	d[ProcKey{Sediment, Sediment, "burial"}] = mulDense(g.par("sedburial"), a, perc4, g.z(Sediment, PhaseSolids))
	d[ProcKey{UpperAir, UpperAir, "stratosphere"}] = mulDense(g.par("diffstrato"), a, g.z(UpperAir, PhaseAir))
	d[ProcKey{Ocean, Ocean, "sedimentation"}] = mulDense(g.par("partsink5"), a, perc5, g.z(Ocean, PhaseSussed))
	if g.err != nil {
		return nil, g.err
	}
	return d, nil
}

// airAirMixing calculates bulk mixing between the upper and lower
// atmosphere. If no separate downward mixing rate ("mixing21") is
// supplied, the upward rate is used for both directions, matching
// parameterizations that predate the separate rate.
func airAirMixing(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	a := g.par("A")
	mix12 := g.par("mixing12")
	z1 := g.z(UpperAir, PhaseBulk)
	z2 := g.z(LowerAir, PhaseBulk)
	if g.err != nil {
		return nil, g.err
	}
	d := DMap{ProcKey{UpperAir, LowerAir, name}: mulDense(a, mix12, z1)}
	mix21, ok := g.parOptional("mixing21")
	if g.err != nil {
		return nil, g.err
	}
	if !ok {
		mix21 = mix12
	}
	d[ProcKey{LowerAir, UpperAir, name}] = mulDense(a, mix21, z2)
	return d, nil
}

// airVegDiffusion calculates diffusive air-vegetation exchange
// following Cousins and Mackay (2001). The cuticle permeation rate
// is derived from molar mass and Kow; the combined coefficient is
// limited so the characteristic exchange time stays above 8 hours.
func airVegDiffusion(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	a := g.par("A")
	ch := g.chem(LowerAir)
	z3 := g.z(Vegetation, PhaseBulk)
	z2air := g.z(LowerAir, PhaseAir)
	v3 := g.v(Vegetation)
	area := mulDense(a, g.par("perc6"), g.par("perc3"), g.par("LAI"))
	mtcVeg := g.par("mtcairvegair")
	if g.err != nil {
		return nil, g.err
	}

	// Cuticle permeation mass transfer coefficient [m/h].
	mtcavv := sparse.ZerosDense(area.Shape...)
	for i, kow := range ch.Kow.Elements {
		logpc := (-3.47 - 2.79*math.Log10(m.MolarMass) +
			0.97*math.Log10(kow) - 11.2 + 0.704*math.Log10(kow)) / 2
		mtcavv.Elements[i] = 3600 * math.Pow(10, logpc) / ch.Kaw.Elements[i]
	}

	dc := mulDense(area, mtcavv, z3)
	da := mulDense(area, mtcVeg, z2air)
	d := seriesWhere(area, dc, da)
	limit := mulDense(z3, v3)
	limit.Scale(1. / 8.)
	d = minDense(d, limit)

	out := DMap{ProcKey{LowerAir, Vegetation, name}: d}
	if m.SecondarySuppression {
		out[ProcKey{Vegetation, LowerAir, name}] = sparse.ZerosDense(a.Shape...)
	} else {
		out[ProcKey{Vegetation, LowerAir, name}] = d
	}
	return out, nil
}

// airVegDryDep calculates dry particle deposition to vegetation.
func airVegDryDep(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc6"), g.par("perc3"),
		g.par("fp2"), g.par("mtcaerosol"), g.z(LowerAir, PhaseAerosol))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, Vegetation, name}: d}, nil
}

// airVegDissolution calculates rain dissolution to vegetation. The
// returned D-value refers to the rain intensity during precipitation
// events; the intermittent-rain correction rescales it to the
// long-run average.
func airVegDissolution(m *Model, name string) (DMap, error) {
	mtcEvent, err := eventRate(m)
	if err != nil {
		return nil, err
	}
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc6"), g.par("perc3"),
		mtcEvent, g.z(LowerAir, PhaseRain), g.par("intercept"))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, Vegetation, name}: d}, nil
}

// airVegWetParticle calculates wet particle deposition to
// vegetation (event intensity; see airVegDissolution).
func airVegWetParticle(m *Model, name string) (DMap, error) {
	mtcEvent, err := eventRate(m)
	if err != nil {
		return nil, err
	}
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc6"), g.par("perc3"), mtcEvent,
		g.z(LowerAir, PhaseAerosol), g.par("scavrat"), g.par("fp2"), g.par("intercept"))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, Vegetation, name}: d}, nil
}

// airFreshwaterDiffusion calculates two-film diffusive exchange
// between air and fresh water.
func airFreshwaterDiffusion(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	a := g.par("A")
	resist := series(
		mulDense(g.par("mtc4air"), g.z(FreshWater, PhaseAir)),
		mulDense(g.par("mtc4water"), g.z(FreshWater, PhaseWater)))
	d := mulDense(a, g.par("perc4"), resist)
	if g.err != nil {
		return nil, g.err
	}
	out := DMap{ProcKey{LowerAir, FreshWater, name}: d}
	if m.SecondarySuppression {
		out[ProcKey{FreshWater, LowerAir, name}] = sparse.ZerosDense(a.Shape...)
	} else {
		out[ProcKey{FreshWater, LowerAir, name}] = d
	}
	return out, nil
}

// airFreshwaterDryDep calculates dry particle deposition to fresh
// water.
func airFreshwaterDryDep(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc4"), g.par("fp2"),
		g.par("mtcaerosol"), g.z(LowerAir, PhaseAerosol))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, FreshWater, name}: d}, nil
}

// airFreshwaterDissolution calculates rain dissolution to fresh
// water (event intensity).
func airFreshwaterDissolution(m *Model, name string) (DMap, error) {
	mtcEvent, err := eventRate(m)
	if err != nil {
		return nil, err
	}
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc4"), mtcEvent, g.z(LowerAir, PhaseRain))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, FreshWater, name}: d}, nil
}

// airFreshwaterWetParticle calculates wet particle deposition to
// fresh water (event intensity).
func airFreshwaterWetParticle(m *Model, name string) (DMap, error) {
	mtcEvent, err := eventRate(m)
	if err != nil {
		return nil, err
	}
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc4"), mtcEvent,
		g.z(LowerAir, PhaseAerosol), g.par("fp2"), g.par("scavrat"))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, FreshWater, name}: d}, nil
}

// airOceanDiffusion calculates two-film diffusive exchange between
// air and ocean water. When the open-water fraction "perc8" is
// supplied, the exchange area is reduced by the covered fraction
// (pot-lid assumption); otherwise the legacy formula without the
// reduction is used, which also takes the air-side fugacity capacity
// from the air compartment rather than the ocean surface.
func airOceanDiffusion(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	a := g.par("A")
	perc5 := g.par("perc5")
	mtcAir := g.par("mtc25air")
	mtcWater := g.par("mtc25water")
	z5water := g.z(Ocean, PhaseWater)
	if g.err != nil {
		return nil, g.err
	}
	var d *sparse.DenseArray
	if perc8, ok := g.parOptional("perc8"); ok {
		resist := series(mulDense(mtcAir, g.z(Ocean, PhaseAir)), mulDense(mtcWater, z5water))
		d = mulDense(a, perc5, oneMinus(perc8), resist)
	} else if g.err == nil {
		resist := series(mulDense(mtcAir, g.z(LowerAir, PhaseAir)), mulDense(mtcWater, z5water))
		d = mulDense(a, perc5, resist)
	}
	if g.err != nil {
		return nil, g.err
	}
	out := DMap{ProcKey{LowerAir, Ocean, name}: d}
	if m.SecondarySuppression {
		out[ProcKey{Ocean, LowerAir, name}] = sparse.ZerosDense(a.Shape...)
	} else {
		out[ProcKey{Ocean, LowerAir, name}] = d
	}
	return out, nil
}

// airOceanDryDep calculates dry particle deposition to ocean water,
// with the pot-lid reduction when "perc8" is supplied.
func airOceanDryDep(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	base := mulDense(g.par("A"), g.par("perc5"), g.par("fp2"),
		g.par("mtcaerosol"), g.z(LowerAir, PhaseAerosol))
	if g.err != nil {
		return nil, g.err
	}
	if perc8, ok := g.parOptional("perc8"); ok {
		base = mulDense(base, oneMinus(perc8))
	}
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, Ocean, name}: base}, nil
}

// airOceanDissolution calculates rain dissolution to ocean water
// (event intensity), with the pot-lid reduction when "perc8" is
// supplied.
func airOceanDissolution(m *Model, name string) (DMap, error) {
	mtcEvent, err := eventRate(m)
	if err != nil {
		return nil, err
	}
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc5"), mtcEvent, g.z(LowerAir, PhaseRain))
	if g.err != nil {
		return nil, g.err
	}
	if perc8, ok := g.parOptional("perc8"); ok {
		d = mulDense(d, oneMinus(perc8))
	}
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, Ocean, name}: d}, nil
}

// airOceanWetParticle calculates wet particle deposition to ocean
// water (event intensity), with the pot-lid reduction when "perc8"
// is supplied.
func airOceanWetParticle(m *Model, name string) (DMap, error) {
	mtcEvent, err := eventRate(m)
	if err != nil {
		return nil, err
	}
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc5"), mtcEvent,
		g.z(LowerAir, PhaseAerosol), g.par("fp2"), g.par("scavrat"))
	if g.err != nil {
		return nil, g.err
	}
	if perc8, ok := g.parOptional("perc8"); ok {
		d = mulDense(d, oneMinus(perc8))
	}
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, Ocean, name}: d}, nil
}

// airSoilDiffusion calculates diffusive exchange between air and
// soil. With plowing enhancement enabled the soil-side conductance
// follows the transient solution for a soil column mixed at the last
// plowing event ("tspe" hours ago); otherwise the steady-state
// conductances are used.
func airSoilDiffusion(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	a := g.par("A")
	perc6 := g.par("perc6")
	z6air := g.z(Soil, PhaseAir)
	z6water := g.z(Soil, PhaseWater)
	z6solids := g.z(Soil, PhaseSolids)
	diffAir := g.par("diff6air")
	diffWater := g.par("diff6water")
	convec := g.par("convec6solids")
	if g.err != nil {
		return nil, g.err
	}

	var dsa *sparse.DenseArray
	if m.PlowingEnhance {
		h6 := g.par("h6")
		tspe := g.par("tspe")
		if g.err != nil {
			return nil, g.err
		}
		dsa = sparse.ZerosDense(a.Shape...)
		for i := range dsa.Elements {
			dsa.Elements[i] = a.Elements[i] * perc6.Elements[i] * math.Sqrt(h6.Elements[i]) *
				(math.Sqrt(diffAir.Elements[i])*z6air.Elements[i] +
					math.Sqrt(diffWater.Elements[i])*z6water.Elements[i] +
					math.Sqrt(convec.Elements[i])*z6solids.Elements[i]) /
				math.Sqrt(math.Pi*tspe.Elements[i])
		}
	} else {
		dsa = sparse.ZerosDense(a.Shape...)
		for i := range dsa.Elements {
			dsa.Elements[i] = a.Elements[i] * perc6.Elements[i] *
				(diffAir.Elements[i]*z6air.Elements[i] +
					diffWater.Elements[i]*z6water.Elements[i] +
					convec.Elements[i]*z6solids.Elements[i])
		}
	}
	das := mulDense(a, perc6, g.par("mtc6air"), z6air)
	if g.err != nil {
		return nil, g.err
	}
	d := seriesWhere(perc6, dsa, das)

	out := DMap{ProcKey{LowerAir, Soil, name}: d}
	if m.SecondarySuppression {
		out[ProcKey{Soil, LowerAir, name}] = sparse.ZerosDense(a.Shape...)
	} else {
		out[ProcKey{Soil, LowerAir, name}] = d
	}
	return out, nil
}

// airSoilDryDep calculates dry particle deposition to bare soil;
// the vegetated fraction is excluded because it is handled by
// airVegDryDep.
func airSoilDryDep(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc6"), g.par("fp2"),
		g.par("mtcaerosol"), g.z(LowerAir, PhaseAerosol), oneMinusPar(g, "perc3"))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, Soil, name}: d}, nil
}

// airSoilDissolution calculates rain dissolution to soil (event
// intensity).
func airSoilDissolution(m *Model, name string) (DMap, error) {
	mtcEvent, err := eventRate(m)
	if err != nil {
		return nil, err
	}
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc6"), mtcEvent, g.z(LowerAir, PhaseRain))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, Soil, name}: d}, nil
}

// airSoilWetParticle calculates wet particle deposition to soil
// (event intensity).
func airSoilWetParticle(m *Model, name string) (DMap, error) {
	mtcEvent, err := eventRate(m)
	if err != nil {
		return nil, err
	}
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc6"), mtcEvent,
		g.z(LowerAir, PhaseAerosol), g.par("fp2"), g.par("scavrat"))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{LowerAir, Soil, name}: d}, nil
}

// vegSoilLitterfall calculates vegetation-to-soil transfer through
// litterfall, with "tauveg" the foliage turnover time.
func vegSoilLitterfall(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	v3 := g.v(Vegetation)
	z3 := g.z(Vegetation, PhaseBulk)
	tau := g.par("tauveg")
	if g.err != nil {
		return nil, g.err
	}
	d := sparse.ZerosDense(v3.Shape...)
	for i := range d.Elements {
		d.Elements[i] = v3.Elements[i] * z3.Elements[i] / tau.Elements[i]
	}
	return DMap{ProcKey{Vegetation, Soil, name}: d}, nil
}

// freshwaterOceanRunoff calculates fresh water to ocean transfer.
// The same-cell river flow from the freshwater-ocean flow table is
// compared element-wise with a soil-runoff-derived estimate and the
// larger of the two is used; the estimate only applies in cells
// where both ocean and fresh water are present.
func freshwaterOceanRunoff(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	mflow := g.flow(FreshWater, Ocean)
	soilRunoff := mulDense(g.par("A"), g.par("perc6"), g.par("runoff6water"))
	v4 := g.v(FreshWater)
	v5 := g.v(Ocean)
	z4 := g.z(FreshWater, PhaseBulk)
	if g.err != nil {
		return nil, g.err
	}
	soilRunoff = mulDense(soilRunoff, presence(v5), presence(v4))
	flow := maxDense(mflow, soilRunoff)
	return DMap{ProcKey{FreshWater, Ocean, name}: mulDense(z4, flow)}, nil
}

// oceanSinkflux calculates the ocean water sink flux (downwelling)
// from the same-cell diagonal of the ocean-ocean flow table.
func oceanSinkflux(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	mflow := g.flow(Ocean, Ocean)
	z5 := g.z(Ocean, PhaseBulk)
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{Ocean, Ocean, name}: mulDense(z5, mflow)}, nil
}

// freshwaterSedimentDiffusion calculates diffusive exchange between
// fresh water and sediment pore water, symmetric in both directions.
func freshwaterSedimentDiffusion(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc4"), g.par("diff7water"), g.z(FreshWater, PhaseWater))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{
		ProcKey{FreshWater, Sediment, name}: d,
		ProcKey{Sediment, FreshWater, name}: d,
	}, nil
}

// freshwaterSedimentDeposit calculates particle sedimentation from
// fresh water to sediment.
func freshwaterSedimentDeposit(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc4"), g.par("seddep"), g.z(FreshWater, PhaseSussed))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{FreshWater, Sediment, name}: d}, nil
}

// oceanAirResuspension calculates marine aerosol production, with
// the pot-lid reduction when "perc8" is supplied.
func oceanAirResuspension(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	a := g.par("A")
	if g.err != nil {
		return nil, g.err
	}
	if m.SecondarySuppression {
		return DMap{ProcKey{Ocean, LowerAir, name}: sparse.ZerosDense(a.Shape...)}, nil
	}
	d := mulDense(a, g.par("perc5"), g.par("prodaerosol5"), g.z(Ocean, PhaseWater))
	if g.err != nil {
		return nil, g.err
	}
	if perc8, ok := g.parOptional("perc8"); ok {
		d = mulDense(d, oneMinus(perc8))
	}
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{Ocean, LowerAir, name}: d}, nil
}

// soilAirResuspension calculates terrestrial aerosol production.
func soilAirResuspension(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	a := g.par("A")
	if g.err != nil {
		return nil, g.err
	}
	if m.SecondarySuppression {
		return DMap{ProcKey{Soil, LowerAir, name}: sparse.ZerosDense(a.Shape...)}, nil
	}
	d := mulDense(a, g.par("perc6"), g.par("resusp6"), g.z(Soil, PhaseSolids))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{Soil, LowerAir, name}: d}, nil
}

// soilVegRootUptake calculates soil-to-vegetation root uptake. The
// transpiration stream concentration factor (TSCF) follows Cousins
// and Mackay (2001).
func soilVegRootUptake(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	ch := g.chem(Soil)
	base := mulDense(g.par("A"), g.par("perc6"), g.par("perc3"),
		g.par("LAI"), g.par("vegwateruptake"), g.z(Soil, PhaseWater))
	if g.err != nil {
		return nil, g.err
	}
	d := base.Copy()
	for i, kow := range ch.Kow.Elements {
		logKow := math.Log10(kow)
		tscf := 0.784 * math.Exp(-(logKow-1.78)*(logKow-1.78)/2.44)
		d.Elements[i] *= tscf
	}
	return DMap{ProcKey{Soil, Vegetation, name}: d}, nil
}

// soilFreshwaterRunoff calculates water runoff from soil to
// freshwater bodies, only in cells where fresh water is present.
func soilFreshwaterRunoff(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	v4 := g.v(FreshWater)
	d := mulDense(g.par("A"), g.par("perc6"), g.par("runoff6water"), g.z(Soil, PhaseWater))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{Soil, FreshWater, name}: mulDense(d, presence(v4))}, nil
}

// soilFreshwaterErosion calculates solids runoff from soil to
// freshwater bodies, only in cells where fresh water is present.
func soilFreshwaterErosion(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	v4 := g.v(FreshWater)
	d := mulDense(g.par("A"), g.par("perc6"), g.par("runoff6solids"), g.z(Soil, PhaseSolids))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{Soil, FreshWater, name}: mulDense(d, presence(v4))}, nil
}

// sedimentFreshwaterResuspension calculates sediment resuspension in
// freshwater bodies.
func sedimentFreshwaterResuspension(m *Model, name string) (DMap, error) {
	g := &inputs{m: m}
	d := mulDense(g.par("A"), g.par("perc4"), g.par("sedresup"), g.z(Sediment, PhaseSolids))
	if g.err != nil {
		return nil, g.err
	}
	return DMap{ProcKey{Sediment, FreshWater, name}: d}, nil
}

// oneMinusPar returns 1−p for the named parameter, sharing the
// getter's error accumulation.
func oneMinusPar(g *inputs, name string) *sparse.DenseArray {
	p := g.par(name)
	if g.err != nil {
		return nil
	}
	return oneMinus(p)
}
