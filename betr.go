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

// Package betr calculates inter-compartment transfer coefficients
// (D-values, units of mol/(h·Pa)) for a multimedia environmental
// fate model on a geographic grid. Each named process is a pure
// function of chemical properties, compartment fugacity capacities,
// and gridded environmental parameters; the Engine evaluates all
// processes required by the model configuration and merges their
// results into a coefficient graph keyed by (source compartment,
// destination compartment, process name). The graph is the input to
// a downstream mass-balance solver, which is not part of this
// package.
package betr

import (
	"errors"
	"fmt"

	"github.com/ctessum/sparse"
)

// Compartment identifies one of the modeled environmental media.
type Compartment int

// The compartments of the global model. OpenWater is not a
// compartment in its own right; it only appears as the optional
// area-fraction parameter "perc8" (the pot-lid correction for
// ice-covered ocean).
const (
	UpperAir   Compartment = 1
	LowerAir   Compartment = 2
	Vegetation Compartment = 3
	FreshWater Compartment = 4
	Ocean      Compartment = 5
	Soil       Compartment = 6
	Sediment   Compartment = 7
)

// Sub-phases within a compartment for which fugacity capacities
// may be supplied.
const (
	PhaseBulk    = "bulk"
	PhaseAir     = "air"
	PhaseAerosol = "aerosol"
	PhaseRain    = "rain"
	PhaseWater   = "water"
	PhaseSolids  = "solids"
	PhaseSussed  = "sussed" // suspended sediment
)

// ErrMissingParameter is returned (wrapped) by Model.Par when an
// environmental parameter is not supplied. Optional-parameter
// fallbacks in the process library test for this error specifically,
// so that a missing parameter triggers the legacy formula while any
// other failure still propagates.
var ErrMissingParameter = errors.New("parameter not supplied")

// ChemParams holds the compartment-specific properties of the
// modeled chemical. The values are grid-shaped because partition
// coefficients and reaction rates are usually temperature-adjusted
// per cell and time step before they reach this package.
type ChemParams struct {
	Kow   *sparse.DenseArray // octanol-water partition coefficient [-]
	Kaw   *sparse.DenseArray // air-water partition coefficient [-]
	KReac *sparse.DenseArray // first-order reaction rate constant [1/h]
}

// FlowKey identifies a flow table by origin and destination
// compartment.
type FlowKey struct {
	From, To Compartment
}

// FlowRow is one row of a flow table: a volumetric flow [m³/h] from
// one grid region to another, resolved per time step. Region IDs are
// 1-based, matching the legacy parameterization files.
type FlowRow struct {
	From, To int
	Flow     []float64
}

// Model is the parameter snapshot that the process library computes
// from: fugacity capacities, bulk volumes, chemical properties,
// gridded environmental parameters, flow tables and control flags.
// All arrays share one shape (grid cells × time steps). The Model is
// treated as immutable during an evaluation pass.
type Model struct {
	// Procs is the ordered list of process names required by the
	// model configuration.
	Procs []string

	// Z holds fugacity capacities [mol/(m³·Pa)] keyed by compartment
	// and sub-phase.
	Z map[Compartment]map[string]*sparse.DenseArray

	// V holds bulk compartment volumes [m³].
	V map[Compartment]*sparse.DenseArray

	// Chem holds compartment-specific chemical properties.
	Chem map[Compartment]ChemParams

	// MolarMass is the molar mass of the chemical [g/mol].
	MolarMass float64

	// Params holds gridded environmental parameters by name
	// (areas, area fractions, mass transfer coefficients,
	// precipitation, event durations, ...). Access them through
	// Par so that absent parameters are reported consistently.
	Params map[string]*sparse.DenseArray

	// Flows holds inter-region volumetric flow tables keyed by
	// compartment pair.
	Flows map[FlowKey][]FlowRow

	// AerosolDeg includes the aerosol phase in atmospheric
	// degradation; when false only gas-phase degradation occurs in
	// the air compartments.
	AerosolDeg bool

	// SecondarySuppression zeroes re-emission from surface
	// compartments back to the atmosphere.
	SecondarySuppression bool

	// PlowingEnhance enables the plowing-enhanced air-soil exchange
	// formulation, which requires the "tspe" (time since plowing
	// event) and "h6" parameters.
	PlowingEnhance bool
}

// Shape returns the common shape of the gridded quantities,
// taken from the grid-area parameter.
func (m *Model) Shape() []int {
	if a, ok := m.Params["A"]; ok {
		return a.Shape
	}
	return nil
}

// Par returns the environmental parameter with the given name. The
// returned error wraps ErrMissingParameter if the parameter is
// absent.
func (m *Model) Par(name string) (*sparse.DenseArray, error) {
	p, ok := m.Params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	return p, nil
}

// Zval returns the fugacity capacity for the given compartment and
// sub-phase.
func (m *Model) Zval(c Compartment, phase string) (*sparse.DenseArray, error) {
	z, ok := m.Z[c][phase]
	if !ok {
		return nil, fmt.Errorf("no fugacity capacity for compartment %d phase %q", c, phase)
	}
	return z, nil
}

// Vol returns the bulk volume of the given compartment.
func (m *Model) Vol(c Compartment) (*sparse.DenseArray, error) {
	v, ok := m.V[c]
	if !ok {
		return nil, fmt.Errorf("no bulk volume for compartment %d", c)
	}
	return v, nil
}

// chem returns the chemical properties for the given compartment.
func (m *Model) chem(c Compartment) (ChemParams, error) {
	p, ok := m.Chem[c]
	if !ok {
		return ChemParams{}, fmt.Errorf("no chemical properties for compartment %d", c)
	}
	return p, nil
}

// sameCellFlow extracts the same-cell diagonal of the flow table for
// the given compartment pair: the flows whose origin and destination
// region are identical. Routing between different regions is handled
// by the inter-regional transport model, not here.
func (m *Model) sameCellFlow(from, to Compartment) (*sparse.DenseArray, error) {
	rows, ok := m.Flows[FlowKey{from, to}]
	if !ok {
		return nil, fmt.Errorf("no flow table for compartments %d->%d", from, to)
	}
	shape := m.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("flow extraction needs (cells × steps) shaped parameters, got shape %v", shape)
	}
	out := sparse.ZerosDense(shape...)
	for _, r := range rows {
		if r.From != r.To {
			continue
		}
		cell := r.From - 1
		if cell < 0 || cell >= shape[0] {
			return nil, fmt.Errorf("flow table %d->%d: region %d outside grid with %d cells",
				from, to, r.From, shape[0])
		}
		if len(r.Flow) != shape[1] {
			return nil, fmt.Errorf("flow table %d->%d region %d: %d flow values for %d time steps",
				from, to, r.From, len(r.Flow), shape[1])
		}
		for t, v := range r.Flow {
			out.Elements[out.Index1d(cell, t)] = v
		}
	}
	return out, nil
}

// inputs gathers Model lookups for a process function, accumulating
// the first error so formulas can be assembled without a check after
// every access.
type inputs struct {
	m   *Model
	err error
}

func (g *inputs) par(name string) *sparse.DenseArray {
	if g.err != nil {
		return nil
	}
	var p *sparse.DenseArray
	p, g.err = g.m.Par(name)
	return p
}

// parOptional returns ok=false only when the parameter is absent;
// the fallback must not swallow other errors.
func (g *inputs) parOptional(name string) (*sparse.DenseArray, bool) {
	if g.err != nil {
		return nil, false
	}
	p, err := g.m.Par(name)
	if err != nil {
		if errors.Is(err, ErrMissingParameter) {
			return nil, false
		}
		g.err = err
		return nil, false
	}
	return p, true
}

func (g *inputs) z(c Compartment, phase string) *sparse.DenseArray {
	if g.err != nil {
		return nil
	}
	var z *sparse.DenseArray
	z, g.err = g.m.Zval(c, phase)
	return z
}

func (g *inputs) v(c Compartment) *sparse.DenseArray {
	if g.err != nil {
		return nil
	}
	var v *sparse.DenseArray
	v, g.err = g.m.Vol(c)
	return v
}

func (g *inputs) chem(c Compartment) ChemParams {
	if g.err != nil {
		return ChemParams{}
	}
	var p ChemParams
	p, g.err = g.m.chem(c)
	return p
}

func (g *inputs) flow(from, to Compartment) *sparse.DenseArray {
	if g.err != nil {
		return nil
	}
	var f *sparse.DenseArray
	f, g.err = g.m.sameCellFlow(from, to)
	return f
}
