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

package betrutil

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"

	"github.com/spatialmodel/betr"
)

// ChemCompartment holds the compartment-specific properties of a
// chemical as scalars. Temperature adjustment per grid cell happens
// upstream of this package; the scalars here are broadcast over the
// grid.
type ChemCompartment struct {
	Kow   float64 `toml:"kow"`
	Kaw   float64 `toml:"kaw"`
	KReac float64 `toml:"kreac"`
}

// ChemConfig is a chemical property table read from a TOML file:
//
//	name = "PCB-153"
//	molarmass = 360.88   # g/mol
//
//	[compartment.2]
//	kow = 2.0e6
//	kaw = 0.011
//	kreac = 1.3e-5
type ChemConfig struct {
	Name         string                     `toml:"name"`
	MolarMass    float64                    `toml:"molarmass"`
	Compartments map[string]ChemCompartment `toml:"compartment"`
}

// ReadChemFile reads and validates a chemical property table.
func ReadChemFile(filename string) (*ChemConfig, error) {
	var c ChemConfig
	if _, err := toml.DecodeFile(filename, &c); err != nil {
		return nil, fmt.Errorf("betrutil: reading chemical table %s: %v", filename, err)
	}
	if err := c.valid(); err != nil {
		return nil, fmt.Errorf("betrutil: chemical table %s: %v", filename, err)
	}
	return &c, nil
}

func (c *ChemConfig) valid() error {
	if c.MolarMass <= 0 {
		return fmt.Errorf("chemical %q: molar mass must be positive, got %g", c.Name, c.MolarMass)
	}
	for key, cc := range c.Compartments {
		comp, err := strconv.Atoi(key)
		if err != nil || comp < int(betr.UpperAir) || comp > int(betr.Sediment) {
			return fmt.Errorf("chemical %q: invalid compartment key %q", c.Name, key)
		}
		if cc.Kow <= 0 || cc.Kaw <= 0 {
			return fmt.Errorf("chemical %q compartment %s: partition coefficients must be positive",
				c.Name, key)
		}
		if cc.KReac < 0 {
			return fmt.Errorf("chemical %q compartment %s: negative reaction rate", c.Name, key)
		}
	}
	return nil
}

// MolarMassUnit returns the molar mass as a dimensioned quantity
// [kg (per mole)].
func (c *ChemConfig) MolarMassUnit() *unit.Unit {
	return unit.New(c.MolarMass*1e-3, unit.Kilogram)
}

// ChemParams broadcasts the scalar compartment properties over the
// given grid shape, in the form the core model consumes.
func (c *ChemConfig) ChemParams(shape []int) (map[betr.Compartment]betr.ChemParams, error) {
	out := make(map[betr.Compartment]betr.ChemParams)
	for key, cc := range c.Compartments {
		comp, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("betrutil: invalid compartment key %q", key)
		}
		out[betr.Compartment(comp)] = betr.ChemParams{
			Kow:   constDense(cc.Kow, shape),
			Kaw:   constDense(cc.Kaw, shape),
			KReac: constDense(cc.KReac, shape),
		}
	}
	return out, nil
}

// constDense returns a dense array of the given shape with every
// element set to v.
func constDense(v float64, shape []int) *sparse.DenseArray {
	a := sparse.ZerosDense(shape...)
	for i := range a.Elements {
		a.Elements[i] = v
	}
	return a
}
