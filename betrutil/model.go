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
	"regexp"
	"strconv"

	"github.com/ctessum/sparse"

	"github.com/spatialmodel/betr"
)

// NetCDF variable naming conventions in a parameter file: fugacity
// capacities are "z<compartment>_<phase>", bulk volumes are
// "v<compartment>", flow tables are "flow<from>_<to>", and every
// other variable is a plain environmental parameter.
var (
	zVarRe    = regexp.MustCompile(`^z([1-7])_([a-z]+)$`)
	vVarRe    = regexp.MustCompile(`^v([1-7])$`)
	flowVarRe = regexp.MustCompile(`^flow([1-7])_([1-7])$`)
)

// BuildModel assembles a betr.Model from the files named by the
// configuration.
func BuildModel(cfg *Config) (*betr.Model, error) {
	chem, err := ReadChemFile(cfg.ChemFile)
	if err != nil {
		return nil, err
	}
	aerosolDeg, secondarySupr, plowingEnhance, err := cfg.Flags()
	if err != nil {
		return nil, fmt.Errorf("betrutil: %v", err)
	}

	f, ff, err := OpenParams(cfg.ParamFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &betr.Model{
		Procs:                cfg.Processes,
		Z:                    make(map[betr.Compartment]map[string]*sparse.DenseArray),
		V:                    make(map[betr.Compartment]*sparse.DenseArray),
		Params:               make(map[string]*sparse.DenseArray),
		Flows:                make(map[betr.FlowKey][]betr.FlowRow),
		MolarMass:            chem.MolarMass,
		AerosolDeg:           aerosolDeg,
		SecondarySuppression: secondarySupr,
		PlowingEnhance:       plowingEnhance,
	}

	for _, name := range ff.Header.Variables() {
		switch {
		case zVarRe.MatchString(name):
			sub := zVarRe.FindStringSubmatch(name)
			comp := betr.Compartment(atoi(sub[1]))
			data, err := ReadParam(ff, name)
			if err != nil {
				return nil, err
			}
			if m.Z[comp] == nil {
				m.Z[comp] = make(map[string]*sparse.DenseArray)
			}
			m.Z[comp][sub[2]] = data
		case vVarRe.MatchString(name):
			sub := vVarRe.FindStringSubmatch(name)
			data, err := ReadParam(ff, name)
			if err != nil {
				return nil, err
			}
			m.V[betr.Compartment(atoi(sub[1]))] = data
		case flowVarRe.MatchString(name):
			sub := flowVarRe.FindStringSubmatch(name)
			rows, err := ReadFlowTable(ff, name)
			if err != nil {
				return nil, err
			}
			key := betr.FlowKey{
				From: betr.Compartment(atoi(sub[1])),
				To:   betr.Compartment(atoi(sub[2])),
			}
			m.Flows[key] = rows
		default:
			data, err := ReadParam(ff, name)
			if err != nil {
				return nil, err
			}
			m.Params[name] = data
		}
	}

	shape := m.Shape()
	if shape == nil {
		return nil, fmt.Errorf("betrutil: parameter file %s has no grid area variable \"A\"", cfg.ParamFile)
	}
	m.Chem, err = chem.ChemParams(shape)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func atoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(err) // unreachable: the regexps only match digits
	}
	return i
}
