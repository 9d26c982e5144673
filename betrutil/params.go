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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"

	"github.com/spatialmodel/betr"
)

// OpenParams opens a NetCDF parameter file. The returned os.File
// must be closed by the caller once reading is finished.
func OpenParams(filename string) (*os.File, *cdf.File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("betrutil: opening parameter file: %v", err)
	}
	ff, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("betrutil: opening parameter file %s: %v", filename, err)
	}
	return f, ff, nil
}

// ReadParam reads the named variable out of a NetCDF parameter file
// into a dense array.
func ReadParam(ff *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("betrutil: read parameter: variable %v not in file", name)
	}
	r := ff.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("betrutil: read parameter %s: %v", name, err)
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []float64:
		copy(data.Elements, b)
	default:
		return nil, fmt.Errorf("betrutil: read parameter %s: unsupported data type %T", name, buf)
	}
	return data, nil
}

// WriteParam writes a dense array as the named variable of a NetCDF
// file created with a matching header.
func WriteParam(f *cdf.File, name string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(data32); err != nil {
		return fmt.Errorf("betrutil: write parameter %s: %v", name, err)
	}
	return nil
}

// ReadFlowTable reads an inter-region flow table from the named
// NetCDF variable. The variable must be two-dimensional with one row
// per region pair: origin region ID, destination region ID, then one
// flow value [m³/h] per time step.
func ReadFlowTable(ff *cdf.File, name string) ([]betr.FlowRow, error) {
	data, err := ReadParam(ff, name)
	if err != nil {
		return nil, err
	}
	if len(data.Shape) != 2 || data.Shape[1] < 3 {
		return nil, fmt.Errorf("betrutil: flow table %s must be (rows × (2+steps)), got shape %v",
			name, data.Shape)
	}
	steps := data.Shape[1] - 2
	rows := make([]betr.FlowRow, data.Shape[0])
	for i := range rows {
		row := betr.FlowRow{
			From: int(data.Get(i, 0)),
			To:   int(data.Get(i, 1)),
			Flow: make([]float64, steps),
		}
		for t := 0; t < steps; t++ {
			row.Flow[t] = data.Get(i, t+2)
		}
		rows[i] = row
	}
	return rows, nil
}
