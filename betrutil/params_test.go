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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// writeTestParamFile creates a small NetCDF parameter file. All
// values are chosen to be exactly representable in float32 so that
// reading them back can be compared exactly.
func writeTestParamFile(t *testing.T, path string, vars map[string]*sparse.DenseArray) {
	t.Helper()
	h := cdf.NewHeader(
		[]string{"cell", "step", "row", "col"},
		[]int{2, 1, 2, 3})
	for name, data := range vars {
		switch len(data.Shape) {
		case 2:
			if data.Shape[1] == 3 {
				h.AddVariable(name, []string{"row", "col"}, []float32{0})
			} else {
				h.AddVariable(name, []string{"cell", "step"}, []float32{0})
			}
		default:
			t.Fatalf("unsupported test variable shape %v", data.Shape)
		}
	}
	h.Define()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	ff, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	for name, data := range vars {
		if err := WriteParam(ff, name, data); err != nil {
			t.Fatal(err)
		}
	}
	if err := cdf.UpdateNumRecs(f); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func grid(vals ...float64) *sparse.DenseArray {
	a := sparse.ZerosDense(len(vals), 1)
	copy(a.Elements, vals)
	return a
}

func flowTable(rows ...[3]float64) *sparse.DenseArray {
	a := sparse.ZerosDense(len(rows), 3)
	for i, r := range rows {
		for j, v := range r {
			a.Set(v, i, j)
		}
	}
	return a
}

func TestParamRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "betrutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "params.nc")

	precip := grid(0.5, 0.25)
	writeTestParamFile(t, path, map[string]*sparse.DenseArray{
		"precip":  precip,
		"flow4_5": flowTable([3]float64{1, 1, 50000}, [3]float64{2, 2, 0}),
	})

	f, ff, err := OpenParams(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := ReadParam(ff, "precip")
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(got.Elements, precip.Elements) {
		t.Errorf("precip: got %v, want %v", got.Elements, precip.Elements)
	}

	rows, err := ReadFlowTable(ff, "flow4_5")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d flow rows", len(rows))
	}
	if rows[0].From != 1 || rows[0].To != 1 || rows[0].Flow[0] != 50000 {
		t.Errorf("row 0: got %+v", rows[0])
	}
	if rows[1].From != 2 || rows[1].To != 2 || rows[1].Flow[0] != 0 {
		t.Errorf("row 1: got %+v", rows[1])
	}

	if _, err := ReadParam(ff, "nonexistent"); err == nil {
		t.Error("no error for missing variable")
	}
	// A (cells × steps) variable is not a valid flow table.
	if _, err := ReadFlowTable(ff, "precip"); err == nil {
		t.Error("no error for misshapen flow table")
	}
}

func TestOpenParamsMissing(t *testing.T) {
	if _, _, err := OpenParams("/no/such/params.nc"); err == nil {
		t.Error("no error for nonexistent file")
	}
}
