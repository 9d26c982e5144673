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
	"strings"

	log "github.com/sirupsen/logrus"
)

// Engine evaluates the processes required by a model configuration
// and accumulates their D-values into a coefficient graph.
type Engine struct {
	model *Model

	// order holds the required processes in declared order, with
	// the intermittent-rain correction split off into its own
	// stage.
	order          []string
	rainCorrection bool

	graph    *Graph
	computed bool
}

// NewEngine verifies that every process name required by the model
// configuration has an implementation and returns an engine ready to
// evaluate them. A configuration naming an unimplemented process is
// rejected here, before any computation starts.
func NewEngine(m *Model) (*Engine, error) {
	e := &Engine{model: m, graph: NewGraph()}
	var missing []string
	for _, name := range m.Procs {
		if name == ProcIntermittentRain {
			e.rainCorrection = true
			continue
		}
		if _, ok := processLibrary[name]; !ok {
			missing = append(missing, name)
			continue
		}
		e.order = append(e.order, name)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("betr: processes not implemented: %s",
			strings.Join(missing, ", "))
	}
	return e, nil
}

// ComputeAll evaluates every required process exactly once, in
// declared order, merging each result into the coefficient graph
// with last-write-wins semantics, and then applies the
// intermittent-rain correction stage if the configuration requires
// it. It returns the populated graph, which from then on is
// read-only to callers.
//
// ComputeAll is single-pass: because the correction stage rewrites
// graph entries in place, running it twice against the same graph
// would apply the correction to already-corrected values. A second
// call without an intervening Reset returns an error.
func (e *Engine) ComputeAll() (*Graph, error) {
	if e.computed {
		return nil, fmt.Errorf("betr: ComputeAll already ran on this engine; call Reset before reuse")
	}
	for _, name := range e.order {
		d, err := runProcess(e.model, name)
		if err != nil {
			return nil, err
		}
		e.graph.Merge(d)
		log.WithFields(log.Fields{"process": name, "edges": len(d)}).
			Debug("computed D-values")
	}
	if e.rainCorrection {
		if err := intermittentRain(e.model, e.graph); err != nil {
			return nil, err
		}
		log.WithField("process", ProcIntermittentRain).
			Debug("applied intermittent-rain correction")
	}
	e.computed = true
	return e.graph, nil
}

// Reset discards the coefficient graph so the engine can run another
// full evaluation pass, e.g. after the model parameters have been
// replaced.
func (e *Engine) Reset() {
	e.graph = NewGraph()
	e.computed = false
}

// runProcess executes one process function, converting any panic
// from the underlying array arithmetic (such as a shape mismatch)
// into an error naming the process.
func runProcess(m *Model, name string) (d DMap, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("betr: process %s: %v", name, r)
		}
	}()
	d, err = processLibrary[name](m, name)
	if err != nil {
		return nil, fmt.Errorf("betr: process %s: %v", name, err)
	}
	return d, nil
}
