/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package simplex

import (
	"fmt"
	"io"
	"math"
)

// Pivot describes one completed elimination step.
type Pivot struct {
	Iteration int
	Row       int
	Column    int
	// Objective is the objective value after the step. While restoring
	// the starting basis it is the auxiliary objective, minus the
	// artificial variable.
	Objective float64
	Restoring bool
}

type Tracer interface {
	Trace(p Pivot)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ Pivot) {
}

type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(p Pivot) {
	if p.Restoring {
		fmt.Fprintf(t.Writer, "pivot %d: row %d, column %d, infeasibility %.6g\n", p.Iteration, p.Row, p.Column, math.Abs(p.Objective))
		return
	}
	fmt.Fprintf(t.Writer, "pivot %d: row %d, column %d, objective %.6g\n", p.Iteration, p.Row, p.Column, p.Objective)
}

// TracerFunc adapts a plain function to Tracer.
type TracerFunc func(p Pivot)

func (f TracerFunc) Trace(p Pivot) {
	f(p)
}
