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

package bnb

import (
	"fmt"
	"io"
)

// Event describes one evaluated node.
type Event struct {
	Node    int
	Parent  int
	Depth   int
	Verdict Verdict
	// Objective is the relaxation objective; zero unless the node was
	// integral or branched.
	Objective float64
	Incumbent bool
}

type Tracer interface {
	Trace(e Event)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ Event) {
}

type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(e Event) {
	switch e.Verdict {
	case Pruned, Bounded, Unresolved:
		fmt.Fprintf(t.Writer, "node %d (parent %d, depth %d): %s\n", e.Node, e.Parent, e.Depth, e.Verdict)
	default:
		fmt.Fprintf(t.Writer, "node %d (parent %d, depth %d): %s, objective %.6g", e.Node, e.Parent, e.Depth, e.Verdict, e.Objective)
		if e.Incumbent {
			fmt.Fprint(t.Writer, ", new incumbent")
		}
		fmt.Fprintln(t.Writer)
	}
}
