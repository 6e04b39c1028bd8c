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

package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gonum.org/v1/gonum/mat"

	"github.com/costela/tableau"
	"github.com/costela/tableau/lp"
	"github.com/costela/tableau/simplex"
)

func printSolution(w io.Writer, model *tableau.Model, res *tableau.SolveResult) {
	for _, v := range model.Variables() {
		fmt.Fprintf(w, "%s: %v\n", v.Name(), res.Value(v))
	}
	fmt.Fprintf(w, "objective: %v\n", res.ObjectiveValue())
}

// printRootTableau shows the root relaxation before and after pivoting.
func printRootTableau(w io.Writer, p lp.Program, opts ...simplex.Option) error {
	s, err := simplex.New(p, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "initial tableau:\n%v\n\n", mat.Formatted(s.Tableau(), mat.Squeeze()))
	if _, err := s.Solve(); err != nil {
		fmt.Fprintf(w, "root relaxation: %v\n", err)
	}
	fmt.Fprintf(w, "final tableau after %d pivots:\n%v\n\n", s.Iterations(), mat.Formatted(s.Tableau(), mat.Squeeze()))

	return nil
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
