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

package tableau

import (
	"math"

	"github.com/costela/tableau/bnb"
)

/* Types */

type SolveResult struct {
	status    SolveStatus
	objective float64
	values    []float64
	stats     bnb.Stats
}

type SolveStatus int

const (
	SolutionOptimal SolveStatus = iota
	// SolutionSuboptimal is reported when the search was stopped early
	// and the best solution found so far is returned.
	SolutionSuboptimal
)

func (s SolveStatus) String() string {
	if s == SolutionOptimal {
		return "optimal"
	}

	return "suboptimal"
}

type SolveError int

const (
	ErrMalformedModel SolveError = iota + 1
	ErrModelDegenerate
	ErrModelInfeasible
	ErrIterationLimit
	ErrNoFeasibleFound
	ErrNodeLimit
	ErrUnsupportedConstraint
)

// Error returns a string representation of the given error value.
func (e SolveError) Error() string {
	switch e {
	case ErrMalformedModel:
		return "model is malformed"
	case ErrModelDegenerate:
		return "model is degenerate"
	case ErrModelInfeasible:
		return "model is infeasible"
	case ErrIterationLimit:
		return "simplex iteration limit reached"
	case ErrNoFeasibleFound:
		return "no feasible solution found"
	case ErrNodeLimit:
		return "branch-and-bound node limit reached"
	case ErrUnsupportedConstraint:
		return "only constraints with a non-negative upper limit are supported"
	default:
		panic("unrecognized error")
	}
}

// Status reports if the solution is optimal (SolutionOptimal) or
// not (SolutionSuboptimal)
func (res SolveResult) Status() SolveStatus {
	return res.status
}

// Value returns the computed value of the given variable for this
// optimization result, or NaN for a variable the result does not know
// about. Integer and binary variables are rounded.
func (res SolveResult) Value(v *Variable) float64 {
	if v == nil || v.index >= len(res.values) {
		return math.NaN()
	}

	return res.values[v.index]
}

// Values returns the value of every variable, in the order they were
// added to the model.
func (res SolveResult) Values() []float64 {
	return append([]float64(nil), res.values...)
}

// ObjectiveValue returns the value of the objective function for
// this optimization result. This value is only optimal if Status
// also returns SolutionOptimal.
func (res SolveResult) ObjectiveValue() float64 {
	return res.objective
}

// Stats returns the branch-and-bound counters. Purely continuous models
// report a single node.
func (res SolveResult) Stats() bnb.Stats {
	return res.stats
}
