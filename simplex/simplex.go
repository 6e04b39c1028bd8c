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

/*
Package simplex implements the tableau form of the primal simplex method
for programs of the form

	maximize   c·x
	subject to A·x <= b
	           x >= 0

The starting basis is made of the slack variables, so it is only
feasible when every right-hand side is non-negative. Branch cuts of the
form -x_i <= -k break that, so before optimizing, a violated slack basis
is repaired on an auxiliary tableau: a single artificial column is
pivoted into the most violated row and its value is driven to zero with
Bland's rule. If it cannot reach zero, no point satisfies the
constraints and ErrInfeasible is returned.

Row 0 of the tableau is built from -c, so its trailing entry already
holds +z: Solution.Objective is read from it as is, without negating.

A Simplex owns exactly one tableau and solves it at most once:

	s, err := simplex.New(program)
	if err != nil {
		// program is malformed
	}
	sol, err := s.Solve()
	if simplex.IsNoSolution(err) {
		// unbounded, infeasible, or stopped before reaching an optimum
	}
	fmt.Println(sol.Objective, sol.Lookup("x1"))
*/
package simplex

import (
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/costela/tableau/lp"
)

const (
	// DefaultEpsilon is the tolerance used for every comparison against
	// zero or one inside the tableau.
	DefaultEpsilon = 1e-9

	// FeasibilityTolerance is the slack allowed when checking the
	// extracted point against the original constraints.
	FeasibilityTolerance = 1e-7

	iterationFactor = 50
)

var (
	// ErrDegenerate is returned when the ratio test finds no row to leave
	// the basis, so there is no unique optimum to report.
	ErrDegenerate = stderrors.New("simplex: no eligible pivot row")
	// ErrInfeasible is returned when restoring the starting basis shows
	// that no point satisfies the constraints.
	ErrInfeasible = stderrors.New("simplex: constraints are infeasible")
	// ErrInfeasibleStart is returned when the starting basis violates a
	// constraint and restoration stopped before either repairing it or
	// proving the program infeasible.
	ErrInfeasibleStart = stderrors.New("simplex: starting basis could not be restored")
	// ErrIterationLimit is returned when the hard iteration limit is
	// reached before the tableau became optimal.
	ErrIterationLimit = stderrors.New("simplex: iteration limit reached")
	// ErrInaccurate is returned when the extracted point fails the final
	// feasibility check, which only happens through accumulated rounding.
	ErrInaccurate = stderrors.New("simplex: solution violates constraints")
)

// IsNoSolution reports whether err means "this program has no usable
// optimum", as opposed to a malformed input.
func IsNoSolution(err error) bool {
	return IsProven(err) ||
		errors.Is(err, ErrInfeasibleStart) ||
		errors.Is(err, ErrIterationLimit) ||
		errors.Is(err, ErrInaccurate)
}

// IsProven reports whether err shows that the program has no optimum at
// all: it is infeasible or the ratio test found it unbounded. Other
// no-solution errors only mean that pivoting gave up.
func IsProven(err error) bool {
	return errors.Is(err, ErrDegenerate) || errors.Is(err, ErrInfeasible)
}

// PivotRule selects the entering column.
type PivotRule int

const (
	// Dantzig picks the most negative objective entry.
	Dantzig PivotRule = iota
	// Bland picks the first negative objective entry.
	Bland
)

func (r PivotRule) String() string {
	switch r {
	case Dantzig:
		return "dantzig"
	case Bland:
		return "bland"
	default:
		return fmt.Sprintf("PivotRule(%d)", int(r))
	}
}

// Assignment is the value of one decision variable.
type Assignment struct {
	Name  string
	Value float64
}

// Solution is the final vertex reported by a Simplex.
type Solution struct {
	Objective   float64
	Assignments []Assignment
	// Optimal is false when the entering column limit stopped pivoting
	// while row 0 still had a negative entry. The point is feasible but
	// the objective may be improvable.
	Optimal bool
}

// Values returns the variable values in index order.
func (s Solution) Values() []float64 {
	x := make([]float64, len(s.Assignments))
	for i, a := range s.Assignments {
		x[i] = a.Value
	}

	return x
}

// Lookup returns the value of the named variable.
func (s Solution) Lookup(name string) (float64, bool) {
	for _, a := range s.Assignments {
		if a.Name == name {
			return a.Value, true
		}
	}

	return 0, false
}

// Simplex solves a single linear program.
type Simplex struct {
	program lp.Program
	tableau *tableau
	names   []string

	rule           PivotRule
	eps            float64
	enteringLimit  int
	iterationLimit int
	logger         logrus.FieldLogger
	tracer         Tracer

	once       sync.Once
	iterations int
	solution   Solution
	err        error
}

// New validates p and builds its starting tableau.
func New(p lp.Program, opts ...Option) (*Simplex, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s := &Simplex{
		program:        p,
		rule:           Dantzig,
		eps:            DefaultEpsilon,
		iterationLimit: iterationFactor * (p.NumVariables() + p.NumConstraints() + 1),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errors.Wrap(err, "applying simplex option")
		}
	}
	if s.logger == nil {
		s.logger = discardLogger()
	}
	if s.tracer == nil {
		s.tracer = DefaultTracer{}
	}
	if s.names == nil {
		s.names = DefaultNames(p.NumVariables())
	} else if len(s.names) != p.NumVariables() {
		return nil, errors.Wrapf(lp.ErrMalformed, "%d variable names for %d variables", len(s.names), p.NumVariables())
	}

	s.tableau = newTableau(p, s.eps)

	return s, nil
}

// DefaultNames returns x1 … xn.
func DefaultNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i+1)
	}

	return names
}

// Program returns the program being solved.
func (s *Simplex) Program() lp.Program {
	return s.program
}

// Solve pivots the tableau to optimality and extracts the solution. The
// work is done on the first call only; later calls return the same
// result.
func (s *Simplex) Solve() (Solution, error) {
	s.once.Do(func() {
		s.solution, s.err = s.solve()
	})

	return s.solution, s.err
}

// Iterations returns the number of pivots performed so far.
func (s *Simplex) Iterations() int {
	return s.iterations
}

// Tableau returns a copy of the current tableau.
func (s *Simplex) Tableau() *mat.Dense {
	return s.tableau.snapshot()
}

func (s *Simplex) solve() (Solution, error) {
	if err := s.restore(); err != nil {
		return Solution{}, err
	}

	entered := make(map[int]struct{})
	optimal := false
	for {
		col, ok := s.tableau.enteringColumn(s.rule)
		if !ok {
			optimal = true
			break
		}
		if s.enteringLimit > 0 && len(entered) >= s.enteringLimit {
			s.logger.WithField("columns", len(entered)).Warn("entering column limit reached before optimality")
			break
		}
		if s.iterations >= s.iterationLimit {
			return Solution{}, errors.Wrapf(ErrIterationLimit, "after %d pivots", s.iterations)
		}

		row, ok := s.tableau.leavingRow(col)
		if !ok {
			s.logger.WithField("column", col).Debug("no eligible leaving row")
			return Solution{}, errors.Wrapf(ErrDegenerate, "entering column %d", col)
		}

		s.step(s.tableau, false, row, col)
		entered[col] = struct{}{}
	}

	x := s.tableau.values()
	if !s.program.Feasible(x, FeasibilityTolerance) {
		return Solution{}, ErrInaccurate
	}

	sol := Solution{
		Objective:   s.tableau.objective(),
		Assignments: make([]Assignment, len(x)),
		Optimal:     optimal,
	}
	for i, v := range x {
		sol.Assignments[i] = Assignment{Name: s.names[i], Value: v}
	}

	return sol, nil
}

// restore makes the starting basis feasible when some right-hand side is
// negative. It works on an auxiliary tableau maximizing -a, a being an
// artificial variable subtracted from every constraint row, and hands
// the resulting basis back to the main tableau.
func (s *Simplex) restore() error {
	violated, ok := s.tableau.violatedRow()
	if !ok {
		return nil
	}
	s.logger.WithField("row", violated).Debug("starting basis violates a constraint, restoring")

	aux := s.tableau.auxiliary()
	artificial := aux.rhsColumn() - 1
	s.step(aux, true, violated, artificial)

	for {
		// Bland's rule cannot cycle
		col, ok := aux.enteringColumn(Bland)
		if !ok {
			break
		}
		if s.iterations >= s.iterationLimit {
			return errors.Wrapf(ErrInfeasibleStart, "iteration limit reached after %d pivots", s.iterations)
		}
		row, ok := aux.leavingRow(col)
		if !ok {
			// -a <= 0 bounds the auxiliary objective
			return errors.Wrapf(ErrInfeasibleStart, "no eligible leaving row for column %d", col)
		}
		s.step(aux, true, row, col)
	}

	if aux.objective() < -FeasibilityTolerance {
		return errors.Wrapf(ErrInfeasible, "constraints violated by at least %g", -aux.objective())
	}

	for i := 1; i <= aux.cons; i++ {
		if aux.basis[i] != artificial {
			continue
		}
		col, ok := aux.largestEntry(i, artificial)
		if !ok {
			return errors.Wrapf(ErrInfeasibleStart, "artificial variable stuck in row %d", i)
		}
		s.step(aux, true, i, col)
	}

	s.tableau.restart(aux, s.program.Objective)

	return nil
}

// step pivots t around (row, col), counting and tracing the pivot.
func (s *Simplex) step(t *tableau, restoring bool, row, col int) {
	t.pivot(row, col)
	s.iterations++

	p := Pivot{
		Iteration: s.iterations,
		Row:       row,
		Column:    col,
		Objective: t.objective(),
		Restoring: restoring,
	}
	s.logger.WithFields(logrus.Fields{
		"iteration": p.Iteration,
		"row":       p.Row,
		"column":    p.Column,
		"objective": p.Objective,
		"restoring": p.Restoring,
	}).Debug("pivot")
	s.tracer.Trace(p)
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}
