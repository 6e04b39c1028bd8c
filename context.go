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
	"context"
	"errors"
	"math"

	"github.com/costela/tableau/bnb"
	"github.com/costela/tableau/lp"
	"github.com/costela/tableau/simplex"
)

// SolveWithContext wraps Solve() with a context. If the context is cancelled or times out, the solution search will be
// aborted between branch-and-bound nodes and the context error will be returned.
// Note that if some solution has already been found, it is returned along with the error and res.Status() will be
// SolutionSuboptimal. The same holds when the node limit stops the search.
// A result without error is also SolutionSuboptimal when some simplex run was stopped by the entering limit or gave up
// on a branch-and-bound node, since a better solution may then have been missed.
func (model *Model) SolveWithContext(ctx context.Context) (res *SolveResult, err error) {
	model.mu.RLock()
	p, err := model.program()
	names := make([]string, len(model.vars))
	integer := make([]bool, len(model.vars))
	mixed := false
	for i, v := range model.vars {
		names[i] = v.name
		integer[i] = v.integral()
		mixed = mixed || integer[i]
	}
	sign := 1.0
	if model.dir == Minimize {
		sign = -1
	}
	simplexOpts := []simplex.Option{
		simplex.WithLogger(model.logger),
		simplex.WithPivotRule(model.rule),
		simplex.WithEnteringLimit(model.enteringLimit),
		simplex.WithVariableNames(names),
	}
	searchOpts := []bnb.Option{
		bnb.WithIntegrality(integer),
		bnb.WithWorkers(model.workers),
		bnb.WithBoundPruning(model.boundPruning),
		bnb.WithNodeLimit(model.nodeLimit),
		bnb.WithLogger(model.logger),
		bnb.WithTracer(model.tracer),
		bnb.WithMetrics(model.metrics),
		bnb.WithSimplexOptions(simplexOpts...),
	}
	logger := model.logger.WithField("model", model.name)
	model.mu.RUnlock()

	if err != nil {
		logger.WithError(err).Debug("building program")
		return nil, ErrMalformedModel
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !mixed {
		return solveRelaxation(p, sign, simplexOpts, logger)
	}

	search, err := bnb.New(p, searchOpts...)
	if err != nil {
		logger.WithError(err).Debug("setting up search")
		return nil, ErrMalformedModel
	}

	out, err := search.Solve(ctx)
	logger.WithField("nodes", out.Stats.Nodes).Debug("search finished")

	var stop error
	switch {
	case err == nil && out.Complete:
		return newResult(out, sign, integer, SolutionOptimal), nil
	case err == nil:
		logger.WithField("unresolved", out.Stats.Unresolved).Warn("some relaxations were not solved to optimality")
		return newResult(out, sign, integer, SolutionSuboptimal), nil
	case errors.Is(err, bnb.ErrNoIntegerSolution):
		return nil, ErrNoFeasibleFound
	case errors.Is(err, bnb.ErrNodeLimit):
		stop = ErrNodeLimit
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		stop = ctx.Err()
	default:
		return nil, err
	}

	if !out.Found {
		return nil, stop
	}

	return newResult(out, sign, integer, SolutionSuboptimal), stop
}

func solveRelaxation(p lp.Program, sign float64, opts []simplex.Option, logger Logger) (*SolveResult, error) {
	s, err := simplex.New(p, opts...)
	if err != nil {
		return nil, ErrMalformedModel
	}

	sol, err := s.Solve()
	switch {
	case errors.Is(err, simplex.ErrDegenerate):
		return nil, ErrModelDegenerate
	case errors.Is(err, simplex.ErrInfeasible):
		return nil, ErrModelInfeasible
	case errors.Is(err, simplex.ErrIterationLimit), errors.Is(err, simplex.ErrInfeasibleStart):
		return nil, ErrIterationLimit
	case errors.Is(err, simplex.ErrInaccurate):
		return nil, ErrModelInfeasible
	case err != nil:
		return nil, err
	}

	status := SolutionOptimal
	if !sol.Optimal {
		logger.WithField("pivots", s.Iterations()).Warn("entering limit stopped the simplex before optimality")
		status = SolutionSuboptimal
	}

	return &SolveResult{
		status:    status,
		objective: positiveZero(sign * sol.Objective),
		values:    sol.Values(),
		stats:     bnb.Stats{Nodes: 1, Pivots: s.Iterations()},
	}, nil
}

func newResult(out bnb.Result, sign float64, integer []bool, status SolveStatus) *SolveResult {
	values := out.Solution.Values()
	for i, v := range values {
		if integer[i] {
			values[i] = positiveZero(math.Round(v))
		}
	}

	return &SolveResult{
		status:    status,
		objective: positiveZero(sign * out.Solution.Objective),
		values:    values,
		stats:     out.Stats,
	}
}

// positiveZero turns -0 into 0 so results print the same regardless of
// the direction of the model.
func positiveZero(v float64) float64 {
	if v == 0 {
		return 0
	}

	return v
}
