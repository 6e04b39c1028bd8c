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
Package bnb searches for integer solutions of a linear program by
breadth-first branch and bound.

Every node of the tree is the original program plus a list of branch
cuts, solved from scratch by its own simplex instance. A node whose
relaxation is infeasible or unbounded is pruned, a node whose solution
is integral is offered as incumbent, and any other node branches on its
first fractional variable:

	x_i <= floor(v)        and        -x_i <= -(floor(v)+1)

A node the simplex gives up on, or whose relaxation stopped short of its
optimum, is counted as unresolved and the result is marked incomplete.

Nodes are processed in FIFO order. The incumbent is only replaced by a
strictly better objective, so among equal optima the first one found in
breadth-first order wins.
*/
package bnb

import (
	"context"
	stderrors "errors"
	"io"
	"math"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/costela/tableau/lp"
	"github.com/costela/tableau/simplex"
)

// DefaultIntegralityTolerance is the distance from an integer under which
// a value counts as integral.
const DefaultIntegralityTolerance = 1e-6

var (
	// ErrNoIntegerSolution is returned when the search ends without ever
	// finding an integral node.
	ErrNoIntegerSolution = stderrors.New("bnb: no integer-feasible solution")
	// ErrNodeLimit is returned when the node limit stops the search early.
	ErrNodeLimit = stderrors.New("bnb: node limit reached")
)

// Stats counts what happened during a search.
type Stats struct {
	Nodes            int
	Pruned           int
	Bounded          int
	Integral         int
	Branched         int
	Duplicates       int
	IncumbentUpdates int
	Pivots           int
	// Unresolved counts nodes whose relaxation was not solved to
	// optimality, dropped or not.
	Unresolved int
}

// Result is the outcome of Search.Solve.
type Result struct {
	// Solution is the incumbent; only meaningful when Found is set.
	Solution simplex.Solution
	Found    bool
	Stats    Stats
	// Complete is false when the search was stopped before the queue
	// emptied or some node was unresolved, in which case Solution may
	// not be optimal.
	Complete bool
}

// Search is a branch-and-bound run over a single program.
type Search struct {
	program lp.Program

	integer      []bool
	tolerance    float64
	workers      int
	boundPruning bool
	nodeLimit    int
	simplexOpts  []simplex.Option
	logger       logrus.FieldLogger
	tracer       Tracer
	metrics      *Metrics
}

func New(p lp.Program, opts ...Option) (*Search, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s := &Search{
		program:   p,
		tolerance: DefaultIntegralityTolerance,
		workers:   1,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errors.Wrap(err, "applying search option")
		}
	}
	if s.logger == nil {
		s.logger = discardLogger()
	}
	if s.tracer == nil {
		s.tracer = DefaultTracer{}
	}
	if s.integer != nil && len(s.integer) != p.NumVariables() {
		return nil, errors.Wrapf(lp.ErrMalformed, "integrality mask has %d entries for %d variables", len(s.integer), p.NumVariables())
	}

	return s, nil
}

// Solve runs the search until the queue is empty, the node limit is hit
// or ctx is done. In the latter two cases the incumbent found so far is
// returned together with the error.
func (s *Search) Solve(ctx context.Context) (Result, error) {
	var (
		best   incumbent
		stats  Stats
		nextID = 1
	)
	result := func(complete bool) Result {
		sol, found := best.get()
		return Result{Solution: sol, Found: found, Stats: stats, Complete: complete && stats.Unresolved == 0}
	}

	root, err := s.node(nextID, 0, 0, math.Inf(1), s.program)
	if err != nil {
		return Result{}, err
	}
	queue := []*Node{root}
	s.metrics.queued(len(queue))

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return result(false), err
		}

		size := s.workers
		if s.nodeLimit > 0 {
			remaining := s.nodeLimit - stats.Nodes
			if remaining <= 0 {
				return result(false), errors.Wrapf(ErrNodeLimit, "after %d nodes", stats.Nodes)
			}
			size = min(size, remaining)
		}
		size = min(size, len(queue))
		batch := queue[:size]
		queue = queue[size:]

		evals, err := s.evaluate(batch, &best)
		if err != nil {
			return result(false), err
		}

		for i, n := range batch {
			eval := evals[i]
			if eval.Verdict == Branched && eval.Exact && s.boundPruning && best.dominates(eval.Solution.Objective) {
				eval.Verdict = Bounded
				eval.Children = nil
			}

			stats.Nodes++
			stats.Pivots += eval.Pivots
			event := Event{Node: n.ID, Parent: n.Parent, Depth: n.Depth, Verdict: eval.Verdict}

			switch eval.Verdict {
			case Pruned:
				stats.Pruned++
			case Bounded:
				stats.Bounded++
			case Unresolved:
				stats.Unresolved++
				s.logger.WithField("node", n.ID).Warn("relaxation unresolved, search is incomplete")
			case Integral:
				stats.Integral++
				event.Objective = eval.Solution.Objective
				if best.offer(eval.Solution) {
					stats.IncumbentUpdates++
					event.Incumbent = true
					s.metrics.incumbent()
					s.logger.WithFields(logrus.Fields{
						"node":      n.ID,
						"objective": eval.Solution.Objective,
					}).Info("new incumbent")
				}
			case Branched:
				stats.Branched++
				event.Objective = eval.Solution.Objective
				bound := eval.Solution.Objective
				if !eval.Exact {
					bound = math.Inf(1)
				}
				for _, child := range eval.Children {
					if duplicateCut(child) {
						stats.Duplicates++
						s.metrics.duplicate()
						s.logger.WithField("node", n.ID).Debug("skipping child with duplicate cut")
						continue
					}
					nextID++
					c, err := s.node(nextID, n.ID, n.Depth+1, bound, child)
					if err != nil {
						return result(false), err
					}
					queue = append(queue, c)
				}
			}

			if (eval.Verdict == Integral || eval.Verdict == Branched) && !eval.Exact {
				stats.Unresolved++
				s.logger.WithField("node", n.ID).Warn("relaxation not optimal, search is incomplete")
			}

			s.metrics.observe(eval)
			s.tracer.Trace(event)
			s.logger.WithFields(logrus.Fields{
				"node":    n.ID,
				"parent":  n.Parent,
				"depth":   n.Depth,
				"verdict": eval.Verdict,
				"pivots":  eval.Pivots,
			}).Debug("node evaluated")
		}
		s.metrics.queued(len(queue))
	}

	if _, found := best.get(); !found {
		return result(true), ErrNoIntegerSolution
	}

	return result(true), nil
}

func (s *Search) node(id, parent, depth int, bound float64, p lp.Program) (*Node, error) {
	opts := make([]simplex.Option, 0, len(s.simplexOpts)+1)
	opts = append(opts, simplex.WithLogger(s.logger.WithField("node", id)))
	opts = append(opts, s.simplexOpts...)

	n, err := newNode(id, parent, depth, bound, p, s.integer, s.tolerance, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "building node %d", id)
	}

	return n, nil
}

// evaluate tests every node of batch, concurrently when there is more
// than one. Evaluations come back in batch order.
func (s *Search) evaluate(batch []*Node, best *incumbent) ([]Evaluation, error) {
	evals := make([]Evaluation, len(batch))
	test := func(i int) error {
		n := batch[i]
		if s.boundPruning && best.dominates(n.Bound) {
			evals[i] = Evaluation{Verdict: Bounded, Branch: -1}
			return nil
		}
		eval, err := n.Test()
		if err != nil {
			return errors.Wrapf(err, "evaluating node %d", n.ID)
		}
		evals[i] = eval

		return nil
	}

	if len(batch) == 1 {
		return evals, test(0)
	}

	var g errgroup.Group
	for i := range batch {
		g.Go(func() error {
			return test(i)
		})
	}

	return evals, g.Wait()
}

// incumbent is the best integral solution seen so far.
type incumbent struct {
	mu       sync.RWMutex
	solution *simplex.Solution
}

// offer replaces the incumbent if sol is strictly better.
func (in *incumbent) offer(sol simplex.Solution) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.solution != nil && sol.Objective <= in.solution.Objective {
		return false
	}
	in.solution = &sol

	return true
}

// dominates reports whether nothing bounded by bound can beat the
// incumbent.
func (in *incumbent) dominates(bound float64) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()

	return in.solution != nil && bound <= in.solution.Objective+lp.Epsilon
}

func (in *incumbent) get() (simplex.Solution, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()

	if in.solution == nil {
		return simplex.Solution{}, false
	}

	return *in.solution, true
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}
