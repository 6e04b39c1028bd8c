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
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costela/tableau/lp"
	"github.com/costela/tableau/simplex"
)

const (
	delta = 0.0000001 // acceptable numerical deviation for test results
)

func mustProgram(t *testing.T, objective []float64, rows [][]float64) lp.Program {
	t.Helper()

	p, err := lp.New(objective, rows)
	require.NoError(t, err)

	return p
}

func scenario1(t *testing.T) lp.Program {
	return mustProgram(t, []float64{6, 5}, [][]float64{
		{7, 11, 24},
		{6, 5, 19},
		{1, 9, 33},
	})
}

func textbook(t *testing.T) lp.Program {
	return mustProgram(t, []float64{10, 12}, [][]float64{
		{1, 1, 100},
		{1, 3, 270},
	})
}

func branchCut(t *testing.T) lp.Program {
	return mustProgram(t, []float64{8, 9}, [][]float64{
		{1, 8, 13},
		{3, 1, 28},
		{7, 9, 17},
	})
}

func search(t *testing.T, p lp.Program, opts ...Option) (Result, error) {
	t.Helper()

	s, err := New(p, opts...)
	require.NoError(t, err)

	return s.Solve(context.Background())
}

func TestSolveBranches(t *testing.T) {
	res, err := search(t, scenario1(t))
	require.NoError(t, err)

	require.True(t, res.Found)
	assert.True(t, res.Complete)
	assert.InDelta(t, 18.0, res.Solution.Objective, delta)

	expected_xs := []float64{3, 0}
	for i, x := range res.Solution.Values() {
		assert.InDelta(t, expected_xs[i], x, delta)
	}

	assert.Equal(t, Stats{
		Nodes:            13,
		Pruned:           4,
		Integral:         3,
		Branched:         6,
		IncumbentUpdates: 1,
		Pivots:           37,
	}, res.Stats)
}

func TestSolveBranchCutViolatesStartingBasis(t *testing.T) {
	// every "x >= k" child starts from a slack basis that violates its cut
	res, err := search(t, branchCut(t))
	require.NoError(t, err)

	require.True(t, res.Found)
	assert.True(t, res.Complete)
	assert.InDelta(t, 17.0, res.Solution.Objective, delta)

	expected_xs := []float64{1, 1}
	for i, x := range res.Solution.Values() {
		assert.InDelta(t, expected_xs[i], x, delta)
	}

	assert.Equal(t, 9, res.Stats.Nodes)
	assert.Equal(t, 3, res.Stats.Pruned)
	assert.Equal(t, 2, res.Stats.IncumbentUpdates)
	assert.Equal(t, 0, res.Stats.Unresolved)
}

func TestSolveIntegralRoot(t *testing.T) {
	res, err := search(t, textbook(t))
	require.NoError(t, err)

	require.True(t, res.Found)
	assert.InDelta(t, 1170.0, res.Solution.Objective, delta)

	x1, _ := res.Solution.Lookup("x1")
	x2, _ := res.Solution.Lookup("x2")
	assert.InDelta(t, 15.0, x1, delta)
	assert.InDelta(t, 85.0, x2, delta)

	assert.Equal(t, 1, res.Stats.Nodes)
	assert.Equal(t, 1, res.Stats.Integral)
	assert.Equal(t, 0, res.Stats.Branched)
}

func TestSolveNoIntegerSolution(t *testing.T) {
	// 2x <= 1 and 2x >= 1 leave only x = 0.5
	p := mustProgram(t, []float64{1}, [][]float64{{2, 1}, {-2, -1}})

	res, err := search(t, p)
	require.ErrorIs(t, err, ErrNoIntegerSolution)

	assert.False(t, res.Found)
	assert.True(t, res.Complete)
	assert.Equal(t, 3, res.Stats.Nodes)
	assert.Equal(t, 1, res.Stats.Branched)
	assert.Equal(t, 2, res.Stats.Pruned)
}

func TestSolveDegenerateRoot(t *testing.T) {
	p := mustProgram(t, []float64{1, 1}, [][]float64{{-1, 1, 4}})

	res, err := search(t, p)
	require.ErrorIs(t, err, ErrNoIntegerSolution)

	assert.Equal(t, Stats{Nodes: 1, Pruned: 1}, res.Stats)
}

func TestSolveWorkersMatchSequential(t *testing.T) {
	for name, p := range map[string]lp.Program{
		"scenario1":  scenario1(t),
		"textbook":   textbook(t),
		"branch cut": branchCut(t),
		"three variables": mustProgram(t, []float64{5, 4, 3}, [][]float64{
			{2, 3, 1, 5},
			{4, 1, 2, 11},
			{3, 4, 2, 8},
		}),
	} {
		t.Run(name, func(t *testing.T) {
			sequential, err := search(t, p)
			require.NoError(t, err)

			for _, workers := range []int{2, 4, 16} {
				parallel, err := search(t, p, WithWorkers(workers))
				require.NoError(t, err)
				assert.Equal(t, sequential, parallel, "workers=%d", workers)
			}
		})
	}
}

func TestSolveEnteringLimitIsIncomplete(t *testing.T) {
	p := mustProgram(t, []float64{3, 2}, [][]float64{{1, 0, 4}, {1, 3, 15}, {2, 1, 10}})

	res, err := search(t, p, WithSimplexOptions(simplex.WithEnteringLimit(2)))
	require.NoError(t, err)

	// (4, 2) is integral but not the relaxation optimum, (3, 4) is better
	require.True(t, res.Found)
	assert.False(t, res.Complete)
	assert.InDelta(t, 16.0, res.Solution.Objective, delta)
	assert.Equal(t, 1, res.Stats.Unresolved)

	res, err = search(t, p)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.InDelta(t, 17.0, res.Solution.Objective, delta)
}

func TestSolveUnresolvedNodes(t *testing.T) {
	// one pivot solves the root, but neither child
	res, err := search(t, scenario1(t), WithSimplexOptions(simplex.WithIterationLimit(1)))
	require.ErrorIs(t, err, ErrNoIntegerSolution)

	assert.False(t, res.Found)
	assert.False(t, res.Complete)
	assert.Equal(t, Stats{
		Nodes:      3,
		Branched:   1,
		Pivots:     3,
		Unresolved: 2,
	}, res.Stats)
}

func TestSolveIntegrality(t *testing.T) {
	// only x2 needs to be integral, and it already is at the root
	res, err := search(t, scenario1(t), WithIntegrality([]bool{false, true}))
	require.NoError(t, err)

	assert.InDelta(t, 19.0, res.Solution.Objective, delta)
	assert.Equal(t, 1, res.Stats.Nodes)
}

func TestSolveNodeLimit(t *testing.T) {
	t.Run("before any incumbent", func(t *testing.T) {
		res, err := search(t, scenario1(t), WithNodeLimit(2))
		require.ErrorIs(t, err, ErrNodeLimit)

		assert.False(t, res.Found)
		assert.False(t, res.Complete)
		assert.Equal(t, 2, res.Stats.Nodes)
	})

	t.Run("with incumbent", func(t *testing.T) {
		res, err := search(t, scenario1(t), WithNodeLimit(4))
		require.ErrorIs(t, err, ErrNodeLimit)

		require.True(t, res.Found)
		assert.False(t, res.Complete)
		assert.InDelta(t, 18.0, res.Solution.Objective, delta)
	})

	t.Run("exact", func(t *testing.T) {
		res, err := search(t, scenario1(t), WithNodeLimit(13))
		require.NoError(t, err)

		assert.True(t, res.Complete)
	})
}

func TestSolveCancelled(t *testing.T) {
	s, err := New(scenario1(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Solve(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.False(t, res.Found)
	assert.False(t, res.Complete)
	assert.Equal(t, 0, res.Stats.Nodes)
}

func TestSolveBoundPruningKeepsOptimum(t *testing.T) {
	for _, p := range []lp.Program{scenario1(t), textbook(t)} {
		plain, err := search(t, p)
		require.NoError(t, err)

		pruned, err := search(t, p, WithBoundPruning(true))
		require.NoError(t, err)

		assert.InDelta(t, plain.Solution.Objective, pruned.Solution.Objective, delta)
		assert.LessOrEqual(t, pruned.Stats.Nodes, plain.Stats.Nodes)
	}
}

func TestSolvePassesSimplexOptions(t *testing.T) {
	var pivots int
	res, err := search(t, scenario1(t), WithSimplexOptions(
		simplex.WithPivotRule(simplex.Bland),
		simplex.WithTracer(simplex.TracerFunc(func(simplex.Pivot) { pivots++ })),
	))
	require.NoError(t, err)

	assert.InDelta(t, 18.0, res.Solution.Objective, delta)
	assert.Equal(t, res.Stats.Pivots, pivots)
}

func TestLoggingTracer(t *testing.T) {
	var buf bytes.Buffer
	_, err := search(t, scenario1(t), WithTracer(LoggingTracer{Writer: &buf}))
	require.NoError(t, err)

	assert.Equal(t, "node 1 (parent 0, depth 0): branched, objective 19\n"+
		"node 2 (parent 1, depth 1): branched, objective 19\n"+
		"node 3 (parent 1, depth 1): pruned\n"+
		"node 4 (parent 2, depth 2): integral, objective 18, new incumbent\n"+
		"node 5 (parent 2, depth 2): branched, objective 16.1429\n"+
		"node 6 (parent 5, depth 3): branched, objective 13.7273\n"+
		"node 7 (parent 5, depth 3): pruned\n"+
		"node 8 (parent 6, depth 4): integral, objective 11\n"+
		"node 9 (parent 6, depth 4): branched, objective 11.7143\n"+
		"node 10 (parent 9, depth 5): branched, objective 10.9091\n"+
		"node 11 (parent 9, depth 5): pruned\n"+
		"node 12 (parent 10, depth 6): integral, objective 10\n"+
		"node 13 (parent 10, depth 6): pruned\n", buf.String())
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, m.Register(reg))
	assert.Error(t, m.Register(reg), "registering twice")

	_, err := search(t, scenario1(t), WithMetrics(m))
	require.NoError(t, err)

	assert.Equal(t, 6.0, testutil.ToFloat64(m.nodes.WithLabelValues("branched")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.nodes.WithLabelValues("pruned")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.nodes.WithLabelValues("integral")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.incumbents))
	assert.Equal(t, 37.0, testutil.ToFloat64(m.pivots))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.duplicates))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.frontier))
}

func TestNewRejects(t *testing.T) {
	_, err := New(scenario1(t), WithIntegrality([]bool{true}))
	assert.ErrorIs(t, err, lp.ErrMalformed)

	_, err = New(scenario1(t), WithWorkers(0))
	assert.Error(t, err)

	_, err = New(scenario1(t), WithNodeLimit(-1))
	assert.Error(t, err)

	_, err = New(scenario1(t), WithIntegralityTolerance(0))
	assert.Error(t, err)

	_, err = New(scenario1(t), WithLogger(nil))
	assert.Error(t, err)

	_, err = New(lp.Program{})
	assert.ErrorIs(t, err, lp.ErrMalformed)
}

func TestIncumbent(t *testing.T) {
	var in incumbent

	_, ok := in.get()
	assert.False(t, ok)
	assert.False(t, in.dominates(0))

	assert.True(t, in.offer(simplex.Solution{Objective: 5}))
	assert.False(t, in.offer(simplex.Solution{Objective: 5}), "ties keep the first")
	assert.False(t, in.offer(simplex.Solution{Objective: 4}))
	assert.True(t, in.offer(simplex.Solution{Objective: 6}))

	sol, ok := in.get()
	require.True(t, ok)
	assert.Equal(t, 6.0, sol.Objective)

	assert.True(t, in.dominates(6))
	assert.False(t, in.dominates(6.5))
}
