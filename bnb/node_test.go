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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costela/tableau/lp"
	"github.com/costela/tableau/simplex"
)

func TestNodeTestBranches(t *testing.T) {
	n, err := newNode(1, 0, 0, math.Inf(1), scenario1(t), nil, DefaultIntegralityTolerance, nil)
	require.NoError(t, err)

	eval, err := n.Test()
	require.NoError(t, err)

	assert.Equal(t, Branched, eval.Verdict)
	assert.True(t, eval.Exact)
	assert.Equal(t, 0, eval.Branch)
	assert.Equal(t, 1, eval.Pivots)
	assert.InDelta(t, 19.0, eval.Solution.Objective, delta)
	require.Len(t, eval.Children, 2)

	below := eval.Children[0].Constraints
	require.Len(t, below, 4)
	assert.Equal(t, lp.Constraint{Coefficients: []float64{1, 0}, RHS: 3}, below[3])

	above := eval.Children[1].Constraints
	require.Len(t, above, 4)
	assert.Equal(t, lp.Constraint{Coefficients: []float64{-1, 0}, RHS: -4}, above[3])

	// the parent keeps its own constraints
	assert.Len(t, n.Program().Constraints, 3)
}

func TestNodeTestIntegral(t *testing.T) {
	n, err := newNode(1, 0, 0, math.Inf(1), textbook(t), nil, DefaultIntegralityTolerance, nil)
	require.NoError(t, err)

	eval, err := n.Test()
	require.NoError(t, err)

	assert.Equal(t, Integral, eval.Verdict)
	assert.Equal(t, -1, eval.Branch)
	assert.Empty(t, eval.Children)
}

func TestNodeTestPrunes(t *testing.T) {
	// x <= 2 and x >= 3
	p := mustProgram(t, []float64{1}, [][]float64{{1, 2}, {-1, -3}})
	n, err := newNode(1, 0, 0, math.Inf(1), p, nil, DefaultIntegralityTolerance, nil)
	require.NoError(t, err)

	eval, err := n.Test()
	require.NoError(t, err)

	assert.Equal(t, Pruned, eval.Verdict)
	assert.Empty(t, eval.Children)
}

func TestNodeTestUnresolved(t *testing.T) {
	// 3 <= x <= 5, with too few pivots to repair the starting basis
	p := mustProgram(t, []float64{1}, [][]float64{{1, 5}, {-1, -3}})
	n, err := newNode(1, 0, 0, math.Inf(1), p, nil, DefaultIntegralityTolerance, []simplex.Option{simplex.WithIterationLimit(1)})
	require.NoError(t, err)

	eval, err := n.Test()
	require.NoError(t, err)

	assert.Equal(t, Unresolved, eval.Verdict)
	assert.False(t, eval.Exact)
	assert.Equal(t, 1, eval.Pivots)
	assert.Empty(t, eval.Children)
}

func TestNodeTestCutAboveStart(t *testing.T) {
	// x >= 3 on top of x <= 5: not prunable, the relaxation reaches x = 5
	p := mustProgram(t, []float64{1}, [][]float64{{1, 5}, {-1, -3}})
	n, err := newNode(1, 0, 0, math.Inf(1), p, nil, DefaultIntegralityTolerance, nil)
	require.NoError(t, err)

	eval, err := n.Test()
	require.NoError(t, err)

	assert.Equal(t, Integral, eval.Verdict)
	assert.True(t, eval.Exact)
	assert.InDelta(t, 5.0, eval.Solution.Objective, delta)
}

func TestIsIntegral(t *testing.T) {
	assert.True(t, IsIntegral(3, 1e-6))
	assert.True(t, IsIntegral(2.9999999999, 1e-6))
	assert.True(t, IsIntegral(-1e-12, 1e-6))
	assert.False(t, IsIntegral(0.2, 1e-6))
	assert.False(t, IsIntegral(19.0/6, 1e-6))
}

func TestFirstFractional(t *testing.T) {
	x := []float64{1, 2.5, 0.5}

	i, v, ok := firstFractional(x, nil, 1e-6)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, 2.5, v)

	i, _, ok = firstFractional(x, []bool{true, false, true}, 1e-6)
	require.True(t, ok)
	assert.Equal(t, 2, i)

	_, _, ok = firstFractional(x, []bool{true, false, false}, 1e-6)
	assert.False(t, ok)
}

func TestDuplicateCut(t *testing.T) {
	p := mustProgram(t, []float64{1, 1}, [][]float64{{1, 0, 3}})

	assert.False(t, duplicateCut(p))
	assert.False(t, duplicateCut(lp.Program{Objective: []float64{1}}))

	fresh := p.With(lp.Constraint{Coefficients: []float64{0, 1}, RHS: 3})
	assert.False(t, duplicateCut(fresh))

	repeated := p.With(lp.Constraint{Coefficients: []float64{1, 0}, RHS: 3})
	assert.True(t, duplicateCut(repeated))
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "pruned", Pruned.String())
	assert.Equal(t, "integral", Integral.String())
	assert.Equal(t, "branched", Branched.String())
	assert.Equal(t, "bounded", Bounded.String())
	assert.Equal(t, "unresolved", Unresolved.String())
	assert.Equal(t, "Verdict(9)", Verdict(9).String())
}
