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
	"math"

	"github.com/costela/tableau/lp"
	"github.com/costela/tableau/simplex"
)

// Verdict is the outcome of evaluating a single node.
type Verdict int

const (
	// Pruned nodes have an infeasible or unbounded relaxation and produce
	// nothing.
	Pruned Verdict = iota
	// Integral nodes are candidate leaves.
	Integral
	// Branched nodes produce two children.
	Branched
	// Bounded nodes were discarded because their relaxation cannot beat
	// the incumbent. Only produced with bound pruning enabled.
	Bounded
	// Unresolved nodes are dropped because the simplex gave up on their
	// relaxation without proving it infeasible. Any of them makes the
	// search incomplete.
	Unresolved
)

func (v Verdict) String() string {
	switch v {
	case Pruned:
		return "pruned"
	case Integral:
		return "integral"
	case Branched:
		return "branched"
	case Bounded:
		return "bounded"
	case Unresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Evaluation is what Node.Test reports.
type Evaluation struct {
	Verdict  Verdict
	Solution simplex.Solution
	// Children holds the two child programs of a branched node: the
	// "x <= floor(v)" side first, then "x >= floor(v)+1".
	Children []lp.Program
	// Branch is the index of the variable branched on, -1 otherwise.
	Branch int
	Pivots int
	// Exact is set when Solution is the optimum of the relaxation, so
	// its objective bounds the whole subtree.
	Exact bool
}

// Node is one subproblem of the search tree. Every node owns its own
// program and simplex instance; nothing is shared between nodes.
type Node struct {
	ID     int
	Parent int
	Depth  int
	// Bound is the relaxation objective of the parent, an upper bound for
	// anything found below this node.
	Bound float64

	program   lp.Program
	simplex   *simplex.Simplex
	integer   []bool
	tolerance float64
}

func newNode(id, parent, depth int, bound float64, p lp.Program, integer []bool, tolerance float64, opts []simplex.Option) (*Node, error) {
	s, err := simplex.New(p, opts...)
	if err != nil {
		return nil, err
	}

	return &Node{
		ID:        id,
		Parent:    parent,
		Depth:     depth,
		Bound:     bound,
		program:   p,
		simplex:   s,
		integer:   integer,
		tolerance: tolerance,
	}, nil
}

// Program returns the node's program, branch cuts included.
func (n *Node) Program() lp.Program {
	return n.program
}

// Test solves the node's relaxation and decides what to do with it.
// Relaxations proven infeasible or unbounded are pruned, those the
// simplex gave up on are unresolved. Errors are only returned for
// failures that are not part of normal pruning.
func (n *Node) Test() (Evaluation, error) {
	sol, err := n.simplex.Solve()
	eval := Evaluation{Branch: -1, Pivots: n.simplex.Iterations()}
	switch {
	case simplex.IsProven(err):
		eval.Verdict = Pruned
		return eval, nil
	case simplex.IsNoSolution(err):
		eval.Verdict = Unresolved
		return eval, nil
	case err != nil:
		return eval, err
	}
	eval.Solution = sol
	eval.Exact = sol.Optimal

	index, value, ok := firstFractional(sol.Values(), n.integer, n.tolerance)
	if !ok {
		eval.Verdict = Integral
		return eval, nil
	}

	v := math.Floor(value)
	nvars := n.program.NumVariables()

	below := make([]float64, nvars)
	below[index] = 1
	above := make([]float64, nvars)
	above[index] = -1

	eval.Verdict = Branched
	eval.Branch = index
	eval.Children = []lp.Program{
		n.program.With(lp.Constraint{Coefficients: below, RHS: v}),
		n.program.With(lp.Constraint{Coefficients: above, RHS: -(v + 1)}),
	}

	return eval, nil
}

// Iterations returns the pivots spent on this node.
func (n *Node) Iterations() int {
	return n.simplex.Iterations()
}

// IsIntegral reports whether x is within tol of an integer.
func IsIntegral(x, tol float64) bool {
	return math.Abs(x-math.Round(x)) < tol
}

func firstFractional(x []float64, integer []bool, tol float64) (int, float64, bool) {
	for i, v := range x {
		if integer != nil && !integer[i] {
			continue
		}
		if !IsIntegral(v, tol) {
			return i, v, true
		}
	}

	return -1, 0, false
}

// duplicateCut reports whether the last constraint of p already appears
// among the others.
func duplicateCut(p lp.Program) bool {
	if len(p.Constraints) == 0 {
		return false
	}
	last := p.Constraints[len(p.Constraints)-1]
	for _, c := range p.Constraints[:len(p.Constraints)-1] {
		if c.Equal(last) {
			return true
		}
	}

	return false
}
