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

// Package lp holds the plain description of a linear program: an
// objective to be maximized and a list of "<=" constraints over
// non-negative decision variables.
package lp

import (
	stderrors "errors"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Epsilon is the tolerance used when comparing coefficients.
const Epsilon = 1e-9

// ErrMalformed is returned for programs whose shape cannot be turned
// into a tableau, e.g. ragged constraint rows.
var ErrMalformed = stderrors.New("lp: malformed model")

// Constraint is a single "<=" row: Coefficients·x <= RHS.
type Constraint struct {
	Coefficients []float64
	RHS          float64
}

// NewConstraint splits a row whose trailing entry is the right-hand
// side.
func NewConstraint(row []float64) (Constraint, error) {
	if len(row) < 2 {
		return Constraint{}, errors.Wrapf(ErrMalformed, "constraint row needs at least one coefficient and a right-hand side, got %d values", len(row))
	}

	coefs := make([]float64, len(row)-1)
	copy(coefs, row)

	return Constraint{Coefficients: coefs, RHS: row[len(row)-1]}, nil
}

// Row returns the coefficients followed by the right-hand side.
func (c Constraint) Row() []float64 {
	row := make([]float64, len(c.Coefficients)+1)
	copy(row, c.Coefficients)
	row[len(c.Coefficients)] = c.RHS

	return row
}

// Equal reports whether both constraints describe the same row.
func (c Constraint) Equal(o Constraint) bool {
	if len(c.Coefficients) != len(o.Coefficients) {
		return false
	}

	return floats.EqualApprox(c.Coefficients, o.Coefficients, Epsilon) &&
		math.Abs(c.RHS-o.RHS) <= Epsilon
}

// LHS evaluates the left-hand side of the constraint at x.
func (c Constraint) LHS(x []float64) float64 {
	return floats.Dot(c.Coefficients, x)
}

// Program is a linear program in canonical form:
//
//	maximize   Objective·x
//	subject to Constraints[i].Coefficients·x <= Constraints[i].RHS
//	           x >= 0
type Program struct {
	Objective   []float64
	Constraints []Constraint
}

// New builds a program from an objective and constraint rows, each row
// ending with its right-hand side. The result is validated.
func New(objective []float64, rows [][]float64) (Program, error) {
	p := Program{
		Objective:   make([]float64, len(objective)),
		Constraints: make([]Constraint, 0, len(rows)),
	}
	copy(p.Objective, objective)

	for i, row := range rows {
		c, err := NewConstraint(row)
		if err != nil {
			return Program{}, errors.Wrapf(err, "constraint %d", i)
		}
		p.Constraints = append(p.Constraints, c)
	}

	if err := p.Validate(); err != nil {
		return Program{}, err
	}

	return p, nil
}

// NumVariables returns the number of decision variables.
func (p Program) NumVariables() int {
	return len(p.Objective)
}

// NumConstraints returns the number of constraint rows.
func (p Program) NumConstraints() int {
	return len(p.Constraints)
}

// Validate checks that every constraint has the objective's arity and
// that no value is NaN or infinite.
func (p Program) Validate() error {
	n := len(p.Objective)
	if n == 0 {
		return errors.Wrap(ErrMalformed, "objective has no coefficients")
	}
	if !finite(p.Objective) {
		return errors.Wrap(ErrMalformed, "objective contains non-finite values")
	}

	for i, c := range p.Constraints {
		if len(c.Coefficients) != n {
			return errors.Wrapf(ErrMalformed, "constraint %d has %d coefficients, objective has %d", i, len(c.Coefficients), n)
		}
		if !finite(c.Coefficients) || math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
			return errors.Wrapf(ErrMalformed, "constraint %d contains non-finite values", i)
		}
	}

	return nil
}

// With returns a copy of the program with c appended. The receiver is
// left untouched.
func (p Program) With(c Constraint) Program {
	constraints := make([]Constraint, len(p.Constraints), len(p.Constraints)+1)
	copy(constraints, p.Constraints)

	return Program{
		Objective:   p.Objective,
		Constraints: append(constraints, c),
	}
}

// Value evaluates the objective at x.
func (p Program) Value(x []float64) float64 {
	return floats.Dot(p.Objective, x)
}

// Feasible reports whether x is non-negative and satisfies every
// constraint, both within tol.
func (p Program) Feasible(x []float64, tol float64) bool {
	if len(x) != len(p.Objective) {
		return false
	}
	for _, v := range x {
		if v < -tol {
			return false
		}
	}
	for _, c := range p.Constraints {
		if c.LHS(x) > c.RHS+tol*math.Max(1, math.Abs(c.RHS)) {
			return false
		}
	}

	return true
}

func finite(vs []float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
