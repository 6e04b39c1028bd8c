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

Tableau is a library for modelling and solving small linear and integer
programming problems with a dense simplex tableau and breadth-first
branch and bound.

Every variable is implicitly non-negative and every constraint is an
upper bound on a linear combination of variables. As an example of the
API, the model of the following problem:

    Maximize:
      z = 6 x1 + 5 x2
    With:
      x1, x2 >= 0 and integral
    Subject to:
      7 x1 + 11 x2 <= 24
      6 x1 +  5 x2 <= 19
        x1 +  9 x2 <= 33

can be expressed like this:

	package main

	import (
		"fmt"
		"math"

		"github.com/costela/tableau"
	)

	func main() {
		model, _ := tableau.NewModel("some model", tableau.Maximize)
		x1, _ := model.AddIntegerVariable("x1")
		x1.SetObjectiveCoefficient(6)
		// alternatively, all information pertaining can be given at once:
		x2, _ := model.AddDefinedVariable("x2", tableau.IntegerVariable, 5, math.Inf(1))

		model.AddConstraint(24, []*tableau.Variable{x1, x2}, []float64{7, 11})
		model.AddConstraint(19, []*tableau.Variable{x1, x2}, []float64{6, 5})
		model.AddConstraint(33, []*tableau.Variable{x1, x2}, []float64{1, 9})

		result, _ := model.Solve() // you should check for errors

		fmt.Printf("solution optimal? %t\n", result.Status() == tableau.SolutionOptimal)
		fmt.Printf("z = %f\n", result.ObjectiveValue())
		fmt.Printf("x1 = %f\n", result.Value(x1))
	}

*/
package tableau

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/costela/tableau/bnb"
	"github.com/costela/tableau/lp"
	"github.com/costela/tableau/simplex"
)

/* Types */

type Model struct {
	mu          sync.RWMutex
	name        string
	dir         direction
	vars        []*Variable
	constraints []constraint

	logger        Logger
	workers       int
	boundPruning  bool
	nodeLimit     int
	enteringLimit int
	rule          simplex.PivotRule
	tracer        bnb.Tracer
	metrics       *bnb.Metrics
}

type constraint struct {
	upper float64
	terms map[int]float64
}

type direction int

const (
	Minimize direction = iota
	Maximize
)

func (d direction) String() string {
	if d == Maximize {
		return "maximize"
	}

	return "minimize"
}

/* Model related functions */

// NewModel instantiates a new linear programming model, providing a
// name (purely informational) and a optimization direction (either
// Minimize or Maximize)
func NewModel(name string, dir direction, opts ...Option) (*Model, error) {
	model := &Model{
		name:    name,
		dir:     dir,
		logger:  discardLogger(),
		workers: 1,
		rule:    simplex.Dantzig,
	}

	for _, opt := range opts {
		if err := opt(model); err != nil {
			return nil, fmt.Errorf("applying model option: %w", err)
		}
	}

	return model, nil
}

// NewModelFromProgram builds a model whose variables are named x1 … xn,
// all of type varType, from a decoded program. Constraints with a
// negative right-hand side are rejected with ErrUnsupportedConstraint.
func NewModelFromProgram(name string, dir direction, p lp.Program, varType VariableType, opts ...Option) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	model, err := NewModel(name, dir, opts...)
	if err != nil {
		return nil, err
	}

	names := simplex.DefaultNames(p.NumVariables())
	vars := make([]*Variable, len(names))
	for i, name := range names {
		vars[i], err = model.AddDefinedVariable(name, varType, p.Objective[i], math.Inf(1))
		if err != nil {
			return nil, err
		}
	}
	for _, c := range p.Constraints {
		if err := model.AddConstraint(c.RHS, vars, c.Coefficients); err != nil {
			return nil, err
		}
	}

	return model, nil
}

// Clone returns a copy of the model. Variables of the copy are distinct
// from those of the original.
func (model *Model) Clone() *Model {
	model.mu.RLock()
	defer model.mu.RUnlock()

	newModel := &Model{
		name:          model.name,
		dir:           model.dir,
		logger:        model.logger,
		workers:       model.workers,
		boundPruning:  model.boundPruning,
		nodeLimit:     model.nodeLimit,
		enteringLimit: model.enteringLimit,
		rule:          model.rule,
		tracer:        model.tracer,
		metrics:       model.metrics,
	}

	newModel.vars = make([]*Variable, len(model.vars))
	for i, v := range model.vars {
		nv := *v
		nv.model = newModel
		newModel.vars[i] = &nv
	}

	newModel.constraints = make([]constraint, len(model.constraints))
	for i, c := range model.constraints {
		terms := make(map[int]float64, len(c.terms))
		for k, v := range c.terms {
			terms[k] = v
		}
		newModel.constraints[i] = constraint{upper: c.upper, terms: terms}
	}

	return newModel
}

// Name returns the name provided upon instantiation of a model
func (model *Model) Name() string {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.name
}

// SetDirection changes the direction of the model's optimization
func (model *Model) SetDirection(dir direction) {
	model.mu.Lock()
	defer model.mu.Unlock()

	model.dir = dir
}

// Direction returns the model's current optimization direction
func (model *Model) Direction() direction {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.dir
}

/* Column-related functions */

func (model *Model) VariableCount() int {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return len(model.vars)
}

// Variables returns a new slice with the model's variables. Changes to the slice will not be reflected in the model.
func (model *Model) Variables() []*Variable {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return append([]*Variable(nil), model.vars...)
}

// AddVariable adds a variable to the linear programming model and
// returns a reference to it.
// A freshly instantiated variable has the default type of
// ContinuousVariable, no upper bound and an objective coefficient of 1.
//
// A variable is bound to its model. Using it with another model fails.
//
// Empty names will automatically replaced by a unique name.
func (model *Model) AddVariable(name string) (v *Variable, err error) {
	return model.AddDefinedVariable(name, ContinuousVariable, 1, math.Inf(1))
}

// AddBinaryVariable is a convenience function for adding a single
// named binary variable to the model, with a default coefficient of 1.
// Empty names will automatically replaced by a unique name.
func (model *Model) AddBinaryVariable(name string) (v *Variable, err error) {
	return model.AddDefinedVariable(name, BinaryVariable, 1, 1)
}

// AddIntegerVariable is a convenience function for adding a single
// named integer variable without upper bound to the model, with a
// default objective coefficient of 1.
// Empty names will automatically replaced by a unique name.
func (model *Model) AddIntegerVariable(name string) (v *Variable, err error) {
	return model.AddDefinedVariable(name, IntegerVariable, 1, math.Inf(1))
}

// AddDefinedVariable add a variable to the linear programming model
// with its attributes passed as arguments.
// If varType is BinaryVariable, the upper bound is ignored.
// Empty names will automatically replaced by a unique name.
func (model *Model) AddDefinedVariable(name string, varType VariableType, coefficient, upperBound float64) (v *Variable, err error) {
	if err := checkUpperBound(upperBound); err != nil {
		return nil, err
	}
	if math.IsNaN(coefficient) || math.IsInf(coefficient, 0) {
		return nil, fmt.Errorf("invalid objective coefficient %v", coefficient)
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	size := len(model.vars)
	if name == "" {
		name = fmt.Sprintf("x%d", size+1)
	}

	v = &Variable{
		model: model,
		index: size,
		name:  name,
		typ:   varType,
		coef:  coefficient,
		upper: upperBound,
	}
	model.vars = append(model.vars, v)

	return v, nil
}

// SetObjectiveFunction defines the objective function for the model as
// a slice of coefficients and a slice of its respective variables.
// E.g.: an objective function of the form 2x+3y is passed as:
//   SetObjectiveFunction([]float64{2,3}, []*Variable{x, y})
// Where x and y are the return values of one of the Add*Variable
// functions.
func (model *Model) SetObjectiveFunction(coefs []float64, vars []*Variable) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("inconsistent number of variables and coefficients: %d != %d", len(vars), len(coefs))
	}
	for i, v := range vars {
		if err := model.owns(v); err != nil {
			return err
		}
		v.SetObjectiveCoefficient(coefs[i])
	}
	return nil
}

/* Constraint-related functions */

// ConstraintCount returns the number of individual constraints in
// the model, not counting variable upper bounds
func (model *Model) ConstraintCount() int {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return len(model.constraints)
}

// AddConstraint adds the constraint
//
//	coefs[0]·vars[0] + … + coefs[k]·vars[k] <= upper
//
// to the model. Only non-negative upper limits are supported, since the
// solver always starts from the origin.
func (model *Model) AddConstraint(upper float64, vars []*Variable, coefs []float64) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("inconsistent number of variables and coefficients: %d != %d", len(vars), len(coefs))
	}
	if math.IsNaN(upper) || math.IsInf(upper, -1) {
		return fmt.Errorf("invalid constraint limit %v", upper)
	}
	if upper < 0 {
		return ErrUnsupportedConstraint
	}
	if math.IsInf(upper, 1) {
		// no constraint
		return nil
	}

	terms := make(map[int]float64, len(vars))
	for i, v := range vars {
		if err := model.owns(v); err != nil {
			return err
		}
		if math.IsNaN(coefs[i]) || math.IsInf(coefs[i], 0) {
			return fmt.Errorf("invalid coefficient %v for variable %q", coefs[i], v.Name())
		}
		terms[v.index] += coefs[i]
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	model.constraints = append(model.constraints, constraint{upper: upper, terms: terms})

	return nil
}

func (model *Model) owns(v *Variable) error {
	if v == nil || v.model != model {
		return fmt.Errorf("variable does not belong to model %q", model.Name())
	}

	return nil
}

// Program returns the model as a maximization program. Minimization
// models have their objective negated; finite variable upper bounds
// become constraint rows after the model's own constraints.
func (model *Model) Program() (lp.Program, error) {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.program()
}

func (model *Model) program() (lp.Program, error) {
	n := len(model.vars)
	if n == 0 {
		return lp.Program{}, fmt.Errorf("%w: model has no variables", lp.ErrMalformed)
	}

	objective := make([]float64, n)
	for i, v := range model.vars {
		objective[i] = v.coef
		if model.dir == Minimize {
			objective[i] = -v.coef
		}
	}

	rows := make([][]float64, 0, len(model.constraints)+n)
	for _, c := range model.constraints {
		row := make([]float64, n+1)
		for i, coef := range c.terms {
			row[i] = coef
		}
		row[n] = c.upper
		rows = append(rows, row)
	}
	for i, v := range model.vars {
		upper := v.upperBound()
		if math.IsInf(upper, 1) {
			continue
		}
		row := make([]float64, n+1)
		row[i] = 1
		row[n] = upper
		rows = append(rows, row)
	}

	return lp.New(objective, rows)
}

// Solve attempts to find an optimal solution to the model.
// Information about the solution can be queried from the returned
// SolveResult value.
func (model *Model) Solve() (res *SolveResult, err error) {
	return model.SolveWithContext(context.Background())
}
