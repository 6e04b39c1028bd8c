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
	"fmt"
	"math"
)

type Variable struct {
	model *Model
	index int
	name  string
	typ   VariableType
	coef  float64
	upper float64
}

type VariableType int

const (
	ContinuousVariable VariableType = iota
	IntegerVariable
	BinaryVariable
)

func (t VariableType) String() string {
	switch t {
	case ContinuousVariable:
		return "continuous"
	case IntegerVariable:
		return "integer"
	case BinaryVariable:
		return "binary"
	default:
		return fmt.Sprintf("VariableType(%d)", int(t))
	}
}

/* Variable-related functions (model variables, as opposed to Go variables) */

func (v *Variable) Name() string {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	return v.name
}

// Index returns the position of the variable in its model.
func (v *Variable) Index() int {
	return v.index
}

func (v *Variable) SetType(varType VariableType) {
	v.model.mu.Lock()
	defer v.model.mu.Unlock()

	v.typ = varType
}

func (v *Variable) Type() VariableType {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	return v.typ
}

func (v *Variable) SetObjectiveCoefficient(coef float64) {
	v.model.mu.Lock()
	defer v.model.mu.Unlock()

	v.coef = coef
}

func (v *Variable) Coefficient() float64 {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	return v.coef
}

// SetUpperBound limits the variable to [0, upper]. Pass math.Inf(1) to
// remove the limit. Binary variables keep their upper bound of 1.
func (v *Variable) SetUpperBound(upper float64) error {
	if err := checkUpperBound(upper); err != nil {
		return err
	}

	v.model.mu.Lock()
	defer v.model.mu.Unlock()

	v.upper = upper

	return nil
}

// Bounds returns the variable's lower and upper bounds. The lower bound
// is always 0.
func (v *Variable) Bounds() (lower, upper float64) {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	return 0, v.upperBound()
}

func (v *Variable) upperBound() float64 {
	if v.typ == BinaryVariable {
		return 1
	}

	return v.upper
}

func (v *Variable) integral() bool {
	return v.typ == IntegerVariable || v.typ == BinaryVariable
}

func checkUpperBound(upper float64) error {
	if math.IsNaN(upper) || upper < 0 {
		return fmt.Errorf("upper bound must be non-negative, got %v", upper)
	}

	return nil
}
