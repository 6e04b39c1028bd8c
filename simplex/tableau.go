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

package simplex

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/costela/tableau/lp"
)

// tableau is the augmented matrix of a program in canonical form.
//
// Layout, for n decision variables and m constraints:
//
//	row 0:     -c_1 … -c_n | 0 … 0 | z
//	row 1..m:   a_i1 … a_in | e_i   | b_i
//
// so there are n+m+1 columns, the last one holding the right-hand sides.
// Row 0 starts from -c, so its last entry is +z, never -z. The auxiliary
// tableau used to restore feasibility has one more column, the
// artificial variable, just before the right-hand sides.
type tableau struct {
	m    *mat.Dense
	vars int
	cons int
	eps  float64

	// basis[i] is the column owning constraint row i; basis[0] is unused.
	basis []int
}

func newTableau(p lp.Program, eps float64) *tableau {
	n, m := p.NumVariables(), p.NumConstraints()
	cols := n + m + 1

	data := make([]float64, (m+1)*cols)
	for j, c := range p.Objective {
		data[j] = -c
	}
	for i, c := range p.Constraints {
		row := data[(i+1)*cols : (i+2)*cols]
		copy(row, c.Coefficients)
		row[n+i] = 1
		row[cols-1] = c.RHS
	}

	basis := make([]int, m+1)
	for i := 1; i <= m; i++ {
		basis[i] = n + i - 1
	}

	return &tableau{
		m:     mat.NewDense(m+1, cols, data),
		vars:  n,
		cons:  m,
		eps:   eps,
		basis: basis,
	}
}

func (t *tableau) rhsColumn() int {
	_, c := t.m.Dims()
	return c - 1
}

func (t *tableau) row(i int) Vector {
	return Vector(t.m.RawRowView(i)).Clone()
}

func (t *tableau) objective() float64 {
	return t.m.At(0, t.rhsColumn())
}

// enteringColumn selects the column to bring into the basis. ok is false
// when no objective entry is negative, i.e. the tableau is optimal.
func (t *tableau) enteringColumn(rule PivotRule) (col int, ok bool) {
	col = -1
	best := 0.0
	for j := 0; j < t.rhsColumn(); j++ {
		v := t.m.At(0, j)
		if v >= -t.eps {
			continue
		}
		if rule == Bland {
			return j, true
		}
		if math.Abs(v) > best {
			best = math.Abs(v)
			col = j
		}
	}

	return col, col >= 0
}

// leavingRow runs the minimum-ratio test on col. ok is false when no
// constraint row limits the entering variable.
func (t *tableau) leavingRow(col int) (row int, ok bool) {
	row = -1
	best := math.Inf(1)
	rhs := t.rhsColumn()
	for i := 1; i <= t.cons; i++ {
		entry := t.m.At(i, col)
		b := t.m.At(i, rhs)
		if math.Abs(b) <= t.eps {
			b = 0
		}
		switch {
		case math.Abs(entry) <= t.eps:
			continue
		case entry < 0 && b >= 0:
			// a negative entry only limits a row whose cut is violated
			continue
		}

		ratio := b / entry
		if ratio < 0 {
			continue
		}
		if ratio < best-t.eps {
			best = ratio
			row = i
		}
	}

	return row, row >= 0
}

// pivot performs one Gauss-Jordan elimination step around (row, col).
func (t *tableau) pivot(row, col int) {
	pivotRow := t.row(row)
	normalized := pivotRow.Scale(1 / pivotRow[col])
	normalized[col] = 1

	rows, _ := t.m.Dims()
	for i := 0; i < rows; i++ {
		if i == row {
			continue
		}
		current := t.row(i)
		factor := current[col]
		if factor == 0 {
			continue
		}
		updated := current.Sub(normalized.Scale(factor))
		updated[col] = 0
		t.m.SetRow(i, updated)
	}
	t.m.SetRow(row, normalized)
	t.basis[row] = col
}

// basicRow returns the constraint row in which column col is basic: the
// only row holding a 1 there, with every other row (objective included)
// holding 0. A unit column that shares its row with the column owning
// that row is not basic.
func (t *tableau) basicRow(col int) (row int, ok bool) {
	row = -1
	for i := 0; i <= t.cons; i++ {
		v := t.m.At(i, col)
		switch {
		case math.Abs(v) <= t.eps:
			continue
		case i > 0 && row < 0 && math.Abs(v-1) <= t.eps:
			row = i
		default:
			return -1, false
		}
	}
	if row <= 0 || t.basis[row] != col {
		return -1, false
	}

	return row, true
}

// values extracts the current value of every decision variable.
func (t *tableau) values() []float64 {
	x := make([]float64, t.vars)
	rhs := t.rhsColumn()
	for j := range x {
		if i, ok := t.basicRow(j); ok {
			x[j] = t.m.At(i, rhs)
		}
	}

	return x
}

// violatedRow returns the constraint row with the most negative
// right-hand side, i.e. the row the slack basis cannot satisfy.
func (t *tableau) violatedRow() (row int, ok bool) {
	row = -1
	worst := -t.eps
	rhs := t.rhsColumn()
	for i := 1; i <= t.cons; i++ {
		if b := t.m.At(i, rhs); b < worst {
			worst = b
			row = i
		}
	}

	return row, row >= 0
}

// auxiliary builds the restoration tableau: the constraint rows with an
// artificial column of -1 appended, and an objective maximizing minus
// the artificial variable. The basis is shared with t.
func (t *tableau) auxiliary() *tableau {
	rows, cols := t.m.Dims()
	aux := mat.NewDense(rows, cols+1, nil)
	aux.Set(0, cols-1, 1)
	for i := 1; i < rows; i++ {
		src := t.m.RawRowView(i)
		dst := aux.RawRowView(i)
		copy(dst, src[:cols-1])
		dst[cols-1] = -1
		dst[cols] = src[cols-1]
	}

	basis := make([]int, len(t.basis))
	copy(basis, t.basis)

	return &tableau{
		m:     aux,
		vars:  t.vars,
		cons:  t.cons,
		eps:   t.eps,
		basis: basis,
	}
}

// restart takes over the constraint rows and basis of a restored
// auxiliary tableau, dropping its artificial column, and rebuilds row 0
// for objective in terms of the new basis.
func (t *tableau) restart(aux *tableau, objective []float64) {
	rows, cols := t.m.Dims()
	for i := 1; i < rows; i++ {
		src := aux.m.RawRowView(i)
		row := make(Vector, cols)
		copy(row, src[:cols-1])
		row[cols-1] = src[len(src)-1]
		t.m.SetRow(i, row)
	}
	copy(t.basis, aux.basis)

	z := make(Vector, cols)
	for j, c := range objective {
		z[j] = -c
	}
	for i := 1; i < rows; i++ {
		col := t.basis[i]
		factor := z[col]
		if factor == 0 {
			continue
		}
		z = z.Sub(t.row(i).Scale(factor))
		z[col] = 0
	}
	t.m.SetRow(0, z)
}

// largestEntry returns the column, other than skip, with the largest
// absolute entry in row. ok is false when every entry is within eps of
// zero.
func (t *tableau) largestEntry(row, skip int) (col int, ok bool) {
	col = -1
	best := t.eps
	for j := 0; j < t.rhsColumn(); j++ {
		if j == skip {
			continue
		}
		if v := math.Abs(t.m.At(row, j)); v > best {
			best = v
			col = j
		}
	}

	return col, col >= 0
}

func (t *tableau) snapshot() *mat.Dense {
	return mat.DenseCopyOf(t.m)
}
