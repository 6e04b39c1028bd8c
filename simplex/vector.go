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

import "gonum.org/v1/gonum/floats"

// Vector is a tableau row. Its operations never modify the receiver or
// the argument; they always return a fresh Vector.
type Vector []float64

// Add returns v + o. Both vectors must have the same length.
func (v Vector) Add(o Vector) Vector {
	return floats.AddTo(make(Vector, len(v)), v, o)
}

// Sub returns v - o. Both vectors must have the same length.
func (v Vector) Sub(o Vector) Vector {
	return floats.SubTo(make(Vector, len(v)), v, o)
}

// Scale returns f·v.
func (v Vector) Scale(f float64) Vector {
	return floats.ScaleTo(make(Vector, len(v)), f, v)
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	return append(Vector(nil), v...)
}
