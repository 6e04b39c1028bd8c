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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{4, 5, 6}

	assert.Equal(t, Vector{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vector{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, Vector{2, 4, 6}, a.Scale(2))

	// operands are never modified
	assert.Equal(t, Vector{1, 2, 3}, a)
	assert.Equal(t, Vector{4, 5, 6}, b)
}

func TestVectorClone(t *testing.T) {
	a := Vector{1, 2}
	c := a.Clone()
	c[0] = 9

	assert.Equal(t, Vector{1, 2}, a)
	assert.Equal(t, Vector{9, 2}, c)
}
