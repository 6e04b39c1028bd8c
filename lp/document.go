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

package lp

import (
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Document is the on-disk representation of a program. Both JSON and
// YAML are accepted:
//
//	{"objective": [6, 5], "constraints": [[7, 11, 24], [6, 5, 19]]}
type Document struct {
	Objective   []float64   `json:"objective"`
	Constraints [][]float64 `json:"constraints"`
}

// Decode parses a JSON or YAML document into a validated program.
func Decode(data []byte) (Program, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return Program{}, errors.Wrap(err, "decoding model document")
	}

	return New(doc.Objective, doc.Constraints)
}

// Load reads and decodes the document at path.
func Load(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, errors.Wrap(err, "reading model document")
	}

	p, err := Decode(data)
	if err != nil {
		return Program{}, errors.Wrapf(err, "loading %s", path)
	}

	return p, nil
}

// Encode renders p as a YAML document that Decode accepts.
func Encode(p Program) ([]byte, error) {
	doc := Document{
		Objective:   p.Objective,
		Constraints: make([][]float64, len(p.Constraints)),
	}
	for i, c := range p.Constraints {
		doc.Constraints[i] = c.Row()
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding model document")
	}

	return data, nil
}
