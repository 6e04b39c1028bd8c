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

	"github.com/sirupsen/logrus"

	"github.com/costela/tableau/simplex"
)

type Option func(*Search) error

// WithWorkers evaluates up to n frontier nodes at a time. Outcomes are
// still applied in queue order, so the result does not depend on n.
func WithWorkers(n int) Option {
	return func(s *Search) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		s.workers = n

		return nil
	}
}

// WithBoundPruning discards nodes whose relaxation objective cannot
// beat the incumbent instead of exploring them.
func WithBoundPruning(enabled bool) Option {
	return func(s *Search) error {
		s.boundPruning = enabled

		return nil
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Search) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}
		s.logger = logger

		return nil
	}
}

func WithTracer(t Tracer) Option {
	return func(s *Search) error {
		s.tracer = t

		return nil
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Search) error {
		s.metrics = m

		return nil
	}
}

// WithSimplexOptions are passed to the simplex instance of every node.
func WithSimplexOptions(opts ...simplex.Option) Option {
	return func(s *Search) error {
		s.simplexOpts = append(s.simplexOpts, opts...)

		return nil
	}
}

// WithIntegrality restricts the integrality requirement to the variables
// marked true. By default every variable must be integral.
func WithIntegrality(mask []bool) Option {
	return func(s *Search) error {
		s.integer = append([]bool(nil), mask...)

		return nil
	}
}

// WithIntegralityTolerance sets how far from an integer a value may be
// and still count as integral.
func WithIntegralityTolerance(tol float64) Option {
	return func(s *Search) error {
		if tol <= 0 {
			return fmt.Errorf("integrality tolerance must be positive, got %g", tol)
		}
		s.tolerance = tol

		return nil
	}
}

// WithNodeLimit stops the search with ErrNodeLimit after n evaluated
// nodes. Zero means no limit.
func WithNodeLimit(n int) Option {
	return func(s *Search) error {
		if n < 0 {
			return fmt.Errorf("node limit must not be negative, got %d", n)
		}
		s.nodeLimit = n

		return nil
	}
}
