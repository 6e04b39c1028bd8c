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
	"fmt"

	"github.com/sirupsen/logrus"
)

type Option func(*Simplex) error

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Simplex) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}
		s.logger = logger

		return nil
	}
}

func WithTracer(t Tracer) Option {
	return func(s *Simplex) error {
		s.tracer = t

		return nil
	}
}

func WithPivotRule(rule PivotRule) Option {
	return func(s *Simplex) error {
		if rule != Dantzig && rule != Bland {
			return fmt.Errorf("unknown pivot rule %v", rule)
		}
		s.rule = rule

		return nil
	}
}

// WithEnteringLimit stops pivoting once n distinct columns have entered
// the basis, reporting whatever vertex was reached with
// Solution.Optimal unset unless row 0 happens to be optimal already.
// There is no limit by default, and n <= 0 removes it again.
func WithEnteringLimit(n int) Option {
	return func(s *Simplex) error {
		s.enteringLimit = n

		return nil
	}
}

// WithIterationLimit bounds the total number of pivots. Reaching it
// makes Solve return ErrIterationLimit.
func WithIterationLimit(n int) Option {
	return func(s *Simplex) error {
		if n <= 0 {
			return fmt.Errorf("iteration limit must be positive, got %d", n)
		}
		s.iterationLimit = n

		return nil
	}
}

func WithEpsilon(eps float64) Option {
	return func(s *Simplex) error {
		if eps <= 0 {
			return fmt.Errorf("epsilon must be positive, got %g", eps)
		}
		s.eps = eps

		return nil
	}
}

// WithVariableNames overrides the default x1 … xn labels.
func WithVariableNames(names []string) Option {
	return func(s *Simplex) error {
		s.names = append([]string(nil), names...)

		return nil
	}
}
