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

	"github.com/costela/tableau/bnb"
	"github.com/costela/tableau/simplex"
)

type Option func(*Model) error

func WithLogger(logger Logger) Option {
	return func(m *Model) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}
		m.logger = logger

		return nil
	}
}

// WithWorkers sets how many branch-and-bound nodes are evaluated
// concurrently.
func WithWorkers(n int) Option {
	return func(m *Model) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		m.workers = n

		return nil
	}
}

func WithBoundPruning(enabled bool) Option {
	return func(m *Model) error {
		m.boundPruning = enabled

		return nil
	}
}

// WithNodeLimit stops branch and bound after n nodes. Zero means no limit.
func WithNodeLimit(n int) Option {
	return func(m *Model) error {
		if n < 0 {
			return fmt.Errorf("node limit must not be negative, got %d", n)
		}
		m.nodeLimit = n

		return nil
	}
}

func WithPivotRule(rule simplex.PivotRule) Option {
	return func(m *Model) error {
		if rule != simplex.Dantzig && rule != simplex.Bland {
			return fmt.Errorf("unknown pivot rule %v", rule)
		}
		m.rule = rule

		return nil
	}
}

// WithEnteringLimit caps the distinct columns entering the basis of each
// simplex run. A run stopped by the cap may miss its optimum, in which
// case the result is SolutionSuboptimal. Zero, the default, means no cap.
func WithEnteringLimit(n int) Option {
	return func(m *Model) error {
		if n < 0 {
			return fmt.Errorf("entering limit must not be negative, got %d", n)
		}
		m.enteringLimit = n

		return nil
	}
}

func WithTracer(t bnb.Tracer) Option {
	return func(m *Model) error {
		m.tracer = t

		return nil
	}
}

func WithMetrics(metrics *bnb.Metrics) Option {
	return func(m *Model) error {
		m.metrics = metrics

		return nil
	}
}
