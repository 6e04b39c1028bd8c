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

package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/costela/tableau"
	"github.com/costela/tableau/bnb"
	"github.com/costela/tableau/lp"
	"github.com/costela/tableau/simplex"
)

type options struct {
	relax        bool
	minimize     bool
	workers      int
	bound        bool
	nodeLimit    int
	entering     int
	bland        bool
	trace        bool
	printTableau bool
	metrics      bool
	debug        bool
}

func (o *options) bindFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&o.relax, "relax", false, "solve the LP relaxation only, without integrality")
	flags.BoolVar(&o.minimize, "minimize", false, "minimize the objective instead of maximizing it")
	flags.IntVar(&o.workers, "workers", 1, "number of branch-and-bound nodes evaluated concurrently")
	flags.BoolVar(&o.bound, "bound", false, "discard nodes whose relaxation cannot beat the incumbent")
	flags.IntVar(&o.nodeLimit, "node-limit", 0, "stop after this many branch-and-bound nodes (0 means no limit)")
	flags.IntVar(&o.entering, "entering-limit", 0, "stop each simplex run after this many distinct entering columns (0 means no limit)")
	flags.BoolVar(&o.bland, "bland", false, "use Bland's rule to select the entering column")
	flags.BoolVar(&o.trace, "trace", false, "print every evaluated node to stderr")
	flags.BoolVar(&o.printTableau, "print-tableau", false, "print the initial and final root tableau to stderr")
	flags.BoolVar(&o.metrics, "metrics", false, "print search metrics to stderr in Prometheus text format")
	flags.BoolVar(&o.debug, "debug", false, "enable debug logging")
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "tableau [flags] MODEL",
		Short: "Solve a linear or integer program",
		Long: `Solve the program described in MODEL, a JSON or YAML document of the form

  {"objective": [c1, ..., cn], "constraints": [[a1, ..., an, b], ...]}

Every constraint row reads a1*x1 + ... + an*xn <= b, and every variable is
non-negative and, unless --relax is given, integral.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			c.SilenceUsage = true
			return o.run(c, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	o.bindFlags(cmd.Flags())

	return cmd
}

func (o *options) run(cmd *cobra.Command, path string, stdout, stderr io.Writer) error {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)
	if o.debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	p, err := lp.Load(path)
	if err != nil {
		return err
	}

	dir := tableau.Maximize
	if o.minimize {
		dir = tableau.Minimize
	}
	varType := tableau.IntegerVariable
	if o.relax {
		varType = tableau.ContinuousVariable
	}
	rule := simplex.Dantzig
	if o.bland {
		rule = simplex.Bland
	}

	opts := []tableau.Option{
		tableau.WithLogger(logger),
		tableau.WithWorkers(o.workers),
		tableau.WithBoundPruning(o.bound),
		tableau.WithNodeLimit(o.nodeLimit),
		tableau.WithEnteringLimit(o.entering),
		tableau.WithPivotRule(rule),
	}
	if o.trace {
		opts = append(opts, tableau.WithTracer(bnb.LoggingTracer{Writer: stderr}))
	}
	var registry *prometheus.Registry
	if o.metrics {
		metrics := bnb.NewMetrics()
		registry = prometheus.NewRegistry()
		if err := metrics.Register(registry); err != nil {
			return err
		}
		opts = append(opts, tableau.WithMetrics(metrics))
	}

	model, err := tableau.NewModelFromProgram(filepath.Base(path), dir, p, varType, opts...)
	if err != nil {
		return err
	}

	if o.printTableau {
		program, err := model.Program()
		if err != nil {
			return err
		}
		if err := printRootTableau(stderr, program, simplex.WithPivotRule(rule), simplex.WithEnteringLimit(o.entering)); err != nil {
			return err
		}
	}

	res, err := model.SolveWithContext(cmd.Context())
	if registry != nil {
		if err := dumpMetrics(stderr, registry); err != nil {
			return err
		}
	}
	if noSolution(err) {
		fmt.Fprintln(stdout, "no feasible solution")
		return err
	}
	if res == nil {
		return err
	}

	printSolution(stdout, model, res)
	if res.Status() != tableau.SolutionOptimal {
		entry := logger.WithField("status", res.Status())
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Warn("solution may not be optimal")
	}

	return err
}

func noSolution(err error) bool {
	return errors.Is(err, tableau.ErrNoFeasibleFound) ||
		errors.Is(err, tableau.ErrModelInfeasible) ||
		errors.Is(err, tableau.ErrModelDegenerate) ||
		errors.Is(err, tableau.ErrIterationLimit)
}
