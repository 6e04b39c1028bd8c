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
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects search counters. A Metrics value is only exported once
// registered; searches update it either way.
type Metrics struct {
	nodes      *prometheus.CounterVec
	duplicates prometheus.Counter
	incumbents prometheus.Counter
	pivots     prometheus.Counter
	frontier   prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tableau_bnb_nodes_total",
				Help: "Number of branch-and-bound nodes evaluated, by verdict.",
			},
			[]string{"verdict"},
		),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tableau_bnb_duplicate_cuts_total",
			Help: "Number of children skipped because their cut was already imposed.",
		}),
		incumbents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tableau_bnb_incumbent_updates_total",
			Help: "Number of times the incumbent was replaced.",
		}),
		pivots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tableau_simplex_pivots_total",
			Help: "Number of simplex pivots across all nodes.",
		}),
		frontier: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tableau_bnb_frontier_size",
			Help: "Number of nodes waiting in the search queue.",
		}),
	}
}

// Collectors returns every collector owned by m.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.nodes, m.duplicates, m.incumbents, m.pivots, m.frontier}
}

func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := r.Register(c); err != nil {
			return err
		}
	}

	return nil
}

func (m *Metrics) observe(e Evaluation) {
	if m == nil {
		return
	}
	m.nodes.WithLabelValues(e.Verdict.String()).Inc()
	m.pivots.Add(float64(e.Pivots))
}

func (m *Metrics) duplicate() {
	if m == nil {
		return
	}
	m.duplicates.Inc()
}

func (m *Metrics) incumbent() {
	if m == nil {
		return
	}
	m.incumbents.Inc()
}

func (m *Metrics) queued(n int) {
	if m == nil {
		return
	}
	m.frontier.Set(float64(n))
}
