// Copyright 2026 Plotpool Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreMetrics holds atomic counters for store write operations.
type StoreMetrics struct {
	FarmerUpserts     atomic.Uint64
	DifficultyUpdates atomic.Uint64
	SingletonUpdates  atomic.Uint64
	Partials          atomic.Uint64
	PointResets       atomic.Uint64

	// Prometheus metrics (nil until Register is called)
	farmerUpsertsCounter     prometheus.Counter
	difficultyUpdatesCounter prometheus.Counter
	singletonUpdatesCounter  prometheus.Counter
	partialsCounter          prometheus.Counter
	pointResetsCounter       prometheus.Counter

	// registerOnce ensures Prometheus metrics are only registered once
	registerOnce sync.Once
}

// Register registers Prometheus metrics with the given registry.
// If registry is nil, this is a no-op. This method is idempotent;
// subsequent calls after the first successful registration are no-ops.
func (m *StoreMetrics) Register(registry prometheus.Registerer) {
	if registry == nil {
		return
	}

	m.registerOnce.Do(func() {
		factory := promauto.With(registry)

		m.farmerUpsertsCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "plotpool_store_farmer_upserts_total",
			Help: "Total number of farmer records inserted or replaced",
		})

		m.difficultyUpdatesCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "plotpool_store_difficulty_updates_total",
			Help: "Total number of per-farmer difficulty updates",
		})

		m.singletonUpdatesCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "plotpool_store_singleton_updates_total",
			Help: "Total number of singleton state transitions recorded",
		})

		m.partialsCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "plotpool_store_partials_total",
			Help: "Total number of partials appended to the ledger",
		})

		m.pointResetsCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "plotpool_store_point_resets_total",
			Help: "Total number of pool-wide point resets",
		})
	})
}

// IncFarmerUpsert increments the farmer upsert counter.
func (m *StoreMetrics) IncFarmerUpsert() {
	m.FarmerUpserts.Add(1)
	if m.farmerUpsertsCounter != nil {
		m.farmerUpsertsCounter.Inc()
	}
}

// IncDifficultyUpdate increments the difficulty update counter.
func (m *StoreMetrics) IncDifficultyUpdate() {
	m.DifficultyUpdates.Add(1)
	if m.difficultyUpdatesCounter != nil {
		m.difficultyUpdatesCounter.Inc()
	}
}

// IncSingletonUpdate increments the singleton update counter.
func (m *StoreMetrics) IncSingletonUpdate() {
	m.SingletonUpdates.Add(1)
	if m.singletonUpdatesCounter != nil {
		m.singletonUpdatesCounter.Inc()
	}
}

// IncPartial increments the accepted partial counter.
func (m *StoreMetrics) IncPartial() {
	m.Partials.Add(1)
	if m.partialsCounter != nil {
		m.partialsCounter.Inc()
	}
}

// IncPointsReset increments the point reset counter.
func (m *StoreMetrics) IncPointsReset() {
	m.PointResets.Add(1)
	if m.pointResetsCounter != nil {
		m.pointResetsCounter.Inc()
	}
}
