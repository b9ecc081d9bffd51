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

// Package store is the persistent bookkeeping layer for the pool
// coordinator: the farmer registry, the append-only ledger of accepted
// partials, and the payout aggregation the payout engine consumes.
package store

import (
	"io"
	"log/slog"
	"sync"

	"github.com/plotpool/plotpool/store/plugin/metadata"
	"github.com/prometheus/client_golang/prometheus"
)

// Store is the single source of truth for farmer accounts and partials.
// All mutating operations run inside a read-write Txn, which holds the
// store-wide write lock, so conflicting writes apply in a total order and
// multi-field updates are never observed partially applied.
type Store struct {
	logger   *slog.Logger
	metadata metadata.MetadataStore
	metrics  StoreMetrics
	dataDir  string
	// writeLock serializes all mutating operations. It is owned by
	// read-write Txns, acquired at creation and released exactly once at
	// commit or rollback.
	writeLock sync.Mutex
}

// Config contains the configuration for a Store
type Config struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	DataDir      string
}

// New creates a new store instance with optional persistence using the
// provided data directory. An empty data directory selects an in-memory
// database, useful for testing.
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	metadataDb, err := metadata.New(
		"sqlite",
		cfg.DataDir,
		logger,
		cfg.PromRegistry,
	)
	if err != nil {
		return nil, err
	}
	s := &Store{
		logger:   logger,
		metadata: metadataDb,
		dataDir:  cfg.DataDir,
	}
	s.metrics.Register(cfg.PromRegistry)
	return s, nil
}

// DataDir returns the path to the data directory used for storage
func (s *Store) DataDir() string {
	return s.dataDir
}

// Logger returns the logger instance
func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// Metadata returns the underlying metadata store instance
func (s *Store) Metadata() metadata.MetadataStore {
	return s.metadata
}

// Metrics returns the store's operation counters
func (s *Store) Metrics() *StoreMetrics {
	return &s.metrics
}

// Transaction starts a new store transaction and returns a handle to it
func (s *Store) Transaction(readWrite bool) *Txn {
	return NewTxn(s, readWrite)
}

// Close cleans up the database connections
func (s *Store) Close() error {
	return s.metadata.Close()
}

// inWriteTxn runs fn inside the given transaction, or inside a fresh
// read-write transaction (committed on success) when txn is nil.
func (s *Store) inWriteTxn(txn *Txn, fn func(*Txn) error) error {
	if txn != nil {
		return fn(txn)
	}
	return s.Transaction(true).Do(fn)
}
