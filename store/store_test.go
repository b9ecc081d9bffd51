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

package store_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/plotpool/plotpool/store"
	"github.com/plotpool/plotpool/store/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(&store.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close() //nolint:errcheck
	})
	return s
}

func testLauncherID(b byte) []byte {
	id := make([]byte, models.LauncherIDSize)
	for i := range id {
		id[i] = b
	}
	return id
}

func testFarmer(b byte) *models.Farmer {
	return &models.Farmer{
		LauncherID:              testLauncherID(b),
		P2SingletonPuzzleHash:   testLauncherID(b + 1),
		AuthenticationPublicKey: []byte{b, 0x01},
		SingletonTip:            []byte{b, 0x10},
		SingletonTipState:       []byte{b, 0x20},
		Points:                  uint64(b),
		Difficulty:              1,
		PayoutInstructions:      "xch1dest",
		IsPoolMember:            true,
	}
}

func TestGetFarmerNotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.GetFarmer(testLauncherID(0x01), nil)
	assert.ErrorIs(t, err, models.ErrFarmerNotFound)
}

func TestStoreRejectsInvalidArguments(t *testing.T) {
	s := setupStore(t)

	shortID := []byte{0x01, 0x02}
	assert.ErrorIs(
		t,
		s.UpdateFarmerDifficulty(shortID, 10, nil),
		models.ErrInvalidLauncherID,
	)
	assert.ErrorIs(
		t,
		s.UpdateFarmerSingleton(shortID, nil, nil, true, nil),
		models.ErrInvalidLauncherID,
	)
	assert.ErrorIs(
		t,
		s.AddPartial(shortID, 1, 1, nil),
		models.ErrInvalidLauncherID,
	)
	assert.ErrorIs(
		t,
		s.UpdateFarmerDifficulty(testLauncherID(0x01), 0, nil),
		models.ErrInvalidDifficulty,
	)
}

func TestTxnRollback(t *testing.T) {
	s := setupStore(t)

	farmer := testFarmer(0x02)
	txn := s.Transaction(true)
	require.NoError(t, s.AddFarmer(farmer, txn))

	// Visible inside the transaction
	got, err := s.GetFarmer(farmer.LauncherID, txn)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, txn.Rollback())

	// Gone after rollback
	_, err = s.GetFarmer(farmer.LauncherID, nil)
	assert.ErrorIs(t, err, models.ErrFarmerNotFound)
}

func TestTxnCommit(t *testing.T) {
	s := setupStore(t)

	farmer := testFarmer(0x03)
	txn := s.Transaction(true)
	require.NoError(t, s.AddFarmer(farmer, txn))
	require.NoError(t, txn.Commit())

	got, err := s.GetFarmer(farmer.LauncherID, nil)
	require.NoError(t, err)
	assert.Equal(t, farmer.LauncherID, got.LauncherID)

	// Commit and Release after commit are no-ops
	require.NoError(t, txn.Commit())
	txn.Release()
}

func TestPayoutCycle(t *testing.T) {
	s := setupStore(t)

	a := testFarmer(0x10)
	a.Points = 100
	a.PayoutInstructions = "X"
	b := testFarmer(0x12)
	b.Points = 50
	b.PayoutInstructions = "X"
	c := testFarmer(0x14)
	c.Points = 10
	c.PayoutInstructions = "Y"
	require.NoError(t, s.AddFarmer(a, nil))
	require.NoError(t, s.AddFarmer(b, nil))
	require.NoError(t, s.AddFarmer(c, nil))

	var collected []models.PayoutTarget
	err := s.PayoutCycle(func(targets []models.PayoutTarget) error {
		collected = targets
		return nil
	})
	require.NoError(t, err)

	totals := make(map[string]uint64)
	for _, target := range collected {
		totals[target.PayoutInstructions] = target.TotalPoints
	}
	assert.Equal(t, uint64(150), totals["X"])
	assert.Equal(t, uint64(10), totals["Y"])

	// Points were reset as part of the cycle
	got, err := s.GetFarmer(a.LauncherID, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Points)
}

func TestPayoutCycleRollsBackOnError(t *testing.T) {
	s := setupStore(t)

	farmer := testFarmer(0x20)
	farmer.Points = 42
	require.NoError(t, s.AddFarmer(farmer, nil))

	cycleErr := errors.New("payment submission failed")
	err := s.PayoutCycle(func(targets []models.PayoutTarget) error {
		return cycleErr
	})
	assert.ErrorIs(t, err, cycleErr)

	// Reset was rolled back; points survive for the next round
	got, err := s.GetFarmer(farmer.LauncherID, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.Points)
}

// TestConcurrentPayoutCycles verifies point conservation: two racing
// cycles serialize on the write lock, so together they collect every
// point exactly once.
func TestConcurrentPayoutCycles(t *testing.T) {
	s := setupStore(t)

	a := testFarmer(0x30)
	a.Points = 100
	a.PayoutInstructions = "X"
	b := testFarmer(0x32)
	b.Points = 50
	b.PayoutInstructions = "X"
	require.NoError(t, s.AddFarmer(a, nil))
	require.NoError(t, s.AddFarmer(b, nil))

	var (
		collectedTotal atomic.Uint64
		wg             sync.WaitGroup
	)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.PayoutCycle(func(targets []models.PayoutTarget) error {
				for _, target := range targets {
					collectedTotal.Add(target.TotalPoints)
				}
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(
		t,
		uint64(150),
		collectedTotal.Load(),
		"points must be collected exactly once across racing cycles",
	)
}

func TestStoreMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	s, err := store.New(&store.Config{
		DataDir:      t.TempDir(),
		PromRegistry: registry,
	})
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	farmer := testFarmer(0x40)
	require.NoError(t, s.AddFarmer(farmer, nil))
	require.NoError(t, s.AddPartial(farmer.LauncherID, 10, 1, nil))
	require.NoError(t, s.AddPartial(farmer.LauncherID, 20, 1, nil))
	require.NoError(t, s.ClearFarmerPoints(nil))

	assert.Equal(t, uint64(1), s.Metrics().FarmerUpserts.Load())
	assert.Equal(t, uint64(2), s.Metrics().Partials.Load())
	assert.Equal(t, uint64(1), s.Metrics().PointResets.Load())

	count, err := testutil.GatherAndCount(
		registry,
		"plotpool_store_farmer_upserts_total",
		"plotpool_store_partials_total",
		"plotpool_store_point_resets_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
