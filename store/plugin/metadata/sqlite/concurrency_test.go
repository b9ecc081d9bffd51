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

package sqlite

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentSingletonUpdates verifies that racing singleton updates
// to the same farmer never produce a mixed state: the final tip, tip
// state, and membership flag all come from the same writer.
func TestConcurrentSingletonUpdates(t *testing.T) {
	store := setupFileBasedStore(t)

	farmer := testFarmer(0x01)
	require.NoError(t, store.AddFarmer(farmer, nil))

	const numWriters = 8

	var (
		writeErrors atomic.Int64
		wg          sync.WaitGroup
	)
	for w := range numWriters {
		wg.Add(1)
		go func(writerID int) {
			defer wg.Done()
			// Tip and state carry the writer ID so a torn write is
			// detectable after the fact
			tip := []byte{byte(writerID), 0xA0}
			state := []byte{byte(writerID), 0xB0}
			if err := store.UpdateFarmerSingleton(
				farmer.LauncherID,
				tip,
				state,
				writerID%2 == 0,
				nil,
			); err != nil {
				writeErrors.Add(1)
				t.Logf("writer %d error: %v", writerID, err)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, int64(0), writeErrors.Load())

	got, err := store.GetFarmer(farmer.LauncherID, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.SingletonTip, 2)
	require.Len(t, got.SingletonTipState, 2)
	winner := int(got.SingletonTip[0])
	assert.Less(t, winner, numWriters)
	assert.Equal(
		t,
		byte(winner),
		got.SingletonTipState[0],
		"tip and tip state must come from the same writer",
	)
	assert.Equal(
		t,
		winner%2 == 0,
		got.IsPoolMember,
		"membership flag must come from the same writer",
	)
}

// TestConcurrentPartialAppends verifies that concurrent appends all land
// and reads during writes do not error.
func TestConcurrentPartialAppends(t *testing.T) {
	store := setupFileBasedStore(t)

	const (
		numWriters   = 4
		opsPerWriter = 25
	)
	launcherID := testLauncherID(0x02)

	var (
		writeErrors atomic.Int64
		readErrors  atomic.Int64
		wg          sync.WaitGroup
	)
	for w := range numWriters {
		wg.Add(1)
		go func(writerID int) {
			defer wg.Done()
			for i := range opsPerWriter {
				if err := store.AddPartial(
					launcherID,
					uint64(writerID*1000+i),
					1,
					nil,
				); err != nil {
					writeErrors.Add(1)
					t.Logf("writer %d op %d error: %v", writerID, i, err)
				}
			}
		}(w)
	}
	// Concurrent reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range numWriters * opsPerWriter {
			if _, err := store.GetRecentPartials(
				launcherID, 10, nil,
			); err != nil {
				readErrors.Add(1)
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, int64(0), writeErrors.Load())
	assert.Equal(t, int64(0), readErrors.Load())

	partials, err := store.GetRecentPartials(
		launcherID,
		numWriters*opsPerWriter+1,
		nil,
	)
	require.NoError(t, err)
	assert.Len(t, partials, numWriters*opsPerWriter)
}
