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
	"github.com/plotpool/plotpool/store/models"
)

// GetFarmerPointsAndPayoutInstructions returns the total points per
// distinct payout destination across all farmers. Destinations with zero
// accumulated points are included; zero is a valid total.
func (s *Store) GetFarmerPointsAndPayoutInstructions(
	txn *Txn,
) ([]models.PayoutTarget, error) {
	if txn == nil {
		txn = s.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return s.metadata.GetFarmerPointsAndPayoutInstructions(txn.Metadata())
}

// ClearFarmerPoints resets every farmer's points to zero in one
// transaction. Intended to run immediately after a payout round commits.
func (s *Store) ClearFarmerPoints(txn *Txn) error {
	err := s.inWriteTxn(txn, func(txn *Txn) error {
		return s.metadata.ClearFarmerPoints(txn.Metadata())
	})
	if err != nil {
		return err
	}
	s.metrics.IncPointsReset()
	return nil
}

// PayoutCycle runs one payout round: it aggregates points per payout
// destination, hands the totals to fn, and resets all points, all inside
// a single read-write transaction. No points submitted concurrently are
// lost or double-counted: a partial accepted during the cycle commits
// either before the aggregation or after the reset. If fn returns an
// error the reset is rolled back and no points are cleared.
func (s *Store) PayoutCycle(
	fn func(targets []models.PayoutTarget) error,
) error {
	err := s.Transaction(true).Do(func(txn *Txn) error {
		targets, err := s.metadata.GetFarmerPointsAndPayoutInstructions(
			txn.Metadata(),
		)
		if err != nil {
			return err
		}
		if err := fn(targets); err != nil {
			return err
		}
		return s.metadata.ClearFarmerPoints(txn.Metadata())
	})
	if err != nil {
		return err
	}
	s.metrics.IncPointsReset()
	return nil
}
