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

// AddFarmer inserts or fully replaces a farmer record. This is the
// registration path: all fields are supplied and any existing record with
// the same launcher ID is replaced wholesale. Later state changes go
// through the partial-update operations so a stale full-record write
// cannot clobber accumulated points or difficulty.
func (s *Store) AddFarmer(farmer *models.Farmer, txn *Txn) error {
	err := s.inWriteTxn(txn, func(txn *Txn) error {
		return s.metadata.AddFarmer(farmer, txn.Metadata())
	})
	if err != nil {
		return err
	}
	s.metrics.IncFarmerUpsert()
	return nil
}

// GetFarmer returns the farmer record for the given launcher ID, or
// models.ErrFarmerNotFound when no such farmer is registered.
func (s *Store) GetFarmer(
	launcherID []byte,
	txn *Txn,
) (*models.Farmer, error) {
	if txn == nil {
		txn = s.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	ret, err := s.metadata.GetFarmer(launcherID, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrFarmerNotFound
	}
	return ret, nil
}

// UpdateFarmerDifficulty updates only the difficulty field of the farmer
// record. Zero difficulty is rejected; an unknown launcher ID is a no-op.
func (s *Store) UpdateFarmerDifficulty(
	launcherID []byte,
	difficulty uint64,
	txn *Txn,
) error {
	if len(launcherID) != models.LauncherIDSize {
		return models.ErrInvalidLauncherID
	}
	if difficulty == 0 {
		return models.ErrInvalidDifficulty
	}
	err := s.inWriteTxn(txn, func(txn *Txn) error {
		return s.metadata.UpdateFarmerDifficulty(
			launcherID,
			difficulty,
			txn.Metadata(),
		)
	})
	if err != nil {
		return err
	}
	s.metrics.IncDifficultyUpdate()
	return nil
}

// UpdateFarmerSingleton atomically replaces the farmer's singleton tip,
// tip state, and pool membership flag. The triple describes one on-chain
// state transition; a concurrent reader sees either all three old values
// or all three new ones.
func (s *Store) UpdateFarmerSingleton(
	launcherID []byte,
	singletonTip []byte,
	singletonTipState []byte,
	isPoolMember bool,
	txn *Txn,
) error {
	if len(launcherID) != models.LauncherIDSize {
		return models.ErrInvalidLauncherID
	}
	err := s.inWriteTxn(txn, func(txn *Txn) error {
		return s.metadata.UpdateFarmerSingleton(
			launcherID,
			singletonTip,
			singletonTipState,
			isPoolMember,
			txn.Metadata(),
		)
	})
	if err != nil {
		return err
	}
	s.metrics.IncSingletonUpdate()
	return nil
}

// GetPayToSingletonPuzzleHashes returns the distinct set of p2 singleton
// puzzle hashes across all farmers, for the chain watcher.
func (s *Store) GetPayToSingletonPuzzleHashes(txn *Txn) ([][]byte, error) {
	if txn == nil {
		txn = s.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return s.metadata.GetPayToSingletonPuzzleHashes(txn.Metadata())
}

// GetFarmersForPuzzleHashes returns every farmer whose p2 singleton puzzle
// hash is in the given set. An empty set yields an empty result.
func (s *Store) GetFarmersForPuzzleHashes(
	puzzleHashes [][]byte,
	txn *Txn,
) ([]models.Farmer, error) {
	if len(puzzleHashes) == 0 {
		return nil, nil
	}
	if txn == nil {
		txn = s.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return s.metadata.GetFarmersForPuzzleHashes(puzzleHashes, txn.Metadata())
}
