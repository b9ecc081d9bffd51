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
	"errors"
	"fmt"

	"github.com/plotpool/plotpool/store/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddFarmer inserts a farmer record, or fully replaces the existing record
// with the same launcher ID. Replacement is intentional upsert semantics
// for the registration path; no error is raised for a duplicate key.
func (d *AccountingStoreSqlite) AddFarmer(
	farmer *models.Farmer,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}

	if err := farmer.Validate(); err != nil {
		return err
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "launcher_id"}},
		UpdateAll: true,
	}).Create(farmer)
	if result.Error != nil {
		return fmt.Errorf("failed to add farmer: %w", result.Error)
	}
	return nil
}

// GetFarmer gets a farmer record by launcher ID. Returns nil without error
// when no record exists; the caller decides whether that is an error.
func (d *AccountingStoreSqlite) GetFarmer(
	launcherID []byte,
	txn *gorm.DB,
) (*models.Farmer, error) {
	ret := &models.Farmer{}
	if txn == nil {
		txn = d.DB()
	}

	result := txn.Where("launcher_id = ?", launcherID).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// UpdateFarmerDifficulty updates only the difficulty field of a farmer
// record. A zero difficulty is rejected. An unknown launcher ID affects
// zero rows and is not an error.
func (d *AccountingStoreSqlite) UpdateFarmerDifficulty(
	launcherID []byte,
	difficulty uint64,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}

	if difficulty == 0 {
		return models.ErrInvalidDifficulty
	}

	result := db.Model(&models.Farmer{}).
		Where("launcher_id = ?", launcherID).
		Update("difficulty", difficulty)
	if result.Error != nil {
		return fmt.Errorf("failed to update difficulty: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		d.logger.Debug(
			"difficulty update matched no farmer",
			"component", "database",
			"launcher_id", fmt.Sprintf("%x", launcherID),
		)
	}
	return nil
}

// UpdateFarmerSingleton replaces the singleton tip, tip state, and pool
// membership flag in a single statement. The three fields describe one
// on-chain state transition and must never be observed partially applied.
func (d *AccountingStoreSqlite) UpdateFarmerSingleton(
	launcherID []byte,
	singletonTip []byte,
	singletonTipState []byte,
	isPoolMember bool,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}

	result := db.Model(&models.Farmer{}).
		Where("launcher_id = ?", launcherID).
		Updates(map[string]any{
			"singleton_tip":       singletonTip,
			"singleton_tip_state": singletonTipState,
			"is_pool_member":      isPoolMember,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update singleton: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		d.logger.Debug(
			"singleton update matched no farmer",
			"component", "database",
			"launcher_id", fmt.Sprintf("%x", launcherID),
		)
	}
	return nil
}

// GetPayToSingletonPuzzleHashes returns the distinct p2 singleton puzzle
// hashes across all farmers. Used by the chain watcher to know which
// addresses to monitor.
func (d *AccountingStoreSqlite) GetPayToSingletonPuzzleHashes(
	txn *gorm.DB,
) ([][]byte, error) {
	if txn == nil {
		txn = d.DB()
	}

	var ret [][]byte
	result := txn.Model(&models.Farmer{}).
		Distinct().
		Pluck("p2_singleton_puzzle_hash", &ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetFarmersForPuzzleHashes returns every farmer whose p2 singleton puzzle
// hash is in the given set. An empty input yields an empty result without
// executing a query, so the caller never gets a match-everything scan.
func (d *AccountingStoreSqlite) GetFarmersForPuzzleHashes(
	puzzleHashes [][]byte,
	txn *gorm.DB,
) ([]models.Farmer, error) {
	if len(puzzleHashes) == 0 {
		return nil, nil
	}
	if txn == nil {
		txn = d.DB()
	}

	var ret []models.Farmer
	result := txn.
		Where("p2_singleton_puzzle_hash IN ?", puzzleHashes).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// ClearFarmerPoints resets every farmer's points to zero in one statement.
// Intended to run immediately after a payout round commits.
func (d *AccountingStoreSqlite) ClearFarmerPoints(txn *gorm.DB) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}

	result := db.Exec("UPDATE farmer SET points = 0")
	if result.Error != nil {
		return fmt.Errorf("failed to clear points: %w", result.Error)
	}
	return nil
}
