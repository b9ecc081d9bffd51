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
	"fmt"

	"github.com/plotpool/plotpool/store/models"
	"gorm.io/gorm"
)

// AddPartial appends one accepted partial to the ledger. Entries are
// immutable once inserted.
func (d *AccountingStoreSqlite) AddPartial(
	launcherID []byte,
	timestamp uint64,
	difficulty uint64,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}

	partial := models.Partial{
		LauncherID: launcherID,
		Timestamp:  timestamp,
		Difficulty: difficulty,
	}
	result := db.Create(&partial)
	if result.Error != nil {
		return fmt.Errorf("failed to add partial: %w", result.Error)
	}
	return nil
}

// GetRecentPartials returns up to limit partials for the given farmer,
// most recent first. Equal timestamps are broken by insertion order so a
// query execution is deterministic. A non-positive limit yields an empty
// result.
func (d *AccountingStoreSqlite) GetRecentPartials(
	launcherID []byte,
	limit int,
	txn *gorm.DB,
) ([]models.Partial, error) {
	if limit <= 0 {
		return nil, nil
	}
	if txn == nil {
		txn = d.DB()
	}

	var ret []models.Partial
	result := txn.
		Where("launcher_id = ?", launcherID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
