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

package metadata

import (
	"log/slog"

	"github.com/plotpool/plotpool/store/models"
	"github.com/plotpool/plotpool/store/plugin/metadata/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	Transaction() *gorm.DB

	// Farmer registry
	AddFarmer(
		*models.Farmer,
		*gorm.DB,
	) error
	GetFarmer(
		[]byte, // launcherID
		*gorm.DB,
	) (*models.Farmer, error)
	UpdateFarmerDifficulty(
		[]byte, // launcherID
		uint64, // difficulty
		*gorm.DB,
	) error
	UpdateFarmerSingleton(
		[]byte, // launcherID
		[]byte, // singletonTip
		[]byte, // singletonTipState
		bool, // isPoolMember
		*gorm.DB,
	) error
	GetPayToSingletonPuzzleHashes(*gorm.DB) ([][]byte, error)
	GetFarmersForPuzzleHashes(
		[][]byte, // puzzleHashes
		*gorm.DB,
	) ([]models.Farmer, error)
	ClearFarmerPoints(*gorm.DB) error

	// Partial ledger
	AddPartial(
		[]byte, // launcherID
		uint64, // timestamp
		uint64, // difficulty
		*gorm.DB,
	) error
	GetRecentPartials(
		[]byte, // launcherID
		int, // limit
		*gorm.DB,
	) ([]models.Partial, error)

	// Payout aggregation
	GetFarmerPointsAndPayoutInstructions(
		*gorm.DB,
	) ([]models.PayoutTarget, error)
}

// For now, this always returns a sqlite plugin
func New(
	pluginName, dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	return sqlite.New(dataDir, logger, promRegistry)
}
