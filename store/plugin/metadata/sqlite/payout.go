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
	"github.com/plotpool/plotpool/store/models"
	"gorm.io/gorm"
)

// GetFarmerPointsAndPayoutInstructions sums points per distinct payout
// destination across all farmers. Destinations are grouped by their
// literal string value; farmers with zero points still contribute a row
// for their destination.
func (d *AccountingStoreSqlite) GetFarmerPointsAndPayoutInstructions(
	txn *gorm.DB,
) ([]models.PayoutTarget, error) {
	if txn == nil {
		txn = d.DB()
	}

	var ret []models.PayoutTarget
	result := txn.Model(&models.Farmer{}).
		Select("payout_instructions, SUM(points) AS total_points").
		Group("payout_instructions").
		Scan(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
