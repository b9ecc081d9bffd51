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

// AddPartial appends one accepted partial to the ledger. The submission
// has already been verified by the front end; this layer only records it.
func (s *Store) AddPartial(
	launcherID []byte,
	timestamp uint64,
	difficulty uint64,
	txn *Txn,
) error {
	if len(launcherID) != models.LauncherIDSize {
		return models.ErrInvalidLauncherID
	}
	err := s.inWriteTxn(txn, func(txn *Txn) error {
		return s.metadata.AddPartial(
			launcherID,
			timestamp,
			difficulty,
			txn.Metadata(),
		)
	})
	if err != nil {
		return err
	}
	s.metrics.IncPartial()
	return nil
}

// GetRecentPartials returns up to limit partials for the given farmer,
// most recent first. This is the history the difficulty-adjustment logic
// in the front end consumes; the store only serves it.
func (s *Store) GetRecentPartials(
	launcherID []byte,
	limit int,
	txn *Txn,
) ([]models.Partial, error) {
	if limit <= 0 {
		return nil, nil
	}
	if txn == nil {
		txn = s.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return s.metadata.GetRecentPartials(launcherID, limit, txn.Metadata())
}
