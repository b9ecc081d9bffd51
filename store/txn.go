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
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// Txn wraps a metadata store transaction. A read-write Txn additionally
// owns the store-wide write lock from creation until it finishes, so at
// most one mutating transaction is in flight at a time. Do not nest
// read-write Txns; the second would deadlock on the write lock.
type Txn struct {
	db          *Store
	metadataTxn *gorm.DB
	lock        sync.Mutex
	finished    bool
	readWrite   bool
}

func NewTxn(db *Store, readWrite bool) *Txn {
	if readWrite {
		db.writeLock.Lock()
	}
	t := &Txn{db: db, readWrite: readWrite}
	t.metadataTxn = db.Metadata().Transaction()
	return t
}

func (t *Txn) DB() *Store {
	return t.db
}

// Metadata returns the underlying metadata transaction handle
func (t *Txn) Metadata() *gorm.DB {
	return t.metadataTxn
}

// Do executes the specified function in the context of the transaction. Any errors returned will result
// in the transaction being rolled back
func (t *Txn) Do(fn func(*Txn) error) error {
	if err := fn(t); err != nil {
		if err2 := t.Rollback(); err2 != nil {
			return fmt.Errorf(
				"rollback failed: %w: original error: %w",
				err2,
				err,
			)
		}
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (t *Txn) Commit() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return nil
	}
	// No need to commit for read-only, but we do want to free up resources
	if !t.readWrite {
		return t.rollback()
	}
	if err := t.metadataTxn.Commit().Error; err != nil {
		// Most DB engines auto-rollback on commit failure
		_ = t.metadataTxn.Rollback()
		t.finish()
		return fmt.Errorf("metadata commit failed: %w", err)
	}
	t.finish()
	return nil
}

func (t *Txn) Rollback() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.rollback()
}

func (t *Txn) rollback() error {
	if t.finished {
		return nil
	}
	err := t.metadataTxn.Rollback().Error
	t.finish()
	if err != nil {
		return fmt.Errorf("metadata rollback: %w", err)
	}
	return nil
}

// finish marks the transaction complete and releases the write lock for
// read-write transactions. Callers must hold t.lock.
func (t *Txn) finish() {
	t.finished = true
	if t.readWrite {
		t.db.writeLock.Unlock()
	}
}

// Release releases transaction resources. For read-only transactions, this
// releases locks and resources. For read-write transactions, this is equivalent
// to Rollback. Use this in defer statements for clean resource cleanup.
// Errors are logged but not returned, making this safe for deferred calls.
func (t *Txn) Release() {
	if err := t.Rollback(); err != nil {
		t.db.logger.Debug(
			"transaction release failed",
			"error", err,
			"read_write", t.readWrite,
		)
	}
}
