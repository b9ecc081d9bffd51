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

package models

// Partial is one accepted proof-of-space submission. Rows are append-only
// and never modified or deleted after insertion. The launcher ID is an
// advisory reference into the farmer table; it is not enforced.
type Partial struct {
	ID         uint   `gorm:"primarykey"`
	LauncherID []byte `gorm:"index;size:32"`
	Timestamp  uint64 `gorm:"index"`
	Difficulty uint64
}

func (Partial) TableName() string {
	return "partial"
}
