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

import (
	"errors"
	"fmt"
)

// LauncherIDSize is the size in bytes of a farmer's launcher ID and of the
// p2 singleton puzzle hash derived from it.
const LauncherIDSize = 32

// ErrFarmerNotFound is returned when a farmer lookup matches no record
var ErrFarmerNotFound = errors.New("farmer not found")

// ErrInvalidDifficulty is returned when a zero difficulty is provided
var ErrInvalidDifficulty = errors.New("difficulty must be greater than zero")

// ErrInvalidLauncherID is returned when a launcher ID has the wrong length
var ErrInvalidLauncherID = errors.New("launcher ID must be 32 bytes")

// ErrInvalidPuzzleHash is returned when a puzzle hash has the wrong length
var ErrInvalidPuzzleHash = errors.New("puzzle hash must be 32 bytes")

// Farmer is the account record for one pool participant, keyed by the
// launcher ID of their on-chain singleton. The public key, singleton tip,
// and tip state are opaque serialized blobs; this layer stores and returns
// them verbatim and never interprets their contents.
type Farmer struct {
	ID                      uint   `gorm:"primarykey"`
	LauncherID              []byte `gorm:"uniqueIndex;size:32"`
	P2SingletonPuzzleHash   []byte `gorm:"index;size:32"`
	AuthenticationPublicKey []byte
	SingletonTip            []byte
	SingletonTipState       []byte
	Points                  uint64
	Difficulty              uint64
	PayoutInstructions      string `gorm:"index"`
	IsPoolMember            bool
}

func (Farmer) TableName() string {
	return "farmer"
}

// Validate checks the record's structural invariants. It does not verify
// keys or chain state; that belongs to the callers that produced them.
func (f *Farmer) Validate() error {
	if len(f.LauncherID) != LauncherIDSize {
		return fmt.Errorf(
			"%w: got %d bytes",
			ErrInvalidLauncherID,
			len(f.LauncherID),
		)
	}
	if len(f.P2SingletonPuzzleHash) != LauncherIDSize {
		return fmt.Errorf(
			"%w: got %d bytes",
			ErrInvalidPuzzleHash,
			len(f.P2SingletonPuzzleHash),
		)
	}
	if f.Difficulty == 0 {
		return ErrInvalidDifficulty
	}
	return nil
}

// PayoutTarget is one row of the payout aggregation: the total points
// accumulated by all farmers sharing a payout destination. The destination
// is grouped by its literal string value; it is opaque to this layer.
type PayoutTarget struct {
	PayoutInstructions string
	TotalPoints        uint64
}
