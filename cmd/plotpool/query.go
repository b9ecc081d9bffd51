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

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/plotpool/plotpool/internal/config"
	"github.com/plotpool/plotpool/store"
	"github.com/plotpool/plotpool/store/models"
	"github.com/spf13/cobra"
)

// openStore opens the accounting store at the configured database path.
// The returned store is read by the query subcommands only; the pool
// coordinator process owns all writes.
func openStore(cmd *cobra.Command, logger *slog.Logger) (*store.Store, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, errors.New("no config found in context")
	}
	return store.New(&store.Config{
		Logger:  logger,
		DataDir: cfg.DatabasePath,
	})
}

func decodeLauncherID(arg string) ([]byte, error) {
	launcherID, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid launcher ID: %w", err)
	}
	if len(launcherID) != models.LauncherIDSize {
		return nil, models.ErrInvalidLauncherID
	}
	return launcherID, nil
}

func farmerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "farmer <launcher-id>",
		Short: "Show the account record for one farmer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			launcherID, err := decodeLauncherID(args[0])
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			db, err := openStore(cmd, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer db.Close() //nolint:errcheck
			farmer, err := db.GetFarmer(launcherID, nil)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("launcher_id:              %x\n", farmer.LauncherID)
			fmt.Printf("p2_singleton_puzzle_hash: %x\n", farmer.P2SingletonPuzzleHash)
			fmt.Printf("points:                   %d\n", farmer.Points)
			fmt.Printf("difficulty:               %d\n", farmer.Difficulty)
			fmt.Printf("payout_instructions:      %s\n", farmer.PayoutInstructions)
			fmt.Printf("is_pool_member:           %t\n", farmer.IsPoolMember)
		},
	}
}

func puzzleHashesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "puzzle-hashes",
		Short: "List the distinct p2 singleton puzzle hashes being monitored",
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			db, err := openStore(cmd, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer db.Close() //nolint:errcheck
			hashes, err := db.GetPayToSingletonPuzzleHashes(nil)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			for _, ph := range hashes {
				fmt.Printf("%x\n", ph)
			}
		},
	}
}

func partialsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "partials <launcher-id>",
		Short: "Show the most recent partials for one farmer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			launcherID, err := decodeLauncherID(args[0])
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			db, err := openStore(cmd, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer db.Close() //nolint:errcheck
			partials, err := db.GetRecentPartials(launcherID, limit, nil)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			for _, p := range partials {
				fmt.Printf(
					"timestamp=%d difficulty=%d\n",
					p.Timestamp,
					p.Difficulty,
				)
			}
		},
	}
	cmd.Flags().
		IntVar(&limit, "limit", 50, "maximum number of partials to show")
	return cmd
}

func payoutsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "payouts",
		Short: "Show accumulated points per payout destination",
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			db, err := openStore(cmd, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer db.Close() //nolint:errcheck
			targets, err := db.GetFarmerPointsAndPayoutInstructions(nil)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			for _, target := range targets {
				fmt.Printf(
					"%s %d\n",
					target.PayoutInstructions,
					target.TotalPoints,
				)
			}
		},
	}
}
