// Copyright 2025 Inkline Labs
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
	"fmt"
	"log/slog"
	"os"

	"github.com/inkline-labs/quill/internal/config"
	"github.com/spf13/cobra"
)

func verifyRun(_ *cobra.Command, args []string, cfg *config.Config) {
	logger := commonRun()

	attributionHash := args[0]
	content, err := os.ReadFile(args[1])
	if err != nil {
		slog.Error(fmt.Sprintf("failed to read content file: %s", err))
		os.Exit(1)
	}

	engine, err := buildEngine(cfg, logger, nil)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	stopEngine := func() {
		if err := engine.Stop(); err != nil {
			logger.Error("shutdown errors occurred", "error", err)
		}
	}

	valid, err := engine.VerifyAttribution(attributionHash, string(content))
	if err != nil {
		slog.Error(err.Error())
		stopEngine()
		os.Exit(1)
	}
	stopEngine()
	if !valid {
		fmt.Println("attribution: INVALID")
		os.Exit(1)
	}
	fmt.Println("attribution: VALID")
}

func verifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <attribution-hash> <content-file>",
		Short: "Verify an attribution hash against content",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			verifyRun(cmd, args, cfg)
		},
	}
	return cmd
}
