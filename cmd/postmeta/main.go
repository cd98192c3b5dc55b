// Copyright 2025 walteh LLC
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
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/postmeta/cmd/postmeta/commands"
	"github.com/walteh/postmeta/cmd/postmeta/opts"
	"github.com/walteh/postmeta/pkg/log"
)

func main() {
	ctx := context.Background()
	rootOpts := &opts.RootOpts{}

	if err := newRootCmd(rootOpts).ExecuteContext(ctx); err != nil {
		userLogger := rootOpts.UserLogger
		if userLogger == nil {
			userLogger = opts.NewUserLogger(ctx)
		}
		userLogger.LogFailure("Metadata generation failed", err)
		os.Exit(1)
	}
}

func newRootCmd(rootOpts *opts.RootOpts) *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "postmeta",
		Short: "Generate blog metadata from markdown posts",
		Long: `postmeta turns a folder of markdown posts into a linked metadata graph:
a paginated post index, per category listings and a comprehensive summary
consumed by a static blog front end.

Running postmeta without a command is the same as postmeta generate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			logger := *zerolog.DefaultContextLogger
			ctx := logger.WithContext(cmd.Context())
			cmd.SetContext(ctx)
			if cmd.Name() == "version" {
				return nil
			}
			if err := loadRootOpts(ctx, cmd, flags, rootOpts); err != nil {
				return err
			}
			cmd.SetContext(log.NewContext(ctx, rootOpts.Console))
			return nil
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunGenerate(cmd, rootOpts)
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewGenerateCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
		commands.NewWatchCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}
