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

package commands

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/cmd/postmeta/opts"
	"github.com/walteh/postmeta/pkg/operation"
)

func NewWatchCmd(o *opts.RootOpts) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate metadata whenever a post source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			op, err := operation.New(operation.Options{Config: o.Config})
			if err != nil {
				return errors.Errorf("creating operator: %w", err)
			}

			logger := zerolog.Ctx(ctx)
			runner := operation.NewRunner(logger, true)
			generate := operation.GenerateOperation(op)

			if err := runner.Run(ctx, generate); err != nil {
				return errors.Errorf("initial run: %w", err)
			}

			dir := o.Config.Resolve(o.Config.PostLoadPath)
			w := operation.NewWatcher(dir, debounce, runner, generate)
			w.OnError = func(err error) {
				o.Console.Errorf("Regeneration failed: %v", err)
			}

			o.Console.Infof("Watching %s", dir)
			if err := w.Run(ctx); err != nil {
				return errors.Errorf("watching: %w", err)
			}
			o.Console.Info("Stopped watching")
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", operation.DefaultDebounce, "time to wait for more changes before regenerating")
	return cmd
}
