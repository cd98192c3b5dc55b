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
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/cmd/postmeta/opts"
	"github.com/walteh/postmeta/pkg/operation"
	"github.com/walteh/postmeta/pkg/status"
)

func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what generate would write",
		Long: `Status performs a dry run of generate.
Nothing is written and the publish ledger is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := operation.New(operation.Options{Config: o.Config})
			if err != nil {
				return errors.Errorf("creating operator: %w", err)
			}

			res, err := op.Status(cmd.Context())
			if err != nil {
				return errors.Errorf("checking status: %w", err)
			}

			if err := pterm.DefaultTable.WithHasHeader().WithData(statusTable(o, res)).Render(); err != nil {
				return errors.Errorf("rendering status: %w", err)
			}

			if res.Changed() {
				o.Console.Warning(fmt.Sprintf("%d new posts, %d new pages, %d files to write",
					res.Posts, res.Pages, res.Summary.Changed()))
			} else {
				o.Console.Success("Metadata is up to date")
			}
			return nil
		},
	}
}

func statusTable(o *opts.RootOpts, res *operation.Result) pterm.TableData {
	data := pterm.TableData{{"File", "Kind", "Status"}}
	for _, info := range res.Files {
		state := info.Status.String()
		if info.Status != status.StatusUnchanged {
			state = "pending " + state
		}
		data = append(data, []string{
			o.Config.Relative(info.Path),
			operation.FileKind(o.Config, info.Path),
			state,
		})
	}
	return data
}
