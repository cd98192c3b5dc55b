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
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/cmd/postmeta/opts"
	"github.com/walteh/postmeta/pkg/operation"
)

func NewGenerateCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Publish new posts and rewrite the blog metadata",
		Long: `Generate folds every new markdown source into the blog metadata.
It will:
1. Load the comprehensive, the open page and the newest post
2. Publish new sources under time ordered names
3. Link posts and pages and update the category index
4. Write the comprehensive, the pages and the posts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunGenerate(cmd, o)
		},
	}
}

// RunGenerate is shared with the root command
func RunGenerate(cmd *cobra.Command, o *opts.RootOpts) error {
	op, err := operation.New(operation.Options{Config: o.Config})
	if err != nil {
		return errors.Errorf("creating operator: %w", err)
	}

	o.Console.Header("generating metadata")
	res, err := op.Generate(cmd.Context())
	if err != nil {
		return errors.Errorf("generating: %w", err)
	}

	o.Console.Success("Metadata generation completed")
	if !res.Changed() {
		o.Console.Info("Metadata was already up to date")
	}
	return nil
}
