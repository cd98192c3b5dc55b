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

// Package generate folds the posts discovered by a run into the persistent
// index and writes the resulting metadata files.
package generate

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/run"
	"github.com/walteh/postmeta/pkg/status"
)

// ContentGenerator mutates the run context in memory
type ContentGenerator interface {
	Generate(ctx context.Context, rc *run.Context) error
}

// FileGenerator writes part of the run context through a file manager
type FileGenerator interface {
	Generate(ctx context.Context, rc *run.Context, fm status.FileManager) error
}

// 🏭 Contents returns the content generators in run order. The page
// generator needs the linked posts and the comprehensive generator folds the
// pages it creates.
func Contents() []ContentGenerator {
	return []ContentGenerator{
		PostContentGenerator{},
		PageContentGenerator{},
		ComprehensiveContentGenerator{},
	}
}

// 🏭 Files returns the file generators in write order
func Files() []FileGenerator {
	return []FileGenerator{
		ComprehensiveFileGenerator{},
		PageFileGenerator{},
		PostFileGenerator{},
	}
}

// GenerateContents runs every content generator in order
func GenerateContents(ctx context.Context, rc *run.Context, generators []ContentGenerator) error {
	for _, g := range generators {
		if err := g.Generate(ctx, rc); err != nil {
			return err
		}
	}
	event := zerolog.Ctx(ctx).Debug().
		Int("posts", len(rc.Posts)).
		Int("pages", len(rc.Pages))
	if rc.Comprehensive != nil {
		event = event.Strs("categories", rc.Comprehensive.CategoryNames())
	}
	event.Msg("generated contents")
	return nil
}

// GenerateFiles runs every file generator in order. Writes are atomic per
// file only; a failure leaves earlier files in place.
func GenerateFiles(ctx context.Context, rc *run.Context, fm status.FileManager, generators []FileGenerator) error {
	reporter, _ := fm.(status.StatusReporter)
	if reporter != nil {
		reporter.StartOperation(ctx, len(generators))
	}
	for i, g := range generators {
		if err := g.Generate(ctx, rc, fm); err != nil {
			return err
		}
		if reporter != nil {
			reporter.UpdateProgress(ctx, i+1)
		}
	}
	if reporter != nil {
		reporter.FinishOperation(ctx)
	}
	return nil
}

// SortNewestFirst orders a batch by write date, newest first. Posts written
// at the same time are ordered by source name, last name first.
func SortNewestFirst(posts []*model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].WriteDateTime != posts[j].WriteDateTime {
			return posts[i].WriteDateTime > posts[j].WriteDateTime
		}
		return posts[i].OriginalFileName > posts[j].OriginalFileName
	})
}
