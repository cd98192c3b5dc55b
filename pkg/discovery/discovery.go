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

// Package discovery finds the files a run has to read: the persisted
// comprehensive, the markdown corpus and the open page and post.
package discovery

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/probe"
	"github.com/walteh/postmeta/pkg/run"
	"github.com/walteh/postmeta/pkg/state"
	"github.com/walteh/postmeta/pkg/status"
)

// 🔌 Factory resolves the paths a context stage should probe
type Factory interface {
	// Name identifies the factory in logs
	Name() string
	// Resolve returns resolved paths; empty paths are dropped by the caller
	Resolve(ctx context.Context, rc *run.Context) ([]string, error)
}

// 🏭 Pre returns the factories of the first context stage
func Pre() []Factory {
	return []Factory{ComprehensiveFactory{}, MarkdownFactory{}, PageFactory{}}
}

// 🏭 Post returns the factories of the second context stage, run once the
// comprehensive is known
func Post() []Factory {
	return []Factory{PageFactory{}, PostFactory{}}
}

// 📚 ComprehensiveFactory points at the persisted comprehensive
type ComprehensiveFactory struct{}

func (ComprehensiveFactory) Name() string { return "comprehensive" }

func (ComprehensiveFactory) Resolve(ctx context.Context, rc *run.Context) ([]string, error) {
	return single(rc.Options.ComprehensiveLoadFile()), nil
}

// 📄 PageFactory points at the comprehensive's latest page
type PageFactory struct{}

func (PageFactory) Name() string { return "page" }

func (PageFactory) Resolve(ctx context.Context, rc *run.Context) ([]string, error) {
	if rc.Comprehensive == nil {
		return nil, nil
	}
	return latest(rc, rc.Comprehensive.LatestPage), nil
}

// 📝 PostFactory points at the comprehensive's latest post
type PostFactory struct{}

func (PostFactory) Name() string { return "post" }

func (PostFactory) Resolve(ctx context.Context, rc *run.Context) ([]string, error) {
	if rc.Comprehensive == nil {
		return nil, nil
	}
	return latest(rc, rc.Comprehensive.LatestPost), nil
}

func latest(rc *run.Context, ref *model.FileRef) []string {
	if ref == nil {
		return nil
	}
	full := ref.FullPath
	if full == "" {
		full = filepath.Join(ref.FolderPath, ref.FileName)
	}
	return single(rc.Options.Resolve(full))
}

func single(p string) []string {
	if probe.IsEmpty(p) {
		return nil
	}
	return []string{p}
}

// ✍️ MarkdownFactory lists the unpublished markdown sources
type MarkdownFactory struct{}

func (MarkdownFactory) Name() string { return "markdown" }

func (MarkdownFactory) Resolve(ctx context.Context, rc *run.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	opts := rc.Options

	dir := opts.Resolve(opts.PostLoadPath)
	dp := probe.DirectoryProbe{}
	if !dp.Supports(dir) {
		logger.Debug().Str("path", dir).Msg("post load path missing, nothing to discover")
		return nil, nil
	}

	desc, err := dp.Load(ctx, dir)
	if err != nil {
		return nil, errors.Errorf("listing posts: %w", err)
	}

	var out []string
	for _, name := range desc.FileNames {
		if !strings.HasSuffix(name, opts.PostLoadExtension) {
			continue
		}
		if ignored(opts.IgnorePatterns, opts.PostLoadPath, name) {
			logger.Debug().Str("name", name).Msg("ignored")
			continue
		}

		full := filepath.Join(dir, name)
		published, err := isPublished(rc.Ledger, opts.Relative(full), full)
		if err != nil {
			return nil, err
		}
		if published {
			logger.Debug().Str("name", name).Msg("already published")
			continue
		}
		out = append(out, full)
	}

	logger.Debug().Str("path", dir).Int("count", len(out)).Msg("discovered markdown sources")
	return out, nil
}

// ignored matches a pattern against the bare name and the slash path under
// the post load path
func ignored(patterns []string, loadPath, name string) bool {
	rel := path.Join(filepath.ToSlash(loadPath), name)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isPublished(ledger *state.Ledger, source, full string) (bool, error) {
	if ledger == nil || ledger.Len() == 0 {
		return false, nil
	}
	if _, ok := ledger.Lookup(source); !ok {
		return false, nil
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return false, errors.Errorf("reading %s for checksum: %w", full, err)
	}
	return ledger.IsPublished(source, status.Checksum(content)), nil
}
