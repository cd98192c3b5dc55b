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

package operation

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/pkg/config"
	"github.com/walteh/postmeta/pkg/creator"
	"github.com/walteh/postmeta/pkg/discovery"
	"github.com/walteh/postmeta/pkg/generate"
	"github.com/walteh/postmeta/pkg/loader"
	"github.com/walteh/postmeta/pkg/log"
	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/process"
	"github.com/walteh/postmeta/pkg/run"
	"github.com/walteh/postmeta/pkg/serialize"
	"github.com/walteh/postmeta/pkg/state"
	"github.com/walteh/postmeta/pkg/status"
)

type Operator interface {
	// Generate publishes new posts and rewrites the metadata files
	Generate(ctx context.Context) (*Result, error)
	// Status performs a dry run and reports what Generate would write
	Status(ctx context.Context) (*Result, error)
}

type Options struct {
	// Config is the resolved run configuration
	Config *config.Options
}

// 📋 Result describes a finished run
type Result struct {
	DryRun        bool
	Posts         int // new posts published
	Pages         int // new pages opened
	Files         []status.FileInfo
	Summary       status.Summary
	Comprehensive *model.Comprehensive
	Duration      time.Duration
}

// Changed reports whether the run wrote (or would write) anything
func (r *Result) Changed() bool {
	return r.Summary.Changed() > 0
}

func New(opts Options) (Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return &operator{
		config: opts.Config,
	}, nil
}

type operator struct {
	config *config.Options
}

func (o *operator) Generate(ctx context.Context) (*Result, error) {
	return o.execute(ctx, false)
}

func (o *operator) Status(ctx context.Context) (*Result, error) {
	return o.execute(ctx, true)
}

// execute runs the pipeline. The user facing report goes to the console
// carried by ctx, if any.
func (o *operator) execute(ctx context.Context, dryRun bool) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)
	start := time.Now()
	opts := o.config

	ledger, err := state.Load(ctx, opts.LedgerFile())
	if err != nil {
		return nil, errors.Errorf("loading ledger: %w", err)
	}

	rc := run.New(opts, ledger)
	stages := creator.Stages(
		discovery.Pre(),
		discovery.Post(),
		loader.Select(opts.UseAsync, opts.Timeout),
		serialize.Default(),
		process.Default(),
	)
	if err := creator.New(opts.UseAsync, stages).Run(ctx, rc); err != nil {
		return nil, errors.Errorf("creating run context: %w", err)
	}
	logger.Debug().
		Int("posts", len(rc.Posts)).
		Bool("comprehensive", rc.Comprehensive != nil).
		Bool("page", rc.Page != nil).
		Bool("post", rc.Post != nil).
		Msg("run context created")

	o.startRun(ctx, console, rc, dryRun)

	if err := generate.GenerateContents(ctx, rc, generate.Contents()); err != nil {
		return nil, errors.Errorf("generating contents: %w", err)
	}

	mgr := status.New("", logger).SetDryRun(dryRun)
	if err := generate.GenerateFiles(ctx, rc, mgr, generate.Files()); err != nil {
		o.report(ctx, console, mgr)
		return nil, errors.Errorf("generating files: %w", err)
	}

	if !dryRun {
		if err := ledger.Save(ctx); err != nil {
			return nil, errors.Errorf("saving ledger: %w", err)
		}
	}

	files, err := mgr.ListFiles(ctx)
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}

	res := &Result{
		DryRun:        dryRun,
		Posts:         len(rc.Posts),
		Pages:         len(rc.Pages),
		Files:         files,
		Summary:       mgr.Summary(),
		Comprehensive: rc.Comprehensive,
		Duration:      time.Since(start),
	}

	o.report(ctx, console, mgr)
	endRun(ctx, console, res)

	if !dryRun && opts.MetricsFile != "" {
		if err := WriteMetrics(opts.Resolve(opts.MetricsFile), res); err != nil {
			return nil, errors.Errorf("writing metrics: %w", err)
		}
		logger.Debug().Str("path", opts.MetricsFile).Msg("wrote metrics")
	}

	return res, nil
}

func (o *operator) startRun(ctx context.Context, console *log.Logger, rc *run.Context, dryRun bool) {
	if console == nil {
		return
	}
	op := log.RunOperation{
		Root:    o.config.RootDirectory,
		Sources: len(rc.Posts),
		DryRun:  dryRun,
	}
	if op.Root == "" {
		op.Root = "."
	}
	if rc.Post != nil {
		op.Previous = rc.Post.FullPath()
	}
	console.StartRun(ctx, op)
}

func (o *operator) report(ctx context.Context, console *log.Logger, mgr *status.Manager) {
	if console == nil {
		return
	}
	files, err := mgr.ListFiles(ctx)
	if err != nil {
		return
	}
	for _, info := range files {
		console.LogFileOperation(ctx, log.FileOperation{
			Path:       o.config.Relative(info.Path),
			Kind:       FileKind(o.config, info.Path),
			Status:     statusText(info, mgr.DryRun()),
			IsNew:      info.Status == status.StatusNew,
			IsModified: info.Status == status.StatusModified,
			IsFailed:   info.Error != nil,
		})
	}
}

func endRun(ctx context.Context, console *log.Logger, res *Result) {
	if console == nil {
		return
	}
	console.EndRun(ctx, log.RunSummary{
		Posts:     res.Posts,
		Pages:     res.Pages,
		Written:   res.Summary.Changed(),
		Unchanged: res.Summary.Unchanged,
	})
}

// FileKind names the metadata kind of a path written by a run
func FileKind(opts *config.Options, path string) string {
	switch {
	case path == opts.ComprehensiveGenerateFile():
		return "comprehensive"
	case strings.HasSuffix(path, model.PageExtension) &&
		filepath.Dir(path) == filepath.Clean(opts.Resolve(opts.PageGeneratePath)):
		return "page"
	case strings.HasSuffix(path, generate.MetadataExtension):
		return "metadata"
	default:
		return "post"
	}
}

func statusText(info status.FileInfo, dryRun bool) string {
	if info.Error != nil {
		return "failed"
	}
	if dryRun && info.Status != status.StatusUnchanged {
		return "pending"
	}
	return info.Status.String()
}
