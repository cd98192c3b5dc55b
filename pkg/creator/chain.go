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

// Package creator drives the stage chain that discovers, loads and
// deserializes everything a run reads before generation.
package creator

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/pkg/run"
)

// ErrNilCreator is returned when the chain reaches a stage that was never set
var ErrNilCreator = errors.Base("creator stage is nil")

// ⛓️ Chain advances through the stages of a run
type Chain interface {
	// Chain invokes the next stage with v; past the last stage it does nothing
	Chain(ctx context.Context, v any) error
	// Index is the number of stages invoked so far
	Index() int
	// Done reports whether every stage was invoked
	Done() bool
	// Async reports whether stages may fan out their I/O
	Async() bool
}

// 🔌 Creator is one stage. A stage continues the run by calling chain.Chain
// and short-circuits it by returning without doing so.
type Creator interface {
	Create(ctx context.Context, chain Chain, rc *run.Context, v any) error
}

// 🧭 cursor is the transition logic shared by both chains
type cursor struct {
	stages []Creator
	rc     *run.Context
	index  int
}

func (c *cursor) Index() int { return c.index }

func (c *cursor) Done() bool { return c.index >= len(c.stages) }

func (c *cursor) reset(rc *run.Context) {
	c.rc = rc
	c.index = 0
}

func (c *cursor) next(ctx context.Context, self Chain, v any) error {
	if c.Done() {
		return nil
	}
	idx := c.index
	stage := c.stages[idx]
	c.index++

	if stage == nil {
		return errors.Errorf("stage %d: %w", idx, ErrNilCreator)
	}

	zerolog.Ctx(ctx).Debug().Int("stage", idx).Str("creator", stageName(stage)).Msg("invoking stage")
	// stages wrap their own failures; errors from later stages pass through
	return stage.Create(ctx, self, c.rc, v)
}

// 🔄 SyncChain runs every stage and every load on the calling goroutine
type SyncChain struct {
	cursor
}

var _ Chain = (*SyncChain)(nil)

// 🏭 NewSync creates a synchronous chain
func NewSync(stages []Creator) *SyncChain {
	return &SyncChain{cursor: cursor{stages: stages}}
}

func (c *SyncChain) Chain(ctx context.Context, v any) error { return c.next(ctx, c, v) }

func (c *SyncChain) Async() bool { return false }

// Run resets the cursor and starts the chain
func (c *SyncChain) Run(ctx context.Context, rc *run.Context) error {
	c.reset(rc)
	return c.Chain(ctx, nil)
}

// ⚡ AsyncChain lets content stages load their files concurrently. The
// stage order itself stays sequential.
type AsyncChain struct {
	cursor
}

var _ Chain = (*AsyncChain)(nil)

// 🏭 NewAsync creates an asynchronous chain
func NewAsync(stages []Creator) *AsyncChain {
	return &AsyncChain{cursor: cursor{stages: stages}}
}

func (c *AsyncChain) Chain(ctx context.Context, v any) error { return c.next(ctx, c, v) }

func (c *AsyncChain) Async() bool { return true }

// Run resets the cursor and starts the chain
func (c *AsyncChain) Run(ctx context.Context, rc *run.Context) error {
	c.reset(rc)
	return c.Chain(ctx, nil)
}

// 🏃 Runner is a chain that can be started
type Runner interface {
	Chain
	Run(ctx context.Context, rc *run.Context) error
}

// 🎯 New picks the chain variant
func New(useAsync bool, stages []Creator) Runner {
	if useAsync {
		return NewAsync(stages)
	}
	return NewSync(stages)
}

func stageName(c Creator) string {
	switch c.(type) {
	case *ContextCreator:
		return "context"
	case *ContentCreator:
		return "content"
	case *ObjectCreator:
		return "object"
	default:
		return "custom"
	}
}
