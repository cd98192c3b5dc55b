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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Operation is a unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// OperationFunc adapts a function to Operation
type OperationFunc func(ctx context.Context) error

func (f OperationFunc) Execute(ctx context.Context) error { return f(ctx) }

// GenerateOperation wraps Operator.Generate for the runner
func GenerateOperation(op Operator) Operation {
	return OperationFunc(func(ctx context.Context) error {
		_, err := op.Generate(ctx)
		return err
	})
}

// 🏃 OperationRunner executes operations, optionally detached so that a
// cancelled context returns without waiting for the work to finish
type OperationRunner struct {
	logger *zerolog.Logger
	async  bool
}

func NewRunner(logger *zerolog.Logger, async bool) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
		async:  async,
	}
}

func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	if r.async {
		return r.runAsync(ctx, op)
	}
	return r.runSync(ctx, op)
}

func (r *OperationRunner) runSync(ctx context.Context, op Operation) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation cancelled: %w", err)
	}
	return op.Execute(ctx)
}

func (r *OperationRunner) runAsync(ctx context.Context, op Operation) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- op.Execute(ctx)
	}()

	select {
	case <-ctx.Done():
		r.logger.Debug().Msg("operation abandoned")
		return errors.Errorf("operation cancelled: %w", ctx.Err())
	case err := <-errCh:
		if err != nil {
			return errors.Errorf("executing operation: %w", err)
		}
		return nil
	}
}
