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

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is how long a burst of changes is collected before a run
const DefaultDebounce = 500 * time.Millisecond

// 👀 Watcher re-runs an operation whenever the watched directory changes
type Watcher struct {
	dir      string
	debounce time.Duration
	runner   *OperationRunner
	op       Operation

	// OnError receives failed runs; the watcher keeps going
	OnError func(err error)
}

func NewWatcher(dir string, debounce time.Duration, runner *OperationRunner, op Operation) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		runner:   runner,
		op:       op,
	}
}

// Run blocks until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return errors.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Debug().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Debug().Err(err).Msg("watcher error")
		case <-timer.C:
			if err := w.runner.Run(ctx, w.op); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Debug().Err(err).Msg("run failed")
				if w.OnError != nil {
					w.OnError(err)
				}
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	return !strings.HasSuffix(name, ".tmp") && !strings.HasPrefix(name, ".")
}
