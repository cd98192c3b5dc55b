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

// Package loader reads probed files into memory
package loader

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/pkg/probe"
)

// 📦 FileObject is the loaded content of a file and where it came from
type FileObject struct {
	Descriptor probe.FileDescriptor
	Content    []byte
}

// Text returns the content as a string
func (f *FileObject) Text() string {
	return string(f.Content)
}

// 🔌 Loader reads a described file
type Loader interface {
	// Supports reports whether the descriptor may be loaded
	Supports(desc probe.FileDescriptor) bool
	// Load reads the file
	Load(ctx context.Context, desc probe.FileDescriptor) (*FileObject, error)
}

// ⏱️ LoadTimeoutError is returned when a read does not finish in time
type LoadTimeoutError struct {
	Path    string
	Timeout time.Duration
}

// Seconds renders the timeout in seconds with no trailing zeros
func (e *LoadTimeoutError) Seconds() string {
	return strconv.FormatFloat(float64(e.Timeout.Milliseconds())/1000, 'f', -1, 64)
}

func (e *LoadTimeoutError) Error() string {
	return fmt.Sprintf("loading %s was cancelled because it did not finish within %s seconds", e.Path, e.Seconds())
}

func supportsRead(desc probe.FileDescriptor) bool {
	return desc.DirectoryPath != "" &&
		desc.Name != "" &&
		desc.Size > 0 &&
		desc.Grant.Readable &&
		desc.Grant.Writable
}

func readFile(desc probe.FileDescriptor) (*FileObject, error) {
	content, err := os.ReadFile(desc.FullPath)
	if err != nil {
		return nil, errors.Errorf("reading file %s: %w", desc.FullPath, err)
	}
	return &FileObject{Descriptor: desc, Content: content}, nil
}

// 🔄 SyncLoader reads files on the calling goroutine
type SyncLoader struct{}

var _ Loader = SyncLoader{}

func (SyncLoader) Supports(desc probe.FileDescriptor) bool {
	return supportsRead(desc)
}

func (SyncLoader) Load(ctx context.Context, desc probe.FileDescriptor) (*FileObject, error) {
	zerolog.Ctx(ctx).Debug().Str("path", desc.FullPath).Msg("loading file")
	return readFile(desc)
}

// ⚡ AsyncLoader races each read against a timeout
type AsyncLoader struct {
	Timeout time.Duration

	read func(probe.FileDescriptor) (*FileObject, error)
}

var _ Loader = AsyncLoader{}

// 🏭 NewAsyncLoader creates an async loader with the given timeout
func NewAsyncLoader(timeout time.Duration) AsyncLoader {
	return AsyncLoader{Timeout: timeout}
}

func (l AsyncLoader) Supports(desc probe.FileDescriptor) bool {
	return l.Timeout > 0 && supportsRead(desc)
}

type loadResult struct {
	obj *FileObject
	err error
}

// Load returns the first of the read result, the timeout or ctx cancellation.
// A read that loses the race is abandoned, not interrupted.
func (l AsyncLoader) Load(ctx context.Context, desc probe.FileDescriptor) (*FileObject, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("path", desc.FullPath).
		Dur("timeout", l.Timeout).
		Msg("loading file asynchronously")

	read := l.read
	if read == nil {
		read = readFile
	}

	resultCh := make(chan loadResult, 1)
	go func() {
		obj, err := read(desc)
		resultCh <- loadResult{obj: obj, err: err}
	}()

	timer := time.NewTimer(l.Timeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		return res.obj, res.err
	case <-timer.C:
		logger.Debug().Str("path", desc.FullPath).Msg("load timed out")
		return nil, &LoadTimeoutError{Path: desc.FullPath, Timeout: l.Timeout}
	case <-ctx.Done():
		return nil, errors.Errorf("loading cancelled: %w", ctx.Err())
	}
}

// 🎯 Select picks the loader for a run
func Select(useAsync bool, timeout time.Duration) Loader {
	if useAsync {
		return NewAsyncLoader(timeout)
	}
	return SyncLoader{}
}
