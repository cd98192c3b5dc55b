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

// Package config resolves the options bag of a generation run from defaults,
// a config file, the environment and command line flags.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ Defaults
const (
	DefaultComprehensiveFileName = "comprehensive.json"
	DefaultPostLoadExtension     = ".generate.md"
	DefaultTimeout               = 5000 * time.Millisecond
	DefaultLedgerFileName        = ".postmeta.lock"
)

// 🔧 Options is the resolved settings of one run
type Options struct {
	ComprehensiveGenerateFileName string
	ComprehensiveGeneratePath     string
	ComprehensiveLoadFileName     string
	ComprehensiveLoadPath         string
	PageGeneratePath              string
	PostGeneratePath              string
	PostLoadExtension             string
	PostLoadPath                  string
	RootDirectory                 string
	Timeout                       time.Duration
	UseAsync                      bool

	IgnorePatterns    []string
	WritePostMetadata bool
	LedgerFileName    string
	MetricsFile       string
}

// 🏭 Default returns the options every source overlays
func Default() *Options {
	return &Options{
		ComprehensiveGenerateFileName: DefaultComprehensiveFileName,
		ComprehensiveLoadFileName:     DefaultComprehensiveFileName,
		PostLoadExtension:             DefaultPostLoadExtension,
		Timeout:                       DefaultTimeout,
		LedgerFileName:                DefaultLedgerFileName,
	}
}

// ✅ Validate checks that a run can be performed with these options
func (o *Options) Validate() error {
	if strings.TrimSpace(o.PostLoadPath) == "" {
		return errors.New("post load path is required")
	}
	if strings.TrimSpace(o.PostGeneratePath) == "" {
		return errors.New("post generate path is required")
	}
	if strings.TrimSpace(o.PageGeneratePath) == "" {
		return errors.New("page generate path is required")
	}
	if strings.TrimSpace(o.ComprehensiveGenerateFileName) == "" {
		return errors.New("comprehensive generate file name is required")
	}
	if strings.TrimSpace(o.PostLoadExtension) == "" {
		return errors.New("post load extension is required")
	}
	if o.Timeout < 0 {
		return errors.Errorf("timeout must not be negative: %s", o.Timeout)
	}
	if o.UseAsync && o.Timeout == 0 {
		return errors.New("async loading requires a positive timeout")
	}
	for _, pattern := range o.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return nil
}

// Resolve anchors a configured path at the root directory. Absolute paths
// and the empty path are returned unchanged.
func (o *Options) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || o.RootDirectory == "" {
		return path
	}
	return filepath.Join(o.RootDirectory, path)
}

// Relative turns a resolved path back into one relative to the root
// directory, leaving paths outside it untouched
func (o *Options) Relative(path string) string {
	if o.RootDirectory == "" || path == "" {
		return path
	}
	root, err := filepath.Abs(o.RootDirectory)
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// Folder is the form a folder takes inside references: cleaned, and relative
// to the root directory when it lies inside it
func (o *Options) Folder(path string) string {
	return filepath.Clean(o.Relative(o.Resolve(path)))
}

// ComprehensiveLoadFile is the resolved path of the persisted comprehensive,
// or the empty path when no load path is configured
func (o *Options) ComprehensiveLoadFile() string {
	if o.ComprehensiveLoadPath == "" || o.ComprehensiveLoadFileName == "" {
		return ""
	}
	return o.Resolve(filepath.Join(o.ComprehensiveLoadPath, o.ComprehensiveLoadFileName))
}

// ComprehensiveGenerateFile is the resolved output path of the comprehensive
func (o *Options) ComprehensiveGenerateFile() string {
	return o.Resolve(filepath.Join(o.ComprehensiveGeneratePath, o.ComprehensiveGenerateFileName))
}

// LedgerFile is the resolved path of the publish ledger, empty when disabled
func (o *Options) LedgerFile() string {
	if o.LedgerFileName == "" {
		return ""
	}
	return o.Resolve(o.LedgerFileName)
}

// 🧩 Overlay is the part of the options one source sets. Nil fields were not
// set by that source and keep the value of lower precedence sources.
type Overlay struct {
	ComprehensiveGenerateFileName *string
	ComprehensiveGeneratePath     *string
	ComprehensiveLoadFileName     *string
	ComprehensiveLoadPath         *string
	PageGeneratePath              *string
	PostGeneratePath              *string
	PostLoadExtension             *string
	PostLoadPath                  *string
	RootDirectory                 *string
	Timeout                       *time.Duration
	UseAsync                      *bool

	IgnorePatterns    []string
	WritePostMetadata *bool
	LedgerFileName    *string
	MetricsFile       *string
}

// Merge overlays every field other sets onto o
func (o *Options) Merge(other *Overlay) {
	if other == nil {
		return
	}
	overlay(&o.ComprehensiveGenerateFileName, other.ComprehensiveGenerateFileName)
	overlay(&o.ComprehensiveGeneratePath, other.ComprehensiveGeneratePath)
	overlay(&o.ComprehensiveLoadFileName, other.ComprehensiveLoadFileName)
	overlay(&o.ComprehensiveLoadPath, other.ComprehensiveLoadPath)
	overlay(&o.PageGeneratePath, other.PageGeneratePath)
	overlay(&o.PostGeneratePath, other.PostGeneratePath)
	overlay(&o.PostLoadExtension, other.PostLoadExtension)
	overlay(&o.PostLoadPath, other.PostLoadPath)
	overlay(&o.RootDirectory, other.RootDirectory)
	overlay(&o.Timeout, other.Timeout)
	overlay(&o.UseAsync, other.UseAsync)
	overlay(&o.WritePostMetadata, other.WritePostMetadata)
	overlay(&o.LedgerFileName, other.LedgerFileName)
	overlay(&o.MetricsFile, other.MetricsFile)
	if other.IgnorePatterns != nil {
		o.IgnorePatterns = append([]string(nil), other.IgnorePatterns...)
	}
}

func overlay[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
