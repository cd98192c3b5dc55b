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

package config

import (
	"context"
	"strings"
	"time"
	"unicode"

	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config file parsers
type Parser interface {
	// 📝 Parse parses the options found in the file
	Parse(ctx context.Context, data []byte) (*Overlay, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📄 fileOptions is the on-disk schema shared by every format. Every field
// is optional; unset fields keep the value from lower precedence sources.
type fileOptions struct {
	ComprehensiveGenerateFileName *string  `json:"comprehensive_generate_file_name" yaml:"comprehensive_generate_file_name" hcl:"comprehensive_generate_file_name,optional"`
	ComprehensiveGeneratePath     *string  `json:"comprehensive_generate_path" yaml:"comprehensive_generate_path" hcl:"comprehensive_generate_path,optional"`
	ComprehensiveLoadFileName     *string  `json:"comprehensive_load_file_name" yaml:"comprehensive_load_file_name" hcl:"comprehensive_load_file_name,optional"`
	ComprehensiveLoadPath         *string  `json:"comprehensive_load_path" yaml:"comprehensive_load_path" hcl:"comprehensive_load_path,optional"`
	PageGeneratePath              *string  `json:"page_generate_path" yaml:"page_generate_path" hcl:"page_generate_path,optional"`
	PostGeneratePath              *string  `json:"post_generate_path" yaml:"post_generate_path" hcl:"post_generate_path,optional"`
	PostLoadExtension             *string  `json:"post_load_extension" yaml:"post_load_extension" hcl:"post_load_extension,optional"`
	PostLoadPath                  *string  `json:"post_load_path" yaml:"post_load_path" hcl:"post_load_path,optional"`
	RootDirectory                 *string  `json:"root_directory" yaml:"root_directory" hcl:"root_directory,optional"`
	Timeout                       *int     `json:"timeout" yaml:"timeout" hcl:"timeout,optional"`
	UseAsync                      *bool    `json:"async" yaml:"async" hcl:"async,optional"`
	IgnorePatterns                []string `json:"ignore_patterns" yaml:"ignore_patterns" hcl:"ignore_patterns,optional"`
	WritePostMetadata             *bool    `json:"post_metadata" yaml:"post_metadata" hcl:"post_metadata,optional"`
	LedgerFileName                *string  `json:"ledger" yaml:"ledger" hcl:"ledger,optional"`
	MetricsFile                   *string  `json:"metrics_file" yaml:"metrics_file" hcl:"metrics_file,optional"`
}

// overlay converts the file schema; timeout is given in milliseconds
func (f *fileOptions) overlay() *Overlay {
	o := &Overlay{
		ComprehensiveGenerateFileName: f.ComprehensiveGenerateFileName,
		ComprehensiveGeneratePath:     f.ComprehensiveGeneratePath,
		ComprehensiveLoadFileName:     f.ComprehensiveLoadFileName,
		ComprehensiveLoadPath:         f.ComprehensiveLoadPath,
		PageGeneratePath:              f.PageGeneratePath,
		PostGeneratePath:              f.PostGeneratePath,
		PostLoadExtension:             f.PostLoadExtension,
		PostLoadPath:                  f.PostLoadPath,
		RootDirectory:                 f.RootDirectory,
		UseAsync:                      f.UseAsync,
		IgnorePatterns:                f.IgnorePatterns,
		WritePostMetadata:             f.WritePostMetadata,
		LedgerFileName:                f.LedgerFileName,
		MetricsFile:                   f.MetricsFile,
	}
	if f.Timeout != nil {
		timeout := time.Duration(*f.Timeout) * time.Millisecond
		o.Timeout = &timeout
	}
	return o
}

// keyAliases maps option names that do not follow from the file keys
var keyAliases = map[string]string{
	"use_async":           "async",
	"write_post_metadata": "post_metadata",
	"ledger_file_name":    "ledger",
}

// canonicalKey accepts both the snake_case file keys and the camelCase
// option names (pageGeneratePath, useAsync, ...)
func canonicalKey(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	key := b.String()
	if alias, ok := keyAliases[key]; ok {
		return alias
	}
	return key
}

// canonicalKeys returns the canonical form of every key, failing when two
// spellings of the same option are given
func canonicalKeys(keys []string) ([]string, error) {
	out := make([]string, len(keys))
	seen := make(map[string]string, len(keys))
	for i, key := range keys {
		canonical := canonicalKey(key)
		if first, ok := seen[canonical]; ok {
			return nil, errors.Errorf("option %q given twice (%q and %q)", canonical, first, key)
		}
		seen[canonical] = key
		out[i] = canonical
	}
	return out, nil
}
