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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "POSTMETA_"

// LoadFile reads a config file with the parser matching its extension and
// overlays it onto the defaults. An empty path returns the defaults.
func LoadFile(ctx context.Context, path string) (*Options, error) {
	opts := Default()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(filepath.Base(path))
	if p == nil {
		return nil, errors.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}

	fileOpts, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config file %s: %w", path, err)
	}
	opts.Merge(fileOpts)

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loaded config file")
	return opts, nil
}

// LoadDotEnv loads the given dotenv files into the process environment,
// skipping files that do not exist. Existing variables win.
func LoadDotEnv(ctx context.Context, files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Errorf("checking env file: %w", err)
		}
		if err := godotenv.Load(file); err != nil {
			return errors.Errorf("loading env file %s: %w", file, err)
		}
		zerolog.Ctx(ctx).Debug().Str("path", file).Msg("loaded env file")
	}
	return nil
}

// EnvOptions reads POSTMETA_* variables through lookup. Empty variables are
// treated as unset.
func EnvOptions(lookup func(string) (string, bool)) (*Overlay, error) {
	o := &Overlay{}
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return v, ok && v != ""
	}

	str := map[string]**string{
		"COMPREHENSIVE_GENERATE_FILE_NAME": &o.ComprehensiveGenerateFileName,
		"COMPREHENSIVE_GENERATE_PATH":      &o.ComprehensiveGeneratePath,
		"COMPREHENSIVE_LOAD_FILE_NAME":     &o.ComprehensiveLoadFileName,
		"COMPREHENSIVE_LOAD_PATH":          &o.ComprehensiveLoadPath,
		"PAGE_GENERATE_PATH":               &o.PageGeneratePath,
		"POST_GENERATE_PATH":               &o.PostGeneratePath,
		"POST_LOAD_EXTENSION":              &o.PostLoadExtension,
		"POST_LOAD_PATH":                   &o.PostLoadPath,
		"ROOT_DIR":                         &o.RootDirectory,
		"LEDGER":                           &o.LedgerFileName,
		"METRICS_FILE":                     &o.MetricsFile,
	}
	for name, dst := range str {
		if v, ok := get(name); ok {
			*dst = &v
		}
	}

	boolean := map[string]**bool{
		"ASYNC":         &o.UseAsync,
		"POST_METADATA": &o.WritePostMetadata,
	}
	for name, dst := range boolean {
		v, ok := get(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Errorf("parsing %s%s: %w", EnvPrefix, name, err)
		}
		*dst = &b
	}

	if v, ok := get("TIMEOUT"); ok {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Errorf("parsing %sTIMEOUT: %w", EnvPrefix, err)
		}
		timeout := time.Duration(ms) * time.Millisecond
		o.Timeout = &timeout
	}

	if v, ok := get("IGNORE"); ok {
		o.IgnorePatterns = []string{}
		for _, pattern := range strings.Split(v, ",") {
			if pattern = strings.TrimSpace(pattern); pattern != "" {
				o.IgnorePatterns = append(o.IgnorePatterns, pattern)
			}
		}
	}

	return o, nil
}

// Load resolves options from defaults, the config file and the environment,
// in increasing precedence. Flags are overlaid by the caller.
func Load(ctx context.Context, configFile string, envFiles ...string) (*Options, error) {
	if err := LoadDotEnv(ctx, envFiles...); err != nil {
		return nil, err
	}

	opts, err := LoadFile(ctx, configFile)
	if err != nil {
		return nil, err
	}

	envOpts, err := EnvOptions(os.LookupEnv)
	if err != nil {
		return nil, errors.Errorf("reading environment: %w", err)
	}
	opts.Merge(envOpts)

	return opts, nil
}
