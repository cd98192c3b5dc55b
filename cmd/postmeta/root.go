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

package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/cmd/postmeta/opts"
	"github.com/walteh/postmeta/pkg/config"
	"github.com/walteh/postmeta/pkg/log"
)

var (
	// Flags
	configFile string
	debug      bool
	envFile    string
)

// 🚩 runFlags mirror config.Options on the command line
type runFlags struct {
	comprehensiveGenerateFileName string
	comprehensiveGeneratePath     string
	comprehensiveLoadFileName     string
	comprehensiveLoadPath         string
	pageGeneratePath              string
	postGeneratePath              string
	postLoadExtension             string
	postLoadPath                  string
	rootDirectory                 string
	timeout                       int
	useAsync                      bool
	ignorePatterns                []string
	writePostMetadata             bool
	ledgerFileName                string
	metricsFile                   string
}

func addRootFlags(cmd *cobra.Command, f *runFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "config file path (.yaml, .json or .hcl)")
	pf.BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading POSTMETA_* variables")

	pf.StringVar(&f.comprehensiveGenerateFileName, "cgf", config.DefaultComprehensiveFileName, "comprehensive generate file name")
	pf.StringVar(&f.comprehensiveGeneratePath, "cgp", "", "comprehensive generate path")
	pf.StringVar(&f.comprehensiveLoadFileName, "clf", config.DefaultComprehensiveFileName, "comprehensive load file name")
	pf.StringVar(&f.comprehensiveLoadPath, "clp", "", "comprehensive load path")
	pf.StringVar(&f.pageGeneratePath, "pagp", "", "page generate path")
	pf.StringVar(&f.postGeneratePath, "pogp", "", "post generate path")
	pf.StringVar(&f.postLoadExtension, "pole", config.DefaultPostLoadExtension, "post load extension")
	pf.StringVar(&f.postLoadPath, "polp", "", "post load path")
	pf.StringVar(&f.rootDirectory, "root-dir", "", "root directory every path is resolved against")
	pf.IntVar(&f.timeout, "timeout", int(config.DefaultTimeout/time.Millisecond), "load timeout in milliseconds")
	pf.BoolVar(&f.useAsync, "async", false, "load files concurrently")
	pf.StringSliceVar(&f.ignorePatterns, "ignore", nil, "glob patterns of sources to skip")
	pf.BoolVar(&f.writePostMetadata, "post-metadata", false, "write a JSON sidecar next to every post")
	pf.StringVar(&f.ledgerFileName, "ledger", config.DefaultLedgerFileName, "publish ledger file, empty to disable")
	pf.StringVar(&f.metricsFile, "metrics-file", "", "prometheus textfile written after each run")
}

// apply overlays the flags the user set onto o
func (f *runFlags) apply(cmd *cobra.Command, o *config.Options) {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		if fl == nil {
			fl = cmd.PersistentFlags().Lookup(name)
		}
		return fl != nil && fl.Changed
	}

	str := map[string]struct {
		dst *string
		src string
	}{
		"cgf":          {&o.ComprehensiveGenerateFileName, f.comprehensiveGenerateFileName},
		"cgp":          {&o.ComprehensiveGeneratePath, f.comprehensiveGeneratePath},
		"clf":          {&o.ComprehensiveLoadFileName, f.comprehensiveLoadFileName},
		"clp":          {&o.ComprehensiveLoadPath, f.comprehensiveLoadPath},
		"pagp":         {&o.PageGeneratePath, f.pageGeneratePath},
		"pogp":         {&o.PostGeneratePath, f.postGeneratePath},
		"pole":         {&o.PostLoadExtension, f.postLoadExtension},
		"polp":         {&o.PostLoadPath, f.postLoadPath},
		"root-dir":     {&o.RootDirectory, f.rootDirectory},
		"ledger":       {&o.LedgerFileName, f.ledgerFileName},
		"metrics-file": {&o.MetricsFile, f.metricsFile},
	}
	for name, v := range str {
		if changed(name) {
			*v.dst = v.src
		}
	}

	if changed("timeout") {
		o.Timeout = time.Duration(f.timeout) * time.Millisecond
	}
	if changed("async") {
		o.UseAsync = f.useAsync
	}
	if changed("ignore") {
		o.IgnorePatterns = append([]string(nil), f.ignorePatterns...)
	}
	if changed("post-metadata") {
		o.WritePostMetadata = f.writePostMetadata
	}
}

// loadRootOpts resolves the configuration once flags are parsed
func loadRootOpts(ctx context.Context, cmd *cobra.Command, f *runFlags, into *opts.RootOpts) error {
	cfg, err := config.Load(ctx, configFile, envFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	f.apply(cmd, cfg)

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	into.Config = cfg
	into.Console = log.New(os.Stdout, level)
	into.UserLogger = opts.NewUserLogger(ctx)
	return nil
}

func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}
