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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:   "comprehensive.json",
					Kind:   "comprehensive",
					Status: "new",
					IsNew:  true,
				})
			},
			wantLogs: []string{
				"✓ comprehensive.json" + strings.Repeat(" ", 33) + "comprehensive" + strings.Repeat(" ", 3) + "new",
			},
		},
		{
			name: "log_run",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), RunOperation{
					Root:    "/tmp/blog",
					Sources: 3,
				})
				logger.EndRun(context.Background(), RunSummary{Posts: 3, Pages: 1, Written: 5})
			},
			wantLogs: []string{
				"[generating /tmp/blog]",
				"◆ 3 new sources • fresh corpus",
				"◆ 3 posts • 1 pages • 5 written • 0 unchanged",
			},
		},
		{
			name: "log_dry_run_with_continuation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), RunOperation{
					Root:     "/tmp/blog",
					Sources:  1,
					DryRun:   true,
					Previous: "post/a.md",
				})
			},
			wantLogs: []string{
				"[checking /tmp/blog]",
				"◆ 1 new sources • post/a.md",
			},
		},
		{
			name: "end_without_run",
			op: func(t *testing.T, logger *Logger) {
				logger.EndRun(context.Background(), RunSummary{})
				logger.Info("done")
			},
			wantLogs: []string{
				"ℹ️  done",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Errorf("error %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"❌ error test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("generating metadata")
			},
			wantLogs: []string{
				"postmeta • generating metadata",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Disabled)
	ctx := NewContext(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")
	assert.Nil(t, FromContext(context.Background()), "missing logger should be nil")
}

func TestFileOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name       string
		op         FileOperation
		wantSymbol string
	}{
		{name: "new_page", op: FileOperation{Path: "page/a.page.json", Kind: "page", Status: "new", IsNew: true}, wantSymbol: "✓"},
		{name: "modified_comprehensive", op: FileOperation{Path: "comprehensive.json", Kind: "comprehensive", Status: "modified", IsModified: true}, wantSymbol: "⟳"},
		{name: "failed_post", op: FileOperation{Path: "post/a.md", Kind: "post", Status: "failed", IsFailed: true, IsNew: true}, wantSymbol: "✗"},
		{name: "unchanged_metadata", op: FileOperation{Path: "post/a.md.json", Kind: "metadata", Status: "unchanged"}, wantSymbol: "•"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(io.Discard, zerolog.Disabled)
			got := logger.formatFileOperation(tt.op)

			assert.True(t, strings.HasPrefix(got, "    "+tt.wantSymbol+" "), "line should start with the status symbol")
			fields := strings.Fields(got)
			require.Len(t, fields, 4, "line should hold symbol, path, kind and status")
			assert.Equal(t, []string{tt.op.Path, tt.op.Kind, tt.op.Status}, fields[1:], "columns should match")
			assert.Len(t, []rune(got), fileIndent+1+1+nameWidth+1+kindWidth+1+statusWidth, "columns should be padded")
		})
	}
}
