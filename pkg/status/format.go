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

package status

import (
	"fmt"
)

// FileFormatter defines how tracked writes and progress are worded
type FileFormatter interface {
	// FormatFileOperation formats the outcome of one write
	FormatFileOperation(info FileInfo, dryRun bool) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats a failed write
	FormatError(path string, err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a write with emojis; dry runs use the
// conditional mood
func (f *DefaultFileFormatter) FormatFileOperation(info FileInfo, dryRun bool) string {
	verb := map[FileStatus][2]string{
		StatusNew:       {"✨ Created", "✨ Would create"},
		StatusModified:  {"📝 Modified", "📝 Would modify"},
		StatusUnchanged: {"👍 Unchanged", "👍 Unchanged"},
	}[info.Status]
	if verb[0] == "" {
		return fmt.Sprintf("❔ Unknown %s", info.Path)
	}
	if dryRun {
		return fmt.Sprintf("%s %s", verb[1], info.Path)
	}
	return fmt.Sprintf("%s %s", verb[0], info.Path)
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats a failed write with emoji
func (f *DefaultFileFormatter) FormatError(path string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Failed %s: %v", path, err)
}
