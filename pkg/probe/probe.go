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

// Package probe turns filesystem paths into immutable descriptors
package probe

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// EmptyPath marks "nothing to load" for a factory result
const EmptyPath = ""

// UnknownContentType is reported when the extension is not recognised
const UnknownContentType = "unknown"

// IsEmpty reports whether the path is the empty marker
func IsEmpty(path string) bool {
	return strings.TrimSpace(path) == EmptyPath
}

// 🔐 Grant holds the independently probed access bits of a path
type Grant struct {
	Readable   bool
	Writable   bool
	Executable bool
}

// 📄 FileDescriptor describes a single file
type FileDescriptor struct {
	ContentType   string
	DirectoryPath string
	Extension     string
	FullPath      string
	Grant         Grant
	Name          string
	Size          int64
}

// 📁 DirectoryDescriptor describes a directory and its regular files
type DirectoryDescriptor struct {
	FileNames []string
	FileCount int
	Grant     Grant
	Name      string
	Path      string
	Size      int64
}

// 🔍 FileProbe builds file descriptors
type FileProbe struct{}

// Supports reports whether the path exists
func (FileProbe) Supports(path string) bool {
	if IsEmpty(path) {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Load stats the file and probes its grant
func (FileProbe) Load(ctx context.Context, path string) (FileDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileDescriptor{}, errors.Errorf("stating file: %w", err)
	}
	if info.IsDir() {
		return FileDescriptor{}, errors.Errorf("path is a directory: %s", path)
	}

	grant := probeGrant(path)
	size := info.Size()
	if !grant.Readable {
		size = -1
	}

	desc := FileDescriptor{
		ContentType:   contentType(path),
		DirectoryPath: filepath.Dir(path),
		Extension:     filepath.Ext(path),
		FullPath:      path,
		Grant:         grant,
		Name:          filepath.Base(path),
		Size:          size,
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("content_type", desc.ContentType).
		Int64("size", desc.Size).
		Bool("readable", grant.Readable).
		Bool("writable", grant.Writable).
		Msg("probed file")

	return desc, nil
}

// 🔍 DirectoryProbe builds directory descriptors
type DirectoryProbe struct{}

// Supports reports whether the path exists and is a directory
func (DirectoryProbe) Supports(path string) bool {
	if IsEmpty(path) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Load lists the regular files of the directory in name order
func (DirectoryProbe) Load(ctx context.Context, path string) (DirectoryDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DirectoryDescriptor{}, errors.Errorf("stating directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return DirectoryDescriptor{}, errors.Errorf("reading directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("files", len(names)).
		Msg("probed directory")

	return DirectoryDescriptor{
		FileNames: names,
		FileCount: len(names),
		Grant:     probeGrant(path),
		Name:      filepath.Base(path),
		Path:      path,
		Size:      info.Size(),
	}, nil
}

var contentTypeOverrides = map[string]string{
	".md":       "text/markdown; charset=utf-8",
	".markdown": "text/markdown; charset=utf-8",
	".json":     "application/json",
	".yaml":     "application/yaml",
	".yml":      "application/yaml",
}

func contentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return UnknownContentType
	}
	if t, ok := contentTypeOverrides[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return UnknownContentType
}
