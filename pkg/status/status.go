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
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the current state of a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File doesn't exist in destination
	StatusModified             // File exists but content differs
	StatusUnchanged            // File exists and content matches
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a written file
type FileInfo struct {
	Path     string     // Path as given to the manager
	Status   FileStatus // Status relative to what was on disk
	Size     int64      // Content size in bytes
	Checksum string     // Content hash for diff detection
	Error    error      // Any error associated with this file
}

// 💾 FileManager handles all file system writes of a run
type FileManager interface {
	WriteFile(ctx context.Context, path string, content []byte) (FileInfo, error)
	CopyFile(ctx context.Context, src, dst string) (FileInfo, error)
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, path string, info FileInfo)
	ListFiles(ctx context.Context) ([]FileInfo, error)

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter. In dry-run mode
// it computes every status but writes nothing.
type Manager struct {
	baseDir   string          // Base directory for relative paths
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages
	dryRun    bool

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 New creates a new status manager. Relative paths are anchored at
// baseDir; an empty baseDir leaves them as given.
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if baseDir != "" {
		baseDir = filepath.Clean(baseDir)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		baseDir:   baseDir,
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// SetDryRun toggles dry-run mode
func (m *Manager) SetDryRun(dryRun bool) *Manager {
	m.dryRun = dryRun
	return m
}

// DryRun reports whether writes are skipped
func (m *Manager) DryRun() bool {
	return m.dryRun
}

// 🔒 getAbsPath returns the absolute path for a given path
func (m *Manager) getAbsPath(path string) string {
	if m.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileManager interface implementation

// WriteFile writes content when it differs from what is on disk and tracks
// the outcome
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) (FileInfo, error) {
	absPath := m.getAbsPath(path)
	info := FileInfo{
		Path:     path,
		Size:     int64(len(content)),
		Checksum: Checksum(content),
	}

	existing, err := os.ReadFile(absPath)
	switch {
	case err == nil && bytes.Equal(existing, content):
		info.Status = StatusUnchanged
	case err == nil:
		info.Status = StatusModified
	case os.IsNotExist(err):
		info.Status = StatusNew
	default:
		info.Error = err
		m.TrackFile(ctx, path, info)
		return info, errors.Errorf("reading existing file: %w", err)
	}

	if info.Status != StatusUnchanged && !m.dryRun {
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			info.Error = err
			m.TrackFile(ctx, path, info)
			return info, errors.Errorf("creating parent directories: %w", err)
		}
		if err := m.writeFileAtomic(absPath, content); err != nil {
			info.Error = err
			m.TrackFile(ctx, path, info)
			return info, err
		}
	}

	m.TrackFile(ctx, path, info)
	return info, nil
}

func (m *Manager) writeFileAtomic(absPath string, content []byte) error {
	tempPath := absPath + ".tmp"

	// Write to temp file
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// CopyFile copies src to dst through WriteFile. Copying a file onto itself
// is tracked as unchanged.
func (m *Manager) CopyFile(ctx context.Context, src, dst string) (FileInfo, error) {
	content, err := os.ReadFile(m.getAbsPath(src))
	if err != nil {
		return FileInfo{Path: dst, Error: err}, errors.Errorf("reading source file: %w", err)
	}
	return m.WriteFile(ctx, dst, content)
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, path string, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = info
	msg := m.formatter.FormatFileOperation(info, m.dryRun)
	if info.Error != nil {
		msg = m.formatter.FormatError(path, info.Error)
	}
	m.logger.Debug().Str("path", path).Str("status", info.Status.String()).Bool("dry_run", m.dryRun).Msg(msg)
}

// ListFiles returns every tracked file ordered by path
func (m *Manager) ListFiles(ctx context.Context) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// 🧮 Summary counts tracked files per status
type Summary struct {
	New       int
	Modified  int
	Unchanged int
}

// Changed is the number of files that were or would be written
func (s Summary) Changed() int {
	return s.New + s.Modified
}

func (m *Manager) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s Summary
	for _, info := range m.files {
		switch info.Status {
		case StatusNew:
			s.New++
		case StatusModified:
			s.Modified++
		case StatusUnchanged:
			s.Unchanged++
		}
	}
	return s
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	msg := m.formatter.FormatProgress(0, total)
	m.logger.Debug().Int("total", total).Msg(msg)
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	msg := m.formatter.FormatProgress(processed, m.total)
	m.logger.Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(msg)
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.formatter.FormatProgress(m.total, m.total)
	m.logger.Debug().
		Int("processed", m.total).
		Int("total", m.total).
		Msg(msg)
}
