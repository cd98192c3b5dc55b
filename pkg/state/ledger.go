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

// Package state keeps the publish ledger: which markdown sources were
// already turned into posts, under which name and with which content.
package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// SchemaVersion of the ledger file
const SchemaVersion = "1.0.0"

// 📒 Entry is one published source
type Entry struct {
	Source      string    `json:"source"`
	FileName    string    `json:"file_name"`
	Checksum    string    `json:"checksum"`
	PublishedAt time.Time `json:"published_at"`
}

type ledgerFile struct {
	SchemaVersion string    `json:"schema_version"`
	LastUpdated   time.Time `json:"last_updated"`
	Entries       []Entry   `json:"entries"`
}

// 📒 Ledger tracks published sources. A ledger without a path is kept in
// memory only.
type Ledger struct {
	path string

	mu      sync.RWMutex
	entries map[string]Entry
	dirty   bool
}

// 🏭 New creates an empty ledger stored at path
func New(path string) *Ledger {
	return &Ledger{
		path:    path,
		entries: make(map[string]Entry),
	}
}

// Load reads the ledger at path. A missing file yields an empty ledger.
func Load(ctx context.Context, path string) (*Ledger, error) {
	l := New(path)
	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no ledger yet")
			return l, nil
		}
		return nil, errors.Errorf("reading ledger: %w", err)
	}

	var file ledgerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Errorf("parsing ledger %s: %w", path, err)
	}
	if file.SchemaVersion != "" && file.SchemaVersion != SchemaVersion {
		return nil, errors.Errorf("unsupported ledger schema version %q", file.SchemaVersion)
	}

	for _, e := range file.Entries {
		l.entries[e.Source] = e
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("entries", len(l.entries)).Msg("loaded ledger")
	return l, nil
}

// Path of the ledger file
func (l *Ledger) Path() string {
	return l.path
}

// Len is the number of published sources
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Lookup returns the entry of a source
func (l *Ledger) Lookup(source string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[source]
	return e, ok
}

// IsPublished reports whether source was published with the same content
func (l *Ledger) IsPublished(source, checksum string) bool {
	e, ok := l.Lookup(source)
	return ok && e.Checksum == checksum
}

// Record marks source as published under fileName
func (l *Ledger) Record(source, fileName, checksum string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[source] = Entry{
		Source:      source,
		FileName:    fileName,
		Checksum:    checksum,
		PublishedAt: time.Now().UTC(),
	}
	l.dirty = true
}

// Entries returns every entry sorted by source
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// Save writes the ledger atomically when it changed since it was loaded
func (l *Ledger) Save(ctx context.Context) error {
	if l.path == "" {
		return nil
	}

	l.mu.RLock()
	dirty := l.dirty
	l.mu.RUnlock()
	if !dirty {
		zerolog.Ctx(ctx).Debug().Str("path", l.path).Msg("ledger unchanged, skipping save")
		return nil
	}

	data, err := json.MarshalIndent(ledgerFile{
		SchemaVersion: SchemaVersion,
		LastUpdated:   time.Now().UTC(),
		Entries:       l.Entries(),
	}, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return errors.Errorf("creating ledger directory: %w", err)
	}

	tempPath := l.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp ledger: %w", err)
	}
	if err := os.Rename(tempPath, l.path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp ledger: %w", err)
	}

	l.mu.Lock()
	l.dirty = false
	l.mu.Unlock()

	zerolog.Ctx(ctx).Debug().Str("path", l.path).Int("entries", l.Len()).Msg("saved ledger")
	return nil
}
