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

// Package model holds the blog metadata graph: the comprehensive summary,
// categories, pages and posts. Entities reference each other only through
// FileRef values so persisted JSON never nests a full entity.
package model

import (
	"path/filepath"
)

// 🏷️ Kind discriminates deserialized entities
type Kind int

const (
	KindUnknown Kind = iota
	KindComprehensive
	KindPage
	KindPost
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindComprehensive:
		return "comprehensive"
	case KindPage:
		return "page"
	case KindPost:
		return "post"
	default:
		return "unknown"
	}
}

// 🧩 Entity is implemented by every classified metadata record
type Entity interface {
	Kind() Kind
}

// 📎 FileRef is the minimal pointer from one entity to another
type FileRef struct {
	FileName   string `json:"fileName"`
	FolderPath string `json:"folderPath"`
	FullPath   string `json:"fullPath"`
}

// 🏭 NewFileRef creates a reference with a derived full path
func NewFileRef(fileName, folderPath string) *FileRef {
	return &FileRef{
		FileName:   fileName,
		FolderPath: folderPath,
		FullPath:   filepath.Join(folderPath, fileName),
	}
}

// Same reports whether both references point at the same file name
func (r *FileRef) Same(other *FileRef) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.FileName == other.FileName
}

// Addressable is anything that can hand out a reference to itself
type Addressable interface {
	Ref() *FileRef
}
