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

package model

import (
	"encoding/json"
	"path/filepath"
)

// 🖼️ Thumbnail describes a post's preview image
type Thumbnail struct {
	AlternativeFileName string
	ExplanatoryText     string
	FileName            string
	FolderPath          string
}

// FullPath joins the folder and file name
func (t Thumbnail) FullPath() string {
	if t.FolderPath == "" && t.FileName == "" {
		return ""
	}
	return filepath.Join(t.FolderPath, t.FileName)
}

type thumbnailJSON struct {
	AlternativeFileName string `json:"alternativeFileName"`
	ExplanatoryText     string `json:"explanatoryText"`
	FileName            string `json:"fileName"`
	FolderPath          string `json:"folderPath"`
	FullPath            string `json:"fullPath,omitempty"`
}

func (t Thumbnail) MarshalJSON() ([]byte, error) {
	return json.Marshal(thumbnailJSON{
		AlternativeFileName: t.AlternativeFileName,
		ExplanatoryText:     t.ExplanatoryText,
		FileName:            t.FileName,
		FolderPath:          t.FolderPath,
		FullPath:            t.FullPath(),
	})
}

func (t *Thumbnail) UnmarshalJSON(data []byte) error {
	var raw thumbnailJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.AlternativeFileName = raw.AlternativeFileName
	t.ExplanatoryText = raw.ExplanatoryText
	t.FileName = raw.FileName
	t.FolderPath = raw.FolderPath
	return nil
}

// MetadataExtension is appended to a published post's path for its JSON sidecar
const MetadataExtension = ".json"

// 📝 Post is one article's metadata, chained to its neighbours
type Post struct {
	FileName         string
	OriginalFileName string
	// OriginalFolderPath is where the source was read from; never persisted
	OriginalFolderPath string
	FolderPath         string
	Categories         []string
	Summation          string
	Thumbnail          Thumbnail
	Title              string
	WriteDateTime      string
	PreviousPost       *FileRef
	NextPost           *FileRef
}

var (
	_ Entity      = (*Post)(nil)
	_ Addressable = (*Post)(nil)
)

func (p *Post) Kind() Kind { return KindPost }

// Ref returns a reference to this post
func (p *Post) Ref() *FileRef {
	return NewFileRef(p.FileName, p.FolderPath)
}

// FullPath joins the folder and file name
func (p *Post) FullPath() string {
	return p.Ref().FullPath
}

// SetCategories stores the categories as a set, first occurrence wins
func (p *Post) SetCategories(names []string) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = NormalizeCategory(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	p.Categories = out
}

// LinkNext chains this post to a newer one in both directions
func (p *Post) LinkNext(next *Post) {
	p.NextPost = next.Ref()
	next.PreviousPost = p.Ref()
}

// RestoreLinks fills links missing from p with the ones persisted in
// published. Front-matter never carries links, so a post reloaded from its
// markdown only knows them through its sidecar.
func (p *Post) RestoreLinks(published *Post) {
	if p.PreviousPost == nil {
		p.PreviousPost = published.PreviousPost
	}
	if p.NextPost == nil {
		p.NextPost = published.NextPost
	}
}

type postJSON struct {
	Categories    []string  `json:"categories"`
	FileName      string    `json:"fileName"`
	FolderPath    string    `json:"folderPath"`
	FullPath      string    `json:"fullPath"`
	NextPost      *FileRef  `json:"nextPost"`
	PreviousPost  *FileRef  `json:"previousPost"`
	Summation     string    `json:"summation"`
	Thumbnail     Thumbnail `json:"thumbnail"`
	Title         string    `json:"title"`
	WriteDateTime string    `json:"writeDateTime"`
}

func (p *Post) MarshalJSON() ([]byte, error) {
	categories := p.Categories
	if categories == nil {
		categories = []string{}
	}
	return json.Marshal(postJSON{
		Categories:    categories,
		FileName:      p.FileName,
		FolderPath:    p.FolderPath,
		FullPath:      p.FullPath(),
		NextPost:      p.NextPost,
		PreviousPost:  p.PreviousPost,
		Summation:     p.Summation,
		Thumbnail:     p.Thumbnail,
		Title:         p.Title,
		WriteDateTime: p.WriteDateTime,
	})
}

func (p *Post) UnmarshalJSON(data []byte) error {
	var raw postJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.SetCategories(raw.Categories)
	p.FileName = raw.FileName
	p.FolderPath = raw.FolderPath
	p.NextPost = raw.NextPost
	p.PreviousPost = raw.PreviousPost
	p.Summation = raw.Summation
	p.Thumbnail = raw.Thumbnail
	p.Title = raw.Title
	p.WriteDateTime = raw.WriteDateTime
	return nil
}
