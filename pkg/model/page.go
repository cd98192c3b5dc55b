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

	"github.com/google/uuid"
)

const (
	// PageCapacity is the number of posts a page holds before a new one opens
	PageCapacity = 50

	// PageExtension is appended to every generated page id
	PageExtension = ".page.json"
)

// 📄 Page is a fixed capacity bucket of post references
type Page struct {
	FileName     string
	FolderPath   string
	Posts        []*FileRef
	PreviousPage *FileRef
	NextPage     *FileRef
}

var (
	_ Entity      = (*Page)(nil)
	_ Addressable = (*Page)(nil)
)

// 🏭 NewPage creates an empty page with a time ordered file name
func NewPage(folderPath string) *Page {
	return &Page{
		FileName:   NewIdentifier() + PageExtension,
		FolderPath: folderPath,
		Posts:      []*FileRef{},
	}
}

// NewIdentifier returns a time ordered unique id, falling back to a random
// one if the clock sequence cannot be read
func NewIdentifier() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (p *Page) Kind() Kind { return KindPage }

// Ref returns a reference to this page
func (p *Page) Ref() *FileRef {
	return NewFileRef(p.FileName, p.FolderPath)
}

// FullPath joins the folder and file name
func (p *Page) FullPath() string {
	return p.Ref().FullPath
}

// PostCount is always the number of post references
func (p *Page) PostCount() int {
	return len(p.Posts)
}

// IsFull reports whether the page holds exactly PageCapacity posts
func (p *Page) IsFull() bool {
	return len(p.Posts) == PageCapacity
}

// AddPost puts the post reference at the front
func (p *Page) AddPost(ref *FileRef) {
	p.Posts = append([]*FileRef{ref}, p.Posts...)
}

// ReplaceHead swaps the first post reference when it names the same file
func (p *Page) ReplaceHead(ref *FileRef) bool {
	if len(p.Posts) == 0 || p.Posts[0].FileName != ref.FileName {
		return false
	}
	p.Posts[0] = ref
	return true
}

// LinkNext chains this page to a newer one in both directions
func (p *Page) LinkNext(next *Page) {
	p.NextPage = next.Ref()
	next.PreviousPage = p.Ref()
}

type pageJSON struct {
	FileName     string     `json:"fileName"`
	FolderPath   string     `json:"folderPath"`
	FullPath     string     `json:"fullPath"`
	NextPage     *FileRef   `json:"nextPage"`
	PreviousPage *FileRef   `json:"previousPage"`
	Posts        []*FileRef `json:"posts"`
	PostCount    int        `json:"postCount"`
}

func (p *Page) MarshalJSON() ([]byte, error) {
	posts := p.Posts
	if posts == nil {
		posts = []*FileRef{}
	}
	return json.Marshal(pageJSON{
		FileName:     p.FileName,
		FolderPath:   p.FolderPath,
		FullPath:     p.FullPath(),
		NextPage:     p.NextPage,
		PreviousPage: p.PreviousPage,
		Posts:        posts,
		PostCount:    len(posts),
	})
}

func (p *Page) UnmarshalJSON(data []byte) error {
	var raw pageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.FileName = raw.FileName
	p.FolderPath = raw.FolderPath
	p.NextPage = raw.NextPage
	p.PreviousPage = raw.PreviousPage
	p.Posts = raw.Posts
	if p.Posts == nil {
		p.Posts = []*FileRef{}
	}
	return nil
}
