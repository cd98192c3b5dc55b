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
	"sort"
)

// 📚 Comprehensive is the cumulative summary of the whole corpus
type Comprehensive struct {
	Categories       map[string]*Category
	LatestCategories []string
	LatestPage       *FileRef
	LatestPost       *FileRef
	PageCount        int
	Pages            []*FileRef
	PostCount        int
}

var _ Entity = (*Comprehensive)(nil)

// 🏭 NewComprehensive creates a comprehensive with zero counters
func NewComprehensive() *Comprehensive {
	return &Comprehensive{
		Categories:       map[string]*Category{},
		LatestCategories: []string{},
		Pages:            []*FileRef{},
	}
}

func (c *Comprehensive) Kind() Kind { return KindComprehensive }

// CategoryCount is always the number of distinct categories
func (c *Comprehensive) CategoryCount() int {
	return len(c.Categories)
}

// CategoryNames returns the category keys in sorted order
func (c *Comprehensive) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PutCategory files a post reference under the named category, creating it
// when first seen
func (c *Comprehensive) PutCategory(name string, ref *FileRef) {
	name = NormalizeCategory(name)
	if c.Categories == nil {
		c.Categories = map[string]*Category{}
	}
	category, ok := c.Categories[name]
	if !ok {
		category = NewCategory(name)
		c.Categories[name] = category
	}
	category.AddPostFilePath(ref)
}

// SetLatestCategories replaces the latest categories, keeping first
// occurrence order and dropping duplicates
func (c *Comprehensive) SetLatestCategories(names []string) {
	seen := make(map[string]struct{}, len(names))
	latest := make([]string, 0, len(names))
	for _, name := range names {
		name = NormalizeCategory(name)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		latest = append(latest, name)
	}
	c.LatestCategories = latest
}

// AddPage puts the page reference at the front unless it is already the head
func (c *Comprehensive) AddPage(ref *FileRef) bool {
	if len(c.Pages) > 0 && c.Pages[0].Same(ref) {
		return false
	}
	c.Pages = append([]*FileRef{ref}, c.Pages...)
	return true
}

type comprehensiveJSON struct {
	Categories       map[string]*Category `json:"categories"`
	CategoryCount    int                  `json:"categoryCount"`
	LatestCategories []string             `json:"latestCategories"`
	LatestPage       *FileRef             `json:"latestPage"`
	LatestPost       *FileRef             `json:"latestPost"`
	PageCount        int                  `json:"pageCount"`
	Pages            []*FileRef           `json:"pages"`
	PostCount        int                  `json:"postCount"`
}

func (c *Comprehensive) MarshalJSON() ([]byte, error) {
	out := comprehensiveJSON{
		Categories:       c.Categories,
		CategoryCount:    len(c.Categories),
		LatestCategories: c.LatestCategories,
		LatestPage:       c.LatestPage,
		LatestPost:       c.LatestPost,
		PageCount:        c.PageCount,
		Pages:            c.Pages,
		PostCount:        c.PostCount,
	}
	if out.Categories == nil {
		out.Categories = map[string]*Category{}
	}
	if out.LatestCategories == nil {
		out.LatestCategories = []string{}
	}
	if out.Pages == nil {
		out.Pages = []*FileRef{}
	}
	return json.Marshal(out)
}

func (c *Comprehensive) UnmarshalJSON(data []byte) error {
	var raw comprehensiveJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = *NewComprehensive()
	for name, category := range raw.Categories {
		if category == nil {
			continue
		}
		if category.Name == "" {
			category.Name = NormalizeCategory(name)
		}
		c.Categories[category.Name] = category
	}
	if raw.LatestCategories != nil {
		c.LatestCategories = raw.LatestCategories
	}
	if raw.Pages != nil {
		c.Pages = raw.Pages
	}
	c.LatestPage = raw.LatestPage
	c.LatestPost = raw.LatestPost
	c.PageCount = raw.PageCount
	c.PostCount = raw.PostCount
	return nil
}
