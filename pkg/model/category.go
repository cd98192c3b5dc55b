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

	"golang.org/x/text/unicode/norm"
)

// 📂 Category groups post references under one name
type Category struct {
	Name          string
	PostFilePaths []*FileRef
}

// 🏭 NewCategory creates an empty category
func NewCategory(name string) *Category {
	return &Category{
		Name:          NormalizeCategory(name),
		PostFilePaths: []*FileRef{},
	}
}

// NormalizeCategory folds a category name to NFC so the same name typed on
// different systems maps to one key
func NormalizeCategory(name string) string {
	return norm.NFC.String(name)
}

// Count is always the number of post references
func (c *Category) Count() int {
	return len(c.PostFilePaths)
}

// AddPostFilePath puts the reference at the front
func (c *Category) AddPostFilePath(ref *FileRef) {
	c.PostFilePaths = append([]*FileRef{ref}, c.PostFilePaths...)
}

type categoryJSON struct {
	Count         int        `json:"count"`
	Name          string     `json:"name"`
	PostFilePaths []*FileRef `json:"postFilePaths"`
}

func (c *Category) MarshalJSON() ([]byte, error) {
	paths := c.PostFilePaths
	if paths == nil {
		paths = []*FileRef{}
	}
	return json.Marshal(categoryJSON{
		Count:         len(paths),
		Name:          c.Name,
		PostFilePaths: paths,
	})
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var raw categoryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Name = NormalizeCategory(raw.Name)
	c.PostFilePaths = raw.PostFilePaths
	if c.PostFilePaths == nil {
		c.PostFilePaths = []*FileRef{}
	}
	return nil
}
