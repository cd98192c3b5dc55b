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

// Package run holds the mutable state shared by the stages of one
// generation run.
package run

import (
	"github.com/walteh/postmeta/pkg/config"
	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/state"
)

// 🧺 Context is threaded through every stage of a run. Only sequential
// stages mutate it.
type Context struct {
	Options *config.Options
	Ledger  *state.Ledger

	// Comprehensive is the loaded summary, nil until one is found
	Comprehensive *model.Comprehensive
	// Page is the currently open page, nil on a fresh corpus
	Page *model.Page
	// Post is the previously newest post, nil on a fresh corpus
	Post *model.Post

	// Pages created by this run, newest first
	Pages []*model.Page
	// Posts discovered by this run, newest first once generated
	Posts []*model.Post
}

// 🏭 New creates an empty run context
func New(opts *config.Options, ledger *state.Ledger) *Context {
	if ledger == nil {
		ledger = state.New("")
	}
	return &Context{
		Options: opts,
		Ledger:  ledger,
		Pages:   []*model.Page{},
		Posts:   []*model.Post{},
	}
}

// HasNewPosts reports whether this run discovered any post
func (c *Context) HasNewPosts() bool {
	return len(c.Posts) > 0
}
