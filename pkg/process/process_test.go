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

package process

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/postmeta/pkg/config"
	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/probe"
	"github.com/walteh/postmeta/pkg/run"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func testRun() *run.Context {
	opts := config.Default()
	opts.RootDirectory = "/blog"
	opts.PostLoadPath = "src"
	opts.PostGeneratePath = "posts"
	opts.PageGeneratePath = "pages"
	return run.New(opts, nil)
}

func descriptor(full string) probe.FileDescriptor {
	return probe.FileDescriptor{
		DirectoryPath: filepath.Dir(full),
		Extension:     filepath.Ext(full),
		FullPath:      full,
		Name:          filepath.Base(full),
		Size:          1,
	}
}

func TestPostProcessor(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		check func(t *testing.T, rc *run.Context, post *model.Post)
	}{
		{
			name: "new_post_gets_fresh_name",
			path: "/blog/src/hello.generate.md",
			check: func(t *testing.T, rc *run.Context, post *model.Post) {
				require.Len(t, rc.Posts, 1, "post should be queued")
				assert.Same(t, post, rc.Posts[0], "queued post should be the processed one")
				assert.Nil(t, rc.Post, "continuation should stay empty")
				assert.Equal(t, "hello.generate.md", post.OriginalFileName, "original name should be kept")
				assert.Equal(t, "/blog/src", post.OriginalFolderPath, "source folder should be kept")
				assert.Equal(t, "posts", post.FolderPath, "post should land in the generate path")
				assert.True(t, strings.HasSuffix(post.FileName, ".md"), "extension should be kept")

				id, err := uuid.Parse(strings.TrimSuffix(post.FileName, ".md"))
				require.NoError(t, err, "file name should be a uuid")
				assert.Equal(t, uuid.Version(7), id.Version(), "uuid should be time ordered")
			},
		},
		{
			name: "uuid_name_is_continuation",
			path: "/blog/posts/0190d5a2-7b3c-7def-8a12-3456789abcde.md",
			check: func(t *testing.T, rc *run.Context, post *model.Post) {
				assert.Empty(t, rc.Posts, "continuation should not be queued")
				require.Same(t, post, rc.Post, "continuation should be installed")
				assert.Equal(t, "0190d5a2-7b3c-7def-8a12-3456789abcde.md", post.FileName, "name should be kept")
				assert.Equal(t, "posts", post.FolderPath, "folder should be relative to root")
				assert.Equal(t, post.FileName, post.OriginalFileName, "original name should match")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			rc := testRun()
			post := &model.Post{Title: "t"}

			for _, p := range Default() {
				require.NoError(t, p.Process(ctx, rc, descriptor(tt.path), post), "processing should succeed")
			}
			tt.check(t, rc, post)
		})
	}
}

func TestPostProcessor_restoresLinks(t *testing.T) {
	const name = "0190d5a2-7b3c-7def-8a12-3456789abcde.md"

	tests := []struct {
		name         string
		sidecar      string
		wantPrevious *model.FileRef
		errContains  string
	}{
		{
			name:         "sidecar_links_are_restored",
			sidecar:      `{"fileName":"` + name + `","folderPath":"posts","previousPost":{"fileName":"older.md","folderPath":"posts","fullPath":"posts/older.md"},"nextPost":null}`,
			wantPrevious: model.NewFileRef("older.md", "posts"),
		},
		{
			name:         "no_sidecar_keeps_loaded_post",
			wantPrevious: nil,
		},
		{
			name:        "broken_sidecar",
			sidecar:     "{not json",
			errContains: "parsing post metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			root := t.TempDir()
			dir := filepath.Join(root, "posts")
			require.NoError(t, os.MkdirAll(dir, 0755))
			full := filepath.Join(dir, name)
			if tt.sidecar != "" {
				require.NoError(t, os.WriteFile(full+model.MetadataExtension, []byte(tt.sidecar), 0644))
			}

			rc := testRun()
			rc.Options.RootDirectory = root
			post := &model.Post{Title: "from front-matter"}

			err := PostProcessor{}.Process(ctx, rc, descriptor(full), post)
			if tt.errContains != "" {
				require.Error(t, err, "processing should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should name the sidecar")
				return
			}
			require.NoError(t, err, "processing should succeed")
			require.Same(t, post, rc.Post, "continuation should be installed")
			assert.Equal(t, tt.wantPrevious, post.PreviousPost, "previous link should match the sidecar")
			assert.Nil(t, post.NextPost, "newest post has no next")
			assert.Equal(t, "from front-matter", post.Title, "front-matter fields should win")
		})
	}
}

func TestProcessor_folderForms(t *testing.T) {
	ctx := testContext(t)
	rc := testRun()
	rc.Options.PostGeneratePath = "posts/"

	page := &model.Page{}
	require.NoError(t, PageProcessor{}.Process(ctx, rc, descriptor("/blog/pages/abc.page.json"), page))
	assert.Equal(t, "pages", page.FolderPath, "loaded page folder should be relative")

	post := &model.Post{}
	require.NoError(t, PostProcessor{}.Process(ctx, rc, descriptor("/blog/src/hello.generate.md"), post))
	assert.Equal(t, "posts", post.FolderPath, "configured folder should be cleaned")

	rc.Options.PostGeneratePath = "/blog/posts"
	post = &model.Post{}
	require.NoError(t, PostProcessor{}.Process(ctx, rc, descriptor("/blog/src/other.generate.md"), post))
	assert.Equal(t, "posts", post.FolderPath, "absolute folder inside the root should be relative")
}

func TestPageProcessor(t *testing.T) {
	ctx := testContext(t)
	rc := testRun()
	page := &model.Page{FileName: "stale.page.json", FolderPath: "elsewhere"}

	require.NoError(t, PageProcessor{}.Process(ctx, rc, descriptor("/blog/pages/abc.page.json"), page))

	require.Same(t, page, rc.Page, "page should be installed")
	assert.Equal(t, "abc.page.json", page.FileName, "name should come from the file")
	assert.Equal(t, "pages", page.FolderPath, "folder should come from the file")
}

func TestComprehensiveProcessor(t *testing.T) {
	ctx := testContext(t)
	rc := testRun()
	c := model.NewComprehensive()

	require.NoError(t, ComprehensiveProcessor{}.Process(ctx, rc, descriptor("/blog/meta/comprehensive.json"), c))
	assert.Same(t, c, rc.Comprehensive, "comprehensive should be installed")

	require.NoError(t, ComprehensiveProcessor{}.Process(ctx, rc, descriptor("/blog/x.md"), &model.Post{}))
	assert.Same(t, c, rc.Comprehensive, "other kinds should be ignored")
}

func TestIsPublishedName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "0190d5a2-7b3c-7def-8a12-3456789abcde.md", want: true},
		{name: "0190d5a2-7b3c-7def-8a12-3456789abcde", want: true},
		{name: "hello.generate.md", want: false},
		{name: "0190d5a2-7b3c-7def-8a12-3456789abcde.generate.md", want: false},
		{name: ".md", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPublishedName(tt.name), "uuid detection should match")
		})
	}
}
