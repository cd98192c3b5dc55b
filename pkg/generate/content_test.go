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

package generate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/postmeta/pkg/config"
	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/run"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func testRun(t *testing.T) *run.Context {
	opts := config.Default()
	opts.PostLoadPath = "src"
	opts.PostGeneratePath = "post"
	opts.PageGeneratePath = "page"
	return run.New(opts, nil)
}

// newBatch returns n posts oldest first, each one minute newer than the last
func newBatch(n int, categories ...string) []*model.Post {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]*model.Post, 0, n)
	for i := 0; i < n; i++ {
		post := &model.Post{
			FileName:           model.NewIdentifier() + ".md",
			FolderPath:         "post",
			OriginalFileName:   fmt.Sprintf("%03d.generate.md", i),
			OriginalFolderPath: "src",
			Title:              fmt.Sprintf("post %d", i),
			WriteDateTime:      base.Add(time.Duration(i) * time.Minute).Format("2006-01-02 15:04:05.000"),
		}
		post.SetCategories(categories)
		posts = append(posts, post)
	}
	return posts
}

func pageWith(n int) *model.Page {
	page := model.NewPage("page")
	for _, post := range newBatch(n) {
		page.AddPost(post.Ref())
	}
	return page
}

func TestSortNewestFirst(t *testing.T) {
	posts := []*model.Post{
		{OriginalFileName: "a.md", WriteDateTime: "2024-01-01 10:00:00.000"},
		{OriginalFileName: "b.md", WriteDateTime: "2024-03-01 10:00:00.000"},
		{OriginalFileName: "c.md", WriteDateTime: "2024-01-01 10:00:00.000"},
	}
	SortNewestFirst(posts)

	got := []string{posts[0].OriginalFileName, posts[1].OriginalFileName, posts[2].OriginalFileName}
	assert.Equal(t, []string{"b.md", "c.md", "a.md"}, got, "posts should be newest first")
}

func TestPostContentGenerator(t *testing.T) {
	t.Run("chain_integrity", func(t *testing.T) {
		ctx := testContext(t)
		rc := testRun(t)
		rc.Posts = newBatch(5)

		require.NoError(t, PostContentGenerator{}.Generate(ctx, rc))

		posts := rc.Posts
		assert.Equal(t, "004.generate.md", posts[0].OriginalFileName, "newest post should be first")
		assert.Nil(t, posts[0].NextPost, "newest post has no next")
		assert.Nil(t, posts[len(posts)-1].PreviousPost, "oldest post has no previous without a continuation")
		for i := 0; i+1 < len(posts); i++ {
			assert.Equal(t, posts[i+1].FileName, posts[i].PreviousPost.FileName, "previous should be older")
			assert.Equal(t, posts[i].FileName, posts[i+1].NextPost.FileName, "next should be newer")
		}
	})

	t.Run("links_continuation_post", func(t *testing.T) {
		ctx := testContext(t)
		rc := testRun(t)
		legacy := &model.Post{FileName: "legacy.md", FolderPath: "post"}
		rc.Post = legacy
		rc.Page = model.NewPage("page")
		rc.Page.AddPost(model.NewFileRef("legacy.md", "old"))
		rc.Posts = newBatch(3)

		require.NoError(t, PostContentGenerator{}.Generate(ctx, rc))

		oldest := rc.Posts[2]
		assert.Equal(t, oldest.FileName, legacy.NextPost.FileName, "continuation should point to the oldest new post")
		assert.Equal(t, "legacy.md", oldest.PreviousPost.FileName, "oldest new post should point back")
		assert.Equal(t, "post", rc.Page.Posts[0].FolderPath, "open page head should be refreshed")
	})

	t.Run("empty_batch", func(t *testing.T) {
		rc := testRun(t)
		legacy := &model.Post{FileName: "legacy.md"}
		rc.Post = legacy

		require.NoError(t, PostContentGenerator{}.Generate(testContext(t), rc))
		assert.Nil(t, legacy.NextPost, "nothing should be linked")
	})
}

func TestPageContentGenerator(t *testing.T) {
	tests := []struct {
		name          string
		openPosts     int // -1 means no open page
		newPosts      int
		wantOpen      int
		wantPageSizes []int // newest first
	}{
		{name: "empty_corpus", openPosts: -1, newPosts: 0, wantPageSizes: nil},
		{name: "first_post", openPosts: -1, newPosts: 1, wantPageSizes: []int{1}},
		{name: "exactly_50", openPosts: -1, newPosts: 50, wantPageSizes: []int{50}},
		{name: "exactly_51", openPosts: -1, newPosts: 51, wantPageSizes: []int{1, 50}},
		{name: "exactly_101", openPosts: -1, newPosts: 101, wantPageSizes: []int{1, 50, 50}},
		{name: "top_up_nearly_empty_page", openPosts: 1, newPosts: 3, wantOpen: 4, wantPageSizes: nil},
		{name: "top_up_bounded_at_capacity", openPosts: 1, newPosts: 60, wantOpen: 50, wantPageSizes: []int{11}},
		{name: "open_page_with_two_posts_is_kept", openPosts: 2, newPosts: 3, wantOpen: 2, wantPageSizes: []int{3}},
		{name: "empty_open_page_is_topped_up", openPosts: 0, newPosts: 2, wantOpen: 2, wantPageSizes: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			rc := testRun(t)
			if tt.openPosts >= 0 {
				rc.Page = pageWith(tt.openPosts)
			}
			rc.Posts = newBatch(tt.newPosts)
			require.NoError(t, PostContentGenerator{}.Generate(ctx, rc))

			require.NoError(t, PageContentGenerator{}.Generate(ctx, rc))

			if rc.Page != nil {
				assert.Equal(t, tt.wantOpen, rc.Page.PostCount(), "open page size should match")
			}

			sizes := make([]int, 0, len(rc.Pages))
			for _, page := range rc.Pages {
				sizes = append(sizes, page.PostCount())
				assert.LessOrEqual(t, page.PostCount(), model.PageCapacity, "page should respect capacity")
				assert.Equal(t, "page", page.FolderPath, "page should live in the page folder")
			}
			if tt.wantPageSizes == nil {
				assert.Empty(t, rc.Pages, "no page should be created")
			} else {
				assert.Equal(t, tt.wantPageSizes, sizes, "page sizes should match")
			}

			for i := 0; i+1 < len(rc.Pages); i++ {
				assert.Equal(t, rc.Pages[i+1].FileName, rc.Pages[i].PreviousPage.FileName, "newer page should point back")
				assert.Equal(t, rc.Pages[i].FileName, rc.Pages[i+1].NextPage.FileName, "older page should point forward")
			}

			if len(rc.Pages) > 0 {
				oldest := rc.Pages[len(rc.Pages)-1]
				if rc.Page != nil {
					assert.Equal(t, oldest.FileName, rc.Page.NextPage.FileName, "open page should link the first new page")
					assert.Equal(t, rc.Page.FileName, oldest.PreviousPage.FileName, "first new page should link the open page")
				} else {
					assert.Nil(t, oldest.PreviousPage, "first page has no previous")
				}
				assert.Equal(t, rc.Posts[0].FileName, rc.Pages[0].Posts[0].FileName, "newest post should head the newest page")
			}
		})
	}
}

func TestPageContentGenerator_folderMatchesOpenPage(t *testing.T) {
	ctx := testContext(t)
	rc := testRun(t)
	rc.Options.RootDirectory = t.TempDir()
	rc.Options.PageGeneratePath = "./page/"
	rc.Page = pageWith(2)
	rc.Posts = newBatch(1)

	require.NoError(t, PageContentGenerator{}.Generate(ctx, rc))

	require.Len(t, rc.Pages, 1)
	assert.Equal(t, "page", rc.Pages[0].FolderPath, "new page folder should be cleaned")
	assert.Equal(t, rc.Page.FolderPath, rc.Pages[0].PreviousPage.FolderPath, "back link should use the open page's form")
	assert.Equal(t, rc.Page.NextPage.FolderPath, rc.Pages[0].FolderPath, "forward link should use the new page's form")
}

func TestComprehensiveContentGenerator(t *testing.T) {
	t.Run("empty_corpus", func(t *testing.T) {
		rc := testRun(t)
		require.NoError(t, GenerateContents(testContext(t), rc, Contents()))

		require.NotNil(t, rc.Comprehensive, "comprehensive should be defaulted")
		assert.Equal(t, 0, rc.Comprehensive.PostCount, "post count should be zero")
		assert.Equal(t, 0, rc.Comprehensive.PageCount, "page count should be zero")
		assert.Nil(t, rc.Comprehensive.LatestPost, "no latest post")
		assert.Empty(t, rc.Comprehensive.Pages, "no pages")
	})

	t.Run("category_accumulation", func(t *testing.T) {
		ctx := testContext(t)
		rc := testRun(t)
		rc.Comprehensive = model.NewComprehensive()
		rc.Comprehensive.PutCategory("go", model.NewFileRef("old.md", "post"))
		rc.Comprehensive.PostCount = 1

		goPosts := newBatch(2, "go")
		webPost := newBatch(3, "web", "go")[2]
		rc.Posts = append(goPosts, webPost)

		require.NoError(t, GenerateContents(ctx, rc, Contents()))

		c := rc.Comprehensive
		assert.Equal(t, 4, c.PostCount, "post count should accumulate")
		assert.Equal(t, 2, c.CategoryCount(), "two categories should exist")
		assert.Equal(t, 4, c.Categories["go"].Count(), "go should hold every go post")
		assert.Equal(t, 1, c.Categories["web"].Count(), "web should hold one post")
		assert.Equal(t, webPost.FileName, c.Categories["go"].PostFilePaths[0].FileName, "newest reference should be first")
		assert.Equal(t, "old.md", c.Categories["go"].PostFilePaths[3].FileName, "existing references should be kept")
		assert.Equal(t, []string{"web", "go"}, c.LatestCategories, "latest categories should come from the newest post")
		assert.Equal(t, webPost.FileName, c.LatestPost.FileName, "latest post should be the newest")
	})

	t.Run("pages_newest_first", func(t *testing.T) {
		ctx := testContext(t)
		rc := testRun(t)
		rc.Comprehensive = model.NewComprehensive()
		open := pageWith(10)
		rc.Page = open
		rc.Comprehensive.AddPage(open.Ref())
		rc.Comprehensive.LatestPage = open.Ref()
		rc.Comprehensive.PageCount = 1
		rc.Posts = newBatch(120)

		require.NoError(t, GenerateContents(ctx, rc, Contents()))

		c := rc.Comprehensive
		require.Len(t, rc.Pages, 3, "three pages should be created")
		assert.Equal(t, 4, c.PageCount, "page count should accumulate")
		require.Len(t, c.Pages, 4, "every page should be referenced")
		for i, page := range rc.Pages {
			assert.Equal(t, page.FileName, c.Pages[i].FileName, "pages should be newest first")
		}
		assert.Equal(t, open.FileName, c.Pages[3].FileName, "open page should stay last")
		assert.Equal(t, rc.Pages[0].FileName, c.LatestPage.FileName, "latest page should be the newest")
	})

	t.Run("top_up_only_keeps_page_count", func(t *testing.T) {
		ctx := testContext(t)
		rc := testRun(t)
		rc.Comprehensive = model.NewComprehensive()
		open := pageWith(1)
		rc.Page = open
		rc.Comprehensive.AddPage(open.Ref())
		rc.Comprehensive.PageCount = 1
		rc.Posts = newBatch(2)

		require.NoError(t, GenerateContents(ctx, rc, Contents()))

		assert.Equal(t, 1, rc.Comprehensive.PageCount, "no page should be added")
		assert.Len(t, rc.Comprehensive.Pages, 1, "pages should not be duplicated")
		assert.Equal(t, 3, open.PostCount(), "open page should be topped up")
	})
}
