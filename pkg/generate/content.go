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

	"github.com/rs/zerolog"

	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/run"
)

// 🔗 PostContentGenerator orders the new posts and links them to each other
// and to the previously newest post
type PostContentGenerator struct{}

func (PostContentGenerator) Generate(ctx context.Context, rc *run.Context) error {
	if !rc.HasNewPosts() {
		return nil
	}
	posts := rc.Posts

	SortNewestFirst(posts)

	if legacy := rc.Post; legacy != nil {
		oldest := posts[len(posts)-1]
		legacy.LinkNext(oldest)

		if rc.Page != nil && rc.Page.ReplaceHead(legacy.Ref()) {
			zerolog.Ctx(ctx).Debug().Str("post", legacy.FileName).Msg("refreshed open page head")
		}
	}

	for i := 0; i+1 < len(posts); i++ {
		posts[i+1].LinkNext(posts[i])
	}

	zerolog.Ctx(ctx).Debug().Int("posts", len(posts)).Msg("linked posts")
	return nil
}

// 📄 PageContentGenerator packs the new posts into pages
type PageContentGenerator struct{}

func (PageContentGenerator) Generate(ctx context.Context, rc *run.Context) error {
	if !rc.HasNewPosts() {
		return nil
	}
	posts := rc.Posts

	legacy := rc.Page
	idx := len(posts) - 1

	// only a nearly empty open page is topped up
	if legacy != nil && legacy.PostCount() < 2 {
		for ; idx >= 0 && !legacy.IsFull(); idx-- {
			legacy.AddPost(posts[idx].Ref())
		}
	}

	if idx < 0 {
		return nil
	}

	folder := rc.Options.Folder(rc.Options.PageGeneratePath)
	page := model.NewPage(folder)
	if legacy != nil {
		legacy.LinkNext(page)
	}

	for ; idx >= 0; idx-- {
		if page.IsFull() {
			next := model.NewPage(folder)
			page.LinkNext(next)
			rc.Pages = append([]*model.Page{page}, rc.Pages...)
			page = next
		}
		page.AddPost(posts[idx].Ref())
	}

	if len(rc.Pages) == 0 || rc.Pages[0].FileName != page.FileName {
		rc.Pages = append([]*model.Page{page}, rc.Pages...)
	}

	zerolog.Ctx(ctx).Debug().Int("pages", len(rc.Pages)).Msg("packed pages")
	return nil
}

// 📚 ComprehensiveContentGenerator folds the new posts and pages into the
// comprehensive summary
type ComprehensiveContentGenerator struct{}

func (ComprehensiveContentGenerator) Generate(ctx context.Context, rc *run.Context) error {
	if rc.Comprehensive == nil {
		rc.Comprehensive = model.NewComprehensive()
	}
	c := rc.Comprehensive

	if posts := rc.Posts; len(posts) > 0 {
		latest := posts[0]
		c.SetLatestCategories(latest.Categories)
		c.LatestPost = latest.Ref()
		c.PostCount += len(posts)

		// oldest first so every category ends newest first
		for i := len(posts) - 1; i >= 0; i-- {
			for _, category := range posts[i].Categories {
				c.PutCategory(category, posts[i].Ref())
			}
		}
	}

	if pages := rc.Pages; len(pages) > 0 {
		c.LatestPage = pages[0].Ref()
		c.PageCount += len(pages)

		for i := len(pages) - 1; i >= 0; i-- {
			c.AddPage(pages[i].Ref())
		}
	}

	zerolog.Ctx(ctx).Debug().
		Int("post_count", c.PostCount).
		Int("page_count", c.PageCount).
		Int("category_count", c.CategoryCount()).
		Msg("updated comprehensive")
	return nil
}
