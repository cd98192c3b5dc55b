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
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/run"
	"github.com/walteh/postmeta/pkg/serialize"
	"github.com/walteh/postmeta/pkg/status"
)

// MetadataExtension is appended to a post file name for its sidecar
const MetadataExtension = model.MetadataExtension

// 📚 ComprehensiveFileGenerator writes the comprehensive summary
type ComprehensiveFileGenerator struct{}

func (ComprehensiveFileGenerator) Generate(ctx context.Context, rc *run.Context, fm status.FileManager) error {
	data, err := serialize.ComprehensiveSerializer{}.Serialize(rc.Comprehensive)
	if err != nil {
		return errors.Errorf("serializing comprehensive: %w", err)
	}

	path := rc.Options.ComprehensiveGenerateFile()
	if _, err := fm.WriteFile(ctx, path, data); err != nil {
		return errors.Errorf("writing comprehensive %s: %w", path, err)
	}
	return nil
}

// 📄 PageFileGenerator writes the open page and every new page
type PageFileGenerator struct{}

func (PageFileGenerator) Generate(ctx context.Context, rc *run.Context, fm status.FileManager) error {
	dir := rc.Options.Resolve(rc.Options.PageGeneratePath)

	pages := make([]*model.Page, 0, len(rc.Pages)+1)
	pages = append(pages, rc.Pages...)
	if rc.Page != nil {
		pages = append(pages, rc.Page)
	}

	for _, page := range pages {
		data, err := serialize.PageSerializer{}.Serialize(page)
		if err != nil {
			return errors.Errorf("serializing page %s: %w", page.FileName, err)
		}
		path := filepath.Join(dir, page.FileName)
		if _, err := fm.WriteFile(ctx, path, data); err != nil {
			return errors.Errorf("writing page %s: %w", path, err)
		}
	}
	return nil
}

// 📝 PostFileGenerator copies every new post and the continuation post to
// the post directory and records new posts in the publish ledger
type PostFileGenerator struct{}

func (PostFileGenerator) Generate(ctx context.Context, rc *run.Context, fm status.FileManager) error {
	opts := rc.Options
	dir := opts.Resolve(opts.PostGeneratePath)

	if rc.Post != nil {
		if err := writePost(ctx, rc, fm, dir, rc.Post); err != nil {
			return err
		}
	}

	for _, post := range rc.Posts {
		if err := writePost(ctx, rc, fm, dir, post); err != nil {
			return err
		}
	}
	return nil
}

func writePost(ctx context.Context, rc *run.Context, fm status.FileManager, dir string, post *model.Post) error {
	src := filepath.Join(post.OriginalFolderPath, post.OriginalFileName)
	dst := filepath.Join(dir, post.FileName)

	if samePath(src, dst) {
		zerolog.Ctx(ctx).Debug().Str("post", dst).Msg("post already in place, skipping copy")
	} else {
		info, err := fm.CopyFile(ctx, src, dst)
		if err != nil {
			return errors.Errorf("copying post %s: %w", src, err)
		}
		if post != rc.Post {
			rc.Ledger.Record(rc.Options.Relative(src), post.FileName, info.Checksum)
		}
	}

	if !rc.Options.WritePostMetadata {
		return nil
	}

	data, err := serialize.PostSerializer{}.Serialize(post)
	if err != nil {
		return errors.Errorf("serializing post %s: %w", post.FileName, err)
	}
	if _, err := fm.WriteFile(ctx, dst+MetadataExtension, data); err != nil {
		return errors.Errorf("writing post metadata %s: %w", dst, err)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
