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

// Package process installs deserialized entities into the run context.
package process

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/probe"
	"github.com/walteh/postmeta/pkg/run"
)

// 🔌 Processor receives every entity of an object stage. Processors ignore
// entities of other kinds.
type Processor interface {
	Process(ctx context.Context, rc *run.Context, desc probe.FileDescriptor, entity model.Entity) error
}

// 🏭 Default returns the comprehensive, page and post processors
func Default() []Processor {
	return []Processor{ComprehensiveProcessor{}, PageProcessor{}, PostProcessor{}}
}

// 📚 ComprehensiveProcessor installs the loaded comprehensive
type ComprehensiveProcessor struct{}

func (ComprehensiveProcessor) Process(ctx context.Context, rc *run.Context, desc probe.FileDescriptor, entity model.Entity) error {
	c, ok := entity.(*model.Comprehensive)
	if !ok {
		return nil
	}
	rc.Comprehensive = c
	zerolog.Ctx(ctx).Debug().
		Str("path", desc.FullPath).
		Int("posts", c.PostCount).
		Int("pages", c.PageCount).
		Msg("installed comprehensive")
	return nil
}

// 📄 PageProcessor installs the open page, named after its file
type PageProcessor struct{}

func (PageProcessor) Process(ctx context.Context, rc *run.Context, desc probe.FileDescriptor, entity model.Entity) error {
	page, ok := entity.(*model.Page)
	if !ok {
		return nil
	}
	page.FileName = desc.Name
	page.FolderPath = rc.Options.Folder(desc.DirectoryPath)
	rc.Page = page
	zerolog.Ctx(ctx).Debug().
		Str("page", page.FileName).
		Int("posts", page.PostCount()).
		Msg("installed open page")
	return nil
}

// 📝 PostProcessor names posts. A post whose file name is a UUID was
// published by an earlier run and continues the chain; any other post is new.
type PostProcessor struct{}

func (PostProcessor) Process(ctx context.Context, rc *run.Context, desc probe.FileDescriptor, entity model.Entity) error {
	post, ok := entity.(*model.Post)
	if !ok {
		return nil
	}
	logger := zerolog.Ctx(ctx)

	post.OriginalFileName = desc.Name
	post.OriginalFolderPath = desc.DirectoryPath

	if IsPublishedName(desc.Name) {
		post.FileName = desc.Name
		post.FolderPath = rc.Options.Folder(desc.DirectoryPath)
		if err := restoreLinks(ctx, post, desc.FullPath+model.MetadataExtension); err != nil {
			return err
		}
		rc.Post = post
		logger.Debug().Str("post", post.FileName).Msg("installed continuation post")
		return nil
	}

	post.FileName = model.NewIdentifier() + desc.Extension
	post.FolderPath = rc.Options.Folder(rc.Options.PostGeneratePath)
	rc.Posts = append(rc.Posts, post)
	logger.Debug().
		Str("source", desc.Name).
		Str("post", post.FileName).
		Msg("queued new post")
	return nil
}

// restoreLinks reads the sidecar a previous run wrote next to a published
// post. A missing sidecar leaves the post as loaded.
func restoreLinks(ctx context.Context, post *model.Post, sidecar string) error {
	data, err := os.ReadFile(sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("reading post metadata: %w", err)
	}

	published := &model.Post{}
	if err := json.Unmarshal(data, published); err != nil {
		return errors.Errorf("parsing post metadata %s: %w", sidecar, err)
	}
	post.RestoreLinks(published)

	zerolog.Ctx(ctx).Debug().
		Str("sidecar", sidecar).
		Bool("has_previous", post.PreviousPost != nil).
		Msg("restored post links")
	return nil
}

// IsPublishedName reports whether a file name, without its extension, is a UUID
func IsPublishedName(name string) bool {
	base := name
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		base = name[:i]
	}
	_, err := uuid.Parse(base)
	return err == nil
}
