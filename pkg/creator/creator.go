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

package creator

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/postmeta/pkg/discovery"
	"github.com/walteh/postmeta/pkg/loader"
	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/probe"
	"github.com/walteh/postmeta/pkg/process"
	"github.com/walteh/postmeta/pkg/run"
	"github.com/walteh/postmeta/pkg/serialize"
)

// 🏗️ Stages builds the fixed stage order of a run:
// pre-context, content, object, post-context, content, object
func Stages(pre, post []discovery.Factory, l loader.Loader, d serialize.Chain, p []process.Processor) []Creator {
	content := NewContentCreator(l)
	object := NewObjectCreator(d, p)
	return []Creator{
		NewContextCreator(pre),
		content,
		object,
		NewContextCreator(post),
		content,
		object,
	}
}

// 🔍 ContextCreator probes every path its factories resolve
type ContextCreator struct {
	factories []discovery.Factory
	probe     probe.FileProbe
}

// 🏭 NewContextCreator creates a context stage
func NewContextCreator(factories []discovery.Factory) *ContextCreator {
	return &ContextCreator{factories: factories}
}

// Create forwards the descriptors of every existing path. Nothing found ends
// the chain.
func (c *ContextCreator) Create(ctx context.Context, chain Chain, rc *run.Context, v any) error {
	logger := zerolog.Ctx(ctx)

	var descs []probe.FileDescriptor
	for _, f := range c.factories {
		paths, err := f.Resolve(ctx, rc)
		if err != nil {
			return errors.Errorf("resolving %s paths: %w", f.Name(), err)
		}
		for _, path := range paths {
			if probe.IsEmpty(path) {
				continue
			}
			if !c.probe.Supports(path) {
				logger.Debug().Str("factory", f.Name()).Str("path", path).Msg("path does not exist, skipping")
				continue
			}
			desc, err := c.probe.Load(ctx, path)
			if err != nil {
				return errors.Errorf("probing %s: %w", path, err)
			}
			descs = append(descs, desc)
		}
	}

	if len(descs) == 0 {
		logger.Debug().Int("stage", chain.Index()).Msg("no files discovered, ending chain")
		return nil
	}
	return chain.Chain(ctx, descs)
}

// 📥 ContentCreator loads the bytes of every supported descriptor
type ContentCreator struct {
	loader loader.Loader
}

// 🏭 NewContentCreator creates a content stage
func NewContentCreator(l loader.Loader) *ContentCreator {
	return &ContentCreator{loader: l}
}

// Create loads every descriptor the loader supports, in input order
func (c *ContentCreator) Create(ctx context.Context, chain Chain, rc *run.Context, v any) error {
	descs, ok := v.([]probe.FileDescriptor)
	if !ok && v != nil {
		return errors.Errorf("content stage expects file descriptors, got %T", v)
	}

	var objects []*loader.FileObject
	var err error
	if chain.Async() {
		objects, err = c.loadConcurrently(ctx, descs)
	} else {
		objects, err = c.loadSequentially(ctx, descs)
	}
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Int("descriptors", len(descs)).Int("loaded", len(objects)).Msg("content loaded")
	return chain.Chain(ctx, objects)
}

func (c *ContentCreator) supported(ctx context.Context, desc probe.FileDescriptor) bool {
	if c.loader.Supports(desc) {
		return true
	}
	zerolog.Ctx(ctx).Debug().Str("path", desc.FullPath).Int64("size", desc.Size).Msg("file not loadable, skipping")
	return false
}

func (c *ContentCreator) loadSequentially(ctx context.Context, descs []probe.FileDescriptor) ([]*loader.FileObject, error) {
	objects := make([]*loader.FileObject, 0, len(descs))
	for _, desc := range descs {
		if !c.supported(ctx, desc) {
			continue
		}
		obj, err := c.loader.Load(ctx, desc)
		if err != nil {
			return nil, errors.Errorf("loading %s: %w", desc.FullPath, err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// loadConcurrently keeps each payload at its descriptor's index; a failed
// load does not cancel its siblings
func (c *ContentCreator) loadConcurrently(ctx context.Context, descs []probe.FileDescriptor) ([]*loader.FileObject, error) {
	results := make([]*loader.FileObject, len(descs))

	var g errgroup.Group
	for i, desc := range descs {
		if !c.supported(ctx, desc) {
			continue
		}
		i, desc := i, desc
		g.Go(func() error {
			obj, err := c.loader.Load(ctx, desc)
			if err != nil {
				return errors.Errorf("loading %s: %w", desc.FullPath, err)
			}
			results[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	objects := make([]*loader.FileObject, 0, len(results))
	for _, obj := range results {
		if obj != nil {
			objects = append(objects, obj)
		}
	}
	return objects, nil
}

// 🧩 ObjectCreator deserializes payloads and hands the entities to the
// processors
type ObjectCreator struct {
	deserializers serialize.Chain
	processors    []process.Processor
}

// 🏭 NewObjectCreator creates an object stage
func NewObjectCreator(d serialize.Chain, p []process.Processor) *ObjectCreator {
	return &ObjectCreator{deserializers: d, processors: p}
}

type entityPair struct {
	entity model.Entity
	desc   probe.FileDescriptor
}

// Create deserializes every payload first, then runs the processors over
// every recognised entity
func (c *ObjectCreator) Create(ctx context.Context, chain Chain, rc *run.Context, v any) error {
	logger := zerolog.Ctx(ctx)

	objects, ok := v.([]*loader.FileObject)
	if !ok && v != nil {
		return errors.Errorf("object stage expects file objects, got %T", v)
	}

	pairs := make([]entityPair, 0, len(objects))
	for _, obj := range objects {
		out, err := c.deserializers.Deserialize(ctx, obj.Content)
		if err != nil {
			return errors.Errorf("deserializing %s: %w", obj.Descriptor.FullPath, err)
		}
		entity, ok := out.(model.Entity)
		if !ok {
			logger.Debug().Str("path", obj.Descriptor.FullPath).Str("type", typeOf(out)).Msg("payload is not an entity, skipping")
			continue
		}
		pairs = append(pairs, entityPair{entity: entity, desc: obj.Descriptor})
	}

	for _, pair := range pairs {
		for _, p := range c.processors {
			if err := p.Process(ctx, rc, pair.desc, pair.entity); err != nil {
				return errors.Errorf("processing %s: %w", pair.desc.FullPath, err)
			}
		}
		logger.Debug().Str("path", pair.desc.FullPath).Stringer("kind", pair.entity.Kind()).Msg("entity processed")
	}

	return chain.Chain(ctx, nil)
}

func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case map[string]any:
		return "object"
	case string, []byte:
		return "text"
	default:
		return "other"
	}
}
