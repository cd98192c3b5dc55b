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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/pkg/config"
	"github.com/walteh/postmeta/pkg/discovery"
	"github.com/walteh/postmeta/pkg/loader"
	"github.com/walteh/postmeta/pkg/model"
	"github.com/walteh/postmeta/pkg/probe"
	"github.com/walteh/postmeta/pkg/process"
	"github.com/walteh/postmeta/pkg/run"
	"github.com/walteh/postmeta/pkg/serialize"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🔧 mockCreator forwards whatever the expectation returns
type mockCreator struct {
	mock.Mock
	forward bool
}

func (m *mockCreator) Create(ctx context.Context, chain Chain, rc *run.Context, v any) error {
	args := m.Called(chain.Index(), v)
	if err := args.Error(1); err != nil {
		return err
	}
	if !m.forward {
		return nil
	}
	return chain.Chain(ctx, args.Get(0))
}

// 🔧 mockLoader is a mock implementation of loader.Loader
type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Supports(desc probe.FileDescriptor) bool {
	return m.Called(desc.Name).Bool(0)
}

func (m *mockLoader) Load(ctx context.Context, desc probe.FileDescriptor) (*loader.FileObject, error) {
	args := m.Called(desc.Name)
	obj, _ := args.Get(0).(*loader.FileObject)
	return obj, args.Error(1)
}

// 🔧 recorder is the last stage of a test chain
type recorder struct {
	got any
}

func (r *recorder) Create(ctx context.Context, chain Chain, rc *run.Context, v any) error {
	r.got = v
	return chain.Chain(ctx, v)
}

func TestChain(t *testing.T) {
	for _, async := range []bool{false, true} {
		name := "sync"
		if async {
			name = "async"
		}

		t.Run(name+"/advances_one_stage_per_call", func(t *testing.T) {
			ctx := testContext(t)
			first := &mockCreator{forward: true}
			second := &mockCreator{forward: true}
			third := &mockCreator{forward: true}
			first.On("Create", 1, nil).Return("a", nil).Once()
			second.On("Create", 2, "a").Return("b", nil).Once()
			third.On("Create", 3, "b").Return("c", nil).Once()

			chain := New(async, []Creator{first, second, third})
			assert.Equal(t, async, chain.Async(), "variant should match")
			require.NoError(t, chain.Run(ctx, run.New(config.Default(), nil)), "run should succeed")

			assert.True(t, chain.Done(), "chain should be done")
			assert.Equal(t, 3, chain.Index(), "every stage should be invoked")
			assert.NoError(t, chain.Chain(ctx, "ignored"), "chaining past the end is a no-op")
			assert.Equal(t, 3, chain.Index(), "index should not move past the end")

			first.AssertExpectations(t)
			second.AssertExpectations(t)
			third.AssertExpectations(t)
		})

		t.Run(name+"/stage_can_short_circuit", func(t *testing.T) {
			ctx := testContext(t)
			first := &mockCreator{forward: true}
			stopper := &mockCreator{forward: false}
			never := &mockCreator{forward: true}
			first.On("Create", 1, nil).Return("a", nil).Once()
			stopper.On("Create", 2, "a").Return(nil, nil).Once()

			chain := New(async, []Creator{first, stopper, never})
			require.NoError(t, chain.Run(ctx, run.New(config.Default(), nil)))

			assert.False(t, chain.Done(), "chain should stop early")
			assert.Equal(t, 2, chain.Index(), "two stages should be invoked")
			never.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})

		t.Run(name+"/nil_stage", func(t *testing.T) {
			ctx := testContext(t)
			first := &mockCreator{forward: true}
			first.On("Create", 1, nil).Return("a", nil).Once()

			chain := New(async, []Creator{first, nil})
			err := chain.Run(ctx, run.New(config.Default(), nil))
			require.Error(t, err, "nil stage should fail")
			assert.True(t, errors.Is(err, ErrNilCreator), "error should be ErrNilCreator")
		})

		t.Run(name+"/stage_error_propagates", func(t *testing.T) {
			ctx := testContext(t)
			boom := errors.New("boom")
			first := &mockCreator{forward: true}
			failing := &mockCreator{forward: true}
			first.On("Create", 1, nil).Return("a", nil).Once()
			failing.On("Create", 2, "a").Return(nil, boom).Once()

			chain := New(async, []Creator{first, failing})
			err := chain.Run(ctx, run.New(config.Default(), nil))
			require.Error(t, err, "stage error should surface")
			assert.True(t, errors.Is(err, boom), "original error should be kept")
		})

		t.Run(name+"/run_resets_cursor", func(t *testing.T) {
			ctx := testContext(t)
			only := &mockCreator{forward: true}
			only.On("Create", 1, nil).Return(nil, nil).Twice()

			chain := New(async, []Creator{only})
			require.NoError(t, chain.Run(ctx, run.New(config.Default(), nil)))
			require.NoError(t, chain.Run(ctx, run.New(config.Default(), nil)))
			only.AssertExpectations(t)
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating directory")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing file")
}

func probeAll(t *testing.T, ctx context.Context, paths ...string) []probe.FileDescriptor {
	t.Helper()
	var descs []probe.FileDescriptor
	for _, p := range paths {
		desc, err := probe.FileProbe{}.Load(ctx, p)
		require.NoError(t, err, "probing %s", p)
		descs = append(descs, desc)
	}
	return descs
}

func TestContentCreator(t *testing.T) {
	for _, async := range []bool{false, true} {
		t.Run(map[bool]string{false: "sync", true: "async"}[async], func(t *testing.T) {
			ctx := testContext(t)
			dir := t.TempDir()
			a := filepath.Join(dir, "a.md")
			empty := filepath.Join(dir, "empty.md")
			b := filepath.Join(dir, "b.md")
			writeFile(t, a, "alpha")
			writeFile(t, empty, "")
			writeFile(t, b, "beta")

			rec := &recorder{}
			content := NewContentCreator(loader.Select(async, config.DefaultTimeout))
			chain := New(async, []Creator{content, rec})
			chain.(interface{ reset(*run.Context) }).reset(run.New(config.Default(), nil))

			require.NoError(t, chain.Chain(ctx, probeAll(t, ctx, a, empty, b)), "content should load")

			objects, ok := rec.got.([]*loader.FileObject)
			require.True(t, ok, "next stage should get file objects")
			require.Len(t, objects, 2, "empty file should be skipped")
			assert.Equal(t, "alpha", objects[0].Text(), "order should be kept")
			assert.Equal(t, "beta", objects[1].Text(), "order should be kept")
		})
	}
}

func TestContentCreator_loadFailure(t *testing.T) {
	for _, async := range []bool{false, true} {
		t.Run(map[bool]string{false: "sync", true: "async"}[async], func(t *testing.T) {
			ctx := testContext(t)
			boom := errors.New("disk on fire")

			l := &mockLoader{}
			l.On("Supports", "ok.md").Return(true)
			l.On("Supports", "bad.md").Return(true)
			l.On("Load", "ok.md").Return(&loader.FileObject{Content: []byte("ok")}, nil).Maybe()
			l.On("Load", "bad.md").Return(nil, boom)

			rec := &recorder{}
			chain := New(async, []Creator{NewContentCreator(l), rec})
			chain.(interface{ reset(*run.Context) }).reset(run.New(config.Default(), nil))

			err := chain.Chain(ctx, []probe.FileDescriptor{{Name: "ok.md"}, {Name: "bad.md", FullPath: "/x/bad.md"}})
			require.Error(t, err, "load failure should fail the stage")
			assert.True(t, errors.Is(err, boom), "original error should be kept")
			assert.Contains(t, err.Error(), "/x/bad.md", "error should name the file")
			assert.Nil(t, rec.got, "chain should not advance")
		})
	}
}

func TestContentCreator_wrongInput(t *testing.T) {
	ctx := testContext(t)
	chain := NewSync([]Creator{NewContentCreator(loader.SyncLoader{})})
	chain.reset(run.New(config.Default(), nil))

	err := chain.Chain(ctx, "not descriptors")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects file descriptors", "error should name the expectation")
}

const postDocument = `---
title: Hello
summation: first
writeDateTime: 2024-03-01 09:30:00.000
categories: [go]
thumbnail:
  fileName: a.png
  folderPath: img
  alternativeFileName: a.webp
  explanatoryText: alt
---
body
`

func TestObjectCreator(t *testing.T) {
	ctx := testContext(t)
	opts := config.Default()
	opts.PostGeneratePath = "posts"
	rc := run.New(opts, nil)

	objects := []*loader.FileObject{
		{Descriptor: probe.FileDescriptor{Name: "hello.generate.md", Extension: ".md", DirectoryPath: "/src", FullPath: "/src/hello.generate.md"}, Content: []byte(postDocument)},
		{Descriptor: probe.FileDescriptor{Name: "comprehensive.json", DirectoryPath: "/meta", FullPath: "/meta/comprehensive.json"}, Content: []byte(`{"categories":{},"categoryCount":0,"latestCategories":[],"pageCount":0,"pages":[],"postCount":0}`)},
		{Descriptor: probe.FileDescriptor{Name: "notes.md", DirectoryPath: "/src", FullPath: "/src/notes.md"}, Content: []byte("just text")},
	}

	rec := &recorder{}
	chain := NewSync([]Creator{NewObjectCreator(serialize.Default(), process.Default()), rec})
	chain.reset(rc)

	require.NoError(t, chain.Chain(ctx, objects), "object stage should succeed")

	require.Len(t, rc.Posts, 1, "post should be queued")
	assert.Equal(t, "Hello", rc.Posts[0].Title, "post should be decoded")
	assert.Equal(t, []string{"go"}, rc.Posts[0].Categories, "categories should be decoded")
	require.NotNil(t, rc.Comprehensive, "comprehensive should be installed")
	assert.Nil(t, rec.got, "object stage forwards nothing")
	assert.Equal(t, 2, chain.Index(), "chain should advance")
}

func TestObjectCreator_brokenFrontMatter(t *testing.T) {
	ctx := testContext(t)
	chain := NewSync([]Creator{NewObjectCreator(serialize.Default(), process.Default())})
	chain.reset(run.New(config.Default(), nil))

	err := chain.Chain(ctx, []*loader.FileObject{{
		Descriptor: probe.FileDescriptor{FullPath: "/src/broken.md"},
		Content:    []byte("---\ntitle: x\n"),
	}})
	require.Error(t, err, "missing closing delimiter should fail")
	assert.True(t, errors.Is(err, serialize.ErrMissingClosingDelimiter), "sentinel should be kept")
}

func TestStages(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()

	opts := config.Default()
	opts.RootDirectory = root
	opts.PostLoadPath = "src"
	opts.PostGeneratePath = "posts"
	opts.PageGeneratePath = "pages"
	opts.ComprehensiveLoadPath = "meta"

	const published = "0190d5a2-7b3c-7def-8a12-3456789abcde.md"
	writeFile(t, filepath.Join(root, "src", "new.generate.md"), postDocument)
	writeFile(t, filepath.Join(root, "posts", published), postDocument)
	writeFile(t, filepath.Join(root, "pages", "open.page.json"),
		`{"fileName":"open.page.json","folderPath":"pages","posts":[{"fileName":"`+published+`","folderPath":"posts","fullPath":"posts/`+published+`"}]}`)
	writeFile(t, filepath.Join(root, "meta", "comprehensive.json"), `{
		"categories":{},"categoryCount":0,"latestCategories":[],
		"latestPage":{"fileName":"open.page.json","folderPath":"pages","fullPath":"pages/open.page.json"},
		"latestPost":{"fileName":"`+published+`","folderPath":"posts","fullPath":"posts/`+published+`"},
		"pageCount":1,"pages":[{"fileName":"open.page.json","folderPath":"pages","fullPath":"pages/open.page.json"}],"postCount":1}`)

	for _, async := range []bool{false, true} {
		t.Run(map[bool]string{false: "sync", true: "async"}[async], func(t *testing.T) {
			rc := run.New(opts, nil)
			stages := Stages(discovery.Pre(), discovery.Post(), loader.Select(async, config.DefaultTimeout), serialize.Default(), process.Default())
			require.Len(t, stages, 6, "a run has six stages")

			chain := New(async, stages)
			require.NoError(t, chain.Run(ctx, rc), "chain should run")
			assert.True(t, chain.Done(), "every stage should run")

			require.NotNil(t, rc.Comprehensive, "comprehensive should be loaded")
			assert.Equal(t, 1, rc.Comprehensive.PostCount, "counters should be loaded")
			require.NotNil(t, rc.Page, "open page should be loaded")
			assert.Equal(t, "pages", rc.Page.FolderPath, "page folder should be relative")
			require.NotNil(t, rc.Post, "continuation post should be loaded")
			assert.Equal(t, published, rc.Post.FileName, "continuation should keep its name")
			require.Len(t, rc.Posts, 1, "one new post should be found")
			assert.Equal(t, "new.generate.md", rc.Posts[0].OriginalFileName, "new post should remember its source")
			assert.Equal(t, model.KindPost, rc.Posts[0].Kind(), "kind should be post")
		})
	}
}

func TestStages_emptyCorpus(t *testing.T) {
	ctx := testContext(t)
	opts := config.Default()
	opts.RootDirectory = t.TempDir()
	opts.PostLoadPath = "src"

	rc := run.New(opts, nil)
	chain := New(false, Stages(discovery.Pre(), discovery.Post(), loader.SyncLoader{}, serialize.Default(), process.Default()))
	require.NoError(t, chain.Run(ctx, rc), "empty corpus should not fail")
	assert.Equal(t, 1, chain.Index(), "chain should stop after discovering nothing")
	assert.Nil(t, rc.Comprehensive, "nothing should be loaded")
	assert.Empty(t, rc.Posts, "nothing should be queued")
}
