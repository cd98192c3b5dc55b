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

package serialize

import (
	"encoding/json"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/pkg/model"
)

// Indent is the JSON indentation of every written metadata file
const Indent = "    "

// ErrUnserializable is returned when a serializer is handed a value it does
// not render
var ErrUnserializable = errors.New("value cannot be serialized")

// 🖨️ Serializer renders a metadata entity
type Serializer interface {
	Supports(v any) bool
	Serialize(v any) ([]byte, error)
}

func render(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", Indent)
	if err != nil {
		return nil, errors.Errorf("encoding JSON: %w", err)
	}
	return data, nil
}

func unserializable(v any) error {
	return errors.Errorf("%w: %T", ErrUnserializable, v)
}

// ComprehensiveSerializer renders *model.Comprehensive
type ComprehensiveSerializer struct{}

func (ComprehensiveSerializer) Supports(v any) bool {
	c, ok := v.(*model.Comprehensive)
	return ok && c != nil
}

func (s ComprehensiveSerializer) Serialize(v any) ([]byte, error) {
	if !s.Supports(v) {
		return nil, unserializable(v)
	}
	return render(v)
}

// PageSerializer renders *model.Page
type PageSerializer struct{}

func (PageSerializer) Supports(v any) bool {
	p, ok := v.(*model.Page)
	return ok && p != nil
}

func (s PageSerializer) Serialize(v any) ([]byte, error) {
	if !s.Supports(v) {
		return nil, unserializable(v)
	}
	return render(v)
}

// PostSerializer renders *model.Post
type PostSerializer struct{}

func (PostSerializer) Supports(v any) bool {
	p, ok := v.(*model.Post)
	return ok && p != nil
}

func (s PostSerializer) Serialize(v any) ([]byte, error) {
	if !s.Supports(v) {
		return nil, unserializable(v)
	}
	return render(v)
}
