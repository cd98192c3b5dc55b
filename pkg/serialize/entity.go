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

// 🔎 shape is a named property with a required primitive kind
type shape struct {
	name  string
	check func(any) bool
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	default:
		return false
	}
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

var (
	comprehensiveShape = []shape{
		{"categories", isObject},
		{"categoryCount", isNumber},
		{"latestCategories", isArray},
		{"pageCount", isNumber},
		{"pages", isArray},
		{"postCount", isNumber},
	}

	pageShape = []shape{
		{"fileName", isString},
		{"folderPath", isString},
		{"posts", isArray},
	}

	postShape = []shape{
		{"categories", isArray},
		{"summation", isString},
		{"thumbnail", isObject},
		{"title", isString},
		{"writeDateTime", isString},
	}
)

// matches reports whether v is a plain object carrying every property of
// the shape with the expected kind
func matches(v any, shapes []shape) bool {
	fields, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, s := range shapes {
		value, ok := fields[s.name]
		if !ok || !s.check(value) {
			return false
		}
	}
	return true
}

// IsComprehensive reports whether v looks like a persisted comprehensive
func IsComprehensive(v any) bool { return matches(v, comprehensiveShape) }

// IsPage reports whether v looks like a persisted page
func IsPage(v any) bool { return matches(v, pageShape) }

// IsPost reports whether v looks like post front-matter
func IsPost(v any) bool { return matches(v, postShape) }

// decode moves a plain object into an entity through its JSON form so every
// field the entity knows is preserved
func decode(v any, into any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Errorf("encoding plain object: %w", err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return errors.Errorf("decoding %T: %w", into, err)
	}
	return nil
}

// 📚 ComprehensiveDeserializer recognises the comprehensive summary
type ComprehensiveDeserializer struct{}

func (ComprehensiveDeserializer) Supports(v any) bool { return IsComprehensive(v) }

func (ComprehensiveDeserializer) Deserialize(v any) (any, error) {
	c := model.NewComprehensive()
	if err := decode(v, c); err != nil {
		return nil, err
	}
	return c, nil
}

// 📄 PageDeserializer recognises a page
type PageDeserializer struct{}

func (PageDeserializer) Supports(v any) bool { return IsPage(v) }

func (PageDeserializer) Deserialize(v any) (any, error) {
	p := &model.Page{}
	if err := decode(v, p); err != nil {
		return nil, err
	}
	return p, nil
}

// 📝 PostDeserializer recognises post front-matter
type PostDeserializer struct{}

func (PostDeserializer) Supports(v any) bool { return IsPost(v) }

func (PostDeserializer) Deserialize(v any) (any, error) {
	p := &model.Post{}
	if err := decode(v, p); err != nil {
		return nil, err
	}
	return p, nil
}
