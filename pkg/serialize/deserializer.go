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

// Package serialize converts loaded file content into metadata entities and
// back into JSON.
//
// Deserialization is a chain: every deserializer that claims the current
// value transforms it and hands the result to the next one. A markdown post
// is first reduced to its front-matter map and then recognised as a post; a
// page file is first decoded from JSON and then recognised as a page.
package serialize

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Deserializer transforms a value it recognises
type Deserializer interface {
	// Supports reports whether the value can be transformed
	Supports(v any) bool
	// Deserialize transforms the value
	Deserialize(v any) (any, error)
}

// ⛓️ Chain applies deserializers left to right
type Chain []Deserializer

// 🏭 Default returns the standard chain: front-matter, JSON object, then the
// comprehensive, page and post recognisers
func Default() Chain {
	return Chain{
		FrontMatterDeserializer{},
		ObjectDeserializer{},
		ComprehensiveDeserializer{},
		PageDeserializer{},
		PostDeserializer{},
	}
}

// Deserialize runs every supporting deserializer in order
func (c Chain) Deserialize(ctx context.Context, v any) (any, error) {
	logger := zerolog.Ctx(ctx)
	for _, d := range c {
		if !d.Supports(v) {
			continue
		}
		out, err := d.Deserialize(v)
		if err != nil {
			return nil, errors.Errorf("deserializing with %T: %w", d, err)
		}
		logger.Debug().Str("deserializer", typeName(d)).Msg("value transformed")
		v = out
	}
	return v, nil
}

func typeName(v any) string {
	switch v.(type) {
	case FrontMatterDeserializer:
		return "front_matter"
	case ObjectDeserializer:
		return "object"
	case ComprehensiveDeserializer:
		return "comprehensive"
	case PageDeserializer:
		return "page"
	case PostDeserializer:
		return "post"
	default:
		return "custom"
	}
}
