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
	"bytes"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// 🧱 ObjectDeserializer decodes JSON looking text into a plain object
type ObjectDeserializer struct{}

var _ Deserializer = ObjectDeserializer{}

func (ObjectDeserializer) Supports(v any) bool {
	content, ok := asBytes(v)
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(content)
	return len(trimmed) >= 2 && trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}'
}

func (ObjectDeserializer) Deserialize(v any) (any, error) {
	content, ok := asBytes(v)
	if !ok {
		return nil, errors.Errorf("object source must be text, got %T", v)
	}

	var fields map[string]any
	if err := json.Unmarshal(content, &fields); err != nil {
		return nil, errors.Errorf("decoding JSON object: %w", err)
	}
	return fields, nil
}
