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

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// ErrMissingClosingDelimiter is returned when a document opens a front-matter
// block but never closes it
var ErrMissingClosingDelimiter = errors.New("front-matter start delimiter found but closing delimiter is missing")

// SplitFrontMatter separates the `---` delimited header from the body. had is
// false when the document does not start with a header.
func SplitFrontMatter(content []byte) (header []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte(frontMatterDelimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closing := []byte(nl + frontMatterDelimiter)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	rest := content[start+idx+len(closing):]
	switch {
	case len(rest) == 0:
	case bytes.HasPrefix(rest, []byte(nl)):
		rest = rest[len(nl):]
	default:
		// the delimiter must sit on its own line
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	return content[start:end], rest, true, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// 📑 FrontMatterDeserializer parses the YAML header of a document
type FrontMatterDeserializer struct{}

var _ Deserializer = FrontMatterDeserializer{}

func (FrontMatterDeserializer) Supports(v any) bool {
	content, ok := asBytes(v)
	if !ok {
		return false
	}
	return bytes.HasPrefix(content, []byte(frontMatterDelimiter+"\n")) ||
		bytes.HasPrefix(content, []byte(frontMatterDelimiter+"\r\n"))
}

// Deserialize returns the header as a map[string]any
func (FrontMatterDeserializer) Deserialize(v any) (any, error) {
	content, ok := asBytes(v)
	if !ok {
		return nil, errors.Errorf("front-matter source must be text, got %T", v)
	}

	header, _, _, err := SplitFrontMatter(content)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if len(header) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, errors.Errorf("parsing front-matter YAML: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func asBytes(v any) ([]byte, bool) {
	switch t := v.(type) {
	case string:
		return []byte(t), true
	case []byte:
		return t, true
	default:
		return nil, false
	}
}
