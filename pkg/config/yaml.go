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

package config

import (
	"bytes"
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	filename = strings.ToLower(strings.TrimSpace(filename))
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// 📝 Parse parses the options from YAML
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Overlay, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return &Overlay{}, nil
	}

	if m := doc.Content[0]; m.Kind == yaml.MappingNode {
		keys := make([]string, 0, len(m.Content)/2)
		for i := 0; i < len(m.Content); i += 2 {
			keys = append(keys, m.Content[i].Value)
		}
		canonical, err := canonicalKeys(keys)
		if err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
		for i, key := range canonical {
			m.Content[2*i].Value = key
		}
	}

	normalized, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	var cfg fileOptions
	decoder := yaml.NewDecoder(bytes.NewReader(normalized))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return cfg.overlay(), nil
}
