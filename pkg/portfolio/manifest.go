// Copyright 2022 The Sigstore Authors.
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

package portfolio

import (
	"fmt"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"
)

// manifest is the on-disk, human-editable shape of a named group: a list
// of field tags. This is a distinct concern from a document's own
// YAML export (document.YAML in pkg/apis/document) -- a manifest describes which
// fields a group admits, never a document's field values.
type manifest struct {
	Name   string   `yaml:"name"`
	Fields []string `yaml:"fields"`
}

// DumpManifest renders a named group as a YAML manifest, the shape an
// operator would hand-edit to define a custom sharing group alongside the
// canonical ones this package predefines.
func DumpManifest(name string, g Group) ([]byte, error) {
	m := manifest{Name: name, Fields: g.List()}
	return yaml.Marshal(m)
}

// LoadManifest parses a YAML manifest back into a named group.
func LoadManifest(b []byte) (string, Group, error) {
	var m manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return "", nil, fmt.Errorf("portfolio: load manifest: %w", err)
	}
	return m.Name, sets.NewString(m.Fields...), nil
}
