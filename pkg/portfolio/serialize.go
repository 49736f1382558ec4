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
	"encoding/json"
	"fmt"

	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	k8syaml "sigs.k8s.io/yaml"
)

// wireDoc is the packed single-document representation: the type tag plus
// the document's own JSON encoding, so Deserialize can pick the right
// concrete type out of the sealed union before unmarshaling into it.
type wireDoc struct {
	Type document.TypeTag `json:"type"`
	Data json.RawMessage  `json:"data"`
}

// Serialize packs a single document with its type tag.
func Serialize(doc document.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("portfolio: serialize: %w", err)
	}
	return json.Marshal(wireDoc{Type: doc.TypeTag(), Data: data})
}

// Deserialize unpacks a document produced by Serialize, using the type tag
// to select the concrete document class from the registry before decoding
// into it.
func Deserialize(b []byte) (document.Document, error) {
	var w wireDoc
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("portfolio: deserialize: %w", err)
	}
	doc := document.New(w.Type)
	if doc == nil {
		return nil, fmt.Errorf("portfolio: deserialize: unknown document type tag %d", w.Type)
	}
	if err := json.Unmarshal(w.Data, doc); err != nil {
		return nil, fmt.Errorf("portfolio: deserialize: %w", err)
	}
	return doc, nil
}

func serializeAll[T document.Document](docs []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		b, err := Serialize(d)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// wireSet is the on-the-wire shape Exports/Imports use: every portfolio set,
// each member packed through Serialize.
type wireSet struct {
	Entity   json.RawMessage   `json:"entity,omitempty"`
	Profile  json.RawMessage   `json:"profile,omitempty"`
	PrivKeys json.RawMessage   `json:"privkeys,omitempty"`
	Keys     []json.RawMessage `json:"keys,omitempty"`
	Domain   json.RawMessage   `json:"domain,omitempty"`
	Nodes    []json.RawMessage `json:"nodes,omitempty"`
	Network  json.RawMessage   `json:"network,omitempty"`

	IssuerVerified []json.RawMessage `json:"issuer_verified,omitempty"`
	IssuerTrusted  []json.RawMessage `json:"issuer_trusted,omitempty"`
	IssuerRevoked  []json.RawMessage `json:"issuer_revoked,omitempty"`
	OwnerVerified  []json.RawMessage `json:"owner_verified,omitempty"`
	OwnerTrusted   []json.RawMessage `json:"owner_trusted,omitempty"`
	OwnerRevoked   []json.RawMessage `json:"owner_revoked,omitempty"`
}

// Exports assembles both the issuer- and owner-side sets of a
// PrivatePortfolio into a single packed byte stream.
func Exports(pp *PrivatePortfolio) ([]byte, error) {
	var w wireSet
	var err error

	if pp.Entity != nil {
		if w.Entity, err = Serialize(pp.Entity); err != nil {
			return nil, err
		}
	}
	if pp.Profile != nil {
		if w.Profile, err = Serialize(pp.Profile); err != nil {
			return nil, err
		}
	}
	if pp.PrivKeys != nil {
		if w.PrivKeys, err = Serialize(pp.PrivKeys); err != nil {
			return nil, err
		}
	}
	if w.Keys, err = serializeAll(pp.Keys); err != nil {
		return nil, err
	}
	if pp.Domain != nil {
		if w.Domain, err = Serialize(pp.Domain); err != nil {
			return nil, err
		}
	}
	if w.Nodes, err = serializeAll(pp.Nodes); err != nil {
		return nil, err
	}
	if pp.Network != nil {
		if w.Network, err = Serialize(pp.Network); err != nil {
			return nil, err
		}
	}
	if w.IssuerVerified, err = serializeAll(pp.IssuerVerified); err != nil {
		return nil, err
	}
	if w.IssuerTrusted, err = serializeAll(pp.IssuerTrusted); err != nil {
		return nil, err
	}
	if w.IssuerRevoked, err = serializeAll(pp.IssuerRevoked); err != nil {
		return nil, err
	}
	if w.OwnerVerified, err = serializeAll(pp.OwnerVerified); err != nil {
		return nil, err
	}
	if w.OwnerTrusted, err = serializeAll(pp.OwnerTrusted); err != nil {
		return nil, err
	}
	if w.OwnerRevoked, err = serializeAll(pp.OwnerRevoked); err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// Imports is the inverse of Exports, reconstructing a PrivatePortfolio.
// Callers that only hold a Portfolio's share (no privkeys/domain/nodes) may
// ignore those fields on the result.
func Imports(b []byte) (*PrivatePortfolio, error) {
	var w wireSet
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("portfolio: imports: %w", err)
	}

	pp := &PrivatePortfolio{}
	var err error

	if len(w.Entity) > 0 {
		if pp.Entity, err = Deserialize(w.Entity); err != nil {
			return nil, err
		}
	}
	if len(w.Profile) > 0 {
		if pp.Profile, err = Deserialize(w.Profile); err != nil {
			return nil, err
		}
	}
	if len(w.PrivKeys) > 0 {
		priv, err := Deserialize(w.PrivKeys)
		if err != nil {
			return nil, err
		}
		pk, ok := priv.(*document.PrivateKeys)
		if !ok {
			return nil, fmt.Errorf("portfolio: imports: privkeys tag did not decode to PrivateKeys")
		}
		pp.PrivKeys = pk
	}
	if pp.Keys, err = importKeys(w.Keys); err != nil {
		return nil, err
	}
	if len(w.Domain) > 0 {
		dom, err := Deserialize(w.Domain)
		if err != nil {
			return nil, err
		}
		d, ok := dom.(*document.Domain)
		if !ok {
			return nil, fmt.Errorf("portfolio: imports: domain tag did not decode to Domain")
		}
		pp.Domain = d
	}
	if pp.Nodes, err = importNodes(w.Nodes); err != nil {
		return nil, err
	}
	if len(w.Network) > 0 {
		net, err := Deserialize(w.Network)
		if err != nil {
			return nil, err
		}
		n, ok := net.(*document.Network)
		if !ok {
			return nil, fmt.Errorf("portfolio: imports: network tag did not decode to Network")
		}
		pp.Network = n
	}
	if pp.IssuerVerified, err = importVerified(w.IssuerVerified); err != nil {
		return nil, err
	}
	if pp.IssuerTrusted, err = importTrusted(w.IssuerTrusted); err != nil {
		return nil, err
	}
	if pp.IssuerRevoked, err = importRevoked(w.IssuerRevoked); err != nil {
		return nil, err
	}
	if pp.OwnerVerified, err = importVerified(w.OwnerVerified); err != nil {
		return nil, err
	}
	if pp.OwnerTrusted, err = importTrusted(w.OwnerTrusted); err != nil {
		return nil, err
	}
	if pp.OwnerRevoked, err = importRevoked(w.OwnerRevoked); err != nil {
		return nil, err
	}
	return pp, nil
}

func importKeys(raw []json.RawMessage) ([]*document.Keys, error) {
	out := make([]*document.Keys, 0, len(raw))
	for _, r := range raw {
		d, err := Deserialize(r)
		if err != nil {
			return nil, err
		}
		k, ok := d.(*document.Keys)
		if !ok {
			return nil, fmt.Errorf("portfolio: imports: keys entry did not decode to Keys")
		}
		out = append(out, k)
	}
	return out, nil
}

func importNodes(raw []json.RawMessage) ([]*document.Node, error) {
	out := make([]*document.Node, 0, len(raw))
	for _, r := range raw {
		d, err := Deserialize(r)
		if err != nil {
			return nil, err
		}
		n, ok := d.(*document.Node)
		if !ok {
			return nil, fmt.Errorf("portfolio: imports: node entry did not decode to Node")
		}
		out = append(out, n)
	}
	return out, nil
}

func importVerified(raw []json.RawMessage) ([]*document.Verified, error) {
	out := make([]*document.Verified, 0, len(raw))
	for _, r := range raw {
		d, err := Deserialize(r)
		if err != nil {
			return nil, err
		}
		v, ok := d.(*document.Verified)
		if !ok {
			return nil, fmt.Errorf("portfolio: imports: verified entry did not decode to Verified")
		}
		out = append(out, v)
	}
	return out, nil
}

func importTrusted(raw []json.RawMessage) ([]*document.Trusted, error) {
	out := make([]*document.Trusted, 0, len(raw))
	for _, r := range raw {
		d, err := Deserialize(r)
		if err != nil {
			return nil, err
		}
		t, ok := d.(*document.Trusted)
		if !ok {
			return nil, fmt.Errorf("portfolio: imports: trusted entry did not decode to Trusted")
		}
		out = append(out, t)
	}
	return out, nil
}

func importRevoked(raw []json.RawMessage) ([]*document.Revoked, error) {
	out := make([]*document.Revoked, 0, len(raw))
	for _, r := range raw {
		d, err := Deserialize(r)
		if err != nil {
			return nil, err
		}
		rv, ok := d.(*document.Revoked)
		if !ok {
			return nil, fmt.Errorf("portfolio: imports: revoked entry did not decode to Revoked")
		}
		out = append(out, rv)
	}
	return out, nil
}

// FileIdent renders the storage collaborator's filename for a document:
// "{uuid}{ext}" using the fixed type-tag extension table.
func FileIdent(doc document.Document) string {
	return doc.Meta().ID.String() + doc.TypeTag().Extension()
}

// DumpYAML renders Exports' packed JSON wire form as YAML, for an operator
// inspecting or hand-editing a portfolio dump -- sigs.k8s.io/yaml round-trips
// through the same struct tags Exports/Imports already use, so this needs
// no parallel set of yaml tags on wireSet.
func DumpYAML(pp *PrivatePortfolio) ([]byte, error) {
	packed, err := Exports(pp)
	if err != nil {
		return nil, err
	}
	out, err := k8syaml.JSONToYAML(packed)
	if err != nil {
		return nil, fmt.Errorf("portfolio: dump yaml: %w", err)
	}
	return out, nil
}

// LoadYAML is DumpYAML's inverse.
func LoadYAML(b []byte) (*PrivatePortfolio, error) {
	packed, err := k8syaml.YAMLToJSON(b)
	if err != nil {
		return nil, fmt.Errorf("portfolio: load yaml: %w", err)
	}
	return Imports(packed)
}
