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

// Package document implements the base document model: the type-tag union,
// the common header fields every document carries, and the three-shape
// export walker. Concrete document types (entity.go, keys.go, network.go,
// statement.go, envelope.go, message.go, profile.go) embed the mixins
// declared here; Go's struct embedding is the field-accumulation mechanism
// the spec's Design Notes call for in place of a runtime metaclass -- field
// order is the embedding-then-declaration order, fixed at compile time.
package document

import (
	"fmt"
	"net"
	"reflect"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"knative.dev/pkg/apis"
	k8syaml "sigs.k8s.io/yaml"
)

// TypeTag is the small, stable integer identifying a concrete document
// class, used both for structural validation (DocumentInvalidType) and as
// the tag a serialized document carries so deserialize can pick the right
// concrete type out of the sealed union.
type TypeTag int

const (
	TypeNone            TypeTag = 0
	TypeKeysPrivate     TypeTag = 1
	TypeKeys            TypeTag = 10
	TypeEntityPerson    TypeTag = 20
	TypeEntityMinistry  TypeTag = 21
	TypeEntityChurch    TypeTag = 22
	TypeProfilePerson   TypeTag = 30
	TypeProfileMinistry TypeTag = 31
	TypeProfileChurch   TypeTag = 32
	TypeNetDomain       TypeTag = 40
	TypeNetNode         TypeTag = 41
	TypeNetNetwork      TypeTag = 42
	TypeStatVerified    TypeTag = 50
	TypeStatTrusted     TypeTag = 51
	TypeStatRevoked     TypeTag = 52
	TypeComEnvelope     TypeTag = 60
	TypeComNote         TypeTag = 70
	TypeComInstant      TypeTag = 71
	TypeComMail         TypeTag = 72
	TypeComShare        TypeTag = 73
	TypeComReport       TypeTag = 74
	TypeCachedMsg       TypeTag = 700
)

// extensions is the file-identifier extension table from the spec's
// External Interfaces section. Message variants collapse to the empty
// string: they are never written to storage directly, only inside an
// Envelope or a StoredLetter.
var extensions = map[TypeTag]string{
	TypeKeysPrivate:     ".pky",
	TypeKeys:            ".key",
	TypeEntityPerson:    ".ent",
	TypeEntityMinistry:  ".ent",
	TypeEntityChurch:    ".ent",
	TypeProfilePerson:   ".pfl",
	TypeProfileMinistry: ".pfl",
	TypeProfileChurch:   ".pfl",
	TypeNetDomain:       ".dmn",
	TypeNetNode:         ".nod",
	TypeNetNetwork:      ".net",
	TypeStatVerified:    ".ver",
	TypeStatTrusted:     ".rst",
	TypeStatRevoked:     ".rev",
	TypeComEnvelope:     ".env",
	TypeComNote:         "",
	TypeComInstant:      "",
	TypeComMail:         "",
	TypeComShare:        "",
	TypeComReport:       "",
	TypeCachedMsg:       ".cmsg",
}

// Extension returns the storage file extension for the tag, or "" for
// document kinds that are never stored as standalone files.
func (t TypeTag) Extension() string { return extensions[t] }

// CheckType enforces DocumentInvalidType: the document's own type tag field
// (mutable, and so checkable even on data decoded from an untrusted byte
// stream) must equal the concrete type's expected constant.
func (h Header) CheckType(want TypeTag) *apis.FieldError {
	if h.Type != want {
		return apis.ErrInvalidValue(int(h.Type), "type", fmt.Sprintf("expected type tag %d", int(want)))
	}
	return nil
}

// Record is implemented by every exportable value: documents and the
// plain nested records (Host, Location, Attachment) that appear inside
// them. Export walks Native() recursively.
type Record interface {
	Native() map[string]interface{}
}

// Document is the sealed union every concrete document type implements.
// Validate walks the ancestor chain in declaration order by calling each
// embedded mixin's own check, composing results with apis.FieldError.Also --
// see each concrete type's Validate method.
type Document interface {
	Record
	Meta() *Header
	TypeTag() TypeTag
	Validate() *apis.FieldError
}

// Header is the field set every document carries: a stable 128-bit
// identifier assigned at creation, and the created/expires date pair.
type Header struct {
	ID      uuid.UUID
	Type    TypeTag
	Created field.Date
	Expires field.Date
}

// Updatable is embedded by the mutable, renewable document kinds (entities,
// domain, node, network): an optional `updated` date.
type Updatable struct {
	Updated field.Date
}

// Touched is the date used for expiry and key-overlap checks: `updated` if
// set, else `created`.
func (u Updatable) Touched(created field.Date) field.Date {
	if !u.Updated.IsZero() {
		return u.Updated
	}
	return created
}

// SetUpdated and SetExpires let pkg/policy's renewal flow mutate the
// touch/expiry fields of any concrete document generically, without a
// type switch over every renewable variant.
func (u *Updatable) SetUpdated(d field.Date) { u.Updated = d }
func (h *Header) SetExpires(d field.Date)    { h.Expires = d }

// Updater is implemented by every document embedding Updatable.
type Updater interface {
	SetUpdated(d field.Date)
}

// Issued is embedded by every document that is issued by an entity.
type Issued struct {
	Issuer uuid.UUID
}

// Owned is embedded by documents that additionally name the entity they are
// about: Verified and Trusted statements.
type Owned struct {
	Owner uuid.UUID
}

// Signed is embedded by documents that carry a single signature.
type Signed struct {
	Sig field.Signature
}

// MultiSigned is embedded by Keys, which may carry signatures from both an
// outgoing and an incoming private key during rotation.
type MultiSigned struct {
	Sigs [][]byte
	redo bool
}

func (m *MultiSigned) MarkForRedo() { m.redo = true }
func (m *MultiSigned) Redo() bool   { return m.redo }
func (m *MultiSigned) Append(sig []byte) {
	m.Sigs = append(m.Sigs, sig)
	m.redo = false
}

// Converter selects which of the four canonical export shapes a walk
// produces.
type Converter int

const (
	ConvNative Converter = iota
	ConvString
	ConvBytes
	// ConvYAML renders the inspectable shape the spec's External
	// Interfaces section calls for: bytes as base64, integers as ints,
	// UUIDs/dates as strings. Never used as a signing surface.
	ConvYAML
)

// Export produces a document's export map in the given shape, recursing
// into nested records and preserving list order (lists are never sorted;
// only the canonicalization layer, on top of this, sorts map keys).
func Export(d Document, conv Converter) map[string]interface{} {
	out, _ := exportValue(conv, d.Native()).(map[string]interface{})
	return out
}

// ExportRecord is Export's counterpart for plain nested records (such as
// EnvelopeHeader) that are not themselves a sealed Document.
func ExportRecord(r Record, conv Converter) map[string]interface{} {
	out, _ := exportValue(conv, r.Native()).(map[string]interface{})
	return out
}

// YAML renders d in the ConvYAML shape as YAML, for an operator inspecting
// a single document by hand. This is always derived from the export walk,
// never from the JSON wire form pkg/portfolio's Serialize uses -- the two
// are distinct concerns that happen to agree on most scalar shapes.
func YAML(d Document) ([]byte, error) {
	m := Export(d, ConvYAML)
	out, err := k8syaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("document: yaml export: %w", err)
	}
	return out, nil
}

func exportValue(conv Converter, v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case []byte:
		if conv == ConvYAML {
			return field.BytesBase64(x)
		}
		return x
	case uuid.UUID:
		return exportUUID(conv, x)
	case field.Date:
		return exportDate(conv, x)
	case field.Instant:
		return exportInstant(conv, x)
	case net.IP:
		return exportIP(conv, x)
	case field.Signature:
		if conv == ConvYAML {
			return field.BytesBase64(x.Bytes)
		}
		return x.Bytes
	case string:
		if conv == ConvBytes {
			return field.StringBytes(x)
		}
		return x
	case TypeTag:
		return exportType(conv, int(x))
	case int:
		return exportType(conv, x)
	case Record:
		return exportValue(conv, x.Native())
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, vv := range x {
			out[k] = exportValue(conv, vv)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		if rv.IsNil() {
			return []interface{}{}
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = exportValue(conv, rv.Index(i).Interface())
		}
		return out
	}
	return v
}

func exportUUID(conv Converter, v uuid.UUID) interface{} {
	switch conv {
	case ConvString, ConvYAML:
		if v == uuid.Nil {
			return ""
		}
		return v.String()
	case ConvBytes:
		return field.UUIDBytes(v)
	default:
		return v
	}
}

func exportDate(conv Converter, v field.Date) interface{} {
	switch conv {
	case ConvString, ConvYAML:
		return v.String()
	case ConvBytes:
		return field.DateBytes(v)
	default:
		return v
	}
}

func exportInstant(conv Converter, v field.Instant) interface{} {
	switch conv {
	case ConvString, ConvYAML:
		return v.String()
	case ConvBytes:
		return field.DateTimeBytes(v)
	default:
		return v
	}
}

func exportIP(conv Converter, v net.IP) interface{} {
	switch conv {
	case ConvString, ConvYAML:
		if v == nil {
			return ""
		}
		return v.String()
	case ConvBytes:
		return field.IPBytes(v)
	default:
		return v
	}
}

func exportType(conv Converter, v int) interface{} {
	switch conv {
	case ConvString:
		return v
	case ConvBytes:
		return field.TypeBytes(v)
	default:
		return v
	}
}

// IssuerHolder is implemented by every document embedding Issued, letting
// pkg/crypto read the issuer field generically across concrete types.
type IssuerHolder interface {
	GetIssuer() uuid.UUID
}

func (i Issued) GetIssuer() uuid.UUID { return i.Issuer }

// OwnerHolder is implemented by every document embedding Owned, letting
// pkg/policy read the owner field generically across concrete types.
type OwnerHolder interface {
	GetOwner() uuid.UUID
}

func (o Owned) GetOwner() uuid.UUID { return o.Owner }

// SingleSigner is implemented by documents embedding Signed.
type SingleSigner interface {
	Signature() field.Signature
	SetSignature(b []byte)
	ClearSignature()
}

func (s *Signed) Signature() field.Signature { return s.Sig }
func (s *Signed) SetSignature(b []byte)      { s.Sig.Set(b) }
func (s *Signed) ClearSignature()            { s.Sig.MarkForRedo() }

// MultiSigner is implemented by documents embedding MultiSigned (Keys).
type MultiSigner interface {
	Signatures() [][]byte
	AppendSignature(b []byte)
	Redo() bool
	MarkForRedo()
}

func (m *MultiSigned) Signatures() [][]byte { return m.Sigs }
func (m *MultiSigned) AppendSignature(b []byte) { m.Append(b) }

// Factory constructs a zero-valued concrete document for a type tag, used
// by Deserialize to pick the right type out of the sealed union.
type Factory func() Document

var registry = map[TypeTag]Factory{}

// Register adds a concrete type's factory to the registry. Concrete types
// call this from an init() function.
func Register(t TypeTag, f Factory) {
	registry[t] = f
}

// New returns a zero-valued document for the tag, or nil if the tag is
// unknown.
func New(t TypeTag) Document {
	f, ok := registry[t]
	if !ok {
		return nil
	}
	return f()
}
