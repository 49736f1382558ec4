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

// Package field implements the typed field system: per-kind validation,
// and the three canonical converters (native, string, bytes) that the
// document model uses to build and export documents.
package field

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"net"
	"net/mail"
	"regexp"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/timestamppb"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/sets"
	"knative.dev/pkg/apis"
)

// Kind identifies the admitted Go type for a field, mirroring the "admitted
// type set" a field descriptor carries in the source model.
type Kind int

const (
	KindUUID Kind = iota
	KindDate
	KindDateTime
	KindIP
	KindString
	KindBinary
	KindSignature
	KindType
	KindChoice
	KindRegex
	KindEmail
	KindDocument
)

// Descriptor is the per-field metadata: default, required, multiple, and the
// admitted kind. It is the Go stand-in for the source's runtime field
// descriptor. The document types in pkg/apis/document do not build
// Descriptors: they call the Validate* functions below directly and gather
// their fields through struct embedding.
type Descriptor struct {
	Name     string
	Kind     Kind
	Required bool
	Multiple bool
	// Choices constrains KindChoice values to an enumerated set.
	Choices sets.String
	// Regex constrains KindRegex/KindEmail values.
	Regex *regexp.Regexp
	// Limit bounds KindBinary/KindSignature byte length; 0 means unbounded.
	Limit int
}

// Date is a calendar-date field value (DateField). It is a distinct Go type
// from Instant so that document export can pick the right byte/string
// rendering without consulting a separate field descriptor.
type Date struct{ time.Time }

func NewDate(t time.Time) Date { return Date{t.UTC().Truncate(24 * time.Hour)} }

func (d Date) IsZero() bool  { return d.Time.IsZero() }
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format("2006-01-02")
}
func (d Date) AddDate(years, months, days int) Date {
	return NewDate(d.Time.AddDate(years, months, days))
}

// Meta renders d as a metav1.Time, the wire type the teacher's
// SigstoreKeys config uses for calendar-granularity timestamps. Nothing
// in this document model reaches Kubernetes, but a caller embedding a
// document's dates in a ConfigMap-shaped payload wants this conversion
// available rather than hand-rolled. Nothing in this module calls it.
func (d Date) Meta() metav1.Time { return metav1.NewTime(d.Time) }

// Instant is a date-time field value (DateTimeField).
type Instant struct{ time.Time }

func NewInstant(t time.Time) Instant { return Instant{t.UTC()} }

func (i Instant) IsZero() bool   { return i.Time.IsZero() }
func (i Instant) String() string {
	if i.IsZero() {
		return ""
	}
	return i.Time.Format(time.RFC3339Nano)
}

// Proto renders i as a protobuf well-known Timestamp, matching the
// teacher's SigstoreKeys trust-root timestamps (pbcommon.TimeRange,
// via timestamppb.Timestamp).
func (i Instant) Proto() *timestamppb.Timestamp { return timestamppb.New(i.Time) }

// Redoable is implemented by the signature field wrapper so that a pending
// re-sign can temporarily relax the required-field check (the source's
// "redo" flag).
type Redoable interface {
	Redo() bool
}

// Signature is the value held by a SignatureField: opaque bytes plus the
// redo flag that suspends the required check while re-signing.
type Signature struct {
	Bytes []byte
	redo  bool
}

func (s Signature) Redo() bool { return s.redo }

// MarkForRedo clears the stored bytes and sets redo, matching sign()'s
// "clear the signature field's redo flag" step run in reverse before
// a resign.
func (s *Signature) MarkForRedo() {
	s.Bytes = nil
	s.redo = true
}

// Set installs a freshly computed signature and clears redo.
func (s *Signature) Set(b []byte) {
	s.Bytes = b
	s.redo = false
}

// RequireNonEmpty validates the FieldNotSet rule, honoring redo.
func RequireNonEmpty(name string, set bool, required bool, redo bool) *apis.FieldError {
	if required && !set && !redo {
		return apis.ErrMissingField(name)
	}
	return nil
}

// ValidateUUID checks a 128-bit identifier is present when required.
func ValidateUUID(name string, v uuid.UUID, required bool) *apis.FieldError {
	if required && v == uuid.Nil {
		return apis.ErrMissingField(name)
	}
	return nil
}

// ValidateDate checks a calendar date is present (non-zero) when required.
func ValidateDate(name string, v Date, required bool) *apis.FieldError {
	if required && v.IsZero() {
		return apis.ErrMissingField(name)
	}
	return nil
}

// ValidateInstant checks a date-time is present (non-zero) when required.
func ValidateInstant(name string, v Instant, required bool) *apis.FieldError {
	if required && v.IsZero() {
		return apis.ErrMissingField(name)
	}
	return nil
}

// ValidateIP checks the value parses as IPv4 or IPv6.
func ValidateIP(name string, v net.IP, required bool) *apis.FieldError {
	if v == nil {
		if required {
			return apis.ErrMissingField(name)
		}
		return nil
	}
	if v.To4() == nil && v.To16() == nil {
		return apis.ErrInvalidValue(v.String(), name, "not a valid IPv4 or IPv6 address")
	}
	return nil
}

// ValidateString checks a required UTF-8 string is non-empty.
func ValidateString(name string, v string, required bool) *apis.FieldError {
	if required && v == "" {
		return apis.ErrMissingField(name)
	}
	return nil
}

// ValidateBinary enforces FieldBeyondLimit for raw-byte fields.
func ValidateBinary(name string, v []byte, required bool, limit int) *apis.FieldError {
	if required && len(v) == 0 {
		return apis.ErrMissingField(name)
	}
	if limit > 0 && len(v) > limit {
		return apis.ErrInvalidValue(fmt.Sprintf("%d bytes", len(v)), name,
			fmt.Sprintf("exceeds limit of %d bytes", limit))
	}
	return nil
}

// ValidateSignature enforces FieldNotSet (honoring redo) and FieldBeyondLimit
// for a single signature, and FieldIsMultiple/FieldNotMultiple for the list
// form used by Keys documents.
func ValidateSignature(name string, sigs [][]byte, required bool, multiple bool, redo bool, limit int) *apis.FieldError {
	if !multiple && len(sigs) > 1 {
		return &apis.FieldError{Message: "field does not admit multiple values", Paths: []string{name}}
	}
	if required && len(sigs) == 0 && !redo {
		return apis.ErrMissingField(name)
	}
	for _, s := range sigs {
		if limit > 0 && len(s) > limit {
			return apis.ErrInvalidValue(fmt.Sprintf("%d bytes", len(s)), name,
				fmt.Sprintf("exceeds limit of %d bytes", limit))
		}
	}
	return nil
}

// ValidateType checks the small integer tag matches the expected constant.
func ValidateType(name string, got, want int) *apis.FieldError {
	if got != want {
		return apis.ErrInvalidValue(got, name, fmt.Sprintf("expected type tag %d", want))
	}
	return nil
}

// ValidateChoice enforces FieldInvalidChoice.
func ValidateChoice(name, v string, required bool, choices sets.String) *apis.FieldError {
	if v == "" {
		if required {
			return apis.ErrMissingField(name)
		}
		return nil
	}
	if !choices.Has(v) {
		return apis.ErrInvalidValue(v, name, fmt.Sprintf("must be one of %v", choices.List()))
	}
	return nil
}

// ValidateRegex enforces FieldInvalidRegex.
func ValidateRegex(name, v string, required bool, re *regexp.Regexp) *apis.FieldError {
	if v == "" {
		if required {
			return apis.ErrMissingField(name)
		}
		return nil
	}
	if !re.MatchString(v) {
		return apis.ErrInvalidValue(v, name, "does not match the required pattern")
	}
	return nil
}

// EmailRegex is a simple address pattern. ValidateEmail does not use it;
// it checks addresses with net/mail.ParseAddress.
var EmailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// ValidateEmail enforces FieldInvalidEmail.
func ValidateEmail(name, v string, required bool) *apis.FieldError {
	if v == "" {
		if required {
			return apis.ErrMissingField(name)
		}
		return nil
	}
	if _, err := mail.ParseAddress(v); err != nil {
		return apis.ErrInvalidValue(v, name, "not a valid email address")
	}
	return nil
}

// Bytes conversions. Every function is pure and deterministic: the same
// input always yields the same byte stream on any platform, which is the
// property the canonicalization layer depends on.

func UUIDBytes(v uuid.UUID) []byte {
	b := make([]byte, 16)
	copy(b, v[:])
	return b
}

// DateBytes renders a date as its ISO-8601 calendar-date string, UTF-8
// encoded, per the field table in the spec.
func DateBytes(v Date) []byte {
	if v.IsZero() {
		return nil
	}
	return []byte(v.String())
}

// DateTimeBytes renders an instant as its ISO-8601 string, UTF-8 encoded.
func DateTimeBytes(v Instant) []byte {
	if v.IsZero() {
		return nil
	}
	return []byte(v.String())
}

// IPBytes renders an IP as raw big-endian bytes: IPv4 yields 4 bytes,
// IPv6 yields 16 bytes.
func IPBytes(v net.IP) []byte {
	if v == nil {
		return nil
	}
	if v4 := v.To4(); v4 != nil {
		return []byte(v4)
	}
	return []byte(v.To16())
}

func StringBytes(v string) []byte {
	return []byte(v)
}

// TypeBytes renders a type tag as 4 bytes big-endian.
func TypeBytes(v int) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

// BytesBase64 renders raw bytes as their base64 string, the YAML export
// shape a BinaryField/SignatureField value takes: human-inspectable, never
// used as a signing surface.
func BytesBase64(v []byte) string {
	if len(v) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(v)
}

// ParseUUIDBytes is the inverse of UUIDBytes.
func ParseUUIDBytes(b []byte) (uuid.UUID, error) {
	return uuid.FromBytes(b)
}

// ParseDateBytes is the inverse of DateBytes.
func ParseDateBytes(b []byte) (Date, error) {
	t, err := time.Parse("2006-01-02", string(b))
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

// ParseDateTimeBytes is the inverse of DateTimeBytes.
func ParseDateTimeBytes(b []byte) (Instant, error) {
	t, err := time.Parse(time.RFC3339Nano, string(b))
	if err != nil {
		return Instant{}, err
	}
	return NewInstant(t), nil
}
