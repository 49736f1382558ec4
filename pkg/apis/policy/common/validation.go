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

// Package common holds the document-invariant checks ("apply_rules" helpers)
// shared across every concrete document type: expiry windows, the
// updated-not-before-created rule, and the type-tag check. Concrete types in
// pkg/apis/document call these from their Validate methods and compose the
// results with apis.FieldError.Also, exactly as the CRD types in this
// package's previous incarnation composed OCI/KMS reference checks.
package common

import (
	"fmt"
	"time"

	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"knative.dev/pkg/apis"
)

const (
	// IdentityMinExpiry is the minimum touched-to-expiry window for
	// identity-class documents (entities, keys, domains, nodes, networks):
	// 13 months minus one day.
	IdentityMinExpiry = 13*30*24*time.Hour + 5*24*time.Hour - 24*time.Hour

	// EnvelopeMinExpiry is the minimum touched-to-expiry window for envelopes.
	EnvelopeMinExpiry = 30 * 24 * time.Hour

	// IdentityValidity is the default created-to-expires span assigned at
	// generation time for identity-class documents: ~13 months.
	IdentityValidity = 13*30*24*time.Hour + 5*24*time.Hour

	// EnvelopeValidity is the default posted-to-expires span for an Envelope.
	EnvelopeValidity = 31 * 24 * time.Hour

	// MessageValidity is the default posted-to-expires span for a Message.
	MessageValidity = 30 * 24 * time.Hour
)

// CheckExpiry enforces DocumentShortExpiry: expires - touched must be at
// least min. touched is `updated` if set, else `created`.
func CheckExpiry(touched, expires field.Date, min time.Duration) *apis.FieldError {
	if touched.IsZero() || expires.IsZero() {
		return apis.ErrMissingField("expires")
	}
	if expires.Sub(touched.Time) < min {
		return apis.ErrInvalidValue(expires.String(), "expires",
			fmt.Sprintf("must be at least %s after %s", min, touched.String()))
	}
	return nil
}

// CheckUpdated enforces DocumentUpdatedNotLatest: if set, updated must not
// precede created.
func CheckUpdated(created, updated field.Date) *apis.FieldError {
	if updated.IsZero() {
		return nil
	}
	if updated.Before(created.Time) {
		return apis.ErrInvalidValue(updated.String(), "updated",
			"must not precede created")
	}
	return nil
}

// CheckType enforces DocumentInvalidType: the document's type tag must equal
// the concrete type's expected constant.
func CheckType(got, want int) *apis.FieldError {
	if got != want {
		return apis.ErrInvalidValue(got, "type", fmt.Sprintf("expected type tag %d", want))
	}
	return nil
}

// Touched returns updated if set, else created -- the "touch date" used
// throughout expiry and key-overlap checks. This is the corrected reading of
// the source's `_overlap` guard (see spec Design Notes): use `updated`
// whenever the document type carries one and it is set, not an identity
// check against a mixin.
func Touched(created, updated field.Date) field.Date {
	if !updated.IsZero() {
		return updated
	}
	return created
}
