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

package crypto_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/policy/common"
	"github.com/kristoffer-paulsson/angelos-go/pkg/crypto"
	"github.com/stretchr/testify/assert"
)

func canonPerson(names []string) *document.Person {
	id := uuid.New()
	created := field.NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return &document.Person{
		Header: document.Header{ID: id, Type: document.TypeEntityPerson,
			Created: created, Expires: field.NewDate(created.Add(common.IdentityValidity))},
		Issued:     document.Issued{Issuer: id},
		GivenName:  "John",
		FamilyName: "Smith",
		Names:      names,
		Sex:        "man",
		Born:       field.NewDate(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// Property: repeated calls over the same document yield byte-identical
// canonical data, regardless of Go's randomized map iteration order.
func TestDocumentDataIsDeterministic(t *testing.T) {
	p := canonPerson([]string{"John", "Edward", "Michael"})
	first := crypto.DocumentData(p)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, crypto.DocumentData(p))
	}
}

// Property: list element order is preserved, not sorted -- two documents
// differing only in list order canonicalize to different byte streams.
func TestDocumentDataPreservesListOrder(t *testing.T) {
	a := crypto.DocumentData(canonPerson([]string{"John", "Edward"}))
	b := crypto.DocumentData(canonPerson([]string{"Edward", "John"}))
	assert.NotEqual(t, a, b)
}

// issuer and signature are always excluded from the signing surface.
func TestDocumentDataDropsIssuerAndSignature(t *testing.T) {
	p := canonPerson([]string{"John"})
	before := crypto.DocumentData(p)

	p.Issuer = uuid.New()
	p.Sig.Set([]byte("some signature"))
	after := crypto.DocumentData(p)
	assert.Equal(t, before, after)
}

func TestDocumentDataHonorsCallerExclusions(t *testing.T) {
	p := canonPerson([]string{"John"})
	withFamily := crypto.DocumentData(p, "family_name")

	p.FamilyName = "Someone else entirely"
	withoutFamily := crypto.DocumentData(p, "family_name")
	assert.Equal(t, withFamily, withoutFamily)
	assert.NotEqual(t, withFamily, crypto.DocumentData(p))
}
