// Copyright 2023 The Sigstore Authors.
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

package policy_test

import (
	"testing"

	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/crypto"
	"github.com/kristoffer-paulsson/angelos-go/pkg/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportPolicyEntityAcceptsOwnSelfSigned(t *testing.T) {
	alice := newPerson(t, "Alice")
	ip := policy.NewImportPolicy(&alice.Portfolio)
	assert.True(t, ip.Entity())
}

func TestImportPolicyEntityRejectsTampered(t *testing.T) {
	alice := newPerson(t, "Alice")
	alice.Entity.(*document.Person).FamilyName = "Tampered"

	ip := policy.NewImportPolicy(&alice.Portfolio)
	assert.False(t, ip.Entity())
}

func TestImportPolicyIssuedDocumentAcceptsValidStatement(t *testing.T) {
	alice := newPerson(t, "Alice")
	bob := newPerson(t, "Bob")

	verified, err := policy.GenerateVerified(alice, &bob.Portfolio, today)
	require.NoError(t, err)

	ip := policy.NewImportPolicy(&bob.Portfolio)
	got := ip.IssuedDocument(verified, &alice.Portfolio)
	assert.NotNil(t, got)
}

func TestImportPolicyIssuedDocumentRejectsBadSignature(t *testing.T) {
	alice := newPerson(t, "Alice")
	bob := newPerson(t, "Bob")
	carol := newPerson(t, "Carol")

	verified, err := policy.GenerateVerified(alice, &bob.Portfolio, today)
	require.NoError(t, err)

	ip := policy.NewImportPolicy(&bob.Portfolio)
	// Verifying against the wrong issuer's portfolio must fail closed.
	got := ip.IssuedDocument(verified, &carol.Portfolio)
	assert.Nil(t, got)
}

func TestImportPolicyOwnedDocumentRejectsOwnerMismatch(t *testing.T) {
	alice := newPerson(t, "Alice")
	bob := newPerson(t, "Bob")
	carol := newPerson(t, "Carol")

	verified, err := policy.GenerateVerified(alice, &bob.Portfolio, today)
	require.NoError(t, err)

	// carol's ImportPolicy should reject a statement owned by bob.
	ip := policy.NewImportPolicy(&carol.Portfolio)
	got := ip.OwnedDocument(verified, &alice.Portfolio)
	assert.Nil(t, got)
}

func TestImportDocumentsAggregatesRejections(t *testing.T) {
	alice := newPerson(t, "Alice")
	bob := newPerson(t, "Bob")

	good, err := policy.GenerateVerified(alice, &bob.Portfolio, today)
	require.NoError(t, err)

	bad, err := policy.GenerateVerified(alice, &bob.Portfolio, today)
	require.NoError(t, err)
	bad.Sig.Bytes = nil

	ip := policy.NewImportPolicy(&bob.Portfolio)
	accepted, err := ip.ImportDocuments([]document.Document{good, bad}, &alice.Portfolio)
	assert.Len(t, accepted, 1)
	assert.Error(t, err)
}

func TestImportPolicyMessageAcceptsSignedMail(t *testing.T) {
	alice := newPerson(t, "Alice")
	bob := newPerson(t, "Bob")

	mail := newMail(alice, bob.Entity.Meta().ID, "hi", "hi bob")
	require.NoError(t, crypto.Sign(mail, alice, today, false))

	ip := policy.NewImportPolicy(&bob.Portfolio)
	got := ip.Message(mail, &alice.Portfolio)
	assert.NotNil(t, got)
}

func TestImportPolicyMessageRejectsOwnerMismatch(t *testing.T) {
	alice := newPerson(t, "Alice")
	bob := newPerson(t, "Bob")
	carol := newPerson(t, "Carol")

	mail := newMail(alice, bob.Entity.Meta().ID, "hi", "hi bob")
	require.NoError(t, crypto.Sign(mail, alice, today, false))

	ip := policy.NewImportPolicy(&carol.Portfolio)
	got := ip.Message(mail, &alice.Portfolio)
	assert.Nil(t, got)
}

func TestImportUpdatePolicyKeysAcceptsRotation(t *testing.T) {
	alice := newPerson(t, "Alice")

	newKeys, _, err := policy.Newkeys(alice, today.AddDate(0, 1, 0))
	require.NoError(t, err)

	up := policy.NewImportUpdatePolicy(&alice.Portfolio)
	assert.True(t, up.Keys(newKeys))
}

func TestImportUpdatePolicyEntityRejectsDisallowedFieldChange(t *testing.T) {
	alice := newPerson(t, "Alice")

	updated := *alice.Entity.(*document.Person)
	updated.GivenName = "Alicia"
	updated.Names = []string{"Alicia"}
	updated.SetUpdated(field.NewDate(today.AddDate(0, 0, 1)))
	updated.ClearSignature()
	require.NoError(t, crypto.Sign(&updated, alice, today.AddDate(0, 0, 1), false))

	up := policy.NewImportUpdatePolicy(&alice.Portfolio)
	got := up.Entity(&updated, document.PersonUpdatableFields)
	assert.Nil(t, got)
}

func TestImportUpdatePolicyEntityAcceptsAllowedFieldChange(t *testing.T) {
	alice := newPerson(t, "Alice")

	updated := *alice.Entity.(*document.Person)
	updated.FamilyName = "Newname"
	updated.SetUpdated(field.NewDate(today.AddDate(0, 0, 1)))
	updated.ClearSignature()
	require.NoError(t, crypto.Sign(&updated, alice, today.AddDate(0, 0, 1), false))

	up := policy.NewImportUpdatePolicy(&alice.Portfolio)
	got := up.Entity(&updated, document.PersonUpdatableFields)
	assert.NotNil(t, got)
}
