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

package crypto_test

import (
	"testing"
	"time"

	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/crypto"
	"github.com/kristoffer-paulsson/angelos-go/pkg/policy"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)

func newPerson(t *testing.T, given string) *portfolio.PrivatePortfolio {
	t.Helper()
	pp, err := policy.GeneratePerson(policy.PersonData{
		GivenName: given, FamilyName: "Able",
		Names: []string{given}, Sex: "woman",
	}, today)
	require.NoError(t, err)
	return pp
}

func TestSignThenVerify(t *testing.T) {
	pp := newPerson(t, "Ann")

	ok, err := crypto.Verify(pp.Entity, &pp.Portfolio)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejectsTamperedField(t *testing.T) {
	pp := newPerson(t, "Ann")

	person := pp.Entity.(*document.Person)
	person.FamilyName = "Baker"

	ok, err := crypto.Verify(pp.Entity, &pp.Portfolio)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	alice := newPerson(t, "Alice")
	bob := newPerson(t, "Bob")

	_, err := crypto.Verify(alice.Entity, &bob.Portfolio)
	assert.ErrorIs(t, err, crypto.ErrIssuerMismatch)
}

func TestConcealReveal(t *testing.T) {
	alice := newPerson(t, "Alice")
	bob := newPerson(t, "Bob")

	plaintext := []byte("hello, bob")
	sealed, err := crypto.Conceal(plaintext, alice, &bob.Portfolio, today)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	revealed, err := crypto.Reveal(sealed, bob, &alice.Portfolio, today)
	require.NoError(t, err)
	assert.Equal(t, plaintext, revealed)
}

func TestKeyRotationCarriesOverTrust(t *testing.T) {
	alice := newPerson(t, "Alice")

	newKeys, _, err := policy.Newkeys(alice, today.AddDate(0, 1, 0))
	require.NoError(t, err)

	ok, err := crypto.VerifyKeys(newKeys, &alice.Portfolio)
	require.NoError(t, err)
	assert.True(t, ok)
}
