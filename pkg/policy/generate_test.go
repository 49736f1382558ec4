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

func TestGeneratePersonProducesSelfSignedPortfolio(t *testing.T) {
	alice := newPerson(t, "Alice")

	assert.Equal(t, alice.Entity.Meta().ID, alice.Entity.(*document.Person).Issuer)
	assert.Len(t, alice.Keys, 1)
	assert.NotEmpty(t, alice.PrivKeys.Seed)

	ok, err := crypto.Verify(alice.Entity, &alice.Portfolio)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateMinistryAndChurch(t *testing.T) {
	m, err := policy.GenerateMinistry(policy.MinistryData{
		Ministry: "Helping Hands", Vision: "serve", Founded: field.NewDate(today),
	}, today)
	require.NoError(t, err)
	ok, err := crypto.Verify(m.Entity, &m.Portfolio)
	require.NoError(t, err)
	assert.True(t, ok)

	c, err := policy.GenerateChurch(policy.ChurchData{
		Founded: field.NewDate(today), City: "Springfield", Region: "ST", Country: "US",
	}, today)
	require.NoError(t, err)
	ok, err = crypto.Verify(c.Entity, &c.Portfolio)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenewEntityExtendsExpiryAndResigns(t *testing.T) {
	alice := newPerson(t, "Alice")
	origExpires := alice.Entity.Meta().Expires

	later := today.AddDate(1, 0, 0)
	require.NoError(t, policy.RenewEntity(alice.Entity, alice, later))

	assert.True(t, alice.Entity.Meta().Expires.Time.After(origExpires.Time))
	ok, err := crypto.Verify(alice.Entity, &alice.Portfolio)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenewEntityRejectsNonRenewableDocument(t *testing.T) {
	alice := newPerson(t, "Alice")
	err := policy.RenewEntity(alice.Keys[0], alice, today)
	assert.Error(t, err)
}
