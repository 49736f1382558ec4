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

package portfolio_test

import (
	"testing"

	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeVerifierOmitsPrivateKeys(t *testing.T) {
	pp := &portfolio.PrivatePortfolio{
		Portfolio: portfolio.Portfolio{
			Entity: &document.Person{},
			Keys:   []*document.Keys{{}},
		},
		PrivKeys: &document.PrivateKeys{},
	}

	out := portfolio.Compose(pp, portfolio.GroupVerifier)
	assert.NotNil(t, out.Entity)
	assert.Len(t, out.Keys, 1)
	assert.Nil(t, out.PrivKeys)
}

func TestDecomposeReportsPopulatedFields(t *testing.T) {
	pp := &portfolio.PrivatePortfolio{
		Portfolio: portfolio.Portfolio{Entity: &document.Person{}},
	}
	g := portfolio.Decompose(pp)
	assert.True(t, g.Has(portfolio.FieldEntity))
	assert.False(t, g.Has(portfolio.FieldKeys))
}

func TestManifestRoundTrip(t *testing.T) {
	b, err := portfolio.DumpManifest("verifier", portfolio.GroupVerifier)
	require.NoError(t, err)

	name, g, err := portfolio.LoadManifest(b)
	require.NoError(t, err)
	assert.Equal(t, "verifier", name)
	assert.True(t, g.Has(portfolio.FieldEntity))
	assert.True(t, g.Has(portfolio.FieldKeys))
}

func TestPortfolioView(t *testing.T) {
	k1 := &document.Keys{}
	p := &portfolio.Portfolio{Keys: []*document.Keys{k1}}
	k2 := &document.Keys{}
	v := p.View([]*document.Keys{k2})
	assert.Len(t, p.Keys, 1)
	assert.Same(t, k2, v.Keys[0])
}
