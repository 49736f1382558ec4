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

import "k8s.io/apimachinery/pkg/util/sets"

// Field tags a selection group may name. These mirror the portfolio field
// set the source enumerates for group composition.
const (
	FieldEntity         = "entity"
	FieldProfile        = "profile"
	FieldPrivKeys       = "privkeys"
	FieldKeys           = "keys"
	FieldDomain         = "domain"
	FieldNode           = "node"
	FieldNodes          = "nodes"
	FieldNetwork        = "network"
	FieldIssuerVerified = "issuer.verified"
	FieldIssuerTrusted  = "issuer.trusted"
	FieldIssuerRevoked  = "issuer.revoked"
	FieldOwnerVerified  = "owner.verified"
	FieldOwnerTrusted   = "owner.trusted"
	FieldOwnerRevoked   = "owner.revoked"
)

// Group is a named subset of a portfolio's fields used for selective
// loading and sharing.
type Group = sets.String

// Canonical groups, verbatim from the portfolio selection-group table.
var (
	GroupVerifier = sets.NewString(FieldEntity, FieldKeys)
	GroupVerifierRevoked = sets.NewString(FieldEntity, FieldKeys, FieldIssuerRevoked)
	GroupSigner = sets.NewString(FieldEntity, FieldPrivKeys, FieldKeys)
	GroupClient = sets.NewString(FieldEntity, FieldPrivKeys, FieldKeys, FieldDomain, FieldNodes)
	GroupServer = sets.NewString(FieldEntity, FieldPrivKeys, FieldKeys, FieldDomain, FieldNodes, FieldNetwork)
	GroupClientAuth = sets.NewString(FieldEntity, FieldKeys, FieldNetwork, FieldOwnerVerified, FieldOwnerTrusted)
	GroupIssuer = sets.NewString(FieldIssuerVerified, FieldIssuerTrusted, FieldIssuerRevoked)
	GroupOwner = sets.NewString(FieldOwnerVerified, FieldOwnerTrusted, FieldOwnerRevoked)
	GroupShareMinUser = sets.NewString(FieldEntity, FieldKeys)
	GroupShareMinCommunity = sets.NewString(FieldEntity, FieldKeys, FieldNetwork)
	GroupShareMedUser = sets.NewString(FieldEntity, FieldProfile, FieldKeys)
	GroupShareMedCommunity = sets.NewString(FieldEntity, FieldProfile, FieldKeys, FieldNetwork)
	GroupShareMaxUser = sets.NewString(FieldEntity, FieldProfile, FieldKeys, FieldOwnerVerified, FieldOwnerTrusted)
	GroupShareMaxCommunity = sets.NewString(FieldEntity, FieldProfile, FieldKeys, FieldNetwork, FieldOwnerVerified, FieldOwnerTrusted)
	GroupAll = sets.NewString(
		FieldEntity, FieldProfile, FieldPrivKeys, FieldKeys, FieldDomain, FieldNode, FieldNodes, FieldNetwork,
		FieldIssuerVerified, FieldIssuerTrusted, FieldIssuerRevoked,
		FieldOwnerVerified, FieldOwnerTrusted, FieldOwnerRevoked,
	)
)

// Compose projects a full PrivatePortfolio down to the fields named by g,
// zeroing every field the group omits.
func Compose(pp *PrivatePortfolio, g Group) *PrivatePortfolio {
	out := &PrivatePortfolio{}
	if g.Has(FieldEntity) {
		out.Entity = pp.Entity
	}
	if g.Has(FieldProfile) {
		out.Profile = pp.Profile
	}
	if g.Has(FieldPrivKeys) {
		out.PrivKeys = pp.PrivKeys
	}
	if g.Has(FieldKeys) {
		out.Keys = pp.Keys
	}
	if g.Has(FieldDomain) {
		out.Domain = pp.Domain
	}
	if g.Has(FieldNodes) || g.Has(FieldNode) {
		out.Nodes = pp.Nodes
	}
	if g.Has(FieldNetwork) {
		out.Network = pp.Network
	}
	if g.Has(FieldIssuerVerified) {
		out.IssuerVerified = pp.IssuerVerified
	}
	if g.Has(FieldIssuerTrusted) {
		out.IssuerTrusted = pp.IssuerTrusted
	}
	if g.Has(FieldIssuerRevoked) {
		out.IssuerRevoked = pp.IssuerRevoked
	}
	if g.Has(FieldOwnerVerified) {
		out.OwnerVerified = pp.OwnerVerified
	}
	if g.Has(FieldOwnerTrusted) {
		out.OwnerTrusted = pp.OwnerTrusted
	}
	if g.Has(FieldOwnerRevoked) {
		out.OwnerRevoked = pp.OwnerRevoked
	}
	return out
}

// Decompose reports which group fields are actually populated on pp.
func Decompose(pp *PrivatePortfolio) Group {
	g := sets.NewString()
	if pp.Entity != nil {
		g.Insert(FieldEntity)
	}
	if pp.Profile != nil {
		g.Insert(FieldProfile)
	}
	if pp.PrivKeys != nil {
		g.Insert(FieldPrivKeys)
	}
	if len(pp.Keys) > 0 {
		g.Insert(FieldKeys)
	}
	if pp.Domain != nil {
		g.Insert(FieldDomain)
	}
	if len(pp.Nodes) > 0 {
		g.Insert(FieldNodes)
	}
	if pp.Network != nil {
		g.Insert(FieldNetwork)
	}
	if len(pp.IssuerVerified) > 0 {
		g.Insert(FieldIssuerVerified)
	}
	if len(pp.IssuerTrusted) > 0 {
		g.Insert(FieldIssuerTrusted)
	}
	if len(pp.IssuerRevoked) > 0 {
		g.Insert(FieldIssuerRevoked)
	}
	if len(pp.OwnerVerified) > 0 {
		g.Insert(FieldOwnerVerified)
	}
	if len(pp.OwnerTrusted) > 0 {
		g.Insert(FieldOwnerTrusted)
	}
	if len(pp.OwnerRevoked) > 0 {
		g.Insert(FieldOwnerRevoked)
	}
	return g
}
