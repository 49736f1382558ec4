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

// Package portfolio gathers one entity's documents -- the issuer-side set
// the entity itself produced, and the owner-side set other entities issued
// about it -- and the selection-group discipline used to share a subset of
// that gathering. Portfolio is the sole collection type the crypto and
// policy layers operate against; they never reach into storage directly.
package portfolio

import (
	"sort"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
)

// Portfolio is every document known about one entity that does not require
// its private key material: the entity itself, an optional profile, the
// entity's live Keys, an optional published Network, and the statement
// sets on both sides of the issuer/owner relation.
type Portfolio struct {
	Entity  document.Document
	Profile document.Document
	Keys    []*document.Keys
	Network *document.Network

	IssuerVerified []*document.Verified
	IssuerTrusted  []*document.Trusted
	IssuerRevoked  []*document.Revoked

	OwnerVerified []*document.Verified
	OwnerTrusted  []*document.Trusted
	OwnerRevoked  []*document.Revoked
}

// EntityID returns the portfolio's entity id, or uuid.Nil if no entity is
// loaded.
func (p *Portfolio) EntityID() uuid.UUID {
	if p.Entity == nil {
		return uuid.Nil
	}
	return p.Entity.Meta().ID
}

// SortedKeys returns the portfolio's Keys ordered created-descending,
// id-ascending on ties -- the order pkg/crypto's verify walks and the
// "latest key" pkg/crypto's sign picks from.
func (p *Portfolio) SortedKeys() []*document.Keys {
	out := make([]*document.Keys, len(p.Keys))
	copy(out, p.Keys)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Created, out[j].Created
		if ci.Time.Equal(cj.Time) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return ci.Time.After(cj.Time)
	})
	return out
}

// LatestKeys returns the most recently created Keys document, or nil if the
// portfolio carries none.
func (p *Portfolio) LatestKeys() *document.Keys {
	sorted := p.SortedKeys()
	if len(sorted) == 0 {
		return nil
	}
	return sorted[0]
}

// PrivatePortfolio extends Portfolio with the secret material needed to
// sign: the matching PrivateKeys, an optional self-issued Domain, and the
// Node documents describing this portfolio's own devices.
type PrivatePortfolio struct {
	Portfolio

	PrivKeys *document.PrivateKeys
	Domain   *document.Domain
	Nodes    []*document.Node
}

// View returns a transient portfolio whose Keys set is exactly the given
// keys, leaving every other field shared with the receiver. It is the
// "borrow-copy" the Design Notes call for when ImportUpdatePolicy.keys
// verifies a proposed rotation against a view carrying only the new key --
// never a full deep clone.
func (p *Portfolio) View(keys []*document.Keys) *Portfolio {
	v := *p
	v.Keys = keys
	return &v
}
