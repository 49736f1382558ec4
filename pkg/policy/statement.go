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

package policy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/policy/common"
	"github.com/kristoffer-paulsson/angelos-go/pkg/crypto"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
)

// GenerateVerified issues a Verified statement from issuer about owner,
// signs it, and inserts it into both portfolios' matching statement sets
// (IssuerVerified on the issuing side, OwnerVerified on the owned side).
func GenerateVerified(issuer *portfolio.PrivatePortfolio, owner *portfolio.Portfolio, today time.Time) (*document.Verified, error) {
	if issuer.Entity == nil || issuer.PrivKeys == nil {
		return nil, ErrNoEntity
	}
	ownerID := owner.EntityID()
	stmt := &document.Verified{
		Header: document.Header{ID: uuid.New(), Type: document.TypeStatVerified,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: issuer.Entity.Meta().ID},
		Owned:  document.Owned{Owner: ownerID},
	}
	if err := crypto.Sign(stmt, issuer, today, false); err != nil {
		return nil, fmt.Errorf("policy: generate verified: %w", err)
	}
	if errs := stmt.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: generate verified: %w", errs)
	}
	issuer.IssuerVerified = append(issuer.IssuerVerified, stmt)
	owner.OwnerVerified = append(owner.OwnerVerified, stmt)
	return stmt, nil
}

// GenerateTrusted is GenerateVerified's Trusted-statement counterpart.
func GenerateTrusted(issuer *portfolio.PrivatePortfolio, owner *portfolio.Portfolio, today time.Time) (*document.Trusted, error) {
	if issuer.Entity == nil || issuer.PrivKeys == nil {
		return nil, ErrNoEntity
	}
	ownerID := owner.EntityID()
	stmt := &document.Trusted{
		Header: document.Header{ID: uuid.New(), Type: document.TypeStatTrusted,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: issuer.Entity.Meta().ID},
		Owned:  document.Owned{Owner: ownerID},
	}
	if err := crypto.Sign(stmt, issuer, today, false); err != nil {
		return nil, fmt.Errorf("policy: generate trusted: %w", err)
	}
	if errs := stmt.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: generate trusted: %w", errs)
	}
	issuer.IssuerTrusted = append(issuer.IssuerTrusted, stmt)
	owner.OwnerTrusted = append(owner.OwnerTrusted, stmt)
	return stmt, nil
}

// GenerateRevoked withdraws a previously issued statement by id, signs the
// revocation, and appends it to issuer's IssuerRevoked set.
func GenerateRevoked(issuer *portfolio.PrivatePortfolio, statementID uuid.UUID, today time.Time) (*document.Revoked, error) {
	if issuer.Entity == nil || issuer.PrivKeys == nil {
		return nil, ErrNoEntity
	}
	rev := &document.Revoked{
		Header: document.Header{ID: uuid.New(), Type: document.TypeStatRevoked,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.IdentityValidity))},
		Issued:   document.Issued{Issuer: issuer.Entity.Meta().ID},
		Issuance: statementID,
	}
	if err := crypto.Sign(rev, issuer, today, false); err != nil {
		return nil, fmt.Errorf("policy: generate revoked: %w", err)
	}
	if errs := rev.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: generate revoked: %w", errs)
	}
	issuer.IssuerRevoked = append(issuer.IssuerRevoked, rev)
	return rev, nil
}

func isRevoked(id uuid.UUID, revoked []*document.Revoked) bool {
	for _, r := range revoked {
		if r.Issuance == id {
			return true
		}
	}
	return false
}

// ValidateVerified returns the most recently created Verified statement
// where issuer matches signer's entity and owner matches ownerID, that is
// not present in signer's IssuerRevoked set and whose signature verifies
// against signer. It returns nil, nil if no such statement exists -- the
// nullable-result, swallow-errors acceptance contract.
func ValidateVerified(owner *portfolio.Portfolio, signer *portfolio.Portfolio, ownerID uuid.UUID) (*document.Verified, error) {
	var best *document.Verified
	for _, s := range owner.OwnerVerified {
		if s.Issuer != signer.EntityID() || s.Owner != ownerID {
			continue
		}
		if isRevoked(s.Meta().ID, signer.IssuerRevoked) {
			continue
		}
		if best != nil && !s.Created.Time.After(best.Created.Time) {
			continue
		}
		ok, err := crypto.Verify(s, signer)
		if err != nil {
			continue
		}
		if ok {
			best = s
		}
	}
	return best, nil
}

// ValidateTrusted is ValidateVerified's Trusted-statement counterpart.
func ValidateTrusted(owner *portfolio.Portfolio, signer *portfolio.Portfolio, ownerID uuid.UUID) (*document.Trusted, error) {
	var best *document.Trusted
	for _, s := range owner.OwnerTrusted {
		if s.Issuer != signer.EntityID() || s.Owner != ownerID {
			continue
		}
		if isRevoked(s.Meta().ID, signer.IssuerRevoked) {
			continue
		}
		if best != nil && !s.Created.Time.After(best.Created.Time) {
			continue
		}
		ok, err := crypto.Verify(s, signer)
		if err != nil {
			continue
		}
		if ok {
			best = s
		}
	}
	return best, nil
}
