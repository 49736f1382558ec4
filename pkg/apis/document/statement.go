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

package document

import (
	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/policy/common"
	"knative.dev/pkg/apis"
)

func init() {
	Register(TypeStatVerified, func() Document { return &Verified{Header: Header{Type: TypeStatVerified}} })
	Register(TypeStatTrusted, func() Document { return &Trusted{Header: Header{Type: TypeStatTrusted}} })
	Register(TypeStatRevoked, func() Document { return &Revoked{Header: Header{Type: TypeStatRevoked}} })
}

// Verified is an issuer's attestation that it has verified an owner's
// identity claims.
type Verified struct {
	Header
	Issued
	Owned
	Signed
}

func (s *Verified) Meta() *Header    { return &s.Header }
func (s *Verified) TypeTag() TypeTag { return s.Type }

func (s *Verified) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": s.ID, "type": s.Type, "created": s.Created, "expires": s.Expires,
		"issuer": s.Issuer, "owner": s.Owner, "signature": s.Sig,
	}
}

func (s *Verified) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", s.ID, true))
	errs = errs.Also(s.Header.CheckType(TypeStatVerified))
	errs = errs.Also(field.ValidateDate("created", s.Created, true))
	errs = errs.Also(field.ValidateDate("expires", s.Expires, true))
	errs = errs.Also(common.CheckExpiry(s.Created, s.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", s.Issuer, true))
	errs = errs.Also(field.ValidateUUID("owner", s.Owner, true))
	return errs
}

// Trusted is an issuer's attestation that it trusts an owner.
type Trusted struct {
	Header
	Issued
	Owned
	Signed
}

func (s *Trusted) Meta() *Header    { return &s.Header }
func (s *Trusted) TypeTag() TypeTag { return s.Type }

func (s *Trusted) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": s.ID, "type": s.Type, "created": s.Created, "expires": s.Expires,
		"issuer": s.Issuer, "owner": s.Owner, "signature": s.Sig,
	}
}

func (s *Trusted) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", s.ID, true))
	errs = errs.Also(s.Header.CheckType(TypeStatTrusted))
	errs = errs.Also(field.ValidateDate("created", s.Created, true))
	errs = errs.Also(field.ValidateDate("expires", s.Expires, true))
	errs = errs.Also(common.CheckExpiry(s.Created, s.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", s.Issuer, true))
	errs = errs.Also(field.ValidateUUID("owner", s.Owner, true))
	return errs
}

// Revoked points at a previously issued Verified or Trusted statement,
// identified by its id, and withdraws it.
type Revoked struct {
	Header
	Issued
	Signed

	Issuance uuid.UUID
}

func (s *Revoked) Meta() *Header    { return &s.Header }
func (s *Revoked) TypeTag() TypeTag { return s.Type }

func (s *Revoked) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": s.ID, "type": s.Type, "created": s.Created, "expires": s.Expires,
		"issuer": s.Issuer, "signature": s.Sig, "issuance": s.Issuance,
	}
}

func (s *Revoked) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", s.ID, true))
	errs = errs.Also(s.Header.CheckType(TypeStatRevoked))
	errs = errs.Also(field.ValidateDate("created", s.Created, true))
	errs = errs.Also(field.ValidateDate("expires", s.Expires, true))
	errs = errs.Also(common.CheckExpiry(s.Created, s.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", s.Issuer, true))
	errs = errs.Also(field.ValidateUUID("issuance", s.Issuance, true))
	return errs
}
