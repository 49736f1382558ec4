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
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/policy/common"
	"knative.dev/pkg/apis"
)

func init() {
	Register(TypeProfilePerson, func() Document { return &PersonProfile{Header: Header{Type: TypeProfilePerson}} })
	Register(TypeProfileMinistry, func() Document { return &MinistryProfile{Header: Header{Type: TypeProfileMinistry}} })
	Register(TypeProfileChurch, func() Document { return &ChurchProfile{Header: Header{Type: TypeProfileChurch}} })
}

// PersonProfile is an entity's own, self-issued, optional contact record.
type PersonProfile struct {
	Header
	Updatable
	Owned
	Signed

	Email   string
	Mobile  string
	Picture []byte
}

func (p *PersonProfile) Meta() *Header    { return &p.Header }
func (p *PersonProfile) TypeTag() TypeTag { return p.Type }

func (p *PersonProfile) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": p.ID, "type": p.Type, "created": p.Created, "updated": p.Updated,
		"expires": p.Expires, "owner": p.Owner, "signature": p.Sig,
		"email": p.Email, "mobile": p.Mobile, "picture": p.Picture,
	}
}

func (p *PersonProfile) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", p.ID, true))
	errs = errs.Also(p.Header.CheckType(TypeProfilePerson))
	errs = errs.Also(field.ValidateDate("created", p.Created, true))
	errs = errs.Also(field.ValidateDate("expires", p.Expires, true))
	errs = errs.Also(common.CheckUpdated(p.Created, p.Updated))
	errs = errs.Also(common.CheckExpiry(p.Touched(p.Created), p.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("owner", p.Owner, true))
	if p.Email != "" {
		errs = errs.Also(field.ValidateEmail("email", p.Email, false))
	}
	return errs
}

// MinistryProfile mirrors PersonProfile for the Ministry entity kind.
type MinistryProfile struct {
	Header
	Updatable
	Owned
	Signed

	Email   string
	Phone   string
	Picture []byte
	URL     string
}

func (p *MinistryProfile) Meta() *Header    { return &p.Header }
func (p *MinistryProfile) TypeTag() TypeTag { return p.Type }

func (p *MinistryProfile) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": p.ID, "type": p.Type, "created": p.Created, "updated": p.Updated,
		"expires": p.Expires, "owner": p.Owner, "signature": p.Sig,
		"email": p.Email, "phone": p.Phone, "picture": p.Picture, "url": p.URL,
	}
}

func (p *MinistryProfile) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", p.ID, true))
	errs = errs.Also(p.Header.CheckType(TypeProfileMinistry))
	errs = errs.Also(field.ValidateDate("created", p.Created, true))
	errs = errs.Also(field.ValidateDate("expires", p.Expires, true))
	errs = errs.Also(common.CheckUpdated(p.Created, p.Updated))
	errs = errs.Also(common.CheckExpiry(p.Touched(p.Created), p.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("owner", p.Owner, true))
	if p.Email != "" {
		errs = errs.Also(field.ValidateEmail("email", p.Email, false))
	}
	return errs
}

// ChurchProfile mirrors PersonProfile for the Church entity kind.
type ChurchProfile struct {
	Header
	Updatable
	Owned
	Signed

	Email   string
	Phone   string
	Picture []byte
	URL     string
}

func (p *ChurchProfile) Meta() *Header    { return &p.Header }
func (p *ChurchProfile) TypeTag() TypeTag { return p.Type }

func (p *ChurchProfile) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": p.ID, "type": p.Type, "created": p.Created, "updated": p.Updated,
		"expires": p.Expires, "owner": p.Owner, "signature": p.Sig,
		"email": p.Email, "phone": p.Phone, "picture": p.Picture, "url": p.URL,
	}
}

func (p *ChurchProfile) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", p.ID, true))
	errs = errs.Also(p.Header.CheckType(TypeProfileChurch))
	errs = errs.Also(field.ValidateDate("created", p.Created, true))
	errs = errs.Also(field.ValidateDate("expires", p.Expires, true))
	errs = errs.Also(common.CheckUpdated(p.Created, p.Updated))
	errs = errs.Also(common.CheckExpiry(p.Touched(p.Created), p.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("owner", p.Owner, true))
	if p.Email != "" {
		errs = errs.Also(field.ValidateEmail("email", p.Email, false))
	}
	return errs
}
