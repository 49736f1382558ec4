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
	"k8s.io/apimachinery/pkg/util/sets"
	"knative.dev/pkg/apis"
)

// Sexes enumerates the admitted Person.Sex values.
var Sexes = sets.NewString("man", "woman", "undefined")

// PersonUpdatableFields is the allow-list ImportUpdatePolicy.entity() uses
// when accepting a Person entity update: only these fields, plus signature
// and updated, may differ from the stored copy.
var PersonUpdatableFields = sets.NewString("family_name")

// MinistryUpdatableFields is the Ministry equivalent.
var MinistryUpdatableFields = sets.NewString("vision", "ministry")

// ChurchUpdatableFields is the Church equivalent.
var ChurchUpdatableFields = sets.NewString("city", "region", "country")

func init() {
	Register(TypeEntityPerson, func() Document { return &Person{Header: Header{Type: TypeEntityPerson}} })
	Register(TypeEntityMinistry, func() Document { return &Ministry{Header: Header{Type: TypeEntityMinistry}} })
	Register(TypeEntityChurch, func() Document { return &Church{Header: Header{Type: TypeEntityChurch}} })
}

// Person is the Person entity variant.
type Person struct {
	Header
	Updatable
	Issued
	Signed

	GivenName  string
	FamilyName string
	Names      []string
	Sex        string
	Born       field.Date
}

func (e *Person) Meta() *Header    { return &e.Header }
func (e *Person) TypeTag() TypeTag { return e.Type }

func (e *Person) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": e.ID, "type": e.Type, "created": e.Created, "updated": e.Updated,
		"expires": e.Expires, "issuer": e.Issuer, "signature": e.Sig,
		"given_name": e.GivenName, "family_name": e.FamilyName,
		"names": e.Names, "sex": e.Sex, "born": e.Born,
	}
}

func (e *Person) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", e.ID, true))
	errs = errs.Also(e.Header.CheckType(TypeEntityPerson))
	errs = errs.Also(field.ValidateDate("created", e.Created, true))
	errs = errs.Also(field.ValidateDate("expires", e.Expires, true))
	errs = errs.Also(common.CheckUpdated(e.Created, e.Updated))
	errs = errs.Also(common.CheckExpiry(e.Touched(e.Created), e.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", e.Issuer, true))
	errs = errs.Also(field.ValidateString("given_name", e.GivenName, true))
	errs = errs.Also(field.ValidateString("family_name", e.FamilyName, true))
	errs = errs.Also(field.ValidateChoice("sex", e.Sex, true, Sexes))
	errs = errs.Also(field.ValidateDate("born", e.Born, true))
	if !containsName(e.Names, e.GivenName) {
		errs = errs.Also(&apis.FieldError{
			Message: "given_name must appear in names (DocumentPersonNames)",
			Paths:   []string{"given_name", "names"},
		})
	}
	return errs
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Ministry is the Ministry entity variant.
type Ministry struct {
	Header
	Updatable
	Issued
	Signed

	Ministry string
	Vision   string
	Founded  field.Date
}

func (e *Ministry) Meta() *Header    { return &e.Header }
func (e *Ministry) TypeTag() TypeTag { return e.Type }

func (e *Ministry) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": e.ID, "type": e.Type, "created": e.Created, "updated": e.Updated,
		"expires": e.Expires, "issuer": e.Issuer, "signature": e.Sig,
		"ministry": e.Ministry, "vision": e.Vision, "founded": e.Founded,
	}
}

func (e *Ministry) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", e.ID, true))
	errs = errs.Also(e.Header.CheckType(TypeEntityMinistry))
	errs = errs.Also(field.ValidateDate("created", e.Created, true))
	errs = errs.Also(field.ValidateDate("expires", e.Expires, true))
	errs = errs.Also(common.CheckUpdated(e.Created, e.Updated))
	errs = errs.Also(common.CheckExpiry(e.Touched(e.Created), e.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", e.Issuer, true))
	errs = errs.Also(field.ValidateString("ministry", e.Ministry, true))
	errs = errs.Also(field.ValidateDate("founded", e.Founded, true))
	return errs
}

// Church is the Church entity variant.
type Church struct {
	Header
	Updatable
	Issued
	Signed

	Founded field.Date
	City    string
	Region  string
	Country string
}

func (e *Church) Meta() *Header    { return &e.Header }
func (e *Church) TypeTag() TypeTag { return e.Type }

func (e *Church) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": e.ID, "type": e.Type, "created": e.Created, "updated": e.Updated,
		"expires": e.Expires, "issuer": e.Issuer, "signature": e.Sig,
		"founded": e.Founded, "city": e.City, "region": e.Region, "country": e.Country,
	}
}

func (e *Church) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", e.ID, true))
	errs = errs.Also(e.Header.CheckType(TypeEntityChurch))
	errs = errs.Also(field.ValidateDate("created", e.Created, true))
	errs = errs.Also(field.ValidateDate("expires", e.Expires, true))
	errs = errs.Also(common.CheckUpdated(e.Created, e.Updated))
	errs = errs.Also(common.CheckExpiry(e.Touched(e.Created), e.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", e.Issuer, true))
	errs = errs.Also(field.ValidateDate("founded", e.Founded, true))
	errs = errs.Also(field.ValidateString("city", e.City, true))
	return errs
}
