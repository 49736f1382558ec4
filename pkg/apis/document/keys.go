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
	Register(TypeKeys, func() Document { return &Keys{Header: Header{Type: TypeKeys}} })
	Register(TypeKeysPrivate, func() Document { return &PrivateKeys{Header: Header{Type: TypeKeysPrivate}} })
}

// Keys is the public key-pair document: an Ed25519 verify key and an X25519
// box public key, issued by its entity. Keys documents may accumulate a
// signature from the outgoing private key and the incoming private key
// during rotation, so they embed MultiSigned rather than Signed.
type Keys struct {
	Header
	Issued
	MultiSigned

	Verify []byte // Ed25519 public (verify) key, 32 bytes
	Public []byte // X25519 public (box) key, 32 bytes
}

func (k *Keys) Meta() *Header    { return &k.Header }
func (k *Keys) TypeTag() TypeTag { return k.Type }

func (k *Keys) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": k.ID, "type": k.Type, "created": k.Created, "expires": k.Expires,
		"issuer": k.Issuer, "signature": k.sigRecords(),
		"verify": k.Verify, "public": k.Public,
	}
}

// sigRecords exports the signature list as a plain [][]byte -- export
// recurses into it as a list, preserving insertion order (old-signed, then
// new-signed), never sorting.
func (k *Keys) sigRecords() [][]byte { return k.Sigs }

func (k *Keys) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", k.ID, true))
	errs = errs.Also(k.Header.CheckType(TypeKeys))
	errs = errs.Also(field.ValidateDate("created", k.Created, true))
	errs = errs.Also(field.ValidateDate("expires", k.Expires, true))
	errs = errs.Also(common.CheckExpiry(k.Created, k.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", k.Issuer, true))
	errs = errs.Also(field.ValidateSignature("signature", k.Sigs, true, true, k.redo, 1024))
	errs = errs.Also(field.ValidateBinary("verify", k.Verify, true, 32))
	errs = errs.Also(field.ValidateBinary("public", k.Public, true, 32))
	if n := len(k.Verify); n > 0 && n != 32 {
		errs = errs.Also(apis.ErrInvalidValue(n, "verify", "must be exactly 32 bytes"))
	}
	if n := len(k.Public); n > 0 && n != 32 {
		errs = errs.Also(apis.ErrInvalidValue(n, "public", "must be exactly 32 bytes"))
	}
	return errs
}

// PrivateKeys is the matching secret-key document; it holds a single
// signature (signed once, by the paired public Keys' issuing entity).
type PrivateKeys struct {
	Header
	Issued
	Signed

	Secret []byte // X25519 secret (box) key, 32 bytes
	Seed   []byte // Ed25519 seed, 32 bytes
}

func (k *PrivateKeys) Meta() *Header    { return &k.Header }
func (k *PrivateKeys) TypeTag() TypeTag { return k.Type }

func (k *PrivateKeys) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": k.ID, "type": k.Type, "created": k.Created, "expires": k.Expires,
		"issuer": k.Issuer, "signature": k.Sig,
		"secret": k.Secret, "seed": k.Seed,
	}
}

func (k *PrivateKeys) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", k.ID, true))
	errs = errs.Also(k.Header.CheckType(TypeKeysPrivate))
	errs = errs.Also(field.ValidateDate("created", k.Created, true))
	errs = errs.Also(field.ValidateDate("expires", k.Expires, true))
	errs = errs.Also(common.CheckExpiry(k.Created, k.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", k.Issuer, true))
	errs = errs.Also(field.ValidateBinary("secret", k.Secret, true, 32))
	errs = errs.Also(field.ValidateBinary("seed", k.Seed, true, 32))
	return errs
}
