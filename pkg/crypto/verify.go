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

package crypto

import (
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
	naclsign "golang.org/x/crypto/nacl/sign"
)

// toucher is implemented by documents embedding document.Updatable
// (entities, domain, node, network): the overlap check compares a key's
// window against `updated` when set, else `created`. Documents without an
// updated field are always checked against `created`.
type toucher interface {
	Touched(created field.Date) field.Date
}

func touchDate(doc document.Document) field.Date {
	created := doc.Meta().Created
	if t, ok := doc.(toucher); ok {
		return t.Touched(created)
	}
	return created
}

// Verify reports whether doc carries a valid signature from signer,
// walking signer's keys latest-first and skipping any whose overlap window
// does not contain doc's touch date. A structural precondition failure
// (issuer mismatch) is returned as an error; an ordinary signature mismatch
// is reported as (false, nil) so callers may try another signer.
func Verify(doc document.Document, signer *portfolio.Portfolio, exclude ...string) (bool, error) {
	issuerHolder, ok := doc.(document.IssuerHolder)
	if !ok {
		return false, nil
	}
	entityID := signer.EntityID()
	if issuerHolder.GetIssuer() != entityID {
		return false, ErrIssuerMismatch
	}

	data := append(field.UUIDBytes(entityID), DocumentData(doc, exclude...)...)
	touched := touchDate(doc)

	for _, k := range signer.SortedKeys() {
		if k.Issuer != entityID {
			continue
		}
		if touched.Time.Before(k.Created.Time) || touched.Time.After(k.Expires.Time) {
			continue
		}
		if verifyAny(doc, k, data) {
			return true, nil
		}
	}
	return false, nil
}

// verifyAny attempts every signature doc carries (single or the Keys list
// form) against key's verify bytes.
func verifyAny(doc document.Document, key *document.Keys, data []byte) bool {
	if ms, ok := doc.(document.MultiSigner); ok {
		for _, sig := range ms.Signatures() {
			if verifyOne(key.Verify, sig, data) {
				return true
			}
		}
		return false
	}
	if ss, ok := doc.(document.SingleSigner); ok {
		return verifyOne(key.Verify, ss.Signature().Bytes, data)
	}
	return false
}

func verifyOne(verifyKey, sig, data []byte) bool {
	if len(sig) == 0 || len(verifyKey) != 32 {
		return false
	}
	var pub [32]byte
	copy(pub[:], verifyKey)
	signed := make([]byte, 0, len(sig)+len(data))
	signed = append(signed, sig...)
	signed = append(signed, data...)
	_, ok := naclsign.Open(nil, signed, &pub)
	return ok
}

// VerifyKeys implements the rotated-key acceptance check: the new Keys
// document must verify under a view carrying only itself (self-signed)
// and also under the signer's existing key set (carry-over trust).
func VerifyKeys(newKeys *document.Keys, signer *portfolio.Portfolio) (bool, error) {
	selfView := signer.View([]*document.Keys{newKeys})
	self, err := Verify(newKeys, selfView)
	if err != nil {
		return false, err
	}
	if !self {
		return false, nil
	}
	carryOver, err := Verify(newKeys, signer)
	if err != nil {
		return false, err
	}
	return carryOver, nil
}
