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
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
	naclsign "golang.org/x/crypto/nacl/sign"
)

// Sign computes and installs doc's signature using signer's latest key
// pair. multiple selects whether the document's signature field admits a
// list (Keys) or a single value (everything else). exclude names
// additional fields DocumentData should drop beyond the implicit
// issuer/signature.
//
// Preconditions, checked in the order the spec lists them: doc.issuer must
// equal both the signer's key-document issuer and the signer's own entity
// id; today must not be past either the entity's or the keys' expiry.
func Sign(doc document.Document, signer *portfolio.PrivatePortfolio, today time.Time, multiple bool, exclude ...string) error {
	if signer.Entity == nil || signer.PrivKeys == nil {
		return ErrNoKeys
	}
	keys := signer.LatestKeys()
	if keys == nil {
		return ErrNoKeys
	}

	issuerHolder, ok := doc.(document.IssuerHolder)
	if !ok {
		return fmt.Errorf("crypto: %T does not carry an issuer field", doc)
	}
	entityID := signer.Entity.Meta().ID
	if issuerHolder.GetIssuer() != entityID || keys.Issuer != entityID {
		return ErrIssuerMismatch
	}
	if today.After(signer.Entity.Meta().Expires.Time) {
		return ErrEntityExpired
	}
	if today.After(keys.Expires.Time) {
		return ErrKeysExpired
	}

	if multiple {
		ms, ok := doc.(document.MultiSigner)
		if !ok {
			return ErrNotMultipleSig
		}
		sig := sign(signer, entityID, DocumentData(doc, exclude...))
		ms.AppendSignature(sig)
		return nil
	}

	ss, ok := doc.(document.SingleSigner)
	if !ok {
		return fmt.Errorf("crypto: %T does not support single signing", doc)
	}
	if existing := ss.Signature(); len(existing.Bytes) > 0 && !existing.Redo() {
		return ErrAlreadySigned
	}
	sig := sign(signer, entityID, DocumentData(doc, exclude...))
	ss.SetSignature(sig)
	return nil
}

// sign runs the NaCl-compatible Ed25519 attached-signature primitive over
// signer.entity.id || data, returning just the 64-byte detached signature
// (the document stores signature and data separately; Verify reassembles
// the attached form nacl/sign expects).
func sign(signer *portfolio.PrivatePortfolio, entityID uuid.UUID, data []byte) []byte {
	priv := naclPrivateKey(signer.PrivKeys.Seed)
	payload := append(field.UUIDBytes(entityID), data...)
	signed := naclsign.Sign(nil, payload, priv)
	return signed[:ed25519.SignatureSize]
}

func naclPrivateKey(seed []byte) *[64]byte {
	edPriv := ed25519.NewKeyFromSeed(seed)
	var priv [64]byte
	copy(priv[:], edPriv)
	return &priv
}
