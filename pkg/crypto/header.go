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

	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
	naclsign "golang.org/x/crypto/nacl/sign"
)

// priorSignature is the signed data a new header chains from: the previous
// header's signature if the envelope already carries one, else the
// envelope's own signature. This is what makes the chain walkable from the
// envelope signature to the last header.
func priorSignature(envelope *document.Envelope) []byte {
	if n := len(envelope.Headers); n > 0 {
		return envelope.Headers[n-1].Sig.Bytes
	}
	return envelope.Sig.Bytes
}

// SignHeader signs header in place for appending to envelope: the signed
// payload is prior_signature || signer.id || canonical(header), with the
// header's issuer already set to signer and its signature still empty. The
// caller appends the signed header to envelope.Headers.
func SignHeader(envelope *document.Envelope, header *document.EnvelopeHeader, signer *portfolio.PrivatePortfolio) error {
	if signer.Entity == nil || signer.PrivKeys == nil {
		return ErrNoKeys
	}
	entityID := signer.Entity.Meta().ID
	header.Issuer = entityID

	data := priorSignature(envelope)
	data = append(data, field.UUIDBytes(entityID)...)
	data = append(data, RecordData(header)...)

	priv := naclPrivateKey(signer.PrivKeys.Seed)
	signed := naclsign.Sign(nil, data, priv)
	header.Sig.Set(signed[:ed25519.SignatureSize])
	return nil
}

// VerifyHeaderChain walks envelope.Headers in order, checking each header's
// signature against the chain rule and against signer's keys. idx is the
// position of the header whose issuer is expected to be signer; callers
// verifying a multi-hop chain call this once per hop with the appropriate
// signer.
func VerifyHeaderChain(envelope *document.Envelope, idx int, signer *portfolio.Portfolio) (bool, error) {
	if idx < 0 || idx >= len(envelope.Headers) {
		return false, nil
	}
	h := envelope.Headers[idx]
	if h.Issuer != signer.EntityID() {
		return false, ErrIssuerMismatch
	}

	var prior []byte
	if idx == 0 {
		prior = envelope.Sig.Bytes
	} else {
		prior = envelope.Headers[idx-1].Sig.Bytes
	}
	unsigned := h
	unsigned.Sig = field.Signature{}
	data := append(append([]byte{}, prior...), field.UUIDBytes(h.Issuer)...)
	data = append(data, RecordData(unsigned)...)

	for _, k := range signer.SortedKeys() {
		if k.Issuer != signer.EntityID() {
			continue
		}
		if h.Timestamp.Time.Before(k.Created.Time) || h.Timestamp.Time.After(k.Expires.Time) {
			continue
		}
		if verifyOne(k.Verify, h.Sig.Bytes, data) {
			return true, nil
		}
	}
	return false, nil
}
