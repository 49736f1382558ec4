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
	"k8s.io/apimachinery/pkg/util/sets"
	"knative.dev/pkg/apis"
)

// EnvelopeOps enumerates the admitted EnvelopeHeader.Op values, the three
// steps of an envelope's transit: handed to the network by its owner,
// relayed by zero or more intermediate nodes, and delivered to the
// recipient.
var EnvelopeOps = sets.NewString("SEND", "ROUTE", "RECEIVE")

const (
	OpSend    = "SEND"
	OpRoute   = "ROUTE"
	OpReceive = "RECEIVE"
)

func init() {
	Register(TypeComEnvelope, func() Document { return &Envelope{Header: Header{Type: TypeComEnvelope}} })
}

// EnvelopeHeader is one link of an Envelope's transit chain: each node that
// handles the envelope appends one, signing over its op, issuer and
// timestamp. The chain is append-only; Validate checks its shape, the
// state-machine ordering is enforced by pkg/policy's envelope flow.
type EnvelopeHeader struct {
	Op        string
	Issuer    uuid.UUID
	Timestamp field.Instant
	Sig       field.Signature
}

func (h EnvelopeHeader) Native() map[string]interface{} {
	return map[string]interface{}{
		"op": h.Op, "issuer": h.Issuer, "timestamp": h.Timestamp, "signature": h.Sig,
	}
}

func (h EnvelopeHeader) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateChoice("op", h.Op, true, EnvelopeOps))
	errs = errs.Also(field.ValidateUUID("issuer", h.Issuer, true))
	errs = errs.Also(field.ValidateInstant("timestamp", h.Timestamp, true))
	return errs
}

// Envelope carries a sealed message between two portfolios. Message is the
// NaCl-boxed ciphertext produced by pkg/crypto's Conceal; it is opaque to
// every node except the final recipient. Issuer is the sending portfolio,
// which signs the envelope (excluding the header chain) before handing it
// to the network.
type Envelope struct {
	Header
	Issued
	Owned
	Signed

	Message []byte
	Headers []EnvelopeHeader
	Posted  field.Instant
}

func (e *Envelope) Meta() *Header    { return &e.Header }
func (e *Envelope) TypeTag() TypeTag { return e.Type }

func (e *Envelope) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": e.ID, "type": e.Type, "created": e.Created, "expires": e.Expires,
		"issuer": e.Issuer, "owner": e.Owner, "signature": e.Sig,
		"message": e.Message, "header": headerRecords(e.Headers),
		"posted": e.Posted,
	}
}

func headerRecords(headers []EnvelopeHeader) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}

// EnvelopeMessageLimit is the maximum ciphertext size, per the spec's
// External Interfaces section.
const EnvelopeMessageLimit = 131072

func (e *Envelope) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", e.ID, true))
	errs = errs.Also(e.Header.CheckType(TypeComEnvelope))
	errs = errs.Also(field.ValidateDate("created", e.Created, true))
	errs = errs.Also(field.ValidateDate("expires", e.Expires, true))
	errs = errs.Also(common.CheckExpiry(e.Created, e.Expires, common.EnvelopeMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", e.Issuer, true))
	errs = errs.Also(field.ValidateUUID("owner", e.Owner, true))
	errs = errs.Also(field.ValidateBinary("message", e.Message, true, EnvelopeMessageLimit))
	errs = errs.Also(field.ValidateInstant("posted", e.Posted, true))
	for i, h := range e.Headers {
		errs = errs.Also(h.Validate().ViaFieldIndex("header", i))
	}
	return errs
}
