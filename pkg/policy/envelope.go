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

// Wrap implements the spec's `message = conceal(serialize(message), ...)`
// flow: message must already carry sender's entity id as its issuer (the
// caller builds it that way, same as any other document a portfolio
// issues); Wrap signs it under sender's latest key, serializes it, seals
// the result for receiver, builds the carrying Envelope, signs the
// envelope (excluding the not-yet-populated header chain), and appends the
// first header link: the sender handing it off to the network.
func Wrap(message document.Document, sender *portfolio.PrivatePortfolio, receiver *portfolio.Portfolio, today time.Time) (*document.Envelope, error) {
	if sender.Entity == nil || sender.PrivKeys == nil {
		return nil, ErrNoEntity
	}
	issuerHolder, ok := message.(document.IssuerHolder)
	if !ok || issuerHolder.GetIssuer() != sender.Entity.Meta().ID {
		return nil, crypto.ErrIssuerMismatch
	}
	if err := crypto.Sign(message, sender, today, false); err != nil {
		return nil, fmt.Errorf("policy: wrap: sign message: %w", err)
	}
	if errs := message.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: wrap: %w", errs)
	}
	packed, err := portfolio.Serialize(message)
	if err != nil {
		return nil, fmt.Errorf("policy: wrap: %w", err)
	}
	sealed, err := crypto.Conceal(packed, sender, receiver, today)
	if err != nil {
		return nil, fmt.Errorf("policy: wrap: %w", err)
	}

	env := &document.Envelope{
		Header: document.Header{ID: uuid.New(), Type: document.TypeComEnvelope,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.EnvelopeValidity))},
		Issued:  document.Issued{Issuer: sender.Entity.Meta().ID},
		Owned:   document.Owned{Owner: receiver.EntityID()},
		Message: sealed,
		Posted:  field.NewInstant(today),
	}
	if err := crypto.Sign(env, sender, today, false, "header"); err != nil {
		return nil, fmt.Errorf("policy: wrap: %w", err)
	}
	if err := appendHeader(env, document.OpSend, sender, today); err != nil {
		return nil, fmt.Errorf("policy: wrap: %w", err)
	}
	if errs := env.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: wrap: %w", errs)
	}
	return env, nil
}

// Route appends a ROUTE header recording an intermediate node's handling of
// envelope. It is illegal once the chain already carries a RECEIVE header.
func Route(env *document.Envelope, router *portfolio.PrivatePortfolio, today time.Time) error {
	if router.Entity == nil || router.PrivKeys == nil {
		return ErrNoEntity
	}
	if lastOp(env) == document.OpReceive {
		return ErrAlreadyReceived
	}
	return appendHeader(env, document.OpRoute, router, today)
}

// Open appends the final RECEIVE header, reveals the envelope's sealed
// payload, deserializes it back into a concrete message document, and
// verifies that message against sender before returning it. It is illegal
// to open an envelope more than once.
func Open(env *document.Envelope, receiver *portfolio.PrivatePortfolio, sender *portfolio.Portfolio, today time.Time) (document.Document, error) {
	if receiver.Entity == nil || receiver.PrivKeys == nil {
		return nil, ErrNoEntity
	}
	if lastOp(env) == document.OpReceive {
		return nil, ErrAlreadyReceived
	}
	if err := appendHeader(env, document.OpReceive, receiver, today); err != nil {
		return nil, fmt.Errorf("policy: open: %w", err)
	}
	plaintext, err := crypto.Reveal(env.Message, receiver, sender, today)
	if err != nil {
		return nil, fmt.Errorf("policy: open: %w", err)
	}
	message, err := portfolio.Deserialize(plaintext)
	if err != nil {
		return nil, fmt.Errorf("policy: open: %w", err)
	}
	if errs := message.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: open: %w", errs)
	}
	ok, err := crypto.Verify(message, sender)
	if err != nil {
		return nil, fmt.Errorf("policy: open: %w", err)
	}
	if !ok {
		return nil, ErrMessageNotVerified
	}
	return message, nil
}

func lastOp(env *document.Envelope) string {
	if n := len(env.Headers); n > 0 {
		return env.Headers[n-1].Op
	}
	return ""
}

// appendHeader validates the state-machine transition, builds and signs
// the new header link, and appends it to env.Headers.
func appendHeader(env *document.Envelope, op string, signer *portfolio.PrivatePortfolio, today time.Time) error {
	if !legalTransition(lastOp(env), op) {
		return ErrIllegalHeaderOp
	}
	h := document.EnvelopeHeader{Op: op, Timestamp: field.NewInstant(today)}
	if err := crypto.SignHeader(env, &h, signer); err != nil {
		return err
	}
	env.Headers = append(env.Headers, h)
	return nil
}

// legalTransition encodes the envelope op state machine: an empty chain
// only admits SEND; SEND and ROUTE both admit another ROUTE or the
// terminal RECEIVE; RECEIVE admits nothing further.
func legalTransition(last, next string) bool {
	switch last {
	case "":
		return next == document.OpSend
	case document.OpSend, document.OpRoute:
		return next == document.OpRoute || next == document.OpReceive
	default:
		return false
	}
}
