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

// Package policy implements the generation and acceptance policies that
// produce and validate portfolio documents: entity/keys/domain/network
// generation, statement issuance, import acceptance, and the envelope
// wrap/route/open flow. Generation preconditions panic-free errors abort
// the operation; acceptance methods swallow typed errors and return a
// nullable result, per the spec's propagation policy.
package policy

import "errors"

var (
	// ErrUnsupportedRole is returned by node generation for a role outside
	// {client, server, backup}.
	ErrUnsupportedRole = errors.New("policy: unsupported node role")

	// ErrDomainIssuerMismatch is returned when a node's domain was not
	// issued by the same entity generating the node.
	ErrDomainIssuerMismatch = errors.New("policy: domain issuer does not match entity")

	// ErrAlreadyReceived is returned by Route once an envelope's header
	// chain already carries a RECEIVE header -- the chain is sealed.
	ErrAlreadyReceived = errors.New("policy: envelope already received, header chain is sealed")

	// ErrIllegalHeaderOp is returned for any header append that is not a
	// valid transition of the envelope state machine.
	ErrIllegalHeaderOp = errors.New("policy: illegal envelope header transition")

	// ErrUnsupportedMime names the rejection of an unsupported mime type.
	// No function in this package returns it.
	ErrUnsupportedMime = errors.New("policy: unsupported mime type")

	// ErrClaimsOutOfRange names the rejection of a structural claim outside
	// its admitted range that is not a field-level validation error (e.g. a
	// negative attachment count). No function in this package returns it.
	ErrClaimsOutOfRange = errors.New("policy: claim value out of range")

	// ErrNoEntity is returned by the generation and envelope functions when
	// the acting portfolio has no entity or private keys loaded.
	ErrNoEntity = errors.New("policy: portfolio has no entity loaded")

	// ErrMessageNotVerified is returned by Open when the inner message
	// revealed from an envelope does not verify against the sender
	// portfolio -- the seal checked out, but the message's own signature
	// did not.
	ErrMessageNotVerified = errors.New("policy: opened message does not verify against sender")
)
