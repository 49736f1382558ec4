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

import "errors"

// Policy preconditions for signing and sealing throw and abort the current
// operation -- these are the sentinel errors Sign, Conceal and Reveal
// return for each precondition named in the spec's Policy error taxonomy.
// Signature mismatch itself is never an error; Verify returns false.
var (
	ErrIssuerMismatch   = errors.New("crypto: document issuer does not match signer")
	ErrOwnerMismatch    = errors.New("crypto: document owner does not match receiver")
	ErrEntityExpired    = errors.New("crypto: signer entity has expired")
	ErrKeysExpired      = errors.New("crypto: signer keys have expired")
	ErrNoKeys           = errors.New("crypto: signer portfolio carries no keys")
	ErrAlreadySigned    = errors.New("crypto: document already carries a signature")
	ErrNotMultipleSig   = errors.New("crypto: field does not admit multiple signatures")
)
