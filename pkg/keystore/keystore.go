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

// Package keystore declares the seam a caller's on-device keystore fills:
// master-password-gated storage for a portfolio's PrivateKeys seed and
// secret. The backing keystore implementation is out of this module's
// scope -- Keystore is an interface only.
package keystore

import "errors"

// ErrNotFound is returned by Get when no key material has been set.
var ErrNotFound = errors.New("keystore: no key material set")

// Keystore is the secret-material collaborator: create, (re)set, fetch and
// rotate the private key bytes a portfolio's PrivateKeys document carries,
// gated by a caller-supplied master secret.
type Keystore interface {
	New(master []byte) error
	Set(master []byte, key []byte) error
	Get(master []byte) ([]byte, error)
	Redo(master []byte, key []byte) error
}
