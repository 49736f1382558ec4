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
	"crypto/rand"
	"fmt"
	"time"

	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
	"golang.org/x/crypto/nacl/box"
)

// Conceal seals plaintext for receiver using NaCl's public-key box
// (X25519 key agreement, XSalsa20-Poly1305 AEAD): sender's secret box key
// and receiver's latest public box key. The nonce is generated fresh per
// call and prefixed to the ciphertext, matching box.Seal's own convention.
func Conceal(plaintext []byte, sender *portfolio.PrivatePortfolio, receiver *portfolio.Portfolio, today time.Time) ([]byte, error) {
	if err := checkParties(sender, receiver, today); err != nil {
		return nil, err
	}
	receiverKeys := receiver.LatestKeys()

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("crypto: conceal: %w", err)
	}
	var recvPub, sendSec [32]byte
	copy(recvPub[:], receiverKeys.Public)
	copy(sendSec[:], sender.PrivKeys.Secret)

	out := make([]byte, 0, 24+len(plaintext)+box.Overhead)
	out = append(out, nonce[:]...)
	return box.Seal(out, plaintext, &nonce, &recvPub, &sendSec), nil
}

// Reveal is Conceal's inverse: receiver's secret box key opens a box sealed
// with sender's public box key. sender and receiver are swapped relative to
// Conceal's call (the portfolio that sealed is now the "signer" identity
// being verified against).
func Reveal(sealed []byte, receiver *portfolio.PrivatePortfolio, sender *portfolio.Portfolio, today time.Time) ([]byte, error) {
	if err := checkParties(receiver, sender, today); err != nil {
		return nil, err
	}
	if len(sealed) < 24 {
		return nil, fmt.Errorf("crypto: reveal: sealed payload shorter than a nonce")
	}
	senderKeys := sender.LatestKeys()

	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	var sendPub, recvSec [32]byte
	copy(sendPub[:], senderKeys.Public)
	copy(recvSec[:], receiver.PrivKeys.Secret)

	plain, ok := box.Open(nil, sealed[24:], &nonce, &sendPub, &recvSec)
	if !ok {
		return nil, fmt.Errorf("crypto: reveal: box authentication failed")
	}
	return plain, nil
}

// checkParties enforces Conceal/Reveal's shared precondition: sender and
// receiver entities and their latest keys must all be unexpired as of
// today.
func checkParties(sender *portfolio.PrivatePortfolio, receiver *portfolio.Portfolio, today time.Time) error {
	if sender.Entity == nil || sender.PrivKeys == nil {
		return ErrNoKeys
	}
	if receiver.Entity == nil {
		return ErrNoKeys
	}
	senderKeys := sender.LatestKeys()
	receiverKeys := receiver.LatestKeys()
	if senderKeys == nil || receiverKeys == nil {
		return ErrNoKeys
	}
	if today.After(sender.Entity.Meta().Expires.Time) || today.After(receiver.Entity.Meta().Expires.Time) {
		return ErrEntityExpired
	}
	if today.After(senderKeys.Expires.Time) || today.After(receiverKeys.Expires.Time) {
		return ErrKeysExpired
	}
	return nil
}
