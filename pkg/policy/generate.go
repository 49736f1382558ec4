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
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/policy/common"
	"github.com/kristoffer-paulsson/angelos-go/pkg/crypto"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
	"golang.org/x/crypto/nacl/box"
)

// PersonData, MinistryData and ChurchData are the caller-supplied fields
// each entity generation flow turns into a self-signed entity plus a fresh
// key pair.

type PersonData struct {
	GivenName  string
	FamilyName string
	Names      []string
	Sex        string
	Born       field.Date
}

type MinistryData struct {
	Ministry string
	Vision   string
	Founded  field.Date
}

type ChurchData struct {
	Founded field.Date
	City    string
	Region  string
	Country string
}

// GeneratePerson builds a self-issued Person entity plus a matching Keys /
// PrivateKeys pair, signs all three, and returns the resulting
// PrivatePortfolio.
func GeneratePerson(data PersonData, today time.Time) (*portfolio.PrivatePortfolio, error) {
	id := uuid.New()
	entity := &document.Person{
		Header: document.Header{ID: id, Type: document.TypeEntityPerson,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.IdentityValidity))},
		Issued:     document.Issued{Issuer: id},
		GivenName:  data.GivenName,
		FamilyName: data.FamilyName,
		Names:      data.Names,
		Sex:        data.Sex,
		Born:       data.Born,
	}
	return generateEntity(entity, today)
}

// GenerateMinistry is GeneratePerson's Ministry-entity counterpart.
func GenerateMinistry(data MinistryData, today time.Time) (*portfolio.PrivatePortfolio, error) {
	id := uuid.New()
	entity := &document.Ministry{
		Header: document.Header{ID: id, Type: document.TypeEntityMinistry,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.IdentityValidity))},
		Issued:   document.Issued{Issuer: id},
		Ministry: data.Ministry,
		Vision:   data.Vision,
		Founded:  data.Founded,
	}
	return generateEntity(entity, today)
}

// GenerateChurch is GeneratePerson's Church-entity counterpart.
func GenerateChurch(data ChurchData, today time.Time) (*portfolio.PrivatePortfolio, error) {
	id := uuid.New()
	entity := &document.Church{
		Header: document.Header{ID: id, Type: document.TypeEntityChurch,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.IdentityValidity))},
		Issued:  document.Issued{Issuer: id},
		Founded: data.Founded,
		City:    data.City,
		Region:  data.Region,
		Country: data.Country,
	}
	return generateEntity(entity, today)
}

// generateEntity issues the key pair, assembles a provisional portfolio
// sufficient to sign with, signs entity/keys/privkeys, and validates the
// entity before returning.
func generateEntity(entity document.Document, today time.Time) (*portfolio.PrivatePortfolio, error) {
	entityID := entity.Meta().ID
	keys, priv, err := newKeyPair(entityID, today)
	if err != nil {
		return nil, fmt.Errorf("policy: generate entity: %w", err)
	}

	pp := &portfolio.PrivatePortfolio{
		Portfolio: portfolio.Portfolio{Entity: entity, Keys: []*document.Keys{keys}},
		PrivKeys:  priv,
	}

	if err := crypto.Sign(entity, pp, today, false); err != nil {
		return nil, fmt.Errorf("policy: generate entity: self-sign: %w", err)
	}
	if err := crypto.Sign(keys, pp, today, true); err != nil {
		return nil, fmt.Errorf("policy: generate entity: sign keys: %w", err)
	}
	if err := crypto.Sign(priv, pp, today, false); err != nil {
		return nil, fmt.Errorf("policy: generate entity: sign privkeys: %w", err)
	}
	if errs := entity.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: generate entity: %w", errs)
	}
	return pp, nil
}

// newKeyPair samples a fresh Ed25519 seed and X25519 box pair from a
// cryptographically strong source and wraps them in a Keys/PrivateKeys
// document pair, unsigned.
func newKeyPair(entityID uuid.UUID, today time.Time) (*document.Keys, *document.PrivateKeys, error) {
	edPub, edPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("policy: generate keys: %w", err)
	}
	boxPub, boxSec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("policy: generate keys: %w", err)
	}

	expires := field.NewDate(today.Add(common.IdentityValidity))
	keys := &document.Keys{
		Header: document.Header{ID: uuid.New(), Type: document.TypeKeys,
			Created: field.NewDate(today), Expires: expires},
		Issued: document.Issued{Issuer: entityID},
		Verify: []byte(edPub),
		Public: boxPub[:],
	}
	priv := &document.PrivateKeys{
		Header: document.Header{ID: uuid.New(), Type: document.TypeKeysPrivate,
			Created: field.NewDate(today), Expires: expires},
		Issued: document.Issued{Issuer: entityID},
		Secret: boxSec[:],
		Seed:   edPriv.Seed(),
	}
	return keys, priv, nil
}

// RenewEntity implements the entity renewal flow: updated := today,
// expires := today + ~13 months, signature cleared and redone.
func RenewEntity(entity document.Document, pp *portfolio.PrivatePortfolio, today time.Time) error {
	updater, ok := entity.(document.Updater)
	if !ok {
		return fmt.Errorf("policy: renew: %T is not renewable", entity)
	}
	ss, ok := entity.(document.SingleSigner)
	if !ok {
		return fmt.Errorf("policy: renew: %T does not carry a single signature", entity)
	}

	updater.SetUpdated(field.NewDate(today))
	entity.Meta().SetExpires(field.NewDate(today.Add(common.IdentityValidity)))
	ss.ClearSignature()

	if err := crypto.Sign(entity, pp, today, false); err != nil {
		return fmt.Errorf("policy: renew: re-sign: %w", err)
	}
	if errs := entity.Validate(); errs != nil {
		return fmt.Errorf("policy: renew: %w", errs)
	}
	return nil
}

// Newkeys rotates a portfolio's signing key pair: the new Keys document is
// signed first by the outgoing private key (carry-over trust), then by the
// incoming private key (self-trust), giving it two signatures in
// old-then-new order. The new PrivateKeys is signed once, by the outgoing
// pair. The new Keys is inserted at the front of pp.Keys.
func Newkeys(pp *portfolio.PrivatePortfolio, today time.Time) (*document.Keys, *document.PrivateKeys, error) {
	if pp.Entity == nil || pp.PrivKeys == nil {
		return nil, nil, ErrNoEntity
	}
	entityID := pp.Entity.Meta().ID

	newKeys, newPriv, err := newKeyPair(entityID, today)
	if err != nil {
		return nil, nil, err
	}

	// Sign the new Keys with the outgoing private key first.
	if err := crypto.Sign(newKeys, pp, today, true); err != nil {
		return nil, nil, fmt.Errorf("policy: newkeys: carry-over sign: %w", err)
	}
	// Sign the new PrivateKeys with the outgoing pair.
	if err := crypto.Sign(newPriv, pp, today, false); err != nil {
		return nil, nil, fmt.Errorf("policy: newkeys: sign privkeys: %w", err)
	}

	// Sign the new Keys again, now as the incoming private key.
	incoming := &portfolio.PrivatePortfolio{
		Portfolio: portfolio.Portfolio{Entity: pp.Entity, Keys: []*document.Keys{newKeys}},
		PrivKeys:  newPriv,
	}
	if err := crypto.Sign(newKeys, incoming, today, true); err != nil {
		return nil, nil, fmt.Errorf("policy: newkeys: self-sign: %w", err)
	}

	pp.Keys = append([]*document.Keys{newKeys}, pp.Keys...)
	pp.PrivKeys = newPriv
	return newKeys, newPriv, nil
}
