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
	"reflect"

	"github.com/hashicorp/go-multierror"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/crypto"
	"github.com/kristoffer-paulsson/angelos-go/pkg/log"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
	"k8s.io/apimachinery/pkg/util/sets"
)

// ImportPolicy validates documents someone else hands to owner before they
// are admitted into owner's portfolio. Each per-document method swallows
// typed rejection errors (a bad signature, a structural validation failure,
// an owner mismatch) and returns a nil or false result rather than
// propagating them; ImportDocuments reports the rejections of a batch as one
// aggregated error. Generation's preconditions abort loudly; acceptance here
// never does. Rejections are logged at debug level rather than surfaced, the way
// the teacher's admission webhook logs a denied request before returning
// its verdict.
type ImportPolicy struct {
	Owner *portfolio.Portfolio
	Log   log.Logger
}

// NewImportPolicy binds an ImportPolicy to the portfolio accepting
// documents.
func NewImportPolicy(owner *portfolio.Portfolio) *ImportPolicy {
	return &ImportPolicy{Owner: owner, Log: log.Nop()}
}

func (p *ImportPolicy) logger() log.Logger {
	if p.Log == nil {
		return log.Nop()
	}
	return p.Log
}

// Entity validates owner's own entity document: structurally sound and
// self-signed under owner's own key set.
func (p *ImportPolicy) Entity() bool {
	if p.Owner == nil || p.Owner.Entity == nil {
		return false
	}
	if errs := p.Owner.Entity.Validate(); errs != nil {
		p.logger().Debugf("reject entity: %v", errs)
		return false
	}
	ok, err := crypto.Verify(p.Owner.Entity, p.Owner)
	if err != nil {
		p.logger().Debugf("reject entity: %v", err)
	}
	return err == nil && ok
}

// IssuedDocument validates any document carrying an issuer field against
// issuer's portfolio: structurally sound, and signed by one of issuer's
// keys in force at the document's touch date. Returns doc unchanged on
// success, nil on any rejection.
func (p *ImportPolicy) IssuedDocument(doc document.Document, issuer *portfolio.Portfolio) document.Document {
	if doc == nil || issuer == nil {
		return nil
	}
	if errs := doc.Validate(); errs != nil {
		p.logger().Debugf("reject %T: %v", doc, errs)
		return nil
	}
	ok, err := crypto.Verify(doc, issuer)
	if err != nil || !ok {
		p.logger().Debugf("reject %T: signature did not verify (%v)", doc, err)
		return nil
	}
	return doc
}

// NodeDocument is IssuedDocument specialized to *document.Node, the shape
// callers managing a Domain's node list actually want back.
func (p *ImportPolicy) NodeDocument(n *document.Node, issuer *portfolio.Portfolio) *document.Node {
	doc := p.IssuedDocument(n, issuer)
	node, _ := doc.(*document.Node)
	return node
}

// OwnedDocument is IssuedDocument plus the additional check that the
// document's owner field names p.Owner's own entity -- the shape every
// Profile, Verified/Trusted statement and message variant shares.
func (p *ImportPolicy) OwnedDocument(doc document.Document, issuer *portfolio.Portfolio) document.Document {
	if p.Owner == nil {
		return nil
	}
	oh, ok := doc.(document.OwnerHolder)
	if !ok || oh.GetOwner() != p.Owner.EntityID() {
		p.logger().Debugf("reject %T: owner mismatch", doc)
		return nil
	}
	return p.IssuedDocument(doc, issuer)
}

// Envelope validates an inbound envelope addressed to p.Owner: owner match,
// structural validity, and a signature from sender that verifies over
// every field except the header chain (which pkg/crypto's VerifyHeaderChain
// checks separately, hop by hop).
func (p *ImportPolicy) Envelope(env *document.Envelope, sender *portfolio.Portfolio) *document.Envelope {
	if p.Owner == nil || env.Owner != p.Owner.EntityID() {
		p.logger().Debugf("reject envelope: owner mismatch")
		return nil
	}
	if errs := env.Validate(); errs != nil {
		p.logger().Debugf("reject envelope: %v", errs)
		return nil
	}
	ok, err := crypto.Verify(env, sender, "header")
	if err != nil || !ok {
		p.logger().Debugf("reject envelope: signature did not verify (%v)", err)
		return nil
	}
	return env
}

// Message validates any of the message variants (Note, Instant, Mail,
// Share, Report) addressed to p.Owner: owner match, structural validity,
// and sender's signature. A message travels sealed inside an Envelope --
// sender here is the envelope's already-verified issuer portfolio. Open
// already validates the message and verifies its signature against sender
// before handing it back, but Open does not compare the message's owner
// with the receiver; this method does.
func (p *ImportPolicy) Message(m document.Document, sender *portfolio.Portfolio) document.Document {
	return p.OwnedDocument(m, sender)
}

// ImportDocuments runs IssuedDocument over a batch and aggregates every
// rejection into a single *multierror.Error for the caller to report,
// rather than surfacing only the first failure -- matching the teacher's
// own use of hashicorp/go-multierror to collect every policy violation in
// one admission response instead of bailing out on the first.
func (p *ImportPolicy) ImportDocuments(docs []document.Document, issuer *portfolio.Portfolio) ([]document.Document, error) {
	var accepted []document.Document
	var result *multierror.Error
	for i, d := range docs {
		if got := p.IssuedDocument(d, issuer); got != nil {
			accepted = append(accepted, got)
			continue
		}
		result = multierror.Append(result, fmt.Errorf("document %d (%T) rejected", i, d))
	}
	return accepted, result.ErrorOrNil()
}

// ImportUpdatePolicy validates a proposed revision to something owner
// already holds: a key rotation, or an entity update.
type ImportUpdatePolicy struct {
	Owner *portfolio.Portfolio
	Log   log.Logger
}

// NewImportUpdatePolicy binds an ImportUpdatePolicy to the portfolio whose
// material is being updated.
func NewImportUpdatePolicy(owner *portfolio.Portfolio) *ImportUpdatePolicy {
	return &ImportUpdatePolicy{Owner: owner, Log: log.Nop()}
}

func (p *ImportUpdatePolicy) logger() log.Logger {
	if p.Log == nil {
		return log.Nop()
	}
	return p.Log
}

// Keys accepts a proposed key rotation: newKeys must be self-signed under
// its own (incoming) key material and additionally carry a valid
// carry-over signature from one of owner's existing keys.
func (p *ImportUpdatePolicy) Keys(newKeys *document.Keys) bool {
	if p.Owner == nil {
		return false
	}
	ok, err := crypto.VerifyKeys(newKeys, p.Owner)
	if err != nil || !ok {
		p.logger().Debugf("reject keys rotation: %v", err)
	}
	return err == nil && ok
}

// Entity accepts a proposed entity update: it must structurally validate,
// carry a valid signature under owner's current keys, and differ from the
// stored copy in no field outside signature, updated, and the variant's
// allow-listed mutable fields.
func (p *ImportUpdatePolicy) Entity(updated document.Document, allowed sets.String) document.Document {
	if p.Owner == nil || p.Owner.Entity == nil {
		return nil
	}
	current := p.Owner.Entity
	if current.Meta().ID != updated.Meta().ID {
		p.logger().Debugf("reject entity update: id mismatch")
		return nil
	}
	if errs := updated.Validate(); errs != nil {
		p.logger().Debugf("reject entity update: %v", errs)
		return nil
	}
	ok, err := crypto.Verify(updated, p.Owner)
	if err != nil || !ok {
		p.logger().Debugf("reject entity update: signature did not verify (%v)", err)
		return nil
	}

	curMap := document.Export(current, document.ConvNative)
	newMap := document.Export(updated, document.ConvNative)
	for k, v := range newMap {
		if k == "signature" || k == "updated" || allowed.Has(k) {
			continue
		}
		if !reflect.DeepEqual(v, curMap[k]) {
			p.logger().Debugf("reject entity update: field %q outside allow-list changed", k)
			return nil
		}
	}
	return updated
}
