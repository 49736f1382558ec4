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

package document_test

import (
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/policy/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidPerson() *document.Person {
	id := uuid.New()
	created := field.NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return &document.Person{
		Header: document.Header{ID: id, Type: document.TypeEntityPerson,
			Created: created, Expires: field.NewDate(created.Add(common.IdentityValidity))},
		Issued:     document.Issued{Issuer: id},
		GivenName:  "John",
		FamilyName: "Smith",
		Names:      []string{"John", "Edward"},
		Sex:        "man",
		Born:       field.NewDate(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// S1 -- Person creation.
func TestPersonValidates(t *testing.T) {
	p := newValidPerson()
	assert.Nil(t, p.Validate())
	assert.Equal(t, p.ID, p.Issuer)
}

// S2 -- Person without given name in names.
func TestPersonGivenNameMustAppearInNames(t *testing.T) {
	p := newValidPerson()
	p.Names = []string{"Alice"}
	p.GivenName = "Bob"
	errs := p.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs.Error(), "given_name")
}

func TestPersonShortExpiryFails(t *testing.T) {
	p := newValidPerson()
	p.Expires = p.Created.AddDate(0, 1, 0)
	errs := p.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs.Error(), "expires")
}

func TestPersonUpdatedBeforeCreatedFails(t *testing.T) {
	p := newValidPerson()
	p.Updated = p.Created.AddDate(0, 0, -1)
	errs := p.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs.Error(), "updated")
}

func TestPersonWrongTypeTagFails(t *testing.T) {
	p := newValidPerson()
	p.Type = document.TypeEntityMinistry
	assert.NotNil(t, p.Validate())
}

func TestNodeServerRequiresLocation(t *testing.T) {
	id := uuid.New()
	created := field.NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	n := &document.Node{
		Header: document.Header{ID: id, Type: document.TypeNetNode,
			Created: created, Expires: field.NewDate(created.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: uuid.New()},
		Domain: uuid.New(),
		Role:   "server",
		Device: "phone",
		Serial: "abc123",
	}
	errs := n.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs.Error(), "location")

	n.Location = &document.Location{Hostname: []string{"node1"}}
	assert.Nil(t, n.Validate())
}

func TestNodeClientDoesNotRequireLocation(t *testing.T) {
	id := uuid.New()
	created := field.NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	n := &document.Node{
		Header: document.Header{ID: id, Type: document.TypeNetNode,
			Created: created, Expires: field.NewDate(created.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: uuid.New()},
		Domain: uuid.New(),
		Role:   "client",
		Device: "phone",
		Serial: "abc123",
	}
	assert.Nil(t, n.Validate())
}

func TestNetworkRequiresAtLeastOneAddressableHost(t *testing.T) {
	id := uuid.New()
	created := field.NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	n := &document.Network{
		Header: document.Header{ID: id, Type: document.TypeNetNetwork,
			Created: created, Expires: field.NewDate(created.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: uuid.New()},
		Domain: uuid.New(),
		Hosts:  []document.Host{{Node: uuid.New()}},
	}
	errs := n.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs.Error(), "hosts")

	n.Hosts[0].IP = []net.IP{net.ParseIP("10.0.0.1")}
	assert.Nil(t, n.Validate())
}

func TestStoredLetterWrongIdFails(t *testing.T) {
	p := newValidPerson()
	letter := &document.StoredLetter{ID: uuid.New(), Message: p}
	errs := letter.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs.Error(), "id")

	letter.ID = p.ID
	assert.Nil(t, letter.Validate())
}

func TestKeysValidateRejectsBadLengths(t *testing.T) {
	id := uuid.New()
	created := field.NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	k := &document.Keys{
		Header: document.Header{ID: id, Type: document.TypeKeys,
			Created: created, Expires: field.NewDate(created.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: uuid.New()},
		Verify: make([]byte, 31),
		Public: make([]byte, 32),
	}
	k.Sigs = append(k.Sigs, []byte("sig"))
	assert.NotNil(t, k.Validate())

	k.Verify = make([]byte, 32)
	assert.Nil(t, k.Validate())
}

// The native export carries each field's own value unchanged; a list field
// comes back as a []interface{} holding its elements in their original order.
func TestExportNativeRoundTrip(t *testing.T) {
	p := newValidPerson()
	m := document.Export(p, document.ConvNative)
	assert.Equal(t, p.GivenName, m["given_name"])
	names := make([]interface{}, len(p.Names))
	for i, n := range p.Names {
		names[i] = n
	}
	assert.Equal(t, names, m["names"])
	assert.Equal(t, p.ID, m["id"])
}

func TestExportYAMLRendersBytesAsBase64(t *testing.T) {
	id := uuid.New()
	created := field.NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	k := &document.Keys{
		Header: document.Header{ID: id, Type: document.TypeKeys,
			Created: created, Expires: field.NewDate(created.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: uuid.New()},
		Verify: []byte("0123456789012345678901234567890"),
		Public: []byte("0123456789012345678901234567890"),
	}
	out, err := document.YAML(k)
	require.NoError(t, err)
	assert.Contains(t, string(out), "verify:")
	assert.Contains(t, string(out), field.BytesBase64(k.Verify))
}

// newMessageHeader returns a fresh id and a fixed creation date for a
// message variant; callers assign them through promoted fields, since the
// message embed itself is unexported and cannot be named in a composite
// literal.
func newMessageHeader(typ document.TypeTag) (id uuid.UUID, created field.Date) {
	id = uuid.New()
	created = field.NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return id, created
}

func TestMailShareReportShareMailShape(t *testing.T) {
	// Spec: Share and Report are structurally equal to Mail (subject,
	// attachments[]).
	atts := []document.Attachment{{Name: "a.txt", Mime: "text/plain", Data: []byte("payload")}}

	mail := &document.Mail{}
	mail.ID, mail.Created = newMessageHeader(document.TypeComMail)
	mail.Type = document.TypeComMail
	mail.Expires = field.NewDate(mail.Created.Add(common.MessageValidity))
	mail.Issuer = uuid.New()
	mail.Owner = uuid.New()
	mail.Sig.Set([]byte("sig"))
	mail.Posted = field.NewInstant(time.Now())
	mail.Subject = "hi"
	mail.Attachments = atts
	assert.Nil(t, mail.Validate())

	share := &document.Share{}
	share.ID, share.Created = newMessageHeader(document.TypeComShare)
	share.Type = document.TypeComShare
	share.Expires = field.NewDate(share.Created.Add(common.MessageValidity))
	share.Issuer = uuid.New()
	share.Owner = uuid.New()
	share.Sig.Set([]byte("sig"))
	share.Posted = field.NewInstant(time.Now())
	share.Subject = "hi"
	share.Attachments = atts
	assert.Nil(t, share.Validate())

	report := &document.Report{}
	report.ID, report.Created = newMessageHeader(document.TypeComReport)
	report.Type = document.TypeComReport
	report.Expires = field.NewDate(report.Created.Add(common.MessageValidity))
	report.Issuer = uuid.New()
	report.Owner = uuid.New()
	report.Sig.Set([]byte("sig"))
	report.Posted = field.NewInstant(time.Now())
	report.Subject = "hi"
	report.Attachments = atts
	assert.Nil(t, report.Validate())
}
