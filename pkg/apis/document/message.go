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
	"knative.dev/pkg/apis"
)

func init() {
	Register(TypeComNote, func() Document { return &Note{Header: Header{Type: TypeComNote}} })
	Register(TypeComInstant, func() Document { return &Instant{Header: Header{Type: TypeComInstant}} })
	Register(TypeComMail, func() Document { return &Mail{Header: Header{Type: TypeComMail}} })
	Register(TypeComShare, func() Document { return &Share{Header: Header{Type: TypeComShare}} })
	Register(TypeComReport, func() Document { return &Report{Header: Header{Type: TypeComReport}} })
}

// Attachment is a named blob carried by a Mail message.
type Attachment struct {
	Name string
	Mime string
	Data []byte
}

func (a Attachment) Native() map[string]interface{} {
	return map[string]interface{}{"name": a.Name, "mime": a.Mime, "data": a.Data}
}

func attachmentRecords(atts []Attachment) []interface{} {
	out := make([]interface{}, len(atts))
	for i, a := range atts {
		out[i] = a
	}
	return out
}

// message is the field set every message variant carries, embedded
// anonymously in each variant; each variant still defines its own
// Native/Validate on top of native()/validate(). Every message is
// signable: it carries an issuer and a single signature like any other
// signed document, so that pkg/policy's envelope flow can sign the message
// before sealing it and verify it again against the sender after opening.
type message struct {
	Header
	Issued
	Owned
	Signed

	Reply  uuid.UUID
	Body   string
	Posted field.Instant
}

func (m message) native() map[string]interface{} {
	return map[string]interface{}{
		"id": m.ID, "type": m.Type, "created": m.Created, "expires": m.Expires,
		"issuer": m.Issuer, "owner": m.Owner, "signature": m.Sig,
		"reply": m.Reply, "body": m.Body, "posted": m.Posted,
	}
}

func (m message) validate(kind TypeTag, bodyRequired bool) (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", m.ID, true))
	errs = errs.Also(m.Header.CheckType(kind))
	errs = errs.Also(field.ValidateDate("created", m.Created, true))
	if !m.Expires.IsZero() {
		errs = errs.Also(field.ValidateDate("expires", m.Expires, false))
	}
	errs = errs.Also(field.ValidateUUID("issuer", m.Issuer, true))
	errs = errs.Also(field.ValidateUUID("owner", m.Owner, true))
	if m.Reply != uuid.Nil {
		errs = errs.Also(field.ValidateUUID("reply", m.Reply, false))
	}
	errs = errs.Also(field.ValidateString("body", m.Body, bodyRequired))
	errs = errs.Also(field.ValidateInstant("posted", m.Posted, true))
	return errs
}

// Note is a short status update; its body is optional.
type Note struct {
	message
}

func (d *Note) Meta() *Header    { return &d.Header }
func (d *Note) TypeTag() TypeTag { return d.Type }

func (d *Note) Native() map[string]interface{} { return d.message.native() }

func (d *Note) Validate() *apis.FieldError { return d.validate(TypeComNote, false) }

// Instant is a short, ephemeral chat-style message.
type Instant struct {
	message
}

func (d *Instant) Meta() *Header    { return &d.Header }
func (d *Instant) TypeTag() TypeTag { return d.Type }

func (d *Instant) Native() map[string]interface{} { return d.message.native() }

func (d *Instant) Validate() *apis.FieldError { return d.validate(TypeComInstant, true) }

// Mail is a long-form message that may carry attachments.
type Mail struct {
	message

	Subject     string
	Attachments []Attachment
}

func (d *Mail) Meta() *Header    { return &d.Header }
func (d *Mail) TypeTag() TypeTag { return d.Type }

func (d *Mail) Native() map[string]interface{} {
	m := d.message.native()
	m["subject"] = d.Subject
	m["attachments"] = attachmentRecords(d.Attachments)
	return m
}

func (d *Mail) Validate() (errs *apis.FieldError) {
	errs = errs.Also(d.validate(TypeComMail, false))
	errs = errs.Also(field.ValidateString("subject", d.Subject, true))
	return errs
}

// Share hands another portfolio document (typically a Profile, or a
// Verified/Trusted statement) to the recipient. The spec defines Share as
// structurally identical to Mail (subject, attachments[]); the shared
// document travels as one of the Attachments.
type Share struct {
	message

	Subject     string
	Attachments []Attachment
}

func (d *Share) Meta() *Header    { return &d.Header }
func (d *Share) TypeTag() TypeTag { return d.Type }

func (d *Share) Native() map[string]interface{} {
	m := d.message.native()
	m["subject"] = d.Subject
	m["attachments"] = attachmentRecords(d.Attachments)
	return m
}

func (d *Share) Validate() (errs *apis.FieldError) {
	errs = errs.Also(d.validate(TypeComShare, false))
	errs = errs.Also(field.ValidateString("subject", d.Subject, true))
	return errs
}

// Report flags an entity or a document to its issuing authority. The spec
// defines Report as structurally identical to Mail (subject,
// attachments[]); the flagged material travels as one of the Attachments.
type Report struct {
	message

	Subject     string
	Attachments []Attachment
}

func (d *Report) Meta() *Header    { return &d.Header }
func (d *Report) TypeTag() TypeTag { return d.Type }

func (d *Report) Native() map[string]interface{} {
	m := d.message.native()
	m["subject"] = d.Subject
	m["attachments"] = attachmentRecords(d.Attachments)
	return m
}

func (d *Report) Validate() (errs *apis.FieldError) {
	errs = errs.Also(d.validate(TypeComReport, false))
	errs = errs.Also(field.ValidateString("subject", d.Subject, true))
	return errs
}
