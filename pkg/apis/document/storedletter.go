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

// StoredLetter is the mailbox-storage wrapper around a delivered message: it
// carries its own id plus the opened message, and is the unit a Store holds
// once an Envelope has been opened by pkg/policy's envelope flow. Self.ID
// must equal Message's own id -- DocumentWrongId -- since the wrapper's id
// is how the mailbox indexes the letter and the two must never drift apart.
type StoredLetter struct {
	ID      uuid.UUID
	Message Document
}

func (l *StoredLetter) Native() map[string]interface{} {
	return map[string]interface{}{"id": l.ID, "message": l.Message}
}

func (l *StoredLetter) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", l.ID, true))
	if l.Message == nil {
		return errs.Also(apis.ErrMissingField("message"))
	}
	errs = errs.Also(l.Message.Validate().ViaField("message"))
	if l.Message.Meta().ID != l.ID {
		errs = errs.Also(&apis.FieldError{
			Message: "stored letter id must match its message id (DocumentWrongId)",
			Paths:   []string{"id"},
		})
	}
	return errs
}
