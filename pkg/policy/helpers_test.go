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

package policy_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/policy/common"
	"github.com/kristoffer-paulsson/angelos-go/pkg/policy"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)

func newPerson(t *testing.T, given string) *portfolio.PrivatePortfolio {
	t.Helper()
	pp, err := policy.GeneratePerson(policy.PersonData{
		GivenName: given, FamilyName: "Able",
		Names: []string{given}, Sex: "woman",
	}, today)
	require.NoError(t, err)
	return pp
}

// newMail builds an unsigned Mail issued by sender and owned by owner,
// ready to pass to policy.Wrap.
func newMail(sender *portfolio.PrivatePortfolio, owner uuid.UUID, subject, body string) *document.Mail {
	mail := &document.Mail{}
	mail.ID = uuid.New()
	mail.Type = document.TypeComMail
	mail.Created = field.NewDate(today)
	mail.Expires = field.NewDate(today.Add(common.MessageValidity))
	mail.Issuer = sender.Entity.Meta().ID
	mail.Owner = owner
	mail.Posted = field.NewInstant(today)
	mail.Subject = subject
	mail.Body = body
	return mail
}
