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

package field_test

import (
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/stretchr/testify/assert"
)

func TestValidateUUIDRequired(t *testing.T) {
	assert.NotNil(t, field.ValidateUUID("id", uuid.Nil, true))
	assert.Nil(t, field.ValidateUUID("id", uuid.New(), true))
	assert.Nil(t, field.ValidateUUID("id", uuid.Nil, false))
}

func TestValidateStringRequired(t *testing.T) {
	assert.NotNil(t, field.ValidateString("name", "", true))
	assert.Nil(t, field.ValidateString("name", "x", true))
}

func TestValidateBinaryBeyondLimit(t *testing.T) {
	assert.Nil(t, field.ValidateBinary("public", make([]byte, 32), true, 32))
	assert.NotNil(t, field.ValidateBinary("public", make([]byte, 33), true, 32))
}

func TestValidateSignatureCardinality(t *testing.T) {
	// A single-valued field rejects more than one signature.
	assert.NotNil(t, field.ValidateSignature("signature", [][]byte{{1}, {2}}, true, false, false, 1024))
	// A multi-valued field admits it.
	assert.Nil(t, field.ValidateSignature("signature", [][]byte{{1}, {2}}, true, true, false, 1024))
}

func TestValidateSignatureRedoSkipsRequired(t *testing.T) {
	assert.NotNil(t, field.ValidateSignature("signature", nil, true, false, false, 1024))
	assert.Nil(t, field.ValidateSignature("signature", nil, true, false, true, 1024))
}

func TestValidateChoice(t *testing.T) {
	choices := sets.NewString("man", "woman", "undefined")
	assert.Nil(t, field.ValidateChoice("sex", "man", true, choices))
	assert.NotNil(t, field.ValidateChoice("sex", "other", true, choices))
}

func TestValidateEmail(t *testing.T) {
	assert.Nil(t, field.ValidateEmail("email", "a@b.com", true))
	assert.NotNil(t, field.ValidateEmail("email", "not-an-email", true))
}

func TestValidateIP(t *testing.T) {
	assert.Nil(t, field.ValidateIP("ip", net.ParseIP("10.0.0.1"), true))
	assert.NotNil(t, field.ValidateIP("ip", nil, true))
}

func TestDateBytesRoundTrip(t *testing.T) {
	d := field.NewDate(time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC))
	got, err := field.ParseDateBytes(field.DateBytes(d))
	assert.NoError(t, err)
	assert.Equal(t, d.String(), got.String())
}

func TestDateTimeBytesRoundTrip(t *testing.T) {
	now := field.NewInstant(time.Date(2026, 7, 29, 12, 30, 0, 0, time.UTC))
	got, err := field.ParseDateTimeBytes(field.DateTimeBytes(now))
	assert.NoError(t, err)
	assert.True(t, now.Time.Equal(got.Time))
}

func TestUUIDBytesRoundTrip(t *testing.T) {
	id := uuid.New()
	got, err := field.ParseUUIDBytes(field.UUIDBytes(id))
	assert.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestIPBytesIPv4AndIPv6(t *testing.T) {
	v4 := net.ParseIP("192.0.2.1")
	assert.Len(t, field.IPBytes(v4), 4)

	v6 := net.ParseIP("2001:db8::1")
	assert.Len(t, field.IPBytes(v6), 16)
}

func TestTypeBytesBigEndian(t *testing.T) {
	b := field.TypeBytes(20)
	assert.Equal(t, []byte{0, 0, 0, 20}, b)
}

func TestSignatureMarkForRedoClearsBytesAndSetsFlag(t *testing.T) {
	sig := field.Signature{}
	sig.Set([]byte("abc"))
	assert.False(t, sig.Redo())

	sig.MarkForRedo()
	assert.True(t, sig.Redo())
	assert.Nil(t, sig.Bytes)
}

func TestBytesBase64(t *testing.T) {
	assert.Equal(t, "", field.BytesBase64(nil))
	assert.Equal(t, "aGk=", field.BytesBase64([]byte("hi")))
}
