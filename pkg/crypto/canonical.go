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

// Package crypto implements the signing policy layer: canonical byte
// serialization, Ed25519 signing and verification across key rotation,
// NaCl box concealment/revealment of envelope bodies, and the envelope
// header signing chain.
package crypto

import (
	"sort"

	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
)

// DocumentData produces the deterministic byte stream signing and
// verification operate over: export the document to its bytes form, drop
// "issuer" and "signature" plus any caller-excluded fields, then recurse
// sorting map keys in ascending UTF-8 order while preserving list order.
func DocumentData(doc document.Document, exclude ...string) []byte {
	m := document.Export(doc, document.ConvBytes)
	drop(m, "issuer")
	drop(m, "signature")
	for _, e := range exclude {
		drop(m, e)
	}
	return canonicalBytes(m)
}

// RecordData is DocumentData's counterpart for plain nested records
// (EnvelopeHeader) that are not themselves a Document -- signing a header
// never excludes any of its own fields, only the envelope's.
func RecordData(r document.Record) []byte {
	return canonicalBytes(document.ExportRecord(r, document.ConvBytes))
}

func drop(m map[string]interface{}, key string) {
	delete(m, key)
}

func canonicalBytes(v interface{}) []byte {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case []byte:
		return x
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		var out []byte
		for _, k := range keys {
			out = append(out, []byte(k)...)
			out = append(out, canonicalBytes(x[k])...)
		}
		return out
	case []interface{}:
		var out []byte
		for _, e := range x {
			out = append(out, canonicalBytes(e)...)
		}
		return out
	default:
		return nil
	}
}
