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

// Package log carries the logger type pkg/policy's acceptance policies log
// rejected imports through. The teacher pulls its logger out of a
// knative.dev/pkg/logging-populated context.Context; this module is a
// library, not a controller, so there is no reconciler-managed context to
// hang one off of -- Logger is instead carried explicitly as a field on the
// policy structs that use it.
package log

import "go.uber.org/zap"

// Logger is the *zap.SugaredLogger-typed logger pkg/policy logs through.
type Logger = *zap.SugaredLogger

// NewProduction returns a Logger configured the way production wiring
// should: JSON encoding, info level and above.
func NewProduction() (Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// NewDevelopment returns a Logger suited to local runs and tests: console
// encoding, debug level and above.
func NewDevelopment() Logger {
	l, _ := zap.NewDevelopment()
	return l.Sugar()
}

// Nop returns a Logger that discards everything, for tests and callers
// that have not configured logging.
func Nop() Logger {
	return zap.NewNop().Sugar()
}
