// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package alog is the module's ambient logging accessor; the accumulator
// engine is its only user. It carries no secret-bearing values: the accumulator erases
// its factorization at setup, so nothing logged here is sensitive.
package alog

import "github.com/getamis/sirius/log"

var logger = log.Discard()

// Logger returns the module-wide logger.
func Logger() log.Logger {
	return logger
}

// SetLogger replaces the module-wide logger.
func SetLogger(l log.Logger) {
	logger = l
}
