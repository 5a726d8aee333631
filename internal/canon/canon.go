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

// Package canon implements the canonical transcript encoding spec.md §4.2
// and §9 mandate for Fiat-Shamir challenge derivation: big-endian
// length-prefixed magnitudes for unsigned integers, and a one-byte sign
// prefix ahead of the magnitude for signed integers. Two independent
// provers that disagree on encoding would derive different challenges from
// the "same" claim, so this is the one place the wire format is fixed
// rather than left to a generic marshaler.
package canon

import (
	"encoding/binary"
	"math/big"
)

const (
	signPositive byte = 0x00
	signNegative byte = 0x01
)

// Unsigned encodes x as a 4-byte big-endian length prefix followed by its
// big-endian magnitude. x must be non-negative.
func Unsigned(x *big.Int) []byte {
	mag := x.Bytes()
	out := make([]byte, 4+len(mag))
	binary.BigEndian.PutUint32(out[:4], uint32(len(mag)))
	copy(out[4:], mag)
	return out
}

// Signed encodes x as a one-byte sign (0x00 non-negative, 0x01 negative)
// followed by the canonical Unsigned encoding of its absolute value.
func Signed(x *big.Int) []byte {
	sign := signPositive
	if x.Sign() < 0 {
		sign = signNegative
	}
	mag := Unsigned(new(big.Int).Abs(x))
	out := make([]byte, 1+len(mag))
	out[0] = sign
	copy(out[1:], mag)
	return out
}

// Bytes encodes an opaque byte string (e.g. a salt) with the same
// length-prefix convention as Unsigned, so it can be concatenated into a
// transcript without ambiguity at the boundary.
func Bytes(b []byte) []byte {
	out := make([]byte, 4+len(b))
	binary.BigEndian.PutUint32(out[:4], uint32(len(b)))
	copy(out[4:], b)
	return out
}

// Transcript concatenates a sequence of already-encoded fields into a
// single buffer. Callers build each field with Unsigned, Signed, or Bytes
// before passing it here, fixing the field order that matters for
// reproducing the same challenge from the same claim.
func Transcript(fields ...[]byte) []byte {
	total := 0
	for _, f := range fields {
		total += len(f)
	}
	out := make([]byte, 0, total)
	for _, f := range fields {
		out = append(out, f...)
	}
	return out
}
