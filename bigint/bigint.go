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

// Package bigint is a thin layer over math/big that keeps the
// unsigned/signed exponent domains explicit. Every other package in this
// module imports this one instead of calling big.Int.Exp directly whenever
// the exponent may be negative.
package bigint

import (
	"errors"
	"math/big"
)

var (
	// ErrNotInvertible is returned when ModPowSigned needs a modular
	// inverse of a base that shares a factor with the modulus.
	ErrNotInvertible = errors.New("bigint: base has no inverse modulo m")

	big0 = big.NewInt(0)
)

// ModPow computes base^e mod m for a non-negative exponent e. It is a
// direct alias of big.Int.Exp, kept here so callers never have to reach
// for math/big.Exp when the sign of an exponent depends on caller logic.
func ModPow(base, e, m *big.Int) *big.Int {
	return new(big.Int).Exp(base, e, m)
}

// ModPowSigned computes base^e mod m for a signed exponent e. When e is
// negative, it computes base^(-e) mod m and then inverts the result modulo
// m, failing with ErrNotInvertible if that inverse does not exist. In
// accumulator flows this failure is a logic error: the base is always a
// quadratic residue modulo n, which by construction is coprime to n once
// the RSA modulus collaborator is trusted.
func ModPowSigned(base, e, m *big.Int) (*big.Int, error) {
	if e.Sign() >= 0 {
		return ModPow(base, e, m), nil
	}
	posE := new(big.Int).Neg(e)
	v := ModPow(base, posE, m)
	inv := new(big.Int).ModInverse(v, m)
	if inv == nil {
		return nil, ErrNotInvertible
	}
	return inv, nil
}
