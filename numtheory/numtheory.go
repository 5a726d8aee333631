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

// Package numtheory provides the number-theoretic building blocks the RSA
// accumulator is built from: extended GCD, modular inverse, Shamir's trick
// for combining two coprime-exponent witnesses, and the root-factor
// divide-and-conquer computation of all-member witnesses.
package numtheory

import (
	"errors"
	"math/big"

	"github.com/shroudsec/rsacc/bigint"
)

var (
	// ErrNotCoprime is returned when an operation requires gcd(x, y) = 1
	// but the supplied inputs are not coprime.
	ErrNotCoprime = errors.New("numtheory: inputs are not coprime")
	// ErrNotInvertible is returned when ModInverse is asked to invert a
	// value that shares a factor with the modulus.
	ErrNotInvertible = errors.New("numtheory: value has no inverse modulo m")
	// ErrEmptyInput is returned when RootFactor is given an empty prime
	// list.
	ErrEmptyInput = errors.New("numtheory: empty input")

	big1 = big.NewInt(1)
)

// ExtGCD returns (gcd, x, y) such that x*a + y*b = gcd, for unsigned a, b.
// gcd is unsigned; x, y are signed and may be negative. This mirrors the
// quadrant-based sign recovery used for binary quadratic form composition,
// generalized here to a plain Bezout identity over Z.
func ExtGCD(a, b *big.Int) (gcd, x, y *big.Int) {
	absA := new(big.Int).Abs(a)
	absB := new(big.Int).Abs(b)
	if absB.Sign() == 0 {
		return new(big.Int).Set(absA), new(big.Int).SetInt64(int64(a.Sign())), big.NewInt(0)
	}

	bx, by := new(big.Int), new(big.Int)
	g := new(big.Int).GCD(bx, by, absA, absB)

	if a.Sign() < 0 {
		bx.Neg(bx)
	}
	if b.Sign() < 0 {
		by.Neg(by)
	}
	return g, bx, by
}

// ModInverse returns a^{-1} mod m for unsigned a, m, in [1, m). It fails
// with ErrNotInvertible when gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, ErrNotInvertible
	}
	return inv, nil
}

// ShamirTrick combines two witnesses w_x, w_y (with w_x^x = w_y^y under a
// shared accumulator digest) into a single witness w with w^(xy) equal to
// that same value, provided gcd(x, y) = 1. It fails with ErrNotCoprime
// otherwise.
//
// Derivation: let (1, alpha, beta) = ExtGCD(x, y); then
// w = w_x^beta * w_y^alpha mod n.
func ShamirTrick(wx, wy, x, y, n *big.Int) (*big.Int, error) {
	gcd, alpha, beta := ExtGCD(x, y)
	if gcd.Cmp(big1) != 0 {
		return nil, ErrNotCoprime
	}

	left, err := bigint.ModPowSigned(wx, beta, n)
	if err != nil {
		return nil, err
	}
	right, err := bigint.ModPowSigned(wy, alpha, n)
	if err != nil {
		return nil, err
	}

	w := new(big.Int).Mul(left, right)
	w.Mod(w, n)
	return w, nil
}

// RootFactor computes [g^(S/primes[0]), ..., g^(S/primes[k-1])] mod n,
// where S is the product of primes, in O(k log k) modular exponentiations
// via a divide-and-conquer halving: the left half is computed by recursing
// on g^(product of the right half) with the left half's primes, and
// symmetrically for the right half.
func RootFactor(g *big.Int, primes []*big.Int, n *big.Int) ([]*big.Int, error) {
	if len(primes) == 0 {
		return nil, ErrEmptyInput
	}
	return rootFactor(g, primes, n), nil
}

func rootFactor(g *big.Int, primes []*big.Int, n *big.Int) []*big.Int {
	if len(primes) == 1 {
		return []*big.Int{new(big.Int).Set(g)}
	}

	mid := len(primes) / 2
	left := primes[:mid]
	right := primes[mid:]

	gLeft := bigint.ModPow(g, product(right), n)
	gRight := bigint.ModPow(g, product(left), n)

	out := make([]*big.Int, 0, len(primes))
	out = append(out, rootFactor(gLeft, left, n)...)
	out = append(out, rootFactor(gRight, right, n)...)
	return out
}

func product(xs []*big.Int) *big.Int {
	p := new(big.Int).Set(big1)
	for _, x := range xs {
		p.Mul(p, x)
	}
	return p
}
