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

// Package primegen is a reference implementation of the two external
// collaborators spec.md §6 treats as out of core scope: a prime generator
// and a trusted-setup RSA modulus generator. Callers of the accumulator
// core may substitute any other implementation that satisfies the same
// contracts (e.g. a distributed or hardware-backed one); this package only
// exists so the core is runnable end to end.
package primegen

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

const (
	// maxGenRetry bounds the retry loop used to find a quadratic-residue
	// generator coprime to n.
	maxGenRetry = 100
)

var (
	// ErrSmallLambda is returned when the requested modulus bit length is
	// too small to split into two safe primes.
	ErrSmallLambda = errors.New("primegen: lambda too small")
	// ErrExceedMaxRetry is returned if a generator could not be found
	// within maxGenRetry attempts.
	ErrExceedMaxRetry = errors.New("primegen: exceeded max retries")

	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// GenPrime produces a prime of the requested bit length using the given
// randomness source. Callers use it to construct accumulator elements;
// fiatshamir.HPrime does not call it and runs its own deterministic search
// instead. No third-party library replaces crypto/rand.Prime for
// plain prime generation; safe-prime generators built on top of it are
// themselves always layered directly over math/big and crypto/rand.
func GenPrime(r io.Reader, bits int) (*big.Int, error) {
	return rand.Prime(r, bits)
}

// safePrime is a pair p = 2q+1 with p, q both prime.
type safePrime struct {
	P *big.Int
	Q *big.Int
}

// generateSafePrime produces a safe prime p = 2q+1 of the requested bit
// length by drawing candidate q from crypto/rand.Prime and checking p for
// primality, the same q-then-p construction as the pack's combined-sieve
// safe-prime generators, minus their small-prime sieving fast path.
func generateSafePrime(r io.Reader, pbits int) (*safePrime, error) {
	if pbits < 16 {
		return nil, ErrSmallLambda
	}
	for {
		q, err := rand.Prime(r, pbits-1)
		if err != nil {
			return nil, err
		}
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, big1)
		if p.ProbablyPrime(20) {
			return &safePrime{P: p, Q: q}, nil
		}
	}
}

// RSAModulus is the rsa_modulus(rng, lambda) -> (n, p, q, g) collaborator
// of spec.md §6: |n| = lambda bits, p and q are distinct safe primes, and g
// is a quadratic residue modulo n suitable as the accumulator's generator.
// p and q are returned to the caller only so a trusted-setup ceremony can
// attest to their provenance; accumulator.Setup discards them immediately.
func RSAModulus(r io.Reader, lambda int) (n, p, q, g *big.Int, err error) {
	if lambda < 32 {
		return nil, nil, nil, nil, ErrSmallLambda
	}

	half := lambda / 2
	for {
		sp, err := generateSafePrime(r, half)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		sq, err := generateSafePrime(r, lambda-half)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if sp.P.Cmp(sq.P) == 0 {
			continue
		}

		n := new(big.Int).Mul(sp.P, sq.P)
		if n.BitLen() != lambda {
			continue
		}

		g, err := quadraticResidueGenerator(r, n)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return n, sp.P, sq.P, g, nil
	}
}

// quadraticResidueGenerator picks a random unit of Z_n^* and squares it,
// producing an element of the quadratic-residue subgroup with high
// probability of generating the full group the accumulator operates in.
func quadraticResidueGenerator(r io.Reader, n *big.Int) (*big.Int, error) {
	for i := 0; i < maxGenRetry; i++ {
		x, err := rand.Int(r, n)
		if err != nil {
			return nil, err
		}
		if x.Cmp(big1) <= 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, x, n).Cmp(big1) != 0 {
			continue
		}
		g := new(big.Int).Exp(x, big2, n)
		if g.Cmp(big1) <= 0 {
			continue
		}
		return g, nil
	}
	return nil, ErrExceedMaxRetry
}
