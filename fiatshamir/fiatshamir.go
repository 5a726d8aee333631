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

// Package fiatshamir derives the prime challenges NI-PoE and NI-PoKE2 need
// from a hash of their public transcript, replacing an interactive
// verifier's randomness with H_prime as described in spec.md §4.2. The
// same transcript always yields the same prime, which is what lets an
// independent verifier recompute a prover's challenge without talking to
// the prover.
package fiatshamir

import (
	"errors"
	"math/big"

	"github.com/shroudsec/rsacc/internal/canon"
	"golang.org/x/crypto/blake2b"
)

const (
	// ChallengeBits is the fixed bit length of primes produced by HPrime,
	// as named by spec.md §4.2.
	ChallengeBits = 128

	// maxSearch bounds the upward search for a prime at or above the
	// hashed seed before giving up.
	maxSearch = 1 << 20
)

var (
	// ErrNoChallengePrime is returned if no prime could be found within
	// maxSearch odd candidates above the hashed seed. This would only
	// happen if blake2b or ProbablyPrime misbehaved; it is not expected
	// in practice.
	ErrNoChallengePrime = errors.New("fiatshamir: no challenge prime found")

	big1 = big.NewInt(1)
)

// HPrime hashes the canonical encoding of elements (see internal/canon)
// with blake2b-256 and returns the next prime at or above the hashed seed,
// normalized to ChallengeBits bits. Calling it twice with the same
// elements, in the same order, always returns the same prime.
func HPrime(elements ...*big.Int) (*big.Int, error) {
	return hPrime(ChallengeBits, elements...)
}

func hPrime(bits int, elements ...*big.Int) (*big.Int, error) {
	fields := make([][]byte, len(elements))
	for i, e := range elements {
		fields[i] = canon.Unsigned(e)
	}
	digest := blake2b.Sum256(canon.Transcript(fields...))

	seed := new(big.Int).SetBytes(digest[:])
	modulus := new(big.Int).Lsh(big1, uint(bits))
	seed.Mod(seed, modulus)
	seed.SetBit(seed, bits-1, 1) // force the full requested bit length
	seed.SetBit(seed, 0, 1)      // force odd, since every prime > 2 is odd

	candidate := new(big.Int).Set(seed)
	two := big.NewInt(2)
	for i := 0; i < maxSearch; i++ {
		if candidate.ProbablyPrime(20) {
			return candidate, nil
		}
		candidate.Add(candidate, two)
	}
	return nil, ErrNoChallengePrime
}
