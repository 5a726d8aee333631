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

// Package proof implements the two non-interactive zero-knowledge proofs
// the accumulator relies on: NI-PoE (Wesolowski's proof of exponentiation)
// and NI-PoKE2 (a proof of knowledge of a possibly-signed exponent). Both
// are Fiat-Shamir transforms whose soundness rests on the hidden-order
// assumption for the accumulator's RSA group and on fiatshamir.HPrime
// behaving as a random oracle.
package proof

import (
	"math/big"

	"github.com/shroudsec/rsacc/bigint"
	"github.com/shroudsec/rsacc/fiatshamir"
)

// PoE is a non-interactive proof that u^x = w (mod n), for public x, u, w,
// n. It carries only the quotient Q; the verifier recomputes everything
// else from the public claim.
type PoE struct {
	Q *big.Int
}

// PoEProve builds the proof that u^x = w (mod n). The caller is
// responsible for x, u, w, n actually satisfying the claim; PoEProve does
// not check it, and a proof built for a false claim does not pass Verify.
func PoEProve(x, u, w, n *big.Int) (*PoE, error) {
	ell, err := fiatshamir.HPrime(x, u, w)
	if err != nil {
		return nil, err
	}
	q := new(big.Int).Div(x, ell)
	Q := bigint.ModPow(u, q, n)
	return &PoE{Q: Q}, nil
}

// Verify returns true iff the proof certifies u^x = w (mod n): it
// recomputes the same challenge ell, then checks Q^ell * u^r == w (mod n)
// for r = x mod ell.
func (p *PoE) Verify(x, u, w, n *big.Int) bool {
	if p == nil || p.Q == nil {
		return false
	}
	ell, err := fiatshamir.HPrime(x, u, w)
	if err != nil {
		return false
	}
	r := new(big.Int).Mod(x, ell)

	lhs := bigint.ModPow(p.Q, ell, n)
	lhs.Mul(lhs, bigint.ModPow(u, r, n))
	lhs.Mod(lhs, n)

	return lhs.Cmp(new(big.Int).Mod(w, n)) == 0
}
