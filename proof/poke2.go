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

package proof

import (
	"math/big"

	"github.com/shroudsec/rsacc/bigint"
	"github.com/shroudsec/rsacc/fiatshamir"
)

// PoKE2 is a non-interactive proof of knowledge of a (possibly negative)
// exponent b such that u^b = w (mod n), without revealing b itself. g is a
// generator of the group known to have no small-order elements; z = g^b
// blinds b the way a Schnorr commitment blinds a discrete log.
type PoKE2 struct {
	Z *big.Int
	Q *big.Int
	R *big.Int
}

// PoKE2Prove builds a proof of knowledge of b for the claim u^b = w (mod
// n), using g as the blinding generator. b may be negative; the caller
// guarantees u^b = w (mod n) already holds.
func PoKE2Prove(b, u, w, n, g *big.Int) (*PoKE2, error) {
	z, err := bigint.ModPowSigned(g, b, n)
	if err != nil {
		return nil, err
	}

	ell, err := fiatshamir.HPrime(u, w, z)
	if err != nil {
		return nil, err
	}
	alpha, err := fiatshamir.HPrime(u, w, z, ell)
	if err != nil {
		return nil, err
	}

	q, r := floorDivMod(b, ell)

	base := new(big.Int).Mul(u, bigint.ModPow(g, alpha, n))
	base.Mod(base, n)
	Q, err := bigint.ModPowSigned(base, q, n)
	if err != nil {
		return nil, err
	}

	return &PoKE2{Z: z, Q: Q, R: r}, nil
}

// Verify returns true iff the proof certifies knowledge of some b with
// u^b = w (mod n).
func (p *PoKE2) Verify(u, w, n, g *big.Int) bool {
	if p == nil || p.Z == nil || p.Q == nil || p.R == nil {
		return false
	}

	ell, err := fiatshamir.HPrime(u, w, p.Z)
	if err != nil {
		return false
	}
	alpha, err := fiatshamir.HPrime(u, w, p.Z, ell)
	if err != nil {
		return false
	}

	if p.R.Sign() < 0 || p.R.Cmp(ell) >= 0 {
		return false
	}

	base := new(big.Int).Mul(u, bigint.ModPow(g, alpha, n))
	base.Mod(base, n)

	lhs := bigint.ModPow(p.Q, ell, n)
	lhs.Mul(lhs, bigint.ModPow(base, p.R, n))
	lhs.Mod(lhs, n)

	rhs := new(big.Int).Mul(new(big.Int).Mod(w, n), bigint.ModPow(p.Z, alpha, n))
	rhs.Mod(rhs, n)

	return lhs.Cmp(rhs) == 0
}

// floorDivMod returns (q, r) such that b = q*ell + r with 0 <= r < ell,
// for positive ell and possibly negative b. big.Int.QuoRem truncates
// toward zero, which gives a negative remainder when b is negative; this
// nudges that case back into the conventional floor/mod pair.
func floorDivMod(b, ell *big.Int) (q, r *big.Int) {
	q, r = new(big.Int), new(big.Int)
	q.QuoRem(b, ell, r)
	if r.Sign() < 0 {
		r.Add(r, ell)
		q.Sub(q, big.NewInt(1))
	}
	return q, r
}
