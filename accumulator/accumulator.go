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

// Package accumulator implements a cryptographic accumulator over a
// hidden-order RSA group: a single group element that commits to an
// arbitrary-size set of primes and supports succinct membership and
// non-membership witnesses, with batched variants that bundle many
// updates behind one NI-PoE certificate. See the package-level State
// type for the engine's entry points.
package accumulator

import (
	"errors"
	"io"
	"math/big"

	"github.com/shroudsec/rsacc/bigint"
	"github.com/shroudsec/rsacc/internal/alog"
	"github.com/shroudsec/rsacc/numtheory"
	"github.com/shroudsec/rsacc/primegen"
	"github.com/shroudsec/rsacc/proof"
)

var (
	// ErrNotPresent is returned by Del and DelWMem when x does not divide
	// the accumulated product; the state is left untouched.
	ErrNotPresent = errors.New("accumulator: element not present")

	// ErrNotVerified is returned by DelWMem when the supplied witness does
	// not verify against the current digest.
	ErrNotVerified = errors.New("accumulator: witness does not verify")

	// ErrEmptyBatch is returned by BatchDel when given an empty pair list.
	ErrEmptyBatch = errors.New("accumulator: empty batch")

	// ErrSetupFailed is returned when the external modulus generator fails;
	// the generator's own error is logged, not returned.
	ErrSetupFailed = errors.New("accumulator: setup failed")

	big1 = big.NewInt(1)
)

// debugChecks gates the invariant assertions described as "MAY check them
// in debug contexts": the digest invariant after every mutator, and the
// divisibility and coprimality preconditions of MemWitCreate and
// NonMemWitCreate. Primality is never checked. It defaults to false in
// production builds; the test binary flips it on in TestAccumulator so
// precondition violations surface as panics instead of silently wrong
// output.
var debugChecks = false

// State is the accumulator engine. The zero value is not usable; build one
// with Setup. A is the public digest; s is the private running product of
// every prime currently accumulated and is never serialized or exposed.
type State struct {
	Lambda int
	N      *big.Int
	G      *big.Int
	A      *big.Int

	s *big.Int
}

// Setup asks the external modulus generator for an RSA modulus and
// quadratic-residue generator of the requested bit length, then
// initializes a fresh accumulator with A = g, s = 1. p and q are consumed
// by the generator and never retained here.
func Setup(r io.Reader, lambda int) (*State, error) {
	n, _, _, g, err := primegen.RSAModulus(r, lambda)
	if err != nil {
		alog.Logger().Warn("accumulator setup failed", "lambda", lambda, "err", err)
		return nil, ErrSetupFailed
	}
	return &State{
		Lambda: lambda,
		N:      n,
		G:      g,
		A:      new(big.Int).Set(g),
		s:      new(big.Int).Set(big1),
	}, nil
}

// checkInvariant re-derives A from s and g and panics on mismatch. Only
// called when debugChecks is set, so it costs nothing in production.
func (st *State) checkInvariant() {
	if !debugChecks {
		return
	}
	want := bigint.ModPow(st.G, st.s, st.N)
	if want.Cmp(st.A) != 0 {
		panic("accumulator: digest invariant violated")
	}
}

// Clone returns a deep copy of st, so callers can snapshot a pre-state
// digest (A_pre) without the snapshot being mutated by later operations on
// the original.
func (st *State) Clone() *State {
	return &State{
		Lambda: st.Lambda,
		N:      new(big.Int).Set(st.N),
		G:      new(big.Int).Set(st.G),
		A:      new(big.Int).Set(st.A),
		s:      new(big.Int).Set(st.s),
	}
}

// Add accumulates a fresh prime x. The caller guarantees x is prime and
// was never added before; violating this corrupts the set and is never
// detected, since even with debugChecks the invariant check only re-derives
// A from s.
func (st *State) Add(x *big.Int) {
	st.s.Mul(st.s, x)
	st.A = bigint.ModPow(st.A, x, st.N)
	st.checkInvariant()
	alog.Logger().Debug("accumulator add", "bits", x.BitLen())
}

// MemWitCreate returns a membership witness w = g^(s/x) mod n for a prime
// x dividing s. It panics if debugChecks is enabled and x does not divide
// s; in production it proceeds with truncated division and the resulting
// witness simply will not verify.
func (st *State) MemWitCreate(x *big.Int) *big.Int {
	quotient, rem := new(big.Int).QuoRem(st.s, x, new(big.Int))
	if debugChecks && rem.Sign() != 0 {
		panic("accumulator: mem_wit_create precondition violated, x does not divide s")
	}
	return bigint.ModPow(st.G, quotient, st.N)
}

// VerMem reports whether w is a valid membership witness for x against the
// current digest.
func (st *State) VerMem(w, x *big.Int) bool {
	return new(big.Int).Exp(w, x, st.N).Cmp(st.A) == 0
}

// Del removes prime x from the set, recomputing A from scratch. Returns
// ErrNotPresent, leaving the state untouched, if x does not divide s.
func (st *State) Del(x *big.Int) error {
	quotient, rem := new(big.Int).QuoRem(st.s, x, new(big.Int))
	if rem.Sign() != 0 {
		return ErrNotPresent
	}
	st.s = quotient
	st.A = bigint.ModPow(st.G, st.s, st.N)
	st.checkInvariant()
	alog.Logger().Debug("accumulator del", "bits", x.BitLen())
	return nil
}

// DelWMem is the efficient deletion path: if w verifies as a membership
// witness for x, the new digest is just w (since w = g^(s/x) is exactly
// g raised to the post-deletion product), avoiding a full re-exponentiation.
// Returns ErrNotVerified without mutating state if w does not verify.
func (st *State) DelWMem(w, x *big.Int) error {
	if !st.VerMem(w, x) {
		return ErrNotVerified
	}
	quotient, rem := new(big.Int).QuoRem(st.s, x, new(big.Int))
	if rem.Sign() != 0 {
		return ErrNotPresent
	}
	st.s = quotient
	st.A = new(big.Int).Set(w)
	st.checkInvariant()
	return nil
}

// NonMemWit is a non-membership witness: the pair (D, B) satisfying
// D^x * A^B = g (mod n).
type NonMemWit struct {
	D *big.Int
	B *big.Int
}

// NonMemWitCreate builds a non-membership witness for x, which must be
// coprime to s. It derives (1, a, b) = ExtGCD(x, s), sets d = g^a (signed
// exponent) and returns (d, b).
func (st *State) NonMemWitCreate(x *big.Int) (*NonMemWit, error) {
	gcd, a, b := numtheory.ExtGCD(x, st.s)
	if gcd.Cmp(big1) != 0 {
		if debugChecks {
			panic("accumulator: non_mem_wit_create precondition violated, x not coprime to s")
		}
		return nil, numtheory.ErrNotCoprime
	}
	d, err := bigint.ModPowSigned(st.G, a, st.N)
	if err != nil {
		return nil, err
	}
	return &NonMemWit{D: d, B: b}, nil
}

// VerNonMem reports whether w certifies that x is absent from the set:
// d^x * A^b == g (mod n).
func (st *State) VerNonMem(w *NonMemWit, x *big.Int) bool {
	lhs := new(big.Int).Exp(w.D, x, st.N)
	abPow, err := bigint.ModPowSigned(st.A, w.B, st.N)
	if err != nil {
		return false
	}
	lhs.Mul(lhs, abPow)
	lhs.Mod(lhs, st.N)
	return lhs.Cmp(new(big.Int).Mod(st.G, st.N)) == 0
}

// BatchAdd folds every prime in xs into the set in a single update and
// returns a PoE certifying A_cur = A_pre^(prod xs) (mod n) to whoever
// holds the pre-state digest.
func (st *State) BatchAdd(xs []*big.Int) (*proof.PoE, error) {
	aPre := new(big.Int).Set(st.A)
	xStar := product(xs)

	st.s.Mul(st.s, xStar)
	st.A = bigint.ModPow(st.A, xStar, st.N)
	st.checkInvariant()
	alog.Logger().Debug("accumulator batch_add", "count", len(xs))

	return proof.PoEProve(xStar, aPre, st.A, st.N)
}

// VerBatchAdd recomputes x* = prod(xs) and checks the supplied proof
// against aPre and the current digest.
func (st *State) VerBatchAdd(pi *proof.PoE, aPre *big.Int, xs []*big.Int) bool {
	xStar := product(xs)
	return pi.Verify(xStar, aPre, st.A, st.N)
}

// BatchDel removes every (x_i, w_i) pair in one update using an iterated
// Shamir's trick fold, returning a PoE certifying the new digest against
// the pre-state one. The exponent and base roles are swapped relative to
// BatchAdd: the proof asserts A_new^(x*) = A_pre.
func (st *State) BatchDel(pairs []XWPair) (*proof.PoE, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyBatch
	}
	aPre := new(big.Int).Set(st.A)

	xAcc := new(big.Int).Set(pairs[0].X)
	wAcc := new(big.Int).Set(pairs[0].W)

	for _, pair := range pairs[1:] {
		w, err := numtheory.ShamirTrick(wAcc, pair.W, xAcc, pair.X, st.N)
		if err != nil {
			return nil, err
		}
		wAcc = w
		xAcc.Mul(xAcc, pair.X)
		st.s.Quo(st.s, pair.X)
	}
	st.s.Quo(st.s, pairs[0].X)

	st.A = wAcc
	st.checkInvariant()
	alog.Logger().Debug("accumulator batch_del", "count", len(pairs))

	return proof.PoEProve(xAcc, st.A, aPre, st.N)
}

// VerBatchDel recomputes x* = prod(xs) and checks the supplied proof
// asserting A_cur^(x*) = aPre.
func (st *State) VerBatchDel(pi *proof.PoE, aPre *big.Int, xs []*big.Int) bool {
	xStar := product(xs)
	return pi.Verify(xStar, st.A, aPre, st.N)
}

// CreateAllMemWit returns [g^(S/s_i) mod n] for every prime in sList via
// root_factor, in O(k log k) modular exponentiations. The caller is
// responsible for sList's product equalling s; this never reads st.s, by
// design (see the "s ownership" note in DESIGN.md).
func (st *State) CreateAllMemWit(sList []*big.Int) ([]*big.Int, error) {
	return numtheory.RootFactor(st.G, sList, st.N)
}

// AggMemWit combines two membership witnesses for coprime x, y into one
// witness for xy, plus a PoE attesting w_xy^(xy) = A.
func (st *State) AggMemWit(wx, wy, x, y *big.Int) (*big.Int, *proof.PoE, error) {
	wxy, err := numtheory.ShamirTrick(wx, wy, x, y, st.N)
	if err != nil {
		return nil, nil, err
	}
	xy := new(big.Int).Mul(x, y)
	pi, err := proof.PoEProve(xy, wxy, st.A, st.N)
	if err != nil {
		return nil, nil, err
	}
	return wxy, pi, nil
}

// VerAggMemWit reports whether pi certifies wxy^(xy) = A.
func (st *State) VerAggMemWit(wxy *big.Int, pi *proof.PoE, x, y *big.Int) bool {
	xy := new(big.Int).Mul(x, y)
	return pi.Verify(xy, wxy, st.A, st.N)
}

// MemWitCreateStar returns a membership witness for x bundled with a PoE
// over it, so the witness can be checked with a single exponentiation
// instead of the naive w^x == A comparison.
func (st *State) MemWitCreateStar(x *big.Int) (*big.Int, *proof.PoE, error) {
	w := st.MemWitCreate(x)
	pi, err := proof.PoEProve(x, w, st.A, st.N)
	if err != nil {
		return nil, nil, err
	}
	return w, pi, nil
}

// VerMemStar verifies a witness produced by MemWitCreateStar.
func (st *State) VerMemStar(x, w *big.Int, pi *proof.PoE) bool {
	return pi.Verify(x, w, st.A, st.N)
}

// MemWitX combines membership witnesses from two accumulators over the
// same modulus and generator (e.g. one built with Clone) into a single
// cross-accumulator witness for coprime x, y, per the combined-witness
// construction documented in SPEC_FULL.md. The product is reduced mod
// st.N, so witnesses from accumulators with different moduli do not
// combine into one that VerMemX accepts.
func (st *State) MemWitX(wx, wy *big.Int) *big.Int {
	w := new(big.Int).Mul(wx, wy)
	w.Mod(w, st.N)
	return w
}

// VerMemX reports whether pi certifies pi^(xy) == A^y * aOther^x (mod n),
// the cross-accumulator counterpart to MemWitX. Rejects outright if x and
// y are not coprime.
func (st *State) VerMemX(aOther *big.Int, pi *big.Int, x, y *big.Int) bool {
	gcd, _, _ := numtheory.ExtGCD(x, y)
	if gcd.Cmp(big1) != 0 {
		return false
	}
	xy := new(big.Int).Mul(x, y)
	lhs := new(big.Int).Exp(pi, xy, st.N)

	rhs := new(big.Int).Exp(st.A, y, st.N)
	rhs.Mul(rhs, new(big.Int).Exp(aOther, x, st.N))
	rhs.Mod(rhs, st.N)

	return lhs.Cmp(rhs) == 0
}

// NonMemWitStar bundles a non-membership witness with a PoKE2 and a PoE
// that together let a verifier check non-membership in two fixed-size
// exponentiations instead of reconstructing ExtGCD's cofactors.
type NonMemWitStar struct {
	D   *big.Int
	V   *big.Int
	PiD *proof.PoKE2
	PiG *proof.PoE
}

// NonMemWitCreateStar is the starred variant of NonMemWitCreate: it
// additionally proves knowledge of the exponent b (via PoKE2) and that
// d^x = g * v^-1 (via PoE), so a verifier never needs ExtGCD itself.
func (st *State) NonMemWitCreateStar(x *big.Int) (*NonMemWitStar, error) {
	gcd, a, b := numtheory.ExtGCD(x, st.s)
	if gcd.Cmp(big1) != 0 {
		return nil, numtheory.ErrNotCoprime
	}
	d, err := bigint.ModPowSigned(st.G, a, st.N)
	if err != nil {
		return nil, err
	}
	v, err := bigint.ModPowSigned(st.A, b, st.N)
	if err != nil {
		return nil, err
	}

	piD, err := proof.PoKE2Prove(b, st.A, v, st.N, st.G)
	if err != nil {
		return nil, err
	}

	vInv, err := numtheory.ModInverse(v, st.N)
	if err != nil {
		return nil, err
	}
	k := new(big.Int).Mul(st.G, vInv)
	k.Mod(k, st.N)
	piG, err := proof.PoEProve(x, d, k, st.N)
	if err != nil {
		return nil, err
	}

	return &NonMemWitStar{D: d, V: v, PiD: piD, PiG: piG}, nil
}

// VerNonMemStar reports whether w certifies non-membership of x: both the
// PoKE2 (knowledge of b with A^b = v) and the PoE (d^x = g * v^-1) must
// verify.
func (st *State) VerNonMemStar(x *big.Int, w *NonMemWitStar) bool {
	if !w.PiD.Verify(st.A, w.V, st.N, st.G) {
		return false
	}
	vInv, err := numtheory.ModInverse(w.V, st.N)
	if err != nil {
		return false
	}
	k := new(big.Int).Mul(st.G, vInv)
	k.Mod(k, st.N)
	return w.PiG.Verify(x, w.D, k, st.N)
}

// XWPair is one (x_i, w_i) entry in a BatchDel request, where w_i must
// satisfy w_i^(x_i) == A_pre at call time.
type XWPair struct {
	X *big.Int
	W *big.Int
}

func product(xs []*big.Int) *big.Int {
	p := new(big.Int).Set(big1)
	for _, x := range xs {
		p.Mul(p, x)
	}
	return p
}
