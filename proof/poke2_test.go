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
	"testing"

	"github.com/shroudsec/rsacc/bigint"
	"github.com/shroudsec/rsacc/fiatshamir"
	"github.com/stretchr/testify/assert"
)

func TestFloorDivMod(t *testing.T) {
	cases := []struct {
		b, ell   int64
		wantQ, wantR int64
	}{
		{7, 3, 2, 1},
		{-7, 3, -3, 2},
		{-9, 3, -3, 0},
		{0, 5, 0, 0},
	}
	for _, c := range cases {
		q, r := floorDivMod(big.NewInt(c.b), big.NewInt(c.ell))
		assert.Equal(t, big.NewInt(c.wantQ), q)
		assert.Equal(t, big.NewInt(c.wantR), r)
	}
}

func TestPoKE2ProveVerifyPositiveExponent(t *testing.T) {
	n := big.NewInt(2881)
	g := big.NewInt(49)
	u := big.NewInt(961) // 31^2, an arbitrary group element
	b := big.NewInt(17)
	w := bigint.ModPow(u, b, n)

	p, err := PoKE2Prove(b, u, w, n, g)
	assert.NoError(t, err)
	assert.True(t, p.Verify(u, w, n, g))
}

func TestPoKE2ProveVerifyNegativeExponent(t *testing.T) {
	n := big.NewInt(2881)
	g := big.NewInt(49)
	u := big.NewInt(961)
	b := big.NewInt(-17)
	w, err := bigint.ModPowSigned(u, b, n)
	assert.NoError(t, err)

	p, err := PoKE2Prove(b, u, w, n, g)
	assert.NoError(t, err)
	assert.True(t, p.Verify(u, w, n, g))
}

func TestPoKE2RejectsWrongClaim(t *testing.T) {
	n := big.NewInt(2881)
	g := big.NewInt(49)
	u := big.NewInt(961)
	b := big.NewInt(17)
	w := bigint.ModPow(u, b, n)

	p, err := PoKE2Prove(b, u, w, n, g)
	assert.NoError(t, err)
	assert.False(t, p.Verify(u, big.NewInt(5), n, g))
}

func TestPoKE2RejectsOutOfRangeR(t *testing.T) {
	n := big.NewInt(2881)
	g := big.NewInt(49)
	u := big.NewInt(961)
	b := big.NewInt(17)
	w := bigint.ModPow(u, b, n)

	p, err := PoKE2Prove(b, u, w, n, g)
	assert.NoError(t, err)
	// ell has fiatshamir.ChallengeBits bits, so adding 2^ChallengeBits puts
	// R at or above ell.
	p.R.Add(p.R, new(big.Int).Lsh(big.NewInt(1), fiatshamir.ChallengeBits))
	assert.False(t, p.Verify(u, w, n, g))
}

func TestPoKE2NilProof(t *testing.T) {
	var p *PoKE2
	assert.False(t, p.Verify(big.NewInt(1), big.NewInt(1), big.NewInt(5), big.NewInt(1)))
}
