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

package primegen

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenPrime(t *testing.T) {
	p, err := GenPrime(rand.Reader, 128)
	assert.NoError(t, err)
	assert.Equal(t, 128, p.BitLen())
	assert.True(t, p.ProbablyPrime(20))
}

func TestRSAModulus(t *testing.T) {
	n, p, q, g, err := RSAModulus(rand.Reader, 128)
	assert.NoError(t, err)
	assert.Equal(t, 128, n.BitLen())
	assert.True(t, p.ProbablyPrime(20))
	assert.True(t, q.ProbablyPrime(20))
	assert.NotEqual(t, 0, p.Cmp(q))

	product := new(big.Int).Mul(p, q)
	assert.Equal(t, product, n)

	assert.True(t, g.Cmp(big.NewInt(1)) > 0)
	assert.True(t, g.Cmp(n) < 0)
	assert.Equal(t, big.NewInt(1), new(big.Int).GCD(nil, nil, g, n))
}

func TestRSAModulusSmallLambda(t *testing.T) {
	_, _, _, _, err := RSAModulus(rand.Reader, 16)
	assert.ErrorIs(t, err, ErrSmallLambda)
}
