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

package canon

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsignedSwappedFieldsDiffer(t *testing.T) {
	a := Unsigned(big.NewInt(7))
	b := Unsigned(big.NewInt(1000))
	// Swapping two length-prefixed fields of different sizes must change
	// the transcript.
	assert.NotEqual(t, Transcript(a, b), Transcript(b, a))
}

func TestSignedEncodesSign(t *testing.T) {
	pos := Signed(big.NewInt(5))
	neg := Signed(big.NewInt(-5))
	assert.Equal(t, byte(0x00), pos[0])
	assert.Equal(t, byte(0x01), neg[0])
	assert.Equal(t, pos[1:], neg[1:])
}

func TestDeterministic(t *testing.T) {
	transcript1 := Transcript(Unsigned(big.NewInt(3)), Bytes([]byte("salt")), Signed(big.NewInt(-2)))
	transcript2 := Transcript(Unsigned(big.NewInt(3)), Bytes([]byte("salt")), Signed(big.NewInt(-2)))
	assert.Equal(t, transcript1, transcript2)
}

func TestFieldOrderMatters(t *testing.T) {
	x := Unsigned(big.NewInt(1))
	y := Unsigned(big.NewInt(2))
	assert.NotEqual(t, Transcript(x, y), Transcript(y, x))
}
