// Copyright 2025 The web3go Authors
// This file is part of the web3go library.
//
// The web3go library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The web3go library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the web3go library. If not, see <http://www.gnu.org/licenses/>.

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/web3go/web3go/common"
)

func TestKeccak256(t *testing.T) {
	// well known vectors
	assert.Equal(t,
		common.Hex2Bytes("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		Keccak256(nil))
	assert.Equal(t,
		common.Hex2Bytes("4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"),
		Keccak256([]byte("abc")))

	// function selector derivation
	assert.Equal(t,
		common.Hex2Bytes("a9059cbb"),
		Keccak256([]byte("transfer(address,uint256)"))[:4])
}

func TestKeccak256Hash(t *testing.T) {
	h := Keccak256Hash([]byte("abc"))
	assert.Equal(t, common.HexToHash("0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"), h)
}
