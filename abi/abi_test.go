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

package abi

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3go/web3go/common"
)

const erc20ABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"Transfer","inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256"}]}
]`

func TestJSONParse(t *testing.T) {
	parsed, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	require.Len(t, parsed.Methods, 2)

	transfer, ok := parsed.Methods["transfer"]
	require.True(t, ok)
	assert.Equal(t, "transfer(address,uint256)", transfer.Sig)
	assert.Equal(t, common.Hex2Bytes("a9059cbb"), transfer.ID)
	assert.False(t, transfer.IsConstant())

	balanceOf := parsed.Methods["balanceOf"]
	assert.Equal(t, "balanceOf(address)", balanceOf.Sig)
	assert.Equal(t, common.Hex2Bytes("70a08231"), balanceOf.ID)
	assert.True(t, balanceOf.IsConstant())
}

func TestABIPack(t *testing.T) {
	parsed, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)

	to := common.Address{0xaa}
	data, err := parsed.Pack("transfer", to, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, common.Hex2Bytes("a9059cbb"), data[:4])
	require.Len(t, data, 4+64)

	_, err = parsed.Pack("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestOverloadedMethodNames(t *testing.T) {
	const overloadedABI = `[
		{"type":"function","name":"deposit","stateMutability":"payable","inputs":[],"outputs":[]},
		{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]}
	]`
	parsed, err := JSON(strings.NewReader(overloadedABI))
	require.NoError(t, err)
	require.Len(t, parsed.Methods, 2)

	// First declaration keeps the name, the second gets a suffix.
	assert.Equal(t, "deposit()", parsed.Methods["deposit"].Sig)
	assert.Equal(t, "deposit(uint256)", parsed.Methods["deposit0"].Sig)
	assert.Equal(t, "deposit", parsed.Methods["deposit0"].RawName)
}

func TestDuplicateSignatureRejected(t *testing.T) {
	// The canonical forms collide: uint is an alias of uint256.
	const dupABI = `[
		{"type":"function","name":"set","inputs":[{"name":"v","type":"uint256"}],"outputs":[]},
		{"type":"function","name":"set","inputs":[{"name":"v","type":"uint"}],"outputs":[]}
	]`
	_, err := JSON(strings.NewReader(dupABI))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate method signature")
}

func TestMethodById(t *testing.T) {
	parsed, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)

	method, err := parsed.MethodById(common.Hex2Bytes("a9059cbb00000000"))
	require.NoError(t, err)
	assert.Equal(t, "transfer", method.Name)

	_, err = parsed.MethodById(common.Hex2Bytes("00010203"))
	require.Error(t, err)

	_, err = parsed.MethodById([]byte{0xa9})
	require.Error(t, err)
}

func TestConstructorPack(t *testing.T) {
	const ctorABI = `[
		{"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"owner","type":"address"}]}
	]`
	parsed, err := JSON(strings.NewReader(ctorABI))
	require.NoError(t, err)

	data, err := parsed.Pack("", common.Address{0x01})
	require.NoError(t, err)
	require.Len(t, data, 32) // no selector for constructors
}
