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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3go/web3go/common"
)

func mustType(t *testing.T, s string) Type {
	t.Helper()
	typ, err := NewType(s, nil)
	require.NoError(t, err)
	return typ
}

func TestPackElementary(t *testing.T) {
	tests := []struct {
		typ   string
		value interface{}
		want  string
	}{
		{"uint256", big.NewInt(1), "0000000000000000000000000000000000000000000000000000000000000001"},
		{"uint256", uint256.NewInt(2), "0000000000000000000000000000000000000000000000000000000000000002"},
		{"uint64", uint64(0xdeadbeef), "00000000000000000000000000000000000000000000000000000000deadbeef"},
		{"uint8", uint8(255), "00000000000000000000000000000000000000000000000000000000000000ff"},
		{"int8", int8(-1), "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"int256", big.NewInt(-2), "fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"},
		{"bool", true, "0000000000000000000000000000000000000000000000000000000000000001"},
		{"bool", false, "0000000000000000000000000000000000000000000000000000000000000000"},
		{
			"address",
			common.Address{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0x00},
			"0000000000000000000000001122334455667788990011223344556677889900",
		},
		{"bytes4", []byte{0xde, 0xad, 0xbe, 0xef}, "deadbeef00000000000000000000000000000000000000000000000000000000"},
	}
	for _, tt := range tests {
		packed, err := mustType(t, tt.typ).pack(tt.value)
		require.NoError(t, err, tt.typ)
		assert.Equal(t, common.Hex2Bytes(tt.want), packed, "%s <- %v", tt.typ, tt.value)
	}
}

func TestPackDynamic(t *testing.T) {
	args := Arguments{{Type: mustType(t, "string")}}
	packed, err := args.Pack("hello")
	require.NoError(t, err)
	want := common.Hex2Bytes(
		"0000000000000000000000000000000000000000000000000000000000000020" + // offset
			"0000000000000000000000000000000000000000000000000000000000000005" + // length
			"68656c6c6f000000000000000000000000000000000000000000000000000000") // "hello"
	assert.Equal(t, want, packed)
}

func TestPackSlice(t *testing.T) {
	args := Arguments{{Type: mustType(t, "uint256[]")}}
	packed, err := args.Pack([]*big.Int{big.NewInt(1), big.NewInt(2)})
	require.NoError(t, err)
	want := common.Hex2Bytes(
		"0000000000000000000000000000000000000000000000000000000000000020" +
			"0000000000000000000000000000000000000000000000000000000000000002" +
			"0000000000000000000000000000000000000000000000000000000000000001" +
			"0000000000000000000000000000000000000000000000000000000000000002")
	assert.Equal(t, want, packed)
}

func TestPackMixedHeadTail(t *testing.T) {
	// Static values stay in the head, the string body follows after it.
	args := Arguments{
		{Type: mustType(t, "uint256")},
		{Type: mustType(t, "string")},
		{Type: mustType(t, "bool")},
	}
	packed, err := args.Pack(big.NewInt(42), "hi", true)
	require.NoError(t, err)
	want := common.Hex2Bytes(
		"000000000000000000000000000000000000000000000000000000000000002a" + // 42
			"0000000000000000000000000000000000000000000000000000000000000060" + // offset of "hi"
			"0000000000000000000000000000000000000000000000000000000000000001" + // true
			"0000000000000000000000000000000000000000000000000000000000000002" + // len("hi")
			"6869000000000000000000000000000000000000000000000000000000000000")
	assert.Equal(t, want, packed)
}

func TestPackArityMismatch(t *testing.T) {
	args := Arguments{{Type: mustType(t, "uint256")}, {Type: mustType(t, "bool")}}
	_, err := args.Pack(big.NewInt(1))
	require.ErrorIs(t, err, ErrArityMismatch)
}

func TestPackRangeChecks(t *testing.T) {
	_, err := mustType(t, "uint8").pack(big.NewInt(256))
	require.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = mustType(t, "uint256").pack(big.NewInt(-1))
	require.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = mustType(t, "int8").pack(big.NewInt(128))
	require.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = mustType(t, "int8").pack(big.NewInt(-129))
	require.ErrorIs(t, err, ErrValueOutOfRange)

	// boundary values are fine
	_, err = mustType(t, "int8").pack(big.NewInt(-128))
	require.NoError(t, err)
	_, err = mustType(t, "uint8").pack(big.NewInt(255))
	require.NoError(t, err)
}

func TestPackTypeMismatch(t *testing.T) {
	_, err := mustType(t, "bool").pack("true")
	require.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = mustType(t, "string").pack(42)
	require.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = mustType(t, "bytes4").pack([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = mustType(t, "uint256[2]").pack([]*big.Int{big.NewInt(1)})
	require.ErrorIs(t, err, ErrLengthMismatch)
}
