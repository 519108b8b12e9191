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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeCanonicalString(t *testing.T) {
	tests := []struct {
		input     string
		canonical string
	}{
		{"uint", "uint256"},
		{"int", "int256"},
		{"uint8", "uint8"},
		{"uint256", "uint256"},
		{"bool", "bool"},
		{"address", "address"},
		{"string", "string"},
		{"bytes", "bytes"},
		{"bytes32", "bytes32"},
		{"uint[]", "uint256[]"},
		{"uint[3]", "uint256[3]"},
		{"uint[3][]", "uint256[3][]"},
		{"address[2][2]", "address[2][2]"},
	}
	for _, tt := range tests {
		typ, err := NewType(tt.input, nil)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.canonical, typ.String(), tt.input)
	}
}

func TestTypeTupleString(t *testing.T) {
	typ, err := NewType("tuple", []ArgumentMarshaling{
		{Name: "a", Type: "uint"},
		{Name: "b", Type: "string"},
		{Name: "c", Type: "tuple", Components: []ArgumentMarshaling{{Name: "x", Type: "bytes32"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "(uint256,string,(bytes32))", typ.String())
}

func TestNewTypeInvalid(t *testing.T) {
	for _, input := range []string{
		"uint7",    // not a multiple of 8
		"uint264",  // too wide
		"uint0",    // zero width
		"bytes0",   // zero width
		"bytes33",  // too wide
		"bool8",    // sized bool
		"address1", // sized address
		"string32", // sized string
		"uint[",    // unbalanced brackets
		"uint[-1]", // negative array size
		"uint[0]",  // zero array size
		"fixed128x18",
		"function",
		"blorb",
	} {
		_, err := NewType(input, nil)
		require.ErrorIs(t, err, ErrUnknownType, input)
	}
}

func TestTypeDynamic(t *testing.T) {
	dynamic := []string{"string", "bytes", "uint[]", "bytes32[]", "string[2]"}
	static := []string{"uint256", "bool", "address", "bytes32", "uint[3]", "address[2][2]"}

	for _, s := range dynamic {
		typ, err := NewType(s, nil)
		require.NoError(t, err)
		assert.True(t, isDynamicType(typ), s)
	}
	for _, s := range static {
		typ, err := NewType(s, nil)
		require.NoError(t, err)
		assert.False(t, isDynamicType(typ), s)
	}

	dynTuple, err := NewType("tuple", []ArgumentMarshaling{{Name: "s", Type: "string"}})
	require.NoError(t, err)
	assert.True(t, isDynamicType(dynTuple))

	staticTuple, err := NewType("tuple", []ArgumentMarshaling{{Name: "n", Type: "uint256"}, {Name: "b", Type: "bool"}})
	require.NoError(t, err)
	assert.False(t, isDynamicType(staticTuple))
}

func TestGetTypeSize(t *testing.T) {
	tests := []struct {
		input string
		size  int
	}{
		{"uint256", 32},
		{"bool", 32},
		{"string", 32},   // dynamic, head slot only
		{"uint[]", 32},   // dynamic, head slot only
		{"uint[3]", 96},  // three inline words
		{"uint[3][2]", 192},
		{"string[2]", 32}, // dynamic element makes the array dynamic
	}
	for _, tt := range tests {
		typ, err := NewType(tt.input, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.size, getTypeSize(typ), tt.input)
	}

	staticTuple, err := NewType("tuple", []ArgumentMarshaling{{Name: "n", Type: "uint256"}, {Name: "a", Type: "uint[2]"}})
	require.NoError(t, err)
	assert.Equal(t, 96, getTypeSize(staticTuple))
}
