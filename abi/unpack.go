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
	"fmt"
	"math/big"

	"github.com/web3go/web3go/common"
)

// readInteger decodes a 32-byte word as the integer type t. Values declared
// with a width of 8, 16, 32 or 64 bits come back as the matching sized Go
// integer, everything wider as *big.Int. Padding bytes beyond the declared
// width must be a valid zero or sign extension.
func readInteger(t Type, b []byte) (interface{}, error) {
	ret := new(big.Int).SetBytes(b)
	if t.T == IntTy && b[0]&0x80 != 0 {
		// two's complement
		ret.Sub(ret, new(big.Int).Lsh(big1, 256))
	}
	if err := checkRange(t, ret); err != nil {
		return nil, err
	}
	if t.T == UintTy {
		switch t.Size {
		case 8:
			return uint8(ret.Uint64()), nil
		case 16:
			return uint16(ret.Uint64()), nil
		case 32:
			return uint32(ret.Uint64()), nil
		case 64:
			return ret.Uint64(), nil
		}
		return ret, nil
	}
	switch t.Size {
	case 8:
		return int8(ret.Int64()), nil
	case 16:
		return int16(ret.Int64()), nil
	case 32:
		return int32(ret.Int64()), nil
	case 64:
		return ret.Int64(), nil
	}
	return ret, nil
}

// readBool reads a bool. Any word other than exactly 0 or 1 is rejected.
func readBool(word []byte) (bool, error) {
	for _, b := range word[:31] {
		if b != 0 {
			return false, errBadBool
		}
	}
	switch word[31] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errBadBool
	}
}

// readFixedBytes returns the left-aligned payload of a bytesN word and
// rejects non-zero padding.
func readFixedBytes(t Type, word []byte) ([]byte, error) {
	for _, b := range word[t.Size:] {
		if b != 0 {
			return nil, fmt.Errorf("%w: dirty padding after bytes%d", ErrValueOutOfRange, t.Size)
		}
	}
	return common.CopyBytes(word[:t.Size]), nil
}

// forEachUnpack iteratively unpacks elements of a slice or array.
func forEachUnpack(t Type, output []byte, start, size int) ([]interface{}, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", ErrInvalidOffset, size)
	}
	if start+32*size > len(output) {
		return nil, fmt.Errorf("%w: have %d bytes, want %d elements", ErrTruncatedData, len(output), size)
	}

	elemSize := getTypeSize(*t.Elem)
	ret := make([]interface{}, 0, size)
	for i, j := start, 0; j < size; i, j = i+elemSize, j+1 {
		v, err := toGoType(i, *t.Elem, output)
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	return ret, nil
}

// forTupleUnpack unpacks the fields of a tuple in declaration order.
func forTupleUnpack(t Type, output []byte) ([]interface{}, error) {
	ret := make([]interface{}, 0, len(t.TupleElems))
	virtualIndex := 0
	for _, elem := range t.TupleElems {
		v, err := toGoType(virtualIndex, *elem, output)
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
		virtualIndex += getTypeSize(*elem)
	}
	return ret, nil
}

// toGoType parses the output bytes and recursively assigns the value of
// these bytes into a Go value of the matching type.
func toGoType(index int, t Type, output []byte) (interface{}, error) {
	if index+32 > len(output) {
		return nil, fmt.Errorf("%w: have %d bytes, need at least %d", ErrTruncatedData, len(output), index+32)
	}

	var (
		returnOutput  []byte
		begin, length int
		err           error
	)
	switch {
	case t.requiresLengthPrefix():
		begin, length, err = lengthPrefixPointsTo(index, output)
		if err != nil {
			return nil, err
		}
	case t.T == TupleTy && isDynamicType(t), t.T == ArrayTy && isDynamicType(t):
		begin, err = tuplePointsTo(index, output)
		if err != nil {
			return nil, err
		}
	default:
		returnOutput = output[index : index+32]
	}

	switch t.T {
	case TupleTy:
		if isDynamicType(t) {
			return forTupleUnpack(t, output[begin:])
		}
		return forTupleUnpack(t, output[index:])
	case SliceTy:
		return forEachUnpack(t, output[begin:], 0, length)
	case ArrayTy:
		if isDynamicType(*t.Elem) {
			return forEachUnpack(t, output[begin:], 0, t.Size)
		}
		return forEachUnpack(t, output, index, t.Size)
	case StringTy:
		return string(output[begin : begin+length]), nil
	case BytesTy:
		return common.CopyBytes(output[begin : begin+length]), nil
	case IntTy, UintTy:
		return readInteger(t, returnOutput)
	case BoolTy:
		return readBool(returnOutput)
	case AddressTy:
		var addr common.Address
		addr.SetBytes(returnOutput)
		for _, b := range returnOutput[:12] {
			if b != 0 {
				return nil, fmt.Errorf("%w: dirty padding before address", ErrValueOutOfRange)
			}
		}
		return addr, nil
	case FixedBytesTy:
		return readFixedBytes(t, returnOutput)
	}
	return nil, fmt.Errorf("%w: cannot decode %v", ErrUnknownType, t)
}

// lengthPrefixPointsTo interprets a 32 byte slice as an offset and then
// determines which indices to look to decode the type.
func lengthPrefixPointsTo(index int, output []byte) (start int, length int, err error) {
	bigOffsetEnd := new(big.Int).SetBytes(output[index : index+32])
	bigOffsetEnd.Add(bigOffsetEnd, big.NewInt(32))
	outputLength := big.NewInt(int64(len(output)))

	if bigOffsetEnd.Cmp(outputLength) > 0 {
		return 0, 0, fmt.Errorf("%w: offset %v would go over slice boundary (len=%v)", ErrInvalidOffset, bigOffsetEnd, outputLength)
	}
	if bigOffsetEnd.BitLen() > 63 {
		return 0, 0, fmt.Errorf("%w: offset larger than int64: %v", ErrInvalidOffset, bigOffsetEnd)
	}

	offsetEnd := int(bigOffsetEnd.Uint64())
	lengthBig := new(big.Int).SetBytes(output[offsetEnd-32 : offsetEnd])

	totalSize := new(big.Int).Add(bigOffsetEnd, lengthBig)
	if totalSize.BitLen() > 63 {
		return 0, 0, fmt.Errorf("%w: length larger than int64: %v", ErrInvalidOffset, totalSize)
	}
	if totalSize.Cmp(outputLength) > 0 {
		return 0, 0, fmt.Errorf("%w: have %v bytes, need %v", ErrTruncatedData, outputLength, totalSize)
	}
	return offsetEnd, int(lengthBig.Uint64()), nil
}

// tuplePointsTo resolves the location reference for a dynamic tuple or array.
func tuplePointsTo(index int, output []byte) (start int, err error) {
	offset := new(big.Int).SetBytes(output[index : index+32])
	outputLen := big.NewInt(int64(len(output)))

	if offset.Cmp(outputLen) > 0 {
		return 0, fmt.Errorf("%w: offset %v would go over slice boundary (len=%v)", ErrInvalidOffset, offset, outputLen)
	}
	if offset.BitLen() > 63 {
		return 0, fmt.Errorf("%w: offset larger than int64: %v", ErrInvalidOffset, offset)
	}
	return int(offset.Uint64()), nil
}
