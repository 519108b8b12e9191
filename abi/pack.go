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
	"reflect"

	"github.com/holiman/uint256"

	"github.com/web3go/web3go/common"
)

var (
	big1    = big.NewInt(1)
	maxU256 = new(big.Int).Sub(new(big.Int).Lsh(big1, 256), big1)
)

// pack encodes a single Go value according to t. Composite types recurse,
// building their own inner head and tail sections.
func (t Type) pack(v interface{}) ([]byte, error) {
	switch t.T {
	case SliceTy, ArrayTy:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return nil, fmt.Errorf("%w: cannot use %T as %v", ErrValueOutOfRange, v, t)
		}
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, fmt.Errorf("%w: cannot use []byte as %v", ErrValueOutOfRange, t)
		}
		if t.T == ArrayTy && rv.Len() != t.Size {
			return nil, fmt.Errorf("%w: array length %d, want %d", ErrLengthMismatch, rv.Len(), t.Size)
		}

		var ret []byte
		if t.requiresLengthPrefix() {
			ret = append(ret, packOffset(rv.Len())...)
		}
		// Elements of a dynamic type are referenced by offsets relative to
		// the start of the element area.
		offsets := isDynamicType(*t.Elem)
		offset := 0
		if offsets {
			offset = getTypeSize(*t.Elem) * rv.Len()
		}
		var tail []byte
		for i := 0; i < rv.Len(); i++ {
			packed, err := t.Elem.pack(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			if !offsets {
				ret = append(ret, packed...)
				continue
			}
			ret = append(ret, packOffset(offset)...)
			offset += len(packed)
			tail = append(tail, packed...)
		}
		return append(ret, tail...), nil

	case TupleTy:
		elems, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: cannot use %T as %v", ErrValueOutOfRange, v, t)
		}
		if len(elems) != len(t.TupleElems) {
			return nil, fmt.Errorf("%w: tuple has %d values, want %d", ErrArityMismatch, len(elems), len(t.TupleElems))
		}
		headSize := 0
		for _, elem := range t.TupleElems {
			headSize += getTypeSize(*elem)
		}
		var head, tail []byte
		for i, elem := range t.TupleElems {
			packed, err := elem.pack(elems[i])
			if err != nil {
				return nil, err
			}
			if isDynamicType(*elem) {
				head = append(head, packOffset(headSize+len(tail))...)
				tail = append(tail, packed...)
			} else {
				head = append(head, packed...)
			}
		}
		return append(head, tail...), nil

	default:
		return packElement(t, v)
	}
}

// packElement encodes a non-composite value into its 32-byte aligned form.
func packElement(t Type, v interface{}) ([]byte, error) {
	switch t.T {
	case IntTy, UintTy:
		n, err := toBig(v)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %T as %v: %w", v, t, err)
		}
		if err := checkRange(t, n); err != nil {
			return nil, err
		}
		return packNum(n), nil
	case BoolTy:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: cannot use %T as bool", ErrValueOutOfRange, v)
		}
		padded := make([]byte, 32)
		if b {
			padded[31] = 1
		}
		return padded, nil
	case AddressTy:
		switch a := v.(type) {
		case common.Address:
			return common.LeftPadBytes(a.Bytes(), 32), nil
		case [20]byte:
			return common.LeftPadBytes(a[:], 32), nil
		}
		return nil, fmt.Errorf("%w: cannot use %T as address", ErrValueOutOfRange, v)
	case StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: cannot use %T as string", ErrValueOutOfRange, v)
		}
		return packBytesSlice([]byte(s)), nil
	case BytesTy:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: cannot use %T as bytes", ErrValueOutOfRange, v)
		}
		return packBytesSlice(b), nil
	case FixedBytesTy:
		b, err := toFixedBytes(v, t.Size)
		if err != nil {
			return nil, err
		}
		return common.RightPadBytes(b, 32), nil
	}
	return nil, fmt.Errorf("%w: cannot encode as %v", ErrUnknownType, t)
}

// packNum renders a 32-byte big-endian two's complement encoding.
func packNum(n *big.Int) []byte {
	u := new(big.Int).And(n, maxU256)
	return u.FillBytes(make([]byte, 32))
}

func packOffset(n int) []byte {
	return packNum(big.NewInt(int64(n)))
}

// packBytesSlice packs the given bytes as [L, V] as the canonical
// representation of a byte slice.
func packBytesSlice(bytes []byte) []byte {
	ret := packOffset(len(bytes))
	return append(ret, common.RightPadBytes(bytes, (len(bytes)+31)/32*32)...)
}

// toBig converts the supported native integer representations to big.Int.
func toBig(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: nil *big.Int", ErrValueOutOfRange)
		}
		return n, nil
	case *uint256.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: nil *uint256.Int", ErrValueOutOfRange)
		}
		return n.ToBig(), nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	}
	return nil, fmt.Errorf("%w: unsupported integer type %T", ErrValueOutOfRange, v)
}

// checkRange verifies that n fits the declared bit width of t.
func checkRange(t Type, n *big.Int) error {
	if t.T == UintTy {
		if n.Sign() < 0 {
			return fmt.Errorf("%w: negative value for %v", ErrValueOutOfRange, t)
		}
		if n.BitLen() > t.Size {
			return fmt.Errorf("%w: %v does not fit %v", ErrValueOutOfRange, n, t)
		}
		return nil
	}
	// signed: [-2^(size-1), 2^(size-1)-1]
	limit := new(big.Int).Lsh(big1, uint(t.Size-1))
	if n.Sign() >= 0 {
		if n.Cmp(limit) >= 0 {
			return fmt.Errorf("%w: %v does not fit %v", ErrValueOutOfRange, n, t)
		}
		return nil
	}
	neg := new(big.Int).Neg(limit)
	if n.Cmp(neg) < 0 {
		return fmt.Errorf("%w: %v does not fit %v", ErrValueOutOfRange, n, t)
	}
	return nil
}

func toFixedBytes(v interface{}, size int) ([]byte, error) {
	if b, ok := v.([]byte); ok {
		if len(b) != size {
			return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, len(b), size)
		}
		return b, nil
	}
	if h, ok := v.(common.Hash); ok {
		if size != 32 {
			return nil, fmt.Errorf("%w: got 32 bytes, want %d", ErrLengthMismatch, size)
		}
		return h.Bytes(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		if rv.Len() != size {
			return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, rv.Len(), size)
		}
		b := make([]byte, size)
		reflect.Copy(reflect.ValueOf(b), rv)
		return b, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as bytes%d", ErrValueOutOfRange, v, size)
}
