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
	"regexp"
	"strconv"
	"strings"
)

// Type enumerator
const (
	IntTy byte = iota
	UintTy
	BoolTy
	StringTy
	SliceTy
	ArrayTy
	TupleTy
	AddressTy
	FixedBytesTy
	BytesTy
)

// Type is the reflection of the supported argument type. It is derived once
// from a parsed type string and shared by all encode/decode calls for that
// type.
type Type struct {
	Elem *Type // element type of SliceTy and ArrayTy
	Size int   // bit width for IntTy/UintTy, byte width for FixedBytesTy, length for ArrayTy
	T    byte  // Our own type checking

	stringKind string // holds the unparsed string for deriving signatures

	// Tuple relevant
	TupleElems    []*Type  // Type information of all tuple fields
	TupleRawNames []string // Raw field name of all tuple fields
}

var typeRegex = regexp.MustCompile("^([a-zA-Z]+)([0-9]*)$")

// NewType creates a new reflection type of abi type given in t.
func NewType(t string, components []ArgumentMarshaling) (typ Type, err error) {
	// check that array brackets are equal if they exist
	if strings.Count(t, "[") != strings.Count(t, "]") {
		return Type{}, fmt.Errorf("%w: unbalanced brackets in %q", ErrUnknownType, t)
	}

	// If there are brackets, get ready to go into slice/array mode and recursively
	// create the type of the slice or array element.
	if strings.HasSuffix(t, "]") {
		i := strings.LastIndex(t, "[")
		embedded, err := NewType(t[:i], components)
		if err != nil {
			return Type{}, err
		}
		suffix := t[i+1 : len(t)-1]
		typ.Elem = &embedded
		if suffix == "" {
			typ.T = SliceTy
			typ.stringKind = embedded.stringKind + "[]"
		} else {
			size, err := strconv.Atoi(suffix)
			if err != nil || size <= 0 {
				return Type{}, fmt.Errorf("%w: invalid array size in %q", ErrUnknownType, t)
			}
			typ.T = ArrayTy
			typ.Size = size
			typ.stringKind = embedded.stringKind + "[" + suffix + "]"
		}
		return typ, nil
	}

	matches := typeRegex.FindStringSubmatch(t)
	if len(matches) == 0 {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	parsedType, sizeStr := matches[1], matches[2]
	var size int
	if sizeStr != "" {
		size, err = strconv.Atoi(sizeStr)
		if err != nil {
			return Type{}, fmt.Errorf("%w: invalid size in %q", ErrUnknownType, t)
		}
	}

	switch parsedType {
	case "int":
		if size == 0 {
			size = 256
		}
		if size < 8 || size > 256 || size%8 != 0 {
			return Type{}, fmt.Errorf("%w: invalid width in %q", ErrUnknownType, t)
		}
		typ.T = IntTy
		typ.Size = size
		typ.stringKind = "int" + strconv.Itoa(size)
	case "uint":
		if size == 0 {
			size = 256
		}
		if size < 8 || size > 256 || size%8 != 0 {
			return Type{}, fmt.Errorf("%w: invalid width in %q", ErrUnknownType, t)
		}
		typ.T = UintTy
		typ.Size = size
		typ.stringKind = "uint" + strconv.Itoa(size)
	case "bool":
		if sizeStr != "" {
			return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
		typ.T = BoolTy
		typ.stringKind = "bool"
	case "address":
		if sizeStr != "" {
			return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
		typ.T = AddressTy
		typ.Size = 20
		typ.stringKind = "address"
	case "string":
		if sizeStr != "" {
			return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
		typ.T = StringTy
		typ.stringKind = "string"
	case "bytes":
		if sizeStr == "" {
			typ.T = BytesTy
			typ.stringKind = "bytes"
		} else {
			if size < 1 || size > 32 {
				return Type{}, fmt.Errorf("%w: invalid bytes width in %q", ErrUnknownType, t)
			}
			typ.T = FixedBytesTy
			typ.Size = size
			typ.stringKind = "bytes" + strconv.Itoa(size)
		}
	case "tuple":
		if sizeStr != "" {
			return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
		var (
			elems    []*Type
			names    []string
			elemKind []string
		)
		for _, c := range components {
			cType, err := NewType(c.Type, c.Components)
			if err != nil {
				return Type{}, err
			}
			elems = append(elems, &cType)
			names = append(names, c.Name)
			elemKind = append(elemKind, cType.stringKind)
		}
		typ.T = TupleTy
		typ.TupleElems = elems
		typ.TupleRawNames = names
		typ.stringKind = "(" + strings.Join(elemKind, ",") + ")"
	default:
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return typ, nil
}

// String implements Stringer. The returned form is canonical: "uint" renders
// as "uint256", tuples as a parenthesized element list.
func (t Type) String() string {
	return t.stringKind
}

// requiresLengthPrefix returns whether the type requires any sort of length
// prefixing.
func (t Type) requiresLengthPrefix() bool {
	return t.T == StringTy || t.T == BytesTy || t.T == SliceTy
}

// isDynamicType returns true if the type is dynamic.
// The following types are called "dynamic":
// * bytes
// * string
// * T[] for any T
// * T[k] for any dynamic T and any k
// * (T1,...,Tk) if Ti is dynamic for some i
func isDynamicType(t Type) bool {
	if t.T == TupleTy {
		for _, elem := range t.TupleElems {
			if isDynamicType(*elem) {
				return true
			}
		}
		return false
	}
	return t.T == StringTy || t.T == BytesTy || t.T == SliceTy || (t.T == ArrayTy && isDynamicType(*t.Elem))
}

// getTypeSize returns the size that this type needs to occupy in the head
// section. All dynamic types occupy one 32-byte offset slot; static arrays
// and tuples occupy the sum of their parts.
func getTypeSize(t Type) int {
	if t.T == ArrayTy && !isDynamicType(*t.Elem) {
		// Recursively calculate type size if it is a nested array
		if t.Elem.T == ArrayTy || t.Elem.T == TupleTy {
			return t.Size * getTypeSize(*t.Elem)
		}
		return t.Size * 32
	} else if t.T == TupleTy && !isDynamicType(t) {
		total := 0
		for _, elem := range t.TupleElems {
			total += getTypeSize(*elem)
		}
		return total
	}
	return 32
}
