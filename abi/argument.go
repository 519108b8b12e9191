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
	"encoding/json"
	"fmt"
)

// Argument holds the name of the argument and the corresponding type.
// Types are used when packing and testing arguments.
type Argument struct {
	Name    string
	Type    Type
	Indexed bool // indexed is only used by events
}

type Arguments []Argument

// ArgumentMarshaling mirrors one entry of the "inputs"/"outputs" lists in
// contract metadata JSON.
type ArgumentMarshaling struct {
	Name         string
	Type         string
	InternalType string
	Components   []ArgumentMarshaling
	Indexed      bool
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (argument *Argument) UnmarshalJSON(data []byte) error {
	var arg ArgumentMarshaling
	err := json.Unmarshal(data, &arg)
	if err != nil {
		return fmt.Errorf("argument json err: %v", err)
	}

	argument.Type, err = NewType(arg.Type, arg.Components)
	if err != nil {
		return err
	}
	argument.Name = arg.Name
	argument.Indexed = arg.Indexed
	return nil
}

// Pack performs the operation Go format -> Hexdata. Static values land in the
// head section directly, dynamic values get a head offset pointing into the
// tail section.
func (arguments Arguments) Pack(args ...interface{}) ([]byte, error) {
	if len(args) != len(arguments) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrArityMismatch, len(arguments), len(args))
	}
	// Calculate the full head section size up front so tail offsets are
	// known before any dynamic value is written.
	headSize := 0
	for _, arg := range arguments {
		headSize += getTypeSize(arg.Type)
	}

	var head, tail []byte
	for i, arg := range arguments {
		packed, err := arg.Type.pack(args[i])
		if err != nil {
			return nil, fmt.Errorf("abi: argument %d: %w", i, err)
		}
		if isDynamicType(arg.Type) {
			head = append(head, packOffset(headSize+len(tail))...)
			tail = append(tail, packed...)
		} else {
			head = append(head, packed...)
		}
	}
	return append(head, tail...), nil
}

// Unpack performs the operation hexdata -> Go format. It returns one decoded
// value per argument, in declaration order.
func (arguments Arguments) Unpack(data []byte) ([]interface{}, error) {
	if len(data) == 0 && len(arguments) > 0 {
		return nil, fmt.Errorf("%w: empty output for %d expected values", ErrTruncatedData, len(arguments))
	}
	values := make([]interface{}, 0, len(arguments))
	virtualIndex := 0
	for i, arg := range arguments {
		value, err := toGoType(virtualIndex, arg.Type, data)
		if err != nil {
			return nil, fmt.Errorf("abi: output %d: %w", i, err)
		}
		values = append(values, value)
		virtualIndex += getTypeSize(arg.Type)
	}
	return values, nil
}
