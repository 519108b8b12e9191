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

import "errors"

// Coding errors are local to the caller's values and data; they are never
// retried and always surfaced as-is. All errors returned by Pack and
// Unpack wrap one of these sentinels, so callers can match with
// errors.Is.
var (
	// ErrArityMismatch means the number of values does not match the number of
	// declared argument types.
	ErrArityMismatch = errors.New("abi: argument count mismatch")

	// ErrLengthMismatch means a fixed-size array, tuple or bytesN value has
	// the wrong number of elements.
	ErrLengthMismatch = errors.New("abi: length mismatch")

	// ErrValueOutOfRange means an integer value does not fit the declared bit
	// width.
	ErrValueOutOfRange = errors.New("abi: value out of range")

	// ErrTruncatedData means fewer bytes are available than the type layout
	// requires.
	ErrTruncatedData = errors.New("abi: truncated data")

	// ErrInvalidOffset means a dynamic offset points outside the buffer.
	ErrInvalidOffset = errors.New("abi: invalid offset")

	// ErrUnknownType means a type string is not part of the ABI type grammar.
	ErrUnknownType = errors.New("abi: unknown type")

	errBadBool = errors.New("abi: improperly encoded boolean value")
)
