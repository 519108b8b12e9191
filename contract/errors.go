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

package contract

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMethod is returned when a call targets a method name the contract
	// metadata does not declare.
	ErrNoMethod = errors.New("contract: method not found")

	// ErrAmbiguousOverload is returned when a method name with the given
	// argument count matches more than one declared overload. Callers
	// disambiguate with the full signature form, e.g. "deposit(uint256)".
	ErrAmbiguousOverload = errors.New("contract: ambiguous method overload")

	// ErrNoCode is returned when the call target holds no contract code at
	// the requested block.
	ErrNoCode = errors.New("contract: no contract code at given address")

	// ErrEmptyResult is returned when a call to a method with declared
	// outputs produced no return data. This usually means the call reverted
	// without a reason string.
	ErrEmptyResult = errors.New("contract: call returned no data")

	// ErrMissingSender is returned by Transact and EstimateGas when the
	// options carry no sender address.
	ErrMissingSender = errors.New("contract: no sender address specified")

	// ErrNoSigner is returned by Transact when the options carry no signing
	// function.
	ErrNoSigner = errors.New("contract: no signer to authorize the transaction with")

	// ErrNoPendingState is raised when attempting to perform a pending state
	// action on a backend that doesn't implement PendingContractCaller.
	ErrNoPendingState = errors.New("contract: backend does not support pending state")
)

// RevertError wraps an on-chain revert with its decoded reason string.
type RevertError struct {
	Reason string // decoded Error(string) or Panic(uint256) payload
	Data   []byte // raw ABI-encoded revert data
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}
