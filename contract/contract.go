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

// Package contract provides a typed wrapper around deployed contracts. It
// packs method calls against the contract metadata, dispatches them through a
// backend and decodes the results, including revert reasons.
package contract

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/web3go/web3go"
	"github.com/web3go/web3go/abi"
	"github.com/web3go/web3go/common"
	"github.com/web3go/web3go/common/hexutil"
	"github.com/web3go/web3go/rpc"
)

// ContractCaller defines the methods needed to allow operating with a
// contract on a read only basis.
type ContractCaller interface {
	// CodeAt returns the code of the given account. This is needed to
	// differentiate between contract internal errors and the local chain
	// being out of sync.
	CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)

	// CallContract executes an Ethereum contract call with the specified data
	// as the input.
	CallContract(ctx context.Context, call web3go.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// PendingContractCaller defines methods to perform contract calls on the
// pending state. Call will try to discover this interface when access to the
// pending state is requested.
type PendingContractCaller interface {
	// PendingCodeAt returns the code of the given account in the pending state.
	PendingCodeAt(ctx context.Context, contract common.Address) ([]byte, error)

	// PendingCallContract executes an Ethereum contract call against the
	// pending state.
	PendingCallContract(ctx context.Context, call web3go.CallMsg) ([]byte, error)
}

// ContractTransactor defines the methods needed to allow operating with a
// contract on a write only basis. Beside the transacting method, the rest are
// helpers used when the user does not provide some needed values, but rather
// leaves it up to the transactor to decide.
type ContractTransactor interface {
	// PendingNonceAt retrieves the current pending nonce associated with an
	// account.
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)

	// SuggestGasPrice retrieves the currently suggested gas price to allow a
	// timely execution of a transaction.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// EstimateGas tries to estimate the gas needed to execute a specific
	// transaction based on the current pending state of the backend blockchain.
	EstimateGas(ctx context.Context, call web3go.CallMsg) (uint64, error)

	// SendRawTransaction injects the signed transaction into the pending pool
	// for execution.
	SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error)

	// ChainID retrieves the chain identifier for replay protected signing.
	ChainID(ctx context.Context) (*big.Int, error)
}

// ContractBackend defines the methods needed to work with contracts on a
// read-write basis.
type ContractBackend interface {
	ContractCaller
	ContractTransactor
}

// Tx is the outcome of Transact: the assembled transaction fields, the signed
// serialization and, unless NoSend was set, the hash it was broadcast under.
type Tx struct {
	Hash     common.Hash
	Unsigned *web3go.UnsignedTx
	Raw      []byte
}

// Contract is the base wrapper object that reflects a contract on the
// Ethereum network. It contains a collection of methods that are used by the
// higher level contract bindings to operate.
type Contract struct {
	address    common.Address
	abi        abi.ABI
	caller     ContractCaller
	transactor ContractTransactor

	// methods grouped by their raw (source) name; candidate order is
	// unspecified, resolution goes by argument count
	overloads map[string][]*abi.Method
}

// New creates a contract wrapper for the contract deployed at address. Either
// backend half may be nil when only the other is used.
func New(address common.Address, parsed abi.ABI, caller ContractCaller, transactor ContractTransactor) *Contract {
	c := &Contract{
		address:    address,
		abi:        parsed,
		caller:     caller,
		transactor: transactor,
		overloads:  make(map[string][]*abi.Method),
	}
	for name := range parsed.Methods {
		method := parsed.Methods[name]
		c.overloads[method.RawName] = append(c.overloads[method.RawName], &method)
	}
	return c
}

// NewWithBackend creates a contract wrapper using the same backend for reads
// and writes.
func NewWithBackend(address common.Address, parsed abi.ABI, backend ContractBackend) *Contract {
	return New(address, parsed, backend, backend)
}

// Address returns the deployment address of the wrapped contract.
func (c *Contract) Address() common.Address {
	return c.address
}

// ABI returns the parsed contract metadata.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Method looks up a method the same way Call does: by full signature when the
// name contains a parenthesis, by raw name and argument count otherwise.
func (c *Contract) Method(name string, nargs int) (*abi.Method, error) {
	if strings.ContainsRune(name, '(') {
		return c.MethodBySignature(name)
	}
	return c.resolve(name, nargs)
}

// MethodBySignature looks up a method by its full signature, e.g.
// "transfer(address,uint256)". Types are canonicalized before matching, so
// "deposit(uint)" selects "deposit(uint256)". Tuple arguments use the
// parenthesized form, e.g. "set((uint256,bool))".
func (c *Contract) MethodBySignature(sig string) (*abi.Method, error) {
	canonical, err := canonicalSignature(sig)
	if err != nil {
		return nil, err
	}
	for name := range c.abi.Methods {
		method := c.abi.Methods[name]
		if method.Sig == canonical {
			return &method, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoMethod, canonical)
}

// resolve selects a method by raw name. For overloaded names the argument
// count must single out exactly one candidate.
func (c *Contract) resolve(name string, nargs int) (*abi.Method, error) {
	candidates := c.overloads[name]
	switch len(candidates) {
	case 0:
		// Allow the suffixed unique names assigned to later overloads.
		if method, ok := c.abi.Methods[name]; ok {
			return &method, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNoMethod, name)
	case 1:
		return candidates[0], nil
	}
	var matches []*abi.Method
	for _, method := range candidates {
		if len(method.Inputs) == nargs {
			matches = append(matches, method)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no overload of %s takes %d arguments", ErrNoMethod, name, nargs)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %d overloads of %s take %d arguments, use the full signature", ErrAmbiguousOverload, len(matches), name, nargs)
	}
}

// Call invokes the (constant) contract method with params as input values and
// returns the decoded output values. The method may be given as a raw name
// (resolved by argument count among overloads) or as a full signature.
func (c *Contract) Call(opts *CallOpts, method string, args ...interface{}) ([]interface{}, error) {
	if opts == nil {
		opts = new(CallOpts)
	}
	m, err := c.Method(method, len(args))
	if err != nil {
		return nil, err
	}
	input, err := c.abi.Pack(m.Name, args...)
	if err != nil {
		return nil, err
	}

	var (
		msg    = web3go.CallMsg{From: opts.From, To: &c.address, Data: input}
		ctx    = ensureContext(opts.Context)
		code   []byte
		output []byte
	)
	if opts.Pending {
		pb, ok := c.caller.(PendingContractCaller)
		if !ok {
			return nil, ErrNoPendingState
		}
		output, err = pb.PendingCallContract(ctx, msg)
		if err != nil {
			return nil, unwrapCallError(err)
		}
		if len(output) == 0 {
			// Make sure we have a contract to operate on, and bail out otherwise.
			if code, err = pb.PendingCodeAt(ctx, c.address); err != nil {
				return nil, err
			} else if len(code) == 0 {
				return nil, ErrNoCode
			}
		}
	} else {
		output, err = c.caller.CallContract(ctx, msg, opts.BlockNumber)
		if err != nil {
			return nil, unwrapCallError(err)
		}
		if len(output) == 0 {
			if code, err = c.caller.CodeAt(ctx, c.address, opts.BlockNumber); err != nil {
				return nil, err
			} else if len(code) == 0 {
				return nil, ErrNoCode
			}
		}
	}
	if rerr := revertFromOutput(output); rerr != nil {
		return nil, rerr
	}
	if len(output) == 0 && len(m.Outputs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResult, m.Sig)
	}
	return m.Outputs.Unpack(output)
}

// Transact packs the given method invocation, fills in the missing
// transaction fields from the pending state, signs it through opts.Signer and
// broadcasts it.
func (c *Contract) Transact(opts *TransactOpts, method string, args ...interface{}) (*Tx, error) {
	if opts == nil || opts.Signer == nil {
		return nil, ErrNoSigner
	}
	if opts.From == (common.Address{}) {
		return nil, ErrMissingSender
	}
	m, err := c.Method(method, len(args))
	if err != nil {
		return nil, err
	}
	input, err := c.abi.Pack(m.Name, args...)
	if err != nil {
		return nil, err
	}
	ctx := ensureContext(opts.Context)

	var nonce uint64
	if opts.Nonce != nil {
		nonce = opts.Nonce.Uint64()
	} else {
		nonce, err = c.transactor.PendingNonceAt(ctx, opts.From)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve account nonce: %w", err)
		}
	}
	gasPrice := opts.GasPrice
	if gasPrice == nil {
		gasPrice, err = c.transactor.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
	}
	value := opts.Value
	if value == nil {
		value = new(big.Int)
	}
	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		msg := web3go.CallMsg{From: opts.From, To: &c.address, GasPrice: gasPrice, Value: value, Data: input}
		gasLimit, err = c.transactor.EstimateGas(ctx, msg)
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas needed: %w", unwrapCallError(err))
		}
	}
	chainID, err := c.transactor.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chain id: %w", err)
	}

	to := c.address
	unsigned := &web3go.UnsignedTx{
		To:       &to,
		Nonce:    nonce,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     input,
		ChainID:  chainID,
	}
	signed, err := opts.Signer(opts.From, unsigned)
	if err != nil {
		return nil, err
	}
	tx := &Tx{Unsigned: unsigned, Raw: signed}
	if opts.NoSend {
		return tx, nil
	}
	tx.Hash, err = c.transactor.SendRawTransaction(ctx, signed)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// EstimateGas packs the method invocation and asks the backend for a gas
// estimate without signing or sending anything.
func (c *Contract) EstimateGas(opts *TransactOpts, method string, args ...interface{}) (uint64, error) {
	if opts == nil || opts.From == (common.Address{}) {
		return 0, ErrMissingSender
	}
	m, err := c.Method(method, len(args))
	if err != nil {
		return 0, err
	}
	input, err := c.abi.Pack(m.Name, args...)
	if err != nil {
		return 0, err
	}
	msg := web3go.CallMsg{From: opts.From, To: &c.address, GasPrice: opts.GasPrice, Value: opts.Value, Data: input}
	gas, err := c.transactor.EstimateGas(ensureContext(opts.Context), msg)
	if err != nil {
		return 0, unwrapCallError(err)
	}
	return gas, nil
}

// DecodeInput resolves calldata against the contract metadata. It returns the
// matched method and the decoded argument values.
func (c *Contract) DecodeInput(data []byte) (*abi.Method, []interface{}, error) {
	m, err := c.abi.MethodById(data)
	if err != nil {
		return nil, nil, err
	}
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, err
	}
	return m, args, nil
}

// errorSelector is the 4-byte id of Error(string), the marker solidity puts
// in front of revert reason payloads.
var errorSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

// panicSelector is the 4-byte id of Panic(uint256).
var panicSelector = []byte{0x4e, 0x48, 0x7b, 0x71}

// revertFromOutput recognizes revert payloads that a backend hands back as
// call output rather than as an error.
func revertFromOutput(output []byte) error {
	if len(output) < 4 {
		return nil
	}
	if !bytes.Equal(output[:4], errorSelector) && !bytes.Equal(output[:4], panicSelector) {
		return nil
	}
	reason, err := abi.UnpackRevert(output)
	if err != nil {
		return nil
	}
	return &RevertError{Reason: reason, Data: output}
}

// unwrapCallError inspects JSON-RPC call errors for ABI-encoded revert data
// and converts them to RevertError. Other errors pass through unchanged.
func unwrapCallError(err error) error {
	de, ok := err.(rpc.DataError)
	if !ok {
		return err
	}
	hexData, ok := de.ErrorData().(string)
	if !ok {
		return err
	}
	data, derr := hexutil.Decode(hexData)
	if derr != nil {
		return err
	}
	reason, derr := abi.UnpackRevert(data)
	if derr != nil {
		return err
	}
	return &RevertError{Reason: reason, Data: data}
}

// canonicalSignature normalizes a user supplied signature string by parsing
// every argument type, so aliases such as "uint" match the canonical
// "uint256" form stored in the metadata.
func canonicalSignature(sig string) (string, error) {
	open := strings.IndexByte(sig, '(')
	if open < 0 || !strings.HasSuffix(sig, ")") {
		return "", fmt.Errorf("%w: malformed signature %q", ErrNoMethod, sig)
	}
	name := sig[:open]
	inner := sig[open+1 : len(sig)-1]
	if inner == "" {
		return name + "()", nil
	}
	parts, err := splitTopLevel(inner)
	if err != nil {
		return "", fmt.Errorf("%w: malformed signature %q", ErrNoMethod, sig)
	}
	canonical := make([]string, len(parts))
	for i, part := range parts {
		if canonical[i], err = canonicalType(part); err != nil {
			return "", err
		}
	}
	return name + "(" + strings.Join(canonical, ",") + ")", nil
}

// canonicalType renders a single argument type in canonical form. Tuple
// syntax is handled here rather than in the type parser, which takes tuple
// element types from metadata components instead of the string form.
func canonicalType(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		typ, err := abi.NewType(s, nil)
		if err != nil {
			return "", err
		}
		return typ.String(), nil
	}
	end := -1
	for i, depth := 0, 0; i < len(s) && end < 0; i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				end = i
			}
		}
	}
	if end < 0 {
		return "", fmt.Errorf("unbalanced parentheses in %q", s)
	}
	suffix := s[end+1:]
	if !validArraySuffix(suffix) {
		return "", fmt.Errorf("invalid array suffix in %q", s)
	}
	parts, err := splitTopLevel(s[1:end])
	if err != nil {
		return "", err
	}
	elems := make([]string, len(parts))
	for i, part := range parts {
		if elems[i], err = canonicalType(part); err != nil {
			return "", err
		}
	}
	return "(" + strings.Join(elems, ",") + ")" + suffix, nil
}

// validArraySuffix accepts the empty string or any chain of "[]" and "[N]".
func validArraySuffix(s string) bool {
	for len(s) > 0 {
		if s[0] != '[' {
			return false
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return false
		}
		for _, c := range s[1:end] {
			if c < '0' || c > '9' {
				return false
			}
		}
		s = s[end+1:]
	}
	return true
}

// splitTopLevel splits a comma separated type list without descending into
// tuple parentheses.
func splitTopLevel(s string) ([]string, error) {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	return append(parts, s[start:]), nil
}
