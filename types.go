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

package web3go

import (
	"math/big"

	"github.com/web3go/web3go/common"
	"github.com/web3go/web3go/common/hexutil"
)

// Header represents a block header as returned by the eth_getBlockBy*
// endpoints. Only fields that are present in every post-merge block are
// mandatory, the rest are pointers that stay nil when the server omits them.
type Header struct {
	Hash        common.Hash    `json:"hash"`
	ParentHash  common.Hash    `json:"parentHash"`
	Coinbase    common.Address `json:"miner"`
	Root        common.Hash    `json:"stateRoot"`
	TxHash      common.Hash    `json:"transactionsRoot"`
	ReceiptHash common.Hash    `json:"receiptsRoot"`
	Number      *hexutil.Big   `json:"number"`
	GasLimit    hexutil.Uint64 `json:"gasLimit"`
	GasUsed     hexutil.Uint64 `json:"gasUsed"`
	Time        hexutil.Uint64 `json:"timestamp"`
	Extra       hexutil.Bytes  `json:"extraData"`
	BaseFee     *hexutil.U256  `json:"baseFeePerGas,omitempty"`
}

// Block is a header together with the hashes of the transactions included in
// it. Full transaction bodies are not fetched, callers interested in a
// particular transaction follow up with a receipt query.
type Block struct {
	Header
	Transactions []common.Hash `json:"transactions"`
}

// Log represents a contract log event.
type Log struct {
	Address     common.Address `json:"address"`
	Topics      []common.Hash  `json:"topics"`
	Data        hexutil.Bytes  `json:"data"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
	TxHash      common.Hash    `json:"transactionHash"`
	TxIndex     hexutil.Uint   `json:"transactionIndex"`
	BlockHash   common.Hash    `json:"blockHash"`
	Index       hexutil.Uint   `json:"logIndex"`
	Removed     bool           `json:"removed"`
}

// Receipt represents the results of a transaction.
type Receipt struct {
	Status            hexutil.Uint64 `json:"status"`
	CumulativeGasUsed hexutil.Uint64 `json:"cumulativeGasUsed"`
	Logs              []*Log         `json:"logs"`
	TxHash            common.Hash    `json:"transactionHash"`
	ContractAddress   common.Address `json:"contractAddress"`
	GasUsed           hexutil.Uint64 `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big   `json:"effectiveGasPrice,omitempty"`
	BlockHash         common.Hash    `json:"blockHash"`
	BlockNumber       *hexutil.Big   `json:"blockNumber"`
	TransactionIndex  hexutil.Uint   `json:"transactionIndex"`
}

// Succeeded reports whether the transaction was executed without reverting.
func (r *Receipt) Succeeded() bool {
	return r.Status == 1
}

// UnsignedTx carries the fields of a legacy transaction that still need a
// signature. Signing and RLP encoding are delegated to the caller, the
// library only assembles the fields and broadcasts the signed blob.
type UnsignedTx struct {
	To       *common.Address
	Nonce    uint64
	Value    *big.Int
	Gas      uint64
	GasPrice *big.Int
	Data     []byte
	ChainID  *big.Int
}

// BlockNumber returns the receipt's block number or nil when the receipt is
// still pending.
func (r *Receipt) Number() *big.Int {
	if r.BlockNumber == nil {
		return nil
	}
	return (*big.Int)(r.BlockNumber)
}
