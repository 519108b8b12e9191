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

package rpc

import "errors"

var (
	// ErrClientQuit is reported to pending calls and active subscriptions when
	// Close is called on the client. It is also returned by calls submitted
	// after the connection has been torn down.
	ErrClientQuit = errors.New("client is closed")

	// ErrNoResult is returned when a JSON-RPC response carries neither a result
	// nor an error.
	ErrNoResult = errors.New("JSON-RPC response has no result")

	// ErrBadResult is returned when a response cannot be unmarshaled into the
	// caller's result value.
	ErrBadResult = errors.New("bad result in JSON-RPC response")

	// ErrSubscriptionQueueOverflow is reported on a subscription's error
	// channel when the consumer cannot keep up and the internal buffer has
	// filled up. The subscription is terminated; create a new one to resume.
	ErrSubscriptionQueueOverflow = errors.New("subscription queue overflow")

	// ErrSubscriptionNotEstablished is returned by Subscribe when the server
	// response does not contain a subscription id.
	ErrSubscriptionNotEstablished = errors.New("subscription not established")
)

// Error wraps RPC errors, which contain an error code in addition to the message.
type Error interface {
	error
	// ErrorCode returns the JSON-RPC error code.
	ErrorCode() int
}

// A DataError contains some data in addition to the error message.
type DataError interface {
	error
	// ErrorData returns the error data.
	ErrorData() interface{}
}
