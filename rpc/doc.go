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

/*
Package rpc implements a JSON-RPC 2.0 client over a persistent bidirectional
connection.

One Client owns one connection and one background read loop. Any number of
goroutines may perform calls concurrently; each call is correlated to its
response strictly by request id, so responses arriving out of order resolve
the right caller. A caller that abandons a call through its context
deregisters the pending entry; a resolution arriving afterwards is dropped.

Two transports are supported: websocket (message-oriented, one send or
receive per frame) and unix domain sockets (byte stream, newline-delimited
JSON messages).

# Subscriptions

Subscribe registers a subscription with the server and routes every matching
push notification into the given channel until Unsubscribe is called or the
connection fails. A stalled consumer does not stall the connection: up to
20000 notifications are buffered per subscription, after which the
subscription ends with ErrSubscriptionQueueOverflow.

When the connection is lost, every pending call fails with the read error and
every subscription's Err channel receives it; nothing blocks forever.
*/
package rpc
