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

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSubscription(t *testing.T) {
	unsubscribed := make(chan struct{})
	client, srv := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		switch {
		case strings.HasSuffix(msg.Method, subscribeMethodSuffix):
			return respondTo(msg, "0xcafe")
		case strings.HasSuffix(msg.Method, unsubscribeMethodSuffix):
			close(unsubscribed)
			return respondTo(msg, true)
		}
		return nil
	})

	ch := make(chan int, 8)
	sub, err := client.EthSubscribe(context.Background(), ch, "newCounts")
	require.NoError(t, err)
	require.Equal(t, "0xcafe", sub.ID())

	for i := 1; i <= 3; i++ {
		srv.notify(t, "eth"+notificationMethodSuffix, subscriptionResult{ID: "0xcafe", Result: json.RawMessage(strconv.Itoa(i))})
	}
	for i := 1; i <= 3; i++ {
		select {
		case got := <-ch:
			assert.Equal(t, i, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timeout waiting for notification %d", i)
		}
	}

	sub.Unsubscribe()
	select {
	case <-unsubscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the unsubscribe request")
	}
	// Err is closed without a value after a clean unsubscribe.
	err, ok := <-sub.Err()
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestClientSubscriptionLatePush(t *testing.T) {
	unsubscribed := make(chan struct{})
	client, srv := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		switch {
		case strings.HasSuffix(msg.Method, subscribeMethodSuffix):
			return respondTo(msg, "0xdead")
		case strings.HasSuffix(msg.Method, unsubscribeMethodSuffix):
			close(unsubscribed)
			return respondTo(msg, true)
		}
		return respondTo(msg, true)
	})

	ch := make(chan int, 8)
	sub, err := client.EthSubscribe(context.Background(), ch, "newCounts")
	require.NoError(t, err)

	sub.Unsubscribe()
	select {
	case <-unsubscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the unsubscribe request")
	}

	// A push for the dead id is dropped, it neither reaches the channel nor
	// disturbs the connection.
	srv.notify(t, "eth"+notificationMethodSuffix, subscriptionResult{ID: "0xdead", Result: json.RawMessage("1")})
	var pong bool
	require.NoError(t, client.Call(&pong, "test_ping"))
	select {
	case got := <-ch:
		t.Fatalf("received notification %d after unsubscribe", got)
	default:
	}
	err, ok := <-sub.Err()
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestClientSubscriptionNotEstablished(t *testing.T) {
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return respondTo(msg, "") // empty subscription id
	})

	ch := make(chan int)
	_, err := client.EthSubscribe(context.Background(), ch, "newCounts")
	require.ErrorIs(t, err, ErrSubscriptionNotEstablished)
}

func TestClientSubscriptionDroppedOnDisconnect(t *testing.T) {
	client, srv := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		if strings.HasSuffix(msg.Method, subscribeMethodSuffix) {
			return respondTo(msg, "0xbeef")
		}
		return nil
	})

	ch := make(chan int, 1)
	sub, err := client.EthSubscribe(context.Background(), ch, "newCounts")
	require.NoError(t, err)

	srv.codec.close()
	select {
	case err := <-sub.Err():
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription error channel silent after disconnect")
	}
	_ = client
}

func TestClientSubscribeChannelArg(t *testing.T) {
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return respondTo(msg, "0x01")
	})

	assert.Panics(t, func() {
		client.EthSubscribe(context.Background(), "not a channel", "newCounts")
	})
	assert.Panics(t, func() {
		ch := make(<-chan int)
		client.EthSubscribe(context.Background(), ch, "newCounts")
	})
}
