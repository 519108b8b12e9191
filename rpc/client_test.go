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
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// testServer is a scripted JSON-RPC peer on the far end of a net.Pipe. The
// handle callback receives every incoming request and returns zero or more
// messages to write back. Notifications can be injected at any time with
// notify.
type testServer struct {
	codec Codec
	done  chan struct{}
}

func newTestServer(t *testing.T, handle func(msg *jsonrpcMessage) []*jsonrpcMessage) (*Client, *testServer) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	srv := &testServer{
		codec: NewCodec(serverConn),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(srv.done)
		for {
			msgs, err := srv.codec.readBatch()
			if err != nil {
				return
			}
			for _, msg := range msgs {
				for _, resp := range handle(msg) {
					if err := srv.codec.writeJSON(context.Background(), resp); err != nil {
						return
					}
				}
			}
		}
	}()

	client := NewClient(clientConn)
	t.Cleanup(func() {
		client.Close()
		srv.codec.close()
		<-srv.done
	})
	return client, srv
}

func (s *testServer) notify(t *testing.T, method string, params interface{}) {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	msg := &jsonrpcMessage{Version: vsn, Method: method, Params: raw}
	require.NoError(t, s.codec.writeJSON(context.Background(), msg))
}

func respondTo(msg *jsonrpcMessage, result interface{}) []*jsonrpcMessage {
	raw, _ := json.Marshal(result)
	return []*jsonrpcMessage{{Version: vsn, ID: msg.ID, Result: raw}}
}

func TestClientCall(t *testing.T) {
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		if msg.Method != "test_echo" {
			return nil
		}
		var args []string
		json.Unmarshal(msg.Params, &args)
		return respondTo(msg, args[0])
	})

	var result string
	err := client.Call(&result, "test_echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestClientCallNonPointer(t *testing.T) {
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return respondTo(msg, "x")
	})
	var result string
	err := client.Call(result, "test_echo")
	require.Error(t, err)
}

func TestClientResponseOrder(t *testing.T) {
	// Hold back the response to the first request until the second one has
	// arrived, then answer in reverse order. Correlation is by id, so each
	// caller must still get its own result.
	var held *jsonrpcMessage
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		var args []int
		json.Unmarshal(msg.Params, &args)
		if held == nil {
			held = respondTo(msg, args[0]*10)[0]
			return nil
		}
		return append(respondTo(msg, args[0]*10), held)
	})

	var g errgroup.Group
	results := make([]int, 2)
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			return client.Call(&results[i], "test_mul", i+1)
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, []int{10, 20}, results)
}

func TestClientConcurrentCalls(t *testing.T) {
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		var args []int
		json.Unmarshal(msg.Params, &args)
		return respondTo(msg, args[0])
	})

	var g errgroup.Group
	const n = 50
	results := make([]int, n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := client.Call(&results[i], "test_echo", i); err != nil {
				return err
			}
			if results[i] != i {
				return fmt.Errorf("call %d got %d", i, results[i])
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestClientErrorResponse(t *testing.T) {
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return []*jsonrpcMessage{{
			Version: vsn,
			ID:      msg.ID,
			Error:   &jsonError{Code: 3, Message: "execution reverted", Data: "0x08c379a0"},
		}}
	})

	var result string
	err := client.Call(&result, "eth_call")
	require.Error(t, err)
	assert.Equal(t, "execution reverted", err.Error())

	rpcErr, ok := err.(Error)
	require.True(t, ok)
	assert.Equal(t, 3, rpcErr.ErrorCode())

	dataErr, ok := err.(DataError)
	require.True(t, ok)
	assert.Equal(t, "0x08c379a0", dataErr.ErrorData())
}

func TestClientNullResult(t *testing.T) {
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return []*jsonrpcMessage{{Version: vsn, ID: msg.ID, Result: json.RawMessage("null")}}
	})

	var result map[string]interface{}
	err := client.Call(&result, "eth_getBlockByNumber", "0x999999", false)
	require.ErrorIs(t, err, ErrNoResult)
}

func TestClientCancel(t *testing.T) {
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return nil // never answer
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var result string
	err := client.CallContext(ctx, &result, "test_hang")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientClosedByServer(t *testing.T) {
	client, srv := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return nil // never answer
	})

	// A call is in flight when the server drops the connection. It must fail
	// promptly instead of hanging.
	callErr := make(chan error, 1)
	go func() {
		var result string
		callErr <- client.Call(&result, "test_hang")
	}()
	time.Sleep(20 * time.Millisecond)
	srv.codec.close()

	select {
	case err := <-callErr:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call did not fail after disconnect")
	}

	// The client is dead now, later calls fail fast.
	require.Eventually(t, func() bool {
		var result string
		return errors.Is(client.Call(&result, "test_echo"), ErrClientQuit)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientDisconnectFailsAllPending(t *testing.T) {
	client, srv := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return nil // never answer
	})

	// Two calls are in flight when the transport drops. Both must resolve
	// with the connection error, neither may hang.
	callErr := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			var result string
			callErr <- client.Call(&result, "test_hang")
		}()
	}
	time.Sleep(20 * time.Millisecond)
	srv.codec.close()

	for i := 0; i < 2; i++ {
		select {
		case err := <-callErr:
			require.Error(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("pending call did not fail after disconnect")
		}
	}
}

func TestClientCloseUnblocksPending(t *testing.T) {
	client, _ := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return nil // never answer
	})

	callErr := make(chan error, 1)
	go func() {
		var result string
		callErr <- client.Call(&result, "test_hang")
	}()
	time.Sleep(20 * time.Millisecond)
	client.Close()

	select {
	case err := <-callErr:
		require.ErrorIs(t, err, ErrClientQuit)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call did not fail after Close")
	}

	var result string
	require.ErrorIs(t, client.Call(&result, "test_echo"), ErrClientQuit)
}

func TestClientUnknownResponseIgnored(t *testing.T) {
	// A response with an id nobody is waiting for is logged and dropped, the
	// connection stays usable.
	client, srv := newTestServer(t, func(msg *jsonrpcMessage) []*jsonrpcMessage {
		return respondTo(msg, true)
	})
	stray := &jsonrpcMessage{Version: vsn, ID: json.RawMessage("99999"), Result: json.RawMessage(`"stray"`)}
	require.NoError(t, srv.codec.writeJSON(context.Background(), stray))

	var result bool
	require.NoError(t, client.Call(&result, "test_ping"))
	assert.True(t, result)
}
