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
	"net/url"
	"reflect"
	"strconv"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Client represents a connection to an RPC server. One Client owns exactly one
// connection and one read loop; any number of goroutines may submit calls and
// subscriptions concurrently.
type Client struct {
	idCounter atomic.Uint64

	log *logrus.Entry

	// writeConn is used for writing to the connection on the caller's goroutine. It
	// should only be accessed outside of dispatch, with the write lock held. The write
	// lock is taken by sending on reqInit and released by sending on reqSent.
	writeConn Codec

	// for dispatch
	close      chan struct{}
	closing    chan struct{}   // closed when client is quitting
	didClose   chan struct{}   // closed when client quits
	readOp     chan readOp     // read messages
	readErr    chan error      // errors from read
	reqInit    chan *requestOp // register response IDs, takes write lock
	reqSent    chan error      // signals write completion, releases write lock
	reqTimeout chan *requestOp // removes response IDs when call timeout expires
}

type readOp struct {
	msgs []*jsonrpcMessage
}

// requestOp represents a pending call. Its id maps to exactly one slot in the
// handler's table; it is resolved exactly once, either by the read loop or by
// connection teardown.
type requestOp struct {
	id   json.RawMessage
	err  error
	resp chan *jsonrpcMessage // the response goes here
	sub  *ClientSubscription  // set for Subscribe requests
}

func (op *requestOp) wait(ctx context.Context, c *Client) (*jsonrpcMessage, error) {
	select {
	case <-ctx.Done():
		// Send the timeout to dispatch so it can remove the request id. An
		// abandoned call must not leak its pending slot; a late response is
		// dropped harmlessly by dispatch.
		select {
		case c.reqTimeout <- op:
		case <-c.closing:
		}
		return nil, ctx.Err()
	case resp, ok := <-op.resp:
		if !ok {
			// Dispatch closed the channel: the connection is gone and op.err
			// carries the transport error shared by every pending call.
			return nil, op.err
		}
		return resp, op.err
	}
}

// Dial creates a new client for the given URL.
//
// The currently supported URL schemes are "ws" and "wss". If rawurl is a file name
// with no URL scheme, a local socket connection is established using UNIX domain
// sockets. If you want to further configure the transport, use DialOptions instead.
//
// For websocket connections, the origin is set to the local host name.
func Dial(rawurl string) (*Client, error) {
	return DialOptions(context.Background(), rawurl)
}

// DialContext creates a new RPC client, just like Dial.
//
// The context is used to cancel or time out the initial connection establishment. It does
// not affect subsequent interactions with the client.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	return DialOptions(ctx, rawurl)
}

// DialOptions creates a new RPC client for the given URL. You can supply any of the
// pre-defined client options to configure the underlying transport.
func DialOptions(ctx context.Context, rawurl string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}

	cfg := new(clientConfig)
	for _, opt := range options {
		opt.applyOption(cfg)
	}

	switch u.Scheme {
	case "ws", "wss":
		return dialWebsocket(ctx, rawurl, cfg)
	case "":
		return DialIPC(ctx, rawurl)
	default:
		return nil, fmt.Errorf("no known transport for URL scheme %q", u.Scheme)
	}
}

// NewClient creates a client on the given byte-stream connection. Messages are
// newline-delimited JSON, as on an IPC socket.
func NewClient(conn Conn) *Client {
	return newClient(NewCodec(conn))
}

func newClient(conn Codec) *Client {
	c := &Client{
		log:        logrus.WithField("module", "rpc"),
		writeConn:  conn,
		close:      make(chan struct{}),
		closing:    make(chan struct{}),
		didClose:   make(chan struct{}),
		readOp:     make(chan readOp),
		readErr:    make(chan error),
		reqInit:    make(chan *requestOp),
		reqSent:    make(chan error, 1),
		reqTimeout: make(chan *requestOp),
	}
	go c.dispatch(conn)
	return c
}

// Close closes the client, aborting any in-flight requests.
func (c *Client) Close() {
	select {
	case c.close <- struct{}{}:
		<-c.didClose
	case <-c.didClose:
	}
}

// Call performs a JSON-RPC call with the given arguments and unmarshals into
// result if no error occurred.
//
// The result must be a pointer so that package json can unmarshal into it. You
// can also pass nil, in which case the result is ignored.
func (c *Client) Call(result interface{}, method string, args ...interface{}) error {
	return c.CallContext(context.Background(), result, method, args...)
}

// CallContext performs a JSON-RPC call with the given arguments. If the context is
// canceled before the call has successfully returned, CallContext returns immediately.
//
// The result must be a pointer so that package json can unmarshal into it. You
// can also pass nil, in which case the result is ignored.
func (c *Client) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if result != nil && reflect.TypeOf(result).Kind() != reflect.Ptr {
		return fmt.Errorf("call result parameter must be pointer or nil interface: %v", result)
	}
	msg, err := c.newMessage(method, args...)
	if err != nil {
		return err
	}
	op := &requestOp{
		id:   msg.ID,
		resp: make(chan *jsonrpcMessage, 1),
	}

	if err := c.send(ctx, op, msg); err != nil {
		return err
	}

	// dispatch has accepted the request and will close the channel when it quits.
	resp, err := op.wait(ctx, c)
	if err != nil {
		return err
	}
	switch {
	case resp.Error != nil:
		return resp.Error
	case len(resp.Result) == 0:
		return ErrNoResult
	default:
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%w: %v", ErrBadResult, err)
		}
		return nil
	}
}

// EthSubscribe registers a subscription under the "eth" namespace.
func (c *Client) EthSubscribe(ctx context.Context, channel interface{}, args ...interface{}) (*ClientSubscription, error) {
	return c.Subscribe(ctx, "eth", channel, args...)
}

// Subscribe calls the "<namespace>_subscribe" method with the given arguments,
// registering a subscription. Server notifications for the subscription are
// sent to the given channel. The element type of the channel must match the
// expected type of content returned by the subscription.
//
// The context argument cancels the RPC request that sets up the subscription but has no
// effect on the subscription after Subscribe has returned.
//
// Slow subscribers will be dropped eventually. Client buffers up to 20000 notifications
// before considering the subscriber dead. The subscription Err channel will receive
// ErrSubscriptionQueueOverflow. Use a sufficiently large channel on the subscriber side
// or drain the channel fast enough to avoid this issue.
func (c *Client) Subscribe(ctx context.Context, namespace string, channel interface{}, args ...interface{}) (*ClientSubscription, error) {
	// Check type of channel first.
	chanVal := reflect.ValueOf(channel)
	if chanVal.Kind() != reflect.Chan || chanVal.Type().ChanDir()&reflect.SendDir == 0 {
		panic(errors.New("first argument to Subscribe must be a writable channel"))
	}
	if chanVal.IsNil() {
		panic(errors.New("channel given to Subscribe must not be nil"))
	}

	msg, err := c.newMessage(namespace+subscribeMethodSuffix, args...)
	if err != nil {
		return nil, err
	}
	op := &requestOp{
		id:   msg.ID,
		resp: make(chan *jsonrpcMessage, 1),
		sub:  newClientSubscription(c, namespace, chanVal),
	}

	// Send the subscription request.
	// The arrival and validity of the response is signaled on sub.quit.
	if err := c.send(ctx, op, msg); err != nil {
		return nil, err
	}
	if _, err := op.wait(ctx, c); err != nil {
		return nil, err
	}
	return op.sub, nil
}

func (c *Client) newMessage(method string, paramsIn ...interface{}) (*jsonrpcMessage, error) {
	msg := &jsonrpcMessage{Version: vsn, ID: c.nextID(), Method: method}
	if paramsIn != nil { // prevent sending "params":null
		var err error
		if msg.Params, err = json.Marshal(paramsIn); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// nextID allocates the next request id. Ids increase monotonically and are
// never reused within the lifetime of the connection.
func (c *Client) nextID() json.RawMessage {
	id := c.idCounter.Add(1)
	return strconv.AppendUint(nil, id, 10)
}

// send registers op with the dispatch loop, then sends msg on the connection.
// If sending fails, op is deregistered.
func (c *Client) send(ctx context.Context, op *requestOp, msg interface{}) error {
	select {
	case c.reqInit <- op:
		err := c.write(ctx, msg)
		c.reqSent <- err
		return err
	case <-ctx.Done():
		// This can happen if the client is overloaded or unable to keep up with
		// subscription notifications.
		return ctx.Err()
	case <-c.closing:
		return ErrClientQuit
	}
}

func (c *Client) write(ctx context.Context, msg interface{}) error {
	return c.writeConn.writeJSON(ctx, msg)
}

// dispatch is the main loop of the client.
// It routes read messages to waiting calls and subscription
// notifications to registered subscriptions.
func (c *Client) dispatch(codec Codec) {
	var (
		lastOp      *requestOp // tracks last send operation
		reqInitLock = c.reqInit // nil while the send lock is held
		reading     = true
		h           = newHandler(codec)
	)
	defer func() {
		close(c.closing)
		if reading {
			codec.close()
			c.drainRead()
		}
		close(c.didClose)
	}()

	// Spawn the initial read loop.
	go c.read(codec)

	for {
		select {
		case <-c.close:
			h.close(ErrClientQuit, nil)
			codec.close()
			return

		// Read path:
		case op := <-c.readOp:
			h.handleResponses(op.msgs)

		case err := <-c.readErr:
			// Transport failure is the only condition that terminates the
			// loop. Every pending call observes the same error; no caller is
			// left hanging and no subscription queue stays open.
			h.log.WithError(err).Debug("RPC connection read error")
			h.close(err, lastOp)
			codec.close()
			reading = false
			return

		// Send path:
		case op := <-reqInitLock:
			// Stop listening for further requests until the current one has been sent.
			reqInitLock = nil
			lastOp = op
			h.addRequestOp(op)

		case err := <-c.reqSent:
			if err != nil {
				// Remove response handlers for the last send. When the read
				// loop goes down, it will signal all other current operations.
				h.removeRequestOp(lastOp)
			}
			// Let the next request in.
			reqInitLock = c.reqInit
			lastOp = nil

		case op := <-c.reqTimeout:
			h.removeRequestOp(op)
		}
	}
}

// drainRead drops read messages until an error occurs.
func (c *Client) drainRead() {
	for {
		select {
		case <-c.readOp:
		case <-c.readErr:
			return
		}
	}
}

// read decodes RPC messages from a codec, feeding them into dispatch. This is
// the only goroutine that receives on the connection.
func (c *Client) read(codec Codec) {
	for {
		msgs, err := codec.readBatch()
		if err != nil {
			c.readErr <- err
			return
		}
		c.readOp <- readOp{msgs}
	}
}
