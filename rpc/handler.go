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
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
)

// handler routes inbound messages for one connection. It keeps the table of
// pending calls (keyed by request id) and the table of active subscriptions
// (keyed by subscription id).
//
// All handler methods are called from the client's dispatch goroutine, which
// is the single writer of both tables. Callers interact with the tables only
// through the dispatch channels.
type handler struct {
	conn       Codec
	respWait   map[string]*requestOp          // active client requests
	clientSubs map[string]*ClientSubscription // active client subscriptions
	log        *logrus.Entry
}

func newHandler(conn Codec) *handler {
	h := &handler{
		conn:       conn,
		respWait:   make(map[string]*requestOp),
		clientSubs: make(map[string]*ClientSubscription),
		log:        logrus.WithField("module", "rpc"),
	}
	if conn.remoteAddr() != "" {
		h.log = h.log.WithField("conn", conn.remoteAddr())
	}
	return h
}

// addRequestOp registers a request operation.
func (h *handler) addRequestOp(op *requestOp) {
	h.respWait[string(op.id)] = op
}

// removeRequestOp stops waiting for the given request id.
func (h *handler) removeRequestOp(op *requestOp) {
	delete(h.respWait, string(op.id))
}

// close cancels all pending requests and active subscriptions. Every pending
// caller observes err; no slot is left dangling.
func (h *handler) close(err error, inflightReq *requestOp) {
	h.cancelAllRequests(err, inflightReq)
}

// cancelAllRequests unblocks and removes pending requests and active subscriptions.
func (h *handler) cancelAllRequests(err error, inflightReq *requestOp) {
	didClose := make(map[*requestOp]bool)
	if inflightReq != nil {
		didClose[inflightReq] = true
	}

	for id, op := range h.respWait {
		// Remove the op so that later calls will not close op.resp again.
		delete(h.respWait, id)

		if !didClose[op] {
			op.err = err
			close(op.resp)
			didClose[op] = true
		}
	}
	for id, sub := range h.clientSubs {
		delete(h.clientSubs, id)
		sub.close(err)
	}
}

// handleResponses processes the messages of one inbound frame, strictly in
// arrival order. Subscription notifications are routed by subscription id,
// responses by request id; anything else is logged and dropped so one
// malformed message never affects other in-flight calls.
func (h *handler) handleResponses(msgs []*jsonrpcMessage) {
	for _, msg := range msgs {
		switch {
		case msg.isNotification():
			if strings.HasSuffix(msg.Method, notificationMethodSuffix) {
				h.handleSubscriptionResult(msg)
				continue
			}
			h.log.WithField("method", msg.Method).Debug("Dropping non-subscription notification")

		case msg.isResponse():
			h.handleResponse(msg)

		default:
			h.log.WithField("msg", msg.String()).Debug("Dropping unroutable message")
		}
	}
}

// handleResponse resolves the pending call waiting for msg's id.
func (h *handler) handleResponse(msg *jsonrpcMessage) {
	op := h.respWait[string(msg.ID)]
	if op == nil {
		h.log.WithField("reqid", string(msg.ID)).Debug("Unsolicited RPC response")
		return
	}
	delete(h.respWait, string(msg.ID))

	// For subscription responses, start the subscription if the server
	// indicates success. Subscribe gets unblocked in either case through
	// the op.resp channel.
	if op.sub != nil {
		if msg.Error != nil {
			op.err = msg.Error
		} else {
			op.err = json.Unmarshal(msg.Result, &op.sub.subid)
			if op.err == nil && op.sub.subid == "" {
				op.err = ErrSubscriptionNotEstablished
			}
			if op.err == nil {
				go op.sub.run()
				h.clientSubs[op.sub.subid] = op.sub
			}
		}
	}
	op.resp <- msg
}

// handleSubscriptionResult routes a subscription notification to its queue.
// Notifications for unknown ids are expected after an unsubscribe race and
// are dropped without error.
func (h *handler) handleSubscriptionResult(msg *jsonrpcMessage) {
	var result subscriptionResult
	if err := json.Unmarshal(msg.Params, &result); err != nil {
		h.log.Debug("Dropping invalid subscription message")
		return
	}
	if sub := h.clientSubs[result.ID]; sub != nil {
		// deliver reports false once the forwarding loop has stopped; late
		// notifications after an unsubscribe are dropped here, never misrouted.
		if !sub.deliver(result.Result) {
			delete(h.clientSubs, result.ID)
		}
	}
}
