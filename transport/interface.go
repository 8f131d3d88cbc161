/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package transport

import "github.com/sabouaram/logship/logdesc"

// State is the per-Transport connection state machine (spec §4.3).
type State uint8

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateSending
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateSending:
		return "sending"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Transport is the public contract a Follower holds a non-owning
// reference to. Send never blocks and never fails visibly (spec §4.3).
type Transport interface {
	// Send enqueues frame at the tail of the pending queue. On overflow the
	// current head is discarded and the new frame is retried once, so the
	// frame is always admitted.
	Send(frame logdesc.Frame)

	// State reports the current connection state, for observability.
	State() State

	// Close signals shutdown; the background sender drains what it can
	// within a short bounded grace, then closes the socket. Close is
	// idempotent.
	Close()
}
