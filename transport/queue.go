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

import (
	"sync"
	"time"

	"github.com/sabouaram/logship/logdesc"
)

// dropHeadQueue is the bounded, multi-producer/single-consumer FIFO from
// spec §3/§4.3: capacity frames resident at most, oldest discarded to
// admit the newest on overflow. Backed by a slice-based ring buffer
// instead of a linked structure to avoid a per-frame allocation on the
// hot path.
type dropHeadQueue struct {
	mu       sync.Mutex
	notEmpty chan struct{}

	buf   []logdesc.Frame
	head  int // index of oldest element
	count int
}

func newDropHeadQueue(capacity int) *dropHeadQueue {
	return &dropHeadQueue{
		buf:      make([]logdesc.Frame, capacity),
		notEmpty: make(chan struct{}, 1),
	}
}

// push enqueues frame, dropping the current head once if the queue is
// already full (spec §4.3 "discards the current head and retries once;
// the new frame is guaranteed to be enqueued").
func (q *dropHeadQueue) push(frame logdesc.Frame) {
	q.mu.Lock()
	if q.count == len(q.buf) {
		// drop-head: advance head, shrink count, then fall through to
		// append the new frame in the freed slot.
		q.head = (q.head + 1) % len(q.buf)
		q.count--
	}
	idx := (q.head + q.count) % len(q.buf)
	q.buf[idx] = frame
	q.count++
	q.mu.Unlock()

	select {
	case q.notEmpty <- struct{}{}:
	default:
	}
}

// pop waits up to timeout for a frame, returning ok=false on timeout.
func (q *dropHeadQueue) pop(timeout time.Duration) (logdesc.Frame, bool) {
	if f, ok := q.tryPop(); ok {
		return f, true
	}
	select {
	case <-q.notEmpty:
		return q.tryPop()
	case <-time.After(timeout):
		return nil, false
	}
}

func (q *dropHeadQueue) tryPop() (logdesc.Frame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return nil, false
	}
	f := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return f, true
}

func (q *dropHeadQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}
