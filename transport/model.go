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
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sabouaram/logship/internal/errclass"
	"github.com/sabouaram/logship/internal/xlog"
	"github.com/sabouaram/logship/logdesc"
)

const (
	defaultQueueSize    = 32000
	defaultDialTimeout  = 10 * time.Second
	defaultReconnectMin = 1 * time.Second
	defaultReconnectMax = 10 * time.Second

	// closeGrace bounds how long the sender keeps draining the queue after
	// Close once it holds a live connection (spec §4.3 shutdown ordering).
	closeGrace = 1500 * time.Millisecond
	popWait    = 500 * time.Millisecond
)

type worker struct {
	cfg   Config
	queue *dropHeadQueue

	state    atomic.Int32
	closing  chan struct{}
	closeErr sync.Once
	done     chan struct{}

	certLimiter *xlog.Limiter
	netLimiter  *xlog.Limiter
}

// New builds a Transport that owns a background sender goroutine; the
// goroutine is started immediately and keeps dialing cfg.Endpoint until
// Close is called.
func New(cfg Config) Transport {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.ReconnectMin <= 0 {
		cfg.ReconnectMin = defaultReconnectMin
	}
	if cfg.ReconnectMax <= 0 {
		cfg.ReconnectMax = defaultReconnectMax
	}
	if cfg.ReconnectMax < cfg.ReconnectMin {
		cfg.ReconnectMax = cfg.ReconnectMin
	}

	w := &worker{
		cfg:         cfg,
		queue:       newDropHeadQueue(cfg.QueueSize),
		closing:     make(chan struct{}),
		done:        make(chan struct{}),
		certLimiter: xlog.NewLimiter(time.Minute),
		netLimiter:  xlog.NewLimiter(time.Minute),
	}
	w.setState(StateDisconnected)
	go w.run()
	return w
}

func (w *worker) Send(frame logdesc.Frame) {
	w.queue.push(frame)
}

func (w *worker) State() State {
	return State(w.state.Load())
}

func (w *worker) Close() {
	w.closeErr.Do(func() { close(w.closing) })
	<-w.done
}

func (w *worker) setState(s State) {
	w.state.Store(int32(s))
}

func (w *worker) isClosing() bool {
	select {
	case <-w.closing:
		return true
	default:
		return false
	}
}

func (w *worker) log() *logrus.Entry {
	return xlog.For("transport." + w.cfg.Name)
}

// run is the background sender loop (spec §4.3): dial, write the preamble
// once, then drain the queue in order. A write failure keeps the current
// frame pending so it is retried, unconsumed, against the next connection.
func (w *worker) run() {
	defer close(w.done)
	defer w.setState(StateClosed)

	var pending logdesc.Frame
	backoff := w.cfg.ReconnectMin

	for {
		if w.isClosing() && pending == nil && w.queue.len() == 0 {
			return
		}

		w.setState(StateConnecting)
		conn, err := connect(context.Background(), w.cfg)
		if err != nil {
			w.logDialError(err)
			w.setState(StateDisconnected)
			if w.isClosing() {
				return
			}
			w.sleepBackoff(&backoff)
			continue
		}

		if !w.runConnection(conn, &pending, &backoff) {
			return
		}
	}
}

// runConnection drives one live connection: writes the preamble, then
// drains frames until the write fails, the queue empties under shutdown,
// or the grace window after Close elapses. It returns false once the
// worker should stop entirely.
func (w *worker) runConnection(conn net.Conn, pending *logdesc.Frame, backoff *time.Duration) bool {
	w.setState(StateConnected)

	if pre := w.preamble(); len(pre) > 0 {
		if _, err := conn.Write(pre); err != nil {
			_ = conn.Close()
			return true
		}
	}

	var grace time.Time
	for {
		if *pending == nil {
			if w.isClosing() {
				if grace.IsZero() {
					grace = time.Now().Add(closeGrace)
				}
				if w.queue.len() == 0 || time.Now().After(grace) {
					_ = conn.Close()
					return false
				}
			}
			f, ok := w.queue.pop(popWait)
			if !ok {
				continue
			}
			*pending = f
		}

		w.setState(StateSending)
		if _, err := conn.Write(*pending); err != nil {
			w.logWriteError(err)
			_ = conn.Close()
			w.setState(StateDisconnected)
			*backoff = w.cfg.ReconnectMin
			return true
		}
		*pending = nil
		*backoff = w.cfg.ReconnectMin
		w.setState(StateConnected)
	}
}

func (w *worker) preamble() []byte {
	if w.cfg.PreambleFunc == nil {
		return nil
	}
	return w.cfg.PreambleFunc()
}

func (w *worker) sleepBackoff(backoff *time.Duration) {
	select {
	case <-time.After(*backoff):
	case <-w.closing:
	}
	*backoff *= 2
	if *backoff > w.cfg.ReconnectMax {
		*backoff = w.cfg.ReconnectMax
	}
}

func (w *worker) logDialError(err error) {
	if errclass.Classify(err) == errclass.CertificateValidation {
		if w.certLimiter.Allow() {
			w.log().WithError(err).Warn("certificate validation failed")
		}
		return
	}
	if w.netLimiter.Allow() {
		w.log().WithError(err).Warn("connection attempt failed")
	}
}

func (w *worker) logWriteError(err error) {
	if w.netLimiter.Allow() {
		w.log().WithError(err).Warn("write to server failed, will reconnect")
	}
}
