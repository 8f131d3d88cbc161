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

package follower

import (
	"github.com/sabouaram/logship/config"
	"github.com/sabouaram/logship/filter"
	"github.com/sabouaram/logship/frame"
	"github.com/sabouaram/logship/transport"
)

// Config configures one Follower. Shutdown, when closed, tells the
// worker's Run loop to exit at its next check boundary (spec §4.4
// Termination).
type Config struct {
	Name        string
	PathPattern string

	Filter    filter.Func
	Formatter frame.Formatter
	Meta      frame.Meta

	Transport transport.Transport
	Tunables  config.Tunables

	// Watch, when true, lets the idle sleep wake early on an fsnotify event
	// for the glob's directory. Purely a latency optimization: the poll
	// loop and its invariants are unchanged whether or not this fires.
	Watch bool

	Shutdown <-chan struct{}
}
