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

package frame

import "github.com/sabouaram/logship/logdesc"

// Meta carries the per-log metadata a Formatter needs to render a Frame:
// the framing token, the local hostname and the reporting application
// name. MsgID defaults to "-" when empty, per RFC 5424 convention.
type Meta struct {
	Token    string
	Hostname string
	Appname  string
	MsgID    string
}

// Formatter maps one Line plus Meta to zero or more Frames. Implementations
// must be pure and safe for concurrent use: the same (line, meta) pair
// always yields the same frames, modulo the current-time timestamp that
// Syslog embeds.
type Formatter interface {
	// Format splits line on embedded newlines, drops empty segments, and
	// renders each remaining segment as one Frame. Empty input yields a
	// nil/empty slice.
	Format(line logdesc.Line, meta Meta) []logdesc.Frame
}
