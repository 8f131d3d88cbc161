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

package filter

import "github.com/sabouaram/logship/logdesc"

// Func is a user-supplied line filter. It returns the (possibly rewritten)
// line and ok=true to keep it, or ok=false to drop it. A panicking Func is
// recovered by the caller and treated as a drop (spec §7 FilterError).
type Func func(line logdesc.Line) (out logdesc.Line, ok bool)

// Identity passes every line through unchanged. It is the default used
// when no user Filter matches a LogDescriptor.
func Identity(line logdesc.Line) (logdesc.Line, bool) {
	return line, true
}

// FilenamePredicate gates whether a log is followed at all. It is
// consulted once at Follower construction (spec §4.2); a negative result
// means the log is never opened.
type FilenamePredicate func(path string) bool

// AcceptAll is the default FilenamePredicate: every path is followed.
func AcceptAll(string) bool {
	return true
}
