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

import (
	"time"

	"github.com/sabouaram/logship/internal/xlog"
	"github.com/sabouaram/logship/logdesc"
)

// errRateWindow matches spec §7's "rate-limited once per minute" for
// FilterError.
const errRateWindow = time.Minute

// SafeApply calls fn and recovers a panic, treating it as a drop
// (spec §7 FilterError: "the offending line is dropped; error logged once
// per follower per minute"). limiter is owned by the caller (one per
// Follower) so the rate limit is per-follower, not global.
func SafeApply(fn Func, line logdesc.Line, limiter *xlog.Limiter, logComponent string) (out logdesc.Line, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if limiter.Allow() {
				xlog.For(logComponent).WithField("panic", r).Warn("filter panicked, line dropped")
			}
		}
	}()
	return fn(line)
}
