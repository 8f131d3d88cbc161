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

package supervisor

import (
	"github.com/sabouaram/logship/logdesc"
	"github.com/sabouaram/logship/transport"
)

// fanout presents several Transports as one, broadcasting every Send to
// each of them (SPEC_FULL.md §7's "a log may be associated with more than
// one destination" supplement). It owns none of the Transports: they are
// shared with other descriptors via the Supervisor's dedup map, so Close
// on a fanout does nothing - the Supervisor closes each underlying
// Transport exactly once.
type fanout struct {
	members []transport.Transport
}

func newFanout(members []transport.Transport) transport.Transport {
	if len(members) == 1 {
		return members[0]
	}
	return &fanout{members: members}
}

// Send broadcasts frame to every member. A Frame is immutable once built,
// so handing the same backing array to N independent Transport queues is
// safe.
func (f *fanout) Send(frame logdesc.Frame) {
	for _, m := range f.members {
		m.Send(frame)
	}
}

// State reports the worst member state: Closed beats any live state, and
// otherwise the first non-Connected state found wins, so a caller polling
// State sees "not fully up" until every member is connected.
func (f *fanout) State() transport.State {
	best := transport.StateConnected
	for _, m := range f.members {
		switch s := m.State(); s {
		case transport.StateClosed:
			return transport.StateClosed
		case transport.StateConnected:
			// no-op, already the optimistic default
		default:
			if best == transport.StateConnected {
				best = s
			}
		}
	}
	return best
}

// Close is a no-op: members are owned and closed by the Supervisor that
// built this fanout, since they may also be referenced directly by other
// descriptors.
func (f *fanout) Close() {}

var _ transport.Transport = (*fanout)(nil)
