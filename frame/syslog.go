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

import (
	"bytes"
	"time"

	"github.com/sabouaram/logship/logdesc"
)

// syslogTimeLayout renders UTC time with microsecond precision, a "T"
// date/time separator and no trailing zone offset; the "Z" suffix is
// appended separately since Go's reference layout has no bare-Z verb for
// a Zulu offset paired with fractional seconds.
const syslogTimeLayout = "2006-01-02T15:04:05.000000"

// Now is overridable in tests to pin the rendered timestamp.
var Now = time.Now

// Syslog is the RFC-5424-shaped Formatter:
// `<token><14>1 <ts>Z <hostname> <appname> - <msgid> - hostname=<hostname> appname=<appname> <line>\n`
type Syslog struct{}

// NewSyslog returns a ready-to-use Syslog formatter.
func NewSyslog() Syslog {
	return Syslog{}
}

func (Syslog) Format(line logdesc.Line, meta Meta) []logdesc.Frame {
	segs := segments(line)
	if len(segs) == 0 {
		return nil
	}
	msgID := meta.MsgID
	if msgID == "" {
		msgID = "-"
	}
	out := make([]logdesc.Frame, 0, len(segs))
	for _, seg := range segs {
		ts := Now().UTC().Format(syslogTimeLayout)
		var buf bytes.Buffer
		buf.WriteString(meta.Token)
		buf.WriteString("<14>1 ")
		buf.WriteString(ts)
		buf.WriteByte('Z')
		buf.WriteByte(' ')
		buf.WriteString(meta.Hostname)
		buf.WriteByte(' ')
		buf.WriteString(meta.Appname)
		buf.WriteString(" - ")
		buf.WriteString(msgID)
		buf.WriteString(" - hostname=")
		buf.WriteString(meta.Hostname)
		buf.WriteString(" appname=")
		buf.WriteString(meta.Appname)
		buf.WriteByte(' ')
		buf.Write(seg)
		buf.WriteByte('\n')
		out = append(out, logdesc.Frame(buf.Bytes()))
	}
	return out
}

var _ Formatter = Syslog{}
