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

	"github.com/sabouaram/logship/logdesc"
)

// Plain is the "token" Formatter: `<token><line>\n`.
type Plain struct{}

// NewPlain returns a ready-to-use Plain formatter. It carries no state.
func NewPlain() Plain {
	return Plain{}
}

func (Plain) Format(line logdesc.Line, meta Meta) []logdesc.Frame {
	segs := segments(line)
	if len(segs) == 0 {
		return nil
	}
	out := make([]logdesc.Frame, 0, len(segs))
	for _, seg := range segs {
		var buf bytes.Buffer
		buf.Grow(len(meta.Token) + len(seg) + 1)
		buf.WriteString(meta.Token)
		buf.Write(seg)
		buf.WriteByte('\n')
		out = append(out, logdesc.Frame(buf.Bytes()))
	}
	return out
}

var _ Formatter = Plain{}
