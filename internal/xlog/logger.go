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

package xlog

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// std is the package-level default logger, a logrus.TextFormatter writer
// to stderr, matching the teacher's defaultFormatter().
var std = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		ForceQuote:       true,
		DisableTimestamp: false,
		FullTimestamp:    true,
		TimestampFormat:  time.RFC3339,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel adjusts the default logger's verbosity.
func SetLevel(lvl logrus.Level) {
	std.SetLevel(lvl)
}

// For returns a *logrus.Entry pre-populated with a "component" field,
// matching the way the teacher's components each tag their log lines.
func For(component string) *logrus.Entry {
	return std.WithField("component", component)
}

// Limiter rate-limits a recurring warning to at most once per window,
// grounded on the teacher's go.mod dependency on golang.org/x/time/rate
// and used for the spec §7 classes that must not log-spam: FilterError,
// FormatterError, CertificateValidationError.
type Limiter struct {
	mu  sync.Mutex
	lim *rate.Limiter
}

// NewLimiter returns a Limiter permitting one event per window, with a
// burst of 1 (the first occurrence always logs immediately).
func NewLimiter(window time.Duration) *Limiter {
	return &Limiter{lim: rate.NewLimiter(rate.Every(window), 1)}
}

// Allow reports whether the caller may log now.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lim.Allow()
}
