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

package errclass

import (
	"context"
	"crypto/x509"
	"errors"
	"io/fs"
	"net"
)

// Class is one of the fixed error categories of spec §7.
type Class string

const (
	FileOpen              Class = "FileOpenError"
	FileRead              Class = "FileReadError"
	LineTooLong           Class = "LineTooLong"
	Filter                Class = "FilterError"
	Formatter             Class = "FormatterError"
	TransportQueueFull    Class = "TransportQueueFull"
	Network               Class = "NetworkError"
	CertificateValidation Class = "CertificateValidationError"
	ShutdownRequested     Class = "ShutdownRequested"
	Unknown               Class = ""
)

// ErrShutdown is returned/wrapped by long-running loops to signal a
// cooperative exit rather than a failure (spec §7: "not an error").
var ErrShutdown = errors.New("errclass: shutdown requested")

// Classifier maps an error onto a Class, grounded on the bassosimone-nop
// pack member's ErrClassifier interface.
type Classifier interface {
	Classify(err error) Class
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(error) Class

var _ Classifier = ClassifierFunc(nil)

// Classify implements Classifier.
func (f ClassifierFunc) Classify(err error) Class { return f(err) }

// Default is the taxonomy-driven classifier used throughout the agent
// when a component does not already know its own error's class (e.g. a
// Follower already knows a read failure is FileRead; Default exists for
// errors surfacing from third-party code such as net or crypto/x509).
var Default = ClassifierFunc(Classify)

// Classify buckets err using standard library error types: fs.PathError
// for file I/O, net.Error for dial/write/read failures, and the x509
// verification error family for certificate problems.
func Classify(err error) Class {
	if err == nil {
		return Unknown
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrShutdown) {
		return ShutdownRequested
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		if errors.Is(pathErr.Err, fs.ErrNotExist) || errors.Is(pathErr.Err, fs.ErrPermission) {
			return FileOpen
		}
		return FileRead
	}

	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return CertificateValidation
	}
	var unknownAuthErr x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthErr) {
		return CertificateValidation
	}
	var invalidCertErr x509.CertificateInvalidError
	if errors.As(err, &invalidCertErr) {
		return CertificateValidation
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Network
	}

	return Unknown
}
