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
	"crypto/tls"
	"net"
	"time"

	"github.com/sabouaram/logship/domain"
)

// Dialer abstracts net.Dialer.DialContext so tests can inject a fake
// connector, grounded on the bassosimone-nop pack member's own Dialer seam
// (connect.go) rather than reaching into *net.Dialer's concrete type. A
// full net.Conn (not a trimmed-down interface) is required because a TLS
// handshake needs Read as well as Write.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Config configures one Transport instance.
type Config struct {
	// Endpoint and Port identify the destination. Endpoint may be a
	// hostname (resolved via Resolver) or a literal IP.
	Endpoint string
	Port     uint16

	// TLS enables a TLS handshake after the TCP connect.
	TLS       bool
	TrustFunc func() *domain.TrustStore // called on every TLS (re)connect; nil means a fresh system trust store each time

	// PreambleFunc, when non-nil, is evaluated fresh on every (re)connect
	// and written verbatim before any queued frame (spec §4.3, and the
	// API-mode preamble templating supplement in SPEC_FULL.md §7).
	PreambleFunc func() []byte

	// QueueSize bounds the pending-frame FIFO (spec §3, SEND_QUEUE_SIZE).
	QueueSize int

	// DialTimeout bounds the TCP connect and the TLS handshake (spec §4.3
	// TCP_TIMEOUT).
	DialTimeout time.Duration

	// ReconnectMin/Max bound the exponential backoff (spec §4.3
	// SRV_RECON_TO_MIN/MAX).
	ReconnectMin time.Duration
	ReconnectMax time.Duration

	// Resolver performs DNS lookup with random address choice. When nil,
	// domain.NewResolver() is used.
	Resolver *domain.Resolver

	// Dialer, when non-nil, replaces the default net.Dialer-backed dialer.
	Dialer Dialer

	// Name tags log lines ("component" + this name) so operators can tell
	// Transports apart.
	Name string
}

func (c Config) tlsConfig() *tls.Config {
	trust := domain.NewTrustStore()
	if c.TrustFunc != nil {
		trust = c.TrustFunc()
	}
	return domain.ClientTLSConfig(trust, c.Endpoint)
}
