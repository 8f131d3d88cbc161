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
	"fmt"
	"net"
	"strconv"

	"github.com/sabouaram/logship/domain"
)

type netDialer struct {
	d net.Dialer
}

func (n *netDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return n.d.DialContext(ctx, network, address)
}

// connect resolves cfg.Endpoint (random choice among returned addresses,
// spec §4.3), dials TCP with cfg.DialTimeout, and optionally performs a
// TLS 1.2+ handshake verifying the peer against cfg.tlsConfig().
func connect(ctx context.Context, cfg Config) (net.Conn, error) {
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = domain.NewResolver()
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &netDialer{}
	}

	addrs, err := resolver.Resolve(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", cfg.Endpoint, err)
	}
	ip := domain.PickRandom(addrs)
	address := net.JoinHostPort(ip.String(), strconv.Itoa(int(cfg.Port)))

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %q: %w", address, err)
	}

	if !cfg.TLS {
		return conn, nil
	}

	tlsConn := tls.Client(conn, cfg.tlsConfig())
	hsCtx, hsCancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer hsCancel()
	if err := tlsConn.HandshakeContext(hsCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake with %q: %w", cfg.Endpoint, err)
	}
	return tlsConn, nil
}
