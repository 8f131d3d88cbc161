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

package domain

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Resolver looks up A/AAAA records for an endpoint via a configured set of
// nameservers, grounded on the bassosimone-nop pack member's DNS-over-*
// dialers but trimmed to the one transport mode this agent needs: plain
// DNS-over-UDP against the system's configured resolvers.
type Resolver struct {
	client  *dns.Client
	servers []string
	Timeout time.Duration
}

// NewResolver builds a Resolver from /etc/resolv.conf. When that file is
// unreadable (containers without one, non-POSIX hosts), it falls back to
// a single well-known public resolver so the agent still has a path to
// resolve its configured endpoint.
func NewResolver() *Resolver {
	servers := []string{"1.1.1.1:53"}
	if cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(cfg.Servers) > 0 {
		servers = servers[:0]
		for _, s := range cfg.Servers {
			servers = append(servers, net.JoinHostPort(s, cfg.Port))
		}
	}
	return &Resolver{
		client:  &dns.Client{Timeout: 5 * time.Second},
		servers: servers,
		Timeout: 5 * time.Second,
	}
}

// NewResolverWithServers builds a Resolver against an explicit set of
// "host:port" nameservers, bypassing /etc/resolv.conf. This is the seam
// tests use to point Resolve at an in-process fake server.
func NewResolverWithServers(servers []string) *Resolver {
	return &Resolver{
		client:  &dns.Client{Timeout: 5 * time.Second},
		servers: servers,
		Timeout: 5 * time.Second,
	}
}

// Resolve returns every A/AAAA address for host. If host is already a
// literal IP address, it is returned as the sole result without a network
// round trip.
func (r *Resolver) Resolve(ctx context.Context, host string) ([]net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []net.IP{ip}, nil
	}

	var addrs []net.IP
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		m := new(dns.Msg)
		m.SetQuestion(dns.Fqdn(host), qtype)
		m.RecursionDesired = true

		var lastErr error
		for _, server := range r.servers {
			in, _, err := r.client.ExchangeContext(ctx, m, server)
			if err != nil {
				lastErr = err
				continue
			}
			for _, rr := range in.Answer {
				switch rec := rr.(type) {
				case *dns.A:
					addrs = append(addrs, rec.A)
				case *dns.AAAA:
					addrs = append(addrs, rec.AAAA)
				}
			}
			lastErr = nil
			break
		}
		if lastErr != nil && len(addrs) == 0 {
			continue
		}
	}

	if len(addrs) == 0 {
		return nil, fmt.Errorf("domain: no A/AAAA records for %q", host)
	}
	return addrs, nil
}

// PickRandom chooses one address uniformly at random, per spec §4.3
// ("choose one uniformly at random per attempt"). Callers invoke this once
// per connection attempt so repeated failures do not stick to one address.
func PickRandom(addrs []net.IP) net.IP {
	if len(addrs) == 0 {
		return nil
	}
	if len(addrs) == 1 {
		return addrs[0]
	}
	return addrs[rand.Intn(len(addrs))]
}
