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
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TrustStore builds the root CA pool a Transport verifies its peer
// against: the system store preferred, falling back to a bundled PEM
// file when the caller supplies one (spec §4.3), grounded on the
// teacher's certificates.AddRootCAFile / GetRootCAPool pair.
type TrustStore struct {
	pool *x509.CertPool
}

// NewTrustStore seeds a TrustStore from the system trust store. If the
// system pool cannot be loaded (some minimal containers lack one), it
// starts from an empty pool so AddBundledFile remains the only path to
// trust anything - the agent never silently trusts nothing and then
// accepts everything.
func NewTrustStore() *TrustStore {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	return &TrustStore{pool: pool}
}

// AddBundledFile appends every certificate in a PEM file to the pool.
func (t *TrustStore) AddBundledFile(pemFile string) error {
	data, err := os.ReadFile(pemFile)
	if err != nil {
		return fmt.Errorf("domain: reading trust bundle %q: %w", pemFile, err)
	}
	if ok := t.pool.AppendCertsFromPEM(data); !ok {
		return fmt.Errorf("domain: no usable certificates found in %q", pemFile)
	}
	return nil
}

// Pool returns the underlying *x509.CertPool for use in a tls.Config.
func (t *TrustStore) Pool() *x509.CertPool {
	return t.pool
}

// secureCipherSuites excludes anonymous, NULL and PSK suites per spec
// §4.3 by using only the set crypto/tls itself classifies as secure -
// Go's standard library already never registers an anonymous, NULL or
// PSK suite in tls.CipherSuites(), so this is a defensive assertion of
// that invariant rather than a hand-picked list.
func secureCipherSuites() []uint16 {
	ids := make([]uint16, 0, len(tls.CipherSuites()))
	for _, cs := range tls.CipherSuites() {
		ids = append(ids, cs.ID)
	}
	return ids
}

// ClientTLSConfig builds the *tls.Config a Transport dials with: TLS 1.2
// minimum (spec §4.3 "reject lower"), the trust store's pool, a secure
// cipher list, and SNI set to serverName. VerifyConnection re-checks the
// leaf certificate against serverName with VerifyHostname after
// crypto/tls's own chain and hostname verification has passed; it can
// only reject a peer the built-in checks accepted, never admit one they
// rejected.
func ClientTLSConfig(trust *TrustStore, serverName string) *tls.Config {
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		RootCAs:      trust.Pool(),
		CipherSuites: secureCipherSuites(),
		ServerName:   serverName,
		VerifyConnection: func(cs tls.ConnectionState) error {
			return verifyLeafHostname(cs, serverName)
		},
	}
}

// verifyLeafHostname reports an error unless the leaf certificate's
// CommonName or one of its DNS SANs matches serverName per VerifyHostname.
func verifyLeafHostname(cs tls.ConnectionState, serverName string) error {
	if len(cs.PeerCertificates) == 0 {
		return fmt.Errorf("domain: no peer certificate presented")
	}
	leaf := cs.PeerCertificates[0]

	if VerifyHostname(leaf.Subject.CommonName, serverName) {
		return nil
	}
	for _, name := range leaf.DNSNames {
		if VerifyHostname(name, serverName) {
			return nil
		}
	}
	return fmt.Errorf("domain: certificate %q does not match endpoint %q", leaf.Subject.CommonName, serverName)
}
