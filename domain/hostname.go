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
	"strings"

	"golang.org/x/net/idna"
)

// VerifyHostname reports whether certName (a certificate's CN or a SAN DNS
// entry, which may carry a single leftmost wildcard label such as
// "*.example.com") matches endpoint, per RFC 6125 §6.4.3. crypto/tls
// already applies its own hostname check during the handshake;
// ClientTLSConfig uses this helper as an additional check on the leaf
// certificate after that verification has passed.
func VerifyHostname(certName, endpoint string) bool {
	certName = normalize(certName)
	endpoint = normalize(endpoint)
	if certName == "" || endpoint == "" {
		return false
	}
	if certName == endpoint {
		return true
	}

	const wildcardPrefix = "*."
	if !strings.HasPrefix(certName, wildcardPrefix) {
		return false
	}

	certLabels := strings.Split(certName, ".")
	hostLabels := strings.Split(endpoint, ".")
	if len(certLabels) != len(hostLabels) {
		return false
	}
	// RFC 6125 restricts the wildcard to the leftmost label and forbids
	// partial-label wildcards ("f*.example.com"); certLabels[0] is always
	// exactly "*" here because of the HasPrefix check above combined with
	// the split, so only the leftmost host label is left unconstrained.
	for i := 1; i < len(certLabels); i++ {
		if certLabels[i] != hostLabels[i] {
			return false
		}
	}
	return hostLabels[0] != ""
}

// normalize lowercases and strips a trailing dot, and converts an IDNA
// (internationalized) label to its ASCII (punycode) form so comparisons
// are byte-exact regardless of input encoding.
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if ascii, err := idna.Lookup.ToASCII(name); err == nil {
		return ascii
	}
	return name
}
