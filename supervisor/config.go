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
	"github.com/sabouaram/logship/config"
	"github.com/sabouaram/logship/domain"
	"github.com/sabouaram/logship/filter"
	"github.com/sabouaram/logship/frame"
	"github.com/sabouaram/logship/logdesc"
	"github.com/sabouaram/logship/transport"
)

// Config is the Supervisor's one-shot assembly input (spec §4.5).
type Config struct {
	Descriptors []logdesc.LogDescriptor

	Filters    *filter.Registry
	Formatters *frame.Registry

	// FilenameFilter gates whether a descriptor is followed at all (spec
	// §4.2's filter_filenames); nil means accept every path.
	FilenameFilter filter.FilenamePredicate

	// Hostname and Appname feed frame.Meta for every descriptor.
	Hostname string
	Appname  string

	Tunables config.Tunables

	// Trust is shared across every TLS Transport this Supervisor builds.
	Trust *domain.TrustStore

	// Resolver and Dialer, when non-nil, are injected into every
	// transport.Config built by the Supervisor, replacing the default DNS
	// lookup and net.Dialer.
	Resolver *domain.Resolver
	Dialer   transport.Dialer

	// Watch enables the fsnotify accelerator on every spawned Follower.
	Watch bool
}
