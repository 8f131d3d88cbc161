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
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sabouaram/logship/domain"
	"github.com/sabouaram/logship/filter"
	"github.com/sabouaram/logship/follower"
	"github.com/sabouaram/logship/frame"
	"github.com/sabouaram/logship/internal/xlog"
	"github.com/sabouaram/logship/logdesc"
	"github.com/sabouaram/logship/transport"
)

// followerJoin and transportJoin bound how long Shutdown waits for each
// component family before giving up on it (spec §5: "Joins are bounded
// (Follower ~1s, Transport ~1.5s). Exceeding the bound leaves the worker
// orphaned ... acceptable because the process is exiting.").
const (
	followerJoin  = time.Second
	transportJoin = 1500 * time.Millisecond
)

// Supervisor owns the one-shot assembly of every Follower and Transport
// built from a Config, and coordinates their shutdown.
type Supervisor struct {
	log *logrus.Entry

	followers  []*follower.Follower
	transports []transport.Transport

	shutdown  chan struct{}
	closeOnce sync.Once
}

// New validates and assembles every descriptor in cfg: resolving each
// log's Filter and Formatter, sharing a Transport across descriptors whose
// destination is structurally identical (logdesc.Destination.Key), and
// fanning a Follower's frames out across every destination otherwise
// (spec §4.5). Construction opens no log file, but every Transport it
// builds starts its background sender, which begins dialing at once; Run
// starts the Followers.
func New(cfg Config) (*Supervisor, error) {
	nameFilter := cfg.FilenameFilter
	if nameFilter == nil {
		nameFilter = filter.AcceptAll
	}
	filters := cfg.Filters
	if filters == nil {
		filters = filter.NewRegistry()
	}
	formatters := cfg.Formatters
	if formatters == nil {
		formatters = frame.NewRegistry(nil)
	}

	s := &Supervisor{
		log:      xlog.For("supervisor"),
		shutdown: make(chan struct{}),
	}

	byDestination := make(map[string]transport.Transport)

	for _, d := range cfg.Descriptors {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("supervisor: %w", err)
		}
		if !nameFilter(d.PathPattern) {
			s.log.WithField("log", d.Name).Info("excluded by filename filter, not followed")
			continue
		}

		members := make([]transport.Transport, 0, len(d.Destinations))
		for _, dest := range d.Destinations {
			key := dest.Key()
			tr, ok := byDestination[key]
			if !ok {
				tr = transport.New(s.transportConfig(cfg, d, dest))
				byDestination[key] = tr
				s.transports = append(s.transports, tr)
			}
			members = append(members, tr)
		}

		meta := frame.Meta{
			Token:    frameToken(d),
			Hostname: cfg.Hostname,
			Appname:  cfg.Appname,
		}

		fw := follower.New(follower.Config{
			Name:        d.Name,
			PathPattern: d.PathPattern,
			Filter:      filters.Resolve(d.Name, d.ID(), d.Token),
			Formatter:   formatters.Resolve(d.Name, d.ID(), d.Token),
			Meta:        meta,
			Transport:   newFanout(members),
			Tunables:    cfg.Tunables,
			Watch:       cfg.Watch,
			Shutdown:    s.shutdown,
		})
		s.followers = append(s.followers, fw)
	}

	return s, nil
}

// frameToken returns the per-frame prefix a Formatter embeds: the literal
// token in ModeToken, or empty in ModeAPI, where routing is carried by the
// preamble rather than by a per-line prefix.
func frameToken(d logdesc.LogDescriptor) string {
	if d.Mode == logdesc.ModeToken {
		return d.Token
	}
	return ""
}

func (s *Supervisor) transportConfig(cfg Config, d logdesc.LogDescriptor, dest logdesc.Destination) transport.Config {
	return transport.Config{
		Endpoint:     dest.Endpoint,
		Port:         dest.Port,
		TLS:          dest.TLS,
		TrustFunc:    s.trustFunc(cfg),
		PreambleFunc: dest.PreambleFunc,
		QueueSize:    cfg.Tunables.SendQueueSize,
		DialTimeout:  cfg.Tunables.TCPTimeout,
		ReconnectMin: cfg.Tunables.SrvReconTimeoutMin,
		ReconnectMax: cfg.Tunables.SrvReconTimeoutMax,
		Resolver:     cfg.Resolver,
		Dialer:       cfg.Dialer,
		Name:         d.Name,
	}
}

func (s *Supervisor) trustFunc(cfg Config) func() *domain.TrustStore {
	if cfg.Trust != nil {
		return func() *domain.TrustStore { return cfg.Trust }
	}
	return domain.NewTrustStore
}

// Run starts every Follower and blocks until Shutdown is called and every
// Follower has returned (or the bounded join expires first).
func (s *Supervisor) Run() {
	g := new(errgroup.Group)
	for _, fw := range s.followers {
		fw := fw
		g.Go(func() error {
			fw.Run()
			return nil
		})
	}

	followersDone := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(followersDone)
	}()

	<-s.shutdown
	s.awaitBounded("followers", followersDone, followerJoin)

	var wg sync.WaitGroup
	wg.Add(len(s.transports))
	for _, tr := range s.transports {
		tr := tr
		go func() {
			defer wg.Done()
			done := make(chan struct{})
			go func() {
				tr.Close()
				close(done)
			}()
			s.awaitBounded("transport", done, transportJoin)
		}()
	}
	wg.Wait()
}

// Shutdown signals every Follower to stop at its next check boundary.
// Shutdown is idempotent; it does not itself wait for Run to return.
func (s *Supervisor) Shutdown() {
	s.closeOnce.Do(func() { close(s.shutdown) })
}

// awaitBounded waits on done for at most bound, logging and giving up -
// leaving the underlying goroutine orphaned - if it is exceeded, per
// spec §5's bounded-join policy.
func (s *Supervisor) awaitBounded(what string, done <-chan struct{}, bound time.Duration) {
	select {
	case <-done:
	case <-time.After(bound):
		s.log.WithField("component", what).Warn("join timed out, leaving worker orphaned during shutdown")
	}
}
