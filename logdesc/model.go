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

package logdesc

import (
	"fmt"

	"github.com/google/uuid"
)

// Line is a single log line, stripped of its trailing newline.
type Line []byte

// Frame is one fully formatted, newline-terminated outbound record.
type Frame []byte

// Mode selects how a LogDescriptor is framed on the wire: a bare token
// prepended to every frame, or an API-style host/log key pair that also
// drives a per-connection preamble.
type Mode uint8

const (
	// ModeToken frames every line with a single 36-character token.
	ModeToken Mode = iota
	// ModeAPI frames using a host key and log key pair, and sends an
	// HTTP-shaped preamble on every (re)connect.
	ModeAPI
)

func (m Mode) String() string {
	switch m {
	case ModeToken:
		return "token"
	case ModeAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Destination describes one network endpoint a Follower's frames can be
// shipped to. PreambleFunc, when non-nil, is evaluated fresh on every
// (re)connect and its result is written verbatim before any frame -
// this lets an API-mode preamble embed keys that are only known at
// construction time without baking a stale byte string into Config.
type Destination struct {
	Endpoint     string
	Port         uint16
	TLS          bool
	PreambleFunc func() []byte
}

// Key returns the structural identity used to decide whether two
// Destinations may share a single Transport: endpoint, port, TLS flag and
// the rendered preamble must match exactly (§4.3 / DESIGN NOTES).
func (d Destination) Key() string {
	var pre []byte
	if d.PreambleFunc != nil {
		pre = d.PreambleFunc()
	}
	return fmt.Sprintf("%s:%d|tls=%t|pre=%x", d.Endpoint, d.Port, d.TLS, pre)
}

// LogDescriptor is the resolved, immutable description of one followed log.
type LogDescriptor struct {
	Name         string
	PathPattern  string
	Mode         Mode
	Token        string
	HostKey      string
	LogKey       string
	Destinations []Destination
}

// ID returns a stable identifier usable for Filter resolution by "log id":
// the host key and log key joined, or the token, depending on Mode.
func (d LogDescriptor) ID() string {
	if d.Mode == ModeAPI {
		return d.HostKey + "/" + d.LogKey
	}
	return d.Token
}

// Validate checks that the descriptor is structurally sound: a name and
// path pattern are present, at least one destination is configured, and
// the framing keys are well-formed 36-character UUIDs (spec §6).
func (d LogDescriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("logdesc: empty name")
	}
	if d.PathPattern == "" {
		return fmt.Errorf("logdesc: %s: empty path pattern", d.Name)
	}
	if len(d.Destinations) == 0 {
		return fmt.Errorf("logdesc: %s: no destination configured", d.Name)
	}
	switch d.Mode {
	case ModeToken:
		if err := validateKey("token", d.Token); err != nil {
			return fmt.Errorf("logdesc: %s: %w", d.Name, err)
		}
	case ModeAPI:
		if err := validateKey("host_key", d.HostKey); err != nil {
			return fmt.Errorf("logdesc: %s: %w", d.Name, err)
		}
		if err := validateKey("log_key", d.LogKey); err != nil {
			return fmt.Errorf("logdesc: %s: %w", d.Name, err)
		}
	default:
		return fmt.Errorf("logdesc: %s: unknown mode %d", d.Name, d.Mode)
	}
	return nil
}

func validateKey(field, value string) error {
	if len(value) != 36 {
		return fmt.Errorf("%s: expected 36-character key, got %d bytes", field, len(value))
	}
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("%s: not a well-formed key: %w", field, err)
	}
	return nil
}
