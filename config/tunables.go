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

// Package config holds the tunables table from spec §6 and a thin loader
// over an operator-supplied *viper.Viper. It deliberately does not parse
// command-line flags or a configuration file itself - that belongs to the
// external collaborator spec §1 excludes from this module's scope - it
// only reads the handful of keys below out of a Viper instance the caller
// already owns, the way the teacher's config package layers its component
// settings on top of viper.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Tunables mirrors spec §6's defaults table exactly by name.
type Tunables struct {
	SendQueueSize      int
	MaxLine            int
	TailRecheck        time.Duration
	NameCheck          int
	ReopenTryInterval  time.Duration
	IAAInterval        int
	SrvReconTimeoutMin time.Duration
	SrvReconTimeoutMax time.Duration
	TCPTimeout         time.Duration
	DefaultTLSPort     uint16
	DefaultPlainPort   uint16
}

// Default returns the tunables table at its spec-mandated defaults.
func Default() Tunables {
	return Tunables{
		SendQueueSize:      32000,
		MaxLine:            65536,
		TailRecheck:        200 * time.Millisecond,
		NameCheck:          4,
		ReopenTryInterval:  time.Second,
		IAAInterval:        100,
		SrvReconTimeoutMin: time.Second,
		SrvReconTimeoutMax: 10 * time.Second,
		TCPTimeout:         10 * time.Second,
		DefaultTLSPort:     20000,
		DefaultPlainPort:   10000,
	}
}

const (
	keySendQueueSize = "logship.send_queue_size"
	keyMaxLine       = "logship.max_line"
	keyTailRecheck   = "logship.tail_recheck"
	keyNameCheck     = "logship.name_check"
	keyReopenTry     = "logship.reopen_try_interval"
	keyIAAInterval   = "logship.iaa_interval"
	keyReconMin      = "logship.srv_recon_timeout_min"
	keyReconMax      = "logship.srv_recon_timeout_max"
	keyTCPTimeout    = "logship.tcp_timeout"
)

// LoadTunables starts from Default() and overrides any field whose viper
// key is explicitly set. v may be nil, in which case Default() is
// returned unchanged.
func LoadTunables(v *viper.Viper) Tunables {
	t := Default()
	if v == nil {
		return t
	}

	if v.IsSet(keySendQueueSize) {
		t.SendQueueSize = v.GetInt(keySendQueueSize)
	}
	if v.IsSet(keyMaxLine) {
		t.MaxLine = v.GetInt(keyMaxLine)
	}
	if v.IsSet(keyTailRecheck) {
		t.TailRecheck = v.GetDuration(keyTailRecheck)
	}
	if v.IsSet(keyNameCheck) {
		t.NameCheck = v.GetInt(keyNameCheck)
	}
	if v.IsSet(keyReopenTry) {
		t.ReopenTryInterval = v.GetDuration(keyReopenTry)
	}
	if v.IsSet(keyIAAInterval) {
		t.IAAInterval = v.GetInt(keyIAAInterval)
	}
	if v.IsSet(keyReconMin) {
		t.SrvReconTimeoutMin = v.GetDuration(keyReconMin)
	}
	if v.IsSet(keyReconMax) {
		t.SrvReconTimeoutMax = v.GetDuration(keyReconMax)
	}
	if v.IsSet(keyTCPTimeout) {
		t.TCPTimeout = v.GetDuration(keyTCPTimeout)
	}
	return t
}
