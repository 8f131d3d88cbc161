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

package frame

import "sync"

// Registry resolves a Formatter by log name, log id or token, first match
// wins, falling back to a default (spec §4.5: "resolve Filter and
// Formatter (by name -> id -> token lookup)"), mirroring filter.Registry.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Formatter
	byID   map[string]Formatter
	byTok  map[string]Formatter
	dflt   Formatter
}

// NewRegistry returns a Registry that falls back to dflt when nothing
// matches. A nil dflt is replaced with Plain{}.
func NewRegistry(dflt Formatter) *Registry {
	if dflt == nil {
		dflt = Plain{}
	}
	return &Registry{
		byName: make(map[string]Formatter),
		byID:   make(map[string]Formatter),
		byTok:  make(map[string]Formatter),
		dflt:   dflt,
	}
}

// RegisterByName associates fm with a LogDescriptor.Name.
func (r *Registry) RegisterByName(name string, fm Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = fm
}

// RegisterByID associates fm with a LogDescriptor.ID().
func (r *Registry) RegisterByID(id string, fm Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = fm
}

// RegisterByToken associates fm with a token.
func (r *Registry) RegisterByToken(token string, fm Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTok[token] = fm
}

// Resolve returns the Formatter to use for the given name/id/token
// triple, trying name, then id, then token, then the registry default.
func (r *Registry) Resolve(name, id, token string) Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fm, ok := r.byName[name]; ok {
		return fm
	}
	if fm, ok := r.byID[id]; ok {
		return fm
	}
	if fm, ok := r.byTok[token]; ok {
		return fm
	}
	return r.dflt
}
