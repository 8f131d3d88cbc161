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

package filter

import "sync"

// Registry resolves a Func by log name, log id or token, first match wins,
// falling back to Identity (spec §4.2, DESIGN NOTES "Dynamic filter/
// formatter lookup"). It is safe for concurrent registration and lookup,
// though in practice all registration happens during Supervisor
// construction before any Follower starts.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Func
	byID   map[string]Func
	byTok  map[string]Func
}

// NewRegistry returns an empty Registry; Resolve on an empty Registry
// always yields Identity.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Func),
		byID:   make(map[string]Func),
		byTok:  make(map[string]Func),
	}
}

// RegisterByName associates fn with a LogDescriptor.Name.
func (r *Registry) RegisterByName(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = fn
}

// RegisterByID associates fn with a LogDescriptor.ID().
func (r *Registry) RegisterByID(id string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = fn
}

// RegisterByToken associates fn with a token.
func (r *Registry) RegisterByToken(token string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTok[token] = fn
}

// Resolve returns the Func to use for the given name/id/token triple,
// trying name, then id, then token, then Identity.
func (r *Registry) Resolve(name, id, token string) Func {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fn, ok := r.byName[name]; ok {
		return fn
	}
	if fn, ok := r.byID[id]; ok {
		return fn
	}
	if fn, ok := r.byTok[token]; ok {
		return fn
	}
	return Identity
}
