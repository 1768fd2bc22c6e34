// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package state holds transient process state shared between the CLI and the
// settlement pipeline: the rotating NACHA file sequence modifier. The
// counter is deliberately not persisted by the core; the store records the
// modifier used for each generated file so an operator can reseed after a
// restart.
package state

import "sync"

// Sequence is the process-wide file sequence counter. Components that want
// isolation (tests, parallel pipelines) construct their own via
// NewFileSequence and inject it instead.
var Sequence = NewFileSequence()

// FileSequence is a concurrency-safe counter for the file sequence modifier
// carried in the NACHA file header. Values run 1 through 9 and wrap back to
// 1. Generation itself never advances the counter; the caller advances it
// once per successfully generated file, which keeps generation idempotent
// and retry-safe.
type FileSequence struct {
	mu sync.Mutex
	n  int
}

// NewFileSequence returns a counter positioned at 1.
func NewFileSequence() *FileSequence {
	return &FileSequence{n: 1}
}

// Current returns the modifier the next generated file should carry.
func (f *FileSequence) Current() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

// Advance moves the counter to the next modifier, wrapping 9 back to 1, and
// returns the new value. Concurrent generators serialize here, so no two
// files observe the same advance.
func (f *FileSequence) Advance() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	if f.n > 9 {
		f.n = 1
	}
	return f.n
}

// Seed positions the counter, clamping out-of-range values to 1. Used to
// restore the modifier recorded with the most recent settlement file.
func (f *FileSequence) Seed(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 1 || n > 9 {
		n = 1
	}
	f.n = n
}
