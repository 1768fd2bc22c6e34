// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package state

import (
	"sync"
	"testing"
)

func TestSequenceWraps(t *testing.T) {
	s := NewFileSequence()
	if s.Current() != 1 {
		t.Fatalf("fresh sequence = %d, want 1", s.Current())
	}
	for want := 2; want <= 9; want++ {
		if got := s.Advance(); got != want {
			t.Fatalf("Advance = %d, want %d", got, want)
		}
	}
	if got := s.Advance(); got != 1 {
		t.Fatalf("Advance past 9 = %d, want 1", got)
	}
}

func TestSequenceSeed(t *testing.T) {
	s := NewFileSequence()
	s.Seed(7)
	if s.Current() != 7 {
		t.Errorf("after Seed(7), Current = %d", s.Current())
	}
	s.Seed(0)
	if s.Current() != 1 {
		t.Errorf("out-of-range seed must clamp to 1, got %d", s.Current())
	}
	s.Seed(42)
	if s.Current() != 1 {
		t.Errorf("out-of-range seed must clamp to 1, got %d", s.Current())
	}
}

func TestSequenceConcurrentAdvance(t *testing.T) {
	s := NewFileSequence()
	const advances = 900 // exact multiple of the 9-value cycle

	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < advances/9; j++ {
				if got := s.Advance(); got < 1 || got > 9 {
					t.Errorf("Advance returned out-of-range value %d", got)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := s.Current(); got != 1 {
		t.Errorf("after %d advances from 1, Current = %d, want 1", advances, got)
	}
}
