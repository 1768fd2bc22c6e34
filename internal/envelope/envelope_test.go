// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package envelope

import (
	"errors"
	"strings"
	"testing"
)

const testSecret = "unit-test-secret"

func mustService(t *testing.T) *Service {
	t.Helper()
	s, err := New(testSecret)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("New(\"\") error = %v, want ErrNoSecret", err)
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	s := mustService(t)
	content := strings.Repeat("1", 94) + "\n" + strings.Repeat("5", 94)
	meta := Metadata{
		InstructionIDs: []int{3, 7},
		EffectiveDate:  "2025-08-26",
		RecordCount:    2,
	}

	sealed, err := s.Seal(content, meta)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !IsEncrypted(sealed) {
		t.Fatalf("sealed envelope not recognized as encrypted: %q", sealed[:20])
	}
	if !strings.HasPrefix(sealed, "FILE:") {
		t.Errorf("envelope must start with FILE: marker, got %q", sealed[:10])
	}
	if parts := strings.SplitN(sealed, ":", 3); len(parts) != 3 {
		t.Fatalf("envelope must have marker:iv:ciphertext shape")
	}

	res, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if res.Content != content {
		t.Errorf("round-trip content mismatch")
	}
	if !res.IntegrityValid {
		t.Errorf("unmodified envelope must be integrity-valid")
	}
	if res.Metadata.RecordCount != 2 || res.Metadata.EffectiveDate != "2025-08-26" {
		t.Errorf("metadata did not round-trip: %+v", res.Metadata)
	}
	if res.Metadata.Checksum != Checksum(content) {
		t.Errorf("checksum not filled in during Seal")
	}
	if res.Version != payloadVersion {
		t.Errorf("payload version = %d, want %d", res.Version, payloadVersion)
	}
}

func TestFreshIVPerSeal(t *testing.T) {
	s := mustService(t)
	a, err := s.Seal("same content", Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Seal("same content", Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two seals of the same content must differ (fresh IV)")
	}
}

func TestCorruptionNeverAcceptedSilently(t *testing.T) {
	s := mustService(t)
	sealed, err := s.Seal("settlement file body", Metadata{RecordCount: 1})
	if err != nil {
		t.Fatal(err)
	}

	// Flip individual ciphertext characters across the envelope; every flip
	// must surface as either a hard decryption failure or an integrity
	// mismatch, never a silently valid result.
	cipherStart := strings.LastIndex(sealed, ":") + 1
	for i := cipherStart; i < len(sealed); i += 7 {
		mutated := []byte(sealed)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		res, err := s.Open(string(mutated))
		if err != nil {
			if !errors.Is(err, ErrDecrypt) {
				t.Fatalf("flip at %d: unexpected error class: %v", i, err)
			}
			continue
		}
		if res.IntegrityValid {
			t.Fatalf("flip at %d: corrupted envelope accepted as valid", i)
		}
	}
}

func TestWrongKeyIsHardFailure(t *testing.T) {
	s := mustService(t)
	sealed, err := s.Seal("content", Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	other, err := New("a different secret")
	if err != nil {
		t.Fatal(err)
	}
	res, err := other.Open(sealed)
	if err == nil {
		// CBC with a wrong key can, rarely, produce valid padding and
		// parseable JSON; it must still never validate.
		if res.IntegrityValid {
			t.Fatal("wrong key produced an integrity-valid result")
		}
		return
	}
	if !errors.Is(err, ErrDecrypt) {
		t.Fatalf("wrong key error = %v, want ErrDecrypt", err)
	}
}

func TestOpenRejectsPlainContent(t *testing.T) {
	s := mustService(t)
	for _, in := range []string{
		"",
		strings.Repeat("1", 94),
		"NOTFILE:abcd:ef01",
		"FILEISH content",
	} {
		if _, err := s.Open(in); !errors.Is(err, ErrNotEncrypted) {
			t.Errorf("Open(%q) error = %v, want ErrNotEncrypted", in, err)
		}
		if IsEncrypted(in) {
			t.Errorf("IsEncrypted(%q) = true", in)
		}
	}
}

func TestOpenRejectsMalformedEnvelope(t *testing.T) {
	s := mustService(t)
	cases := []string{
		"FILE:zzzz:abcd",          // bad IV hex
		"FILE:00112233:deadbeef",  // short IV
		"FILE:" + strings.Repeat("00", 16) + ":xyz", // bad ciphertext hex
		"FILE:" + strings.Repeat("00", 16) + ":" + strings.Repeat("ab", 15), // not block-aligned
		"FILE:" + strings.Repeat("00", 16) + ":", // empty ciphertext
	}
	for _, in := range cases {
		if _, err := s.Open(in); !errors.Is(err, ErrDecrypt) {
			t.Errorf("Open(%q) error = %v, want ErrDecrypt", in, err)
		}
	}
}

func TestChecksumStable(t *testing.T) {
	if Checksum("abc") != Checksum("abc") {
		t.Error("checksum must be deterministic")
	}
	if Checksum("abc") == Checksum("abd") {
		t.Error("checksum must differ for different content")
	}
	if len(Checksum("x")) != 64 {
		t.Errorf("checksum must be hex SHA-256 (64 chars), got %d", len(Checksum("x")))
	}
}
