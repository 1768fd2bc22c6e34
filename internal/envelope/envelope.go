// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package envelope seals assembled settlement files into an encrypted,
// checksum-verified at-rest envelope and opens them again.
//
// The wire format is fixed: "FILE:<ivHex>:<cipherHex>". The ciphertext is an
// AES-256-CBC encryption of a JSON payload carrying the plaintext content, a
// metadata block (instruction IDs, effective date, record count, SHA-256
// content checksum), a creation timestamp and a payload format version.
//
// The checksum rides inside the same ciphertext, so a match detects
// accidental corruption of the stored artifact; it is not a forgery proof
// against an adversary holding the key. Hardening to an authenticated mode
// would change the envelope format and is deliberately out of this contract.
package envelope

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// Marker prefixes every sealed envelope so downstream code can distinguish
// encrypted artifacts from plain settlement file text.
const Marker = "FILE"

// payloadVersion is the format discriminator carried in every payload, so
// the metadata shape can evolve without breaking stored envelopes.
const payloadVersion = 1

// Key derivation parameters. The salt is a package constant: the key must be
// reproducible from the configured secret alone, because envelopes carry no
// per-file key material beyond the IV.
const (
	kdfIterations = 10000
	kdfSaltLabel  = "bizpaysol.envelope.v1"
)

var (
	// ErrNoSecret is returned by New when no encryption secret is
	// configured. This is fatal at construction, never deferred.
	ErrNoSecret = errors.New("envelope: encryption secret is not configured")

	// ErrNotEncrypted is returned by Open for content that does not carry
	// the envelope marker. Such content is plain text and must not be
	// fed to the decryptor.
	ErrNotEncrypted = errors.New("envelope: content is not an encrypted envelope")

	// ErrDecrypt is the hard failure class: malformed envelope, wrong key,
	// or ciphertext corrupted beyond recovery. Distinct from an integrity
	// mismatch, where decryption succeeds but checksums disagree.
	ErrDecrypt = errors.New("envelope: decryption failed")
)

// Metadata travels encrypted alongside the file content.
type Metadata struct {
	InstructionIDs []int  `json:"instruction_ids,omitempty"`
	EffectiveDate  string `json:"effective_date,omitempty"`
	RecordCount    int    `json:"record_count"`
	Checksum       string `json:"checksum"`
}

type payload struct {
	Content   string    `json:"content"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
	Version   int       `json:"version"`
}

// OpenResult is the outcome of successfully decrypting an envelope. When
// IntegrityValid is false the content decrypted cleanly but its checksum
// disagrees with the one sealed into the metadata: the artifact was
// corrupted (or the checksum was) after sealing.
type OpenResult struct {
	Content        string
	Metadata       Metadata
	CreatedAt      time.Time
	Version        int
	IntegrityValid bool
}

// Service seals and opens envelopes under a single symmetric key derived
// once at construction. The key is read-only after New; Service is safe for
// concurrent use.
type Service struct {
	key []byte
}

// New derives the envelope key from the configured secret. An empty secret
// is a configuration error and is rejected here rather than at first use.
func New(secret string) (*Service, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	key := pbkdf2.Key([]byte(secret), []byte(kdfSaltLabel), kdfIterations, 32, sha256.New)
	return &Service{key: key}, nil
}

// Checksum returns the hex SHA-256 digest of content, the integrity value
// sealed into and verified against envelope metadata.
func Checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// IsEncrypted reports whether s carries the envelope marker. Content without
// the marker is plain settlement file text and must be handled as such.
func IsEncrypted(s string) bool {
	return strings.HasPrefix(s, Marker+":")
}

// Seal encrypts plaintext together with meta into an envelope string. The
// content checksum in the metadata is always overwritten with the hash of
// plaintext; callers fill in the remaining metadata fields.
func (s *Service) Seal(plaintext string, meta Metadata) (string, error) {
	meta.Checksum = Checksum(plaintext)
	p := payload{
		Content:   plaintext,
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
		Version:   payloadVersion,
	}
	serialized, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("envelope: serializing payload: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("envelope: generating IV: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("envelope: initializing cipher: %w", err)
	}

	padded := pkcs7Pad(serialized, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return fmt.Sprintf("%s:%s:%s", Marker, hex.EncodeToString(iv), hex.EncodeToString(ciphertext)), nil
}

// Open parses and decrypts an envelope. Malformed input, a wrong key, and
// ciphertext damaged beyond parsing all surface as ErrDecrypt; an envelope
// that decrypts cleanly but fails the checksum comparison comes back with
// IntegrityValid set to false. Open never returns partial data alongside an
// error.
func (s *Service) Open(sealed string) (*OpenResult, error) {
	parts := strings.SplitN(sealed, ":", 3)
	if len(parts) != 3 || parts[0] != Marker {
		return nil, ErrNotEncrypted
	}

	iv, err := hex.DecodeString(parts[1])
	if err != nil || len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: malformed IV", ErrDecrypt)
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed ciphertext", ErrDecrypt)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length is not a block multiple", ErrDecrypt)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("envelope: initializing cipher: %w", err)
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		// Wrong key and corrupted ciphertext both land here.
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	var p payload
	if err := json.Unmarshal(unpadded, &p); err != nil {
		return nil, fmt.Errorf("%w: payload does not parse", ErrDecrypt)
	}

	return &OpenResult{
		Content:        p.Content,
		Metadata:       p.Metadata,
		CreatedAt:      p.CreatedAt,
		Version:        p.Version,
		IntegrityValid: Checksum(p.Content) == p.Metadata.Checksum,
	}, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
