// Copyright (c) 2026, the gng-project contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package identifier

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// Algorithm identifies which digest a Hash carries.
type Algorithm int

const (
	// Sha256 identifies a 32-byte SHA-256 digest. It orders before Sha512.
	Sha256 Algorithm = iota
	// Sha512 identifies a 64-byte SHA-512 digest.
	Sha512
)

// String returns the lowercase textual name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case Sha256:
		return "sha256"
	case Sha512:
		return "sha512"
	default:
		return "unknown"
	}
}

// Hash is a tagged digest: either Sha256 ([32]byte) or Sha512 ([64]byte).
type Hash struct {
	algorithm Algorithm
	bytes     []byte
}

// NewSha256 builds a Hash from a 32-byte SHA-256 digest.
func NewSha256(digest [32]byte) Hash {
	return Hash{algorithm: Sha256, bytes: digest[:]}
}

// NewSha512 builds a Hash from a 64-byte SHA-512 digest.
func NewSha512(digest [64]byte) Hash {
	return Hash{algorithm: Sha512, bytes: digest[:]}
}

// HashSha256 computes the SHA-256 digest of data and returns it as a Hash.
func HashSha256(data []byte) Hash {
	return NewSha256(sha256.Sum256(data))
}

// HashSha512 computes the SHA-512 digest of data and returns it as a Hash.
func HashSha512(data []byte) Hash {
	return NewSha512(sha512.Sum512(data))
}

// Algorithm returns the Hash's algorithm tag.
func (h Hash) Algorithm() Algorithm { return h.algorithm }

// Bytes returns the raw digest bytes.
func (h Hash) Bytes() []byte { return append([]byte(nil), h.bytes...) }

// String returns the "algo:hex" textual form.
func (h Hash) String() string {
	return h.algorithm.String() + ":" + hex.EncodeToString(h.bytes)
}

// ParseHash parses the "algo:hex" textual form produced by String.
func ParseHash(s string) (Hash, error) {
	algoStr, hexStr, ok := strings.Cut(s, ":")
	if !ok {
		return Hash{}, gngerrors.Newf(gngerrors.Config, "hash %q missing ':' separator", s)
	}

	digest, err := hex.DecodeString(hexStr)
	if err != nil {
		return Hash{}, gngerrors.Wrapf(gngerrors.Config, err, "hash %q has invalid hex digest", s)
	}

	switch algoStr {
	case "sha256":
		if len(digest) != 32 {
			return Hash{}, gngerrors.Newf(gngerrors.Config, "sha256 hash %q must be 32 bytes, got %d", s, len(digest))
		}
		return Hash{algorithm: Sha256, bytes: digest}, nil
	case "sha512":
		if len(digest) != 64 {
			return Hash{}, gngerrors.Newf(gngerrors.Config, "sha512 hash %q must be 64 bytes, got %d", s, len(digest))
		}
		return Hash{algorithm: Sha512, bytes: digest}, nil
	default:
		return Hash{}, gngerrors.Newf(gngerrors.Config, "hash %q has unknown algorithm %q", s, algoStr)
	}
}

// Compare orders by algorithm first (Sha256 < Sha512), then by digest bytes.
func (h Hash) Compare(other Hash) int {
	if h.algorithm != other.algorithm {
		if h.algorithm < other.algorithm {
			return -1
		}
		return 1
	}
	return bytes.Compare(h.bytes, other.bytes)
}

// Less reports whether h sorts before other.
func (h Hash) Less(other Hash) bool { return h.Compare(other) < 0 }

// Equal reports whether h and other are the same algorithm and digest.
func (h Hash) Equal(other Hash) bool { return h.Compare(other) == 0 }

// MarshalJSON implements json.Marshaler.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
