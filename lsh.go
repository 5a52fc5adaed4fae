// Package lsh implements the LSH family of cryptographic hash functions as
// published by the Korea Internet & Security Agency (KISA) in KS X 3262.
//
// The family has five members over two compression engines: LSH-256-224 and
// LSH-256-256 on a 32-bit-word engine, and LSH-512-384, LSH-512-512 and
// LSH-512-256 on a 64-bit-word engine. All five are exposed through the
// Hasher interface, which extends hash.Hash with explicit truncated
// finalization.
package lsh

import (
	"errors"
	"fmt"
	"hash"
	"strings"
)

// Copyright © 2024 The lsh-go Authors. Licensed under the Apache-2.0 license.

var (
	// ErrInvalidDigestSize is returned by Finish when the requested length is
	// not in [1, Size()]. The hasher state is left untouched.
	ErrInvalidDigestSize = errors.New("lsh: invalid digest size")

	// ErrInvalidState is returned when Write or Finish is called on a hasher
	// that has been finalized and not yet Reset.
	ErrInvalidState = errors.New("lsh: hasher finalized; Reset before reuse")
)

// Hasher is the streaming interface shared by all LSH variants. It satisfies
// hash.Hash: Sum finalizes a copy and never invalidates the receiver, while
// Finish consumes the hasher until the next Reset.
type Hasher interface {
	hash.Hash

	// Finish pads and compresses any buffered input, then returns the first
	// size bytes of the serialized chaining state. size must be in
	// [1, Size()] or ErrInvalidDigestSize is returned before any state
	// changes. After a successful Finish the hasher rejects further Write
	// and Finish calls with ErrInvalidState until Reset.
	Finish(size int) ([]byte, error)

	// AlgorithmName returns the variant name, e.g. "LSH-256-256".
	AlgorithmName() string
}

// Variant describes one member of the LSH family. The zero value is not a
// valid variant; use Variants or NewByName.
type Variant struct {
	Name       string
	Type       uint32 // algorithm-type tag from the published specification
	WordBits   int
	BlockSize  int
	DigestSize int
}

// Algorithm-type tags, normative values from KS X 3262.
const (
	typeLSH256_224 = 0x000001C
	typeLSH256_256 = 0x0000020
	typeLSH512_384 = 0x0010030
	typeLSH512_512 = 0x0010040
	typeLSH512_256 = 0x0010020
)

var variants = [...]Variant{
	{"LSH-256-224", typeLSH256_224, 32, BlockSize256, Size224},
	{"LSH-256-256", typeLSH256_256, 32, BlockSize256, Size256},
	{"LSH-512-384", typeLSH512_384, 64, BlockSize512, Size384},
	{"LSH-512-512", typeLSH512_512, 64, BlockSize512, Size512},
	{"LSH-512-256", typeLSH512_256, 64, BlockSize512, Size512_256},
}

// Variants returns descriptors for all five family members in specification
// order.
func Variants() []Variant {
	return append([]Variant(nil), variants[:]...)
}

// NewByName returns a fresh hasher for the named variant. Matching is
// case-insensitive.
func NewByName(name string) (Hasher, error) {
	for i := range variants {
		v := &variants[i]
		if strings.EqualFold(name, v.Name) {
			if v.WordBits == 32 {
				return new256(v), nil
			}
			return new512(v), nil
		}
	}
	return nil, fmt.Errorf("lsh: unknown algorithm %q", name)
}

// New224 returns a new LSH-256-224 hasher.
func New224() Hasher { return new256(&variants[0]) }

// New256 returns a new LSH-256-256 hasher.
func New256() Hasher { return new256(&variants[1]) }

// New384 returns a new LSH-512-384 hasher.
func New384() Hasher { return new512(&variants[2]) }

// New512 returns a new LSH-512-512 hasher.
func New512() Hasher { return new512(&variants[3]) }

// New512_256 returns a new LSH-512-256 hasher.
func New512_256() Hasher { return new512(&variants[4]) }

// Sum224 returns the LSH-256-224 digest of data.
func Sum224(data []byte) [Size224]byte {
	var out [Size224]byte
	oneShot(New224(), data, out[:])
	return out
}

// Sum256 returns the LSH-256-256 digest of data.
func Sum256(data []byte) [Size256]byte {
	var out [Size256]byte
	oneShot(New256(), data, out[:])
	return out
}

// Sum384 returns the LSH-512-384 digest of data.
func Sum384(data []byte) [Size384]byte {
	var out [Size384]byte
	oneShot(New384(), data, out[:])
	return out
}

// Sum512 returns the LSH-512-512 digest of data.
func Sum512(data []byte) [Size512]byte {
	var out [Size512]byte
	oneShot(New512(), data, out[:])
	return out
}

// Sum512_256 returns the LSH-512-256 digest of data.
func Sum512_256(data []byte) [Size512_256]byte {
	var out [Size512_256]byte
	oneShot(New512_256(), data, out[:])
	return out
}

func oneShot(h Hasher, data, out []byte) {
	h.Write(data)
	sum, err := h.Finish(len(out))
	if err != nil {
		panic(err) // unreachable: len(out) is the variant size
	}
	copy(out, sum)
}
