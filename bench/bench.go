package main

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash/crc64"
	"math/rand"
	"runtime"
	"testing"
	"time"

	"github.com/lsh-go/lsh"
	"github.com/zeebo/blake3"
)

// Copyright © 2024 The lsh-go Authors. Licensed under the Apache-2.0 license.
/* This file is the benchmarking suite for the Go implementation of the LSH hash family. */

func makeBytes(size int64, b *testing.B) []byte {
	bytes := make([]byte, size)
	written, err := rand.Read(bytes)
	if err != nil || int64(written) != size {
		panic(fmt.Sprintf("failed to generate %dB random data", size))
	}
	b.ResetTimer()
	b.SetBytes(size)
	return bytes
}

func report(name string, fn func(b *testing.B)) {
	r := testing.Benchmark(fn)
	speed := float64(r.Bytes*int64(r.N)) / float64(r.T.Nanoseconds()) * 1e3
	usage := float64(r.AllocedBytesPerOp()) / 1e6
	fmt.Printf(name+"      %7.2fMB/s      %7.2fMB/op\n", speed, usage)
}

func lsh256(name string, size int64) {
	report(name, func(b *testing.B) {
		bytes := makeBytes(size, b)
		for i := 0; i < b.N; i++ {
			_ = lsh.Sum256(bytes)
		}
	})
}

func lsh512(name string, size int64) {
	report(name, func(b *testing.B) {
		bytes := makeBytes(size, b)
		for i := 0; i < b.N; i++ {
			_ = lsh.Sum512(bytes)
		}
	})
}

/* SHA-256 is faster only on ARM, SHA-512 is faster on most other architectures. */
func sha2(name string, size int64) {
	report(name, func(b *testing.B) {
		bytes := makeBytes(size, b)
		switch runtime.GOARCH {
		case "arm64":
			for i := 0; i < b.N; i++ {
				_ = sha256.Sum256(bytes)
			}
		default:
			for i := 0; i < b.N; i++ {
				_ = sha512.Sum512(bytes)
			}
		}
	})
}

func b3(name string, size int64) {
	report(name, func(b *testing.B) {
		bytes := makeBytes(size, b)
		for i := 0; i < b.N; i++ {
			_ = blake3.Sum512(bytes)
		}
	})
}

func crc(name string, size int64) {
	report(name, func(b *testing.B) {
		bytes := makeBytes(size, b)
		table := crc64.MakeTable(rand.Uint64())
		for i := 0; i < b.N; i++ {
			_ = crc64.Checksum(bytes, table)
		}
	})
}

func main() {
	fmt.Printf("Running benchmarks!\n\n" +
		"Function:         Speed:           Usage:\n")

	t := time.Now()
	for _, size := range []int64{8, 1024 * 1024 * 64, 1024 * 1024 * 1024} {
		suffix := map[int64]string{8: "-8B ", 1024 * 1024 * 64: "-64M", 1024 * 1024 * 1024: "-1G "}[size]
		lsh256("LSH-256"+suffix, size)
		lsh512("LSH-512"+suffix, size)
		sha2("SHA2"+suffix+"   ", size)
		b3("BLAKE3"+suffix+" ", size)
		crc("CRC-64"+suffix+" ", size)
		println()
	}

	fmt.Printf("\nFinished in %s on %s/%s.\n", time.Since(t), runtime.GOOS, runtime.GOARCH)
}
