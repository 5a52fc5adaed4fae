package lsh

import (
	"encoding/binary"
	"math/bits"
)

// Copyright © 2024 The lsh-go Authors. Licensed under the Apache-2.0 license.
// This file is the 32-bit-word compression engine shared by LSH-256-224 and
// LSH-256-256, together with its streaming digest front end.

const (
	// BlockSize256 is the message block size of the 32-bit-word engine.
	BlockSize256 = 128

	// Size224 is the digest size of LSH-256-224 in bytes.
	Size224 = 28

	// Size256 is the digest size of LSH-256-256 in bytes.
	Size256 = 32
)

const numSteps256 = 26

// Mix rotation amounts. Even-numbered steps use one (α, β) pair, odd-numbered
// steps the other; γ is fixed per word lane.
const (
	alphaEven256, betaEven256 = 29, 1
	alphaOdd256, betaOdd256   = 5, 17
)

var gamma256 = [8]int{0, 8, 16, 24, 24, 16, 8, 0}

// Initialization vectors, KS X 3262 Annex values.
var iv224 = [16]uint32{
	0x068608d3, 0x62d8f7a7, 0xd76652ab, 0x4c600a43,
	0xbdc40aa8, 0x1eca0b68, 0xda1a89be, 0x3147d354,
	0x707eb4f9, 0xf65b3862, 0x6b0b2abe, 0x56b8ec0a,
	0xcf237286, 0xee0d1727, 0x33636595, 0x8bb8d05f,
}

var iv256 = [16]uint32{
	0x46a10f1f, 0xfddce486, 0xb41443a8, 0x198e6b9d,
	0x3304388d, 0xb0f5a3c7, 0xb36061c4, 0x7adbd553,
	0x105d5378, 0x2f74de54, 0x5c2f2d95, 0xf2553fbe,
	0x8051357a, 0x138668c8, 0x47aa4484, 0xe01afb41,
}

// Step constants, eight words per step. Row j+1 of the published table equals
// row j with each word w replaced by w + rotl8(w).
var stepConstants256 = [8 * numSteps256]uint32{
	0x917caf90, 0x6c1b10a2, 0x6f352943, 0xcf778243,
	0x2ceb7472, 0x29e96ff2, 0x8a9ba428, 0x2eeb2642,
	0x0e2c4021, 0x872bb30e, 0xa45e6cb2, 0x46f9c612,
	0x185fe69e, 0x1359621b, 0x263fccb2, 0x1a116870,
	0x3a6c612f, 0xb2dec195, 0x02cb1f56, 0x40bfd858,
	0x784684b6, 0x6cbb7d2e, 0x660c7ed8, 0x2b79d88a,
	0xa6cd9069, 0x91a05747, 0xcdea7558, 0x00983098,
	0xbecb3b2e, 0x2838ab9a, 0x728b573e, 0xa55262b5,
	0x745dfa0f, 0x31f79ed8, 0xb85fce25, 0x98c8c898,
	0x8a0669ec, 0x60e445c2, 0xfde295b0, 0xf7b5185a,
	0xd2580983, 0x29967709, 0x182df3dd, 0x61916130,
	0x90705676, 0x452a0822, 0xe07846ad, 0xaccd7351,
	0x2a618d55, 0xc00d8032, 0x4621d0f5, 0xf2f29191,
	0x00c6cd06, 0x6f322a67, 0x58bef48d, 0x7a40c4fd,
	0x8beee27f, 0xcd8db2f2, 0x67f2c63b, 0xe5842383,
	0xc793d306, 0xa15c91d6, 0x17b381e5, 0xbb05c277,
	0x7ad1620a, 0x5b40a5bf, 0x5ab901a2, 0x69a7a768,
	0x5b66d9cd, 0xfdee6877, 0xcb3566fc, 0xc0c83a32,
	0x4c336c84, 0x9be6651a, 0x13baa3fc, 0x114f0fd1,
	0xc240a728, 0xec56e074, 0x009c63c7, 0x89026cf2,
	0x7f9ff0d0, 0x824b7fb5, 0xce5ea00f, 0x605ee0e2,
	0x02e7cfea, 0x43375560, 0x9d002ac7, 0x8b6f5f7b,
	0x1f90c14f, 0xcdcb3537, 0x2cfeafdd, 0xbf3fc342,
	0xeab7b9ec, 0x7a8cb5a3, 0x9d2af264, 0xfacedb06,
	0xb052106e, 0x99006d04, 0x2bae8d09, 0xff030601,
	0xa271a6d6, 0x0742591d, 0xc81d5701, 0xc9a9e200,
	0x02627f1e, 0x996d719d, 0xda3b9634, 0x02090800,
	0x14187d78, 0x499b7624, 0xe57458c9, 0x738be2c9,
	0x64e19d20, 0x06df0f36, 0x15d1cb0e, 0x0b110802,
	0x2c95f58c, 0xe5119a6d, 0x59cd22ae, 0xff6eac3c,
	0x467ebd84, 0xe5ee453c, 0xe79cd923, 0x1c190a0d,
	0xc28b81b8, 0xf6ac0852, 0x26efd107, 0x6e1ae93b,
	0xc53c41ca, 0xd4338221, 0x8475fd0a, 0x35231729,
	0x4e0d3a7a, 0xa2b45b48, 0x16c0d82d, 0x890424a9,
	0x017e0c8f, 0x07b5a3f5, 0xfa73078e, 0x583a405e,
	0x5b47b4c8, 0x570fa3ea, 0xd7990543, 0x8d28ce32,
	0x7f8a9b90, 0xbd5998fc, 0x6d7a9688, 0x927a9eb6,
	0xa2fc7d23, 0x66b38e41, 0x709e491a, 0xb5f700bf,
	0x0a262c0f, 0x16f295b9, 0xe8111ef5, 0x0d195548,
	0x9f79a0c5, 0x1a41cfa7, 0x0ee7638a, 0xacf7c074,
	0x30523b19, 0x09884ecf, 0xf93014dd, 0x266e9d55,
	0x191a6664, 0x5c1176c1, 0xf64aed98, 0xa4b83520,
	0x828d5449, 0x91d71dd8, 0x2944f2d6, 0x950bf27b,
	0x3380ca7d, 0x6d88381d, 0x4138868e, 0x5ced55c4,
	0x0fe19dcb, 0x68f4f669, 0x6e37c8ff, 0xa0fe6e10,
	0xb44b47b0, 0xf5c0558a, 0x79bf14cf, 0x4a431a20,
	0xf17f68da, 0x5deb5fd1, 0xa600c86d, 0x9f6c7eb0,
	0xff92f864, 0xb615e07f, 0x38d3e448, 0x8d5d3a6a,
	0x70e843cb, 0x494b312e, 0xa6c93613, 0x0beb2f4f,
	0x928b5d63, 0xcbf66035, 0x0cb82c80, 0xea97a4f7,
	0x592c0f3b, 0x947c5f77, 0x6fff49b9, 0xf71a7e5a,
	0x1de8c0f5, 0xc2569600, 0xc4e4ac8c, 0x823c9ce1,
}

// digest256 is the streaming state of the 32-bit-word engine: a dual-pipe
// chaining value, a partial-block buffer, and the total message length.
type digest256 struct {
	v        *Variant
	iv       *[16]uint32
	cvL, cvR [8]uint32
	buf      [BlockSize256]byte
	nx       int
	done     bool
}

func new256(v *Variant) *digest256 {
	d := &digest256{v: v, iv: &iv256}
	if v.DigestSize == Size224 {
		d.iv = &iv224
	}
	d.Reset()
	return d
}

func (d *digest256) Reset() {
	copy(d.cvL[:], d.iv[:8])
	copy(d.cvR[:], d.iv[8:])
	d.nx = 0
	d.done = false
}

func (d *digest256) Size() int { return d.v.DigestSize }

func (d *digest256) BlockSize() int { return BlockSize256 }

func (d *digest256) AlgorithmName() string { return d.v.Name }

func (d *digest256) Write(p []byte) (int, error) {
	if d.done {
		return 0, ErrInvalidState
	}
	n := len(p)
	if d.nx > 0 {
		c := copy(d.buf[d.nx:], p)
		d.nx += c
		if d.nx == BlockSize256 {
			compress256(&d.cvL, &d.cvR, d.buf[:])
			d.nx = 0
		}
		p = p[c:]
	}
	for len(p) >= BlockSize256 {
		compress256(&d.cvL, &d.cvR, p[:BlockSize256])
		p = p[BlockSize256:]
	}
	if len(p) > 0 {
		d.nx = copy(d.buf[:], p)
	}
	return n, nil
}

func (d *digest256) Finish(size int) ([]byte, error) {
	if size < 1 || size > d.v.DigestSize {
		return nil, ErrInvalidDigestSize
	}
	if d.done {
		return nil, ErrInvalidState
	}

	// One-zeros padding: LSH appends no length word, so the final block is
	// always exactly one compression.
	d.buf[d.nx] = 0x80
	for i := d.nx + 1; i < BlockSize256; i++ {
		d.buf[i] = 0
	}
	compress256(&d.cvL, &d.cvR, d.buf[:])

	var out [Size256]byte
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint32(out[4*i:], d.cvL[i]^d.cvR[i])
	}
	d.done = true
	sum := make([]byte, size)
	copy(sum, out[:])
	return sum, nil
}

// Sum appends the full-length digest of a copy of d to b. It never
// invalidates d; a hasher already consumed by Finish panics, as the state it
// would serialize no longer exists.
func (d *digest256) Sum(b []byte) []byte {
	dd := *d
	sum, err := dd.Finish(d.v.DigestSize)
	if err != nil {
		panic(err)
	}
	return append(b, sum...)
}

// compress256 absorbs one 128-byte block into the chaining state.
func compress256(cvL, cvR *[8]uint32, block []byte) {
	var el, er, ol, or [8]uint32
	for i := 0; i < 8; i++ {
		el[i] = binary.LittleEndian.Uint32(block[4*i:])
		er[i] = binary.LittleEndian.Uint32(block[32+4*i:])
		ol[i] = binary.LittleEndian.Uint32(block[64+4*i:])
		or[i] = binary.LittleEndian.Uint32(block[96+4*i:])
	}

	msgAdd256(cvL, cvR, &el, &er)
	mix256(cvL, cvR, stepConstants256[0:8], alphaEven256, betaEven256)
	wordPerm256(cvL, cvR)

	msgAdd256(cvL, cvR, &ol, &or)
	mix256(cvL, cvR, stepConstants256[8:16], alphaOdd256, betaOdd256)
	wordPerm256(cvL, cvR)

	for i := 1; i < numSteps256/2; i++ {
		msgExp256(&el, &ol)
		msgExp256(&er, &or)
		msgAdd256(cvL, cvR, &el, &er)
		mix256(cvL, cvR, stepConstants256[16*i:16*i+8], alphaEven256, betaEven256)
		wordPerm256(cvL, cvR)

		msgExp256(&ol, &el)
		msgExp256(&or, &er)
		msgAdd256(cvL, cvR, &ol, &or)
		mix256(cvL, cvR, stepConstants256[16*i+8:16*i+16], alphaOdd256, betaOdd256)
		wordPerm256(cvL, cvR)
	}

	// Trailing message addition without a mix step.
	msgExp256(&el, &ol)
	msgExp256(&er, &or)
	msgAdd256(cvL, cvR, &el, &er)
}

// msgExp256 regenerates one pipe half of the sub-message for the next step of
// the same parity: dst[l] = src[l] + dst[τ(l)], with τ cycling each group of
// four lanes.
func msgExp256(dst, src *[8]uint32) {
	t := dst[0]
	dst[0] = src[0] + dst[3]
	dst[3] = src[3] + dst[1]
	dst[1] = src[1] + dst[2]
	dst[2] = src[2] + t
	t = dst[4]
	dst[4] = src[4] + dst[7]
	dst[7] = src[7] + dst[6]
	dst[6] = src[6] + dst[5]
	dst[5] = src[5] + t
}

func msgAdd256(cvL, cvR, sl, sr *[8]uint32) {
	for i := 0; i < 8; i++ {
		cvL[i] ^= sl[i]
		cvR[i] ^= sr[i]
	}
}

func mix256(cvL, cvR *[8]uint32, sc []uint32, alpha, beta int) {
	for i := 0; i < 8; i++ {
		cvL[i] += cvR[i]
		cvL[i] = bits.RotateLeft32(cvL[i], alpha) ^ sc[i]
		cvR[i] += cvL[i]
		cvR[i] = bits.RotateLeft32(cvR[i], beta)
		cvL[i] += cvR[i]
		cvR[i] = bits.RotateLeft32(cvR[i], gamma256[i])
	}
}

// wordPerm256 applies the fixed 16-word lane permutation
// σ = {6,4,5,7,12,15,14,13,2,0,1,3,8,11,10,9} over cvL‖cvR, written as its
// two cycles.
func wordPerm256(cvL, cvR *[8]uint32) {
	t := cvL[0]
	cvL[0] = cvL[6]
	cvL[6] = cvR[6]
	cvR[6] = cvR[2]
	cvR[2] = cvL[1]
	cvL[1] = cvL[4]
	cvL[4] = cvR[4]
	cvR[4] = cvR[0]
	cvR[0] = cvL[2]
	cvL[2] = cvL[5]
	cvL[5] = cvR[7]
	cvR[7] = cvR[1]
	cvR[1] = t
	t = cvL[3]
	cvL[3] = cvL[7]
	cvL[7] = cvR[5]
	cvR[5] = cvR[3]
	cvR[3] = t
}
