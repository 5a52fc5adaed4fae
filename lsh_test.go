package lsh

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/aead/chacha20/chacha"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/sha3"
)

// Copyright © 2024 The lsh-go Authors. Licensed under the Apache-2.0 license.

// pat returns n bytes of a fixed non-repeating pattern, the same inputs the
// reference vectors below were produced from.
func pat(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + 1)
	}
	return p
}

var alnum = bytes.Repeat([]byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"), 2)

// keystream fills a deterministic pseudorandom buffer. Seeded ChaCha rather
// than math/rand so the stream is stable across Go releases.
func keystream(n int) []byte {
	var key [32]byte
	var nonce [24]byte
	copy(key[:], "lsh test keystream, not secret!!")
	c, err := chacha.NewCipher(nonce[:], key[:], 20)
	if err != nil {
		panic(err)
	}
	p := make([]byte, n)
	c.XORKeyStream(p, p)
	return p
}

func mustFinish(t *testing.T, h Hasher, size int) []byte {
	t.Helper()
	sum, err := h.Finish(size)
	if err != nil {
		t.Fatalf("%s: Finish(%d) error = %v", h.AlgorithmName(), size, err)
	}
	return sum
}

// The empty-input and "abc" rows are the digests published with KS X 3262;
// the pattern-message rows extend them across both engines' block
// boundaries. A change to any constant table or round function shows up here
// first.
func TestKnownAnswers(t *testing.T) {
	for _, tt := range []struct {
		alg  string
		msg  []byte
		want string
	}{
		{"LSH-256-224", nil, "48a0d55b2b3d91f26e06f7110fe9ce8ea0e2656bbe344cb1c5930653"},
		{"LSH-256-224", []byte("abc"), "f7c53ba4034e708e74fba42e55997ca5126bb7623688f85342f73732"},
		{"LSH-256-224", alnum, "eb7afb6bcd7f28046e766097672c92a41f83c6514d34dfef796a1765"},
		{"LSH-256-224", pat(127), "1ce30cccf87e91ed375b1d700a116e776e8ffb29374a14fd72454300"},
		{"LSH-256-224", pat(128), "3330834cd26261b6e520d54c74fe649362b6a0872037fc93c06ac0c2"},
		{"LSH-256-224", pat(129), "d5371caf1eba9172baa4062320c10b314c5963406ce4fc3a54371c31"},
		{"LSH-256-224", pat(255), "20a0c6373f47115f0e3fb48f05a554f68312115853af281e60bab662"},
		{"LSH-256-224", pat(256), "5d3ae0f1a88c82217c29a8a56da57d17f583f19feba11dcc04b336b7"},
		{"LSH-256-224", pat(257), "7cc9540645c469821d06eaee6c5b408a24a0cfa3884b53ac15e0abfc"},
		{"LSH-256-224", pat(1000), "c96d070c8fae40c019a57eb1cf9fed8dc80967779aa47ff698aee9b0"},
		{"LSH-256-256", nil, "f3cd416a03818217726cb47f4e4d2881c9c29fd445c18b66fb19dea1a81007c1"},
		{"LSH-256-256", []byte("abc"), "5fbf365daea5446a7053c52b57404d77a07a5f48a1f7c1963a0898ba1b714741"},
		{"LSH-256-256", alnum, "3859c901ecc025d4c87619c3a5e3731311a46fba42c8dd274069201e34951a8a"},
		{"LSH-256-256", pat(127), "63bfeb7072d1148fcf9bcc1ee1e995004be5ab570bbbbfef0151a4fe01c82517"},
		{"LSH-256-256", pat(128), "b6e1f18780e6b999de71ed6cb30cccf693dec22cea344c0f91cfbaa375581cbc"},
		{"LSH-256-256", pat(129), "f732454b10931a38cd3692da1d94925da6687e86b4fa88077e8368323aeeee10"},
		{"LSH-256-256", pat(255), "f11d799e1d936472d070c151fb41b92e48f8ebe0a04411e4b767c690fcd68e8e"},
		{"LSH-256-256", pat(256), "a036ce543856758b66db24801783f0379c391e7236fc261bc1b97f51480703a9"},
		{"LSH-256-256", pat(257), "ae8feec8d61e0ec65a0a8bc1419b4b07d5be6deada0156805df66a4f7946781c"},
		{"LSH-256-256", pat(1000), "5963152ab1b6d3e093a84acb71f726563dd12ced155a3a679fd82e4ce938e167"},
		{"LSH-512-384", nil, "dbb259cf22459368ab2c52b3e1c977288b38670adcb91cae6b8b6a2d646e76f8bd53e5cab0e47c856f55249b895c1730"},
		{"LSH-512-384", []byte("abc"), "5f344efaa0e43ccd2e5e194d6039794b4fb431f10fb4b65fd45e9da4ecde0f27b66e8dbdfa47252e0d0b741bfd91f9fe"},
		{"LSH-512-384", alnum, "25b7b77f447783158c0cd64b78d5c3201c8bdcdc136b94276e77b756c69a54e4e2b8e1c3a83a388b47bc591990fab255"},
		{"LSH-512-384", pat(127), "332ab442c29657f3c897d992145205a212663ccba8ebaeb20fc587effff2a55d025321ab9ea3cf8918239fd1eb65a25e"},
		{"LSH-512-384", pat(128), "10326c5f8edaa25fb09789408e6e11fb3f4291159c620019707d334e1957af21af809a3a216a6218272836c3e3405def"},
		{"LSH-512-384", pat(129), "37bb5819ddc702ebb70390928a94b030e84c3055589e4af069d641ea18306b999000a75d9637cee81b1066a92840072e"},
		{"LSH-512-384", pat(255), "1cab29b2283cebf20711fd746be6483289044b2aef361887de6ca09ced3a5e77c97109edecbbecc7df53ad42344e2aff"},
		{"LSH-512-384", pat(256), "482123f5983369c522e392395bdbf2fbb2ee2217ca6fa053bcae8854d4b2b8640d9e5dcf21f230380c5648829ba67e92"},
		{"LSH-512-384", pat(257), "0c405f117cebb36f42d85eb8176aa64587138279529b6d3d174fa19d005ff35a969f73a3b293d1d14d28e0eb43de2634"},
		{"LSH-512-384", pat(1000), "099aa42158669c8b53280f5b7a305e77df120e5407ee3411717743f522f7c15d8df9939cc2710b8f9adbd9b1241026be"},
		{"LSH-512-512", nil, "118a2ff2a99e3b2134125e2baf20ebe3bdd034d5a69b29c22fc4995063340b46697801d7f7fb0070568f78e8ed514215fc70af27d6f27b01aa8a1da72b14ce7c"},
		{"LSH-512-512", []byte("abc"), "a3d93cfe60dc1aacdd3bd4bef0a6985381a396c7d49d9fd177795697c3535208b5c57224bef21084d42083e95a4bd8eb33e869812b65031c428819a1e7ce596d"},
		{"LSH-512-512", alnum, "95bf9949397bae8568a2c6731c0d2572579caeed97dcc7e97813062e6c16304f6bea8f300f2bfe80189e9790867c5a596ded6ff9d712374d558e2c351ade3be7"},
		{"LSH-512-512", pat(127), "5b2d858d276504485770a0e6c46a8058c3256a49192ee65b2b4ff63fc56f8839a39417ec5be411af5b1a033eaaf45af9c3b1c66f413acbb45a816609e81791a8"},
		{"LSH-512-512", pat(128), "83182e4a4c93edb685686e4341a892e9994e3049c991d3c7c94d0098ad38533866acc1ed60d0e3ee2e83cec58f5ae681abc601a5c525a5aae90daa66ee701c0d"},
		{"LSH-512-512", pat(129), "367693149494e69b359076a0eef1647ae43047a69942e1641ff40579c4a9af08b4b7cc324c36f0892f43ba67eb00caa171ab15bd013d1e4ac9db5365dcff811f"},
		{"LSH-512-512", pat(255), "e52f710ed8826a188c897465b3a4c08b226d08834827a693ba85e03ae3d25a12f1d6bc0593c79e503f509255ed7367fac931f75ccddfb9a6d01a95d03dac9b70"},
		{"LSH-512-512", pat(256), "a30ba6f6d9dc819907a1ae6cf87ea8bf9b9f827eeb9808396a68912d970b82573a40d007b2e93dd0ab90e51c829e070f4a79205d53c4d130fb915959efa4824a"},
		{"LSH-512-512", pat(257), "2c975fc7c066b82ebe97ea3966f3e97d70f5ce471d3c16b243723a3fcb82530bb7afca244a2abb578ef55a3881e77c93a39ce814ab2eca56d78f75ff5fa14d25"},
		{"LSH-512-512", pat(1000), "d0b11b0d2568ab1d2d225881f91fde5aa0897c5183265c6894b3d967246a45a8fffe589bc1744f9856c0fac8c5bdfd865c25109b64aa5ad095894df1a3e32406"},
		{"LSH-512-256", nil, "706df4ebf100f06d5cc9f6c79be5297c3f6f515801dd10fbc1b665a2d7bdb653"},
		{"LSH-512-256", []byte("abc"), "cd892310532602332b613f1ec11a6962fca61ea09ecffcd4bcf75858d802edec"},
		{"LSH-512-256", alnum, "8f3e8a9e0a32fd93a4df7d1834a361f33bfbbc79e1e5f1b54a7f3080801883f1"},
		{"LSH-512-256", pat(127), "7189c369efeebe6ab36257e64346b987ab76eaea78e20c110e7138537bcc9314"},
		{"LSH-512-256", pat(128), "693eab262378529eaa7c78155dc9dfedc7a68c7a6643be7fbc7012afd4a7fa1a"},
		{"LSH-512-256", pat(129), "5ce7dde07a340935a30856554bd2786fe147ab0dedd73599fee4500cc064c9d3"},
		{"LSH-512-256", pat(255), "a521d7f45b4a607b88cd1f4170afbc2ce28bfe008943746db38b8747a9aafeeb"},
		{"LSH-512-256", pat(256), "f009464e0a838b8eb29818f47b578247b51d50c56bcae2bcb3eca0e9b6f8ab73"},
		{"LSH-512-256", pat(257), "99e2254898448d1566c84f7a32db76cd33905df031621bb0b6decf52f42570d8"},
		{"LSH-512-256", pat(1000), "ec7739ffc1af30abd0f1118f8e52267524c95399ff9e55bcf79859f246b578d0"},
	} {
		h, err := NewByName(tt.alg)
		if err != nil {
			t.Fatalf("NewByName(%q) error = %v", tt.alg, err)
		}
		h.Write(tt.msg)
		got := mustFinish(t, h, h.Size())
		if hex.EncodeToString(got) != tt.want {
			t.Errorf("%s(%d bytes) = %x, want %s", tt.alg, len(tt.msg), got, tt.want)
		}
	}
}

func TestSumHelpers(t *testing.T) {
	msg := pat(129)
	for _, tt := range []struct {
		alg string
		got []byte
	}{
		{"LSH-256-224", func() []byte { s := Sum224(msg); return s[:] }()},
		{"LSH-256-256", func() []byte { s := Sum256(msg); return s[:] }()},
		{"LSH-512-384", func() []byte { s := Sum384(msg); return s[:] }()},
		{"LSH-512-512", func() []byte { s := Sum512(msg); return s[:] }()},
		{"LSH-512-256", func() []byte { s := Sum512_256(msg); return s[:] }()},
	} {
		h, _ := NewByName(tt.alg)
		h.Write(msg)
		want := mustFinish(t, h, h.Size())
		if !bytes.Equal(tt.got, want) {
			t.Errorf("%s one-shot = %x, streaming = %x", tt.alg, tt.got, want)
		}
	}
}

func TestChunkingInvariance(t *testing.T) {
	msg := keystream(16 << 10)
	splits := keystream(32 << 10)[16<<10:]
	for _, v := range Variants() {
		whole, _ := NewByName(v.Name)
		whole.Write(msg)
		want := mustFinish(t, whole, v.DigestSize)

		chunked, _ := NewByName(v.Name)
		rest, i := msg, 0
		for len(rest) > 0 {
			n := int(splits[i%len(splits)])%(2*v.BlockSize) + 1
			i++
			if n > len(rest) {
				n = len(rest)
			}
			chunked.Write(rest[:n])
			rest = rest[n:]
		}
		chunked.Write(nil) // zero-length update is a no-op
		got := mustFinish(t, chunked, v.DigestSize)
		if !bytes.Equal(got, want) {
			t.Errorf("%s: chunked = %x, whole = %x", v.Name, got, want)
		}
	}
}

func TestDeterminism(t *testing.T) {
	msg := keystream(4096)
	for _, v := range Variants() {
		a, _ := NewByName(v.Name)
		b, _ := NewByName(v.Name)
		a.Write(msg)
		b.Write(msg)
		if !bytes.Equal(mustFinish(t, a, v.DigestSize), mustFinish(t, b, v.DigestSize)) {
			t.Errorf("%s: two fresh instances disagree", v.Name)
		}
	}
}

func TestAvalanche(t *testing.T) {
	msg := keystream(512)
	for _, v := range Variants() {
		base, _ := NewByName(v.Name)
		base.Write(msg)
		want := mustFinish(t, base, v.DigestSize)

		flipped := append([]byte(nil), msg...)
		flipped[200] ^= 0x10
		h, _ := NewByName(v.Name)
		h.Write(flipped)
		got := mustFinish(t, h, v.DigestSize)

		diff := 0
		for i := range got {
			diff += popcount8(got[i] ^ want[i])
		}
		total := v.DigestSize * 8
		// Regression guard, not an exact invariant: a healthy ARX core lands
		// near 50% flipped bits.
		if diff < total*35/100 || diff > total*65/100 {
			t.Errorf("%s: single-bit flip changed %d/%d digest bits", v.Name, diff, total)
		}
	}
}

func popcount8(b byte) int {
	n := 0
	for ; b != 0; b &= b - 1 {
		n++
	}
	return n
}

func TestFinishSizeBounds(t *testing.T) {
	for _, v := range Variants() {
		h, _ := NewByName(v.Name)
		h.Write([]byte("abc"))
		for _, size := range []int{0, -1, v.DigestSize + 1} {
			if _, err := h.Finish(size); !errors.Is(err, ErrInvalidDigestSize) {
				t.Errorf("%s: Finish(%d) error = %v, want ErrInvalidDigestSize", v.Name, size, err)
			}
		}
		// The rejected requests must not have touched the state.
		got := mustFinish(t, h, v.DigestSize)
		ref, _ := NewByName(v.Name)
		ref.Write([]byte("abc"))
		if !bytes.Equal(got, mustFinish(t, ref, v.DigestSize)) {
			t.Errorf("%s: state mutated by rejected Finish", v.Name)
		}
	}
}

func TestTruncatedFinishIsPrefix(t *testing.T) {
	msg := pat(300)
	for _, v := range Variants() {
		full, _ := NewByName(v.Name)
		full.Write(msg)
		want := mustFinish(t, full, v.DigestSize)
		for _, size := range []int{1, v.DigestSize / 2, v.DigestSize} {
			h, _ := NewByName(v.Name)
			h.Write(msg)
			got := mustFinish(t, h, size)
			if !bytes.Equal(got, want[:size]) {
				t.Errorf("%s: Finish(%d) = %x, want prefix %x", v.Name, size, got, want[:size])
			}
		}
	}
}

func TestInvalidStateAfterFinish(t *testing.T) {
	h := New256()
	h.Write([]byte("abc"))
	mustFinish(t, h, Size256)

	if _, err := h.Write([]byte("more")); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Write after Finish error = %v, want ErrInvalidState", err)
	}
	if _, err := h.Finish(Size256); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Finish error = %v, want ErrInvalidState", err)
	}

	// Reset fully restores the instance.
	h.Reset()
	h.Write(pat(128))
	got := mustFinish(t, h, Size256)
	fresh := New256()
	fresh.Write(pat(128))
	if !bytes.Equal(got, mustFinish(t, fresh, Size256)) {
		t.Errorf("reused hasher after Reset disagrees with fresh instance")
	}
}

func TestSumIsNonDestructive(t *testing.T) {
	head, tail := pat(100), pat(300)[100:]
	h := New512()
	h.Write(head)
	first := h.Sum([]byte("prefix"))
	if !bytes.HasPrefix(first, []byte("prefix")) {
		t.Fatalf("Sum did not append to its argument")
	}
	h.Write(tail)
	got := h.Sum(nil)

	want := Sum512(pat(300))
	if !bytes.Equal(got, want[:]) {
		t.Errorf("Sum after interleaved Sum/Write = %x, want %x", got, want)
	}
}

func TestVariantTable(t *testing.T) {
	vs := Variants()
	if len(vs) != 5 {
		t.Fatalf("Variants() returned %d entries, want 5", len(vs))
	}
	for _, v := range vs {
		h, err := NewByName(v.Name)
		if err != nil {
			t.Fatalf("NewByName(%q) error = %v", v.Name, err)
		}
		if h.Size() != v.DigestSize || h.BlockSize() != v.BlockSize || h.AlgorithmName() != v.Name {
			t.Errorf("%s: introspection mismatch with descriptor %+v", v.Name, v)
		}
	}
	if _, err := NewByName("LSH-1024"); err == nil {
		t.Errorf("NewByName accepted an unknown algorithm")
	}
}

// σ = {6,4,5,7,12,15,14,13,2,0,1,3,8,11,10,9} over cvL‖cvR. Checked lane by
// lane because the in-place cycle form in wordPerm256/wordPerm512 is easy to
// derange silently: lanes 9 and 11 belong to a separate 4-cycle, not to the
// long cycle.
func TestWordPermutation(t *testing.T) {
	sigma := [16]int{6, 4, 5, 7, 12, 15, 14, 13, 2, 0, 1, 3, 8, 11, 10, 9}

	var l32, r32 [8]uint32
	for i := range l32 {
		l32[i], r32[i] = uint32(i), uint32(i+8)
	}
	wordPerm256(&l32, &r32)
	for i, want := range sigma {
		got := l32[i%8]
		if i >= 8 {
			got = r32[i%8]
		}
		if got != uint32(want) {
			t.Errorf("32-bit lane %d = %d, want %d", i, got, want)
		}
	}

	var l64, r64 [8]uint64
	for i := range l64 {
		l64[i], r64[i] = uint64(i), uint64(i+8)
	}
	wordPerm512(&l64, &r64)
	for i, want := range sigma {
		got := l64[i%8]
		if i >= 8 {
			got = r64[i%8]
		}
		if got != uint64(want) {
			t.Errorf("64-bit lane %d = %d, want %d", i, got, want)
		}
	}
}

var benchSizes = [...]int{64, 1 << 10, 64 << 10, 1 << 20}

func benchSize(n int) string {
	if n >= 1<<10 {
		return itoa(n>>10) + "K"
	}
	return itoa(n) + "B"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [8]byte
	i := len(b)
	for ; n > 0; n /= 10 {
		i--
		b[i] = byte('0' + n%10)
	}
	return string(b[i:])
}

func BenchmarkLSH256(b *testing.B) {
	for _, size := range benchSizes {
		msg := keystream(size)
		b.Run(benchSize(size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Sum256(msg)
			}
		})
	}
}

func BenchmarkLSH512(b *testing.B) {
	for _, size := range benchSizes {
		msg := keystream(size)
		b.Run(benchSize(size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Sum512(msg)
			}
		})
	}
}

func BenchmarkBlake3(b *testing.B) {
	msg := keystream(1 << 20)
	b.SetBytes(1 << 20)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		blake3.Sum256(msg)
	}
}

func BenchmarkXXH3(b *testing.B) {
	msg := keystream(1 << 20)
	b.SetBytes(1 << 20)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		xxh3.Hash(msg)
	}
}

func BenchmarkSHA3_256(b *testing.B) {
	msg := keystream(1 << 20)
	h := sha3.New256()
	b.SetBytes(1 << 20)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h.Reset()
		h.Write(msg)
		h.Sum(nil)
	}
}
