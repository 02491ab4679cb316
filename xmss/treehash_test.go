package xmss

import (
	"bytes"
	"testing"

	"decred.org/cspp/chacha20prng"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, h uint32) *Context {
	ctx, err := NewContext(Params{SHA2, 32, h, 16})
	require.NoError(t, err)
	ctx.Registry = NewIndexRegistry()
	return ctx
}

// Deterministic keypair so tests can compare results across runs.
func testKeyPair(t *testing.T, ctx *Context, seed byte) (*PrivateKey, *PublicKey) {
	prng := chacha20prng.New(bytes.Repeat([]byte{seed}, 32), 0)
	sk, pk, err := ctx.GenerateKeyPair(prng)
	require.NoError(t, err)
	return sk, pk
}

func TestNodeStack(t *testing.T) {
	st := newNodeStack(3)
	combined := 0
	for i := 0; i < 4; i++ {
		st.push([]byte{byte(1 << i)}, 0)
		for st.topTwoEqual() {
			right, level := st.pop()
			left, _ := st.pop()
			st.push([]byte{left[0] | right[0]}, level+1)
			combined++
			require.LessOrEqual(t, st.len(), 3)
		}
	}
	require.Equal(t, 3, combined)
	require.Equal(t, 1, st.len())
	node, level := st.pop()
	require.Equal(t, uint8(2), level)
	require.Equal(t, byte(0x0f), node[0])
}

func TestSplitLevel(t *testing.T) {
	for _, tc := range []struct {
		height  uint32
		workers int
		want    uint32
	}{
		{10, 1, 0},
		{10, 2, 1},
		{10, 3, 2},
		{10, 4, 2},
		{10, 5, 3},
		{10, 8, 3},
		{3, 16, 3},
		{0, 16, 0},
	} {
		require.Equal(t, tc.want, splitLevel(tc.height, tc.workers),
			"height=%d workers=%d", tc.height, tc.workers)
	}
}

// The parallel tree hash must produce exactly the node the sequential
// algorithm produces, for every split level.
func TestTreeHashSequentialParallelEquivalence(t *testing.T) {
	for _, h := range []uint32{1, 2, 4, 6} {
		ctx := testContext(t, h)
		ctx.Threads = 4
		sk, _ := testKeyPair(t, ctx, byte(h))

		var addr address
		a := addr
		want := sk.treeHashSubtree(0, h, &a)
		require.Equal(t, want, sk.root)

		for s := uint32(1); s <= h; s++ {
			got := sk.treeHashParallel(0, h, s, addr)
			require.Equalf(t, want, got, "h=%d split=%d", h, s)
		}
		require.Equal(t, want, sk.treeHash(0, h, addr))
	}
}

// Same equivalence for inner nodes that do not start at leaf zero.
func TestTreeHashSubrangeEquivalence(t *testing.T) {
	ctx := testContext(t, 6)
	ctx.Threads = 4
	sk, _ := testKeyPair(t, ctx, 42)

	var addr address
	for start := uint64(0); start < 64; start += 16 {
		a := addr
		want := sk.treeHashSubtree(start, 4, &a)
		for s := uint32(1); s <= 4; s++ {
			got := sk.treeHashParallel(start, 4, s, addr)
			require.Equalf(t, want, got, "start=%d split=%d", start, s)
		}
	}
}

// h=4, 32-byte nodes, four subtrees of height 2.
func TestTreeHashSplitTwoMatchesSequential(t *testing.T) {
	ctx := testContext(t, 4)
	ctx.Threads = 4
	sk, _ := testKeyPair(t, ctx, 7)

	var addr address
	a := addr
	seq := sk.treeHashSubtree(0, 4, &a)
	require.Len(t, seq, 32)
	require.Equal(t, seq, sk.treeHashParallel(0, 4, 2, addr))
}

func TestTreeHashZeroHeightReturnsLeaf(t *testing.T) {
	ctx := testContext(t, 4)
	sk, _ := testKeyPair(t, ctx, 3)

	var cursor address
	leaf := sk.genLeaf(3, &cursor)
	require.Equal(t, leaf, sk.treeHash(3, 0, address{}))
}

func TestTreeHashMisalignedStartPanics(t *testing.T) {
	ctx := testContext(t, 4)
	sk, _ := testKeyPair(t, ctx, 9)

	require.Panics(t, func() {
		sk.treeHash(1, 2, address{})
	})
}

func BenchmarkTreeHash10(b *testing.B) {
	ctx, _ := NewContext(Params{SHA2, 32, 10, 16})
	ctx.Registry = NewIndexRegistry()
	prng := chacha20prng.New(make([]byte, 32), 0)
	sk, _, err := ctx.GenerateKeyPair(prng)
	if err != nil {
		b.Fatalf("GenerateKeyPair(): %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sk.treeHash(0, 10, address{})
	}
}
