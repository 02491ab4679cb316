package xmss

import (
	"bytes"
	"testing"

	"decred.org/cspp/chacha20prng"
	"github.com/stretchr/testify/require"
)

func TestPrivateKeyRoundTrip(t *testing.T) {
	ctx := testContext(t, 4)
	sk, pk := testKeyPair(t, ctx, 11)

	_, err := sk.Sign([]byte("consume a leaf"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), sk.UnusedLeafIndex())

	raw, merr := sk.MarshalBinary()
	require.NoError(t, merr)
	require.Len(t, raw, int(ctx.PrivateKeySize()))

	sk2, perr := ctx.ParsePrivateKey(raw)
	require.NoError(t, perr)
	require.Equal(t, sk.root, sk2.root)
	require.Equal(t, sk.pubSeed, sk2.pubSeed)
	require.Equal(t, sk.skPrf, sk2.skPrf)
	require.Equal(t, sk.skSeed, sk2.skSeed)
	require.Equal(t, uint64(1), sk2.leafIdx)

	raw2, _ := sk2.MarshalBinary()
	require.Equal(t, raw, raw2)

	// The public portion survives too.
	pkRaw, _ := pk.MarshalBinary()
	require.Equal(t, pkRaw[:32], sk2.root)
}

func TestParsePrivateKeyLength(t *testing.T) {
	ctx := testContext(t, 4)
	sk, _ := testKeyPair(t, ctx, 12)
	raw, _ := sk.MarshalBinary()

	_, err := ctx.ParsePrivateKey(raw[:len(raw)-1])
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected")
	require.False(t, err.Exhausted())

	_, err = ctx.ParsePrivateKey(append(dup(raw), 0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected")
}

func TestParsePrivateKeyLeafIndexBounds(t *testing.T) {
	ctx := testContext(t, 4) // 8 usable leaves
	sk, _ := testKeyPair(t, ctx, 13)
	raw, _ := sk.MarshalBinary()

	atLimit := dup(raw)
	encodeUint64Into(8, atLimit[64:72])
	_, err := ctx.ParsePrivateKey(atLimit)
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of bounds")
	require.False(t, err.Exhausted())

	belowLimit := dup(raw)
	encodeUint64Into(7, belowLimit[64:72])
	sk2, err := ctx.ParsePrivateKey(belowLimit)
	require.NoError(t, err)
	require.Equal(t, uint64(7), sk2.UnusedLeafIndex())
}

func TestNewSignatureOperationProvider(t *testing.T) {
	ctx := testContext(t, 2)
	sk, _ := testKeyPair(t, ctx, 14)

	for _, provider := range []string{"", "base"} {
		op, err := sk.NewSignatureOperation(nil, "", provider)
		require.NoError(t, err, "provider %q", provider)
		require.NotNil(t, op)
	}

	_, err := sk.NewSignatureOperation(nil, "XMSS", "hsm")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"hsm"`)
	require.Contains(t, err.Error(), "XMSS")
}

func TestGenerateKeyPairDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0xa5}, 32)

	ctx1 := testContext(t, 4)
	sk1, pk1, err := ctx1.GenerateKeyPair(chacha20prng.New(seed, 0))
	require.NoError(t, err)

	ctx2 := testContext(t, 4)
	sk2, pk2, err := ctx2.GenerateKeyPair(chacha20prng.New(seed, 0))
	require.NoError(t, err)

	raw1, _ := sk1.MarshalBinary()
	raw2, _ := sk2.MarshalBinary()
	require.Equal(t, raw1, raw2)

	pkRaw1, _ := pk1.MarshalBinary()
	pkRaw2, _ := pk2.MarshalBinary()
	require.Equal(t, pkRaw1, pkRaw2)
}

func TestDeriveRejectsShortSeeds(t *testing.T) {
	ctx := testContext(t, 4)
	_, _, err := ctx.Derive(make([]byte, 32), make([]byte, 16),
		make([]byte, 32))
	require.Error(t, err)
}
