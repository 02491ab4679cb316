package xmss

import (
	cryptoRand "crypto/rand"
	"io"
	"sync"
)

// XMSS private key
type PrivateKey struct {
	ctx     *Context // context, which contains algorithm parameters.
	pubSeed []byte
	root    []byte // root node
	skSeed  []byte // WOTS+ private seed
	skPrf   []byte // PRF seed for message randomization

	mu sync.Mutex
	// Last known first-unused leaf index.  The authoritative value
	// lives in the shared counter; this copy is what MarshalBinary
	// writes.
	leafIdx uint64
	idx     *LeafIndex // shared counter, recovered lazily
}

// Generates an XMSS public/private keypair, drawing all seed material
// from the given random source.  crypto/rand is used if rand is nil.
func (ctx *Context) GenerateKeyPair(rand io.Reader) (
	*PrivateKey, *PublicKey, Error) {
	if rand == nil {
		rand = cryptoRand.Reader
	}
	pubSeed := make([]byte, ctx.p.N)
	skSeed := make([]byte, ctx.p.N)
	skPrf := make([]byte, ctx.p.N)
	if _, err := io.ReadFull(rand, pubSeed); err != nil {
		return nil, nil, wrapErrorf(err, "rand.Read()")
	}
	if _, err := io.ReadFull(rand, skSeed); err != nil {
		return nil, nil, wrapErrorf(err, "rand.Read()")
	}
	if _, err := io.ReadFull(rand, skPrf); err != nil {
		return nil, nil, wrapErrorf(err, "rand.Read()")
	}
	return ctx.Derive(pubSeed, skSeed, skPrf)
}

// Derives an XMSS public/private keypair from the given seeds.
// pubSeed, skSeed and skPrf should be secret random N length byte
// slices.  The root is computed here, over the full tree height.
func (ctx *Context) Derive(pubSeed, skSeed, skPrf []byte) (
	*PrivateKey, *PublicKey, Error) {
	if len(pubSeed) != int(ctx.p.N) || len(skSeed) != int(ctx.p.N) ||
		len(skPrf) != int(ctx.p.N) {
		return nil, nil, errorf(
			"skSeed, skPrf and pubSeed should have length %d", ctx.p.N)
	}

	sk := &PrivateKey{
		ctx:     ctx,
		pubSeed: pubSeed,
		skSeed:  skSeed,
		skPrf:   skPrf,
	}

	var addr address
	sk.root = sk.treeHash(0, ctx.p.FullHeight, addr)

	pk := &PublicKey{
		ctx:     ctx,
		pubSeed: pubSeed,
		root:    sk.root,
	}

	return sk, pk, nil
}

// Parses a private key from its raw layout:
//
//	root ‖ public seed ‖ first-unused leaf index (8 bytes, big endian)
//	     ‖ PRF seed ‖ WOTS+ private seed
//
// The identity is not registered here; the shared counter is recovered
// on first use.
func (ctx *Context) ParsePrivateKey(buf []byte) (*PrivateKey, Error) {
	if uint32(len(buf)) != ctx.skBytes {
		return nil, errorf(
			"invalid private key size: expected %d bytes, got %d",
			ctx.skBytes, len(buf))
	}

	n := ctx.p.N
	leafIdx := decodeUint64(buf[2*n : 2*n+8])
	if leafIdx >= ctx.p.SignatureCapacity() {
		return nil, errorf(
			"private key leaf index out of bounds: %d >= %d",
			leafIdx, ctx.p.SignatureCapacity())
	}

	return &PrivateKey{
		ctx:     ctx,
		root:    dup(buf[:n]),
		pubSeed: dup(buf[n : 2*n]),
		leafIdx: leafIdx,
		skPrf:   dup(buf[2*n+8 : 3*n+8]),
		skSeed:  dup(buf[3*n+8 : 4*n+8]),
	}, nil
}

// Returns the raw private key.  The leaf index written is the value
// cached on this instance; call UnusedLeafIndex first if the output
// must reflect leaf consumption up to the moment of the call.
// Will never return an error.
func (sk *PrivateKey) MarshalBinary() ([]byte, error) {
	n := sk.ctx.p.N
	ret := make([]byte, sk.ctx.skBytes)
	copy(ret, sk.root)
	copy(ret[n:], sk.pubSeed)
	sk.mu.Lock()
	encodeUint64Into(sk.leafIdx, ret[2*n:2*n+8])
	sk.mu.Unlock()
	copy(ret[2*n+8:], sk.skPrf)
	copy(ret[3*n+8:], sk.skSeed)
	return ret, nil
}

// LeafCounter recovers the shared leaf counter of this key's identity,
// attaching to the registry on first use.  Every key instance carrying
// the same seed material gets a handle to the same counter.
//
// Panics when called on a partially initialized key: handing out a
// counter before both seeds are in place could tie it to the wrong
// identity.
func (sk *PrivateKey) LeafCounter() *LeafIndex {
	n := int(sk.ctx.p.N)
	if len(sk.skSeed) != n || len(sk.skPrf) != n {
		panic("xmss: leaf counter requested for a partially initialized private key")
	}
	sk.mu.Lock()
	defer sk.mu.Unlock()
	if sk.idx == nil {
		sk.idx = sk.ctx.registry().get(sk.skSeed, sk.skPrf)
		sk.idx.raiseTo(sk.leafIdx)
	}
	return sk.idx
}

// UnusedLeafIndex fetches the authoritative first-unused leaf index
// from the shared counter and refreshes the locally cached copy that
// MarshalBinary writes.
func (sk *PrivateKey) UnusedLeafIndex() uint64 {
	v := sk.LeafCounter().Current()
	sk.mu.Lock()
	if v > sk.leafIdx {
		sk.leafIdx = v
	}
	sk.mu.Unlock()
	return v
}

// Caches the claimed leaf so a later MarshalBinary reflects it.
func (sk *PrivateKey) noteClaimed(leaf uint64) {
	sk.mu.Lock()
	if leaf+1 > sk.leafIdx {
		sk.leafIdx = leaf + 1
	}
	sk.mu.Unlock()
}

// NewSignatureOperation creates the signing capability of this key.
// Only the built-in provider is available: provider must be empty or
// "base"; any other name fails.  The rand and algo arguments exist for
// interface compatibility and are not used by the built-in provider.
func (sk *PrivateKey) NewSignatureOperation(rand io.Reader, algo,
	provider string) (*SignatureOperation, Error) {
	if provider != "" && provider != "base" {
		name := algo
		if name == "" {
			name = sk.ctx.Name()
		}
		return nil, errorf("provider %q not found for %s", provider, name)
	}
	_ = rand
	return &SignatureOperation{sk: sk}, nil
}

// Signs the given message with the built-in provider.
func (sk *PrivateKey) Sign(msg []byte) (*Signature, Error) {
	op, err := sk.NewSignatureOperation(nil, "", "")
	if err != nil {
		return nil, err
	}
	return op.Sign(msg)
}

func (sk *PrivateKey) Context() *Context {
	return sk.ctx
}
