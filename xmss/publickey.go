package xmss

import (
	"crypto/subtle"
)

// XMSS public key
type PublicKey struct {
	ctx     *Context // context which contains algorithm parameters
	pubSeed []byte
	root    []byte // root node
}

// Returns the representation of the public key: root ‖ public seed.
// Will never return an error.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	n := pk.ctx.p.N
	ret := make([]byte, pk.ctx.pkBytes)
	copy(ret, pk.root)
	copy(ret[n:], pk.pubSeed)
	return ret, nil
}

// Parses a public key from the representation MarshalBinary writes.
func (ctx *Context) ParsePublicKey(buf []byte) (*PublicKey, Error) {
	if uint32(len(buf)) != ctx.pkBytes {
		return nil, errorf(
			"invalid public key size: expected %d bytes, got %d",
			ctx.pkBytes, len(buf))
	}
	n := ctx.p.N
	return &PublicKey{
		ctx:     ctx,
		root:    dup(buf[:n]),
		pubSeed: dup(buf[n : 2*n]),
	}, nil
}

// Check whether the sig is a valid signature of this public key
// for the given message.
func (pk *PublicKey) Verify(sig *Signature, msg []byte) (bool, Error) {
	ctx := pk.ctx
	n := ctx.p.N
	mhash := ctx.hashMessage(msg, sig.drv, pk.root, uint64(sig.seqNo))

	var addr address
	offset := uint32(sig.seqNo)
	addr.setForOTS(offset)
	wotsPk := ctx.wotsPkFromSig(sig.wotsSig, mhash, pk.pubSeed, addr)
	addr.setForLTree(offset)
	curHash := ctx.lTree(wotsPk, pk.pubSeed, addr)

	// use the authentication path to hash up the merkle tree
	var height uint32
	for height = 1; height <= ctx.p.FullHeight; height++ {
		addr.setForHashTree(height-1, offset>>1)
		sibling := sig.authPath[(height-1)*n : height*n]
		if offset&1 == 0 {
			// we're on the left, so the sibling hash from the
			// auth path is on the right
			curHash = ctx.h(curHash, sibling, pk.pubSeed, addr)
		} else {
			curHash = ctx.h(sibling, curHash, pk.pubSeed, addr)
		}
		offset >>= 1
	}

	if subtle.ConstantTimeCompare(curHash, pk.root) != 1 {
		return false, errorf("invalid signature")
	}
	return true, nil
}

func (pk *PublicKey) Context() *Context {
	return pk.ctx
}
