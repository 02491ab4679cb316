package xmss

// Sequence number of signatures.
// (Corresponds with leaf indices in the implementation.)
type SignatureSeqNo uint64

// Represents an XMSS signature
type Signature struct {
	ctx      *Context       // context which contains algorithm parameters
	seqNo    SignatureSeqNo // the leaf this signature consumed
	drv      []byte         // digest randomized value (R)
	wotsSig  []byte
	authPath []byte // sibling node at every level, leaf to root
}

// SignatureOperation signs messages with a private key.  Every call to
// Sign claims a fresh leaf from the shared counter; a claimed leaf is
// consumed even when the rest of the operation fails.
type SignatureOperation struct {
	sk *PrivateKey
}

// Signs the given message with the next unused one-time leaf.
//
// Fails with an exhaustion Error (Exhausted() == true) once all leaves
// of the secret have been consumed, by this instance or any other
// sharing its seed material.
func (op *SignatureOperation) Sign(msg []byte) (*Signature, Error) {
	sk := op.sk
	ctx := sk.ctx

	leaf := sk.LeafCounter().Next()
	if leaf >= ctx.p.SignatureCapacity() {
		return nil, exhaustedErrorf(
			"private key exhausted: all %d one-time signatures have been used",
			ctx.p.SignatureCapacity())
	}
	sk.noteClaimed(leaf)

	drv := ctx.prfUint64(leaf, sk.skPrf)
	mhash := ctx.hashMessage(msg, drv, sk.root, leaf)

	var otsAddr address
	otsAddr.setForOTS(uint32(leaf))
	wotsSig := ctx.wotsSign(mhash, ctx.wotsSeed(sk.skSeed, otsAddr),
		sk.pubSeed, otsAddr)

	// The authentication path is the sibling subtree root at every
	// level from the leaf up.
	authPath := make([]byte, ctx.p.FullHeight*ctx.p.N)
	var height uint32
	for height = 0; height < ctx.p.FullHeight; height++ {
		sibling := (leaf >> height) ^ 1
		var addr address
		copy(authPath[height*ctx.p.N:],
			sk.treeHash(sibling<<height, height, addr))
	}

	return &Signature{
		ctx:      ctx,
		seqNo:    SignatureSeqNo(leaf),
		drv:      drv,
		wotsSig:  wotsSig,
		authPath: authPath,
	}, nil
}

// Returns the leaf index this signature consumed.
func (sig *Signature) SeqNo() SignatureSeqNo {
	return sig.seqNo
}

func (sig *Signature) Context() *Context {
	return sig.ctx
}

// Returns the representation of the signature: leaf index (4 bytes, big
// endian) ‖ R ‖ WOTS+ signature ‖ authentication path.
// Will never return an error.
func (sig *Signature) MarshalBinary() ([]byte, error) {
	ctx := sig.ctx
	ret := make([]byte, ctx.sigBytes)
	encodeUint64Into(uint64(sig.seqNo), ret[:ctx.indexBytes])
	copy(ret[ctx.indexBytes:], sig.drv)
	copy(ret[ctx.indexBytes+ctx.p.N:], sig.wotsSig)
	copy(ret[ctx.indexBytes+ctx.p.N+ctx.wotsSigBytes:], sig.authPath)
	return ret, nil
}

// Parses a signature from the representation MarshalBinary writes.
func (ctx *Context) ParseSignature(buf []byte) (*Signature, Error) {
	if uint32(len(buf)) != ctx.sigBytes {
		return nil, errorf(
			"invalid signature size: expected %d bytes, got %d",
			ctx.sigBytes, len(buf))
	}
	return &Signature{
		ctx:      ctx,
		seqNo:    SignatureSeqNo(decodeUint64(buf[:ctx.indexBytes])),
		drv:      dup(buf[ctx.indexBytes : ctx.indexBytes+ctx.p.N]),
		wotsSig: dup(buf[ctx.indexBytes+ctx.p.N : ctx.indexBytes+
			ctx.p.N+ctx.wotsSigBytes]),
		authPath: dup(buf[ctx.indexBytes+ctx.p.N+ctx.wotsSigBytes:]),
	}, nil
}
