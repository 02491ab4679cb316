package xmss

// Derive the seed for the WOTS+ key pair at the given address
// from the secret key seed
func (ctx *Context) wotsSeed(skSeed []byte, addr address) []byte {
	addr.setChain(0)
	addr.setHash(0)
	addr.setKeyAndMask(0)
	return ctx.prfAddr(addr, skSeed)
}

// Expands seed to WOTS+ secret key
func (ctx *Context) wotsExpandSeed(in []byte) []byte {
	ret := make([]byte, ctx.p.N*ctx.wotsLen)
	var i uint32
	for i = 0; i < ctx.wotsLen; i++ {
		copy(ret[i*ctx.p.N:], ctx.prfUint64(uint64(i), in))
	}
	return ret
}

// Converts a message into positions on the WOTS+ chains, which
// are called "chain lengths".
func (ctx *Context) wotsChainLengths(msg []byte) []uint8 {
	ret := make([]uint8, ctx.wotsLen)

	// compute the chain lengths for the message itself
	ctx.toBaseW(msg, ret[:ctx.wotsLen1])

	// compute the checksum
	var csum uint32 = 0
	for i := 0; i < int(ctx.wotsLen1); i++ {
		csum += uint32(ctx.p.WotsW) - 1 - uint32(ret[i])
	}
	csum = csum << (8 - ((ctx.wotsLen2 * uint32(ctx.wotsLogW)) % 8))

	// put checksum in buffer
	ctx.toBaseW(
		encodeUint64(
			uint64(csum),
			int((ctx.wotsLen2*uint32(ctx.wotsLogW)+7)/8)),
		ret[ctx.wotsLen1:])
	return ret
}

// Converts the given array of bytes into base w for the WOTS+ one-time
// signature scheme.  Only works if LogW divides into 8.
func (ctx *Context) toBaseW(input []byte, output []uint8) {
	var in uint32 = 0
	var out uint32 = 0
	var total uint8
	var bits uint8

	for consumed := 0; consumed < len(output); consumed++ {
		if bits == 0 {
			total = input[in]
			in++
			bits = 8
		}
		bits -= ctx.wotsLogW
		output[out] = uint8(uint16(total>>bits) & (ctx.p.WotsW - 1))
		out++
	}
}

// Compute the (start + steps)th value in the WOTS+ chain, given
// the start'th value in the chain.
func (ctx *Context) wotsGenChainInto(in []byte, start, steps uint16,
	pubSeed []byte, addr address, out []byte) {
	copy(out, in)
	var i uint16
	for i = start; i < (start+steps) && (i < ctx.p.WotsW); i++ {
		addr.setHash(uint32(i))
		copy(out, ctx.f(out, pubSeed, addr))
	}
}

// Generate a WOTS+ public key from secret key seed.
func (ctx *Context) wotsPkGen(seed, pubSeed []byte, addr address) []byte {
	buf := ctx.wotsExpandSeed(seed)
	var i uint32
	for i = 0; i < ctx.wotsLen; i++ {
		addr.setChain(uint32(i))
		ctx.wotsGenChainInto(buf[ctx.p.N*i:ctx.p.N*(i+1)],
			0, ctx.p.WotsW-1, pubSeed, addr,
			buf[ctx.p.N*i:ctx.p.N*(i+1)])
	}
	return buf
}

// Create a WOTS+ signature of an n-byte message
func (ctx *Context) wotsSign(msg, seed, pubSeed []byte, addr address) []byte {
	lengths := ctx.wotsChainLengths(msg)
	buf := ctx.wotsExpandSeed(seed)
	var i uint32
	for i = 0; i < ctx.wotsLen; i++ {
		addr.setChain(uint32(i))
		ctx.wotsGenChainInto(buf[ctx.p.N*i:ctx.p.N*(i+1)],
			0, uint16(lengths[i]), pubSeed, addr,
			buf[ctx.p.N*i:ctx.p.N*(i+1)])
	}
	return buf
}

// Returns the public key from a message and its WOTS+ signature.
func (ctx *Context) wotsPkFromSig(sig, msg, pubSeed []byte,
	addr address) []byte {
	lengths := ctx.wotsChainLengths(msg)
	buf := make([]byte, ctx.p.N*ctx.wotsLen)
	var i uint32
	for i = 0; i < ctx.wotsLen; i++ {
		addr.setChain(uint32(i))
		ctx.wotsGenChainInto(sig[ctx.p.N*i:ctx.p.N*(i+1)],
			uint16(lengths[i]), ctx.p.WotsW-1-uint16(lengths[i]),
			pubSeed, addr,
			buf[ctx.p.N*i:ctx.p.N*(i+1)])
	}
	return buf
}

// Computes the leaf node associated to a WOTS+ public key.
// Note that the WOTS+ public key is destroyed.
func (ctx *Context) lTree(wotsPk, pubSeed []byte, addr address) []byte {
	var height uint32 = 0
	var l uint32 = ctx.wotsLen
	for l > 1 {
		addr.setTreeHeight(height)
		parentNodes := l >> 1
		var i uint32
		for i = 0; i < parentNodes; i++ {
			addr.setTreeIndex(i)
			copy(wotsPk[i*ctx.p.N:(i+1)*ctx.p.N],
				ctx.h(wotsPk[2*i*ctx.p.N:(2*i+1)*ctx.p.N],
					wotsPk[(2*i+1)*ctx.p.N:(2*i+2)*ctx.p.N],
					pubSeed, addr))
		}
		if l&1 == 1 {
			copy(wotsPk[(l>>1)*ctx.p.N:((l>>1)+1)*ctx.p.N],
				wotsPk[(l-1)*ctx.p.N:l*ctx.p.N])
			l = (l >> 1) + 1
		} else {
			l = l >> 1
		}
		height++
	}
	ret := make([]byte, ctx.p.N)
	copy(ret, wotsPk[:ctx.p.N])
	return ret
}
