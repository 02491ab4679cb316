package xmss

import (
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"
)

// LeafIndex is the shared one-time-leaf counter of a single secret.  All
// private key instances backed by the same seed material hold a
// reference to the same LeafIndex, so a leaf handed out once is never
// handed out again, not even to an independently loaded copy of the key.
type LeafIndex struct {
	v uint64 // atomic
}

// Next claims the next unused leaf and returns it.  Leaves are consumed
// monotonically and never returned to the pool: a claimed leaf stays
// consumed even if the signing operation that claimed it fails.
func (idx *LeafIndex) Next() uint64 {
	return atomic.AddUint64(&idx.v, 1) - 1
}

// Current returns the leaf that the next call to Next would claim.
func (idx *LeafIndex) Current() uint64 {
	return atomic.LoadUint64(&idx.v)
}

// raiseTo ensures the counter is at least v.  Used when a stored private
// key is reattached: the shared counter must never move backwards.
func (idx *LeafIndex) raiseTo(v uint64) {
	for {
		cur := atomic.LoadUint64(&idx.v)
		if cur >= v || atomic.CompareAndSwapUint64(&idx.v, cur, v) {
			return
		}
	}
}

// IndexRegistry hands out the shared LeafIndex for each secret-key
// identity.  Entries are created lazily and live for the lifetime of
// the registry: when a key object is dropped and later reconstructed
// from the same raw seed, it finds the counter it left behind.
type IndexRegistry struct {
	mu      sync.Mutex
	indices map[[blake2b.Size256]byte]*LeafIndex
}

func NewIndexRegistry() *IndexRegistry {
	return &IndexRegistry{
		indices: make(map[[blake2b.Size256]byte]*LeafIndex),
	}
}

// The registry used by contexts that do not carry their own.
var defaultIndexRegistry = NewIndexRegistry()

func (ctx *Context) registry() *IndexRegistry {
	if ctx.Registry != nil {
		return ctx.Registry
	}
	return defaultIndexRegistry
}

// get returns the LeafIndex of the secret identified by the given seed
// material, creating it on first sight.  Identity is by value: two
// independently constructed keys with equal seeds converge on one
// counter.
func (reg *IndexRegistry) get(skSeed, skPrf []byte) *LeafIndex {
	h, _ := blake2b.New256(nil)
	h.Write(skSeed)
	h.Write(skPrf)
	var id [blake2b.Size256]byte
	h.Sum(id[:0])

	reg.mu.Lock()
	defer reg.mu.Unlock()
	idx, ok := reg.indices[id]
	if !ok {
		idx = new(LeafIndex)
		reg.indices[id] = idx
	}
	return idx
}
