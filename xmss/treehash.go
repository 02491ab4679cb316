package xmss

import (
	"fmt"
	"math/bits"
	"runtime"
	"sync"
	"sync/atomic"
)

// Bounded stack of pending tree nodes used by the sequential tree hash.
// Nodes carry the stack level they were computed at; two nodes may only
// be combined while the top two entries sit at equal levels.
type nodeStack struct {
	nodes  [][]byte
	levels []uint8
}

func newNodeStack(capacity uint32) nodeStack {
	return nodeStack{
		nodes:  make([][]byte, 0, capacity),
		levels: make([]uint8, 0, capacity),
	}
}

func (st *nodeStack) push(node []byte, level uint8) {
	st.nodes = append(st.nodes, node)
	st.levels = append(st.levels, level)
}

func (st *nodeStack) pop() ([]byte, uint8) {
	i := len(st.nodes) - 1
	node, level := st.nodes[i], st.levels[i]
	st.nodes = st.nodes[:i]
	st.levels = st.levels[:i]
	return node, level
}

func (st *nodeStack) len() int {
	return len(st.nodes)
}

// Whether the top two entries sit at equal levels and are thus ready to
// be combined into their parent.
func (st *nodeStack) topTwoEqual() bool {
	i := len(st.levels)
	return i >= 2 && st.levels[i-1] == st.levels[i-2]
}

// pmap calls f(0), ..., f(n-1), spreading the calls over at most the
// given number of worker goroutines and joining all of them before it
// returns.  With workers <= 1 the calls happen on the calling
// goroutine, so the same code path serves the single-threaded case.
func pmap(n, workers int, f func(i int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}
	var next uint32
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddUint32(&next, 1)) - 1
				if i >= n {
					return
				}
				f(i)
			}
		}()
	}
	wg.Wait()
}

func (ctx *Context) threads() int {
	if ctx.Threads > 0 {
		return ctx.Threads
	}
	return runtime.NumCPU()
}

// The tree level at which a tree hash over the given height is cut into
// independent subtree tasks: min(targetHeight, ceil(log2(workers))).
func splitLevel(targetHeight uint32, workers int) uint32 {
	if workers <= 1 {
		return 0
	}
	s := uint32(bits.Len(uint(workers - 1)))
	if s > targetHeight {
		s = targetHeight
	}
	return s
}

// Generate the leaf with the given index by deriving its WOTS+ key pair
// and compressing the public key with an L-tree.
func (sk *PrivateKey) genLeaf(leaf uint64, addr *address) []byte {
	addr.setForOTS(uint32(leaf))
	seed := sk.ctx.wotsSeed(sk.skSeed, *addr)
	pk := sk.ctx.wotsPkGen(seed, sk.pubSeed, *addr)
	addr.setForLTree(uint32(leaf))
	return sk.ctx.lTree(pk, sk.pubSeed, *addr)
}

// treeHash computes the authentication tree node of the given height
// covering the leaves [startLeaf, startLeaf + 2^targetHeight).
//
// startLeaf must be divisible by 2^targetHeight; a violation means the
// caller computed an inconsistent range and is a programming error.
func (sk *PrivateKey) treeHash(startLeaf uint64, targetHeight uint32,
	addr address) []byte {
	if startLeaf%(1<<targetHeight) != 0 {
		panic(fmt.Sprintf(
			"xmss: treeHash start leaf %d is not aligned to height %d",
			startLeaf, targetHeight))
	}

	split := splitLevel(targetHeight, sk.ctx.threads())
	if split == 0 {
		// Not worth the parallelization overhead near the leaves.
		return sk.treeHashSubtree(startLeaf, targetHeight, &addr)
	}
	return sk.treeHashParallel(startLeaf, targetHeight, split, addr)
}

// Sequential tree hash over [startLeaf, startLeaf + 2^targetHeight),
// maintaining a stack of at most targetHeight+1 pending nodes.  The
// address is a cursor owned by this call.
func (sk *PrivateKey) treeHashSubtree(startLeaf uint64, targetHeight uint32,
	addr *address) []byte {
	stack := newNodeStack(targetHeight + 1)
	lastLeaf := startLeaf + (1 << targetHeight)
	for i := startLeaf; i < lastLeaf; i++ {
		node := sk.genLeaf(i, addr)
		addr.setForHashTree(0, uint32(i))
		stack.push(node, 0)
		for stack.topTwoEqual() {
			right, level := stack.pop()
			left, _ := stack.pop()
			addr.setTreeIndex((addr.treeIndex() - 1) >> 1)
			stack.push(sk.ctx.h(left, right, sk.pubSeed, *addr), level+1)
			addr.setTreeHeight(addr.treeHeight() + 1)
		}
	}
	node, _ := stack.pop()
	return node
}

// Parallel tree hash: computes 2^split independent subtrees concurrently
// with the sequential algorithm and then combines their roots pairwise
// level by level.  Produces exactly the node treeHashSubtree would.
func (sk *PrivateKey) treeHashParallel(startLeaf uint64,
	targetHeight, split uint32, addr address) []byte {
	subtrees := 1 << split
	leaves := uint64(1) << (targetHeight - split)
	workers := sk.ctx.threads()
	log.Logf("treeHash: %d subtrees of height %d over %d workers",
		subtrees, targetHeight-split, workers)

	nodes := make([][]byte, subtrees)
	addrs := make([]address, subtrees)
	for i := range addrs {
		addrs[i] = addr
	}

	// Each subtree task owns its own address cursor.
	pmap(subtrees, workers, func(i int) {
		nodes[i] = sk.treeHashSubtree(startLeaf+uint64(i)*leaves,
			targetHeight-split, &addrs[i])
	})

	// Hash the subtree roots up pairwise.  The address cursors are
	// advanced on the calling goroutine; only the hashing of each level
	// is fanned out, with a join barrier between levels.
	for level := int(split) - 1; level >= 1; level-- {
		cnt := 1 << level
		children := make([][]byte, 2*cnt)
		copy(children, nodes[:2*cnt])
		for i := 0; i < cnt; i++ {
			addrs[i].setTreeHeight(targetHeight - uint32(level) - 1)
			addrs[i].setTreeIndex((addrs[2*i+1].treeIndex() - 1) >> 1)
		}
		pmap(cnt, workers, func(i int) {
			nodes[i] = sk.ctx.h(children[2*i], children[2*i+1],
				sk.pubSeed, addrs[i])
		})
	}

	// The final combination is a single hash; no goroutine for that.
	addrs[0].setTreeHeight(targetHeight - 1)
	addrs[0].setTreeIndex((addrs[1].treeIndex() - 1) >> 1)
	return sk.ctx.h(nodes[0], nodes[1], sk.pubSeed, addrs[0])
}
