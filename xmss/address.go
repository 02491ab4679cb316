package xmss

import (
	"encoding/binary"
)

const (
	ADDR_TYPE_OTS      = 0
	ADDR_TYPE_LTREE    = 1
	ADDR_TYPE_HASHTREE = 2
)

// Address used in XMSS to diversify the hashes.  See eg prfAddr().
//
// An address is a small value type: goroutines computing different parts
// of the tree each own their own copy and mutate it as a cursor.
type address [8]uint32

func (addr *address) setType(typ uint32) {
	addr[3] = typ
}

func (addr *address) setOTS(ots uint32) {
	addr[4] = ots
}

func (addr *address) setChain(chain uint32) {
	addr[5] = chain
}

func (addr *address) setHash(hash uint32) {
	addr[6] = hash
}

func (addr *address) setLTree(ltree uint32) {
	addr[4] = ltree
}

func (addr *address) setTreeHeight(treeHeight uint32) {
	addr[5] = treeHeight
}

func (addr *address) treeHeight() uint32 {
	return addr[5]
}

func (addr *address) setTreeIndex(treeIndex uint32) {
	addr[6] = treeIndex
}

func (addr *address) treeIndex() uint32 {
	return addr[6]
}

func (addr *address) setKeyAndMask(keyAndMask uint32) {
	addr[7] = keyAndMask
}

// Points the cursor at the WOTS+ key pair of the given leaf.
func (addr *address) setForOTS(ots uint32) {
	addr[3] = ADDR_TYPE_OTS
	addr[4] = ots
	addr[5] = 0
	addr[6] = 0
	addr[7] = 0
}

// Points the cursor at the L-tree compressing the given leaf's public key.
func (addr *address) setForLTree(ltree uint32) {
	addr[3] = ADDR_TYPE_LTREE
	addr[4] = ltree
	addr[5] = 0
	addr[6] = 0
	addr[7] = 0
}

// Points the cursor at an inner node of the authentication tree.
func (addr *address) setForHashTree(treeHeight, treeIndex uint32) {
	addr[3] = ADDR_TYPE_HASHTREE
	addr[4] = 0
	addr[5] = treeHeight
	addr[6] = treeIndex
	addr[7] = 0
}

func (addr *address) writeInto(buf []byte) {
	for i := 0; i < 8; i++ {
		binary.BigEndian.PutUint32(buf[i*4:(i+1)*4], addr[i])
	}
}

func (addr *address) toBytes() []byte {
	buf := make([]byte, 32)
	addr.writeInto(buf)
	return buf
}
