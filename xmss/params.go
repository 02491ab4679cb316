// Go implementation of the XMSS stateful hash-based signature scheme as
// described in the RFC draft
// https://datatracker.ietf.org/doc/draft-irtf-cfrg-xmss-hash-based-signatures/
//
// An XMSS private key may only produce a limited number of signatures
// and no one-time leaf key may ever be used twice.  To that end all
// private key instances backed by the same seed material share a single
// leaf counter through an IndexRegistry, see LeafCounter().
package xmss

import (
	"fmt"
	"math/bits"

	"github.com/hashicorp/go-multierror"
)

type HashFunc uint32

const (
	SHA2  HashFunc = 0
	SHAKE          = 1
)

// Parameters of an XMSS instance
type Params struct {
	Func       HashFunc // which hash function to use
	N          uint32   // security parameter: length of hashes and tree nodes
	FullHeight uint32   // height of the authentication tree

	// WOTS+ Winternitz parameter.  Only 16 is supported.
	WotsW uint16
}

// XMSS instance.
// Create one using NewContextFromName, NewContextFromOid or NewContext.
type Context struct {
	// Number of worker goroutines ("threads") to use for expensive operations.
	// Will guess an appropriate number if set to 0.
	Threads int

	// Registry tracking the first unused one-time leaf per secret.
	// The process-wide registry is used when nil.
	Registry *IndexRegistry

	p            Params  // parameters.
	wotsLogW     uint8   // logarithm of the Winternitz parameter
	wotsLen1     uint32  // WOTS+ chains for message
	wotsLen2     uint32  // WOTS+ chains for checksum
	wotsLen      uint32  // total number of WOTS+ chains
	wotsSigBytes uint32  // length of WOTS+ signature
	indexBytes   uint32  // size of an index in a signature
	sigBytes     uint32  // size of signature
	pkBytes      uint32  // size of public key
	skBytes      uint32  // size of private key
	oid          uint32  // OID of this configuration, if it has any
	name         *string // name of algorithm
}

// Creates a new context.
func NewContext(params Params) (*Context, error) {
	ctx := new(Context)
	ctx.p = params

	var errs *multierror.Error
	if params.N != 32 && params.N != 64 {
		errs = multierror.Append(errs, fmt.Errorf(
			"N=%d is not supported (only 32 and 64 are)", params.N))
	}
	if params.WotsW != 16 {
		errs = multierror.Append(errs, fmt.Errorf(
			"WotsW=%d is not supported (only 16 is)", params.WotsW))
	}
	if params.FullHeight == 0 {
		errs = multierror.Append(errs, fmt.Errorf(
			"FullHeight must be positive"))
	} else if params.FullHeight >= bits.UintSize {
		// Leaf indices are kept in platform ints.
		errs = multierror.Append(errs, fmt.Errorf(
			"FullHeight=%d: leaf indices do not fit in %d-bit ints",
			params.FullHeight, bits.UintSize))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	ctx.wotsLogW = 4
	ctx.wotsLen1 = 8 * params.N / uint32(ctx.wotsLogW)
	ctx.wotsLen2 = 3
	ctx.wotsLen = ctx.wotsLen1 + ctx.wotsLen2
	ctx.wotsSigBytes = ctx.wotsLen * params.N
	ctx.indexBytes = 4
	ctx.sigBytes = ctx.indexBytes + params.N + ctx.wotsSigBytes +
		params.FullHeight*params.N
	ctx.pkBytes = 2 * params.N
	ctx.skBytes = ctx.pkBytes + 8 + 2*params.N

	return ctx, nil
}

// Returns the number of one-time signature leaves a private key with
// these parameters may consume.  Leaf indices run in [0, 2^(h-1)).
func (params Params) SignatureCapacity() uint64 {
	return 1 << (params.FullHeight - 1)
}

// Entry in the registry of algorithms
type regEntry struct {
	name   string // name, eg. XMSS-SHA2_10_256
	oid    uint32 // oid of the algorithm
	params Params // parameters of the algorithm
}

// Registry of named XMSS algorithms
var registry []regEntry = []regEntry{
	{"XMSS-SHA2_10_256", 0x00000001, Params{SHA2, 32, 10, 16}},
	{"XMSS-SHA2_16_256", 0x00000002, Params{SHA2, 32, 16, 16}},
	{"XMSS-SHA2_20_256", 0x00000003, Params{SHA2, 32, 20, 16}},
	{"XMSS-SHA2_10_512", 0x00000004, Params{SHA2, 64, 10, 16}},
	{"XMSS-SHA2_16_512", 0x00000005, Params{SHA2, 64, 16, 16}},
	{"XMSS-SHA2_20_512", 0x00000006, Params{SHA2, 64, 20, 16}},

	{"XMSS-SHAKE_10_256", 0x00000007, Params{SHAKE, 32, 10, 16}},
	{"XMSS-SHAKE_16_256", 0x00000008, Params{SHAKE, 32, 16, 16}},
	{"XMSS-SHAKE_20_256", 0x00000009, Params{SHAKE, 32, 20, 16}},
	{"XMSS-SHAKE_10_512", 0x0000000a, Params{SHAKE, 64, 10, 16}},
	{"XMSS-SHAKE_16_512", 0x0000000b, Params{SHAKE, 64, 16, 16}},
	{"XMSS-SHAKE_20_512", 0x0000000c, Params{SHAKE, 64, 20, 16}},
}

var registryNameLut map[string]regEntry
var registryOidLut map[uint32]regEntry

// Initializes algorithm lookup tables.
func init() {
	log = &dummyLogger{}
	registryNameLut = make(map[string]regEntry)
	registryOidLut = make(map[uint32]regEntry)
	for _, entry := range registry {
		registryNameLut[entry.name] = entry
		registryOidLut[entry.oid] = entry
	}
}

// Returns parameters for the named XMSS instance (and nil if there is no
// such algorithm).
func ParamsFromName(name string) *Params {
	entry, ok := registryNameLut[name]
	if ok {
		return &entry.params
	}
	return nil
}

// Return new context for the given XMSS oid (and nil if it's unknown).
func NewContextFromOid(oid uint32) *Context {
	entry, ok := registryOidLut[oid]
	if !ok {
		return nil
	}
	ctx, _ := NewContext(entry.params)
	ctx.oid = oid
	ctx.name = &entry.name
	return ctx
}

// Return new context for the given XMSS algorithm name (and nil if the
// algorithm name is unknown).
func NewContextFromName(name string) *Context {
	entry, ok := registryNameLut[name]
	if !ok {
		return nil
	}
	ctx, _ := NewContext(entry.params)
	ctx.name = &name
	ctx.oid = entry.oid
	return ctx
}

// Returns the name of the XMSS instance and an empty string if it has
// no name.
func (ctx *Context) Name() string {
	if ctx.name == nil {
		for _, entry := range registry {
			if entry.params == ctx.p {
				name2 := entry.name
				ctx.name = &name2
			}
		}
	}
	if ctx.name != nil {
		return *ctx.name
	}
	return ""
}

// Returns the Oid of the XMSS instance and 0 if it has no Oid.
func (ctx *Context) Oid() uint32 {
	return ctx.oid
}

// Get parameters of an XMSS instance
func (ctx *Context) Params() Params {
	return ctx.p
}

// Returns the size of signatures of this XMSS instance
func (ctx *Context) SignatureSize() uint32 {
	return ctx.sigBytes
}

// Returns the size of public keys of this XMSS instance
func (ctx *Context) PublicKeySize() uint32 {
	return ctx.pkBytes
}

// Returns the size of raw private keys of this XMSS instance
func (ctx *Context) PrivateKeySize() uint32 {
	return ctx.skBytes
}

// List all named XMSS instances
func ListNames() (names []string) {
	names = make([]string, len(registry))
	for i, entry := range registry {
		names[i] = entry.name
	}
	return
}
