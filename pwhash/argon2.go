// Package pwhash provides memory-hard password hashing for deriving
// keys from low-entropy secrets.  Only the Argon2 family is available,
// backed by golang.org/x/crypto/argon2.
//
// A hasher is a plain parameter set: it carries no state and may be
// shared freely between goroutines.
package pwhash

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Family selects the Argon2 variant.
type Family uint8

const (
	Argon2d Family = iota
	Argon2i
	Argon2id
)

func (f Family) String() string {
	switch f {
	case Argon2d:
		return "Argon2d"
	case Argon2i:
		return "Argon2i"
	case Argon2id:
		return "Argon2id"
	}
	return fmt.Sprintf("Family(%d)", uint8(f))
}

// FamilyFromName returns the family for names like "Argon2id".
func FamilyFromName(name string) (Family, error) {
	switch name {
	case "Argon2d":
		return Argon2d, nil
	case "Argon2i":
		return Argon2i, nil
	case "Argon2id":
		return Argon2id, nil
	}
	return 0, fmt.Errorf("pwhash: %q is not implemented", name)
}

// Argon2 is a parameter set: memory in KiB, number of passes and lanes.
type Argon2 struct {
	family Family
	memory uint32
	passes uint32
	lanes  uint8
}

// New checks the parameters and returns the hasher.  Argon2d has no
// data-independent implementation available here and fails with a
// not-implemented error.
func New(family Family, memory, passes uint32, lanes uint8) (*Argon2, error) {
	if family == Argon2d {
		return nil, fmt.Errorf("pwhash: Argon2d is not implemented")
	}
	if family != Argon2i && family != Argon2id {
		return nil, fmt.Errorf("pwhash: %s is not implemented", family)
	}
	if memory == 0 || passes == 0 || lanes == 0 {
		return nil, fmt.Errorf(
			"pwhash: Argon2 parameters must be positive (M=%d t=%d p=%d)",
			memory, passes, lanes)
	}
	return &Argon2{family: family, memory: memory, passes: passes,
		lanes: lanes}, nil
}

// Default returns the hasher with the commonly recommended parameters
// of the family.
func Default(family Family) (*Argon2, error) {
	switch family {
	case Argon2i:
		return New(family, 32*1024, 3, 4)
	default:
		return New(family, 64*1024, 1, 4)
	}
}

// DeriveKey derives outLen bytes from password and salt under this
// parameter set.  Equal inputs always yield equal output.
func (a *Argon2) DeriveKey(password, salt []byte, outLen uint32) []byte {
	if a.family == Argon2i {
		return argon2.Key(password, salt, a.passes, a.memory, a.lanes, outLen)
	}
	return argon2.IDKey(password, salt, a.passes, a.memory, a.lanes, outLen)
}

func (a *Argon2) String() string {
	return fmt.Sprintf("%s(%d,%d,%d)", a.family, a.memory, a.passes, a.lanes)
}

func (a *Argon2) Memory() uint32 { return a.memory }
func (a *Argon2) Passes() uint32 { return a.passes }
func (a *Argon2) Lanes() uint8   { return a.lanes }

// Total memory usage of a derivation in bytes.
func (a *Argon2) TotalMemoryUsage() uint64 {
	return uint64(a.memory) * 1024
}
