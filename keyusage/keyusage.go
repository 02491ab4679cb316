// Package keyusage models the X.509 key-usage extension: a bitmask of
// constraints together with a check whether a set of constraints may be
// asserted for a public key of a given algorithm.
package keyusage

import (
	"strings"
)

// KeyUsage is a bitmask of X.509 key-usage constraints.  The bit values
// follow the BER encoding of the extension.
type KeyUsage uint32

const (
	DigitalSignature KeyUsage = 1 << 15
	NonRepudiation   KeyUsage = 1 << 14
	KeyEncipherment  KeyUsage = 1 << 13
	DataEncipherment KeyUsage = 1 << 12
	KeyAgreement     KeyUsage = 1 << 11
	KeyCertSign      KeyUsage = 1 << 10
	CRLSign          KeyUsage = 1 << 9
	EncipherOnly     KeyUsage = 1 << 8
	DecipherOnly     KeyUsage = 1 << 7

	NoConstraints KeyUsage = 0
)

var usageNames = []struct {
	usage KeyUsage
	name  string
}{
	{DigitalSignature, "digital_signature"},
	{NonRepudiation, "non_repudiation"},
	{KeyEncipherment, "key_encipherment"},
	{DataEncipherment, "data_encipherment"},
	{KeyAgreement, "key_agreement"},
	{KeyCertSign, "key_cert_sign"},
	{CRLSign, "crl_sign"},
	{EncipherOnly, "encipher_only"},
	{DecipherOnly, "decipher_only"},
}

func (ku KeyUsage) String() string {
	if ku == NoConstraints {
		return "no_constraints"
	}
	var str []string
	for _, entry := range usageNames {
		if ku&entry.usage != 0 {
			str = append(str, entry.name)
		}
	}
	// Not 0 (checked above) but nothing matched either.
	if len(str) == 0 {
		return "other_unknown_constraints"
	}
	return strings.Join(str, ",")
}

// CompatibleWith reports whether these constraints may be asserted for
// a public key of the named algorithm.
func (ku KeyUsage) CompatibleWith(algoName string) bool {
	canAgree := algoName == "DH" || algoName == "ECDH" ||
		strings.HasPrefix(algoName, "Kyber-")
	canEncrypt := algoName == "RSA" || algoName == "ElGamal" ||
		strings.HasPrefix(algoName, "Kyber-")
	canSign := algoName == "RSA" || algoName == "DSA" ||
		algoName == "ECDSA" || algoName == "ECGDSA" ||
		algoName == "ECKCDSA" || algoName == "Ed25519" ||
		algoName == "XMSS" ||
		algoName == "GOST-34.10" ||
		algoName == "GOST-34.10-2012-256" ||
		algoName == "GOST-34.10-2012-512" ||
		strings.HasPrefix(algoName, "Dilithium-")

	var permitted KeyUsage
	if canAgree {
		permitted |= KeyAgreement | EncipherOnly | DecipherOnly
	}
	if canEncrypt {
		permitted |= KeyEncipherment | DataEncipherment
	}
	if canSign {
		permitted |= DigitalSignature | NonRepudiation | KeyCertSign |
			CRLSign
	}

	return ku&permitted == ku
}
