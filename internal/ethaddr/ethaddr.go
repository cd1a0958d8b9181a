// Package ethaddr validates and normalizes 20-byte account addresses.
package ethaddr

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Pattern is the JSON schema pattern for a hex-encoded address.
const Pattern = "^0x[0-9a-fA-F]{40}$"

// Valid reports whether s is 0x followed by 40 hex digits.
func Valid(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// Checksum returns the EIP-55 mixed-case form of address.
func Checksum(address string) (string, error) {
	if !Valid(address) {
		return "", fmt.Errorf("invalid address: %q", address)
	}
	lower := strings.ToLower(address[2:])

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if c >= 'a' && nibble&0x0f >= 8 {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return "0x" + string(out), nil
}

// Equal reports whether a and b name the same address regardless of case.
func Equal(a, b string) bool {
	return Valid(a) && Valid(b) && strings.EqualFold(a, b)
}
