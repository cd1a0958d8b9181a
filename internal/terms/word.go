package terms

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Dan9191/debt-terms/internal/apperr"
)

// WordSize is the byte width of a packed terms word.
const WordSize = 32

// Pattern is the JSON schema pattern for a hex-encoded terms word.
const Pattern = "^0x[0-9a-fA-F]{64}$"

// Word is the packed, big-endian terms contract parameter value.
type Word [WordSize]byte

// Hex returns the word as 0x followed by 64 lowercase hex digits.
func (w Word) Hex() string {
	return "0x" + hex.EncodeToString(w[:])
}

func (w Word) String() string {
	return w.Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (w Word) MarshalText() ([]byte, error) {
	return []byte(w.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Word) UnmarshalText(text []byte) error {
	parsed, err := ParseWord(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ParseWord parses a 0x-prefixed hex string of exactly WordSize bytes.
func ParseWord(s string) (Word, error) {
	var w Word
	if !strings.HasPrefix(s, "0x") {
		return w, invalidPacked(s, "missing 0x prefix")
	}
	digits := s[2:]
	if len(digits) != WordSize*2 {
		return w, invalidPacked(s, fmt.Sprintf("expected %d hex digits, got %d", WordSize*2, len(digits)))
	}
	if _, err := hex.Decode(w[:], []byte(digits)); err != nil {
		return Word{}, invalidPacked(s, "contains non-hexadecimal characters")
	}
	return w, nil
}

func invalidPacked(value, reason string) error {
	return apperr.WithMetadata(apperr.CodeInvalidPackedParameters,
		fmt.Sprintf("invalid packed terms contract parameters: %s", reason),
		map[string]string{"value": value})
}
