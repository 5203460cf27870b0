package util

import (
	"strings"

	"github.com/google/uuid"
)

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 9

	// Bytes at or above this value would bias the modulo toward the
	// start of the alphabet.
	idByteLimit = 256 - 256%len(idAlphabet)

	PrefixSubject  = "sub_"
	PrefixChapter  = "chap_"
	PrefixQuestion = "q_"
	PrefixResult   = "res_"
)

// NewID returns prefix followed by 9 random base-36 characters.
func NewID(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + idLength)
	b.WriteString(prefix)

	for n := 0; n < idLength; {
		raw := uuid.New()
		for i, c := range raw {
			// Byte 6 carries the version and byte 8 the variant.
			if i == 6 || i == 8 || int(c) >= idByteLimit {
				continue
			}
			b.WriteByte(idAlphabet[int(c)%len(idAlphabet)])
			if n++; n == idLength {
				break
			}
		}
	}
	return b.String()
}
