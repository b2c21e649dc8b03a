package access

import (
	"crypto/rand"
	"strings"
)

// Alphabet excludes I, O, 0 and 1 so codes survive being read aloud or
// retyped from an email.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns a code in the form XXXX-XXXX-XXXX.
func GenerateCode() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic("access: crypto/rand unavailable: " + err.Error())
	}
	var b strings.Builder
	for i, c := range buf {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return b.String()
}
