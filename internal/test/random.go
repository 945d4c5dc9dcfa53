package test

import (
	"fmt"
	"math/rand/v2"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns a pseudo-random alphanumeric string with length in
// [minLen, maxLen].
func RandomString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + rand.IntN(maxLen-minLen+1)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(buf)
}

// RandomEmail returns a syntactically valid, lowercase address.
func RandomEmail() string {
	return fmt.Sprintf("%s@%s.test", RandomString(6, 12), RandomString(4, 8))
}
