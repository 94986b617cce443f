package security

import (
	"crypto/rand"
	"fmt"
)

// inviteAlphabet omits 0/O and 1/I/L so codes survive being read aloud.
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateInviteCode returns a random upper-case code of the given length.
func GenerateInviteCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	// reject bytes past the largest multiple of the alphabet size to stay unbiased
	limit := byte(256 - 256%len(inviteAlphabet))
	out := make([]byte, 0, length)
	buf := make([]byte, length*2)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, inviteAlphabet[int(b)%len(inviteAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
