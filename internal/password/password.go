// Package password generates credentials for registration flows.
package password

import (
	"crypto/rand"
	"math/big"
)

// DefaultLength is the generated password length.
const DefaultLength = 24

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	special   = "!@#$%^&*"
	charset   = lowercase + uppercase + digits + special
)

// Generate returns a random password of the given length containing at
// least one lowercase, uppercase, digit, and special character. Every
// choice, including the final shuffle, draws from crypto/rand. Lengths
// below 4 are raised to 4 so each class fits.
func Generate(length int) string {
	if length < 4 {
		length = 4
	}

	chars := make([]byte, 0, length)
	for _, class := range []string{lowercase, uppercase, digits, special} {
		chars = append(chars, class[randomIndex(len(class))])
	}
	for len(chars) < length {
		chars = append(chars, charset[randomIndex(len(charset))])
	}

	// Fisher-Yates so the mandatory class characters don't cluster at
	// the front.
	for i := len(chars) - 1; i > 0; i-- {
		j := randomIndex(i + 1)
		chars[i], chars[j] = chars[j], chars[i]
	}

	return string(chars)
}

func randomIndex(n int) int {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the platform entropy source is
		// broken; generating a predictable password would be worse than
		// stopping.
		panic("password: entropy source unavailable: " + err.Error())
	}
	return int(idx.Int64())
}
