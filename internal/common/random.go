package common

import (
	"crypto/rand"
	"math/big"
)

// tokenAlphabet is the character set for opaque tokens: 62 symbols,
// just under 6 bits of entropy per character.
const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MakeRandString generates a cryptographically random string of the given
// length drawn from tokenAlphabet. Each character is sampled independently
// with crypto/rand, so there is no modulo bias.
//
// Example:
//
//	s, err := MakeRandString(32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(s) // e.g., "hT8fKq2Lw9..."
//
// It returns an error if the random number generator fails.
func MakeRandString(length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = tokenAlphabet[n.Int64()]
	}
	return string(b), nil
}
