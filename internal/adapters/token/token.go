package token

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"householdhub/internal/domain"
)

const tokenLength = 32

var tokenAlphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

type generator struct{}

// NewGenerator returns a TokenGenerator producing random alphanumeric
// invitation tokens from crypto/rand.
func NewGenerator() domain.TokenGenerator {
	return &generator{}
}

func (g *generator) Generate() (string, error) {
	b := make([]rune, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < tokenLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b[i] = tokenAlphabet[n.Int64()]
	}
	return string(b), nil
}
