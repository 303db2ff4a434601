package uid

import (
	"crypto/rand"
	"math/big"
)

const (
	// TokenLength is the number of characters of a generated token.
	TokenLength = 25

	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Token generates fixed-length alphanumeric tokens from crypto/rand.
type Token struct {
	length int
}

// NewToken returns a Token generator producing TokenLength characters.
func NewToken() *Token {
	return &Token{length: TokenLength}
}

// Generate returns a new random token.
//
// It panics when the system CSPRNG fails, as crypto/rand.Read does.
func (t *Token) Generate() string {
	limit := big.NewInt(int64(len(tokenAlphabet)))
	out := make([]byte, t.length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic("uid: crypto/rand failure: " + err.Error())
		}
		out[i] = tokenAlphabet[n.Int64()]
	}
	return string(out)
}
