package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codePrefix   = "GS-"
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// CodeGenerator produces candidate order codes.
type CodeGenerator func() (string, error)

// NewCode returns GS- followed by six symbols drawn uniformly from A-Z0-9.
func NewCode() (string, error) {
	buf := make([]byte, 0, len(codePrefix)+codeLength)
	buf = append(buf, codePrefix...)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate order code: %w", err)
		}
		buf = append(buf, codeAlphabet[n.Int64()])
	}
	return string(buf), nil
}
