package random

import (
	crand "crypto/rand"
	"math/big"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// StringSecure returns length characters drawn from crypto/rand.
func StringSecure(length int) (string, error) {
	b := make([]byte, length)
	l := big.NewInt(int64(len(charset)))
	for i := range b {
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

// TransactionID builds a locally generated transaction id such as
// "CC-7Q2M0Z4K9D1R8X5T3B6N".
func TransactionID(prefix string) (string, error) {
	s, err := StringSecure(20)
	if err != nil {
		return "", err
	}
	return prefix + s, nil
}
