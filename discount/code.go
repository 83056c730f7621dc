package discount

import (
	"crypto/rand"
	"math/big"
)

const (
	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length  = 10
	prefix  = "A6-"
)

func generateRandomString(length int, charset string) (string, error) {
	result := make([]byte, length)
	for i := range result {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}
	return string(result), nil
}

// generateCode builds a code starting with "A6-" followed by random characters.
func generateCode() (string, error) {
	randomPart, err := generateRandomString(length-len(prefix), charset)
	if err != nil {
		return "", err
	}
	return prefix + randomPart, nil
}
