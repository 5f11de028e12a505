package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

func SHA256Hex(s string) string {
	return SHA256HexBytes([]byte(s))
}

func SHA256HexBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
