package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// FingerprintToken возвращает hex SHA-256 от токена. В базе refresh-токены
// лежат только в виде отпечатков, сам токен знает лишь клиент.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// FingerprintMatches сравнивает сохраненный отпечаток с токеном в константное время.
func FingerprintMatches(stored, token string) bool {
	fingerprint := FingerprintToken(token)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(fingerprint)) == 1
}
