package services

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/yukikurage/staff-management-api/internal/utils"
	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltBytes    = 16
)

// HashPassword derives a salted scrypt hash stored as "<hex hash>.<hex salt>".
func HashPassword(password string) (string, error) {
	salt, err := utils.RandomHex(saltBytes)
	if err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + "." + salt, nil
}

// VerifyPassword reports whether candidate matches a value produced by HashPassword.
// Malformed stored values never match.
func VerifyPassword(candidate, stored string) bool {
	hashHex, salt, ok := strings.Cut(stored, ".")
	if !ok || hashHex == "" || salt == "" {
		return false
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil || len(expected) != scryptKeyLen {
		return false
	}
	key, err := scrypt.Key([]byte(candidate), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, expected) == 1
}
