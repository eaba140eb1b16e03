// Package cryptox hashes and verifies account passwords with argon2id.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/snapgram/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltLen   = 16
	keyLen    = 32
	timeCost  = 1
	memoryKiB = 64 * 1024
	threads   = 4
)

var ErrMalformedHash = errors.New("malformed password hash")

var b64 = base64.RawStdEncoding

func deriveKey(password, salt []byte, t, m uint32, p uint8) []byte {
	return argon2.IDKey(password, salt, t, m, p, keyLen)
}

// HashPassword returns the PHC-style encoding of an argon2id hash of password
// with a fresh random salt:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
func HashPassword(password []byte) string {
	salt := common.GenerateRandByteArray(saltLen)
	key := deriveKey(password, salt, timeCost, memoryKiB, threads)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memoryKiB, timeCost, threads,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

// VerifyPassword reports whether password matches the encoded hash. The cost
// parameters are read from the encoding, so hashes made with older settings
// keep verifying.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false, ErrMalformedHash
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := b64.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey(password, salt, t, m, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
