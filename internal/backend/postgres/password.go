package postgres

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argonParams are the argon2id cost settings encoded into every hash.
type argonParams struct {
	memory     uint32
	iterations uint32
	threads    uint8
	keyLen     uint32
	saltLen    int
}

// passwordCost applies to new hashes. Existing hashes verify with whatever
// parameters they were written with.
var passwordCost = argonParams{memory: 64 * 1024, iterations: 3, threads: 4, keyLen: 32, saltLen: 16}

var b64std = base64.RawStdEncoding

// HashPassword returns a PHC-format argon2id hash for the auth_users table,
// e.g. $argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>.
func HashPassword(password string) (string, error) {
	p := passwordCost
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.threads, p.keyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.iterations, p.threads,
		b64std.EncodeToString(salt), b64std.EncodeToString(key)), nil
}

// verifyArgon2 reports whether password matches encoded. Anything that does
// not parse as an argon2id hash of the current version never matches.
func verifyArgon2(password, encoded string) bool {
	p, salt, key, err := decodeArgonHash(encoded)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(got, key) == 1
}

func decodeArgonHash(encoded string) (p argonParams, salt, key []byte, err error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("not an argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %q", fields[2])
	}

	var threads uint32
	n, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &threads)
	if err != nil || n != 3 || threads == 0 || threads > 255 {
		return p, nil, nil, fmt.Errorf("bad argon2 parameters %q", fields[3])
	}
	p.threads = uint8(threads)

	if salt, err = b64std.DecodeString(fields[4]); err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}
	if key, err = b64std.DecodeString(fields[5]); err != nil {
		return p, nil, nil, fmt.Errorf("decode key: %w", err)
	}
	if len(key) == 0 {
		return p, nil, nil, fmt.Errorf("empty argon2 key")
	}
	return p, salt, key, nil
}
